package geodesy

import "testing"

func TestAreaIntersects(t *testing.T) {
	world := AreaOfUse{West: -180, South: -90, East: 180, North: 90}
	japan := AreaOfUse{West: 122, South: 20, East: 154, North: 46}
	conus := AreaOfUse{West: -125, South: 24, East: -66, North: 50}

	if !world.Intersects(japan) || !japan.Intersects(world) {
		t.Fatal("world must intersect any extent")
	}
	if japan.Intersects(conus) {
		t.Fatal("disjoint extents must not intersect")
	}
	if !japan.Intersects(japan) {
		t.Fatal("extent must intersect itself")
	}
}

func TestAreaAntimeridian(t *testing.T) {
	// Fiji-style extent crossing the antimeridian.
	fiji := AreaOfUse{West: 176, South: -21, East: -178, North: -12}
	eastOfLine := AreaOfUse{West: -180, South: -20, East: -179, North: -15}
	westOfLine := AreaOfUse{West: 177, South: -20, East: 179, North: -15}
	farAway := AreaOfUse{West: 0, South: -20, East: 10, North: -15}

	if !fiji.Intersects(eastOfLine) {
		t.Fatal("wrapping extent must reach across the antimeridian")
	}
	if !fiji.Intersects(westOfLine) {
		t.Fatal("wrapping extent must cover its western span")
	}
	if fiji.Intersects(farAway) {
		t.Fatal("wrapping extent must not cover unrelated longitudes")
	}
	if !fiji.Contains(eastOfLine) || !fiji.Contains(westOfLine) {
		t.Fatal("wrapping extent should contain spans on either side of the line")
	}
	if fiji.Contains(AreaOfUse{West: 170, South: -20, East: 179, North: -15}) {
		t.Fatal("span starting before the western edge is not contained")
	}
}

func TestAreaContainsLatitudeBounds(t *testing.T) {
	outer := AreaOfUse{West: -10, South: -10, East: 10, North: 10}
	if !outer.Contains(AreaOfUse{West: -5, South: -5, East: 5, North: 5}) {
		t.Fatal("inner extent should be contained")
	}
	if outer.Contains(AreaOfUse{West: -5, South: -5, East: 5, North: 15}) {
		t.Fatal("extent poking past the northern bound is not contained")
	}
}

func TestAreaIntersection(t *testing.T) {
	a := AreaOfUse{West: -10, South: 0, East: 10, North: 20}
	b := AreaOfUse{West: 0, South: 10, East: 30, North: 40}
	got, ok := a.Intersection(b)
	if !ok {
		t.Fatal("overlapping extents should intersect")
	}
	want := AreaOfUse{West: 0, South: 10, East: 10, North: 20}
	if got != want {
		t.Fatalf("intersection = %+v, want %+v", got, want)
	}

	if _, ok := a.Intersection(AreaOfUse{West: 50, South: 0, East: 60, North: 20}); ok {
		t.Fatal("disjoint extents must report no intersection")
	}

	// A wrapping extent clips to the widest single span.
	fiji := AreaOfUse{West: 176, South: -21, East: -178, North: -12}
	wide := AreaOfUse{West: 160, South: -30, East: 180, North: 0}
	got, ok = fiji.Intersection(wide)
	if !ok {
		t.Fatal("extents should intersect")
	}
	if got.West != 176 || got.East != 180 || got.South != -21 || got.North != -12 {
		t.Fatalf("clipped intersection = %+v", got)
	}
}
