package geodesy

import (
	"math"
	"testing"
)

func TestEllipsoidDerivedSemiMinor(t *testing.T) {
	e := WGS84Ellipsoid()
	if got := e.SemiMajor(); got != 6378137 {
		t.Fatalf("semi-major = %v, want 6378137", got)
	}
	if got := e.InverseFlattening(); got != 298.257223563 {
		t.Fatalf("inverse flattening = %v, want 298.257223563", got)
	}
	if diff := math.Abs(e.SemiMinor() - 6356752.31424518); diff > 1e-9 {
		t.Fatalf("semi-minor = %.12f, off by %g", e.SemiMinor(), diff)
	}
	if !e.SemiMinorComputed() {
		t.Fatal("semi-minor should be flagged computed")
	}
}

func TestEllipsoidFromSemiMinor(t *testing.T) {
	e := NewEllipsoidFromSemiMinor(NewObjectInfo("WGS 84"), 6378137, 6356752.31424518, UnitMetre)
	if e.SemiMinorComputed() {
		t.Fatal("supplied semi-minor must not be flagged computed")
	}
	if diff := math.Abs(e.InverseFlattening() - 298.257223563); diff > 1e-6 {
		t.Fatalf("derived inverse flattening = %v, off by %g", e.InverseFlattening(), diff)
	}
}

func TestEllipsoidSphere(t *testing.T) {
	e := NewEllipsoid(NewObjectInfo("sphere"), 6371000, 0, UnitMetre)
	if !e.IsSphere() {
		t.Fatal("zero inverse flattening should mean sphere")
	}
	if e.SemiMinor() != e.SemiMajor() {
		t.Fatalf("sphere semi-minor = %v, want %v", e.SemiMinor(), e.SemiMajor())
	}
}

func TestPrimeMeridianParameters(t *testing.T) {
	pm := GreenwichMeridian()
	if pm.Longitude() != 0 {
		t.Fatalf("Greenwich longitude = %v", pm.Longitude())
	}
	if diff := math.Abs(pm.Unit().Factor - 0.017453292519943295); diff > 1e-10 {
		t.Fatalf("degree factor off by %g", diff)
	}
	if pm.Unit().Name != "degree" {
		t.Fatalf("unit name = %q, want degree", pm.Unit().Name)
	}
}
