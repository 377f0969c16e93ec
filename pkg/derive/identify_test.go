package derive

import (
	"context"
	"testing"

	"crskit/pkg/geodesy"
	"crskit/pkg/registry"
)

func TestIdentifyExactMatch(t *testing.T) {
	reg := openRegistry(t, registry.Options{})

	matches, err := Identify(context.Background(), reg, geodesy.WGS84Geographic2D(), "")
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("Identify returned %d matches, want 3", len(matches))
	}
	best := matches[0]
	if best.Confidence != ConfidenceExact {
		t.Fatalf("best confidence = %d, want %d", best.Confidence, ConfidenceExact)
	}
	if !geodesy.HasIdentifier(best.Object, geodesy.Identifier{Authority: "EPSG", Code: "4326"}) {
		t.Fatalf("best match is %s, want EPSG:4326", geodesy.NameOf(best.Object))
	}
	// The 3D and geocentric entries share the name but not the structure.
	for _, m := range matches[1:] {
		if m.Confidence != ConfidenceNameOnly {
			t.Fatalf("secondary confidence = %d, want %d", m.Confidence, ConfidenceNameOnly)
		}
	}
}

func TestIdentifyDivergentMetadata(t *testing.T) {
	reg := openRegistry(t, registry.Options{})

	renamed, err := geodesy.RenameCRS(geodesy.WGS84Geographic2D(), "My hand-built geographic CRS")
	if err != nil {
		t.Fatalf("RenameCRS: %v", err)
	}
	matches, err := Identify(context.Background(), reg, renamed, "")
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Identify returned %d matches, want 1", len(matches))
	}
	if matches[0].Confidence != ConfidenceEquivalent {
		t.Fatalf("confidence = %d, want %d", matches[0].Confidence, ConfidenceEquivalent)
	}
	if !geodesy.HasIdentifier(matches[0].Object, geodesy.Identifier{Authority: "EPSG", Code: "4326"}) {
		t.Fatalf("match is %s, want EPSG:4326", geodesy.NameOf(matches[0].Object))
	}
}

func TestIdentifyNonCRS(t *testing.T) {
	reg := openRegistry(t, registry.Options{})

	matches, err := Identify(context.Background(), reg, geodesy.WGS84Ellipsoid(), "")
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("non-CRS input produced %d matches", len(matches))
	}
}

func TestIdentifyAuthorityScope(t *testing.T) {
	reg := openRegistry(t, registry.Options{})

	matches, err := Identify(context.Background(), reg, geodesy.WGS84Geographic2D(), "ESRI")
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("ESRI scope produced %d matches, want 0", len(matches))
	}
}
