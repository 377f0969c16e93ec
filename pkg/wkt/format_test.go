package wkt

import (
	"errors"
	"strings"
	"testing"

	"crskit/pkg/geodesy"
)

const agd66WKT1 = `GEOGCS["AGD66",DATUM["Australian_Geodetic_Datum_1966",` +
	`SPHEROID["Australian National Spheroid",6378160,298.25]],` +
	`PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]]`

func mustFormat(t *testing.T, obj geodesy.Object, dialect Dialect) string {
	t.Helper()
	out, err := Format(obj, dialect, DefaultOptions(dialect))
	if err != nil {
		t.Fatalf("format %s: %v", dialect, err)
	}
	return out
}

func TestFormatDialectLeadingTokens(t *testing.T) {
	crs := geodesy.WGS84Geographic2D()

	out := mustFormat(t, crs, WKT22018)
	if !strings.HasPrefix(out, `GEOGCRS["WGS 84"`) {
		t.Fatalf("2018 output starts %q", out[:30])
	}
	if !strings.Contains(out, "ANGLEUNIT[") {
		t.Fatal("2018 output should carry per-axis angle units")
	}

	out = mustFormat(t, crs, WKT22018Simplified)
	if !strings.HasPrefix(out, `GEOGCRS["WGS 84"`) {
		t.Fatalf("2018 simplified output starts %q", out[:30])
	}
	if strings.Contains(out, "ANGLEUNIT[") || strings.Contains(out, "ANGULARUNIT[") {
		t.Fatal("simplified output must not carry angular unit nodes")
	}
	if strings.Contains(out, "ID[") {
		t.Fatal("simplified output must not carry ID nodes")
	}

	out = mustFormat(t, crs, WKT22015)
	if !strings.HasPrefix(out, `GEODCRS["WGS 84"`) {
		t.Fatalf("2015 output starts %q", out[:30])
	}
	if !strings.Contains(out, "ANGULARUNIT[") {
		t.Fatal("2015 output should spell the angular unit keyword the 2015 way")
	}

	out = mustFormat(t, crs, WKT22015Simplified)
	if !strings.HasPrefix(out, `GEODCRS["WGS 84"`) {
		t.Fatalf("2015 simplified output starts %q", out[:30])
	}
	if strings.Contains(out, "ANGULARUNIT[") {
		t.Fatal("2015 simplified output must not carry angular unit nodes")
	}

	out = mustFormat(t, crs, WKT1GDAL)
	if !strings.HasPrefix(out, `GEOGCS["WGS 84"`) {
		t.Fatalf("GDAL output starts %q", out[:30])
	}

	out = mustFormat(t, crs, WKT1ESRI)
	if !strings.HasPrefix(out, `GEOGCS["GCS_WGS_1984"`) {
		t.Fatalf("ESRI output starts %q", out[:30])
	}
}

func TestFormatOptionEnforcement(t *testing.T) {
	crs := geodesy.WGS84Geographic2D()

	opts, err := ParseOptions(WKT1GDAL, []string{"MULTILINE=NO"})
	if err != nil {
		t.Fatalf("parse options: %v", err)
	}
	out, err := Format(crs, WKT1GDAL, opts)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if strings.Contains(out, "\n") {
		t.Fatal("MULTILINE=NO output must not contain line breaks")
	}

	opts, err = ParseOptions(WKT1GDAL, []string{"INDENTATION_WIDTH=2"})
	if err != nil {
		t.Fatalf("parse options: %v", err)
	}
	out, err = Format(crs, WKT1GDAL, opts)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(out, "\n  DATUM") {
		t.Fatalf("two-space indent missing, output:\n%s", out)
	}

	for _, axisMode := range []string{"OUTPUT_AXIS=NO", "OUTPUT_AXIS=AUTO"} {
		opts, err = ParseOptions(WKT1GDAL, []string{axisMode})
		if err != nil {
			t.Fatalf("parse options: %v", err)
		}
		out, err = Format(crs, WKT1GDAL, opts)
		if err != nil {
			t.Fatalf("format: %v", err)
		}
		if strings.Contains(out, "AXIS") {
			t.Fatalf("%s output must not contain axis nodes", axisMode)
		}
	}

	opts, err = ParseOptions(WKT1GDAL, []string{"OUTPUT_AXIS=YES"})
	if err != nil {
		t.Fatalf("parse options: %v", err)
	}
	out, err = Format(crs, WKT1GDAL, opts)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(out, "AXIS") {
		t.Fatal("OUTPUT_AXIS=YES output must contain axis nodes")
	}

	if _, err := ParseOptions(WKT22018, []string{"unsupported=yes"}); err == nil {
		t.Fatal("unknown option must fail closed")
	}
}

func TestFormatESRIUsesRegistrySpellings(t *testing.T) {
	obj, err := Parse(agd66WKT1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := Format(obj, WKT1ESRI, DefaultOptions(WKT1ESRI))
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	want := `GEOGCS["GCS_Australian_1966",DATUM["D_Australian_1966",` +
		`SPHEROID["Australian",6378160.0,298.25]],` +
		`PRIMEM["Greenwich",0.0],` +
		`UNIT["Degree",0.0174532925199433]]`
	if out != want {
		t.Fatalf("esri output:\n got %s\nwant %s", out, want)
	}
}

func testBoundCRS() *geodesy.BoundCRS {
	base := geodesy.BuildGeographicCRS("NTF (Paris)", "Nouvelle Triangulation Francaise (Paris)",
		"Clarke 1880 (IGN)", 6378249.2, 293.466021293627, "Paris", 2.5969213,
		geodesy.UnitGrad, geodesy.EllipsoidalCS2DLatLon(geodesy.UnitDegree))
	hub := geodesy.WGS84Geographic2D()
	method := geodesy.NewOperationMethod(geodesy.NewObjectInfo("Geocentric translations (geog2D domain)",
		geodesy.Identifier{Authority: "EPSG", Code: "9603"}))
	params := []geodesy.Parameter{
		geodesy.NewParameter("X-axis translation", geodesy.Identifier{Authority: "EPSG", Code: "8605"}, -168, geodesy.UnitMetre),
		geodesy.NewParameter("Y-axis translation", geodesy.Identifier{Authority: "EPSG", Code: "8606"}, -60, geodesy.UnitMetre),
		geodesy.NewParameter("Z-axis translation", geodesy.Identifier{Authority: "EPSG", Code: "8607"}, 320, geodesy.UnitMetre),
	}
	tr := geodesy.NewTransformation(geodesy.NewObjectInfo("NTF (Paris) to WGS 84"), base, hub, method, params)
	return geodesy.NewBoundCRS(base, hub, tr)
}

func TestBoundCRSUnrepresentableInWKT1(t *testing.T) {
	bound := testBoundCRS()
	for _, dialect := range []Dialect{WKT1GDAL, WKT1ESRI} {
		_, err := Format(bound, dialect, DefaultOptions(dialect))
		var unrep *UnrepresentableError
		if !errors.As(err, &unrep) {
			t.Fatalf("%s: err = %v, want *UnrepresentableError", dialect, err)
		}
	}
}

func TestRoundTripGeographic(t *testing.T) {
	crs := geodesy.WGS84Geographic2D()
	for _, dialect := range []Dialect{WKT22018, WKT22018Simplified, WKT22015, WKT22015Simplified, WKT1GDAL, WKT1ESRI} {
		t.Run(string(dialect), func(t *testing.T) {
			out := mustFormat(t, crs, dialect)
			back, err := Parse(out)
			if err != nil {
				t.Fatalf("parse back: %v", err)
			}
			if !geodesy.EqualEquivalent(crs, back) {
				t.Fatalf("round trip not equivalent, text:\n%s", out)
			}
		})
	}
}

func TestRoundTripProjected(t *testing.T) {
	crs := geodesy.NewProjectedCRS(
		geodesy.NewObjectInfo("WGS 84 / UTM zone 31N", geodesy.Identifier{Authority: "EPSG", Code: "32631"}),
		geodesy.WGS84Geographic2D(),
		geodesy.NewConversionUTM(31, true),
		geodesy.CartesianCSEastNorth(geodesy.UnitMetre),
	)
	for _, dialect := range []Dialect{WKT22018, WKT22015, WKT1GDAL} {
		t.Run(string(dialect), func(t *testing.T) {
			out := mustFormat(t, crs, dialect)
			back, err := Parse(out)
			if err != nil {
				t.Fatalf("parse back: %v", err)
			}
			if !geodesy.EqualEquivalent(crs, back) {
				t.Fatalf("round trip not equivalent, text:\n%s", out)
			}
		})
	}
}

func TestRoundTripBoundCRS(t *testing.T) {
	bound := testBoundCRS()
	out := mustFormat(t, bound, WKT22018)
	if !strings.HasPrefix(out, "BOUNDCRS[") {
		t.Fatalf("bound output starts %q", out[:20])
	}
	back, err := Parse(out)
	if err != nil {
		t.Fatalf("parse back: %v", err)
	}
	if !geodesy.EqualEquivalent(bound, back) {
		t.Fatal("bound CRS round trip not equivalent")
	}
}

func TestRoundTripVerticalAndCompound(t *testing.T) {
	vert := geodesy.BuildVerticalCRS("EGM2008 height", "EGM2008 geoid", geodesy.UnitMetre)
	compound := geodesy.NewCompoundCRS(geodesy.NewObjectInfo("WGS 84 + EGM2008 height"),
		geodesy.WGS84Geographic2D(), vert)
	for _, dialect := range []Dialect{WKT22018, WKT1GDAL} {
		t.Run(string(dialect), func(t *testing.T) {
			out := mustFormat(t, compound, dialect)
			back, err := Parse(out)
			if err != nil {
				t.Fatalf("parse back: %v", err)
			}
			if !geodesy.EqualEquivalent(compound, back) {
				t.Fatalf("round trip not equivalent, text:\n%s", out)
			}
		})
	}
}
