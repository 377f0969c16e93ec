package projstr

import (
	"errors"
	"testing"

	"crskit/pkg/geodesy"
)

func mustParse(t *testing.T, text string) geodesy.Object {
	t.Helper()
	obj, err := Parse(text)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	return obj
}

func mustFormat(t *testing.T, obj geodesy.Object, style Style, opts Options) string {
	t.Helper()
	out, err := Format(obj, style, opts)
	if err != nil {
		t.Fatalf("format %s: %v", style, err)
	}
	return out
}

func TestFormatGeographicFlat(t *testing.T) {
	out := mustFormat(t, geodesy.WGS84Geographic2D(), Proj4, DefaultOptions())
	if out != "+proj=longlat +datum=WGS84 +no_defs" {
		t.Fatalf("flat output = %q", out)
	}
}

func TestFormatGeographicPipeline(t *testing.T) {
	want := "+proj=pipeline +step +proj=longlat +ellps=WGS84 " +
		"+step +proj=unitconvert +xy_in=rad +xy_out=deg " +
		"+step +proj=axisswap +order=2,1"
	out := mustFormat(t, geodesy.WGS84Geographic2D(), Proj5, DefaultOptions())
	if out != want {
		t.Fatalf("pipeline output:\n got %s\nwant %s", out, want)
	}
}

func TestFormatETMercOption(t *testing.T) {
	obj := mustParse(t, "+proj=tmerc")
	opts, err := ParseOptions([]string{"USE_ETMERC=YES"})
	if err != nil {
		t.Fatalf("parse options: %v", err)
	}
	out := mustFormat(t, obj, Proj4, opts)
	want := "+proj=etmerc +lat_0=0 +lon_0=0 +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs"
	if out != want {
		t.Fatalf("etmerc output:\n got %s\nwant %s", out, want)
	}
}

func TestFormatUTMSpellings(t *testing.T) {
	obj := mustParse(t, "+proj=utm +zone=31")

	out := mustFormat(t, obj, Proj4, DefaultOptions())
	if out != "+proj=utm +zone=31 +datum=WGS84 +units=m +no_defs" {
		t.Fatalf("default output = %q", out)
	}

	opts, err := ParseOptions([]string{"USE_ETMERC=NO"})
	if err != nil {
		t.Fatalf("parse options: %v", err)
	}
	out = mustFormat(t, obj, Proj4, opts)
	want := "+proj=tmerc +lat_0=0 +lon_0=3 +k=0.9996 +x_0=500000 +y_0=0 +datum=WGS84 +units=m +no_defs"
	if out != want {
		t.Fatalf("expanded output:\n got %s\nwant %s", out, want)
	}
}

func TestFormatBoundGeographicShift(t *testing.T) {
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
	bound := geodesy.NewBoundCRS(base, hub, tr)

	out := mustFormat(t, bound, Proj4, DefaultOptions())
	want := "+proj=longlat +ellps=clrk80ign +pm=paris +towgs84=-168,-60,320 +no_defs"
	if out != want {
		t.Fatalf("bound output:\n got %s\nwant %s", out, want)
	}

	_, err := Format(bound, Proj5, DefaultOptions())
	var unrep *UnrepresentableError
	if !errors.As(err, &unrep) {
		t.Fatalf("pipeline err = %v, want *UnrepresentableError", err)
	}
}

func TestFormatTransformationFlatFails(t *testing.T) {
	tr := mustParse(t, "+proj=helmert +x=1 +y=2 +z=3")
	_, err := Format(tr, Proj4, DefaultOptions())
	var unrep *UnrepresentableError
	if !errors.As(err, &unrep) {
		t.Fatalf("err = %v, want *UnrepresentableError", err)
	}
}

func TestFormatTransformationPipeline(t *testing.T) {
	tr := mustParse(t, "+proj=helmert +x=1 +y=2 +z=3")
	out := mustFormat(t, tr, Proj5, DefaultOptions())
	if out != "+proj=pipeline +step +proj=helmert +x=1 +y=2 +z=3" {
		t.Fatalf("helmert output = %q", out)
	}

	shift := mustParse(t, "+proj=hgridshift +grids=ntv1_can.dat")
	out = mustFormat(t, shift, Proj5, DefaultOptions())
	if out != "+proj=pipeline +step +proj=hgridshift +grids=ntv1_can.dat" {
		t.Fatalf("grid shift output = %q", out)
	}
}

func TestParseOptionsFailsClosed(t *testing.T) {
	if _, err := ParseOptions([]string{"UNSUPPORTED=YES"}); err == nil {
		t.Fatal("unknown option must fail")
	}
	if _, err := ParseOptions([]string{"USE_ETMERC=MAYBE"}); err == nil {
		t.Fatal("bad USE_ETMERC value must fail")
	}
	if _, err := ParseOptions([]string{"USE_ETMERC"}); err == nil {
		t.Fatal("option without value must fail")
	}
}
