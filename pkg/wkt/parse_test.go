package wkt

import (
	"errors"
	"math"
	"testing"

	"crskit/pkg/geodesy"
)

func TestParseRejectsNonWKT(t *testing.T) {
	for _, text := range []string{"invalid", "", "GEOGCRS[", `GEOGCRS["unterminated`} {
		obj, err := Parse(text)
		if err == nil {
			t.Fatalf("Parse(%q) succeeded with %T", text, obj)
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("Parse(%q) err = %v, want *ParseError", text, err)
		}
	}
}

func TestParseWKT2Geographic(t *testing.T) {
	text := `GEOGCRS["WGS 84",
    DATUM["World Geodetic System 1984",
        ELLIPSOID["WGS 84",6378137,298.257223563,
            LENGTHUNIT["metre",1]]],
    PRIMEM["Greenwich",0,
        ANGLEUNIT["degree",0.0174532925199433]],
    CS[ellipsoidal,2],
        AXIS["geodetic latitude (Lat)",north,
            ORDER[1],
            ANGLEUNIT["degree",0.0174532925199433]],
        AXIS["geodetic longitude (Lon)",east,
            ORDER[2],
            ANGLEUNIT["degree",0.0174532925199433]],
    ID["EPSG",4326]]`
	obj, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	crs, ok := obj.(*geodesy.GeodeticCRS)
	if !ok {
		t.Fatalf("parsed %T, want *geodesy.GeodeticCRS", obj)
	}
	if crs.Kind() != geodesy.KindGeographic2D {
		t.Fatalf("kind = %s", crs.Kind())
	}
	if !geodesy.HasIdentifier(crs, geodesy.Identifier{Authority: "EPSG", Code: "4326"}) {
		t.Fatal("identifier EPSG:4326 not retained")
	}
	e := crs.Datum().Ellipsoid()
	if e.SemiMajor() != 6378137 || e.InverseFlattening() != 298.257223563 {
		t.Fatalf("ellipsoid a=%v rf=%v", e.SemiMajor(), e.InverseFlattening())
	}
	if diff := math.Abs(e.SemiMinor() - 6356752.31424518); diff > 1e-9 {
		t.Fatalf("semi-minor off by %g", diff)
	}
	axis, err := crs.CoordinateSystem().AxisAt(0)
	if err != nil {
		t.Fatalf("axis: %v", err)
	}
	if axis.Direction != geodesy.DirNorth || axis.Abbreviation != "Lat" {
		t.Fatalf("first axis = %+v", axis)
	}
}

func TestParseWKT1CanonicalizesNames(t *testing.T) {
	obj, err := Parse(agd66WKT1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	crs := obj.(*geodesy.GeodeticCRS)
	if got := geodesy.NameOf(crs.Datum()); got != "Australian Geodetic Datum 1966" {
		t.Fatalf("datum name = %q", got)
	}
	e := crs.Datum().Ellipsoid()
	if e.SemiMajor() != 6378160 || e.InverseFlattening() != 298.25 {
		t.Fatalf("ellipsoid a=%v rf=%v", e.SemiMajor(), e.InverseFlattening())
	}
}

func TestParseWKT1Projected(t *testing.T) {
	text := `PROJCS["WGS 84 / UTM zone 31N",` +
		`GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],` +
		`PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]],` +
		`PROJECTION["Transverse_Mercator"],` +
		`PARAMETER["latitude_of_origin",0],PARAMETER["central_meridian",3],` +
		`PARAMETER["scale_factor",0.9996],PARAMETER["false_easting",500000],` +
		`PARAMETER["false_northing",0],UNIT["metre",1],` +
		`AUTHORITY["EPSG","32631"]]`
	obj, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	crs, ok := obj.(*geodesy.ProjectedCRS)
	if !ok {
		t.Fatalf("parsed %T, want *geodesy.ProjectedCRS", obj)
	}
	conv := crs.Conversion()
	if !geodesy.HasIdentifier(conv.Method(), geodesy.Identifier{Authority: "EPSG", Code: geodesy.MethodTransverseMercator}) {
		t.Fatalf("method = %q", geodesy.NameOf(conv.Method()))
	}
	idx := conv.ParameterIndex("Longitude of natural origin")
	if idx < 0 {
		t.Fatal("central meridian parameter missing")
	}
	p, err := conv.ParameterAt(idx)
	if err != nil {
		t.Fatalf("parameter: %v", err)
	}
	if v, unit, _ := p.Value(); v != 3 || unit.Kind != geodesy.UnitAngular {
		t.Fatalf("central meridian = %v %s", v, unit.Name)
	}
	reference := geodesy.NewProjectedCRS(geodesy.NewObjectInfo("WGS 84 / UTM zone 31N"),
		geodesy.WGS84Geographic2D(), geodesy.NewConversionUTM(31, true),
		geodesy.CartesianCSEastNorth(geodesy.UnitMetre))
	if !geodesy.EqualEquivalent(crs, reference) {
		t.Fatal("parsed PROJCS should be equivalent to the built UTM 31N CRS")
	}
}

func TestParseStandaloneObjects(t *testing.T) {
	obj, err := Parse(`ELLIPSOID["GRS 1980",6378137,298.257222101,LENGTHUNIT["metre",1],ID["EPSG",7019]]`)
	if err != nil {
		t.Fatalf("parse ellipsoid: %v", err)
	}
	e, ok := obj.(geodesy.Ellipsoid)
	if !ok {
		t.Fatalf("parsed %T, want geodesy.Ellipsoid", obj)
	}
	if e.InverseFlattening() != 298.257222101 {
		t.Fatalf("rf = %v", e.InverseFlattening())
	}

	obj, err = Parse(`PRIMEM["Paris",2.5969213,ANGLEUNIT["grad",0.015707963267949]]`)
	if err != nil {
		t.Fatalf("parse primem: %v", err)
	}
	pm, ok := obj.(geodesy.PrimeMeridian)
	if !ok {
		t.Fatalf("parsed %T, want geodesy.PrimeMeridian", obj)
	}
	if pm.Longitude() != 2.5969213 || pm.Unit().Kind != geodesy.UnitAngular {
		t.Fatalf("primem = %v %s", pm.Longitude(), pm.Unit().Name)
	}
}

func TestParseCoordinateOperation(t *testing.T) {
	text := `COORDINATEOPERATION["NAD27 to NAD83 (3)",
    METHOD["NADCON",ID["EPSG",9613]],
    PARAMETERFILE["Latitude difference file","conus.las"],
    OPERATIONACCURACY[0.15],
    ID["EPSG",1313]]`
	obj, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tr, ok := obj.(geodesy.Transformation)
	if !ok {
		t.Fatalf("parsed %T, want geodesy.Transformation", obj)
	}
	if acc, known := tr.Accuracy(); !known || acc != 0.15 {
		t.Fatalf("accuracy = %v,%v", acc, known)
	}
	params := tr.Parameters()
	if len(params) != 1 {
		t.Fatalf("params = %d", len(params))
	}
	if file, ok := params[0].StringValue(); !ok || file != "conus.las" {
		t.Fatalf("grid parameter = %q,%v", file, ok)
	}
}
