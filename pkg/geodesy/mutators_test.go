package geodesy

import (
	"errors"
	"testing"
)

func testProjectedCRS() *ProjectedCRS {
	return NewProjectedCRS(
		NewObjectInfo("WGS 84 / UTM zone 31N", Identifier{"EPSG", "32631"}),
		WGS84Geographic2D(),
		NewConversionUTM(31, true),
		CartesianCSEastNorth(UnitMetre),
	)
}

func TestRenameAppliesDeprecationNormalization(t *testing.T) {
	crs, err := RenameCRS(testProjectedCRS(), "new name (deprecated)")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if crs.Info().Name() != "new name" {
		t.Fatalf("name = %q, want %q", crs.Info().Name(), "new name")
	}
	if !crs.Info().Deprecated() {
		t.Fatal("deprecated flag should be set")
	}

	plain, err := RenameCRS(testProjectedCRS(), "new name")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if plain.Info().Deprecated() {
		t.Fatal("plain rename must not deprecate")
	}
}

func TestSubstituteGeodeticCRS(t *testing.T) {
	replacement := BuildGeographicCRS("replacement", "datum", "ellps",
		6378137, 298.25, "Greenwich", 0, UnitDegree, EllipsoidalCS2DLonLat(UnitDegree))

	// Geodetic input returns the replacement itself.
	out, err := SubstituteGeodeticCRS(WGS84Geographic2D(), replacement)
	if err != nil {
		t.Fatalf("substitute: %v", err)
	}
	if !EqualStrict(out, replacement) {
		t.Fatal("geodetic substitution should yield the replacement")
	}

	// Projected input swaps the base and keeps everything else.
	proj := testProjectedCRS()
	deprecated, err := RenameCRS(proj, "renamed (deprecated)")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	altered, err := SubstituteGeodeticCRS(deprecated, replacement)
	if err != nil {
		t.Fatalf("substitute projected: %v", err)
	}
	alteredProj, ok := altered.(*ProjectedCRS)
	if !ok {
		t.Fatalf("result type %T, want *ProjectedCRS", altered)
	}
	if !EqualStrict(alteredProj.BaseCRS(), replacement) {
		t.Fatal("base CRS was not substituted")
	}
	if alteredProj.Info().Name() != "renamed" || !alteredProj.Info().Deprecated() {
		t.Fatalf("identification not preserved: name=%q deprecated=%v",
			alteredProj.Info().Name(), alteredProj.Info().Deprecated())
	}

	// Vertical input has no geodetic component.
	if _, err := SubstituteGeodeticCRS(BuildVerticalCRS("v", "vd", UnitMetre), replacement); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestChangeAngularUnit(t *testing.T) {
	myUnit := UnitOfMeasure{Name: "my unit", Kind: UnitAngular, Factor: 2}
	out, err := ChangeAngularUnit(WGS84Geographic2D(), myUnit)
	if err != nil {
		t.Fatalf("change unit: %v", err)
	}
	cs, ok := CoordinateSystemOf(out)
	if !ok {
		t.Fatal("no coordinate system")
	}
	axis, err := cs.AxisAt(0)
	if err != nil {
		t.Fatalf("axis: %v", err)
	}
	if axis.Unit.Name != "my unit" || axis.Unit.Factor != 2 {
		t.Fatalf("axis unit = %+v", axis.Unit)
	}
}

func TestChangeLinearUnit(t *testing.T) {
	myUnit := UnitOfMeasure{Name: "my unit", Kind: UnitLinear, Factor: 2}
	out, err := ChangeLinearUnit(testProjectedCRS(), myUnit)
	if err != nil {
		t.Fatalf("change unit: %v", err)
	}
	cs, _ := CoordinateSystemOf(out)
	axis, err := cs.AxisAt(0)
	if err != nil {
		t.Fatalf("axis: %v", err)
	}
	if axis.Unit.Name != "my unit" || axis.Unit.Factor != 2 {
		t.Fatalf("axis unit = %+v", axis.Unit)
	}
}

func TestChangeParameterLinearUnit(t *testing.T) {
	myUnit := UnitOfMeasure{Name: "my unit", Kind: UnitLinear, Factor: 2}

	keep, err := ChangeParameterLinearUnit(testProjectedCRS(), myUnit, false)
	if err != nil {
		t.Fatalf("change parameters: %v", err)
	}
	idx := keep.Conversion().ParameterIndex("False easting")
	p, err := keep.Conversion().ParameterAt(idx)
	if err != nil {
		t.Fatalf("parameter: %v", err)
	}
	if v, u, _ := p.Value(); v != 500000 || u.Name != "my unit" {
		t.Fatalf("kept value = %v %q, want 500000 my unit", v, u.Name)
	}

	scaled, err := ChangeParameterLinearUnit(testProjectedCRS(), myUnit, true)
	if err != nil {
		t.Fatalf("change parameters: %v", err)
	}
	p, _ = scaled.Conversion().ParameterAt(idx)
	if v, _, _ := p.Value(); v != 250000 {
		t.Fatalf("rescaled value = %v, want 250000", v)
	}
}

func TestConvertConversionToMethodRoundTrip(t *testing.T) {
	orig := NewConversionMercatorVariantA(0, 1, 0.99, 2, 3, UnitDegree, UnitMetre)

	b, err := ConvertConversionToMethod(orig, MethodMercatorB)
	if err != nil {
		t.Fatalf("to variant B by code: %v", err)
	}
	bByName, err := ConvertConversionToMethod(orig, MethodNameMercatorB)
	if err != nil {
		t.Fatalf("to variant B by name: %v", err)
	}
	if !EqualStrict(b, bByName) {
		t.Fatal("conversion by code and by name should agree strictly")
	}

	back, err := ConvertConversionToMethod(b, MethodNameMercatorA)
	if err != nil {
		t.Fatalf("back to variant A: %v", err)
	}
	if !EqualStrict(orig, back) {
		t.Fatal("round trip should restore the original conversion")
	}

	if _, err := ConvertConversionToMethod(orig, ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty method: err = %v, want ErrInvalidArgument", err)
	}
	if _, err := ConvertConversionToMethod(orig, MethodNameTransverseMercator); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("ineligible method: err = %v, want ErrInvalidArgument", err)
	}
}

func TestConcatenatedAccuracy(t *testing.T) {
	src := WGS84Geographic2D()
	mid := BuildGeographicCRS("mid", "d", "e", 6378137, 298.25, "Greenwich", 0, UnitDegree, EllipsoidalCS2DLatLon(UnitDegree))
	dst := BuildGeographicCRS("dst", "d2", "e2", 6378137, 298.3, "Greenwich", 0, UnitDegree, EllipsoidalCS2DLatLon(UnitDegree))
	method := NewOperationMethod(NewObjectInfo("Geocentric translations", Identifier{"EPSG", "9603"}))

	legA := NewTransformation(NewObjectInfo("A to mid"), src, mid, method, nil).WithAccuracy(1.5)
	legB := NewTransformation(NewObjectInfo("mid to B"), mid, dst, method, nil).WithAccuracy(2)

	op, err := NewConcatenatedOperation(ObjectInfo{}, []CoordinateOperation{legA, legB})
	if err != nil {
		t.Fatalf("concatenate: %v", err)
	}
	if op.Info().Name() != "A to mid + mid to B" {
		t.Fatalf("derived name = %q", op.Info().Name())
	}
	if acc, ok := op.Accuracy(); !ok || acc != 3.5 {
		t.Fatalf("accuracy = %v,%v want 3.5,true", acc, ok)
	}

	unknown := NewTransformation(NewObjectInfo("no accuracy"), mid, dst, method, nil)
	op2, err := NewConcatenatedOperation(ObjectInfo{}, []CoordinateOperation{legA, unknown})
	if err != nil {
		t.Fatalf("concatenate: %v", err)
	}
	if _, ok := op2.Accuracy(); ok {
		t.Fatal("unknown leg accuracy must make the composition unknown")
	}
}

func TestTransformationInverseNaming(t *testing.T) {
	method := NewOperationMethod(NewObjectInfo("Geocentric translations", Identifier{"EPSG", "9603"}))
	fwd := NewTransformation(NewObjectInfo("Tokyo to WGS 84 (108)"), nil, nil, method, nil).WithAccuracy(5)
	inv := fwd.Inverse()
	if inv.Info().Name() != "Inverse of Tokyo to WGS 84 (108)" {
		t.Fatalf("inverse name = %q", inv.Info().Name())
	}
	if acc, ok := inv.Accuracy(); !ok || acc != 5 {
		t.Fatalf("inverse accuracy = %v,%v", acc, ok)
	}
	if back := inv.Inverse(); back.Info().Name() != "Tokyo to WGS 84 (108)" {
		t.Fatalf("double inverse name = %q", back.Info().Name())
	}
}
