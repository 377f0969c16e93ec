package geodesy

import "fmt"

// WGS84Ellipsoid returns EPSG:7030.
func WGS84Ellipsoid() Ellipsoid {
	return NewEllipsoid(NewObjectInfo("WGS 84", Identifier{"EPSG", "7030"}), 6378137, 298.257223563, UnitMetre)
}

// GreenwichMeridian returns EPSG:8901.
func GreenwichMeridian() PrimeMeridian {
	return NewPrimeMeridian(NewObjectInfo("Greenwich", Identifier{"EPSG", "8901"}), 0, UnitDegree)
}

// WGS84Frame returns EPSG:6326.
func WGS84Frame() GeodeticReferenceFrame {
	return NewGeodeticReferenceFrame(
		NewObjectInfo("World Geodetic System 1984", Identifier{"EPSG", "6326"}),
		WGS84Ellipsoid(), GreenwichMeridian())
}

// WGS84Geographic2D returns EPSG:4326 with its conventional world extent.
func WGS84Geographic2D() *GeodeticCRS {
	return NewGeodeticCRS(
		NewObjectInfo("WGS 84", Identifier{"EPSG", "4326"}),
		WGS84Frame(), EllipsoidalCS2DLatLon(UnitDegree),
	).WithArea(AreaOfUse{West: -180, South: -90, East: 180, North: 90, Description: "World"})
}

// WGS84Geographic3D returns EPSG:4979.
func WGS84Geographic3D() *GeodeticCRS {
	return NewGeodeticCRS(
		NewObjectInfo("WGS 84", Identifier{"EPSG", "4979"}),
		WGS84Frame(), EllipsoidalCS3D(UnitDegree),
	).WithArea(AreaOfUse{West: -180, South: -90, East: 180, North: 90, Description: "World"})
}

// WGS84Geocentric returns EPSG:4978.
func WGS84Geocentric() *GeodeticCRS {
	return NewGeodeticCRS(
		NewObjectInfo("WGS 84", Identifier{"EPSG", "4978"}),
		WGS84Frame(), CartesianCSGeocentric(UnitMetre),
	).WithArea(AreaOfUse{West: -180, South: -90, East: 180, North: 90, Description: "World"})
}

// BuildGeographicCRS assembles a geographic CRS from fully-specified fields,
// the builder form of construction. Empty names are kept empty; the
// deprecated-name normalization of NewObjectInfo applies.
func BuildGeographicCRS(name, datumName, ellipsoidName string, semiMajor, inverseFlattening float64,
	pmName string, pmOffset float64, angularUnit UnitOfMeasure, cs CoordinateSystem) *GeodeticCRS {
	ellipsoid := NewEllipsoid(NewObjectInfo(ellipsoidName), semiMajor, inverseFlattening, UnitMetre)
	pm := NewPrimeMeridian(NewObjectInfo(pmName), pmOffset, angularUnit)
	frame := NewGeodeticReferenceFrame(NewObjectInfo(datumName), ellipsoid, pm)
	return NewGeodeticCRS(NewObjectInfo(name), frame, cs)
}

// BuildGeocentricCRS assembles a geocentric CRS from fully-specified fields.
func BuildGeocentricCRS(name, datumName, ellipsoidName string, semiMajor, inverseFlattening float64,
	pmName string, pmOffset float64, angularUnit, linearUnit UnitOfMeasure) *GeodeticCRS {
	ellipsoid := NewEllipsoid(NewObjectInfo(ellipsoidName), semiMajor, inverseFlattening, UnitMetre)
	pm := NewPrimeMeridian(NewObjectInfo(pmName), pmOffset, angularUnit)
	frame := NewGeodeticReferenceFrame(NewObjectInfo(datumName), ellipsoid, pm)
	return NewGeodeticCRS(NewObjectInfo(name), frame, CartesianCSGeocentric(linearUnit))
}

// BuildVerticalCRS assembles a vertical CRS over a named vertical datum.
func BuildVerticalCRS(name, datumName string, linearUnit UnitOfMeasure) *VerticalCRS {
	if linearUnit.IsZero() {
		linearUnit = UnitMetre
	}
	return NewVerticalCRS(NewObjectInfo(name),
		NewVerticalReferenceFrame(NewObjectInfo(datumName)), VerticalCSUp(linearUnit))
}

// NewConversionTransverseMercator builds an EPSG:9807 conversion.
func NewConversionTransverseMercator(centerLat, centerLon, scale, falseEasting, falseNorthing float64,
	angularUnit, linearUnit UnitOfMeasure) Conversion {
	method := NewOperationMethod(NewObjectInfo(MethodNameTransverseMercator, Identifier{"EPSG", MethodTransverseMercator}))
	return NewConversion(NewObjectInfo("unnamed"), method, []Parameter{
		NewParameter(nameLatNaturalOrigin, Identifier{"EPSG", paramLatNaturalOrigin}, centerLat, angularUnit),
		NewParameter(nameLonNaturalOrigin, Identifier{"EPSG", paramLonNaturalOrigin}, centerLon, angularUnit),
		NewParameter(nameScaleFactor, Identifier{"EPSG", paramScaleFactor}, scale, UnitUnity),
		NewParameter(nameFalseEasting, Identifier{"EPSG", paramFalseEasting}, falseEasting, linearUnit),
		NewParameter(nameFalseNorthing, Identifier{"EPSG", paramFalseNorthing}, falseNorthing, linearUnit),
	})
}

// NewConversionUTM builds the Universal Transverse Mercator conversion for a
// zone, expressed as Transverse Mercator parameters.
func NewConversionUTM(zone int, north bool) Conversion {
	hemisphere := "N"
	falseNorthing := 0.0
	if !north {
		hemisphere = "S"
		falseNorthing = 10000000
	}
	conv := NewConversionTransverseMercator(0, float64(zone*6-183), 0.9996, 500000, falseNorthing, UnitDegree, UnitMetre)
	conv.info = NewObjectInfo(fmt.Sprintf("UTM zone %d%s", zone, hemisphere))
	return conv
}

// NewConversionMercatorVariantA builds an EPSG:9804 conversion.
func NewConversionMercatorVariantA(centerLat, centerLon, scale, falseEasting, falseNorthing float64,
	angularUnit, linearUnit UnitOfMeasure) Conversion {
	method := NewOperationMethod(NewObjectInfo(MethodNameMercatorA, Identifier{"EPSG", MethodMercatorA}))
	return NewConversion(NewObjectInfo("unnamed"), method, []Parameter{
		NewParameter(nameLatNaturalOrigin, Identifier{"EPSG", paramLatNaturalOrigin}, centerLat, angularUnit),
		NewParameter(nameLonNaturalOrigin, Identifier{"EPSG", paramLonNaturalOrigin}, centerLon, angularUnit),
		NewParameter(nameScaleFactor, Identifier{"EPSG", paramScaleFactor}, scale, UnitUnity),
		NewParameter(nameFalseEasting, Identifier{"EPSG", paramFalseEasting}, falseEasting, linearUnit),
		NewParameter(nameFalseNorthing, Identifier{"EPSG", paramFalseNorthing}, falseNorthing, linearUnit),
	})
}

// NewConversionMercatorVariantB builds an EPSG:9805 conversion.
func NewConversionMercatorVariantB(firstParallel, centerLon, falseEasting, falseNorthing float64,
	angularUnit, linearUnit UnitOfMeasure) Conversion {
	method := NewOperationMethod(NewObjectInfo(MethodNameMercatorB, Identifier{"EPSG", MethodMercatorB}))
	return NewConversion(NewObjectInfo("unnamed"), method, []Parameter{
		NewParameter(nameLatFirstParallel, Identifier{"EPSG", paramLatFirstParallel}, firstParallel, angularUnit),
		NewParameter(nameLonNaturalOrigin, Identifier{"EPSG", paramLonNaturalOrigin}, centerLon, angularUnit),
		NewParameter(nameFalseEasting, Identifier{"EPSG", paramFalseEasting}, falseEasting, linearUnit),
		NewParameter(nameFalseNorthing, Identifier{"EPSG", paramFalseNorthing}, falseNorthing, linearUnit),
	})
}
