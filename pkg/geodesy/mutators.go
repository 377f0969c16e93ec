package geodesy

import (
	"fmt"
	"math"
)

// Well-known EPSG method identifiers used by the conversion re-expression
// mutator.
const (
	MethodMercatorA          = "9804"
	MethodMercatorB          = "9805"
	MethodTransverseMercator = "9807"

	MethodNameMercatorA          = "Mercator (variant A)"
	MethodNameMercatorB          = "Mercator (variant B)"
	MethodNameTransverseMercator = "Transverse Mercator"
)

// EPSG parameter codes shared by the Mercator family.
const (
	paramLatNaturalOrigin = "8801"
	paramLonNaturalOrigin = "8802"
	paramScaleFactor      = "8805"
	paramFalseEasting     = "8806"
	paramFalseNorthing    = "8807"
	paramLatFirstParallel = "8823"

	nameLatNaturalOrigin = "Latitude of natural origin"
	nameLonNaturalOrigin = "Longitude of natural origin"
	nameScaleFactor      = "Scale factor at natural origin"
	nameFalseEasting     = "False easting"
	nameFalseNorthing    = "False northing"
	nameLatFirstParallel = "Latitude of 1st standard parallel"
)

// Rename returns a copy of obj carrying the new name, applying the
// deprecated-suffix normalization. Identifiers, aliases and remarks of the
// original are dropped: a renamed object is no longer the authority's object.
func Rename(obj Object, newName string) (Object, error) {
	info := NewObjectInfo(newName)
	switch v := obj.(type) {
	case *GeodeticCRS:
		cp := *v
		cp.info = info
		return &cp, nil
	case *ProjectedCRS:
		cp := *v
		cp.info = info
		return &cp, nil
	case *VerticalCRS:
		cp := *v
		cp.info = info
		return &cp, nil
	case *CompoundCRS:
		cp := *v
		cp.info = info
		return &cp, nil
	case *EngineeringCRS:
		cp := *v
		cp.info = info
		return &cp, nil
	case *TemporalCRS:
		cp := *v
		cp.info = info
		return &cp, nil
	case Ellipsoid:
		v.info = info
		return v, nil
	case PrimeMeridian:
		v.info = info
		return v, nil
	case GeodeticReferenceFrame:
		v.info = info
		return v, nil
	case VerticalReferenceFrame:
		v.info = info
		return v, nil
	case Conversion:
		v.info = info
		return v, nil
	case Transformation:
		v.info = info
		return v, nil
	case ConcatenatedOperation:
		v.info = info
		return v, nil
	}
	return nil, fmt.Errorf("%w: cannot rename %T", ErrInvalidArgument, obj)
}

// RenameCRS is Rename constrained to CRS inputs and outputs.
func RenameCRS(crs CRS, newName string) (CRS, error) {
	obj, err := Rename(crs, newName)
	if err != nil {
		return nil, err
	}
	return obj.(CRS), nil
}

// SubstituteGeodeticCRS replaces the geodetic CRS underlying crs while
// preserving all other structure, including name and deprecation flag.
// A geodetic input returns the replacement itself.
func SubstituteGeodeticCRS(crs CRS, replacement *GeodeticCRS) (CRS, error) {
	switch v := crs.(type) {
	case *GeodeticCRS:
		return replacement, nil
	case *ProjectedCRS:
		cp := *v
		cp.base = replacement
		return &cp, nil
	case *BoundCRS:
		base, err := SubstituteGeodeticCRS(v.base, replacement)
		if err != nil {
			return nil, err
		}
		cp := *v
		cp.base = base
		return &cp, nil
	case *CompoundCRS:
		components := v.Components()
		replaced := false
		for i, comp := range components {
			if GeodeticCRSOf(comp) == nil {
				continue
			}
			sub, err := SubstituteGeodeticCRS(comp, replacement)
			if err != nil {
				return nil, err
			}
			components[i] = sub
			replaced = true
			break
		}
		if !replaced {
			return nil, fmt.Errorf("%w: compound CRS %q has no geodetic component", ErrInvalidArgument, v.info.Name())
		}
		cp := *v
		cp.components = components
		return &cp, nil
	}
	return nil, fmt.Errorf("%w: cannot substitute geodetic CRS of %T", ErrInvalidArgument, crs)
}

// ChangeAngularUnit rewrites every angular axis unit of the CRS coordinate
// system.
func ChangeAngularUnit(crs CRS, unit UnitOfMeasure) (CRS, error) {
	return changeCSUnit(crs, UnitAngular, unit)
}

// ChangeLinearUnit rewrites every linear axis unit of the CRS coordinate
// system.
func ChangeLinearUnit(crs CRS, unit UnitOfMeasure) (CRS, error) {
	return changeCSUnit(crs, UnitLinear, unit)
}

func changeCSUnit(crs CRS, kind UnitKind, unit UnitOfMeasure) (CRS, error) {
	switch v := crs.(type) {
	case *GeodeticCRS:
		cp := *v
		cp.cs = v.cs.withUnit(kind, unit)
		return &cp, nil
	case *ProjectedCRS:
		cp := *v
		cp.cs = v.cs.withUnit(kind, unit)
		return &cp, nil
	case *VerticalCRS:
		cp := *v
		cp.cs = v.cs.withUnit(kind, unit)
		return &cp, nil
	case *CompoundCRS:
		components := v.Components()
		for i, comp := range components {
			changed, err := changeCSUnit(comp, kind, unit)
			if err != nil {
				continue
			}
			components[i] = changed
		}
		cp := *v
		cp.components = components
		return &cp, nil
	case *BoundCRS:
		base, err := changeCSUnit(v.base, kind, unit)
		if err != nil {
			return nil, err
		}
		cp := *v
		cp.base = base
		return &cp, nil
	}
	return nil, fmt.Errorf("%w: cannot change %s unit of %T", ErrInvalidArgument, kind, crs)
}

// ChangeParameterLinearUnit rewrites the unit of every linear conversion
// parameter of a projected CRS. When convertValues is true the stored
// numeric values are rescaled so the physical quantity is preserved;
// otherwise only the unit tag changes.
func ChangeParameterLinearUnit(crs *ProjectedCRS, unit UnitOfMeasure, convertValues bool) (*ProjectedCRS, error) {
	if crs == nil {
		return nil, fmt.Errorf("%w: nil projected CRS", ErrInvalidArgument)
	}
	params := crs.conversion.Parameters()
	for i, p := range params {
		value, pUnit, ok := p.Value()
		if !ok || pUnit.Kind != UnitLinear {
			continue
		}
		if convertValues {
			value = value * pUnit.Factor / unit.Factor
		}
		params[i] = NewParameter(p.name, p.id, value, unit)
	}
	cp := *crs
	cp.conversion = NewConversion(crs.conversion.info, crs.conversion.method, params)
	cp.conversion.area = crs.conversion.area
	return &cp, nil
}

// ConvertConversionToMethod re-expresses a conversion under an alternate but
// mathematically equivalent operation method identified by EPSG code or by
// name. Supported: Mercator variant A <-> variant B. The identification of
// the conversion itself is preserved so a round trip restores the original.
func ConvertConversionToMethod(conv Conversion, methodCodeOrName string) (Conversion, error) {
	if methodCodeOrName == "" {
		return Conversion{}, fmt.Errorf("%w: empty target method", ErrInvalidArgument)
	}
	from := firstIdentifier(conv.method.info).Code
	if from == "" {
		from = methodCodeFromName(conv.method.info.Name())
	}
	to := methodCodeOrName
	switch methodCodeOrName {
	case MethodNameMercatorA:
		to = MethodMercatorA
	case MethodNameMercatorB:
		to = MethodMercatorB
	}
	if from == to {
		return conv, nil
	}
	switch {
	case from == MethodMercatorA && to == MethodMercatorB:
		return mercatorAToB(conv)
	case from == MethodMercatorB && to == MethodMercatorA:
		return mercatorBToA(conv)
	}
	return Conversion{}, fmt.Errorf("%w: no equivalent re-expression of method %q as %q",
		ErrInvalidArgument, conv.method.info.Name(), methodCodeOrName)
}

func methodCodeFromName(name string) string {
	switch name {
	case MethodNameMercatorA:
		return MethodMercatorA
	case MethodNameMercatorB:
		return MethodMercatorB
	case MethodNameTransverseMercator:
		return MethodTransverseMercator
	}
	return ""
}

func (c Conversion) paramByCode(code string) (Parameter, bool) {
	for _, p := range c.params {
		if p.id.Code == code {
			return p, true
		}
	}
	return Parameter{}, false
}

func mercatorAToB(conv Conversion) (Conversion, error) {
	lat, _ := conv.paramByCode(paramLatNaturalOrigin)
	if v, _, ok := lat.Value(); ok && v != 0 {
		return Conversion{}, fmt.Errorf("%w: Mercator variant A with non-zero origin latitude has no variant B form", ErrInvalidArgument)
	}
	scale, ok := conv.paramByCode(paramScaleFactor)
	if !ok {
		return Conversion{}, fmt.Errorf("%w: missing scale factor parameter", ErrInvalidArgument)
	}
	k0, _, _ := scale.Value()
	if k0 <= 0 || k0 > 1 {
		return Conversion{}, fmt.Errorf("%w: scale factor %g outside (0,1]", ErrInvalidArgument, k0)
	}
	lon, _ := conv.paramByCode(paramLonNaturalOrigin)
	fe, _ := conv.paramByCode(paramFalseEasting)
	fn, _ := conv.paramByCode(paramFalseNorthing)
	phi1 := math.Acos(k0) / UnitDegree.Factor
	params := []Parameter{
		NewParameter(nameLatFirstParallel, Identifier{"EPSG", paramLatFirstParallel}, phi1, UnitDegree),
		lon, fe, fn,
	}
	method := NewOperationMethod(NewObjectInfo(MethodNameMercatorB, Identifier{"EPSG", MethodMercatorB}))
	out := NewConversion(conv.info, method, params)
	out.area = conv.area
	return out, nil
}

func mercatorBToA(conv Conversion) (Conversion, error) {
	phi1P, ok := conv.paramByCode(paramLatFirstParallel)
	if !ok {
		return Conversion{}, fmt.Errorf("%w: missing 1st standard parallel parameter", ErrInvalidArgument)
	}
	phi1, unit, _ := phi1P.Value()
	k0 := math.Cos(phi1 * unit.Factor)
	lon, _ := conv.paramByCode(paramLonNaturalOrigin)
	fe, _ := conv.paramByCode(paramFalseEasting)
	fn, _ := conv.paramByCode(paramFalseNorthing)
	params := []Parameter{
		NewParameter(nameLatNaturalOrigin, Identifier{"EPSG", paramLatNaturalOrigin}, 0, UnitDegree),
		lon,
		NewParameter(nameScaleFactor, Identifier{"EPSG", paramScaleFactor}, k0, UnitUnity),
		fe, fn,
	}
	method := NewOperationMethod(NewObjectInfo(MethodNameMercatorA, Identifier{"EPSG", MethodMercatorA}))
	out := NewConversion(conv.info, method, params)
	out.area = conv.area
	return out, nil
}
