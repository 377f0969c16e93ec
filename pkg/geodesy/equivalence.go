package geodesy

// Comparison strengths. Strict compares every field including names and
// identifiers. Equivalent compares the mathematical/structural definition,
// ignoring names, identifiers and interchangeable axis-order presentation.
// Cross-variant comparisons are always unequal. Numeric fields compare with
// a small relative tolerance at both strengths so that derived values
// round-trip.
type strength int

const (
	strict strength = iota
	equivalent
)

const numTol = 1e-10

// EqualStrict reports field-level equality between two model objects.
func EqualStrict(a, b Object) bool { return equalObjects(a, b, strict) }

// EqualEquivalent reports structural/mathematical equality, ignoring names,
// identifiers and axis-order presentation differences where interchangeable.
func EqualEquivalent(a, b Object) bool { return equalObjects(a, b, equivalent) }

func equalObjects(a, b Object, s strength) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case Ellipsoid:
		bv, ok := b.(Ellipsoid)
		return ok && equalEllipsoid(av, bv, s)
	case PrimeMeridian:
		bv, ok := b.(PrimeMeridian)
		return ok && equalPrimeMeridian(av, bv, s)
	case GeodeticReferenceFrame:
		bv, ok := b.(GeodeticReferenceFrame)
		return ok && equalGeodeticFrame(av, bv, s)
	case DynamicGeodeticReferenceFrame:
		bv, ok := b.(DynamicGeodeticReferenceFrame)
		return ok && equalGeodeticFrame(av.GeodeticReferenceFrame, bv.GeodeticReferenceFrame, s) &&
			nearlyEqual(av.frameReferenceEpoch, bv.frameReferenceEpoch, numTol)
	case VerticalReferenceFrame:
		bv, ok := b.(VerticalReferenceFrame)
		return ok && equalInfo(av.info, bv.info, s)
	case DynamicVerticalReferenceFrame:
		bv, ok := b.(DynamicVerticalReferenceFrame)
		return ok && equalInfo(av.info, bv.info, s) &&
			nearlyEqual(av.frameReferenceEpoch, bv.frameReferenceEpoch, numTol)
	case DatumEnsemble:
		bv, ok := b.(DatumEnsemble)
		return ok && equalEnsemble(av, bv, s)
	case OperationMethod:
		bv, ok := b.(OperationMethod)
		return ok && equalMethod(av, bv, s)
	case Conversion:
		bv, ok := b.(Conversion)
		return ok && equalConversion(av, bv, s)
	case Transformation:
		bv, ok := b.(Transformation)
		return ok && equalTransformation(av, bv, s)
	case ConcatenatedOperation:
		bv, ok := b.(ConcatenatedOperation)
		return ok && equalConcatenated(av, bv, s)
	case CRS:
		bv, ok := b.(CRS)
		return ok && equalCRS(av, bv, s)
	}
	return false
}

func equalInfo(a, b ObjectInfo, s strength) bool {
	if s == equivalent {
		return true
	}
	if a.name != b.name || a.deprecated != b.deprecated {
		return false
	}
	if len(a.identifiers) != len(b.identifiers) {
		return false
	}
	for i := range a.identifiers {
		if a.identifiers[i] != b.identifiers[i] {
			return false
		}
	}
	return true
}

func equalEllipsoid(a, b Ellipsoid, s strength) bool {
	if !equalInfo(a.info, b.info, s) {
		return false
	}
	// Compare in SI so differing length units of equal meaning match.
	af, bf := a.unit.Factor, b.unit.Factor
	return nearlyEqual(a.semiMajor*af, b.semiMajor*bf, numTol) &&
		nearlyEqual(a.semiMinor*af, b.semiMinor*bf, numTol)
}

func equalPrimeMeridian(a, b PrimeMeridian, s strength) bool {
	if !equalInfo(a.info, b.info, s) {
		return false
	}
	return nearlyEqual(a.longitude*a.unit.Factor, b.longitude*b.unit.Factor, numTol)
}

func equalGeodeticFrame(a, b GeodeticReferenceFrame, s strength) bool {
	return equalInfo(a.info, b.info, s) &&
		equalEllipsoid(a.ellipsoid, b.ellipsoid, s) &&
		equalPrimeMeridian(a.primeMeridian, b.primeMeridian, s)
}

func equalGeodeticDatum(a, b GeodeticDatum, s strength) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if s == strict {
		return equalObjects(a, b, s)
	}
	// At equivalent strength a frame and a dynamic frame (or ensemble)
	// realizing the same ellipsoid and meridian are interchangeable.
	return equalEllipsoid(a.Ellipsoid(), b.Ellipsoid(), s) &&
		equalPrimeMeridian(a.PrimeMeridian(), b.PrimeMeridian(), s)
}

func equalEnsemble(a, b DatumEnsemble, s strength) bool {
	if !equalInfo(a.info, b.info, s) || len(a.members) != len(b.members) {
		return false
	}
	if !nearlyEqual(a.accuracy, b.accuracy, numTol) {
		return false
	}
	for i := range a.members {
		if !equalObjects(a.members[i], b.members[i], s) {
			return false
		}
	}
	return true
}

func equalCS(a, b CoordinateSystem, s strength) bool {
	if a.kind != b.kind {
		return false
	}
	if len(a.axes) != len(b.axes) {
		return false
	}
	if s == equivalent {
		// Lat/lon and lon/lat presentations of an ellipsoidal CS are
		// interchangeable.
		if _, aOK := a.latLonOrder(); aOK {
			if _, bOK := b.latLonOrder(); bOK {
				if !sameUnit(a.axes[0].Unit, b.axes[0].Unit) {
					return false
				}
				for i := 2; i < len(a.axes); i++ {
					if !sameUnit(a.axes[i].Unit, b.axes[i].Unit) {
						return false
					}
				}
				return true
			}
		}
	}
	for i := range a.axes {
		aa, ba := a.axes[i], b.axes[i]
		if aa.Direction != ba.Direction || !sameUnit(aa.Unit, ba.Unit) {
			return false
		}
		if s == strict && (aa.Name != ba.Name || aa.Abbreviation != ba.Abbreviation) {
			return false
		}
	}
	return true
}

func equalCRS(a, b CRS, s strength) bool {
	switch av := a.(type) {
	case *GeodeticCRS:
		bv, ok := b.(*GeodeticCRS)
		if !ok {
			return false
		}
		// 2D vs 3D vs geocentric never interchange.
		if av.Kind() != bv.Kind() {
			return false
		}
		return equalInfo(av.info, bv.info, s) &&
			equalGeodeticDatum(av.datum, bv.datum, s) &&
			equalCS(av.cs, bv.cs, s)
	case *ProjectedCRS:
		bv, ok := b.(*ProjectedCRS)
		return ok && equalInfo(av.info, bv.info, s) &&
			equalCRS(av.base, bv.base, s) &&
			equalConversion(av.conversion, bv.conversion, s) &&
			equalCS(av.cs, bv.cs, s)
	case *VerticalCRS:
		bv, ok := b.(*VerticalCRS)
		return ok && equalInfo(av.info, bv.info, s) &&
			equalObjects(av.datum, bv.datum, s) &&
			equalCS(av.cs, bv.cs, s)
	case *CompoundCRS:
		bv, ok := b.(*CompoundCRS)
		if !ok || !equalInfo(av.info, bv.info, s) || len(av.components) != len(bv.components) {
			return false
		}
		for i := range av.components {
			if !equalCRS(av.components[i], bv.components[i], s) {
				return false
			}
		}
		return true
	case *BoundCRS:
		bv, ok := b.(*BoundCRS)
		return ok && equalCRS(av.base, bv.base, s) &&
			equalCRS(av.hub, bv.hub, s) &&
			equalTransformation(av.transformation, bv.transformation, s)
	case *TemporalCRS:
		bv, ok := b.(*TemporalCRS)
		return ok && equalInfo(av.info, bv.info, s) && equalCS(av.cs, bv.cs, s)
	case *EngineeringCRS:
		bv, ok := b.(*EngineeringCRS)
		return ok && equalInfo(av.info, bv.info, s) && equalCS(av.cs, bv.cs, s)
	case *OtherCRS:
		bv, ok := b.(*OtherCRS)
		return ok && equalInfo(av.info, bv.info, s) && av.raw == bv.raw
	}
	return false
}

func equalMethod(a, b OperationMethod, s strength) bool {
	if s == strict {
		return equalInfo(a.info, b.info, strict)
	}
	// Methods carry no structure beyond identity, so equivalence still
	// requires matching code (preferred) or name.
	aID, bID := firstIdentifier(a.info), firstIdentifier(b.info)
	if aID != (Identifier{}) && bID != (Identifier{}) {
		return aID == bID
	}
	return a.info.name == b.info.name
}

func firstIdentifier(info ObjectInfo) Identifier {
	if len(info.identifiers) == 0 {
		return Identifier{}
	}
	return info.identifiers[0]
}

func equalConversion(a, b Conversion, s strength) bool {
	if !equalInfo(a.info, b.info, s) {
		return false
	}
	if s == equivalent && !equalMethod(a.method, b.method, equivalent) {
		// Two parameterizations of the same projection family compare
		// equal once one side is re-expressed in the other's method.
		if conv, err := ConvertConversionToMethod(b, a.method.info.Name()); err == nil {
			return equalConversion(a, conv, equivalent)
		}
		return false
	}
	if !equalMethod(a.method, b.method, s) {
		return false
	}
	return equalParams(a.params, b.params, s)
}

func equalParams(a, b []Parameter, s strength) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		pa := a[i]
		pb := b[i]
		if s == equivalent {
			// Match by code, else name, position-independently.
			if found, ok := findParam(b, pa); ok {
				pb = found
			} else {
				return false
			}
		} else if pa.name != pb.name || pa.id != pb.id {
			return false
		}
		if pa.isString != pb.isString {
			return false
		}
		if pa.isString {
			if pa.stringValue != pb.stringValue {
				return false
			}
			continue
		}
		if !nearlyEqual(pa.value*pa.unit.Factor, pb.value*pb.unit.Factor, numTol) {
			return false
		}
		if s == strict && !sameUnit(pa.unit, pb.unit) {
			return false
		}
	}
	return true
}

func findParam(params []Parameter, want Parameter) (Parameter, bool) {
	for _, p := range params {
		if want.id != (Identifier{}) && p.id == want.id {
			return p, true
		}
		if p.name == want.name {
			return p, true
		}
	}
	return Parameter{}, false
}

func equalTransformation(a, b Transformation, s strength) bool {
	if !equalInfo(a.info, b.info, s) {
		return false
	}
	if !equalMethod(a.method, b.method, s) || !equalParams(a.params, b.params, s) {
		return false
	}
	if s == strict {
		if a.hasAccuracy != b.hasAccuracy || (a.hasAccuracy && !nearlyEqual(a.accuracy, b.accuracy, numTol)) {
			return false
		}
	}
	if len(a.grids) != len(b.grids) {
		return false
	}
	for i := range a.grids {
		if a.grids[i] != b.grids[i] {
			return false
		}
	}
	return equalEndpoint(a.source, b.source, s) && equalEndpoint(a.target, b.target, s)
}

func equalEndpoint(a, b CRS, s strength) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return equalCRS(a, b, s)
}

func equalConcatenated(a, b ConcatenatedOperation, s strength) bool {
	if !equalInfo(a.info, b.info, s) || len(a.steps) != len(b.steps) {
		return false
	}
	for i := range a.steps {
		if !equalObjects(a.steps[i], b.steps[i], s) {
			return false
		}
	}
	return true
}

// EqualOperations compares two coordinate operations at the requested
// strengths used by the derivation engine's dedup pass.
func EqualOperations(a, b CoordinateOperation, strictCompare bool) bool {
	if strictCompare {
		return equalObjects(a, b, strict)
	}
	return equalObjects(a, b, equivalent)
}
