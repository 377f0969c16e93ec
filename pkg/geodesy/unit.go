package geodesy

// UnitKind classifies a unit of measure.
type UnitKind string

// Unit kinds recognized by the model.
const (
	UnitAngular UnitKind = "angular"
	UnitLinear  UnitKind = "linear"
	UnitScale   UnitKind = "scale"
	UnitTime    UnitKind = "time"
	UnitUnknown UnitKind = "unknown"
)

// UnitOfMeasure describes a unit by name, kind and conversion factor to the
// SI base unit of its kind (radian, metre, unity, second).
type UnitOfMeasure struct {
	Name   string
	Kind   UnitKind
	Factor float64
}

// Canonical units shared across the model and both codecs.
var (
	UnitDegree = UnitOfMeasure{Name: "degree", Kind: UnitAngular, Factor: 0.017453292519943295}
	UnitRadian = UnitOfMeasure{Name: "radian", Kind: UnitAngular, Factor: 1}
	UnitArcSec = UnitOfMeasure{Name: "arc-second", Kind: UnitAngular, Factor: 4.84813681109536e-06}
	UnitGrad   = UnitOfMeasure{Name: "grad", Kind: UnitAngular, Factor: 0.015707963267948967}
	UnitMetre  = UnitOfMeasure{Name: "metre", Kind: UnitLinear, Factor: 1}
	UnitFoot   = UnitOfMeasure{Name: "foot", Kind: UnitLinear, Factor: 0.3048}
	UnitUSFoot = UnitOfMeasure{Name: "US survey foot", Kind: UnitLinear, Factor: 0.3048006096012192}
	UnitUnity  = UnitOfMeasure{Name: "unity", Kind: UnitScale, Factor: 1}
	UnitPPM    = UnitOfMeasure{Name: "parts per million", Kind: UnitScale, Factor: 1e-06}
	UnitSecond = UnitOfMeasure{Name: "second", Kind: UnitTime, Factor: 1}
)

// IsZero reports whether the unit is the zero value.
func (u UnitOfMeasure) IsZero() bool { return u.Name == "" && u.Factor == 0 }

// sameUnit compares units by kind and factor only; the name is presentation.
func sameUnit(a, b UnitOfMeasure) bool {
	return a.Kind == b.Kind && nearlyEqual(a.Factor, b.Factor, 1e-15)
}

func nearlyEqual(a, b, relTol float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	scale := a
	if scale < 0 {
		scale = -scale
	}
	if s := b; s > scale {
		scale = s
	} else if s := -b; s > scale {
		scale = s
	}
	if scale == 0 {
		return diff == 0
	}
	return diff <= relTol*scale
}
