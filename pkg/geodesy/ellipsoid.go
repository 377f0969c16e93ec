package geodesy

import "fmt"

// Ellipsoid is a reference ellipsoid. Exactly one of inverse flattening or
// semi-minor axis is supplied at construction; the other is derived and
// flagged as computed.
type Ellipsoid struct {
	info              ObjectInfo
	semiMajor         float64
	inverseFlattening float64
	semiMinor         float64
	semiMinorComputed bool
	unit              UnitOfMeasure
}

// NewEllipsoid builds an ellipsoid from semi-major axis and inverse
// flattening, deriving the semi-minor axis. An inverse flattening of zero
// denotes a sphere.
func NewEllipsoid(info ObjectInfo, semiMajor, inverseFlattening float64, unit UnitOfMeasure) Ellipsoid {
	if unit.IsZero() {
		unit = UnitMetre
	}
	e := Ellipsoid{
		info:              info,
		semiMajor:         semiMajor,
		inverseFlattening: inverseFlattening,
		semiMinorComputed: true,
		unit:              unit,
	}
	if inverseFlattening == 0 {
		e.semiMinor = semiMajor
	} else {
		e.semiMinor = semiMajor * (1 - 1/inverseFlattening)
	}
	return e
}

// NewEllipsoidFromSemiMinor builds an ellipsoid from both axes, deriving the
// inverse flattening.
func NewEllipsoidFromSemiMinor(info ObjectInfo, semiMajor, semiMinor float64, unit UnitOfMeasure) Ellipsoid {
	if unit.IsZero() {
		unit = UnitMetre
	}
	e := Ellipsoid{
		info:      info,
		semiMajor: semiMajor,
		semiMinor: semiMinor,
		unit:      unit,
	}
	if semiMajor != semiMinor && semiMajor != 0 {
		e.inverseFlattening = semiMajor / (semiMajor - semiMinor)
	}
	return e
}

// Info returns the identification fields.
func (e Ellipsoid) Info() ObjectInfo { return e.info }

// SemiMajor returns the semi-major axis in the ellipsoid unit.
func (e Ellipsoid) SemiMajor() float64 { return e.semiMajor }

// SemiMinor returns the semi-minor axis in the ellipsoid unit.
func (e Ellipsoid) SemiMinor() float64 { return e.semiMinor }

// SemiMinorComputed reports whether the semi-minor axis was derived from the
// inverse flattening rather than supplied.
func (e Ellipsoid) SemiMinorComputed() bool { return e.semiMinorComputed }

// InverseFlattening returns the inverse flattening, zero for a sphere.
func (e Ellipsoid) InverseFlattening() float64 { return e.inverseFlattening }

// Unit returns the length unit of both axes.
func (e Ellipsoid) Unit() UnitOfMeasure { return e.unit }

// IsSphere reports whether both axes coincide.
func (e Ellipsoid) IsSphere() bool { return e.inverseFlattening == 0 }

func (e Ellipsoid) String() string {
	return fmt.Sprintf("Ellipsoid(%s a=%g rf=%g)", e.info.Name(), e.semiMajor, e.inverseFlattening)
}

// PrimeMeridian is a longitude origin expressed in an angular unit.
type PrimeMeridian struct {
	info      ObjectInfo
	longitude float64
	unit      UnitOfMeasure
}

// NewPrimeMeridian builds a prime meridian from a longitude offset and its
// angular unit.
func NewPrimeMeridian(info ObjectInfo, longitude float64, unit UnitOfMeasure) PrimeMeridian {
	if unit.IsZero() {
		unit = UnitDegree
	}
	return PrimeMeridian{info: info, longitude: longitude, unit: unit}
}

// Info returns the identification fields.
func (p PrimeMeridian) Info() ObjectInfo { return p.info }

// Longitude returns the offset from Greenwich in the meridian unit.
func (p PrimeMeridian) Longitude() float64 { return p.longitude }

// Unit returns the angular unit of the longitude.
func (p PrimeMeridian) Unit() UnitOfMeasure { return p.unit }
