package geodesy

import "fmt"

// CRSKind tags the closed set of CRS variants.
type CRSKind string

// CRS kinds. Geographic 2D/3D and geocentric share the GeodeticCRS struct
// and are distinguished by coordinate-system shape.
const (
	KindGeographic2D CRSKind = "geographic 2D"
	KindGeographic3D CRSKind = "geographic 3D"
	KindGeocentric   CRSKind = "geocentric"
	KindProjected    CRSKind = "projected"
	KindVertical     CRSKind = "vertical"
	KindCompound     CRSKind = "compound"
	KindBound        CRSKind = "bound"
	KindTemporal     CRSKind = "temporal"
	KindEngineering  CRSKind = "engineering"
	KindOther        CRSKind = "other"
)

// CRS is the closed polymorphic set of coordinate reference systems.
type CRS interface {
	Object
	Kind() CRSKind
	// Area returns the declared area of use, nil when unrestricted.
	Area() *AreaOfUse
	crsTag()
}

// GeodeticCRS is a geographic (2D or 3D) or geocentric CRS.
type GeodeticCRS struct {
	info  ObjectInfo
	datum GeodeticDatum
	cs    CoordinateSystem
	area  *AreaOfUse
}

// NewGeodeticCRS builds a geodetic CRS; its kind is derived from the
// coordinate system shape.
func NewGeodeticCRS(info ObjectInfo, datum GeodeticDatum, cs CoordinateSystem) *GeodeticCRS {
	return &GeodeticCRS{info: info, datum: datum, cs: cs}
}

// WithArea returns a copy declaring an area of use.
func (c *GeodeticCRS) WithArea(area AreaOfUse) *GeodeticCRS {
	cp := *c
	cp.area = &area
	return &cp
}

// Info returns the identification fields.
func (c *GeodeticCRS) Info() ObjectInfo { return c.info }

// Kind derives the variant from the coordinate system shape.
func (c *GeodeticCRS) Kind() CRSKind {
	switch c.cs.Kind() {
	case CSEllipsoidal:
		if c.cs.AxisCount() == 3 {
			return KindGeographic3D
		}
		return KindGeographic2D
	default:
		return KindGeocentric
	}
}

// Datum returns the geodetic datum (frame, dynamic frame or ensemble).
func (c *GeodeticCRS) Datum() GeodeticDatum { return c.datum }

// CoordinateSystem returns the coordinate system.
func (c *GeodeticCRS) CoordinateSystem() CoordinateSystem { return c.cs }

// Area returns the declared area of use, nil when unrestricted.
func (c *GeodeticCRS) Area() *AreaOfUse { return c.area }

func (*GeodeticCRS) crsTag() {}

// ProjectedCRS applies a conversion to a geodetic base CRS, yielding
// cartesian coordinates.
type ProjectedCRS struct {
	info       ObjectInfo
	base       *GeodeticCRS
	conversion Conversion
	cs         CoordinateSystem
	area       *AreaOfUse
}

// NewProjectedCRS builds a projected CRS from its base, deriving conversion
// and cartesian coordinate system.
func NewProjectedCRS(info ObjectInfo, base *GeodeticCRS, conversion Conversion, cs CoordinateSystem) *ProjectedCRS {
	return &ProjectedCRS{info: info, base: base, conversion: conversion, cs: cs}
}

// WithArea returns a copy declaring an area of use.
func (c *ProjectedCRS) WithArea(area AreaOfUse) *ProjectedCRS {
	cp := *c
	cp.area = &area
	return &cp
}

// Info returns the identification fields.
func (c *ProjectedCRS) Info() ObjectInfo { return c.info }

// Kind returns KindProjected.
func (c *ProjectedCRS) Kind() CRSKind { return KindProjected }

// BaseCRS returns the geodetic base CRS.
func (c *ProjectedCRS) BaseCRS() *GeodeticCRS { return c.base }

// Conversion returns the deriving conversion.
func (c *ProjectedCRS) Conversion() Conversion { return c.conversion }

// CoordinateSystem returns the cartesian coordinate system.
func (c *ProjectedCRS) CoordinateSystem() CoordinateSystem { return c.cs }

// Area returns the declared area of use, nil when unrestricted.
func (c *ProjectedCRS) Area() *AreaOfUse { return c.area }

func (*ProjectedCRS) crsTag() {}

// VerticalCRS expresses gravity-related heights against a vertical datum.
type VerticalCRS struct {
	info  ObjectInfo
	datum Datum
	cs    CoordinateSystem
	area  *AreaOfUse
}

// NewVerticalCRS builds a vertical CRS.
func NewVerticalCRS(info ObjectInfo, datum Datum, cs CoordinateSystem) *VerticalCRS {
	return &VerticalCRS{info: info, datum: datum, cs: cs}
}

// WithArea returns a copy declaring an area of use.
func (c *VerticalCRS) WithArea(area AreaOfUse) *VerticalCRS {
	cp := *c
	cp.area = &area
	return &cp
}

// Info returns the identification fields.
func (c *VerticalCRS) Info() ObjectInfo { return c.info }

// Kind returns KindVertical.
func (c *VerticalCRS) Kind() CRSKind { return KindVertical }

// Datum returns the vertical datum.
func (c *VerticalCRS) Datum() Datum { return c.datum }

// CoordinateSystem returns the vertical coordinate system.
func (c *VerticalCRS) CoordinateSystem() CoordinateSystem { return c.cs }

// Area returns the declared area of use, nil when unrestricted.
func (c *VerticalCRS) Area() *AreaOfUse { return c.area }

func (*VerticalCRS) crsTag() {}

// CompoundCRS stacks component CRS, conventionally horizontal then vertical.
type CompoundCRS struct {
	info       ObjectInfo
	components []CRS
	area       *AreaOfUse
}

// NewCompoundCRS builds a compound CRS from ordered components.
func NewCompoundCRS(info ObjectInfo, components ...CRS) *CompoundCRS {
	return &CompoundCRS{info: info, components: append([]CRS(nil), components...)}
}

// WithArea returns a copy declaring an area of use.
func (c *CompoundCRS) WithArea(area AreaOfUse) *CompoundCRS {
	cp := *c
	cp.area = &area
	return &cp
}

// Info returns the identification fields.
func (c *CompoundCRS) Info() ObjectInfo { return c.info }

// Kind returns KindCompound.
func (c *CompoundCRS) Kind() CRSKind { return KindCompound }

// Components returns the ordered component CRS.
func (c *CompoundCRS) Components() []CRS { return append([]CRS(nil), c.components...) }

// ComponentAt returns the component at index, failing for out-of-range
// indexes.
func (c *CompoundCRS) ComponentAt(index int) (CRS, error) {
	if index < 0 || index >= len(c.components) {
		return nil, fmt.Errorf("%w: component index %d out of range [0,%d)", ErrInvalidArgument, index, len(c.components))
	}
	return c.components[index], nil
}

// Area returns the declared area of use, nil when unrestricted.
func (c *CompoundCRS) Area() *AreaOfUse { return c.area }

func (*CompoundCRS) crsTag() {}

// BoundCRS pairs a base CRS with a transformation to a hub CRS, making the
// base usable where only hub-referenced operations exist.
type BoundCRS struct {
	base           CRS
	hub            CRS
	transformation Transformation
}

// NewBoundCRS builds a bound CRS. Its identification is that of the base.
func NewBoundCRS(base, hub CRS, transformation Transformation) *BoundCRS {
	return &BoundCRS{base: base, hub: hub, transformation: transformation}
}

// Info returns the base CRS identification.
func (c *BoundCRS) Info() ObjectInfo { return c.base.Info() }

// Kind returns KindBound.
func (c *BoundCRS) Kind() CRSKind { return KindBound }

// BaseCRS returns the bound source CRS.
func (c *BoundCRS) BaseCRS() CRS { return c.base }

// HubCRS returns the hub (conventionally WGS 84).
func (c *BoundCRS) HubCRS() CRS { return c.hub }

// Transformation returns the base-to-hub transformation.
func (c *BoundCRS) Transformation() Transformation { return c.transformation }

// Area returns the base CRS area of use.
func (c *BoundCRS) Area() *AreaOfUse { return c.base.Area() }

func (*BoundCRS) crsTag() {}

// TemporalCRS references coordinates to a temporal datum. The model retains
// it for round-tripping; the dataset does not store temporal CRS.
type TemporalCRS struct {
	info ObjectInfo
	cs   CoordinateSystem
}

// NewTemporalCRS builds a temporal CRS.
func NewTemporalCRS(info ObjectInfo, cs CoordinateSystem) *TemporalCRS {
	return &TemporalCRS{info: info, cs: cs}
}

// Info returns the identification fields.
func (c *TemporalCRS) Info() ObjectInfo { return c.info }

// Kind returns KindTemporal.
func (c *TemporalCRS) Kind() CRSKind { return KindTemporal }

// CoordinateSystem returns the temporal coordinate system.
func (c *TemporalCRS) CoordinateSystem() CoordinateSystem { return c.cs }

// Area returns nil; temporal CRS carry no spatial extent.
func (c *TemporalCRS) Area() *AreaOfUse { return nil }

func (*TemporalCRS) crsTag() {}

// EngineeringCRS is a local, earth-unanchored CRS.
type EngineeringCRS struct {
	info ObjectInfo
	cs   CoordinateSystem
}

// NewEngineeringCRS builds an engineering CRS; the coordinate system may be
// zero for a bare named local system.
func NewEngineeringCRS(info ObjectInfo, cs CoordinateSystem) *EngineeringCRS {
	return &EngineeringCRS{info: info, cs: cs}
}

// Info returns the identification fields.
func (c *EngineeringCRS) Info() ObjectInfo { return c.info }

// Kind returns KindEngineering.
func (c *EngineeringCRS) Kind() CRSKind { return KindEngineering }

// CoordinateSystem returns the coordinate system, possibly zero.
func (c *EngineeringCRS) CoordinateSystem() CoordinateSystem { return c.cs }

// Area returns nil.
func (c *EngineeringCRS) Area() *AreaOfUse { return nil }

func (*EngineeringCRS) crsTag() {}

// OtherCRS retains an unsupported construct opaquely so it can round-trip.
type OtherCRS struct {
	info ObjectInfo
	raw  string
}

// NewOtherCRS builds an opaque CRS wrapper around unrecognized source text.
func NewOtherCRS(info ObjectInfo, raw string) *OtherCRS {
	return &OtherCRS{info: info, raw: raw}
}

// Info returns the identification fields.
func (c *OtherCRS) Info() ObjectInfo { return c.info }

// Kind returns KindOther.
func (c *OtherCRS) Kind() CRSKind { return KindOther }

// Raw returns the retained source text.
func (c *OtherCRS) Raw() string { return c.raw }

// Area returns nil.
func (c *OtherCRS) Area() *AreaOfUse { return nil }

func (*OtherCRS) crsTag() {}

// GeodeticCRSOf returns the geodetic CRS underlying crs: itself for geodetic,
// the base for projected and bound, the first geodetic-bearing component for
// compound. Nil when none exists.
func GeodeticCRSOf(crs CRS) *GeodeticCRS {
	switch c := crs.(type) {
	case *GeodeticCRS:
		return c
	case *ProjectedCRS:
		return c.base
	case *BoundCRS:
		return GeodeticCRSOf(c.base)
	case *CompoundCRS:
		for _, comp := range c.components {
			if g := GeodeticCRSOf(comp); g != nil {
				return g
			}
		}
	}
	return nil
}

// DatumOf returns the datum anchoring crs, nil when it has none.
func DatumOf(crs CRS) Datum {
	switch c := crs.(type) {
	case *VerticalCRS:
		return c.datum
	default:
		if g := GeodeticCRSOf(crs); g != nil {
			return g.datum
		}
	}
	return nil
}

// EllipsoidOf returns the ellipsoid underlying crs, reporting false when the
// object has no geodetic datum.
func EllipsoidOf(crs CRS) (Ellipsoid, bool) {
	if g := GeodeticCRSOf(crs); g != nil && g.datum != nil {
		return g.datum.Ellipsoid(), true
	}
	return Ellipsoid{}, false
}

// PrimeMeridianOf returns the prime meridian underlying crs, reporting false
// when the object has no geodetic datum.
func PrimeMeridianOf(crs CRS) (PrimeMeridian, bool) {
	if g := GeodeticCRSOf(crs); g != nil && g.datum != nil {
		return g.datum.PrimeMeridian(), true
	}
	return PrimeMeridian{}, false
}

// CoordinateSystemOf returns the coordinate system of a single-CS CRS,
// reporting false for compound, bound and opaque variants.
func CoordinateSystemOf(crs CRS) (CoordinateSystem, bool) {
	switch c := crs.(type) {
	case *GeodeticCRS:
		return c.cs, true
	case *ProjectedCRS:
		return c.cs, true
	case *VerticalCRS:
		return c.cs, true
	case *TemporalCRS:
		return c.cs, true
	case *EngineeringCRS:
		if c.cs.IsZero() {
			return CoordinateSystem{}, false
		}
		return c.cs, true
	}
	return CoordinateSystem{}, false
}
