package geodesy

import "fmt"

// CSKind tags a coordinate system family.
type CSKind string

// Coordinate system kinds. Axis order within a kind is semantically
// significant: it dictates coordinate tuple layout.
const (
	CSEllipsoidal CSKind = "ellipsoidal"
	CSCartesian   CSKind = "cartesian"
	CSVertical    CSKind = "vertical"
	CSSpherical   CSKind = "spherical"
	CSTemporal    CSKind = "temporal"
	CSUnknownKind CSKind = "unknown"
)

// AxisDirection is the orientation of a coordinate system axis.
type AxisDirection string

// Axis directions used by the supported CS kinds.
const (
	DirNorth       AxisDirection = "north"
	DirSouth       AxisDirection = "south"
	DirEast        AxisDirection = "east"
	DirWest        AxisDirection = "west"
	DirUp          AxisDirection = "up"
	DirDown        AxisDirection = "down"
	DirGeocentricX AxisDirection = "geocentricX"
	DirGeocentricY AxisDirection = "geocentricY"
	DirGeocentricZ AxisDirection = "geocentricZ"
	DirFuture      AxisDirection = "future"
	DirUnspecified AxisDirection = "unspecified"
)

// Axis is a single coordinate system axis.
type Axis struct {
	Name         string
	Abbreviation string
	Direction    AxisDirection
	Unit         UnitOfMeasure
}

// CoordinateSystem is a kind tag plus an ordered axis list.
type CoordinateSystem struct {
	kind CSKind
	axes []Axis
}

// NewCoordinateSystem builds a coordinate system from a kind and axes.
func NewCoordinateSystem(kind CSKind, axes ...Axis) CoordinateSystem {
	return CoordinateSystem{kind: kind, axes: append([]Axis(nil), axes...)}
}

// Kind returns the coordinate system kind tag.
func (cs CoordinateSystem) Kind() CSKind { return cs.kind }

// AxisCount returns the number of axes.
func (cs CoordinateSystem) AxisCount() int { return len(cs.axes) }

// Axes returns the ordered axis list.
func (cs CoordinateSystem) Axes() []Axis { return append([]Axis(nil), cs.axes...) }

// AxisAt returns the axis at index, failing for out-of-range indexes.
func (cs CoordinateSystem) AxisAt(index int) (Axis, error) {
	if index < 0 || index >= len(cs.axes) {
		return Axis{}, fmt.Errorf("%w: axis index %d out of range [0,%d)", ErrInvalidArgument, index, len(cs.axes))
	}
	return cs.axes[index], nil
}

// IsZero reports whether the coordinate system is the zero value.
func (cs CoordinateSystem) IsZero() bool { return cs.kind == "" && len(cs.axes) == 0 }

// withUnit returns a copy with every axis of the given unit kind replaced.
func (cs CoordinateSystem) withUnit(kind UnitKind, unit UnitOfMeasure) CoordinateSystem {
	axes := make([]Axis, len(cs.axes))
	copy(axes, cs.axes)
	for i := range axes {
		if axes[i].Unit.Kind == kind {
			axes[i].Unit = unit
		}
	}
	return CoordinateSystem{kind: cs.kind, axes: axes}
}

// EllipsoidalCS2DLatLon is the conventional latitude-first geographic CS.
func EllipsoidalCS2DLatLon(unit UnitOfMeasure) CoordinateSystem {
	return NewCoordinateSystem(CSEllipsoidal,
		Axis{Name: "Geodetic latitude", Abbreviation: "Lat", Direction: DirNorth, Unit: unit},
		Axis{Name: "Geodetic longitude", Abbreviation: "Lon", Direction: DirEast, Unit: unit},
	)
}

// EllipsoidalCS2DLonLat is the longitude-first geographic CS used by legacy
// GIS conventions.
func EllipsoidalCS2DLonLat(unit UnitOfMeasure) CoordinateSystem {
	return NewCoordinateSystem(CSEllipsoidal,
		Axis{Name: "Geodetic longitude", Abbreviation: "Lon", Direction: DirEast, Unit: unit},
		Axis{Name: "Geodetic latitude", Abbreviation: "Lat", Direction: DirNorth, Unit: unit},
	)
}

// EllipsoidalCS3D is the latitude-first geographic CS with an ellipsoidal
// height axis in metres.
func EllipsoidalCS3D(angular UnitOfMeasure) CoordinateSystem {
	return NewCoordinateSystem(CSEllipsoidal,
		Axis{Name: "Geodetic latitude", Abbreviation: "Lat", Direction: DirNorth, Unit: angular},
		Axis{Name: "Geodetic longitude", Abbreviation: "Lon", Direction: DirEast, Unit: angular},
		Axis{Name: "Ellipsoidal height", Abbreviation: "h", Direction: DirUp, Unit: UnitMetre},
	)
}

// CartesianCSEastNorth is the conventional projected easting/northing CS.
func CartesianCSEastNorth(unit UnitOfMeasure) CoordinateSystem {
	return NewCoordinateSystem(CSCartesian,
		Axis{Name: "Easting", Abbreviation: "E", Direction: DirEast, Unit: unit},
		Axis{Name: "Northing", Abbreviation: "N", Direction: DirNorth, Unit: unit},
	)
}

// CartesianCSGeocentric is the geocentric X/Y/Z CS.
func CartesianCSGeocentric(unit UnitOfMeasure) CoordinateSystem {
	return NewCoordinateSystem(CSCartesian,
		Axis{Name: "Geocentric X", Abbreviation: "X", Direction: DirGeocentricX, Unit: unit},
		Axis{Name: "Geocentric Y", Abbreviation: "Y", Direction: DirGeocentricY, Unit: unit},
		Axis{Name: "Geocentric Z", Abbreviation: "Z", Direction: DirGeocentricZ, Unit: unit},
	)
}

// VerticalCSUp is the single-axis gravity-related height CS.
func VerticalCSUp(unit UnitOfMeasure) CoordinateSystem {
	return NewCoordinateSystem(CSVertical,
		Axis{Name: "Gravity-related height", Abbreviation: "H", Direction: DirUp, Unit: unit},
	)
}

// latLonOrder classifies an ellipsoidal CS as latitude-first, longitude-first
// or neither.
func (cs CoordinateSystem) latLonOrder() (latFirst, recognized bool) {
	if cs.kind != CSEllipsoidal || len(cs.axes) < 2 {
		return false, false
	}
	a, b := cs.axes[0].Direction, cs.axes[1].Direction
	switch {
	case a == DirNorth && b == DirEast:
		return true, true
	case a == DirEast && b == DirNorth:
		return false, true
	}
	return false, false
}
