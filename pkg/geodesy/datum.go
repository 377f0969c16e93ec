package geodesy

// Datum is the closed set of datum variants.
type Datum interface {
	Object
	datumTag()
}

// GeodeticDatum is the capability shared by datum variants that anchor a
// geodetic CRS: they expose an ellipsoid and a prime meridian.
type GeodeticDatum interface {
	Datum
	Ellipsoid() Ellipsoid
	PrimeMeridian() PrimeMeridian
}

// GeodeticReferenceFrame anchors geodetic coordinates to an ellipsoid and a
// prime meridian, with an optional textual anchor definition.
type GeodeticReferenceFrame struct {
	info          ObjectInfo
	ellipsoid     Ellipsoid
	primeMeridian PrimeMeridian
	anchor        string
}

// NewGeodeticReferenceFrame builds a static geodetic reference frame.
func NewGeodeticReferenceFrame(info ObjectInfo, ellipsoid Ellipsoid, pm PrimeMeridian) GeodeticReferenceFrame {
	return GeodeticReferenceFrame{info: info, ellipsoid: ellipsoid, primeMeridian: pm}
}

// WithAnchor returns a copy carrying an anchor definition.
func (f GeodeticReferenceFrame) WithAnchor(anchor string) GeodeticReferenceFrame {
	f.anchor = anchor
	return f
}

// Info returns the identification fields.
func (f GeodeticReferenceFrame) Info() ObjectInfo { return f.info }

// Ellipsoid returns the reference ellipsoid.
func (f GeodeticReferenceFrame) Ellipsoid() Ellipsoid { return f.ellipsoid }

// PrimeMeridian returns the longitude origin.
func (f GeodeticReferenceFrame) PrimeMeridian() PrimeMeridian { return f.primeMeridian }

// Anchor returns the anchor definition, possibly empty.
func (f GeodeticReferenceFrame) Anchor() string { return f.anchor }

func (GeodeticReferenceFrame) datumTag() {}

// DynamicGeodeticReferenceFrame adds a frame reference epoch to a geodetic
// reference frame.
type DynamicGeodeticReferenceFrame struct {
	GeodeticReferenceFrame
	frameReferenceEpoch float64
}

// NewDynamicGeodeticReferenceFrame builds a dynamic geodetic frame with a
// decimal-year reference epoch.
func NewDynamicGeodeticReferenceFrame(frame GeodeticReferenceFrame, epoch float64) DynamicGeodeticReferenceFrame {
	return DynamicGeodeticReferenceFrame{GeodeticReferenceFrame: frame, frameReferenceEpoch: epoch}
}

// FrameReferenceEpoch returns the reference epoch as a decimal year.
func (f DynamicGeodeticReferenceFrame) FrameReferenceEpoch() float64 { return f.frameReferenceEpoch }

// VerticalReferenceFrame anchors gravity-related heights.
type VerticalReferenceFrame struct {
	info   ObjectInfo
	anchor string
}

// NewVerticalReferenceFrame builds a vertical reference frame.
func NewVerticalReferenceFrame(info ObjectInfo) VerticalReferenceFrame {
	return VerticalReferenceFrame{info: info}
}

// WithAnchor returns a copy carrying an anchor definition.
func (f VerticalReferenceFrame) WithAnchor(anchor string) VerticalReferenceFrame {
	f.anchor = anchor
	return f
}

// Info returns the identification fields.
func (f VerticalReferenceFrame) Info() ObjectInfo { return f.info }

// Anchor returns the anchor definition, possibly empty.
func (f VerticalReferenceFrame) Anchor() string { return f.anchor }

func (VerticalReferenceFrame) datumTag() {}

// DynamicVerticalReferenceFrame adds a frame reference epoch to a vertical
// reference frame.
type DynamicVerticalReferenceFrame struct {
	VerticalReferenceFrame
	frameReferenceEpoch float64
}

// NewDynamicVerticalReferenceFrame builds a dynamic vertical frame.
func NewDynamicVerticalReferenceFrame(frame VerticalReferenceFrame, epoch float64) DynamicVerticalReferenceFrame {
	return DynamicVerticalReferenceFrame{VerticalReferenceFrame: frame, frameReferenceEpoch: epoch}
}

// FrameReferenceEpoch returns the reference epoch as a decimal year.
func (f DynamicVerticalReferenceFrame) FrameReferenceEpoch() float64 { return f.frameReferenceEpoch }

// DatumEnsemble groups datums whose realizations agree within a stated
// accuracy, letting a CRS be anchored to the group rather than one member.
type DatumEnsemble struct {
	info     ObjectInfo
	members  []Datum
	accuracy float64
}

// NewDatumEnsemble builds an ensemble from ordered members and an ensemble
// accuracy in metres.
func NewDatumEnsemble(info ObjectInfo, members []Datum, accuracy float64) DatumEnsemble {
	return DatumEnsemble{info: info, members: append([]Datum(nil), members...), accuracy: accuracy}
}

// Info returns the identification fields.
func (d DatumEnsemble) Info() ObjectInfo { return d.info }

// Members returns the ordered member datums.
func (d DatumEnsemble) Members() []Datum { return append([]Datum(nil), d.members...) }

// Accuracy returns the ensemble accuracy in metres.
func (d DatumEnsemble) Accuracy() float64 { return d.accuracy }

func (DatumEnsemble) datumTag() {}

// Ellipsoid implements GeodeticDatum for ensembles whose first member is
// geodetic; a zero Ellipsoid otherwise.
func (d DatumEnsemble) Ellipsoid() Ellipsoid {
	if len(d.members) > 0 {
		if g, ok := d.members[0].(GeodeticDatum); ok {
			return g.Ellipsoid()
		}
	}
	return Ellipsoid{}
}

// PrimeMeridian implements GeodeticDatum for ensembles whose first member is
// geodetic; a zero PrimeMeridian otherwise.
func (d DatumEnsemble) PrimeMeridian() PrimeMeridian {
	if len(d.members) > 0 {
		if g, ok := d.members[0].(GeodeticDatum); ok {
			return g.PrimeMeridian()
		}
	}
	return PrimeMeridian{}
}
