package wkt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"crskit/pkg/geodesy"
)

// Format renders obj in the requested dialect. Constructs the dialect cannot
// express fail with *UnrepresentableError instead of producing lossy text.
func Format(obj geodesy.Object, dialect Dialect, opts Options) (string, error) {
	f := &formatter{dialect: dialect, opts: opts}
	switch dialect {
	case WKT22018, WKT22015:
		f.wkt2 = true
	case WKT22018Simplified, WKT22015Simplified:
		f.wkt2 = true
		f.simplified = true
	case WKT1GDAL:
	case WKT1ESRI:
		f.esri = true
	default:
		return "", fmt.Errorf("wkt: unknown dialect %q", dialect)
	}
	f.w = &writer{multiline: opts.Multiline, indentWidth: opts.IndentWidth, esri: f.esri}
	if err := f.object(obj); err != nil {
		return "", err
	}
	return f.w.sb.String(), nil
}

type formatter struct {
	w          *writer
	dialect    Dialect
	opts       Options
	wkt2       bool
	simplified bool
	esri       bool
}

func (f *formatter) object(obj geodesy.Object) error {
	if f.wkt2 {
		switch v := obj.(type) {
		case *geodesy.GeodeticCRS:
			return f.geodeticCRS2(v)
		case *geodesy.ProjectedCRS:
			return f.projectedCRS2(v)
		case *geodesy.VerticalCRS:
			return f.verticalCRS2(v)
		case *geodesy.CompoundCRS:
			return f.compoundCRS2(v)
		case *geodesy.BoundCRS:
			return f.boundCRS2(v)
		case *geodesy.TemporalCRS:
			return f.temporalCRS2(v)
		case *geodesy.EngineeringCRS:
			return f.engineeringCRS2(v)
		case geodesy.Ellipsoid:
			f.ellipsoid2(v)
			return nil
		case geodesy.PrimeMeridian:
			f.primeMeridian2(v, true)
			return nil
		case geodesy.GeodeticReferenceFrame:
			return f.datum2(v)
		case geodesy.DynamicGeodeticReferenceFrame:
			return f.datum2(v)
		case geodesy.Conversion:
			f.conversion2(v)
			return nil
		case geodesy.Transformation:
			return f.transformation2(v)
		}
		return &UnrepresentableError{Dialect: f.dialect, What: fmt.Sprintf("%T", obj)}
	}
	switch v := obj.(type) {
	case *geodesy.GeodeticCRS:
		return f.geodeticCRS1(v)
	case *geodesy.ProjectedCRS:
		return f.projectedCRS1(v)
	case *geodesy.VerticalCRS:
		return f.verticalCRS1(v)
	case *geodesy.CompoundCRS:
		return f.compoundCRS1(v)
	case *geodesy.EngineeringCRS:
		return f.engineeringCRS1(v)
	}
	return &UnrepresentableError{Dialect: f.dialect, What: fmt.Sprintf("%T", obj)}
}

// ---- WKT2 ----

func (f *formatter) geodeticCRS2(c *geodesy.GeodeticCRS) error {
	keyword := "GEODCRS"
	if (f.dialect == WKT22018 || f.dialect == WKT22018Simplified) && c.Kind() != geodesy.KindGeocentric {
		keyword = "GEOGCRS"
	}
	f.w.begin(keyword)
	f.w.quote(c.Info().Name())
	if err := f.datum2(c.Datum()); err != nil {
		return err
	}
	if gd, ok := c.Datum().(geodesy.GeodeticDatum); ok {
		f.primeMeridian2(gd.PrimeMeridian(), false)
	}
	f.cs2(c.CoordinateSystem())
	f.id2(c.Info())
	f.w.end()
	return nil
}

func (f *formatter) projectedCRS2(c *geodesy.ProjectedCRS) error {
	f.w.begin("PROJCRS")
	f.w.quote(c.Info().Name())
	base := c.BaseCRS()
	baseKeyword := "BASEGEODCRS"
	if (f.dialect == WKT22018 || f.dialect == WKT22018Simplified) && base.Kind() != geodesy.KindGeocentric {
		baseKeyword = "BASEGEOGCRS"
	}
	f.w.begin(baseKeyword)
	f.w.quote(base.Info().Name())
	if err := f.datum2(base.Datum()); err != nil {
		return err
	}
	if gd, ok := base.Datum().(geodesy.GeodeticDatum); ok {
		f.primeMeridian2(gd.PrimeMeridian(), false)
	}
	f.id2(base.Info())
	f.w.end()
	f.conversion2(c.Conversion())
	f.cs2(c.CoordinateSystem())
	f.id2(c.Info())
	f.w.end()
	return nil
}

func (f *formatter) verticalCRS2(c *geodesy.VerticalCRS) error {
	f.w.begin("VERTCRS")
	f.w.quote(c.Info().Name())
	switch d := c.Datum().(type) {
	case geodesy.VerticalReferenceFrame:
		f.w.begin("VDATUM")
		f.w.quote(d.Info().Name())
		f.anchor2(d.Anchor())
		f.id2(d.Info())
		f.w.end()
	case geodesy.DynamicVerticalReferenceFrame:
		if f.dialect != WKT22018 && f.dialect != WKT22018Simplified {
			return &UnrepresentableError{Dialect: f.dialect, What: "dynamic vertical reference frame"}
		}
		f.w.begin("DYNAMIC")
		f.w.begin("FRAMEEPOCH")
		f.w.number(d.FrameReferenceEpoch())
		f.w.end()
		f.w.end()
		f.w.begin("VDATUM")
		f.w.quote(d.Info().Name())
		f.id2(d.Info())
		f.w.end()
	default:
		return &UnrepresentableError{Dialect: f.dialect, What: fmt.Sprintf("vertical CRS datum %T", c.Datum())}
	}
	f.cs2(c.CoordinateSystem())
	f.id2(c.Info())
	f.w.end()
	return nil
}

func (f *formatter) compoundCRS2(c *geodesy.CompoundCRS) error {
	f.w.begin("COMPOUNDCRS")
	f.w.quote(c.Info().Name())
	for _, comp := range c.Components() {
		if err := f.object(comp); err != nil {
			return err
		}
	}
	f.id2(c.Info())
	f.w.end()
	return nil
}

func (f *formatter) boundCRS2(c *geodesy.BoundCRS) error {
	f.w.begin("BOUNDCRS")
	f.w.begin("SOURCECRS")
	if err := f.object(c.BaseCRS()); err != nil {
		return err
	}
	f.w.end()
	f.w.begin("TARGETCRS")
	if err := f.object(c.HubCRS()); err != nil {
		return err
	}
	f.w.end()
	t := c.Transformation()
	f.w.begin("ABRIDGEDTRANSFORMATION")
	f.w.quote(t.Info().Name())
	f.method2(t.Method())
	for _, p := range t.Parameters() {
		f.parameter2(p)
	}
	f.w.end()
	f.w.end()
	return nil
}

func (f *formatter) temporalCRS2(c *geodesy.TemporalCRS) error {
	f.w.begin("TIMECRS")
	f.w.quote(c.Info().Name())
	f.w.begin("TDATUM")
	f.w.quote("Unknown")
	f.w.end()
	f.cs2(c.CoordinateSystem())
	f.id2(c.Info())
	f.w.end()
	return nil
}

func (f *formatter) engineeringCRS2(c *geodesy.EngineeringCRS) error {
	f.w.begin("ENGCRS")
	f.w.quote(c.Info().Name())
	f.w.begin("EDATUM")
	f.w.quote("Unknown engineering datum")
	f.w.end()
	if cs := c.CoordinateSystem(); !cs.IsZero() {
		f.cs2(cs)
	}
	f.id2(c.Info())
	f.w.end()
	return nil
}

func (f *formatter) transformation2(t geodesy.Transformation) error {
	f.w.begin("COORDINATEOPERATION")
	f.w.quote(t.Info().Name())
	if t.SourceCRS() != nil {
		f.w.begin("SOURCECRS")
		if err := f.object(t.SourceCRS()); err != nil {
			return err
		}
		f.w.end()
	}
	if t.TargetCRS() != nil {
		f.w.begin("TARGETCRS")
		if err := f.object(t.TargetCRS()); err != nil {
			return err
		}
		f.w.end()
	}
	f.method2(t.Method())
	for _, p := range t.Parameters() {
		f.parameter2(p)
	}
	if acc, ok := t.Accuracy(); ok {
		f.w.begin("OPERATIONACCURACY")
		f.w.number(acc)
		f.w.end()
	}
	f.id2(t.Info())
	f.w.end()
	return nil
}

func (f *formatter) datum2(d geodesy.Datum) error {
	switch v := d.(type) {
	case geodesy.GeodeticReferenceFrame:
		f.w.begin("DATUM")
		f.w.quote(v.Info().Name())
		f.ellipsoid2(v.Ellipsoid())
		f.anchor2(v.Anchor())
		f.id2(v.Info())
		f.w.end()
		return nil
	case geodesy.DynamicGeodeticReferenceFrame:
		if f.dialect != WKT22018 && f.dialect != WKT22018Simplified {
			return &UnrepresentableError{Dialect: f.dialect, What: "dynamic geodetic reference frame"}
		}
		f.w.begin("DYNAMIC")
		f.w.begin("FRAMEEPOCH")
		f.w.number(v.FrameReferenceEpoch())
		f.w.end()
		f.w.end()
		f.w.begin("DATUM")
		f.w.quote(v.Info().Name())
		f.ellipsoid2(v.Ellipsoid())
		f.id2(v.Info())
		f.w.end()
		return nil
	case geodesy.DatumEnsemble:
		if f.dialect != WKT22018 && f.dialect != WKT22018Simplified {
			return &UnrepresentableError{Dialect: f.dialect, What: "datum ensemble"}
		}
		f.w.begin("ENSEMBLE")
		f.w.quote(v.Info().Name())
		for _, m := range v.Members() {
			f.w.begin("MEMBER")
			f.w.quote(m.Info().Name())
			f.id2(m.Info())
			f.w.end()
		}
		f.ellipsoid2(v.Ellipsoid())
		f.w.begin("ENSEMBLEACCURACY")
		f.w.number(v.Accuracy())
		f.w.end()
		f.id2(v.Info())
		f.w.end()
		return nil
	}
	return &UnrepresentableError{Dialect: f.dialect, What: fmt.Sprintf("datum %T", d)}
}

func (f *formatter) ellipsoid2(e geodesy.Ellipsoid) {
	f.w.begin("ELLIPSOID")
	f.w.quote(e.Info().Name())
	f.w.number(e.SemiMajor())
	f.w.number(e.InverseFlattening())
	f.unit2(e.Unit())
	f.id2(e.Info())
	f.w.end()
}

// primeMeridian2 writes a PRIMEM node; the zero Greenwich meridian is omitted
// in the simplified dialects unless standalone.
func (f *formatter) primeMeridian2(pm geodesy.PrimeMeridian, standalone bool) {
	if f.simplified && !standalone && pm.Longitude() == 0 && pm.Info().Name() == "Greenwich" {
		return
	}
	f.w.begin("PRIMEM")
	f.w.quote(pm.Info().Name())
	f.w.number(pm.Longitude())
	f.unit2(pm.Unit())
	f.id2(pm.Info())
	f.w.end()
}

func (f *formatter) conversion2(c geodesy.Conversion) {
	f.w.begin("CONVERSION")
	f.w.quote(c.Info().Name())
	f.method2(c.Method())
	for _, p := range c.Parameters() {
		f.parameter2(p)
	}
	f.w.end()
}

func (f *formatter) method2(m geodesy.OperationMethod) {
	f.w.begin("METHOD")
	f.w.quote(m.Info().Name())
	f.id2(m.Info())
	f.w.end()
}

func (f *formatter) parameter2(p geodesy.Parameter) {
	if s, ok := p.StringValue(); ok {
		f.w.begin("PARAMETERFILE")
		f.w.quote(p.Name())
		f.w.quote(s)
		f.w.end()
		return
	}
	value, unit, _ := p.Value()
	f.w.begin("PARAMETER")
	f.w.quote(p.Name())
	f.w.number(value)
	f.unit2(unit)
	if id := p.Identifier(); !f.simplified && id.Code != "" {
		f.idPair(id)
	}
	f.w.end()
}

func (f *formatter) cs2(cs geodesy.CoordinateSystem) {
	f.w.begin("CS")
	kind := string(cs.Kind())
	if cs.Kind() == geodesy.CSCartesian {
		kind = "Cartesian"
	}
	f.w.bare(kind)
	f.w.number(float64(cs.AxisCount()))
	f.w.end()
	axes := cs.Axes()
	for i, ax := range axes {
		f.w.begin("AXIS")
		name := strings.ToLower(ax.Name)
		if ax.Abbreviation != "" {
			name += " (" + ax.Abbreviation + ")"
		}
		f.w.quote(name)
		f.w.bare(string(ax.Direction))
		if !f.simplified {
			f.w.begin("ORDER")
			f.w.number(float64(i + 1))
			f.w.end()
			f.unit2(ax.Unit)
		}
		f.w.end()
	}
	if f.simplified && len(axes) > 0 {
		// One shared unit node stands in for the per-axis units.
		f.unitNode("UNIT", axes[0].Unit)
	}
}

func (f *formatter) unit2(unit geodesy.UnitOfMeasure) {
	if f.simplified || unit.IsZero() {
		return
	}
	keyword := "UNIT"
	switch unit.Kind {
	case geodesy.UnitAngular:
		keyword = "ANGLEUNIT"
		if f.dialect == WKT22015 {
			keyword = "ANGULARUNIT"
		}
	case geodesy.UnitLinear:
		keyword = "LENGTHUNIT"
	case geodesy.UnitScale:
		keyword = "SCALEUNIT"
	case geodesy.UnitTime:
		keyword = "TIMEUNIT"
	}
	f.unitNode(keyword, unit)
}

func (f *formatter) unitNode(keyword string, unit geodesy.UnitOfMeasure) {
	f.w.begin(keyword)
	f.w.quote(unit.Name)
	f.w.number(unit.Factor)
	f.w.end()
}

func (f *formatter) anchor2(anchor string) {
	if anchor == "" || f.simplified {
		return
	}
	f.w.begin("ANCHOR")
	f.w.quote(anchor)
	f.w.end()
}

func (f *formatter) id2(info geodesy.ObjectInfo) {
	if f.simplified {
		return
	}
	ids := info.Identifiers()
	if len(ids) == 0 {
		return
	}
	f.idPair(ids[0])
}

func (f *formatter) idPair(id geodesy.Identifier) {
	f.w.begin("ID")
	f.w.quote(id.Authority)
	if code, err := strconv.Atoi(id.Code); err == nil {
		f.w.number(float64(code))
	} else {
		f.w.quote(id.Code)
	}
	f.w.end()
}

// ---- WKT1 ----

func (f *formatter) geodeticCRS1(c *geodesy.GeodeticCRS) error {
	if c.Kind() == geodesy.KindGeographic3D {
		return &UnrepresentableError{Dialect: f.dialect, What: "geographic 3D CRS"}
	}
	keyword := "GEOGCS"
	if c.Kind() == geodesy.KindGeocentric {
		keyword = "GEOCCS"
	}
	f.w.begin(keyword)
	f.w.quote(f.crsName1(c.Info().Name()))
	if err := f.datum1(c.Datum()); err != nil {
		return err
	}
	gd := c.Datum().(geodesy.GeodeticDatum)
	f.primeMeridian1(gd.PrimeMeridian())
	cs := c.CoordinateSystem()
	if ax := cs.Axes(); len(ax) > 0 {
		f.unit1(ax[0].Unit)
	}
	f.axes1(cs)
	f.authority1(c.Info())
	f.w.end()
	return nil
}

func (f *formatter) projectedCRS1(c *geodesy.ProjectedCRS) error {
	f.w.begin("PROJCS")
	f.w.quote(c.Info().Name())
	if err := f.geodeticCRS1(c.BaseCRS()); err != nil {
		return err
	}
	conv := c.Conversion()
	methodName, ok := wkt1MethodNames[firstCode(conv.Method().Info())]
	if !ok {
		return &UnrepresentableError{Dialect: f.dialect, What: "projection method " + conv.Method().Info().Name()}
	}
	f.w.begin("PROJECTION")
	f.w.quote(methodName)
	f.w.end()
	cs := c.CoordinateSystem()
	linear := geodesy.UnitMetre
	if ax := cs.Axes(); len(ax) > 0 {
		linear = ax[0].Unit
	}
	for _, p := range conv.Parameters() {
		name, ok := wkt1ParamNames[p.Identifier().Code]
		if !ok {
			continue
		}
		value, unit, ok := p.Value()
		if !ok {
			continue
		}
		switch unit.Kind {
		case geodesy.UnitAngular:
			value = value * unit.Factor / geodesy.UnitDegree.Factor
		case geodesy.UnitLinear:
			value = value * unit.Factor / linear.Factor
		}
		f.w.begin("PARAMETER")
		f.w.quote(name)
		f.w.number(value)
		f.w.end()
	}
	f.unit1(linear)
	f.axes1(cs)
	f.authority1(c.Info())
	f.w.end()
	return nil
}

func (f *formatter) verticalCRS1(c *geodesy.VerticalCRS) error {
	f.w.begin("VERT_CS")
	f.w.quote(c.Info().Name())
	f.w.begin("VERT_DATUM")
	f.w.quote(c.Datum().Info().Name())
	f.w.number(2005)
	f.w.end()
	cs := c.CoordinateSystem()
	if ax := cs.Axes(); len(ax) > 0 {
		f.unit1(ax[0].Unit)
	}
	if f.opts.OutputAxis == AxisYes && !f.esri {
		f.w.begin("AXIS")
		f.w.quote("Up")
		f.w.bare("UP")
		f.w.end()
	}
	f.authority1(c.Info())
	f.w.end()
	return nil
}

func (f *formatter) compoundCRS1(c *geodesy.CompoundCRS) error {
	f.w.begin("COMPD_CS")
	f.w.quote(c.Info().Name())
	for _, comp := range c.Components() {
		if err := f.object(comp); err != nil {
			return err
		}
	}
	f.authority1(c.Info())
	f.w.end()
	return nil
}

func (f *formatter) engineeringCRS1(c *geodesy.EngineeringCRS) error {
	f.w.begin("LOCAL_CS")
	f.w.quote(c.Info().Name())
	if cs := c.CoordinateSystem(); !cs.IsZero() {
		if ax := cs.Axes(); len(ax) > 0 {
			f.unit1(ax[0].Unit)
		}
		f.axes1(cs)
	}
	f.authority1(c.Info())
	f.w.end()
	return nil
}

func (f *formatter) datum1(d geodesy.Datum) error {
	frame, ok := d.(geodesy.GeodeticReferenceFrame)
	if !ok {
		// Dynamic frames and ensembles have no legacy spelling.
		return &UnrepresentableError{Dialect: f.dialect, What: fmt.Sprintf("datum %T", d)}
	}
	name := frame.Info().Name()
	if f.esri {
		name = aliasOrName(f.opts.Aliases, TableGeodeticDatum, name, FlavorESRI)
		if !strings.HasPrefix(name, "D_") {
			name = "D_" + underscore(name)
		}
	} else {
		name = aliasOrName(f.opts.Aliases, TableGeodeticDatum, name, FlavorGDAL)
	}
	f.w.begin("DATUM")
	f.w.quote(name)
	e := frame.Ellipsoid()
	eName := e.Info().Name()
	if f.esri {
		eName = aliasOrName(f.opts.Aliases, TableEllipsoid, eName, FlavorESRI)
	}
	f.w.begin("SPHEROID")
	f.w.quote(eName)
	f.w.number(e.SemiMajor())
	f.w.number(e.InverseFlattening())
	f.authority1(e.Info())
	f.w.end()
	f.authority1(frame.Info())
	f.w.end()
	return nil
}

func (f *formatter) primeMeridian1(pm geodesy.PrimeMeridian) {
	f.w.begin("PRIMEM")
	f.w.quote(pm.Info().Name())
	f.w.number(pm.Longitude())
	f.authority1(pm.Info())
	f.w.end()
}

func (f *formatter) unit1(unit geodesy.UnitOfMeasure) {
	name := unit.Name
	if f.esri {
		name = aliasOrName(f.opts.Aliases, TableUnitOfMeasure, name, FlavorESRI)
	}
	f.w.begin("UNIT")
	f.w.quote(name)
	f.w.number(unit.Factor)
	if !f.esri {
		switch unit.Name {
		case "degree":
			f.authorityPair("EPSG", "9122")
		case "metre":
			f.authorityPair("EPSG", "9001")
		}
	}
	f.w.end()
}

// axes1 writes the WKT1 AXIS nodes, honoring the OUTPUT_AXIS option. ESRI
// output never lists axes.
func (f *formatter) axes1(cs geodesy.CoordinateSystem) {
	if f.esri || f.opts.OutputAxis == AxisNo {
		return
	}
	if f.opts.OutputAxis == AxisAuto && conventionalOrder(cs) {
		return
	}
	for _, ax := range cs.Axes() {
		f.w.begin("AXIS")
		f.w.quote(ax.Name)
		f.w.bare(wkt1Direction(ax.Direction))
		f.w.end()
	}
}

// conventionalOrder reports the axis orders legacy consumers assume, which
// AUTO leaves implicit.
func conventionalOrder(cs geodesy.CoordinateSystem) bool {
	axes := cs.Axes()
	switch cs.Kind() {
	case geodesy.CSEllipsoidal:
		return len(axes) == 2
	case geodesy.CSCartesian:
		return len(axes) == 2 && axes[0].Direction == geodesy.DirEast && axes[1].Direction == geodesy.DirNorth
	}
	return false
}

func wkt1Direction(d geodesy.AxisDirection) string {
	switch d {
	case geodesy.DirNorth, geodesy.DirSouth, geodesy.DirEast, geodesy.DirWest,
		geodesy.DirUp, geodesy.DirDown:
		return strings.ToUpper(string(d))
	}
	return "OTHER"
}

func (f *formatter) crsName1(name string) string {
	if !f.esri {
		return name
	}
	alias := aliasOrName(f.opts.Aliases, TableGeodeticCRS, name, FlavorESRI)
	if !strings.HasPrefix(alias, "GCS_") {
		alias = "GCS_" + underscore(alias)
	}
	return alias
}

func (f *formatter) authority1(info geodesy.ObjectInfo) {
	if f.esri {
		return
	}
	ids := info.Identifiers()
	if len(ids) == 0 {
		return
	}
	f.authorityPair(ids[0].Authority, ids[0].Code)
}

func (f *formatter) authorityPair(authority, code string) {
	f.w.begin("AUTHORITY")
	f.w.quote(authority)
	f.w.quote(code)
	f.w.end()
}

func underscore(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '(', ')', ',':
			return '_'
		}
		return r
	}, name)
}

func firstCode(info geodesy.ObjectInfo) string {
	ids := info.Identifiers()
	if len(ids) == 0 {
		return ""
	}
	return ids[0].Code
}

// Legacy spellings of the supported projection methods and their EPSG
// parameters.
var wkt1MethodNames = map[string]string{
	geodesy.MethodTransverseMercator: "Transverse_Mercator",
	geodesy.MethodMercatorA:          "Mercator_1SP",
	geodesy.MethodMercatorB:          "Mercator_2SP",
}

var wkt1ParamNames = map[string]string{
	"8801": "latitude_of_origin",
	"8802": "central_meridian",
	"8805": "scale_factor",
	"8806": "false_easting",
	"8807": "false_northing",
	"8823": "standard_parallel_1",
}

// ---- low-level emission ----

type writer struct {
	sb          strings.Builder
	multiline   bool
	indentWidth int
	esri        bool
	depth       int
	fresh       []bool
}

func (w *writer) begin(keyword string) {
	w.sep(true)
	w.sb.WriteString(keyword)
	w.sb.WriteByte('[')
	w.fresh = append(w.fresh, true)
	w.depth++
}

func (w *writer) end() {
	w.depth--
	w.fresh = w.fresh[:len(w.fresh)-1]
	w.sb.WriteByte(']')
}

func (w *writer) sep(isNode bool) {
	if len(w.fresh) == 0 {
		return
	}
	if w.fresh[len(w.fresh)-1] {
		w.fresh[len(w.fresh)-1] = false
	} else {
		w.sb.WriteByte(',')
	}
	if isNode && w.multiline {
		w.sb.WriteByte('\n')
		for i := 0; i < w.depth*w.indentWidth; i++ {
			w.sb.WriteByte(' ')
		}
	}
}

func (w *writer) quote(s string) {
	w.sep(false)
	w.sb.WriteByte('"')
	w.sb.WriteString(strings.ReplaceAll(s, `"`, `""`))
	w.sb.WriteByte('"')
}

func (w *writer) bare(s string) {
	w.sep(false)
	w.sb.WriteString(s)
}

func (w *writer) number(f float64) {
	w.sep(false)
	if w.esri && f == math.Trunc(f) && math.Abs(f) < 1e15 {
		w.sb.WriteString(strconv.FormatFloat(f, 'f', 1, 64))
		return
	}
	w.sb.WriteString(strconv.FormatFloat(f, 'g', 15, 64))
}
