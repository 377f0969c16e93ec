package projstr

import (
	"fmt"
	"strconv"
	"strings"

	"crskit/pkg/geodesy"
)

// Format renders obj in the requested style. Objects without a
// representation in that style return *UnrepresentableError.
func Format(obj geodesy.Object, style Style, opts Options) (string, error) {
	var tokens []string
	var err error
	switch style {
	case Proj4:
		tokens, err = proj4Tokens(obj, opts)
	case Proj5:
		tokens, err = proj5Tokens(obj, opts)
	default:
		err = fmt.Errorf("projstr: unknown style %q", style)
	}
	if err != nil {
		return "", err
	}
	return strings.Join(tokens, " "), nil
}

func num(v float64) string { return strconv.FormatFloat(v, 'g', 15, 64) }

func approx(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	scale := a
	if scale < 0 {
		scale = -scale
	}
	if b > scale {
		scale = b
	} else if -b > scale {
		scale = -b
	}
	if scale == 0 {
		return diff == 0
	}
	return diff <= 1e-9*scale
}

func epsgCode(obj geodesy.Object) string {
	if obj == nil {
		return ""
	}
	for _, id := range obj.Info().Identifiers() {
		if strings.EqualFold(id.Authority, "EPSG") {
			return id.Code
		}
	}
	return ""
}

func describe(obj geodesy.Object) string {
	switch v := obj.(type) {
	case geodesy.CRS:
		return string(v.Kind()) + " CRS"
	case geodesy.Transformation:
		return "transformation"
	case geodesy.ConcatenatedOperation:
		return "concatenated operation"
	}
	return fmt.Sprintf("%T", obj)
}

func toDegrees(v float64, u geodesy.UnitOfMeasure) float64 {
	if u.IsZero() || u == geodesy.UnitDegree {
		return v
	}
	return v * u.Factor / geodesy.UnitDegree.Factor
}

func toMetres(v float64, u geodesy.UnitOfMeasure) float64 {
	if u.IsZero() || u.Factor == 1 {
		return v
	}
	return v * u.Factor
}

func toArcSeconds(v float64, u geodesy.UnitOfMeasure) float64 {
	if u.IsZero() || u == geodesy.UnitArcSec {
		return v
	}
	return v * u.Factor / geodesy.UnitArcSec.Factor
}

func toPPM(v float64, u geodesy.UnitOfMeasure) float64 {
	if u.IsZero() || u == geodesy.UnitPPM {
		return v
	}
	return v * u.Factor / geodesy.UnitPPM.Factor
}

func proj4Tokens(obj geodesy.Object, opts Options) ([]string, error) {
	if crs, ok := obj.(geodesy.CRS); ok {
		tokens, err := crsTokens4(crs, opts)
		if err != nil {
			return nil, err
		}
		return append(tokens, "+no_defs"), nil
	}
	if conv, ok := obj.(geodesy.Conversion); ok {
		return conversionTokens(conv, Proj4, opts)
	}
	return nil, &UnrepresentableError{Proj4, describe(obj)}
}

func crsTokens4(crs geodesy.CRS, opts Options) ([]string, error) {
	switch v := crs.(type) {
	case *geodesy.GeodeticCRS:
		return geodeticTokens4(v, "", opts)
	case *geodesy.ProjectedCRS:
		return projectedTokens4(v, "", opts)
	case *geodesy.BoundCRS:
		shift, err := towgs84Of(v)
		if err != nil {
			return nil, err
		}
		switch base := v.BaseCRS().(type) {
		case *geodesy.ProjectedCRS:
			return projectedTokens4(base, shift, opts)
		case *geodesy.GeodeticCRS:
			return geodeticTokens4(base, shift, opts)
		}
		return nil, &UnrepresentableError{Proj4, "bound CRS over a " + describe(v.BaseCRS())}
	case *geodesy.CompoundCRS:
		var horizontal geodesy.CRS
		var vertical *geodesy.VerticalCRS
		for _, comp := range v.Components() {
			if vc, ok := comp.(*geodesy.VerticalCRS); ok {
				if vertical == nil {
					vertical = vc
				}
				continue
			}
			if horizontal == nil {
				horizontal = comp
			}
		}
		if horizontal == nil {
			return nil, &UnrepresentableError{Proj4, "compound CRS without a horizontal component"}
		}
		tokens, err := crsTokens4(horizontal, opts)
		if err != nil {
			return nil, err
		}
		if vertical != nil {
			if axis, err := vertical.CoordinateSystem().AxisAt(0); err == nil && !axis.Unit.IsZero() {
				tokens = append(tokens, vunitsTokens(axis.Unit)...)
			}
		}
		return tokens, nil
	}
	return nil, &UnrepresentableError{Proj4, describe(crs)}
}

func geodeticTokens4(crs *geodesy.GeodeticCRS, shift string, opts Options) ([]string, error) {
	datum := crs.Datum()
	if datum == nil {
		return nil, &UnrepresentableError{Proj4, "geodetic CRS without a datum"}
	}
	switch crs.Kind() {
	case geodesy.KindGeocentric:
		tokens := []string{"+proj=geocent"}
		tokens = append(tokens, datumTokens(datum, shift == "")...)
		if shift != "" {
			tokens = append(tokens, "+towgs84="+shift)
		}
		unit := geodesy.UnitMetre
		if axis, err := crs.CoordinateSystem().AxisAt(0); err == nil && !axis.Unit.IsZero() {
			unit = axis.Unit
		}
		return append(tokens, unitTokens(unit)...), nil
	case geodesy.KindGeographic2D, geodesy.KindGeographic3D:
		tokens := []string{"+proj=longlat"}
		tokens = append(tokens, datumTokens(datum, shift == "")...)
		if shift != "" {
			tokens = append(tokens, "+towgs84="+shift)
		}
		return tokens, nil
	}
	return nil, &UnrepresentableError{Proj4, describe(crs)}
}

func projectedTokens4(crs *geodesy.ProjectedCRS, shift string, opts Options) ([]string, error) {
	conv := crs.Conversion()
	var tokens []string
	if zone, south, ok := utmZoneOf(conv); ok && opts.ETMerc == ETMercDefault {
		tokens = []string{"+proj=utm", "+zone=" + strconv.Itoa(zone)}
		if south {
			tokens = append(tokens, "+south")
		}
	} else {
		var err error
		tokens, err = conversionTokens(conv, Proj4, opts)
		if err != nil {
			return nil, err
		}
	}
	base := crs.BaseCRS()
	if base == nil || base.Datum() == nil {
		return nil, &UnrepresentableError{Proj4, "projected CRS without a base datum"}
	}
	tokens = append(tokens, datumTokens(base.Datum(), shift == "")...)
	if shift != "" {
		tokens = append(tokens, "+towgs84="+shift)
	}
	unit := geodesy.UnitMetre
	if axis, err := crs.CoordinateSystem().AxisAt(0); err == nil && !axis.Unit.IsZero() {
		unit = axis.Unit
	}
	return append(tokens, unitTokens(unit)...), nil
}

// datumTokens renders +datum when the frame matches a well-known shorthand,
// falling back to explicit ellipsoid and meridian tokens. The shorthand is
// suppressed when a +towgs84 follows, matching the flat-style convention.
func datumTokens(datum geodesy.GeodeticDatum, allowShortcut bool) []string {
	pm := datum.PrimeMeridian()
	if allowShortcut && pm.Longitude() == 0 {
		name := geodesy.NameOf(datum)
		code := epsgCode(datum)
		for _, d := range datumTable {
			if d.datumName == name || (code != "" && code == d.code) {
				return []string{"+datum=" + d.token}
			}
		}
	}
	tokens := ellipsoidTokens(datum.Ellipsoid())
	return append(tokens, pmTokens(pm)...)
}

func ellipsoidTokens(e geodesy.Ellipsoid) []string {
	name := geodesy.NameOf(e)
	for _, entry := range ellipsoidTable {
		if entry.name == name || (approx(entry.a, e.SemiMajor()) && approx(entry.rf, e.InverseFlattening())) {
			return []string{"+ellps=" + entry.token}
		}
	}
	if e.IsSphere() {
		return []string{"+R=" + num(e.SemiMajor())}
	}
	return []string{"+a=" + num(e.SemiMajor()), "+rf=" + num(e.InverseFlattening())}
}

func pmTokens(pm geodesy.PrimeMeridian) []string {
	deg := toDegrees(pm.Longitude(), pm.Unit())
	if deg == 0 {
		return nil
	}
	name := geodesy.NameOf(pm)
	for _, entry := range meridianTable {
		if entry.name == name || approx(entry.degrees, deg) {
			return []string{"+pm=" + entry.token}
		}
	}
	return []string{"+pm=" + num(deg)}
}

func unitTokens(u geodesy.UnitOfMeasure) []string {
	if tok, ok := linearUnitToken(u); ok {
		return []string{"+units=" + tok}
	}
	return []string{"+to_meter=" + num(u.Factor)}
}

func vunitsTokens(u geodesy.UnitOfMeasure) []string {
	if tok, ok := linearUnitToken(u); ok {
		return []string{"+vunits=" + tok}
	}
	return []string{"+vto_meter=" + num(u.Factor)}
}

func linearUnitToken(u geodesy.UnitOfMeasure) (string, bool) {
	switch {
	case approx(u.Factor, 1):
		return "m", true
	case approx(u.Factor, geodesy.UnitFoot.Factor):
		return "ft", true
	case approx(u.Factor, geodesy.UnitUSFoot.Factor):
		return "us-ft", true
	}
	return "", false
}

func angularUnitToken(u geodesy.UnitOfMeasure) (string, bool) {
	switch {
	case approx(u.Factor, 1):
		return "rad", true
	case approx(u.Factor, geodesy.UnitDegree.Factor):
		return "deg", true
	case approx(u.Factor, geodesy.UnitGrad.Factor):
		return "grad", true
	case approx(u.Factor, geodesy.UnitArcSec.Factor):
		return "sec", true
	}
	return "", false
}

func conversionTokens(conv geodesy.Conversion, style Style, opts Options) ([]string, error) {
	method := conv.Method()
	code := epsgCode(method)
	name := geodesy.NameOf(method)
	isTM := code == geodesy.MethodTransverseMercator || name == geodesy.MethodNameTransverseMercator
	var projName string
	switch {
	case isTM && opts.ETMerc == ETMercAlways:
		projName = "etmerc"
	case isTM:
		projName = "tmerc"
	default:
		if tok, ok := methodTokens[code]; ok {
			projName = tok
		} else if tok, ok := methodNameTokens[name]; ok {
			projName = tok
		}
	}
	if projName == "" {
		return nil, &UnrepresentableError{style, fmt.Sprintf("operation method %q", name)}
	}
	tokens := []string{"+proj=" + projName}
	for _, p := range conv.Parameters() {
		if _, ok := p.StringValue(); ok {
			return nil, &UnrepresentableError{style, fmt.Sprintf("file parameter %q", p.Name())}
		}
		var key string
		if id := p.Identifier(); id.Authority == "" || strings.EqualFold(id.Authority, "EPSG") {
			key = paramKeys[id.Code]
		}
		if key == "" {
			key = paramNameKeys[p.Name()]
		}
		if key == "lat_1" && singleParallelProjs[projName] {
			key = "lat_ts"
		}
		if key == "" {
			return nil, &UnrepresentableError{style, fmt.Sprintf("parameter %q", p.Name())}
		}
		v, unit, _ := p.Value()
		switch unit.Kind {
		case geodesy.UnitAngular:
			v = toDegrees(v, unit)
		case geodesy.UnitLinear:
			v = toMetres(v, unit)
		case geodesy.UnitScale:
			if !unit.IsZero() {
				v *= unit.Factor
			}
		}
		tokens = append(tokens, "+"+key+"="+num(v))
	}
	return tokens, nil
}

// utmZoneOf recognizes the Transverse Mercator parameter pattern of a UTM
// zone: natural origin on the equator at a zone center, scale 0.9996,
// false easting 500 km and false northing 0 or 10000 km.
func utmZoneOf(conv geodesy.Conversion) (zone int, south, ok bool) {
	method := conv.Method()
	if epsgCode(method) != geodesy.MethodTransverseMercator &&
		geodesy.NameOf(method) != geodesy.MethodNameTransverseMercator {
		return 0, false, false
	}
	lat, ok1 := paramIn(conv, "8801", "Latitude of natural origin", toDegrees)
	lon, ok2 := paramIn(conv, "8802", "Longitude of natural origin", toDegrees)
	k, ok3 := paramIn(conv, "8805", "Scale factor at natural origin", func(v float64, u geodesy.UnitOfMeasure) float64 {
		if u.IsZero() {
			return v
		}
		return v * u.Factor
	})
	fe, ok4 := paramIn(conv, "8806", "False easting", toMetres)
	fn, ok5 := paramIn(conv, "8807", "False northing", toMetres)
	if !(ok1 && ok2 && ok3 && ok4 && ok5) {
		return 0, false, false
	}
	if lat != 0 || !approx(k, 0.9996) || !approx(fe, 500000) {
		return 0, false, false
	}
	if fn != 0 && !approx(fn, 10000000) {
		return 0, false, false
	}
	z := int((lon+183)/6 + 0.5)
	if z < 1 || z > 60 || !approx(float64(z)*6-183, lon) {
		return 0, false, false
	}
	return z, fn != 0, true
}

func paramIn(conv geodesy.Conversion, code, name string, convert func(float64, geodesy.UnitOfMeasure) float64) (float64, bool) {
	p, ok := findIn(conv.Parameters(), code, name)
	if !ok {
		return 0, false
	}
	v, u, okv := p.Value()
	if !okv {
		return 0, false
	}
	return convert(v, u), true
}

func findIn(params []geodesy.Parameter, code, name string) (geodesy.Parameter, bool) {
	for _, p := range params {
		id := p.Identifier()
		if (code != "" && strings.EqualFold(id.Authority, "EPSG") && id.Code == code) || p.Name() == name {
			return p, true
		}
	}
	return geodesy.Parameter{}, false
}

// helmertKind classifies the methods expressible as a +towgs84 or helmert
// shift: geocentric translations and the two 7-parameter conventions.
func helmertKind(method geodesy.OperationMethod) (seven bool, convention string, ok bool) {
	code := epsgCode(method)
	name := geodesy.NameOf(method)
	switch {
	case code == "9603" || strings.HasPrefix(name, "Geocentric translations"):
		return false, "", true
	case code == "9606" || code == "1033" || strings.HasPrefix(name, "Position Vector"):
		return true, "position_vector", true
	case code == "9607" || code == "1032" || strings.HasPrefix(name, "Coordinate Frame"):
		return true, "coordinate_frame", true
	}
	return false, "", false
}

// shiftValues extracts translation values in metres, rotations in arc-seconds
// and scale difference in ppm. The +towgs84 sign convention is position
// vector; coordinate-frame rotations are negated via flip.
func shiftValues(params []geodesy.Parameter, seven, flip bool, style Style) ([]float64, error) {
	count := 3
	if seven {
		count = 7
	}
	values := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		spec := shiftParamSpecs[i]
		p, ok := findIn(params, spec.code, spec.name)
		if !ok {
			if i >= 3 {
				values = append(values, 0)
				continue
			}
			return nil, &UnrepresentableError{style, fmt.Sprintf("hub transformation without %s", spec.name)}
		}
		v, u, okv := p.Value()
		if !okv {
			return nil, &UnrepresentableError{style, fmt.Sprintf("file-valued %s", spec.name)}
		}
		switch {
		case i < 3:
			v = toMetres(v, u)
		case i < 6:
			v = toArcSeconds(v, u)
			if flip {
				v = -v
			}
		default:
			v = toPPM(v, u)
		}
		values = append(values, v)
	}
	return values, nil
}

func towgs84Of(b *geodesy.BoundCRS) (string, error) {
	hub, ok := b.HubCRS().(*geodesy.GeodeticCRS)
	if !ok || hub.Datum() == nil {
		return "", &UnrepresentableError{Proj4, "bound CRS hub"}
	}
	e := hub.Datum().Ellipsoid()
	if !approx(e.SemiMajor(), 6378137) || !approx(e.InverseFlattening(), 298.257223563) {
		return "", &UnrepresentableError{Proj4, "bound CRS with a hub other than WGS 84"}
	}
	tr := b.Transformation()
	seven, convention, ok := helmertKind(tr.Method())
	if !ok {
		return "", &UnrepresentableError{Proj4, fmt.Sprintf("hub transformation method %q", geodesy.NameOf(tr.Method()))}
	}
	values, err := shiftValues(tr.Parameters(), seven, convention == "coordinate_frame", Proj4)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = num(v)
	}
	return strings.Join(parts, ","), nil
}

func proj5Tokens(obj geodesy.Object, opts Options) ([]string, error) {
	steps, err := pipelineSteps(obj, opts)
	if err != nil {
		return nil, err
	}
	tokens := []string{"+proj=pipeline"}
	for _, step := range steps {
		tokens = append(tokens, "+step")
		tokens = append(tokens, step...)
	}
	return tokens, nil
}

func pipelineSteps(obj geodesy.Object, opts Options) ([][]string, error) {
	switch v := obj.(type) {
	case *geodesy.GeodeticCRS:
		return geodeticSteps5(v)
	case *geodesy.ProjectedCRS:
		return projectedSteps5(v, opts)
	case *geodesy.BoundCRS:
		return nil, &UnrepresentableError{Proj5, "bound CRS"}
	case geodesy.Conversion:
		step, err := conversionTokens(v, Proj5, opts)
		if err != nil {
			return nil, err
		}
		return [][]string{step}, nil
	case geodesy.Transformation:
		return transformationSteps5(v)
	case geodesy.ConcatenatedOperation:
		var steps [][]string
		for _, s := range v.Steps() {
			sub, err := pipelineSteps(s, opts)
			if err != nil {
				return nil, err
			}
			steps = append(steps, sub...)
		}
		return steps, nil
	}
	return nil, &UnrepresentableError{Proj5, describe(obj)}
}

func geodeticSteps5(crs *geodesy.GeodeticCRS) ([][]string, error) {
	datum := crs.Datum()
	if datum == nil {
		return nil, &UnrepresentableError{Proj5, "geodetic CRS without a datum"}
	}
	if crs.Kind() == geodesy.KindGeocentric {
		step := append([]string{"+proj=cart"}, ellipsoidTokens(datum.Ellipsoid())...)
		return [][]string{step}, nil
	}
	core := append([]string{"+proj=longlat"}, ellipsoidTokens(datum.Ellipsoid())...)
	core = append(core, pmTokens(datum.PrimeMeridian())...)
	steps := [][]string{core}
	cs := crs.CoordinateSystem()
	unit := geodesy.UnitDegree
	latFirst := false
	if axis, err := cs.AxisAt(0); err == nil {
		if !axis.Unit.IsZero() {
			unit = axis.Unit
		}
		latFirst = axis.Direction == geodesy.DirNorth
	}
	if tok, ok := angularUnitToken(unit); ok && tok != "rad" {
		steps = append(steps, []string{"+proj=unitconvert", "+xy_in=rad", "+xy_out=" + tok})
	}
	if latFirst {
		steps = append(steps, []string{"+proj=axisswap", "+order=2,1"})
	}
	return steps, nil
}

func projectedSteps5(crs *geodesy.ProjectedCRS, opts Options) ([][]string, error) {
	base := crs.BaseCRS()
	if base == nil || base.Datum() == nil {
		return nil, &UnrepresentableError{Proj5, "projected CRS without a base datum"}
	}
	core, err := conversionTokens(crs.Conversion(), Proj5, opts)
	if err != nil {
		return nil, err
	}
	core = append(core, ellipsoidTokens(base.Datum().Ellipsoid())...)
	core = append(core, pmTokens(base.Datum().PrimeMeridian())...)
	steps := [][]string{core}
	if axis, err := crs.CoordinateSystem().AxisAt(0); err == nil {
		if !axis.Unit.IsZero() && !approx(axis.Unit.Factor, 1) {
			if tok, ok := linearUnitToken(axis.Unit); ok {
				steps = append(steps, []string{"+proj=unitconvert", "+xy_in=m", "+xy_out=" + tok})
			}
		}
		if axis.Direction == geodesy.DirNorth {
			steps = append(steps, []string{"+proj=axisswap", "+order=2,1"})
		}
	}
	return steps, nil
}

func transformationSteps5(tr geodesy.Transformation) ([][]string, error) {
	if grids := tr.GridsUsed(); len(grids) > 0 {
		return [][]string{{"+proj=hgridshift", "+grids=" + strings.Join(grids, ",")}}, nil
	}
	for _, p := range tr.Parameters() {
		if file, ok := p.StringValue(); ok && file != "" {
			return [][]string{{"+proj=hgridshift", "+grids=" + file}}, nil
		}
	}
	seven, convention, ok := helmertKind(tr.Method())
	if !ok {
		return nil, &UnrepresentableError{Proj5, fmt.Sprintf("transformation method %q", geodesy.NameOf(tr.Method()))}
	}
	values, err := shiftValues(tr.Parameters(), seven, false, Proj5)
	if err != nil {
		return nil, err
	}
	step := []string{"+proj=helmert"}
	for i, v := range values {
		step = append(step, "+"+shiftParamSpecs[i].key+"="+num(v))
	}
	if seven {
		step = append(step, "+convention="+convention)
	}
	return [][]string{step}, nil
}
