package projstr

import (
	"fmt"
	"strconv"
	"strings"

	"crskit/pkg/geodesy"
)

// Parse interprets flat, pipeline and free-form +proj strings, using the
// built-in method alias table.
func Parse(text string) (geodesy.Object, error) { return ParseWith(text, nil) }

// ParseWith resolves projection keywords through aliases before consulting
// the built-in table. A nil resolver behaves like Parse.
func ParseWith(text string, aliases AliasResolver) (geodesy.Object, error) {
	tokens, err := scan(text)
	if err != nil {
		return nil, err
	}
	stages, err := splitStages(tokens)
	if err != nil {
		return nil, err
	}
	if stages[0].proj == "" {
		return nil, &ParseError{stages[0].pos, "missing +proj"}
	}
	if stages[0].proj == "pipeline" {
		return buildPipeline(stages[1:], aliases)
	}
	if len(stages) > 1 {
		return nil, &ParseError{stages[1].pos, "+step outside a pipeline"}
	}
	return buildStage(stages[0], aliases)
}

type kv struct {
	key      string
	value    string
	hasValue bool
	pos      int
}

func scan(text string) ([]kv, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, &ParseError{0, "empty string"}
	}
	out := make([]kv, 0, len(fields))
	for i, f := range fields {
		if !strings.HasPrefix(f, "+") || len(f) == 1 {
			return nil, &ParseError{i, fmt.Sprintf("token %q does not start with +key", f)}
		}
		key, value, has := strings.Cut(f[1:], "=")
		if key == "" {
			return nil, &ParseError{i, fmt.Sprintf("token %q has an empty key", f)}
		}
		out = append(out, kv{key: key, value: value, hasValue: has, pos: i})
	}
	return out, nil
}

type stage struct {
	proj string
	kv   []kv
	pos  int
}

func (s stage) lookup(key string) (string, bool) {
	for _, t := range s.kv {
		if t.key == key {
			return t.value, true
		}
	}
	return "", false
}

func (s stage) has(key string) bool {
	_, ok := s.lookup(key)
	return ok
}

func (s stage) number(key string, fallback float64) (float64, error) {
	text, ok := s.lookup(key)
	if !ok {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &ParseError{s.pos, fmt.Sprintf("parameter +%s=%q is not numeric", key, text)}
	}
	return v, nil
}

func splitStages(tokens []kv) ([]stage, error) {
	var stages []stage
	current := stage{pos: tokens[0].pos}
	for _, t := range tokens {
		switch t.key {
		case "step":
			stages = append(stages, current)
			current = stage{pos: t.pos}
		case "proj":
			if current.proj != "" {
				return nil, &ParseError{t.pos, "repeated +proj without +step"}
			}
			current.proj = t.value
		default:
			current.kv = append(current.kv, t)
		}
	}
	return append(stages, current), nil
}

func buildStage(st stage, aliases AliasResolver) (geodesy.Object, error) {
	switch st.proj {
	case "":
		return nil, &ParseError{st.pos, "missing +proj"}
	case "pipeline":
		return nil, &ParseError{st.pos, "nested pipeline"}
	case "unitconvert", "axisswap":
		return nil, &ParseError{st.pos, fmt.Sprintf("+proj=%s is only meaningful inside a pipeline", st.proj)}
	case "longlat", "latlong", "latlon", "lonlat":
		frame, err := frameOf(st)
		if err != nil {
			return nil, err
		}
		crs := geodesy.NewGeodeticCRS(geodesy.NewObjectInfo("unknown"), frame,
			geodesy.EllipsoidalCS2DLonLat(geodesy.UnitDegree))
		return wrapShift(crs, st)
	case "geocent", "cart":
		frame, err := frameOf(st)
		if err != nil {
			return nil, err
		}
		crs := geodesy.NewGeodeticCRS(geodesy.NewObjectInfo("unknown"), frame,
			geodesy.CartesianCSGeocentric(geodesy.UnitMetre))
		return wrapShift(crs, st)
	case "utm":
		zoneText, ok := st.lookup("zone")
		if !ok {
			return nil, &ParseError{st.pos, "+proj=utm requires +zone"}
		}
		zone, err := strconv.Atoi(zoneText)
		if err != nil || zone < 1 || zone > 60 {
			return nil, &ParseError{st.pos, fmt.Sprintf("invalid UTM zone %q", zoneText)}
		}
		return projectedOf(st, geodesy.NewConversionUTM(zone, !st.has("south")))
	case "tmerc", "etmerc":
		lat0, err := st.number("lat_0", 0)
		if err != nil {
			return nil, err
		}
		lon0, err := st.number("lon_0", 0)
		if err != nil {
			return nil, err
		}
		k, err := scaleOf(st)
		if err != nil {
			return nil, err
		}
		x0, err := st.number("x_0", 0)
		if err != nil {
			return nil, err
		}
		y0, err := st.number("y_0", 0)
		if err != nil {
			return nil, err
		}
		conv := geodesy.NewConversionTransverseMercator(lat0, lon0, k, x0, y0,
			geodesy.UnitDegree, geodesy.UnitMetre)
		return projectedOf(st, conv)
	case "merc":
		lon0, err := st.number("lon_0", 0)
		if err != nil {
			return nil, err
		}
		x0, err := st.number("x_0", 0)
		if err != nil {
			return nil, err
		}
		y0, err := st.number("y_0", 0)
		if err != nil {
			return nil, err
		}
		var conv geodesy.Conversion
		if st.has("lat_ts") {
			latTS, err := st.number("lat_ts", 0)
			if err != nil {
				return nil, err
			}
			conv = geodesy.NewConversionMercatorVariantB(latTS, lon0, x0, y0,
				geodesy.UnitDegree, geodesy.UnitMetre)
		} else {
			k, err := scaleOf(st)
			if err != nil {
				return nil, err
			}
			conv = geodesy.NewConversionMercatorVariantA(0, lon0, k, x0, y0,
				geodesy.UnitDegree, geodesy.UnitMetre)
		}
		return projectedOf(st, conv)
	case "helmert":
		return helmertOf(st)
	case "hgridshift", "vgridshift":
		file, ok := st.lookup("grids")
		if !ok || file == "" {
			return nil, &ParseError{st.pos, "+proj=" + st.proj + " requires +grids"}
		}
		method := geodesy.NewOperationMethod(geodesy.NewObjectInfo("NTv2",
			geodesy.Identifier{Authority: "EPSG", Code: "9615"}))
		tr := geodesy.NewTransformation(geodesy.NewObjectInfo("unknown"), nil, nil, method,
			[]geodesy.Parameter{geodesy.NewStringParameter("Latitude and longitude difference file",
				geodesy.Identifier{Authority: "EPSG", Code: "8656"}, file)})
		return tr.WithGrids(strings.Split(file, ",")...), nil
	default:
		method, known := resolveMethod(st.proj, aliases)
		if !known {
			method = geodesy.NewOperationMethod(geodesy.NewObjectInfo(st.proj))
		}
		params, err := genericParams(st)
		if err != nil {
			return nil, err
		}
		conv := geodesy.NewConversion(geodesy.NewObjectInfo("unknown"), method, params)
		if hasDatumTokens(st) {
			return projectedOf(st, conv)
		}
		return conv, nil
	}
}

func scaleOf(st stage) (float64, error) {
	if st.has("k") {
		return st.number("k", 1)
	}
	return st.number("k_0", 1)
}

func hasDatumTokens(st stage) bool {
	for _, key := range []string{"datum", "ellps", "a", "R", "towgs84", "units", "to_meter"} {
		if st.has(key) {
			return true
		}
	}
	return false
}

func resolveMethod(name string, aliases AliasResolver) (geodesy.OperationMethod, bool) {
	if aliases != nil {
		if m, ok := aliases.ProjAlias(name); ok {
			return m, true
		}
	}
	if entry, ok := projMethods[name]; ok {
		return geodesy.NewOperationMethod(geodesy.NewObjectInfo(entry.name,
			geodesy.Identifier{Authority: "EPSG", Code: entry.code})), true
	}
	return geodesy.OperationMethod{}, false
}

func genericParams(st stage) ([]geodesy.Parameter, error) {
	var params []geodesy.Parameter
	for _, t := range st.kv {
		if skipKeys[t.key] {
			continue
		}
		spec, known := projParamSpecs[t.key]
		v, err := strconv.ParseFloat(t.value, 64)
		if err != nil {
			if known {
				return nil, &ParseError{t.pos, fmt.Sprintf("parameter +%s=%q is not numeric", t.key, t.value)}
			}
			continue
		}
		if known {
			params = append(params, geodesy.NewParameter(spec.name,
				geodesy.Identifier{Authority: "EPSG", Code: spec.code}, v, spec.unit))
		} else {
			params = append(params, geodesy.NewParameter(t.key, geodesy.Identifier{}, v, geodesy.UnitUnity))
		}
	}
	return params, nil
}

func frameOf(st stage) (geodesy.GeodeticReferenceFrame, error) {
	var zero geodesy.GeodeticReferenceFrame
	pm := geodesy.GreenwichMeridian()
	if pmText, ok := st.lookup("pm"); ok {
		found := false
		for _, entry := range meridianTable {
			if entry.token == pmText {
				pm = geodesy.NewPrimeMeridian(geodesy.NewObjectInfo(entry.name), entry.degrees, geodesy.UnitDegree)
				found = true
				break
			}
		}
		if !found {
			deg, err := strconv.ParseFloat(pmText, 64)
			if err != nil {
				return zero, &ParseError{st.pos, fmt.Sprintf("unknown prime meridian %q", pmText)}
			}
			pm = geodesy.NewPrimeMeridian(geodesy.NewObjectInfo("unknown"), deg, geodesy.UnitDegree)
		}
	}
	if datumText, ok := st.lookup("datum"); ok {
		for _, d := range datumTable {
			if d.token == datumText {
				return geodesy.NewGeodeticReferenceFrame(
					geodesy.NewObjectInfo(d.datumName, geodesy.Identifier{Authority: "EPSG", Code: d.code}),
					ellipsoidByToken(d.ellps), pm), nil
			}
		}
		return zero, &ParseError{st.pos, fmt.Sprintf("unknown datum %q", datumText)}
	}
	if ellpsText, ok := st.lookup("ellps"); ok {
		for _, e := range ellipsoidTable {
			if e.token == ellpsText {
				return geodesy.NewGeodeticReferenceFrame(geodesy.NewObjectInfo("unknown"),
					ellipsoidByToken(e.token), pm), nil
			}
		}
		return zero, &ParseError{st.pos, fmt.Sprintf("unknown ellipsoid %q", ellpsText)}
	}
	if st.has("a") {
		a, err := st.number("a", 0)
		if err != nil {
			return zero, err
		}
		var ellipsoid geodesy.Ellipsoid
		switch {
		case st.has("rf"):
			rf, err := st.number("rf", 0)
			if err != nil {
				return zero, err
			}
			ellipsoid = geodesy.NewEllipsoid(geodesy.NewObjectInfo("unknown"), a, rf, geodesy.UnitMetre)
		case st.has("b"):
			b, err := st.number("b", 0)
			if err != nil {
				return zero, err
			}
			ellipsoid = geodesy.NewEllipsoidFromSemiMinor(geodesy.NewObjectInfo("unknown"), a, b, geodesy.UnitMetre)
		default:
			ellipsoid = geodesy.NewEllipsoid(geodesy.NewObjectInfo("unknown"), a, 0, geodesy.UnitMetre)
		}
		return geodesy.NewGeodeticReferenceFrame(geodesy.NewObjectInfo("unknown"), ellipsoid, pm), nil
	}
	if st.has("R") {
		r, err := st.number("R", 0)
		if err != nil {
			return zero, err
		}
		sphere := geodesy.NewEllipsoid(geodesy.NewObjectInfo("unknown"), r, 0, geodesy.UnitMetre)
		return geodesy.NewGeodeticReferenceFrame(geodesy.NewObjectInfo("unknown"), sphere, pm), nil
	}
	return geodesy.WGS84Frame(), nil
}

func ellipsoidByToken(token string) geodesy.Ellipsoid {
	for _, e := range ellipsoidTable {
		if e.token == token {
			return geodesy.NewEllipsoid(geodesy.NewObjectInfo(e.name), e.a, e.rf, geodesy.UnitMetre)
		}
	}
	return geodesy.WGS84Ellipsoid()
}

func projectedOf(st stage, conv geodesy.Conversion) (geodesy.Object, error) {
	frame, err := frameOf(st)
	if err != nil {
		return nil, err
	}
	base := geodesy.NewGeodeticCRS(geodesy.NewObjectInfo("unknown"), frame,
		geodesy.EllipsoidalCS2DLonLat(geodesy.UnitDegree))
	unit := geodesy.UnitMetre
	if unitsText, ok := st.lookup("units"); ok {
		u, found := linearUnitFromToken(unitsText)
		if !found {
			return nil, &ParseError{st.pos, fmt.Sprintf("unknown unit %q", unitsText)}
		}
		unit = u
	} else if st.has("to_meter") {
		factor, err := st.number("to_meter", 1)
		if err != nil {
			return nil, err
		}
		unit = geodesy.UnitOfMeasure{Name: "unknown", Kind: geodesy.UnitLinear, Factor: factor}
	}
	crs := geodesy.NewProjectedCRS(geodesy.NewObjectInfo("unknown"), base, conv,
		geodesy.CartesianCSEastNorth(unit))
	return wrapShift(crs, st)
}

// wrapShift wraps a CRS carrying +towgs84 into a bound CRS over WGS 84.
func wrapShift(crs geodesy.CRS, st stage) (geodesy.Object, error) {
	text, ok := st.lookup("towgs84")
	if !ok {
		return crs, nil
	}
	parts := strings.Split(text, ",")
	if len(parts) != 3 && len(parts) != 7 {
		return nil, &ParseError{st.pos, fmt.Sprintf("+towgs84 needs 3 or 7 values, got %d", len(parts))}
	}
	params := make([]geodesy.Parameter, 0, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, &ParseError{st.pos, fmt.Sprintf("+towgs84 value %q is not numeric", part)}
		}
		spec := shiftParamSpecs[i]
		params = append(params, geodesy.NewParameter(spec.name,
			geodesy.Identifier{Authority: "EPSG", Code: spec.code}, v, spec.unit))
	}
	var method geodesy.OperationMethod
	if len(parts) == 3 {
		method = geodesy.NewOperationMethod(geodesy.NewObjectInfo(
			"Geocentric translations (geog2D domain)", geodesy.Identifier{Authority: "EPSG", Code: "9603"}))
	} else {
		method = geodesy.NewOperationMethod(geodesy.NewObjectInfo(
			"Position Vector transformation (geog2D domain)", geodesy.Identifier{Authority: "EPSG", Code: "9606"}))
	}
	hub := geodesy.WGS84Geographic2D()
	tr := geodesy.NewTransformation(
		geodesy.NewObjectInfo(fmt.Sprintf("Transformation from %s to WGS 84", geodesy.NameOf(crs))),
		crs, hub, method, params)
	return geodesy.NewBoundCRS(crs, hub, tr), nil
}

func helmertOf(st stage) (geodesy.Object, error) {
	params := make([]geodesy.Parameter, 0, 7)
	for _, spec := range shiftParamSpecs {
		if !st.has(spec.key) {
			continue
		}
		v, err := st.number(spec.key, 0)
		if err != nil {
			return nil, err
		}
		params = append(params, geodesy.NewParameter(spec.name,
			geodesy.Identifier{Authority: "EPSG", Code: spec.code}, v, spec.unit))
	}
	seven := st.has("rx") || st.has("ry") || st.has("rz") || st.has("s") || st.has("convention")
	var method geodesy.OperationMethod
	switch {
	case !seven:
		method = geodesy.NewOperationMethod(geodesy.NewObjectInfo(
			"Geocentric translations (geog2D domain)", geodesy.Identifier{Authority: "EPSG", Code: "9603"}))
	default:
		if convention, _ := st.lookup("convention"); convention == "coordinate_frame" {
			method = geodesy.NewOperationMethod(geodesy.NewObjectInfo(
				"Coordinate Frame rotation (geog2D domain)", geodesy.Identifier{Authority: "EPSG", Code: "9607"}))
		} else {
			method = geodesy.NewOperationMethod(geodesy.NewObjectInfo(
				"Position Vector transformation (geog2D domain)", geodesy.Identifier{Authority: "EPSG", Code: "9606"}))
		}
	}
	return geodesy.NewTransformation(geodesy.NewObjectInfo("unknown"), nil, nil, method, params), nil
}

func buildPipeline(stages []stage, aliases AliasResolver) (geodesy.Object, error) {
	if len(stages) == 0 {
		return nil, &ParseError{0, "pipeline without steps"}
	}
	var cores []stage
	angular := geodesy.UnitRadian
	linear := geodesy.UnitMetre
	swapped := false
	for _, st := range stages {
		switch st.proj {
		case "":
			return nil, &ParseError{st.pos, "pipeline step without +proj"}
		case "unitconvert":
			out, ok := st.lookup("xy_out")
			if !ok {
				continue
			}
			if u, found := angularUnitFromToken(out); found {
				angular = u
			} else if u, found := linearUnitFromToken(out); found {
				linear = u
			} else {
				return nil, &ParseError{st.pos, fmt.Sprintf("unknown unit %q", out)}
			}
		case "axisswap":
			if order, _ := st.lookup("order"); order == "2,1" {
				swapped = !swapped
			}
		default:
			cores = append(cores, st)
		}
	}
	if len(cores) == 0 {
		return nil, &ParseError{stages[0].pos, "pipeline with no operation step"}
	}
	if len(cores) == 1 {
		obj, err := buildStage(cores[0], aliases)
		if err != nil {
			return nil, err
		}
		return reshape(obj, angular, linear, swapped), nil
	}
	steps := make([]geodesy.CoordinateOperation, 0, len(cores))
	for _, core := range cores {
		obj, err := buildStage(core, aliases)
		if err != nil {
			return nil, err
		}
		op, ok := obj.(geodesy.CoordinateOperation)
		if !ok {
			return nil, &ParseError{core.pos, fmt.Sprintf("step +proj=%s does not form an operation", core.proj)}
		}
		steps = append(steps, op)
	}
	concat, err := geodesy.NewConcatenatedOperation(geodesy.NewObjectInfo(""), steps)
	if err != nil {
		return nil, err
	}
	return concat, nil
}

// reshape applies the unit conversion and axis swap steps of a pipeline to
// the coordinate system of the core CRS.
func reshape(obj geodesy.Object, angular, linear geodesy.UnitOfMeasure, swapped bool) geodesy.Object {
	switch v := obj.(type) {
	case *geodesy.GeodeticCRS:
		if v.Kind() == geodesy.KindGeocentric {
			return v
		}
		cs := geodesy.EllipsoidalCS2DLonLat(angular)
		if swapped {
			cs = geodesy.EllipsoidalCS2DLatLon(angular)
		}
		return geodesy.NewGeodeticCRS(v.Info(), v.Datum(), cs)
	case *geodesy.ProjectedCRS:
		cs := geodesy.CartesianCSEastNorth(linear)
		if swapped {
			cs = geodesy.NewCoordinateSystem(geodesy.CSCartesian,
				geodesy.Axis{Name: "Northing", Abbreviation: "N", Direction: geodesy.DirNorth, Unit: linear},
				geodesy.Axis{Name: "Easting", Abbreviation: "E", Direction: geodesy.DirEast, Unit: linear})
		}
		return geodesy.NewProjectedCRS(v.Info(), v.BaseCRS(), v.Conversion(), cs)
	case *geodesy.BoundCRS:
		inner, ok := reshape(v.BaseCRS(), angular, linear, swapped).(geodesy.CRS)
		if !ok {
			return v
		}
		old := v.Transformation()
		tr := geodesy.NewTransformation(old.Info(), inner, v.HubCRS(), old.Method(), old.Parameters())
		return geodesy.NewBoundCRS(inner, v.HubCRS(), tr)
	}
	return obj
}
