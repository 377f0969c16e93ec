package wkt

import (
	"fmt"
	"strconv"
	"strings"

	"crskit/pkg/geodesy"
)

// Parse builds a geodesy object from WKT text, auto-detecting the dialect.
// Failures are reported as *ParseError; no partial object is ever returned.
func Parse(text string) (geodesy.Object, error) {
	dialect := GuessDialect(text)
	if dialect == NotWKT {
		return nil, &ParseError{Pos: 0, Msg: "input does not start with a WKT keyword"}
	}
	root, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{esri: dialect == WKT1ESRI}
	return p.object(root)
}

// ParseCRS is Parse constrained to CRS results.
func ParseCRS(text string) (geodesy.CRS, error) {
	obj, err := Parse(text)
	if err != nil {
		return nil, err
	}
	crs, ok := obj.(geodesy.CRS)
	if !ok {
		return nil, &ParseError{Pos: 0, Msg: fmt.Sprintf("expected a CRS, got %T", obj)}
	}
	return crs, nil
}

type parser struct {
	esri bool
}

func (p *parser) object(n *node) (geodesy.Object, error) {
	switch n.keyword {
	case "GEOGCRS", "GEODCRS", "GEODETICCRS":
		return p.geodeticCRS2(n)
	case "PROJCRS", "PROJECTEDCRS":
		return p.projectedCRS2(n)
	case "VERTCRS", "VERTICALCRS":
		return p.verticalCRS2(n)
	case "COMPOUNDCRS":
		return p.compoundCRS2(n)
	case "BOUNDCRS":
		return p.boundCRS2(n)
	case "TIMECRS":
		return p.temporalCRS2(n)
	case "ENGCRS", "ENGINEERINGCRS":
		return p.engineeringCRS2(n)
	case "DATUM", "TRF":
		return p.geodeticFrame(n, nil)
	case "ELLIPSOID", "SPHEROID":
		return p.ellipsoid(n)
	case "PRIMEM":
		return p.primeMeridian(n, geodesy.UnitDegree)
	case "CONVERSION":
		return p.conversion2(n)
	case "COORDINATEOPERATION":
		return p.transformation2(n)
	case "GEOGCS":
		return p.geographicCRS1(n)
	case "GEOCCS":
		return p.geocentricCRS1(n)
	case "PROJCS":
		return p.projectedCRS1(n)
	case "VERT_CS":
		return p.verticalCRS1(n)
	case "COMPD_CS":
		return p.compoundCRS1(n)
	case "LOCAL_CS":
		return p.engineeringCRS1(n)
	}
	return nil, &ParseError{Pos: n.pos, Msg: "unknown keyword " + n.keyword}
}

func (p *parser) crs(n *node) (geodesy.CRS, error) {
	obj, err := p.object(n)
	if err != nil {
		return nil, err
	}
	crs, ok := obj.(geodesy.CRS)
	if !ok {
		return nil, &ParseError{Pos: n.pos, Msg: n.keyword + " is not a CRS"}
	}
	return crs, nil
}

// ---- shared pieces ----

func (p *parser) info(n *node) (geodesy.ObjectInfo, error) {
	name, err := n.stringArg(0)
	if err != nil {
		return geodesy.ObjectInfo{}, err
	}
	if id, ok := identifierOf(n); ok {
		return geodesy.NewObjectInfo(name, id), nil
	}
	return geodesy.NewObjectInfo(name), nil
}

func identifierOf(n *node) (geodesy.Identifier, bool) {
	id := n.child("ID", "AUTHORITY")
	if id == nil || len(id.args) < 2 {
		return geodesy.Identifier{}, false
	}
	authority, err := id.stringArg(0)
	if err != nil {
		return geodesy.Identifier{}, false
	}
	var code string
	switch id.args[1].kind {
	case argNumber:
		code = strconv.FormatFloat(id.args[1].num, 'f', -1, 64)
	case argString:
		code = id.args[1].str
	default:
		return geodesy.Identifier{}, false
	}
	return geodesy.Identifier{Authority: authority, Code: code}, true
}

var unitKeywords = []string{"UNIT", "ANGLEUNIT", "ANGULARUNIT", "LENGTHUNIT", "SCALEUNIT", "TIMEUNIT"}

func unitFromNode(n *node, fallback geodesy.UnitKind) (geodesy.UnitOfMeasure, error) {
	name, err := n.stringArg(0)
	if err != nil {
		return geodesy.UnitOfMeasure{}, err
	}
	factor, err := n.numberArg(1)
	if err != nil {
		return geodesy.UnitOfMeasure{}, err
	}
	kind := fallback
	switch n.keyword {
	case "ANGLEUNIT", "ANGULARUNIT":
		kind = geodesy.UnitAngular
	case "LENGTHUNIT":
		kind = geodesy.UnitLinear
	case "SCALEUNIT":
		kind = geodesy.UnitScale
	case "TIMEUNIT":
		kind = geodesy.UnitTime
	}
	return geodesy.UnitOfMeasure{Name: canonicalName(TableUnitOfMeasure, name), Kind: kind, Factor: factor}, nil
}

func defaultUnitFor(kind geodesy.CSKind) geodesy.UnitOfMeasure {
	switch kind {
	case geodesy.CSEllipsoidal:
		return geodesy.UnitDegree
	case geodesy.CSTemporal:
		return geodesy.UnitSecond
	}
	return geodesy.UnitMetre
}

func (p *parser) ellipsoid(n *node) (geodesy.Ellipsoid, error) {
	info, err := p.info(n)
	if err != nil {
		return geodesy.Ellipsoid{}, err
	}
	semiMajor, err := n.numberArg(1)
	if err != nil {
		return geodesy.Ellipsoid{}, err
	}
	rf, err := n.numberArg(2)
	if err != nil {
		return geodesy.Ellipsoid{}, err
	}
	unit := geodesy.UnitMetre
	if un := n.child(unitKeywords...); un != nil {
		unit, err = unitFromNode(un, geodesy.UnitLinear)
		if err != nil {
			return geodesy.Ellipsoid{}, err
		}
	}
	name := info.Name()
	if p.esri {
		info = geodesy.NewObjectInfo(canonicalName(TableEllipsoid, name), info.Identifiers()...)
	}
	return geodesy.NewEllipsoid(info, semiMajor, rf, unit), nil
}

func (p *parser) primeMeridian(n *node, fallbackUnit geodesy.UnitOfMeasure) (geodesy.PrimeMeridian, error) {
	info, err := p.info(n)
	if err != nil {
		return geodesy.PrimeMeridian{}, err
	}
	lon, err := n.numberArg(1)
	if err != nil {
		return geodesy.PrimeMeridian{}, err
	}
	unit := fallbackUnit
	if un := n.child(unitKeywords...); un != nil {
		unit, err = unitFromNode(un, geodesy.UnitAngular)
		if err != nil {
			return geodesy.PrimeMeridian{}, err
		}
	}
	return geodesy.NewPrimeMeridian(info, lon, unit), nil
}

// geodeticFrame builds the datum of a geodetic CRS. parent carries the
// DYNAMIC sibling node in WKT2, nil for standalone datums.
func (p *parser) geodeticFrame(n *node, parent *node) (geodesy.Datum, error) {
	info, err := p.info(n)
	if err != nil {
		return nil, err
	}
	ellNode := n.child("ELLIPSOID", "SPHEROID")
	if ellNode == nil {
		return nil, &ParseError{Pos: n.pos, Msg: "datum " + info.Name() + " lacks an ellipsoid"}
	}
	ellipsoid, err := p.ellipsoid(ellNode)
	if err != nil {
		return nil, err
	}
	name := canonicalName(TableGeodeticDatum, info.Name())
	info = geodesy.NewObjectInfo(name, info.Identifiers()...)
	pm := geodesy.GreenwichMeridian()
	frame := geodesy.NewGeodeticReferenceFrame(info, ellipsoid, pm)
	if anchor := n.child("ANCHOR"); anchor != nil {
		if text, err := anchor.stringArg(0); err == nil {
			frame = frame.WithAnchor(text)
		}
	}
	if parent != nil {
		if dyn := parent.child("DYNAMIC"); dyn != nil {
			if epochNode := dyn.child("FRAMEEPOCH"); epochNode != nil {
				epoch, err := epochNode.numberArg(0)
				if err != nil {
					return nil, err
				}
				return geodesy.NewDynamicGeodeticReferenceFrame(frame, epoch), nil
			}
		}
	}
	return frame, nil
}

func (p *parser) ensemble(n *node) (geodesy.Datum, error) {
	info, err := p.info(n)
	if err != nil {
		return nil, err
	}
	ellNode := n.child("ELLIPSOID", "SPHEROID")
	if ellNode == nil {
		return nil, &ParseError{Pos: n.pos, Msg: "ensemble " + info.Name() + " lacks an ellipsoid"}
	}
	ellipsoid, err := p.ellipsoid(ellNode)
	if err != nil {
		return nil, err
	}
	var members []geodesy.Datum
	for _, m := range n.children("MEMBER") {
		mInfo, err := p.info(m)
		if err != nil {
			return nil, err
		}
		members = append(members, geodesy.NewGeodeticReferenceFrame(mInfo, ellipsoid, geodesy.GreenwichMeridian()))
	}
	accuracy := 0.0
	if accNode := n.child("ENSEMBLEACCURACY"); accNode != nil {
		accuracy, err = accNode.numberArg(0)
		if err != nil {
			return nil, err
		}
	}
	return geodesy.NewDatumEnsemble(info, members, accuracy), nil
}

// cs2 assembles the coordinate system of a WKT2 CRS from its CS node, AXIS
// siblings and optional shared trailing UNIT node.
func (p *parser) cs2(n *node) (geodesy.CoordinateSystem, error) {
	csNode := n.child("CS")
	if csNode == nil {
		return geodesy.CoordinateSystem{}, &ParseError{Pos: n.pos, Msg: n.keyword + " lacks a CS node"}
	}
	kindWord, err := csNode.bareArg(0)
	if err != nil {
		return geodesy.CoordinateSystem{}, err
	}
	kind := geodesy.CSUnknownKind
	switch kindWord {
	case "ellipsoidal":
		kind = geodesy.CSEllipsoidal
	case "cartesian":
		kind = geodesy.CSCartesian
	case "vertical":
		kind = geodesy.CSVertical
	case "spherical":
		kind = geodesy.CSSpherical
	case "temporal":
		kind = geodesy.CSTemporal
	}
	var shared geodesy.UnitOfMeasure
	// A UNIT node directly under the CRS (after the axes) applies to every
	// axis without its own unit; the simplified dialects write this form.
	for _, a := range n.args {
		if a.kind == argNode && (a.node.keyword == "UNIT" || a.node.keyword == "ANGLEUNIT" ||
			a.node.keyword == "ANGULARUNIT" || a.node.keyword == "LENGTHUNIT") {
			shared, err = unitFromNode(a.node, defaultUnitFor(kind).Kind)
			if err != nil {
				return geodesy.CoordinateSystem{}, err
			}
		}
	}
	var axes []geodesy.Axis
	for _, axNode := range n.children("AXIS") {
		axis, err := p.axis2(axNode, kind, shared)
		if err != nil {
			return geodesy.CoordinateSystem{}, err
		}
		axes = append(axes, axis)
	}
	if len(axes) == 0 {
		return geodesy.CoordinateSystem{}, &ParseError{Pos: csNode.pos, Msg: "CS without AXIS nodes"}
	}
	return geodesy.NewCoordinateSystem(kind, axes...), nil
}

func (p *parser) axis2(n *node, csKind geodesy.CSKind, shared geodesy.UnitOfMeasure) (geodesy.Axis, error) {
	raw, err := n.stringArg(0)
	if err != nil {
		return geodesy.Axis{}, err
	}
	name, abbrev := splitAxisName(raw)
	dirWord, err := n.bareArg(1)
	if err != nil {
		return geodesy.Axis{}, err
	}
	unit := shared
	if un := n.child(unitKeywords...); un != nil {
		unit, err = unitFromNode(un, defaultUnitFor(csKind).Kind)
		if err != nil {
			return geodesy.Axis{}, err
		}
	}
	if unit.IsZero() {
		unit = defaultUnitFor(csKind)
	}
	return geodesy.Axis{Name: name, Abbreviation: abbrev, Direction: directionFrom(dirWord), Unit: unit}, nil
}

func splitAxisName(raw string) (name, abbrev string) {
	name = raw
	if open := strings.LastIndex(raw, " ("); open >= 0 && strings.HasSuffix(raw, ")") {
		name = raw[:open]
		abbrev = raw[open+2 : len(raw)-1]
	}
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return name, abbrev
}

func directionFrom(word string) geodesy.AxisDirection {
	switch word {
	case "north":
		return geodesy.DirNorth
	case "south":
		return geodesy.DirSouth
	case "east":
		return geodesy.DirEast
	case "west":
		return geodesy.DirWest
	case "up":
		return geodesy.DirUp
	case "down":
		return geodesy.DirDown
	case "geocentricx":
		return geodesy.DirGeocentricX
	case "geocentricy":
		return geodesy.DirGeocentricY
	case "geocentricz":
		return geodesy.DirGeocentricZ
	case "future":
		return geodesy.DirFuture
	}
	return geodesy.DirUnspecified
}

// ---- WKT2 objects ----

func (p *parser) geodeticDatumOf(n *node) (geodesy.GeodeticDatum, geodesy.PrimeMeridian, error) {
	var datum geodesy.Datum
	var err error
	if ens := n.child("ENSEMBLE"); ens != nil {
		datum, err = p.ensemble(ens)
	} else if dn := n.child("DATUM", "TRF"); dn != nil {
		datum, err = p.geodeticFrame(dn, n)
	} else {
		return nil, geodesy.PrimeMeridian{}, &ParseError{Pos: n.pos, Msg: n.keyword + " lacks a datum"}
	}
	if err != nil {
		return nil, geodesy.PrimeMeridian{}, err
	}
	pm := geodesy.GreenwichMeridian()
	if pmNode := n.child("PRIMEM"); pmNode != nil {
		pm, err = p.primeMeridian(pmNode, geodesy.UnitDegree)
		if err != nil {
			return nil, geodesy.PrimeMeridian{}, err
		}
	}
	gd, ok := datum.(geodesy.GeodeticDatum)
	if !ok {
		return nil, geodesy.PrimeMeridian{}, &ParseError{Pos: n.pos, Msg: "datum is not geodetic"}
	}
	return withPrimeMeridian(gd, pm), pm, nil
}

// withPrimeMeridian rebuilds a frame around the prime meridian parsed at CRS
// level, since WKT2 places PRIMEM outside the DATUM node.
func withPrimeMeridian(d geodesy.GeodeticDatum, pm geodesy.PrimeMeridian) geodesy.GeodeticDatum {
	switch v := d.(type) {
	case geodesy.GeodeticReferenceFrame:
		frame := geodesy.NewGeodeticReferenceFrame(v.Info(), v.Ellipsoid(), pm)
		if v.Anchor() != "" {
			frame = frame.WithAnchor(v.Anchor())
		}
		return frame
	case geodesy.DynamicGeodeticReferenceFrame:
		frame := geodesy.NewGeodeticReferenceFrame(v.Info(), v.Ellipsoid(), pm)
		return geodesy.NewDynamicGeodeticReferenceFrame(frame, v.FrameReferenceEpoch())
	}
	return d
}

func (p *parser) geodeticCRS2(n *node) (*geodesy.GeodeticCRS, error) {
	info, err := p.info(n)
	if err != nil {
		return nil, err
	}
	datum, _, err := p.geodeticDatumOf(n)
	if err != nil {
		return nil, err
	}
	cs, err := p.cs2(n)
	if err != nil {
		return nil, err
	}
	return geodesy.NewGeodeticCRS(info, datum, cs), nil
}

func (p *parser) projectedCRS2(n *node) (*geodesy.ProjectedCRS, error) {
	info, err := p.info(n)
	if err != nil {
		return nil, err
	}
	baseNode := n.child("BASEGEOGCRS", "BASEGEODCRS")
	if baseNode == nil {
		return nil, &ParseError{Pos: n.pos, Msg: "PROJCRS lacks a base CRS"}
	}
	baseInfo, err := p.info(baseNode)
	if err != nil {
		return nil, err
	}
	datum, _, err := p.geodeticDatumOf(baseNode)
	if err != nil {
		return nil, err
	}
	base := geodesy.NewGeodeticCRS(baseInfo, datum, geodesy.EllipsoidalCS2DLatLon(geodesy.UnitDegree))
	convNode := n.child("CONVERSION")
	if convNode == nil {
		return nil, &ParseError{Pos: n.pos, Msg: "PROJCRS lacks a conversion"}
	}
	conv, err := p.conversion2(convNode)
	if err != nil {
		return nil, err
	}
	cs, err := p.cs2(n)
	if err != nil {
		return nil, err
	}
	return geodesy.NewProjectedCRS(info, base, conv, cs), nil
}

func (p *parser) conversion2(n *node) (geodesy.Conversion, error) {
	info, err := p.info(n)
	if err != nil {
		return geodesy.Conversion{}, err
	}
	method, err := p.method2(n)
	if err != nil {
		return geodesy.Conversion{}, err
	}
	params, err := p.parameters2(n)
	if err != nil {
		return geodesy.Conversion{}, err
	}
	return geodesy.NewConversion(info, method, params), nil
}

func (p *parser) method2(n *node) (geodesy.OperationMethod, error) {
	methodNode := n.child("METHOD", "PROJECTION")
	if methodNode == nil {
		return geodesy.OperationMethod{}, &ParseError{Pos: n.pos, Msg: n.keyword + " lacks a METHOD node"}
	}
	info, err := p.info(methodNode)
	if err != nil {
		return geodesy.OperationMethod{}, err
	}
	return geodesy.NewOperationMethod(info), nil
}

func (p *parser) parameters2(n *node) ([]geodesy.Parameter, error) {
	var params []geodesy.Parameter
	for _, a := range n.args {
		if a.kind != argNode {
			continue
		}
		switch a.node.keyword {
		case "PARAMETER":
			name, err := a.node.stringArg(0)
			if err != nil {
				return nil, err
			}
			value, err := a.node.numberArg(1)
			if err != nil {
				return nil, err
			}
			unit := parameterFallbackUnit(name)
			if un := a.node.child(unitKeywords...); un != nil {
				unit, err = unitFromNode(un, unit.Kind)
				if err != nil {
					return nil, err
				}
			}
			id, _ := identifierOf(a.node)
			params = append(params, geodesy.NewParameter(name, id, value, unit))
		case "PARAMETERFILE":
			name, err := a.node.stringArg(0)
			if err != nil {
				return nil, err
			}
			file, err := a.node.stringArg(1)
			if err != nil {
				return nil, err
			}
			id, _ := identifierOf(a.node)
			params = append(params, geodesy.NewStringParameter(name, id, file))
		}
	}
	return params, nil
}

// parameterFallbackUnit guesses the unit of a parameter written without one,
// as the simplified dialects do.
func parameterFallbackUnit(name string) geodesy.UnitOfMeasure {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "latitude"), strings.Contains(lower, "longitude"),
		strings.Contains(lower, "rotation"), strings.Contains(lower, "azimuth"):
		return geodesy.UnitDegree
	case strings.Contains(lower, "scale"):
		return geodesy.UnitUnity
	}
	return geodesy.UnitMetre
}

func (p *parser) verticalCRS2(n *node) (*geodesy.VerticalCRS, error) {
	info, err := p.info(n)
	if err != nil {
		return nil, err
	}
	datumNode := n.child("VDATUM", "VRF", "VERTICALDATUM")
	if datumNode == nil {
		return nil, &ParseError{Pos: n.pos, Msg: "VERTCRS lacks a VDATUM node"}
	}
	dInfo, err := p.info(datumNode)
	if err != nil {
		return nil, err
	}
	var datum geodesy.Datum
	frame := geodesy.NewVerticalReferenceFrame(dInfo)
	if anchor := datumNode.child("ANCHOR"); anchor != nil {
		if text, err := anchor.stringArg(0); err == nil {
			frame = frame.WithAnchor(text)
		}
	}
	datum = frame
	if dyn := n.child("DYNAMIC"); dyn != nil {
		if epochNode := dyn.child("FRAMEEPOCH"); epochNode != nil {
			epoch, err := epochNode.numberArg(0)
			if err != nil {
				return nil, err
			}
			datum = geodesy.NewDynamicVerticalReferenceFrame(frame, epoch)
		}
	}
	cs, err := p.cs2(n)
	if err != nil {
		return nil, err
	}
	return geodesy.NewVerticalCRS(info, datum, cs), nil
}

func (p *parser) compoundCRS2(n *node) (*geodesy.CompoundCRS, error) {
	info, err := p.info(n)
	if err != nil {
		return nil, err
	}
	var components []geodesy.CRS
	for _, a := range n.args {
		if a.kind != argNode || !isCRSKeyword(a.node.keyword) {
			continue
		}
		comp, err := p.crs(a.node)
		if err != nil {
			return nil, err
		}
		components = append(components, comp)
	}
	if len(components) < 2 {
		return nil, &ParseError{Pos: n.pos, Msg: "COMPOUNDCRS needs at least 2 components"}
	}
	return geodesy.NewCompoundCRS(info, components...), nil
}

func (p *parser) boundCRS2(n *node) (*geodesy.BoundCRS, error) {
	srcNode := n.child("SOURCECRS")
	tgtNode := n.child("TARGETCRS")
	opNode := n.child("ABRIDGEDTRANSFORMATION", "TRANSFORMATION")
	if srcNode == nil || tgtNode == nil || opNode == nil {
		return nil, &ParseError{Pos: n.pos, Msg: "BOUNDCRS needs SOURCECRS, TARGETCRS and ABRIDGEDTRANSFORMATION"}
	}
	source, err := p.firstCRSChild(srcNode)
	if err != nil {
		return nil, err
	}
	target, err := p.firstCRSChild(tgtNode)
	if err != nil {
		return nil, err
	}
	opInfo, err := p.info(opNode)
	if err != nil {
		return nil, err
	}
	method, err := p.method2(opNode)
	if err != nil {
		return nil, err
	}
	params, err := p.parameters2(opNode)
	if err != nil {
		return nil, err
	}
	t := geodesy.NewTransformation(opInfo, source, target, method, params)
	return geodesy.NewBoundCRS(source, target, t), nil
}

func (p *parser) firstCRSChild(n *node) (geodesy.CRS, error) {
	for _, a := range n.args {
		if a.kind == argNode && isCRSKeyword(a.node.keyword) {
			return p.crs(a.node)
		}
	}
	return nil, &ParseError{Pos: n.pos, Msg: n.keyword + " lacks a nested CRS"}
}

func isCRSKeyword(keyword string) bool {
	switch keyword {
	case "GEOGCRS", "GEODCRS", "GEODETICCRS", "PROJCRS", "PROJECTEDCRS",
		"VERTCRS", "VERTICALCRS", "COMPOUNDCRS", "BOUNDCRS", "TIMECRS",
		"ENGCRS", "ENGINEERINGCRS",
		"GEOGCS", "GEOCCS", "PROJCS", "VERT_CS", "COMPD_CS", "LOCAL_CS":
		return true
	}
	return false
}

func (p *parser) temporalCRS2(n *node) (*geodesy.TemporalCRS, error) {
	info, err := p.info(n)
	if err != nil {
		return nil, err
	}
	cs, err := p.cs2(n)
	if err != nil {
		return nil, err
	}
	return geodesy.NewTemporalCRS(info, cs), nil
}

func (p *parser) engineeringCRS2(n *node) (*geodesy.EngineeringCRS, error) {
	info, err := p.info(n)
	if err != nil {
		return nil, err
	}
	var cs geodesy.CoordinateSystem
	if n.child("CS") != nil {
		cs, err = p.cs2(n)
		if err != nil {
			return nil, err
		}
	}
	return geodesy.NewEngineeringCRS(info, cs), nil
}

func (p *parser) transformation2(n *node) (geodesy.Transformation, error) {
	info, err := p.info(n)
	if err != nil {
		return geodesy.Transformation{}, err
	}
	var source, target geodesy.CRS
	if srcNode := n.child("SOURCECRS"); srcNode != nil {
		source, err = p.firstCRSChild(srcNode)
		if err != nil {
			return geodesy.Transformation{}, err
		}
	}
	if tgtNode := n.child("TARGETCRS"); tgtNode != nil {
		target, err = p.firstCRSChild(tgtNode)
		if err != nil {
			return geodesy.Transformation{}, err
		}
	}
	method, err := p.method2(n)
	if err != nil {
		return geodesy.Transformation{}, err
	}
	params, err := p.parameters2(n)
	if err != nil {
		return geodesy.Transformation{}, err
	}
	t := geodesy.NewTransformation(info, source, target, method, params)
	if accNode := n.child("OPERATIONACCURACY"); accNode != nil {
		acc, err := accNode.numberArg(0)
		if err != nil {
			return geodesy.Transformation{}, err
		}
		t = t.WithAccuracy(acc)
	}
	return t, nil
}

// ---- WKT1 objects ----

func (p *parser) geographicCRS1(n *node) (*geodesy.GeodeticCRS, error) {
	return p.geodeticCRS1(n, geodesy.CSEllipsoidal)
}

func (p *parser) geocentricCRS1(n *node) (*geodesy.GeodeticCRS, error) {
	return p.geodeticCRS1(n, geodesy.CSCartesian)
}

func (p *parser) geodeticCRS1(n *node, csKind geodesy.CSKind) (*geodesy.GeodeticCRS, error) {
	info, err := p.info(n)
	if err != nil {
		return nil, err
	}
	name := canonicalName(TableGeodeticCRS, info.Name())
	info = geodesy.NewObjectInfo(name, info.Identifiers()...)
	datumNode := n.child("DATUM")
	if datumNode == nil {
		return nil, &ParseError{Pos: n.pos, Msg: n.keyword + " lacks a DATUM node"}
	}
	datum, err := p.geodeticFrame(datumNode, nil)
	if err != nil {
		return nil, err
	}
	frame := datum.(geodesy.GeodeticReferenceFrame)
	unitKind := geodesy.UnitAngular
	if csKind == geodesy.CSCartesian {
		unitKind = geodesy.UnitLinear
	}
	unit := defaultUnitFor(csKind)
	if un := n.child("UNIT"); un != nil {
		unit, err = unitFromNode(un, unitKind)
		if err != nil {
			return nil, err
		}
	}
	if pmNode := n.child("PRIMEM"); pmNode != nil {
		pmUnit := unit
		if pmUnit.Kind != geodesy.UnitAngular {
			pmUnit = geodesy.UnitDegree
		}
		pm, err := p.primeMeridian(pmNode, pmUnit)
		if err != nil {
			return nil, err
		}
		frame = geodesy.NewGeodeticReferenceFrame(frame.Info(), frame.Ellipsoid(), pm)
	}
	var cs geodesy.CoordinateSystem
	if axes, err := p.axes1(n, csKind, unit); err != nil {
		return nil, err
	} else if len(axes) > 0 {
		cs = geodesy.NewCoordinateSystem(csKind, axes...)
	} else if csKind == geodesy.CSCartesian {
		cs = geodesy.CartesianCSGeocentric(unit)
	} else {
		cs = geodesy.EllipsoidalCS2DLatLon(unit)
	}
	return geodesy.NewGeodeticCRS(info, frame, cs), nil
}

func (p *parser) axes1(n *node, csKind geodesy.CSKind, unit geodesy.UnitOfMeasure) ([]geodesy.Axis, error) {
	var axes []geodesy.Axis
	for _, axNode := range n.children("AXIS") {
		name, err := axNode.stringArg(0)
		if err != nil {
			return nil, err
		}
		dirWord, err := axNode.bareArg(1)
		if err != nil {
			return nil, err
		}
		axes = append(axes, geodesy.Axis{Name: name, Direction: directionFrom(dirWord), Unit: unit})
	}
	return axes, nil
}

func (p *parser) projectedCRS1(n *node) (*geodesy.ProjectedCRS, error) {
	info, err := p.info(n)
	if err != nil {
		return nil, err
	}
	baseNode := n.child("GEOGCS")
	if baseNode == nil {
		return nil, &ParseError{Pos: n.pos, Msg: "PROJCS lacks a GEOGCS node"}
	}
	base, err := p.geographicCRS1(baseNode)
	if err != nil {
		return nil, err
	}
	projNode := n.child("PROJECTION")
	if projNode == nil {
		return nil, &ParseError{Pos: n.pos, Msg: "PROJCS lacks a PROJECTION node"}
	}
	projName, err := projNode.stringArg(0)
	if err != nil {
		return nil, err
	}
	methodCode, ok := wkt1MethodCodes[projName]
	if !ok {
		return nil, &ParseError{Pos: projNode.pos, Msg: "unknown projection " + projName}
	}
	method := geodesy.NewOperationMethod(geodesy.NewObjectInfo(
		epsgMethodNames[methodCode], geodesy.Identifier{Authority: "EPSG", Code: methodCode}))
	linear := geodesy.UnitMetre
	if un := n.child("UNIT"); un != nil {
		linear, err = unitFromNode(un, geodesy.UnitLinear)
		if err != nil {
			return nil, err
		}
	}
	var params []geodesy.Parameter
	for _, pNode := range n.children("PARAMETER") {
		pName, err := pNode.stringArg(0)
		if err != nil {
			return nil, err
		}
		value, err := pNode.numberArg(1)
		if err != nil {
			return nil, err
		}
		code, ok := wkt1ParamCodes[pName]
		if !ok {
			continue
		}
		unit := geodesy.UnitDegree
		switch code {
		case "8805":
			unit = geodesy.UnitUnity
		case "8806", "8807":
			unit = linear
		}
		params = append(params, geodesy.NewParameter(
			epsgParamNames[code], geodesy.Identifier{Authority: "EPSG", Code: code}, value, unit))
	}
	conv := geodesy.NewConversion(geodesy.NewObjectInfo("unnamed"), method, params)
	var cs geodesy.CoordinateSystem
	if axes, err := p.axes1(n, geodesy.CSCartesian, linear); err != nil {
		return nil, err
	} else if len(axes) > 0 {
		cs = geodesy.NewCoordinateSystem(geodesy.CSCartesian, axes...)
	} else {
		cs = geodesy.CartesianCSEastNorth(linear)
	}
	return geodesy.NewProjectedCRS(info, base, conv, cs), nil
}

func (p *parser) verticalCRS1(n *node) (*geodesy.VerticalCRS, error) {
	info, err := p.info(n)
	if err != nil {
		return nil, err
	}
	datumNode := n.child("VERT_DATUM")
	if datumNode == nil {
		return nil, &ParseError{Pos: n.pos, Msg: "VERT_CS lacks a VERT_DATUM node"}
	}
	dInfo, err := p.info(datumNode)
	if err != nil {
		return nil, err
	}
	unit := geodesy.UnitMetre
	if un := n.child("UNIT"); un != nil {
		unit, err = unitFromNode(un, geodesy.UnitLinear)
		if err != nil {
			return nil, err
		}
	}
	return geodesy.NewVerticalCRS(info, geodesy.NewVerticalReferenceFrame(dInfo), geodesy.VerticalCSUp(unit)), nil
}

func (p *parser) compoundCRS1(n *node) (*geodesy.CompoundCRS, error) {
	info, err := p.info(n)
	if err != nil {
		return nil, err
	}
	var components []geodesy.CRS
	for _, a := range n.args {
		if a.kind != argNode || !isCRSKeyword(a.node.keyword) {
			continue
		}
		comp, err := p.crs(a.node)
		if err != nil {
			return nil, err
		}
		components = append(components, comp)
	}
	if len(components) < 2 {
		return nil, &ParseError{Pos: n.pos, Msg: "COMPD_CS needs at least 2 components"}
	}
	return geodesy.NewCompoundCRS(info, components...), nil
}

func (p *parser) engineeringCRS1(n *node) (*geodesy.EngineeringCRS, error) {
	info, err := p.info(n)
	if err != nil {
		return nil, err
	}
	var cs geodesy.CoordinateSystem
	unit := geodesy.UnitMetre
	if un := n.child("UNIT"); un != nil {
		unit, err = unitFromNode(un, geodesy.UnitLinear)
		if err != nil {
			return nil, err
		}
	}
	if axes, err := p.axes1(n, geodesy.CSCartesian, unit); err != nil {
		return nil, err
	} else if len(axes) > 0 {
		cs = geodesy.NewCoordinateSystem(geodesy.CSCartesian, axes...)
	}
	return geodesy.NewEngineeringCRS(info, cs), nil
}

// Reverse legacy spellings.
var wkt1MethodCodes = map[string]string{
	"Transverse_Mercator": geodesy.MethodTransverseMercator,
	"Mercator_1SP":        geodesy.MethodMercatorA,
	"Mercator_2SP":        geodesy.MethodMercatorB,
}

var epsgMethodNames = map[string]string{
	geodesy.MethodTransverseMercator: geodesy.MethodNameTransverseMercator,
	geodesy.MethodMercatorA:          geodesy.MethodNameMercatorA,
	geodesy.MethodMercatorB:          geodesy.MethodNameMercatorB,
}

var wkt1ParamCodes = map[string]string{
	"latitude_of_origin":  "8801",
	"central_meridian":    "8802",
	"scale_factor":        "8805",
	"false_easting":       "8806",
	"false_northing":      "8807",
	"standard_parallel_1": "8823",
}

var epsgParamNames = map[string]string{
	"8801": "Latitude of natural origin",
	"8802": "Longitude of natural origin",
	"8805": "Scale factor at natural origin",
	"8806": "False easting",
	"8807": "False northing",
	"8823": "Latitude of 1st standard parallel",
}
