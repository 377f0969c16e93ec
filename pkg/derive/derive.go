// Package derive searches, composes, and ranks coordinate operations between
// CRS pairs over a registry snapshot. Every function is pure over immutable
// inputs: no state survives a call, and a given registry snapshot plus
// configuration always yields the same ordered result.
package derive

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"crskit/pkg/geodesy"
	"crskit/pkg/registry"
)

// SpatialCriterion selects how a candidate's area of use is matched against
// the endpoints' combined area.
type SpatialCriterion int

const (
	// StrictContainment keeps a candidate only when its area of use covers
	// the whole intersection of the endpoint areas.
	StrictContainment SpatialCriterion = iota
	// PartialIntersection keeps a candidate that overlaps the intersection.
	PartialIntersection
)

// GridPolicy selects how candidates requiring correction grids are treated.
type GridPolicy int

const (
	// GridsIgnored keeps every candidate regardless of grid availability.
	GridsIgnored GridPolicy = iota
	// DiscardUnavailable drops candidates whose grids are not locally
	// available. Dropping never fails the search.
	DiscardUnavailable
	// RequireKnown drops candidates referencing grids the registry does not
	// know about; known grids count even when not locally present.
	RequireKnown
)

// PivotPolicy selects whether operations may be composed through an
// intermediate CRS.
type PivotPolicy int

const (
	// PivotAny admits every intermediate CRS the registry links to both
	// endpoints.
	PivotAny PivotPolicy = iota
	// PivotNone disables composition through intermediates.
	PivotNone
	// PivotRestricted admits only intermediates listed in
	// Config.AllowedPivots.
	PivotRestricted
)

// Config tunes one derivation call. The zero value is the permissive
// default: any pivot, strict containment, grids ignored, any authority.
type Config struct {
	Spatial SpatialCriterion
	Grids   GridPolicy
	Pivots  PivotPolicy
	// AllowedPivots is consulted only under PivotRestricted.
	AllowedPivots []geodesy.Identifier
	// Authority restricts candidate operations and pivots to one authority.
	// Empty or "any" admits all.
	Authority string
	// TieBreak orders candidates of equal accuracy; negative puts a first.
	// Nil falls back to dataset registration order.
	TieBreak func(a, b geodesy.CoordinateOperation) int
}

type candidate struct {
	op  geodesy.CoordinateOperation
	seq int
}

// Operations returns the usable coordinate operations from source to target,
// best first. An empty result with a nil error means no usable path exists.
func Operations(ctx context.Context, reg *registry.Registry, source, target geodesy.CRS, cfg Config) ([]geodesy.CoordinateOperation, error) {
	if source == nil || target == nil {
		return nil, fmt.Errorf("%w: derivation needs both endpoints", geodesy.ErrInvalidArgument)
	}
	src, tgt, compatible := pairEndpoints(source, target)
	if !compatible {
		return nil, nil
	}

	var cands []candidate
	add := func(op geodesy.CoordinateOperation) {
		for _, c := range cands {
			if geodesy.EqualOperations(c.op, op, false) {
				return
			}
		}
		cands = append(cands, candidate{op: op, seq: len(cands)})
	}

	srcID, srcKnown := firstIdentifier(src)
	tgtID, tgtKnown := firstIdentifier(tgt)

	if srcKnown && tgtKnown {
		direct, err := registeredOps(ctx, reg, srcID, tgtID, cfg.Authority)
		if err != nil {
			return nil, err
		}
		for _, op := range direct {
			add(op)
		}
	}
	if op, ok := synthesizeCSChange(src, tgt); ok {
		add(op)
	}

	if cfg.Pivots != PivotNone && srcKnown && tgtKnown {
		pivots, err := reg.PivotCodes(ctx, srcID, tgtID, scopeAuthority(cfg.Authority))
		if err != nil {
			return nil, err
		}
		for _, pivot := range pivots {
			if cfg.Pivots == PivotRestricted && !pivotAllowed(cfg.AllowedPivots, pivot) {
				continue
			}
			inbound, err := registeredOps(ctx, reg, srcID, pivot, cfg.Authority)
			if err != nil {
				return nil, err
			}
			outbound, err := registeredOps(ctx, reg, pivot, tgtID, cfg.Authority)
			if err != nil {
				return nil, err
			}
			for _, a := range inbound {
				for _, b := range outbound {
					composed, err := geodesy.NewConcatenatedOperation(
						geodesy.NewObjectInfo(""), []geodesy.CoordinateOperation{a, b})
					if err != nil {
						continue
					}
					add(composed)
				}
			}
		}
	}

	// Last resort when the registry offers nothing: assume the frames
	// coincide and synthesize a zero-shift operation.
	if len(cands) == 0 {
		if op, ok := nullGeographicOffset(src, tgt); ok {
			add(op)
		}
	}

	cands = filterSpatial(cands, src, tgt, cfg.Spatial)
	cands, err := filterGrids(ctx, reg, cands, cfg.Grids)
	if err != nil {
		return nil, err
	}
	sortCandidates(cands, cfg.TieBreak)

	out := make([]geodesy.CoordinateOperation, len(cands))
	for i, c := range cands {
		out[i] = c.op
	}
	return out, nil
}

// pairEndpoints normalizes both endpoints into directly comparable CRS:
// bound CRS unwrap to their base, compound CRS pair up per component
// category. Incompatible pairings report false.
func pairEndpoints(source, target geodesy.CRS) (geodesy.CRS, geodesy.CRS, bool) {
	source, target = unwrapBound(source), unwrapBound(target)
	sc, sourceCompound := source.(*geodesy.CompoundCRS)
	tc, targetCompound := target.(*geodesy.CompoundCRS)
	switch {
	case sourceCompound && targetCompound:
		sh, sv := splitCompound(sc)
		th, tv := splitCompound(tc)
		if sh == nil || th == nil {
			return nil, nil, false
		}
		if (sv == nil) != (tv == nil) {
			return nil, nil, false
		}
		if sv != nil && !geodesy.EqualEquivalent(sv, tv) {
			return nil, nil, false
		}
		return pairEndpoints(sh, th)
	case sourceCompound:
		sh, _ := splitCompound(sc)
		if sh == nil || target.Kind() == geodesy.KindVertical {
			return nil, nil, false
		}
		return pairEndpoints(sh, target)
	case targetCompound:
		th, _ := splitCompound(tc)
		if th == nil || source.Kind() == geodesy.KindVertical {
			return nil, nil, false
		}
		return pairEndpoints(source, th)
	}
	return source, target, true
}

func unwrapBound(crs geodesy.CRS) geodesy.CRS {
	for {
		b, ok := crs.(*geodesy.BoundCRS)
		if !ok {
			return crs
		}
		crs = b.BaseCRS()
	}
}

func splitCompound(c *geodesy.CompoundCRS) (horizontal, vertical geodesy.CRS) {
	for _, comp := range c.Components() {
		switch comp.Kind() {
		case geodesy.KindVertical:
			if vertical == nil {
				vertical = comp
			}
		case geodesy.KindTemporal:
			// Temporal components do not participate in horizontal paths.
		default:
			if horizontal == nil {
				horizontal = unwrapBound(comp)
			}
		}
	}
	return horizontal, vertical
}

func firstIdentifier(crs geodesy.CRS) (geodesy.Identifier, bool) {
	ids := crs.Info().Identifiers()
	if len(ids) == 0 {
		return geodesy.Identifier{}, false
	}
	return ids[0], true
}

// registeredOps returns the registry operations from a to b in execution
// direction: reverse registrations come back inverted.
func registeredOps(ctx context.Context, reg *registry.Registry, a, b geodesy.Identifier, authority string) ([]geodesy.CoordinateOperation, error) {
	var out []geodesy.CoordinateOperation
	forward, err := reg.OperationsBetween(ctx, a, b)
	if err != nil {
		return nil, err
	}
	for _, t := range forward {
		if scopeAdmits(authority, t.Info()) {
			out = append(out, t)
		}
	}
	reverse, err := reg.OperationsBetween(ctx, b, a)
	if err != nil {
		return nil, err
	}
	for _, t := range reverse {
		if scopeAdmits(authority, t.Info()) {
			out = append(out, t.Inverse())
		}
	}
	return out, nil
}

func scopeAuthority(authority string) string {
	if strings.EqualFold(authority, "any") {
		return ""
	}
	return authority
}

func scopeAdmits(authority string, info geodesy.ObjectInfo) bool {
	scope := scopeAuthority(authority)
	if scope == "" {
		return true
	}
	for _, id := range info.Identifiers() {
		if strings.EqualFold(id.Authority, scope) {
			return true
		}
	}
	return false
}

func pivotAllowed(allowed []geodesy.Identifier, pivot geodesy.Identifier) bool {
	for _, id := range allowed {
		if strings.EqualFold(id.Authority, pivot.Authority) && id.Code == pivot.Code {
			return true
		}
	}
	return false
}

// synthesizeCSChange builds the deterministic conversion between endpoints
// that share a datum and differ only in coordinate-system presentation.
func synthesizeCSChange(src, tgt geodesy.CRS) (geodesy.CoordinateOperation, bool) {
	gs, gt := geodesy.GeodeticCRSOf(src), geodesy.GeodeticCRSOf(tgt)
	if gs == nil || gt == nil {
		return nil, false
	}
	if src.Kind() == geodesy.KindProjected || tgt.Kind() == geodesy.KindProjected {
		return nil, false
	}
	if !geodesy.EqualEquivalent(gs.Datum(), gt.Datum()) {
		return nil, false
	}
	cs1, cs2 := gs.CoordinateSystem(), gt.CoordinateSystem()
	if sameCSPresentation(cs1, cs2) {
		return nil, false
	}

	var info geodesy.ObjectInfo
	switch {
	case cs1.AxisCount() == 3 && cs2.AxisCount() == 2:
		info = geodesy.NewObjectInfo("Geographic3D to 2D conversion",
			geodesy.Identifier{Authority: "EPSG", Code: "9659"})
	case cs1.AxisCount() == 2 && cs2.AxisCount() == 3:
		info = geodesy.NewObjectInfo("Geographic2D to 3D conversion",
			geodesy.Identifier{Authority: "EPSG", Code: "9659"})
	case sameAxisUnits(cs1, cs2):
		info = geodesy.NewObjectInfo("axis order change (2D)",
			geodesy.Identifier{Authority: "EPSG", Code: "9843"})
	default:
		info = geodesy.NewObjectInfo(fmt.Sprintf("Change of angular unit from %s to %s",
			geodesy.NameOf(src), geodesy.NameOf(tgt)))
	}
	return geodesy.NewConversion(info, geodesy.NewOperationMethod(info), nil), true
}

func sameCSPresentation(a, b geodesy.CoordinateSystem) bool {
	if a.Kind() != b.Kind() || a.AxisCount() != b.AxisCount() {
		return false
	}
	aAxes, bAxes := a.Axes(), b.Axes()
	for i := range aAxes {
		if aAxes[i].Direction != bAxes[i].Direction || aAxes[i].Unit.Factor != bAxes[i].Unit.Factor {
			return false
		}
	}
	return true
}

func sameAxisUnits(a, b geodesy.CoordinateSystem) bool {
	aAxes, bAxes := a.Axes(), b.Axes()
	if len(aAxes) != len(bAxes) {
		return false
	}
	for i := range aAxes {
		if aAxes[i].Unit.Factor != bAxes[i].Unit.Factor {
			return false
		}
	}
	return true
}

// nullGeographicOffset assumes two geographic CRS with distinct frames but
// identical presentation coincide, yielding a zero-shift transformation of
// unknown accuracy.
func nullGeographicOffset(src, tgt geodesy.CRS) (geodesy.CoordinateOperation, bool) {
	gs, gt := geodesy.GeodeticCRSOf(src), geodesy.GeodeticCRSOf(tgt)
	if gs == nil || gt == nil {
		return nil, false
	}
	if src.Kind() == geodesy.KindProjected || tgt.Kind() == geodesy.KindProjected {
		return nil, false
	}
	if src.Kind() == geodesy.KindGeocentric || tgt.Kind() == geodesy.KindGeocentric {
		return nil, false
	}
	if geodesy.EqualEquivalent(gs.Datum(), gt.Datum()) {
		return nil, false
	}
	if !sameCSPresentation(gs.CoordinateSystem(), gt.CoordinateSystem()) {
		return nil, false
	}
	name := fmt.Sprintf("Null geographic offset from %s to %s", geodesy.NameOf(src), geodesy.NameOf(tgt))
	method := geodesy.NewOperationMethod(geodesy.NewObjectInfo("Geographic2D offsets",
		geodesy.Identifier{Authority: "EPSG", Code: "9619"}))
	params := []geodesy.Parameter{
		geodesy.NewParameter("Latitude offset", geodesy.Identifier{Authority: "EPSG", Code: "8601"}, 0, geodesy.UnitDegree),
		geodesy.NewParameter("Longitude offset", geodesy.Identifier{Authority: "EPSG", Code: "8602"}, 0, geodesy.UnitDegree),
	}
	return geodesy.NewTransformation(geodesy.NewObjectInfo(name), src, tgt, method, params), true
}

func filterSpatial(cands []candidate, src, tgt geodesy.CRS, criterion SpatialCriterion) []candidate {
	srcArea, tgtArea := src.Area(), tgt.Area()
	if srcArea == nil || tgtArea == nil {
		return cands
	}
	overlap, ok := srcArea.Intersection(*tgtArea)
	if !ok {
		return cands
	}
	kept := cands[:0]
	for _, c := range cands {
		area := c.op.Area()
		if area == nil {
			kept = append(kept, c)
			continue
		}
		switch criterion {
		case PartialIntersection:
			if area.Intersects(overlap) {
				kept = append(kept, c)
			}
		default:
			if area.Contains(overlap) {
				kept = append(kept, c)
			}
		}
	}
	return kept
}

func filterGrids(ctx context.Context, reg *registry.Registry, cands []candidate, policy GridPolicy) ([]candidate, error) {
	if policy == GridsIgnored {
		return cands, nil
	}
	kept := cands[:0]
	for _, c := range cands {
		usable, err := gridsUsable(ctx, reg, c.op.GridsUsed(), policy)
		if err != nil {
			return nil, err
		}
		if usable {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

func gridsUsable(ctx context.Context, reg *registry.Registry, grids []string, policy GridPolicy) (bool, error) {
	for _, name := range grids {
		info, err := reg.GridInfo(ctx, name)
		var notFound registry.ErrNotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if policy == DiscardUnavailable && !info.Available {
			return false, nil
		}
	}
	return true, nil
}

// sortCandidates orders known accuracy before unknown, better accuracy
// first, and falls back to the tie-break hook then registration order.
func sortCandidates(cands []candidate, tieBreak func(a, b geodesy.CoordinateOperation) int) {
	sort.SliceStable(cands, func(i, j int) bool {
		ai, aKnown := cands[i].op.Accuracy()
		aj, bKnown := cands[j].op.Accuracy()
		if aKnown != bKnown {
			return aKnown
		}
		if aKnown && ai != aj {
			return ai < aj
		}
		if tieBreak != nil {
			if c := tieBreak(cands[i].op, cands[j].op); c != 0 {
				return c < 0
			}
		}
		return cands[i].seq < cands[j].seq
	})
}
