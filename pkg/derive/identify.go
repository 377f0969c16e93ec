package derive

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"crskit/pkg/geodesy"
	"crskit/pkg/registry"
)

// Match pairs a registry entry with the confidence that it is the candidate.
type Match struct {
	Object     geodesy.Object
	Confidence int
}

// Confidence levels reported by Identify.
const (
	// ConfidenceExact marks a structural and name match.
	ConfidenceExact = 100
	// ConfidenceEquivalent marks a structural match with divergent
	// metadata.
	ConfidenceEquivalent = 70
	// ConfidenceNameOnly marks a name match without structural agreement.
	ConfidenceNameOnly = 25
)

// Identify compares a CRS against the registry and returns the matching
// entries ranked by confidence. Non-CRS objects are outside the contract and
// yield an empty result with no error. An empty authorityScope searches all
// authorities.
func Identify(ctx context.Context, reg *registry.Registry, candidate geodesy.Object, authorityScope string) ([]Match, error) {
	crs, ok := candidate.(geodesy.CRS)
	if !ok {
		return nil, nil
	}
	category := categoryFor(crs.Kind())
	matches := map[geodesy.Identifier]Match{}

	if category != "" {
		authorities, err := scopedAuthorities(ctx, reg, authorityScope)
		if err != nil {
			return nil, err
		}
		for _, authority := range authorities {
			codes, err := reg.ListCodes(ctx, authority, category, true)
			if err != nil {
				return nil, err
			}
			for _, code := range codes {
				obj, err := reg.Lookup(ctx, authority, code, category)
				if err != nil {
					continue
				}
				entry, ok := obj.(geodesy.CRS)
				if !ok || !geodesy.EqualEquivalent(crs, entry) {
					continue
				}
				confidence := ConfidenceEquivalent
				if strings.EqualFold(geodesy.NameOf(entry), geodesy.NameOf(crs)) {
					confidence = ConfidenceExact
				}
				matches[geodesy.Identifier{Authority: authority, Code: code}] = Match{Object: obj, Confidence: confidence}
			}
		}
	}

	if name := geodesy.NameOf(crs); name != "" {
		q := registry.SearchQuery{Authority: scopeAuthority(authorityScope), Name: name}
		if category != "" {
			q.Categories = []registry.Category{category}
		}
		objs, err := reg.SearchByName(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, obj := range objs {
			ids := obj.Info().Identifiers()
			if len(ids) == 0 {
				continue
			}
			if _, seen := matches[ids[0]]; seen {
				continue
			}
			matches[ids[0]] = Match{Object: obj, Confidence: ConfidenceNameOnly}
		}
	}

	type ranked struct {
		id geodesy.Identifier
		m  Match
	}
	order := make([]ranked, 0, len(matches))
	for id, m := range matches {
		order = append(order, ranked{id: id, m: m})
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].m.Confidence != order[j].m.Confidence {
			return order[i].m.Confidence > order[j].m.Confidence
		}
		if order[i].id.Authority != order[j].id.Authority {
			return order[i].id.Authority < order[j].id.Authority
		}
		return codeLess(order[i].id.Code, order[j].id.Code)
	})
	out := make([]Match, len(order))
	for i, r := range order {
		out[i] = r.m
	}
	return out, nil
}

func scopedAuthorities(ctx context.Context, reg *registry.Registry, scope string) ([]string, error) {
	if s := scopeAuthority(scope); s != "" {
		return []string{s}, nil
	}
	return reg.ListAuthorities(ctx)
}

func categoryFor(kind geodesy.CRSKind) registry.Category {
	switch kind {
	case geodesy.KindGeographic2D, geodesy.KindGeographic3D, geodesy.KindGeocentric:
		return registry.CategoryGeodeticCRS
	case geodesy.KindProjected:
		return registry.CategoryProjectedCRS
	case geodesy.KindVertical:
		return registry.CategoryVerticalCRS
	case geodesy.KindCompound:
		return registry.CategoryCompoundCRS
	}
	// Bound, temporal, engineering, and other CRS are never dataset entries.
	return ""
}

func codeLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
