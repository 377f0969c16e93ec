package registry

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"crskit/pkg/geodesy"
)

var crsKindsByCategory = map[Category][]string{
	CategoryCRS:          nil,
	CategoryGeodeticCRS:  {"geographic2D", "geographic3D", "geocentric"},
	CategoryProjectedCRS: {"projected"},
	CategoryVerticalCRS:  {"vertical"},
	CategoryCompoundCRS:  {"compound"},
}

// Lookup resolves a single object. A miss is ErrNotFound; bound and
// temporal CRS categories always miss because the dataset cannot hold them.
func (r *Registry) Lookup(ctx context.Context, authority, code string, category Category) (obj geodesy.Object, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "lookup", start, err) }()

	switch category {
	case CategoryBoundCRS, CategoryTemporalCRS:
		return nil, ErrNotFound{Category: category, Authority: authority, Code: code}
	case CategoryDatum:
		return orNil(r.fetchGeodeticDatum(ctx, authority, code))
	case CategoryVerticalDatum:
		return orNil(r.fetchVerticalDatum(ctx, authority, code))
	case CategoryEllipsoid:
		return orNil(r.fetchEllipsoid(ctx, authority, code))
	case CategoryPrimeMeridian:
		return orNil(r.fetchPrimeMeridian(ctx, authority, code))
	case CategoryOperation:
		return orNil(r.fetchOperation(ctx, authority, code))
	case CategoryUnit:
		return nil, fmt.Errorf("registry: units are not model objects: %w", geodesy.ErrInvalidArgument)
	case CategoryAny:
		if crs, err := r.fetchCRS(ctx, authority, code); err == nil {
			return crs, nil
		}
		if op, err := r.fetchOperation(ctx, authority, code); err == nil {
			return op, nil
		}
		if datum, err := r.fetchGeodeticDatum(ctx, authority, code); err == nil {
			return datum, nil
		}
		if datum, err := r.fetchVerticalDatum(ctx, authority, code); err == nil {
			return datum, nil
		}
		if ellipsoid, err := r.fetchEllipsoid(ctx, authority, code); err == nil {
			return ellipsoid, nil
		}
		if pm, err := r.fetchPrimeMeridian(ctx, authority, code); err == nil {
			return pm, nil
		}
		return nil, ErrNotFound{Category: CategoryAny, Authority: authority, Code: code}
	}
	kinds, ok := crsKindsByCategory[category]
	if !ok {
		return nil, fmt.Errorf("registry: unknown category %q: %w", category, geodesy.ErrInvalidArgument)
	}
	crs, err := r.fetchCRS(ctx, authority, code, kinds...)
	if err != nil {
		return nil, err
	}
	return crs, nil
}

// orNil keeps a typed zero value from escaping as a non-nil interface.
func orNil[T geodesy.Object](obj T, err error) (geodesy.Object, error) {
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// ListAuthorities returns the union of authority names across layers.
func (r *Registry) ListAuthorities(ctx context.Context) (names []string, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "list_authorities", start, err) }()

	seen := map[string]bool{}
	for _, db := range r.handles() {
		rows, err := db.QueryContext(ctx, `SELECT name FROM authority`)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				rows.Close()
				return nil, err
			}
			seen[name] = true
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
	}
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ListCodes lists the codes an authority defines for a category. Categories
// the dataset cannot hold (bound, temporal) are a definite failure.
func (r *Registry) ListCodes(ctx context.Context, authority string, category Category, includeDeprecated bool) (codes []string, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "list_codes", start, err) }()

	var query string
	var args []any
	switch category {
	case CategoryBoundCRS, CategoryTemporalCRS:
		return nil, fmt.Errorf("registry: dataset holds no %s entries: %w", category, geodesy.ErrInvalidArgument)
	case CategoryDatum, CategoryVerticalDatum, CategoryEllipsoid, CategoryPrimeMeridian,
		CategoryOperation, CategoryUnit:
		query = `SELECT code, deprecated FROM ` + string(category) + ` WHERE authority = ?`
		args = []any{authority}
	default:
		kinds, ok := crsKindsByCategory[category]
		if !ok {
			return nil, fmt.Errorf("registry: unknown category %q: %w", category, geodesy.ErrInvalidArgument)
		}
		query = `SELECT code, deprecated FROM crs WHERE authority = ?`
		args = []any{authority}
		if len(kinds) > 0 {
			query += ` AND kind IN (?` + strings.Repeat(", ?", len(kinds)-1) + `)`
			for _, k := range kinds {
				args = append(args, k)
			}
		}
	}

	deprecated := map[string]bool{}
	for _, db := range r.handles() {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var code string
			var dep bool
			if err := rows.Scan(&code, &dep); err != nil {
				rows.Close()
				return nil, err
			}
			deprecated[code] = dep
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
	}
	for code, dep := range deprecated {
		if dep && !includeDeprecated {
			continue
		}
		codes = append(codes, code)
	}
	sortCodes(codes)
	return codes, nil
}

// Metadata returns a dataset metadata value, overlays consulted first.
func (r *Registry) Metadata(ctx context.Context, key string) (value string, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "metadata", start, err) }()

	for _, db := range reversed(r.handles()) {
		err := db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return "", err
		}
		return value, nil
	}
	return "", ErrNotFound{Category: "metadata", Code: key}
}

// GridInfo describes a transformation grid file.
type GridInfo struct {
	FullName       string
	PackageName    string
	URL            string
	DirectDownload bool
	OpenLicense    bool
	Available      bool
}

// GridInfo returns grid metadata. When a GridStore is configured its answer
// replaces the dataset's stored availability flag.
func (r *Registry) GridInfo(ctx context.Context, name string) (info GridInfo, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "grid_info", start, err) }()

	found := false
	for _, db := range reversed(r.handles()) {
		err := db.QueryRowContext(ctx,
			`SELECT full_name, package_name, url, direct_download, open_license, available
			 FROM grid WHERE name = ?`, name).
			Scan(&info.FullName, &info.PackageName, &info.URL,
				&info.DirectDownload, &info.OpenLicense, &info.Available)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return GridInfo{}, err
		}
		found = true
		break
	}
	if !found {
		return GridInfo{}, ErrNotFound{Category: "grid", Code: name}
	}
	if r.grids != nil {
		available, err := r.grids.Available(ctx, name)
		if err != nil {
			return GridInfo{}, err
		}
		info.Available = available
	}
	return info, nil
}

// SearchQuery parameterizes SearchByName.
type SearchQuery struct {
	// Authority restricts matches to one authority; empty means any.
	Authority string
	Name      string
	// Categories restricts the object families searched; nil means all.
	Categories []Category
	// Approximate adds prefix and substring matches after exact ones.
	Approximate bool
	// Limit caps the result count; zero or negative means unlimited.
	Limit int
}

type searchHit struct {
	category  Category
	authority string
	code      string
	name      string
	rank      int
}

// SearchByName returns objects ranked exact first, then prefix, then
// substring matches when approximate search is requested.
func (r *Registry) SearchByName(ctx context.Context, q SearchQuery) (objs []geodesy.Object, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "search_by_name", start, err) }()

	wanted := map[Category]bool{}
	for _, c := range q.Categories {
		wanted[c] = true
	}
	includes := func(c Category) bool { return len(wanted) == 0 || wanted[c] }

	hits := map[string]searchHit{}
	collect := func(category Category, table string) error {
		if !includes(category) {
			return nil
		}
		query := `SELECT authority, code, name FROM ` + table + ` WHERE deprecated = 0`
		args := []any{}
		if q.Authority != "" {
			query += ` AND authority = ?`
			args = append(args, q.Authority)
		}
		for _, db := range r.handles() {
			rows, err := db.QueryContext(ctx, query, args...)
			if err != nil {
				return err
			}
			for rows.Next() {
				var hit searchHit
				if err := rows.Scan(&hit.authority, &hit.code, &hit.name); err != nil {
					rows.Close()
					return err
				}
				hit.category = category
				hit.rank = nameRank(hit.name, q.Name, q.Approximate)
				if hit.rank < 0 {
					continue
				}
				hits[string(category)+"/"+hit.authority+":"+hit.code] = hit
			}
			if err := rows.Close(); err != nil {
				return err
			}
		}
		return nil
	}

	if err := r.collectCRSHits(ctx, q, includes, hits); err != nil {
		return nil, err
	}
	if err := collect(CategoryDatum, "geodetic_datum"); err != nil {
		return nil, err
	}
	if err := collect(CategoryVerticalDatum, "vertical_datum"); err != nil {
		return nil, err
	}
	if err := collect(CategoryEllipsoid, "ellipsoid"); err != nil {
		return nil, err
	}
	if err := collect(CategoryPrimeMeridian, "prime_meridian"); err != nil {
		return nil, err
	}
	if err := collect(CategoryOperation, "coordinate_operation"); err != nil {
		return nil, err
	}

	ranked := make([]searchHit, 0, len(hits))
	for _, hit := range hits {
		ranked = append(ranked, hit)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if a.name != b.name {
			return a.name < b.name
		}
		if a.authority != b.authority {
			return a.authority < b.authority
		}
		return codeLess(a.code, b.code)
	})

	for _, hit := range ranked {
		if q.Limit > 0 && len(objs) == q.Limit {
			break
		}
		obj, err := r.Lookup(ctx, hit.authority, hit.code, hit.category)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

var crsCategoryByKind = map[string]Category{
	"geographic2D": CategoryGeodeticCRS,
	"geographic3D": CategoryGeodeticCRS,
	"geocentric":   CategoryGeodeticCRS,
	"projected":    CategoryProjectedCRS,
	"vertical":     CategoryVerticalCRS,
	"compound":     CategoryCompoundCRS,
}

func (r *Registry) collectCRSHits(ctx context.Context, q SearchQuery, includes func(Category) bool, hits map[string]searchHit) error {
	query := `SELECT authority, code, name, kind FROM crs WHERE deprecated = 0`
	args := []any{}
	if q.Authority != "" {
		query += ` AND authority = ?`
		args = append(args, q.Authority)
	}
	for _, db := range r.handles() {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		for rows.Next() {
			var hit searchHit
			var kind string
			if err := rows.Scan(&hit.authority, &hit.code, &hit.name, &kind); err != nil {
				rows.Close()
				return err
			}
			hit.category = crsCategoryByKind[kind]
			if !includes(CategoryCRS) && !includes(hit.category) {
				continue
			}
			hit.rank = nameRank(hit.name, q.Name, q.Approximate)
			if hit.rank < 0 {
				continue
			}
			hits["crs/"+hit.authority+":"+hit.code] = hit
		}
		if err := rows.Close(); err != nil {
			return err
		}
	}
	return nil
}

// nameRank orders exact before prefix before substring; -1 means no match.
func nameRank(name, query string, approximate bool) int {
	n, q := strings.ToLower(name), strings.ToLower(query)
	switch {
	case n == q:
		return 0
	case !approximate:
		return -1
	case strings.HasPrefix(n, q):
		return 1
	case strings.Contains(n, q):
		return 2
	}
	return -1
}

// GeodeticCRSFromDatum lists the geodetic CRS defined over a datum,
// optionally restricted to one CRS authority.
func (r *Registry) GeodeticCRSFromDatum(ctx context.Context, crsAuthority, datumAuth, datumCode string) (out []*geodesy.GeodeticCRS, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "geodetic_crs_from_datum", start, err) }()

	query := `SELECT authority, code FROM crs
		WHERE kind IN ('geographic2D', 'geographic3D', 'geocentric')
		AND datum_auth = ? AND datum_code = ? AND deprecated = 0`
	args := []any{datumAuth, datumCode}
	if crsAuthority != "" {
		query += ` AND authority = ?`
		args = append(args, crsAuthority)
	}

	seen := map[geodesy.Identifier]bool{}
	var ids []geodesy.Identifier
	for _, db := range r.handles() {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var id geodesy.Identifier
			if err := rows.Scan(&id.Authority, &id.Code); err != nil {
				rows.Close()
				return nil, err
			}
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Authority != ids[j].Authority {
			return ids[i].Authority < ids[j].Authority
		}
		return codeLess(ids[i].Code, ids[j].Code)
	})
	for _, id := range ids {
		crs, err := r.fetchCRS(ctx, id.Authority, id.Code)
		if err != nil {
			return nil, err
		}
		out = append(out, crs.(*geodesy.GeodeticCRS))
	}
	return out, nil
}

// NonDeprecated returns the registered replacements of a deprecated CRS.
// A CRS with no recorded supersession yields an empty result.
func (r *Registry) NonDeprecated(ctx context.Context, authority, code string) (out []geodesy.Object, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "non_deprecated", start, err) }()

	type replacement struct {
		id    geodesy.Identifier
		order int
	}
	seen := map[geodesy.Identifier]bool{}
	var repls []replacement
	for _, db := range r.handles() {
		rows, err := db.QueryContext(ctx,
			`SELECT new_auth, new_code, reg_order FROM supersession
			 WHERE table_name = 'crs' AND old_auth = ? AND old_code = ?`, authority, code)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var repl replacement
			if err := rows.Scan(&repl.id.Authority, &repl.id.Code, &repl.order); err != nil {
				rows.Close()
				return nil, err
			}
			if !seen[repl.id] {
				seen[repl.id] = true
				repls = append(repls, repl)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
	}
	sort.Slice(repls, func(i, j int) bool { return repls[i].order < repls[j].order })
	for _, repl := range repls {
		crs, err := r.fetchCRS(ctx, repl.id.Authority, repl.id.Code)
		if err != nil {
			return nil, err
		}
		out = append(out, crs)
	}
	return out, nil
}

// BoundToWGS84 wraps crs in a bound CRS whose hub is WGS 84, using the most
// accurate registered transformation between the two. Reverse-registered
// transformations are inverted. ErrNotFound reports a CRS with no usable
// identifier or no registered path.
func (r *Registry) BoundToWGS84(ctx context.Context, crs geodesy.CRS) (bound *geodesy.BoundCRS, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "bound_to_wgs84", start, err) }()

	wgs84 := geodesy.Identifier{Authority: "EPSG", Code: "4326"}
	ids := crs.Info().Identifiers()
	if len(ids) == 0 {
		return nil, ErrNotFound{Category: CategoryOperation, Code: geodesy.NameOf(crs)}
	}
	id := ids[0]
	forward, err := r.OperationsBetween(ctx, id, wgs84)
	if err != nil {
		return nil, err
	}
	reverse, err := r.OperationsBetween(ctx, wgs84, id)
	if err != nil {
		return nil, err
	}
	var candidates []geodesy.Transformation
	candidates = append(candidates, forward...)
	for _, op := range reverse {
		candidates = append(candidates, op.Inverse())
	}
	if len(candidates) == 0 {
		return nil, ErrNotFound{Category: CategoryOperation, Authority: id.Authority, Code: id.Code}
	}
	best := candidates[0]
	bestAcc, bestKnown := best.Accuracy()
	for _, op := range candidates[1:] {
		acc, known := op.Accuracy()
		if known && (!bestKnown || acc < bestAcc) {
			best, bestAcc, bestKnown = op, acc, true
		}
	}
	return geodesy.NewBoundCRS(crs, geodesy.WGS84Geographic2D(), best), nil
}

// OperationsBetween returns the non-deprecated registered operations from
// source to target, in registration order.
func (r *Registry) OperationsBetween(ctx context.Context, source, target geodesy.Identifier) (ops []geodesy.Transformation, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "operations_between", start, err) }()

	rowsByID := map[geodesy.Identifier]operationRow{}
	for _, db := range r.handles() {
		rows, err := db.QueryContext(ctx,
			`SELECT `+operationColumns+` FROM coordinate_operation
			 WHERE source_auth = ? AND source_code = ? AND target_auth = ? AND target_code = ?
			 AND deprecated = 0`,
			source.Authority, source.Code, target.Authority, target.Code)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			row, err := scanOperationRow(rows.Scan)
			if err != nil {
				rows.Close()
				return nil, err
			}
			rowsByID[geodesy.Identifier{Authority: row.authority, Code: row.code}] = row
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
	}
	ordered := make([]operationRow, 0, len(rowsByID))
	for _, row := range rowsByID {
		ordered = append(ordered, row)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].regOrder < ordered[j].regOrder })
	for _, row := range ordered {
		op, err := r.buildOperation(ctx, row)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// PivotCodes returns the CRS linked by registered operations to both
// endpoints, in either direction, excluding the endpoints themselves.
// A non-empty authority restricts the pivots to that authority.
func (r *Registry) PivotCodes(ctx context.Context, source, target geodesy.Identifier, authority string) (ids []geodesy.Identifier, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "pivot_codes", start, err) }()

	fromSource, err := r.linkedEndpoints(ctx, source)
	if err != nil {
		return nil, err
	}
	fromTarget, err := r.linkedEndpoints(ctx, target)
	if err != nil {
		return nil, err
	}
	for id := range fromSource {
		if !fromTarget[id] || id == source || id == target {
			continue
		}
		if authority != "" && id.Authority != authority {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Authority != ids[j].Authority {
			return ids[i].Authority < ids[j].Authority
		}
		return codeLess(ids[i].Code, ids[j].Code)
	})
	return ids, nil
}

func (r *Registry) linkedEndpoints(ctx context.Context, id geodesy.Identifier) (map[geodesy.Identifier]bool, error) {
	linked := map[geodesy.Identifier]bool{}
	for _, db := range r.handles() {
		rows, err := db.QueryContext(ctx,
			`SELECT source_auth, source_code, target_auth, target_code FROM coordinate_operation
			 WHERE deprecated = 0 AND ((source_auth = ? AND source_code = ?) OR (target_auth = ? AND target_code = ?))`,
			id.Authority, id.Code, id.Authority, id.Code)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var src, tgt geodesy.Identifier
			if err := rows.Scan(&src.Authority, &src.Code, &tgt.Authority, &tgt.Code); err != nil {
				rows.Close()
				return nil, err
			}
			if src == id {
				linked[tgt] = true
			} else {
				linked[src] = true
			}
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
	}
	return linked, nil
}

// codeLess orders codes numerically when both parse, lexically otherwise.
func codeLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

func sortCodes(codes []string) {
	sort.Slice(codes, func(i, j int) bool { return codeLess(codes[i], codes[j]) })
}
