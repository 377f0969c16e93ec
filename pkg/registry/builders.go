package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"crskit/pkg/geodesy"
)

// Layers are consulted last-first so that later overlays shadow earlier
// ones and the base dataset.
func reversed(dbs []*sql.DB) []*sql.DB {
	out := make([]*sql.DB, len(dbs))
	for i, db := range dbs {
		out[len(dbs)-1-i] = db
	}
	return out
}

func infoFor(name string, deprecated bool, authority, code string) geodesy.ObjectInfo {
	info := geodesy.NewObjectInfo(name, geodesy.Identifier{Authority: authority, Code: code})
	if deprecated {
		info = info.WithDeprecated(true)
	}
	return info
}

func (r *Registry) unitByName(ctx context.Context, name string) (geodesy.UnitOfMeasure, error) {
	for _, db := range reversed(r.handles()) {
		var kind string
		var factor float64
		err := db.QueryRowContext(ctx,
			`SELECT kind, factor FROM unit_of_measure WHERE name = ?`, name).Scan(&kind, &factor)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return geodesy.UnitOfMeasure{}, err
		}
		return geodesy.UnitOfMeasure{Name: name, Kind: geodesy.UnitKind(kind), Factor: factor}, nil
	}
	return geodesy.UnitOfMeasure{}, fmt.Errorf("registry: unknown unit %q", name)
}

// csFromDescriptor decodes the stored shape/unit coordinate-system form.
func (r *Registry) csFromDescriptor(ctx context.Context, desc string) (geodesy.CoordinateSystem, error) {
	shape, unitName, ok := strings.Cut(desc, "/")
	if !ok {
		return geodesy.CoordinateSystem{}, fmt.Errorf("registry: malformed coordinate system %q", desc)
	}
	unit, err := r.unitByName(ctx, unitName)
	if err != nil {
		return geodesy.CoordinateSystem{}, err
	}
	switch shape {
	case "ellipsoidal_2D_lat_lon":
		return geodesy.EllipsoidalCS2DLatLon(unit), nil
	case "ellipsoidal_2D_lon_lat":
		return geodesy.EllipsoidalCS2DLonLat(unit), nil
	case "ellipsoidal_3D":
		return geodesy.EllipsoidalCS3D(unit), nil
	case "cartesian_east_north":
		return geodesy.CartesianCSEastNorth(unit), nil
	case "cartesian_geocentric":
		return geodesy.CartesianCSGeocentric(unit), nil
	case "vertical_up":
		return geodesy.VerticalCSUp(unit), nil
	}
	return geodesy.CoordinateSystem{}, fmt.Errorf("registry: unknown coordinate system shape %q", shape)
}

type paramRecord struct {
	Name  string   `json:"name"`
	Code  string   `json:"code"`
	Value *float64 `json:"value,omitempty"`
	Unit  string   `json:"unit,omitempty"`
	Text  string   `json:"text,omitempty"`
}

func (r *Registry) decodeParams(ctx context.Context, raw string) ([]geodesy.Parameter, error) {
	if raw == "" {
		return nil, nil
	}
	var records []paramRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("registry: malformed parameter list: %w", err)
	}
	params := make([]geodesy.Parameter, 0, len(records))
	for _, rec := range records {
		id := geodesy.Identifier{Authority: "EPSG", Code: rec.Code}
		if rec.Value == nil {
			params = append(params, geodesy.NewStringParameter(rec.Name, id, rec.Text))
			continue
		}
		unit, err := r.unitByName(ctx, rec.Unit)
		if err != nil {
			return nil, err
		}
		params = append(params, geodesy.NewParameter(rec.Name, id, *rec.Value, unit))
	}
	return params, nil
}

func (r *Registry) fetchEllipsoid(ctx context.Context, authority, code string) (geodesy.Ellipsoid, error) {
	for _, db := range reversed(r.handles()) {
		var name string
		var semiMajor, invFlattening, semiMinor float64
		var deprecated bool
		err := db.QueryRowContext(ctx,
			`SELECT name, semi_major, inv_flattening, semi_minor, deprecated
			 FROM ellipsoid WHERE authority = ? AND code = ?`, authority, code).
			Scan(&name, &semiMajor, &invFlattening, &semiMinor, &deprecated)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return geodesy.Ellipsoid{}, err
		}
		info := infoFor(name, deprecated, authority, code)
		if invFlattening != 0 {
			return geodesy.NewEllipsoid(info, semiMajor, invFlattening, geodesy.UnitMetre), nil
		}
		return geodesy.NewEllipsoidFromSemiMinor(info, semiMajor, semiMinor, geodesy.UnitMetre), nil
	}
	return geodesy.Ellipsoid{}, ErrNotFound{Category: CategoryEllipsoid, Authority: authority, Code: code}
}

func (r *Registry) fetchPrimeMeridian(ctx context.Context, authority, code string) (geodesy.PrimeMeridian, error) {
	for _, db := range reversed(r.handles()) {
		var name, unitName string
		var longitude float64
		var deprecated bool
		err := db.QueryRowContext(ctx,
			`SELECT name, longitude, unit_name, deprecated
			 FROM prime_meridian WHERE authority = ? AND code = ?`, authority, code).
			Scan(&name, &longitude, &unitName, &deprecated)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return geodesy.PrimeMeridian{}, err
		}
		unit, err := r.unitByName(ctx, unitName)
		if err != nil {
			return geodesy.PrimeMeridian{}, err
		}
		return geodesy.NewPrimeMeridian(infoFor(name, deprecated, authority, code), longitude, unit), nil
	}
	return geodesy.PrimeMeridian{}, ErrNotFound{Category: CategoryPrimeMeridian, Authority: authority, Code: code}
}

func (r *Registry) fetchGeodeticDatum(ctx context.Context, authority, code string) (geodesy.GeodeticReferenceFrame, error) {
	for _, db := range reversed(r.handles()) {
		var name, ellipsoidAuth, ellipsoidCode, pmAuth, pmCode string
		var deprecated bool
		err := db.QueryRowContext(ctx,
			`SELECT name, ellipsoid_auth, ellipsoid_code, pm_auth, pm_code, deprecated
			 FROM geodetic_datum WHERE authority = ? AND code = ?`, authority, code).
			Scan(&name, &ellipsoidAuth, &ellipsoidCode, &pmAuth, &pmCode, &deprecated)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return geodesy.GeodeticReferenceFrame{}, err
		}
		ellipsoid, err := r.fetchEllipsoid(ctx, ellipsoidAuth, ellipsoidCode)
		if err != nil {
			return geodesy.GeodeticReferenceFrame{}, err
		}
		pm, err := r.fetchPrimeMeridian(ctx, pmAuth, pmCode)
		if err != nil {
			return geodesy.GeodeticReferenceFrame{}, err
		}
		return geodesy.NewGeodeticReferenceFrame(infoFor(name, deprecated, authority, code), ellipsoid, pm), nil
	}
	return geodesy.GeodeticReferenceFrame{}, ErrNotFound{Category: CategoryDatum, Authority: authority, Code: code}
}

func (r *Registry) fetchVerticalDatum(ctx context.Context, authority, code string) (geodesy.VerticalReferenceFrame, error) {
	for _, db := range reversed(r.handles()) {
		var name string
		var deprecated bool
		err := db.QueryRowContext(ctx,
			`SELECT name, deprecated FROM vertical_datum WHERE authority = ? AND code = ?`, authority, code).
			Scan(&name, &deprecated)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return geodesy.VerticalReferenceFrame{}, err
		}
		return geodesy.NewVerticalReferenceFrame(infoFor(name, deprecated, authority, code)), nil
	}
	return geodesy.VerticalReferenceFrame{}, ErrNotFound{Category: CategoryVerticalDatum, Authority: authority, Code: code}
}

func (r *Registry) fetchExtent(ctx context.Context, authority, code sql.NullString) (*geodesy.AreaOfUse, error) {
	if !authority.Valid || !code.Valid {
		return nil, nil
	}
	for _, db := range reversed(r.handles()) {
		var name string
		var south, north, west, east float64
		err := db.QueryRowContext(ctx,
			`SELECT name, south, north, west, east FROM extent WHERE authority = ? AND code = ?`,
			authority.String, code.String).Scan(&name, &south, &north, &west, &east)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &geodesy.AreaOfUse{
			West: west, South: south, East: east, North: north, Description: name,
		}, nil
	}
	return nil, nil
}

type crsRow struct {
	authority, code, name, kind    string
	datumAuth, datumCode, cs       sql.NullString
	baseAuth, baseCode, convName   sql.NullString
	methodCode, methodName, params sql.NullString
	horizAuth, horizCode           sql.NullString
	vertAuth, vertCode             sql.NullString
	extentAuth, extentCode         sql.NullString
	deprecated                     bool
}

const crsColumns = `authority, code, name, kind, datum_auth, datum_code, cs,
	base_auth, base_code, conv_name, method_code, method_name, params,
	horiz_auth, horiz_code, vert_auth, vert_code, extent_auth, extent_code, deprecated`

func scanCRSRow(scan func(dest ...any) error) (crsRow, error) {
	var row crsRow
	err := scan(&row.authority, &row.code, &row.name, &row.kind,
		&row.datumAuth, &row.datumCode, &row.cs,
		&row.baseAuth, &row.baseCode, &row.convName,
		&row.methodCode, &row.methodName, &row.params,
		&row.horizAuth, &row.horizCode, &row.vertAuth, &row.vertCode,
		&row.extentAuth, &row.extentCode, &row.deprecated)
	return row, err
}

func (r *Registry) buildCRS(ctx context.Context, row crsRow) (geodesy.CRS, error) {
	info := infoFor(row.name, row.deprecated, row.authority, row.code)
	area, err := r.fetchExtent(ctx, row.extentAuth, row.extentCode)
	if err != nil {
		return nil, err
	}
	switch row.kind {
	case "geographic2D", "geographic3D", "geocentric":
		datum, err := r.fetchGeodeticDatum(ctx, row.datumAuth.String, row.datumCode.String)
		if err != nil {
			return nil, err
		}
		cs, err := r.csFromDescriptor(ctx, row.cs.String)
		if err != nil {
			return nil, err
		}
		crs := geodesy.NewGeodeticCRS(info, datum, cs)
		if area != nil {
			crs = crs.WithArea(*area)
		}
		return crs, nil
	case "projected":
		base, err := r.fetchCRS(ctx, row.baseAuth.String, row.baseCode.String)
		if err != nil {
			return nil, err
		}
		geodeticBase, ok := base.(*geodesy.GeodeticCRS)
		if !ok {
			return nil, fmt.Errorf("registry: projected %s:%s has non-geodetic base", row.authority, row.code)
		}
		params, err := r.decodeParams(ctx, row.params.String)
		if err != nil {
			return nil, err
		}
		method := geodesy.NewOperationMethod(geodesy.NewObjectInfo(row.methodName.String,
			geodesy.Identifier{Authority: "EPSG", Code: row.methodCode.String}))
		conv := geodesy.NewConversion(geodesy.NewObjectInfo(row.convName.String), method, params)
		cs, err := r.csFromDescriptor(ctx, row.cs.String)
		if err != nil {
			return nil, err
		}
		crs := geodesy.NewProjectedCRS(info, geodeticBase, conv, cs)
		if area != nil {
			crs = crs.WithArea(*area)
		}
		return crs, nil
	case "vertical":
		datum, err := r.fetchVerticalDatum(ctx, row.datumAuth.String, row.datumCode.String)
		if err != nil {
			return nil, err
		}
		cs, err := r.csFromDescriptor(ctx, row.cs.String)
		if err != nil {
			return nil, err
		}
		crs := geodesy.NewVerticalCRS(info, datum, cs)
		if area != nil {
			crs = crs.WithArea(*area)
		}
		return crs, nil
	case "compound":
		horiz, err := r.fetchCRS(ctx, row.horizAuth.String, row.horizCode.String)
		if err != nil {
			return nil, err
		}
		vert, err := r.fetchCRS(ctx, row.vertAuth.String, row.vertCode.String)
		if err != nil {
			return nil, err
		}
		crs := geodesy.NewCompoundCRS(info, horiz, vert)
		if area != nil {
			crs = crs.WithArea(*area)
		}
		return crs, nil
	}
	return nil, fmt.Errorf("registry: unknown CRS kind %q for %s:%s", row.kind, row.authority, row.code)
}

func (r *Registry) fetchCRS(ctx context.Context, authority, code string, kinds ...string) (geodesy.CRS, error) {
	query := `SELECT ` + crsColumns + ` FROM crs WHERE authority = ? AND code = ?`
	args := []any{authority, code}
	if len(kinds) > 0 {
		query += ` AND kind IN (?` + strings.Repeat(", ?", len(kinds)-1) + `)`
		for _, k := range kinds {
			args = append(args, k)
		}
	}
	for _, db := range reversed(r.handles()) {
		row, err := scanCRSRow(db.QueryRowContext(ctx, query, args...).Scan)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, err
		}
		return r.buildCRS(ctx, row)
	}
	return nil, ErrNotFound{Category: CategoryCRS, Authority: authority, Code: code}
}

type operationRow struct {
	authority, code, name  string
	sourceAuth, sourceCode string
	targetAuth, targetCode string
	methodCode, methodName string
	accuracy               sql.NullFloat64
	params, grids          sql.NullString
	extentAuth, extentCode sql.NullString
	deprecated             bool
	regOrder               int
}

const operationColumns = `authority, code, name, source_auth, source_code,
	target_auth, target_code, method_code, method_name, accuracy, params,
	grids, extent_auth, extent_code, deprecated, reg_order`

func scanOperationRow(scan func(dest ...any) error) (operationRow, error) {
	var row operationRow
	err := scan(&row.authority, &row.code, &row.name,
		&row.sourceAuth, &row.sourceCode, &row.targetAuth, &row.targetCode,
		&row.methodCode, &row.methodName, &row.accuracy, &row.params,
		&row.grids, &row.extentAuth, &row.extentCode, &row.deprecated, &row.regOrder)
	return row, err
}

func (r *Registry) buildOperation(ctx context.Context, row operationRow) (geodesy.Transformation, error) {
	source, err := r.fetchCRS(ctx, row.sourceAuth, row.sourceCode)
	if err != nil {
		return geodesy.Transformation{}, err
	}
	target, err := r.fetchCRS(ctx, row.targetAuth, row.targetCode)
	if err != nil {
		return geodesy.Transformation{}, err
	}
	params, err := r.decodeParams(ctx, row.params.String)
	if err != nil {
		return geodesy.Transformation{}, err
	}
	method := geodesy.NewOperationMethod(geodesy.NewObjectInfo(row.methodName,
		geodesy.Identifier{Authority: "EPSG", Code: row.methodCode}))
	tr := geodesy.NewTransformation(infoFor(row.name, row.deprecated, row.authority, row.code),
		source, target, method, params)
	if row.accuracy.Valid {
		tr = tr.WithAccuracy(row.accuracy.Float64)
	}
	if row.grids.Valid && row.grids.String != "" {
		tr = tr.WithGrids(strings.Split(row.grids.String, ",")...)
	}
	area, err := r.fetchExtent(ctx, row.extentAuth, row.extentCode)
	if err != nil {
		return geodesy.Transformation{}, err
	}
	if area != nil {
		tr = tr.WithArea(*area)
	}
	return tr, nil
}

func (r *Registry) fetchOperation(ctx context.Context, authority, code string) (geodesy.Transformation, error) {
	for _, db := range reversed(r.handles()) {
		row, err := scanOperationRow(db.QueryRowContext(ctx,
			`SELECT `+operationColumns+` FROM coordinate_operation WHERE authority = ? AND code = ?`,
			authority, code).Scan)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return geodesy.Transformation{}, err
		}
		return r.buildOperation(ctx, row)
	}
	return geodesy.Transformation{}, ErrNotFound{Category: CategoryOperation, Authority: authority, Code: code}
}
