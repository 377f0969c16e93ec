package registry

import (
	"context"
	"database/sql"

	"crskit/pkg/geodesy"
)

// AliasFor returns the vendor spelling of a canonical name, satisfying the
// wkt.AliasResolver interface. Overlays are consulted first.
func (r *Registry) AliasFor(table, name, flavor string) (string, bool) {
	ctx := context.Background()
	for _, db := range reversed(r.handles()) {
		var alias string
		err := db.QueryRowContext(ctx,
			`SELECT alt_name FROM alias_name WHERE table_name = ? AND canonical = ? AND source = ?`,
			table, name, flavor).Scan(&alias)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return "", false
		}
		return alias, true
	}
	return "", false
}

// CanonicalName resolves a vendor spelling back to the canonical name, for
// any flavor. Hand-built legacy text resolves through it on parse.
func (r *Registry) CanonicalName(table, alias string) (string, bool) {
	ctx := context.Background()
	for _, db := range reversed(r.handles()) {
		var canonical string
		err := db.QueryRowContext(ctx,
			`SELECT canonical FROM alias_name WHERE table_name = ? AND alt_name = ?`,
			table, alias).Scan(&canonical)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return "", false
		}
		return canonical, true
	}
	return "", false
}

// ProjAlias resolves a projection keyword to a registered operation method,
// satisfying the projstr.AliasResolver interface.
func (r *Registry) ProjAlias(keyword string) (geodesy.OperationMethod, bool) {
	ctx := context.Background()
	for _, db := range reversed(r.handles()) {
		var code, name string
		err := db.QueryRowContext(ctx,
			`SELECT method_code, method_name FROM proj_method_alias WHERE keyword = ?`,
			keyword).Scan(&code, &name)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return geodesy.OperationMethod{}, false
		}
		return geodesy.NewOperationMethod(geodesy.NewObjectInfo(name,
			geodesy.Identifier{Authority: "EPSG", Code: code})), true
	}
	return geodesy.OperationMethod{}, false
}
