package registry

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"crskit/pkg/geodesy"
)

func openTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := Open(Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = reg.Close() })
	return reg
}

func TestLookupGeographicCRS(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	obj, err := reg.Lookup(ctx, "EPSG", "4326", CategoryGeodeticCRS)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	crs, ok := obj.(*geodesy.GeodeticCRS)
	if !ok {
		t.Fatalf("lookup returned %T, want *geodesy.GeodeticCRS", obj)
	}
	if geodesy.NameOf(crs) != "WGS 84" {
		t.Fatalf("name = %q", geodesy.NameOf(crs))
	}
	if !geodesy.HasIdentifier(crs, geodesy.Identifier{Authority: "EPSG", Code: "4326"}) {
		t.Fatal("missing EPSG:4326 identifier")
	}
	if !geodesy.EqualEquivalent(crs, geodesy.WGS84Geographic2D()) {
		t.Fatal("EPSG:4326 should be equivalent to the built-in WGS 84")
	}
	if area := crs.Area(); area == nil || area.Description != "World" {
		t.Fatalf("area = %+v", area)
	}
}

func TestLookupProjectedCRS(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	obj, err := reg.Lookup(ctx, "EPSG", "32631", CategoryProjectedCRS)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	crs, ok := obj.(*geodesy.ProjectedCRS)
	if !ok {
		t.Fatalf("lookup returned %T, want *geodesy.ProjectedCRS", obj)
	}
	reference := geodesy.NewProjectedCRS(geodesy.NewObjectInfo("WGS 84 / UTM zone 31N"),
		geodesy.WGS84Geographic2D(), geodesy.NewConversionUTM(31, true),
		geodesy.CartesianCSEastNorth(geodesy.UnitMetre))
	if !geodesy.EqualEquivalent(crs, reference) {
		t.Fatal("EPSG:32631 should be equivalent to the built UTM reference")
	}
	if !geodesy.HasIdentifier(crs.Conversion().Method(), geodesy.Identifier{Authority: "EPSG", Code: "9807"}) {
		t.Fatalf("conversion method = %q", geodesy.NameOf(crs.Conversion().Method()))
	}
}

func TestLookupVerticalAndCompound(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	obj, err := reg.Lookup(ctx, "EPSG", "5703", CategoryVerticalCRS)
	if err != nil {
		t.Fatalf("vertical lookup: %v", err)
	}
	if _, ok := obj.(*geodesy.VerticalCRS); !ok {
		t.Fatalf("vertical lookup returned %T", obj)
	}

	obj, err = reg.Lookup(ctx, "EPSG", "5498", CategoryCompoundCRS)
	if err != nil {
		t.Fatalf("compound lookup: %v", err)
	}
	compound, ok := obj.(*geodesy.CompoundCRS)
	if !ok {
		t.Fatalf("compound lookup returned %T", obj)
	}
	if len(compound.Components()) != 2 {
		t.Fatalf("components = %d", len(compound.Components()))
	}
}

func TestLookupDeprecatedFlag(t *testing.T) {
	reg := openTestRegistry(t)

	obj, err := reg.Lookup(context.Background(), "EPSG", "4268", CategoryGeodeticCRS)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !obj.Info().Deprecated() {
		t.Fatal("EPSG:4268 should carry the deprecated flag")
	}
}

func TestLookupNotFound(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	_, err := reg.Lookup(ctx, "EPSG", "999999", CategoryGeodeticCRS)
	var notFound ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if notFound.Authority != "EPSG" || notFound.Code != "999999" {
		t.Fatalf("notFound = %+v", notFound)
	}

	if _, err := reg.Lookup(ctx, "EPSG", "4326", CategoryBoundCRS); !errors.As(err, &notFound) {
		t.Fatalf("bound category err = %v, want ErrNotFound", err)
	}
}

func TestListAuthorities(t *testing.T) {
	reg := openTestRegistry(t)

	names, err := reg.ListAuthorities(context.Background())
	if err != nil {
		t.Fatalf("list authorities: %v", err)
	}
	found := map[string]bool{}
	for _, name := range names {
		found[name] = true
	}
	for _, want := range []string{"EPSG", "ESRI", "PROJ"} {
		if !found[want] {
			t.Fatalf("authorities %v missing %s", names, want)
		}
	}
}

func TestListCodes(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	codes, err := reg.ListCodes(ctx, "EPSG", CategoryGeodeticCRS, false)
	if err != nil {
		t.Fatalf("list codes: %v", err)
	}
	want := []string{"4267", "4269", "4301", "4326", "4612", "4807", "4978", "4979", "6668"}
	if len(codes) != len(want) {
		t.Fatalf("codes = %v, want %v", codes, want)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("codes = %v, want %v", codes, want)
		}
	}

	withDeprecated, err := reg.ListCodes(ctx, "EPSG", CategoryGeodeticCRS, true)
	if err != nil {
		t.Fatalf("list codes with deprecated: %v", err)
	}
	if len(withDeprecated) != len(want)+1 {
		t.Fatalf("deprecated listing = %v", withDeprecated)
	}

	if _, err := reg.ListCodes(ctx, "EPSG", CategoryBoundCRS, false); !errors.Is(err, geodesy.ErrInvalidArgument) {
		t.Fatalf("bound category err = %v, want ErrInvalidArgument", err)
	}
	if _, err := reg.ListCodes(ctx, "EPSG", CategoryTemporalCRS, false); !errors.Is(err, geodesy.ErrInvalidArgument) {
		t.Fatalf("temporal category err = %v, want ErrInvalidArgument", err)
	}
}

func TestMetadata(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	value, err := reg.Metadata(ctx, "EPSG.VERSION")
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if value != "v10.094" {
		t.Fatalf("EPSG.VERSION = %q", value)
	}

	var notFound ErrNotFound
	if _, err := reg.Metadata(ctx, "NO.SUCH.KEY"); !errors.As(err, &notFound) {
		t.Fatalf("missing key err = %v, want ErrNotFound", err)
	}
}

type staticGridStore map[string]bool

func (s staticGridStore) Available(_ context.Context, name string) (bool, error) {
	return s[name], nil
}

func TestGridInfo(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	info, err := reg.GridInfo(ctx, "ntv1_can.dat")
	if err != nil {
		t.Fatalf("grid info: %v", err)
	}
	if info.PackageName != "proj-datumgrid" || !info.DirectDownload || !info.OpenLicense {
		t.Fatalf("info = %+v", info)
	}
	if info.Available {
		t.Fatal("grid should not be locally available by default")
	}

	var notFound ErrNotFound
	if _, err := reg.GridInfo(ctx, "no_such_grid.tif"); !errors.As(err, &notFound) {
		t.Fatalf("missing grid err = %v, want ErrNotFound", err)
	}
}

func TestGridInfoConsultsStore(t *testing.T) {
	reg, err := Open(Options{Grids: staticGridStore{"ntv1_can.dat": true}})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer reg.Close()

	info, err := reg.GridInfo(context.Background(), "ntv1_can.dat")
	if err != nil {
		t.Fatalf("grid info: %v", err)
	}
	if !info.Available {
		t.Fatal("configured store should mark the grid available")
	}
}

func TestSearchByNameExact(t *testing.T) {
	reg := openTestRegistry(t)

	objs, err := reg.SearchByName(context.Background(), SearchQuery{Name: "WGS 84"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(objs) < 4 {
		t.Fatalf("results = %d, want the three WGS 84 CRS plus the ellipsoid", len(objs))
	}
	if !geodesy.HasIdentifier(objs[0], geodesy.Identifier{Authority: "EPSG", Code: "4326"}) {
		t.Fatalf("first result = %q", geodesy.NameOf(objs[0]))
	}
}

func TestSearchByNameApproximate(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	objs, err := reg.SearchByName(ctx, SearchQuery{Name: "wgs", Approximate: true, Limit: 3})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(objs) != 3 {
		t.Fatalf("limited results = %d", len(objs))
	}

	objs, err = reg.SearchByName(ctx, SearchQuery{Name: "wgs"})
	if err != nil {
		t.Fatalf("non-approximate search: %v", err)
	}
	if len(objs) != 0 {
		t.Fatalf("non-approximate prefix search returned %d results", len(objs))
	}
}

func TestSearchByNameCategoryFilter(t *testing.T) {
	reg := openTestRegistry(t)

	objs, err := reg.SearchByName(context.Background(), SearchQuery{
		Name:       "WGS 84",
		Categories: []Category{CategoryEllipsoid},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("results = %d, want the ellipsoid only", len(objs))
	}
	if _, ok := objs[0].(geodesy.Ellipsoid); !ok {
		t.Fatalf("result = %T", objs[0])
	}
}

func TestGeodeticCRSFromDatum(t *testing.T) {
	reg := openTestRegistry(t)

	crss, err := reg.GeodeticCRSFromDatum(context.Background(), "", "EPSG", "6326")
	if err != nil {
		t.Fatalf("from datum: %v", err)
	}
	want := []string{"4326", "4978", "4979"}
	if len(crss) != len(want) {
		t.Fatalf("results = %d, want %d", len(crss), len(want))
	}
	for i, crs := range crss {
		if !geodesy.HasIdentifier(crs, geodesy.Identifier{Authority: "EPSG", Code: want[i]}) {
			t.Fatalf("result %d = %q, want EPSG:%s", i, geodesy.NameOf(crs), want[i])
		}
	}
}

func TestNonDeprecated(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	repls, err := reg.NonDeprecated(ctx, "EPSG", "4268")
	if err != nil {
		t.Fatalf("non deprecated: %v", err)
	}
	if len(repls) != 1 || !geodesy.HasIdentifier(repls[0], geodesy.Identifier{Authority: "EPSG", Code: "4267"}) {
		t.Fatalf("replacements = %v", repls)
	}

	repls, err = reg.NonDeprecated(ctx, "EPSG", "4326")
	if err != nil {
		t.Fatalf("non deprecated current: %v", err)
	}
	if len(repls) != 0 {
		t.Fatalf("current CRS should have no replacements, got %d", len(repls))
	}
}

func TestBoundToWGS84(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	obj, err := reg.Lookup(ctx, "EPSG", "4301", CategoryCRS)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	tokyo := obj.(geodesy.CRS)

	bound, err := reg.BoundToWGS84(ctx, tokyo)
	if err != nil {
		t.Fatalf("bound to WGS84: %v", err)
	}
	if !geodesy.EqualStrict(bound.BaseCRS(), tokyo) {
		t.Fatalf("base CRS = %s", geodesy.NameOf(bound.BaseCRS()))
	}
	if name := geodesy.NameOf(bound.HubCRS()); name != "WGS 84" {
		t.Fatalf("hub CRS = %q", name)
	}
	tr := bound.Transformation()
	if geodesy.NameOf(tr) != "Tokyo to WGS 84 (108)" {
		t.Fatalf("transformation = %q", geodesy.NameOf(tr))
	}
	if acc, ok := tr.Accuracy(); !ok || acc != 9 {
		t.Fatalf("accuracy = %v, %v", acc, ok)
	}

	obj, err = reg.Lookup(ctx, "EPSG", "6668", CategoryCRS)
	if err != nil {
		t.Fatalf("lookup JGD2011: %v", err)
	}
	var notFound ErrNotFound
	if _, err := reg.BoundToWGS84(ctx, obj.(geodesy.CRS)); !errors.As(err, &notFound) {
		t.Fatalf("JGD2011 has no direct path, got %v", err)
	}
}

func TestOperationsBetween(t *testing.T) {
	reg := openTestRegistry(t)

	ops, err := reg.OperationsBetween(context.Background(),
		geodesy.Identifier{Authority: "EPSG", Code: "4267"},
		geodesy.Identifier{Authority: "EPSG", Code: "4269"})
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	want := []string{"NAD27 to NAD83 (1)", "NAD27 to NAD83 (2)", "NAD27 to NAD83 (3)"}
	if len(ops) != len(want) {
		t.Fatalf("operations = %d, want %d", len(ops), len(want))
	}
	for i, op := range ops {
		if geodesy.NameOf(op) != want[i] {
			t.Fatalf("operation %d = %q, want %q", i, geodesy.NameOf(op), want[i])
		}
	}
	if grids := ops[0].GridsUsed(); len(grids) != 1 || grids[0] != "ntv1_can.dat" {
		t.Fatalf("grids = %v", grids)
	}
	if accuracy, ok := ops[0].Accuracy(); !ok || accuracy != 0.1 {
		t.Fatalf("accuracy = %v %v", accuracy, ok)
	}
	if src := ops[0].SourceCRS(); !geodesy.HasIdentifier(src, geodesy.Identifier{Authority: "EPSG", Code: "4267"}) {
		t.Fatalf("source = %q", geodesy.NameOf(src))
	}
}

func TestPivotCodes(t *testing.T) {
	reg := openTestRegistry(t)

	pivots, err := reg.PivotCodes(context.Background(),
		geodesy.Identifier{Authority: "EPSG", Code: "4326"},
		geodesy.Identifier{Authority: "EPSG", Code: "6668"}, "")
	if err != nil {
		t.Fatalf("pivots: %v", err)
	}
	want := []geodesy.Identifier{
		{Authority: "EPSG", Code: "4301"},
		{Authority: "EPSG", Code: "4612"},
	}
	if len(pivots) != len(want) {
		t.Fatalf("pivots = %v, want %v", pivots, want)
	}
	for i := range want {
		if pivots[i] != want[i] {
			t.Fatalf("pivots = %v, want %v", pivots, want)
		}
	}
}

func TestAliasResolution(t *testing.T) {
	reg := openTestRegistry(t)

	alias, ok := reg.AliasFor("geodetic_datum", "North American Datum 1983", "ESRI")
	if !ok || alias != "D_North_American_1983" {
		t.Fatalf("ESRI alias = %q, %v", alias, ok)
	}
	if _, ok := reg.AliasFor("geodetic_datum", "No Such Datum", "ESRI"); ok {
		t.Fatal("unknown name should have no alias")
	}

	canonical, ok := reg.CanonicalName("geodetic_datum", "North_American_Datum_1983")
	if !ok || canonical != "North American Datum 1983" {
		t.Fatalf("canonical = %q, %v", canonical, ok)
	}

	method, ok := reg.ProjAlias("webmerc")
	if !ok || !geodesy.HasIdentifier(method, geodesy.Identifier{Authority: "EPSG", Code: "1024"}) {
		t.Fatalf("webmerc method = %q, %v", geodesy.NameOf(method), ok)
	}
}

func TestSetDatabasePathInvalidKeepsServing(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	if err := reg.SetDatabasePath(filepath.Join(t.TempDir(), "missing", "dataset.db")); err == nil {
		t.Fatal("reconfiguration with an unusable path must fail")
	}

	if _, err := reg.Lookup(ctx, "EPSG", "4326", CategoryGeodeticCRS); err != nil {
		t.Fatalf("lookup after failed reconfiguration: %v", err)
	}
}

func TestSetDatabasePathMissingFileLeavesNoFile(t *testing.T) {
	reg := openTestRegistry(t)
	ctx := context.Background()

	// The directory exists, the file does not. The rejection must not
	// leave an empty database file behind.
	path := filepath.Join(t.TempDir(), "dataset.db")
	if err := reg.SetDatabasePath(path); err == nil {
		t.Fatal("reconfiguration with a missing file must fail")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("rejected path left a file behind: stat err = %v", err)
	}

	if _, err := reg.Lookup(ctx, "EPSG", "4326", CategoryGeodeticCRS); err != nil {
		t.Fatalf("lookup after failed reconfiguration: %v", err)
	}
}

func TestAuxiliaryOverlayShadowsBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open overlay: %v", err)
	}
	stmts := []string{
		`CREATE TABLE metadata (key TEXT PRIMARY KEY, value TEXT NOT NULL)`,
		`INSERT INTO metadata (key, value) VALUES ('DATABASE.LAYOUT.VERSION.MAJOR', '1')`,
		`INSERT INTO metadata (key, value) VALUES ('EPSG.VERSION', 'v11.000')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed overlay: %v", err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close overlay: %v", err)
	}

	reg, err := Open(Options{AuxiliaryPaths: []string{path}})
	if err != nil {
		t.Fatalf("open with overlay: %v", err)
	}
	defer reg.Close()

	value, err := reg.Metadata(context.Background(), "EPSG.VERSION")
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if value != "v11.000" {
		t.Fatalf("EPSG.VERSION = %q, want the overlay value", value)
	}
}

func TestOpenBadAuxiliaryFails(t *testing.T) {
	_, err := Open(Options{AuxiliaryPaths: []string{filepath.Join(t.TempDir(), "missing", "aux.db")}})
	if err == nil {
		t.Fatal("open with an unusable overlay must fail")
	}
}
