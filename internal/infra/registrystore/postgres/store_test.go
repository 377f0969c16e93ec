package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"testing"

	"crskit/pkg/registry"
)

func TestOpenVerifiesSchema(t *testing.T) {
	conn := newStubConn()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) {
		return sql.OpenDB(stubConnector{conn: conn}), nil
	})
	defer restore()

	store, err := Open(context.Background(), "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	for _, table := range datasetTables {
		probe := "SELECT COUNT(*) FROM " + table
		var seen bool
		for _, q := range conn.queries {
			if q == probe {
				seen = true
				break
			}
		}
		if !seen {
			t.Errorf("schema verification never probed %s", table)
		}
	}
}

func TestOpenRejectsMissingSchema(t *testing.T) {
	conn := newStubConn()
	conn.fail["DATABASE.LAYOUT"] = errors.New(`relation "metadata" does not exist`)
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) {
		return sql.OpenDB(stubConnector{conn: conn}), nil
	})
	defer restore()

	if _, err := Open(context.Background(), "ignored"); err == nil {
		t.Fatalf("expected schema verification failure")
	}
}

func TestMetadata(t *testing.T) {
	conn := newStubConn()
	conn.metadata["EPSG.VERSION"] = "v10.094"
	store := openStub(t, conn)

	got, err := store.Metadata(context.Background(), "EPSG.VERSION")
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if got != "v10.094" {
		t.Fatalf("Metadata = %q, want v10.094", got)
	}

	_, err = store.Metadata(context.Background(), "NO.SUCH.KEY")
	var notFound registry.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected registry.ErrNotFound, got %v", err)
	}
	if notFound.Code != "NO.SUCH.KEY" {
		t.Fatalf("ErrNotFound.Code = %q", notFound.Code)
	}
}

func TestListAuthorities(t *testing.T) {
	conn := newStubConn()
	conn.results["FROM authority"] = [][]driver.Value{{"EPSG"}, {"ESRI"}, {"PROJ"}}
	store := openStub(t, conn)

	got, err := store.ListAuthorities(context.Background())
	if err != nil {
		t.Fatalf("ListAuthorities: %v", err)
	}
	want := []string{"EPSG", "ESRI", "PROJ"}
	if len(got) != len(want) {
		t.Fatalf("ListAuthorities = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ListAuthorities = %v, want %v", got, want)
		}
	}
}

func TestListCodes(t *testing.T) {
	conn := newStubConn()
	conn.results["SELECT code FROM crs"] = [][]driver.Value{{"4267"}, {"4326"}}
	store := openStub(t, conn)

	got, err := store.ListCodes(context.Background(), "crs", "EPSG")
	if err != nil {
		t.Fatalf("ListCodes: %v", err)
	}
	if len(got) != 2 || got[0] != "4267" || got[1] != "4326" {
		t.Fatalf("ListCodes = %v", got)
	}

	if _, err := store.ListCodes(context.Background(), "bound_crs", "EPSG"); err == nil {
		t.Fatalf("expected error for unknown table")
	}
}

func openStub(t *testing.T, conn *stubConn) *Store {
	t.Helper()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) {
		return sql.OpenDB(stubConnector{conn: conn}), nil
	})
	defer restore()
	store, err := Open(context.Background(), "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// stubConnector hands out a single canned connection so tests observe every
// statement the store issues.
type stubConnector struct {
	conn *stubConn
}

func (c stubConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }
func (c stubConnector) Driver() driver.Driver                        { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("stub driver opens through the connector")
}

type stubConn struct {
	metadata map[string]string
	results  map[string][][]driver.Value
	fail     map[string]error
	queries  []string
}

func newStubConn() *stubConn {
	return &stubConn{
		metadata: map[string]string{},
		results:  map[string][][]driver.Value{},
		fail:     map[string]error{},
	}
}

func (c *stubConn) Prepare(query string) (driver.Stmt, error) {
	return &stubStmt{conn: c, query: query}, nil
}
func (c *stubConn) Close() error              { return nil }
func (c *stubConn) Begin() (driver.Tx, error) { return nil, errors.New("read-only stub") }
func (c *stubConn) Ping(context.Context) error {
	if err, ok := c.fail["ping"]; ok {
		return err
	}
	return nil
}

type stubStmt struct {
	conn  *stubConn
	query string
}

func (s *stubStmt) Close() error  { return nil }
func (s *stubStmt) NumInput() int { return -1 }
func (s *stubStmt) Exec([]driver.Value) (driver.Result, error) {
	return nil, errors.New("read-only stub")
}

func (s *stubStmt) Query(args []driver.Value) (driver.Rows, error) {
	c := s.conn
	c.queries = append(c.queries, s.query)
	for needle, err := range c.fail {
		if strings.Contains(s.query, needle) {
			return nil, err
		}
	}
	switch {
	case strings.Contains(s.query, "DATABASE.LAYOUT"):
		return rowsOf([][]driver.Value{{"1"}}), nil
	case strings.Contains(s.query, "key = $1"):
		key, _ := args[0].(string)
		if value, ok := c.metadata[key]; ok {
			return rowsOf([][]driver.Value{{value}}), nil
		}
		return rowsOf(nil), nil
	case strings.Contains(s.query, "SELECT COUNT"):
		return rowsOf([][]driver.Value{{int64(0)}}), nil
	}
	for needle, rows := range c.results {
		if strings.Contains(s.query, needle) {
			return rowsOf(rows), nil
		}
	}
	return rowsOf(nil), nil
}

func rowsOf(rows [][]driver.Value) driver.Rows {
	width := 1
	if len(rows) > 0 {
		width = len(rows[0])
	}
	cols := make([]string, width)
	for i := range cols {
		cols[i] = "c"
	}
	return &stubRows{cols: cols, rows: rows}
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	next int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }
func (r *stubRows) Next(dest []driver.Value) error {
	if r.next >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.next])
	r.next++
	return nil
}
