package validation

import "testing"

// TestModelAndCodecsStayInfraFree ensures the object model and both codecs
// depend on nothing but the standard library and each other: no drivers, no
// SDKs, no registry plumbing.
func TestModelAndCodecsStayInfraFree(t *testing.T) {
	rules := []Rule{
		{
			Package: "crskit/pkg/geodesy",
			Forbid: []string{
				"database/sql",
				"github.com",
				"modernc.org",
				"golang.org/x",
				"crskit/pkg/registry",
				"crskit/internal",
			},
		},
		{
			Package: "crskit/pkg/wkt",
			Forbid: []string{
				"database/sql",
				"github.com",
				"modernc.org",
				"crskit/internal",
			},
		},
		{
			Package: "crskit/pkg/projstr",
			Forbid: []string{
				"database/sql",
				"github.com",
				"modernc.org",
				"crskit/internal",
			},
		},
		{
			Package: "crskit/pkg/derive",
			Forbid: []string{
				"database/sql",
				"github.com",
				"modernc.org",
			},
		},
	}
	violations, err := Violations("crskit/...", rules)
	if err != nil {
		t.Fatalf("Violations: %v", err)
	}
	for _, v := range violations {
		t.Errorf("forbidden import: %s", v)
	}
	if len(violations) > 0 {
		t.Fatalf("found %d forbidden imports", len(violations))
	}
}

// TestOnlyGridstoreImportsAWS ensures the S3 SDK stays behind the gridstore
// backends; everything else consumes the gridstore.Store interface.
func TestOnlyGridstoreImportsAWS(t *testing.T) {
	violations, err := ImportersOutside("crskit/...",
		"github.com/aws/aws-sdk-go-v2", "crskit/internal/gridstore")
	if err != nil {
		t.Fatalf("ImportersOutside: %v", err)
	}
	for _, v := range violations {
		t.Errorf("forbidden aws-sdk import: %s", v)
	}
	if len(violations) > 0 {
		t.Fatalf("found %d forbidden aws-sdk imports", len(violations))
	}
}

// TestOnlyPostgresMirrorImportsPgx keeps the pgx driver confined to the
// Postgres mirror store.
func TestOnlyPostgresMirrorImportsPgx(t *testing.T) {
	violations, err := ImportersOutside("crskit/...",
		"github.com/jackc/pgx", "crskit/internal/infra/registrystore/postgres")
	if err != nil {
		t.Fatalf("ImportersOutside: %v", err)
	}
	for _, v := range violations {
		t.Errorf("forbidden pgx import: %s", v)
	}
	if len(violations) > 0 {
		t.Fatalf("found %d forbidden pgx imports", len(violations))
	}
}
