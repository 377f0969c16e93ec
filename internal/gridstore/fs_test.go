package gridstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFSStoreAvailableAndFetch(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "ca_nrc"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := []byte("grid-bytes")
	if err := os.WriteFile(filepath.Join(root, "ca_nrc", "ntv1_can.dat"), content, 0o644); err != nil {
		t.Fatalf("write grid: %v", err)
	}

	store, err := NewFS(root)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	ctx := context.Background()

	ok, err := store.Available(ctx, "ca_nrc/ntv1_can.dat")
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if !ok {
		t.Fatalf("expected grid to be available")
	}

	ok, err = store.Available(ctx, "us_noaa/conus.las")
	if err != nil {
		t.Fatalf("Available missing: %v", err)
	}
	if ok {
		t.Fatalf("missing grid reported available")
	}

	// Directories are not grids.
	ok, err = store.Available(ctx, "ca_nrc")
	if err != nil {
		t.Fatalf("Available dir: %v", err)
	}
	if ok {
		t.Fatalf("directory reported available")
	}

	rc, err := store.Fetch(ctx, "ca_nrc/ntv1_can.dat")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("fetched %q, want %q", got, content)
	}
}

func TestFSStoreFetchMissing(t *testing.T) {
	store, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	_, err = store.Fetch(context.Background(), "absent.tif")
	var notFound NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Name != "absent.tif" {
		t.Fatalf("NotFoundError.Name = %q", notFound.Name)
	}
}

func TestFSStoreRejectsUnsafeNames(t *testing.T) {
	store, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	ctx := context.Background()
	for _, name := range []string{"", "  ", "/etc/passwd", "../outside.dat", "a/../../outside.dat"} {
		if _, err := store.Available(ctx, name); err == nil {
			t.Errorf("Available(%q): expected error", name)
		}
		if _, err := store.Fetch(ctx, name); err == nil {
			t.Errorf("Fetch(%q): expected error", name)
		}
	}
}

func TestNewFSValidatesRoot(t *testing.T) {
	if _, err := NewFS(""); err == nil {
		t.Fatalf("expected error for empty root")
	}
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing root")
	}
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewFS(file); err == nil {
		t.Fatalf("expected error for non-directory root")
	}
}
