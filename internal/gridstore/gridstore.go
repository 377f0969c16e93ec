// Package gridstore locates transformation grid files. Backends answer
// availability checks for the registry and the derivation grid policies, and
// stream grid content for callers that apply the shifts.
package gridstore

import (
	"context"
	"fmt"
	"io"
)

// Store is a read-only view over a collection of grid files.
type Store interface {
	// Available reports whether the named grid can be served locally.
	Available(ctx context.Context, name string) (bool, error)
	// Fetch opens the named grid for reading.
	Fetch(ctx context.Context, name string) (io.ReadCloser, error)
}

// NotFoundError reports a grid absent from the store.
type NotFoundError struct {
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("gridstore: grid %s not found", e.Name)
}
