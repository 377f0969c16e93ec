package gridstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FSStore serves grids from a directory. Names are relative paths under the
// root; traversal outside the root is rejected.
type FSStore struct {
	root string
}

// NewFS returns a filesystem-backed grid store rooted at path.
func NewFS(root string) (*FSStore, error) {
	if root == "" {
		return nil, fmt.Errorf("gridstore: root directory required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("gridstore: %s is not a directory", root)
	}
	return &FSStore{root: root}, nil
}

// sanitizeName forbids absolute paths and traversal out of the root.
func sanitizeName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("gridstore: empty grid name")
	}
	if strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("gridstore: absolute grid name %s", name)
	}
	clean := filepath.ToSlash(filepath.Clean(name))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("gridstore: grid name %s escapes the root", name)
	}
	return clean, nil
}

func (s *FSStore) pathFor(name string) (string, error) {
	clean, err := sanitizeName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Available reports whether the grid file exists under the root.
func (s *FSStore) Available(_ context.Context, name string) (bool, error) {
	path, err := s.pathFor(name)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// Fetch opens the grid file for reading.
func (s *FSStore) Fetch(_ context.Context, name string) (io.ReadCloser, error) {
	path, err := s.pathFor(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NotFoundError{Name: name}
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
