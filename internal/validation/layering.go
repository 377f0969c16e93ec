// Package validation enforces repository layering rules: the object model
// and the codecs stay free of infrastructure imports, and infrastructure
// backends stay behind their owning package.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Rule constrains the direct imports of every package under a path prefix.
type Rule struct {
	// Package is the import path prefix whose imports are constrained.
	Package string
	// Forbid lists import path prefixes the package must not reach.
	Forbid []string
}

// Violations loads the packages matching pattern and reports every direct
// import that breaks a rule, one "package: import" line per hit, sorted.
func Violations(pattern string, rules []Rule) ([]string, error) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	seen := map[string]struct{}{}
	for _, pkg := range pkgs {
		for _, rule := range rules {
			if !underPrefix(pkg.PkgPath, rule.Package) {
				continue
			}
			for importPath := range pkg.Imports {
				for _, forbidden := range rule.Forbid {
					if underPrefix(importPath, forbidden) {
						seen[pkg.PkgPath+": "+importPath] = struct{}{}
					}
				}
			}
		}
	}
	violations := make([]string, 0, len(seen))
	for v := range seen {
		violations = append(violations, v)
	}
	sort.Strings(violations)
	return violations, nil
}

// ImportersOutside reports every package outside the allowed prefix that
// directly imports the guarded prefix.
func ImportersOutside(pattern, guarded, allowed string) ([]string, error) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	seen := map[string]struct{}{}
	for _, pkg := range pkgs {
		if underPrefix(pkg.PkgPath, allowed) || underPrefix(pkg.PkgPath, guarded) {
			continue
		}
		for importPath := range pkg.Imports {
			if underPrefix(importPath, guarded) {
				seen[pkg.PkgPath+": "+importPath] = struct{}{}
			}
		}
	}
	violations := make([]string, 0, len(seen))
	for v := range seen {
		violations = append(violations, v)
	}
	sort.Strings(violations)
	return violations, nil
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
