// Package geodesy defines the immutable object model for coordinate
// reference systems, datums, ellipsoids and coordinate operations.
//
// All objects are immutable after construction. Operations that look like
// edits (rename, unit change, datum substitution) live in mutators.go and
// return new objects sharing unchanged sub-objects.
package geodesy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument wraps argument errors such as out-of-range indexes or
// category mismatches so callers can test with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// deprecatedSuffix is normalized away at construction time.
const deprecatedSuffix = " (deprecated)"

// Identifier is an (authority, code) pair, e.g. ("EPSG", "4326").
type Identifier struct {
	Authority string
	Code      string
}

// String renders the conventional AUTHORITY:CODE form.
func (id Identifier) String() string { return id.Authority + ":" + id.Code }

// ObjectInfo carries the identification fields shared by every object in the
// model: name, ordered identifiers, aliases, remarks and the deprecation flag.
type ObjectInfo struct {
	name        string
	identifiers []Identifier
	aliases     []string
	remarks     string
	deprecated  bool
}

// NewObjectInfo builds identification info. A name ending in " (deprecated)"
// is stored with the suffix stripped and the deprecated flag set.
func NewObjectInfo(name string, ids ...Identifier) ObjectInfo {
	info := ObjectInfo{identifiers: dedupIdentifiers(ids)}
	if strings.HasSuffix(name, deprecatedSuffix) {
		info.name = strings.TrimSuffix(name, deprecatedSuffix)
		info.deprecated = true
	} else {
		info.name = name
	}
	return info
}

func dedupIdentifiers(ids []Identifier) []Identifier {
	if len(ids) == 0 {
		return nil
	}
	out := make([]Identifier, 0, len(ids))
	seen := make(map[Identifier]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// WithAliases returns a copy carrying the supplied alias names.
func (i ObjectInfo) WithAliases(aliases ...string) ObjectInfo {
	i.aliases = append([]string(nil), aliases...)
	return i
}

// WithRemarks returns a copy carrying free-text remarks.
func (i ObjectInfo) WithRemarks(remarks string) ObjectInfo {
	i.remarks = remarks
	return i
}

// WithDeprecated returns a copy with the deprecation flag forced.
func (i ObjectInfo) WithDeprecated(deprecated bool) ObjectInfo {
	i.deprecated = deprecated
	return i
}

// Name returns the stored (suffix-normalized) object name.
func (i ObjectInfo) Name() string { return i.name }

// Deprecated reports whether the object is deprecated.
func (i ObjectInfo) Deprecated() bool { return i.deprecated }

// Remarks returns free-text remarks, possibly empty.
func (i ObjectInfo) Remarks() string { return i.remarks }

// Aliases returns the alias names in declaration order.
func (i ObjectInfo) Aliases() []string { return append([]string(nil), i.aliases...) }

// Identifiers returns the (authority, code) pairs in declaration order.
func (i ObjectInfo) Identifiers() []Identifier {
	return append([]Identifier(nil), i.identifiers...)
}

// IdentifierAt returns the identifier at index, failing for out-of-range
// indexes rather than panicking.
func (i ObjectInfo) IdentifierAt(index int) (Identifier, error) {
	if index < 0 || index >= len(i.identifiers) {
		return Identifier{}, fmt.Errorf("%w: identifier index %d out of range [0,%d)", ErrInvalidArgument, index, len(i.identifiers))
	}
	return i.identifiers[index], nil
}

// Object is the capability shared by every identified object in the model.
type Object interface {
	Info() ObjectInfo
}

// NameOf is shorthand for obj.Info().Name() tolerating nil.
func NameOf(obj Object) string {
	if obj == nil {
		return ""
	}
	return obj.Info().Name()
}

// HasIdentifier reports whether obj carries the given (authority, code) pair,
// comparing authorities case-insensitively.
func HasIdentifier(obj Object, id Identifier) bool {
	if obj == nil {
		return false
	}
	for _, candidate := range obj.Info().identifiers {
		if strings.EqualFold(candidate.Authority, id.Authority) && candidate.Code == id.Code {
			return true
		}
	}
	return false
}
