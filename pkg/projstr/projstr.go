// Package projstr converts between the geodesy object model and the compact
// +key=value pipeline string notation.
//
// Two styles are supported. Proj4 is the flat legacy form, a single
// parameter list ending in +no_defs. Proj5 is the explicit pipeline form in
// which unit conversion and axis order are spelled out as steps of their own.
package projstr

import (
	"fmt"
	"strings"

	"crskit/pkg/geodesy"
)

// Style selects the output notation.
type Style string

// Supported styles.
const (
	Proj4 Style = "PROJ_4"
	Proj5 Style = "PROJ_5"
)

// ETMercMode controls the algorithm tag used for the Transverse Mercator
// family. It changes the numerical algorithm name only, never the
// parameters.
type ETMercMode int

// Transverse Mercator algorithm tags.
const (
	// ETMercDefault keeps the conventional spelling: +proj=utm where the
	// parameters match a UTM zone, +proj=tmerc otherwise.
	ETMercDefault ETMercMode = iota
	// ETMercAlways forces the exact elliptical +proj=etmerc tag.
	ETMercAlways
	// ETMercNever forces +proj=tmerc, expanding UTM shorthand.
	ETMercNever
)

// Options adjusts formatting.
type Options struct {
	ETMerc ETMercMode
}

// DefaultOptions returns the conventional settings.
func DefaultOptions() Options { return Options{} }

// ParseOptions interprets KEY=VALUE option pairs. Unknown keys fail.
func ParseOptions(pairs []string) (Options, error) {
	opts := DefaultOptions()
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return Options{}, fmt.Errorf("projstr: option %q is not KEY=VALUE", pair)
		}
		switch strings.ToUpper(key) {
		case "USE_ETMERC":
			switch strings.ToUpper(value) {
			case "YES", "TRUE", "ON":
				opts.ETMerc = ETMercAlways
			case "NO", "FALSE", "OFF":
				opts.ETMerc = ETMercNever
			default:
				return Options{}, fmt.Errorf("projstr: USE_ETMERC value %q is not YES or NO", value)
			}
		default:
			return Options{}, fmt.Errorf("projstr: unknown option %q", key)
		}
	}
	return opts, nil
}

// UnrepresentableError reports an object that has no representation in the
// requested style, e.g. a bound CRS in the pipeline form.
type UnrepresentableError struct {
	Style Style
	What  string
}

func (e *UnrepresentableError) Error() string {
	return fmt.Sprintf("projstr: no %s representation for %s", e.Style, e.What)
}

// ParseError reports malformed input text.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("projstr: %s (token %d)", e.Msg, e.Pos)
}

// AliasResolver maps free-form projection keywords to operation methods.
// A registry handle satisfies this; without one the built-in table is used.
type AliasResolver interface {
	ProjAlias(name string) (geodesy.OperationMethod, bool)
}
