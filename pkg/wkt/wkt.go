// Package wkt implements a Well-Known Text codec for the geodesy object
// model. Five output dialects are supported and parsing auto-detects the
// dialect of the input.
package wkt

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects the grammar variant used by Format and reported by
// GuessDialect.
type Dialect string

const (
	// NotWKT is the GuessDialect result for text that is not WKT at all.
	NotWKT Dialect = ""
	// WKT22018 is the ISO 19162:2018 grammar.
	WKT22018 Dialect = "WKT2:2018"
	// WKT22018Simplified is the 2018 grammar with defaulted unit and id
	// subnodes omitted.
	WKT22018Simplified Dialect = "WKT2:2018_SIMPLIFIED"
	// WKT22015 is the ISO 19162:2015 grammar.
	WKT22015 Dialect = "WKT2:2015"
	// WKT22015Simplified is the 2015 grammar with defaulted unit and id
	// subnodes omitted.
	WKT22015Simplified Dialect = "WKT2:2015_SIMPLIFIED"
	// WKT1GDAL is the legacy OGC 01-009 grammar as written by GDAL.
	WKT1GDAL Dialect = "WKT1:GDAL"
	// WKT1ESRI is the legacy grammar with ESRI name and number spellings.
	WKT1ESRI Dialect = "WKT1:ESRI"
)

// AxisOutput controls AXIS node emission in the legacy dialects.
type AxisOutput string

const (
	// AxisAuto suppresses AXIS nodes for the conventional axis orders.
	AxisAuto AxisOutput = "AUTO"
	// AxisYes always emits AXIS nodes.
	AxisYes AxisOutput = "YES"
	// AxisNo never emits AXIS nodes.
	AxisNo AxisOutput = "NO"
)

// AliasResolver maps canonical object names to dialect-specific spellings.
// The registry implements it over its alias table; a built-in table is used
// when nil.
type AliasResolver interface {
	// AliasFor returns the aliased spelling of name in the given table
	// ("geodetic_crs", "geodetic_datum", "ellipsoid", "unit_of_measure")
	// for a flavor ("ESRI", "GDAL"). ok is false when no mapping exists.
	AliasFor(table, name, flavor string) (alias string, ok bool)
}

// Options configures Format.
type Options struct {
	// Multiline selects indented output. Defaults on, except for the ESRI
	// dialect which is conventionally written on one line.
	Multiline bool
	// IndentWidth is the number of spaces per nesting level.
	IndentWidth int
	// OutputAxis controls AXIS emission in WKT1 dialects.
	OutputAxis AxisOutput
	// Aliases overrides the built-in name alias table.
	Aliases AliasResolver
}

// DefaultOptions returns the conventional options for a dialect.
func DefaultOptions(dialect Dialect) Options {
	return Options{
		Multiline:   dialect != WKT1ESRI,
		IndentWidth: 4,
		OutputAxis:  AxisAuto,
	}
}

// ParseOptions folds KEY=VALUE strings into DefaultOptions(dialect).
// Recognized keys are MULTILINE, INDENTATION_WIDTH and OUTPUT_AXIS; an
// unknown key fails closed.
func ParseOptions(dialect Dialect, pairs []string) (Options, error) {
	opts := DefaultOptions(dialect)
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return Options{}, fmt.Errorf("wkt: malformed option %q, want KEY=VALUE", pair)
		}
		switch key {
		case "MULTILINE":
			switch value {
			case "YES":
				opts.Multiline = true
			case "NO":
				opts.Multiline = false
			default:
				return Options{}, fmt.Errorf("wkt: option MULTILINE value %q, want YES or NO", value)
			}
		case "INDENTATION_WIDTH":
			width, err := strconv.Atoi(value)
			if err != nil || width < 0 {
				return Options{}, fmt.Errorf("wkt: option INDENTATION_WIDTH value %q, want a non-negative integer", value)
			}
			opts.IndentWidth = width
		case "OUTPUT_AXIS":
			switch AxisOutput(value) {
			case AxisAuto, AxisYes, AxisNo:
				opts.OutputAxis = AxisOutput(value)
			default:
				return Options{}, fmt.Errorf("wkt: option OUTPUT_AXIS value %q, want YES, NO or AUTO", value)
			}
		default:
			return Options{}, fmt.Errorf("wkt: unrecognized option %q", key)
		}
	}
	return opts, nil
}

// ParseError reports malformed WKT input with a byte offset.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("wkt: parse error at offset %d: %s", e.Pos, e.Msg)
}

// UnrepresentableError reports an object the target dialect cannot express.
type UnrepresentableError struct {
	Dialect Dialect
	What    string
}

func (e *UnrepresentableError) Error() string {
	return fmt.Sprintf("wkt: %s cannot be represented in dialect %s", e.What, e.Dialect)
}
