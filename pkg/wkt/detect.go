package wkt

import "strings"

// GuessDialect classifies text by surface syntax alone. It never builds an
// object and returns NotWKT for anything that does not start with a known
// keyword.
func GuessDialect(text string) Dialect {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	keyword := leadingKeyword(trimmed)
	switch keyword {
	case "GEOGCRS", "PROJCRS", "VERTCRS", "COMPOUNDCRS", "BOUNDCRS",
		"TIMECRS", "ENGCRS", "ENGINEERINGCRS":
		return WKT22018
	case "GEODCRS", "GEODETICCRS":
		return WKT22015
	case "GEOGCS", "PROJCS", "GEOCCS", "VERT_CS", "COMPD_CS", "LOCAL_CS":
		if looksESRI(trimmed) {
			return WKT1ESRI
		}
		return WKT1GDAL
	case "DATUM", "ELLIPSOID", "SPHEROID", "PRIMEM", "CONVERSION",
		"COORDINATEOPERATION":
		// Bare non-CRS objects use the current grammar.
		return WKT22018
	}
	return NotWKT
}

func leadingKeyword(text string) string {
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '[' || c == '(' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			return strings.ToUpper(text[:i])
		}
	}
	return ""
}

// looksESRI spots the vendor spellings: GCS_/D_ name prefixes and the
// capitalized "Degree" unit.
func looksESRI(text string) bool {
	if strings.Contains(text, "[\"GCS_") || strings.Contains(text, "DATUM[\"D_") {
		return true
	}
	return strings.Contains(text, "UNIT[\"Degree\"")
}
