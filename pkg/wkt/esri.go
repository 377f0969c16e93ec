package wkt

import "strings"

// Alias table names shared with the registry dataset.
const (
	TableGeodeticCRS   = "geodetic_crs"
	TableGeodeticDatum = "geodetic_datum"
	TableEllipsoid     = "ellipsoid"
	TableUnitOfMeasure = "unit_of_measure"
)

// Alias flavors.
const (
	FlavorESRI = "ESRI"
	FlavorGDAL = "GDAL"
)

// builtinAliases is the fallback mapping used when no resolver is supplied.
// The registry carries the same rows in its alias table.
type builtinAliases struct{}

var esriAliases = map[string]map[string]string{
	TableGeodeticCRS: {
		"WGS 84":  "GCS_WGS_1984",
		"AGD66":   "GCS_Australian_1966",
		"NAD27":   "GCS_North_American_1927",
		"NAD83":   "GCS_North_American_1983",
		"JGD2000": "GCS_JGD_2000",
		"JGD2011": "GCS_JGD_2011",
		"Tokyo":   "GCS_Tokyo",
	},
	TableGeodeticDatum: {
		"World Geodetic System 1984":     "D_WGS_1984",
		"Australian Geodetic Datum 1966": "D_Australian_1966",
		"North American Datum 1927":      "D_North_American_1927",
		"North American Datum 1983":      "D_North_American_1983",
		"Japanese Geodetic Datum 2000":   "D_JGD_2000",
		"Japanese Geodetic Datum 2011":   "D_JGD_2011",
		"Tokyo":                          "D_Tokyo",
	},
	TableEllipsoid: {
		"WGS 84":                       "WGS_1984",
		"Australian National Spheroid": "Australian",
		"Clarke 1866":                  "Clarke_1866",
		"GRS 1980":                     "GRS_1980",
		"Bessel 1841":                  "Bessel_1841",
	},
	TableUnitOfMeasure: {
		"degree": "Degree",
		"metre":  "Meter",
		"foot":   "Foot",
	},
}

var gdalDatumAliases = map[string]string{
	"World Geodetic System 1984":     "WGS_1984",
	"Australian Geodetic Datum 1966": "Australian_Geodetic_Datum_1966",
	"North American Datum 1927":      "North_American_Datum_1927",
	"North American Datum 1983":      "North_American_Datum_1983",
	"Japanese Geodetic Datum 2000":   "Japanese_Geodetic_Datum_2000",
	"Japanese Geodetic Datum 2011":   "Japanese_Geodetic_Datum_2011",
	"Tokyo":                          "Tokyo",
}

func (builtinAliases) AliasFor(table, name, flavor string) (string, bool) {
	switch flavor {
	case FlavorESRI:
		alias, ok := esriAliases[table][name]
		return alias, ok
	case FlavorGDAL:
		if table != TableGeodeticDatum {
			return "", false
		}
		alias, ok := gdalDatumAliases[name]
		return alias, ok
	}
	return "", false
}

// canonicalName undoes vendor spellings on parse so hand-built legacy text
// resolves to registry names. Unknown spellings fall back to underscore
// stripping only for the D_/GCS_ prefixes, keeping the rest verbatim.
func canonicalName(table, name string) string {
	var prefix string
	switch table {
	case TableGeodeticCRS:
		prefix = "GCS_"
	case TableGeodeticDatum:
		prefix = "D_"
	}
	for canonical, alias := range esriAliases[table] {
		if alias == name {
			return canonical
		}
	}
	if table == TableGeodeticDatum {
		for canonical, alias := range gdalDatumAliases {
			if alias == name {
				return canonical
			}
		}
	}
	if prefix != "" && strings.HasPrefix(name, prefix) {
		return strings.TrimPrefix(name, prefix)
	}
	return name
}

func aliasOrName(resolver AliasResolver, table, name, flavor string) string {
	if resolver == nil {
		resolver = builtinAliases{}
	}
	if alias, ok := resolver.AliasFor(table, name, flavor); ok {
		return alias
	}
	if flavor == FlavorGDAL && table == TableGeodeticDatum {
		// GDAL datum names never carry spaces.
		return strings.Map(func(r rune) rune {
			switch r {
			case ' ', '(', ')', ',':
				return '_'
			}
			return r
		}, name)
	}
	return name
}
