package projstr

import "crskit/pkg/geodesy"

// The tables below mirror the conventional short tokens of the notation.
// Matching in the formatting direction is by name first, then by numeric
// parameters, so hand-built objects resolve to the same tokens as
// registry-backed ones.

type ellipsoidEntry struct {
	token string
	name  string
	a     float64
	rf    float64
}

var ellipsoidTable = []ellipsoidEntry{
	{"WGS84", "WGS 84", 6378137, 298.257223563},
	{"GRS80", "GRS 1980", 6378137, 298.257222101},
	{"GRS67", "GRS 1967", 6378160, 298.247167427},
	{"clrk66", "Clarke 1866", 6378206.4, 294.978698213898},
	{"clrk80ign", "Clarke 1880 (IGN)", 6378249.2, 293.466021293627},
	{"krass", "Krassowsky 1940", 6378245, 298.3},
	{"bessel", "Bessel 1841", 6377397.155, 299.1528128},
	{"aust_SA", "Australian National Spheroid", 6378160, 298.25},
	{"intl", "International 1924", 6378388, 297},
}

type datumEntry struct {
	token     string
	datumName string
	code      string
	ellps     string
}

var datumTable = []datumEntry{
	{"WGS84", "World Geodetic System 1984", "6326", "WGS84"},
	{"NAD83", "North American Datum 1983", "6269", "GRS80"},
	{"NAD27", "North American Datum 1927", "6267", "clrk66"},
}

type meridianEntry struct {
	token   string
	name    string
	degrees float64
}

var meridianTable = []meridianEntry{
	{"paris", "Paris", 2.337229166666667},
	{"lisbon", "Lisbon", -9.131906111111112},
	{"madrid", "Madrid", -3.687938888888889},
	{"rome", "Rome", 12.45233333333333},
	{"bern", "Bern", 7.439583333333333},
	{"jakarta", "Jakarta", 106.8077194444444},
	{"ferro", "Ferro", -17.66666666666667},
	{"brussels", "Brussels", 4.367975},
	{"stockholm", "Stockholm", 18.05827777777778},
	{"athens", "Athens", 23.7163375},
	{"oslo", "Oslo", 10.72291666666667},
}

// methodTokens maps EPSG method codes to projection keywords. The Transverse
// Mercator family is handled separately because of the etmerc/utm spellings.
var methodTokens = map[string]string{
	"9804": "merc",
	"9805": "merc",
	"9802": "lcc",
	"9809": "sterea",
	"9810": "stere",
	"9815": "omerc",
	"9819": "krovak",
	"9820": "laea",
	"9822": "aea",
	"9835": "cea",
	"1028": "eqc",
}

var methodNameTokens = map[string]string{
	"Mercator (variant A)":                "merc",
	"Mercator (variant B)":                "merc",
	"Lambert Conic Conformal (2SP)":       "lcc",
	"Oblique Stereographic":               "sterea",
	"Polar Stereographic (variant A)":     "stere",
	"Hotine Oblique Mercator (variant B)": "omerc",
	"Krovak":                              "krovak",
	"Lambert Azimuthal Equal Area":        "laea",
	"Albers Equal Area":                   "aea",
	"Lambert Cylindrical Equal Area":      "cea",
	"Equidistant Cylindrical":             "eqc",
}

// projMethods is the reverse table used while parsing free-form keywords.
// tmerc, etmerc, merc and utm are special-cased by the parser.
var projMethods = map[string]struct {
	code string
	name string
}{
	"lcc":    {"9802", "Lambert Conic Conformal (2SP)"},
	"sterea": {"9809", "Oblique Stereographic"},
	"stere":  {"9810", "Polar Stereographic (variant A)"},
	"omerc":  {"9815", "Hotine Oblique Mercator (variant B)"},
	"krovak": {"9819", "Krovak"},
	"laea":   {"9820", "Lambert Azimuthal Equal Area"},
	"aea":    {"9822", "Albers Equal Area"},
	"cea":    {"9835", "Lambert Cylindrical Equal Area"},
	"eqc":    {"1028", "Equidistant Cylindrical"},
}

// paramKeys maps EPSG parameter codes to parameter keywords when formatting.
var paramKeys = map[string]string{
	"8801": "lat_0",
	"8802": "lon_0",
	"8805": "k",
	"8806": "x_0",
	"8807": "y_0",
	"8821": "lat_0",
	"8822": "lon_0",
	"8823": "lat_1",
	"8824": "lat_2",
	"8826": "x_0",
	"8827": "y_0",
}

var paramNameKeys = map[string]string{
	"Latitude of natural origin":        "lat_0",
	"Longitude of natural origin":       "lon_0",
	"Scale factor at natural origin":    "k",
	"False easting":                     "x_0",
	"False northing":                    "y_0",
	"Latitude of 1st standard parallel": "lat_1",
	"Latitude of 2nd standard parallel": "lat_2",
}

// singleParallelProjs spell the first standard parallel as lat_ts.
var singleParallelProjs = map[string]bool{
	"merc": true,
	"cea":  true,
	"eqc":  true,
}

// projParamSpecs maps parameter keywords to EPSG codes when parsing.
var projParamSpecs = map[string]struct {
	code string
	name string
	unit geodesy.UnitOfMeasure
}{
	"lat_0":  {"8801", "Latitude of natural origin", geodesy.UnitDegree},
	"lon_0":  {"8802", "Longitude of natural origin", geodesy.UnitDegree},
	"k":      {"8805", "Scale factor at natural origin", geodesy.UnitUnity},
	"k_0":    {"8805", "Scale factor at natural origin", geodesy.UnitUnity},
	"x_0":    {"8806", "False easting", geodesy.UnitMetre},
	"y_0":    {"8807", "False northing", geodesy.UnitMetre},
	"lat_ts": {"8823", "Latitude of 1st standard parallel", geodesy.UnitDegree},
	"lat_1":  {"8823", "Latitude of 1st standard parallel", geodesy.UnitDegree},
	"lat_2":  {"8824", "Latitude of 2nd standard parallel", geodesy.UnitDegree},
}

// shiftParamSpecs lists the Helmert parameters in +towgs84 order.
var shiftParamSpecs = [7]struct {
	key  string
	name string
	code string
	unit geodesy.UnitOfMeasure
}{
	{"x", "X-axis translation", "8605", geodesy.UnitMetre},
	{"y", "Y-axis translation", "8606", geodesy.UnitMetre},
	{"z", "Z-axis translation", "8607", geodesy.UnitMetre},
	{"rx", "X-axis rotation", "8608", geodesy.UnitArcSec},
	{"ry", "Y-axis rotation", "8609", geodesy.UnitArcSec},
	{"rz", "Z-axis rotation", "8610", geodesy.UnitArcSec},
	{"s", "Scale difference", "8611", geodesy.UnitPPM},
}

// skipKeys are stage keywords that never translate to operation parameters.
var skipKeys = map[string]bool{
	"datum": true, "ellps": true, "a": true, "b": true, "rf": true, "f": true,
	"R": true, "pm": true, "towgs84": true, "nadgrids": true, "geoidgrids": true,
	"units": true, "to_meter": true, "vunits": true, "vto_meter": true,
	"no_defs": true, "wktext": true, "type": true, "south": true, "zone": true,
	"grids": true, "inv": true, "axis": true, "approx": true, "convention": true,
}

func linearUnitFromToken(token string) (geodesy.UnitOfMeasure, bool) {
	switch token {
	case "m", "meter", "metre":
		return geodesy.UnitMetre, true
	case "ft":
		return geodesy.UnitFoot, true
	case "us-ft":
		return geodesy.UnitUSFoot, true
	case "km":
		return geodesy.UnitOfMeasure{Name: "kilometre", Kind: geodesy.UnitLinear, Factor: 1000}, true
	}
	return geodesy.UnitOfMeasure{}, false
}

func angularUnitFromToken(token string) (geodesy.UnitOfMeasure, bool) {
	switch token {
	case "rad":
		return geodesy.UnitRadian, true
	case "deg", "degree":
		return geodesy.UnitDegree, true
	case "grad":
		return geodesy.UnitGrad, true
	case "sec":
		return geodesy.UnitArcSec, true
	}
	return geodesy.UnitOfMeasure{}, false
}
