package metar

import "regexp"

// Commonly used regular expressions
var (
	timeRegex      = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})Z$`)
	timeShapeRegex = regexp.MustCompile(`^\d{4,8}Z$`)
	windRegex      = regexp.MustCompile(`^(VRB|\d{3})(\d{2,3})(?:G(\d{2,3}))?KT$`)
	// Wind-shaped groups, including a missing or unsupported unit (e.g. "28008", "28008MPS")
	windShapeRegex = regexp.MustCompile(`^(VRB|\d{3})(\d{2,3})(?:G(\d{2,3}))?(KT|MPS|KMH)?$`)
	windVarRegex   = regexp.MustCompile(`^(\d{3})V(\d{3})$`)
	visRegex       = regexp.MustCompile(`^([MP])?(?:(\d+)/(\d+)|(\d+))SM$`)
	visWholeRegex  = regexp.MustCompile(`^\d+$`)
	visFracRegex   = regexp.MustCompile(`^(\d+)/(\d+)SM$`)
	cloudRegex     = regexp.MustCompile(`^(SKC|CLR|NSC|NCD|FEW|SCT|BKN|OVC|VV)(\d{3})?(CB|TCU)?$`)
	tempRegex      = regexp.MustCompile(`^(M?)(\d{2})/(?:(M?)(\d{2}))?$`)
	altimeterRegex = regexp.MustCompile(`^A(\d{4})$`)
	wxShapeRegex   = regexp.MustCompile(`^(-|\+|VC)[A-Z]{2,}$`)
	stationRegex   = regexp.MustCompile(`^[A-Za-z0-9]{4}$`)
	modifierRegex  = regexp.MustCompile(`^(AUTO|COR|CCA|NOSIG|CAVOK|RTD)$`)
	weatherRegex   = regexp.MustCompile(`^(-|\+|VC)?(MI|BC|PR|DR|BL|SH|TS|FZ)?((?:DZ|RA|SN|SG|IC|PL|GR|GS|UP|BR|FG|FU|VA|DU|SA|HZ|PY|PO|SQ|FC|SS|DS){0,3})$`)
)

// Report type tokens that may precede the station identifier
var reportTypes = map[string]bool{
	"METAR": true,
	"SPECI": true,
}

// Tokens that end the decodable body of a report
const remarksMarker = "RMK"

var trendMarkers = map[string]bool{
	"TEMPO": true,
	"BECMG": true,
}

// compassPoint is one sector of the 16-point rose, inclusive on both ends.
type compassPoint struct {
	From, To int
	Label    string
}

// North wraps through 360 and is handled by the lookup.
var compassRose = []compassPoint{
	{349, 360, "North"},
	{0, 11, "North"},
	{12, 33, "North-northeast"},
	{34, 56, "Northeast"},
	{57, 78, "East-northeast"},
	{79, 101, "East"},
	{102, 123, "East-southeast"},
	{124, 146, "Southeast"},
	{147, 168, "South-southeast"},
	{169, 191, "South"},
	{192, 213, "South-southwest"},
	{214, 236, "Southwest"},
	{237, 258, "West-southwest"},
	{259, 279, "West"},
	{280, 303, "West-northwest"},
	{304, 326, "Northwest"},
	{327, 348, "North-northwest"},
}

// Intensity prefixes
var intensityCodes = map[string]Intensity{
	"":   IntensityModerate,
	"-":  IntensityLight,
	"+":  IntensityHeavy,
	"VC": IntensityVicinity,
}

// Weather descriptors; the adjective is placed in front of the phenomenon name.
var descriptorCodes = map[string]string{
	"MI": "shallow",
	"BC": "patches of",
	"PR": "partial",
	"DR": "low drifting",
	"BL": "blowing",
	"SH": "showers",
	"TS": "thunderstorm",
	"FZ": "freezing",
}

// Phenomenon codes grouped the way the decoded output reports them
var phenomenonCodes = map[string]phenomenonCode{
	// precipitation
	"DZ": {"drizzle", CategoryPrecipitation},
	"RA": {"rain", CategoryPrecipitation},
	"SN": {"snow", CategoryPrecipitation},
	"SG": {"snow grains", CategoryPrecipitation},
	"IC": {"ice crystals", CategoryPrecipitation},
	"PL": {"ice pellets", CategoryPrecipitation},
	"GR": {"hail", CategoryPrecipitation},
	"GS": {"small hail", CategoryPrecipitation},
	"UP": {"unknown precipitation", CategoryPrecipitation},
	// obscuration
	"BR": {"mist", CategoryObscuration},
	"FG": {"fog", CategoryObscuration},
	"FU": {"smoke", CategoryObscuration},
	"VA": {"volcanic ash", CategoryObscuration},
	"DU": {"widespread dust", CategoryObscuration},
	"SA": {"sand", CategoryObscuration},
	"HZ": {"haze", CategoryObscuration},
	"PY": {"spray", CategoryObscuration},
	// other
	"PO": {"dust whirls", CategoryOther},
	"SQ": {"squalls", CategoryOther},
	"FC": {"funnel cloud", CategoryOther},
	"SS": {"sandstorm", CategoryOther},
	"DS": {"duststorm", CategoryOther},
	// descriptors that stand on their own
	"TS": {"thunderstorm", CategoryOther},
	"SH": {"showers", CategoryPrecipitation},
}

type phenomenonCode struct {
	Name     string
	Category Category
}

// Cloud coverage codes
var cloudCoverage = map[string]string{
	"SKC": "Sky clear",
	"CLR": "Clear skies",
	"NSC": "No significant clouds",
	"NCD": "No clouds detected",
	"FEW": "Few clouds",
	"SCT": "Scattered clouds",
	"BKN": "Broken clouds",
	"OVC": "Overcast",
	"VV":  "Vertical visibility",
}

// Coverage codes that never carry a layer height
var clearSkyCodes = map[string]bool{
	"SKC": true,
	"CLR": true,
	"NSC": true,
	"NCD": true,
}

// Common cloud type mapping
var cloudTypes = map[string]string{
	"CB":  "cumulonimbus",
	"TCU": "towering cumulus",
}

// Report modifiers and special aerodrome conditions
var modifierCodes = map[string]string{
	"AUTO":  "automated observation",
	"COR":   "corrected report",
	"CCA":   "corrected report",
	"NOSIG": "no significant changes expected",
	"CAVOK": "ceiling and visibility OK",
	"RTD":   "routine delayed (late) observation",
}
