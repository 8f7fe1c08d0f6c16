package metar

// Report is a decoded METAR. Optional groups that were not present in the
// raw text are nil (or empty slices), never zero-valued stand-ins.
type Report struct {
	Raw           string           `json:"raw"`
	ReportType    string           `json:"report_type,omitempty"`
	Station       string           `json:"station"`
	Time          *ObservationTime `json:"time"`
	Modifiers     []Modifier       `json:"modifiers,omitempty"`
	Wind          *Wind            `json:"wind"`
	Visibility    *Visibility      `json:"visibility"`
	Weather       []Phenomenon     `json:"weather_phenomena"`
	Sky           []SkyLayer       `json:"sky_conditions"`
	Temperature   *Temperature     `json:"temperature"`
	DewPoint      *Temperature     `json:"dewpoint"`
	Altimeter     *Altimeter       `json:"pressure"`
	Trend         string           `json:"trend,omitempty"`
	Remarks       string           `json:"remarks,omitempty"`
	RemarkDetails []Remark         `json:"remark_details,omitempty"`
	Unhandled     []string         `json:"unhandled,omitempty"`
	Warnings      []FieldWarning   `json:"warnings,omitempty"`
}

// ObservationTime is the DDHHMMZ group. It is always UTC.
type ObservationTime struct {
	Day         int    `json:"day"`
	Hour        int    `json:"hour"`
	Minute      int    `json:"minute"`
	UTC         bool   `json:"utc"`
	Description string `json:"description"`
}

// Wind represents the surface wind group
type Wind struct {
	Direction    *int   `json:"direction"` // degrees true; nil when variable or calm
	Variable     bool   `json:"variable"`
	Calm         bool   `json:"calm"`
	Speed        int    `json:"speed"`
	Gust         *int   `json:"gust"`
	Unit         string `json:"unit"`
	Compass      string `json:"compass,omitempty"`
	Description  string `json:"description"`
	VariableFrom *int   `json:"variable_from,omitempty"` // dddVddd group
	VariableTo   *int   `json:"variable_to,omitempty"`
}

// Visibility in statute miles, kept as an exact whole + fraction
type Visibility struct {
	Whole       int     `json:"whole"`
	Numerator   int     `json:"numerator,omitempty"`
	Denominator int     `json:"denominator,omitempty"` // 0 when there is no fractional part
	Miles       float64 `json:"value"`
	LessThan    bool    `json:"less_than,omitempty"`
	GreaterThan bool    `json:"greater_than,omitempty"`
	Description string  `json:"description"`
}

// Intensity of a weather phenomenon
type Intensity string

const (
	IntensityLight    Intensity = "light"
	IntensityModerate Intensity = "moderate"
	IntensityHeavy    Intensity = "heavy"
	IntensityVicinity Intensity = "vicinity"
)

// Category groups phenomenon codes
type Category string

const (
	CategoryPrecipitation Category = "precipitation"
	CategoryObscuration   Category = "obscuration"
	CategoryOther         Category = "other"
)

// Phenomenon is one present-weather entry. A chained group such as +TSRA
// yields one Phenomenon per code, all sharing intensity and descriptor.
type Phenomenon struct {
	Intensity   Intensity `json:"intensity"`
	Descriptor  string    `json:"descriptor,omitempty"`
	Code        string    `json:"code"`
	Category    Category  `json:"category"`
	Raw         string    `json:"raw"`
	Description string    `json:"description"`
}

// SkyLayer represents one cloud layer, in source order
type SkyLayer struct {
	Coverage    string `json:"condition"`
	Description string `json:"description"`
	Height      *int   `json:"height"` // feet above ground; nil for clear-sky codes
	CloudType   string `json:"cloud_type,omitempty"`
}

// Temperature holds one half of the TT/DD group
type Temperature struct {
	Celsius    int `json:"celsius"`
	Fahrenheit int `json:"fahrenheit"`
}

// Altimeter setting
type Altimeter struct {
	InHg        float64 `json:"inches_hg"`
	Description string  `json:"description"`
}

// Modifier is a report-level code such as AUTO or NOSIG
type Modifier struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Remark represents a decoded remark from the RMK section
type Remark struct {
	Raw         string `json:"raw"`
	Description string `json:"description"`
}
