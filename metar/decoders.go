package metar

import (
	"strings"
)

// Decode decodes a raw METAR string into a Report. Only an empty input or an
// invalid station identifier are errors; any other group that cannot be
// decoded is left nil and, where it looked like a group, noted in Warnings.
//
// Decode holds no state between calls and is safe for concurrent use.
func Decode(raw string) (*Report, error) {
	tokens, err := Tokenize(raw)
	if err != nil {
		return nil, err
	}

	m := &Report{
		Raw:        raw,
		ReportType: tokens.ReportType,
		Weather:    []Phenomenon{},
		Sky:        []SkyLayer{},
		Trend:      tokens.Trend,
		Remarks:    tokens.Remarks,
	}

	parts := tokens.Fields
	if len(parts) == 0 {
		return nil, ErrEmptyInput
	}

	// Station code, unless the report starts directly with a weather group
	start := 0
	switch {
	case isStation(parts):
		m.Station = parts[0]
		start = 1
	case !isFieldGroup(parts, 0):
		return nil, &InvalidStationError{Token: parts[0]}
	}

	for i := start; i < len(parts); i++ {
		i += m.decodeField(parts, i)
	}

	if m.Remarks != "" {
		m.RemarkDetails = processRemarks(strings.Fields(m.Remarks))
	}

	return m, nil
}

// decodeField assigns parts[i] to the first group whose grammar it matches
// and returns how many additional tokens were consumed.
func (m *Report) decodeField(parts []string, i int) int {
	part := parts[i]

	// Special conditions (AUTO, COR, etc.)
	if modifierRegex.MatchString(part) {
		m.Modifiers = append(m.Modifiers, Modifier{Code: part, Description: modifierCodes[part]})
		return 0
	}

	// Time
	if m.Time == nil && timeShapeRegex.MatchString(part) {
		t, warn := parseTime(part)
		m.Time = t
		m.addWarning(warn)
		return 0
	}

	// Wind, and the variation group that may follow it
	if m.Wind == nil && windShapeRegex.MatchString(part) {
		w, warn := parseWind(part)
		m.Wind = w
		m.addWarning(warn)

		if w != nil && i+1 < len(parts) {
			if from, to, ok := parseWindVariation(parts[i+1]); ok {
				w.VariableFrom = &from
				w.VariableTo = &to
				return 1
			}
		}
		return 0
	}

	// Visibility - handle split groups like "1 1/2SM"
	if m.Visibility == nil {
		if visWholeRegex.MatchString(part) && i+1 < len(parts) && visFracRegex.MatchString(parts[i+1]) {
			v, warn := parseVisibility(part, parts[i+1])
			m.Visibility = v
			m.addWarning(warn)
			return 1
		}

		if strings.HasSuffix(part, "SM") {
			v, warn := parseVisibility("", part)
			m.Visibility = v
			m.addWarning(warn)
			return 0
		}
	}

	// Clouds
	if layer, ok := parseCloud(part); ok {
		m.Sky = append(m.Sky, layer)
		return 0
	}

	// Weather phenomena
	if phenomena := parseWeather(part); phenomena != nil {
		m.Weather = append(m.Weather, phenomena...)
		return 0
	}

	// Temperature and dew point
	if m.Temperature == nil && tempRegex.MatchString(part) {
		m.Temperature, m.DewPoint = parseTemperature(part)
		return 0
	}

	// Altimeter
	if m.Altimeter == nil && altimeterRegex.MatchString(part) {
		m.Altimeter = parseAltimeter(part)
		return 0
	}

	// Intensity-prefixed group naming no known phenomenon
	if wxShapeRegex.MatchString(part) {
		m.addWarning(warning(GroupWeather, part, "unrecognised weather phenomenon"))
		return 0
	}

	m.Unhandled = append(m.Unhandled, part)
	return 0
}

func (m *Report) addWarning(warn *FieldWarning) {
	if warn != nil {
		m.Warnings = append(m.Warnings, *warn)
	}
}

// isStation reports whether parts[0] is the station identifier. Codes such as
// SNBR also spell weather groups, so a station-shaped token followed by the
// observation time is always the station.
func isStation(parts []string) bool {
	if !stationRegex.MatchString(parts[0]) || modifierRegex.MatchString(parts[0]) {
		return false
	}
	if len(parts) > 1 && timeShapeRegex.MatchString(parts[1]) {
		return true
	}
	return !isFieldGroup(parts, 0)
}

// isFieldGroup reports whether parts[i] matches the grammar of any decodable
// group, i.e. it cannot be a station identifier.
func isFieldGroup(parts []string, i int) bool {
	part := parts[i]
	switch {
	case timeRegex.MatchString(part),
		windRegex.MatchString(part),
		visRegex.MatchString(part),
		cloudRegex.MatchString(part),
		tempRegex.MatchString(part),
		altimeterRegex.MatchString(part),
		modifierRegex.MatchString(part):
		return true
	case visWholeRegex.MatchString(part):
		return i+1 < len(parts) && visFracRegex.MatchString(parts[i+1])
	}
	return parseWeather(part) != nil
}
