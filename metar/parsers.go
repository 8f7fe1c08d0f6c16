package metar

import (
	"fmt"
	"strconv"
	"strings"

	"k8s.io/utils/ptr"
)

// Field group names used in warnings and metrics
const (
	GroupTime        = "time"
	GroupWind        = "wind"
	GroupVisibility  = "visibility"
	GroupWeather     = "weather"
	GroupSky         = "sky"
	GroupTemperature = "temperature"
	GroupAltimeter   = "altimeter"
)

func warning(group, token, format string, args ...any) *FieldWarning {
	return &FieldWarning{Group: group, Token: token, Reason: fmt.Sprintf(format, args...)}
}

// parseTime parses a time string in the format "DDHHMM"Z
func parseTime(timeStr string) (*ObservationTime, *FieldWarning) {
	matches := timeRegex.FindStringSubmatch(timeStr)
	if matches == nil {
		return nil, warning(GroupTime, timeStr, "expected DDHHMMZ")
	}

	day, _ := strconv.Atoi(matches[1])
	hour, _ := strconv.Atoi(matches[2])
	minute, _ := strconv.Atoi(matches[3])

	if day < 1 || day > 31 || hour > 23 || minute > 59 {
		return nil, warning(GroupTime, timeStr, "day, hour or minute out of range")
	}

	return &ObservationTime{
		Day:         day,
		Hour:        hour,
		Minute:      minute,
		UTC:         true,
		Description: fmt.Sprintf("%s at %02d:%02d UTC", ordinal(day), hour, minute),
	}, nil
}

// parseWind parses a wind string in the format "DDDSSKT", "DDDSSGGGKT" or
// "VRBSSKT". A gust that does not exceed the sustained speed is dropped and
// reported alongside the otherwise valid wind.
func parseWind(windStr string) (*Wind, *FieldWarning) {
	matches := windRegex.FindStringSubmatch(windStr)
	if matches == nil {
		if m := windShapeRegex.FindStringSubmatch(windStr); m != nil && m[4] == "" {
			return nil, warning(GroupWind, windStr, "missing KT unit")
		}
		return nil, warning(GroupWind, windStr, "unsupported wind unit")
	}

	speed, _ := strconv.Atoi(matches[2])
	wind := &Wind{Speed: speed, Unit: "KT"}

	if speed == 0 {
		wind.Calm = true
		wind.Description = "Calm"
		return wind, nil
	}

	if matches[1] == "VRB" {
		wind.Variable = true
	} else {
		direction, _ := strconv.Atoi(matches[1])
		if direction > 360 {
			return nil, warning(GroupWind, windStr, "direction %d out of range", direction)
		}
		wind.Direction = ptr.To(direction)
		wind.Compass = CompassLabel(direction)
	}

	var warn *FieldWarning
	if matches[3] != "" {
		gust, _ := strconv.Atoi(matches[3])
		if gust > speed {
			wind.Gust = ptr.To(gust)
		} else {
			warn = warning(GroupWind, windStr, "gust %d does not exceed speed %d", gust, speed)
		}
	}

	wind.Description = describeWind(wind)
	return wind, warn
}

func describeWind(wind *Wind) string {
	if wind.Variable {
		return "Variable"
	}
	return "From the " + strings.ToLower(wind.Compass)
}

// parseWindVariation parses a wind variation string in the format "DDDVDDD"
func parseWindVariation(varStr string) (from, to int, ok bool) {
	matches := windVarRegex.FindStringSubmatch(varStr)
	if matches == nil {
		return 0, 0, false
	}
	from, _ = strconv.Atoi(matches[1])
	to, _ = strconv.Atoi(matches[2])
	if from > 360 || to > 360 {
		return 0, 0, false
	}
	return from, to, true
}

// parseVisibility parses a statute-mile visibility group. whole is the
// preceding digit-only token of a split group such as "1 1/2SM", or "".
func parseVisibility(whole, visStr string) (*Visibility, *FieldWarning) {
	raw := strings.TrimSpace(whole + " " + visStr)

	matches := visRegex.FindStringSubmatch(visStr)
	if matches == nil {
		return nil, warning(GroupVisibility, raw, "malformed statute-mile visibility")
	}

	vis := &Visibility{
		LessThan:    matches[1] == "M",
		GreaterThan: matches[1] == "P",
	}

	if matches[4] != "" {
		vis.Whole, _ = strconv.Atoi(matches[4])
	} else {
		vis.Numerator, _ = strconv.Atoi(matches[2])
		vis.Denominator, _ = strconv.Atoi(matches[3])
		if vis.Denominator == 0 {
			return nil, warning(GroupVisibility, raw, "zero denominator")
		}
	}

	if whole != "" {
		if vis.Denominator == 0 || matches[1] != "" {
			return nil, warning(GroupVisibility, raw, "whole miles must be followed by a plain fraction")
		}
		vis.Whole, _ = strconv.Atoi(whole)
	}

	vis.Miles = float64(vis.Whole)
	if vis.Denominator != 0 {
		vis.Miles += float64(vis.Numerator) / float64(vis.Denominator)
	}
	vis.Description = describeVisibility(vis)

	return vis, nil
}

func describeVisibility(vis *Visibility) string {
	var value string
	switch {
	case vis.Denominator == 0:
		value = strconv.Itoa(vis.Whole)
	case vis.Whole == 0:
		value = fmt.Sprintf("%d/%d", vis.Numerator, vis.Denominator)
	default:
		value = fmt.Sprintf("%d %d/%d", vis.Whole, vis.Numerator, vis.Denominator)
	}

	unit := "miles"
	if vis.Miles <= 1 {
		unit = "mile"
	}

	switch {
	case vis.LessThan:
		return fmt.Sprintf("Less than %s %s", value, unit)
	case vis.GreaterThan:
		return fmt.Sprintf("Greater than %s %s", value, unit)
	case vis.Miles >= 10:
		return "10+ miles"
	}
	return value + " " + unit
}

// parseWeather splits a present-weather group into one Phenomenon per code.
// It returns nil when the token is not a weather group.
func parseWeather(wxStr string) []Phenomenon {
	matches := weatherRegex.FindStringSubmatch(wxStr)
	if matches == nil {
		return nil
	}

	intensity := intensityCodes[matches[1]]
	descriptor := matches[2]
	chain := matches[3]

	var codes []string
	if descriptor == "TS" || (descriptor != "" && chain == "") {
		// TS is reported as a phenomenon in its own right; a bare SH
		// (e.g. VCSH) stands for showers
		if _, ok := phenomenonCodes[descriptor]; !ok {
			return nil
		}
		codes = append(codes, descriptor)
	}
	for i := 0; i+2 <= len(chain); i += 2 {
		codes = append(codes, chain[i:i+2])
	}
	if len(codes) == 0 {
		return nil
	}

	phenomena := make([]Phenomenon, 0, len(codes))
	for _, code := range codes {
		phenomena = append(phenomena, Phenomenon{
			Intensity:   intensity,
			Descriptor:  descriptor,
			Code:        code,
			Category:    phenomenonCodes[code].Category,
			Raw:         wxStr,
			Description: describePhenomenon(intensity, descriptor, code),
		})
	}
	return phenomena
}

func describePhenomenon(intensity Intensity, descriptor, code string) string {
	if code == "FC" && intensity == IntensityHeavy {
		return "Tornado or waterspout"
	}

	phrase := phenomenonCodes[code].Name
	switch {
	case code == descriptor, descriptor == "", descriptor == "TS":
	case descriptor == "SH":
		phrase += " showers"
	default:
		phrase = descriptorCodes[descriptor] + " " + phrase
	}

	switch intensity {
	case IntensityLight:
		phrase = "light " + phrase
	case IntensityHeavy:
		phrase = "heavy " + phrase
	case IntensityVicinity:
		phrase += " in the vicinity"
	}

	return capitalizeFirst(phrase)
}

// parseCloud parses a cloud string in the format "CCCHHH" or "CCCHHHTTT"
func parseCloud(cloudStr string) (SkyLayer, bool) {
	matches := cloudRegex.FindStringSubmatch(cloudStr)
	if matches == nil {
		return SkyLayer{}, false
	}

	layer := SkyLayer{
		Coverage:    matches[1],
		Description: cloudCoverage[matches[1]],
		CloudType:   matches[3],
	}

	if t, ok := cloudTypes[layer.CloudType]; ok {
		layer.Description += " (" + t + ")"
	}

	// Only try to parse height if it exists
	if matches[2] != "" && !clearSkyCodes[layer.Coverage] {
		height, _ := strconv.Atoi(matches[2])
		layer.Height = ptr.To(height * 100)
	}

	return layer, true
}

// parseTemperature parses "TT/DD" with an M prefix for negative values. The
// dew point is nil when the group is reported as "TT/".
func parseTemperature(tempStr string) (temp, dew *Temperature) {
	matches := tempRegex.FindStringSubmatch(tempStr)
	if matches == nil {
		return nil, nil
	}

	temp = newTemperature(matches[1], matches[2])
	if matches[4] != "" {
		dew = newTemperature(matches[3], matches[4])
	}
	return temp, dew
}

func newTemperature(sign, magnitude string) *Temperature {
	celsius, _ := strconv.Atoi(magnitude)
	if sign == "M" {
		celsius = -celsius
	}
	return &Temperature{Celsius: celsius, Fahrenheit: CelsiusToFahrenheit(celsius)}
}

// parseAltimeter parses "A####" into inches of mercury
func parseAltimeter(altStr string) *Altimeter {
	matches := altimeterRegex.FindStringSubmatch(altStr)
	if matches == nil {
		return nil
	}

	hundredths, _ := strconv.Atoi(matches[1])
	inHg := float64(hundredths) / 100.0
	return &Altimeter{
		InHg:        inHg,
		Description: fmt.Sprintf("%.2f inches Hg", inHg),
	}
}

// capitalizeFirst capitalizes the first letter of a string
func capitalizeFirst(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
