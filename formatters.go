package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rmitchellscott/MetarReader/metar"
)

// Color definitions using fatih/color
var (
	labelColor      = color.New(color.FgCyan)
	dateColor       = color.New(color.FgGreen)
	sectionColor    = color.New(color.FgBlue)
	remarkCodeColor = color.New(color.FgGreen)
	functionColor   = color.New(color.FgMagenta)

	// Age-based colors
	freshColor   = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	expiredColor = color.New(color.FgRed)
)

// getMetarAgeColor returns the appropriate color based on report age
func getMetarAgeColor(t, now time.Time) *color.Color {
	minutes := int(now.Sub(t).Minutes())
	if minutes > 60 {
		return expiredColor
	} else if minutes > 30 {
		return warningColor
	}
	return freshColor
}

// formatWind renders the wind group, e.g. "From the west-northwest (280°) at
// 8 knots, gusting to 15 knots"
func formatWind(w *metar.Wind) string {
	if w.Calm {
		return w.Description
	}

	windStr := w.Description
	if w.Direction != nil {
		windStr += fmt.Sprintf(" (%d°)", *w.Direction)
	}
	windStr += fmt.Sprintf(" at %s", plural(w.Speed, "knot"))
	if w.Gust != nil {
		windStr += fmt.Sprintf(", gusting to %s", plural(*w.Gust, "knot"))
	}
	if w.VariableFrom != nil && w.VariableTo != nil {
		windStr += fmt.Sprintf(" (varying between %d° and %d°)", *w.VariableFrom, *w.VariableTo)
	}
	return windStr
}

// formatClouds converts sky layers to a human-readable string
func formatClouds(layers []metar.SkyLayer) string {
	var cloudStrs []string
	for _, layer := range layers {
		cloudDesc := layer.Description
		if layer.Height != nil {
			cloudDesc = fmt.Sprintf("%s at %s feet", cloudDesc, formatNumberWithCommas(*layer.Height))
		}
		cloudStrs = append(cloudStrs, cloudDesc)
	}
	return strings.Join(cloudStrs, ", ")
}

func formatWeather(phenomena []metar.Phenomenon) string {
	var weatherStrs []string
	for _, p := range phenomena {
		weatherStrs = append(weatherStrs, p.Description)
	}
	return strings.Join(weatherStrs, ", ")
}

func formatTemperature(t *metar.Temperature) string {
	if t == nil {
		return "Not available"
	}
	return fmt.Sprintf("%d°C | %d°F", t.Celsius, t.Fahrenheit)
}

// FormatReport formats a decoded report for the terminal. now is used to
// place the observation in a month and to describe its age.
func FormatReport(m *metar.Report, site SiteInfo, now time.Time) string {
	var sb strings.Builder

	// Station
	labelColor.Fprint(&sb, "Station: ")
	if m.Station != "" {
		sb.WriteString(m.Station)
	} else {
		sb.WriteString("Unknown")
	}
	if siteInfo := formatSiteInfo(site); siteInfo != "" && site.Name != m.Station {
		sb.WriteString(" (" + siteInfo + ")")
	}
	sb.WriteString("\n")

	// Time
	if m.Time != nil {
		observed := m.Time.Resolve(now)
		labelColor.Fprint(&sb, "Time: ")
		dateColor.Fprint(&sb, observed.Format("2006-01-02 15:04 UTC"))
		sb.WriteString(" ")
		getMetarAgeColor(observed, now).Fprint(&sb, relativeTimeString(observed, now))
		sb.WriteString("\n")
	}

	if m.Wind != nil {
		labelColor.Fprint(&sb, "Wind: ")
		sb.WriteString(formatWind(m.Wind) + "\n")
	}

	if m.Visibility != nil {
		labelColor.Fprint(&sb, "Visibility: ")
		sb.WriteString(m.Visibility.Description + "\n")
	}

	if len(m.Weather) > 0 {
		labelColor.Fprint(&sb, "Weather: ")
		sb.WriteString(formatWeather(m.Weather) + "\n")
	}

	if len(m.Sky) > 0 {
		labelColor.Fprint(&sb, "Clouds: ")
		sb.WriteString(formatClouds(m.Sky) + "\n")
	}

	if m.Temperature != nil {
		labelColor.Fprint(&sb, "Temperature: ")
		sb.WriteString(formatTemperature(m.Temperature) + "\n")

		labelColor.Fprint(&sb, "Dew Point: ")
		sb.WriteString(formatTemperature(m.DewPoint) + "\n")
	}

	// Pressure with conversion to hPa
	if m.Altimeter != nil {
		labelColor.Fprint(&sb, "Pressure: ")
		sb.WriteString(fmt.Sprintf("%.2f inHg | %.1f hPa\n", m.Altimeter.InHg, InHgToMillibars(m.Altimeter.InHg)))
	}

	if len(m.Modifiers) > 0 {
		sb.WriteString("\n")
		sectionColor.Fprintln(&sb, "Special Conditions:")
		for _, mod := range m.Modifiers {
			sb.WriteString("  • ")
			sb.WriteString(capitalizeFirst(mod.Description) + "\n")
		}
	}

	if m.Trend != "" {
		sb.WriteString("\n")
		sectionColor.Fprintln(&sb, "Trend:")
		sb.WriteString("  " + m.Trend + "\n")
	}

	if len(m.RemarkDetails) > 0 {
		sb.WriteString("\n")
		sectionColor.Fprintln(&sb, "Remarks:")
		for _, remark := range m.RemarkDetails {
			sb.WriteString("  ")
			remarkCodeColor.Fprint(&sb, remark.Raw+": ")
			sb.WriteString(capitalizeFirst(remark.Description) + "\n")
		}
	}

	if len(m.Unhandled) > 0 || len(m.Warnings) > 0 {
		sb.WriteString("\n")
		sectionColor.Fprintln(&sb, "Not Decoded:")
		for _, w := range m.Warnings {
			sb.WriteString("  ")
			warningColor.Fprint(&sb, w.Token+": ")
			sb.WriteString(capitalizeFirst(w.Reason) + "\n")
		}
		for _, token := range m.Unhandled {
			sb.WriteString("  ")
			warningColor.Fprint(&sb, token+": ")
			sb.WriteString("Unrecognized group\n")
		}
	}

	return sb.String()
}

// Helper function to format site information
func formatSiteInfo(info SiteInfo) string {
	parts := []string{}

	if info.Name != "" {
		parts = append(parts, info.Name)
	}

	if info.State != "" {
		parts = append(parts, info.State)
	}

	if info.Country != "" {
		parts = append(parts, info.Country)
	}

	return strings.Join(parts, ", ")
}

func capitalizeFirst(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// formatNumberWithCommas adds thousands separators to a number
func formatNumberWithCommas(n int) string {
	numStr := strconv.Itoa(n)

	var sb strings.Builder
	for i, c := range numStr {
		if i > 0 && (len(numStr)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}

	return sb.String()
}
