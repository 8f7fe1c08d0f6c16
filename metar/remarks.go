package metar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Remark codes that are decoded by a plain lookup
var remarkCodes = map[string]string{
	"AO1":     "automated station without precipitation sensor",
	"AO2":     "automated station with precipitation sensor",
	"AO1A":    "automated station without precipitation sensor",
	"AO2A":    "automated station with precipitation sensor",
	"PRESRR":  "pressure rising rapidly",
	"PRESFR":  "pressure falling rapidly",
	"VIRGA":   "precipitation not reaching ground",
	"FROPA":   "frontal passage",
	"NOSPECI": "no SPECI reports are taken at the station",
	"SLPNO":   "sea level pressure not available",
	"PNO":     "precipitation amount not available",
	"TSNO":    "lightning detector not operating",
	"$":       "weather observing equipment requires maintenance",
}

var pressureTendencies = map[byte]string{
	'0': "increasing, then decreasing",
	'1': "increasing, then steady",
	'2': "increasing steadily",
	'3': "increasing, then increasing more rapidly",
	'4': "steady",
	'5': "decreasing, then increasing",
	'6': "decreasing, then steady",
	'7': "decreasing steadily",
	'8': "decreasing, then decreasing more rapidly",
}

var peakWindRegex = regexp.MustCompile(`^PK WND (\d{3})(\d{2,3})/(\d{2})?(\d{2})$`)

// remarkRule decodes a single-token remark group
type remarkRule struct {
	pattern  *regexp.Regexp
	describe func(m []string) string
}

var remarkRules = []remarkRule{
	{
		// Sea level pressure in tenths of hPa with the leading 9 or 10 dropped
		regexp.MustCompile(`^SLP(\d{3})$`),
		func(m []string) string {
			slp, _ := strconv.Atoi(m[1])
			base := 1000.0
			if slp >= 500 {
				base = 900.0
			}
			return fmt.Sprintf("sea level pressure %.1f hPa", base+float64(slp)/10)
		},
	},
	{
		// Temperature/dew point in tenths of degrees
		regexp.MustCompile(`^T([01])(\d{3})(?:([01])(\d{3}))?$`),
		func(m []string) string {
			desc := fmt.Sprintf("temperature %.1f°C", tenths(m[1], m[2]))
			if m[4] != "" {
				desc += fmt.Sprintf(", dew point %.1f°C", tenths(m[3], m[4]))
			}
			return desc
		},
	},
	{
		regexp.MustCompile(`^P(\d{4})$`),
		func(m []string) string {
			return fmt.Sprintf("precipitation of %.2f inches in the last hour", hundredths(m[1]))
		},
	},
	{
		regexp.MustCompile(`^6(\d{4}|////)$`),
		func(m []string) string {
			if m[1] == "////" {
				return "3- or 6-hour precipitation amount not available"
			}
			return fmt.Sprintf("3- or 6-hour precipitation: %.2f inches", hundredths(m[1]))
		},
	},
	{
		regexp.MustCompile(`^7(\d{4})$`),
		func(m []string) string {
			return fmt.Sprintf("24-hour precipitation: %.2f inches", hundredths(m[1]))
		},
	},
	{
		regexp.MustCompile(`^1([01])(\d{3})$`),
		func(m []string) string {
			return fmt.Sprintf("6-hour maximum temperature %.1f°C", tenths(m[1], m[2]))
		},
	},
	{
		regexp.MustCompile(`^2([01])(\d{3})$`),
		func(m []string) string {
			return fmt.Sprintf("6-hour minimum temperature %.1f°C", tenths(m[1], m[2]))
		},
	},
	{
		regexp.MustCompile(`^4([01])(\d{3})([01])(\d{3})$`),
		func(m []string) string {
			return fmt.Sprintf("24-hour temperature range: max %.1f°C, min %.1f°C",
				tenths(m[1], m[2]), tenths(m[3], m[4]))
		},
	},
	{
		regexp.MustCompile(`^5([0-8])(\d{3})$`),
		func(m []string) string {
			return fmt.Sprintf("3-hour pressure tendency: %s, %.1f hPa change",
				pressureTendencies[m[1][0]], float64(atoi(m[2]))/10)
		},
	},
	{
		regexp.MustCompile(`^4/(\d{3})$`),
		func(m []string) string {
			return fmt.Sprintf("snow depth: %d inches", atoi(m[1]))
		},
	},
	{
		// Precipitation or phenomenon beginning/ending, e.g. RAB15, SNE32
		regexp.MustCompile(`^(SH|FZ|TS)?(RA|SN|DZ|GR|GS|PL|IC|SG|UP|FG|BR|HZ)?([BE])(\d{2}|\d{4})$`),
		func(m []string) string {
			name := "thunderstorm"
			if m[2] != "" {
				name = describePhenomenon(IntensityModerate, m[1], m[2])
			} else if m[1] != "TS" {
				return ""
			}
			action := "began"
			if m[3] == "E" {
				action = "ended"
			}
			return fmt.Sprintf("%s %s at %s", strings.ToLower(name), action, minutesPast(m[4]))
		},
	},
}

// processRemarks decodes the groups of the RMK section. Groups that are not
// recognised are kept with an "unknown remark code" description.
func processRemarks(remarkParts []string) []Remark {
	remarks := []Remark{}

	for i := 0; i < len(remarkParts); i++ {
		part := remarkParts[i]

		// Peak wind spans three tokens: PK WND dddff/hhmm
		if part == "PK" && i+2 < len(remarkParts) {
			group := strings.Join(remarkParts[i:i+3], " ")
			if m := peakWindRegex.FindStringSubmatch(group); m != nil {
				at := ":" + m[4]
				if m[3] != "" {
					at = m[3] + at
				}
				remarks = append(remarks, Remark{
					Raw:         group,
					Description: fmt.Sprintf("peak wind %s° at %d knots at %s", m[1], atoi(m[2]), at),
				})
				i += 2
				continue
			}
		}

		remarks = append(remarks, Remark{Raw: part, Description: describeRemark(part)})
	}

	return remarks
}

func describeRemark(part string) string {
	if desc, ok := remarkCodes[part]; ok {
		return desc
	}
	for _, rule := range remarkRules {
		if m := rule.pattern.FindStringSubmatch(part); m != nil {
			if desc := rule.describe(m); desc != "" {
				return desc
			}
		}
	}
	return "unknown remark code"
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// tenths converts a sign digit (1 = negative) and a tenths value to degrees
func tenths(sign, value string) float64 {
	v := float64(atoi(value)) / 10
	if sign == "1" {
		v = -v
	}
	return v
}

func hundredths(value string) float64 {
	return float64(atoi(value)) / 100
}

func minutesPast(hhmm string) string {
	if len(hhmm) == 4 {
		return hhmm[:2] + ":" + hhmm[2:] + " UTC"
	}
	return fmt.Sprintf("%d minutes past the hour", atoi(hhmm))
}
