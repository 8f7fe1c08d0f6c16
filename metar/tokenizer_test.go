package metar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Tokens
	}{
		{
			name: "report type and remarks",
			raw:  "METAR KJFK 161251Z 28008KT 10SM FEW250 22/13 A3012 RMK AO2 SLP201",
			want: Tokens{
				ReportType: "METAR",
				Fields:     []string{"KJFK", "161251Z", "28008KT", "10SM", "FEW250", "22/13", "A3012"},
				Remarks:    "AO2 SLP201",
			},
		},
		{
			name: "irregular whitespace",
			raw:  "  KJFK\t161251Z   28008KT\n",
			want: Tokens{Fields: []string{"KJFK", "161251Z", "28008KT"}},
		},
		{
			name: "remarks keep their spacing",
			raw:  "KBOS 161254Z RMK AO2  PK WND 04035/1215",
			want: Tokens{
				Fields:  []string{"KBOS", "161254Z"},
				Remarks: "AO2  PK WND 04035/1215",
			},
		},
		{
			name: "trend before remarks",
			raw:  "KPIT 161251Z 24007KT BECMG 1416 OVC020 RMK AO2",
			want: Tokens{
				Fields:  []string{"KPIT", "161251Z", "24007KT"},
				Trend:   "BECMG 1416 OVC020",
				Remarks: "AO2",
			},
		},
		{
			name: "trend without remarks",
			raw:  "KPIT 161251Z TEMPO 1SM",
			want: Tokens{
				Fields: []string{"KPIT", "161251Z"},
				Trend:  "TEMPO 1SM",
			},
		},
		{
			name: "remarks only",
			raw:  "RMK AO2",
			want: Tokens{Remarks: "AO2"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Tokenize(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTokenize_empty(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", " \t\n", "METAR", "SPECI"} {
		_, err := Tokenize(raw)
		assert.ErrorIs(t, err, ErrEmptyInput, "%q", raw)
	}
}
