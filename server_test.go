package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockFetcher struct {
	mu    sync.Mutex
	raw   string
	err   error
	calls []string
}

func (m *mockFetcher) FetchMETAR(_ context.Context, stationCode string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, stationCode)
	return m.raw, m.err
}

func newTestServer(t *testing.T, fetcher METARFetcher) (*Server, *Metrics) {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	clock := clockwork.NewFakeClockAt(time.Date(2025, time.March, 16, 13, 0, 0, 0, time.UTC))
	return NewServer(DefaultConfig().Server, fetcher, clock, zaptest.NewLogger(t), metrics, reg), metrics
}

func postForm(srv http.Handler, airportCode string) *httptest.ResponseRecorder {
	form := url.Values{}
	if airportCode != "" {
		form.Set("airport_code", airportCode)
	}
	req := httptest.NewRequest(http.MethodPost, "/get_metar", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, &mockFetcher{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
}

func TestGetMETARForm(t *testing.T) {
	fetcher := &mockFetcher{raw: kjfkMETAR}
	srv, metrics := newTestServer(t, fetcher)

	rec := postForm(srv, " kjfk ")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "KJFK", body["airport_code"])
	assert.Equal(t, kjfkMETAR, body["raw_metar"])
	assert.Equal(t, "2025-03-16T12:51:00Z", body["observed_at"])
	assert.Equal(t, []string{"KJFK"}, fetcher.calls)

	decoded, ok := body["decoded_data"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"wind", "visibility", "temperature", "dewpoint", "sky_conditions", "weather_phenomena", "pressure", "time"} {
		assert.Contains(t, decoded, key)
	}

	wind := decoded["wind"].(map[string]any)
	assert.Equal(t, 280.0, wind["direction"])
	assert.Equal(t, 8.0, wind["speed"])
	assert.Nil(t, wind["gust"])
	assert.Equal(t, "From the west-northwest", wind["description"])

	assert.Equal(t, []any{}, decoded["weather_phenomena"])
	assert.Equal(t, 1.0, counterValue(t, metrics.Decodes, "ok"))
}

func TestGetMETARForm_errors(t *testing.T) {
	tests := []struct {
		name        string
		airportCode string
		fetcher     *mockFetcher
		wantError   string
	}{
		{"missing airport code", "", &mockFetcher{}, "Please enter an airport code"},
		{"too short", "JFK", &mockFetcher{}, "Airport code must be 4 characters (e.g., KTIG)"},
		{"too long", "KJFKA", &mockFetcher{}, "Airport code must be 4 characters (e.g., KTIG)"},
		{"no data", "XXXX", &mockFetcher{err: ErrNoData}, "No METAR data found for this airport code"},
		{"fetch failure", "KJFK", &mockFetcher{err: &StatusError{StatusCode: 503}}, "Error fetching METAR data: unexpected status code: 503"},
		{"undecodable", "KJFK", &mockFetcher{raw: "METAR"}, "Error decoding METAR data: metar: no report tokens in input"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tc.fetcher)
			rec := postForm(srv, tc.airportCode)

			// The form endpoint always answers 200
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, map[string]any{"error": tc.wantError}, decodeBody(t, rec))
		})
	}
}

func TestGetMETAR(t *testing.T) {
	srv, _ := newTestServer(t, &mockFetcher{raw: kjfkMETAR})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metar/kjfk", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "KJFK", body["airport_code"])

	decoded := body["decoded_data"].(map[string]any)
	assert.Equal(t, "KJFK", decoded["station"])
	assert.Equal(t, "AO2 SLP201", decoded["remarks"])
}

func TestGetMETAR_statusCodes(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		fetcher *mockFetcher
		status  int
	}{
		{"bad code", "JFK", &mockFetcher{}, http.StatusBadRequest},
		{"no data", "XXXX", &mockFetcher{err: ErrNoData}, http.StatusNotFound},
		{"upstream failure", "KJFK", &mockFetcher{err: errors.New("connection refused")}, http.StatusBadGateway},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tc.fetcher)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metar/"+tc.code, nil))

			assert.Equal(t, tc.status, rec.Code)
			assert.NotEmpty(t, decodeBody(t, rec)["error"])
		})
	}
}

func TestDecodeEndpoint(t *testing.T) {
	fetcher := &mockFetcher{}
	srv, metrics := newTestServer(t, fetcher)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/decode", strings.NewReader("09008KT 1/2SM FG OVC002 15/15 A2990\n"))
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotContains(t, body, "airport_code")
	assert.NotContains(t, body, "observed_at")
	assert.Equal(t, "09008KT 1/2SM FG OVC002 15/15 A2990", body["raw_metar"])

	decoded := body["decoded_data"].(map[string]any)
	assert.Equal(t, 0.5, decoded["visibility"].(map[string]any)["value"])
	assert.Len(t, decoded["weather_phenomena"], 1)
	assert.Empty(t, fetcher.calls)

	// Missing groups are reported for the fragment
	assert.Equal(t, 1.0, counterValue(t, metrics.AbsentGroups, "time"))
}

func TestDecodeEndpoint_errors(t *testing.T) {
	srv, metrics := newTestServer(t, &mockFetcher{})

	for body, want := range map[string]string{
		"":                     "no report tokens",
		"KJFKX 161251Z 28008KT": "invalid station identifier",
	} {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/decode", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, decodeBody(t, rec)["error"], want, body)
	}

	assert.Equal(t, 1.0, counterValue(t, metrics.Decodes, "empty_input"))
	assert.Equal(t, 1.0, counterValue(t, metrics.Decodes, "invalid_station"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &mockFetcher{raw: kjfkMETAR})
	postForm(srv, "KJFK")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `metar_reader_decodes_total{outcome="ok"} 1`)
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, &mockFetcher{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get_metar", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
