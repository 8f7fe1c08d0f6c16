package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const kjfkMETAR = "METAR KJFK 161251Z 28008KT 10SM FEW250 22/13 A3012 RMK AO2 SLP201"

func newTestClient(t *testing.T, baseURL string) (*Client, *Metrics) {
	t.Helper()
	metrics := NewMetrics(prometheus.NewRegistry())
	cfg := WeatherConfig{
		APIBaseURL:            baseURL,
		RequestTimeoutSeconds: 5,
		MaxRetries:            2,
		RetryBackoffMillis:    1,
	}
	return NewClient(cfg, clockwork.NewRealClock(), zaptest.NewLogger(t), metrics), metrics
}

func TestFetchMETAR(t *testing.T) {
	t.Parallel()

	requests := make(chan *url.URL, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests <- r.URL
		w.Write([]byte("\n" + kjfkMETAR + "\nMETAR KJFK 161151Z 27007KT 10SM FEW250 21/13 A3013\n"))
	}))
	t.Cleanup(srv.Close)

	client, metrics := newTestClient(t, srv.URL+"/")
	raw, err := client.FetchMETAR(context.Background(), "kjfk")
	require.NoError(t, err)

	assert.Equal(t, kjfkMETAR, raw)
	got := <-requests
	assert.Equal(t, "/metar", got.Path)
	assert.Equal(t, "KJFK", got.Query().Get("ids"))
	assert.Equal(t, 1.0, counterValue(t, metrics.Fetches, "success"))
}

func TestFetchMETAR_noData(t *testing.T) {
	t.Parallel()

	for name, handler := range map[string]http.HandlerFunc{
		"empty body": func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("  \n"))
		},
		"no content": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	} {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				handler(w, r)
			}))
			t.Cleanup(srv.Close)

			client, metrics := newTestClient(t, srv.URL)
			_, err := client.FetchMETAR(context.Background(), "XXXX")
			assert.ErrorIs(t, err, ErrNoData)
			assert.Equal(t, int32(1), calls.Load(), "no data is not retried")
			assert.Equal(t, 1.0, counterValue(t, metrics.Fetches, "no_data"))
		})
	}
}

func TestFetchMETAR_retriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(kjfkMETAR))
	}))
	t.Cleanup(srv.Close)

	client, _ := newTestClient(t, srv.URL)
	raw, err := client.FetchMETAR(context.Background(), "KJFK")
	require.NoError(t, err)
	assert.Equal(t, kjfkMETAR, raw)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchMETAR_givesUp(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client, _ := newTestClient(t, srv.URL)
	_, err := client.FetchMETAR(context.Background(), "KJFK")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load(), "one attempt plus two retries")
}

func TestFetchMETAR_clientErrorNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	client, _ := newTestClient(t, srv.URL)
	_, err := client.FetchMETAR(context.Background(), "KJFK")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchMETAR_cancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(kjfkMETAR))
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, _ := newTestClient(t, srv.URL)
	_, err := client.FetchMETAR(ctx, "KJFK")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchSiteInfo(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ids") != "KJFK" {
			w.Write([]byte("Station: XXXX\n"))
			return
		}
		w.Write([]byte("Station: KJFK\nSite: New York/JF Kennedy Intl\nState: NY\nCountry: US\nElevation: 9\n"))
	}))
	t.Cleanup(srv.Close)

	client, _ := newTestClient(t, srv.URL)

	info, err := client.FetchSiteInfo(context.Background(), "KJFK")
	require.NoError(t, err)
	assert.Equal(t, SiteInfo{Name: "New York/JF Kennedy Intl", State: "NY", Country: "US"}, info)

	info, err = client.FetchSiteInfo(context.Background(), "XXXX")
	assert.Error(t, err)
	assert.Equal(t, SiteInfo{Name: "XXXX"}, info)
}
