package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// ErrNoData is returned when the weather API has no report for a station
var ErrNoData = errors.New("no METAR data found for this airport code")

// StatusError is a non-OK response from the weather API
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// SiteInfo holds station details from the station info endpoint
type SiteInfo struct {
	Name    string
	State   string
	Country string
}

var (
	siteRegex    = regexp.MustCompile(`Site:\s+(.+)`)
	stateRegex   = regexp.MustCompile(`State:\s+(.+)`)
	countryRegex = regexp.MustCompile(`Country:\s+(.+)`)
)

// Client fetches raw reports from the AviationWeather data API
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	clock      clockwork.Clock
	logger     *zap.Logger
	metrics    *Metrics
}

// NewClient creates a weather API client
func NewClient(cfg WeatherConfig, clock clockwork.Clock, logger *zap.Logger, metrics *Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.RetryBackoffMillis) * time.Millisecond,
		clock:      clock,
		logger:     logger.Named("weather-client"),
		metrics:    metrics,
	}
}

// FetchMETAR fetches the latest raw METAR for a station. The API may return
// several observations, newest first; only the first line is kept.
func (c *Client) FetchMETAR(ctx context.Context, stationCode string) (string, error) {
	start := c.clock.Now()
	endpoint := fmt.Sprintf("%s/metar?ids=%s", c.baseURL, url.QueryEscape(strings.ToUpper(stationCode)))

	body, err := c.fetchWithRetry(ctx, endpoint, stationCode)
	elapsed := c.clock.Since(start).Seconds()
	switch {
	case errors.Is(err, ErrNoData):
		c.metrics.ObserveFetch("no_data", elapsed)
		return "", err
	case err != nil:
		c.metrics.ObserveFetch("error", elapsed)
		return "", err
	}

	c.metrics.ObserveFetch("success", elapsed)
	line, _, _ := strings.Cut(body, "\n")
	return strings.TrimSpace(line), nil
}

// FetchSiteInfo fetches the station name, state and country. On failure the
// returned SiteInfo carries the station code as its name.
func (c *Client) FetchSiteInfo(ctx context.Context, stationCode string) (SiteInfo, error) {
	defaultSiteInfo := SiteInfo{Name: stationCode}

	endpoint := fmt.Sprintf("%s/stationinfo?ids=%s", c.baseURL, url.QueryEscape(strings.ToUpper(stationCode)))
	text, err := c.fetchWithRetry(ctx, endpoint, stationCode)
	if err != nil {
		return defaultSiteInfo, fmt.Errorf("error fetching site data: %w", err)
	}

	info := SiteInfo{
		Name:    firstSubmatch(siteRegex, text),
		State:   firstSubmatch(stateRegex, text),
		Country: firstSubmatch(countryRegex, text),
	}

	// Site name is required, state/country optional
	if info.Name == "" {
		return defaultSiteInfo, errors.New("could not extract site name from response")
	}

	return info, nil
}

func firstSubmatch(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// fetchWithRetry GETs endpoint, retrying transport errors and 5xx responses
// with exponential backoff. An empty body is ErrNoData and is not retried.
func (c *Client) fetchWithRetry(ctx context.Context, endpoint, stationCode string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoffDuration := c.backoff * time.Duration(1<<uint(attempt-1))
			c.logger.Info("Retrying weather data fetch",
				zap.String("airport", stationCode),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoffDuration))

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-c.clock.After(backoffDuration):
			}
		}

		body, retry, err := c.fetchOnce(ctx, endpoint)
		if err == nil {
			if attempt > 0 {
				c.logger.Info("Successfully fetched weather data after retries",
					zap.String("airport", stationCode),
					zap.Int("attempts_needed", attempt+1))
			}
			return body, nil
		}

		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}

		c.logger.Warn("Weather API request failed, may retry",
			zap.String("airport", stationCode),
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", c.maxRetries+1))
	}

	if !errors.Is(lastErr, ErrNoData) {
		c.logger.Error("Weather data fetch failed",
			zap.String("airport", stationCode),
			zap.Error(lastErr))
	}
	return "", lastErr
}

// fetchOnce performs a single request and reports whether a failure is worth
// retrying.
func (c *Client) fetchOnce(ctx context.Context, endpoint string) (body string, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", false, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("error fetching METAR data: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return "", false, ErrNoData
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return "", true, &StatusError{StatusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return "", false, &StatusError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("error reading response: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", false, ErrNoData
	}
	return text, false, nil
}
