package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rmitchellscott/MetarReader/metar"
	"go.uber.org/zap"
)

// maxDecodeBody caps the raw text accepted by POST /api/decode
const maxDecodeBody = 64 << 10

// METARFetcher returns the latest raw METAR for a station
type METARFetcher interface {
	FetchMETAR(ctx context.Context, stationCode string) (string, error)
}

// Server exposes METAR lookup and decoding over HTTP
type Server struct {
	httpServer *http.Server
	fetcher    METARFetcher
	clock      clockwork.Clock
	logger     *zap.Logger
	metrics    *Metrics
}

// metarResponse is the JSON body returned for a looked-up or decoded METAR
type metarResponse struct {
	AirportCode string        `json:"airport_code,omitempty"`
	RawMETAR    string        `json:"raw_metar"`
	ObservedAt  *time.Time    `json:"observed_at,omitempty"`
	DecodedData *metar.Report `json:"decoded_data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer creates the HTTP server and its routes. Metrics are served from
// gatherer.
func NewServer(cfg ServerConfig, fetcher METARFetcher, clock clockwork.Clock, logger *zap.Logger, metrics *Metrics, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		fetcher: fetcher,
		clock:   clock,
		logger:  logger.Named("server"),
		metrics: metrics,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Post("/get_metar", s.handleGetMETARForm)
	r.Route("/api", func(r chi.Router) {
		r.Get("/metar/{code}", s.handleGetMETAR)
		r.Post("/decode", s.handleDecode)
	})

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeoutSecs) * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := s.clock.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug("Handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", s.clock.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleGetMETARForm serves the web form endpoint. Like the form it backs, it
// always answers 200 and reports failures in an "error" field.
func (s *Server) handleGetMETARForm(w http.ResponseWriter, r *http.Request) {
	resp, apiErr := s.lookup(r.Context(), r.PostFormValue("airport_code"))
	if apiErr != nil {
		writeJSON(w, http.StatusOK, errorResponse{Error: apiErr.Message})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetMETAR(w http.ResponseWriter, r *http.Request) {
	resp, apiErr := s.lookup(r.Context(), chi.URLParam(r, "code"))
	if apiErr != nil {
		writeJSON(w, apiErr.Status, errorResponse{Error: apiErr.Message})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDecode decodes raw METAR text from the request body without fetching
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDecodeBody))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "Request body too large"})
		return
	}

	raw := strings.TrimSpace(string(body))
	report, err := metar.Decode(raw)
	s.metrics.ObserveDecode(report, err)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: capitalizeFirst(err.Error())})
		return
	}

	writeJSON(w, http.StatusOK, s.newResponse("", raw, report))
}

// apiError is a user-facing failure and the status the JSON API answers with
type apiError struct {
	Status  int
	Message string
}

// lookup validates the airport code, fetches its latest METAR and decodes it
func (s *Server) lookup(ctx context.Context, input string) (*metarResponse, *apiError) {
	airportCode, err := normalizeStationCode(input)
	if err != nil {
		return nil, &apiError{http.StatusBadRequest, capitalizeFirst(err.Error())}
	}

	raw, err := s.fetcher.FetchMETAR(ctx, airportCode)
	switch {
	case errors.Is(err, ErrNoData):
		return nil, &apiError{http.StatusNotFound, capitalizeFirst(ErrNoData.Error())}
	case err != nil:
		s.logger.Warn("METAR fetch failed", zap.String("airport", airportCode), zap.Error(err))
		return nil, &apiError{http.StatusBadGateway, "Error fetching METAR data: " + err.Error()}
	}

	report, err := metar.Decode(raw)
	s.metrics.ObserveDecode(report, err)
	if err != nil {
		s.logger.Warn("METAR decode failed",
			zap.String("airport", airportCode),
			zap.String("raw", raw),
			zap.Error(err))
		return nil, &apiError{http.StatusBadGateway, "Error decoding METAR data: " + err.Error()}
	}

	return s.newResponse(airportCode, raw, report), nil
}

func (s *Server) newResponse(airportCode, raw string, report *metar.Report) *metarResponse {
	resp := &metarResponse{
		AirportCode: airportCode,
		RawMETAR:    raw,
		DecodedData: report,
	}
	if report.Time != nil {
		observed := report.Time.Resolve(s.clock.Now())
		resp.ObservedAt = &observed
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
