package main

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rmitchellscott/MetarReader/metar"
)

// Metrics holds the Prometheus collectors for decoding and fetching.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Decodes       *prometheus.CounterVec // labels: outcome={ok,empty_input,invalid_station,error}
	AbsentGroups  *prometheus.CounterVec // labels: group
	FieldWarnings *prometheus.CounterVec // labels: group
	Fetches       *prometheus.CounterVec // labels: outcome={success,no_data,error}
	FetchDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "metar_reader",
			Name:      "decodes_total",
			Help:      "METAR decode attempts by outcome.",
		}, []string{"outcome"}),
		AbsentGroups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "metar_reader",
			Name:      "absent_groups_total",
			Help:      "Decoded reports missing a field group, by group.",
		}, []string{"group"}),
		FieldWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "metar_reader",
			Name:      "field_warnings_total",
			Help:      "Tokens that looked like a group but failed validation, by group.",
		}, []string{"group"}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "metar_reader",
			Name:      "fetches_total",
			Help:      "METAR fetches from the weather API by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "metar_reader",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a METAR fetch including retries.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}

	reg.MustRegister(
		m.Decodes,
		m.AbsentGroups,
		m.FieldWarnings,
		m.Fetches,
		m.FetchDuration,
	)

	return m
}

// ObserveDecode records the outcome of a metar.Decode call
func (m *Metrics) ObserveDecode(report *metar.Report, err error) {
	if m == nil {
		return
	}

	switch {
	case errors.Is(err, metar.ErrEmptyInput):
		m.Decodes.WithLabelValues("empty_input").Inc()
		return
	case errors.Is(err, metar.ErrInvalidStation):
		m.Decodes.WithLabelValues("invalid_station").Inc()
		return
	case err != nil:
		m.Decodes.WithLabelValues("error").Inc()
		return
	}

	m.Decodes.WithLabelValues("ok").Inc()

	for group, absent := range map[string]bool{
		metar.GroupTime:        report.Time == nil,
		metar.GroupWind:        report.Wind == nil,
		metar.GroupVisibility:  report.Visibility == nil,
		metar.GroupSky:         len(report.Sky) == 0,
		metar.GroupTemperature: report.Temperature == nil,
		metar.GroupAltimeter:   report.Altimeter == nil,
	} {
		if absent {
			m.AbsentGroups.WithLabelValues(group).Inc()
		}
	}

	for _, w := range report.Warnings {
		m.FieldWarnings.WithLabelValues(w.Group).Inc()
	}
}

// ObserveFetch records one FetchMETAR call
func (m *Metrics) ObserveFetch(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.Fetches.WithLabelValues(outcome).Inc()
	m.FetchDuration.Observe(seconds)
}
