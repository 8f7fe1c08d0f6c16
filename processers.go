package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rmitchellscott/MetarReader/metar"
	"go.uber.org/zap"
)

// displayOptions controls how decoded reports are printed
type displayOptions struct {
	NoRaw bool
	JSON  bool
}

// processor decodes reports and prints them for the CLI
type processor struct {
	out     io.Writer
	client  *Client
	clock   clockwork.Clock
	logger  *zap.Logger
	metrics *Metrics
	opts    displayOptions
}

// processStation fetches, decodes and displays the latest METAR for a station
func (p *processor) processStation(ctx context.Context, stationCode string) error {
	raw, err := p.client.FetchMETAR(ctx, stationCode)
	if err != nil {
		return fmt.Errorf("error fetching METAR: %w", err)
	}

	var site SiteInfo
	if !p.opts.JSON {
		site, err = p.client.FetchSiteInfo(ctx, stationCode)
		if err != nil {
			p.logger.Debug("Could not fetch site info",
				zap.String("airport", stationCode),
				zap.Error(err))
		}
	}

	return p.printMETAR(raw, site, p.clock.Now())
}

// processObservations decodes raw METAR lines that were piped in. A line that
// cannot be decoded is reported and the rest are still printed.
func (p *processor) processObservations(lines []string) error {
	var errs []error
	now := p.clock.Now()

	for i, raw := range lines {
		if i > 0 && !p.opts.JSON {
			fmt.Fprintln(p.out, "\n----------------------------------")
		}
		if err := p.printMETAR(raw, SiteInfo{}, now); err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", i+1, err))
		}
	}

	return errors.Join(errs...)
}

func (p *processor) printMETAR(raw string, site SiteInfo, now time.Time) error {
	report, err := metar.Decode(raw)
	p.metrics.ObserveDecode(report, err)
	if err != nil {
		return fmt.Errorf("error decoding METAR: %w", err)
	}

	if p.opts.JSON {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	// Print the raw METAR if requested
	if !p.opts.NoRaw {
		functionColor.Fprintln(p.out, "----- Raw METAR -----")
		fmt.Fprintln(p.out, raw)
		fmt.Fprintln(p.out)
	}

	functionColor.Fprintln(p.out, "--- Decoded METAR ---")
	fmt.Fprint(p.out, FormatReport(report, site, now))
	return nil
}
