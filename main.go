package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Define command-line flags
	configPath := flag.String("config", "", "Path to a TOML configuration file")
	jsonFlag := flag.Bool("json", false, "Print the decoded report as JSON")
	noRawFlag := flag.Bool("no-raw", false, "Hide raw data")
	flagNoColor := flag.Bool("no-color", false, "Disable color output")
	serveFlag := flag.Bool("serve", false, "Run the HTTP server instead of decoding once")
	flag.Parse()

	if *flagNoColor {
		color.NoColor = true // disables colorized output globally
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // stderr sync fails on some terminals

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := NewMetrics(reg)
	clock := clockwork.NewRealClock()
	client := NewClient(cfg.Weather, clock, logger, metrics)

	if *serveFlag {
		srv := NewServer(cfg.Server, client, clock, logger, metrics, reg)
		return serve(ctx, srv, logger)
	}

	p := &processor{
		out:     os.Stdout,
		client:  client,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
		opts:    displayOptions{NoRaw: *noRawFlag, JSON: *jsonFlag},
	}

	// Piped raw METARs are decoded as-is
	if flag.NArg() == 0 && stdinIsPiped() {
		lines, err := readObservations(os.Stdin)
		if err != nil {
			return err
		}
		return p.processObservations(lines)
	}

	var stationCode string
	if flag.NArg() > 0 {
		stationCode, err = getStationCodeFromArgs(flag.Args())
	} else {
		stationCode, err = promptForStationCode(os.Stdin, os.Stdout)
	}
	if err != nil {
		return err
	}

	return p.processStation(ctx, stationCode)
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully
func serve(ctx context.Context, srv *Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
