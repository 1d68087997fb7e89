// Package app wires configuration, the fetch source, the poller, and the
// HTTP surface into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/gaugeworks/riverwatch/internal/fetch"
	"github.com/gaugeworks/riverwatch/internal/observability"
	"github.com/gaugeworks/riverwatch/internal/poll"
	"github.com/gaugeworks/riverwatch/internal/report"
	"github.com/gaugeworks/riverwatch/internal/server"
)

// App owns the assembled service.
type App struct {
	cfg     Config
	log     zerolog.Logger
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// New validates cfg and assembles the service. Collectors are registered
// on the default Prometheus registry, so build at most one App per process.
func New(cfg Config, log zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &App{
		cfg:     cfg,
		log:     log,
		clock:   clockwork.NewRealClock(),
		metrics: observability.NewMetrics(),
	}, nil
}

// Run executes either a single refresh (-once) or the serve loop until ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	source, err := fetch.NewSource(a.cfg.SourceURL, fetch.Options{
		UserAgent:   a.cfg.UserAgent,
		Timeout:     a.cfg.FetchTimeout,
		MaxAttempts: a.cfg.FetchAttempts,
	})
	if err != nil {
		return err
	}

	poller := poll.New(source, a.cfg.Filter(), a.cfg.Interval, a.clock, a.log, a.metrics)

	if a.cfg.Once {
		return a.runOnce(ctx, poller)
	}
	return a.serve(ctx, poller)
}

func (a *App) runOnce(ctx context.Context, poller *poll.Poller) error {
	if err := poller.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	st := poller.State()
	if a.cfg.PDFPath != "" {
		if err := report.WritePDF(a.cfg.PDFPath, st, a.cfg.Name, a.cfg.Unit); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		a.log.Info().Str("out", a.cfg.PDFPath).Msg("wrote snapshot report")
	}
	if !st.Available {
		return fmt.Errorf("no active reading: %s", st.Outcome)
	}
	a.log.Info().
		Str("station", st.Reading.Station).
		Float64("height", st.Reading.Height).
		Str("unit", a.cfg.Unit).
		Str("timestamp", st.Reading.Timestamp).
		Str("trend", st.Reading.Trend).
		Str("status", st.Reading.Status).
		Msg("reading")
	return nil
}

func (a *App) serve(ctx context.Context, poller *poll.Poller) error {
	srv := server.New(a.cfg.HTTPAddr, poller, a.cfg.Name, a.cfg.Unit, a.log)

	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		poller.Run(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Warn().Err(err).Msg("http shutdown")
	}
	<-pollDone
	return nil
}
