// Package poll owns the re-fetch schedule and the current-reading slot.
// The extraction engine underneath is pure; every stateful concern lives
// here so consumers only ever see whole, consistent snapshots.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/gaugeworks/riverwatch/internal/extract"
	"github.com/gaugeworks/riverwatch/internal/fetch"
	"github.com/gaugeworks/riverwatch/internal/observability"
	"github.com/gaugeworks/riverwatch/internal/station"
)

// State is the snapshot handed to consumers. A refresh replaces it whole.
type State struct {
	// Reading is the selected record, or the last known one when
	// Available is false. Nil before the first successful selection.
	Reading  *extract.Record
	Stations []extract.Record
	Outcome  station.Outcome
	// UpdatedAt is the time of the last refresh that produced a new
	// record set, zero before the first one.
	UpdatedAt time.Time
	// Available reports whether the latest refresh produced a reading.
	Available bool
}

// Poller re-fetches the bulletin on a fixed interval and keeps the latest
// selection for readers.
type Poller struct {
	source   fetch.Source
	filter   *string
	interval time.Duration
	clock    clockwork.Clock
	log      zerolog.Logger
	metrics  *observability.Metrics

	mu    sync.RWMutex
	state State
}

// New builds a Poller. filter may be nil, meaning "first station". A nil
// clock falls back to the real one.
func New(source fetch.Source, filter *string, interval time.Duration, clock clockwork.Clock, log zerolog.Logger, metrics *observability.Metrics) *Poller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Poller{
		source:   source,
		filter:   filter,
		interval: interval,
		clock:    clock,
		log:      log,
		metrics:  metrics,
	}
}

// State returns a copy of the current snapshot. The Stations slice is
// shared and must be treated as read-only.
func (p *Poller) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Ready reports whether at least one refresh has completed a fetch.
func (p *Poller) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.state.UpdatedAt.IsZero()
}

// Run refreshes immediately, then on every interval tick until ctx is
// cancelled. Refresh errors are logged and never stop the loop.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info().Str("source", p.source.Locator()).Dur("interval", p.interval).Msg("poller started")
	_ = p.Refresh(ctx)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("poller stopping")
			return
		case <-ticker.Chan():
			_ = p.Refresh(ctx)
		}
	}
}

// Refresh runs one fetch-extract-select cycle and replaces the snapshot.
// On fetch failure the snapshot is marked unavailable rather than left
// looking fresh; the previous reading stays visible as last known value.
func (p *Poller) Refresh(ctx context.Context) error {
	p.metrics.PollsTotal.Inc()
	start := p.clock.Now()

	body, err := p.source.Fetch(ctx)
	if err != nil {
		p.metrics.PollErrors.WithLabelValues("fetch").Inc()
		p.log.Error().Err(err).Str("source", p.source.Locator()).Msg("fetch failed")
		p.invalidate()
		return err
	}

	records := extract.FromHTML(body)
	p.metrics.RecordsExtracted.Set(float64(len(records)))

	idx, outcome := station.Select(records, p.filter)

	p.mu.Lock()
	p.state.Stations = records
	p.state.Outcome = outcome
	p.state.UpdatedAt = p.clock.Now()
	if outcome == station.Selected {
		rec := records[idx]
		p.state.Reading = &rec
		p.state.Available = true
	} else {
		p.state.Available = false
	}
	p.mu.Unlock()

	p.metrics.PollDuration.Observe(p.clock.Since(start).Seconds())

	switch outcome {
	case station.Selected:
		rec := records[idx]
		p.metrics.ReadingAvailable.Set(1)
		p.metrics.ReadingHeight.WithLabelValues(rec.Station).Set(rec.Height)
		p.log.Debug().Str("station", rec.Station).Float64("height", rec.Height).
			Str("trend", rec.Trend).Str("status", rec.Status).Msg("reading updated")
	case station.EmptySet:
		p.metrics.PollErrors.WithLabelValues("select").Inc()
		p.metrics.ReadingAvailable.Set(0)
		p.log.Warn().Str("source", p.source.Locator()).Msg("no station records in bulletin")
	case station.NoMatch:
		p.metrics.PollErrors.WithLabelValues("select").Inc()
		p.metrics.ReadingAvailable.Set(0)
		p.log.Warn().Str("filter", *p.filter).Int("stations", len(records)).Msg("no station matched filter")
	}
	return nil
}

// invalidate marks the snapshot unavailable after a failed fetch, leaving
// the previous reading in place only as last known value.
func (p *Poller) invalidate() {
	p.mu.Lock()
	p.state.Available = false
	p.mu.Unlock()
	p.metrics.ReadingAvailable.Set(0)
}
