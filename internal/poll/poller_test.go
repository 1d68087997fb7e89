package poll_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaugeworks/riverwatch/internal/observability"
	"github.com/gaugeworks/riverwatch/internal/poll"
	"github.com/gaugeworks/riverwatch/internal/station"
)

const bulletin = `<table>
  <tr><td>Alpha Creek</td><td>01/03 09:00</td><td>1.2</td><td>steady</td><td>x</td><td>ok</td></tr>
  <tr><td>Oxenford Weir</td><td>01/03 09:05</td><td>2.45m</td><td>rising</td><td>x</td><td>minor</td></tr>
</table>`

// stubSource hands out a fixed body or error and counts fetches.
type stubSource struct {
	mu    sync.Mutex
	body  []byte
	err   error
	calls atomic.Int32
}

func (s *stubSource) Fetch(_ context.Context) ([]byte, error) {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.body, nil
}

func (s *stubSource) Locator() string { return "stub://bulletin" }

func (s *stubSource) set(body []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body, s.err = body, err
}

func strptr(s string) *string { return &s }

func newPoller(src *stubSource, filter *string, clock clockwork.Clock) *poll.Poller {
	return poll.New(src, filter, 30*time.Minute, clock, zerolog.Nop(), observability.NewMetricsForTesting())
}

func TestRefresh_SelectsFilteredStation(t *testing.T) {
	src := &stubSource{body: []byte(bulletin)}
	p := newPoller(src, strptr("weir"), clockwork.NewFakeClock())

	require.NoError(t, p.Refresh(context.Background()))

	st := p.State()
	require.True(t, st.Available)
	require.NotNil(t, st.Reading)
	assert.Equal(t, "Oxenford Weir", st.Reading.Station)
	assert.Equal(t, 2.45, st.Reading.Height)
	assert.Equal(t, station.Selected, st.Outcome)
	assert.Len(t, st.Stations, 2)
	assert.False(t, st.UpdatedAt.IsZero())
	assert.True(t, p.Ready())
}

func TestRefresh_NoFilterSelectsFirst(t *testing.T) {
	src := &stubSource{body: []byte(bulletin)}
	p := newPoller(src, nil, clockwork.NewFakeClock())

	require.NoError(t, p.Refresh(context.Background()))

	st := p.State()
	require.NotNil(t, st.Reading)
	assert.Equal(t, "Alpha Creek", st.Reading.Station)
}

func TestRefresh_FetchFailureInvalidates(t *testing.T) {
	src := &stubSource{body: []byte(bulletin)}
	p := newPoller(src, strptr("weir"), clockwork.NewFakeClock())
	require.NoError(t, p.Refresh(context.Background()))
	require.True(t, p.State().Available)

	src.set(nil, errors.New("connection refused"))
	err := p.Refresh(context.Background())
	require.Error(t, err)

	st := p.State()
	assert.False(t, st.Available, "failed fetch must mark the snapshot unavailable")
	require.NotNil(t, st.Reading, "previous reading stays visible as last known value")
	assert.Equal(t, "Oxenford Weir", st.Reading.Station)
}

func TestRefresh_NoMatchIsUnavailable(t *testing.T) {
	src := &stubSource{body: []byte(bulletin)}
	p := newPoller(src, strptr("nonexistent"), clockwork.NewFakeClock())

	require.NoError(t, p.Refresh(context.Background()))

	st := p.State()
	assert.False(t, st.Available)
	assert.Nil(t, st.Reading)
	assert.Equal(t, station.NoMatch, st.Outcome)
	assert.Len(t, st.Stations, 2, "record set is still published on no match")
	assert.True(t, p.Ready(), "a completed fetch counts as ready even without a match")
}

func TestRefresh_EmptyBulletin(t *testing.T) {
	src := &stubSource{body: []byte("<html><body><p>maintenance</p></body></html>")}
	p := newPoller(src, nil, clockwork.NewFakeClock())

	require.NoError(t, p.Refresh(context.Background()))

	st := p.State()
	assert.False(t, st.Available)
	assert.Equal(t, station.EmptySet, st.Outcome)
	assert.Empty(t, st.Stations)
}

func TestRun_RefreshesOnInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewFakeClock()
	src := &stubSource{body: []byte(bulletin)}
	p := poll.New(src, nil, 30*time.Minute, clock, zerolog.Nop(), observability.NewMetricsForTesting())

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	// Initial refresh happens before the first tick.
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)

	// Wait for the ticker to be armed, then advance one interval.
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(30 * time.Minute)
	require.Eventually(t, func() bool { return src.calls.Load() == 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on context cancellation")
	}
}
