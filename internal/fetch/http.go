package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPSource fetches the bulletin over HTTP(S) with a user agent, a
// per-attempt timeout, and bounded retry on transient errors.
type HTTPSource struct {
	locator string
	opt     Options
	client  *http.Client
}

func newHTTPSource(locator string, opt Options) *HTTPSource {
	return &HTTPSource{
		locator: locator,
		opt:     opt,
		client: &http.Client{
			Timeout: opt.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

func (s *HTTPSource) Locator() string { return s.locator }

// Fetch issues a GET and retries transient failures with a short linear
// backoff. Non-2xx responses other than 5xx fail immediately.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	attempts := s.opt.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		body, err := s.tryOnce(ctx)
		if err == nil {
			return decodeText(body), nil
		}
		if !isTransient(err) || i == attempts-1 {
			return nil, err
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(i+1) * 200 * time.Millisecond):
		}
	}
	return nil, lastErr
}

func (s *HTTPSource) tryOnce(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.locator, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if s.opt.UserAgent != "" {
		req.Header.Set("User-Agent", s.opt.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 && resp.StatusCode <= 599 {
		return nil, fmt.Errorf("server error: %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return b, nil
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return err != nil && strings.HasPrefix(err.Error(), "server error:")
}
