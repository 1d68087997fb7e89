// Package fetch retrieves the raw bulletin document from its configured
// locator. It owns transport concerns only; interpreting the document is
// left to the extraction engine.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Source supplies the raw bulletin text on demand.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	// Locator returns the address the source reads, for logging.
	Locator() string
}

// Options configures transport behaviour shared by the source kinds.
type Options struct {
	UserAgent string
	// Timeout bounds each fetch attempt. Zero means no bound.
	Timeout time.Duration
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
}

// NewSource routes a locator to the matching source implementation:
// http/https, ftp, or a local file path for standalone runs. The bulletin
// feeds this was built for are published over FTP, so that scheme is first
// class rather than an afterthought.
func NewSource(locator string, opt Options) (Source, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, fmt.Errorf("parse locator: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return newHTTPSource(locator, opt), nil
	case "ftp":
		return newFTPSource(u, opt)
	case "", "file":
		return newFileSource(u), nil
	default:
		return nil, fmt.Errorf("unsupported locator scheme: %q", u.Scheme)
	}
}
