package app

import (
	"errors"
	"strings"
	"time"
)

// Config carries all settings for one riverwatch run. Flags, environment,
// and an optional config file all funnel into this struct before Validate.
type Config struct {
	// SourceURL locates the bulletin: http(s)://, ftp://, or a file path.
	SourceURL string
	// Name labels the reading on the consumer surface.
	Name string
	// Unit is the display unit for heights.
	Unit string
	// StationFilter is the optional station substring. Presence matters:
	// an empty filter that was explicitly set still matches every station,
	// which is not the same as no filter at all.
	StationFilter    string
	StationFilterSet bool
	// Interval is the re-fetch cadence.
	Interval time.Duration
	// HTTPAddr is the listen address for the consumer API.
	HTTPAddr string
	// Once runs a single fetch-extract-select cycle and exits.
	Once bool
	// PDFPath, when set with Once, writes a snapshot report.
	PDFPath string
	// UserAgent identifies us to the bulletin server.
	UserAgent string
	// FetchTimeout bounds each fetch attempt.
	FetchTimeout time.Duration
	// FetchAttempts includes the initial attempt.
	FetchAttempts int
	Verbose       bool
}

// DefaultInterval matches the provider's own publication cadence; polling
// faster only re-reads the same bulletin.
const DefaultInterval = 30 * time.Minute

// MinInterval is the floor enforced on configured intervals.
const MinInterval = time.Minute

// Filter returns the station filter as an optional value.
func (c Config) Filter() *string {
	if !c.StationFilterSet {
		return nil
	}
	f := c.StationFilter
	return &f
}

// Validate checks required settings and fills defaults. Intervals below
// the floor are clamped; everything else invalid is an error.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SourceURL) == "" {
		return errors.New("config: source.url is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("config: name must not be blank")
	}
	if c.Interval < 0 {
		return errors.New("config: interval must be positive")
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.Interval < MinInterval {
		c.Interval = MinInterval
	}
	if c.FetchAttempts <= 0 {
		c.FetchAttempts = 1
	}
	if !c.Once && strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("config: http.addr is required unless running with -once")
	}
	if c.PDFPath != "" && !c.Once {
		return errors.New("config: pdf.out only applies with -once")
	}
	return nil
}
