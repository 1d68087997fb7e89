package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file configuration schema. Every field is
// optional; file values only fill settings the flags left at their
// defaults, so explicit flags always win.
type FileConfig struct {
	Source struct {
		URL string `yaml:"url" json:"url"`
	} `yaml:"source" json:"source"`

	Name string `yaml:"name" json:"name"`
	Unit string `yaml:"unit" json:"unit"`

	Station struct {
		// Filter is a pointer so that an explicit empty string in the
		// file is distinguishable from the key being absent.
		Filter *string `yaml:"filter" json:"filter"`
	} `yaml:"station" json:"station"`

	Interval time.Duration `yaml:"interval" json:"interval"`

	HTTP struct {
		Addr string `yaml:"addr" json:"addr"`
	} `yaml:"http" json:"http"`

	Fetch struct {
		UserAgent string        `yaml:"userAgent" json:"userAgent"`
		Timeout   time.Duration `yaml:"timeout" json:"timeout"`
		Attempts  int           `yaml:"attempts" json:"attempts"`
	} `yaml:"fetch" json:"fetch"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from fc into cfg for fields the flags
// left unset or at their defaults.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	const (
		nameDefault = "River Height"
		unitDefault = "m"
		addrDefault = ":8080"
		uaDefault   = "riverwatch/1.0"
	)

	if cfg.SourceURL == "" && fc.Source.URL != "" {
		cfg.SourceURL = fc.Source.URL
	}
	if (cfg.Name == "" || cfg.Name == nameDefault) && fc.Name != "" {
		cfg.Name = fc.Name
	}
	if (cfg.Unit == "" || cfg.Unit == unitDefault) && fc.Unit != "" {
		cfg.Unit = fc.Unit
	}
	if !cfg.StationFilterSet && fc.Station.Filter != nil {
		cfg.StationFilter = *fc.Station.Filter
		cfg.StationFilterSet = true
	}
	if (cfg.Interval == 0 || cfg.Interval == DefaultInterval) && fc.Interval > 0 {
		cfg.Interval = fc.Interval
	}
	if (cfg.HTTPAddr == "" || cfg.HTTPAddr == addrDefault) && fc.HTTP.Addr != "" {
		cfg.HTTPAddr = fc.HTTP.Addr
	}
	if (cfg.UserAgent == "" || cfg.UserAgent == uaDefault) && fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if cfg.FetchTimeout == 0 && fc.Fetch.Timeout > 0 {
		cfg.FetchTimeout = fc.Fetch.Timeout
	}
	if cfg.FetchAttempts == 0 && fc.Fetch.Attempts > 0 {
		cfg.FetchAttempts = fc.Fetch.Attempts
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
