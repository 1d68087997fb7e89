// Package server exposes the current reading and the full station set over
// HTTP for polling consumers.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gaugeworks/riverwatch/internal/poll"
)

// StateProvider hands out the current poll snapshot.
type StateProvider interface {
	State() poll.State
	Ready() bool
}

// Server wraps the HTTP listener and routes.
type Server struct {
	httpServer *http.Server
	provider   StateProvider
	name       string
	unit       string
	log        zerolog.Logger
}

// New creates the server with /api/reading, /api/stations, /healthz, and
// /metrics routes.
func New(addr string, provider StateProvider, name, unit string, log zerolog.Logger) *Server {
	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		provider: provider,
		name:     name,
		unit:     unit,
		log:      log,
	}

	mux.HandleFunc("GET /api/reading", s.handleReading)
	mux.HandleFunc("GET /api/stations", s.handleStations)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("http server starting")
	return s.httpServer.ListenAndServe()
}

// Shutdown drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type readingResponse struct {
	Name       string   `json:"name"`
	Unit       string   `json:"unit"`
	Available  bool     `json:"available"`
	Outcome    string   `json:"outcome"`
	Height     *float64 `json:"height,omitempty"`
	Station    string   `json:"station_name,omitempty"`
	Timestamp  string   `json:"timestamp,omitempty"`
	Trend      string   `json:"trend,omitempty"`
	Status     string   `json:"status,omitempty"`
	Annotation string   `json:"annotation,omitempty"`
	UpdatedAt  string   `json:"updated_at,omitempty"`
}

type stationSummary struct {
	Station   string  `json:"station_name"`
	Height    float64 `json:"height"`
	Timestamp string  `json:"timestamp"`
	Trend     string  `json:"trend"`
	Status    string  `json:"status"`
}

type stationsResponse struct {
	UpdatedAt string           `json:"updated_at,omitempty"`
	Stations  []stationSummary `json:"stations"`
}

func (s *Server) handleReading(w http.ResponseWriter, _ *http.Request) {
	st := s.provider.State()
	resp := readingResponse{
		Name:      s.name,
		Unit:      s.unit,
		Available: st.Available,
		Outcome:   st.Outcome.String(),
	}
	if !st.UpdatedAt.IsZero() {
		resp.UpdatedAt = st.UpdatedAt.Format(time.RFC3339)
	}
	if st.Reading != nil {
		h := st.Reading.Height
		resp.Height = &h
		resp.Station = st.Reading.Station
		resp.Timestamp = st.Reading.Timestamp
		resp.Trend = st.Reading.Trend
		resp.Status = st.Reading.Status
		resp.Annotation = st.Reading.Annotation
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStations(w http.ResponseWriter, _ *http.Request) {
	st := s.provider.State()
	resp := stationsResponse{Stations: make([]stationSummary, 0, len(st.Stations))}
	if !st.UpdatedAt.IsZero() {
		resp.UpdatedAt = st.UpdatedAt.Format(time.RFC3339)
	}
	for _, r := range st.Stations {
		resp.Stations = append(resp.Stations, stationSummary{
			Station:   r.Station,
			Height:    r.Height,
			Timestamp: r.Timestamp,
			Trend:     r.Trend,
			Status:    r.Status,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if !s.provider.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "waiting for first poll"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
