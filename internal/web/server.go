// Package web serves the sensor's live state: an HTML page, the JSON status
// document and Prometheus metrics.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/sweeney/pir-sensor/internal/status"
)

// Server is the HTTP status endpoint. It only reads from the tracker.
type Server struct {
	tracker *status.Tracker
	srv     *http.Server
}

// New creates a Server bound to addr. Call ListenAndServe to start it.
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.page)
	mux.HandleFunc("GET /index.html", s.page)
	mux.HandleFunc("GET /index.json", s.statusJSON)
	mux.HandleFunc("GET /metrics", s.metrics)
	return mux
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// ListenAndServe blocks until the server fails or is shut down.
func (s *Server) ListenAndServe() error { return s.srv.ListenAndServe() }

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }

func (s *Server) page(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderPage(w, s.tracker.Snapshot())
}

func (s *Server) statusJSON(w http.ResponseWriter, _ *http.Request) {
	body := status.FormatJSON(s.tracker.Snapshot())
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (s *Server) metrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	s.tracker.WritePrometheus(w)
	metrics.WriteProcessMetrics(w)
}
