package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"lorasim/internal/logging"
	"lorasim/internal/metrics"
)

// ProgressSource exposes the live state of a run; *metrics.Collector implements it.
type ProgressSource interface {
	Progress() metrics.Progress
}

// Server serves a live view of a running simulation.
type Server struct {
	RunID  string
	Source ProgressSource
	tpl    *template.Template
	mux    *http.ServeMux
}

//go:embed templates/index.html
var content embed.FS

// NewServer creates a server for the run identified by runID.
func NewServer(runID string, src ProgressSource) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	s := &Server{RunID: runID, Source: src, tpl: tpl, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/progress", s.handleProgress)
	s.mux.HandleFunc("/healthz", s.handleHealth)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.mux }

// Start listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	p := s.Source.Progress()
	data := struct {
		RunID    string
		SimTimeS float64
		Progress metrics.Progress
	}{RunID: s.RunID, SimTimeS: p.SimTime.Seconds(), Progress: p}
	if err := s.tpl.Execute(w, data); err != nil {
		logging.FromContext(r.Context()).Error("render index failed", "err", err)
	}
}

type progressResponse struct {
	RunID    string           `json:"run_id"`
	SimTimeS float64          `json:"sim_time_s"`
	Progress metrics.Progress `json:"progress"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	p := s.Source.Progress()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(progressResponse{RunID: s.RunID, SimTimeS: p.SimTime.Seconds(), Progress: p})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"status": "ok", "run_id": s.RunID})
}
