package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"sync"

	"github.com/maitrix-org/simworld/pkg/config"
	"github.com/maitrix-org/simworld/pkg/export"
	"github.com/maitrix-org/simworld/pkg/layout"
	"github.com/maitrix-org/simworld/pkg/render"
	"github.com/maitrix-org/simworld/pkg/validation"
)

// Server is the local development server for inspecting generated
// layouts.
type Server struct {
	projectPath string
	port        int

	mu     sync.RWMutex
	cfg    *config.Config
	layout *layout.CityLayout
	report *validation.Report
}

// New creates a server for the given project directory.
func New(projectPath string, port int) *Server {
	return &Server{
		projectPath: projectPath,
		port:        port,
	}
}

// Start generates a layout from the project config and launches the
// HTTP server.
func (s *Server) Start() error {
	if err := s.regenerate(); err != nil {
		return err
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/layout", s.handleLayout)
	mux.HandleFunc("GET /api/world", s.handleWorld)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /preview.png", s.handlePreview)
	mux.HandleFunc("GET /", s.handleIndex)

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("citygen server starting on http://localhost%s", addr)
	log.Printf("Project: %s", s.projectPath)

	return http.ListenAndServe(addr, mux)
}

// regenerate reloads the project config and runs the full pipeline.
func (s *Server) regenerate() error {
	cfg, err := config.LoadProject(s.projectPath)
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}
	l, report, err := layout.Generate(cfg)
	if err != nil {
		return fmt.Errorf("generating layout: %w", err)
	}

	s.mu.Lock()
	s.cfg = cfg
	s.layout = l
	s.report = report
	s.mu.Unlock()
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>citygen</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>citygen</h1>
<p><a style="color:#8cf" href="/preview.png">preview</a> &middot;
<a style="color:#8cf" href="/api/layout">layout</a> &middot;
<a style="color:#8cf" href="/api/world">world</a> &middot;
<a style="color:#8cf" href="/api/report">report</a></p>
</div>
</body></html>`)
}

func (s *Server) handleLayout(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, s.layout)
}

func (s *Server) handleWorld(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, export.BuildWorld(s.layout, export.DefaultBaseMap()))
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, s.report)
}

func (s *Server) handleGenerate(w http.ResponseWriter, _ *http.Request) {
	if err := s.regenerate(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, map[string]any{
		"seed":      s.layout.Seed,
		"segments":  len(s.layout.Segments),
		"buildings": len(s.layout.Buildings),
		"elements":  len(s.layout.Elements),
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	im := render.Image(s.layout, s.cfg, 1, nil)
	s.mu.RUnlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, im); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
