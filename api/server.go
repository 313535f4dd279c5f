// Package api provides the HTTP API server for stockgraph.
//
// It exposes endpoints for one-shot chart rendering (SVG or drawing JSON),
// live WebSocket render sessions, the arithmetic helper, the chart defaults
// and Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/seenimoa/stockgraph/internal/calc"
	"github.com/seenimoa/stockgraph/internal/chart"
	"github.com/seenimoa/stockgraph/internal/chartfile"
	"github.com/seenimoa/stockgraph/internal/config"
	"github.com/seenimoa/stockgraph/internal/report"
	"github.com/seenimoa/stockgraph/pkg/models"
)

// Version is reported by the health endpoint. Set by the CLI at startup.
var Version = "dev"

// maxBodyBytes caps request bodies for render requests.
const maxBodyBytes = 1 << 20

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	log     *zap.Logger
	metrics *Metrics
	wsHub   *WSHub

	defaultsMu sync.RWMutex
	defaults   chartfile.Defaults
}

// NewServer creates a configured API server with all routes and middleware.
// A nil logger disables logging.
func NewServer(cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	srv := &Server{
		cfg:     cfg,
		log:     log,
		metrics: NewMetrics(),
		wsHub:   NewWSHub(),
		defaults: chartfile.Defaults{
			Width:  cfg.Chart.Width,
			Height: cfg.Chart.Height,
			Style:  cfg.ChartStyle(),
		},
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown on SIGINT or
// SIGTERM.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go s.wsHub.Run(hubCtx)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(done)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("API server listening", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-done:
	}
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Rendering
		r.With(middleware.Timeout(30*time.Second)).Post("/render", s.handleRender)
		r.With(middleware.Timeout(30*time.Second)).Get("/render/{kind}", s.handleRenderQuery)

		// Arithmetic
		r.Get("/calc/{op}", s.handleCalc)

		// Chart defaults
		r.Get("/config", s.handleGetConfig)
		r.Put("/config/chart", s.handleUpdateChartDefaults)

		// WebSocket render session
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RenderResult is the JSON payload for format=json renders.
type RenderResult struct {
	Name    string        `json:"name,omitempty"`
	Drawing chart.Drawing `json:"drawing"`
}

// CalcResult is the payload of GET /api/v1/calc/{op}.
type CalcResult struct {
	Op     string `json:"op"`
	A      int    `json:"a"`
	B      int    `json:"b"`
	Result int    `json:"result"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":      "ok",
			"version":     Version,
			"ws_sessions": s.wsHub.ClientCount(),
			"time":        time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// handleRender renders the chart document in the request body.
// ?format=json returns the drawing primitives instead of SVG.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	if format != "svg" && format != "json" {
		writeError(w, http.StatusBadRequest, "format must be svg or json")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	doc, err := chartfile.Parse(body, chartfile.FormatJSON, s.chartDefaults())
	if err != nil {
		s.metrics.RenderFailed("decode")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := doc.Build()
	if err != nil {
		s.metrics.RenderFailed("build")
		writeError(w, statusForError(err), err.Error())
		return
	}

	s.writeDrawing(w, format, doc.Name, c.Render(doc.Width, doc.Height))
}

// handleRenderQuery renders a chart described entirely by query parameters,
// e.g. /api/v1/render/line?values=1,3,2&width=300&height=100&mode=curved.
// Open/close charts take their data from ?flat=.
func (s *Server) handleRenderQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, err := models.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	def := s.chartDefaults()
	doc := &chartfile.Document{
		Kind:   string(kind),
		Width:  def.Width,
		Height: def.Height,
		Style:  def.Style,
	}
	if doc.Width, err = floatParam(q.Get("width"), doc.Width); err != nil {
		writeError(w, http.StatusBadRequest, "width: "+err.Error())
		return
	}
	if doc.Height, err = floatParam(q.Get("height"), doc.Height); err != nil {
		writeError(w, http.StatusBadRequest, "height: "+err.Error())
		return
	}
	if doc.Baseline, err = floatParam(q.Get("baseline"), 0); err != nil {
		writeError(w, http.StatusBadRequest, "baseline: "+err.Error())
		return
	}
	if m := q.Get("mode"); m != "" {
		doc.Style.LineMode = models.LineMode(m)
	}
	if doc.Values, err = floatList(q.Get("values")); err != nil {
		writeError(w, http.StatusBadRequest, "values: "+err.Error())
		return
	}
	if doc.Flat, err = floatList(q.Get("flat")); err != nil {
		writeError(w, http.StatusBadRequest, "flat: "+err.Error())
		return
	}
	if err := doc.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := doc.Build()
	if err != nil {
		s.metrics.RenderFailed("build")
		writeError(w, statusForError(err), err.Error())
		return
	}
	s.writeDrawing(w, "svg", "", c.Render(doc.Width, doc.Height))
}

func (s *Server) writeDrawing(w http.ResponseWriter, format, name string, d chart.Drawing) {
	s.metrics.Rendered(d.Kind, format)
	if format == "json" {
		writeJSON(w, http.StatusOK, APIResponse{
			Success: true,
			Data:    RenderResult{Name: name, Drawing: d},
		})
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, report.SVG(d, report.SVGOptions{Title: name, Message: "No data"})); err != nil {
		s.log.Warn("failed to write SVG response", zap.Error(err))
	}
}

func (s *Server) handleCalc(w http.ResponseWriter, r *http.Request) {
	op := chi.URLParam(r, "op")
	a, errA := strconv.Atoi(r.URL.Query().Get("a"))
	b, errB := strconv.Atoi(r.URL.Query().Get("b"))
	if errA != nil || errB != nil {
		writeError(w, http.StatusBadRequest, "a and b must be integers")
		return
	}

	result, err := calc.Apply(op, a, b)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, calc.ErrUnknownOp) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    CalcResult{Op: strings.ToLower(op), A: a, B: b, Result: result},
	})
}

// ============================================================
// Helpers
// ============================================================

func (s *Server) chartDefaults() chartfile.Defaults {
	s.defaultsMu.RLock()
	defer s.defaultsMu.RUnlock()
	return s.defaults
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, chart.ErrInvalidArgument),
		errors.Is(err, models.ErrUnknownKind),
		errors.Is(err, models.ErrUnknownLineMode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func floatParam(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	return parseFinite(s)
}

// parseFinite parses a float, rejecting NaN and ±Inf.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not a finite number", chart.ErrInvalidArgument, s)
	}
	return v, nil
}

func floatList(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := parseFinite(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}

// requestLogger logs one line per request with its status and latency.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("latency", time.Since(start)),
			)
		})
	}
}
