package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seenimoa/stockgraph/internal/chart"
	"github.com/seenimoa/stockgraph/pkg/models"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Chart defaults
	if cfg.Chart.Width != 640 {
		t.Errorf("Chart.Width: got %f, want 640", cfg.Chart.Width)
	}
	if cfg.Chart.Height != 320 {
		t.Errorf("Chart.Height: got %f, want 320", cfg.Chart.Height)
	}
	want := chart.DefaultStyle()
	if cfg.Chart.Style != want {
		t.Errorf("Chart.Style: got %+v, want %+v", cfg.Chart.Style, want)
	}

	// Render defaults
	if cfg.Render.Format != "svg" {
		t.Errorf("Render.Format: got %q, want %q", cfg.Render.Format, "svg")
	}
	if cfg.Render.Concurrency != 4 {
		t.Errorf("Render.Concurrency: got %d, want 4", cfg.Render.Concurrency)
	}

	// API defaults
	if cfg.API.Host != "0.0.0.0" {
		t.Errorf("API.Host: got %q, want %q", cfg.API.Host, "0.0.0.0")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("API.CORSOrigins: got %v", cfg.API.CORSOrigins)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")

	content := []byte(`
chart:
  width: 800
  height: 300
  style:
    line_mode: curved
    curve_smoothness: 0.35
    bar_width_ratio: 0.5
    gradient_enabled: false
render:
  format: json
  concurrency: 2
api:
  port: 9090
logging:
  level: debug
  format: json
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Chart.Width != 800 {
		t.Errorf("Chart.Width: got %f, want 800", cfg.Chart.Width)
	}
	if cfg.Chart.Style.LineMode != models.LineCurved {
		t.Errorf("Chart.Style.LineMode: got %q, want %q", cfg.Chart.Style.LineMode, models.LineCurved)
	}
	if cfg.Chart.Style.CurveSmoothness != 0.35 {
		t.Errorf("Chart.Style.CurveSmoothness: got %f, want 0.35", cfg.Chart.Style.CurveSmoothness)
	}
	if cfg.Chart.Style.BarWidthRatio != 0.5 {
		t.Errorf("Chart.Style.BarWidthRatio: got %f, want 0.5", cfg.Chart.Style.BarWidthRatio)
	}
	if cfg.Chart.Style.GradientEnabled {
		t.Error("Chart.Style.GradientEnabled: got true, want false")
	}
	// Untouched style keys keep their defaults.
	if cfg.Chart.Style.StrokeColor != chart.DefaultStyle().StrokeColor {
		t.Errorf("Chart.Style.StrokeColor: got %q", cfg.Chart.Style.StrokeColor)
	}
	if cfg.Render.Format != "json" {
		t.Errorf("Render.Format: got %q, want %q", cfg.Render.Format, "json")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

func TestLoadFromFileRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad line mode", "chart:\n  style:\n    line_mode: zigzag\n", "line_mode"},
		{"bad format", "render:\n  format: png\n", "render.format"},
		{"bad size", "chart:\n  width: 0\n", "chart size"},
		{"nan size", "chart:\n  height: .nan\n", "chart size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(cfgPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			_, err := LoadFromFile(cfgPath)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFromFile() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

// ── Environment overrides ──

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("STOCKGRAPH_API_PORT", "7070")
	t.Setenv("STOCKGRAPH_CHART_STYLE_PADDING", "24")
	t.Setenv("STOCKGRAPH_LOGGING_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Port != 7070 {
		t.Errorf("API.Port: got %d, want 7070", cfg.API.Port)
	}
	if cfg.Chart.Style.Padding != 24 {
		t.Errorf("Chart.Style.Padding: got %f, want 24", cfg.Chart.Style.Padding)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "warn")
	}
}

// ── Helpers ──

func TestChartStyleIsNormalized(t *testing.T) {
	cfg := &Config{}
	cfg.Chart.Style = chart.DefaultStyle()
	cfg.Chart.Style.BarWidthRatio = 5
	cfg.Chart.Style.CurveSmoothness = 2

	got := cfg.ChartStyle()
	if got.BarWidthRatio != chart.MaxBarWidthRatio {
		t.Errorf("BarWidthRatio: got %f, want %f", got.BarWidthRatio, chart.MaxBarWidthRatio)
	}
	if got.CurveSmoothness != chart.MaxSmoothness {
		t.Errorf("CurveSmoothness: got %f, want %f", got.CurveSmoothness, chart.MaxSmoothness)
	}
}

func TestValidateClampsConcurrency(t *testing.T) {
	cfg := &Config{
		Chart:  ChartConfig{Width: 10, Height: 10, Style: chart.DefaultStyle()},
		Render: RenderConfig{Format: "svg", Concurrency: 0},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if cfg.Render.Concurrency != 1 {
		t.Errorf("Render.Concurrency: got %d, want 1", cfg.Render.Concurrency)
	}
}

func TestAPIAddr(t *testing.T) {
	c := APIConfig{Host: "127.0.0.1", Port: 8081}
	if got := c.Addr(); got != "127.0.0.1:8081" {
		t.Errorf("Addr(): got %q", got)
	}
}

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	if homeDir() == "" {
		t.Error("homeDir() returned empty string")
	}
}

func TestChartStyleLineModeIsCaseInsensitive(t *testing.T) {
	t.Setenv("STOCKGRAPH_CHART_STYLE_LINE_MODE", "CURVED")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := cfg.ChartStyle().LineMode; got != models.LineCurved {
		t.Errorf("ChartStyle().LineMode: got %q, want %q", got, models.LineCurved)
	}

	cfg.Chart.Style.LineMode = "Curved"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if got := cfg.ChartStyle().LineMode; got != models.LineCurved {
		t.Errorf("ChartStyle().LineMode: got %q, want %q", got, models.LineCurved)
	}
}
