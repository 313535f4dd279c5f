package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/seenimoa/stockgraph/internal/chart"
	"github.com/seenimoa/stockgraph/internal/config"
	"github.com/seenimoa/stockgraph/pkg/models"
)

// ConfigResponse is the JSON envelope returned by GET /api/v1/config.
type ConfigResponse struct {
	Chart   ChartDefaults        `json:"chart"`
	Render  config.RenderConfig  `json:"render"`
	API     config.APIConfig     `json:"api"`
	Logging config.LoggingConfig `json:"logging"`
}

// ChartDefaults is the canvas size and style new charts start with.
type ChartDefaults struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Style  chart.Style `json:"style"`
}

// handleGetConfig returns the running configuration. Chart values reflect
// updates made through PUT /config/chart.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	def := s.chartDefaults()
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Chart:   ChartDefaults{Width: def.Width, Height: def.Height, Style: def.Style},
			Render:  s.cfg.Render,
			API:     s.cfg.API,
			Logging: s.cfg.Logging,
		},
	})
}

// handleUpdateChartDefaults merges a partial ChartDefaults body into the
// current defaults. Open sessions are notified but keep their own style.
func (s *Server) handleUpdateChartDefaults(w http.ResponseWriter, r *http.Request) {
	def := s.chartDefaults()

	// Absent fields keep their current value.
	next := ChartDefaults{Width: def.Width, Height: def.Height, Style: def.Style}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&next); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if _, err := models.ParseLineMode(string(next.Style.LineMode)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if next.Width <= 0 || next.Height <= 0 {
		writeError(w, http.StatusBadRequest, "width and height must be positive")
		return
	}
	next.Style = next.Style.Normalize()

	s.defaultsMu.Lock()
	s.defaults.Width = next.Width
	s.defaults.Height = next.Height
	s.defaults.Style = next.Style
	s.defaultsMu.Unlock()

	s.log.Info("chart defaults updated",
		zap.Float64("width", next.Width),
		zap.Float64("height", next.Height),
		zap.String("line_mode", string(next.Style.LineMode)),
	)
	s.wsHub.Broadcast(WSMessage{Type: "defaults_updated", Data: next})

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: next})
}
