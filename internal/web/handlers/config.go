package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-stream/internal/config"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
	}
}

// ConfigResponse represents the configuration response
type ConfigResponse struct {
	EmotionProvider string   `json:"emotion_provider"`
	EmotionEvery    int      `json:"emotion_every"`
	MaxDisappeared  int      `json:"tracker_max_disappeared"`
	MaxDistance     float64  `json:"tracker_max_distance"`
	Labels          []string `json:"labels"`
}

// Get returns the effective runtime configuration
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	response := ConfigResponse{
		EmotionProvider: h.config.Emotion.Provider,
		EmotionEvery:    h.config.Emotion.Every,
		MaxDisappeared:  h.config.Tracker.MaxDisappeared,
		MaxDistance:     h.config.Tracker.MaxDistance,
		Labels:          h.config.Labels.Labels,
	}

	respondJSON(w, http.StatusOK, response)
}
