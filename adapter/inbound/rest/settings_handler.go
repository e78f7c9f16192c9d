package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/ajkula/dirtidy/config"
	"github.com/ajkula/dirtidy/domain/model"
)

// Settings exposes the running configuration and the runtime log level
type Settings struct {
	mu       sync.RWMutex
	config   *config.Config
	filePath string
	logger   model.Logger
}

func NewSettings(cfg *config.Config, filePath string, logger model.Logger) *Settings {
	return &Settings{config: cfg, filePath: filePath, logger: logger}
}

type SettingsResponse struct {
	Config   config.PublicConfig `json:"config"`
	FilePath string              `json:"filePath,omitempty"`
	Message  string              `json:"message,omitempty"`
}

type LogLevelRequest struct {
	Level string `json:"level"`
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	h.settings.mu.RLock()
	response := SettingsResponse{
		Config:   h.settings.config.Public(),
		FilePath: h.settings.filePath,
	}
	h.settings.mu.RUnlock()

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) updateLogLevel(w http.ResponseWriter, r *http.Request) {
	var req LogLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}

	if err := h.settings.setLogLevel(req.Level); err != nil {
		h.badRequest(w, err.Error())
		return
	}

	h.settings.mu.RLock()
	response := SettingsResponse{
		Config:  h.settings.config.Public(),
		Message: "Log level updated",
	}
	h.settings.mu.RUnlock()

	writeJSON(w, http.StatusOK, response)
}

func (s *Settings) setLogLevel(level string) error {
	normalizedLevel := strings.ToLower(level)
	switch normalizedLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	// the adapter writes the level back into the shared config
	s.mu.Lock()
	s.logger.UpdateLevel(normalizedLevel)
	s.mu.Unlock()

	return nil
}
