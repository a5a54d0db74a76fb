// Package httpapi is the daemon's ambient HTTP surface: liveness and
// Prometheus exposition only. It intentionally carries no routing for
// event ingestion, user/admin CRUD, or authentication — that business API
// belongs to the layer this project does not implement.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Handler holds the dependencies the ambient routes need.
type Handler struct {
	logger *slog.Logger
}

// NewHandler builds a Handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// HealthLive answers liveness probes unconditionally: if the process can
// run this handler, it is alive.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		h.logger.Error("failed encoding health response", "error", err)
	}
}
