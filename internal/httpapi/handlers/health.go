package handlers

import (
	"net/http"

	"quotereel/internal/httpkit"
)

// Health reports service status. With ?deep=true it also inspects the asset
// pools, since an empty video pool means every generation will fail.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{
		"status":  "ok",
		"service": "quotereel-api",
		"backend": h.renderBackend,
		"version": "0.1.0",
	}

	if r.URL.Query().Get("deep") == "true" {
		videos, err := h.selector.List()
		pools := map[string]any{"status": "ok", "videos": len(videos)}
		if err != nil {
			pools["status"] = "error"
			pools["error"] = err.Error()
			health["status"] = "degraded"
		} else if len(videos) == 0 {
			pools["status"] = "empty"
			health["status"] = "degraded"
		}
		health["checks"] = map[string]any{"pools": pools}
	}

	httpkit.WriteJSON(w, 200, health)
}
