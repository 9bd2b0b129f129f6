package handlers

import (
	"net/http"

	"quotereel/internal/httpkit"
)

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.history.List()
	if err != nil {
		h.log.FromContext(r.Context()).Error("failed to read history", "error", err.Error())
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "failed to read history", nil)
		return
	}

	httpkit.WriteJSON(w, 200, map[string]any{"history": entries})
}

func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.history.Clear(); err != nil {
		h.log.FromContext(r.Context()).Error("failed to clear history", "error", err.Error())
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "failed to clear history", nil)
		return
	}

	httpkit.WriteJSON(w, 200, map[string]any{"success": true})
}
