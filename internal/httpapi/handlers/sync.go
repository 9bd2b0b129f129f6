package handlers

import (
	"net/http"

	"quotereel/internal/httpkit"
)

// SyncPools reconciles the local asset pools against the remote store.
func (h *Handler) SyncPools(w http.ResponseWriter, r *http.Request) {
	if h.syncer == nil {
		httpkit.WriteErr(w, 400, "BAD_REQUEST", "no storage provider configured", nil)
		return
	}

	reports, err := h.syncer.Sync(r.Context())
	if err != nil {
		h.log.FromContext(r.Context()).Error("pool sync failed", "error", err.Error())
		httpkit.WriteError(w, err)
		return
	}

	httpkit.WriteJSON(w, 200, map[string]any{
		"success": true,
		"folders": reports,
	})
}
