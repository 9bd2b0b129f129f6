package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"quotereel/internal/httpkit"
	"quotereel/internal/pipeline"
)

// Download streams a rendered output as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	outputID := filepath.Base(chi.URLParam(r, "outputID"))
	filename := outputID + ".mp4"
	path := filepath.Join(h.outputDir, filename)

	if _, err := os.Stat(path); err != nil {
		httpkit.WriteErr(w, 404, "NOT_FOUND", "output not found",
			map[string]any{"outputId": outputID})
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	http.ServeFile(w, r, path)
}

// ListCleanups reports deletions scheduled for rendered outputs.
func (h *Handler) ListCleanups(w http.ResponseWriter, r *http.Request) {
	pending := []pipeline.Pending{}
	if h.cleanup != nil {
		pending = h.cleanup.Pending()
	}

	httpkit.WriteJSON(w, 200, map[string]any{
		"enabled":  h.cleanup != nil,
		"cleanups": pending,
	})
}
