package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"quotereel/internal/assets"
	"quotereel/internal/httpkit"
)

// ListVideos enumerates the local video pool.
func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) {
	refs, err := h.selector.List()
	if err != nil {
		h.log.FromContext(r.Context()).Error("failed to list video pool", "error", err.Error())
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "failed to list videos", nil)
		return
	}

	httpkit.WriteJSON(w, 200, map[string]any{
		"videos": refs,
		"count":  len(refs),
	})
}

// UploadVideo accepts a multipart upload into the video pool.
func (h *Handler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	log := h.log.FromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "file is required", map[string]any{"field": "file"})
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if !allowedVideo(filename) {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "unsupported video format",
			map[string]any{"allowed": assets.VideoExtensions})
		return
	}

	if err := os.MkdirAll(h.selector.VideoDir, 0o755); err != nil {
		log.Error("failed to create video pool dir", "error", err.Error())
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "failed to store video", nil)
		return
	}

	dst, err := os.Create(filepath.Join(h.selector.VideoDir, filename))
	if err != nil {
		log.Error("failed to create pool file", "error", err.Error())
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "failed to store video", nil)
		return
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(dst.Name())
		log.Error("failed to write pool file", "error", err.Error())
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "failed to store video", nil)
		return
	}

	log.Info("video added to pool", "filename", filename, "size_bytes", size)
	httpkit.WriteJSON(w, 201, map[string]any{
		"success":   true,
		"filename":  filename,
		"sizeBytes": size,
	})
}

// DeleteVideo removes one file from the video pool.
func (h *Handler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	if err := h.selector.Delete(filename); err != nil {
		if os.IsNotExist(err) {
			httpkit.WriteErr(w, 404, "NOT_FOUND", "video not found",
				map[string]any{"filename": filename})
			return
		}
		h.log.FromContext(r.Context()).Error("failed to delete pool video",
			"filename", filename, "error", err.Error())
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "failed to delete video", nil)
		return
	}

	httpkit.WriteJSON(w, 200, map[string]any{"success": true})
}

func allowedVideo(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range assets.VideoExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
