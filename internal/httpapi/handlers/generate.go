package handlers

import (
	"net/http"

	"quotereel/internal/httpkit"
	"quotereel/internal/pipeline"
)

type generateRequest struct {
	Quote    string `json:"quote"`
	Subtitle string `json:"subtitle"`
	Style    struct {
		FontFamily      string `json:"fontFamily"`
		FontSize        int    `json:"fontSize"`
		FontColor       string `json:"fontColor"`
		Position        string `json:"position"`
		BackgroundColor string `json:"backgroundColor"`
		Animation       string `json:"animation"`
	} `json:"style"`
	MaxDuration float64 `json:"maxDuration"`
	// Both flags default to true when omitted, matching the web client.
	AddMusic   *bool `json:"addMusic"`
	AutoDelete *bool `json:"autoDelete"`
}

// Generate runs one quote-to-video job synchronously and responds with the
// finished output's metadata.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "invalid JSON body", nil)
		return
	}

	resp, err := h.pipeline.Generate(r.Context(), pipeline.Request{
		Quote:           req.Quote,
		Subtitle:        req.Subtitle,
		FontFamily:      req.Style.FontFamily,
		FontSize:        req.Style.FontSize,
		FontColor:       req.Style.FontColor,
		Position:        req.Style.Position,
		BackgroundColor: req.Style.BackgroundColor,
		Animation:       req.Style.Animation,
		MaxDuration:     req.MaxDuration,
		AddMusic:        req.AddMusic == nil || *req.AddMusic,
		AutoDelete:      req.AutoDelete == nil || *req.AutoDelete,
	})
	if err != nil {
		httpkit.WriteError(w, err)
		return
	}

	httpkit.WriteJSON(w, 200, map[string]any{
		"success":     true,
		"video":       resp,
		"downloadUrl": "/api/download/" + resp.OutputID,
	})
}
