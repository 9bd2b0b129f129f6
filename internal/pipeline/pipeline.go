// Package pipeline runs one generation end to end: asset selection, render,
// optional upload, history recording, and cleanup scheduling. A generation
// is synchronous within the request but detaches from the caller's context,
// so a dropped connection never abandons a render midway.
package pipeline

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"quotereel/internal/assets"
	"quotereel/internal/history"
	"quotereel/internal/overlay"
	"quotereel/internal/pkg/errors"
	"quotereel/internal/pkg/logger"
	"quotereel/internal/ports"
	"quotereel/internal/renderer"
	"quotereel/internal/storage"
)

const (
	// MaxQuoteChars bounds the quote length in runes.
	MaxQuoteChars = 500
	// MaxSubtitleChars bounds the optional subtitle.
	MaxSubtitleChars = 200
)

// Defaults fill style fields a request omits.
type Defaults struct {
	FontFamily string
	FontSize   int
	FontColor  string
	Position   string
}

// Request is one generation as the API hands it over. Zero-valued style
// fields fall back to the configured defaults.
type Request struct {
	Quote           string
	Subtitle        string
	FontFamily      string
	FontSize        int
	FontColor       string
	Position        string
	BackgroundColor string
	Animation       string
	// MaxDuration caps the output in seconds; zero means the full clip.
	MaxDuration float64
	// AddMusic picks a background track when true; false renders with the
	// source audio only.
	AddMusic bool
	// AutoDelete schedules local removal of the output after the retention
	// delay. It has no effect when no cleanup scheduler is configured.
	AutoDelete bool
}

// Response describes a finished generation.
type Response struct {
	OutputID        string     `json:"outputId"`
	Filename        string     `json:"filename"`
	VideoUsed       string     `json:"videoUsed"`
	MusicUsed       string     `json:"musicUsed"`
	DurationSeconds float64    `json:"durationSeconds"`
	HasAudio        bool       `json:"hasAudio"`
	RemoteURL       string     `json:"remoteUrl,omitempty"`
	CleanupAt       *time.Time `json:"cleanupAt,omitempty"`
}

// Renderer is the composer surface the pipeline drives. Satisfied by
// *renderer.Composer.
type Renderer interface {
	Render(ctx context.Context, job renderer.Job, sink renderer.EventSink) (*renderer.Result, error)
	Discard(res *renderer.Result)
}

// Pipeline wires the generation stages together. Storage may be nil when
// uploads are disabled, and Cleanup may be nil when outputs are kept
// indefinitely.
type Pipeline struct {
	Selector *assets.Selector
	Composer Renderer
	History  *history.Store
	Storage  storage.Provider
	Cleanup  *Cleanup
	Defaults Defaults
	Log      *logger.Logger
}

// Generate runs one job. Validation failures and an empty video pool reject
// the request before any work happens; render and upload failures are
// terminal; history and cleanup failures only log.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*Response, error) {
	style, err := p.resolveStyle(req)
	if err != nil {
		return nil, err
	}

	// The render outlives the HTTP request on purpose.
	ctx = context.WithoutCancel(ctx)
	log := p.Log.FromContext(ctx).WithComponent("pipeline")

	video, err := p.Selector.RandomVideo()
	if err != nil {
		return nil, errors.Wrap(err, "pipeline.Generate", "video pool unreadable")
	}
	if video == nil {
		return nil, errors.NoAsset("video")
	}

	var music *assets.Ref
	if req.AddMusic {
		music, err = p.Selector.RandomMusic()
		if err != nil || music == nil {
			// A silent output is acceptable; an empty music pool is not an error.
			log.Info("no music track available, rendering without music")
			music = nil
		}
	}

	res, err := p.Composer.Render(ctx, renderer.Job{
		Video:       *video,
		Music:       music,
		Quote:       req.Quote,
		Subtitle:    req.Subtitle,
		Style:       style,
		MaxDuration: req.MaxDuration,
	}, p.renderSink(log))
	if err != nil {
		return nil, err
	}
	log = log.WithJobID(res.OutputID)

	resp := &Response{
		OutputID:        res.OutputID,
		Filename:        res.Filename,
		VideoUsed:       video.Filename,
		MusicUsed:       "None",
		DurationSeconds: res.DurationSeconds,
		HasAudio:        res.HasAudio,
	}
	if music != nil {
		resp.MusicUsed = music.Filename
	}

	if p.Storage != nil {
		uploaded, err := p.Storage.Upload(ctx, res.OutputPath, ports.FolderOutput)
		if err != nil {
			// The artifact is useless if it cannot reach its destination.
			p.Composer.Discard(res)
			return nil, errors.UploadFailed(err, p.Storage.Provider()).
				WithField("output_id", res.OutputID)
		}
		resp.RemoteURL = uploaded.RemoteURL
		log.Info("output uploaded", "provider", p.Storage.Provider(), "remote_url", uploaded.RemoteURL)
	}

	entry := history.Entry{
		ID:         res.OutputID,
		VideoUsed:  video.Filename,
		MusicUsed:  resp.MusicUsed,
		Duration:   res.DurationSeconds,
		AutoDelete: p.Cleanup != nil && req.AutoDelete,
	}
	if err := p.History.Append(entry); err != nil {
		// History is advisory; the video itself succeeded.
		log.Warn("failed to record history entry", "error", err.Error())
	}

	if p.Cleanup != nil && req.AutoDelete {
		runAt := p.Cleanup.Schedule(res.OutputID, res.OutputPath)
		resp.CleanupAt = &runAt
	}

	log.Info("generation complete",
		"video", resp.VideoUsed,
		"music", resp.MusicUsed,
		"duration", resp.DurationSeconds)
	return resp, nil
}

func (p *Pipeline) renderSink(log *logger.Logger) renderer.EventSink {
	return renderer.EventSink{
		OnProgress: func(fraction float64) {
			log.Debug("render progress", "fraction", fraction)
		},
		OnError: func(err error) {
			log.Error("render failed", "error", err.Error())
		},
	}
}

// resolveStyle validates the text fields and fills style defaults.
func (p *Pipeline) resolveStyle(req Request) (overlay.Style, error) {
	var zero overlay.Style

	quote := strings.TrimSpace(req.Quote)
	if quote == "" {
		return zero, errors.ValidationField("quote", "quote is required")
	}
	if utf8.RuneCountInString(quote) > MaxQuoteChars {
		return zero, errors.Validationf("quote exceeds %d characters", MaxQuoteChars)
	}
	if utf8.RuneCountInString(req.Subtitle) > MaxSubtitleChars {
		return zero, errors.Validationf("subtitle exceeds %d characters", MaxSubtitleChars)
	}

	style := overlay.Style{
		FontFamily:      or(req.FontFamily, p.Defaults.FontFamily),
		FontSize:        orInt(req.FontSize, p.Defaults.FontSize),
		FontColor:       or(req.FontColor, p.Defaults.FontColor),
		BackgroundColor: req.BackgroundColor,
	}

	pos, err := overlay.ParsePosition(or(req.Position, p.Defaults.Position))
	if err != nil {
		return zero, err
	}
	style.Position = pos

	if req.Animation != "" {
		anim, err := overlay.ParseAnimation(req.Animation)
		if err != nil {
			return zero, err
		}
		style.Animation = anim
	}

	if err := style.Validate(); err != nil {
		return zero, err
	}
	return style, nil
}

func or(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}
