package renderer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"quotereel/internal/assets"
	"quotereel/internal/media"
	"quotereel/internal/overlay"
	"quotereel/internal/pkg/errors"
	"quotereel/internal/pkg/logger"
)

// subtitleGap is the vertical space between the quote block and an optional
// subtitle block.
const subtitleGap = 20

// Job is one render as the pipeline hands it over: chosen assets plus the
// raw text and resolved style.
type Job struct {
	Video    assets.Ref
	Music    *assets.Ref
	Quote    string
	Subtitle string
	Style    overlay.Style
	// MaxDuration caps the output length in seconds. Zero means the full
	// source clip.
	MaxDuration float64
}

// Composer probes the source, derives the final duration, builds the overlay
// specs, and drives the configured engine. It owns output naming.
type Composer struct {
	Engine    Engine
	Builder   overlay.Builder
	OutputDir string
	Encoding  Encoding
	Log       *logger.Logger
}

// Render runs one job to completion. The returned Result reflects the output
// file as probed, not as requested.
func (c *Composer) Render(ctx context.Context, job Job, sink EventSink) (*Result, error) {
	log := c.Log.FromContext(ctx).WithComponent("composer")

	src, err := media.Probe(job.Video.LocalPath)
	if err != nil {
		e := errors.RenderFailed(err, c.Engine.Name()).WithField("video", job.Video.Filename)
		sink.fail(e)
		return nil, e
	}

	final := finalDuration(src.Duration, job.MaxDuration)

	overlays, err := c.buildOverlays(job, final)
	if err != nil {
		sink.fail(err)
		return nil, err
	}

	outputID := fmt.Sprintf("gen_%d", time.Now().UnixNano())
	filename := outputID + ".mp4"
	outputPath := filepath.Join(c.OutputDir, filename)
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		e := errors.RenderFailed(err, c.Engine.Name())
		sink.fail(e)
		return nil, e
	}

	req := EngineRequest{
		VideoPath:  job.Video.LocalPath,
		Audio:      audioMode(job.Music, src.HasAudio),
		Overlays:   overlays,
		Duration:   final,
		Width:      src.Width,
		Height:     src.Height,
		OutputPath: outputPath,
		Encoding:   c.Encoding,
	}
	if job.Music != nil {
		req.MusicPath = job.Music.LocalPath
	}

	sink.start(c.Engine.Name())
	log.Info("render started",
		"engine", c.Engine.Name(),
		"output_id", outputID,
		"video", job.Video.Filename,
		"duration", final,
		"audio_mode", int(req.Audio),
		"overlay_lines", len(overlays[0].Lines))

	if err := c.Engine.Render(ctx, req, sink.progress()); err != nil {
		os.Remove(outputPath)
		e := errors.RenderFailed(err, c.Engine.Name()).WithField("output_id", outputID)
		sink.fail(e)
		return nil, e
	}

	out, err := media.Probe(outputPath)
	if err != nil {
		os.Remove(outputPath)
		e := errors.RenderFailed(err, c.Engine.Name()).WithField("output_id", outputID)
		sink.fail(e)
		return nil, e
	}

	res := &Result{
		OutputID:        outputID,
		Filename:        filename,
		OutputPath:      outputPath,
		DurationSeconds: out.Duration,
		HasAudio:        out.HasAudio,
		Width:           out.Width,
		Height:          out.Height,
	}
	log.Info("render complete",
		"engine", c.Engine.Name(),
		"output_id", outputID,
		"measured_duration", out.Duration,
		"has_audio", out.HasAudio)
	sink.complete(res)
	return res, nil
}

// Discard removes a render's local artifact, for callers that cannot keep it.
func (c *Composer) Discard(res *Result) {
	if res != nil && res.OutputPath != "" {
		os.Remove(res.OutputPath)
	}
}

func (c *Composer) buildOverlays(job Job, duration float64) ([]*overlay.Spec, error) {
	quote, err := c.Builder.Build(job.Quote, job.Style, duration)
	if err != nil {
		return nil, err
	}
	overlays := []*overlay.Spec{quote}

	if job.Subtitle != "" {
		subStyle := job.Style
		subStyle.FontSize = job.Style.FontSize / 2
		if subStyle.FontSize < overlay.MinFontSize {
			subStyle.FontSize = overlay.MinFontSize
		}
		sub, err := c.Builder.Build(job.Subtitle, subStyle, duration)
		if err != nil {
			return nil, err
		}
		sub.YShift = quote.BlockHeight() + subtitleGap
		overlays = append(overlays, sub)
	}
	return overlays, nil
}

// finalDuration is the output length: the source duration, capped by the
// requested maximum when one is set.
func finalDuration(source, max float64) float64 {
	if max > 0 && max < source {
		return max
	}
	return source
}

func audioMode(music *assets.Ref, srcHasAudio bool) AudioMode {
	switch {
	case music != nil && srcHasAudio:
		return AudioMix
	case music != nil:
		return AudioMusicOnly
	case srcHasAudio:
		return AudioSource
	default:
		return AudioNone
	}
}
