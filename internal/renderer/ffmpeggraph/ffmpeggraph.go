// Package ffmpeggraph renders locally through an ffmpeg filter graph. Text
// animation arrives as closed-form expressions of t, so drawtext evaluates
// every envelope on ffmpeg's own timeline instead of on pre-sampled frames.
package ffmpeggraph

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"quotereel/internal/overlay"
	"quotereel/internal/renderer"
)

// boxPadding is the drawtext box border width in pixels when a background
// box is requested.
const boxPadding = 10

// Engine renders through a locally installed ffmpeg binary.
type Engine struct{}

func New() *Engine { return &Engine{} }

func (e *Engine) Name() string { return "ffmpeg" }

// Render builds and executes the filter graph for one request. Once the
// ffmpeg process starts it runs to completion; ctx is only honored up front.
func (e *Engine) Render(ctx context.Context, req renderer.EngineRequest, progress func(float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	input := ffmpeg.Input(req.VideoPath)

	video := input.Video()
	for _, spec := range req.Overlays {
		for i := range spec.Lines {
			video = video.Filter("drawtext", ffmpeg.Args{drawtextArgs(spec, i)})
		}
	}

	streams := []*ffmpeg.Stream{video}
	withAudio := true
	switch req.Audio {
	case renderer.AudioSource:
		streams = append(streams, input.Audio())
	case renderer.AudioMusicOnly:
		streams = append(streams, musicStream(req.MusicPath))
	case renderer.AudioMix:
		mixed := ffmpeg.Filter(
			[]*ffmpeg.Stream{input.Audio(), musicStream(req.MusicPath)},
			"amix", ffmpeg.Args{"inputs=2:duration=shortest"})
		streams = append(streams, mixed)
	default:
		withAudio = false
	}

	out := ffmpeg.Output(streams, req.OutputPath, outputKwargs(req, withAudio)).
		OverWriteOutput().
		GlobalArgs("-progress", "pipe:2").
		WithErrorOutput(newProgressWriter(req.Duration, progress))

	if err := out.Run(); err != nil {
		return errors.Wrap(err, "ffmpeg render failed")
	}
	return nil
}

func outputKwargs(req renderer.EngineRequest, withAudio bool) ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"c:v":     req.Encoding.VideoCodec,
		"crf":     req.Encoding.CRF,
		"preset":  req.Encoding.Preset,
		"pix_fmt": req.Encoding.PixelFormat,
		"r":       renderer.OutputFPS,
		"t":       req.Duration,
	}
	if withAudio {
		kwargs["c:a"] = req.Encoding.AudioCodec
	}
	if req.Encoding.FastStart {
		kwargs["movflags"] = "+faststart"
	}
	return kwargs
}

func musicStream(path string) *ffmpeg.Stream {
	return ffmpeg.Input(path).Audio().
		Filter("volume", ffmpeg.Args{fmt.Sprintf("%.2g", renderer.MusicVolume)})
}

// drawtextArgs renders line i of a block as a drawtext option string. The
// animation envelopes become x, y, and alpha expressions evaluated per
// frame; commas inside if() would otherwise split the filter graph, so every
// expression is single-quoted.
func drawtextArgs(spec *overlay.Spec, i int) string {
	parts := []string{
		"text='" + escapeText(spec.Lines[i]) + "'",
		// Quoted like the expressions: a font path may carry a drive colon.
		"fontfile='" + spec.FontFile + "'",
		fmt.Sprintf("fontsize=%d", spec.Style.FontSize),
		"fontcolor=" + spec.FontColor.FFmpeg(),
		"x='" + xExpr(spec.Anim.X) + "'",
		"y='" + yExpr(spec, i) + "'",
		"alpha='" + spec.Anim.Opacity.FFmpeg() + "'",
	}
	if spec.HasBox {
		parts = append(parts,
			"box=1",
			"boxcolor="+spec.BoxColor.FFmpeg(),
			fmt.Sprintf("boxborderw=%d", boxPadding),
		)
	}
	return strings.Join(parts, ":")
}

func xExpr(x overlay.Envelope) string {
	if c, ok := x.(overlay.Const); ok && c == 0 {
		return "(w-text_w)/2"
	}
	return "(w-text_w)/2+" + x.FFmpeg()
}

func yExpr(spec *overlay.Spec, i int) string {
	base := spec.BaseYExpr(i)
	if c, ok := spec.Anim.Y.(overlay.Const); ok && c == 0 {
		return base
	}
	return base + "+" + spec.Anim.Y.FFmpeg()
}

// escapeText guards quote text against drawtext's own quoting. Sanitization
// already restricted the charset, so only backslash and the single quote
// need handling.
func escapeText(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	return strings.ReplaceAll(text, "'", `'\''`)
}
