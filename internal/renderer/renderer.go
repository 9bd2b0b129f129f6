// Package renderer turns a selected clip, an optional music track, and the
// built overlay specs into a finished vertical video. Two interchangeable
// engines exist, a local ffmpeg filter graph and a remote scene renderer,
// and both must honor the same overlay timing semantics.
package renderer

import (
	"context"

	"quotereel/internal/overlay"
)

const (
	// MusicVolume is the attenuation applied to background music before it
	// is mixed under (or substituted for) the source audio.
	MusicVolume = 0.3

	// OutputFPS is the frame rate of every rendered output.
	OutputFPS = 30
)

// AudioMode describes how the output audio track is assembled.
type AudioMode int

const (
	// AudioNone produces a video-only output: no source audio, no music.
	AudioNone AudioMode = iota
	// AudioSource passes the clip's own audio through untouched.
	AudioSource
	// AudioMusicOnly uses the attenuated music track as the sole audio.
	AudioMusicOnly
	// AudioMix layers attenuated music under the source audio; the mix ends
	// with the shorter of the two inputs.
	AudioMix
)

// Encoding holds the output codec parameters shared by both engines.
type Encoding struct {
	VideoCodec  string
	AudioCodec  string
	CRF         int
	Preset      string
	PixelFormat string
	FastStart   bool
	// Workers bounds frame-level parallelism in the scene renderer. The
	// filter-graph engine ignores it.
	Workers int
}

// DefaultEncoding maps the 0-100 quality knob onto H.264 defaults. Higher
// quality means a lower CRF.
func DefaultEncoding(quality, workers int) Encoding {
	if quality < 0 {
		quality = 0
	}
	if quality > 100 {
		quality = 100
	}
	return Encoding{
		VideoCodec:  "libx264",
		AudioCodec:  "aac",
		CRF:         (100 - quality) * 51 / 100,
		Preset:      "medium",
		PixelFormat: "yuv420p",
		FastStart:   true,
		Workers:     workers,
	}
}

// EngineRequest is the fully resolved input an engine renders. The composer
// fills it; engines never consult configuration themselves.
type EngineRequest struct {
	VideoPath string
	MusicPath string // empty unless Audio is AudioMusicOnly or AudioMix
	Audio     AudioMode
	// Overlays are rendered in order; each block carries its own animation
	// envelopes and resting position.
	Overlays   []*overlay.Spec
	Duration   float64 // seconds; the output is trimmed to this
	Width      int
	Height     int
	OutputPath string
	Encoding   Encoding
}

// Engine renders one request to EngineRequest.OutputPath. Implementations
// report fractional progress through the callback when they can measure it;
// the callback may be nil.
type Engine interface {
	Name() string
	Render(ctx context.Context, req EngineRequest, progress func(fraction float64)) error
}

// Result describes a finished render, with duration and audio presence
// measured from the output file rather than assumed.
type Result struct {
	OutputID        string  `json:"outputId"`
	Filename        string  `json:"filename"`
	OutputPath      string  `json:"-"`
	DurationSeconds float64 `json:"durationSeconds"`
	HasAudio        bool    `json:"hasAudio"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
}

// EventSink receives render lifecycle notifications. All callbacks are
// optional; the composer emits at most one terminal event (complete or
// error) per render.
type EventSink struct {
	OnStart    func(engine string)
	OnProgress func(fraction float64)
	OnComplete func(res *Result)
	OnError    func(err error)
}

func (s EventSink) start(engine string) {
	if s.OnStart != nil {
		s.OnStart(engine)
	}
}

func (s EventSink) progress() func(float64) {
	return s.OnProgress
}

func (s EventSink) complete(res *Result) {
	if s.OnComplete != nil {
		s.OnComplete(res)
	}
}

func (s EventSink) fail(err error) {
	if s.OnError != nil {
		s.OnError(err)
	}
}
