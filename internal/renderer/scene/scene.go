// Package scene renders through an external scene-renderer service that
// shares the output volume. The engine describes the composition as a JSON
// scene document; the service owns frame rendering and encoding.
package scene

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"

	"quotereel/internal/renderer"
)

// composition is the scene template every quote video instantiates.
const composition = "quote-video"

// Engine talks to the scene-renderer HTTP API.
type Engine struct {
	baseURL string
	client  *http.Client

	mu       sync.Mutex
	bundleID string
}

func New(baseURL string) *Engine {
	return &Engine{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Minute},
	}
}

func (e *Engine) Name() string { return "scene" }

// Render registers the composition bundle once, then blocks on the render
// call until the service has written the output file. The service reports no
// intermediate progress, so the callback goes unused.
func (e *Engine) Render(ctx context.Context, req renderer.EngineRequest, _ func(float64)) error {
	bundleID, err := e.bundle(ctx)
	if err != nil {
		return err
	}

	var res struct {
		OK bool `json:"ok"`
	}
	if err := e.post(ctx, "/render", buildScene(bundleID, req), &res); err != nil {
		return err
	}
	if !res.OK {
		return errors.New("scene renderer rejected the render")
	}
	return nil
}

// bundle returns the registered bundle ID, registering on first use. The ID
// is cached only on success, so a failed registration is retried on the next
// render.
func (e *Engine) bundle(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bundleID != "" {
		return e.bundleID, nil
	}

	var res struct {
		BundleID string `json:"bundleId"`
	}
	body := map[string]string{"composition": composition}
	if err := e.post(ctx, "/bundles", body, &res); err != nil {
		return "", errors.Wrap(err, "bundle registration failed")
	}
	if res.BundleID == "" {
		return "", errors.New("scene renderer returned an empty bundle id")
	}

	e.bundleID = res.BundleID
	return e.bundleID, nil
}

func (e *Engine) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("scene renderer http %d", res.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// sceneDoc is the wire form of one render. Text animation travels as the
// same closed-form expressions of t the filter-graph engine uses; the
// service evaluates them on its own frame timeline.
type sceneDoc struct {
	BundleID         string      `json:"bundleId"`
	Composition      string      `json:"composition"`
	FPS              int         `json:"fps"`
	Width            int         `json:"width"`
	Height           int         `json:"height"`
	DurationInFrames int         `json:"durationInFrames"`
	Concurrency      int         `json:"concurrency"`
	Video            videoLayer  `json:"video"`
	Audio            *audioLayer `json:"audio,omitempty"`
	Texts            []textLayer `json:"texts"`
	Output           outputSpec  `json:"output"`
}

type videoLayer struct {
	Src         string  `json:"src"`
	TrimSeconds float64 `json:"trimSeconds"`
	// MuteSource drops the clip's own audio when music substitutes it.
	MuteSource bool `json:"muteSource"`
}

type audioLayer struct {
	Src    string  `json:"src"`
	Volume float64 `json:"volume"`
}

type textLayer struct {
	Text     string  `json:"text"`
	FontFile string  `json:"fontFile"`
	FontSize int     `json:"fontSize"`
	Color    string  `json:"color"`
	BaseY    float64 `json:"baseY"`
	// Expressions of t in seconds, applied relative to the centered resting
	// position.
	XExpr       string `json:"xExpr"`
	YExpr       string `json:"yExpr"`
	OpacityExpr string `json:"opacityExpr"`
	BoxColor    string `json:"boxColor,omitempty"`
}

type outputSpec struct {
	Path        string `json:"path"`
	VideoCodec  string `json:"videoCodec"`
	AudioCodec  string `json:"audioCodec"`
	CRF         int    `json:"crf"`
	PixelFormat string `json:"pixelFormat"`
}

func buildScene(bundleID string, req renderer.EngineRequest) sceneDoc {
	doc := sceneDoc{
		BundleID:         bundleID,
		Composition:      composition,
		FPS:              renderer.OutputFPS,
		Width:            req.Width,
		Height:           req.Height,
		DurationInFrames: int(req.Duration * renderer.OutputFPS),
		Concurrency:      concurrency(req.Encoding.Workers),
		Video: videoLayer{
			Src:         req.VideoPath,
			TrimSeconds: req.Duration,
			MuteSource:  req.Audio == renderer.AudioMusicOnly || req.Audio == renderer.AudioNone,
		},
		Output: outputSpec{
			Path:        req.OutputPath,
			VideoCodec:  req.Encoding.VideoCodec,
			AudioCodec:  req.Encoding.AudioCodec,
			CRF:         req.Encoding.CRF,
			PixelFormat: req.Encoding.PixelFormat,
		},
	}

	if req.Audio == renderer.AudioMusicOnly || req.Audio == renderer.AudioMix {
		doc.Audio = &audioLayer{Src: req.MusicPath, Volume: renderer.MusicVolume}
	}

	for _, spec := range req.Overlays {
		for i, line := range spec.Lines {
			layer := textLayer{
				Text:        line,
				FontFile:    spec.FontFile,
				FontSize:    spec.Style.FontSize,
				Color:       spec.FontColor.Hex(),
				BaseY:       spec.BaseY(i, float64(req.Height)),
				XExpr:       spec.Anim.X.FFmpeg(),
				YExpr:       spec.Anim.Y.FFmpeg(),
				OpacityExpr: spec.Anim.Opacity.FFmpeg(),
			}
			if spec.HasBox {
				layer.BoxColor = spec.BoxColor.Hex()
			}
			doc.Texts = append(doc.Texts, layer)
		}
	}
	return doc
}

// concurrency bounds frame workers by the host CPU count.
func concurrency(workers int) int {
	cpus := runtime.NumCPU()
	if workers <= 0 || workers > cpus {
		return cpus
	}
	return workers
}
