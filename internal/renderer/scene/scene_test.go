package scene

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotereel/internal/overlay"
	"quotereel/internal/renderer"
)

func testRequest(t *testing.T) renderer.EngineRequest {
	t.Helper()
	style := overlay.Style{
		FontFamily: "Arial",
		FontSize:   60,
		FontColor:  "#FFFFFF",
		Animation:  overlay.AnimFadeIn,
	}
	spec, err := overlay.Builder{}.Build("stay hungry", style, 8)
	require.NoError(t, err)

	return renderer.EngineRequest{
		VideoPath:  "/pool/videos/clip.mp4",
		MusicPath:  "/pool/music/track.mp3",
		Audio:      renderer.AudioMix,
		Overlays:   []*overlay.Spec{spec},
		Duration:   8,
		Width:      1080,
		Height:     1920,
		OutputPath: "/pool/output/gen_1.mp4",
		Encoding:   renderer.DefaultEncoding(95, 6),
	}
}

func newServer(t *testing.T, bundleCalls *atomic.Int32, lastScene *sceneDoc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/bundles", func(w http.ResponseWriter, r *http.Request) {
		bundleCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"bundleId": "b-1"})
	})
	mux.HandleFunc("/render", func(w http.ResponseWriter, r *http.Request) {
		if lastScene != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(lastScene))
		}
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRenderBuildsSceneDocument(t *testing.T) {
	var bundleCalls atomic.Int32
	var scene sceneDoc
	srv := newServer(t, &bundleCalls, &scene)

	engine := New(srv.URL)
	err := engine.Render(context.Background(), testRequest(t), nil)
	require.NoError(t, err)

	assert.Equal(t, "b-1", scene.BundleID)
	assert.Equal(t, "quote-video", scene.Composition)
	assert.Equal(t, 30, scene.FPS)
	assert.Equal(t, 240, scene.DurationInFrames)
	assert.Equal(t, 1080, scene.Width)
	assert.Equal(t, 1920, scene.Height)
	assert.Equal(t, "/pool/videos/clip.mp4", scene.Video.Src)
	assert.False(t, scene.Video.MuteSource)

	require.NotNil(t, scene.Audio)
	assert.Equal(t, "/pool/music/track.mp3", scene.Audio.Src)
	assert.InDelta(t, 0.3, scene.Audio.Volume, 1e-9)

	require.Len(t, scene.Texts, 1)
	text := scene.Texts[0]
	assert.Equal(t, "stay hungry", text.Text)
	assert.Equal(t, "#FFFFFFFF", text.Color)
	// Fade-in travels as the same closed-form expression both engines share.
	assert.Contains(t, text.OpacityExpr, "if(lt(t,")
	assert.Equal(t, "0", text.XExpr)

	assert.Equal(t, "/pool/output/gen_1.mp4", scene.Output.Path)
	assert.Equal(t, "libx264", scene.Output.VideoCodec)
}

func TestRenderWithoutMusicOmitsAudioLayer(t *testing.T) {
	var bundleCalls atomic.Int32
	var scene sceneDoc
	srv := newServer(t, &bundleCalls, &scene)

	req := testRequest(t)
	req.MusicPath = ""
	req.Audio = renderer.AudioSource

	require.NoError(t, New(srv.URL).Render(context.Background(), req, nil))
	assert.Nil(t, scene.Audio)
	assert.False(t, scene.Video.MuteSource)
}

func TestBundleRegisteredOnce(t *testing.T) {
	var bundleCalls atomic.Int32
	srv := newServer(t, &bundleCalls, nil)

	engine := New(srv.URL)
	ctx := context.Background()
	require.NoError(t, engine.Render(ctx, testRequest(t), nil))
	require.NoError(t, engine.Render(ctx, testRequest(t), nil))

	assert.Equal(t, int32(1), bundleCalls.Load())
}

func TestBundleFailureRetriedNextRender(t *testing.T) {
	var bundleCalls atomic.Int32
	var fail atomic.Bool
	fail.Store(true)

	mux := http.NewServeMux()
	mux.HandleFunc("/bundles", func(w http.ResponseWriter, r *http.Request) {
		bundleCalls.Add(1)
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"bundleId": "b-2"})
	})
	mux.HandleFunc("/render", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	engine := New(srv.URL)
	ctx := context.Background()

	err := engine.Render(ctx, testRequest(t), nil)
	require.Error(t, err)

	fail.Store(false)
	require.NoError(t, engine.Render(ctx, testRequest(t), nil))
	assert.Equal(t, int32(2), bundleCalls.Load())
}

func TestRenderRejectedByService(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bundles", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"bundleId": "b-1"})
	})
	mux.HandleFunc("/render", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"ok": false})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	err := New(srv.URL).Render(context.Background(), testRequest(t), nil)
	require.Error(t, err)
}
