package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotereel/internal/assets"
	"quotereel/internal/history"
	"quotereel/internal/httpapi"
	"quotereel/internal/httpapi/handlers"
	"quotereel/internal/pipeline"
	"quotereel/internal/pkg/logger"
	"quotereel/internal/renderer"
)

type stubRenderer struct {
	res *renderer.Result
	err error
}

func (s *stubRenderer) Render(ctx context.Context, job renderer.Job, sink renderer.EventSink) (*renderer.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.res, nil
}

func (s *stubRenderer) Discard(res *renderer.Result) {}

type env struct {
	router    http.Handler
	videoDir  string
	outputDir string
	history   *history.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	root := t.TempDir()
	videoDir := filepath.Join(root, "videos")
	outputDir := filepath.Join(root, "output")
	require.NoError(t, os.MkdirAll(videoDir, 0o755))
	require.NoError(t, os.MkdirAll(outputDir, 0o755))

	log := logger.New(logger.Config{Output: os.Stderr, Level: "error"})
	selector := &assets.Selector{
		VideoDir: videoDir,
		MusicDir: filepath.Join(root, "music"),
	}
	store := history.NewStore(filepath.Join(root, "history.json"))

	p := &pipeline.Pipeline{
		Selector: selector,
		Composer: &stubRenderer{res: &renderer.Result{
			OutputID:        "gen_42",
			Filename:        "gen_42.mp4",
			OutputPath:      filepath.Join(outputDir, "gen_42.mp4"),
			DurationSeconds: 8,
			HasAudio:        true,
		}},
		History: store,
		Defaults: pipeline.Defaults{
			FontFamily: "Arial",
			FontSize:   60,
			FontColor:  "#FFFFFF",
			Position:   "center",
		},
		Log: log,
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Handlers: handlers.Deps{
			Pipeline:       p,
			Selector:       selector,
			History:        store,
			OutputDir:      outputDir,
			RenderBackend:  "ffmpeg",
			MaxUploadBytes: 10 << 20,
			Log:            log,
		},
		CORSOrigins: []string{"http://localhost:5173"},
		Log:         log,
	})

	return &env{router: router, videoDir: videoDir, outputDir: outputDir, history: store}
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestGenerateEndpoint(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.videoDir, "clip.mp4"), []byte("x"), 0o644))

	rec := e.do(t, "POST", "/api/generate", map[string]any{
		"quote": "stay hungry",
		"style": map[string]any{"animation": "fade-in"},
	})

	require.Equal(t, 200, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "/api/download/gen_42", body["downloadUrl"])

	video := body["video"].(map[string]any)
	assert.Equal(t, "gen_42", video["outputId"])
	assert.Equal(t, "clip.mp4", video["videoUsed"])
	assert.Equal(t, "None", video["musicUsed"])
	assert.Equal(t, 8.0, video["durationSeconds"])
}

func TestGenerateWebClientBody(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.videoDir, "clip.mp4"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(filepath.Dir(e.videoDir), "music"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(e.videoDir), "music", "track.mp3"), []byte("x"), 0o644))

	// The exact field set the web client sends, flags included.
	rec := e.do(t, "POST", "/api/generate", map[string]any{
		"quote":      "Stay focused.",
		"style":      map[string]any{"position": "bottom", "animation": "fade-in"},
		"addMusic":   false,
		"autoDelete": true,
	})

	require.Equal(t, 200, rec.Code, rec.Body.String())
	body := decode(t, rec)
	video := body["video"].(map[string]any)
	// addMusic=false wins even with a populated music pool.
	assert.Equal(t, "None", video["musicUsed"])
}

func TestGenerateEmptyPool(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, "POST", "/api/generate", map[string]any{"quote": "hello"})

	require.Equal(t, 400, rec.Code)
	body := decode(t, rec)
	errBlock := body["error"].(map[string]any)
	assert.Equal(t, "NO_ASSET_AVAILABLE", errBlock["code"])
}

func TestGenerateInvalidJSON(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest("POST", "/api/generate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestGenerateValidationError(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, "POST", "/api/generate", map[string]any{
		"quote": strings.Repeat("a", 501),
	})

	require.Equal(t, 400, rec.Code)
	body := decode(t, rec)
	errBlock := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_ERROR", errBlock["code"])
}

func TestHistoryRoundTrip(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.history.Append(history.Entry{ID: "gen_1", VideoUsed: "clip.mp4"}))

	rec := e.do(t, "GET", "/api/history", nil)
	require.Equal(t, 200, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["history"], 1)

	rec = e.do(t, "DELETE", "/api/history", nil)
	require.Equal(t, 200, rec.Code)

	rec = e.do(t, "GET", "/api/history", nil)
	body = decode(t, rec)
	assert.Empty(t, body["history"])
}

func TestVideoPoolEndpoints(t *testing.T) {
	e := newEnv(t)

	// Upload.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "new-clip.mp4")
	require.NoError(t, err)
	part.Write([]byte("fake video bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/videos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	require.Equal(t, 201, rec.Code, rec.Body.String())
	assert.FileExists(t, filepath.Join(e.videoDir, "new-clip.mp4"))

	// List.
	rec2 := e.do(t, "GET", "/api/videos", nil)
	require.Equal(t, 200, rec2.Code)
	body := decode(t, rec2)
	assert.Equal(t, 1.0, body["count"])

	// Delete.
	rec3 := e.do(t, "DELETE", "/api/videos/new-clip.mp4", nil)
	require.Equal(t, 200, rec3.Code)
	assert.NoFileExists(t, filepath.Join(e.videoDir, "new-clip.mp4"))

	rec4 := e.do(t, "DELETE", "/api/videos/new-clip.mp4", nil)
	assert.Equal(t, 404, rec4.Code)
}

func TestVideoUploadRejectsBadExtension(t *testing.T) {
	e := newEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "malware.exe")
	require.NoError(t, err)
	part.Write([]byte("nope"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/videos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestDownload(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(e.outputDir, "gen_42.mp4"), []byte("video"), 0o644))

	rec := e.do(t, "GET", "/api/download/gen_42", nil)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "video/mp4", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "gen_42.mp4")

	rec = e.do(t, "GET", "/api/download/gen_missing", nil)
	assert.Equal(t, 404, rec.Code)
}

func TestCleanupsWhenDisabled(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, "GET", "/api/cleanups", nil)
	require.Equal(t, 200, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["enabled"])
	assert.Empty(t, body["cleanups"])
}

func TestSyncWithoutProvider(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, "POST", "/api/sync", nil)
	assert.Equal(t, 400, rec.Code)
}

func TestHealth(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, "GET", "/health", nil)
	require.Equal(t, 200, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])

	rec = e.do(t, "GET", "/health?deep=true", nil)
	body = decode(t, rec)
	assert.Equal(t, "degraded", body["status"]) // empty video pool
}
