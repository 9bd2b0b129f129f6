// Package config loads process configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the API and pipeline need at startup.
type Config struct {
	// Server
	HTTPPort      string
	CORSOrigins   []string
	ServerTimeout time.Duration

	// Asset pools
	VideoPoolDir string
	MusicPoolDir string
	OutputDir    string
	FontsDir     string
	HistoryPath  string

	// File limits
	MaxUploadBytes int64

	// Style defaults applied when a request omits fields
	DefaultFontFamily string
	DefaultFontSize   int
	DefaultFontColor  string
	DefaultPosition   string

	// Rendering
	RenderBackend    string // "ffmpeg" or "scene"
	SceneRendererURL string
	VideoQuality     int // CRF-equivalent quality knob, 0-100
	RenderWorkers    int // frame-level parallelism inside the scene renderer

	// Output lifecycle
	CleanupEnabled bool
	CleanupDelay   time.Duration

	// Remote storage
	StorageProvider string // "none", "localfs", "gdrive", "cloudinary"
	UploadOutputs   bool
}

// Load reads configuration from the environment, filling defaults.
func Load() Config {
	return Config{
		HTTPPort:      getEnv("PORT", "5000"),
		CORSOrigins:   getEnvCSV("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		ServerTimeout: getEnvDuration("SERVER_TIMEOUT", 10*time.Minute),

		VideoPoolDir: getEnv("VIDEO_POOL_DIR", "./storage/videos"),
		MusicPoolDir: getEnv("MUSIC_POOL_DIR", "./storage/music"),
		OutputDir:    getEnv("OUTPUT_DIR", "./storage/output"),
		FontsDir:     getEnv("FONTS_DIR", "./assets/fonts"),
		HistoryPath:  getEnv("HISTORY_PATH", "./storage/history.json"),

		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 100*1024*1024),

		DefaultFontFamily: getEnv("DEFAULT_FONT", "Arial"),
		DefaultFontSize:   getEnvInt("DEFAULT_FONT_SIZE", 60),
		DefaultFontColor:  getEnv("DEFAULT_FONT_COLOR", "#FFFFFF"),
		DefaultPosition:   getEnv("DEFAULT_POSITION", "center"),

		RenderBackend:    getEnv("RENDER_BACKEND", "ffmpeg"),
		SceneRendererURL: getEnv("SCENE_RENDERER_URL", "http://localhost:3333"),
		VideoQuality:     getEnvInt("VIDEO_QUALITY", 95),
		RenderWorkers:    getEnvInt("RENDER_WORKERS", 6),

		CleanupEnabled: getEnv("OUTPUT_CLEANUP_ENABLED", "true") == "true",
		CleanupDelay:   getEnvDuration("OUTPUT_CLEANUP_DELAY", 24*time.Hour),

		StorageProvider: getEnv("STORAGE_PROVIDER", "none"),
		UploadOutputs:   getEnv("UPLOAD_OUTPUTS", "false") == "true",
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil {
		return v
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(key)), 10, 64); err == nil {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key))); err == nil {
		return v
	}
	return def
}

func getEnvCSV(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
