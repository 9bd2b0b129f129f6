package main

import (
	"context"
	"net/http"
	"time"

	"quotereel/internal/assets"
	"quotereel/internal/config"
	"quotereel/internal/history"
	"quotereel/internal/httpapi"
	"quotereel/internal/httpapi/handlers"
	"quotereel/internal/overlay"
	"quotereel/internal/pipeline"
	"quotereel/internal/pkg/logger"
	"quotereel/internal/pkg/shutdown"
	"quotereel/internal/renderer"
	"quotereel/internal/renderer/ffmpeggraph"
	"quotereel/internal/renderer/scene"
	"quotereel/internal/storage"
	"quotereel/internal/syncer"
)

func main() {
	logCfg := logger.DefaultConfig()
	logCfg.ServiceName = "quotereel-api"
	log := logger.New(logCfg)

	log.Info("starting quotereel API", "version", "0.1.0")

	cfg := config.Load()
	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	// Storage provider (optional)
	sp, err := storage.NewProvider(cfg.StorageProvider)
	if err != nil {
		log.LogFatal("failed to initialize storage provider", err)
	}
	if sp != nil {
		log.Info("storage provider initialized", "provider", sp.Provider())
	}

	// Rendering engine
	var engine renderer.Engine
	switch cfg.RenderBackend {
	case "scene":
		engine = scene.New(cfg.SceneRendererURL)
	default:
		engine = ffmpeggraph.New()
	}
	log.Info("render engine selected", "engine", engine.Name())

	selector := &assets.Selector{
		VideoDir: cfg.VideoPoolDir,
		MusicDir: cfg.MusicPoolDir,
	}
	store := history.NewStore(cfg.HistoryPath)

	composer := &renderer.Composer{
		Engine:    engine,
		Builder:   overlay.Builder{Fonts: overlay.FontResolver{CustomDir: cfg.FontsDir}},
		OutputDir: cfg.OutputDir,
		Encoding:  renderer.DefaultEncoding(cfg.VideoQuality, cfg.RenderWorkers),
		Log:       log,
	}

	var cleanup *pipeline.Cleanup
	if cfg.CleanupEnabled {
		cleanup = pipeline.NewCleanup(cfg.CleanupDelay, log)
		shutdownMgr.Register("cleanup", func(ctx context.Context) error {
			cleanup.Stop()
			return nil
		})
	}

	p := &pipeline.Pipeline{
		Selector: selector,
		Composer: composer,
		History:  store,
		Cleanup:  cleanup,
		Defaults: pipeline.Defaults{
			FontFamily: cfg.DefaultFontFamily,
			FontSize:   cfg.DefaultFontSize,
			FontColor:  cfg.DefaultFontColor,
			Position:   cfg.DefaultPosition,
		},
		Log: log,
	}
	if sp != nil && cfg.UploadOutputs {
		p.Storage = sp
	}

	var poolSync *syncer.Syncer
	if sp != nil {
		poolSync = &syncer.Syncer{
			Storage:  sp,
			VideoDir: cfg.VideoPoolDir,
			MusicDir: cfg.MusicPoolDir,
			Log:      log,
		}
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Handlers: handlers.Deps{
			Pipeline:       p,
			Selector:       selector,
			History:        store,
			Cleanup:        cleanup,
			Syncer:         poolSync,
			OutputDir:      cfg.OutputDir,
			RenderBackend:  engine.Name(),
			MaxUploadBytes: cfg.MaxUploadBytes,
			Log:            log,
		},
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	})

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.ServerTimeout,
		IdleTimeout:  120 * time.Second,
	}

	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	shutdownMgr.Wait()
}
