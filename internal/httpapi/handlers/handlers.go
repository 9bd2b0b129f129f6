package handlers

import (
	"quotereel/internal/assets"
	"quotereel/internal/history"
	"quotereel/internal/pipeline"
	"quotereel/internal/pkg/logger"
	"quotereel/internal/syncer"
)

type Deps struct {
	Pipeline       *pipeline.Pipeline
	Selector       *assets.Selector
	History        *history.Store
	Cleanup        *pipeline.Cleanup // nil when output cleanup is disabled
	Syncer         *syncer.Syncer    // nil when no storage provider is configured
	OutputDir      string
	RenderBackend  string
	MaxUploadBytes int64
	Log            *logger.Logger
}

type Handler struct {
	pipeline       *pipeline.Pipeline
	selector       *assets.Selector
	history        *history.Store
	cleanup        *pipeline.Cleanup
	syncer         *syncer.Syncer
	outputDir      string
	renderBackend  string
	maxUploadBytes int64
	log            *logger.Logger
}

func New(d Deps) *Handler {
	return &Handler{
		pipeline:       d.Pipeline,
		selector:       d.Selector,
		history:        d.History,
		cleanup:        d.Cleanup,
		syncer:         d.Syncer,
		outputDir:      d.OutputDir,
		renderBackend:  d.RenderBackend,
		maxUploadBytes: d.MaxUploadBytes,
		log:            d.Log,
	}
}
