package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"faceoverlay/internal/assets"
	"faceoverlay/internal/config"
	"faceoverlay/internal/handler"
	"faceoverlay/internal/logger"
	"faceoverlay/internal/overlay"
	"faceoverlay/internal/render"
	"faceoverlay/internal/render/mat"
	"faceoverlay/internal/repository/sqlite"
	"faceoverlay/internal/route"
	"faceoverlay/internal/service"
	"faceoverlay/internal/service/storage"
	"faceoverlay/internal/service/websocket"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config        *config.Config
	logger        *logger.Logger
	db            *sqlite.DB
	bufferService *storage.BufferService
	hubService    *websocket.HubService
	manager       *service.Manager
	server        *http.Server
}

// NewApp wires configuration, storage, the viewer hub and the overlay
// pipelines together.
func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	style, err := overlay.NewStyle(cfg.Style)
	if err != nil {
		return nil, fmt.Errorf("failed to build overlay style: %w", err)
	}

	bundle, err := assets.Load(cfg.AssetDirectory)
	if err != nil {
		return nil, err
	}
	if len(bundle.Missing) > 0 {
		log.Warning("Overlay assets not found in %s: %v", cfg.AssetDirectory, bundle.Missing)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	captureRepo := sqlite.NewCaptureRepository(db)
	landmarkRepo := sqlite.NewLandmarkRepository(db)

	buffer := storage.NewBufferService(cfg, log, captureRepo, landmarkRepo)
	hub := websocket.NewHubService(log)
	mng := service.NewManager(cfg, style, bundle, newRenderer(cfg), hub, buffer, log)

	router := route.SetupRoutes(mng, hub, cfg, log, captureRepo, landmarkRepo)

	return &App{
		config:        cfg,
		logger:        log,
		db:            db,
		bufferService: buffer,
		hubService:    hub,
		manager:       mng,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: router,
		},
	}, nil
}

// newRenderer picks the frame renderer named in the configuration.
func newRenderer(cfg *config.Config) render.FrameRenderer {
	if cfg.Renderer == config.RendererGG {
		return &render.GGRenderer{Quality: cfg.JPEGQuality}
	}
	return &mat.Renderer{Quality: cfg.JPEGQuality}
}

// Run serves HTTP and camera traffic until ctx is cancelled, then shuts
// everything down and flushes pending captures.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// camera ingest stops before the manager
	ingestCtx, stopIngest := context.WithCancel(ctx)
	defer stopIngest()
	ingestDone := make(chan struct{})
	go func() {
		defer close(ingestDone)
		handler.UDPCameraHandler(ingestCtx, a.manager, a.logger, a.config)
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.bufferService.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		a.hubService.Run(ctx)
	}()

	a.logger.Info("Face overlay server listening on http://localhost:%d", a.config.Port)
	a.logger.Info("Cameras: udp :%d, renderer: %s, captures: %s", a.config.CamerasPort, a.config.Renderer, a.config.CaptureDirectory)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-serverErr:
		if err != nil {
			err = fmt.Errorf("failed to serve http: %w", err)
		}
	}

	a.logger.Info("Shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if shutdownErr := a.server.Shutdown(shutdownCtx); shutdownErr != nil {
		a.logger.Error("HTTP shutdown error: %v", shutdownErr)
	}

	stopIngest()
	<-ingestDone
	a.manager.Stop()
	cancel()
	wg.Wait()

	if closeErr := a.db.Close(); closeErr != nil {
		a.logger.Error("Failed to close database: %v", closeErr)
	}
	a.logger.Close()
	return err
}
