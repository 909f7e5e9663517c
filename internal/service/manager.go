package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"faceoverlay/internal/assets"
	"faceoverlay/internal/config"
	"faceoverlay/internal/dto"
	"faceoverlay/internal/logger"
	"faceoverlay/internal/model"
	"faceoverlay/internal/overlay"
	"faceoverlay/internal/render"
)

// FramePublisher delivers rendered frames to viewers.
type FramePublisher interface {
	BroadcastFrame(frame []byte, camera string, faces int) error
}

// CaptureSink stores annotated frames of tracked faces.
type CaptureSink interface {
	AddCapture(frame []byte, camera string, faces []*model.Snapshot) bool
}

// Manager owns the camera pipelines and the render workers.
type Manager struct {
	config    *config.Config
	style     overlay.Style
	assets    *assets.Bundle
	renderer  render.FrameRenderer
	publisher FramePublisher
	captures  CaptureSink
	logger    *logger.Logger

	pipelinesMu sync.RWMutex
	pipelines   map[string]*Pipeline
	known       map[string]bool

	renderQueue     chan *Pipeline
	processEveryNth int64
	captureInterval time.Duration
	now             func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager starts the render workers. captures may be nil to disable
// capturing.
func NewManager(cfg *config.Config, style overlay.Style, bundle *assets.Bundle, renderer render.FrameRenderer,
	publisher FramePublisher, captures CaptureSink, logger *logger.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	everyNth := int64(cfg.ProcessingInterval)
	if everyNth < 1 {
		everyNth = 1
	}
	workers := cfg.ProcessingWorkers
	if workers < 1 {
		workers = 1
	}

	manager := &Manager{
		config:          cfg,
		style:           style,
		assets:          bundle,
		renderer:        renderer,
		publisher:       publisher,
		captures:        captures,
		logger:          logger,
		pipelines:       make(map[string]*Pipeline),
		known:           knownCameras(cfg),
		renderQueue:     make(chan *Pipeline, 100),
		processEveryNth: everyNth,
		captureInterval: time.Duration(cfg.CaptureInterval) * time.Second,
		now:             time.Now,
		ctx:             ctx,
		cancel:          cancel,
	}

	for i := 0; i < workers; i++ {
		manager.wg.Add(1)
		go manager.renderWorker(i)
	}

	manager.logger.Info("Manager started - rendering every %d frame(s) with %d worker(s)", everyNth, workers)
	return manager
}

// ErrUnknownCamera is returned for landmark updates of a camera that is
// neither configured nor streaming frames.
var ErrUnknownCamera = errors.New("unknown camera")

// knownCameras collects the configured camera names.
func knownCameras(cfg *config.Config) map[string]bool {
	known := make(map[string]bool, len(cfg.CameraNames)+len(cfg.FrontFacingCameras))
	for _, name := range cfg.CameraNames {
		known[name] = true
	}
	for name := range cfg.FrontFacingCameras {
		known[name] = true
	}
	return known
}

// Pipeline returns the pipeline of a camera, creating it on first use. It
// returns nil once the manager is stopped.
func (m *Manager) Pipeline(camera string) *Pipeline {
	if p := m.lookup(camera); p != nil {
		return p
	}

	m.pipelinesMu.Lock()
	defer m.pipelinesMu.Unlock()

	if p, ok := m.pipelines[camera]; ok {
		return p
	}
	if m.ctx.Err() != nil {
		return nil
	}

	p := newPipeline(camera, m.style, m.assets, m.config.IsFrontFacing(camera))
	m.pipelines[camera] = p

	m.wg.Add(1)
	go m.watchRepaints(p)

	m.logger.Info("Created overlay pipeline for camera: %s (front facing: %v)", camera, p.frontFacing)
	return p
}

// lookup returns an existing pipeline or nil.
func (m *Manager) lookup(camera string) *Pipeline {
	m.pipelinesMu.RLock()
	defer m.pipelinesMu.RUnlock()
	return m.pipelines[camera]
}

// Cameras lists the cameras that have a pipeline.
func (m *Manager) Cameras() []string {
	m.pipelinesMu.RLock()
	defer m.pipelinesMu.RUnlock()

	cameras := make([]string, 0, len(m.pipelines))
	for name := range m.pipelines {
		cameras = append(cameras, name)
	}
	sort.Strings(cameras)
	return cameras
}

// HandleCameraFrame stores a raw JPEG frame as the latest one of the camera
// and schedules a render for every Nth frame.
func (m *Manager) HandleCameraFrame(frame []byte, camera string) {
	p := m.Pipeline(camera)
	if p == nil {
		return
	}
	p.setFrame(frame)

	if p.frameCount.Add(1)%m.processEveryNth != 0 {
		return
	}
	m.requestRender(p)
}

// PublishLandmarks applies a tracker message to the camera's overlay.
// Updates may open the pipeline of a configured camera; other messages only
// reach cameras that already have one.
func (m *Manager) PublishLandmarks(msg *dto.LandmarkMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	p := m.lookup(msg.Camera)
	if p == nil {
		if msg.Event != dto.EventUpdate {
			return nil
		}
		if !m.known[msg.Camera] {
			return fmt.Errorf("%w: %s", ErrUnknownCamera, msg.Camera)
		}
		if p = m.Pipeline(msg.Camera); p == nil {
			return nil
		}
	}

	p.Publish(msg)
	return nil
}

// Snapshots describes the face graphics of a camera. Unknown cameras have none.
func (m *Manager) Snapshots(camera string) []dto.FaceState {
	p := m.lookup(camera)
	if p == nil {
		return []dto.FaceState{}
	}
	return p.Faces()
}

// requestRender queues a render of the pipeline unless one is already queued.
func (m *Manager) requestRender(p *Pipeline) {
	if !p.pending.CompareAndSwap(false, true) {
		return
	}

	select {
	case m.renderQueue <- p:
	default:
		p.pending.Store(false)
		m.logger.Warning("Render queue full for camera %s - skipping frame", p.camera)
	}
}

// watchRepaints turns overlay repaint requests into render requests.
func (m *Manager) watchRepaints(p *Pipeline) {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-p.overlay.Invalidated():
			m.requestRender(p)
		}
	}
}

// renderWorker renders queued pipelines until the manager stops.
func (m *Manager) renderWorker(workerID int) {
	defer m.wg.Done()

	m.logger.Info("Render worker %d started", workerID)

	for {
		select {
		case <-m.ctx.Done():
			m.logger.Info("Render worker %d stopped", workerID)
			return
		case p := <-m.renderQueue:
			m.renderPipeline(p)
		}
	}
}

// renderPipeline draws the overlay onto the camera's latest frame and
// hands the result to viewers and, while faces are tracked, to the capture sink.
func (m *Manager) renderPipeline(p *Pipeline) {
	p.pending.Store(false)

	frame := p.latestFrame()
	if frame == nil {
		return
	}

	p.renderMu.Lock()
	defer p.renderMu.Unlock()

	var tracked []*model.Snapshot
	rendered, err := m.renderer.Render(frame, func(s overlay.Surface, width, height int) {
		p.overlay.SetSurfaceSize(width, height)
		tracked = p.overlay.Draw(s)
	})
	if err != nil {
		m.logger.Error("Failed to render frame for camera %s: %v", p.camera, err)
		return
	}

	if err := m.publisher.BroadcastFrame(rendered, p.camera, len(tracked)); err != nil {
		m.logger.Error("Failed to broadcast frame for camera %s: %v", p.camera, err)
	}

	if m.captures != nil && len(tracked) > 0 && p.captureDue(m.now(), m.captureInterval) {
		m.captures.AddCapture(rendered, p.camera, tracked)
	}
}

// Stop stops the render workers and repaint watchers. No pipeline is
// created afterwards.
func (m *Manager) Stop() {
	m.pipelinesMu.Lock()
	m.cancel()
	m.pipelinesMu.Unlock()

	m.wg.Wait()
	m.logger.Info("All render workers stopped")
}
