package service

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"faceoverlay/internal/assets"
	"faceoverlay/internal/dto"
	"faceoverlay/internal/model"
	"faceoverlay/internal/overlay"
)

// Pipeline is the per-camera state: the overlay with one face graphic per
// tracked face and the latest raw frame waiting to be rendered.
type Pipeline struct {
	camera      string
	overlay     *overlay.Overlay
	style       overlay.Style
	assets      *assets.Bundle
	frontFacing bool

	facesMu sync.Mutex
	faces   map[int]*overlay.FaceGraphic

	latest     atomic.Pointer[[]byte]
	pending    atomic.Bool
	frameCount atomic.Int64

	renderMu    sync.Mutex
	lastCapture time.Time
}

func newPipeline(camera string, style overlay.Style, bundle *assets.Bundle, frontFacing bool) *Pipeline {
	return &Pipeline{
		camera:      camera,
		overlay:     overlay.New(frontFacing),
		style:       style,
		assets:      bundle,
		frontFacing: frontFacing,
		faces:       make(map[int]*overlay.FaceGraphic),
	}
}

// Camera returns the camera name the pipeline serves.
func (p *Pipeline) Camera() string {
	return p.camera
}

// Overlay returns the overlay drawn on the camera's frames.
func (p *Pipeline) Overlay() *overlay.Overlay {
	return p.overlay
}

// Publish applies one tracker message to the face graphics.
func (p *Pipeline) Publish(msg *dto.LandmarkMessage) {
	if msg.FrameWidth > 0 && msg.FrameHeight > 0 {
		p.overlay.SetCameraInfo(msg.FrameWidth, msg.FrameHeight)
	}

	switch msg.Event {
	case dto.EventDone:
		p.facesMu.Lock()
		g, ok := p.faces[msg.FaceID]
		delete(p.faces, msg.FaceID)
		p.facesMu.Unlock()

		if ok {
			g.Publish(nil)
			p.overlay.Remove(g)
		}

	case dto.EventMissing:
		if g := p.face(msg.FaceID, false); g != nil {
			g.Publish(nil)
		}

	default:
		p.face(msg.FaceID, true).Publish(msg.Snapshot())
	}
}

// face returns the graphic for a face, creating and registering it when
// create is set.
func (p *Pipeline) face(id int, create bool) *overlay.FaceGraphic {
	p.facesMu.Lock()
	defer p.facesMu.Unlock()

	if g, ok := p.faces[id]; ok || !create {
		return g
	}

	g := overlay.NewFaceGraphic(p.overlay, p.style, p.assets, p.frontFacing)
	p.faces[id] = g
	p.overlay.Add(g)
	return g
}

func (p *Pipeline) sortedFaceIDs() []int {
	ids := make([]int, 0, len(p.faces))
	for id := range p.faces {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Faces describes every face graphic of the camera, ordered by face ID.
func (p *Pipeline) Faces() []dto.FaceState {
	p.facesMu.Lock()
	defer p.facesMu.Unlock()

	states := make([]dto.FaceState, 0, len(p.faces))
	for _, id := range p.sortedFaceIDs() {
		states = append(states, dto.NewFaceState(id, p.faces[id].Snapshot()))
	}
	return states
}

// TrackedSnapshots returns the snapshots that are currently drawn.
func (p *Pipeline) TrackedSnapshots() []*model.Snapshot {
	p.facesMu.Lock()
	defer p.facesMu.Unlock()

	var tracked []*model.Snapshot
	for _, id := range p.sortedFaceIDs() {
		if s := p.faces[id].Snapshot(); s != nil && s.Complete() {
			tracked = append(tracked, s)
		}
	}
	return tracked
}

func (p *Pipeline) setFrame(frame []byte) {
	p.latest.Store(&frame)
}

func (p *Pipeline) latestFrame() []byte {
	if f := p.latest.Load(); f != nil {
		return *f
	}
	return nil
}

// captureDue reports whether enough time passed since the last capture and
// records now as the last capture if so. Callers hold renderMu.
func (p *Pipeline) captureDue(now time.Time, interval time.Duration) bool {
	if interval <= 0 {
		return false
	}
	if !p.lastCapture.IsZero() && now.Sub(p.lastCapture) < interval {
		return false
	}
	p.lastCapture = now
	return true
}
