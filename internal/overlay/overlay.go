// Package overlay draws graphics such as face landmark markers on top of
// camera frames.
package overlay

import (
	"slices"
	"sync"
	"sync/atomic"

	"faceoverlay/internal/model"
	"faceoverlay/internal/preview"
)

// Overlay holds the graphics drawn on one camera's frames and the preview
// geometry used to place them.
type Overlay struct {
	mu       sync.RWMutex
	graphics []Graphic

	geometryMu sync.Mutex
	transform  atomic.Pointer[preview.Transform]

	invalidated chan struct{}
}

// New creates an empty overlay. mirror flips x coordinates, as needed for
// front-facing cameras.
func New(mirror bool) *Overlay {
	o := &Overlay{
		invalidated: make(chan struct{}, 1),
	}
	o.transform.Store(&preview.Transform{Mirror: mirror})
	return o
}

// Add registers a graphic and requests a repaint.
func (o *Overlay) Add(g Graphic) {
	o.mu.Lock()
	o.graphics = append(o.graphics, g)
	o.mu.Unlock()
	o.PostInvalidate()
}

// Remove unregisters a graphic and requests a repaint.
func (o *Overlay) Remove(g Graphic) {
	o.mu.Lock()
	o.graphics = slices.DeleteFunc(o.graphics, func(item Graphic) bool { return item == g })
	o.mu.Unlock()
	o.PostInvalidate()
}

// Clear removes every graphic.
func (o *Overlay) Clear() {
	o.mu.Lock()
	o.graphics = nil
	o.mu.Unlock()
	o.PostInvalidate()
}

// Len returns the number of registered graphics.
func (o *Overlay) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.graphics)
}

// Draw renders every registered graphic onto the surface and returns the
// snapshots that were drawn. The preview geometry is read once, so one pass
// never mixes two geometries.
func (o *Overlay) Draw(s Surface) []*model.Snapshot {
	o.mu.RLock()
	graphics := slices.Clone(o.graphics)
	o.mu.RUnlock()

	pass := &passHost{overlay: o, transform: *o.transform.Load()}

	var drawn []*model.Snapshot
	for _, g := range graphics {
		if snapshot := g.Draw(s, pass); snapshot != nil {
			drawn = append(drawn, snapshot)
		}
	}
	return drawn
}

// passHost translates with the geometry captured at the start of a pass.
type passHost struct {
	overlay   *Overlay
	transform preview.Transform
}

func (h *passHost) TranslateX(x float64) float64 { return h.transform.TranslateX(x) }
func (h *passHost) TranslateY(y float64) float64 { return h.transform.TranslateY(y) }
func (h *passHost) PostInvalidate()              { h.overlay.PostInvalidate() }

// PostInvalidate requests a repaint without blocking. Requests made while
// one is already pending are merged into it.
func (o *Overlay) PostInvalidate() {
	select {
	case o.invalidated <- struct{}{}:
	default:
	}
}

// Invalidated delivers one value per pending repaint request.
func (o *Overlay) Invalidated() <-chan struct{} {
	return o.invalidated
}

// SetCameraInfo records the size of the images the landmarks refer to.
func (o *Overlay) SetCameraInfo(previewWidth, previewHeight int) {
	o.updateTransform(func(t *preview.Transform) {
		t.PreviewWidth = previewWidth
		t.PreviewHeight = previewHeight
	})
}

// SetSurfaceSize records the size of the surface graphics are drawn on.
func (o *Overlay) SetSurfaceSize(width, height int) {
	o.updateTransform(func(t *preview.Transform) {
		t.SurfaceWidth = width
		t.SurfaceHeight = height
	})
}

// Transform returns the current preview geometry.
func (o *Overlay) Transform() preview.Transform {
	return *o.transform.Load()
}

func (o *Overlay) updateTransform(update func(t *preview.Transform)) {
	o.geometryMu.Lock()
	defer o.geometryMu.Unlock()

	next := *o.transform.Load()
	update(&next)
	if next == *o.transform.Load() {
		return
	}
	o.transform.Store(&next)
	o.PostInvalidate()
}

// TranslateX maps an image x coordinate onto the surface.
func (o *Overlay) TranslateX(x float64) float64 {
	return o.transform.Load().TranslateX(x)
}

// TranslateY maps an image y coordinate onto the surface.
func (o *Overlay) TranslateY(y float64) float64 {
	return o.transform.Load().TranslateY(y)
}
