package overlay

import (
	"sync/atomic"

	"faceoverlay/internal/assets"
	"faceoverlay/internal/model"
)

// Surface is the drawing target handed to a graphic for one render pass.
type Surface interface {
	DrawCircle(cx, cy, radius float64, p Paint)
	DrawText(text string, x, y float64, p Paint)
}

// Host is what a graphic needs from the overlay it is registered with:
// coordinate translation into surface space and repaint scheduling.
type Host interface {
	TranslateX(x float64) float64
	TranslateY(y float64) float64
	PostInvalidate()
}

// Graphic is one item drawn by an Overlay.
type Graphic interface {
	// Publish replaces the data the graphic draws. It may be called from
	// any goroutine and never blocks.
	Publish(s *model.Snapshot)
	// Draw renders the graphic onto the surface, translating through h,
	// and returns the snapshot it drew or nil if it drew nothing.
	Draw(s Surface, h Host) *model.Snapshot
}

type marker struct {
	landmark model.Landmark
	label    string
}

// markers is the drawing order. The face center is required but not drawn.
var markers = [...]marker{
	{model.LeftEye, "left eye"},
	{model.RightEye, "right eye"},
	{model.NoseBase, "nose base"},
	{model.MouthLeft, "mouth left"},
	{model.MouthRight, "mouth right"},
	{model.MouthBottom, "mouth bottom"},
}

// FaceGraphic draws a dot and a label at each landmark of the most recently
// published face snapshot.
type FaceGraphic struct {
	host        Host
	style       Style
	assets      *assets.Bundle
	frontFacing bool

	snapshot atomic.Pointer[model.Snapshot]
}

// NewFaceGraphic creates a graphic that draws through host. Style and
// assets are used read-only for the graphic's lifetime.
func NewFaceGraphic(host Host, style Style, bundle *assets.Bundle, frontFacing bool) *FaceGraphic {
	if bundle == nil {
		bundle = &assets.Bundle{}
	}
	return &FaceGraphic{
		host:        host,
		style:       style,
		assets:      bundle,
		frontFacing: frontFacing,
	}
}

// Publish stores s as the latest snapshot and asks the host for a repaint.
// A nil snapshot means the face is not currently tracked.
func (g *FaceGraphic) Publish(s *model.Snapshot) {
	g.snapshot.Store(s)
	g.host.PostInvalidate()
}

// Render draws the latest snapshot through the graphic's own host.
// Nothing is drawn unless every landmark is present.
func (g *FaceGraphic) Render(surface Surface) {
	g.Draw(surface, g.host)
}

// Draw is Render with the coordinate translation of h.
func (g *FaceGraphic) Draw(surface Surface, h Host) *model.Snapshot {
	s := g.snapshot.Load()
	if s == nil || !s.Complete() {
		return nil
	}

	for _, m := range markers {
		p, _ := s.Position(m.landmark)
		x := h.TranslateX(p.X)
		y := h.TranslateY(p.Y)
		surface.DrawCircle(x, y, g.style.DotRadius, g.style.HintOutline)
		surface.DrawText(m.label, x, y+g.style.TextOffsetY, g.style.HintText)
	}
	return s
}

// Snapshot returns the latest published snapshot, or nil.
func (g *FaceGraphic) Snapshot() *model.Snapshot {
	return g.snapshot.Load()
}

// Tracking reports whether the next render will draw anything.
func (g *FaceGraphic) Tracking() bool {
	s := g.snapshot.Load()
	return s != nil && s.Complete()
}

// FrontFacing reports whether the graphic belongs to a front-facing camera.
func (g *FaceGraphic) FrontFacing() bool {
	return g.frontFacing
}

// Assets returns the decorative images loaded for the graphic.
func (g *FaceGraphic) Assets() *assets.Bundle {
	return g.assets
}
