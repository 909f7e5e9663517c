package overlay

import (
	"testing"

	"faceoverlay/internal/model"
)

type countingGraphic struct {
	renders int
}

func (c *countingGraphic) Publish(*model.Snapshot) {}

func (c *countingGraphic) Draw(Surface, Host) *model.Snapshot {
	c.renders++
	return nil
}

func drain(o *Overlay) {
	for {
		select {
		case <-o.Invalidated():
		default:
			return
		}
	}
}

func TestOverlay_DrawRendersEveryGraphic(t *testing.T) {
	o := New(false)
	a, b := &countingGraphic{}, &countingGraphic{}
	o.Add(a)
	o.Add(b)

	o.Draw(&recordingSurface{})
	o.Draw(&recordingSurface{})

	if a.renders != 2 || b.renders != 2 {
		t.Errorf("Expected each graphic rendered twice, got %d and %d", a.renders, b.renders)
	}

	o.Remove(a)
	o.Draw(&recordingSurface{})

	if a.renders != 2 || b.renders != 3 {
		t.Errorf("Removed graphic should not render, got %d and %d", a.renders, b.renders)
	}
	if o.Len() != 1 {
		t.Errorf("Expected 1 graphic, got %d", o.Len())
	}

	o.Clear()
	if o.Len() != 0 {
		t.Errorf("Expected no graphics after clear, got %d", o.Len())
	}
}

func TestOverlay_PostInvalidateCoalesces(t *testing.T) {
	o := New(false)
	drain(o)

	for i := 0; i < 10; i++ {
		o.PostInvalidate()
	}

	select {
	case <-o.Invalidated():
	default:
		t.Fatal("Expected a pending repaint")
	}

	select {
	case <-o.Invalidated():
		t.Error("Expected repaint requests to be merged")
	default:
	}
}

func TestOverlay_TranslatesForFaceGraphic(t *testing.T) {
	o := New(true)
	o.SetCameraInfo(320, 240)
	o.SetSurfaceSize(640, 480)

	g := NewFaceGraphic(o, testStyle(t), nil, true)
	o.Add(g)
	g.Publish(model.NewSnapshot(1, fullPositions()))

	s := &recordingSurface{}
	o.Draw(s)

	if len(s.ops) != 12 {
		t.Fatalf("Expected 12 draw calls, got %d", len(s.ops))
	}
	// left eye (80,80) scaled by 2 and mirrored across a 640 wide surface
	if s.ops[0].X != 480 || s.ops[0].Y != 160 {
		t.Errorf("Expected left eye at (480,160), got (%v,%v)", s.ops[0].X, s.ops[0].Y)
	}

	tr := o.Transform()
	if !tr.Mirror || tr.PreviewWidth != 320 || tr.SurfaceHeight != 480 {
		t.Errorf("Unexpected transform %+v", tr)
	}
}

func TestOverlay_GeometryChangeRequestsRepaint(t *testing.T) {
	o := New(false)
	drain(o)

	o.SetSurfaceSize(640, 480)
	select {
	case <-o.Invalidated():
	default:
		t.Fatal("Expected repaint after surface size change")
	}

	o.SetSurfaceSize(640, 480)
	select {
	case <-o.Invalidated():
		t.Error("Unchanged geometry should not request a repaint")
	default:
	}
}

// resizingSurface changes the preview geometry after the first circle, the
// way a tracker message arriving mid-render would.
type resizingSurface struct {
	recordingSurface
	overlay *Overlay
}

func (r *resizingSurface) DrawCircle(cx, cy, radius float64, p Paint) {
	r.recordingSurface.DrawCircle(cx, cy, radius, p)
	if len(r.ops) == 1 {
		r.overlay.SetCameraInfo(160, 120)
	}
}

func TestOverlay_DrawUsesOneGeometryPerPass(t *testing.T) {
	o := New(false)
	o.SetCameraInfo(320, 240)
	o.SetSurfaceSize(640, 480)

	g := NewFaceGraphic(o, testStyle(t), nil, false)
	o.Add(g)
	g.Publish(model.NewSnapshot(1, fullPositions()))

	s := &resizingSurface{overlay: o}
	o.Draw(s)

	var circles []drawOp
	for _, op := range s.ops {
		if op.Kind == "circle" {
			circles = append(circles, op)
		}
	}
	if len(circles) != 6 {
		t.Fatalf("Expected 6 circles, got %d", len(circles))
	}
	// every marker scaled by 2, none by the later factor of 4
	positions := fullPositions()
	for i, m := range markers {
		want := positions[m.landmark]
		if circles[i].X != want.X*2 || circles[i].Y != want.Y*2 {
			t.Errorf("%s drawn at (%v,%v), expected (%v,%v)", m.label, circles[i].X, circles[i].Y, want.X*2, want.Y*2)
		}
	}

	s = &resizingSurface{overlay: o}
	o.Draw(s)
	if s.ops[0].X != positions[model.LeftEye].X*4 {
		t.Errorf("Expected the next pass to use the new geometry, got x=%v", s.ops[0].X)
	}
}

func TestOverlay_DrawReturnsDrawnSnapshots(t *testing.T) {
	o := New(false)
	tracked := NewFaceGraphic(o, testStyle(t), nil, false)
	partial := NewFaceGraphic(o, testStyle(t), nil, false)
	o.Add(tracked)
	o.Add(partial)

	full := model.NewSnapshot(1, fullPositions())
	tracked.Publish(full)
	partial.Publish(model.NewSnapshot(2, map[model.Landmark]model.Point{model.LeftEye: {X: 1, Y: 1}}))

	drawn := o.Draw(&recordingSurface{})
	if len(drawn) != 1 || drawn[0] != full {
		t.Errorf("Expected only the complete snapshot to be reported, got %v", drawn)
	}
}
