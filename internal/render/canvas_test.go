package render

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"faceoverlay/internal/overlay"

	"github.com/fogleman/gg"
)

var red = color.RGBA{R: 255, A: 255}

func whiteContext(w, h int) *gg.Context {
	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()
	return dc
}

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestCanvas_DrawCircleFill(t *testing.T) {
	c := NewCanvas(whiteContext(40, 40))

	c.DrawCircle(20, 20, 5, overlay.Paint{Color: red, Style: overlay.Fill})

	if isWhite(c.Image().At(20, 20)) {
		t.Error("Expected circle center to be painted")
	}
	if !isWhite(c.Image().At(2, 2)) {
		t.Error("Expected pixels far from the circle to stay white")
	}
}

func TestCanvas_DrawCircleStroke(t *testing.T) {
	c := NewCanvas(whiteContext(40, 40))

	c.DrawCircle(20, 20, 10, overlay.Paint{Color: red, Style: overlay.Stroke, StrokeWidth: 2})

	if !isWhite(c.Image().At(20, 20)) {
		t.Error("Stroked circle should leave its center unpainted")
	}
	if isWhite(c.Image().At(30, 20)) {
		t.Error("Expected the outline to be painted")
	}
}

func TestCanvas_DrawText(t *testing.T) {
	c := NewCanvas(whiteContext(200, 60))

	c.DrawText("left eye", 10, 40, overlay.Paint{Color: red, TextSize: 24})

	painted := 0
	bounds := c.Image().Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if !isWhite(c.Image().At(x, y)) {
				painted++
			}
		}
	}
	if painted == 0 {
		t.Error("Expected text to paint some pixels")
	}
	if !isWhite(c.Image().At(5, 5)) {
		t.Error("Expected top-left corner to stay white")
	}
}

func encodeTestJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("Failed to encode test JPEG: %v", err)
	}
	return buf.Bytes()
}

func TestGGRenderer_Render(t *testing.T) {
	r := &GGRenderer{Quality: 90}
	frame := encodeTestJPEG(t, 64, 48)

	var gotW, gotH int
	out, err := r.Render(frame, func(s overlay.Surface, width, height int) {
		gotW, gotH = width, height
		s.DrawCircle(32, 24, 6, overlay.Paint{Color: red, Style: overlay.Fill})
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if gotW != 64 || gotH != 48 {
		t.Errorf("Expected surface 64x48, got %dx%d", gotW, gotH)
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Rendered frame is not a JPEG: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Errorf("Unexpected output size %v", img.Bounds())
	}
	r32, g32, _, _ := img.At(32, 24).RGBA()
	if r32>>8 < 200 || g32>>8 > 80 {
		t.Errorf("Expected a red pixel at the circle center, got %v", img.At(32, 24))
	}
}

func TestGGRenderer_InvalidFrame(t *testing.T) {
	r := &GGRenderer{}

	if _, err := r.Render([]byte("garbage"), func(overlay.Surface, int, int) {}); err == nil {
		t.Error("Expected error for an undecodable frame")
	}
}
