// Package render implements overlay surfaces on top of decoded frames.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"faceoverlay/internal/overlay"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var regular *truetype.Font

func init() {
	var err error
	regular, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// DrawFunc draws an overlay onto a surface of the given pixel size.
type DrawFunc func(s overlay.Surface, width, height int)

// FrameRenderer decodes a JPEG frame, lets draw paint on it and returns
// the re-encoded JPEG.
type FrameRenderer interface {
	Render(frame []byte, draw DrawFunc) ([]byte, error)
}

// Canvas is an overlay.Surface backed by a gg context.
type Canvas struct {
	dc    *gg.Context
	faces map[float64]font.Face
}

// NewCanvas wraps dc.
func NewCanvas(dc *gg.Context) *Canvas {
	return &Canvas{dc: dc, faces: make(map[float64]font.Face)}
}

func (c *Canvas) DrawCircle(cx, cy, radius float64, p overlay.Paint) {
	c.dc.SetColor(p.Color)
	c.dc.DrawCircle(cx, cy, radius)
	if p.Style == overlay.Stroke {
		c.dc.SetLineWidth(p.StrokeWidth)
		c.dc.Stroke()
		return
	}
	c.dc.Fill()
}

// DrawText draws text with its baseline starting at (x, y).
func (c *Canvas) DrawText(text string, x, y float64, p overlay.Paint) {
	c.dc.SetFontFace(c.face(p.TextSize))
	c.dc.SetColor(p.Color)
	c.dc.DrawString(text, x, y)
}

func (c *Canvas) face(size float64) font.Face {
	if size <= 0 {
		size = 12
	}
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(regular, &truetype.Options{Size: size})
	c.faces[size] = f
	return f
}

// Image returns the canvas content.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// GGRenderer renders frames in pure Go.
type GGRenderer struct {
	Quality int
}

func (r *GGRenderer) Render(frame []byte, draw DrawFunc) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	dc := gg.NewContextForImage(img)
	canvas := NewCanvas(dc)
	draw(canvas, dc.Width(), dc.Height())

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas.Image(), &jpeg.Options{Quality: r.quality()}); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *GGRenderer) quality() int {
	if r.Quality <= 0 || r.Quality > 100 {
		return jpeg.DefaultQuality
	}
	return r.Quality
}
