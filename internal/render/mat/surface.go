// Package mat draws overlays straight onto OpenCV matrices.
package mat

import (
	"fmt"
	"image"
	"math"

	"faceoverlay/internal/overlay"
	"faceoverlay/internal/render"

	"gocv.io/x/gocv"
)

// hersheyPixelHeight approximates the glyph height of FontHersheySimplex at
// scale 1.0.
const hersheyPixelHeight = 22.0

// Surface is an overlay.Surface over a gocv.Mat. Drawing errors do not stop
// the pass; the first one is kept and returned by Err.
type Surface struct {
	mat *gocv.Mat
	err error
}

func NewSurface(mat *gocv.Mat) *Surface {
	return &Surface{mat: mat}
}

func (s *Surface) DrawCircle(cx, cy, radius float64, p overlay.Paint) {
	thickness := -1
	if p.Style == overlay.Stroke {
		thickness = max(1, int(math.Round(p.StrokeWidth)))
	}
	center := image.Pt(int(math.Round(cx)), int(math.Round(cy)))
	s.keep(gocv.Circle(s.mat, center, int(math.Round(radius)), p.Color, thickness))
}

func (s *Surface) DrawText(text string, x, y float64, p overlay.Paint) {
	scale := p.TextSize / hersheyPixelHeight
	if scale <= 0 {
		scale = 0.5
	}
	org := image.Pt(int(math.Round(x)), int(math.Round(y)))
	s.keep(gocv.PutText(s.mat, text, org, gocv.FontHersheySimplex, scale, p.Color, 1))
}

func (s *Surface) keep(err error) {
	if err != nil && s.err == nil {
		s.err = err
	}
}

// Err returns the first drawing error.
func (s *Surface) Err() error {
	return s.err
}

// Renderer renders frames with OpenCV.
type Renderer struct {
	Quality int
}

var _ render.FrameRenderer = (*Renderer)(nil)

func (r *Renderer) Render(frame []byte, draw render.DrawFunc) ([]byte, error) {
	img, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("decoded frame is empty")
	}

	surface := NewSurface(&img)
	draw(surface, img.Cols(), img.Rows())
	if err := surface.Err(); err != nil {
		return nil, fmt.Errorf("failed to draw overlay: %w", err)
	}

	quality := r.Quality
	if quality <= 0 || quality > 100 {
		quality = 95
	}
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{int(gocv.IMWriteJpegQuality), quality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}
