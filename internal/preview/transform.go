// Package preview maps landmark coordinates from the image the tracker
// analysed onto the surface the overlay is drawn on.
package preview

// Transform is an immutable description of the camera preview geometry.
// Zero sizes mean "unknown" and leave the corresponding axis unscaled.
type Transform struct {
	PreviewWidth  int
	PreviewHeight int
	SurfaceWidth  int
	SurfaceHeight int
	// Mirror flips the x axis, as needed for front-facing cameras.
	Mirror bool
}

// WidthScaleFactor is the horizontal surface/preview ratio.
func (t Transform) WidthScaleFactor() float64 {
	if t.PreviewWidth <= 0 || t.SurfaceWidth <= 0 {
		return 1
	}
	return float64(t.SurfaceWidth) / float64(t.PreviewWidth)
}

// HeightScaleFactor is the vertical surface/preview ratio.
func (t Transform) HeightScaleFactor() float64 {
	if t.PreviewHeight <= 0 || t.SurfaceHeight <= 0 {
		return 1
	}
	return float64(t.SurfaceHeight) / float64(t.PreviewHeight)
}

// ScaleX scales a horizontal distance from image to surface units.
func (t Transform) ScaleX(x float64) float64 {
	return x * t.WidthScaleFactor()
}

// ScaleY scales a vertical distance from image to surface units.
func (t Transform) ScaleY(y float64) float64 {
	return y * t.HeightScaleFactor()
}

// TranslateX maps an image x coordinate to surface space, mirroring it
// when the preview is mirrored.
func (t Transform) TranslateX(x float64) float64 {
	if t.Mirror {
		return float64(t.SurfaceWidth) - t.ScaleX(x)
	}
	return t.ScaleX(x)
}

// TranslateY maps an image y coordinate to surface space.
func (t Transform) TranslateY(y float64) float64 {
	return t.ScaleY(y)
}
