package overlay

import (
	"fmt"
	"image/color"

	"faceoverlay/internal/config"

	"github.com/lucasb-eyer/go-colorful"
)

// PaintStyle tells a Surface whether to fill or outline a shape.
type PaintStyle int

const (
	Fill PaintStyle = iota
	Stroke
)

// Paint describes how a single drawing call looks.
type Paint struct {
	Color       color.RGBA
	Style       PaintStyle
	StrokeWidth float64
	TextSize    float64
}

// Style is the fixed set of paints and metrics used by the face graphic.
type Style struct {
	DotRadius   float64
	TextOffsetY float64

	HintText    Paint
	HintOutline Paint
	EyeWhite    Paint
	Iris        Paint
	EyeOutline  Paint
	Eyelid      Paint
}

// NewStyle builds the paints from configuration. It fails if a colour is
// not a valid #rgb or #rrggbb hex string.
func NewStyle(cfg config.StyleConfig) (Style, error) {
	hint, err := parseColor("overlay hint", cfg.OverlayHint)
	if err != nil {
		return Style{}, err
	}
	eyeWhite, err := parseColor("eye white", cfg.EyeWhite)
	if err != nil {
		return Style{}, err
	}
	iris, err := parseColor("iris", cfg.Iris)
	if err != nil {
		return Style{}, err
	}
	eyeOutline, err := parseColor("eye outline", cfg.EyeOutline)
	if err != nil {
		return Style{}, err
	}
	eyelid, err := parseColor("eyelid", cfg.Eyelid)
	if err != nil {
		return Style{}, err
	}

	return Style{
		DotRadius:   cfg.DotRadius,
		TextOffsetY: cfg.TextOffsetY,
		HintText:    Paint{Color: hint, Style: Fill, TextSize: cfg.TextSize},
		HintOutline: Paint{Color: hint, Style: Stroke, StrokeWidth: cfg.HintStroke},
		EyeWhite:    Paint{Color: eyeWhite, Style: Fill},
		Iris:        Paint{Color: iris, Style: Fill},
		EyeOutline:  Paint{Color: eyeOutline, Style: Stroke, StrokeWidth: cfg.EyeOutlineStroke},
		Eyelid:      Paint{Color: eyelid, Style: Fill},
	}, nil
}

func parseColor(name, hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid %s colour %q: %w", name, hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
