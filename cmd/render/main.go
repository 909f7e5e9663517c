package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"faceoverlay/internal/config"
	"faceoverlay/internal/dto"
	"faceoverlay/internal/overlay"
	"faceoverlay/internal/render"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Draws the landmark overlay of one or more tracker messages onto a still
// image. The output format follows the -out extension.
func main() {
	imagePath := flag.String("image", "", "Input image (JPEG or PNG)")
	landmarksPath := flag.String("landmarks", "", "Landmark message JSON file (one message or an array)")
	outPath := flag.String("out", "overlay.png", "Output image (.png or .jpg)")
	front := flag.Bool("front", false, "Mirror the overlay like a front-facing camera preview")
	flag.Parse()

	if *imagePath == "" || *landmarksPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	drawn, err := run(*imagePath, *landmarksPath, *outPath, *front, cfg.Style)
	if err != nil {
		log.Fatalf("Failed to render overlay: %v", err)
	}
	fmt.Printf("Wrote %s (%d tracked face(s))\n", *outPath, drawn)
}

// run renders the overlay and reports how many faces were complete enough
// to be drawn.
func run(imagePath, landmarksPath, outPath string, front bool, styleCfg config.StyleConfig) (int, error) {
	img, err := imaging.Open(imagePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open image: %w", err)
	}

	messages, err := readMessages(landmarksPath)
	if err != nil {
		return 0, err
	}

	style, err := overlay.NewStyle(styleCfg)
	if err != nil {
		return 0, fmt.Errorf("failed to build overlay style: %w", err)
	}

	o := overlay.New(front)
	for i := range messages {
		msg := &messages[i]
		if msg.Camera == "" {
			msg.Camera = "still"
		}
		if err := msg.Validate(); err != nil {
			return 0, fmt.Errorf("invalid message %d: %w", i, err)
		}
		if msg.FrameWidth > 0 && msg.FrameHeight > 0 {
			o.SetCameraInfo(msg.FrameWidth, msg.FrameHeight)
		}

		g := overlay.NewFaceGraphic(o, style, nil, front)
		g.Publish(msg.Snapshot())
		o.Add(g)
	}

	dc := gg.NewContextForImage(img)
	o.SetSurfaceSize(dc.Width(), dc.Height())
	drawn := len(o.Draw(render.NewCanvas(dc)))

	if err := imaging.Save(dc.Image(), outPath); err != nil {
		return 0, fmt.Errorf("failed to save image: %w", err)
	}
	return drawn, nil
}

// readMessages accepts a single message object or an array of them.
func readMessages(path string) ([]dto.LandmarkMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read landmarks: %w", err)
	}

	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("[")) {
		var messages []dto.LandmarkMessage
		if err := json.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("failed to parse landmarks: %w", err)
		}
		return messages, nil
	}

	var msg dto.LandmarkMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse landmarks: %w", err)
	}
	return []dto.LandmarkMessage{msg}, nil
}
