package main

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"faceoverlay/internal/config"

	"github.com/disintegration/imaging"
)

const face = `{
	"face_id": 1,
	"frame_width": 200,
	"frame_height": 200,
	"landmarks": {
		"position": {"x": 100, "y": 100},
		"left_eye": {"x": 80, "y": 80},
		"right_eye": {"x": 120, "y": 80},
		"nose_base": {"x": 100, "y": 105},
		"mouth_left": {"x": 85, "y": 125},
		"mouth_right": {"x": 115, "y": 125},
		"mouth_bottom": {"x": 100, "y": 135}
	}
}`

func writeFixture(t *testing.T, landmarks string) (imagePath, landmarksPath, outPath string) {
	t.Helper()

	dir := t.TempDir()
	imagePath = filepath.Join(dir, "frame.png")
	if err := imaging.Save(imaging.New(200, 200, color.White), imagePath); err != nil {
		t.Fatalf("Failed to write image: %v", err)
	}

	landmarksPath = filepath.Join(dir, "landmarks.json")
	if err := os.WriteFile(landmarksPath, []byte(landmarks), 0644); err != nil {
		t.Fatalf("Failed to write landmarks: %v", err)
	}
	return imagePath, landmarksPath, filepath.Join(dir, "out.png")
}

func paintedPixels(t *testing.T, path string) int {
	t.Helper()

	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}

	painted := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if r, g, bl, _ := img.At(x, y).RGBA(); r != 0xffff || g != 0xffff || bl != 0xffff {
				painted++
			}
		}
	}
	return painted
}

func TestRun_DrawsCompleteFace(t *testing.T) {
	imagePath, landmarksPath, outPath := writeFixture(t, face)

	drawn, err := run(imagePath, landmarksPath, outPath, false, config.DefaultStyle())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if drawn != 1 {
		t.Errorf("Expected 1 drawn face, got %d", drawn)
	}
	if paintedPixels(t, outPath) == 0 {
		t.Error("Expected the overlay to paint pixels")
	}
}

func TestRun_IncompleteFaceDrawsNothing(t *testing.T) {
	imagePath, landmarksPath, outPath := writeFixture(t, `[{"face_id": 1, "landmarks": {"left_eye": {"x": 80, "y": 80}}}]`)

	drawn, err := run(imagePath, landmarksPath, outPath, false, config.DefaultStyle())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if drawn != 0 {
		t.Errorf("Expected no drawn face, got %d", drawn)
	}
	if n := paintedPixels(t, outPath); n != 0 {
		t.Errorf("Expected an untouched image, %d pixels painted", n)
	}
}

func TestRun_InvalidLandmarks(t *testing.T) {
	imagePath, landmarksPath, outPath := writeFixture(t, `{"landmarks": {"chin": {"x": 1, "y": 1}}}`)

	if _, err := run(imagePath, landmarksPath, outPath, false, config.DefaultStyle()); err == nil {
		t.Error("Expected an error for an unknown landmark")
	}
}

func TestReadMessages_Array(t *testing.T) {
	_, landmarksPath, _ := writeFixture(t, "["+face+","+face+"]")

	messages, err := readMessages(landmarksPath)
	if err != nil {
		t.Fatalf("readMessages failed: %v", err)
	}
	if len(messages) != 2 {
		t.Errorf("Expected 2 messages, got %d", len(messages))
	}
}
