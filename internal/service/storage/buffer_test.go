package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"faceoverlay/internal/config"
	"faceoverlay/internal/logger"
	"faceoverlay/internal/model"
	"faceoverlay/internal/repository/sqlite"
)

func setupBuffer(t *testing.T, limit int, withDB bool) (*BufferService, *sqlite.DB, string) {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		CaptureDirectory:     filepath.Join(dir, "captures"),
		CaptureBufferLimit:   limit,
		CaptureFlushInterval: 1,
	}
	log := logger.New(filepath.Join(dir, "logs"), io.Discard, io.Discard)
	t.Cleanup(func() { log.Close() })

	if !withDB {
		return NewBufferService(cfg, log, nil, nil), nil, cfg.CaptureDirectory
	}

	db, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	buffer := NewBufferService(cfg, log, sqlite.NewCaptureRepository(db), sqlite.NewLandmarkRepository(db))
	return buffer, db, cfg.CaptureDirectory
}

func face(id int) *model.Snapshot {
	return model.NewSnapshot(id, map[model.Landmark]model.Point{
		model.Position: {X: 10, Y: 10},
		model.LeftEye:  {X: 5, Y: 5},
	})
}

func TestBufferService_LimitPerCamera(t *testing.T) {
	buffer, _, _ := setupBuffer(t, 2, false)

	for i := 0; i < 3; i++ {
		added := buffer.AddCapture([]byte("jpeg"), "door", nil)
		if added != (i < 2) {
			t.Errorf("AddCapture %d returned %v", i, added)
		}
	}
	if !buffer.AddCapture([]byte("jpeg"), "garage", nil) {
		t.Error("Limit should be tracked per camera")
	}
	if buffer.Pending() != 3 {
		t.Errorf("Expected 3 pending captures, got %d", buffer.Pending())
	}
}

func TestBufferService_FlushToDiskOnly(t *testing.T) {
	buffer, _, dir := setupBuffer(t, 5, false)

	buffer.AddCapture([]byte("frame-1"), "door", []*model.Snapshot{face(1)})
	buffer.AddCapture([]byte("frame-2"), "door", nil)
	buffer.FlushCaptures()

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read capture directory: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("Expected 2 capture files, got %d", len(files))
	}
	if buffer.Pending() != 0 {
		t.Errorf("Expected empty buffer after flush, got %d", buffer.Pending())
	}
	if cap(buffer.captures) != 0 {
		t.Errorf("Flushed frames are still referenced by a buffer of capacity %d", cap(buffer.captures))
	}
	if !buffer.AddCapture([]byte("frame-3"), "door", nil) {
		t.Error("Per-camera counter should reset after flush")
	}
}

func TestBufferService_FlushRecordsLandmarks(t *testing.T) {
	buffer, db, _ := setupBuffer(t, 5, true)
	buffer.now = func() time.Time { return time.Date(2025, 6, 15, 14, 30, 0, 0, time.Local) }

	buffer.AddCapture([]byte("frame"), "door", []*model.Snapshot{face(1), face(2)})
	buffer.FlushCaptures()

	captures, err := sqlite.NewCaptureRepository(db).GetAll(nil)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(captures) != 1 {
		t.Fatalf("Expected 1 capture, got %d", len(captures))
	}
	c := captures[0]
	if c.Camera != "door" || c.Faces != 2 || c.FileSize != int64(len("frame")) {
		t.Errorf("Unexpected capture %+v", c)
	}
	if !c.Timestamp.Equal(buffer.now()) {
		t.Errorf("Expected timestamp %v, got %v", buffer.now(), c.Timestamp)
	}

	points, err := sqlite.NewLandmarkRepository(db).GetByCaptureID(c.ID)
	if err != nil {
		t.Fatalf("GetByCaptureID failed: %v", err)
	}
	if len(points) != 4 {
		t.Errorf("Expected 2 landmarks for each of 2 faces, got %d", len(points))
	}
}

func TestBufferService_RunFlushesOnShutdown(t *testing.T) {
	buffer, _, dir := setupBuffer(t, 5, false)
	buffer.flushInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		buffer.Run(ctx)
		close(done)
	}()

	buffer.AddCapture([]byte("frame"), "door", nil)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	files, _ := os.ReadDir(dir)
	if len(files) != 1 {
		t.Errorf("Expected pending capture to be flushed on shutdown, got %d files", len(files))
	}
}
