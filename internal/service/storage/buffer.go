package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"faceoverlay/internal/config"
	"faceoverlay/internal/dto"
	"faceoverlay/internal/logger"
	"faceoverlay/internal/model"
	"faceoverlay/internal/repository"
)

const timestampLayout = "2006-01-02_15-04-05.000"

// BufferService buffers annotated captures in memory and periodically
// flushes them to disk and the database.
type BufferService struct {
	capturesDir   string
	bufferLimit   int
	flushInterval time.Duration
	captures      []dto.BufferedCapture
	bufferCount   map[string]int
	mu            sync.Mutex
	logger        *logger.Logger
	captureRepo   repository.CaptureRepository
	landmarkRepo  repository.LandmarkRepository
	now           func() time.Time
}

// NewBufferService creates a BufferService. The repositories may be nil, in
// which case captures are only written to disk.
func NewBufferService(config *config.Config, logger *logger.Logger, captureRepo repository.CaptureRepository, landmarkRepo repository.LandmarkRepository) *BufferService {
	return &BufferService{
		capturesDir:   config.CaptureDirectory,
		bufferLimit:   config.CaptureBufferLimit,
		flushInterval: time.Duration(config.CaptureFlushInterval) * time.Second,
		captures:      make([]dto.BufferedCapture, 0),
		bufferCount:   make(map[string]int),
		logger:        logger,
		captureRepo:   captureRepo,
		landmarkRepo:  landmarkRepo,
		now:           time.Now,
	}
}

// Run flushes the buffer on every tick until ctx is done, then flushes once more.
func (s *BufferService) Run(ctx context.Context) {
	interval := s.flushInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.FlushCaptures()
		case <-ctx.Done():
			s.FlushCaptures()
			return
		}
	}
}

// AddCapture buffers an annotated frame. It reports false when the camera
// already reached its buffer limit for this flush period.
func (s *BufferService) AddCapture(frame []byte, cameraID string, faces []*model.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bufferCount[cameraID] >= s.bufferLimit {
		return false
	}

	s.captures = append(s.captures, dto.BufferedCapture{
		Timestamp: s.now().Format(timestampLayout),
		Camera:    cameraID,
		Faces:     faces,
		Data:      frame,
	})
	s.bufferCount[cameraID]++
	s.logger.Info("Capture buffer for camera %s: %d/%d", cameraID, s.bufferCount[cameraID], s.bufferLimit)
	return true
}

// Pending returns the number of buffered captures.
func (s *BufferService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.captures)
}

// FlushCaptures writes buffered captures to disk, records them in the
// database and resets the buffer and per-camera counters.
func (s *BufferService) FlushCaptures() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.captures) == 0 {
		return
	}

	if err := os.MkdirAll(s.capturesDir, 0755); err != nil {
		s.logger.Error("Error creating directory: %v", err)
		return
	}

	savedCount := 0
	for i, capture := range s.captures {
		filename := CaptureFilename(capture.Timestamp, capture.Camera, len(capture.Faces), i)
		fullpath := filepath.Join(s.capturesDir, filename)

		if err := os.WriteFile(fullpath, capture.Data, 0644); err != nil {
			s.logger.Error("Error saving capture %s: %v", filename, err)
			continue
		}

		if s.captureRepo != nil {
			if err := s.record(capture, filename, fullpath); err != nil {
				s.logger.Error("Error saving capture %s to database: %v", filename, err)
				continue
			}
		}

		savedCount++
	}

	s.logger.Info("Flushed %d captures to disk", savedCount)
	s.captures = nil
	s.bufferCount = make(map[string]int)
}

func (s *BufferService) record(capture dto.BufferedCapture, filename, fullpath string) error {
	ts, err := time.ParseInLocation(timestampLayout, capture.Timestamp, time.Local)
	if err != nil {
		ts = s.now()
	}

	captureID, err := s.captureRepo.Insert(&model.Capture{
		Filename:  filename,
		Camera:    capture.Camera,
		Timestamp: ts,
		FilePath:  fullpath,
		FileSize:  int64(len(capture.Data)),
		Faces:     len(capture.Faces),
	})
	if err != nil {
		return err
	}

	if s.landmarkRepo == nil {
		return nil
	}

	var points []model.LandmarkPoint
	for _, face := range capture.Faces {
		for l, p := range face.Positions() {
			points = append(points, model.LandmarkPoint{
				CaptureID: captureID,
				FaceID:    face.FaceID(),
				Landmark:  l.String(),
				X:         p.X,
				Y:         p.Y,
			})
		}
	}
	if len(points) == 0 {
		return nil
	}
	if err := s.landmarkRepo.InsertBatch(points); err != nil {
		return fmt.Errorf("failed to save landmarks: %w", err)
	}
	return nil
}
