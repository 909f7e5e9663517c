package repository

import (
	"faceoverlay/internal/dto"
	"faceoverlay/internal/model"
)

// CaptureRepository defines the interface for capture data operations.
type CaptureRepository interface {
	// Create operations
	Insert(c *model.Capture) (int64, error)

	// Read operations
	GetByID(id int64) (*model.Capture, error)
	GetByFilename(filename string) (*model.Capture, error)
	GetAll(filter *dto.CaptureFilters) ([]model.Capture, error)
	GetTotalCount(filter *dto.CaptureFilters) (int, error)

	// Delete operations
	Delete(id int64) error
	DeleteByFilename(filename string) error
	DeleteAll() error
}

// LandmarkRepository defines the interface for stored landmark operations.
type LandmarkRepository interface {
	// Create operations
	InsertBatch(points []model.LandmarkPoint) error

	// Read operations
	GetByCaptureID(captureID int64) ([]model.LandmarkPoint, error)

	// Delete operations
	DeleteByCaptureID(captureID int64) error
}
