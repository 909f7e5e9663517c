package sqlite

import (
	"fmt"

	"faceoverlay/internal/model"
)

// LandmarkRepository implements repository.LandmarkRepository for SQLite.
type LandmarkRepository struct {
	db *DB
}

// NewLandmarkRepository creates a new SQLite landmark repository.
func NewLandmarkRepository(db *DB) *LandmarkRepository {
	return &LandmarkRepository{db: db}
}

// InsertBatch adds multiple landmark points in a single transaction.
func (r *LandmarkRepository) InsertBatch(points []model.LandmarkPoint) error {
	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO landmarks (capture_id, face_id, landmark, x, y)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.Exec(p.CaptureID, p.FaceID, p.Landmark, p.X, p.Y); err != nil {
			return fmt.Errorf("failed to insert landmark: %w", err)
		}
	}

	return tx.Commit()
}

// GetByCaptureID retrieves all landmark points of a capture.
func (r *LandmarkRepository) GetByCaptureID(captureID int64) ([]model.LandmarkPoint, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, capture_id, face_id, landmark, x, y
		FROM landmarks WHERE capture_id = ? ORDER BY face_id, id
	`, captureID)
	if err != nil {
		return nil, fmt.Errorf("failed to query landmarks: %w", err)
	}
	defer rows.Close()

	var points []model.LandmarkPoint
	for rows.Next() {
		var p model.LandmarkPoint
		if err := rows.Scan(&p.ID, &p.CaptureID, &p.FaceID, &p.Landmark, &p.X, &p.Y); err != nil {
			return nil, fmt.Errorf("failed to scan landmark: %w", err)
		}
		points = append(points, p)
	}

	return points, rows.Err()
}

// DeleteByCaptureID removes all landmark points of a capture.
func (r *LandmarkRepository) DeleteByCaptureID(captureID int64) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM landmarks WHERE capture_id = ?`, captureID); err != nil {
		return fmt.Errorf("failed to delete landmarks: %w", err)
	}
	return nil
}
