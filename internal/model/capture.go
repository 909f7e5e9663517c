package model

import "time"

// Capture is an annotated frame saved to disk while a face was tracked.
type Capture struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	Camera    string    `json:"camera"`
	Timestamp time.Time `json:"timestamp"`
	FilePath  string    `json:"filepath"`
	FileSize  int64     `json:"filesize"`
	Faces     int       `json:"faces"`
}

// LandmarkPoint is one stored landmark of a face in a capture.
type LandmarkPoint struct {
	ID        int64   `json:"id"`
	CaptureID int64   `json:"capture_id"`
	FaceID    int     `json:"face_id"`
	Landmark  string  `json:"landmark"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}
