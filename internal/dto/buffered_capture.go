package dto

import "faceoverlay/internal/model"

// BufferedCapture holds an annotated frame and the faces drawn on it before
// it is flushed to disk.
type BufferedCapture struct {
	Timestamp string
	Camera    string
	Faces     []*model.Snapshot
	Data      []byte
}
