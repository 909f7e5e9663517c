package dto

import (
	"fmt"

	"faceoverlay/internal/model"
)

// Tracker events, mirroring the lifecycle of a tracked face.
const (
	EventUpdate  = "update"  // new or updated landmarks for the face
	EventMissing = "missing" // face temporarily not found in the frame
	EventDone    = "done"    // face left the scene, its graphic is removed
)

// LandmarkMessage is what an external face tracker sends for one face.
type LandmarkMessage struct {
	Camera string `json:"camera"`
	FaceID int    `json:"face_id"`
	Event  string `json:"event"`
	// FrameWidth and FrameHeight give the size of the image the landmarks
	// were located in; zero leaves the current preview size unchanged.
	FrameWidth  int                     `json:"frame_width,omitempty"`
	FrameHeight int                     `json:"frame_height,omitempty"`
	Landmarks   map[string]*model.Point `json:"landmarks,omitempty"`
}

// Validate checks the event and landmark names. An empty event is treated
// as an update.
func (m *LandmarkMessage) Validate() error {
	if m.Camera == "" {
		return fmt.Errorf("camera is required")
	}
	switch m.Event {
	case "":
		m.Event = EventUpdate
	case EventUpdate, EventMissing, EventDone:
	default:
		return fmt.Errorf("unknown event %q", m.Event)
	}
	for name := range m.Landmarks {
		if _, ok := model.ParseLandmark(name); !ok {
			return fmt.Errorf("unknown landmark %q", name)
		}
	}
	if m.FrameWidth < 0 || m.FrameHeight < 0 {
		return fmt.Errorf("invalid frame size %dx%d", m.FrameWidth, m.FrameHeight)
	}
	return nil
}

// Snapshot builds the immutable snapshot for an update event. Null
// landmarks are treated as not found. It returns nil for other events.
func (m *LandmarkMessage) Snapshot() *model.Snapshot {
	if m.Event != EventUpdate && m.Event != "" {
		return nil
	}

	positions := make(map[model.Landmark]model.Point, len(m.Landmarks))
	for name, p := range m.Landmarks {
		l, ok := model.ParseLandmark(name)
		if !ok || p == nil {
			continue
		}
		positions[l] = *p
	}
	return model.NewSnapshot(m.FaceID, positions)
}

// FaceState describes one face graphic of a camera for the status API.
type FaceState struct {
	FaceID    int                    `json:"face_id"`
	Tracking  bool                   `json:"tracking"`
	Landmarks map[string]model.Point `json:"landmarks"`
}

// NewFaceState converts a snapshot; s may be nil.
func NewFaceState(faceID int, s *model.Snapshot) FaceState {
	state := FaceState{FaceID: faceID, Landmarks: map[string]model.Point{}}
	if s == nil {
		return state
	}
	state.Tracking = s.Complete()
	for l, p := range s.Positions() {
		state.Landmarks[l.String()] = p
	}
	return state
}
