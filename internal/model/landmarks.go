package model

// Landmark names one anatomical point tracked on a face.
type Landmark int

const (
	// Position is the center of the face.
	Position Landmark = iota
	LeftEye
	RightEye
	NoseBase
	MouthLeft
	MouthRight
	MouthBottom

	NumLandmarks = 7
)

var landmarkNames = [NumLandmarks]string{
	Position:    "position",
	LeftEye:     "left_eye",
	RightEye:    "right_eye",
	NoseBase:    "nose_base",
	MouthLeft:   "mouth_left",
	MouthRight:  "mouth_right",
	MouthBottom: "mouth_bottom",
}

// String returns the snake_case name used on the wire and in the database.
func (l Landmark) String() string {
	if l < 0 || int(l) >= NumLandmarks {
		return "unknown"
	}
	return landmarkNames[l]
}

// ParseLandmark is the inverse of Landmark.String.
func ParseLandmark(name string) (Landmark, bool) {
	for i, n := range landmarkNames {
		if n == name {
			return Landmark(i), true
		}
	}
	return 0, false
}

// Point is a coordinate in image space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot is everything known about one tracked face at one point in time.
// A Snapshot is never modified after NewSnapshot returns; a newer detection
// always produces a new Snapshot.
type Snapshot struct {
	faceID    int
	positions [NumLandmarks]Point
	present   [NumLandmarks]bool
}

// NewSnapshot copies the given positions into a new snapshot. Landmarks
// missing from the map are absent in the snapshot.
func NewSnapshot(faceID int, positions map[Landmark]Point) *Snapshot {
	s := &Snapshot{faceID: faceID}
	for l, p := range positions {
		if l < 0 || int(l) >= NumLandmarks {
			continue
		}
		s.positions[l] = p
		s.present[l] = true
	}
	return s
}

// FaceID is the tracker's identifier for the face.
func (s *Snapshot) FaceID() int {
	return s.faceID
}

// Position returns the image-space position of l and whether the detector
// located it.
func (s *Snapshot) Position(l Landmark) (Point, bool) {
	if l < 0 || int(l) >= NumLandmarks {
		return Point{}, false
	}
	return s.positions[l], s.present[l]
}

// Complete reports whether all seven landmarks are present.
func (s *Snapshot) Complete() bool {
	for _, ok := range s.present {
		if !ok {
			return false
		}
	}
	return true
}

// Positions returns a copy of the present landmarks.
func (s *Snapshot) Positions() map[Landmark]Point {
	m := make(map[Landmark]Point, NumLandmarks)
	for i, ok := range s.present {
		if ok {
			m[Landmark(i)] = s.positions[i]
		}
	}
	return m
}
