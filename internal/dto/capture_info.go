package dto

import (
	"encoding/json"
	"time"
)

// CaptureInfo is one entry of the capture gallery.
type CaptureInfo struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	TimeOfDay time.Time `json:"timeOfDay"`
	Camera    string    `json:"camera"`
	Faces     int       `json:"faces"`
}

// MarshalJSON customizes JSON output for CaptureInfo to format date and time-of-day.
func (p CaptureInfo) MarshalJSON() ([]byte, error) {
	type Alias CaptureInfo
	return json.Marshal(&struct {
		Date      string `json:"date"`
		TimeOfDay string `json:"timeOfDay"`
		Alias
	}{
		Date:      p.Date.Format("02-01-2006"),
		TimeOfDay: p.TimeOfDay.Format("15:04"),
		Alias:     (Alias)(p),
	})
}

// CapturesData is a page of the capture gallery.
type CapturesData struct {
	Captures    []CaptureInfo `json:"captures"`
	Length      int           `json:"length"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	Limit       int           `json:"limit"`
}
