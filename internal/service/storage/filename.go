package storage

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CaptureFilename names a capture file:
// <date>_<time>_<camera>_<faces>faces_<index>.jpg
func CaptureFilename(timestamp, camera string, faces, index int) string {
	return fmt.Sprintf("%s_%s_%dfaces_%d.jpg", timestamp, camera, faces, index)
}

// ParseCaptureFilename is the inverse of CaptureFilename. Camera names may
// contain underscores.
func ParseCaptureFilename(filename string) (timestamp time.Time, camera string, faces int, err error) {
	name, ok := strings.CutSuffix(filename, ".jpg")
	if !ok {
		return time.Time{}, "", 0, fmt.Errorf("invalid capture filename: %s", filename)
	}

	parts := strings.Split(name, "_")
	if len(parts) < 5 {
		return time.Time{}, "", 0, fmt.Errorf("invalid capture filename: %s", filename)
	}

	timestamp, err = time.ParseInLocation(timestampLayout, parts[0]+"_"+parts[1], time.Local)
	if err != nil {
		return time.Time{}, "", 0, fmt.Errorf("failed to parse timestamp: %w", err)
	}

	facesPart, ok := strings.CutSuffix(parts[len(parts)-2], "faces")
	if !ok {
		return time.Time{}, "", 0, fmt.Errorf("invalid face count in %s", filename)
	}
	faces, err = strconv.Atoi(facesPart)
	if err != nil {
		return time.Time{}, "", 0, fmt.Errorf("invalid face count in %s: %w", filename, err)
	}

	camera = strings.Join(parts[2:len(parts)-2], "_")
	if camera == "" {
		return time.Time{}, "", 0, fmt.Errorf("missing camera in %s", filename)
	}
	return timestamp, camera, faces, nil
}
