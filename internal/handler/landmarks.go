package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"faceoverlay/internal/dto"
	"faceoverlay/internal/logger"
	"faceoverlay/internal/service"

	ws "github.com/gorilla/websocket"
)

// maxLandmarkMessageSize bounds one tracker message.
const maxLandmarkMessageSize = 64 << 10

// LandmarksHandler accepts tracker messages either as a single JSON POST or
// as a WebSocket stream of JSON messages.
func LandmarksHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ws.IsWebSocketUpgrade(r) {
			streamLandmarks(w, r, manager, logger)
			return
		}

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var msg dto.LandmarkMessage
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLandmarkMessageSize)).Decode(&msg); err != nil {
			http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}

		if err := manager.PublishLandmarks(&msg); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, service.ErrUnknownCamera) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}

		w.WriteHeader(http.StatusAccepted)
	}
}

// streamLandmarks publishes every message of a tracker connection. Invalid
// messages are logged and skipped.
func streamLandmarks(w http.ResponseWriter, r *http.Request, manager *service.Manager, logger *logger.Logger) {
	connection, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade error: %v", err)
		return
	}
	defer connection.Close()

	connection.SetReadLimit(maxLandmarkMessageSize)
	logger.Info("Tracker connected from %s", r.RemoteAddr)

	for {
		var msg dto.LandmarkMessage
		if err := connection.ReadJSON(&msg); err != nil {
			if ws.IsCloseError(err, ws.CloseNormalClosure, ws.CloseGoingAway) {
				logger.Info("Tracker disconnected normally")
				return
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				logger.Warning("Skipping malformed tracker message: %v", err)
				continue
			}
			logger.Error("Tracker disconnected with error: %v", err)
			return
		}

		if err := manager.PublishLandmarks(&msg); err != nil {
			logger.Warning("Rejected tracker message: %v", err)
		}
	}
}

// cameraLandmarks is the response of GetLandmarksHandler for one camera.
type cameraLandmarks struct {
	Camera string          `json:"camera"`
	Faces  []dto.FaceState `json:"faces"`
}

// GetLandmarksHandler returns the current snapshots of one camera, or of
// every camera when no camera is given.
func GetLandmarksHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data []cameraLandmarks
		if camera := r.URL.Query().Get("camera"); camera != "" {
			data = append(data, cameraLandmarks{Camera: camera, Faces: manager.Snapshots(camera)})
		} else {
			data = make([]cameraLandmarks, 0)
			for _, camera := range manager.Cameras() {
				data = append(data, cameraLandmarks{Camera: camera, Faces: manager.Snapshots(camera)})
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.Error("Error encoding JSON response: %v", err)
		}
	}
}
