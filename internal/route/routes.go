package route

import (
	"net/http"
	"os"
	"path/filepath"

	"faceoverlay/internal/config"
	"faceoverlay/internal/handler"
	"faceoverlay/internal/logger"
	"faceoverlay/internal/middleware"
	"faceoverlay/internal/repository"
	"faceoverlay/internal/service"
	"faceoverlay/internal/service/websocket"
)

// logFiles maps the log endpoints to their level files.
var logFiles = []struct{ path, name string }{
	{"/logs/info", logger.InfoFile},
	{"/logs/warning", logger.WarningFile},
	{"/logs/error", logger.ErrorFile},
}

// dynamicHTMLHandler serves /path as /static/path.html if the file exists; otherwise 404.
func dynamicHTMLHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == "/" {
		path = "/index"
	}

	filePath := filepath.Join("static", filepath.Clean(path)+".html")

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, filePath)
}

// SetupRoutes registers HTTP routes, static file serving, API endpoints,
// and wraps the mux with the authentication middleware.
func SetupRoutes(manager *service.Manager, hub *websocket.HubService, cfg *config.Config, logger *logger.Logger,
	captureRepo repository.CaptureRepository, landmarkRepo repository.LandmarkRepository) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Tracker endpoint
	mux.HandleFunc("/camera/landmarks", handler.LandmarksHandler(manager, logger))

	// API endpoints
	mux.HandleFunc("/api/view", handler.ViewWebsocketHandler(hub, logger))
	mux.HandleFunc("/api/landmarks", handler.GetLandmarksHandler(manager, logger))
	mux.HandleFunc("/api/captures", handler.GetCapturesHandler(logger, captureRepo))
	mux.HandleFunc("/api/captures/view", handler.ViewCaptureHandler(cfg))
	mux.HandleFunc("/api/captures/landmarks", handler.GetCaptureLandmarksHandler(logger, landmarkRepo))
	mux.HandleFunc("/api/captures/delete", handler.DeleteCaptureHandler(cfg, logger, captureRepo))
	mux.HandleFunc("/api/captures/clear", handler.ClearCapturesHandler(cfg, logger, captureRepo))

	// Log endpoints
	for _, file := range logFiles {
		mux.HandleFunc(file.path, handler.ShowLogsHandler(cfg, file.name))
		mux.HandleFunc(file.path+"/clear", handler.ClearLogsHandler(logger, file.name))
	}

	// Auth endpoints
	mux.HandleFunc("/auth/login", handler.LoginHandler(cfg, logger))
	mux.HandleFunc("/auth/logout", handler.LogoutHandler)

	// Automatic HTML handler mapping for example: /settings -> /static/settings.html
	mux.HandleFunc("/", dynamicHTMLHandler)

	return middleware.AuthMiddleware(mux)
}
