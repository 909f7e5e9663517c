package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	RendererGocv = "gocv"
	RendererGG   = "gg"
)

type Config struct {
	Port                 int
	CamerasPort          int // UDP port the cameras stream JPEG frames to
	Password             string
	LogDirectory         string
	CaptureDirectory     string
	DatabasePath         string
	AssetDirectory       string
	CaptureBufferLimit   int // captures kept per camera between flushes
	CaptureFlushInterval int // seconds
	CaptureInterval      int // seconds between captures of one camera, 0 disables capturing
	ProcessingInterval   int // render every Nth frame (1 = every frame)
	ProcessingWorkers    int
	Renderer             string
	JPEGQuality          int
	FrontFacingCameras   map[string]bool
	CameraNames          map[string]string // sender IP -> camera name
	Style                StyleConfig
}

// StyleConfig holds the raw drawing values for the landmark overlay. They are
// read once at startup and never change afterwards.
type StyleConfig struct {
	DotRadius        float64
	TextOffsetY      float64
	TextSize         float64
	HintStroke       float64
	EyeOutlineStroke float64
	OverlayHint      string
	EyeWhite         string
	Iris             string
	EyeOutline       string
	Eyelid           string
}

// DefaultStyle returns the stock overlay style.
func DefaultStyle() StyleConfig {
	return StyleConfig{
		DotRadius:        3.0,
		TextOffsetY:      -30.0,
		TextSize:         16.0,
		HintStroke:       2.0,
		EyeOutlineStroke: 5.0,
		OverlayHint:      "#FFEB3B",
		EyeWhite:         "#F8F8F8",
		Iris:             "#202020",
		EyeOutline:       "#000000",
		Eyelid:           "#C99F74",
	}
}

// Load reads the configuration from the environment. A .env file in the
// working directory, if present, is applied first without overriding
// variables that are already set.
func Load() *Config {
	_ = godotenv.Load()

	defaults := DefaultStyle()

	return &Config{
		Port:                 getEnvAsInt("PORT", 8080),
		CamerasPort:          getEnvAsInt("CAMERAS_PORT", 9000),
		Password:             getEnv("PASSWORD", "admin"),
		LogDirectory:         getEnv("LOG_DIR", filepath.Join(".", "logs")),
		CaptureDirectory:     getEnv("CAPTURE_DIR", filepath.Join(".", "captures")),
		DatabasePath:         getEnv("DATABASE_PATH", filepath.Join(".", "data", "captures.db")),
		AssetDirectory:       getEnv("ASSET_DIR", filepath.Join(".", "assets")),
		CaptureBufferLimit:   getEnvAsInt("CAPTURE_BUFFER_LIMIT", 10),
		CaptureFlushInterval: getEnvAsInt("CAPTURE_FLUSH_INTERVAL", 30),
		CaptureInterval:      getEnvAsInt("CAPTURE_INTERVAL", 5),
		ProcessingInterval:   getEnvAsInt("PROCESSING_INTERVAL", 1),
		ProcessingWorkers:    getEnvAsInt("PROCESSING_WORKERS", 3),
		Renderer:             getEnv("RENDERER", RendererGocv),
		JPEGQuality:          getEnvAsInt("JPEG_QUALITY", 85),
		FrontFacingCameras:   getEnvAsSet("FRONT_FACING_CAMERAS"),
		CameraNames:          getEnvAsMap("CAMERA_NAMES"),
		Style: StyleConfig{
			DotRadius:        getEnvAsFloat("DOT_RADIUS", defaults.DotRadius),
			TextOffsetY:      getEnvAsFloat("TEXT_OFFSET_Y", defaults.TextOffsetY),
			TextSize:         getEnvAsFloat("TEXT_SIZE", defaults.TextSize),
			HintStroke:       getEnvAsFloat("HINT_STROKE", defaults.HintStroke),
			EyeOutlineStroke: getEnvAsFloat("EYE_OUTLINE_STROKE", defaults.EyeOutlineStroke),
			OverlayHint:      getEnv("COLOR_OVERLAY_HINT", defaults.OverlayHint),
			EyeWhite:         getEnv("COLOR_EYE_WHITE", defaults.EyeWhite),
			Iris:             getEnv("COLOR_IRIS", defaults.Iris),
			EyeOutline:       getEnv("COLOR_EYE_OUTLINE", defaults.EyeOutline),
			Eyelid:           getEnv("COLOR_EYELID", defaults.Eyelid),
		},
	}
}

// IsFrontFacing reports whether the named camera faces the user, which
// mirrors its preview horizontally.
func (c *Config) IsFrontFacing(camera string) bool {
	return c.FrontFacingCameras[camera]
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsSet parses a comma separated list ("cam1,cam2").
func getEnvAsSet(key string) map[string]bool {
	set := make(map[string]bool)
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			set[item] = true
		}
	}
	return set
}

// getEnvAsMap parses "key=value" pairs separated by commas
// ("192.168.1.20=door,192.168.1.21=garage").
func getEnvAsMap(key string) map[string]string {
	m := make(map[string]string)
	for _, pair := range strings.Split(os.Getenv(key), ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		m[k] = v
	}
	return m
}
