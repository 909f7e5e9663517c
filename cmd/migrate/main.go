package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"faceoverlay/internal/model"
	"faceoverlay/internal/repository/sqlite"
	"faceoverlay/internal/service/storage"
)

// Indexes capture files that are on disk but missing from the database,
// e.g. after the database file was lost. Landmarks cannot be recovered.
func main() {
	capturesDir := flag.String("captures", "captures", "Directory containing captures")
	dbPath := flag.String("db", "data/captures.db", "Database path")
	flag.Parse()

	fmt.Printf("Indexing captures from %s into database %s\n", *capturesDir, *dbPath)

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	repo := sqlite.NewCaptureRepository(db)

	files, err := os.ReadDir(*capturesDir)
	if err != nil {
		log.Fatalf("Failed to read captures directory: %v", err)
	}

	inserted, existing, skipped := 0, 0, 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".jpg") {
			continue
		}

		timestamp, camera, faces, err := storage.ParseCaptureFilename(file.Name())
		if err != nil {
			log.Printf("Skipping %s: %v", file.Name(), err)
			skipped++
			continue
		}

		if c, err := repo.GetByFilename(file.Name()); err != nil {
			log.Fatalf("Failed to look up %s: %v", file.Name(), err)
		} else if c != nil {
			existing++
			continue
		}

		info, err := file.Info()
		if err != nil {
			log.Printf("Failed to get info for %s: %v", file.Name(), err)
			skipped++
			continue
		}

		if _, err := repo.Insert(&model.Capture{
			Filename:  file.Name(),
			Camera:    camera,
			Timestamp: timestamp,
			FilePath:  filepath.Join(*capturesDir, file.Name()),
			FileSize:  info.Size(),
			Faces:     faces,
		}); err != nil {
			log.Fatalf("Failed to insert %s: %v", file.Name(), err)
		}
		inserted++
	}

	fmt.Printf("Indexed %d captures (%d already present)\n", inserted, existing)
	if skipped > 0 {
		fmt.Printf("Skipped %d files (invalid name or errors)\n", skipped)
	}
}
