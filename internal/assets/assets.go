// Package assets loads the decorative face graphics bundled with the overlay.
package assets

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const (
	PigNoseFile   = "pig_nose_emoji.png"
	MustacheFile  = "mustache.png"
	HappyStarFile = "happy_star.png"
	HatFile       = "red_hat.png"
)

// Bundle holds the decorative images. It is loaded once and shared
// read-only by every face graphic; images that were not found are nil.
type Bundle struct {
	PigNose   image.Image
	Mustache  image.Image
	HappyStar image.Image
	Hat       image.Image

	// Missing lists the files that were not present in the asset directory.
	Missing []string
}

// Load reads the bundle from dir. A missing file is recorded in
// Bundle.Missing; a file that exists but cannot be decoded is an error.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{}

	targets := []struct {
		file string
		dst  *image.Image
	}{
		{PigNoseFile, &b.PigNose},
		{MustacheFile, &b.Mustache},
		{HappyStarFile, &b.HappyStar},
		{HatFile, &b.Hat},
	}

	for _, target := range targets {
		path := filepath.Join(dir, target.file)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			b.Missing = append(b.Missing, target.file)
			continue
		}

		img, err := imaging.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load asset %s: %w", target.file, err)
		}
		*target.dst = img
	}

	return b, nil
}

// Loaded returns how many of the images are available.
func (b *Bundle) Loaded() int {
	n := 0
	for _, img := range []image.Image{b.PigNose, b.Mustache, b.HappyStar, b.Hat} {
		if img != nil {
			n++
		}
	}
	return n
}
