package raster

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

// Screenshots writes sequentially numbered bitmap dumps of rendered
// frames into a directory.
type Screenshots struct {
	dir  string
	next int
}

// NewScreenshots returns a writer for dir, creating it if needed.
func NewScreenshots(dir string) (*Screenshots, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating screenshot directory: %w", err)
	}
	return &Screenshots{dir: dir}, nil
}

// Save writes img as the next shot-NNNN.bmp file and returns its path.
// Numbering skips over files already present from earlier runs.
func (s *Screenshots) Save(img image.Image) (string, error) {
	var path string
	for {
		path = filepath.Join(s.dir, fmt.Sprintf("shot-%04d.bmp", s.next))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		s.next++
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating screenshot: %w", err)
	}
	defer f.Close()
	if err := bmp.Encode(f, img); err != nil {
		return "", fmt.Errorf("encoding screenshot: %w", err)
	}
	s.next++
	return path, nil
}
