package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/climagraph/climagraph/internal/chart"
)

// sanitizeFilename keeps only characters that are safe across filesystems.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	s := b.String()
	if s == "" {
		s = "chart"
	}
	return s
}

// exportPath builds a timestamped, collision-free path for one image.
func exportPath(dir, name string, now time.Time) string {
	base := fmt.Sprintf("%s_%s", sanitizeFilename(name), now.Format("20060102_150405"))
	path := filepath.Join(dir, base+".png")
	for i := 2; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.png", base, i))
	}
}

// writeImages writes rendered images into dir, creating it if needed.
func writeImages(dir string, images []chart.Image) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	now := time.Now()
	paths := make([]string, 0, len(images))
	for _, img := range images {
		path := exportPath(dir, img.Name, now)
		if err := os.WriteFile(path, img.PNG, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
