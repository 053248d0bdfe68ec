// Package loader reads heterogeneous sensor export files (xlsx spreadsheets,
// delimited text, HOBO logger exports) into an untyped RawTable. Export tools
// routinely prepend device metadata, unit rows or blank banner lines before
// the real header, so every format goes through the same header-row probing
// instead of assuming the first row is the header.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat indicates a file extension outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrFileNotFound indicates the path does not exist on disk.
	ErrFileNotFound = errors.New("file not found")
	// ErrAmbiguousHeader indicates no plausible header row was found within
	// the probe budget.
	ErrAmbiguousHeader = errors.New("no header row found")
)

// Options controls loading behavior.
type Options struct {
	// HeaderProbeLimit is how many leading rows are tried as the header row
	// before giving up with ErrAmbiguousHeader.
	HeaderProbeLimit int
}

// DefaultOptions returns the defaults used by the CLI.
func DefaultOptions() Options {
	return Options{HeaderProbeLimit: 15}
}

// Load reads a data file into a RawTable, dispatching on the file extension
// (case-insensitive). The source file is never modified and nothing is
// cached: every call re-reads from disk.
func Load(path string, opt Options) (*RawTable, error) {
	if opt.HeaderProbeLimit <= 0 {
		opt.HeaderProbeLimit = DefaultOptions().HeaderProbeLimit
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path, opt)
	case ".csv", ".tsv":
		return loadDelimited(path, opt)
	case ".hobo":
		return loadHOBO(path, opt)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// tableFromRows locates the header row in a raw row matrix. The first probed
// row that yields at least two named columns wins; everything below it
// becomes data. Rows 0..HeaderProbeLimit-1 are tried in order.
func tableFromRows(rows [][]string, opt Options) (*RawTable, error) {
	idx, ok := findHeader(rows, opt)
	if !ok {
		limit := opt.HeaderProbeLimit
		if limit > len(rows) {
			limit = len(rows)
		}
		return nil, fmt.Errorf("%w (probed %d rows)", ErrAmbiguousHeader, limit)
	}
	return buildTable(rows[idx], rows[idx+1:]), nil
}

// findHeader returns the index of the first row within the probe budget that
// has at least two named cells.
func findHeader(rows [][]string, opt Options) (int, bool) {
	limit := opt.HeaderProbeLimit
	if limit > len(rows) {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		if namedCells(rows[i]) >= 2 {
			return i, true
		}
	}
	return 0, false
}

func namedCells(row []string) int {
	n := 0
	for _, v := range row {
		if trimCell(v) != "" {
			n++
		}
	}
	return n
}
