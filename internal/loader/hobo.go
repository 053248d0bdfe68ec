package loader

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

// headerMarkers are the keywords a HOBO export's real header line carries.
// The lines above it are the logger's title and serial-number banner.
var headerMarkers = []string{"date time", "horodatage", "date", "temp", "rh"}

const hoboScanLimit = 20

// loadHOBO parses a HOBO logger export: a text file whose first lines are
// device metadata, followed by a delimited header and readings. The header
// line is located by keyword scan over the first lines, then the remainder is
// parsed as delimited text with the usual sniffing and probing.
func loadHOBO(path string, opt Options) (*RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	data = decodeText(data)

	offset := headerLineOffset(data)

	var best *RawTable
	var bestIdx int
	for _, delim := range delimiters {
		rows, err := readRecords(data, delim)
		if err != nil || len(rows) <= offset {
			continue
		}
		idx, ok := findHeader(rows[offset:], opt)
		if !ok {
			continue
		}
		rows = rows[offset:]
		if best == nil || idx < bestIdx ||
			(idx == bestIdx && len(rows[idx]) > len(best.Columns)) {
			best = buildTable(rows[idx], rows[idx+1:])
			bestIdx = idx
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrAmbiguousHeader)
	}
	return best, nil
}

// headerLineOffset scans the first lines for a header marker and returns the
// index of the matching line, or 0 when none is found (the probing in
// tableFromRows then takes over).
func headerLineOffset(data []byte) int {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for i := 0; scanner.Scan() && i < hoboScanLimit; i++ {
		line := strings.ToLower(scanner.Text())
		for _, marker := range headerMarkers {
			if strings.Contains(line, marker) {
				return i
			}
		}
	}
	return 0
}
