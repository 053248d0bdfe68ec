package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// delimiters tried when sniffing a delimited file, in preference order.
var delimiters = []rune{',', ';', '\t'}

// loadDelimited parses a .csv or .tsv file. The delimiter is sniffed by
// parsing with each candidate and keeping the one that yields the widest
// header, since vendor exports disagree on separators as much as on header
// placement. Files that are not valid UTF-8 are decoded as Latin-1, the
// other encoding seen in the wild for these exports.
func loadDelimited(path string, opt Options) (*RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	data = decodeText(data)

	// A wrong delimiter usually collapses the header to a single cell, so
	// the candidate that finds a header earliest (widest on ties) wins.
	var (
		best     *RawTable
		bestIdx  int
		firstErr error
	)
	for _, delim := range delimiters {
		rows, err := readRecords(data, delim)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		idx, ok := findHeader(rows, opt)
		if !ok {
			continue
		}
		if best == nil || idx < bestIdx ||
			(idx == bestIdx && len(rows[idx]) > len(best.Columns)) {
			best = buildTable(rows[idx], rows[idx+1:])
			bestIdx = idx
		}
	}
	if best != nil {
		return best, nil
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, ErrAmbiguousHeader
}

func readRecords(data []byte, delim rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse row %d: %w", len(rows)+1, err)
		}
		row := make([]string, len(rec))
		copy(row, rec)
		rows = append(rows, row)
	}
	return rows, nil
}

// decodeText strips a UTF-8 BOM and falls back to Latin-1 decoding when the
// content is not valid UTF-8.
func decodeText(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return data
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return data
	}
	return decoded
}
