// Package store persists the sensor registry and the action history as JSON
// documents under the data directory. Every save rewrites the whole document
// through a temp-file rename, so a crash mid-write never leaves a truncated
// file behind.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/climagraph/climagraph/internal/sensor"
)

const (
	sensorsFile = "sensors.json"
	historyFile = "history.json"
)

// Store reads and writes the application documents in one directory.
type Store struct {
	dir string
}

// New returns a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory the store writes into.
func (s *Store) Dir() string { return s.dir }

type sensorsDoc struct {
	Sensors map[string]*sensor.Sensor `json:"sensors"`
}

// LoadSensors reads the persisted sensor set. A missing file means a fresh
// install and yields an empty set.
func (s *Store) LoadSensors() ([]*sensor.Sensor, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, sensorsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sensors: %w", err)
	}
	var doc sensorsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode sensors: %w", err)
	}
	out := make([]*sensor.Sensor, 0, len(doc.Sensors))
	for _, sn := range doc.Sensors {
		out = append(out, sn)
	}
	return out, nil
}

// SaveSensors writes the whole sensor set.
func (s *Store) SaveSensors(sensors []*sensor.Sensor) error {
	doc := sensorsDoc{Sensors: make(map[string]*sensor.Sensor, len(sensors))}
	for _, sn := range sensors {
		doc.Sensors[sn.ID] = sn
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sensors: %w", err)
	}
	return safeWrite(filepath.Join(s.dir, sensorsFile), data)
}

// LoadHistory reads the persisted action history, oldest first. A missing
// file yields an empty history.
func (s *Store) LoadHistory() ([]HistoryEntry, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, historyFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return entries, nil
}

// SaveHistory writes the whole history list.
func (s *Store) SaveHistory(entries []HistoryEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return safeWrite(filepath.Join(s.dir, historyFile), data)
}

// safeWrite writes data through a temp file in the same directory and
// renames it into place.
func safeWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}
