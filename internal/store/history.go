package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records one user action for the audit trail.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	SensorID   string    `json:"sensor_id,omitempty"`
	SensorName string    `json:"sensor_name,omitempty"`
	Details    string    `json:"details,omitempty"`
}

// NewEntry builds a history entry stamped now.
func NewEntry(action, sensorID, sensorName, details string) HistoryEntry {
	return HistoryEntry{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Action:     action,
		SensorID:   sensorID,
		SensorName: sensorName,
		Details:    details,
	}
}

// ExportHistoryCSV writes the history to a CSV file, oldest first.
func ExportHistoryCSV(entries []HistoryEntry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Timestamp", "Action", "Sensor", "Details"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		rec := []string{
			e.Timestamp.Format(time.RFC3339),
			e.Action,
			e.SensorName,
			e.Details,
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return f.Close()
}
