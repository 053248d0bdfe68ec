package api

import (
	"fmt"

	"github.com/climagraph/climagraph/internal/store"
)

// History returns the audit trail, newest first.
func (a *API) History() Result {
	return a.run("history", func() Result {
		out := make([]store.HistoryEntry, len(a.history))
		for i, e := range a.history {
			out[len(a.history)-1-i] = e
		}
		return ok(fmt.Sprintf("%d history entries", len(out)), out)
	})
}

// ExportHistory writes the audit trail to a CSV file, oldest first.
func (a *API) ExportHistory(path string) Result {
	return a.run("export history", func() Result {
		if err := store.ExportHistoryCSV(a.history, path); err != nil {
			return fail("exporting history: %v", err)
		}
		return ok(fmt.Sprintf("History written to %s", path), path)
	})
}
