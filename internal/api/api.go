// Package api is the operation surface the calling shell talks to. Every
// operation returns a uniform Result so callers never branch on error types,
// and every operation boundary recovers panics so an internal fault degrades
// to a failed result instead of a crash.
package api

import (
	"fmt"
	"log/slog"

	"github.com/climagraph/climagraph/internal/config"
	"github.com/climagraph/climagraph/internal/loader"
	"github.com/climagraph/climagraph/internal/sensor"
	"github.com/climagraph/climagraph/internal/store"
)

// Result is the uniform outcome shape of every operation.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Payload any    `json:"payload,omitempty"`
}

func ok(message string, payload any) Result {
	return Result{Success: true, Message: message, Payload: payload}
}

func fail(format string, args ...any) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

// API owns the in-memory registry and history and their persistence.
type API struct {
	cfg     *config.Global
	store   *store.Store
	reg     *sensor.Registry
	history []store.HistoryEntry
	log     *slog.Logger
}

// New loads the persisted documents and returns a ready API.
func New(cfg *config.Global) (*API, error) {
	st, err := store.New(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	sensors, err := st.LoadSensors()
	if err != nil {
		return nil, err
	}
	history, err := st.LoadHistory()
	if err != nil {
		return nil, err
	}
	return &API{
		cfg:     cfg,
		store:   st,
		reg:     sensor.NewRegistry(sensors),
		history: history,
		log:     slog.Default(),
	}, nil
}

// run executes an operation body behind the panic boundary.
func (a *API) run(op string, fn func() Result) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("operation panicked", "op", op, "panic", r)
			res = fail("internal error during %s", op)
		}
	}()
	return fn()
}

// record appends a history entry and flushes both documents. Persistence
// failures are reported back but never roll back the in-memory change.
func (a *API) record(action, sensorID, sensorName, details string) error {
	a.history = append(a.history, store.NewEntry(action, sensorID, sensorName, details))
	if err := a.store.SaveSensors(a.reg.List()); err != nil {
		return err
	}
	return a.store.SaveHistory(a.history)
}

// saved folds a record() outcome into an otherwise successful result message.
func (a *API) saved(res Result, err error) Result {
	if err != nil {
		a.log.Error("persisting state", "err", err)
		res.Message += " (warning: changes could not be saved to disk)"
	}
	return res
}

func (a *API) loadOptions() loader.Options {
	opt := loader.DefaultOptions()
	if a.cfg.HeaderProbeLimit > 0 {
		opt.HeaderProbeLimit = a.cfg.HeaderProbeLimit
	}
	return opt
}
