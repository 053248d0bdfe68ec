package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/climagraph/climagraph/internal/sensor"
)

// SensorInfo is the sensor shape handed to callers.
type SensorInfo struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	FilePath  string                `json:"file_path,omitempty"`
	Mapping   *sensor.ColumnMapping `json:"columns,omitempty"`
	Ready     bool                  `json:"ready"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func infoOf(s *sensor.Sensor) SensorInfo {
	return SensorInfo{
		ID:        s.ID,
		Name:      s.Name,
		FilePath:  s.FilePath,
		Mapping:   s.Mapping,
		Ready:     s.Ready(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// AddSensor registers a new sensor under a unique display name.
func (a *API) AddSensor(name string) Result {
	return a.run("add sensor", func() Result {
		s, err := a.reg.Add(name)
		if err != nil {
			if errors.Is(err, sensor.ErrDuplicateName) {
				return fail("a sensor named %q already exists", name)
			}
			return fail("adding sensor: %v", err)
		}
		res := ok(fmt.Sprintf("Sensor %q added", s.Name), infoOf(s))
		return a.saved(res, a.record("add_sensor", s.ID, s.Name, ""))
	})
}

// RenameSensor changes a sensor's display name.
func (a *API) RenameSensor(id, name string) Result {
	return a.run("rename sensor", func() Result {
		old, err := a.reg.Get(id)
		if err != nil {
			return fail("no sensor with id %q", id)
		}
		oldName := old.Name
		s, err := a.reg.Rename(id, name)
		if err != nil {
			if errors.Is(err, sensor.ErrDuplicateName) {
				return fail("a sensor named %q already exists", name)
			}
			return fail("renaming sensor: %v", err)
		}
		details := fmt.Sprintf("renamed from %q to %q", oldName, name)
		res := ok(fmt.Sprintf("Sensor renamed to %q", s.Name), infoOf(s))
		return a.saved(res, a.record("rename_sensor", s.ID, s.Name, details))
	})
}

// DeleteSensor removes a sensor. Its history entries remain.
func (a *API) DeleteSensor(id string) Result {
	return a.run("delete sensor", func() Result {
		s, err := a.reg.Delete(id)
		if err != nil {
			return fail("no sensor with id %q", id)
		}
		res := ok(fmt.Sprintf("Sensor %q deleted", s.Name), nil)
		return a.saved(res, a.record("delete_sensor", s.ID, s.Name, ""))
	})
}

// ListSensors returns every sensor in stable display order.
func (a *API) ListSensors() Result {
	return a.run("list sensors", func() Result {
		sensors := a.reg.List()
		infos := make([]SensorInfo, len(sensors))
		for i, s := range sensors {
			infos[i] = infoOf(s)
		}
		return ok(fmt.Sprintf("%d sensor(s)", len(infos)), infos)
	})
}
