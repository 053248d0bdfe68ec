package sensor

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates an unknown sensor id.
	ErrNotFound = errors.New("sensor not found")
	// ErrDuplicateName indicates the display-name uniqueness invariant would
	// be violated. The comparison is case-sensitive.
	ErrDuplicateName = errors.New("sensor name already in use")
)

// Registry holds the sensors in memory. It is owned by the API layer, which
// is responsible for persisting it; the registry itself never touches disk
// and is not safe for concurrent mutation.
type Registry struct {
	byID map[string]*Sensor
}

// NewRegistry builds a registry from previously persisted sensors.
func NewRegistry(sensors []*Sensor) *Registry {
	r := &Registry{byID: make(map[string]*Sensor, len(sensors))}
	for _, s := range sensors {
		r.byID[s.ID] = s
	}
	return r
}

// Add creates a sensor with a fresh id, enforcing name uniqueness.
func (r *Registry) Add(name string) (*Sensor, error) {
	if name == "" {
		return nil, errors.New("sensor name must not be empty")
	}
	if r.byName(name) != nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	now := time.Now()
	s := &Sensor{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.byID[s.ID] = s
	return s, nil
}

// Rename changes a sensor's display name, enforcing uniqueness against every
// other sensor.
func (r *Registry) Rename(id, name string) (*Sensor, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if other := r.byName(name); other != nil && other.ID != id {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	s.Name = name
	s.UpdatedAt = time.Now()
	return s, nil
}

// Delete removes a sensor and returns it, for audit logging. Hard delete:
// there is no tombstone.
func (r *Registry) Delete(id string) (*Sensor, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.byID, id)
	return s, nil
}

// Get returns a sensor by id.
func (r *Registry) Get(id string) (*Sensor, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Touch records an update to a sensor's file or mapping.
func (r *Registry) Touch(id string) {
	if s, ok := r.byID[id]; ok {
		s.UpdatedAt = time.Now()
	}
}

// List returns all sensors ordered by creation time, then name. The order is
// stable so chart colors stay deterministic across renders.
func (r *Registry) List() []*Sensor {
	out := make([]*Sensor, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *Registry) byName(name string) *Sensor {
	for _, s := range r.byID {
		if s.Name == name {
			return s
		}
	}
	return nil
}
