// Package sensor defines the sensor entity and its column role mapping, plus
// the in-memory registry the API layer operates on.
package sensor

import (
	"time"
)

// Role names one of the four semantic column roles a source file can carry.
type Role string

const (
	RoleDate        Role = "date"
	RoleTemperature Role = "temperature"
	RoleHumidity    Role = "humidity"
	RoleDewPoint    Role = "dew_point"
)

// ColumnMapping assigns source column names to the recognized roles. Date and
// Temperature are mandatory for a sensor to be usable; Humidity and DewPoint
// are optional and gate which chart types are available. Empty means
// unassigned.
type ColumnMapping struct {
	Date        string `json:"date,omitempty"`
	Temperature string `json:"temperature,omitempty"`
	Humidity    string `json:"humidity,omitempty"`
	DewPoint    string `json:"dew_point,omitempty"`
}

// Complete reports whether the two mandatory roles are assigned.
func (m ColumnMapping) Complete() bool {
	return m.Date != "" && m.Temperature != ""
}

func (m ColumnMapping) HasHumidity() bool { return m.Humidity != "" }
func (m ColumnMapping) HasDewPoint() bool { return m.DewPoint != "" }

// Column returns the source column assigned to a role, or "".
func (m ColumnMapping) Column(r Role) string {
	switch r {
	case RoleDate:
		return m.Date
	case RoleTemperature:
		return m.Temperature
	case RoleHumidity:
		return m.Humidity
	case RoleDewPoint:
		return m.DewPoint
	}
	return ""
}

// Assigned returns the roles that have a column, in canonical order.
func (m ColumnMapping) Assigned() []Role {
	var roles []Role
	for _, r := range []Role{RoleDate, RoleTemperature, RoleHumidity, RoleDewPoint} {
		if m.Column(r) != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

// Sensor is a named data source: a display name, the export file currently
// attached to it and the role mapping used to read that file.
type Sensor struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	FilePath  string         `json:"file_path,omitempty"`
	Mapping   *ColumnMapping `json:"columns,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Ready reports whether the sensor can feed a chart: a file is attached and
// the mandatory roles are mapped.
func (s *Sensor) Ready() bool {
	return s.FilePath != "" && s.Mapping != nil && s.Mapping.Complete()
}
