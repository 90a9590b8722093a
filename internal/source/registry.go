// Package source manages the data source registry and executes queries
// against the configured backends.
package source

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Supported driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Profile describes one queryable data source.
type Profile struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	Driver      string `yaml:"driver"`
	Host        string `yaml:"host,omitempty"`
	Port        int    `yaml:"port,omitempty"`
	DSN         string `yaml:"dsn"`
	// Schema holds a curated or annotated schema description. When empty
	// the schema is introspected from the live database.
	Schema string `yaml:"schema,omitempty"`
}

// Registry is the set of configured data sources.
type Registry struct {
	Sources []Profile `yaml:"sources"`
}

// LoadRegistry reads and validates a source registry from a YAML file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: read registry %s", path)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, eris.Wrapf(err, "source: parse registry %s", path)
	}

	if err := reg.validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Save writes the registry back to a YAML file. Used to persist annotated
// schemas.
func (r *Registry) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return eris.Wrap(err, "source: marshal registry")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return eris.Wrapf(err, "source: write registry %s", path)
	}
	return nil
}

// Find returns the profile with the given ID, or nil if absent.
func (r *Registry) Find(id string) *Profile {
	for i := range r.Sources {
		if r.Sources[i].ID == id {
			return &r.Sources[i]
		}
	}
	return nil
}

func (r *Registry) validate() error {
	seen := make(map[string]bool, len(r.Sources))
	for _, p := range r.Sources {
		if p.ID == "" {
			return eris.New("source: profile missing id")
		}
		if seen[p.ID] {
			return eris.Errorf("source: duplicate profile id %q", p.ID)
		}
		seen[p.ID] = true

		switch p.Driver {
		case DriverPostgres, DriverSQLite:
		default:
			return eris.Errorf("source: profile %q has unsupported driver %q", p.ID, p.Driver)
		}

		if p.DSN == "" {
			return eris.Errorf("source: profile %q missing dsn", p.ID)
		}
	}
	return nil
}
