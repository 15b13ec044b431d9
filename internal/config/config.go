// Package config loads the course configuration file.
//
// All defaults are explicit values on a config struct passed to the
// components that need them; nothing reads process-wide state.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"labreg/internal/attendance"
)

// Course is the per-course configuration: where the store files live, which
// cohort is being managed and the attendance hour cap.
type Course struct {
	// DataDir holds the per-dataset store files.
	DataDir string `yaml:"data_dir"`

	// Cohort is the academic-year label stamped on imported students
	// (e.g. "2024/25").
	Cohort string `yaml:"cohort"`

	// MaxHours caps the attendance valid-hours denominator.
	MaxHours int64 `yaml:"max_hours"`
}

// Default returns the configuration used when no file is given.
func Default() Course {
	return Course{
		DataDir:  "data",
		MaxHours: attendance.DefaultMaxHours,
	}
}

// Load reads a yaml course configuration. Missing fields keep their
// defaults; unknown fields are rejected.
func Load(path string) (Course, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.MaxHours <= 0 {
		c.MaxHours = attendance.DefaultMaxHours
	}
	return c, nil
}

// StorePath returns the path of one dataset's store file.
func (c Course) StorePath(dataset string) string {
	return filepath.Join(c.DataDir, dataset+".db")
}
