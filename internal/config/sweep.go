// Package config loads the JSON description of a benchmark sweep.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the sweep definition used when none is given.
const DefaultConfigPath = "config/sweep.defaults.json"

// Backends a sweep may request. "serial" runs on one goroutine, "goroutine"
// splits every stage across the worker pool.
const (
	BackendSerial    = "serial"
	BackendGoroutine = "goroutine"
)

// Case is one grid configuration of the sweep.
type Case struct {
	Nx      int `json:"nx"`
	Ny      int `json:"ny"`
	Nz      int `json:"nz"`
	NumIter int `json:"num_iter"`
}

// SweepConfig is the root of a sweep file. Every field is optional; the
// Get methods supply defaults for missing ones.
type SweepConfig struct {
	Cases      []Case   `json:"cases,omitempty"`
	Precisions []string `json:"precisions,omitempty"`
	Backends   []string `json:"backends,omitempty"`
	NumHalo    *int     `json:"num_halo,omitempty"`
	Repeats    *int     `json:"repeats,omitempty"`
	Workers    *int     `json:"workers,omitempty"`
	WarmUp     *bool    `json:"warm_up,omitempty"`
	ResultDir  *string  `json:"result_dir,omitempty"`
	Database   *string  `json:"database,omitempty"`
}

func ptrInt(v int) *int          { return &v }
func ptrBool(v bool) *bool       { return &v }
func ptrString(v string) *string { return &v }

// DefaultSweepConfig mirrors config/sweep.defaults.json. The Get methods
// fall back to its values.
func DefaultSweepConfig() *SweepConfig {
	return &SweepConfig{
		Cases: []Case{
			{Nx: 32, Ny: 32, Nz: 32, NumIter: 64},
			{Nx: 64, Ny: 64, Nz: 32, NumIter: 64},
			{Nx: 128, Ny: 128, Nz: 64, NumIter: 128},
		},
		Precisions: []string{"32", "64"},
		Backends:   []string{BackendSerial, BackendGoroutine},
		NumHalo:    ptrInt(2),
		Repeats:    ptrInt(3),
		Workers:    ptrInt(0),
		WarmUp:     ptrBool(true),
		ResultDir:  ptrString(""),
		Database:   ptrString(""),
	}
}

// LoadSweepConfig reads a sweep definition. The file must have a .json
// extension and be at most 1 MiB.
func LoadSweepConfig(path string) (*SweepConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &SweepConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields that have a closed set of values. Grid
// extents are checked by the run package when each case starts.
func (c *SweepConfig) Validate() error {
	for _, p := range c.Precisions {
		if p != "32" && p != "64" {
			return fmt.Errorf("precision %q must be \"32\" or \"64\"", p)
		}
	}
	for _, b := range c.Backends {
		if b != BackendSerial && b != BackendGoroutine {
			return fmt.Errorf("backend %q must be %q or %q", b, BackendSerial, BackendGoroutine)
		}
	}
	if c.Repeats != nil && *c.Repeats < 1 {
		return fmt.Errorf("repeats must be at least 1, got %d", *c.Repeats)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", *c.Workers)
	}
	return nil
}

func (c *SweepConfig) GetCases() []Case {
	if len(c.Cases) == 0 {
		return DefaultSweepConfig().Cases
	}
	return c.Cases
}

func (c *SweepConfig) GetPrecisions() []string {
	if len(c.Precisions) == 0 {
		return DefaultSweepConfig().Precisions
	}
	return c.Precisions
}

func (c *SweepConfig) GetBackends() []string {
	if len(c.Backends) == 0 {
		return DefaultSweepConfig().Backends
	}
	return c.Backends
}

func (c *SweepConfig) GetNumHalo() int {
	if c.NumHalo == nil {
		return *DefaultSweepConfig().NumHalo
	}
	return *c.NumHalo
}

func (c *SweepConfig) GetRepeats() int {
	if c.Repeats == nil {
		return *DefaultSweepConfig().Repeats
	}
	return *c.Repeats
}

// GetWorkers returns the goroutine backend pool size; 0 means the pool
// default.
func (c *SweepConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

func (c *SweepConfig) GetWarmUp() bool {
	if c.WarmUp == nil {
		return *DefaultSweepConfig().WarmUp
	}
	return *c.WarmUp
}

func (c *SweepConfig) GetResultDir() string {
	if c.ResultDir == nil {
		return ""
	}
	return *c.ResultDir
}

func (c *SweepConfig) GetDatabase() string {
	if c.Database == nil {
		return ""
	}
	return *c.Database
}
