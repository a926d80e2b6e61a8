package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/raglab/pdfcorpus/chunk"
	"github.com/raglab/pdfcorpus/docpipe"
)

// Config configures a whole run. Zero value plus defaults() matches the
// stock layout: data/raw/pdf → data/processed.
type Config struct {
	// Input is the directory tree scanned recursively for PDFs.
	Input string `yaml:"input"`

	// Output receives the three artifacts, plus the images/ and repair/
	// working directories unless overridden in Pipeline.
	Output string `yaml:"output"`

	// Workers is the pool size. Parsing engines are resource-heavy, so
	// the default stays a small single-digit count (4).
	Workers int `yaml:"workers"`

	// ChunksDB optionally mirrors the artifacts into a SQLite database at
	// this path. Empty disables the mirror.
	ChunksDB string `yaml:"chunks_db"`

	Pipeline docpipe.Config `yaml:"pipeline"`
	Chunk    chunk.Options  `yaml:"chunk"`
}

// Defaults fills unset fields and anchors the pipeline working directories
// under Output.
func (c *Config) Defaults() {
	if c.Input == "" {
		c.Input = filepath.Join("data", "raw", "pdf")
	}
	if c.Output == "" {
		c.Output = filepath.Join("data", "processed")
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Pipeline.ImageDir == "" {
		c.Pipeline.ImageDir = filepath.Join(c.Output, "images")
	}
	if c.Pipeline.RepairDir == "" {
		c.Pipeline.RepairDir = filepath.Join(c.Output, "repair")
	}
}

// LoadConfig reads a YAML config file. A missing path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.Defaults()
	return &cfg, nil
}
