// Package config loads the YAML run configuration shared by the CLIs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"jobShop/internal/descent"
	"jobShop/internal/ga"
	"jobShop/internal/greedy"
	"jobShop/internal/sa"
	"jobShop/internal/ts"
)

// Section names under the solvers key.
const (
	SectionGreedy  = "greedy"
	SectionDescent = "descent"
	SectionTabu    = "tabu"
	SectionSA      = "sa"
	SectionGA      = "ga"
)

// InstanceRef points at an instance file. Optimum is the best known makespan,
// 0 when unknown.
type InstanceRef struct {
	Name    string `yaml:"name"`
	Path    string `yaml:"path"`
	Optimum int    `yaml:"optimum"`
}

// Config holds the run configuration.
type Config struct {
	// Deadline bounds a single solve; 0 means no deadline.
	Deadline      time.Duration `yaml:"deadline"`
	LogLevel      string        `yaml:"log_level"`
	TraceExporter string        `yaml:"trace_exporter"`
	// Workers overrides the worker count of descent and tabu unless their
	// section sets one.
	Workers int `yaml:"workers"`

	Runs int   `yaml:"runs"`
	Seed int64 `yaml:"seed"`
	// Out is the bench CSV path; empty means the CLI default.
	Out string `yaml:"out"`

	Instances []InstanceRef `yaml:"instances"`

	// Solvers maps a section name to free-form parameters of that solver.
	Solvers map[string]map[string]any `yaml:"solvers"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel:      "info",
		TraceExporter: "none",
		Workers:       1,
		Runs:          10,
		Seed:          1000,
	}
}

// Load reads a YAML config file from the given path. Relative instance paths
// and an explicit relative output path are resolved against the directory of
// the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	dir := filepath.Dir(path)
	if cfg.Out != "" && !filepath.IsAbs(cfg.Out) {
		cfg.Out = filepath.Join(dir, cfg.Out)
	}
	for i := range cfg.Instances {
		p := cfg.Instances[i].Path
		if p != "" && !filepath.IsAbs(p) {
			cfg.Instances[i].Path = filepath.Join(dir, p)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks global values and that every solver section decodes into a
// valid solver config.
func (c *Config) Validate() error {
	if c.Deadline < 0 {
		return fmt.Errorf("deadline must be >= 0 (got %s)", c.Deadline)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch strings.ToLower(c.TraceExporter) {
	case "", "none", "stdout":
	default:
		return fmt.Errorf("trace_exporter must be none or stdout (got %q)", c.TraceExporter)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1 (got %d)", c.Workers)
	}
	if c.Runs < 1 {
		return fmt.Errorf("runs must be >= 1 (got %d)", c.Runs)
	}
	for i, ref := range c.Instances {
		if ref.Path == "" {
			return fmt.Errorf("instances[%d]: path is required", i)
		}
		if ref.Optimum < 0 {
			return fmt.Errorf("instances[%d]: optimum must be >= 0 (got %d)", i, ref.Optimum)
		}
	}
	for name := range c.Solvers {
		switch name {
		case SectionGreedy, SectionDescent, SectionTabu, SectionSA, SectionGA:
		default:
			return fmt.Errorf("solvers: unknown section %q", name)
		}
	}

	if _, err := c.Greedy(); err != nil {
		return err
	}
	if _, err := c.Descent(); err != nil {
		return err
	}
	if _, err := c.Tabu(); err != nil {
		return err
	}
	if _, err := c.SA(); err != nil {
		return err
	}
	if _, err := c.GA(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level, Info when unset.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func (c *Config) Greedy() (greedy.Config, error) {
	cfg := greedy.DefaultConfig()
	if err := c.decode(SectionGreedy, &cfg); err != nil {
		return greedy.Config{}, err
	}
	return cfg, wrapSection(SectionGreedy, cfg.Validate())
}

func (c *Config) Descent() (descent.Config, error) {
	cfg := descent.DefaultConfig()
	cfg.Workers = c.Workers
	if err := c.decode(SectionDescent, &cfg); err != nil {
		return descent.Config{}, err
	}
	return cfg, wrapSection(SectionDescent, cfg.Validate())
}

func (c *Config) Tabu() (ts.Config, error) {
	cfg := ts.DefaultConfig()
	cfg.Workers = c.Workers
	if err := c.decode(SectionTabu, &cfg); err != nil {
		return ts.Config{}, err
	}
	return cfg, wrapSection(SectionTabu, cfg.Validate())
}

func (c *Config) SA() (sa.Config, error) {
	cfg := sa.DefaultConfig()
	if err := c.decode(SectionSA, &cfg); err != nil {
		return sa.Config{}, err
	}
	return cfg, wrapSection(SectionSA, cfg.Validate())
}

// decode overlays the named section onto out. Keys that match no field are
// an error.
func (c *Config) decode(section string, out any) error {
	raw, ok := c.Solvers[section]
	if !ok {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("solvers.%s: %w", section, err)
	}
	return nil
}

func wrapSection(section string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("solvers.%s: %w", section, err)
}

func (c *Config) GA() (ga.Config, error) {
	cfg := ga.DefaultConfig()
	if err := c.decode(SectionGA, &cfg); err != nil {
		return ga.Config{}, err
	}
	return cfg, wrapSection(SectionGA, cfg.Validate())
}
