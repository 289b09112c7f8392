package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/acidbase/internal/chem"
	"github.com/san-kum/acidbase/internal/solution"
	"github.com/san-kum/acidbase/internal/sweep"
)

const (
	DefaultSolution = "weak_acid"
	DefaultDataDir  = ".acidbase"
	DefaultJournal  = ".acidbase/readings.db"
	DefaultPoints   = 31
)

type Config struct {
	Solution      string      `yaml:"solution"`
	Concentration float64     `yaml:"concentration"`
	Strength      float64     `yaml:"strength"`
	Sweep         SweepConfig `yaml:"sweep"`
	DataDir       string      `yaml:"data_dir" env:"ACIDBASE_DATA_DIR"`
	Journal       string      `yaml:"journal" env:"ACIDBASE_DB"`
	LogLevel      string      `yaml:"log_level" env:"ACIDBASE_LOG_LEVEL"`
}

type SweepConfig struct {
	Param  string  `yaml:"param"`
	From   float64 `yaml:"from"`
	To     float64 `yaml:"to"`
	Points int     `yaml:"points"`
	Fixed  float64 `yaml:"fixed"`
}

func DefaultConfig() *Config {
	return &Config{
		Solution:      DefaultSolution,
		Concentration: chem.ConcentrationRange.Default,
		Strength:      chem.WeakStrengthRange.Default,
		Sweep: SweepConfig{
			Param:  string(sweep.Concentration),
			From:   chem.ConcentrationRange.Min,
			To:     chem.ConcentrationRange.Max,
			Points: DefaultPoints,
		},
		DataDir:  DefaultDataDir,
		Journal:  DefaultJournal,
		LogLevel: "info",
	}
}

// Load reads a YAML config over the defaults, then applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields that carry an env tag. Unset variables leave
// the field as it is.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Kind() (chem.Kind, error) {
	return chem.ParseKind(c.Solution)
}

// Build returns a solution with the configured inputs applied. Inputs the
// kind does not take are ignored; out-of-range inputs are clamped.
func (c *Config) Build() (*solution.Solution, error) {
	kind, err := c.Kind()
	if err != nil {
		return nil, err
	}
	s, err := solution.New(kind)
	if err != nil {
		return nil, err
	}
	if kind != chem.Water && c.Concentration != 0 {
		if _, err := s.SetConcentration(c.Concentration); err != nil {
			return nil, err
		}
	}
	if kind.IsWeak() && c.Strength != 0 {
		if _, err := s.SetStrength(c.Strength); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SweepConfig converts the sweep section into a sweep.Config for the
// configured solution.
func (c *Config) SweepConfig() (sweep.Config, error) {
	kind, err := c.Kind()
	if err != nil {
		return sweep.Config{}, err
	}
	param, err := sweep.ParseParam(c.Sweep.Param)
	if err != nil {
		return sweep.Config{}, err
	}
	cfg := sweep.Config{
		Kind:   kind,
		Param:  param,
		From:   c.Sweep.From,
		To:     c.Sweep.To,
		Points: c.Sweep.Points,
		Fixed:  c.Sweep.Fixed,
	}
	if cfg.Fixed == 0 {
		if param == sweep.Strength {
			cfg.Fixed = c.Concentration
		} else if kind.IsWeak() {
			cfg.Fixed = c.Strength
		}
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto a slog level. Unknown names fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
