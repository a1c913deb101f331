// Package config provides environment-driven configuration for the grid planner.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration values.
type Config struct {
	Port          string   `yaml:"port"`
	ListenHost    string   `yaml:"listen_host"`
	CORSOrigins   []string `yaml:"cors_origins"`
	LogLevel      string   `yaml:"log_level"`
	GridFile      string   `yaml:"grid_file"`
	GridWidth     int      `yaml:"grid_width"`
	GridHeight    int      `yaml:"grid_height"`
	ZonesFile     string   `yaml:"zones_file"`
	ZoneSimplify  float64  `yaml:"zone_simplify"`
	SearchWorkers int      `yaml:"search_workers"`
	MaxGridCells  int      `yaml:"max_grid_cells"`
}

// ConfigFileEnv names the optional YAML file read before the environment.
const ConfigFileEnv = "GRID_PLANNER_CONFIG"

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		Port:          "8080",
		ListenHost:    "127.0.0.1",
		CORSOrigins:   []string{"*"},
		LogLevel:      "info",
		SearchWorkers: 4,
		MaxGridCells:  250000,
	}
}

// Load builds the configuration from defaults, the optional YAML file and
// environment variables, in that order of precedence (last wins).
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	c.Port = envOrDefault("PORT", c.Port)
	c.ListenHost = envOrDefault("LISTEN_HOST", c.ListenHost)
	c.LogLevel = envOrDefault("LOG_LEVEL", c.LogLevel)
	c.GridFile = envOrDefault("GRID_FILE", c.GridFile)
	c.ZonesFile = envOrDefault("ZONES_FILE", c.ZonesFile)

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = strings.Split(v, ",")
	}
	for i, o := range c.CORSOrigins {
		c.CORSOrigins[i] = strings.TrimSpace(o)
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"GRID_WIDTH", &c.GridWidth},
		{"GRID_HEIGHT", &c.GridHeight},
		{"SEARCH_WORKERS", &c.SearchWorkers},
		{"MAX_GRID_CELLS", &c.MaxGridCells},
	}
	if v := os.Getenv("ZONE_SIMPLIFY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("ZONE_SIMPLIFY must be a number: %w", err)
		}
		c.ZoneSimplify = f
	}

	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", e.key, err)
		}
		*e.dst = n
	}
	return nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
