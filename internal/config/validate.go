package config

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
)

func (c *Config) validate() error {
	if err := c.validateNetwork(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateGrid(); err != nil {
		return err
	}

	if c.SearchWorkers < 1 || c.SearchWorkers > 64 {
		return fmt.Errorf("SEARCH_WORKERS must be between 1 and 64")
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if c.ListenHost == "" {
		return fmt.Errorf("LISTEN_HOST must not be empty")
	}

	if len(c.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}

	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return nil
}

func (c *Config) validateGrid() error {
	if c.MaxGridCells < 1 {
		return fmt.Errorf("MAX_GRID_CELLS must be positive")
	}

	if c.ZoneSimplify < 0 {
		return fmt.Errorf("ZONE_SIMPLIFY must not be negative")
	}

	if c.ZonesFile != "" && c.GridFile == "" {
		return fmt.Errorf("ZONES_FILE requires GRID_FILE")
	}

	// Zero dimensions mean "infer from the file layout".
	if c.GridWidth < 0 || c.GridHeight < 0 {
		return fmt.Errorf("GRID_WIDTH and GRID_HEIGHT must not be negative")
	}
	if (c.GridWidth == 0) != (c.GridHeight == 0) {
		return fmt.Errorf("GRID_WIDTH and GRID_HEIGHT must be set together")
	}
	if c.GridWidth*c.GridHeight > c.MaxGridCells {
		return fmt.Errorf("grid of %dx%d exceeds MAX_GRID_CELLS (%d)", c.GridWidth, c.GridHeight, c.MaxGridCells)
	}

	return nil
}
