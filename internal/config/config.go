// Package config provides Viper-based configuration loading for the level
// tooling.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/tactics/internal/level"
)

// GridConfig holds the coordinate-system settings of the authoring pipeline.
type GridConfig struct {
	// AuthoredTileSize is the tile edge length maps are authored at.
	AuthoredTileSize float64 `mapstructure:"authored_tile_size"`
	// RuntimeTileSize is the tile edge length the runtime renders at.
	RuntimeTileSize float64 `mapstructure:"runtime_tile_size"`
	// ReferenceCols and ReferenceRows define the grid maps are centered in.
	ReferenceCols int `mapstructure:"reference_cols"`
	ReferenceRows int `mapstructure:"reference_rows"`
}

// ToLevel converts to the loader's grid configuration.
func (g GridConfig) ToLevel() level.GridConfig {
	return level.GridConfig{
		AuthoredTileSize: g.AuthoredTileSize,
		RuntimeTileSize:  g.RuntimeTileSize,
		ReferenceCols:    g.ReferenceCols,
		ReferenceRows:    g.ReferenceRows,
	}
}

// ConventionsConfig holds the reserved identifiers of the authoring format.
type ConventionsConfig struct {
	// PrimaryMissionID is the reserved id of a level's primary mission.
	PrimaryMissionID string `mapstructure:"primary_mission_id"`
	// VoidTileType is the obstacle tile type marking a passable cell.
	VoidTileType string `mapstructure:"void_tile_type"`
}

// ToLevel converts to the loader's conventions.
func (c ConventionsConfig) ToLevel() level.Conventions {
	return level.Conventions{
		PrimaryMissionID: c.PrimaryMissionID,
		VoidTileType:     c.VoidTileType,
	}
}

// ContentConfig holds content location settings.
type ContentConfig struct {
	// CatalogDir is the directory of catalog YAML files.
	CatalogDir string `mapstructure:"catalog_dir"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level tool configuration.
type Config struct {
	Grid        GridConfig        `mapstructure:"grid"`
	Conventions ConventionsConfig `mapstructure:"conventions"`
	Content     ContentConfig     `mapstructure:"content"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateGrid(c.Grid); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateConventions(c.Conventions); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGrid(g GridConfig) error {
	var errs []string
	if g.AuthoredTileSize <= 0 {
		errs = append(errs, fmt.Sprintf("grid.authored_tile_size must be positive, got %v", g.AuthoredTileSize))
	}
	if g.RuntimeTileSize <= 0 {
		errs = append(errs, fmt.Sprintf("grid.runtime_tile_size must be positive, got %v", g.RuntimeTileSize))
	}
	if g.ReferenceCols < 1 {
		errs = append(errs, fmt.Sprintf("grid.reference_cols must be >= 1, got %d", g.ReferenceCols))
	}
	if g.ReferenceRows < 1 {
		errs = append(errs, fmt.Sprintf("grid.reference_rows must be >= 1, got %d", g.ReferenceRows))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateConventions(c ConventionsConfig) error {
	var errs []string
	if c.PrimaryMissionID == "" {
		errs = append(errs, "conventions.primary_mission_id must not be empty")
	}
	if c.VoidTileType == "" {
		errs = append(errs, "conventions.void_tile_type must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with LEVELCHECK_ prefix
	v.SetEnvPrefix("LEVELCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Default returns the stock configuration used when no config file is given.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// The defaults above always unmarshal cleanly.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("grid.authored_tile_size", 32)
	v.SetDefault("grid.runtime_tile_size", 48)
	v.SetDefault("grid.reference_cols", level.DefaultReferenceCols)
	v.SetDefault("grid.reference_rows", level.DefaultReferenceRows)

	v.SetDefault("conventions.primary_mission_id", "main")
	v.SetDefault("conventions.void_tile_type", "void")

	v.SetDefault("content.catalog_dir", "content/catalogs")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
