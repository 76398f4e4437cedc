// Package main provides the levelcheck binary: it loads a map and its
// properties file, runs the full validation pipeline, and prints every
// diagnostic so content authors can fix a level in one pass.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tactics/internal/catalog"
	"github.com/cory-johannsen/tactics/internal/config"
	"github.com/cory-johannsen/tactics/internal/level"
	"github.com/cory-johannsen/tactics/internal/observability"
	"github.com/cory-johannsen/tactics/internal/tmx"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	mapPath := flag.String("map", "", "path to the TMX map file")
	propsPath := flag.String("properties", "", "path to the TMX map-properties file")
	catalogDir := flag.String("catalogs", "", "path to catalog YAML directory; overrides config")
	flag.Parse()

	if *mapPath == "" || *propsPath == "" {
		fmt.Fprintln(os.Stderr, "usage: levelcheck -map <file> -properties <file> [-config <file>] [-catalogs <dir>]")
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	dir := cfg.Content.CatalogDir
	if *catalogDir != "" {
		dir = *catalogDir
	}

	start := time.Now()
	descriptor, errs := check(logger, cfg, dir, *mapPath, *propsPath)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "error: %v\n", e)
		}
		logger.Error("level is invalid",
			zap.String("map", *mapPath),
			zap.Int("problems", len(errs)),
		)
		os.Exit(1)
	}

	logger.Info("level is valid",
		zap.String("map", *mapPath),
		zap.String("level", descriptor.Metadata.LevelName),
		zap.Int("objects", len(descriptor.Objects)),
		zap.Int("obstacles", len(descriptor.Obstacles)),
		zap.Int("secondary_missions", len(descriptor.Missions.Secondary)),
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
	)
}

// check runs one validation pass and returns either the descriptor or every
// problem found, infrastructure and content alike.
func check(logger *zap.Logger, cfg config.Config, catalogDir, mapPath, propsPath string) (*level.LevelDescriptor, []error) {
	catalogs, err := catalog.LoadFromDir(catalogDir)
	if err != nil {
		return nil, []error{fmt.Errorf("loading catalogs: %w", err)}
	}
	logger.Debug("catalogs loaded",
		zap.Int("foes", catalogs.Len(catalog.KindFoe)),
		zap.Int("items", catalogs.Len(catalog.KindItem)),
		zap.Int("dialogs", catalogs.Len(catalog.KindDialog)),
	)

	mapData, err := os.ReadFile(mapPath)
	if err != nil {
		return nil, []error{fmt.Errorf("reading map: %w", err)}
	}
	rawMap, err := tmx.ParseMap(mapData)
	if err != nil {
		return nil, []error{fmt.Errorf("map %s: %w", mapPath, err)}
	}

	propsData, err := os.ReadFile(propsPath)
	if err != nil {
		return nil, []error{fmt.Errorf("reading properties: %w", err)}
	}
	props, err := tmx.ParseProperties(propsData)
	if err != nil {
		return nil, []error{fmt.Errorf("properties %s: %w", propsPath, err)}
	}

	descriptor, err := level.Load(level.Input{
		Map:         rawMap,
		Properties:  props,
		Grid:        cfg.Grid.ToLevel(),
		Conventions: cfg.Conventions.ToLevel(),
		Catalogs:    catalogs,
	})
	if err != nil {
		return nil, level.ErrorsOf(err)
	}
	return descriptor, nil
}
