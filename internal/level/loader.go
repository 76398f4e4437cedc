package level

import (
	"go.uber.org/multierr"

	"github.com/cory-johannsen/tactics/internal/catalog"
)

// Input is everything one load needs. The trees come pre-parsed from the
// structured-markup reader; the catalogs are read-only snapshots owned by
// the caller. Nothing in Input is mutated, so the same catalogs may back
// many concurrent loads.
type Input struct {
	// Map is the pre-parsed map tree.
	Map RawMap
	// Properties is the pre-parsed map-properties bag.
	Properties Properties
	// Grid configures the coordinate systems. The zero value is rejected;
	// use DefaultGridConfig for the stock setup.
	Grid GridConfig
	// Conventions injects the reserved identifiers. The zero value is
	// rejected; use DefaultConventions for the stock content.
	Conventions Conventions
	// Catalogs is the id snapshot references are resolved against.
	Catalogs catalog.Snapshot
}

// Load runs the whole pipeline: transform coordinates, assemble layers,
// decode objects, link missions, and emit the descriptor. It is a pure
// function of its input: no I/O, no retained state, and identical inputs
// always produce identical results.
//
// On any content failure Load discards all work and returns every
// independently-detectable error from the pass (flatten with ErrorsOf), so
// an author fixes the whole list instead of replaying one error at a time.
// Never returns a partial descriptor.
//
// Precondition: in.Grid and in.Conventions must be well-formed; violations
// are reported as ConfigError, separate from content errors.
func Load(in Input) (*LevelDescriptor, error) {
	if in.Conventions.PrimaryMissionID == "" {
		return nil, &ConfigError{Reason: "primary mission id must not be empty"}
	}
	if in.Conventions.VoidTileType == "" {
		return nil, &ConfigError{Reason: "void tile type must not be empty"}
	}
	tr, err := NewTransform(in.Grid, in.Map.Cols, in.Map.Rows)
	if err != nil {
		return nil, err
	}

	layers, err := AssembleLayers(in.Map, in.Conventions)
	if err != nil {
		// Without the required layers there is nothing left to validate.
		return nil, err
	}

	var errs error

	meta, err := DecodeMetadata(in.Properties)
	if err != nil {
		errs = multierr.Append(errs, err)
	}
	meta.Origin = tr.Origin()

	registry := NewRegistry()
	objects, err := registry.DecodeAll(layers.DynamicObjects, tr, in.Catalogs)
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	// Linking runs against whatever decoded cleanly so mission problems
	// land in the same report as decode problems.
	missions, err := LinkMissions(in.Properties, objects, in.Conventions)
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	if errs != nil {
		return nil, errs
	}

	return &LevelDescriptor{
		Metadata:  meta,
		Ground:    layers.Ground,
		Obstacles: layers.Obstacles,
		Objects:   objects,
		Events:    layers.Events,
		Missions:  missions,
	}, nil
}
