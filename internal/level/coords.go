package level

import "fmt"

// Reference grid the runtime centers every map inside. Maps smaller than the
// reference grid are offset so they sit in the middle of the screen.
const (
	DefaultReferenceCols = 22
	DefaultReferenceRows = 14
)

// GridConfig describes the coordinate systems of a load: the tile size maps
// are authored at, the tile size the runtime renders at, and the reference
// grid used to center the map.
type GridConfig struct {
	// AuthoredTileSize is the tile edge length in authoring units.
	AuthoredTileSize float64
	// RuntimeTileSize is the tile edge length in runtime world units.
	RuntimeTileSize float64
	// ReferenceCols and ReferenceRows define the fixed grid the map is
	// centered within. Zero values select the defaults.
	ReferenceCols int
	ReferenceRows int
}

// DefaultGridConfig returns the stock authoring setup: 32px authored tiles
// rendered at 48px within a 22x14 reference grid.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		AuthoredTileSize: 32,
		RuntimeTileSize:  48,
		ReferenceCols:    DefaultReferenceCols,
		ReferenceRows:    DefaultReferenceRows,
	}
}

// Transform converts authored positions to runtime world positions. It is a
// pure value; applying it has no side effects and the same Transform may be
// shared across goroutines.
type Transform struct {
	scale  float64
	origin Point
}

// NewTransform builds the transform for one map.
//
// Precondition: cfg tile sizes must be positive and cols/rows must be
// positive; violations are ConfigError (caller bugs, not content errors).
// Postcondition: returns a Transform whose Apply and Invert are exact
// inverses of each other.
func NewTransform(cfg GridConfig, cols, rows int) (Transform, error) {
	if cfg.AuthoredTileSize <= 0 {
		return Transform{}, &ConfigError{Reason: fmt.Sprintf("authored tile size must be positive, got %v", cfg.AuthoredTileSize)}
	}
	if cfg.RuntimeTileSize <= 0 {
		return Transform{}, &ConfigError{Reason: fmt.Sprintf("runtime tile size must be positive, got %v", cfg.RuntimeTileSize)}
	}
	if cols <= 0 || rows <= 0 {
		return Transform{}, &ConfigError{Reason: fmt.Sprintf("map grid must be positive, got %dx%d", cols, rows)}
	}

	refCols := cfg.ReferenceCols
	if refCols == 0 {
		refCols = DefaultReferenceCols
	}
	refRows := cfg.ReferenceRows
	if refRows == 0 {
		refRows = DefaultReferenceRows
	}
	if refCols <= 0 || refRows <= 0 {
		return Transform{}, &ConfigError{Reason: fmt.Sprintf("reference grid must be positive, got %dx%d", refCols, refRows)}
	}

	return Transform{
		scale: cfg.RuntimeTileSize / cfg.AuthoredTileSize,
		origin: Point{
			X: float64(refCols-cols) * cfg.RuntimeTileSize / 2,
			Y: float64(refRows-rows) * cfg.RuntimeTileSize / 2,
		},
	}, nil
}

// Scale returns the authored-to-runtime scale factor. Authoring directly at
// the runtime tile size yields 1.
func (t Transform) Scale() float64 { return t.scale }

// Origin returns the centering offset added to every scaled position.
func (t Transform) Origin() Point { return t.origin }

// Apply maps an authored position to a runtime world position.
func (t Transform) Apply(p Point) Point {
	return Point{
		X: p.X*t.scale + t.origin.X,
		Y: p.Y*t.scale + t.origin.Y,
	}
}

// Invert maps a runtime world position back to its authored position.
//
// Precondition: the transform was built by NewTransform (scale is non-zero).
func (t Transform) Invert(p Point) Point {
	return Point{
		X: (p.X - t.origin.X) / t.scale,
		Y: (p.Y - t.origin.Y) / t.scale,
	}
}
