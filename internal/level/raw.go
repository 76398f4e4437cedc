// Package level loads and validates tile-based tactics levels. It consumes
// the raw trees produced by a structured-markup reader (see internal/tmx),
// decodes every map object against its registered property schema, links
// missions to the objects that fulfil them, and returns either a complete
// LevelDescriptor or the full list of validation failures.
package level

// Properties is an authored property bag: string keys mapped to the raw
// string form of the authored value. Typed coercion happens during decoding.
type Properties map[string]string

// Get returns the raw value for key and whether it was present.
func (p Properties) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// CellCoord addresses a tile cell on the map grid.
type CellCoord struct {
	// Col is the zero-based column index.
	Col int
	// Row is the zero-based row index.
	Row int
}

// Point is a position in authoring or runtime units, depending on context.
type Point struct {
	X float64
	Y float64
}

// RawTile is one authored cell of a tile layer.
type RawTile struct {
	// Cell is the grid cell the tile occupies.
	Cell CellCoord
	// ID is the global tile identifier from the authoring tool.
	ID int
	// Properties holds per-tile authored properties (from the tileset).
	Properties Properties
}

// RawTileLayer is a named tile layer as delivered by the reader.
type RawTileLayer struct {
	Name  string
	Tiles []RawTile
}

// RawObject is one authored map object before decoding. Immutable once
// parsed; the decoder never mutates it.
type RawObject struct {
	// Type is the free-form type tag assigned by the author.
	Type string
	// Name is the authored object name. For foes, allies and fountains it
	// doubles as the catalog identifier.
	Name string
	// Position is the authored position in authoring units.
	Position Point
	// Size is the authored dimension in authoring units.
	Size Point
	// Image is an optional image reference attached by the author.
	Image string
	// Properties is the open-ended authored property bag.
	Properties Properties
}

// RawObjectLayer is a named object layer. Object order is authoring order
// and is preserved through decoding.
type RawObjectLayer struct {
	Name    string
	Objects []RawObject
}

// RawMap is the pre-parsed map tree handed to the loader by the reader.
type RawMap struct {
	// Cols and Rows are the map grid dimensions in tiles.
	Cols int
	Rows int
	// TileLayers holds the tile layers in file order.
	TileLayers []RawTileLayer
	// ObjectLayers holds the object layers in file order.
	ObjectLayers []RawObjectLayer
}

// TileLayer returns the tile layer with the given name, if present.
func (m RawMap) TileLayer(name string) (RawTileLayer, bool) {
	for _, l := range m.TileLayers {
		if l.Name == name {
			return l, true
		}
	}
	return RawTileLayer{}, false
}

// ObjectLayer returns the object layer with the given name, if present.
func (m RawMap) ObjectLayer(name string) (RawObjectLayer, bool) {
	for _, l := range m.ObjectLayers {
		if l.Name == name {
			return l, true
		}
	}
	return RawObjectLayer{}, false
}

// Layer names the loader requires in every map tree.
const (
	LayerGround      = "ground"
	LayerObstacles   = "obstacles"
	LayerDynamicData = "dynamic_data"
	LayerEvents      = "events"
)

// Conventions holds the reserved identifiers of the authoring format. They
// are injected per load so authoring conventions can evolve without touching
// decoder logic.
type Conventions struct {
	// PrimaryMissionID is the reserved id of the level's primary mission.
	PrimaryMissionID string
	// VoidTileType is the obstacle tile type that marks a passable cell.
	VoidTileType string
}

// DefaultConventions returns the conventions used by the stock content.
func DefaultConventions() Conventions {
	return Conventions{
		PrimaryMissionID: "main",
		VoidTileType:     "void",
	}
}
