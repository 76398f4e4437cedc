// Package tmx reads Tiled TMX files into the raw trees consumed by the
// level loader. It is the structured-markup reader collaborator: it knows
// XML and the TMX layout, nothing about schemas, missions, or validation.
//
// Only embedded tilesets and CSV-encoded layer data are supported; that is
// what the authoring pipeline emits.
package tmx

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/tactics/internal/level"
)

type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
	Text  string `xml:",chardata"`
}

type xmlProperties struct {
	Properties []xmlProperty `xml:"property"`
}

type xmlTilesetTile struct {
	ID         int           `xml:"id,attr"`
	Properties xmlProperties `xml:"properties"`
}

type xmlTileset struct {
	FirstGID int              `xml:"firstgid,attr"`
	Source   string           `xml:"source,attr"`
	Tiles    []xmlTilesetTile `xml:"tile"`
}

type xmlData struct {
	Encoding string `xml:"encoding,attr"`
	Value    string `xml:",chardata"`
}

type xmlLayer struct {
	Name   string  `xml:"name,attr"`
	Width  int     `xml:"width,attr"`
	Height int     `xml:"height,attr"`
	Data   xmlData `xml:"data"`
}

type xmlObject struct {
	Name       string        `xml:"name,attr"`
	Type       string        `xml:"type,attr"`
	Class      string        `xml:"class,attr"`
	X          float64       `xml:"x,attr"`
	Y          float64       `xml:"y,attr"`
	Width      float64       `xml:"width,attr"`
	Height     float64       `xml:"height,attr"`
	Properties xmlProperties `xml:"properties"`
}

type xmlObjectGroup struct {
	Name    string      `xml:"name,attr"`
	Objects []xmlObject `xml:"object"`
}

type xmlMap struct {
	XMLName      xml.Name         `xml:"map"`
	Width        int              `xml:"width,attr"`
	Height       int              `xml:"height,attr"`
	TileWidth    int              `xml:"tilewidth,attr"`
	TileHeight   int              `xml:"tileheight,attr"`
	Properties   xmlProperties    `xml:"properties"`
	Tilesets     []xmlTileset     `xml:"tileset"`
	Layers       []xmlLayer       `xml:"layer"`
	ObjectGroups []xmlObjectGroup `xml:"objectgroup"`
}

// ParseMap parses a TMX map document into the loader's raw map tree.
//
// Postcondition: returns a RawMap preserving layer and object order, or a
// non-nil error describing the first structural problem in the document.
func ParseMap(data []byte) (level.RawMap, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return level.RawMap{}, err
	}

	tileProps := tilesetProperties(doc.Tilesets)

	m := level.RawMap{Cols: doc.Width, Rows: doc.Height}
	for _, l := range doc.Layers {
		tiles, err := parseLayerTiles(l, tileProps)
		if err != nil {
			return level.RawMap{}, fmt.Errorf("layer %q: %w", l.Name, err)
		}
		m.TileLayers = append(m.TileLayers, level.RawTileLayer{Name: l.Name, Tiles: tiles})
	}
	for _, g := range doc.ObjectGroups {
		layer := level.RawObjectLayer{Name: g.Name}
		for _, o := range g.Objects {
			layer.Objects = append(layer.Objects, level.RawObject{
				Type:       objectType(o),
				Name:       o.Name,
				Position:   level.Point{X: o.X, Y: o.Y},
				Size:       level.Point{X: o.Width, Y: o.Height},
				Properties: bagOf(o.Properties),
			})
		}
		m.ObjectLayers = append(m.ObjectLayers, layer)
	}
	return m, nil
}

// ParseProperties parses the map-level property bag of a TMX document. The
// map-properties companion file of a level is a TMX map carrying only
// <properties>.
func ParseProperties(data []byte) (level.Properties, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	return bagOf(doc.Properties), nil
}

func parseDocument(data []byte) (xmlMap, error) {
	var doc xmlMap
	if err := xml.Unmarshal(data, &doc); err != nil {
		return xmlMap{}, fmt.Errorf("parsing TMX document: %w", err)
	}
	return doc, nil
}

// objectType returns the authored type tag. Tiled renamed the attribute
// from "type" to "class" in 1.9; both spellings are accepted.
func objectType(o xmlObject) string {
	if o.Type != "" {
		return o.Type
	}
	return o.Class
}

// bagOf flattens TMX <properties> into a property bag. Multiline values use
// element text instead of the value attribute.
func bagOf(props xmlProperties) level.Properties {
	bag := make(level.Properties, len(props.Properties))
	for _, p := range props.Properties {
		v := p.Value
		if v == "" {
			v = strings.TrimSpace(p.Text)
		}
		bag[p.Name] = v
	}
	return bag
}

// tilesetProperties indexes per-tile property bags by global tile id across
// every embedded tileset. External tileset references carry no inline tiles
// and contribute nothing.
func tilesetProperties(tilesets []xmlTileset) map[int]level.Properties {
	byGID := make(map[int]level.Properties)
	for _, ts := range tilesets {
		for _, tile := range ts.Tiles {
			if len(tile.Properties.Properties) == 0 {
				continue
			}
			byGID[ts.FirstGID+tile.ID] = bagOf(tile.Properties)
		}
	}
	return byGID
}

// parseLayerTiles decodes a CSV tile layer into raw tiles, skipping empty
// cells (gid 0) and attaching tileset per-tile properties.
func parseLayerTiles(l xmlLayer, tileProps map[int]level.Properties) ([]level.RawTile, error) {
	encoding := l.Data.Encoding
	if encoding != "" && encoding != "csv" {
		return nil, fmt.Errorf("unsupported layer data encoding %q", encoding)
	}

	fields := strings.FieldsFunc(l.Data.Value, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == ' ' || r == '\t'
	})
	if len(fields) != l.Width*l.Height {
		return nil, fmt.Errorf("expected %d cells, got %d", l.Width*l.Height, len(fields))
	}

	var tiles []level.RawTile
	for i, field := range fields {
		gid, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("cell %d: invalid tile id %q", i, field)
		}
		if gid == 0 {
			continue
		}
		tiles = append(tiles, level.RawTile{
			Cell:       level.CellCoord{Col: i % l.Width, Row: i / l.Width},
			ID:         gid,
			Properties: tileProps[gid],
		})
	}
	return tiles, nil
}
