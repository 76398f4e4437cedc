package level

import "go.uber.org/multierr"

// AssembleLayers groups the raw map into the layer model: the cosmetic
// ground grid, the blocking obstacle set, the raw dynamic objects awaiting
// decode, and the event payloads keyed by type tag.
//
// Every required layer must be present; each absence is reported as its own
// StructuralError so an author sees the full list at once.
//
// Postcondition: exactly one of (Layers, error) is meaningful; on error the
// returned Layers is the zero value.
func AssembleLayers(m RawMap, conv Conventions) (Layers, error) {
	var errs error

	ground, ok := m.TileLayer(LayerGround)
	if !ok {
		errs = multierr.Append(errs, &StructuralError{Layer: LayerGround})
	}
	obstacles, ok := m.TileLayer(LayerObstacles)
	if !ok {
		errs = multierr.Append(errs, &StructuralError{Layer: LayerObstacles})
	}
	dynamic, ok := m.ObjectLayer(LayerDynamicData)
	if !ok {
		errs = multierr.Append(errs, &StructuralError{Layer: LayerDynamicData})
	}
	events, ok := m.ObjectLayer(LayerEvents)
	if !ok {
		errs = multierr.Append(errs, &StructuralError{Layer: LayerEvents})
	}
	if errs != nil {
		return Layers{}, errs
	}

	return Layers{
		Ground:         assembleGround(ground, m.Cols, m.Rows),
		Obstacles:      assembleObstacles(obstacles, conv),
		Events:         assembleEvents(events),
		DynamicObjects: dynamic.Objects,
	}, nil
}

// assembleGround copies the ground layer verbatim into a grid. Missing
// ground tiles are cosmetic, never fatal, so cells outside the grid are
// silently dropped rather than rejected.
func assembleGround(layer RawTileLayer, cols, rows int) [][]int {
	grid := make([][]int, rows)
	for r := range grid {
		grid[r] = make([]int, cols)
	}
	for _, tile := range layer.Tiles {
		c := tile.Cell
		if c.Row < 0 || c.Row >= rows || c.Col < 0 || c.Col >= cols {
			continue
		}
		grid[c.Row][c.Col] = tile.ID
	}
	return grid
}

// assembleObstacles emits an Obstacle for every non-void tile of the
// obstacles layer. A tile is void when its declared type property equals the
// injected void tile type.
func assembleObstacles(layer RawTileLayer, conv Conventions) []Obstacle {
	var obstacles []Obstacle
	for _, tile := range layer.Tiles {
		if t, ok := tile.Properties.Get("type"); ok && t == conv.VoidTileType {
			continue
		}
		obstacles = append(obstacles, Obstacle{Cell: tile.Cell, TileID: tile.ID})
	}
	return obstacles
}

// assembleEvents buckets the events layer by type tag. Objects sharing a tag
// are all retained, in authoring order, because handling order may matter
// downstream. Event positions stay in authoring units; events are consumed
// by gameplay triggers, not by the renderer.
func assembleEvents(layer RawObjectLayer) map[string][]EventPayload {
	events := make(map[string][]EventPayload)
	for _, obj := range layer.Objects {
		events[obj.Type] = append(events[obj.Type], EventPayload{
			Name:       obj.Name,
			Position:   obj.Position,
			Properties: obj.Properties,
		})
	}
	return events
}
