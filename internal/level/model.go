package level

// MapMetadata carries the level-wide properties decoded from the
// map-properties file plus the derived map origin.
type MapMetadata struct {
	// ChapterID is the campaign chapter this level belongs to.
	ChapterID int
	// LevelName is the display name of the level.
	LevelName string
	// Origin is the centering offset of the map in runtime units, added to
	// every transformed position.
	Origin Point
}

// Obstacle is one blocking cell of the obstacles layer.
type Obstacle struct {
	// Cell is the grid cell the obstacle occupies.
	Cell CellCoord
	// TileID is the authored tile identifier for rendering.
	TileID int
}

// EventPayload is one raw object from the events layer. Events carry no
// typed schema; gameplay interprets the bag per event tag.
type EventPayload struct {
	Name       string
	Position   Point
	Properties Properties
}

// ObjectInfo is the part every decoded dynamic object shares.
type ObjectInfo struct {
	// InstanceID uniquely and deterministically identifies this object
	// within the level. Mission links refer to objects by InstanceID.
	InstanceID string
	// Name is the authored object name.
	Name string
	// Position is the object's position in runtime world units.
	Position Point
}

// DynamicObject is the closed variant over every decodable object kind.
// Only the types in this package implement it.
type DynamicObject interface {
	// Info returns the shared identity and placement of the object.
	Info() ObjectInfo
	// Kind returns the type tag the object decoded from.
	Kind() string

	dynamicObject()
}

// Placement marks a cell a player character may start on.
type Placement struct {
	ObjectInfo
}

// LootEntry is one possible item drop.
type LootEntry struct {
	// ItemID is the item catalog identifier.
	ItemID string
	// Probability is the drop chance in percent. Zero means guaranteed
	// specific loot.
	Probability int
}

// Foe is an enemy placed on the map.
type Foe struct {
	ObjectInfo
	// FoeID is the foe catalog identifier (the authored object name).
	FoeID string
	// Level is the foe's level.
	Level int
	// MissionTarget is the id of the kill-targets mission this foe counts
	// toward; empty if none.
	MissionTarget string
	// SpecificLoot lists guaranteed drops.
	SpecificLoot []LootEntry
}

// Ally is a friendly character placed on the map.
type Ally struct {
	ObjectInfo
	// AllyID is the ally catalog identifier (the authored object name).
	AllyID string
	// DialogIDs lists dialog catalog ids available when talking to the ally.
	DialogIDs []string
}

// Objective is a position a position-based mission sends players to.
type Objective struct {
	ObjectInfo
	// MissionID is the mission this objective belongs to.
	MissionID string
	// Walkable reports whether units may stand on the objective cell.
	Walkable bool
}

// Chest holds randomized loot.
type Chest struct {
	ObjectInfo
	// Contents lists the possible drops with their probabilities.
	Contents []LootEntry
}

// ShopDetails is the conditional part of a building with kind "shop".
type ShopDetails struct {
	// Stock lists the items for sale.
	Stock []ShopItem
	// Money is the shop's starting gold.
	Money int
}

// ShopItem is one stocked item in a shop.
type ShopItem struct {
	ItemID   string
	Quantity int
}

// Building is an enterable structure. A shop is a building carrying
// ShopDetails, not a separate kind.
type Building struct {
	ObjectInfo
	// BuildingKind is the authored sub-kind ("shop", "house", ...); empty
	// for a plain building.
	BuildingKind string
	// DialogIDs lists dialog catalog ids spoken when visiting.
	DialogIDs []string
	// Interactive reports whether the building reacts to visits at all.
	Interactive bool
	// Shop holds the shop sub-schema fields; nil unless BuildingKind is the
	// shop kind.
	Shop *ShopDetails
}

// Door joins two areas of the map.
type Door struct {
	ObjectInfo
	// PassThrough reports whether units can traverse the door freely.
	PassThrough bool
}

// Fountain is a consumable map interaction point.
type Fountain struct {
	ObjectInfo
	// FountainID is the fountain catalog identifier (the authored name).
	FountainID string
}

// PortalStub is a forward-declared portal object. Portals are not
// implemented yet; the stub retains the raw bag so the descriptor shape
// never changes when they are.
type PortalStub struct {
	ObjectInfo
	Properties Properties
}

// BreakableStub is a forward-declared breakable object, kept raw like
// PortalStub.
type BreakableStub struct {
	ObjectInfo
	Properties Properties
}

func (o Placement) Info() ObjectInfo     { return o.ObjectInfo }
func (o Foe) Info() ObjectInfo           { return o.ObjectInfo }
func (o Ally) Info() ObjectInfo          { return o.ObjectInfo }
func (o Objective) Info() ObjectInfo     { return o.ObjectInfo }
func (o Chest) Info() ObjectInfo         { return o.ObjectInfo }
func (o Building) Info() ObjectInfo      { return o.ObjectInfo }
func (o Door) Info() ObjectInfo          { return o.ObjectInfo }
func (o Fountain) Info() ObjectInfo      { return o.ObjectInfo }
func (o PortalStub) Info() ObjectInfo    { return o.ObjectInfo }
func (o BreakableStub) Info() ObjectInfo { return o.ObjectInfo }

func (Placement) Kind() string     { return "placement" }
func (Foe) Kind() string           { return "foe" }
func (Ally) Kind() string          { return "ally" }
func (Objective) Kind() string     { return "objective" }
func (Chest) Kind() string         { return "chest" }
func (Building) Kind() string      { return "building" }
func (Door) Kind() string          { return "door" }
func (Fountain) Kind() string      { return "fountain" }
func (PortalStub) Kind() string    { return "portal" }
func (BreakableStub) Kind() string { return "breakable" }

func (Placement) dynamicObject()     {}
func (Foe) dynamicObject()           {}
func (Ally) dynamicObject()          {}
func (Objective) dynamicObject()     {}
func (Chest) dynamicObject()         {}
func (Building) dynamicObject()      {}
func (Door) dynamicObject()          {}
func (Fountain) dynamicObject()      {}
func (PortalStub) dynamicObject()    {}
func (BreakableStub) dynamicObject() {}

// MissionType identifies how a mission is completed.
type MissionType string

// The mission-type vocabulary. POSITION and TOUCH_POSITION require linked
// objectives; KILL_TARGETS requires linked foes; the rest carry no linking
// requirement.
const (
	MissionPosition      MissionType = "POSITION"
	MissionTouchPosition MissionType = "TOUCH_POSITION"
	MissionKillEverybody MissionType = "KILL_EVERYBODY"
	MissionKillTargets   MissionType = "KILL_TARGETS"
	MissionTurnLimit     MissionType = "TURN_LIMIT"
)

// MissionTypes lists every declared mission type.
var MissionTypes = []MissionType{
	MissionPosition,
	MissionTouchPosition,
	MissionKillEverybody,
	MissionKillTargets,
	MissionTurnLimit,
}

// RequiresLink reports whether missions of this type must resolve at least
// one map object. New mission types default to no required link.
func (t MissionType) RequiresLink() bool {
	switch t {
	case MissionPosition, MissionTouchPosition, MissionKillTargets:
		return true
	default:
		return false
	}
}

// MissionDefinition is one fully-resolved mission.
type MissionDefinition struct {
	// ID is the mission identifier; the primary mission uses the reserved
	// primary id from Conventions.
	ID string
	// Type is the resolved mission type.
	Type MissionType
	// Description is the author-facing mission text.
	Description string
	// TurnLimit bounds the mission in turns; 0 means unlimited.
	TurnLimit int
	// MinPlayers is the required player count; 0 means no requirement.
	MinPlayers int
	// Gold is the completion reward; 0 means none.
	Gold int
	// Targets lists the InstanceIDs of the objects linked to this mission:
	// objectives for position missions, foes for kill-targets missions.
	// Stable ids, never live pointers, so descriptors stay serializable.
	Targets []string
}

// MissionSet is the level's resolved missions: exactly one primary plus zero
// or more secondaries with unique ids.
type MissionSet struct {
	Primary   MissionDefinition
	Secondary []MissionDefinition
}

// Layers is the assembled layer model of a map.
type Layers struct {
	// Ground is the cosmetic tile grid, indexed [row][col]; 0 means no tile.
	Ground [][]int
	// Obstacles lists every blocking cell.
	Obstacles []Obstacle
	// Events maps an event type tag to its payloads in authoring order.
	Events map[string][]EventPayload
	// DynamicObjects holds the raw dynamic-data objects in authoring order,
	// ready for decoding.
	DynamicObjects []RawObject
}

// LevelDescriptor is the loader's sole output: a complete, validated,
// self-contained description of one level. It holds no live references;
// it may be shared, serialized, or loaded concurrently with other levels.
type LevelDescriptor struct {
	Metadata  MapMetadata
	Ground    [][]int
	Obstacles []Obstacle
	Objects   []DynamicObject
	Events    map[string][]EventPayload
	Missions  MissionSet
}
