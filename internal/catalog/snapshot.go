// Package catalog holds the read-only id catalogs the loader resolves
// references against: foes, allies, fountains, items, and dialogs. A
// Snapshot is built once (from YAML files or directly in code) and then only
// read, so it is safe to share across concurrent loads.
package catalog

// Catalog kinds the loader understands.
const (
	KindFoe      = "foe"
	KindAlly     = "ally"
	KindFountain = "fountain"
	KindItem     = "item"
	KindDialog   = "dialog"
)

// Kinds lists every catalog kind.
var Kinds = []string{KindFoe, KindAlly, KindFountain, KindItem, KindDialog}

// Snapshot is an immutable view of the game's id catalogs. The zero value
// resolves nothing; use New or the Load functions.
type Snapshot struct {
	ids map[string]map[string]struct{}
}

// New builds a snapshot from explicit id sets, keyed by catalog kind.
// Unknown kinds are kept as-is so callers can extend the vocabulary.
func New(sets map[string][]string) Snapshot {
	ids := make(map[string]map[string]struct{}, len(sets))
	for kind, list := range sets {
		set := make(map[string]struct{}, len(list))
		for _, id := range list {
			set[id] = struct{}{}
		}
		ids[kind] = set
	}
	return Snapshot{ids: ids}
}

// Has reports whether id exists in the catalog of the given kind.
func (s Snapshot) Has(kind, id string) bool {
	set, ok := s.ids[kind]
	if !ok {
		return false
	}
	_, ok = set[id]
	return ok
}

// Len returns the number of ids of the given kind.
func (s Snapshot) Len(kind string) int {
	return len(s.ids[kind])
}
