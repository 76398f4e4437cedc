package level

import (
	"fmt"

	"go.uber.org/multierr"
)

// The error types in this file are load-time validation failures: content
// problems an author can fix. They are never recovered from at runtime.
// Configuration mistakes (bad tile sizes, empty reference grid) are reported
// as ConfigError instead, so callers can tell content rot from caller bugs.

// UnknownObjectTypeError reports an object whose type tag has no registered
// schema.
type UnknownObjectTypeError struct {
	// TypeTag is the unrecognized type tag.
	TypeTag string
	// Object is the authored object name, possibly empty.
	Object string
}

func (e *UnknownObjectTypeError) Error() string {
	return fmt.Sprintf("object %q: unknown object type %q", e.Object, e.TypeTag)
}

// MissingRequiredFieldError reports a required schema field absent from an
// object's property bag.
type MissingRequiredFieldError struct {
	Field  string
	Object string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("object %q: missing required field %q", e.Object, e.Field)
}

// TypeMismatchError reports a property whose value could not be coerced to
// the type its schema declares.
type TypeMismatchError struct {
	Field    string
	Expected string
	Got      string
	Object   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("object %q: field %q: expected %s, got %q", e.Object, e.Field, e.Expected, e.Got)
}

// MissingIndexedFieldError reports a gap in an indexed field group: the
// declared count promises an entry the bag does not contain.
type MissingIndexedFieldError struct {
	// Group is the indexed group name (for example "items").
	Group string
	// Index is the missing zero-based index.
	Index int
	// Field is the expanded field name that was expected.
	Field  string
	Object string
}

func (e *MissingIndexedFieldError) Error() string {
	return fmt.Sprintf("object %q: indexed group %q: missing entry %d (%s)", e.Object, e.Group, e.Index, e.Field)
}

// UnknownMissionTypeError reports a mission declared with a type outside the
// mission-type vocabulary.
type UnknownMissionTypeError struct {
	Name      string
	MissionID string
}

func (e *UnknownMissionTypeError) Error() string {
	return fmt.Sprintf("mission %q: unknown mission type %q", e.MissionID, e.Name)
}

// UnlinkedMissionError reports a position or kill-targets mission with no
// linking object on the map. Such a mission is unplayable and must be
// rejected at load time rather than discovered mid-game.
type UnlinkedMissionError struct {
	MissionID string
}

func (e *UnlinkedMissionError) Error() string {
	return fmt.Sprintf("mission %q: no objects on the map link to it", e.MissionID)
}

// DanglingMissionReferenceError reports a secondary mission id listed in the
// map properties with no full definition in the same file.
type DanglingMissionReferenceError struct {
	MissionID string
}

func (e *DanglingMissionReferenceError) Error() string {
	return fmt.Sprintf("secondary mission %q is listed but never defined", e.MissionID)
}

// DanglingCatalogReferenceError reports an id-valued field whose value is
// not present in the supplied catalog snapshot.
type DanglingCatalogReferenceError struct {
	// Kind is the catalog kind ("foe", "ally", "fountain", "item", "dialog").
	Kind string
	// ID is the unresolved identifier.
	ID string
	// Object is the object that referenced it.
	Object string
}

func (e *DanglingCatalogReferenceError) Error() string {
	return fmt.Sprintf("object %q: %s %q not found in catalog", e.Object, e.Kind, e.ID)
}

// StructuralError reports a required layer absent from the map tree.
type StructuralError struct {
	Layer string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("map is missing required layer %q", e.Layer)
}

// ConfigError reports a malformed loader configuration. It is a caller bug,
// not a content problem, and is never mixed into a content error report.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid loader configuration: %s", e.Reason)
}

// ErrorsOf flattens an error returned by Load (or any decode/link step) into
// the individual validation failures it aggregates. A nil error yields nil.
func ErrorsOf(err error) []error {
	return multierr.Errors(err)
}
