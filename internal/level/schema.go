package level

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/cory-johannsen/tactics/internal/catalog"
)

// FieldType is the declared type of a schema field.
type FieldType int

// Field types the decoder can coerce from authored strings.
const (
	FieldString FieldType = iota
	FieldInt
	FieldBool
	// FieldIDList is a comma-separated list of non-empty id tokens.
	FieldIDList
)

// String returns the author-facing name of the type, used in diagnostics.
func (t FieldType) String() string {
	switch t {
	case FieldString:
		return "string"
	case FieldInt:
		return "int"
	case FieldBool:
		return "bool"
	case FieldIDList:
		return "id list"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// FieldSpec declares one scalar or list field of an object schema.
type FieldSpec struct {
	// Name is the property key. Inside an indexed group it is a template
	// containing the {index} placeholder.
	Name string
	// Type is the declared field type.
	Type FieldType
	// Required marks the field mandatory. Optional fields fall back to
	// Default when absent.
	Required bool
	// Default is the value used when an optional field is absent: string,
	// int, bool, or []string matching Type. nil means the zero value.
	Default any
	// Catalog, when non-empty, names the catalog kind every id value of
	// this field must resolve against.
	Catalog string
}

// IndexedGroup declares a counted, repeated field group: a count field
// followed by per-index fields named by templates.
type IndexedGroup struct {
	// Name identifies the group in diagnostics.
	Name string
	// CountField is the property holding the entry count.
	CountField string
	// CountRequired marks the count field mandatory; otherwise an absent
	// count means zero entries.
	CountRequired bool
	// Fields are the per-index field templates, each required for every
	// index in [0, count).
	Fields []FieldSpec
}

// Conditional activates extra schema when a scalar field equals a value.
// It models sub-kinds (a shop is a building whose kind is "shop") by
// composition instead of inheritance.
type Conditional struct {
	// Field is a declared string field of the parent schema.
	Field string
	// Equals is the value that activates the nested schema.
	Equals string
	// Fields and Groups are the additional schema applied when active.
	Fields []FieldSpec
	Groups []IndexedGroup
}

// buildFunc assembles the typed variant from decoded values. It runs only
// after the object passed validation.
type buildFunc func(obj RawObject, info ObjectInfo, v *decodedValues) DynamicObject

// Schema describes how one object type decodes.
type Schema struct {
	// Tag is the object type tag this schema handles.
	Tag string
	// NameCatalog, when non-empty, names the catalog kind the object name
	// itself must resolve against.
	NameCatalog string
	// Fields, Groups and Conditional declare the property schema.
	Fields      []FieldSpec
	Groups      []IndexedGroup
	Conditional *Conditional
	// Stub marks a forward-declared type: arbitrary properties are accepted
	// without validation and retained raw.
	Stub bool

	build buildFunc
}

// Registry maps object type tags to schemas. Build one per conventions set;
// a Registry is read-only after construction and safe for concurrent use.
type Registry struct {
	schemas   map[string]*Schema
	namespace uuid.UUID
}

// Object instance ids are derived in this fixed namespace so identical
// inputs always produce identical descriptors.
var objectNamespace = uuid.MustParse("74cd2fa4-8b3b-5e2e-9f14-3d2a1c6b0e87")

// Register adds or replaces the schema for its tag.
func (r *Registry) Register(s *Schema, build buildFunc) {
	s.build = build
	r.schemas[s.Tag] = s
}

// Schema returns the registered schema for a tag, if any.
func (r *Registry) Schema(tag string) (*Schema, bool) {
	s, ok := r.schemas[tag]
	return s, ok
}

// decodedValues holds the coerced values of one object while it is built.
type decodedValues struct {
	scalars map[string]any
	groups  map[string][]map[string]any
}

func newDecodedValues() *decodedValues {
	return &decodedValues{
		scalars: make(map[string]any),
		groups:  make(map[string][]map[string]any),
	}
}

func (v *decodedValues) str(name string) string {
	s, _ := v.scalars[name].(string)
	return s
}

func (v *decodedValues) num(name string) int {
	n, _ := v.scalars[name].(int)
	return n
}

func (v *decodedValues) flag(name string) bool {
	b, _ := v.scalars[name].(bool)
	return b
}

func (v *decodedValues) ids(name string) []string {
	l, _ := v.scalars[name].([]string)
	return l
}

// Decode applies the registered schema for obj's type tag, returning the
// typed variant or every validation failure found on the object.
//
// Precondition: tr must come from NewTransform; cat is a read-only snapshot.
// Postcondition: exactly one of the results is non-nil. Decoding is
// deterministic: identical input yields identical output, including errors.
func (r *Registry) Decode(obj RawObject, tr Transform, cat catalog.Snapshot) (DynamicObject, error) {
	return r.decode(obj, 0, tr, cat)
}

// DecodeAll decodes every object in authoring order, aggregating all
// failures instead of stopping at the first. The successfully decoded
// objects are returned even when the error is non-nil, so later phases can
// still cross-reference them and report their own problems in the same
// pass; a non-nil error always fails the load.
func (r *Registry) DecodeAll(objs []RawObject, tr Transform, cat catalog.Snapshot) ([]DynamicObject, error) {
	var (
		decoded []DynamicObject
		errs    error
	)
	for i, obj := range objs {
		d, err := r.decode(obj, i, tr, cat)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		decoded = append(decoded, d)
	}
	return decoded, errs
}

func (r *Registry) decode(obj RawObject, ordinal int, tr Transform, cat catalog.Snapshot) (DynamicObject, error) {
	schema, ok := r.schemas[obj.Type]
	if !ok {
		return nil, &UnknownObjectTypeError{TypeTag: obj.Type, Object: obj.Name}
	}

	info := ObjectInfo{
		InstanceID: r.instanceID(obj, ordinal),
		Name:       obj.Name,
		Position:   tr.Apply(obj.Position),
	}

	if schema.Stub {
		return schema.build(obj, info, newDecodedValues()), nil
	}

	values := newDecodedValues()
	var errs []error

	if schema.NameCatalog != "" && !cat.Has(schema.NameCatalog, obj.Name) {
		errs = append(errs, &DanglingCatalogReferenceError{Kind: schema.NameCatalog, ID: obj.Name, Object: obj.Name})
	}

	errs = append(errs, decodeFields(obj, schema.Fields, values, cat)...)
	for _, g := range schema.Groups {
		errs = append(errs, decodeGroup(obj, g, values, cat)...)
	}

	if c := schema.Conditional; c != nil && values.str(c.Field) == c.Equals {
		errs = append(errs, decodeFields(obj, c.Fields, values, cat)...)
		for _, g := range c.Groups {
			errs = append(errs, decodeGroup(obj, g, values, cat)...)
		}
	}

	if len(errs) > 0 {
		return nil, multierr.Combine(errs...)
	}
	return schema.build(obj, info, values), nil
}

// instanceID derives the deterministic id of one decoded object. The
// ordinal keeps identically-named twin objects distinct.
func (r *Registry) instanceID(obj RawObject, ordinal int) string {
	seed := fmt.Sprintf("%s/%s/%d@%g,%g", obj.Type, obj.Name, ordinal, obj.Position.X, obj.Position.Y)
	return uuid.NewSHA1(r.namespace, []byte(seed)).String()
}

func decodeFields(obj RawObject, fields []FieldSpec, values *decodedValues, cat catalog.Snapshot) []error {
	var errs []error
	for _, f := range fields {
		v, err := decodeScalar(obj, f, f.Name, cat)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values.scalars[f.Name] = v
	}
	return errs
}

func decodeGroup(obj RawObject, g IndexedGroup, values *decodedValues, cat catalog.Snapshot) []error {
	count := 0
	raw, present := obj.Properties.Get(g.CountField)
	switch {
	case present:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 {
			return []error{&TypeMismatchError{Field: g.CountField, Expected: FieldInt.String(), Got: raw, Object: obj.Name}}
		}
		count = n
	case g.CountRequired:
		return []error{&MissingRequiredFieldError{Field: g.CountField, Object: obj.Name}}
	}

	var errs []error
	rows := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		row := make(map[string]any, len(g.Fields))
		for _, f := range g.Fields {
			name := strings.ReplaceAll(f.Name, "{index}", strconv.Itoa(i))
			if _, ok := obj.Properties.Get(name); !ok && f.Required {
				errs = append(errs, &MissingIndexedFieldError{Group: g.Name, Index: i, Field: name, Object: obj.Name})
				continue
			}
			v, err := decodeScalar(obj, f, name, cat)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			row[f.Name] = v
		}
		rows = append(rows, row)
	}
	if len(errs) > 0 {
		return errs
	}
	values.groups[g.Name] = rows
	return nil
}

// decodeScalar coerces one property to its declared type, applying the
// default when an optional field is absent and resolving catalog ids.
func decodeScalar(obj RawObject, f FieldSpec, name string, cat catalog.Snapshot) (any, error) {
	raw, present := obj.Properties.Get(name)
	if !present {
		if f.Required {
			return nil, &MissingRequiredFieldError{Field: name, Object: obj.Name}
		}
		return defaultValue(f), nil
	}

	switch f.Type {
	case FieldString:
		if f.Catalog != "" && !cat.Has(f.Catalog, raw) {
			return nil, &DanglingCatalogReferenceError{Kind: f.Catalog, ID: raw, Object: obj.Name}
		}
		return raw, nil

	case FieldInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, &TypeMismatchError{Field: name, Expected: FieldInt.String(), Got: raw, Object: obj.Name}
		}
		return n, nil

	case FieldBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, &TypeMismatchError{Field: name, Expected: FieldBool.String(), Got: raw, Object: obj.Name}
		}
		return b, nil

	case FieldIDList:
		ids, err := splitIDList(raw)
		if err != nil {
			return nil, &TypeMismatchError{Field: name, Expected: FieldIDList.String(), Got: raw, Object: obj.Name}
		}
		if f.Catalog != "" {
			for _, id := range ids {
				if !cat.Has(f.Catalog, id) {
					return nil, &DanglingCatalogReferenceError{Kind: f.Catalog, ID: id, Object: obj.Name}
				}
			}
		}
		return ids, nil

	default:
		return nil, &TypeMismatchError{Field: name, Expected: f.Type.String(), Got: raw, Object: obj.Name}
	}
}

func defaultValue(f FieldSpec) any {
	if f.Default != nil {
		return f.Default
	}
	switch f.Type {
	case FieldString:
		return ""
	case FieldInt:
		return 0
	case FieldBool:
		return false
	case FieldIDList:
		return []string(nil)
	default:
		return nil
	}
}

// splitIDList splits a comma-separated list into trimmed, non-empty tokens.
// An empty or blank value is a valid empty list; a blank token between
// commas is not.
func splitIDList(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		id := strings.TrimSpace(part)
		if id == "" {
			return nil, fmt.Errorf("empty id token")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
