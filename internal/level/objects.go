package level

import "github.com/cory-johannsen/tactics/internal/catalog"

// Object type tags understood by the stock registry.
const (
	TagPlacement = "placement"
	TagFoe       = "foe"
	TagAlly      = "ally"
	TagObjective = "objective"
	TagChest     = "chest"
	TagBuilding  = "building"
	TagDoor      = "door"
	TagFountain  = "fountain"
	TagPortal    = "portal"
	TagBreakable = "breakable"
)

// Shop sub-schema activation value and default starting gold.
const (
	shopKind         = "shop"
	defaultShopMoney = 500
)

// NewRegistry builds the stock registry: every object type of the authoring
// format with its property schema. Callers may Register additional types.
func NewRegistry() *Registry {
	r := &Registry{
		schemas:   make(map[string]*Schema),
		namespace: objectNamespace,
	}

	r.Register(&Schema{Tag: TagPlacement}, func(_ RawObject, info ObjectInfo, _ *decodedValues) DynamicObject {
		return Placement{ObjectInfo: info}
	})

	r.Register(&Schema{
		Tag:         TagFoe,
		NameCatalog: catalog.KindFoe,
		Fields: []FieldSpec{
			{Name: "level", Type: FieldInt, Default: 1},
			{Name: "mission_target", Type: FieldString},
		},
		Groups: []IndexedGroup{{
			Name:       "specific_loot",
			CountField: "number_items",
			Fields: []FieldSpec{
				{Name: "item_{index}_name", Type: FieldString, Required: true, Catalog: catalog.KindItem},
			},
		}},
	}, func(obj RawObject, info ObjectInfo, v *decodedValues) DynamicObject {
		foe := Foe{
			ObjectInfo:    info,
			FoeID:         obj.Name,
			Level:         v.num("level"),
			MissionTarget: v.str("mission_target"),
		}
		for _, row := range v.groups["specific_loot"] {
			name, _ := row["item_{index}_name"].(string)
			foe.SpecificLoot = append(foe.SpecificLoot, LootEntry{ItemID: name})
		}
		return foe
	})

	r.Register(&Schema{
		Tag:         TagAlly,
		NameCatalog: catalog.KindAlly,
		Fields: []FieldSpec{
			{Name: "dialog", Type: FieldIDList, Catalog: catalog.KindDialog},
		},
	}, func(obj RawObject, info ObjectInfo, v *decodedValues) DynamicObject {
		return Ally{ObjectInfo: info, AllyID: obj.Name, DialogIDs: v.ids("dialog")}
	})

	r.Register(&Schema{
		Tag: TagObjective,
		Fields: []FieldSpec{
			{Name: "mission", Type: FieldString, Required: true},
			{Name: "walkable", Type: FieldBool},
		},
	}, func(_ RawObject, info ObjectInfo, v *decodedValues) DynamicObject {
		return Objective{ObjectInfo: info, MissionID: v.str("mission"), Walkable: v.flag("walkable")}
	})

	r.Register(&Schema{
		Tag: TagChest,
		Groups: []IndexedGroup{{
			Name:          "contents",
			CountField:    "content_possibilities",
			CountRequired: true,
			Fields: []FieldSpec{
				{Name: "item_{index}_name", Type: FieldString, Required: true, Catalog: catalog.KindItem},
				{Name: "item_{index}_probability", Type: FieldInt, Required: true},
			},
		}},
	}, func(_ RawObject, info ObjectInfo, v *decodedValues) DynamicObject {
		chest := Chest{ObjectInfo: info}
		for _, row := range v.groups["contents"] {
			name, _ := row["item_{index}_name"].(string)
			prob, _ := row["item_{index}_probability"].(int)
			chest.Contents = append(chest.Contents, LootEntry{ItemID: name, Probability: prob})
		}
		return chest
	})

	r.Register(&Schema{
		Tag: TagBuilding,
		Fields: []FieldSpec{
			{Name: "kind", Type: FieldString},
			{Name: "talks", Type: FieldIDList, Catalog: catalog.KindDialog},
			{Name: "interaction", Type: FieldBool, Default: true},
		},
		Conditional: &Conditional{
			Field:  "kind",
			Equals: shopKind,
			Fields: []FieldSpec{
				{Name: "money", Type: FieldInt, Default: defaultShopMoney},
			},
			Groups: []IndexedGroup{{
				Name:          "stock",
				CountField:    "number_items",
				CountRequired: true,
				Fields: []FieldSpec{
					{Name: "item_{index}_name", Type: FieldString, Required: true, Catalog: catalog.KindItem},
					{Name: "item_{index}_quantity", Type: FieldInt, Required: true},
				},
			}},
		},
	}, func(_ RawObject, info ObjectInfo, v *decodedValues) DynamicObject {
		b := Building{
			ObjectInfo:   info,
			BuildingKind: v.str("kind"),
			DialogIDs:    v.ids("talks"),
			Interactive:  v.flag("interaction"),
		}
		if b.BuildingKind == shopKind {
			shop := &ShopDetails{Money: v.num("money")}
			for _, row := range v.groups["stock"] {
				name, _ := row["item_{index}_name"].(string)
				qty, _ := row["item_{index}_quantity"].(int)
				shop.Stock = append(shop.Stock, ShopItem{ItemID: name, Quantity: qty})
			}
			b.Shop = shop
		}
		return b
	})

	r.Register(&Schema{
		Tag: TagDoor,
		Fields: []FieldSpec{
			{Name: "pass_through", Type: FieldBool},
		},
	}, func(_ RawObject, info ObjectInfo, v *decodedValues) DynamicObject {
		return Door{ObjectInfo: info, PassThrough: v.flag("pass_through")}
	})

	r.Register(&Schema{
		Tag:         TagFountain,
		NameCatalog: catalog.KindFountain,
	}, func(obj RawObject, info ObjectInfo, _ *decodedValues) DynamicObject {
		return Fountain{ObjectInfo: info, FountainID: obj.Name}
	})

	// Portals and breakables are authored today but not implemented yet.
	// Their stubs accept any property bag so forward content loads without
	// crashing; replacing a stub with a real schema changes nothing else.
	r.Register(&Schema{Tag: TagPortal, Stub: true}, func(obj RawObject, info ObjectInfo, _ *decodedValues) DynamicObject {
		return PortalStub{ObjectInfo: info, Properties: obj.Properties}
	})
	r.Register(&Schema{Tag: TagBreakable, Stub: true}, func(obj RawObject, info ObjectInfo, _ *decodedValues) DynamicObject {
		return BreakableStub{ObjectInfo: info, Properties: obj.Properties}
	})

	return r
}
