package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/tactics/internal/catalog"
)

// identityTransform returns a transform with scale 1 and no offset, so
// decoded positions equal authored positions.
func identityTransform(t *testing.T) Transform {
	t.Helper()
	tr, err := NewTransform(GridConfig{AuthoredTileSize: 48, RuntimeTileSize: 48}, DefaultReferenceCols, DefaultReferenceRows)
	require.NoError(t, err)
	return tr
}

func testCatalog() catalog.Snapshot {
	return catalog.New(map[string][]string{
		catalog.KindFoe:      {"skeleton", "necromancer"},
		catalog.KindAlly:     {"villager"},
		catalog.KindFountain: {"life_fountain"},
		catalog.KindItem:     {"potion", "sword", "key"},
		catalog.KindDialog:   {"greeting", "rumor"},
	})
}

func TestDecode_UnknownObjectType(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode(RawObject{Type: "dragon", Name: "smaug"}, identityTransform(t), testCatalog())
	require.Error(t, err)
	var unknown *UnknownObjectTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "dragon", unknown.TypeTag)
	assert.Equal(t, "smaug", unknown.Object)
}

func TestDecode_Placement(t *testing.T) {
	r := NewRegistry()
	obj, err := r.Decode(RawObject{Type: "placement", Position: Point{X: 64, Y: 96}}, identityTransform(t), testCatalog())
	require.NoError(t, err)
	p, ok := obj.(Placement)
	require.True(t, ok)
	assert.Equal(t, Point{X: 64, Y: 96}, p.Position)
	assert.NotEmpty(t, p.InstanceID)
}

func TestDecode_Foe_Defaults(t *testing.T) {
	r := NewRegistry()
	obj, err := r.Decode(RawObject{Type: "foe", Name: "skeleton"}, identityTransform(t), testCatalog())
	require.NoError(t, err)
	foe, ok := obj.(Foe)
	require.True(t, ok)
	assert.Equal(t, "skeleton", foe.FoeID)
	assert.Equal(t, 1, foe.Level, "level defaults to 1")
	assert.Empty(t, foe.MissionTarget)
	assert.Empty(t, foe.SpecificLoot)
}

func TestDecode_Foe_WithLootAndTarget(t *testing.T) {
	r := NewRegistry()
	obj, err := r.Decode(RawObject{
		Type: "foe",
		Name: "necromancer",
		Properties: Properties{
			"level":          "5",
			"mission_target": "boss",
			"number_items":   "2",
			"item_0_name":    "potion",
			"item_1_name":    "sword",
		},
	}, identityTransform(t), testCatalog())
	require.NoError(t, err)
	foe := obj.(Foe)
	assert.Equal(t, 5, foe.Level)
	assert.Equal(t, "boss", foe.MissionTarget)
	require.Len(t, foe.SpecificLoot, 2)
	assert.Equal(t, "potion", foe.SpecificLoot[0].ItemID)
	assert.Equal(t, "sword", foe.SpecificLoot[1].ItemID)
}

func TestDecode_Foe_UnknownNameFailsCatalogCheck(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode(RawObject{Type: "foe", Name: "balrog"}, identityTransform(t), testCatalog())
	require.Error(t, err)
	var dangling *DanglingCatalogReferenceError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, catalog.KindFoe, dangling.Kind)
	assert.Equal(t, "balrog", dangling.ID)
}

func TestDecode_Objective_RequiresMission(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode(RawObject{Type: "objective", Name: "gate"}, identityTransform(t), testCatalog())
	require.Error(t, err)
	var missing *MissingRequiredFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "mission", missing.Field)
}

func TestDecode_Objective_TypeMismatch(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode(RawObject{
		Type:       "objective",
		Name:       "gate",
		Properties: Properties{"mission": "main", "walkable": "maybe"},
	}, identityTransform(t), testCatalog())
	require.Error(t, err)
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "walkable", mismatch.Field)
	assert.Equal(t, "bool", mismatch.Expected)
	assert.Equal(t, "maybe", mismatch.Got)
}

func TestDecode_IndexedGap(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode(RawObject{
		Type: "foe",
		Name: "skeleton",
		Properties: Properties{
			"number_items": "3",
			"item_0_name":  "potion",
			"item_2_name":  "sword",
		},
	}, identityTransform(t), testCatalog())
	require.Error(t, err)
	var gap *MissingIndexedFieldError
	require.ErrorAs(t, err, &gap)
	assert.Equal(t, "specific_loot", gap.Group)
	assert.Equal(t, 1, gap.Index)
}

func TestDecode_Chest(t *testing.T) {
	r := NewRegistry()
	obj, err := r.Decode(RawObject{
		Type: "chest",
		Name: "old_chest",
		Properties: Properties{
			"content_possibilities": "2",
			"item_0_name":           "potion",
			"item_0_probability":    "30",
			"item_1_name":           "key",
			"item_1_probability":    "70",
		},
	}, identityTransform(t), testCatalog())
	require.NoError(t, err)
	chest := obj.(Chest)
	require.Len(t, chest.Contents, 2)
	assert.Equal(t, LootEntry{ItemID: "potion", Probability: 30}, chest.Contents[0])
	assert.Equal(t, LootEntry{ItemID: "key", Probability: 70}, chest.Contents[1])
}

func TestDecode_Chest_MissingProbability(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode(RawObject{
		Type: "chest",
		Name: "old_chest",
		Properties: Properties{
			"content_possibilities": "2",
			"item_0_name":           "potion",
			"item_0_probability":    "30",
			"item_1_name":           "key",
		},
	}, identityTransform(t), testCatalog())
	require.Error(t, err)
	var gap *MissingIndexedFieldError
	require.ErrorAs(t, err, &gap)
	assert.Equal(t, "contents", gap.Group)
	assert.Equal(t, 1, gap.Index)
}

func TestDecode_Chest_RequiresCount(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode(RawObject{Type: "chest", Name: "old_chest"}, identityTransform(t), testCatalog())
	require.Error(t, err)
	var missing *MissingRequiredFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "content_possibilities", missing.Field)
}

func TestDecode_Building_Plain(t *testing.T) {
	r := NewRegistry()
	obj, err := r.Decode(RawObject{
		Type:       "building",
		Name:       "house",
		Properties: Properties{"talks": "greeting, rumor"},
	}, identityTransform(t), testCatalog())
	require.NoError(t, err)
	b := obj.(Building)
	assert.Empty(t, b.BuildingKind)
	assert.Equal(t, []string{"greeting", "rumor"}, b.DialogIDs)
	assert.True(t, b.Interactive, "interaction defaults to true")
	assert.Nil(t, b.Shop, "plain buildings carry no shop details")
}

func TestDecode_Building_ShopDefaultsMoney(t *testing.T) {
	r := NewRegistry()
	obj, err := r.Decode(RawObject{
		Type: "building",
		Name: "emporium",
		Properties: Properties{
			"kind":            "shop",
			"number_items":    "1",
			"item_0_name":     "potion",
			"item_0_quantity": "2",
		},
	}, identityTransform(t), testCatalog())
	require.NoError(t, err)
	b := obj.(Building)
	require.NotNil(t, b.Shop)
	assert.Equal(t, 500, b.Shop.Money)
	require.Len(t, b.Shop.Stock, 1)
	assert.Equal(t, ShopItem{ItemID: "potion", Quantity: 2}, b.Shop.Stock[0])
}

func TestDecode_Building_ShopRequiresStockCount(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode(RawObject{
		Type:       "building",
		Name:       "emporium",
		Properties: Properties{"kind": "shop"},
	}, identityTransform(t), testCatalog())
	require.Error(t, err)
	var missing *MissingRequiredFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "number_items", missing.Field)
}

func TestDecode_Building_NonShopIgnoresShopSchema(t *testing.T) {
	// A plain building with no shop fields must not trip the conditional
	// sub-schema requirements.
	r := NewRegistry()
	obj, err := r.Decode(RawObject{
		Type:       "building",
		Name:       "house",
		Properties: Properties{"kind": "house"},
	}, identityTransform(t), testCatalog())
	require.NoError(t, err)
	assert.Nil(t, obj.(Building).Shop)
}

func TestDecode_Ally_DialogCatalogCheck(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode(RawObject{
		Type:       "ally",
		Name:       "villager",
		Properties: Properties{"dialog": "greeting, missing_dialog"},
	}, identityTransform(t), testCatalog())
	require.Error(t, err)
	var dangling *DanglingCatalogReferenceError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, catalog.KindDialog, dangling.Kind)
	assert.Equal(t, "missing_dialog", dangling.ID)
}

func TestDecode_Ally_EmptyDialogListIsValid(t *testing.T) {
	r := NewRegistry()
	obj, err := r.Decode(RawObject{
		Type:       "ally",
		Name:       "villager",
		Properties: Properties{"dialog": ""},
	}, identityTransform(t), testCatalog())
	require.NoError(t, err)
	assert.Empty(t, obj.(Ally).DialogIDs)
}

func TestDecode_BlankListTokenRejected(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode(RawObject{
		Type:       "ally",
		Name:       "villager",
		Properties: Properties{"dialog": "greeting,,rumor"},
	}, identityTransform(t), testCatalog())
	require.Error(t, err)
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "dialog", mismatch.Field)
}

func TestDecode_Fountain(t *testing.T) {
	r := NewRegistry()
	obj, err := r.Decode(RawObject{Type: "fountain", Name: "life_fountain"}, identityTransform(t), testCatalog())
	require.NoError(t, err)
	assert.Equal(t, "life_fountain", obj.(Fountain).FountainID)

	_, err = r.Decode(RawObject{Type: "fountain", Name: "lava_fountain"}, identityTransform(t), testCatalog())
	require.Error(t, err)
	var dangling *DanglingCatalogReferenceError
	assert.ErrorAs(t, err, &dangling)
}

func TestDecode_StubsAcceptAnything(t *testing.T) {
	r := NewRegistry()
	props := Properties{"whatever": "anything", "hp": "not-a-number"}

	portal, err := r.Decode(RawObject{Type: "portal", Name: "p1", Properties: props}, identityTransform(t), testCatalog())
	require.NoError(t, err)
	assert.Equal(t, props, portal.(PortalStub).Properties)

	breakable, err := r.Decode(RawObject{Type: "breakable", Name: "barrel", Properties: props}, identityTransform(t), testCatalog())
	require.NoError(t, err)
	assert.Equal(t, props, breakable.(BreakableStub).Properties)
}

func TestDecode_UnknownPropertiesIgnored(t *testing.T) {
	r := NewRegistry()
	obj, err := r.Decode(RawObject{
		Type:       "door",
		Name:       "north_door",
		Properties: Properties{"pass_through": "true", "editor_note": "fix art later"},
	}, identityTransform(t), testCatalog())
	require.NoError(t, err)
	assert.True(t, obj.(Door).PassThrough)
}

func TestDecode_AggregatesAllObjectErrors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode(RawObject{
		Type: "foe",
		Name: "balrog", // not in catalog
		Properties: Properties{
			"level":        "soon", // not an int
			"number_items": "1",    // item_0_name missing
		},
	}, identityTransform(t), testCatalog())
	require.Error(t, err)
	assert.Len(t, ErrorsOf(err), 3)
}

func TestDecode_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := NewRegistry()
		tr, err := NewTransform(DefaultGridConfig(), 20, 12)
		if err != nil {
			rt.Fatalf("building transform: %v", err)
		}
		obj := RawObject{
			Type: rapid.SampledFrom([]string{"foe", "objective", "door", "portal", "dragon"}).Draw(rt, "type"),
			Name: rapid.StringMatching(`[a-z_]{1,12}`).Draw(rt, "name"),
			Position: Point{
				X: float64(rapid.IntRange(0, 640).Draw(rt, "x")),
				Y: float64(rapid.IntRange(0, 448).Draw(rt, "y")),
			},
			Properties: Properties{
				"mission":  rapid.SampledFrom([]string{"main", "side"}).Draw(rt, "mission"),
				"level":    rapid.SampledFrom([]string{"1", "7", "nope"}).Draw(rt, "level"),
				"walkable": rapid.SampledFrom([]string{"true", "false"}).Draw(rt, "walkable"),
			},
		}

		first, firstErr := r.Decode(obj, tr, testCatalog())
		second, secondErr := r.Decode(obj, tr, testCatalog())
		if (firstErr == nil) != (secondErr == nil) {
			rt.Fatalf("decode nondeterministic: %v vs %v", firstErr, secondErr)
		}
		if firstErr != nil {
			if firstErr.Error() != secondErr.Error() {
				rt.Fatalf("errors differ: %v vs %v", firstErr, secondErr)
			}
			return
		}
		if !assert.ObjectsAreEqual(first, second) {
			rt.Fatalf("values differ: %#v vs %#v", first, second)
		}
	})
}

func TestDecodeAll_PreservesOrderAndDistinguishesTwins(t *testing.T) {
	r := NewRegistry()
	objs := []RawObject{
		{Type: "placement", Position: Point{X: 0, Y: 0}},
		{Type: "placement", Position: Point{X: 0, Y: 0}},
	}
	decoded, err := r.DecodeAll(objs, identityTransform(t), testCatalog())
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.NotEqual(t, decoded[0].Info().InstanceID, decoded[1].Info().InstanceID,
		"identical twin objects must get distinct instance ids")
}

func TestDecodeAll_AggregatesAcrossObjects(t *testing.T) {
	r := NewRegistry()
	objs := []RawObject{
		{Type: "dragon", Name: "a"},
		{Type: "objective", Name: "b"}, // missing mission
		{Type: "placement"},
	}
	_, err := r.DecodeAll(objs, identityTransform(t), testCatalog())
	require.Error(t, err)
	assert.Len(t, ErrorsOf(err), 2)
}

func TestRegister_ExtendsVocabulary(t *testing.T) {
	r := NewRegistry()
	r.Register(&Schema{Tag: "campfire", Stub: true}, func(obj RawObject, info ObjectInfo, _ *decodedValues) DynamicObject {
		return PortalStub{ObjectInfo: info, Properties: obj.Properties}
	})
	_, err := r.Decode(RawObject{Type: "campfire", Name: "c1"}, identityTransform(t), testCatalog())
	assert.NoError(t, err)
}
