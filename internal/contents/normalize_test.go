package contents_test

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-kiosk/internal/contents"
)

var (
	assetA = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	assetB = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
	assetC = uuid.MustParse("00000000-0000-0000-0000-0000000000c1")
)

func TestNormalize_DefaultLanguageFallback(t *testing.T) {
	content := contents.LocalizedContents{
		"RU": {
			Name: "Кофе",
			Resources: map[string]uuid.UUID{
				contents.SlotMain: assetA,
			},
		},
		"EN": {
			Name: "Coffee",
		},
	}

	contents.Normalize(content, "RU")

	en := content["EN"]
	if got := en.Resources[contents.SlotMain]; got != assetA {
		t.Fatalf("expected EN main to inherit %s, got %s", assetA, got)
	}
}

func TestNormalize_OtherSlotsFallBackToDefaultMain(t *testing.T) {
	content := contents.LocalizedContents{
		"RU": {
			Resources: map[string]uuid.UUID{
				contents.SlotMain: assetA,
				"icon":            assetB,
			},
		},
		"EN": {},
	}

	contents.Normalize(content, "RU")

	en := content["EN"]
	if got := en.Resources[contents.SlotMain]; got != assetA {
		t.Fatalf("expected EN main %s, got %s", assetA, got)
	}
	// EN has an inherited main, so the icon slot resolves to it rather than
	// crossing languages again.
	if got := en.Resources["icon"]; got != assetA {
		t.Fatalf("expected EN icon to resolve to local main %s, got %s", assetA, got)
	}
}

func TestNormalize_LocalMainWinsOverDefaultPropagation(t *testing.T) {
	content := contents.LocalizedContents{
		"RU": {
			Resources: map[string]uuid.UUID{
				contents.SlotMain: assetA,
				"icon":            assetB,
			},
		},
		"EN": {
			Resources: map[string]uuid.UUID{
				contents.SlotMain: assetC,
			},
		},
	}

	contents.Normalize(content, "RU")

	en := content["EN"]
	if got := en.Resources[contents.SlotMain]; got != assetC {
		t.Fatalf("customised EN main must survive, got %s", got)
	}
	if got := en.Resources["icon"]; got != assetC {
		t.Fatalf("expected EN icon to take local main %s, got %s", assetC, got)
	}
}

func TestNormalize_CustomisedSlotSurvives(t *testing.T) {
	content := contents.LocalizedContents{
		"RU": {
			Resources: map[string]uuid.UUID{
				contents.SlotMain: assetA,
			},
		},
		"EN": {
			Resources: map[string]uuid.UUID{
				contents.SlotMain: assetA,
				"icon":            assetC,
			},
		},
	}

	contents.Normalize(content, "RU")

	en := content["EN"]
	// assetC does not appear anywhere in the default block, so it counts as a
	// per-language customisation.
	if got := en.Resources["icon"]; got != assetC {
		t.Fatalf("customised EN icon must survive, got %s", got)
	}
}

func TestNormalize_InheritedValueIsReplaceable(t *testing.T) {
	content := contents.LocalizedContents{
		"RU": {
			Resources: map[string]uuid.UUID{
				contents.SlotMain: assetA,
				"icon":            assetB,
			},
		},
		"EN": {
			Resources: map[string]uuid.UUID{
				contents.SlotMain: assetC,
				// Equals the default icon, so it reads as never customised.
				"icon": assetB,
			},
		},
	}

	contents.Normalize(content, "RU")

	en := content["EN"]
	if got := en.Resources["icon"]; got != assetC {
		t.Fatalf("inherited EN icon should be replaced by local main %s, got %s", assetC, got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	build := func() contents.LocalizedContents {
		return contents.LocalizedContents{
			"RU": {
				Resources: map[string]uuid.UUID{
					contents.SlotMain: assetA,
					"icon":            assetB,
				},
			},
			"EN": {
				Resources: map[string]uuid.UUID{
					contents.SlotMain: assetC,
				},
			},
			"DE": {},
		}
	}

	once := build()
	contents.Normalize(once, "RU")

	twice := build()
	contents.Normalize(twice, "RU")
	contents.Normalize(twice, "RU")

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("normalization must be idempotent:\nonce:  %#v\ntwice: %#v", once, twice)
	}
}

func TestNormalize_MissingDefaultKeepsCustomisedSlots(t *testing.T) {
	contents.Normalize(nil, "RU")

	content := contents.LocalizedContents{
		"EN": {
			Resources: map[string]uuid.UUID{"icon": assetB},
		},
	}
	contents.Normalize(content, "RU")

	if got := content["EN"].Resources["icon"]; got != assetB {
		t.Fatalf("without a default language a set slot must survive, got %s", got)
	}
	if got := content["EN"].Resources[contents.SlotMain]; got != uuid.Nil {
		t.Fatalf("no main can appear out of thin air, got %s", got)
	}
}

func TestNormalize_MissingDefaultStillPropagatesLocalMain(t *testing.T) {
	content := contents.LocalizedContents{
		"EN": {
			Resources: map[string]uuid.UUID{
				contents.SlotMain: assetA,
				"icon":            uuid.Nil,
			},
		},
	}
	contents.Normalize(content, "RU")

	if got := content["EN"].Resources["icon"]; got != assetA {
		t.Fatalf("empty slot must inherit the language's own main, got %s", got)
	}
}

func TestEnsureAssetLinks(t *testing.T) {
	content := contents.LocalizedContents{
		"RU": {
			Resources: map[string]uuid.UUID{
				contents.SlotMain: assetA,
				"icon":            assetB,
			},
			Assets: []uuid.UUID{assetA},
		},
	}

	contents.EnsureAssetLinks(content)

	assets := content["RU"].Assets
	if len(assets) != 2 {
		t.Fatalf("expected 2 linked assets, got %d", len(assets))
	}
	if assets[0] != assetA || assets[1] != assetB {
		t.Fatalf("unexpected asset list %v", assets)
	}

	// Re-running must not duplicate entries.
	contents.EnsureAssetLinks(content)
	if got := len(content["RU"].Assets); got != 2 {
		t.Fatalf("expected stable asset list, got %d entries", got)
	}
}
