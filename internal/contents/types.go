package contents

import (
	"maps"

	"github.com/google/uuid"
)

// SlotMain is the resource slot every other slot falls back to. A language's
// own main image wins over cross-language propagation from the default
// language.
const SlotMain = "main"

// ContentBlock holds the localized presentation data for one language:
// display fields, named resource slots pointing at assets, and the flat
// asset-id lists owned by that language.
type ContentBlock struct {
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Color       string               `json:"color,omitempty"`
	Resources   map[string]uuid.UUID `json:"resources,omitempty"`
	Assets      []uuid.UUID          `json:"assets,omitempty"`
	Gallery     []uuid.UUID          `json:"gallery,omitempty"`
	Extra       map[string]any       `json:"extra,omitempty"`
}

// LocalizedContents maps a language code to that language's content block.
type LocalizedContents map[string]*ContentBlock

// Clone returns a deep copy so callers can mutate without aliasing stored
// state.
func (c LocalizedContents) Clone() LocalizedContents {
	if c == nil {
		return nil
	}
	out := make(LocalizedContents, len(c))
	for lang, block := range c {
		out[lang] = block.Clone()
	}
	return out
}

// Clone returns a deep copy of the block.
func (b *ContentBlock) Clone() *ContentBlock {
	if b == nil {
		return nil
	}
	copied := *b
	if b.Resources != nil {
		copied.Resources = maps.Clone(b.Resources)
	}
	if b.Assets != nil {
		copied.Assets = append([]uuid.UUID(nil), b.Assets...)
	}
	if b.Gallery != nil {
		copied.Gallery = append([]uuid.UUID(nil), b.Gallery...)
	}
	if b.Extra != nil {
		copied.Extra = maps.Clone(b.Extra)
	}
	return &copied
}

// slotSet reports whether a slot holds a usable asset reference.
func (b *ContentBlock) slotSet(slot string) bool {
	if b == nil || b.Resources == nil {
		return false
	}
	return b.Resources[slot] != uuid.Nil
}

// slotValue returns the asset id held in a slot, or uuid.Nil.
func (b *ContentBlock) slotValue(slot string) uuid.UUID {
	if b == nil || b.Resources == nil {
		return uuid.Nil
	}
	return b.Resources[slot]
}
