package contents

import (
	"sort"

	"github.com/google/uuid"
)

// Normalize propagates and defaults resource slots across languages so every
// block resolves to a displayable image set.
//
// The fallback runs in two passes. The first pass resolves each language's
// main slot, pulling from the default language when the language has no main
// of its own. The second pass resolves every remaining slot: a slot inherits
// the language-local main when one exists, and only otherwise falls back to
// the default language's slot (or its main).
//
// A slot value that equals ANY resource value of the default language's block
// counts as "inherited from default" and is eligible for replacement. The
// check is deliberately coarse: it detects slots that were never customised
// per-language, not slots that happen to share a specific counterpart.
//
// Normalize mutates contents in place and is idempotent.
func Normalize(contents LocalizedContents, defaultLanguage string) {
	if len(contents) == 0 {
		return
	}
	// A missing default block disables cross-language inheritance but not
	// the language-local main propagation; the helpers tolerate a nil def.
	def := contents[defaultLanguage]

	for lang, block := range contents {
		if block == nil {
			continue
		}
		normalizeMain(block, def, lang == defaultLanguage)
	}
	for lang, block := range contents {
		if block == nil {
			continue
		}
		normalizeSlots(block, def, lang == defaultLanguage)
	}
}

func normalizeMain(block, def *ContentBlock, isDefault bool) {
	if isDefault {
		return
	}
	current := block.slotValue(SlotMain)
	if current != uuid.Nil && !inheritedFromDefault(def, current) {
		return
	}
	if fallback := def.slotValue(SlotMain); fallback != uuid.Nil {
		setSlot(block, SlotMain, fallback)
	}
}

func normalizeSlots(block, def *ContentBlock, isDefault bool) {
	main := block.slotValue(SlotMain)

	for _, slot := range slotUnion(block, def) {
		if slot == SlotMain {
			continue
		}
		replaceable := !block.slotSet(slot) ||
			(!isDefault && inheritedFromDefault(def, block.slotValue(slot)))

		switch {
		case main != uuid.Nil && replaceable:
			setSlot(block, slot, main)
		case !isDefault && replaceable:
			if value := def.slotValue(slot); value != uuid.Nil {
				setSlot(block, slot, value)
			} else if value := def.slotValue(SlotMain); value != uuid.Nil {
				setSlot(block, slot, value)
			}
		}
	}
}

// inheritedFromDefault reports whether the value matches any resource of the
// default block.
func inheritedFromDefault(def *ContentBlock, value uuid.UUID) bool {
	if def == nil || value == uuid.Nil {
		return false
	}
	for _, existing := range def.Resources {
		if existing == value {
			return true
		}
	}
	return false
}

// slotUnion returns the sorted union of slot names across both blocks so the
// pass order is deterministic regardless of map iteration.
func slotUnion(block, def *ContentBlock) []string {
	seen := make(map[string]struct{})
	for slot := range blockResources(block) {
		seen[slot] = struct{}{}
	}
	for slot := range blockResources(def) {
		seen[slot] = struct{}{}
	}
	slots := make([]string, 0, len(seen))
	for slot := range seen {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}

func blockResources(block *ContentBlock) map[string]uuid.UUID {
	if block == nil {
		return nil
	}
	return block.Resources
}

func setSlot(block *ContentBlock, slot string, value uuid.UUID) {
	if block.Resources == nil {
		block.Resources = make(map[string]uuid.UUID)
	}
	block.Resources[slot] = value
}

// EnsureAssetLinks appends every referenced resource id to the owning
// language's asset list, preserving the invariant that a slot never points
// at an asset the language does not list.
func EnsureAssetLinks(contents LocalizedContents) {
	for _, block := range contents {
		if block == nil {
			continue
		}
		known := make(map[uuid.UUID]struct{}, len(block.Assets))
		for _, id := range block.Assets {
			known[id] = struct{}{}
		}
		for _, slot := range sortedSlots(block) {
			id := block.Resources[slot]
			if id == uuid.Nil {
				continue
			}
			if _, ok := known[id]; ok {
				continue
			}
			block.Assets = append(block.Assets, id)
			known[id] = struct{}{}
		}
	}
}

func sortedSlots(block *ContentBlock) []string {
	slots := make([]string, 0, len(block.Resources))
	for slot := range block.Resources {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}
