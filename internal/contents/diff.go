package contents

import (
	"sort"

	"github.com/google/uuid"
)

// DeletedAssetsFromDifference reports the asset ids that were referenced by a
// resource slot in last but by none in next, per language. The asset lists
// and galleries are ignored on purpose: only slot references keep an asset
// alive through a content update.
//
// The comparison is asymmetric. Assets that only appear on the next side are
// additions, never reported. An asset that occupied several slots on the
// last side and none on the next side is reported once per occupancy, so the
// result may contain duplicates.
func DeletedAssetsFromDifference(last, next LocalizedContents) []uuid.UUID {
	var deleted []uuid.UUID

	for _, lang := range languageUnion(last, next) {
		lastValues := flattenSlots(last[lang])
		nextValues := flattenSlots(next[lang])

		remaining := make(map[uuid.UUID]int, len(nextValues))
		for _, id := range nextValues {
			remaining[id]++
		}
		for _, id := range lastValues {
			if remaining[id] > 0 {
				continue
			}
			deleted = append(deleted, id)
		}
	}

	return deleted
}

// ResourceReferenceCount counts how many slots across every language point at
// the asset. Single-slot replacement flows may only delete the displaced
// asset when this count is exactly 1; shared fallback images stay alive.
func ResourceReferenceCount(contents LocalizedContents, assetID uuid.UUID) int {
	if assetID == uuid.Nil {
		return 0
	}
	count := 0
	for _, block := range contents {
		if block == nil {
			continue
		}
		for _, id := range block.Resources {
			if id == assetID {
				count++
			}
		}
	}
	return count
}

// RemoveAsset strips the asset id from every language's asset and gallery
// lists. Resource slots are untouched; callers rewrite those explicitly.
func RemoveAsset(contents LocalizedContents, assetID uuid.UUID) {
	for _, block := range contents {
		if block == nil {
			continue
		}
		block.Assets = withoutID(block.Assets, assetID)
		block.Gallery = withoutID(block.Gallery, assetID)
	}
}

func withoutID(ids []uuid.UUID, target uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return ids
	}
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// flattenSlots lists a block's slot values in slot-name order, preserving
// duplicates.
func flattenSlots(block *ContentBlock) []uuid.UUID {
	if block == nil || len(block.Resources) == 0 {
		return nil
	}
	out := make([]uuid.UUID, 0, len(block.Resources))
	for _, slot := range sortedSlots(block) {
		if id := block.Resources[slot]; id != uuid.Nil {
			out = append(out, id)
		}
	}
	return out
}

func languageUnion(last, next LocalizedContents) []string {
	seen := make(map[string]struct{}, len(last)+len(next))
	for lang := range last {
		seen[lang] = struct{}{}
	}
	for lang := range next {
		seen[lang] = struct{}{}
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
