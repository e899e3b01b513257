package ordering

import (
	"sort"

	"github.com/google/uuid"
)

// Positioned is any record that carries a sortable position.
type Positioned struct {
	ID       uuid.UUID
	Position int
}

// Placement is an explicit position assignment for one record.
type Placement struct {
	ID       uuid.UUID
	Position int
}

// Renumber sorts the records by their current position and assigns
// dense positions 0..n-1. Ties keep their input order. It returns only
// the records whose position actually changed, so callers persist the
// minimal set.
func Renumber(records []Positioned) []Placement {
	ordered := append([]Positioned(nil), records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	var changed []Placement
	for i, record := range ordered {
		if record.Position != i {
			changed = append(changed, Placement{ID: record.ID, Position: i})
		}
	}
	return changed
}
