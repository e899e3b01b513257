package ordering_test

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-kiosk/internal/ordering"
)

var (
	idA = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	idB = uuid.MustParse("00000000-0000-0000-0000-0000000000b2")
	idC = uuid.MustParse("00000000-0000-0000-0000-0000000000c3")
)

func TestRenumber_ClosesGaps(t *testing.T) {
	changed := ordering.Renumber([]ordering.Positioned{
		{ID: idA, Position: 0},
		{ID: idB, Position: 3},
		{ID: idC, Position: 7},
	})

	want := []ordering.Placement{
		{ID: idB, Position: 1},
		{ID: idC, Position: 2},
	}
	if !reflect.DeepEqual(changed, want) {
		t.Fatalf("expected %v, got %v", want, changed)
	}
}

func TestRenumber_DenseInput_NoChanges(t *testing.T) {
	changed := ordering.Renumber([]ordering.Positioned{
		{ID: idA, Position: 0},
		{ID: idB, Position: 1},
		{ID: idC, Position: 2},
	})
	if len(changed) != 0 {
		t.Fatalf("dense sequence must not change, got %v", changed)
	}
}

func TestRenumber_TiesKeepInputOrder(t *testing.T) {
	changed := ordering.Renumber([]ordering.Positioned{
		{ID: idA, Position: 2},
		{ID: idB, Position: 2},
		{ID: idC, Position: 2},
	})

	want := []ordering.Placement{
		{ID: idA, Position: 0},
		{ID: idB, Position: 1},
	}
	if !reflect.DeepEqual(changed, want) {
		t.Fatalf("expected stable tie order %v, got %v", want, changed)
	}
}

func TestRenumber_Empty(t *testing.T) {
	if changed := ordering.Renumber(nil); len(changed) != 0 {
		t.Fatalf("expected no changes, got %v", changed)
	}
}
