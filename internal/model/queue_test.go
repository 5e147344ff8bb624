package model

import (
	"errors"
	"testing"
)

func TestQueuePairsOldestFirst(t *testing.T) {
	q := NewQueue()
	for _, id := range []string{"a", "b", "c"} {
		if err := q.AddPlayer(Player{ID: id}); err != nil {
			t.Fatalf("AddPlayer(%s): %v", id, err)
		}
	}
	if err := q.AddPlayer(Player{ID: "b"}); !errors.Is(err, ErrAlreadyQueued) {
		t.Fatalf("duplicate AddPlayer error = %v, want ErrAlreadyQueued", err)
	}

	first, second, ok := q.NextPair()
	if !ok || first.ID != "a" || second.ID != "b" {
		t.Fatalf("NextPair = %v, %v, %v; want a, b", first, second, ok)
	}
	if _, _, ok := q.NextPair(); ok {
		t.Fatal("NextPair succeeded with one player queued")
	}
	q.RemovePlayer("c")
	if q.Size() != 0 {
		t.Errorf("Size = %d, want 0", q.Size())
	}
}

func TestSeats(t *testing.T) {
	s := Seats{White: Player{ID: "w", Color: White}, Black: Player{ID: "b", Color: Black}}
	if c, ok := s.ColorOf("b"); !ok || c != Black {
		t.Errorf("ColorOf(b) = %s, %v", c, ok)
	}
	if _, ok := s.ColorOf(""); ok {
		t.Error("empty id matched a seat")
	}
	swapped := s.Swapped()
	if swapped.White.ID != "b" || swapped.Black.ID != "w" {
		t.Errorf("Swapped = %+v", swapped)
	}
}
