package listview

import (
	"fmt"
	"testing"
)

func makeIDs(count int) []string {
	ids := make([]string, count)
	for i := range ids {
		ids[i] = fmt.Sprintf("%03d", i)
	}
	return ids
}

func TestMoveScrollsWithinViewport(t *testing.T) {
	s := NewState()
	s.SetItems(makeIDs(10))
	s.Viewport(4)

	for i := 0; i < 6; i++ {
		s.Move(1)
	}
	start, end := s.Viewport(4)
	if s.Cursor() != 6 {
		t.Fatalf("expected cursor 6, got %d", s.Cursor())
	}
	if start != 3 || end != 7 {
		t.Fatalf("expected window [3,7), got [%d,%d)", start, end)
	}

	s.Top()
	start, _ = s.Viewport(4)
	if start != 0 {
		t.Fatalf("expected scroll reset at top, got %d", start)
	}
}

func TestMoveStopsAtEnds(t *testing.T) {
	s := NewState()
	s.SetItems(makeIDs(3))
	s.Move(-5)
	if s.Cursor() != 0 {
		t.Fatalf("expected cursor 0, got %d", s.Cursor())
	}
	s.Move(10)
	if s.Selected() != "002" {
		t.Fatalf("expected last id, got %q", s.Selected())
	}
}

func TestSetItemsKeepsSelectedID(t *testing.T) {
	s := NewState()
	s.SetItems([]string{"a", "b", "c"})
	s.Move(2)

	s.SetItems([]string{"x", "c"})
	if s.Selected() != "c" {
		t.Fatalf("expected cursor to follow id c, got %q", s.Selected())
	}

	s.SetItems([]string{"x"})
	if s.Selected() != "x" {
		t.Fatalf("expected clamp to remaining row, got %q", s.Selected())
	}

	s.SetItems(nil)
	if s.Selected() != "" || s.Len() != 0 {
		t.Fatalf("expected empty state")
	}
}
