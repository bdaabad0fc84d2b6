package components

import (
	"strings"
	"testing"
)

func TestList_NavigationStaysInBounds(t *testing.T) {
	l := NewList()
	l.SetSize(40, 3)

	l.MoveUp()
	if l.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", l.Cursor())
	}
	for range 10 {
		l.MoveDown(5)
	}
	if l.Cursor() != 4 {
		t.Fatalf("cursor = %d, want 4", l.Cursor())
	}
	l.Top()
	l.PageDown(5)
	if l.Cursor() != 3 {
		t.Fatalf("cursor after page down = %d, want 3", l.Cursor())
	}
	l.Clamp(2)
	if l.Cursor() != 1 {
		t.Fatalf("cursor after clamp = %d, want 1", l.Cursor())
	}
}

func TestList_NearEnd(t *testing.T) {
	l := NewList()
	l.SetSize(40, 10)

	if l.NearEnd(0, 5) {
		t.Fatal("empty list should never be near the end")
	}
	if !l.NearEnd(3, 5) {
		t.Fatal("short list should be near the end")
	}
	if l.NearEnd(30, 5) {
		t.Fatal("cursor 0 of 30 should not be near the end")
	}
	l.Bottom(30)
	if !l.NearEnd(30, 5) {
		t.Fatal("cursor at bottom should be near the end")
	}
}

func TestList_ViewShowsFooterAtEnd(t *testing.T) {
	l := NewList()
	l.SetSize(40, 5)
	rows := []Row{{ID: "1", Text: "one"}, {ID: "2", Text: "two"}}

	out := l.View(rows, "end of list")
	if !strings.Contains(out, "one") || !strings.Contains(out, "two") {
		t.Fatalf("rows missing from view:\n%s", out)
	}
	if !strings.Contains(out, "end of list") {
		t.Fatalf("footer missing from view:\n%s", out)
	}
	if got := strings.Count(out, "\n") + 1; got != 5 {
		t.Fatalf("lines = %d, want 5", got)
	}
}

func TestList_SelectModeMarksRows(t *testing.T) {
	l := NewList()
	l.SetSize(40, 2)
	l.SetSelectMode(true)

	out := l.View([]Row{{ID: "1", Text: "one", Marked: true}, {ID: "2", Text: "two"}}, "")
	if !strings.Contains(out, "[x]") || !strings.Contains(out, "[ ]") {
		t.Fatalf("checkboxes missing:\n%s", out)
	}
}
