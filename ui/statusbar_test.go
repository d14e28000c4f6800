package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"editcore/buffer"
)

func TestStatusBarDescribesBuffer(t *testing.T) {
	b := buffer.New("notes.txt", "one\ntwo", buffer.Options{})
	b.GotoChar(1)
	b.PushMark()
	b.GotoChar(5)
	b.Insert("x", false)

	sb := NewStatusBar(b, 3)
	if sb.Line != 2 || sb.Col != 2 || sb.Point != 6 || sb.Mark != 1 {
		t.Fatalf("unexpected position: %+v", sb)
	}
	if !sb.Modified {
		t.Fatalf("expected modified buffer")
	}

	got := sb.String(0)
	want := "-**- notes.txt  Ln 2, Col 2 | Pt 6 | Mk 1 | Ring 3 "
	if got != want {
		t.Fatalf("String(0) = %q, want %q", got, want)
	}
}

func TestStatusBarPadsToWidth(t *testing.T) {
	sb := &StatusBar{Name: "a", Line: 1, Mark: -1}
	got := sb.String(60)
	if w := runewidth.StringWidth(got); w != 60 {
		t.Fatalf("width = %d, want 60: %q", w, got)
	}
	if !strings.HasPrefix(got, "---- a -") || !strings.Contains(got, "Mk -") {
		t.Fatalf("unexpected layout: %q", got)
	}
}

func TestStatusBarTruncatesName(t *testing.T) {
	sb := &StatusBar{Name: strings.Repeat("long", 10), Mark: -1}
	got := sb.String(45)
	if w := runewidth.StringWidth(got); w != 45 {
		t.Fatalf("width = %d, want 45: %q", w, got)
	}
	if !strings.HasSuffix(got, " Ring 0 ") || !strings.Contains(got, "$") {
		t.Fatalf("unexpected layout: %q", got)
	}
}
