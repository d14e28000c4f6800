package buffer

import (
	"errors"
	"testing"
)

func TestUndoMergedSelfInsertIsOneEntry(t *testing.T) {
	b := New("t", "", Options{})
	b.Insert("a", false)
	b.Insert("a", true)
	b.Insert("a", true)

	if got := len(b.UndoEntries()); got != 1 {
		t.Fatalf("expected 1 undo entry, got %d", got)
	}
	if err := b.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := b.Text(); got != "" {
		t.Fatalf("expected empty buffer after undo, got %q", got)
	}
	if b.Point() != 0 {
		t.Fatalf("expected point 0, got %d", b.Point())
	}
}

func TestUndoDoesNotMergeAcrossMotion(t *testing.T) {
	b := New("t", "xy", Options{})
	b.Insert("a", false)
	b.ForwardChar(1)
	b.Insert("b", true)

	if got := len(b.UndoEntries()); got != 2 {
		t.Fatalf("expected 2 undo entries, got %d", got)
	}
	if err := b.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := b.Text(); got != "axy" {
		t.Fatalf("expected axy, got %q", got)
	}
}

func TestUndoRedoDeleteRegion(t *testing.T) {
	b := New("t", "hello world", Options{})
	b.GotoChar(8)
	b.DeleteRegion(2, 7)
	if got := b.Text(); got != "heorld" {
		t.Fatalf("expected heorld, got %q", got)
	}
	if b.Point() != 3 {
		t.Fatalf("expected point 3 after delete, got %d", b.Point())
	}

	if err := b.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := b.Text(); got != "hello world" {
		t.Fatalf("expected hello world after undo, got %q", got)
	}
	if b.Point() != 8 {
		t.Fatalf("expected point 8 after undo, got %d", b.Point())
	}

	if err := b.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got := b.Text(); got != "heorld" {
		t.Fatalf("expected heorld after redo, got %q", got)
	}
	if b.Point() != 3 {
		t.Fatalf("expected point 3 after redo, got %d", b.Point())
	}
}

func TestUndoEmptyLogs(t *testing.T) {
	b := New("t", "abc", Options{})
	if err := b.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
	if err := b.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("expected ErrNothingToRedo, got %v", err)
	}
	if KindOf(ErrNothingToUndo) != KindHistory {
		t.Fatalf("expected history kind")
	}
}

func TestEditClearsRedo(t *testing.T) {
	b := New("t", "", Options{})
	b.Insert("abc", false)
	if err := b.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !b.CanRedo() {
		t.Fatalf("expected redo to be available")
	}
	b.Insert("x", false)
	if b.CanRedo() {
		t.Fatalf("expected a fresh edit to clear redo")
	}
}

func TestUndoGroupRevertsAsUnit(t *testing.T) {
	b := New("t", "abcd", Options{})
	b.GotoChar(2)
	b.TransposeChars()
	if got := b.Text(); got != "acbd" {
		t.Fatalf("expected acbd, got %q", got)
	}
	if b.Point() != 3 {
		t.Fatalf("expected point 3, got %d", b.Point())
	}
	if err := b.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := b.Text(); got != "abcd" {
		t.Fatalf("expected abcd after one undo, got %q", got)
	}
	if b.Point() != 2 {
		t.Fatalf("expected point 2 after undo, got %d", b.Point())
	}
	if b.CanUndo() {
		t.Fatalf("expected the transpose to be a single undo unit")
	}
	if err := b.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got := b.Text(); got != "acbd" {
		t.Fatalf("expected acbd after redo, got %q", got)
	}
}

func TestUndoGroupNeverMerges(t *testing.T) {
	b := New("t", "", Options{})
	b.Insert("a", false)
	_ = b.UndoGroup(func() error {
		b.Insert("b", true)
		b.Insert("c", true)
		return nil
	})
	if got := len(b.UndoEntries()); got != 3 {
		t.Fatalf("expected 3 entries, got %d", got)
	}
	if err := b.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := b.Text(); got != "a" {
		t.Fatalf("expected a, got %q", got)
	}
}

func TestUndoGroupKeepsEditsOnError(t *testing.T) {
	b := New("t", "", Options{})
	boom := errors.New("boom")
	err := b.UndoGroup(func() error {
		b.Insert("ab", false)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got := b.Text(); got != "ab" {
		t.Fatalf("expected partial edit to stay, got %q", got)
	}
}

func TestUndoLimitDropsOldest(t *testing.T) {
	b := New("t", "", Options{UndoLimit: 3})
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		b.Insert(s, false)
	}
	if got := len(b.UndoEntries()); got != 3 {
		t.Fatalf("expected 3 entries, got %d", got)
	}
	for b.CanUndo() {
		if err := b.Undo(); err != nil {
			t.Fatalf("undo: %v", err)
		}
	}
	if got := b.Text(); got != "ab" {
		t.Fatalf("expected ab once history is exhausted, got %q", got)
	}
}

func TestUndoLimitKeepsGroupsWhole(t *testing.T) {
	u := NewUndoStack(2)
	u.push(Entry{Kind: EntryDelete, Text: "a"})
	u.beginGroup()
	u.push(Entry{Kind: EntryInsert, Text: "b"})
	u.push(Entry{Kind: EntryDelete, Text: "c"})
	u.endGroup()
	u.push(Entry{Kind: EntryDelete, Text: "d"})

	entries := u.Entries()
	if len(entries) != 1 || entries[0].Text != "d" {
		t.Fatalf("expected only the trailing entry to survive, got %+v", entries)
	}
}
