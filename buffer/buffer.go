package buffer

import (
	"fmt"
	"unicode/utf8"

	"editcore/killring"
)

// EditKind tags the most recent mutating operation on a buffer.
type EditKind int

const (
	EditNone EditKind = iota
	EditInsert
	EditDelete
	EditUndo
	EditRedo
	EditYank
)

var editNames = [...]string{"none", "insert", "delete", "undo", "redo", "yank"}

func (k EditKind) String() string {
	if k < 0 || int(k) >= len(editNames) {
		return fmt.Sprintf("EditKind(%d)", int(k))
	}
	return editNames[k]
}

type Options struct {
	// Ring is the kill ring shared by every buffer of a session. A buffer
	// created without one gets a private ring.
	Ring *killring.Ring
	// WordChars lists characters counted as word constituents in addition
	// to letters and digits.
	WordChars string
	UndoLimit int
}

// Buffer is an editable run of text with a point, a mark stack and an
// undo/redo history. Offsets are in runes. A Buffer is not safe for
// concurrent use.
type Buffer struct {
	Name    string
	History *UndoStack

	text     *gapBuffer
	point    int
	marks    []int
	ring     *killring.Ring
	modified bool

	wordChars string
	// goal is the column consecutive line motions aim for, -1 when unset.
	goal int

	lastEdit EditKind
	// yankStart and yankEnd bound the text inserted by the last yank while
	// lastEdit is EditYank.
	yankStart, yankEnd int
}

func New(name, text string, opt Options) *Buffer {
	if opt.Ring == nil {
		opt.Ring = killring.New(killring.DefaultCapacity)
	}
	return &Buffer{
		Name:      name,
		History:   NewUndoStack(opt.UndoLimit),
		text:      newGapBuffer(text),
		ring:      opt.Ring,
		wordChars: opt.WordChars,
		goal:      -1,
	}
}

func (b *Buffer) Text() string { return b.text.String() }

func (b *Buffer) Len() int { return b.text.Len() }

func (b *Buffer) Point() int { return b.point }

func (b *Buffer) KillRing() *killring.Ring { return b.ring }

func (b *Buffer) LastEdit() EditKind { return b.lastEdit }

func (b *Buffer) Modified() bool { return b.modified }

func (b *Buffer) SetModified(modified bool) { b.modified = modified }

func (b *Buffer) SetWordChars(chars string) { b.wordChars = chars }

// Substring returns the text in [min(from,to), max(from,to)), clamped.
func (b *Buffer) Substring(from, to int) string {
	from, to = b.orderedRange(from, to)
	return string(b.text.Slice(from, to))
}

// CharAfter returns the rune at point; ok is false at the end of the buffer.
func (b *Buffer) CharAfter() (r rune, ok bool) {
	if b.point >= b.Len() {
		return 0, false
	}
	return b.text.At(b.point), true
}

// CharBefore returns the rune before point; ok is false at the start.
func (b *Buffer) CharBefore() (r rune, ok bool) {
	if b.point == 0 {
		return 0, false
	}
	return b.text.At(b.point - 1), true
}

// Insert inserts text at point and leaves point after it. With mergeUndo the
// insertion joins the previous undo entry when that entry is an insertion
// ending exactly here, so a run of typing undoes as one unit.
func (b *Buffer) Insert(text string, mergeUndo bool) {
	if text == "" {
		return
	}
	at := b.point
	if !mergeUndo || !b.History.merge(at, text) {
		b.History.push(Entry{Kind: EntryDelete, Offset: at, Text: text, Mergeable: true, Point: at})
	}
	b.insertAt(at, []rune(text))
	b.point = at + utf8.RuneCountInString(text)
	b.goal = -1
	b.lastEdit = EditInsert
}

// DeleteRegion removes [min(from,to), max(from,to)). Point and marks inside
// the removed span move to its start; those after it shift left.
func (b *Buffer) DeleteRegion(from, to int) {
	from, to = b.orderedRange(from, to)
	if from == to {
		return
	}
	removed := string(b.text.Slice(from, to))
	b.History.push(Entry{Kind: EntryInsert, Offset: from, Text: removed, Point: b.point})
	b.deleteRange(from, to)
	b.goal = -1
	b.lastEdit = EditDelete
}

// DeleteChar deletes n characters after point, or before it when n is
// negative.
func (b *Buffer) DeleteChar(n int) {
	b.DeleteRegion(b.point, b.clamp(b.point+n))
}

func (b *Buffer) BackwardDeleteChar(n int) {
	b.DeleteChar(-n)
}

// Undo reverts the newest undo unit and makes it available to Redo.
func (b *Buffer) Undo() error {
	unit := popUnit(&b.History.undos)
	if unit == nil {
		return ErrNothingToUndo
	}
	for _, e := range unit {
		b.History.redos = append(b.History.redos, b.apply(e))
	}
	b.lastEdit = EditUndo
	return nil
}

// Redo reapplies the unit most recently reverted by Undo.
func (b *Buffer) Redo() error {
	unit := popUnit(&b.History.redos)
	if unit == nil {
		return ErrNothingToRedo
	}
	for _, e := range unit {
		b.History.undos = append(b.History.undos, b.apply(e))
	}
	b.lastEdit = EditRedo
	return nil
}

func (b *Buffer) CanUndo() bool { return b.History.CanUndo() }

func (b *Buffer) CanRedo() bool { return b.History.CanRedo() }

// UndoEntries returns a copy of the undo log, oldest first.
func (b *Buffer) UndoEntries() []Entry { return b.History.Entries() }

// UndoGroup runs fn and makes every edit it records a single undo unit.
// Edits made before an error are kept; nothing is rolled back.
func (b *Buffer) UndoGroup(fn func() error) error {
	if _, outer := b.History.beginGroup(); outer {
		defer b.History.endGroup()
	}
	return fn()
}

// apply performs e without recording it and returns the entry that reverts
// it.
func (b *Buffer) apply(e Entry) Entry {
	inverse := Entry{Offset: e.Offset, Text: e.Text, Mergeable: e.Mergeable, Point: b.point, Group: e.Group}
	switch e.Kind {
	case EntryInsert:
		inverse.Kind = EntryDelete
		b.insertAt(e.Offset, []rune(e.Text))
	case EntryDelete:
		inverse.Kind = EntryInsert
		b.deleteRange(e.Offset, e.Offset+e.runeLen())
	}
	b.point = b.clamp(e.Point)
	b.goal = -1
	return inverse
}

// insertAt is the raw insertion primitive. Marks and point strictly after pos
// shift right; those at pos stay put.
func (b *Buffer) insertAt(pos int, rs []rune) {
	pos = b.clamp(pos)
	b.text.Insert(pos, rs)
	n := len(rs)
	if b.point > pos {
		b.point += n
	}
	for i, m := range b.marks {
		if m > pos {
			b.marks[i] = m + n
		}
	}
	b.modified = true
}

// deleteRange is the raw deletion primitive for an ordered, in-bounds range.
func (b *Buffer) deleteRange(from, to int) {
	to = b.clamp(to)
	if from >= to {
		return
	}
	b.text.Delete(from, to)
	b.point = relocate(b.point, from, to)
	for i, m := range b.marks {
		b.marks[i] = relocate(m, from, to)
	}
	b.modified = true
}

func relocate(off, from, to int) int {
	switch {
	case off >= to:
		return off - (to - from)
	case off > from:
		return from
	default:
		return off
	}
}

func (b *Buffer) clamp(off int) int {
	if off < 0 {
		return 0
	}
	if n := b.Len(); off > n {
		return n
	}
	return off
}

func (b *Buffer) orderedRange(from, to int) (int, int) {
	from, to = b.clamp(from), b.clamp(to)
	if from > to {
		from, to = to, from
	}
	return from, to
}
