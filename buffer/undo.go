package buffer

import (
	"strings"
	"unicode/utf8"
)

// EntryKind names the operation an undo entry performs when applied.
type EntryKind int

const (
	// EntryInsert re-inserts Text at Offset (recorded by deletions).
	EntryInsert EntryKind = iota
	// EntryDelete removes Text from Offset (recorded by insertions).
	EntryDelete
)

func (k EntryKind) String() string {
	if k == EntryInsert {
		return "insert"
	}
	return "delete"
}

// Entry is one reversible step in the undo or redo log. Applying it performs
// Kind at Offset and leaves point at Point.
type Entry struct {
	Kind      EntryKind
	Offset    int
	Text      string
	Mergeable bool
	Point     int
	Group     int // entries sharing a non-zero group undo as one unit
}

func (e Entry) runeLen() int { return utf8.RuneCountInString(e.Text) }

const DefaultUndoLimit = 1000

// UndoStack holds the linear undo and redo logs of one buffer.
type UndoStack struct {
	undos     []Entry
	redos     []Entry
	limit     int
	nextGroup int // next group ID to assign
	openGroup int // group receiving pushes while UndoGroup runs
}

func NewUndoStack(limit int) *UndoStack {
	if limit <= 0 {
		limit = DefaultUndoLimit
	}
	return &UndoStack{limit: limit, nextGroup: 1}
}

func (u *UndoStack) CanUndo() bool { return len(u.undos) > 0 }
func (u *UndoStack) CanRedo() bool { return len(u.redos) > 0 }

// Entries returns a copy of the undo log, oldest first.
func (u *UndoStack) Entries() []Entry {
	return append([]Entry(nil), u.undos...)
}

// RedoEntries returns a copy of the redo log, oldest first.
func (u *UndoStack) RedoEntries() []Entry {
	return append([]Entry(nil), u.redos...)
}

// SetLimit changes how many entries the undo log keeps.
func (u *UndoStack) SetLimit(limit int) {
	if limit <= 0 {
		limit = DefaultUndoLimit
	}
	u.limit = limit
	u.trim()
}

// push records a fresh edit. A fresh edit ends any redo history.
func (u *UndoStack) push(e Entry) {
	e.Group = u.openGroup
	if e.Group != 0 {
		e.Mergeable = false
	}
	u.undos = append(u.undos, e)
	u.redos = u.redos[:0]
	if u.openGroup == 0 {
		u.trim()
	}
}

// merge extends the newest entry with text inserted at offset when that
// entry is a mergeable insertion ending exactly at offset.
func (u *UndoStack) merge(offset int, text string) bool {
	if len(u.undos) == 0 || u.openGroup != 0 {
		return false
	}
	prev := &u.undos[len(u.undos)-1]
	if prev.Kind != EntryDelete || !prev.Mergeable || prev.Group != 0 {
		return false
	}
	if prev.Offset+prev.runeLen() != offset {
		return false
	}
	var sb strings.Builder
	sb.WriteString(prev.Text)
	sb.WriteString(text)
	prev.Text = sb.String()
	u.redos = u.redos[:0]
	return true
}

// popUnit removes the newest entry of log together with every entry of the
// same group, returning them newest first.
func popUnit(log *[]Entry) []Entry {
	entries := *log
	if len(entries) == 0 {
		return nil
	}
	i := len(entries) - 1
	group := entries[i].Group
	if group != 0 {
		for i > 0 && entries[i-1].Group == group {
			i--
		}
	}
	unit := make([]Entry, 0, len(entries)-i)
	for j := len(entries) - 1; j >= i; j-- {
		unit = append(unit, entries[j])
	}
	*log = entries[:i]
	return unit
}

func (u *UndoStack) beginGroup() (int, bool) {
	if u.openGroup != 0 {
		return u.openGroup, false
	}
	id := u.nextGroup
	u.nextGroup++
	u.openGroup = id
	return id, true
}

func (u *UndoStack) endGroup() {
	u.openGroup = 0
	u.trim()
}

// trim drops the oldest entries beyond the limit without splitting a group.
func (u *UndoStack) trim() {
	excess := len(u.undos) - u.limit
	if excess <= 0 {
		return
	}
	cut := excess
	for cut < len(u.undos) && u.undos[cut].Group != 0 && u.undos[cut].Group == u.undos[cut-1].Group {
		cut++
	}
	u.undos = append(u.undos[:0], u.undos[cut:]...)
}
