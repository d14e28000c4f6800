package buffer

// CopyRegion pushes the region's text onto the kill ring and leaves the
// buffer untouched.
func (b *Buffer) CopyRegion() error {
	r, ok := b.Region()
	if !ok {
		return ErrNoMark
	}
	b.ring.Push(b.Substring(r.Start, r.End))
	return nil
}

// KillRegion deletes the region and pushes it onto the kill ring.
func (b *Buffer) KillRegion() error {
	r, ok := b.Region()
	if !ok {
		return ErrNoMark
	}
	b.kill(r.Start, r.End, false)
	return nil
}

// KillLine kills from point to the end of the line, or the newline itself
// when point already sits at the end of the line. With appendKill the text
// joins the newest kill ring entry.
func (b *Buffer) KillLine(appendKill bool) {
	if b.point >= b.Len() {
		return
	}
	end := b.lineEnd(b.point)
	if end == b.point {
		end++
	}
	b.kill(b.point, end, appendKill)
}

// KillWord kills from point to the end of the next word.
func (b *Buffer) KillWord(appendKill bool) {
	b.kill(b.point, b.wordEnd(b.point, 1), appendKill)
}

// BackwardKillWord kills from the start of the previous word to point.
func (b *Buffer) BackwardKillWord(appendKill bool) {
	end := b.point
	b.BackwardWord(1)
	start := b.point
	b.point = end
	if start == end {
		return
	}
	text := b.Substring(start, end)
	b.DeleteRegion(start, end)
	if appendKill {
		b.ring.Prepend(text)
	} else {
		b.ring.Push(text)
	}
}

// Yank inserts the kill ring entry under the rotation cursor at point,
// leaving the mark at the start of the inserted text, then moves the cursor
// back to the newest entry.
func (b *Buffer) Yank() error {
	text, err := b.ring.Current()
	if err != nil {
		return ErrEmptyRing
	}
	b.PushMark()
	b.insertYank(text)
	b.ring.Reset()
	return nil
}

// YankPop replaces the text inserted by the previous yank with the next
// older kill ring entry. The swap undoes as one unit.
func (b *Buffer) YankPop() error {
	if b.lastEdit != EditYank {
		return ErrNotAfterYank
	}
	text, err := b.ring.Rotate(1)
	if err != nil {
		return ErrEmptyRing
	}
	start, end := b.yankStart, b.yankEnd
	_ = b.UndoGroup(func() error {
		b.DeleteRegion(start, end)
		b.point = start
		b.insertYank(text)
		return nil
	})
	return nil
}

func (b *Buffer) insertYank(text string) {
	start := b.point
	b.Insert(text, false)
	b.yankStart, b.yankEnd = start, b.point
	b.lastEdit = EditYank
}

func (b *Buffer) kill(from, to int, appendKill bool) {
	from, to = b.orderedRange(from, to)
	if from == to {
		return
	}
	text := b.Substring(from, to)
	b.DeleteRegion(from, to)
	if appendKill {
		b.ring.Append(text)
	} else {
		b.ring.Push(text)
	}
}
