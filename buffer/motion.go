package buffer

import (
	"strings"
	"unicode"
)

// GotoChar moves point to off, clamped to the buffer.
func (b *Buffer) GotoChar(off int) {
	b.setPoint(off)
}

// ForwardChar moves point n characters forward, or backward for negative n.
func (b *Buffer) ForwardChar(n int) {
	b.setPoint(b.point + n)
}

func (b *Buffer) BackwardChar(n int) {
	b.ForwardChar(-n)
}

func (b *Buffer) BeginningOfBuffer() { b.setPoint(0) }

func (b *Buffer) EndOfBuffer() { b.setPoint(b.Len()) }

func (b *Buffer) BeginningOfLine() { b.setPoint(b.lineStart(b.point)) }

func (b *Buffer) EndOfLine() { b.setPoint(b.lineEnd(b.point)) }

func (b *Buffer) IsBeginningOfBuffer() bool { return b.point == 0 }

func (b *Buffer) IsEndOfBuffer() bool { return b.point == b.Len() }

func (b *Buffer) IsBeginningOfLine() bool { return b.point == b.lineStart(b.point) }

func (b *Buffer) IsEndOfLine() bool { return b.point == b.lineEnd(b.point) }

// ForwardWord moves point past the end of the next n words. Negative n moves
// backward.
func (b *Buffer) ForwardWord(n int) {
	if n < 0 {
		b.BackwardWord(-n)
		return
	}
	b.setPoint(b.wordEnd(b.point, n))
}

// BackwardWord moves point to the start of the previous n words. Negative n
// moves forward.
func (b *Buffer) BackwardWord(n int) {
	if n < 0 {
		b.ForwardWord(-n)
		return
	}
	pos := b.point
	for ; n > 0 && pos > 0; n-- {
		for pos > 0 && !b.isWord(b.text.At(pos-1)) {
			pos--
		}
		for pos > 0 && b.isWord(b.text.At(pos-1)) {
			pos--
		}
	}
	b.setPoint(pos)
}

// NextLine moves point n lines down, keeping its column. A shorter target
// line puts point at that line's end; the original column is remembered for
// the next line motion. Negative n moves up.
func (b *Buffer) NextLine(n int) {
	col := b.goal
	if col < 0 {
		col = b.Column()
	}
	pos := b.lineStart(b.point)
	for ; n > 0; n-- {
		end := b.lineEnd(pos)
		if end >= b.Len() {
			break
		}
		pos = end + 1
	}
	for ; n < 0 && pos > 0; n++ {
		pos = b.lineStart(pos - 1)
	}
	b.point = min(pos+col, b.lineEnd(pos))
	b.goal = col
}

func (b *Buffer) PreviousLine(n int) {
	b.NextLine(-n)
}

// GotoLine moves point to the start of line n, counting from 1. Lines past
// the end put point at the end of the buffer.
func (b *Buffer) GotoLine(n int) {
	pos := 0
	for line := 1; line < n; line++ {
		end := b.lineEnd(pos)
		if end >= b.Len() {
			pos = b.Len()
			break
		}
		pos = end + 1
	}
	b.setPoint(pos)
}

// LineNumber returns the 1-based line point is on.
func (b *Buffer) LineNumber() int {
	line := 1
	for i := 0; i < b.point; i++ {
		if b.text.At(i) == '\n' {
			line++
		}
	}
	return line
}

// Column returns point's offset in characters from the start of its line.
func (b *Buffer) Column() int {
	return b.point - b.lineStart(b.point)
}

// LineCount returns the number of lines; an empty buffer has one.
func (b *Buffer) LineCount() int {
	lines := 1
	for i := 0; i < b.Len(); i++ {
		if b.text.At(i) == '\n' {
			lines++
		}
	}
	return lines
}

// SkipBackward moves point back over the characters matching pred.
func (b *Buffer) SkipBackward(pred func(rune) bool) {
	pos := b.point
	for pos > 0 && pred(b.text.At(pos-1)) {
		pos--
	}
	b.setPoint(pos)
}

// SkipForward moves point forward over the characters matching pred.
func (b *Buffer) SkipForward(pred func(rune) bool) {
	pos := b.point
	for pos < b.Len() && pred(b.text.At(pos)) {
		pos++
	}
	b.setPoint(pos)
}

// TransposeChars swaps the characters around point and moves point past
// both. It does nothing at either end of the buffer.
func (b *Buffer) TransposeChars() {
	p := b.point
	if p == 0 || p >= b.Len() {
		return
	}
	swapped := string([]rune{b.text.At(p), b.text.At(p - 1)})
	_ = b.UndoGroup(func() error {
		b.DeleteRegion(p-1, p+1)
		b.Insert(swapped, false)
		return nil
	})
}

// Newline breaks the line at point and carries over the current line's
// indentation up to point.
func (b *Buffer) Newline() {
	start := b.lineStart(b.point)
	indent := start
	for indent < b.point && isBlank(b.text.At(indent)) {
		indent++
	}
	b.Insert("\n"+string(b.text.Slice(start, indent)), false)
}

func (b *Buffer) setPoint(off int) {
	b.point = b.clamp(off)
	b.goal = -1
}

func (b *Buffer) lineStart(pos int) int {
	for pos > 0 && b.text.At(pos-1) != '\n' {
		pos--
	}
	return pos
}

func (b *Buffer) lineEnd(pos int) int {
	n := b.Len()
	for pos < n && b.text.At(pos) != '\n' {
		pos++
	}
	return pos
}

// wordEnd returns the offset reached by skipping n words forward from pos.
func (b *Buffer) wordEnd(pos, n int) int {
	size := b.Len()
	for ; n > 0 && pos < size; n-- {
		for pos < size && !b.isWord(b.text.At(pos)) {
			pos++
		}
		for pos < size && b.isWord(b.text.At(pos)) {
			pos++
		}
	}
	return pos
}

func (b *Buffer) isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(b.wordChars, r)
}

func isBlank(r rune) bool { return r == ' ' || r == '\t' }
