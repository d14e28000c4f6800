package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"editcore/buffer"
)

// StatusBar is the mode line printed under a buffer.
type StatusBar struct {
	Name     string
	Modified bool
	Line     int // 1-based
	Col      int // 0-based, in characters
	Point    int
	Mark     int // -1 when unset
	RingLen  int
}

// NewStatusBar describes b. ringLen is the kill ring length.
func NewStatusBar(b *buffer.Buffer, ringLen int) *StatusBar {
	s := &StatusBar{
		Name:     b.Name,
		Modified: b.Modified(),
		Line:     b.LineNumber(),
		Col:      b.Column(),
		Point:    b.Point(),
		Mark:     -1,
		RingLen:  ringLen,
	}
	if m, ok := b.Mark(); ok {
		s.Mark = m
	}
	return s
}

// String lays the bar out in width columns: flags and name on the left,
// position info right-aligned. The name is truncated when both do not fit.
func (s *StatusBar) String(width int) string {
	flags := "--"
	if s.Modified {
		flags = "**"
	}
	name := s.Name
	if name == "" {
		name = "untitled"
	}
	left := fmt.Sprintf("-%s- %s ", flags, name)

	mark := "-"
	if s.Mark >= 0 {
		mark = fmt.Sprint(s.Mark)
	}
	right := fmt.Sprintf(" Ln %d, Col %d | Pt %d | Mk %s | Ring %d ", s.Line, s.Col, s.Point, mark, s.RingLen)

	if width <= 0 {
		return left + right
	}
	rw := runewidth.StringWidth(right)
	if rw >= width {
		return runewidth.Truncate(right, width, "")
	}
	left = runewidth.Truncate(left, width-rw, "$")
	pad := width - rw - runewidth.StringWidth(left)
	return left + strings.Repeat("-", pad) + right
}
