package editor

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"editcore/buffer"
)

// Window is told when a command may have moved point out of view.
type Window interface {
	RecenterIfNeeded(b *buffer.Buffer)
}

// View is a line-oriented viewport onto a buffer. ScrollY is the first
// visible line, counting from 0.
type View struct {
	Height  int
	Width   int
	TabSize int
	ScrollY int
	ScrollX int
}

func NewView(width, height int) *View {
	return &View{Width: width, Height: height, TabSize: 4}
}

// Visible reports whether line (0-based) is on screen.
func (v *View) Visible(line int) bool {
	return line >= v.ScrollY && line < v.ScrollY+v.Height
}

// RecenterIfNeeded puts point's line in the middle of the view when it has
// scrolled off, and scrolls horizontally to keep point's column in view.
func (v *View) RecenterIfNeeded(b *buffer.Buffer) {
	line := b.LineNumber() - 1
	if !v.Visible(line) {
		v.ScrollY = max(0, line-v.Height/2)
	}
	if v.Width <= 0 {
		return
	}
	col := v.cursorColumn(b)
	if col < v.ScrollX {
		v.ScrollX = col
	} else if col >= v.ScrollX+v.Width {
		v.ScrollX = col - v.Width + 1
	}
}

// Lines returns the visible lines of b.
func (v *View) Lines(b *buffer.Buffer) []string {
	lines := strings.Split(b.Text(), "\n")
	start := min(v.ScrollY, len(lines))
	end := min(start+v.Height, len(lines))
	return lines[start:end]
}

// Cursor returns point's screen position relative to the view's top-left
// corner, with tabs expanded and wide characters counted twice.
func (v *View) Cursor(b *buffer.Buffer) (x, y int) {
	return v.cursorColumn(b) - v.ScrollX, b.LineNumber() - 1 - v.ScrollY
}

// Render writes the visible lines, clipped to the view's columns with tabs
// expanded, and marks point with a caret on the line below its own.
func (v *View) Render(w io.Writer, b *buffer.Buffer) error {
	x, y := v.Cursor(b)
	for i, line := range v.Lines(b) {
		if _, err := fmt.Fprintln(w, v.clip(line)); err != nil {
			return err
		}
		if i == y {
			if _, err := fmt.Fprintln(w, strings.Repeat(" ", max(0, x))+"^"); err != nil {
				return err
			}
		}
	}
	return nil
}

// clip expands tabs and cuts line to the columns [ScrollX, ScrollX+Width).
func (v *View) clip(line string) string {
	var sb strings.Builder
	col := 0
	for _, r := range line {
		width := runewidth.RuneWidth(r)
		text := string(r)
		if r == '\t' {
			width = v.tabSize() - col%v.tabSize()
			text = strings.Repeat(" ", width)
		}
		if col >= v.ScrollX && (v.Width <= 0 || col+width <= v.ScrollX+v.Width) {
			sb.WriteString(text)
		}
		col += width
	}
	return sb.String()
}

func (v *View) cursorColumn(b *buffer.Buffer) int {
	start := b.Point() - b.Column()
	return displayColumn(b.Substring(start, b.Point()), b.Column(), v.tabSize())
}

func (v *View) tabSize() int {
	if v.TabSize <= 0 {
		return 4
	}
	return v.TabSize
}

// displayColumn converts a rune column to a display column.
func displayColumn(line string, col int, tabSize int) int {
	display := 0
	for i, r := range []rune(line) {
		if i >= col {
			break
		}
		if r == '\t' {
			display += tabSize - (display % tabSize)
		} else {
			display += runewidth.RuneWidth(r)
		}
	}
	return display
}
