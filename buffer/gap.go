package buffer

const minGap = 64

// gapBuffer stores runes with a movable gap at the last edit position, so
// consecutive edits at the same place cost O(edit size) and moving the gap
// costs O(distance moved).
type gapBuffer struct {
	data  []rune
	start int // first rune of the gap
	end   int // first rune after the gap
}

func newGapBuffer(s string) *gapBuffer {
	rs := []rune(s)
	data := make([]rune, len(rs)+minGap)
	copy(data, rs)
	return &gapBuffer{
		data:  data,
		start: len(rs),
		end:   len(data),
	}
}

func (g *gapBuffer) Len() int {
	return len(g.data) - (g.end - g.start)
}

// At returns the rune at offset i. The caller guarantees 0 <= i < Len().
func (g *gapBuffer) At(i int) rune {
	if i < g.start {
		return g.data[i]
	}
	return g.data[i+g.end-g.start]
}

func (g *gapBuffer) Insert(pos int, rs []rune) {
	if len(rs) == 0 {
		return
	}
	g.moveGap(pos)
	g.grow(len(rs))
	copy(g.data[g.start:], rs)
	g.start += len(rs)
}

// Delete removes [from, to). The caller guarantees 0 <= from <= to <= Len().
func (g *gapBuffer) Delete(from, to int) {
	if from >= to {
		return
	}
	g.moveGap(from)
	g.end += to - from
}

func (g *gapBuffer) Slice(from, to int) []rune {
	if from >= to {
		return nil
	}
	out := make([]rune, 0, to-from)
	if from < g.start {
		out = append(out, g.data[from:min(to, g.start)]...)
	}
	if to > g.start {
		gap := g.end - g.start
		out = append(out, g.data[max(from, g.start)+gap:to+gap]...)
	}
	return out
}

func (g *gapBuffer) String() string {
	return string(g.data[:g.start]) + string(g.data[g.end:])
}

func (g *gapBuffer) moveGap(pos int) {
	switch {
	case pos < g.start:
		n := g.start - pos
		copy(g.data[g.end-n:g.end], g.data[pos:g.start])
		g.start -= n
		g.end -= n
	case pos > g.start:
		n := pos - g.start
		copy(g.data[g.start:g.start+n], g.data[g.end:g.end+n])
		g.start += n
		g.end += n
	}
}

func (g *gapBuffer) grow(n int) {
	if g.end-g.start >= n {
		return
	}
	size := max(2*len(g.data), len(g.data)+n+minGap)
	data := make([]rune, size)
	copy(data, g.data[:g.start])
	tail := len(g.data) - g.end
	copy(data[size-tail:], g.data[g.end:])
	g.data = data
	g.end = size - tail
}
