package buffer

// Region is the half-open span [Start, End) between point and the top mark.
type Region struct {
	Start, End int
}

func NewRegion(a, b int) Region {
	if a <= b {
		return Region{Start: a, End: b}
	}
	return Region{Start: b, End: a}
}

func (r Region) Contains(off int) bool {
	return off >= r.Start && off < r.End
}

func (r Region) Empty() bool {
	return r.Start == r.End
}

func (r Region) Len() int {
	return r.End - r.Start
}

// PushMark saves point on the mark stack.
func (b *Buffer) PushMark() {
	b.marks = append(b.marks, b.point)
}

// PopMark discards the top mark. An empty stack is left alone.
func (b *Buffer) PopMark() {
	if len(b.marks) == 0 {
		return
	}
	b.marks = b.marks[:len(b.marks)-1]
}

// PopToMark pops the top mark and moves point to it.
func (b *Buffer) PopToMark() {
	m, ok := b.Mark()
	if !ok {
		return
	}
	b.PopMark()
	b.setPoint(m)
}

// ExchangePointAndMark swaps point with the top mark.
func (b *Buffer) ExchangePointAndMark() {
	m, ok := b.Mark()
	if !ok {
		return
	}
	b.marks[len(b.marks)-1] = b.point
	b.setPoint(m)
}

// Mark returns the most recently pushed mark.
func (b *Buffer) Mark() (int, bool) {
	if len(b.marks) == 0 {
		return 0, false
	}
	return b.marks[len(b.marks)-1], true
}

func (b *Buffer) MarkCount() int { return len(b.marks) }

// Marks returns a copy of the mark stack, oldest first.
func (b *Buffer) Marks() []int {
	return append([]int(nil), b.marks...)
}

// RestoreMarks replaces the mark stack, clamping every offset.
func (b *Buffer) RestoreMarks(marks []int) {
	b.marks = b.marks[:0]
	for _, m := range marks {
		b.marks = append(b.marks, b.clamp(m))
	}
}

// Region returns the span between point and the top mark.
func (b *Buffer) Region() (Region, bool) {
	m, ok := b.Mark()
	if !ok {
		return Region{}, false
	}
	return NewRegion(b.point, m), true
}
