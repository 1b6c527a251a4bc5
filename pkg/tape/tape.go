// Package tape provides the unbounded two-way tape used by the Turing machine engine.
//
// The tape is backed by two slices: front holds prepended cells in reverse order
// and back holds the initial cells followed by appended ones. Growth at either end
// is amortised O(1) and memory stays proportional to the furthest excursion of
// the head, never to the number of steps taken.
package tape

// Tape is a lazily extending sequence of symbols with a single head.
// The head is always inside [0, Len()).
type Tape[Y any] struct {
	blank Y
	front []Y // reversed: front[0] is the cell just before back[0]
	back  []Y
	head  int
}

// New creates a tape holding cells with the head on the first one.
// An empty cells list yields a tape with a single blank cell.
func New[Y any](blank Y, cells ...Y) *Tape[Y] {
	back := make([]Y, len(cells), max(len(cells), 1))
	copy(back, cells)
	if len(back) == 0 {
		back = append(back, blank)
	}
	return &Tape[Y]{blank: blank, back: back}
}

// Restore rebuilds a tape from its cells, head index and prepend offset.
// The caller guarantees 0 <= head < len(cells) and 0 <= offset <= len(cells).
func Restore[Y any](blank Y, cells []Y, head, offset int) *Tape[Y] {
	t := &Tape[Y]{blank: blank, head: head}
	t.front = make([]Y, offset)
	for i := 0; i < offset; i++ {
		t.front[i] = cells[offset-1-i]
	}
	t.back = append([]Y(nil), cells[offset:]...)
	return t
}

// Blank returns the symbol used to fill new cells.
func (t *Tape[Y]) Blank() Y {
	return t.blank
}

// Len returns the number of cells currently materialised.
func (t *Tape[Y]) Len() int {
	return len(t.front) + len(t.back)
}

// Head returns the head index into Cells().
func (t *Tape[Y]) Head() int {
	return t.head
}

// Offset returns how many cells have been prepended.
func (t *Tape[Y]) Offset() int {
	return len(t.front)
}

// Position returns the logical head position relative to the first initial cell.
func (t *Tape[Y]) Position() int {
	return t.head - len(t.front)
}

// At returns the symbol at index i. It panics when i is out of range.
func (t *Tape[Y]) At(i int) Y {
	return *t.cell(i)
}

// Read returns the symbol under the head.
func (t *Tape[Y]) Read() Y {
	return *t.cell(t.head)
}

// Write replaces the symbol under the head.
func (t *Tape[Y]) Write(sym Y) {
	*t.cell(t.head) = sym
}

// MoveLeft moves the head one cell left. At index 0 it prepends a blank cell
// instead, leaving the head at 0 on the new cell, and reports true.
func (t *Tape[Y]) MoveLeft() (extended bool) {
	if t.head == 0 {
		t.front = append(t.front, t.blank)
		return true
	}
	t.head--
	return false
}

// MoveRight moves the head one cell right, appending a blank cell when the head
// would otherwise fall off the end, and reports whether it did.
func (t *Tape[Y]) MoveRight() (extended bool) {
	t.head++
	if t.head == t.Len() {
		t.back = append(t.back, t.blank)
		return true
	}
	return false
}

// Cells returns a copy of the tape contents, leftmost cell first.
func (t *Tape[Y]) Cells() []Y {
	out := make([]Y, 0, t.Len())
	for i := len(t.front) - 1; i >= 0; i-- {
		out = append(out, t.front[i])
	}
	return append(out, t.back...)
}

func (t *Tape[Y]) cell(i int) *Y {
	if i < len(t.front) {
		return &t.front[len(t.front)-1-i]
	}
	return &t.back[i-len(t.front)]
}
