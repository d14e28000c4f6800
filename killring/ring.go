// Package killring implements the process-wide ring of killed text that
// yank and yank-pop draw from.
//
// Entries are kept oldest first. The rotation cursor only moves through
// Rotate; every push or append snaps it back to the newest entry.
package killring

import "errors"

// DefaultCapacity is the number of entries kept before the oldest is evicted.
const DefaultCapacity = 60

// ErrEmpty is returned when an entry is requested from an empty ring.
var ErrEmpty = errors.New("kill ring is empty")

// Clipboard mirrors ring contents to a clipboard owned by another program.
type Clipboard interface {
	Write(text string) bool
	Read() string
}

type Ring struct {
	entries  []string
	capacity int
	cursor   int

	clip Clipboard
	// lastClip is the clipboard text we last wrote or adopted; anything else
	// found on the clipboard was put there by another program.
	lastClip string
}

func New(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{
		entries:  make([]string, 0, capacity),
		capacity: capacity,
	}
}

// SetClipboard attaches c as the ring's mirror. Pass nil to detach.
func (r *Ring) SetClipboard(c Clipboard) {
	r.clip = c
	r.lastClip = ""
}

func (r *Ring) Len() int { return len(r.entries) }

func (r *Ring) Cap() int { return r.capacity }

// Push adds text as the newest entry, evicting the oldest on overflow.
func (r *Ring) Push(text string) {
	r.push(text)
	r.mirror(text)
}

// Append concatenates text onto the newest entry. On an empty ring it
// behaves like Push.
func (r *Ring) Append(text string) {
	if len(r.entries) == 0 {
		r.Push(text)
		return
	}
	last := len(r.entries) - 1
	r.entries[last] += text
	r.cursor = last
	r.mirror(r.entries[last])
}

// Prepend puts text in front of the newest entry, for kills that grow
// backwards. On an empty ring it behaves like Push.
func (r *Ring) Prepend(text string) {
	if len(r.entries) == 0 {
		r.Push(text)
		return
	}
	last := len(r.entries) - 1
	r.entries[last] = text + r.entries[last]
	r.cursor = last
	r.mirror(r.entries[last])
}

// Reset moves the rotation cursor back to the newest entry.
func (r *Ring) Reset() {
	if len(r.entries) > 0 {
		r.cursor = len(r.entries) - 1
	}
}

// Current returns the entry under the rotation cursor. Text placed on the
// attached clipboard by another program is adopted as the newest entry
// first.
func (r *Ring) Current() (string, error) {
	r.adoptClipboard()
	if len(r.entries) == 0 {
		return "", ErrEmpty
	}
	return r.entries[r.cursor], nil
}

// Rotate moves the cursor n entries towards older kills, wrapping from the
// oldest back to the newest, and returns the entry it lands on. Negative n
// rotates towards newer kills.
func (r *Ring) Rotate(n int) (string, error) {
	if len(r.entries) == 0 {
		return "", ErrEmpty
	}
	size := len(r.entries)
	r.cursor = ((r.cursor-n)%size + size) % size
	return r.entries[r.cursor], nil
}

// Entries returns a copy of the ring, newest first.
func (r *Ring) Entries() []string {
	out := make([]string, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		out = append(out, r.entries[i])
	}
	return out
}

// Load replaces the ring contents with entries (newest first) without
// touching the clipboard.
func (r *Ring) Load(entries []string) {
	r.entries = r.entries[:0]
	for i := len(entries) - 1; i >= 0; i-- {
		r.push(entries[i])
	}
}

// Resize changes the capacity, evicting the oldest entries if the ring no
// longer fits.
func (r *Ring) Resize(capacity int) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	r.capacity = capacity
	r.evict()
	r.Reset()
}

func (r *Ring) push(text string) {
	r.entries = append(r.entries, text)
	r.evict()
	r.cursor = len(r.entries) - 1
}

func (r *Ring) evict() {
	if excess := len(r.entries) - r.capacity; excess > 0 {
		r.entries = append(r.entries[:0], r.entries[excess:]...)
	}
	if r.cursor >= len(r.entries) {
		r.cursor = len(r.entries) - 1
	}
	if r.cursor < 0 {
		r.cursor = 0
	}
}

func (r *Ring) mirror(text string) {
	if r.clip == nil || text == "" {
		return
	}
	r.lastClip = text
	r.clip.Write(text)
}

func (r *Ring) adoptClipboard() {
	if r.clip == nil {
		return
	}
	text := r.clip.Read()
	if text == "" || text == r.lastClip {
		return
	}
	r.lastClip = text
	if n := len(r.entries); n > 0 && r.entries[n-1] == text {
		r.cursor = n - 1
		return
	}
	r.push(text)
}
