// Package killring keeps recently killed text for yanking.
package killring

import (
	"errors"
	"slices"
	"sync"
)

var ErrEmpty = errors.New("kill ring is empty")

const DefaultMax = 30

// Clipboard mirrors kills to a system clipboard. Failures are reported as
// false and never stop a kill.
type Clipboard interface {
	Write(text string) bool
	Read() (string, bool)
}

// Ring is a fixed-capacity circular list of killed text with a cursor that
// always points at the most recent push until Current rotates it.
type Ring struct {
	max       int
	items     []string
	current   int
	clipboard Clipboard
}

// New returns an empty ring holding at most size entries. A non-positive
// size selects DefaultMax.
func New(size int) *Ring {
	if size <= 0 {
		size = DefaultMax
	}
	return &Ring{max: size, current: -1}
}

var (
	defaultOnce sync.Once
	defaultRing *Ring
)

// Default returns the ring shared by buffers that were not given one.
func Default() *Ring {
	defaultOnce.Do(func() {
		defaultRing = New(DefaultMax)
	})
	return defaultRing
}

// SetClipboard attaches c; nil detaches the current clipboard.
func (r *Ring) SetClipboard(c Clipboard) {
	r.clipboard = c
}

func (r *Ring) Len() int { return len(r.items) }
func (r *Ring) Max() int { return r.max }

func (r *Ring) Clear() {
	r.items = nil
	r.current = -1
}

// Push adds s after the cursor and makes it current. Once the ring is
// full the cursor wraps and overwrites the oldest slot it lands on.
func (r *Ring) Push(s string) {
	r.push(s)
	if r.clipboard != nil {
		r.clipboard.Write(s)
	}
}

func (r *Ring) push(s string) {
	r.current++
	if len(r.items) < r.max {
		r.items = slices.Insert(r.items, r.current, s)
		return
	}
	if r.current == r.max {
		r.current = 0
	}
	r.items[r.current] = s
}

// Current rotates the cursor n entries back, wrapping around, and returns
// the entry it lands on.
func (r *Ring) Current(n int) (string, error) {
	if len(r.items) == 0 {
		return "", ErrEmpty
	}
	r.current = r.index(n)
	return r.items[r.current], nil
}

func (r *Ring) index(n int) int {
	i := (r.current - n) % len(r.items)
	if i < 0 {
		i += len(r.items)
	}
	return i
}

// AppendCurrent extends the current entry, for consecutive kills.
func (r *Ring) AppendCurrent(s string) error {
	if len(r.items) == 0 {
		return ErrEmpty
	}
	r.items[r.current] += s
	if r.clipboard != nil {
		r.clipboard.Write(r.items[r.current])
	}
	return nil
}

// Sync pushes the clipboard's text when something outside the editor put
// it there, so that the next yank sees it.
func (r *Ring) Sync() {
	if r.clipboard == nil {
		return
	}
	text, ok := r.clipboard.Read()
	if !ok || text == "" {
		return
	}
	if len(r.items) > 0 && r.items[r.current] == text {
		return
	}
	r.push(text)
}
