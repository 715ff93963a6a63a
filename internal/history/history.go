// Package history keeps every event of a session in order together with the
// navigation cursor used to pick which one is drawn.
package history

import (
	"sync"

	"rio-visualizer/internal/event"
)

// Live is the cursor value that follows the most recent event.
const Live = -1

// History is append-only. All methods are safe for concurrent use.
type History struct {
	mu         sync.RWMutex
	events     []*event.Event
	cursor     int
	forcing    bool
	allowForce bool
}

// New returns an empty history. allowForce gates ToggleForce.
func New(allowForce bool) *History {
	return &History{cursor: Live, allowForce: allowForce}
}

// Append adds e as the newest event. The cursor is left alone.
func (h *History) Append(e *event.Event) {
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.events)
}

// At returns the event at index i, or nil when out of range.
func (h *History) At(i int) *event.Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if i < 0 || i >= len(h.events) {
		return nil
	}
	return h.events[i]
}

// Events returns a copy of the event slice.
func (h *History) Events() []*event.Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*event.Event, len(h.events))
	copy(out, h.events)
	return out
}

func (h *History) Cursor() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cursor
}

// Last is the most recently appended event, or nil.
func (h *History) Last() *event.Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last()
}

func (h *History) last() *event.Event {
	if len(h.events) == 0 {
		return nil
	}
	return h.events[len(h.events)-1]
}

// Current resolves the cursor: the pinned event, else the newest, else nil.
func (h *History) Current() *event.Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.cursor >= 0 {
		return h.events[h.cursor]
	}
	return h.last()
}

// Display is the event to draw this frame. Following live, only a valid
// newest event is shown.
func (h *History) Display() *event.Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.cursor >= 0 {
		return h.events[h.cursor]
	}
	if e := h.last(); e != nil && e.Valid() {
		return e
	}
	return nil
}

// Left steps toward older events. From Live it skips the live event when
// that event is still being shown.
func (h *History) Left() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.forcing || len(h.events) == 0 {
		return
	}
	switch {
	case h.cursor > 0:
		h.cursor--
	case h.cursor == 0:
	case h.last().Valid():
		h.cursor = max(len(h.events)-2, 0)
	default:
		h.cursor = len(h.events) - 1
	}
}

// Right steps toward newer events, wrapping back to Live past the end.
func (h *History) Right() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.forcing || h.cursor == Live {
		return
	}
	h.cursor++
	if h.cursor >= len(h.events) {
		h.cursor = Live
	}
}

// Reset returns to Live and clears forcing.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cursor = Live
	h.forcing = false
}

// ToggleForce pins the selected hit for replay into the game. It only turns
// on for a pinned Hit and turns off on any second call.
func (h *History) ToggleForce() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.forcing || !h.allowForce {
		h.forcing = false
		return false
	}
	if h.cursor == Live {
		return false
	}
	h.forcing = h.events[h.cursor].Kind == event.Hit
	return h.forcing
}

func (h *History) Forcing() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.forcing
}

// Forced returns the pinned hit while forcing, else nil.
func (h *History) Forced() *event.Event {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.forcing || h.cursor < 0 {
		return nil
	}
	return h.events[h.cursor]
}
