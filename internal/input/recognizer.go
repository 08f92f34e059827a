// Package input turns raw pointer events into gestures and routes the
// resulting intents into the game's interaction dispatcher.
package input

import (
	"math"
	"time"
)

// Gesture timing and slop thresholds.
const (
	DoubleTapDelay = 300 * time.Millisecond
	LongPressDelay = 450 * time.Millisecond
	MoveThreshold  = 16.0 // screen px
)

// Kind classifies a recognized gesture.
type Kind string

const (
	Tap       Kind = "tap"
	DoubleTap Kind = "double-tap"
	LongPress Kind = "long-press"
)

// PointerEvent is one raw pointer sample in virtual screen
// coordinates. UIBlocked marks events whose target chain includes a
// UI-blocking element.
type PointerEvent struct {
	X         float64
	Y         float64
	UIBlocked bool
}

// Handler receives recognized gestures with the event that finished
// them.
type Handler func(event PointerEvent, kind Kind)

// Recognizer folds a press/move/release stream into taps, double taps
// and long presses. Long presses are detected by polling Tick from the
// game loop rather than by timers, so recognition stays deterministic
// under a paused or stepped clock.
type Recognizer struct {
	handler Handler
	now     func() time.Time

	down       bool
	downEvent  PointerEvent
	downAt     time.Time
	lastTapAt  time.Time
	longActive bool
}

// NewRecognizer builds a recognizer. now is injectable for tests; pass
// time.Now in production.
func NewRecognizer(handler Handler, now func() time.Time) *Recognizer {
	if now == nil {
		now = time.Now
	}
	return &Recognizer{handler: handler, now: now}
}

// PointerDown starts a gesture.
func (r *Recognizer) PointerDown(event PointerEvent) {
	r.down = true
	r.downEvent = event
	r.downAt = r.now()
	r.longActive = false
}

// PointerMove cancels the gesture once the pointer drifts past the
// slop threshold.
func (r *Recognizer) PointerMove(event PointerEvent) {
	if !r.down {
		return
	}
	if math.Hypot(event.X-r.downEvent.X, event.Y-r.downEvent.Y) > MoveThreshold {
		r.Cancel()
	}
}

// PointerUp finishes a gesture: a release within the double-tap window
// of the previous tap is a double tap, otherwise a single tap. A
// release after a long press was already emitted is swallowed.
func (r *Recognizer) PointerUp(event PointerEvent) {
	if !r.down {
		return
	}
	r.down = false
	if r.longActive {
		r.longActive = false
		return
	}
	if math.Hypot(event.X-r.downEvent.X, event.Y-r.downEvent.Y) > MoveThreshold {
		return
	}
	now := r.now()
	if !r.lastTapAt.IsZero() && now.Sub(r.lastTapAt) < DoubleTapDelay {
		r.lastTapAt = time.Time{}
		r.handler(event, DoubleTap)
		return
	}
	r.lastTapAt = now
	r.handler(event, Tap)
}

// Cancel aborts the in-flight gesture without emitting anything.
func (r *Recognizer) Cancel() {
	r.down = false
	r.longActive = false
}

// Tick must be called every frame. It emits a long press once the
// pointer has been held past the delay without moving.
func (r *Recognizer) Tick() {
	if !r.down || r.longActive {
		return
	}
	if r.now().Sub(r.downAt) >= LongPressDelay {
		r.longActive = true
		r.handler(r.downEvent, LongPress)
	}
}
