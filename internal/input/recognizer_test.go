package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type recorded struct {
	event PointerEvent
	kind  Kind
}

func newTestRecognizer() (*Recognizer, *fakeClock, *[]recorded) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	var got []recorded
	r := NewRecognizer(func(event PointerEvent, kind Kind) {
		got = append(got, recorded{event: event, kind: kind})
	}, func() time.Time { return clock.now })
	return r, clock, &got
}

func TestSingleTap(t *testing.T) {
	r, clock, got := newTestRecognizer()

	r.PointerDown(PointerEvent{X: 10, Y: 10})
	clock.advance(80 * time.Millisecond)
	r.PointerUp(PointerEvent{X: 12, Y: 11})

	require.Len(t, *got, 1)
	assert.Equal(t, Tap, (*got)[0].kind)
}

func TestDoubleTapWithinWindow(t *testing.T) {
	r, clock, got := newTestRecognizer()

	r.PointerDown(PointerEvent{X: 10, Y: 10})
	r.PointerUp(PointerEvent{X: 10, Y: 10})
	clock.advance(200 * time.Millisecond)
	r.PointerDown(PointerEvent{X: 11, Y: 10})
	r.PointerUp(PointerEvent{X: 11, Y: 10})

	require.Len(t, *got, 2)
	assert.Equal(t, Tap, (*got)[0].kind)
	assert.Equal(t, DoubleTap, (*got)[1].kind)

	// A third tap starts a fresh sequence.
	clock.advance(200 * time.Millisecond)
	r.PointerDown(PointerEvent{X: 11, Y: 10})
	r.PointerUp(PointerEvent{X: 11, Y: 10})
	require.Len(t, *got, 3)
	assert.Equal(t, Tap, (*got)[2].kind)
}

func TestSlowSecondTapIsSingle(t *testing.T) {
	r, clock, got := newTestRecognizer()

	r.PointerDown(PointerEvent{X: 10, Y: 10})
	r.PointerUp(PointerEvent{X: 10, Y: 10})
	clock.advance(DoubleTapDelay)
	r.PointerDown(PointerEvent{X: 10, Y: 10})
	r.PointerUp(PointerEvent{X: 10, Y: 10})

	require.Len(t, *got, 2)
	assert.Equal(t, Tap, (*got)[1].kind)
}

func TestLongPressFiresOnTick(t *testing.T) {
	r, clock, got := newTestRecognizer()

	r.PointerDown(PointerEvent{X: 50, Y: 50})
	clock.advance(LongPressDelay - time.Millisecond)
	r.Tick()
	assert.Empty(t, *got, "hold is still short of the delay")

	clock.advance(time.Millisecond)
	r.Tick()
	require.Len(t, *got, 1)
	assert.Equal(t, LongPress, (*got)[0].kind)
	assert.Equal(t, 50.0, (*got)[0].event.X)

	// The eventual release must not emit a tap on top.
	r.PointerUp(PointerEvent{X: 50, Y: 50})
	r.Tick()
	assert.Len(t, *got, 1)
}

func TestDragCancelsGesture(t *testing.T) {
	r, clock, got := newTestRecognizer()

	r.PointerDown(PointerEvent{X: 10, Y: 10})
	r.PointerMove(PointerEvent{X: 10 + MoveThreshold + 1, Y: 10})
	clock.advance(LongPressDelay)
	r.Tick()
	r.PointerUp(PointerEvent{X: 40, Y: 10})

	assert.Empty(t, *got)
}

func TestMoveWithinSlopKeepsGesture(t *testing.T) {
	r, _, got := newTestRecognizer()

	r.PointerDown(PointerEvent{X: 10, Y: 10})
	r.PointerMove(PointerEvent{X: 10 + MoveThreshold, Y: 10})
	r.PointerUp(PointerEvent{X: 10 + MoveThreshold, Y: 10})

	require.Len(t, *got, 1)
	assert.Equal(t, Tap, (*got)[0].kind)
}

func TestCancelDiscardsGesture(t *testing.T) {
	r, _, got := newTestRecognizer()

	r.PointerDown(PointerEvent{X: 10, Y: 10})
	r.Cancel()
	r.PointerUp(PointerEvent{X: 10, Y: 10})

	assert.Empty(t, *got)
}
