// Package game is the interaction and navigation runtime: it owns the
// movement system, the hit-testing pipeline, the intent dispatcher and
// the orchestration around wagon travel and save persistence.
package game

import "context"

// Toast shows a short in-world message. Fire-and-forget.
type Toast interface {
	Show(text string)
}

// Audio plays semantic sound events. Fire-and-forget; the core never
// waits for completion.
type Audio interface {
	PlayStep()
	PlayAmbient(mode string)
}

// Haptics triggers host vibration feedback. Fire-and-forget.
type Haptics interface {
	Impact(style string) // "light", "medium" or "heavy"
	Notify(style string) // "success", "warning" or "error"
}

// Fader runs the room-transition fades. This is the one collaborator
// the core awaits, for pacing: player position and targets must never
// be read mid-transition.
type Fader interface {
	FadeOut(ctx context.Context) error
	FadeIn(ctx context.Context) error
}

// NopToast discards messages.
type NopToast struct{}

func (NopToast) Show(string) {}

// NopAudio discards sound events.
type NopAudio struct{}

func (NopAudio) PlayStep()          {}
func (NopAudio) PlayAmbient(string) {}

// NopHaptics discards vibration events.
type NopHaptics struct{}

func (NopHaptics) Impact(string) {}
func (NopHaptics) Notify(string) {}

// NopFader completes fades immediately.
type NopFader struct{}

func (NopFader) FadeOut(context.Context) error { return nil }
func (NopFader) FadeIn(context.Context) error  { return nil }
