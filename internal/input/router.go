package input

import (
	"context"
	"log/slog"

	"github.com/deadtrain/engine/internal/game"
	"github.com/deadtrain/engine/pkg/iso"
)

// Router converts recognized gestures into intents via the hit tester
// and hands them to the interaction dispatcher, with haptic feedback
// matched to the gesture.
type Router struct {
	hitTester   *game.HitTester
	interaction *game.Interaction
	haptics     game.Haptics
	logger      *slog.Logger
}

func NewRouter(hitTester *game.HitTester, interaction *game.Interaction, haptics game.Haptics, logger *slog.Logger) *Router {
	return &Router{
		hitTester:   hitTester,
		interaction: interaction,
		haptics:     haptics,
		logger:      logger,
	}
}

// Dispatch classifies one finished gesture and routes the intent.
// Taps on a target interact; taps in the open move; long presses
// inspect whatever was under the pointer.
func (r *Router) Dispatch(ctx context.Context, event PointerEvent, kind Kind) {
	result := r.hitTester.HitTest(iso.ScreenPoint{X: event.X, Y: event.Y}, event.UIBlocked)
	if result.Kind == game.HitUI {
		return
	}

	var intent game.Intent
	switch kind {
	case LongPress:
		intent = game.Intent{Type: game.IntentInspect, Target: result.Target, Destination: result.Destination}
		r.haptics.Notify("warning")
	case DoubleTap:
		if result.Target != nil {
			intent = game.Intent{Type: game.IntentInteract, Target: result.Target}
			r.haptics.Notify("success")
		} else {
			intent = game.Intent{Type: game.IntentMoveTo, Destination: result.Destination}
			r.haptics.Impact("medium")
		}
	default:
		if result.Target != nil {
			intent = game.Intent{Type: game.IntentInteract, Target: result.Target}
		} else {
			intent = game.Intent{Type: game.IntentMoveTo, Destination: result.Destination}
		}
		r.haptics.Impact("light")
	}

	if err := r.interaction.HandleIntent(ctx, intent); err != nil {
		r.logger.Error("intent dispatch failed", "kind", string(kind), "error", err)
	}
}
