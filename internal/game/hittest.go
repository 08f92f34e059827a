package game

import (
	"github.com/deadtrain/engine/pkg/iso"
	"github.com/deadtrain/engine/pkg/state"
)

// forgivenessPX widens every target's hit radius in screen space, so
// slightly-off taps still land.
const forgivenessPX = 28

// Door beats NPC beats object when several targets overlap a tap.
var targetPriority = map[state.TargetKind]int{
	state.TargetDoor:   3,
	state.TargetNPC:    2,
	state.TargetObject: 1,
}

// HitKind classifies where a tap landed.
type HitKind string

const (
	// HitUI means chrome swallowed the input; no target, no destination.
	HitUI HitKind = "ui"
	// HitWorld is a tap into the scene: either a target or a walkable
	// destination.
	HitWorld HitKind = "world"
)

// HitResult is the outcome of classifying one input point.
type HitResult struct {
	Kind        HitKind
	Target      *state.Target
	Destination *iso.Point
}

// HitTester maps a screen-space input point to the player's intent
// material: an interactive target, or a walkable destination.
type HitTester struct {
	state *state.GameState
}

func NewHitTester(gs *state.GameState) *HitTester {
	return &HitTester{state: gs}
}

// HitTest classifies an input point. uiBlocked is true when the input
// event's target chain includes a UI-blocking element; together with
// the aggregate's input-block flag it swallows the tap entirely.
//
// Among targets within radius+forgiveness, the highest-priority kind
// wins; distance breaks ties. Destinations are only computed when no
// target is hit, by inverse-projecting the point back to grid space.
func (h *HitTester) HitTest(point iso.ScreenPoint, uiBlocked bool) HitResult {
	if h.state.IsInputBlocked || uiBlocked {
		return HitResult{Kind: HitUI}
	}

	cfg := h.state.Config
	var selected *state.Target
	bestPriority := -1
	bestDistance := 0.0

	for i := range h.state.CurrentTargets {
		target := &h.state.CurrentTargets[i]
		screen := iso.ToScreen(target.Position, cfg.TileWidth, cfg.TileHeight)
		distance := iso.ScreenDistance(point, screen)
		if distance > target.Radius+forgivenessPX {
			continue
		}
		priority := targetPriority[target.Kind]
		if priority > bestPriority || (priority == bestPriority && distance < bestDistance) {
			bestPriority = priority
			bestDistance = distance
			selected = target
		}
	}

	if selected != nil {
		return HitResult{Kind: HitWorld, Target: selected}
	}

	destination := iso.FromScreen(point, cfg.TileWidth, cfg.TileHeight)
	return HitResult{Kind: HitWorld, Destination: &destination}
}
