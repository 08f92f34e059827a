package game

import (
	"math"

	"github.com/deadtrain/engine/pkg/iso"
	"github.com/deadtrain/engine/pkg/nav"
	"github.com/deadtrain/engine/pkg/state"
)

// stopDistancePX is how far short of the clicked target the player
// stops, measured in projected screen pixels, so the player sprite
// does not overlap the interactive target rendered at that point.
const stopDistancePX = 10

// Movement owns the player's position and path queue. The mesh is
// injected per wagon change; Movement never owns it.
type Movement struct {
	state *state.GameState
	mesh  *nav.Mesh
}

func NewMovement(gs *state.GameState) *Movement {
	return &Movement{state: gs}
}

// SetMesh swaps the navigation mesh, normally on wagon change.
func (m *Movement) SetMesh(points []iso.Point) {
	m.mesh = nav.NewMesh(points)
}

// MoveTo paths the player to the target. With no mesh or no path this
// is a silent no-op move: the path clears and isMoving drops, but no
// error surfaces to the player.
func (m *Movement) MoveTo(target iso.Point) {
	if m.mesh == nil {
		return
	}
	player := &m.state.Player
	path := m.mesh.FindPath(player.Position, target)
	if len(path) == 0 {
		player.Path = nil
		player.IsMoving = false
		return
	}

	// Pull the final waypoint back toward the target, stopping short
	// by the clearance distance in screen space.
	last := path[len(path)-1]
	cfg := m.state.Config
	targetScreen := iso.ToScreen(target, cfg.TileWidth, cfg.TileHeight)
	lastScreen := iso.ToScreen(last, cfg.TileWidth, cfg.TileHeight)
	dist := iso.ScreenDistance(targetScreen, lastScreen)
	stopPoint := target
	if dist > stopDistancePX {
		ratio := (dist - stopDistancePX) / dist
		stopPoint = iso.Lerp(last, target, ratio)
	}
	path[len(path)-1] = stopPoint

	player.Path = path
	player.IsMoving = true
}

// Update advances the player toward the next waypoint by elapsed time.
// Movement is delta-scaled and frame-rate independent: either snap to
// the waypoint when it is within reach this tick, or lerp toward it
// and face it.
func (m *Movement) Update(deltaSeconds float64) {
	player := &m.state.Player
	if len(player.Path) == 0 {
		player.IsMoving = false
		return
	}
	next := player.Path[0]
	distance := iso.Distance(player.Position, next)
	maxStep := player.Speed * deltaSeconds
	if distance <= maxStep {
		player.Position = next
		player.Path = player.Path[1:]
		if len(player.Path) == 0 {
			player.IsMoving = false
		}
		return
	}
	t := maxStep / distance
	player.Position = iso.Lerp(player.Position, next, t)
	player.IsMoving = true
	player.Facing = math.Atan2(next.Y-player.Position.Y, next.X-player.Position.X)
}

// Stop clears the path immediately, used when a door transition or
// dialogue interrupts travel.
func (m *Movement) Stop() {
	player := &m.state.Player
	player.Path = nil
	player.IsMoving = false
}
