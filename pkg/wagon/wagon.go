// Package wagon holds the static world content model: wagon (room)
// descriptors, doors, NPCs, interactive objects, and the train graph
// that tracks runtime door state on top of them.
package wagon

import "github.com/deadtrain/engine/pkg/iso"

// LayerTile is one drawable tile in a wagon layer.
type LayerTile struct {
	TileID    string    `json:"tile_id"`
	Position  iso.Point `json:"position"`
	Elevation float64   `json:"elevation,omitempty"`
	DecalID   string    `json:"decal_id,omitempty"`
	Rotation  float64   `json:"rotation,omitempty"`
	Tint      string    `json:"tint,omitempty"`
}

// LightZone is a renderer hint for a local light source.
type LightZone struct {
	ID        string    `json:"id"`
	Center    iso.Point `json:"center"`
	Radius    float64   `json:"radius"`
	Intensity float64   `json:"intensity"`
	Flicker   bool      `json:"flicker,omitempty"`
}

// DoorDescriptor describes one passage out of a wagon.
//
// LockedByFlag names the story flag that opens the door. BlockedIfFlag
// marks the door permanently impassable; nothing in the game unblocks
// it, and it wins over LockedByFlag when both are present.
type DoorDescriptor struct {
	ID            string    `json:"id"`
	Label         string    `json:"label"`
	TargetWagonID string    `json:"target_wagon_id"`
	SpawnPoint    iso.Point `json:"spawn_point"`
	Position      iso.Point `json:"position"`
	Radius        float64   `json:"radius"`
	LockedByFlag  string    `json:"locked_by_flag,omitempty"`
	BlockedIfFlag string    `json:"blocked_if_flag,omitempty"`
	OpenByDefault bool      `json:"open_by_default,omitempty"`
}

// NPCDescriptor places a talkable character in a wagon.
type NPCDescriptor struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Position      iso.Point `json:"position"`
	Radius        float64   `json:"radius"`
	DialogueID    string    `json:"dialogue_id"`
	IdleAnimation string    `json:"idle_animation,omitempty"` // "static" or "loop"
}

// ObjectDescriptor places an interactive object in a wagon. OnUse names
// an action in the interaction system's fixed catalog.
type ObjectDescriptor struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Position iso.Point `json:"position"`
	Radius   float64   `json:"radius"`
	OnUse    string    `json:"on_use"`
}

// Hint is a floating helper message anchored to a grid position.
type Hint struct {
	Position iso.Point `json:"position"`
	Message  string    `json:"message"`
}

// WagonLayerData is the full static descriptor of one wagon. It is
// immutable once loaded and shared by reference across visits; all
// runtime mutation lives in TrainState.
type WagonLayerData struct {
	ID      string             `json:"id"`
	Title   string             `json:"title"`
	Floor   []LayerTile        `json:"floor"`
	Walls   []LayerTile        `json:"walls,omitempty"`
	Decals  []LayerTile        `json:"decals,omitempty"`
	Navmesh []iso.Point        `json:"navmesh"`
	Spawn   iso.Point          `json:"spawn"`
	Doors   []DoorDescriptor   `json:"doors,omitempty"`
	NPCs    []NPCDescriptor    `json:"npcs,omitempty"`
	Objects []ObjectDescriptor `json:"objects,omitempty"`
	Hints   []Hint             `json:"hints,omitempty"`
	Lights  []LightZone        `json:"lights,omitempty"`
	Ambient string             `json:"ambient,omitempty"` // "dark" or "normal"
}

// TrainDescriptor is the static set of wagons making up one train.
type TrainDescriptor struct {
	StartWagonID string           `json:"start_wagon_id"`
	Wagons       []WagonLayerData `json:"wagons"`
}
