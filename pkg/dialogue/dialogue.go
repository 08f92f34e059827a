// Package dialogue models per-NPC dialogue scripts and the state
// machine that walks them. A script is a closed set of line, choice
// and ending nodes; the runtime is created per conversation and
// discarded on close.
package dialogue

import "fmt"

// NodeKind tags the three node variants.
type NodeKind string

const (
	NodeLine   NodeKind = "line"
	NodeChoice NodeKind = "choice"
	NodeEnding NodeKind = "ending"
)

// Choice is one selectable option on a choice node. An empty Next
// closes the dialogue.
type Choice struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Next         string `json:"next,omitempty"`
	SetFlag      string `json:"set_flag,omitempty"`
	RequiresFlag string `json:"requires_flag,omitempty"`
	RequiresItem string `json:"requires_item,omitempty"`
	GiveItem     string `json:"give_item,omitempty"`
	RemoveItem   string `json:"remove_item,omitempty"`
	Haptic       string `json:"haptic,omitempty"` // "success", "warning" or "impact"
}

// Node is one entry in a script. Which fields are meaningful depends
// on Kind: line nodes use Speaker/Text/Next/SetFlag, choice nodes use
// Speaker/Text/Options, ending nodes use Title/Text/EndingID.
type Node struct {
	ID           string   `json:"id"`
	Kind         NodeKind `json:"kind"`
	Speaker      string   `json:"speaker,omitempty"`
	Text         string   `json:"text"`
	Next         string   `json:"next,omitempty"`
	SetFlag      string   `json:"set_flag,omitempty"`
	RequiresFlag string   `json:"requires_flag,omitempty"`
	RequiresItem string   `json:"requires_item,omitempty"`
	Options      []Choice `json:"options,omitempty"`
	Title        string   `json:"title,omitempty"`
	EndingID     string   `json:"ending_id,omitempty"`
}

// Script is one NPC's ordered dialogue graph.
type Script struct {
	ID    string `json:"id"`
	Nodes []Node `json:"nodes"`
}

// Node returns the node with the given id.
func (s *Script) Node(id string) (*Node, bool) {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i], true
		}
	}
	return nil, false
}

// Start returns the id of the first node. The second return is false
// for an empty script.
func (s *Script) Start() (string, bool) {
	if len(s.Nodes) == 0 {
		return "", false
	}
	return s.Nodes[0].ID, true
}

// Validate checks the script's referential integrity: every non-empty
// next reference must name a node in the same script, endings must not
// navigate further, and node kinds must be known.
func (s *Script) Validate() error {
	ids := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.ID == "" {
			return fmt.Errorf("script %q: node with empty id", s.ID)
		}
		if ids[n.ID] {
			return fmt.Errorf("script %q: duplicate node id %q", s.ID, n.ID)
		}
		ids[n.ID] = true
	}
	for _, n := range s.Nodes {
		switch n.Kind {
		case NodeLine:
			if n.Next != "" && !ids[n.Next] {
				return fmt.Errorf("script %q: node %q references unknown node %q", s.ID, n.ID, n.Next)
			}
		case NodeChoice:
			if len(n.Options) == 0 {
				return fmt.Errorf("script %q: choice node %q has no options", s.ID, n.ID)
			}
			for _, opt := range n.Options {
				if opt.Next != "" && !ids[opt.Next] {
					return fmt.Errorf("script %q: choice %q references unknown node %q", s.ID, opt.ID, opt.Next)
				}
			}
		case NodeEnding:
			if n.EndingID == "" {
				return fmt.Errorf("script %q: ending node %q has no ending id", s.ID, n.ID)
			}
			if n.Next != "" {
				return fmt.Errorf("script %q: ending node %q must be terminal", s.ID, n.ID)
			}
		default:
			return fmt.Errorf("script %q: node %q has unknown kind %q", s.ID, n.ID, n.Kind)
		}
	}
	return nil
}
