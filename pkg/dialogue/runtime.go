package dialogue

import "log/slog"

// SelectState reports whether a choice can currently be taken. Gated
// choices stay visible but disabled, with a reason for the player.
type SelectState struct {
	Allowed bool
	Reason  string
}

// Handlers are the callbacks the interaction layer supplies to a
// runtime. ApplyNode fires exactly once per node visit, on entry;
// ApplyChoice fires when a choice is taken, before moving on.
type Handlers struct {
	ApplyNode   func(node *Node)
	ApplyChoice func(choice *Choice)
	CanSelect   func(choice Choice) SelectState
	OnClose     func()
}

// Runtime walks one script from a start node until it closes. A
// missing node reference is a data bug: it is logged and force-closes
// the dialogue instead of crashing the session.
type Runtime struct {
	script   *Script
	handlers Handlers
	logger   *slog.Logger
	current  *Node
	open     bool
}

// NewRuntime opens a dialogue at the given node, applying that node's
// entry effects immediately.
func NewRuntime(script *Script, startID string, handlers Handlers, logger *slog.Logger) *Runtime {
	r := &Runtime{
		script:   script,
		handlers: handlers,
		logger:   logger,
		open:     true,
	}
	r.enter(startID)
	return r
}

// IsOpen reports whether the dialogue is still active.
func (r *Runtime) IsOpen() bool {
	return r.open
}

// Current returns the node being presented, or nil once closed.
func (r *Runtime) Current() *Node {
	if !r.open {
		return nil
	}
	return r.current
}

// ChoiceState evaluates the gate of one choice.
func (r *Runtime) ChoiceState(choice Choice) SelectState {
	if r.handlers.CanSelect == nil {
		return SelectState{Allowed: true}
	}
	return r.handlers.CanSelect(choice)
}

// Continue advances past a line node or closes an ending node. It is a
// no-op on choice nodes, which advance through Select.
func (r *Runtime) Continue() {
	if !r.open || r.current == nil {
		return
	}
	switch r.current.Kind {
	case NodeLine:
		r.enter(r.current.Next)
	case NodeEnding:
		r.Close()
	case NodeChoice:
		// Choice nodes require a selection.
	}
}

// Select takes the choice with the given id on the current choice
// node, applying its effects and advancing to its target. Disabled
// choices are ignored.
func (r *Runtime) Select(choiceID string) {
	if !r.open || r.current == nil || r.current.Kind != NodeChoice {
		return
	}
	for i := range r.current.Options {
		opt := &r.current.Options[i]
		if opt.ID != choiceID {
			continue
		}
		if state := r.ChoiceState(*opt); !state.Allowed {
			return
		}
		if r.handlers.ApplyChoice != nil {
			r.handlers.ApplyChoice(opt)
		}
		r.enter(opt.Next)
		return
	}
	r.logger.Warn("dialogue choice not found", "script", r.script.ID, "choice", choiceID)
}

// Close ends the dialogue and fires the close handler once.
func (r *Runtime) Close() {
	if !r.open {
		return
	}
	r.open = false
	r.current = nil
	if r.handlers.OnClose != nil {
		r.handlers.OnClose()
	}
}

func (r *Runtime) enter(id string) {
	if id == "" {
		r.Close()
		return
	}
	node, ok := r.script.Node(id)
	if !ok {
		r.logger.Error("dialogue node not found", "script", r.script.ID, "node", id)
		r.Close()
		return
	}
	r.current = node
	if r.handlers.ApplyNode != nil {
		r.handlers.ApplyNode(node)
	}
}
