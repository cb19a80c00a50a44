package rowan

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// InputEventKind discriminates the events the input router produces.
type InputEventKind uint8

const (
	EventKeyPressed InputEventKind = iota
	EventKeyReleased
	EventActionPressed
	EventActionReleased
)

// InputEvent is one edge the router detected this tick: a bound key going
// down or up, or a named action changing state.
type InputEvent struct {
	Kind   InputEventKind
	Key    ebiten.Key // valid for key events
	Action string     // valid for action events
}

// Input resolves named actions from keyboard state and routes events to
// world-level handlers, bound nodes, and the optional ECS sink. Edge
// detection is its own; it compares against the previous tick's state
// rather than relying on ebiten's frame counters.
type Input struct {
	world *World

	actions map[string][]ebiten.Key
	order   []string // action registration order, for deterministic dispatch

	keyOrder []ebiten.Key // distinct bound keys in first-seen order
	keySeen  map[ebiten.Key]bool
	keyHeld  map[ebiten.Key]bool

	held      map[string]bool
	edge      map[string]int8 // +1 pressed this tick, -1 released
	overrides map[string]bool // synthetic holds from Inject*

	bound    []*Node
	handlers []inputHandler
	nextID   uint32

	injectQueue []syntheticActionEvent
}

type inputHandler struct {
	id uint32
	fn func(InputEvent)
}

func newInput(w *World) *Input {
	return &Input{
		world:     w,
		actions:   make(map[string][]ebiten.Key),
		keySeen:   make(map[ebiten.Key]bool),
		keyHeld:   make(map[ebiten.Key]bool),
		held:      make(map[string]bool),
		edge:      make(map[string]int8),
		overrides: make(map[string]bool),
	}
}

// RegisterAction binds a named action to one or more keys. Registering an
// existing action replaces its bindings and keeps its dispatch position.
func (in *Input) RegisterAction(name string, keys ...ebiten.Key) {
	if name == "" {
		panic("rowan: empty action name")
	}
	if _, ok := in.actions[name]; !ok {
		in.order = append(in.order, name)
	}
	in.actions[name] = keys
	for _, k := range keys {
		if !in.keySeen[k] {
			in.keySeen[k] = true
			in.keyOrder = append(in.keyOrder, k)
		}
	}
}

// Actions returns the registered action names in registration order.
func (in *Input) Actions() []string { return in.order }

// Bindings returns the keys bound to an action, or nil.
func (in *Input) Bindings(name string) []ebiten.Key { return in.actions[name] }

// BindNode registers a node to receive input events through its OnInput
// callback. Binding twice is a no-op; freed nodes are pruned on dispatch.
func (in *Input) BindNode(n *Node) {
	if n == nil || n.freed || containsNode(in.bound, n) {
		return
	}
	in.bound = append(in.bound, n)
}

// UnbindNode removes a node from input delivery. No-op when absent.
func (in *Input) UnbindNode(n *Node) {
	in.bound = removeNode(in.bound, n)
}

// CallbackHandle allows removing a registered world-level input handler.
type CallbackHandle struct {
	id uint32
	in *Input
}

// Remove unregisters the handler so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.in == nil {
		return
	}
	s := h.in.handlers
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = inputHandler{}
			h.in.handlers = s[:len(s)-1]
			return
		}
	}
}

// OnEvent registers a world-level callback invoked for every input event,
// before bound nodes see it.
func (in *Input) OnEvent(fn func(InputEvent)) CallbackHandle {
	in.nextID++
	id := in.nextID
	in.handlers = append(in.handlers, inputHandler{id: id, fn: fn})
	return CallbackHandle{id: id, in: in}
}

// --- Queries ---

// IsActionPressed reports whether any of the action's keys is held, or a
// synthetic hold is active. State is as of the last dispatch.
func (in *Input) IsActionPressed(name string) bool { return in.held[name] }

// IsActionJustPressed reports whether the action went down during the last
// dispatch.
func (in *Input) IsActionJustPressed(name string) bool { return in.edge[name] == +1 }

// IsActionJustReleased reports whether the action went up during the last
// dispatch.
func (in *Input) IsActionJustReleased(name string) bool { return in.edge[name] == -1 }

// Strength combines four actions into a direction vector with components
// in -1, 0, or +1. Diagonals are not normalized; callers that want uniform
// speed normalize the result.
func (in *Input) Strength(negX, posX, negY, posY string) Vec2 {
	var v Vec2
	if in.held[negX] {
		v.X--
	}
	if in.held[posX] {
		v.X++
	}
	if in.held[negY] {
		v.Y--
	}
	if in.held[posY] {
		v.Y++
	}
	return v
}

// --- Dispatch ---

// actionHeld polls the action's keys and merges synthetic holds.
func (in *Input) actionHeld(name string) bool {
	if in.overrides[name] {
		return true
	}
	for _, k := range in.actions[name] {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// dispatch runs one input tick: consume one queued injection, detect key
// and action edges against the previous tick, and deliver the resulting
// events in order.
func (in *Input) dispatch() {
	in.drainInjected()

	var events []InputEvent

	for _, k := range in.keyOrder {
		held := ebiten.IsKeyPressed(k)
		if held == in.keyHeld[k] {
			continue
		}
		in.keyHeld[k] = held
		kind := EventKeyReleased
		if held {
			kind = EventKeyPressed
		}
		events = append(events, InputEvent{Kind: kind, Key: k})
	}

	clear(in.edge)
	for _, name := range in.order {
		held := in.actionHeld(name)
		if held == in.held[name] {
			continue
		}
		in.held[name] = held
		if held {
			in.edge[name] = +1
			events = append(events, InputEvent{Kind: EventActionPressed, Action: name})
		} else {
			in.edge[name] = -1
			events = append(events, InputEvent{Kind: EventActionReleased, Action: name})
		}
	}

	for _, ev := range events {
		in.deliver(ev)
	}
}

// deliver fires world-level handlers first, then bound nodes whose pause
// gate allows them, then the ECS sink.
func (in *Input) deliver(ev InputEvent) {
	for _, h := range in.handlers {
		h.fn(ev)
	}

	kept := in.bound[:0]
	for _, n := range in.bound {
		if n.freed {
			continue
		}
		kept = append(kept, n)
		if n.OnInput == nil {
			continue
		}
		if in.world.paused && !n.pauseAllows(PauseTreePaused) {
			continue
		}
		n.OnInput(n, ev)
	}
	for i := len(kept); i < len(in.bound); i++ {
		in.bound[i] = nil
	}
	in.bound = kept

	if in.world.sink != nil {
		in.world.sink.EmitEvent(ev)
	}
}
