package rowan

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Action registration ---

func TestRegisterActionOrder(t *testing.T) {
	w := NewWorld()
	in := w.Input()

	in.RegisterAction("jump", ebiten.KeySpace)
	in.RegisterAction("left", ebiten.KeyArrowLeft, ebiten.KeyA)
	in.RegisterAction("right", ebiten.KeyArrowRight, ebiten.KeyD)

	got := in.Actions()
	want := []string{"jump", "left", "right"}
	if len(got) != len(want) {
		t.Fatalf("Actions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Actions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if keys := in.Bindings("left"); len(keys) != 2 || keys[0] != ebiten.KeyArrowLeft || keys[1] != ebiten.KeyA {
		t.Errorf("Bindings(left) = %v, want [ArrowLeft A]", keys)
	}
	if keys := in.Bindings("missing"); keys != nil {
		t.Errorf("Bindings(missing) = %v, want nil", keys)
	}
}

func TestRegisterActionReplaceKeepsPosition(t *testing.T) {
	w := NewWorld()
	in := w.Input()

	in.RegisterAction("jump", ebiten.KeySpace)
	in.RegisterAction("fire", ebiten.KeyZ)
	in.RegisterAction("jump", ebiten.KeyW) // rebind

	got := in.Actions()
	if len(got) != 2 || got[0] != "jump" || got[1] != "fire" {
		t.Fatalf("Actions() after rebind = %v, want [jump fire]", got)
	}
	if keys := in.Bindings("jump"); len(keys) != 1 || keys[0] != ebiten.KeyW {
		t.Errorf("Bindings(jump) = %v, want [W]", keys)
	}
}

func TestRegisterActionEmptyNamePanics(t *testing.T) {
	w := NewWorld()
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for empty action name, got none")
		}
	}()
	w.Input().RegisterAction("", ebiten.KeySpace) // should panic
}

// --- Injection ---

func TestInjectPressHoldsUntilRelease(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("jump", ebiten.KeySpace)

	in.InjectActionPress("jump")
	if len(in.injectQueue) != 1 {
		t.Fatalf("expected 1 queued event, got %d", len(in.injectQueue))
	}

	// Tick 1: press consumed, action goes down.
	w.DispatchInput()
	if len(in.injectQueue) != 0 {
		t.Fatalf("expected empty queue after dispatch, got %d", len(in.injectQueue))
	}
	if !in.IsActionPressed("jump") {
		t.Error("IsActionPressed = false after injected press")
	}
	if !in.IsActionJustPressed("jump") {
		t.Error("IsActionJustPressed = false on press tick")
	}

	// Tick 2: still held, no new edge.
	w.DispatchInput()
	if !in.IsActionPressed("jump") {
		t.Error("IsActionPressed = false while hold persists")
	}
	if in.IsActionJustPressed("jump") {
		t.Error("IsActionJustPressed = true after press tick")
	}

	// Tick 3: release consumed.
	in.InjectActionRelease("jump")
	w.DispatchInput()
	if in.IsActionPressed("jump") {
		t.Error("IsActionPressed = true after injected release")
	}
	if !in.IsActionJustReleased("jump") {
		t.Error("IsActionJustReleased = false on release tick")
	}

	// Tick 4: release edge cleared.
	w.DispatchInput()
	if in.IsActionJustReleased("jump") {
		t.Error("IsActionJustReleased = true after release tick")
	}
}

func TestInjectTapHeldExactlyOneTick(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("jump", ebiten.KeySpace)

	in.InjectActionTap("jump")
	if len(in.injectQueue) != 2 {
		t.Fatalf("expected 2 queued events, got %d", len(in.injectQueue))
	}

	// Tick 1: press half of the tap.
	w.DispatchInput()
	if !in.IsActionPressed("jump") {
		t.Error("action should be held on tap tick")
	}

	// Tick 2: release half.
	w.DispatchInput()
	if in.IsActionPressed("jump") {
		t.Error("action should be released the tick after a tap")
	}
	if !in.IsActionJustReleased("jump") {
		t.Error("IsActionJustReleased = false the tick after a tap")
	}
}

func TestInjectConsumesOneEventPerTick(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("left", ebiten.KeyArrowLeft)
	in.RegisterAction("right", ebiten.KeyArrowRight)

	in.InjectActionPress("left")
	in.InjectActionPress("right")

	w.DispatchInput()
	if !in.IsActionPressed("left") {
		t.Error("left should be held after tick 1")
	}
	if in.IsActionPressed("right") {
		t.Error("right should still be queued after tick 1")
	}

	w.DispatchInput()
	if !in.IsActionPressed("left") || !in.IsActionPressed("right") {
		t.Error("both actions should be held after tick 2")
	}
}

func TestActionEventsFollowRegistrationOrder(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("left", ebiten.KeyArrowLeft)
	in.RegisterAction("right", ebiten.KeyArrowRight)

	var got []string
	in.OnEvent(func(ev InputEvent) {
		if ev.Kind == EventActionPressed {
			got = append(got, ev.Action)
		}
	})

	// Force both holds in the same tick, bypassing the one-per-tick queue.
	in.overrides["right"] = true
	in.overrides["left"] = true
	w.DispatchInput()

	if len(got) != 2 || got[0] != "left" || got[1] != "right" {
		t.Errorf("press order = %v, want [left right]", got)
	}
}

// --- Delivery ---

func TestHandlersFireBeforeBoundNodes(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("jump", ebiten.KeySpace)

	var got []string
	in.OnEvent(func(ev InputEvent) { got = append(got, "handler") })

	n := NewNode("listener")
	n.OnInput = func(*Node, InputEvent) { got = append(got, "node") }
	w.Root().AddChild(n)
	in.BindNode(n)

	in.InjectActionPress("jump")
	w.DispatchInput()

	if len(got) != 2 || got[0] != "handler" || got[1] != "node" {
		t.Errorf("delivery order = %v, want [handler node]", got)
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("jump", ebiten.KeySpace)

	calls := 0
	handle := in.OnEvent(func(ev InputEvent) { calls++ })

	in.InjectActionPress("jump")
	w.DispatchInput()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	handle.Remove()
	in.InjectActionRelease("jump")
	w.DispatchInput()
	if calls != 1 {
		t.Errorf("calls after Remove = %d, want 1", calls)
	}
}

func TestCallbackHandleRemoveTwice(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	handle := in.OnEvent(func(ev InputEvent) {})
	handle.Remove()
	handle.Remove() // no-op
	if len(in.handlers) != 0 {
		t.Errorf("handlers = %d, want 0", len(in.handlers))
	}
}

func TestBindNodeDuplicateIsNoOp(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("jump", ebiten.KeySpace)

	calls := 0
	n := NewNode("listener")
	n.OnInput = func(*Node, InputEvent) { calls++ }
	w.Root().AddChild(n)
	in.BindNode(n)
	in.BindNode(n)

	if len(in.bound) != 1 {
		t.Fatalf("bound = %d, want 1", len(in.bound))
	}

	in.InjectActionPress("jump")
	w.DispatchInput()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBindFreedNodeIsNoOp(t *testing.T) {
	w := NewWorld()
	in := w.Input()

	n := NewNode("listener")
	w.Root().AddChild(n)
	n.Free()
	in.BindNode(n)

	if len(in.bound) != 0 {
		t.Errorf("bound = %d, want 0", len(in.bound))
	}
}

func TestUnbindNode(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("jump", ebiten.KeySpace)

	calls := 0
	n := NewNode("listener")
	n.OnInput = func(*Node, InputEvent) { calls++ }
	w.Root().AddChild(n)
	in.BindNode(n)
	in.UnbindNode(n)

	in.InjectActionPress("jump")
	w.DispatchInput()
	if calls != 0 {
		t.Errorf("calls = %d, want 0 after unbind", calls)
	}
}

func TestFreedBoundNodePrunedOnDispatch(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("jump", ebiten.KeySpace)

	calls := 0
	n := NewNode("listener")
	n.OnInput = func(*Node, InputEvent) { calls++ }
	w.Root().AddChild(n)
	in.BindNode(n)

	n.Free()
	in.InjectActionPress("jump")
	w.DispatchInput()

	if calls != 0 {
		t.Errorf("calls = %d, want 0 for freed node", calls)
	}
	if len(in.bound) != 0 {
		t.Errorf("bound = %d, want 0 after prune", len(in.bound))
	}
}

func TestBoundNodePauseGate(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("jump", ebiten.KeySpace)

	var got []string

	plain := NewNode("plain")
	plain.OnInput = func(*Node, InputEvent) { got = append(got, "plain") }
	w.Root().AddChild(plain)
	in.BindNode(plain)

	menu := NewNode("menu")
	menu.PauseMode = PauseContinue
	menu.OnInput = func(*Node, InputEvent) { got = append(got, "menu") }
	w.Root().AddChild(menu)
	in.BindNode(menu)

	in.OnEvent(func(ev InputEvent) { got = append(got, "handler") })

	w.SetPaused(true)
	in.InjectActionPress("jump")
	w.DispatchInput()

	// Handlers are not gated; of the bound nodes only the pause-exempt
	// one hears the event.
	if len(got) != 2 || got[0] != "handler" || got[1] != "menu" {
		t.Errorf("paused delivery = %v, want [handler menu]", got)
	}

	got = got[:0]
	w.SetPaused(false)
	in.InjectActionRelease("jump")
	w.DispatchInput()
	if len(got) != 3 {
		t.Errorf("unpaused delivery = %v, want all three", got)
	}
}

// --- Event sink ---

type recordingSink struct {
	events []InputEvent
}

func (s *recordingSink) EmitEvent(ev InputEvent) {
	s.events = append(s.events, ev)
}

func TestEventSinkReceivesEvents(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("jump", ebiten.KeySpace)

	sink := &recordingSink{}
	w.SetEventSink(sink)

	in.InjectActionTap("jump")
	w.DispatchInput()
	w.DispatchInput()

	if len(sink.events) != 2 {
		t.Fatalf("sink events = %d, want 2", len(sink.events))
	}
	if sink.events[0].Kind != EventActionPressed || sink.events[0].Action != "jump" {
		t.Errorf("first sink event = %+v, want jump press", sink.events[0])
	}
	if sink.events[1].Kind != EventActionReleased {
		t.Errorf("second sink event = %+v, want jump release", sink.events[1])
	}
}

// --- Strength ---

func TestStrengthSingleAxis(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("left", ebiten.KeyArrowLeft)
	in.RegisterAction("right", ebiten.KeyArrowRight)
	in.RegisterAction("up", ebiten.KeyArrowUp)
	in.RegisterAction("down", ebiten.KeyArrowDown)

	in.InjectActionPress("left")
	w.DispatchInput()

	assertVec2(t, "Strength", in.Strength("left", "right", "up", "down"), Vec2{X: -1})
}

func TestStrengthDiagonalUnnormalized(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("left", ebiten.KeyArrowLeft)
	in.RegisterAction("right", ebiten.KeyArrowRight)
	in.RegisterAction("up", ebiten.KeyArrowUp)
	in.RegisterAction("down", ebiten.KeyArrowDown)

	in.InjectActionPress("left")
	in.InjectActionPress("up")
	w.DispatchInput()
	w.DispatchInput()

	assertVec2(t, "Strength", in.Strength("left", "right", "up", "down"), Vec2{X: -1, Y: -1})
}

func TestStrengthOpposingActionsCancel(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("left", ebiten.KeyArrowLeft)
	in.RegisterAction("right", ebiten.KeyArrowRight)
	in.RegisterAction("up", ebiten.KeyArrowUp)
	in.RegisterAction("down", ebiten.KeyArrowDown)

	in.InjectActionPress("left")
	in.InjectActionPress("right")
	w.DispatchInput()
	w.DispatchInput()

	assertVec2(t, "Strength", in.Strength("left", "right", "up", "down"), Vec2{})
}

func TestIsActionPressedUnknownAction(t *testing.T) {
	w := NewWorld()
	if w.Input().IsActionPressed("ghost") {
		t.Error("IsActionPressed = true for unregistered action")
	}
}
