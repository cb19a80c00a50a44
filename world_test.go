package rowan

import (
	"testing"
)

// --- Construction ---

func TestNewWorld(t *testing.T) {
	w := NewWorld()
	if w.Root() == nil {
		t.Fatal("Root should be non-nil")
	}
	if w.Root().Name() != "root" {
		t.Errorf("root name = %q, want %q", w.Root().Name(), "root")
	}
	if !w.Root().IsOnTree() {
		t.Error("root should be on the tree")
	}
	if w.Root().World() != w {
		t.Error("root.World should be the world")
	}
	if w.Physics() == nil {
		t.Error("Physics should be non-nil")
	}
	if w.Input() == nil {
		t.Error("Input should be non-nil")
	}
	if w.IsPaused() {
		t.Error("a new world should not be paused")
	}
}

func TestWorldsAreIndependent(t *testing.T) {
	w1 := NewWorld()
	w2 := NewWorld()
	n := NewNode("n")
	w1.Root().AddChild(n)

	if n.World() != w1 {
		t.Error("node should belong to w1")
	}
	if w2.Root().ChildCount() != 0 {
		t.Error("w2 should be empty")
	}
}

// --- Defer ---

func TestDeferRunsAfterPropagation(t *testing.T) {
	w := NewWorld()
	n := NewNode("n")
	w.Root().AddChild(n)

	var order []string
	n.OnProcess = func(*Node, float64) {
		order = append(order, "process")
		w.Defer(func() { order = append(order, "deferred") })
	}

	w.Step(1.0 / 60)
	if len(order) != 2 || order[0] != "process" || order[1] != "deferred" {
		t.Errorf("order = %v, want [process deferred]", order)
	}
}

func TestDeferNestedRunsSameStep(t *testing.T) {
	w := NewWorld()
	ran := false
	w.Defer(func() {
		w.Defer(func() { ran = true })
	})

	w.Step(1.0 / 60)
	if !ran {
		t.Error("a Defer queued by a deferred closure should run in the same Step")
	}
}

func TestDeferFreeSiblingDuringProcess(t *testing.T) {
	w := NewWorld()
	a := NewNode("a")
	b := NewNode("b")
	w.Root().AddChild(a)
	w.Root().AddChild(b)

	a.OnProcess = func(*Node, float64) {
		w.Defer(b.Free)
	}

	w.Step(1.0 / 60) // should not panic
	if !b.IsFreed() {
		t.Error("sibling should be freed after the step")
	}
	if w.Root().ChildCount() != 1 {
		t.Errorf("ChildCount = %d, want 1", w.Root().ChildCount())
	}
}

// --- Pause ---

func TestSetPausedEmitsOnChange(t *testing.T) {
	w := NewWorld()
	var states []bool
	w.PauseToggled.Connect(w, NewNode("watcher"), func(args ...any) {
		states = append(states, args[0].(bool))
	})

	w.SetPaused(true)
	w.SetPaused(true) // no change, no emit
	w.SetPaused(false)

	if len(states) != 2 || states[0] != true || states[1] != false {
		t.Errorf("states = %v, want [true false]", states)
	}
	if w.IsPaused() {
		t.Error("IsPaused should be false")
	}
}

// --- Groups ---

func TestGroupsAddAndQuery(t *testing.T) {
	w := NewWorld()
	a := NewNode("a")
	b := NewNode("b")

	w.AddToGroup(a, "enemies")
	w.AddToGroup(b, "enemies")
	w.AddToGroup(a, "enemies") // duplicate, no-op

	members := w.Group("enemies")
	if len(members) != 2 {
		t.Fatalf("group size = %d, want 2", len(members))
	}
	if !w.IsInGroup(a, "enemies") || !w.IsInGroup(b, "enemies") {
		t.Error("both nodes should be in the group")
	}
	if w.IsInGroup(a, "allies") {
		t.Error("node should not be in an unrelated group")
	}
}

func TestGroupsRemove(t *testing.T) {
	w := NewWorld()
	a := NewNode("a")
	w.AddToGroup(a, "enemies")
	w.RemoveFromGroup(a, "enemies")

	if w.IsInGroup(a, "enemies") {
		t.Error("node should be removed from the group")
	}
	w.RemoveFromGroup(a, "enemies") // absent, no-op
}

func TestGroupsPruneFreed(t *testing.T) {
	w := NewWorld()
	a := NewNode("a")
	b := NewNode("b")
	w.AddToGroup(a, "enemies")
	w.AddToGroup(b, "enemies")

	a.Free()

	members := w.Group("enemies")
	if len(members) != 1 || members[0] != b {
		t.Errorf("group = %v, want [b]", members)
	}
	if w.IsInGroup(a, "enemies") {
		t.Error("freed node should not count as a member")
	}
}

func TestAddToGroupFreedNoOp(t *testing.T) {
	w := NewWorld()
	a := NewNode("a")
	a.Free()
	w.AddToGroup(a, "enemies")

	if len(w.Group("enemies")) != 0 {
		t.Error("freed node must not join a group")
	}
}

func TestCallGroup(t *testing.T) {
	w := NewWorld()
	a := NewNode("a")
	b := NewNode("b")
	w.AddToGroup(a, "enemies")
	w.AddToGroup(b, "enemies")

	var visited []string
	w.CallGroup("enemies", func(n *Node) {
		visited = append(visited, n.Name())
	})

	if len(visited) != 2 || visited[0] != "a" || visited[1] != "b" {
		t.Errorf("visited = %v, want [a b]", visited)
	}
}

func TestNodeInMultipleGroups(t *testing.T) {
	w := NewWorld()
	a := NewNode("a")
	w.AddToGroup(a, "enemies")
	w.AddToGroup(a, "flying")

	if !w.IsInGroup(a, "enemies") || !w.IsInGroup(a, "flying") {
		t.Error("node should carry both group tags")
	}
	w.RemoveFromGroup(a, "flying")
	if !w.IsInGroup(a, "enemies") {
		t.Error("removing one tag must not touch the other")
	}
}

// --- Active camera ---

func TestSetActiveCameraNonCameraPanics(t *testing.T) {
	w := NewWorld()
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for non-camera node, got none")
		}
	}()
	w.SetActiveCamera(NewNode("plain"))
}

func TestSetActiveCameraNil(t *testing.T) {
	w := NewWorld()
	w.SetActiveCamera(nil) // should not panic
	if w.ActiveCamera() != nil {
		t.Error("ActiveCamera should be nil")
	}
	if off := w.cameraOffset(); off != (Vec2{}) {
		t.Errorf("cameraOffset = %v, want zero", off)
	}
}

// --- View rect ---

func TestViewRectFromViewSize(t *testing.T) {
	w := NewWorld()
	w.ViewSize = Vec2{320, 240}

	r, ok := w.viewRect()
	if !ok {
		t.Fatal("viewRect should be known with ViewSize set")
	}
	assertRect(t, "viewRect", r, Rect{0, 0, 320, 240})
}

func TestViewRectUnknown(t *testing.T) {
	w := NewWorld()
	if _, ok := w.viewRect(); ok {
		t.Error("viewRect should be unknown without a camera or ViewSize")
	}
}
