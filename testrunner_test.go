package rowan

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

const pressWaitReleaseScript = `{
  "steps": [
    {"action": "press", "name": "jump"},
    {"action": "wait", "frames": 3},
    {"action": "release", "name": "jump"}
  ]
}`

func TestLoadTestScript(t *testing.T) {
	runner, err := LoadTestScript([]byte(pressWaitReleaseScript))
	if err != nil {
		t.Fatalf("LoadTestScript: %v", err)
	}
	if runner.Done() {
		t.Error("Done = true before any tick")
	}
	if len(runner.steps) != 3 {
		t.Errorf("steps = %d, want 3", len(runner.steps))
	}
}

func TestLoadTestScript_InvalidJSON(t *testing.T) {
	_, err := LoadTestScript([]byte(`{steps`))
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
	if !strings.Contains(err.Error(), "parse test script") {
		t.Errorf("error = %q, want mention of parse test script", err.Error())
	}
}

func TestLoadTestScript_NoSteps(t *testing.T) {
	_, err := LoadTestScript([]byte(`{"steps": []}`))
	if err == nil {
		t.Fatal("expected error for empty script, got nil")
	}
	if !strings.Contains(err.Error(), "no steps") {
		t.Errorf("error = %q, want mention of no steps", err.Error())
	}
}

func TestRunnerPressWaitRelease(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("jump", ebiten.KeySpace)

	runner, err := LoadTestScript([]byte(pressWaitReleaseScript))
	if err != nil {
		t.Fatal(err)
	}
	w.SetTestRunner(runner)

	// Tick 1: press injected and consumed.
	w.Update()
	if !in.IsActionPressed("jump") {
		t.Fatal("jump not held after press step")
	}

	// Ticks 2-4: the wait counts this tick plus two more.
	for i := 0; i < 3; i++ {
		w.Update()
		if !in.IsActionPressed("jump") {
			t.Fatalf("jump released during wait tick %d", i+1)
		}
	}

	// Tick 5: release injected and consumed.
	w.Update()
	if in.IsActionPressed("jump") {
		t.Fatal("jump still held after release step")
	}
	if !in.IsActionJustReleased("jump") {
		t.Error("release edge missing on release tick")
	}
	if runner.Done() {
		t.Error("Done = true while the release was still draining")
	}

	// Tick 6: queue drained, script completes.
	w.Update()
	if !runner.Done() {
		t.Error("Done = false after the script ran out")
	}
}

func TestRunnerTapDrainsAcrossTwoTicks(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("jump", ebiten.KeySpace)

	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "tap", "name": "jump"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	w.SetTestRunner(runner)

	// Tick 1: press half of the tap.
	w.Update()
	if !in.IsActionPressed("jump") {
		t.Fatal("jump not held on tap tick")
	}

	// Tick 2: the runner waits for the release to drain.
	w.Update()
	if in.IsActionPressed("jump") {
		t.Fatal("jump still held the tick after a tap")
	}
	if runner.Done() {
		t.Error("Done = true while the tap was still draining")
	}

	// Tick 3: done.
	w.Update()
	if !runner.Done() {
		t.Error("Done = false after the tap drained")
	}
}

func TestRunnerPauseUnpause(t *testing.T) {
	w := NewWorld()
	script := `{
	  "steps": [
	    {"action": "pause"},
	    {"action": "wait", "frames": 2},
	    {"action": "unpause"}
	  ]
	}`
	runner, err := LoadTestScript([]byte(script))
	if err != nil {
		t.Fatal(err)
	}
	w.SetTestRunner(runner)

	w.Update()
	if !w.IsPaused() {
		t.Fatal("world not paused after pause step")
	}

	w.Update() // wait consumes this tick and one more
	w.Update()
	if !w.IsPaused() {
		t.Fatal("world unpaused during wait")
	}

	w.Update()
	if w.IsPaused() {
		t.Error("world still paused after unpause step")
	}
	if !runner.Done() {
		t.Error("Done = false after the final step")
	}
}

func TestRunnerUnknownActionIgnored(t *testing.T) {
	w := NewWorld()
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "dance"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	w.SetTestRunner(runner)

	w.Update()
	if !runner.Done() {
		t.Error("Done = false after a script of unknown actions")
	}
}

func TestRunnerIdlesAfterCompletion(t *testing.T) {
	w := NewWorld()
	in := w.Input()
	in.RegisterAction("jump", ebiten.KeySpace)

	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "press", "name": "jump"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	w.SetTestRunner(runner)

	for i := 0; i < 5; i++ {
		w.Update()
	}
	if !runner.Done() {
		t.Error("Done = false after the script ran out")
	}
	if !in.IsActionPressed("jump") {
		t.Error("press without release should hold indefinitely")
	}
}
