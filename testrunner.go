package rowan

import (
	"encoding/json"
	"fmt"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string `json:"action"`
	Name   string `json:"name,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences injected input actions across ticks for automated
// testing. Attach to a World via SetTestRunner.
//
// Supported step actions: "press", "release", and "tap" inject the named
// action; "pause" and "unpause" flip tree-wide pause; "wait" idles for the
// given number of ticks.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a World via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the world. The runner's step
// method is called from World.Update before input dispatch each tick.
func (w *World) SetTestRunner(runner *TestRunner) {
	w.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one tick. Called from World.Update.
func (r *TestRunner) step(w *World) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(w.input.injectQueue) > 0 {
		return
	}
	// Count down wait frames.
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		w.input.InjectActionPress(st.Name)
	case "release":
		w.input.InjectActionRelease(st.Name)
	case "tap":
		w.input.InjectActionTap(st.Name)
	case "pause":
		w.SetPaused(true)
	case "unpause":
		w.SetPaused(false)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	// Check if we've reached the end after executing.
	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(w.input.injectQueue) == 0 {
		r.done = true
	}
}
