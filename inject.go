package rowan

// syntheticActionEvent represents a single injected action state change.
// Injected state merges into the normal edge detection, so consumers see
// a synthetic press exactly as they would a real key going down.
type syntheticActionEvent struct {
	action  string
	pressed bool
}

// InjectActionPress queues a synthetic press of the named action. It is
// consumed on the next DispatchInput and holds until a matching release
// is consumed.
func (in *Input) InjectActionPress(name string) {
	in.injectQueue = append(in.injectQueue, syntheticActionEvent{action: name, pressed: true})
}

// InjectActionRelease queues a synthetic release of the named action.
func (in *Input) InjectActionRelease(name string) {
	in.injectQueue = append(in.injectQueue, syntheticActionEvent{action: name, pressed: false})
}

// InjectActionTap queues a press followed by a release. The press is
// consumed on the next tick and the release on the one after, so the
// action reads as held for exactly one tick.
func (in *Input) InjectActionTap(name string) {
	in.InjectActionPress(name)
	in.InjectActionRelease(name)
}

// drainInjected pops one queued event per tick and applies it to the
// synthetic hold set. Edges are detected by the normal dispatch path.
func (in *Input) drainInjected() {
	if len(in.injectQueue) == 0 {
		return
	}
	evt := in.injectQueue[0]
	copy(in.injectQueue, in.injectQueue[1:])
	in.injectQueue = in.injectQueue[:len(in.injectQueue)-1]

	if evt.pressed {
		in.overrides[evt.action] = true
	} else {
		delete(in.overrides, evt.action)
	}
}
