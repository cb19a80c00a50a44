package rowan

import (
	"fmt"
	"os"
)

// globalDebug mirrors the most recently set World debug flag so that node
// operations without a world reference can honor it. With several worlds
// in flight the flag is shared; debug mode is a development aid, not a
// per-world setting.
var globalDebug bool

// debugLog prints a formatted warning to stderr. Only called behind a
// globalDebug check or for conditions worth flagging in any mode.
func debugLog(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[rowan] "+format+"\n", args...)
}

// debugCheckFreed panics with a descriptive message when a freed node is
// used in a tree operation. Only called when debug mode is on; in release
// mode callers skip this entirely.
func debugCheckFreed(n *Node, op string) {
	if n.freed {
		panic(fmt.Sprintf("rowan debug: %s on freed node %q (ID was %d)", op, n.name, n.ID))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLog("warning: tree depth %d exceeds %d (node %q)", depth, debugMaxTreeDepth, n.name)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugLog("warning: node %q has %d children (threshold %d)", n.name, len(n.children), debugMaxChildCount)
	}
}
