package rowan

// SignalFunc is an observer callback. It receives the connection's bound
// arguments followed by the arguments passed to Emit.
type SignalFunc func(args ...any)

// signalConn is one observer registration. Connections live in a slice so
// emission order is insertion order.
type signalConn struct {
	observer any
	fn       SignalFunc
	binds    []any
}

// Signal is a named observer list owned by a single entity. Only the owner
// may connect, disconnect, or clear observers; violations panic with
// ErrSignalNotOwner. At most one connection per observer is allowed.
//
// Disconnects requested while the signal is emitting are queued and applied
// after the emission loop finishes, so a handler may safely disconnect
// itself (or any other observer) mid-emission. Connects made during
// emission only take effect for later emissions.
//
// Signals are not safe for concurrent use; the tree and everything attached
// to it belongs to one goroutine.
type Signal struct {
	owner any
	name  string

	conns     []signalConn
	emitDepth int   // > 0 while emitting; nested emission is allowed
	pending   []any // observers queued for disconnect during emission
}

// NewSignal declares a signal owned by owner. The name is used in debug
// logging only.
func NewSignal(owner any, name string) *Signal {
	return &Signal{owner: owner, name: name}
}

// Name returns the signal's declared name.
func (s *Signal) Name() string { return s.name }

// Connect registers fn to run on every emission, invoked with binds
// followed by the emission arguments. Panics with ErrSignalNotOwner if
// owner is not the declaring owner, or ErrAlreadyConnected if observer
// already holds a connection.
func (s *Signal) Connect(owner, observer any, fn SignalFunc, binds ...any) {
	if owner != s.owner {
		panic(ErrSignalNotOwner)
	}
	if s.indexOf(observer) >= 0 {
		panic(ErrAlreadyConnected)
	}
	s.conns = append(s.conns, signalConn{observer: observer, fn: fn, binds: binds})
}

// Disconnect removes observer's connection. Panics with ErrSignalNotOwner
// or ErrNotConnected. During emission the removal is deferred until the
// emission loop completes.
func (s *Signal) Disconnect(owner, observer any) {
	if owner != s.owner {
		panic(ErrSignalNotOwner)
	}
	if s.indexOf(observer) < 0 {
		panic(ErrNotConnected)
	}
	if s.emitDepth > 0 {
		s.pending = append(s.pending, observer)
		return
	}
	s.remove(observer)
}

// DisconnectAll removes every current connection, subject to the same
// ownership and deferral rules as Disconnect.
func (s *Signal) DisconnectAll(owner any) {
	if owner != s.owner {
		panic(ErrSignalNotOwner)
	}
	if s.emitDepth > 0 {
		for _, c := range s.conns {
			s.pending = append(s.pending, c.observer)
		}
		return
	}
	s.conns = nil
}

// IsConnected reports whether observer currently holds a connection.
func (s *Signal) IsConnected(observer any) bool {
	return s.indexOf(observer) >= 0
}

// ObserverCount returns the number of current connections.
func (s *Signal) ObserverCount() int { return len(s.conns) }

// Emit invokes every observer registered at call time, in insertion order,
// passing each connection's bound arguments followed by args. Emission is
// synchronous: Emit returns only after every observer has run. Disconnects
// queued during the emission are applied before returning.
func (s *Signal) Emit(args ...any) {
	s.emitDepth++
	// Index-based over the pre-emission length: connects during emission
	// must not run in this pass, and nothing is removed until the
	// outermost emission finishes.
	n := len(s.conns)
	for i := 0; i < n; i++ {
		c := s.conns[i]
		if len(c.binds) == 0 {
			c.fn(args...)
			continue
		}
		call := make([]any, 0, len(c.binds)+len(args))
		call = append(call, c.binds...)
		call = append(call, args...)
		c.fn(call...)
	}
	s.emitDepth--
	if s.emitDepth == 0 && len(s.pending) > 0 {
		for _, obs := range s.pending {
			s.remove(obs)
		}
		s.pending = s.pending[:0]
	}
}

// Connect is sugar for sig.Connect with this node as the owner; call it on
// the node that declares the signal.
func (n *Node) Connect(sig *Signal, observer any, fn SignalFunc, binds ...any) {
	sig.Connect(n, observer, fn, binds...)
}

// Disconnect is sugar for sig.Disconnect with this node as the owner.
func (n *Node) Disconnect(sig *Signal, observer any) {
	sig.Disconnect(n, observer)
}

// indexOf returns the connection index for observer, or -1.
func (s *Signal) indexOf(observer any) int {
	for i := range s.conns {
		if s.conns[i].observer == observer {
			return i
		}
	}
	return -1
}

// remove deletes observer's connection preserving the order of the rest.
func (s *Signal) remove(observer any) {
	i := s.indexOf(observer)
	if i < 0 {
		return
	}
	copy(s.conns[i:], s.conns[i+1:])
	s.conns[len(s.conns)-1] = signalConn{}
	s.conns = s.conns[:len(s.conns)-1]
}
