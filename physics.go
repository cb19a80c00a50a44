package rowan

// spaceBucket holds the bodies registered at one bit position: layers are
// the bodies presenting that bit, masks the bodies detecting it.
type spaceBucket struct {
	layers []*Node
	masks  []*Node
}

// PhysicsServer is the collision space. Each body subtype keeps its own
// growable bucket array indexed by bit position (bucket i covers flag
// 1<<i), so a layer/mask lookup is a direct index. Every tick the server
// pairs the detectors at each bit against the presenters at the same bit
// across all three subtype spaces, so an area presenting a bit is found
// by a kinematic body seeking it just as two kinematic bodies find each
// other.
//
// Bodies register on tree-enter and deregister when freed; the server
// subscribes to each body's Freed signal for that.
type PhysicsServer struct {
	areas      []spaceBucket
	statics    []spaceBucket
	kinematics []spaceBucket
}

// NewPhysicsServer creates an empty collision space.
func NewPhysicsServer() *PhysicsServer {
	return &PhysicsServer{}
}

// InsertBody indexes body's layer and mask bits into the space for its
// subtype. Re-inserting an already indexed body is a no-op, so bodies may
// leave and re-enter the tree freely. Panics if body is not a collision
// body.
func (s *PhysicsServer) InsertBody(body *Node) {
	if body.Body == nil {
		panic("rowan: not a collision body")
	}
	b := body.Body
	if b.registered {
		return
	}
	space := s.spaceFor(body.Kind)
	for bit := 0; bit < 32; bit++ {
		flag := CollisionFlags(1) << bit
		if b.Layer&flag == 0 && b.Mask&flag == 0 {
			continue
		}
		for len(*space) <= bit {
			*space = append(*space, spaceBucket{})
		}
		if b.Layer&flag != 0 {
			(*space)[bit].layers = append((*space)[bit].layers, body)
		}
		if b.Mask&flag != 0 {
			(*space)[bit].masks = append((*space)[bit].masks, body)
		}
	}
	b.registered = true
	body.Freed.Connect(body, s, func(args ...any) {
		s.RemoveBody(body)
	})
}

// RemoveBody scrubs body from every bucket of its subtype's space.
func (s *PhysicsServer) RemoveBody(body *Node) {
	if body.Body == nil || !body.Body.registered {
		return
	}
	space := s.spaceFor(body.Kind)
	for i := range *space {
		(*space)[i].layers = removeNode((*space)[i].layers, body)
		(*space)[i].masks = removeNode((*space)[i].masks, body)
	}
	body.Body.registered = false
}

// ProcessCollisions runs one collision pass: broad-phase bounds rejection
// then exact narrow-phase per candidate pair. Call it once per tick, after
// tree propagation. On every confirmed pair the presenting (layer-side)
// body records the detector and emits its contact edge.
func (s *PhysicsServer) ProcessCollisions() {
	spaces := [3][]spaceBucket{s.areas, s.statics, s.kinematics}
	bits := 0
	for _, space := range spaces {
		if len(space) > bits {
			bits = len(space)
		}
	}
	// A pair sharing several bits is still tested per bit; the body-side
	// bookkeeping collapses repeats within a tick.
	for bit := 0; bit < bits; bit++ {
		for _, seekSpace := range spaces {
			if bit >= len(seekSpace) || len(seekSpace[bit].masks) == 0 {
				continue
			}
			for _, presentSpace := range spaces {
				if bit >= len(presentSpace) {
					continue
				}
				pairLists(seekSpace[bit].masks, presentSpace[bit].layers)
			}
		}
	}
}

// pairLists tests every seeker against every presenter. Body counts per
// bucket are small, so the quadratic pass beats maintaining anything
// smarter.
func pairLists(seekers, presenters []*Node) {
	for _, seeker := range seekers {
		if !bodyEligible(seeker) {
			continue
		}
		sb := seeker.Bounds()
		for _, presenter := range presenters {
			if presenter == seeker || !bodyEligible(presenter) {
				continue
			}
			if !sb.Intersects(presenter.Bounds()) {
				continue
			}
			if presenter.IsColliding(seeker) {
				presenter.Body.collide(seeker)
			}
		}
	}
}

// bodyEligible filters bodies that cannot currently collide: freed ones,
// detached ones (their transform caches are stale), and shapeless ones.
func bodyEligible(n *Node) bool {
	return !n.freed && n.onTree && n.HasShape()
}

// spaceFor returns the bucket array for a body subtype.
func (s *PhysicsServer) spaceFor(kind NodeKind) *[]spaceBucket {
	switch kind {
	case KindArea:
		return &s.areas
	case KindStaticBody:
		return &s.statics
	case KindKinematicBody:
		return &s.kinematics
	default:
		panic("rowan: not a collision body")
	}
}

// removeNode deletes n from s preserving order. No-op when absent.
func removeNode(s []*Node, n *Node) []*Node {
	for i, e := range s {
		if e == n {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = nil
			return s[:len(s)-1]
		}
	}
	return s
}
