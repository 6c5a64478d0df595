package hearttree

// worldState is a node's accumulated position and alpha.
type worldState struct {
	pos   Vec3
	alpha float64
}

// compose applies a child's local transform on top of its parent's. Groups
// only translate, so composition is additive in position and multiplicative
// in alpha.
func (p worldState) compose(n *Node) worldState {
	return worldState{
		pos:   Vec3{p.pos.X + n.X, p.pos.Y + n.Y, p.pos.Z + n.Z},
		alpha: p.alpha * n.Alpha,
	}
}

var rootState = worldState{alpha: 1}

// WorldPosition returns the node's position with every ancestor's offset
// applied.
func (n *Node) WorldPosition() Vec3 {
	var w Vec3
	for p := n; p != nil; p = p.Parent {
		w.X += p.X
		w.Y += p.Y
		w.Z += p.Z
	}
	return w
}

// WorldAlpha returns the node's alpha multiplied by every ancestor's.
func (n *Node) WorldAlpha() float64 {
	a := 1.0
	for p := n; p != nil; p = p.Parent {
		a *= p.Alpha
	}
	return a
}
