package xpobj

import (
	"fmt"

	"github.com/Faultbox/xpobj/pkg/math"
)

// NodeKind discriminates scene graph nodes.
type NodeKind int

const (
	KindNone NodeKind = iota
	KindMesh
	KindAnim
	KindGroup
)

// String returns a human-readable node kind name.
func (k NodeKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindMesh:
		return "Mesh"
	case KindAnim:
		return "Anim"
	case KindGroup:
		return "Group"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Node is a scene graph vertex. Children are owned by their parent; a node
// is only ever appended to one parent.
type Node struct {
	Kind       NodeKind
	Name       string
	Attributes []Attribute
	Faces      []Face // Mesh only
	KeyFrames  []KeyFrame
	Children   []*Node

	// Set when an animation scope closes. Origin sums the static
	// translations; Pivot is the last translation before the first rotation.
	Origin math.Vec3
	Pivot  math.Vec3
}

// HasData reports whether the node carries anything worth keeping.
func (n *Node) HasData() bool {
	return n.Kind != KindNone
}

// Animated reports whether the node has dataref-driven keyframes.
func (n *Node) Animated() bool {
	for _, kf := range n.KeyFrames {
		if !kf.Static() {
			return true
		}
	}
	return false
}

func (n *Node) appendChild(child *Node) {
	n.Children = append(n.Children, child)
}

// ResolveFaces returns the vertex positions of every face of a mesh node.
// Faces referencing vertices past the table are skipped.
func (n *Node) ResolveFaces(points *PointTable) [][3]math.Vec3 {
	out := make([][3]math.Vec3, 0, len(n.Faces))
	for _, f := range n.Faces {
		if f[0] >= len(points.Vertices) || f[1] >= len(points.Vertices) || f[2] >= len(points.Vertices) {
			continue
		}
		out = append(out, [3]math.Vec3{points.Vertices[f[0]], points.Vertices[f[1]], points.Vertices[f[2]]})
	}
	return out
}

// WalkFunc visits a node at the given depth (roots are depth 0).
// Returning false skips the node's children.
type WalkFunc func(n *Node, depth int) bool

// Walk visits nodes depth-first in file order.
func Walk(nodes []*Node, fn WalkFunc) {
	walk(nodes, 0, fn)
}

func walk(nodes []*Node, depth int, fn WalkFunc) {
	for _, n := range nodes {
		if fn(n, depth) {
			walk(n.Children, depth+1, fn)
		}
	}
}

// Counts summarizes a scene tree.
type Counts struct {
	Meshes   int
	Animated int
	Groups   int
}

// CountNodes tallies mesh, animation and group nodes under nodes.
func CountNodes(nodes []*Node) Counts {
	var c Counts
	Walk(nodes, func(n *Node, _ int) bool {
		switch n.Kind {
		case KindMesh:
			c.Meshes++
		case KindAnim:
			c.Animated++
		case KindGroup:
			c.Groups++
		}
		return true
	})
	return c
}
