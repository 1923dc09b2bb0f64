package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// A Bvh is a binary bounding-volume hierarchy over a contiguous range of a
// mesh's triangle array. Nodes live in a flat arena addressed by index, with
// the root always at index 0; the builder allocates the two children of an
// interior node adjacently, so Right == Left+1 for every interior node.
type Bvh struct {
	nodes []BvhNode
}

// One arena entry of a Bvh: either a leaf covering the [Begin, End) triangle
// range, or an interior node delegating to two children.
type BvhNode struct {
	// Axis-aligned bounding box of every triangle in the node's range.
	Min mgl32.Vec3
	Max mgl32.Vec3

	// Child arena indices for interior nodes; both -1 for leaves.
	Left  int32
	Right int32

	// The [Begin, End) triangle range covered by the node.
	Begin uint32
	End   uint32

	// Cached SAH cost of the range; only meaningful for leaves.
	Cost float32
}

// Returns true if this node holds its triangle range directly.
func (n *BvhNode) IsLeaf() bool {
	return n.Left < 0
}

// Get the root node.
func (b *Bvh) Root() *BvhNode {
	return &b.nodes[0]
}

// Get the node at the given arena index.
func (b *Bvh) Node(index int32) *BvhNode {
	return &b.nodes[index]
}

// Get the backing node arena.
func (b *Bvh) Nodes() []BvhNode {
	return b.nodes
}

// Get the number of nodes in the hierarchy.
func (b *Bvh) Len() int {
	return len(b.nodes)
}

// Visit every node depth-first, parents before children, calling visit with
// the node and its depth.
func (b *Bvh) Walk(visit func(node *BvhNode, depth int)) {
	b.walk(0, 0, visit)
}

func (b *Bvh) walk(index int32, depth int, visit func(node *BvhNode, depth int)) {
	node := &b.nodes[index]
	visit(node, depth)
	if !node.IsLeaf() {
		b.walk(node.Left, depth+1, visit)
		b.walk(node.Right, depth+1, visit)
	}
}
