package scene

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/robotman2412/vlk-ray-tracer/log"
)

const (
	// Ranges of at most 2*bvhMinLeafTris triangles are never split.
	bvhMinLeafTris = 2

	// Nodes at this depth always become leaves.
	bvhMaxDepth = 32

	// Maximum number of split candidates evaluated per axis.
	bvhMaxSlices = 5
)

var inf32 = float32(math.Inf(1))

// Per-triangle data used while building a BVH; dropped once the build is
// done. Entries are swapped in lockstep with the mesh triangle array so the
// two always describe the same ordering.
type triAux struct {
	min    mgl32.Vec3
	max    mgl32.Vec3
	center mgl32.Vec3
	area   float32
}

type bvhBuilder struct {
	logger log.Logger

	// The mesh whose triangle array is being partitioned.
	mesh *Mesh

	// Auxiliary entry per triangle, indexed like mesh.Tris.
	aux []triAux

	// Bvh nodes stored as a contiguous arena; the root is entry 0.
	nodes []BvhNode

	maxDepth int
}

// Build a BVH covering every triangle of the mesh and attach it. The mesh
// triangle array is physically reordered during the build so that every node
// of the hierarchy covers a contiguous triangle range; after building, the
// triangles are no longer in import order. The mesh must be exclusively owned
// by the caller for the duration of the build.
//
// Building over a mesh with no triangles is a programming error and panics.
func (m *Mesh) BuildBvh() *Bvh {
	if len(m.Tris) == 0 {
		panic("scene: cannot build a BVH over a mesh with no triangles")
	}

	b := &bvhBuilder{
		logger: log.New("bvh"),
		mesh:   m,
		aux:    make([]triAux, len(m.Tris)),
		nodes:  make([]BvhNode, 0, 2*len(m.Tris)-1),
	}

	for index, tri := range m.Tris {
		v0 := m.Verts[tri[0]]
		v1 := m.Verts[tri[1]]
		v2 := m.Verts[tri[2]]
		b.aux[index] = triAux{
			min:    minVec3(v0, minVec3(v1, v2)),
			max:    maxVec3(v0, maxVec3(v1, v2)),
			center: v0.Add(v1).Add(v2).Mul(1.0 / 3.0),
			area:   v1.Sub(v0).Cross(v2.Sub(v0)).Len() * 0.5,
		}
	}

	start := time.Now()
	numTris := uint32(len(m.Tris))
	rootMin, rootMax := b.calcBounds(0, numTris)
	b.nodes = append(b.nodes, BvhNode{
		Min:   rootMin,
		Max:   rootMax,
		Left:  -1,
		Right: -1,
		Begin: 0,
		End:   numTris,
		Cost:  b.evalSah(0, numTris, 0, inf32, true),
	})
	b.split(0, 0)

	b.logger.Debugf(
		"BVH build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.maxDepth, len(b.nodes), (len(b.nodes)+1)/2,
	)

	m.Bvh = &Bvh{nodes: b.nodes}
	return m.Bvh
}

// Calculate [min, max] bounds for a range of triangles.
func (b *bvhBuilder) calcBounds(begin, end uint32) (mgl32.Vec3, mgl32.Vec3) {
	min := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	max := mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for index := begin; index < end; index++ {
		min = minVec3(min, b.aux[index].min)
		max = maxVec3(max, b.aux[index].max)
	}
	return min, max
}

// Evaluate the surface area heuristic for one side of a split candidate: the
// surface area of the bounding box of the triangles on that side, divided by
// their summed area. The ratio is non-finite when the side is empty or the
// triangles on it are degenerate, which disqualifies the candidate's axis.
func (b *bvhBuilder) evalSah(begin, end uint32, axis int, pos float32, before bool) float32 {
	min := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	max := mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	var triArea float32

	for index := begin; index < end; index++ {
		aux := &b.aux[index]
		if (aux.center[axis] < pos) == before {
			min = minVec3(min, aux.min)
			max = maxVec3(max, aux.max)
			triArea += aux.area
		}
	}

	size := max.Sub(min)
	boxArea := 2.0 * (size[0]*(size[1]+size[2]) + size[1]*size[2])
	return boxArea / triArea
}

// Get the best split position along an axis and the per-side SAH costs at
// that position. Small ranges use every triangle center as a candidate;
// larger ranges sample bvhMaxSlices evenly spaced positions spanning the node
// bounding box.
func (b *bvhBuilder) evalAxis(begin, end uint32, nodeMin, nodeMax mgl32.Vec3, axis int) (pos, costBefore, costAfter float32) {
	var points []float32
	if end-begin <= bvhMaxSlices {
		points = make([]float32, 0, end-begin)
		for index := begin; index < end; index++ {
			points = append(points, b.aux[index].center[axis])
		}
	} else {
		scale := (nodeMax[axis] - nodeMin[axis]) / bvhMaxSlices
		points = make([]float32, 0, bvhMaxSlices)
		for slice := 0; slice < bvhMaxSlices; slice++ {
			points = append(points, nodeMin[axis]+(float32(slice)+0.5)*scale)
		}
	}

	costBefore, costAfter = inf32, inf32
	for _, point := range points {
		cost0 := b.evalSah(begin, end, axis, point, true)
		cost1 := b.evalSah(begin, end, axis, point, false)
		if cost0+cost1 < costBefore+costAfter {
			pos, costBefore, costAfter = point, cost0, cost1
		}
	}
	return pos, costBefore, costAfter
}

// Recursively split the node at the given arena index.
func (b *bvhBuilder) split(nodeIndex int32, depth int) {
	if depth > b.maxDepth {
		b.maxDepth = depth
	}

	node := b.nodes[nodeIndex]
	if node.End-node.Begin <= 2*bvhMinLeafTris || depth >= bvhMaxDepth {
		return
	}

	// Evaluate how good it would be to split along each axis.
	var pos [3]float32
	var cost [3][2]float32
	var total [3]float32
	for axis := 0; axis < 3; axis++ {
		pos[axis], cost[axis][0], cost[axis][1] = b.evalAxis(node.Begin, node.End, node.Min, node.Max, axis)
		total[axis] = cost[axis][0] + cost[axis][1]
	}

	// Split along the axis with least finite cost; ties favor X, Y, Z order.
	bestAxis := -1
	for axis := 0; axis < 3; axis++ {
		if !isFinite(total[axis]) {
			continue
		}
		if bestAxis == -1 || total[axis] < total[bestAxis] {
			bestAxis = axis
		}
	}
	if bestAxis == -1 {
		return
	}

	if !b.trySplit(nodeIndex, bestAxis, pos[bestAxis], cost[bestAxis]) {
		return
	}

	// Re-read the node: trySplit appended to the arena.
	left, right := b.nodes[nodeIndex].Left, b.nodes[nodeIndex].Right
	b.split(left, depth+1)
	b.split(right, depth+1)
}

// Partition the node's triangle range at pos along the given axis, reordering
// the mesh triangles (and their auxiliary entries) in place via pairwise
// swaps, and replace the leaf with two leaf children. Returns false without
// modifying the node when every triangle center lands on the same side.
func (b *bvhBuilder) trySplit(nodeIndex int32, axis int, pos float32, cost [2]float32) bool {
	node := b.nodes[nodeIndex]

	// Index of the first triangle beyond the split position.
	midpoint := int32(-1)
	for index := int32(node.Begin); index < int32(node.End); index++ {
		if b.aux[index].center[axis] > pos {
			if midpoint == -1 {
				midpoint = index
			}
		} else if midpoint != -1 {
			// Triangle must be swapped to before the midpoint.
			b.mesh.Tris[midpoint], b.mesh.Tris[index] = b.mesh.Tris[index], b.mesh.Tris[midpoint]
			b.aux[midpoint], b.aux[index] = b.aux[index], b.aux[midpoint]
			midpoint++
		}
	}

	// An empty partition on either side cannot become two leaves.
	if midpoint == -1 || midpoint == int32(node.Begin) {
		return false
	}

	leftIndex := int32(len(b.nodes))
	lmin, lmax := b.calcBounds(node.Begin, uint32(midpoint))
	rmin, rmax := b.calcBounds(uint32(midpoint), node.End)
	b.nodes = append(b.nodes,
		BvhNode{
			Min:   lmin,
			Max:   lmax,
			Left:  -1,
			Right: -1,
			Begin: node.Begin,
			End:   uint32(midpoint),
			Cost:  cost[0],
		},
		BvhNode{
			Min:   rmin,
			Max:   rmax,
			Left:  -1,
			Right: -1,
			Begin: uint32(midpoint),
			End:   node.End,
			Cost:  cost[1],
		},
	)

	split := &b.nodes[nodeIndex]
	split.Left = leftIndex
	split.Right = leftIndex + 1
	split.Cost = 0
	return true
}

func isFinite(f float32) bool {
	f64 := float64(f)
	return !math.IsInf(f64, 0) && !math.IsNaN(f64)
}

// Calc min component from two vectors.
func minVec3(v1, v2 mgl32.Vec3) mgl32.Vec3 {
	out := v1
	if v2[0] < out[0] {
		out[0] = v2[0]
	}
	if v2[1] < out[1] {
		out[1] = v2[1]
	}
	if v2[2] < out[2] {
		out[2] = v2[2]
	}
	return out
}

// Calc max component from two vectors.
func maxVec3(v1, v2 mgl32.Vec3) mgl32.Vec3 {
	out := v1
	if v2[0] > out[0] {
		out[0] = v2[0]
	}
	if v2[1] > out[1] {
		out[1] = v2[1]
	}
	if v2[2] > out[2] {
		out[2] = v2[2]
	}
	return out
}
