package gpu

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/robotman2412/vlk-ray-tracer/log"
	"github.com/robotman2412/vlk-ray-tracer/scene"
)

// SceneData is the flattened, GPU-ready form of a scene: a set of contiguous
// offset-indexed arrays plus the skybox record. Every buffer holds at least
// one record; when a traversal produces no data for a buffer it is padded
// with a single zero-valued placeholder so the shader-side bindings are never
// zero-sized. ObjectCount counts real objects and excludes the placeholder.
type SceneData struct {
	Objects []GpuObject
	Meshes  []GpuMesh
	Tris    []GpuTriangle
	Verts   []mgl32.Vec4
	Norms   []mgl32.Vec4
	Vcols   []mgl32.Vec4
	UVs     []mgl32.Vec4
	Bvh     []GpuBvhNode
	Skybox  GpuSkybox

	ObjectCount uint32
}

type flattener struct {
	logger log.Logger
	out    *SceneData

	// Maps each distinct mesh to its entry in the mesh list, so meshes
	// shared between nodes are flattened exactly once. Keyed by pointer
	// identity, not content.
	meshCache map[*scene.Mesh]uint32
}

// Flatten a scene into the buffer layout the tracer shader traverses. The
// scene graph is walked once, depth-first, composing transforms parent-first;
// the scene itself is not modified.
func Flatten(sc *scene.Scene) *SceneData {
	fl := &flattener{
		logger:    log.New("flatten"),
		out:       &SceneData{Skybox: gpuSkybox(sc.Skybox)},
		meshCache: make(map[*scene.Mesh]uint32),
	}

	start := time.Now()
	for _, node := range sc.Nodes {
		fl.flattenNode(node, mgl32.Ident4())
	}
	fl.out.ObjectCount = uint32(len(fl.out.Objects))
	fl.padEmptyBuffers()

	fl.logger.Noticef(
		"flattened scene in %d ms (%d objects, %d meshes, %d tris)",
		time.Since(start).Nanoseconds()/1e6,
		fl.out.ObjectCount, len(fl.meshCache), len(fl.out.Tris),
	)
	return fl.out
}

// Emit the object for one node, if it has a model, and recurse into its
// children. parentMatrix is the composed transform of every ancestor.
func (fl *flattener) flattenNode(node *scene.Node, parentMatrix mgl32.Mat4) {
	matrix := parentMatrix.Mul4(node.Transform.Matrix())

	if node.Model.Type != scene.ModelNone {
		var modelType, modelIndex uint32
		switch node.Model.Type {
		case scene.ModelSphere:
			modelType = ModelTypeSphere
		case scene.ModelPlane:
			modelType = ModelTypePlane
		case scene.ModelMesh:
			modelType = ModelTypeMesh
			modelIndex = fl.flattenMesh(node.Model.Mesh)
		}

		fl.out.Objects = append(fl.out.Objects, GpuObject{
			Transform: GpuTransform{
				Matrix:    matrix,
				InvMatrix: matrix.Inv(),
			},
			Prop:       gpuPhysProp(node.Prop),
			ModelType:  modelType,
			ModelIndex: modelIndex,
		})
	}

	for _, child := range node.Children {
		fl.flattenNode(child, matrix)
	}
}

// Append a mesh's triangles, vertex channels and BVH to the shared buffers
// and return its index in the mesh list. A mesh already flattened during this
// pass is returned from the cache without emitting anything.
func (fl *flattener) flattenMesh(mesh *scene.Mesh) uint32 {
	if index, exists := fl.meshCache[mesh]; exists {
		return index
	}

	out := fl.out
	gm := GpuMesh{
		NumTris:    uint32(len(mesh.Tris)),
		BvhOffset:  MissingChannel,
		TriOffset:  uint32(len(out.Tris)),
		VertOffset: uint32(len(out.Verts)),
		NormOffset: MissingChannel,
		VcolOffset: MissingChannel,
		UVOffset:   MissingChannel,
	}

	// Triangle corner indices are renumbered from mesh-local to positions
	// in the shared vertex buffer.
	vertBase := uint32(len(out.Verts))
	for _, tri := range mesh.Tris {
		out.Tris = append(out.Tris, GpuTriangle{
			Index: [3]uint32{tri[0] + vertBase, tri[1] + vertBase, tri[2] + vertBase},
		})
	}

	for _, vert := range mesh.Verts {
		out.Verts = append(out.Verts, vert.Vec4(0))
	}
	if mesh.Normals != nil {
		gm.NormOffset = uint32(len(out.Norms))
		for _, norm := range mesh.Normals {
			out.Norms = append(out.Norms, norm.Vec4(0))
		}
	}
	if mesh.VertCols != nil {
		gm.VcolOffset = uint32(len(out.Vcols))
		for _, col := range mesh.VertCols {
			out.Vcols = append(out.Vcols, col.Vec4(0))
		}
	}
	if mesh.VertUV != nil {
		gm.UVOffset = uint32(len(out.UVs))
		for _, uv := range mesh.VertUV {
			out.UVs = append(out.UVs, mgl32.Vec4{uv[0], uv[1], 0, 0})
		}
	}

	if mesh.Bvh != nil {
		gm.BvhOffset = uint32(len(out.Bvh))
		fl.flattenBvh(mesh.Bvh, gm.TriOffset, gm.BvhOffset)
	}

	index := uint32(len(out.Meshes))
	out.Meshes = append(out.Meshes, gm)
	fl.meshCache[mesh] = index
	return index
}

// Append a mesh's BVH arena to the shared node buffer. Leaf ranges are
// rebased by the mesh's position in the shared triangle buffer and interior
// child links by the arena's position in the shared node buffer. Child nodes
// are allocated adjacently during the build, so only the first child index is
// stored.
func (fl *flattener) flattenBvh(bvh *scene.Bvh, triBase, nodeBase uint32) {
	for _, node := range bvh.Nodes() {
		gn := GpuBvhNode{
			Min: node.Min.Vec4(0),
			Max: node.Max.Vec4(0),
		}
		if node.IsLeaf() {
			gn.Children = triBase + node.Begin
			gn.TriCount = node.End - node.Begin
		} else {
			if node.Right != node.Left+1 {
				panic(fmt.Sprintf("gpu: BVH children not adjacent (left %d, right %d)", node.Left, node.Right))
			}
			gn.Children = nodeBase + uint32(node.Left)
			gn.TriCount = 0
		}
		fl.out.Bvh = append(fl.out.Bvh, gn)
	}
}

// Append one zero-valued record to every buffer that ended up empty. The
// graphics API refuses zero-length buffer bindings, so even a scene with no
// geometry must produce a full buffer set.
func (fl *flattener) padEmptyBuffers() {
	out := fl.out
	if len(out.Objects) == 0 {
		out.Objects = append(out.Objects, GpuObject{})
	}
	if len(out.Meshes) == 0 {
		out.Meshes = append(out.Meshes, GpuMesh{})
	}
	if len(out.Tris) == 0 {
		out.Tris = append(out.Tris, GpuTriangle{})
	}
	if len(out.Verts) == 0 {
		out.Verts = append(out.Verts, mgl32.Vec4{})
	}
	if len(out.Norms) == 0 {
		out.Norms = append(out.Norms, mgl32.Vec4{})
	}
	if len(out.Vcols) == 0 {
		out.Vcols = append(out.Vcols, mgl32.Vec4{})
	}
	if len(out.UVs) == 0 {
		out.UVs = append(out.UVs, mgl32.Vec4{})
	}
	if len(out.Bvh) == 0 {
		out.Bvh = append(out.Bvh, GpuBvhNode{})
	}
}
