package gpu

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/robotman2412/vlk-ray-tracer/scene"
)

// On-GPU model type tags.
const (
	ModelTypeSphere uint32 = iota
	ModelTypePlane
	ModelTypeMesh
)

// Sentinel offset for a vertex channel the mesh does not carry.
const MissingChannel uint32 = 0xFFFFFFFF

// On-GPU representation of an object's transform. Matrices are stored
// column-major, matching both mgl32 and the shader-side layout.
type GpuTransform struct {
	Matrix    mgl32.Mat4
	InvMatrix mgl32.Mat4
}

// On-GPU representation of an object's physical properties. Vec3 fields are
// widened to Vec4 for 16-byte alignment.
type GpuPhysProp struct {
	IOR       float32
	Opacity   float32
	Roughness float32
	_         float32

	Color    mgl32.Vec4
	Emission mgl32.Vec4
}

// On-GPU representation of one renderable scene node. The transform is the
// node's composed world transform. ModelIndex indexes the mesh list for mesh
// models and is 0 otherwise.
type GpuObject struct {
	Transform GpuTransform
	Prop      GpuPhysProp

	ModelType  uint32
	ModelIndex uint32
	_          [2]uint32
}

// On-GPU representation of a mesh: a triangle count plus offsets into the
// shared flattened buffers. Channel offsets are MissingChannel when the mesh
// does not carry that channel.
type GpuMesh struct {
	NumTris    uint32
	BvhOffset  uint32
	TriOffset  uint32
	VertOffset uint32
	NormOffset uint32
	VcolOffset uint32
	UVOffset   uint32
	_          uint32
}

// On-GPU triangle; corner indices into the shared vertex buffer.
type GpuTriangle struct {
	Index [3]uint32
	_     uint32
}

// On-GPU representation of one BVH node. TriCount is 0 for interior nodes,
// where Children indexes the first of two adjacent child nodes; for leaves
// TriCount is the range length and Children is the range start in the shared
// triangle buffer.
type GpuBvhNode struct {
	Min mgl32.Vec4
	Max mgl32.Vec4

	Children uint32
	TriCount uint32
	_        [2]uint32
}

// On-GPU representation of a skybox. SunDirection and SunRadius pack into a
// single 16-byte slot.
type GpuSkybox struct {
	GroundColor  mgl32.Vec4
	HorizonColor mgl32.Vec4
	SkyColor     mgl32.Vec4
	SunColor     mgl32.Vec4

	SunDirection mgl32.Vec3
	SunRadius    float32
}

func gpuTransform(t scene.Transform) GpuTransform {
	return GpuTransform{
		Matrix:    t.Matrix(),
		InvMatrix: t.InvMatrix(),
	}
}

func gpuPhysProp(p scene.PhysProp) GpuPhysProp {
	return GpuPhysProp{
		IOR:       p.IOR,
		Opacity:   p.Opacity,
		Roughness: p.Roughness,
		Color:     p.Color.Vec4(0),
		Emission:  p.Emission.Vec4(0),
	}
}

func gpuSkybox(s scene.Skybox) GpuSkybox {
	return GpuSkybox{
		GroundColor:  s.GroundColor.Vec4(0),
		HorizonColor: s.HorizonColor.Vec4(0),
		SkyColor:     s.SkyColor.Vec4(0),
		SunColor:     s.SunColor.Vec4(0),
		SunDirection: s.SunDirection,
		SunRadius:    s.SunRadius,
	}
}
