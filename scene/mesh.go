package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/robotman2412/vlk-ray-tracer/asset/wavefront"
)

// A Mesh owns the triangle and vertex data for one imported model group.
// Triangle entries index into Verts; the optional per-vertex channels, when
// present, hold exactly one entry per vertex. A mesh is immutable after
// construction except for BVH attachment, which physically reorders the
// triangle array; meshes are shared by reference between scene nodes and must
// not be mutated while shared.
type Mesh struct {
	// Triangle corner indices into Verts.
	Tris [][3]uint32

	// Vertex positions.
	Verts []mgl32.Vec3

	// Optional vertex normals.
	Normals []mgl32.Vec3

	// Optional vertex colors.
	VertCols []mgl32.Vec3

	// Optional vertex UV coordinates.
	VertUV []mgl32.Vec2

	// Bounding volume hierarchy; nil until BuildBvh is called.
	Bvh *Bvh
}

// A polygon corner used to deduplicate vertices during mesh construction.
// Two corners are the same vertex iff all three source indices match.
type polyCorner struct {
	pos    int
	uv     int
	normal int
}

// Create a mesh from a group of a parsed wavefront model. Corners that share
// all of their position/uv/normal source indices are merged into a single
// vertex. Polygons with other than 3 corners are skipped.
func NewMeshFromGroup(model *wavefront.Model, group *wavefront.Group) *Mesh {
	tris := make([][3]uint32, 0, len(group.Faces))
	cornerIndex := make(map[polyCorner]uint32)
	corners := make([]polyCorner, 0)
	useNorm := false
	useUV := false

	dedupCorner := func(fc wavefront.FaceCorner) uint32 {
		corner := polyCorner{pos: fc.Position, uv: fc.UV, normal: fc.Normal}
		useNorm = useNorm || corner.normal >= 0
		useUV = useUV || corner.uv >= 0

		if index, exists := cornerIndex[corner]; exists {
			return index
		}
		index := uint32(len(corners))
		cornerIndex[corner] = index
		corners = append(corners, corner)
		return index
	}

	for _, face := range group.Faces {
		if len(face) != 3 {
			continue
		}
		tris = append(tris, [3]uint32{
			dedupCorner(face[0]),
			dedupCorner(face[1]),
			dedupCorner(face[2]),
		})
	}

	mesh := &Mesh{
		Tris:  tris,
		Verts: make([]mgl32.Vec3, len(corners)),
	}
	for index, corner := range corners {
		mesh.Verts[index] = model.Positions[corner.pos]
	}

	if useNorm {
		mesh.Normals = make([]mgl32.Vec3, len(corners))
		for index, corner := range corners {
			if corner.normal >= 0 {
				mesh.Normals[index] = model.Normals[corner.normal]
			}
		}
	}
	if useUV {
		mesh.VertUV = make([]mgl32.Vec2, len(corners))
		for index, corner := range corners {
			if corner.uv >= 0 {
				mesh.VertUV[index] = model.UVs[corner.uv]
			}
		}
	}

	return mesh
}
