package gpu

import (
	"math"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/robotman2412/vlk-ray-tracer/scene"
)

// Create a mesh of two unit quads (4 triangles) with a uv channel but no
// normals or colors, with its BVH built.
func makeTestMesh() *scene.Mesh {
	mesh := &scene.Mesh{
		Tris: [][3]uint32{
			{0, 1, 2}, {0, 2, 3},
			{4, 5, 6}, {4, 6, 7},
		},
		Verts: []mgl32.Vec3{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
			{2, 0, 0}, {3, 0, 0}, {3, 1, 0}, {2, 1, 0},
		},
		VertUV: []mgl32.Vec2{
			{0, 0}, {1, 0}, {1, 1}, {0, 1},
			{0, 0}, {1, 0}, {1, 1}, {0, 1},
		},
	}
	mesh.BuildBvh()
	return mesh
}

// Create a mesh of numQuads unit quads spaced out along the X axis, with its
// BVH built.
func makeStripMesh(numQuads int) *scene.Mesh {
	mesh := &scene.Mesh{}
	for q := 0; q < numQuads; q++ {
		x := float32(q) * 2.0
		base := uint32(len(mesh.Verts))
		mesh.Verts = append(mesh.Verts,
			mgl32.Vec3{x, 0, 0}, mgl32.Vec3{x + 1, 0, 0},
			mgl32.Vec3{x + 1, 1, 0}, mgl32.Vec3{x, 1, 0},
		)
		mesh.Tris = append(mesh.Tris,
			[3]uint32{base, base + 1, base + 2},
			[3]uint32{base, base + 2, base + 3},
		)
	}
	mesh.BuildBvh()
	return mesh
}

func TestFlattenEmptyScene(t *testing.T) {
	sd := Flatten(scene.NewScene())

	if sd.ObjectCount != 0 {
		t.Fatalf("expected object count 0; got %d", sd.ObjectCount)
	}
	if len(sd.Objects) != 1 || sd.Objects[0] != (GpuObject{}) {
		t.Fatalf("expected a single placeholder object record; got %d", len(sd.Objects))
	}
	if len(sd.Meshes) != 1 || len(sd.Tris) != 1 || len(sd.Verts) != 1 ||
		len(sd.Norms) != 1 || len(sd.Vcols) != 1 || len(sd.UVs) != 1 || len(sd.Bvh) != 1 {
		t.Fatalf("expected every buffer to be padded to 1 record; got meshes=%d tris=%d verts=%d norms=%d vcols=%d uvs=%d bvh=%d",
			len(sd.Meshes), len(sd.Tris), len(sd.Verts), len(sd.Norms), len(sd.Vcols), len(sd.UVs), len(sd.Bvh))
	}
}

func TestFlattenMeshSharing(t *testing.T) {
	mesh := makeTestMesh()
	sc := scene.NewScene()
	sc.AddNode(scene.NewModelNode(scene.IdentityTransform(), scene.MeshModel(mesh), scene.PropFromColor(mgl32.Vec3{1, 1, 1})))
	sc.AddNode(scene.NewModelNode(scene.NewTransform(mgl32.Translate3D(5, 0, 0)), scene.MeshModel(mesh), scene.PropFromColor(mgl32.Vec3{1, 0, 0})))

	sd := Flatten(sc)

	if sd.ObjectCount != 2 {
		t.Fatalf("expected 2 objects; got %d", sd.ObjectCount)
	}
	if len(sd.Meshes) != 1 {
		t.Fatalf("expected the shared mesh to be flattened once; got %d mesh records", len(sd.Meshes))
	}
	if sd.Objects[0].ModelIndex != sd.Objects[1].ModelIndex {
		t.Fatalf("expected both objects to reference the same mesh; got %d and %d",
			sd.Objects[0].ModelIndex, sd.Objects[1].ModelIndex)
	}
	if len(sd.Tris) != len(mesh.Tris) {
		t.Fatalf("expected %d triangle records; got %d", len(mesh.Tris), len(sd.Tris))
	}
}

func TestFlattenIdempotent(t *testing.T) {
	mesh := makeTestMesh()
	sc := scene.NewScene()
	root := sc.AddNode(scene.NewNode())
	root.AddChild(scene.NewModelNode(scene.IdentityTransform(), scene.MeshModel(mesh), scene.PropFromColor(mgl32.Vec3{1, 1, 1})))
	root.AddChild(scene.NewModelNode(scene.IdentityTransform(), scene.SphereModel(), scene.PropFromEmission(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{4, 4, 4})))

	first := Flatten(sc)
	second := Flatten(sc)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected flattening the same scene twice to produce identical buffers")
	}
}

func TestFlattenTransformComposition(t *testing.T) {
	// A translates by (1,0,0), B rotates 90 degrees about Z, C carries a
	// sphere. C's world transform must map local origin to (1,0,0) and the
	// local +X axis to world +Y.
	a := scene.NewNode()
	a.Transform = scene.NewTransform(mgl32.Translate3D(1, 0, 0))
	b := scene.NewNode()
	b.Transform = scene.NewTransform(mgl32.HomogRotate3DZ(math.Pi / 2))
	c := scene.NewModelNode(scene.IdentityTransform(), scene.SphereModel(), scene.PropFromColor(mgl32.Vec3{1, 1, 1}))

	sc := scene.NewScene()
	sc.AddNode(a).AddChild(b).AddChild(c)

	sd := Flatten(sc)
	if sd.ObjectCount != 1 {
		t.Fatalf("expected 1 object; got %d", sd.ObjectCount)
	}

	matrix := sd.Objects[0].Transform.Matrix
	origin := matrix.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !origin.ApproxEqualThreshold(mgl32.Vec4{1, 0, 0, 1}, 1e-5) {
		t.Fatalf("expected local origin to map to (1, 0, 0); got %v", origin)
	}
	xAxis := matrix.Mul4x1(mgl32.Vec4{1, 0, 0, 0})
	if !xAxis.ApproxEqualThreshold(mgl32.Vec4{0, 1, 0, 0}, 1e-5) {
		t.Fatalf("expected local +X to map to world +Y; got %v", xAxis)
	}

	inv := sd.Objects[0].Transform.InvMatrix
	if !matrix.Mul4(inv).ApproxEqualThreshold(mgl32.Ident4(), 1e-5) {
		t.Fatalf("expected the emitted inverse to invert the emitted matrix")
	}
}

func TestFlattenModelessNodePropagatesTransform(t *testing.T) {
	// A node without a model emits no object but still positions children.
	holder := scene.NewNode()
	holder.Transform = scene.NewTransform(mgl32.Translate3D(0, 3, 0))
	holder.AddChild(scene.NewModelNode(scene.IdentityTransform(), scene.PlaneModel(), scene.PropFromColor(mgl32.Vec3{1, 1, 1})))

	sc := scene.NewScene()
	sc.AddNode(holder)

	sd := Flatten(sc)
	if sd.ObjectCount != 1 {
		t.Fatalf("expected only the plane to emit an object; got %d", sd.ObjectCount)
	}
	if sd.Objects[0].ModelType != ModelTypePlane {
		t.Fatalf("expected model type %d; got %d", ModelTypePlane, sd.Objects[0].ModelType)
	}
	origin := sd.Objects[0].Transform.Matrix.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !origin.ApproxEqualThreshold(mgl32.Vec4{0, 3, 0, 1}, 1e-5) {
		t.Fatalf("expected the holder transform to apply to the child; got %v", origin)
	}
}

func TestFlattenMeshOffsets(t *testing.T) {
	mesh := makeTestMesh()
	sc := scene.NewScene()
	sc.AddNode(scene.NewModelNode(scene.IdentityTransform(), scene.MeshModel(mesh), scene.PropFromColor(mgl32.Vec3{1, 1, 1})))

	sd := Flatten(sc)

	gm := sd.Meshes[0]
	if gm.NumTris != 4 {
		t.Fatalf("expected 4 triangles; got %d", gm.NumTris)
	}
	if gm.TriOffset != 0 || gm.VertOffset != 0 || gm.BvhOffset != 0 || gm.UVOffset != 0 {
		t.Fatalf("expected zero offsets for the only mesh; got %#v", gm)
	}
	if gm.NormOffset != MissingChannel || gm.VcolOffset != MissingChannel {
		t.Fatalf("expected sentinel offsets for absent channels; got norm=%d vcol=%d", gm.NormOffset, gm.VcolOffset)
	}

	// Absent channels are padded, present ones match the vertex count.
	if len(sd.Norms) != 1 || len(sd.Vcols) != 1 {
		t.Fatalf("expected absent channels padded to 1 record; got norms=%d vcols=%d", len(sd.Norms), len(sd.Vcols))
	}
	if len(sd.Verts) != 8 || len(sd.UVs) != 8 {
		t.Fatalf("expected 8 vertex and uv records; got %d and %d", len(sd.Verts), len(sd.UVs))
	}
}

func TestFlattenTriangleRenumbering(t *testing.T) {
	first := makeTestMesh()
	second := makeTestMesh()

	sc := scene.NewScene()
	sc.AddNode(scene.NewModelNode(scene.IdentityTransform(), scene.MeshModel(first), scene.PropFromColor(mgl32.Vec3{1, 1, 1})))
	sc.AddNode(scene.NewModelNode(scene.IdentityTransform(), scene.MeshModel(second), scene.PropFromColor(mgl32.Vec3{1, 1, 1})))

	sd := Flatten(sc)

	if len(sd.Meshes) != 2 {
		t.Fatalf("expected 2 distinct mesh records; got %d", len(sd.Meshes))
	}
	gm := sd.Meshes[1]
	if gm.TriOffset != 4 || gm.VertOffset != 8 {
		t.Fatalf("expected the second mesh at tri offset 4 and vert offset 8; got %d and %d", gm.TriOffset, gm.VertOffset)
	}

	// Second mesh triangle indices must land in its own vertex range.
	for index := gm.TriOffset; index < gm.TriOffset+gm.NumTris; index++ {
		for _, corner := range sd.Tris[index].Index {
			if corner < gm.VertOffset || corner >= gm.VertOffset+8 {
				t.Fatalf("expected triangle %d corners in [%d, %d); got %d", index, gm.VertOffset, gm.VertOffset+8, corner)
			}
		}
	}
}

func TestFlattenBvhRebasing(t *testing.T) {
	// Strip meshes with 6 triangles so each BVH splits at least once.
	first := makeStripMesh(3)
	second := makeStripMesh(3)

	sc := scene.NewScene()
	sc.AddNode(scene.NewModelNode(scene.IdentityTransform(), scene.MeshModel(first), scene.PropFromColor(mgl32.Vec3{1, 1, 1})))
	sc.AddNode(scene.NewModelNode(scene.IdentityTransform(), scene.MeshModel(second), scene.PropFromColor(mgl32.Vec3{1, 1, 1})))

	sd := Flatten(sc)

	interiorCount := 0
	for meshIndex, gm := range sd.Meshes {
		end := uint32(len(sd.Bvh))
		if meshIndex+1 < len(sd.Meshes) {
			end = sd.Meshes[meshIndex+1].BvhOffset
		}
		for nodeIndex := gm.BvhOffset; nodeIndex < end; nodeIndex++ {
			node := sd.Bvh[nodeIndex]
			if node.TriCount > 0 {
				// Leaf ranges must land in the mesh's triangle range.
				if node.Children < gm.TriOffset || node.Children+node.TriCount > gm.TriOffset+gm.NumTris {
					t.Fatalf("expected leaf range [%d, %d) inside [%d, %d)",
						node.Children, node.Children+node.TriCount, gm.TriOffset, gm.TriOffset+gm.NumTris)
				}
			} else {
				interiorCount++
				// Interior child links must land in the mesh's node range.
				if node.Children <= nodeIndex || node.Children+1 >= end {
					t.Fatalf("expected children %d and %d inside (%d, %d)", node.Children, node.Children+1, nodeIndex, end)
				}
			}
		}
	}
	if interiorCount == 0 {
		t.Fatalf("expected at least one interior node")
	}
}

func TestFlattenSkybox(t *testing.T) {
	sc := scene.NewScene()
	sc.Skybox = scene.Skybox{
		GroundColor:  mgl32.Vec3{1, 2, 3},
		SunDirection: mgl32.Vec3{0, -1, 0},
		SunRadius:    0.5,
	}

	sd := Flatten(sc)
	if sd.Skybox.GroundColor != (mgl32.Vec4{1, 2, 3, 0}) {
		t.Fatalf("expected ground color (1, 2, 3, 0); got %v", sd.Skybox.GroundColor)
	}
	if sd.Skybox.SunDirection != (mgl32.Vec3{0, -1, 0}) || sd.Skybox.SunRadius != 0.5 {
		t.Fatalf("expected sun direction and radius to carry over; got %v, %v", sd.Skybox.SunDirection, sd.Skybox.SunRadius)
	}
}
