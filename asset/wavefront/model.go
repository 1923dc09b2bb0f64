package wavefront

import (
	"github.com/go-gl/mathgl/mgl32"
)

// A FaceCorner references coordinates in the enclosing Model by index. The
// position index is always valid; UV and Normal are -1 when the face argument
// did not specify them.
type FaceCorner struct {
	Position int
	UV       int
	Normal   int
}

// A Face is an ordered list of polygon corners. Faces preserve the arity they
// had in the source file; consumers that only work with triangles are expected
// to skip faces of any other arity.
type Face []FaceCorner

// A Group is a named collection of faces ("o"/"g" statements).
type Group struct {
	Name  string
	Faces []Face
}

// A Model holds the raw contents of a parsed wavefront object file: the global
// coordinate arrays plus the face groups that index into them.
type Model struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Groups    []*Group
}
