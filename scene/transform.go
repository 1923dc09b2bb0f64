package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// A Transform carries an object-to-world matrix together with its precomputed
// inverse. The inverse is required for every ray test (rays are transformed
// into object-local space) so it is cached instead of recomputed.
type Transform struct {
	matrix    mgl32.Mat4
	invMatrix mgl32.Mat4
}

// Create a transform from a matrix, caching its inverse.
func NewTransform(matrix mgl32.Mat4) Transform {
	return Transform{
		matrix:    matrix,
		invMatrix: matrix.Inv(),
	}
}

// Create an identity transform.
func IdentityTransform() Transform {
	return NewTransform(mgl32.Ident4())
}

// Get the object-to-world matrix.
func (t *Transform) Matrix() mgl32.Mat4 {
	return t.matrix
}

// Get the world-to-object matrix.
func (t *Transform) InvMatrix() mgl32.Mat4 {
	return t.invMatrix
}

// Replace the matrix, recalculating the cached inverse.
func (t *Transform) SetMatrix(matrix mgl32.Mat4) {
	t.matrix = matrix
	t.invMatrix = matrix.Inv()
}
