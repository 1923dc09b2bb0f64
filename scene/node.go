package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// The type of model attached to a scene node.
type ModelType uint8

const (
	// The node carries no renderable geometry; it only positions its children.
	ModelNone ModelType = iota

	// A unit sphere centered on the node origin.
	ModelSphere

	// A unit plane on the node's local XY axes.
	ModelPlane

	// A triangle mesh shared through a *Mesh reference.
	ModelMesh
)

// A Model is a closed variant over the renderable geometry a node can carry.
// Mesh is set if and only if Type is ModelMesh.
type Model struct {
	Type ModelType
	Mesh *Mesh
}

// Create a sphere model.
func SphereModel() Model {
	return Model{Type: ModelSphere}
}

// Create a plane model.
func PlaneModel() Model {
	return Model{Type: ModelPlane}
}

// Create a model referencing the given mesh. The mesh may be shared between
// any number of nodes.
func MeshModel(mesh *Mesh) Model {
	return Model{Type: ModelMesh, Mesh: mesh}
}

// A Node is one element of the scene graph: a local transform, owned child
// nodes, an optional model and the physical properties that apply to it. The
// world transform of a node is the product of its ancestors' transforms
// (ancestor first) with its own.
type Node struct {
	Transform Transform
	Children  []*Node
	Model     Model
	Prop      PhysProp
}

// Create a model-less node with an identity transform.
func NewNode() *Node {
	return &Node{
		Transform: IdentityTransform(),
		Prop:      PropFromColor(mgl32.Vec3{1, 1, 1}),
	}
}

// Create a node carrying the given model and properties.
func NewModelNode(transform Transform, model Model, prop PhysProp) *Node {
	return &Node{
		Transform: transform,
		Model:     model,
		Prop:      prop,
	}
}

// Append a child node.
func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}
