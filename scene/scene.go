package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// A Skybox provides the radiance for rays that escape all scene geometry.
type Skybox struct {
	// Ground color.
	GroundColor mgl32.Vec3

	// Horizon color.
	HorizonColor mgl32.Vec3

	// Sky color.
	SkyColor mgl32.Vec3

	// Sun color.
	SunColor mgl32.Vec3

	// Unit vector pointing at the sun.
	SunDirection mgl32.Vec3

	// Dot product threshold for a ray to be pointing at the sun.
	SunRadius float32
}

// Create a sky with a brown ground, blue sky and a slightly yellow sun.
func DefaultSkybox() Skybox {
	return Skybox{
		GroundColor:  mgl32.Vec3{0.3, 0.15, 0.075},
		HorizonColor: mgl32.Vec3{0.7, 0.9, 1.0},
		SkyColor:     mgl32.Vec3{0.0, 0.7, 0.8},
		SunColor:     mgl32.Vec3{2.0, 2.0, 1.4},
		SunDirection: mgl32.Vec3{0.577350269, -0.577350269, -0.577350269},
		SunRadius:    0.8,
	}
}

// Create an all-black sky.
func EmptySkybox() Skybox {
	return Skybox{
		SunDirection: mgl32.Vec3{0, -1, 0},
		SunRadius:    1.0,
	}
}

// A Scene is a list of root nodes plus the skybox that backs them.
type Scene struct {
	Nodes  []*Node
	Skybox Skybox
}

// Create an empty scene with the default skybox.
func NewScene() *Scene {
	return &Scene{
		Nodes:  make([]*Node, 0),
		Skybox: DefaultSkybox(),
	}
}

// Append a root-level node.
func (sc *Scene) AddNode(node *Node) *Node {
	sc.Nodes = append(sc.Nodes, node)
	return node
}
