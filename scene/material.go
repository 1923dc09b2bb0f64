package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PhysProp describes the physical surface properties of a renderable object.
type PhysProp struct {
	// Index of refraction.
	IOR float32

	// Opacity in the [0, 1] range; 0 is fully transmissive.
	Opacity float32

	// Surface roughness in the [0, 1] range; 0 is a perfect mirror.
	Roughness float32

	// Base color.
	Color mgl32.Vec3

	// Emitted light.
	Emission mgl32.Vec3
}

// Create properties for a plain diffuse surface with the given color.
func PropFromColor(color mgl32.Vec3) PhysProp {
	return PhysProp{
		IOR:       1.0,
		Opacity:   1.0,
		Roughness: 1.0,
		Color:     color,
	}
}

// Create properties for a partially transmissive surface.
func PropFromOpacity(color mgl32.Vec3, opacity float32) PhysProp {
	return PhysProp{
		IOR:       1.0,
		Opacity:   opacity,
		Roughness: 1.0,
		Color:     color,
	}
}

// Create properties for a light-emitting surface.
func PropFromEmission(color mgl32.Vec3, emission mgl32.Vec3) PhysProp {
	return PhysProp{
		IOR:       1.0,
		Opacity:   1.0,
		Roughness: 1.0,
		Color:     color,
		Emission:  emission,
	}
}
