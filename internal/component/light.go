package component

import "github.com/go-gl/mathgl/mgl32"

type Light struct {
	KDiffuse mgl32.Vec3
}

// PointLight is positioned by the entity's Transform.
type PointLight struct {
	Light
	Intensity float32
	FallOff   float32
}

func NewPointLight(colour mgl32.Vec3) PointLight {
	return PointLight{Light: Light{KDiffuse: colour}, Intensity: 1, FallOff: 5}
}
