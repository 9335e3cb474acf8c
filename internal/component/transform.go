package component

import "github.com/go-gl/mathgl/mgl32"

// Transform places an entity in world space.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// NewTransform returns a transform at the origin with no rotation and unit scale.
func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// At returns a default transform moved to pos.
func At(pos mgl32.Vec3) Transform {
	t := NewTransform()
	t.Position = pos
	return t
}

// FromEuler builds a transform from a position, rotation in radians about X, Y
// and Z, and a scale.
func FromEuler(pos, euler, scale mgl32.Vec3) Transform {
	return Transform{
		Position: pos,
		Rotation: mgl32.AnglesToQuat(euler[0], euler[1], euler[2], mgl32.XYZ),
		Scale:    scale,
	}
}

// Model returns translation * rotation * scale.
func (t Transform) Model() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	scale := mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	return translation.Mul4(t.Rotation.Mat4()).Mul4(scale)
}

// View returns scale * rotation * translation, the world-to-camera matrix of a
// camera carrying this transform.
func (t Transform) View() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	scale := mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	return scale.Mul4(t.Rotation.Mat4()).Mul4(translation)
}
