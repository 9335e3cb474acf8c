package component

import "github.com/go-gl/mathgl/mgl32"

// CameraMatrices caches the matrices CameraSystem derives each frame.
type CameraMatrices struct {
	VP         mgl32.Mat4
	Projection mgl32.Mat4
	View       mgl32.Mat4
}

func NewCameraMatrices() CameraMatrices {
	return CameraMatrices{
		VP:         mgl32.Ident4(),
		Projection: mgl32.Ident4(),
		View:       mgl32.Ident4(),
	}
}

// Camera holds the perspective parameters. FovY is in radians.
type Camera struct {
	FovY  float32
	ZNear float32
	ZFar  float32
}

func NewCamera() Camera {
	return Camera{FovY: 0.46, ZNear: 0.1, ZFar: 50}
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(c.FovY, aspect, c.ZNear, c.ZFar)
}

// CameraController drives a first-person camera from mouse and keyboard.
type CameraController struct {
	HorizontalAngle float32
	VerticalAngle   float32
	MouseSpeed      float32
	MoveSpeed       float32
}

func NewCameraController() CameraController {
	return CameraController{MouseSpeed: 0.005, MoveSpeed: 1}
}
