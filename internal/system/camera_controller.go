package system

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/renderpipeline/engine/internal/component"
	"github.com/renderpipeline/engine/internal/core/ecs"
	coresys "github.com/renderpipeline/engine/internal/core/system"
	"github.com/renderpipeline/engine/internal/platform"
)

// CameraControllerSystem flies controlled cameras while the right mouse button
// is held: the cursor offset steers, WASD/arrows move, space and left ctrl
// move vertically. Phase 1 (Input).
type CameraControllerSystem struct {
	ecs.Base
	input platform.Input
}

func NewCameraControllerSystem(input platform.Input) *CameraControllerSystem {
	return &CameraControllerSystem{input: input}
}

func (s *CameraControllerSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *CameraControllerSystem) Update(dt time.Duration) {
	if !s.input.ButtonDown(platform.BtnRight) {
		return
	}
	x, y := s.input.CursorPos()
	s.input.SetCursorPos(0, 0)

	tick := float32(dt.Seconds())
	dir := s.Directory()
	for e := range s.Entities().All() {
		cc := ecs.MustGet[component.CameraController](dir, e)
		tr := ecs.MustGet[component.Transform](dir, e)

		cc.HorizontalAngle += cc.MouseSpeed * tick * float32(-x)
		cc.VerticalAngle += cc.MouseSpeed * tick * float32(y)

		direction, right, up := cameraAxes(cc.HorizontalAngle, cc.VerticalAngle)
		tr.Rotation = mgl32.QuatRotate(-cc.VerticalAngle, right).Mul(mgl32.QuatRotate(-cc.HorizontalAngle, up))

		step := tick * cc.MoveSpeed
		if s.anyKey(platform.KeyUp, platform.KeyW) {
			tr.Position = tr.Position.Add(direction.Mul(step))
		}
		if s.anyKey(platform.KeyDown, platform.KeyS) {
			tr.Position = tr.Position.Sub(direction.Mul(step))
		}
		if s.anyKey(platform.KeyRight, platform.KeyD) {
			tr.Position = tr.Position.Add(right.Mul(step))
		}
		if s.anyKey(platform.KeyLeft, platform.KeyA) {
			tr.Position = tr.Position.Sub(right.Mul(step))
		}
		// The eye sits at -Position, so raising Y lowers the camera.
		if s.input.KeyDown(platform.KeySpace) {
			tr.Position[1] -= step
		}
		if s.input.KeyDown(platform.KeyLCtrl) {
			tr.Position[1] += step
		}
	}
}

func (s *CameraControllerSystem) anyKey(keys ...platform.Key) bool {
	for _, k := range keys {
		if s.input.KeyDown(k) {
			return true
		}
	}
	return false
}

// cameraAxes returns the local forward, right and up axes for a yaw
// (horizontal) and pitch (vertical) in radians.
func cameraAxes(horizontal, vertical float32) (direction, right, up mgl32.Vec3) {
	h, v := float64(horizontal), float64(vertical)
	direction = mgl32.Vec3{
		float32(math.Cos(v) * math.Sin(h)),
		float32(math.Sin(v)),
		float32(math.Cos(v) * math.Cos(h)),
	}
	right = mgl32.Vec3{
		float32(math.Sin(h - math.Pi/2)),
		0,
		float32(math.Cos(h - math.Pi/2)),
	}
	up = right.Cross(direction).Normalize()
	return direction, right, up
}
