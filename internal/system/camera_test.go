package system

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/renderpipeline/engine/internal/component"
	"github.com/renderpipeline/engine/internal/core/ecs"
	"github.com/renderpipeline/engine/internal/platform"
)

func TestCameraSystem(t *testing.T) {
	f := newFixture(t)
	cam := f.camera(t, mgl32.Vec3{0, 0, -5})
	dir := f.d.Components()

	f.cameras.Init()
	mat := ecs.MustGet[component.CameraMatrices](dir, cam)
	wantP := mgl32.Perspective(0.46, 16.0/9.0, 0.1, 50)
	if !mat.Projection.ApproxEqual(wantP) {
		t.Fatalf("Init projection\nhave %v\nwant %v", mat.Projection, wantP)
	}
	if !mat.View.ApproxEqual(mgl32.Ident4()) {
		t.Fatal("Init touched the view matrix")
	}

	f.cameras.Update(time.Millisecond)
	wantV := mgl32.Translate3D(0, 0, -5)
	if !mat.View.ApproxEqual(wantV) {
		t.Fatalf("view\nhave %v\nwant %v", mat.View, wantV)
	}
	if !mat.VP.ApproxEqual(wantP.Mul4(wantV)) {
		t.Fatalf("vp\nhave %v\nwant %v", mat.VP, wantP.Mul4(wantV))
	}

	f.cameras.SetAspect(1)
	f.cameras.Update(time.Millisecond)
	if !mat.Projection.ApproxEqual(mgl32.Perspective(0.46, 1, 0.1, 50)) {
		t.Fatal("SetAspect not applied")
	}
}

func TestCameraControllerIdle(t *testing.T) {
	f := newFixture(t)
	cam := f.camera(t, mgl32.Vec3{})
	f.input.Press(platform.KeyW)
	f.input.SetCursorPos(50, 50)

	f.control.Update(time.Second)
	tr := ecs.MustGet[component.Transform](f.d.Components(), cam)
	if tr.Position != (mgl32.Vec3{}) {
		t.Fatalf("camera moved without the right button: %v", tr.Position)
	}
	if x, y := f.input.CursorPos(); x != 50 || y != 50 {
		t.Fatal("cursor recentred without the right button")
	}
}

func TestCameraControllerFly(t *testing.T) {
	f := newFixture(t)
	cam := f.camera(t, mgl32.Vec3{})
	dir := f.d.Components()
	f.input.Hold(platform.BtnRight)
	f.input.Press(platform.KeyW, platform.KeySpace)
	f.input.SetCursorPos(100, 0)

	f.control.Update(time.Second)

	cc := ecs.MustGet[component.CameraController](dir, cam)
	if want := float32(-0.5); mgl32.Abs(cc.HorizontalAngle-want) > 1e-6 {
		t.Fatalf("horizontal angle\nhave %v\nwant %v", cc.HorizontalAngle, want)
	}
	if cc.VerticalAngle != 0 {
		t.Fatalf("vertical angle\nhave %v\nwant 0", cc.VerticalAngle)
	}
	if x, y := f.input.CursorPos(); x != 0 || y != 0 {
		t.Fatalf("cursor not recentred: %v,%v", x, y)
	}

	direction, _, _ := cameraAxes(cc.HorizontalAngle, cc.VerticalAngle)
	want := direction.Sub(mgl32.Vec3{0, 1, 0})
	tr := ecs.MustGet[component.Transform](dir, cam)
	if !tr.Position.ApproxEqualThreshold(want, 1e-5) {
		t.Fatalf("position\nhave %v\nwant %v", tr.Position, want)
	}
	if tr.Rotation.ApproxEqual(mgl32.QuatIdent()) {
		t.Fatal("rotation not updated")
	}
}

func TestCameraAxes(t *testing.T) {
	direction, right, up := cameraAxes(0, 0)
	if !direction.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
		t.Errorf("direction\nhave %v", direction)
	}
	if !right.ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-6) {
		t.Errorf("right\nhave %v", right)
	}
	if !up.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6) {
		t.Errorf("up\nhave %v", up)
	}
}
