package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/renderpipeline/engine/internal/component"
	"github.com/renderpipeline/engine/internal/core/ecs"
	"github.com/renderpipeline/engine/internal/core/event"
	"github.com/renderpipeline/engine/internal/platform"
	"go.uber.org/zap"
)

// fixture is a director with every component type and the render systems
// registered and signed.
type fixture struct {
	d         *ecs.Director
	device    *platform.Headless
	shader    *platform.HeadlessShader
	input     *platform.StaticInput
	bus       *event.Bus
	renderer  *RendererSystem
	materials *MaterialProcessor
	lights    *PointLightTransformer
	cameras   *CameraSystem
	control   *CameraControllerSystem
}

func sig(t *testing.T, d *ecs.Director, ids ...func(*ecs.Director) (ecs.ComponentType, error)) ecs.Signature {
	t.Helper()
	var s ecs.Signature
	for _, id := range ids {
		ct, err := id(d)
		if err != nil {
			t.Fatal(err)
		}
		s = s.With(ct)
	}
	return s
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zap.NewNop()
	d := ecs.NewDirector(64)
	for _, reg := range []func(*ecs.Director) (ecs.ComponentType, error){
		ecs.RegisterComponent[component.Transform],
		ecs.RegisterComponent[component.PolygonalMesh],
		ecs.RegisterComponent[component.Camera],
		ecs.RegisterComponent[component.CameraMatrices],
		ecs.RegisterComponent[component.CameraController],
		ecs.RegisterComponent[component.RendererUniforms],
		ecs.RegisterComponent[component.Materials],
		ecs.RegisterComponent[component.MaterialTextures],
		ecs.RegisterComponent[component.PointLight],
		ecs.RegisterComponent[component.Behaviour],
	} {
		if _, err := reg(d); err != nil {
			t.Fatal(err)
		}
	}

	f := &fixture{
		d:      d,
		device: platform.NewHeadless(1920, 1080, log),
		input:  &platform.StaticInput{},
		bus:    event.NewBus(),
	}
	sh, err := f.device.CompileShader("v.glsl", "f.glsl")
	must(t, err)
	f.shader = sh.(*platform.HeadlessShader)
	f.materials, err = NewMaterialProcessor(f.device, f.shader, log)
	must(t, err)
	f.lights = NewPointLightTransformer()
	f.renderer = NewRendererSystem(f.device, f.materials, f.lights, [4]float32{0.16, 0.16, 0.16, 1}, log)
	f.cameras = NewCameraSystem(16.0 / 9.0)
	f.control = NewCameraControllerSystem(f.input)

	must(t, d.RegisterSystem(f.renderer))
	must(t, ecs.SetSystemSignature[*RendererSystem](d, sig(t, d,
		ecs.ComponentID[component.Transform],
		ecs.ComponentID[component.PolygonalMesh],
		ecs.ComponentID[component.RendererUniforms])))
	must(t, d.RegisterSystem(f.materials))
	must(t, ecs.SetSystemSignature[*MaterialProcessor](d, sig(t, d,
		ecs.ComponentID[component.RendererUniforms],
		ecs.ComponentID[component.Materials],
		ecs.ComponentID[component.MaterialTextures])))
	must(t, d.RegisterSystem(f.lights))
	must(t, ecs.SetSystemSignature[*PointLightTransformer](d, sig(t, d,
		ecs.ComponentID[component.PointLight],
		ecs.ComponentID[component.Transform])))
	must(t, d.RegisterSystem(f.cameras))
	must(t, ecs.SetSystemSignature[*CameraSystem](d, sig(t, d,
		ecs.ComponentID[component.Transform],
		ecs.ComponentID[component.Camera],
		ecs.ComponentID[component.CameraMatrices])))
	must(t, d.RegisterSystem(f.control))
	must(t, ecs.SetSystemSignature[*CameraControllerSystem](d, sig(t, d,
		ecs.ComponentID[component.CameraController],
		ecs.ComponentID[component.Transform],
		ecs.ComponentID[component.CameraMatrices])))
	return f
}

func (f *fixture) camera(t *testing.T, pos mgl32.Vec3) ecs.Entity {
	t.Helper()
	e, err := f.d.CreateEntity()
	must(t, err)
	must(t, ecs.AddComponent(f.d, e, component.At(pos)))
	must(t, ecs.AddComponent(f.d, e, component.NewCameraMatrices()))
	must(t, ecs.AddComponent(f.d, e, component.NewCamera()))
	must(t, ecs.AddComponent(f.d, e, component.NewCameraController()))
	return e
}

func (f *fixture) mesh(t *testing.T, pos mgl32.Vec3, mesh component.PolygonalMesh) ecs.Entity {
	t.Helper()
	e, err := f.d.CreateEntity()
	must(t, err)
	must(t, ecs.AddComponent(f.d, e, component.At(pos)))
	must(t, ecs.AddComponent(f.d, e, mesh))
	must(t, ecs.AddComponent(f.d, e, component.NewRendererUniforms()))
	return e
}
