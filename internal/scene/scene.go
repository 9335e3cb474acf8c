// Package scene assembles a Director, its systems and the starting entities
// into a runnable frame loop.
package scene

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/renderpipeline/engine/internal/component"
	"github.com/renderpipeline/engine/internal/config"
	"github.com/renderpipeline/engine/internal/core/ecs"
	"github.com/renderpipeline/engine/internal/core/event"
	coresys "github.com/renderpipeline/engine/internal/core/system"
	"github.com/renderpipeline/engine/internal/data"
	"github.com/renderpipeline/engine/internal/loader"
	"github.com/renderpipeline/engine/internal/platform"
	"github.com/renderpipeline/engine/internal/scripting"
	"github.com/renderpipeline/engine/internal/system"
	"go.uber.org/zap"
)

// Deps are the collaborators a Scene is built from.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	Device    platform.Device
	Input     platform.Input
	Loader    *loader.Loader
	Scripting *scripting.Engine   // nil disables behaviours
	Bus       *event.Bus
	Manifest  *data.SceneManifest // nil selects the built-in scene
}

// Scene owns one Director and runs its systems once per frame.
type Scene struct {
	name     string
	cfg      *config.Config
	log      *zap.Logger
	device   platform.Device
	input    platform.Input
	loader   *loader.Loader
	engine   *scripting.Engine
	bus      *event.Bus
	director *ecs.Director
	runner   *coresys.Runner

	renderer   *system.RendererSystem
	materials  *system.MaterialProcessor
	lights     *system.PointLightTransformer
	cameras    *system.CameraSystem
	controller *system.CameraControllerSystem
	scripts    *system.ScriptSystem

	entities   map[string]ecs.Entity
	mainCamera ecs.Entity
}

// New builds a scene. The order is fixed: component types, systems and their
// signatures, validation, entities, then the main camera, materials and
// camera projections.
func New(deps Deps) (*Scene, error) {
	manifest := deps.Manifest
	if manifest == nil {
		manifest = DefaultManifest()
	}
	s := &Scene{
		name:     manifest.Name,
		cfg:      deps.Config,
		log:      deps.Log,
		device:   deps.Device,
		input:    deps.Input,
		loader:   deps.Loader,
		engine:   deps.Scripting,
		bus:      deps.Bus,
		director: ecs.NewDirector(deps.Config.Engine.MaxEntities),
		runner:   coresys.NewRunner(),
		entities: make(map[string]ecs.Entity, manifest.Count()),
	}
	if s.name == "" {
		s.name = "default"
	}

	if err := s.registerComponents(); err != nil {
		return nil, fmt.Errorf("register components: %w", err)
	}
	if err := s.registerSystems(); err != nil {
		return nil, fmt.Errorf("register systems: %w", err)
	}
	if err := s.director.Validate(); err != nil {
		return nil, err
	}
	if err := s.registerEntities(manifest); err != nil {
		return nil, fmt.Errorf("register entities: %w", err)
	}

	if err := s.renderer.SetMainCamera(s.mainCamera); err != nil {
		return nil, err
	}
	if err := s.materials.Init(); err != nil {
		return nil, fmt.Errorf("init materials: %w", err)
	}
	s.cameras.Init()

	s.log.Info("scene ready",
		zap.String("scene", s.name),
		zap.Int("entities", s.director.EntityCount()),
		zap.Int("component_types", s.director.Components().Len()),
		zap.Int("systems", s.runner.Len()),
	)
	return s, nil
}

func (s *Scene) registerComponents() error {
	for _, reg := range []func(*ecs.Director) (ecs.ComponentType, error){
		ecs.RegisterComponent[component.Transform],
		ecs.RegisterComponent[component.PolygonalMesh],
		ecs.RegisterComponent[component.Camera],
		ecs.RegisterComponent[component.CameraMatrices],
		ecs.RegisterComponent[component.CameraController],
		ecs.RegisterComponent[component.RendererUniforms],
		ecs.RegisterComponent[component.Textures],
		ecs.RegisterComponent[component.TextureIDs],
		ecs.RegisterComponent[component.Materials],
		ecs.RegisterComponent[component.MaterialTextures],
		ecs.RegisterComponent[component.PointLight],
		ecs.RegisterComponent[component.Behaviour],
		ecs.RegisterComponent[component.Name],
	} {
		if _, err := reg(s.director); err != nil {
			return err
		}
	}
	return nil
}

// signature builds a signature from component type lookups.
func (s *Scene) signature(ids ...func(*ecs.Director) (ecs.ComponentType, error)) (ecs.Signature, error) {
	var sig ecs.Signature
	for _, id := range ids {
		ct, err := id(s.director)
		if err != nil {
			return 0, err
		}
		sig = sig.With(ct)
	}
	return sig, nil
}

func (s *Scene) registerSystems() error {
	shader, err := s.device.CompileShader(s.cfg.Render.VertexShader, s.cfg.Render.FragmentShader)
	if err != nil {
		return err
	}
	s.materials, err = system.NewMaterialProcessor(s.device, shader, s.log)
	if err != nil {
		return err
	}
	s.lights = system.NewPointLightTransformer()
	s.renderer = system.NewRendererSystem(s.device, s.materials, s.lights, s.cfg.Render.ClearColour, s.log)
	s.cameras = system.NewCameraSystem(s.cfg.Render.Aspect())
	s.controller = system.NewCameraControllerSystem(s.input)

	transform := ecs.ComponentID[component.Transform]
	uniforms := ecs.ComponentID[component.RendererUniforms]

	if err := register(s, s.renderer,
		transform, ecs.ComponentID[component.PolygonalMesh], uniforms); err != nil {
		return err
	}
	if err := register(s, s.materials,
		uniforms, ecs.ComponentID[component.Materials], ecs.ComponentID[component.MaterialTextures]); err != nil {
		return err
	}
	if err := register(s, s.lights,
		ecs.ComponentID[component.PointLight], transform); err != nil {
		return err
	}
	if err := register(s, s.cameras,
		transform, ecs.ComponentID[component.Camera], ecs.ComponentID[component.CameraMatrices]); err != nil {
		return err
	}
	if err := register(s, s.controller,
		ecs.ComponentID[component.CameraController], transform, ecs.ComponentID[component.CameraMatrices]); err != nil {
		return err
	}

	s.runner.Register(system.NewEventDispatchSystem(s.bus))
	s.runner.Register(s.controller)
	if s.engine != nil {
		s.scripts = system.NewScriptSystem(s.engine, s.director, s.log)
		if err := register(s, s.scripts,
			ecs.ComponentID[component.Behaviour], transform); err != nil {
			return err
		}
		s.runner.Register(s.scripts)
	}
	s.runner.Register(s.cameras)
	s.runner.Register(s.renderer)
	s.runner.Register(system.NewCleanupSystem(s.director, s.bus, s.log))
	return nil
}

// register adds sys to the director and assigns its signature.
func register[S ecs.System](s *Scene, sys S, ids ...func(*ecs.Director) (ecs.ComponentType, error)) error {
	sig, err := s.signature(ids...)
	if err != nil {
		return err
	}
	if err := s.director.RegisterSystem(sys); err != nil {
		return err
	}
	return ecs.SetSystemSignature[S](s.director, sig)
}

func (s *Scene) registerEntities(m *data.SceneManifest) error {
	mainDef := m.MainCamera()
	if mainDef == nil {
		return fmt.Errorf("scene %s has no camera", s.name)
	}
	for i := range m.Entities {
		def := &m.Entities[i]
		e, err := s.spawn(def)
		if err != nil {
			return fmt.Errorf("entity %s: %w", def.Name, err)
		}
		s.entities[def.Name] = e
		if def == mainDef {
			s.mainCamera = e
		}
	}
	return nil
}

func (s *Scene) spawn(def *data.EntityDef) (ecs.Entity, error) {
	d := s.director
	e, err := d.CreateEntity()
	if err != nil {
		return 0, err
	}
	if err := ecs.AddComponent(d, e, component.Name(def.Name)); err != nil {
		return 0, err
	}
	if err := ecs.AddComponent(d, e, transformOf(def.Transform)); err != nil {
		return 0, err
	}

	switch {
	case def.Mesh != "":
		model := s.loader.LoadModel(def.Mesh)
		if model.Empty() {
			event.Emit(s.bus, event.ModelRejected{Entity: e, Source: def.Mesh})
			break
		}
		if err := ecs.AddComponent(d, e, model.Mesh); err != nil {
			return 0, err
		}
		if err := ecs.AddComponent(d, e, component.NewRendererUniforms()); err != nil {
			return 0, err
		}
	case def.Model != "":
		ok, err := d.AddBundle(e, s.loader.LoadModel(def.Model))
		if err != nil {
			return 0, err
		}
		if !ok {
			event.Emit(s.bus, event.ModelRejected{Entity: e, Source: def.Model})
		}
	}

	if def.PointLight != nil {
		light := component.NewPointLight(mgl32.Vec3(def.PointLight.Colour))
		if def.PointLight.Intensity != nil {
			light.Intensity = *def.PointLight.Intensity
		}
		if def.PointLight.FallOff != nil {
			light.FallOff = *def.PointLight.FallOff
		}
		if err := ecs.AddComponent(d, e, light); err != nil {
			return 0, err
		}
	}

	if def.Camera != nil {
		cam := component.NewCamera()
		if def.Camera.FovY > 0 {
			cam.FovY = def.Camera.FovY
		}
		if def.Camera.ZNear > 0 {
			cam.ZNear = def.Camera.ZNear
		}
		if def.Camera.ZFar > 0 {
			cam.ZFar = def.Camera.ZFar
		}
		if err := ecs.AddComponent(d, e, cam); err != nil {
			return 0, err
		}
		if err := ecs.AddComponent(d, e, component.NewCameraMatrices()); err != nil {
			return 0, err
		}
	}

	if def.Controller != nil {
		cc := component.NewCameraController()
		if def.Controller.MouseSpeed > 0 {
			cc.MouseSpeed = def.Controller.MouseSpeed
		}
		if def.Controller.MoveSpeed > 0 {
			cc.MoveSpeed = def.Controller.MoveSpeed
		}
		if err := ecs.AddComponent(d, e, cc); err != nil {
			return 0, err
		}
	}

	if def.Behaviour != "" {
		if s.engine == nil {
			s.log.Warn("scripting disabled, behaviour ignored",
				zap.String("entity", def.Name), zap.String("behaviour", def.Behaviour))
			return e, nil
		}
		if !s.engine.HasFunction(def.Behaviour) {
			return 0, fmt.Errorf("behaviour %s: %w", def.Behaviour, scripting.ErrNoFunction)
		}
		if err := ecs.AddComponent(d, e, component.Behaviour{Func: def.Behaviour}); err != nil {
			return 0, err
		}
	}
	return e, nil
}

func transformOf(def *data.TransformDef) component.Transform {
	if def == nil {
		return component.NewTransform()
	}
	scale := mgl32.Vec3{1, 1, 1}
	if def.Scale != nil {
		scale = mgl32.Vec3(*def.Scale)
	}
	return component.FromEuler(mgl32.Vec3(def.Position), mgl32.Vec3(def.Rotation), scale)
}

// Update runs one frame.
func (s *Scene) Update(dt time.Duration) {
	s.runner.Tick(dt)
}

func (s *Scene) Name() string { return s.name }

func (s *Scene) Director() *ecs.Director { return s.director }

func (s *Scene) Runner() *coresys.Runner { return s.runner }

// MainCamera returns the camera rendered from. It reports false once that
// camera has been destroyed.
func (s *Scene) MainCamera() (ecs.Entity, bool) {
	e, ok := s.renderer.MainCamera()
	return e, ok && s.director.Alive(e)
}

// Entity returns the live entity created for a manifest name.
func (s *Scene) Entity(name string) (ecs.Entity, bool) {
	e, ok := s.entities[name]
	if !ok || !s.director.Alive(e) {
		return 0, false
	}
	return e, true
}

// Names returns the names of live entities in sorted order.
func (s *Scene) Names() []string {
	names := make([]string, 0, len(s.entities))
	for name, e := range s.entities {
		if s.director.Alive(e) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Transforms returns the transform of every live named entity.
func (s *Scene) Transforms() map[string]component.Transform {
	out := make(map[string]component.Transform, len(s.entities))
	dir := s.director.Components()
	for name, e := range s.entities {
		if !s.director.Alive(e) {
			continue
		}
		out[name] = *ecs.MustGet[component.Transform](dir, e)
	}
	return out
}

// RestoreTransforms overwrites the transforms of live entities by name and
// re-derives camera matrices. It returns how many entities were updated;
// unknown names are ignored.
func (s *Scene) RestoreTransforms(transforms map[string]component.Transform) int {
	dir := s.director.Components()
	n := 0
	for name, t := range transforms {
		e, ok := s.Entity(name)
		if !ok {
			continue
		}
		*ecs.MustGet[component.Transform](dir, e) = t
		n++
	}
	if n > 0 {
		s.cameras.Update(0)
	}
	return n
}
