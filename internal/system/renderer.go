package system

import (
	"fmt"
	"time"

	"github.com/renderpipeline/engine/internal/component"
	"github.com/renderpipeline/engine/internal/core/ecs"
	coresys "github.com/renderpipeline/engine/internal/core/system"
	"github.com/renderpipeline/engine/internal/platform"
	"go.uber.org/zap"
)

// RendererSystem draws every entity with a transform, a mesh and renderer
// uniforms from the main camera. Phase 4 (Render).
type RendererSystem struct {
	ecs.Base
	device     platform.Device
	materials  *MaterialProcessor
	lights     *PointLightTransformer
	clear      [4]float32
	mainCamera ecs.Entity
	hasCamera  bool
	log        *zap.Logger
}

func NewRendererSystem(
	device platform.Device,
	materials *MaterialProcessor,
	lights *PointLightTransformer,
	clear [4]float32,
	log *zap.Logger,
) *RendererSystem {
	return &RendererSystem{
		device:    device,
		materials: materials,
		lights:    lights,
		clear:     clear,
		log:       log,
	}
}

func (s *RendererSystem) Phase() coresys.Phase { return coresys.PhaseRender }

// SetMainCamera selects the camera rendered from. e must carry a Transform
// and CameraMatrices.
func (s *RendererSystem) SetMainCamera(e ecs.Entity) error {
	dir := s.Directory()
	if !ecs.Has[component.Transform](dir, e) || !ecs.Has[component.CameraMatrices](dir, e) {
		return fmt.Errorf("main camera %d: needs Transform and CameraMatrices: %w", e, ecs.ErrMissingComponent)
	}
	s.mainCamera = e
	s.hasCamera = true
	return nil
}

func (s *RendererSystem) MainCamera() (ecs.Entity, bool) { return s.mainCamera, s.hasCamera }

func (s *RendererSystem) Update(_ time.Duration) {
	s.Render()
}

// Render draws one frame. Meshes without vertices are skipped. Nothing is
// drawn while there is no main camera, including after it was destroyed.
func (s *RendererSystem) Render() {
	if !s.cameraAlive() {
		return
	}
	s.materials.Bind()
	defer s.materials.Unbind()
	s.computeModels()

	s.device.Clear(s.clear[0], s.clear[1], s.clear[2], s.clear[3])

	dir := s.Directory()
	shader := s.materials.Shader()
	cam := ecs.MustGet[component.CameraMatrices](dir, s.mainCamera)
	s.lights.SetShaderLights(s.mainCamera, shader)

	for e := range s.Entities().All() {
		mesh := ecs.MustGet[component.PolygonalMesh](dir, e)
		if mesh.Empty() {
			continue
		}
		uniforms := ecs.MustGet[component.RendererUniforms](dir, e)

		s.device.UploadMesh(mesh)
		shader.SetMat4("u_mvp_matrix", uniforms.MVP)
		shader.SetMat4("u_model_matrix", uniforms.Model)
		shader.SetMat4("u_view_matrix", cam.View)
		s.materials.SetupMaterials(uniforms.MaterialIDs, uniforms.DiffuseTexturesID)
		s.device.DrawElements(len(mesh.Indices))
	}
}

// cameraAlive reports whether the main camera still has its records. A lost
// camera is dropped until SetMainCamera selects another.
func (s *RendererSystem) cameraAlive() bool {
	if !s.hasCamera {
		return false
	}
	dir := s.Directory()
	if ecs.Has[component.Transform](dir, s.mainCamera) && ecs.Has[component.CameraMatrices](dir, s.mainCamera) {
		return true
	}
	s.hasCamera = false
	s.log.Warn("main camera lost, rendering paused", zap.Uint32("entity", uint32(s.mainCamera)))
	return false
}

// computeModels refreshes the model and MVP matrices of every member.
func (s *RendererSystem) computeModels() {
	dir := s.Directory()
	cam := ecs.MustGet[component.CameraMatrices](dir, s.mainCamera)
	for e := range s.Entities().All() {
		uniforms := ecs.MustGet[component.RendererUniforms](dir, e)
		tr := ecs.MustGet[component.Transform](dir, e)

		model := tr.Model()
		uniforms.Model = model
		uniforms.MVP = cam.VP.Mul4(model)
	}
}
