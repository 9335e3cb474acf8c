package system

import (
	"time"

	"github.com/renderpipeline/engine/internal/component"
	"github.com/renderpipeline/engine/internal/core/ecs"
	coresys "github.com/renderpipeline/engine/internal/core/system"
)

// CameraSystem derives view, projection and view-projection matrices from
// camera transforms. Phase 3 (Update).
type CameraSystem struct {
	ecs.Base
	aspect float32
}

func NewCameraSystem(aspect float32) *CameraSystem {
	return &CameraSystem{aspect: aspect}
}

func (s *CameraSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

// Init sets every camera's projection so the first frame renders correctly
// before Update has run.
func (s *CameraSystem) Init() {
	dir := s.Directory()
	for e := range s.Entities().All() {
		cam := ecs.MustGet[component.Camera](dir, e)
		mat := ecs.MustGet[component.CameraMatrices](dir, e)
		mat.Projection = cam.Projection(s.aspect)
		mat.VP = mat.Projection.Mul4(mat.View)
	}
}

// SetAspect changes the aspect ratio used from the next Update.
func (s *CameraSystem) SetAspect(aspect float32) { s.aspect = aspect }

func (s *CameraSystem) Update(_ time.Duration) {
	dir := s.Directory()
	for e := range s.Entities().All() {
		cam := ecs.MustGet[component.Camera](dir, e)
		tr := ecs.MustGet[component.Transform](dir, e)
		mat := ecs.MustGet[component.CameraMatrices](dir, e)

		mat.View = tr.View()
		mat.Projection = cam.Projection(s.aspect)
		mat.VP = mat.Projection.Mul4(mat.View)
	}
}
