package component

import (
	"fmt"

	"github.com/renderpipeline/engine/internal/core/ecs"
)

// ModelData is everything a loaded model contributes to an entity. It is
// attached as one bundle; a model whose mesh has no vertices is skipped.
type ModelData struct {
	Mesh             PolygonalMesh
	Materials        Materials
	MaterialTextures MaterialTextures
}

func (m ModelData) Empty() bool { return m.Mesh.Empty() }

// Attach adds the mesh, fresh renderer uniforms, the materials and the
// material textures to e. Either all four are added or none: e must be live,
// every type registered and none already present on e.
func (m ModelData) Attach(d *ecs.Director, e ecs.Entity) error {
	if !d.Alive(e) {
		return fmt.Errorf("attach model to %d: %w", e, ecs.ErrUnknownEntity)
	}
	for _, check := range []func(*ecs.Director, ecs.Entity) error{
		vacant[PolygonalMesh],
		vacant[RendererUniforms],
		vacant[Materials],
		vacant[MaterialTextures],
	} {
		if err := check(d, e); err != nil {
			return err
		}
	}

	if err := ecs.AddComponent(d, e, m.Mesh); err != nil {
		return err
	}
	if err := ecs.AddComponent(d, e, NewRendererUniforms()); err != nil {
		return err
	}
	if err := ecs.AddComponent(d, e, m.Materials); err != nil {
		return err
	}
	return ecs.AddComponent(d, e, m.MaterialTextures)
}

// vacant fails unless T is registered and e has no T yet.
func vacant[T any](d *ecs.Director, e ecs.Entity) error {
	if _, err := ecs.ComponentID[T](d); err != nil {
		return err
	}
	if ecs.Has[T](d.Components(), e) {
		return fmt.Errorf("attach model to %d: %T: %w", e, *new(T), ecs.ErrDuplicateComponent)
	}
	return nil
}
