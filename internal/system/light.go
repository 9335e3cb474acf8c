package system

import (
	"strconv"

	"github.com/renderpipeline/engine/internal/component"
	"github.com/renderpipeline/engine/internal/core/ecs"
	"github.com/renderpipeline/engine/internal/platform"
)

// PointLightTransformer writes the point lights and the camera position into
// the shader before a frame is drawn.
type PointLightTransformer struct {
	ecs.Base
}

func NewPointLightTransformer() *PointLightTransformer {
	return &PointLightTransformer{}
}

// SetShaderLights sets u_camera_position_ws from mainCamera, u_light_count,
// and one u_lights[i] entry per member in entity order.
func (s *PointLightTransformer) SetShaderLights(mainCamera ecs.Entity, shader platform.Shader) {
	dir := s.Directory()
	cam := ecs.MustGet[component.Transform](dir, mainCamera)
	// Camera transforms store the negated world position.
	shader.SetVec4("u_camera_position_ws", cam.Position.Mul(-1).Vec4(1))

	i := 0
	for e := range s.Entities().All() {
		light := ecs.MustGet[component.PointLight](dir, e)
		tr := ecs.MustGet[component.Transform](dir, e)

		prefix := "u_lights[" + strconv.Itoa(i) + "]."
		shader.SetVec4(prefix+"position_ws", tr.Position.Vec4(1))
		shader.SetVec4(prefix+"colour", light.KDiffuse.Vec4(1))
		shader.SetFloat(prefix+"intensity", light.Intensity)
		shader.SetFloat(prefix+"fall_off", light.FallOff)
		i++
	}
	shader.SetInt("u_light_count", int32(i))
}
