package scene

import "github.com/renderpipeline/engine/internal/data"

func vec(x, y, z float32) data.Vec3 { return data.Vec3{x, y, z} }

func ptr[T any](v T) *T { return &v }

// DefaultManifest is the built-in demo scene: a cube, three file models, a
// point light drawn as a small inverted cube, and a controllable camera.
// Model files that cannot be loaded leave their entity with a transform only.
func DefaultManifest() *data.SceneManifest {
	m, err := data.NewSceneManifest("default", []data.EntityDef{
		{
			Name:      "cube",
			Transform: &data.TransformDef{},
			Mesh:      "primitive:cube",
		},
		{
			Name:      "teapot",
			Transform: &data.TransformDef{Position: vec(0, 1, -5)},
			Model:     "CubeTest.obj",
		},
		{
			Name:      "tank",
			Transform: &data.TransformDef{Position: vec(15, 1, 0)},
			Model:     "CubesTextures.obj",
		},
		{
			Name:      "kirb",
			Transform: &data.TransformDef{Position: vec(-15, 0, 0)},
			Model:     "SphereTextures.obj",
		},
		{
			Name:       "light",
			Transform:  &data.TransformDef{Position: vec(0, 5, 0), Scale: ptr(vec(0.1, 0.1, 0.1))},
			Mesh:       "primitive:inverse_cube",
			PointLight: &data.PointLightDef{Colour: vec(1, 1, 1)},
		},
		{
			Name:       "camera",
			Transform:  &data.TransformDef{Position: vec(0, -0.7, -0.8)},
			Camera:     &data.CameraDef{},
			Controller: &data.ControllerDef{},
			MainCamera: true,
		},
	})
	if err != nil {
		panic(err)
	}
	return m
}
