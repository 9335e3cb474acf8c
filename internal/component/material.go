package component

import "github.com/go-gl/mathgl/mgl32"

// RendererUniforms are the per-entity values RendererSystem hands the shader.
type RendererUniforms struct {
	MVP               mgl32.Mat4
	Model             mgl32.Mat4
	MaterialIDs       []uint32
	DiffuseTexturesID uint32
}

func NewRendererUniforms() RendererUniforms {
	return RendererUniforms{MVP: mgl32.Ident4(), Model: mgl32.Ident4()}
}

// Material is a Phong material. KDTextureIndex is the layer of the diffuse
// texture array assigned by MaterialProcessor.
type Material struct {
	KAmbient       mgl32.Vec3
	KDiffuse       mgl32.Vec3
	KDTextureIndex uint32
	KSpecular      mgl32.Vec3
	NSpecular      float32
}

func NewMaterial() Material {
	return Material{
		KDiffuse:  mgl32.Vec3{1, 1, 1},
		KSpecular: mgl32.Vec3{1, 1, 1},
		NSpecular: 225,
	}
}

// Materials are the materials of one model, indexed by the vertex TextureID.
type Materials []Material

// MaterialTexture names the image files a material samples. Empty paths use
// the default white texture.
type MaterialTexture struct {
	KDPath     string
	NormalPath string
}

type MaterialTextures []MaterialTexture

// KDPaths returns the diffuse path of every texture in order.
func (m MaterialTextures) KDPaths() []string {
	paths := make([]string, len(m))
	for i, t := range m {
		paths[i] = t.KDPath
	}
	return paths
}

// Textures lists loaded image files with their dimensions.
type Textures struct {
	FilePaths []string
	Widths    []int
	Heights   []int
}

// TextureIDs are device texture handles.
type TextureIDs []uint32
