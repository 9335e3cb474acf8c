package system

import (
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/renderpipeline/engine/internal/component"
	"github.com/renderpipeline/engine/internal/core/ecs"
	"github.com/renderpipeline/engine/internal/platform"
	"go.uber.org/zap"
)

// DiffuseTextureUnit is the texture unit the diffuse texture array is bound to.
const DiffuseTextureUnit = 0

// MaterialProcessor owns the material table and the shader. It turns each
// model's Materials and MaterialTextures into material ids and a diffuse
// texture array stored in the model's RendererUniforms.
type MaterialProcessor struct {
	ecs.Base
	device         platform.Device
	shader         platform.Shader
	log            *zap.Logger
	materials      map[uint32]component.Material
	nextID         uint32
	defaultID      uint32
	defaultTexture uint32
}

func NewMaterialProcessor(device platform.Device, shader platform.Shader, log *zap.Logger) (*MaterialProcessor, error) {
	p := &MaterialProcessor{
		device:    device,
		shader:    shader,
		log:       log,
		materials: make(map[uint32]component.Material),
	}
	def := component.NewMaterial()
	def.KAmbient = mgl32.Vec3{1, 1, 1}
	p.defaultID = p.addMaterial(def)

	tex, err := device.CreateTextureArray([]string{""})
	if err != nil {
		return nil, fmt.Errorf("create default texture: %w", err)
	}
	p.defaultTexture = tex
	return p, nil
}

// Init registers the materials of every member and records the resulting ids
// and texture array in its RendererUniforms.
func (p *MaterialProcessor) Init() error {
	dir := p.Directory()
	for e := range p.Entities().All() {
		mats := ecs.MustGet[component.Materials](dir, e)
		textures := ecs.MustGet[component.MaterialTextures](dir, e)

		diffuse, err := p.device.CreateTextureArray(textures.KDPaths())
		if err != nil {
			return fmt.Errorf("textures of entity %d: %w", e, err)
		}
		ids := make([]uint32, 0, len(*mats))
		for i := range *mats {
			(*mats)[i].KDTextureIndex = uint32(i)
			ids = append(ids, p.addMaterial((*mats)[i]))
		}

		uniforms := ecs.MustGet[component.RendererUniforms](dir, e)
		uniforms.MaterialIDs = ids
		uniforms.DiffuseTexturesID = diffuse
		p.log.Debug("materials registered",
			zap.Uint32("entity", uint32(e)),
			zap.Int("materials", len(ids)),
			zap.Uint32("textures", diffuse),
		)
	}
	return nil
}

func (p *MaterialProcessor) addMaterial(m component.Material) uint32 {
	id := p.nextID
	p.materials[id] = m
	p.nextID++
	return id
}

// Material returns the registered material with the given id.
func (p *MaterialProcessor) Material(id uint32) (component.Material, bool) {
	m, ok := p.materials[id]
	return m, ok
}

// Len returns the number of registered materials, the default included.
func (p *MaterialProcessor) Len() int { return len(p.materials) }

func (p *MaterialProcessor) Shader() platform.Shader { return p.shader }

func (p *MaterialProcessor) Bind() { p.shader.Bind() }

func (p *MaterialProcessor) Unbind() { p.shader.Unbind() }

// SetupMaterials binds the diffuse texture array and sets the material
// uniforms for one draw. Models without materials use the default material.
// An id that was never registered panics.
func (p *MaterialProcessor) SetupMaterials(ids []uint32, diffuseTextures uint32) {
	if diffuseTextures == 0 {
		diffuseTextures = p.defaultTexture
	}
	p.device.BindTextureArray(DiffuseTextureUnit, diffuseTextures)
	p.shader.SetInt("u_kDiffuseTextures", DiffuseTextureUnit)

	if len(ids) == 0 {
		p.setMaterial(0, p.materials[p.defaultID])
		return
	}
	for i, id := range ids {
		m, ok := p.materials[id]
		if !ok {
			panic(fmt.Sprintf("material %d not registered", id))
		}
		p.setMaterial(i, m)
	}
}

func (p *MaterialProcessor) setMaterial(i int, m component.Material) {
	prefix := "u_materials[" + strconv.Itoa(i) + "]."
	p.shader.SetVec4(prefix+"kAmbient", m.KAmbient.Vec4(1))
	p.shader.SetVec4(prefix+"kDiffuse", m.KDiffuse.Vec4(1))
	p.shader.SetVec4(prefix+"kSpecular", m.KSpecular.Vec4(1))
	p.shader.SetFloat(prefix+"nSpecular", m.NSpecular)
}
