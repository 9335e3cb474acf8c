package platform

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/renderpipeline/engine/internal/component"
	"go.uber.org/zap"
)

// Headless is a Device that renders nothing. It keeps enough state for
// callers to observe what a frame would have drawn.
type Headless struct {
	Width, Height int

	log      *zap.Logger
	nextTex  uint32
	textures map[uint32][]string
	bound    map[int]uint32

	Clears    int
	Uploads   int
	Draws     int
	Triangles int
	shaders   []*HeadlessShader
}

func NewHeadless(width, height int, log *zap.Logger) *Headless {
	return &Headless{
		Width:    width,
		Height:   height,
		log:      log,
		nextTex:  1,
		textures: make(map[uint32][]string),
		bound:    make(map[int]uint32),
	}
}

func (h *Headless) Viewport() (int, int) { return h.Width, h.Height }

func (h *Headless) Clear(_, _, _, _ float32) { h.Clears++ }

func (h *Headless) CompileShader(vertexPath, fragmentPath string) (Shader, error) {
	if vertexPath == "" || fragmentPath == "" {
		return nil, fmt.Errorf("compile %q + %q: %w", vertexPath, fragmentPath, ErrShaderCompile)
	}
	s := &HeadlessShader{
		mat4s:  make(map[string]mgl32.Mat4),
		vec4s:  make(map[string]mgl32.Vec4),
		floats: make(map[string]float32),
		ints:   make(map[string]int32),
	}
	h.shaders = append(h.shaders, s)
	h.log.Debug("shader compiled",
		zap.String("vertex", vertexPath),
		zap.String("fragment", fragmentPath),
	)
	return s, nil
}

func (h *Headless) UploadMesh(mesh *component.PolygonalMesh) {
	h.Uploads++
	h.Triangles += mesh.Triangles()
}

func (h *Headless) DrawElements(count int) {
	if count > 0 {
		h.Draws++
	}
}

func (h *Headless) CreateTextureArray(paths []string) (uint32, error) {
	if len(paths) == 0 {
		return 0, nil
	}
	id := h.nextTex
	h.nextTex++
	h.textures[id] = append([]string(nil), paths...)
	h.log.Debug("texture array created", zap.Uint32("id", id), zap.Int("layers", len(paths)))
	return id, nil
}

func (h *Headless) BindTextureArray(unit int, id uint32) { h.bound[unit] = id }

// TextureLayers returns the paths a texture array was created from.
func (h *Headless) TextureLayers(id uint32) []string { return h.textures[id] }

// BoundTexture returns the texture array bound to unit.
func (h *Headless) BoundTexture(unit int) uint32 { return h.bound[unit] }

// ResetCounters zeroes the per-frame counters.
func (h *Headless) ResetCounters() {
	h.Clears, h.Uploads, h.Draws, h.Triangles = 0, 0, 0, 0
}

// HeadlessShader records the last value set for every uniform.
type HeadlessShader struct {
	Bound  bool
	Binds  int
	mat4s  map[string]mgl32.Mat4
	vec4s  map[string]mgl32.Vec4
	floats map[string]float32
	ints   map[string]int32
}

func (s *HeadlessShader) Bind() {
	s.Bound = true
	s.Binds++
}

func (s *HeadlessShader) Unbind() { s.Bound = false }

func (s *HeadlessShader) SetMat4(name string, m mgl32.Mat4) { s.mat4s[name] = m }

func (s *HeadlessShader) SetVec4(name string, v mgl32.Vec4) { s.vec4s[name] = v }

func (s *HeadlessShader) SetFloat(name string, f float32) { s.floats[name] = f }

func (s *HeadlessShader) SetInt(name string, i int32) { s.ints[name] = i }

func (s *HeadlessShader) Mat4(name string) (mgl32.Mat4, bool) {
	m, ok := s.mat4s[name]
	return m, ok
}

func (s *HeadlessShader) Vec4(name string) (mgl32.Vec4, bool) {
	v, ok := s.vec4s[name]
	return v, ok
}

func (s *HeadlessShader) Float(name string) (float32, bool) {
	f, ok := s.floats[name]
	return f, ok
}

func (s *HeadlessShader) Int(name string) (int32, bool) {
	i, ok := s.ints[name]
	return i, ok
}
