// Package platform defines what the renderer needs from the windowing and
// graphics layers, and a headless implementation of it.
package platform

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/renderpipeline/engine/internal/component"
)

// ErrShaderCompile means a shader program failed to compile or link.
var ErrShaderCompile = errors.New("platform: shader compilation failed")

// Shader is a linked program whose uniforms are set by name.
type Shader interface {
	Bind()
	Unbind()
	SetMat4(name string, m mgl32.Mat4)
	SetVec4(name string, v mgl32.Vec4)
	SetFloat(name string, f float32)
	SetInt(name string, i int32)
}

// Device is the graphics context. All calls happen on the frame goroutine.
type Device interface {
	// Viewport returns the drawable size in pixels.
	Viewport() (width, height int)
	Clear(r, g, b, a float32)
	CompileShader(vertexPath, fragmentPath string) (Shader, error)
	// UploadMesh replaces the contents of the bound vertex and index buffers.
	UploadMesh(mesh *component.PolygonalMesh)
	DrawElements(count int)
	// CreateTextureArray builds a 2D texture array with one layer per path.
	// Empty paths produce a white layer. It returns 0 when paths is empty.
	CreateTextureArray(paths []string) (uint32, error)
	BindTextureArray(unit int, id uint32)
}
