// Package primitive builds the meshes the renderer ships with.
package primitive

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/renderpipeline/engine/internal/component"
)

// Unit cube corners: right/left, top/bottom, back(+Z)/front(-Z).
var (
	rtb = mgl32.Vec3{0.5, 0.5, 0.5}
	ltb = mgl32.Vec3{-0.5, 0.5, 0.5}
	ltf = mgl32.Vec3{-0.5, 0.5, -0.5}
	rtf = mgl32.Vec3{0.5, 0.5, -0.5}
	rbb = mgl32.Vec3{0.5, -0.5, 0.5}
	lbb = mgl32.Vec3{-0.5, -0.5, 0.5}
	lbf = mgl32.Vec3{-0.5, -0.5, -0.5}
	rbf = mgl32.Vec3{0.5, -0.5, -0.5}
)

var (
	uvBottomLeft  = mgl32.Vec2{0, 0}
	uvBottomRight = mgl32.Vec2{1, 0}
	uvTopRight    = mgl32.Vec2{1, 1}
	uvTopLeft     = mgl32.Vec2{0, 1}
)

type face struct {
	corners [4]mgl32.Vec3
	normal  mgl32.Vec3
}

// quads expands faces into four vertices each, two triangles per face.
func quads(faces []face, uvs [4]mgl32.Vec2) component.PolygonalMesh {
	mesh := component.PolygonalMesh{
		Vertices: make([]component.Vertex, 0, 4*len(faces)),
		Indices:  make([]uint32, 0, 6*len(faces)),
	}
	for i, f := range faces {
		for j, p := range f.corners {
			mesh.Vertices = append(mesh.Vertices, component.Vertex{Position: p, UV: uvs[j], Normal: f.normal})
		}
		base := uint32(4 * i)
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return mesh
}

// Cube is a unit cube centred on the origin with outward normals.
func Cube() component.PolygonalMesh {
	return quads([]face{
		{[4]mgl32.Vec3{ltb, rtb, rtf, ltf}, mgl32.Vec3{0, 1, 0}},
		{[4]mgl32.Vec3{rbb, rtb, ltb, lbb}, mgl32.Vec3{0, 0, 1}},
		{[4]mgl32.Vec3{rtf, rtb, rbb, rbf}, mgl32.Vec3{1, 0, 0}},
		{[4]mgl32.Vec3{ltf, lbf, lbb, ltb}, mgl32.Vec3{-1, 0, 0}},
		{[4]mgl32.Vec3{rbf, lbf, ltf, rtf}, mgl32.Vec3{0, 0, -1}},
		{[4]mgl32.Vec3{lbb, lbf, rbf, rbb}, mgl32.Vec3{0, -1, 0}},
	}, [4]mgl32.Vec2{uvBottomRight, uvBottomLeft, uvTopLeft, uvTopRight})
}

// InverseCube is a unit cube seen from inside: normals point inward and the
// winding is reversed.
func InverseCube() component.PolygonalMesh {
	return quads([]face{
		{[4]mgl32.Vec3{rtb, ltb, ltf, rtf}, mgl32.Vec3{0, -1, 0}},
		{[4]mgl32.Vec3{rtb, rbb, lbb, ltb}, mgl32.Vec3{0, 0, -1}},
		{[4]mgl32.Vec3{rtb, rtf, rbf, rbb}, mgl32.Vec3{-1, 0, 0}},
		{[4]mgl32.Vec3{lbf, ltf, ltb, lbb}, mgl32.Vec3{1, 0, 0}},
		{[4]mgl32.Vec3{lbf, rbf, rtf, ltf}, mgl32.Vec3{0, 0, 1}},
		{[4]mgl32.Vec3{lbf, lbb, rbb, rbf}, mgl32.Vec3{0, 1, 0}},
	}, [4]mgl32.Vec2{uvBottomLeft, uvBottomRight, uvTopRight, uvTopLeft})
}

// Tri is a single triangle in the XY plane facing +Z.
func Tri() component.PolygonalMesh {
	n := mgl32.Vec3{0, 0, 1}
	return component.PolygonalMesh{
		Vertices: []component.Vertex{
			{Position: mgl32.Vec3{0, 0.5, 0}, UV: mgl32.Vec2{0.5, 1}, Normal: n},
			{Position: mgl32.Vec3{0.5, -0.5, 0}, UV: uvBottomRight, Normal: n},
			{Position: mgl32.Vec3{-0.5, -0.5, 0}, UV: uvBottomLeft, Normal: n},
		},
		Indices: []uint32{0, 2, 1},
	}
}

var byName = map[string]func() component.PolygonalMesh{
	"cube":         Cube,
	"inverse_cube": InverseCube,
	"tri":          Tri,
}

// ByName returns the primitive registered under name.
func ByName(name string) (component.PolygonalMesh, error) {
	fn, ok := byName[name]
	if !ok {
		return component.PolygonalMesh{}, fmt.Errorf("unknown primitive %q", name)
	}
	return fn(), nil
}
