package component

import "github.com/go-gl/mathgl/mgl32"

// Vertex is the per-vertex layout uploaded to the device.
type Vertex struct {
	Position  mgl32.Vec3
	UV        mgl32.Vec2
	Normal    mgl32.Vec3
	Tangent   mgl32.Vec3
	BiTangent mgl32.Vec3
	TextureID int32
}

// PolygonalMesh is an indexed triangle list.
type PolygonalMesh struct {
	Vertices []Vertex
	Indices  []uint32
}

func (m *PolygonalMesh) Empty() bool { return len(m.Vertices) == 0 }

// Triangles returns the number of whole triangles described by Indices.
func (m *PolygonalMesh) Triangles() int { return len(m.Indices) / 3 }
