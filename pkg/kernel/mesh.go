package kernel

// Role tells a mesh consumer which drawing pass a mesh belongs to.
type Role string

const (
	RoleSolid Role = "solid"
	RoleWire  Role = "wire"
)

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // e.g. "cube/3" or "cube/3/edge/7"
	Role     Role      `json:"role"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// BoxMesh returns the exact mesh of the axis-aligned box spanning min..max:
// 6 faces of 4 vertices each with flat outward normals, 12 triangles wound
// counter-clockwise seen from outside.
func BoxMesh(min, max [3]float64) *Mesh {
	m := &Mesh{
		Vertices: make([]float32, 0, 24*3),
		Normals:  make([]float32, 0, 24*3),
		Indices:  make([]uint32, 0, 36),
	}
	for a := 0; a < 3; a++ {
		u, v := (a+1)%3, (a+2)%3
		for _, side := range [2]float64{-1, 1} {
			var n [3]float32
			n[a] = float32(side)
			base := uint32(len(m.Vertices) / 3)
			for _, c := range [4][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
				var p [3]float64
				p[a] = min[a]
				if side > 0 {
					p[a] = max[a]
				}
				p[u], p[v] = min[u], min[v]
				if c[0] == 1 {
					p[u] = max[u]
				}
				if c[1] == 1 {
					p[v] = max[v]
				}
				m.Vertices = append(m.Vertices, float32(p[0]), float32(p[1]), float32(p[2]))
				m.Normals = append(m.Normals, n[0], n[1], n[2])
			}
			if side > 0 {
				m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
			} else {
				m.Indices = append(m.Indices, base, base+2, base+1, base, base+3, base+2)
			}
		}
	}
	return m
}
