// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/universim/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution along
// the longest side of a solid.
const DefaultMeshCells = 64

// minCellsAcross is the number of cells kept across the thinnest side so
// slender wire boxes do not vanish between samples.
const minCellsAcross = 4

// maxMeshCells caps the adaptive resolution.
const maxMeshCells = 2048

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
	// box holds the exact min/max corners while the solid is a plain
	// (possibly translated) box; nil after a union.
	box *[2][3]float64
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	meshCells int
}

// New returns a new SdfxKernel with DefaultMeshCells.
func New() *SdfxKernel {
	return &SdfxKernel{meshCells: DefaultMeshCells}
}

// NewWithCells returns a kernel tessellating with the given base
// resolution. Non-positive values fall back to DefaultMeshCells.
func NewWithCells(cells int) *SdfxKernel {
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{meshCells: cells}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with the given dimensions centered at the origin,
// matching the center+extents convention of geom.Box.
func (k *SdfxKernel) Box(w, h, d float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: w, Y: h, Z: d}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	box := [2][3]float64{{-w / 2, -h / 2, -d / 2}, {w / 2, h / 2, d / 2}}
	return &sdfxSolid{s: s, box: &box}
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	out := &sdfxSolid{s: sdf.Transform3D(unwrap(s), m)}
	if b := s.(*sdfxSolid).box; b != nil {
		moved := *b
		for i, off := range [3]float64{x, y, z} {
			moved[0][i] += off
			moved[1][i] += off
		}
		out.box = &moved
	}
	return out
}

// Union returns the union of all given solids.
func (k *SdfxKernel) Union(a kernel.Solid, rest ...kernel.Solid) kernel.Solid {
	if len(rest) == 0 {
		return a
	}
	all := make([]sdf.SDF3, 0, len(rest)+1)
	all = append(all, unwrap(a))
	for _, s := range rest {
		all = append(all, unwrap(s))
	}
	return wrap(sdf.Union3D(all...))
}

// cellsFor picks a marching cubes resolution for a bounding box: at least
// the base resolution, raised so the thinnest side still spans
// minCellsAcross cells.
func (k *SdfxKernel) cellsFor(bb sdf.Box3) int {
	size := bb.Size()
	longest := math.Max(size.X, math.Max(size.Y, size.Z))
	shortest := math.Min(size.X, math.Min(size.Y, size.Z))
	cells := k.meshCells
	if shortest > 0 {
		need := int(math.Ceil(longest / shortest * minCellsAcross))
		if need > cells {
			cells = need
		}
	}
	if cells > maxMeshCells {
		cells = maxMeshCells
	}
	return cells
}

func (k *SdfxKernel) triangles(s kernel.Solid) []*sdf.Triangle3 {
	sdf3 := unwrap(s)
	renderer := render.NewMarchingCubesUniform(k.cellsFor(sdf3.BoundingBox()))
	return render.ToTriangles(sdf3, renderer)
}

// ToMesh converts a solid to a triangle mesh. Plain boxes get their exact
// 12-triangle mesh; anything else goes through marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	if b := s.(*sdfxSolid).box; b != nil {
		return kernel.BoxMesh(b[0], b[1]), nil
	}
	triangles := k.triangles(s)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// ToSTL tessellates a solid and writes it as a binary STL file.
func (k *SdfxKernel) ToSTL(s kernel.Solid, path string) error {
	triangles := k.triangles(s)
	if len(triangles) == 0 {
		return fmt.Errorf("sdfx: solid produced no triangles")
	}
	if err := render.SaveSTL(path, triangles); err != nil {
		return fmt.Errorf("sdfx: write %s: %w", path, err)
	}
	return nil
}
