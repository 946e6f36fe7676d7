// Package tessellate turns cubes and their wireframes into triangle meshes
// using a geometry kernel. One mesh is produced per body and per edge.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/chazu/universim/pkg/cube"
	"github.com/chazu/universim/pkg/geom"
	"github.com/chazu/universim/pkg/kernel"
	"github.com/chazu/universim/pkg/render"
)

// Compile-time interface check.
var _ render.Renderer = (*Renderer)(nil)

// Renderer is a render.Renderer that tessellates every box it receives.
// Part names follow draw order: the n-th solid is "cube/n" and the wires
// that follow it are "cube/n/edge/0".."cube/n/edge/11".
type Renderer struct {
	k      kernel.Kernel
	meshes []*kernel.Mesh
	solids int
	wires  int
	// Wires disables the edge pass when false.
	Wires bool
}

// NewRenderer returns a Renderer drawing bodies and edges with k.
func NewRenderer(k kernel.Kernel) *Renderer {
	return &Renderer{k: k, Wires: true}
}

// solidAt places a kernel box at b's center.
func solidAt(k kernel.Kernel, b geom.Box) kernel.Solid {
	s := k.Box(b.W(), b.H(), b.D())
	c := b.Center()
	if c.X != 0 || c.Y != 0 || c.Z != 0 {
		s = k.Translate(s, c.X, c.Y, c.Z)
	}
	return s
}

func (r *Renderer) Solid(b geom.Box) error {
	mesh, err := r.k.ToMesh(solidAt(r.k, b))
	if err != nil {
		return fmt.Errorf("tessellate: ToMesh failed for cube %d: %w", r.solids, err)
	}
	mesh.PartName = fmt.Sprintf("cube/%d", r.solids)
	mesh.Role = kernel.RoleSolid
	r.meshes = append(r.meshes, mesh)
	r.solids++
	r.wires = 0
	return nil
}

func (r *Renderer) Wire(b geom.Box) error {
	if !r.Wires {
		return nil
	}
	if r.solids == 0 {
		return errors.New("tessellate: wire drawn before any solid")
	}
	mesh, err := r.k.ToMesh(solidAt(r.k, b))
	if err != nil {
		return fmt.Errorf("tessellate: ToMesh failed for cube %d edge %d: %w", r.solids-1, r.wires, err)
	}
	mesh.PartName = fmt.Sprintf("cube/%d/edge/%d", r.solids-1, r.wires)
	mesh.Role = kernel.RoleWire
	r.meshes = append(r.meshes, mesh)
	r.wires++
	return nil
}

// Meshes returns the meshes produced so far in draw order.
func (r *Renderer) Meshes() []*kernel.Mesh {
	return r.meshes
}

// Tessellate produces meshes for every cube body and, when wires is true,
// every wireframe edge.
func Tessellate(cubes []cube.Cube, k kernel.Kernel, wires bool) ([]*kernel.Mesh, error) {
	r := NewRenderer(k)
	r.Wires = wires
	for _, c := range cubes {
		if err := render.DrawCube(r, c); err != nil {
			return nil, err
		}
	}
	return r.Meshes(), nil
}

// Solid unions the bodies of all cubes into a single kernel solid, e.g.
// for STL export. It returns nil for an empty slice.
func Solid(cubes []cube.Cube, k kernel.Kernel) kernel.Solid {
	if len(cubes) == 0 {
		return nil
	}
	rest := make([]kernel.Solid, 0, len(cubes)-1)
	for _, c := range cubes[1:] {
		rest = append(rest, solidAt(k, c.Box()))
	}
	return k.Union(solidAt(k, cubes[0].Box()), rest...)
}
