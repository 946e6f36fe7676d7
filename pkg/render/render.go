// Package render defines the drawing capability the scene renders cubes
// through. Backends (mesh tessellation, PNG preview) implement Renderer.
package render

import (
	"fmt"

	"github.com/chazu/universim/pkg/cube"
	"github.com/chazu/universim/pkg/geom"
)

// Default palette.
const (
	SolidColor = "#F5F5F5" // whitesmoke
	WireColor  = "#FF0000"
	Background = "#000000"
)

// Renderer draws axis-aligned boxes. Solid is the body pass, Wire the
// highlighted edge pass.
type Renderer interface {
	Solid(b geom.Box) error
	Wire(b geom.Box) error
}

// DrawCube renders the cube body followed by its 12 wireframe edges.
func DrawCube(r Renderer, c cube.Cube) error {
	if err := r.Solid(c.Box()); err != nil {
		return fmt.Errorf("render: solid %s: %w", c, err)
	}
	for i, e := range c.Wireframe() {
		if err := r.Wire(e); err != nil {
			return fmt.Errorf("render: %s edge %d: %w", c, i, err)
		}
	}
	return nil
}

// Recorder is a Renderer that stores every box it is given. Useful for
// inspection and JSON export.
type Recorder struct {
	Solids []geom.Box
	Wires  []geom.Box
}

func (r *Recorder) Solid(b geom.Box) error {
	r.Solids = append(r.Solids, b)
	return nil
}

func (r *Recorder) Wire(b geom.Box) error {
	r.Wires = append(r.Wires, b)
	return nil
}
