// Package wireframe derives the twelve thin edge boxes that outline an
// axis-aligned box. The edges are drawn in a separate highlight pass on top
// of the solid body.
package wireframe

import (
	"fmt"

	"github.com/chazu/universim/pkg/geom"
)

// WireWidth is the thin extent of every edge box in the two dimensions
// perpendicular to the edge.
const WireWidth = 1.0

// EdgeCount is the number of edges of a box.
const EdgeCount = 12

// Edge indices in the order Build returns them.
const (
	TopLeft = iota // top face, x = -hw, runs along Z
	TopFront       // top face, z = +hd, runs along X
	TopRight       // top face, x = +hw, runs along Z
	TopBack        // top face, z = -hd, runs along X
	BottomLeft
	BottomFront
	BottomRight
	BottomBack
	SideLeftBack // x = -hw, z = -hd, runs along Y
	SideLeftFront
	SideRightFront
	SideRightBack
)

// Axis identifies the direction an edge runs along.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ

	// AxisNone is returned by EdgeAxis for an index that names no edge.
	AxisNone Axis = -1
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	case AxisNone:
		return "none"
	default:
		return "unknown"
	}
}

// EdgeAxis returns the running axis of edge i, or AxisNone when i is
// outside [0, EdgeCount).
func EdgeAxis(i int) Axis {
	switch {
	case i < 0 || i >= EdgeCount:
		return AxisNone
	case i >= SideLeftBack:
		return AxisY
	case i%2 == 0:
		return AxisZ
	default:
		return AxisX
	}
}

// Build returns the 12 edge boxes of b: four top-face edges, four
// bottom-face edges, then the four vertical side edges. Each edge box is
// centered on the midpoint of its edge, spans the full extent of b along
// the edge, and is WireWidth thick in the other two dimensions.
func Build(b geom.Box) ([EdgeCount]geom.Box, error) {
	var edges [EdgeCount]geom.Box
	if err := b.Validate(); err != nil {
		return edges, fmt.Errorf("wireframe: %w", err)
	}

	c := b.Center()
	ww, hh, dd := b.W(), b.H(), b.D()
	xx, yy, zz := ww*0.5, hh*0.5, dd*0.5
	w := WireWidth

	edge := func(dx, dy, dz, ex, ey, ez float64) geom.Box {
		return geom.NewBox(
			geom.Vec3{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz},
			geom.Vec3{X: ex, Y: ey, Z: ez},
		)
	}

	edges = [EdgeCount]geom.Box{
		// top
		edge(-xx, yy, 0, w, w, dd),
		edge(0, yy, zz, ww, w, w),
		edge(xx, yy, 0, w, w, dd),
		edge(0, yy, -zz, ww, w, w),
		// bottom
		edge(-xx, -yy, 0, w, w, dd),
		edge(0, -yy, zz, ww, w, w),
		edge(xx, -yy, 0, w, w, dd),
		edge(0, -yy, -zz, ww, w, w),
		// sides
		edge(-xx, 0, -zz, w, hh, w),
		edge(-xx, 0, zz, w, hh, w),
		edge(xx, 0, zz, w, hh, w),
		edge(xx, 0, -zz, w, hh, w),
	}
	return edges, nil
}
