// Package cube defines the fractal cell: a cube-shaped box with its
// wireframe computed once at construction.
package cube

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/universim/pkg/geom"
	"github.com/chazu/universim/pkg/wireframe"
)

var (
	// ErrInvalidLength is returned when a cube's edge length is not positive.
	ErrInvalidLength = errors.New("cube: length must be positive and finite")

	// ErrInvalidCenter is returned when a center coordinate is NaN or infinite.
	ErrInvalidCenter = errors.New("cube: center must be finite")
)

// Cube is one fractal cell. The zero value is not a valid cube; use New.
type Cube struct {
	center    geom.Vec3
	len       float64
	box       geom.Box
	wireframe [wireframe.EdgeCount]geom.Box
}

// New creates a cube centered at (x, y, z) with edge length length and
// computes its wireframe.
func New(x, y, z, length float64) (Cube, error) {
	if !(length > 0) || math.IsInf(length, 0) {
		return Cube{}, fmt.Errorf("%w: got %v", ErrInvalidLength, length)
	}
	for _, v := range [3]float64{x, y, z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Cube{}, fmt.Errorf("%w: got (%v, %v, %v)", ErrInvalidCenter, x, y, z)
		}
	}
	center := geom.Vec3{X: x, Y: y, Z: z}
	box := geom.NewBox(center, geom.Vec3{X: length, Y: length, Z: length})
	wf, err := wireframe.Build(box)
	if err != nil {
		return Cube{}, fmt.Errorf("cube: %w", err)
	}
	return Cube{center: center, len: length, box: box, wireframe: wf}, nil
}

// MustNew is like New but panics on invalid input.
func MustNew(x, y, z, length float64) Cube {
	c, err := New(x, y, z, length)
	if err != nil {
		panic(err)
	}
	return c
}

// X returns the center X coordinate.
func (c Cube) X() float64 { return c.center.X }

// Y returns the center Y coordinate.
func (c Cube) Y() float64 { return c.center.Y }

// Z returns the center Z coordinate.
func (c Cube) Z() float64 { return c.center.Z }

// Len returns the edge length.
func (c Cube) Len() float64 { return c.len }

// Center returns the center point.
func (c Cube) Center() geom.Vec3 { return c.center }

// Box returns the cube as an axis-aligned box.
func (c Cube) Box() geom.Box { return c.box }

// Wireframe returns the 12 edge boxes. The array is returned by value.
func (c Cube) Wireframe() [wireframe.EdgeCount]geom.Box { return c.wireframe }

// WithCenter returns a copy of c moved to (x, y, z).
func (c Cube) WithCenter(x, y, z float64) (Cube, error) {
	return New(x, y, z, c.len)
}

// WithLen returns a copy of c resized to length.
func (c Cube) WithLen(length float64) (Cube, error) {
	return New(c.center.X, c.center.Y, c.center.Z, length)
}

// Equal reports whether two cubes have the same center and length.
// The box and wireframe are derived, so they are equal too.
func (c Cube) Equal(o Cube) bool {
	return c.center == o.center && c.len == o.len
}

func (c Cube) String() string {
	return fmt.Sprintf("cube(%.3f, %.3f, %.3f len=%.3f)", c.center.X, c.center.Y, c.center.Z, c.len)
}
