// Package subdivide implements the Menger-sponge generation step: one cube
// becomes 20 children a third of its size, with the center cell and the six
// face-center cells removed.
package subdivide

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/chazu/universim/pkg/cube"
	"golang.org/x/sync/errgroup"
)

// DefaultBias is added to every child coordinate on every axis, so each
// generation drifts by +10 per axis. Subdivider{Bias: 0} keeps children
// inside the parent's footprint.
const DefaultBias = 10.0

// ChildCount is the number of children Generate returns for any valid cube.
const ChildCount = 20

// Offset is a cell position in the 3x3x3 grid, each component in {-1, 0, 1}.
type Offset struct {
	X, Y, Z int
}

// Manhattan returns |X| + |Y| + |Z|.
func (o Offset) Manhattan() int {
	return abs(o.X) + abs(o.Y) + abs(o.Z)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Keep reports whether the cell at o survives subdivision. Corner cells
// (norm 3) and edge cells (norm 2) are kept; the center and face centers are
// removed.
func Keep(o Offset) bool {
	return o.Manhattan() > 1
}

// offsets holds the kept cells in iteration order: x slowest, z fastest.
var offsets = func() []Offset {
	out := make([]Offset, 0, ChildCount)
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				o := Offset{X: x, Y: y, Z: z}
				if Keep(o) {
					out = append(out, o)
				}
			}
		}
	}
	return out
}()

// Offsets returns the 20 kept offsets in the order children are produced.
func Offsets() []Offset {
	out := make([]Offset, len(offsets))
	copy(out, offsets)
	return out
}

// Subdivider holds the positional bias applied to children. The zero value
// has no bias; Default() returns the reference configuration.
type Subdivider struct {
	Bias float64
}

// Default returns a Subdivider using DefaultBias.
func Default() Subdivider {
	return Subdivider{Bias: DefaultBias}
}

// Generate returns the 20 children of c using DefaultBias.
func Generate(c cube.Cube) ([]cube.Cube, error) {
	return Default().Generate(c)
}

// Generate returns the children of c in offset order. The child edge length
// is c.Len()/3 and each child center is parent + offset*childLen + Bias.
func (s Subdivider) Generate(c cube.Cube) ([]cube.Cube, error) {
	if !(c.Len() > 0) {
		return nil, fmt.Errorf("subdivide: %w: got %v", cube.ErrInvalidLength, c.Len())
	}
	childLen := c.Len() / 3
	children := make([]cube.Cube, 0, ChildCount)
	for _, o := range offsets {
		child, err := cube.New(
			c.X()+float64(o.X)*childLen+s.Bias,
			c.Y()+float64(o.Y)*childLen+s.Bias,
			c.Z()+float64(o.Z)*childLen+s.Bias,
			childLen,
		)
		if err != nil {
			return nil, fmt.Errorf("subdivide: child %v: %w", o, err)
		}
		children = append(children, child)
	}
	return children, nil
}

// Next computes the next generation: Generate applied to every cube, with
// the results concatenated by input index then child index. Cubes are
// processed on up to workers goroutines (GOMAXPROCS when workers <= 0); the
// output order does not depend on scheduling.
func (s Subdivider) Next(ctx context.Context, cubes []cube.Cube, workers int) ([]cube.Cube, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]cube.Cube, len(cubes)*ChildCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range cubes {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			children, err := s.Generate(cubes[i])
			if err != nil {
				return fmt.Errorf("cube %d: %w", i, err)
			}
			copy(out[i*ChildCount:], children)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of cubes after generations steps from one root.
func Count(generations int) int {
	n := 1
	for i := 0; i < generations; i++ {
		n *= ChildCount
	}
	return n
}

// LenAt returns the edge length after generations steps from rootLen.
func LenAt(rootLen float64, generations int) float64 {
	return rootLen / math.Pow(3, float64(generations))
}
