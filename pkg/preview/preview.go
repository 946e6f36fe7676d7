// Package preview draws a flat PNG snapshot of a scene: an orthographic
// view down the Z axis, rotated about Z by the scene angle, with the solid
// pass in whitesmoke and the wire pass in red on black.
package preview

import (
	"errors"
	"io"
	"math"
	"sort"

	"github.com/chazu/universim/pkg/geom"
	"github.com/chazu/universim/pkg/render"
	"github.com/fogleman/gg"
)

// Compile-time interface check.
var _ render.Renderer = (*Canvas)(nil)

const outlineColor = "#808080"

type item struct {
	box  geom.Box
	wire bool
	seq  int
}

// Canvas collects boxes through the render.Renderer interface and
// rasterizes them on Render.
type Canvas struct {
	Width, Height int
	Margin        float64
	Angle         float64 // radians, rotation about Z

	items []item
}

// New returns a canvas of the given pixel size.
func New(width, height int) *Canvas {
	return &Canvas{Width: width, Height: height, Margin: 16}
}

func (c *Canvas) Solid(b geom.Box) error {
	c.items = append(c.items, item{box: b, seq: len(c.items)})
	return nil
}

func (c *Canvas) Wire(b geom.Box) error {
	c.items = append(c.items, item{box: b, wire: true, seq: len(c.items)})
	return nil
}

// Len returns the number of boxes collected.
func (c *Canvas) Len() int { return len(c.items) }

// corners returns the four XY corners of b rotated by the canvas angle.
func (c *Canvas) corners(b geom.Box) [4][2]float64 {
	lo, hi := b.Min(), b.Max()
	sin, cos := math.Sincos(c.Angle)
	pts := [4][2]float64{{lo.X, lo.Y}, {hi.X, lo.Y}, {hi.X, hi.Y}, {lo.X, hi.Y}}
	for i, p := range pts {
		pts[i] = [2]float64{p[0]*cos - p[1]*sin, p[0]*sin + p[1]*cos}
	}
	return pts
}

// Render rasterizes the collected boxes. Boxes are painted far to near
// (ascending max Z); within equal depth the draw order is kept.
func (c *Canvas) Render() (*gg.Context, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return nil, errors.New("preview: canvas size must be positive")
	}
	dc := gg.NewContext(c.Width, c.Height)
	dc.SetHexColor(render.Background)
	dc.Clear()
	if len(c.items) == 0 {
		return dc, nil
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, it := range c.items {
		for _, p := range c.corners(it.box) {
			minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
			minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
		}
	}
	spanX, spanY := math.Max(maxX-minX, 1e-9), math.Max(maxY-minY, 1e-9)
	availW := float64(c.Width) - 2*c.Margin
	availH := float64(c.Height) - 2*c.Margin
	scale := math.Min(availW/spanX, availH/spanY)
	offX := c.Margin + (availW-spanX*scale)/2
	offY := c.Margin + (availH-spanY*scale)/2

	toPx := func(p [2]float64) (float64, float64) {
		// Flip Y so +Y points up in the image.
		return offX + (p[0]-minX)*scale, float64(c.Height) - (offY + (p[1]-minY)*scale)
	}

	items := append([]item(nil), c.items...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].box.Max().Z < items[j].box.Max().Z
	})

	dc.SetLineWidth(1)
	for _, it := range items {
		pts := c.corners(it.box)
		for i, p := range pts {
			x, y := toPx(p)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		if it.wire {
			dc.SetHexColor(render.WireColor)
			dc.FillPreserve()
			dc.Stroke()
			continue
		}
		dc.SetHexColor(render.SolidColor)
		dc.FillPreserve()
		dc.SetHexColor(outlineColor)
		dc.Stroke()
	}
	return dc, nil
}

// Encode renders and writes the image as PNG.
func (c *Canvas) Encode(w io.Writer) error {
	dc, err := c.Render()
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// SavePNG renders and writes the image to path.
func (c *Canvas) SavePNG(path string) error {
	dc, err := c.Render()
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}
