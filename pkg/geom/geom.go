// Package geom defines the axis-aligned box primitive shared by the
// wireframe builder, the cube type and the subdivider. Boxes carry no
// rotation component.
package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidExtents is returned when a box has a non-positive or
// non-finite extent along any axis.
var ErrInvalidExtents = errors.New("geom: extents must be positive and finite")

// Vec3 is a 3D point or direction.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v multiplied by s on every axis.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Box is an axis-aligned box described by its center and its extents
// (width along X, height along Y, depth along Z). It is a value type and
// never mutated after construction.
type Box struct {
	center  Vec3
	extents Vec3
}

// NewBox creates a box from a center point and full extents.
func NewBox(center, extents Vec3) Box {
	return Box{center: center, extents: extents}
}

// BoxFromMinMax creates a box spanning the two opposite corners min and max.
// The corners may be given in any order.
func BoxFromMinMax(min, max Vec3) Box {
	lo := Vec3{X: math.Min(min.X, max.X), Y: math.Min(min.Y, max.Y), Z: math.Min(min.Z, max.Z)}
	hi := Vec3{X: math.Max(min.X, max.X), Y: math.Max(min.Y, max.Y), Z: math.Max(min.Z, max.Z)}
	return Box{
		center:  lo.Add(hi).Scale(0.5),
		extents: hi.Sub(lo),
	}
}

// X returns the center X coordinate.
func (b Box) X() float64 { return b.center.X }

// Y returns the center Y coordinate.
func (b Box) Y() float64 { return b.center.Y }

// Z returns the center Z coordinate.
func (b Box) Z() float64 { return b.center.Z }

// W returns the width (extent along X).
func (b Box) W() float64 { return b.extents.X }

// H returns the height (extent along Y).
func (b Box) H() float64 { return b.extents.Y }

// D returns the depth (extent along Z).
func (b Box) D() float64 { return b.extents.Z }

// Center returns the center point.
func (b Box) Center() Vec3 { return b.center }

// Extents returns the full extents (W, H, D).
func (b Box) Extents() Vec3 { return b.extents }

// Min returns the minimum corner.
func (b Box) Min() Vec3 { return b.center.Sub(b.extents.Scale(0.5)) }

// Max returns the maximum corner.
func (b Box) Max() Vec3 { return b.center.Add(b.extents.Scale(0.5)) }

// Volume returns W*H*D.
func (b Box) Volume() float64 {
	return b.extents.X * b.extents.Y * b.extents.Z
}

// IsCube reports whether all three extents are equal.
func (b Box) IsCube() bool {
	return b.extents.X == b.extents.Y && b.extents.Y == b.extents.Z
}

// Contains reports whether p lies inside or on the boundary of the box.
func (b Box) Contains(p Vec3) bool {
	lo, hi := b.Min(), b.Max()
	return p.X >= lo.X && p.X <= hi.X &&
		p.Y >= lo.Y && p.Y <= hi.Y &&
		p.Z >= lo.Z && p.Z <= hi.Z
}

// Overlaps reports whether the two boxes share any volume or boundary.
func (b Box) Overlaps(o Box) bool {
	bl, bh := b.Min(), b.Max()
	ol, oh := o.Min(), o.Max()
	return bh.X >= ol.X && bl.X <= oh.X &&
		bh.Y >= ol.Y && bl.Y <= oh.Y &&
		bh.Z >= ol.Z && bl.Z <= oh.Z
}

// Validate checks that every extent is positive and finite.
func (b Box) Validate() error {
	axes := [3]struct {
		name string
		v    float64
	}{{"width", b.extents.X}, {"height", b.extents.Y}, {"depth", b.extents.Z}}
	for _, a := range axes {
		if !(a.v > 0) || math.IsInf(a.v, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidExtents, a.name, a.v)
		}
	}
	return nil
}

func (b Box) String() string {
	return fmt.Sprintf("box(center=(%.3f, %.3f, %.3f) size=%.3fx%.3fx%.3f)",
		b.center.X, b.center.Y, b.center.Z, b.extents.X, b.extents.Y, b.extents.Z)
}
