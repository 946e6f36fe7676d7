// Package kernel defines the abstract solid-geometry kernel the cube
// scene is tessellated and exported through. The sdfx subpackage is the
// only backend.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Box creates a w x h x d box centered at the origin.
	Box(w, h, d float64) Solid

	Translate(s Solid, x, y, z float64) Solid
	Union(a Solid, rest ...Solid) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
	ToSTL(s Solid, path string) error
}
