package sdfx

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != triCount*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), triCount*3)
	}
}

func TestBoundingBoxIsCentered(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	min, max := box.BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{-50, -25, -12.5}
	expectMax := [3]float64{50, 25, 12.5}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	translated := k.Translate(box, 100, 200, 300)

	min, max := translated.BoundingBox()

	// Translated box(10,10,10) by (100,200,300) should be centered at (100,200,300).
	const tol = 0.5
	expectMin := [3]float64{95, 195, 295}
	expectMax := [3]float64{105, 205, 305}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestUnion(t *testing.T) {
	k := New()
	box1 := k.Box(50, 50, 50)
	box2 := k.Translate(k.Box(50, 50, 50), 100, 0, 0)
	u := k.Union(box1, box2)

	min, max := u.BoundingBox()
	if math.Abs(min[0]+25) > 0.5 || math.Abs(max[0]-125) > 0.5 {
		t.Errorf("union x range = %f..%f, expected ~-25..125", min[0], max[0])
	}

	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("union mesh is empty")
	}
	t.Logf("union triangle count: %d", mesh.TriangleCount())
}

func TestUnionSingle(t *testing.T) {
	k := New()
	box := k.Box(1, 2, 3)
	if k.Union(box) != box {
		t.Error("union of a single solid should return it unchanged")
	}
}

func TestThinWireBoxIsTessellated(t *testing.T) {
	// A wire edge of a 500-unit cube: 1 x 1 x 500.
	k := New()
	wire := k.Box(1, 1, 500)
	mesh, err := k.ToMesh(wire)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("thin wire box produced an empty mesh")
	}
}

func TestBoxMeshIsExact(t *testing.T) {
	k := New()
	s := k.Translate(k.Translate(k.Box(2, 4, 6), 10, 0, 0), 0, 20, 30)
	mesh, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.TriangleCount() != 12 {
		t.Fatalf("box mesh has %d triangles, want 12", mesh.TriangleCount())
	}

	lo := [3]float32{9, 18, 27}
	hi := [3]float32{11, 22, 33}
	for i := 0; i < len(mesh.Vertices); i += 3 {
		for a := 0; a < 3; a++ {
			if v := mesh.Vertices[i+a]; v != lo[a] && v != hi[a] {
				t.Fatalf("vertex %d axis %d = %f, want %f or %f", i/3, a, v, lo[a], hi[a])
			}
		}
	}
}

func TestSmallBoxMeshCostDoesNotDependOnCells(t *testing.T) {
	// A level-4 edge box would need thousands of marching cubes cells.
	for _, cells := range []int{8, DefaultMeshCells, maxMeshCells} {
		k := NewWithCells(cells)
		mesh, err := k.ToMesh(k.Box(1, 1, 500.0/81))
		if err != nil {
			t.Fatalf("cells %d: ToMesh failed: %v", cells, err)
		}
		if mesh.TriangleCount() != 12 {
			t.Errorf("cells %d: %d triangles, want 12", cells, mesh.TriangleCount())
		}
	}
}

func TestCellsFor(t *testing.T) {
	k := NewWithCells(32)
	tests := []struct {
		name    string
		w, h, d float64
		want    int
	}{
		{"cube uses base", 10, 10, 10, 32},
		{"slender raises", 1, 1, 100, 400},
		{"capped", 1, 1, 10000, maxMeshCells},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bb := unwrap(k.Box(tt.w, tt.h, tt.d)).BoundingBox()
			if got := k.cellsFor(bb); got != tt.want {
				t.Errorf("cellsFor(%vx%vx%v) = %d, want %d", tt.w, tt.h, tt.d, got, tt.want)
			}
		})
	}
}

func TestNewWithCellsFallback(t *testing.T) {
	if k := NewWithCells(0); k.meshCells != DefaultMeshCells {
		t.Errorf("meshCells = %d, want %d", k.meshCells, DefaultMeshCells)
	}
}

func TestToSTL(t *testing.T) {
	k := New()
	path := filepath.Join(t.TempDir(), "box.stl")
	if err := k.ToSTL(k.Box(10, 10, 10), path); err != nil {
		t.Fatalf("ToSTL failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	// Binary STL: 80-byte header + 4-byte count + 50 bytes per triangle.
	if info.Size() <= 84 {
		t.Errorf("STL file too small: %d bytes", info.Size())
	}
}
