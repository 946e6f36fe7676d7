package cube

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/universim/pkg/geom"
	"github.com/chazu/universim/pkg/wireframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComputesBoxAndWireframe(t *testing.T) {
	c, err := New(1, 2, 3, 30)
	require.NoError(t, err)

	assert.Equal(t, 1.0, c.X())
	assert.Equal(t, 2.0, c.Y())
	assert.Equal(t, 3.0, c.Z())
	assert.Equal(t, 30.0, c.Len())

	box := c.Box()
	assert.True(t, box.IsCube())
	assert.Equal(t, geom.Vec3{X: 1, Y: 2, Z: 3}, box.Center())
	assert.Equal(t, geom.Vec3{X: 30, Y: 30, Z: 30}, box.Extents())

	want, err := wireframe.Build(box)
	require.NoError(t, err)
	assert.Equal(t, want, c.Wireframe())
}

func TestNewRejectsInvalidLength(t *testing.T) {
	for _, l := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := New(0, 0, 0, l)
		require.Error(t, err, "len=%v", l)
		assert.True(t, errors.Is(err, ErrInvalidLength))
	}
}

func TestNewRejectsNonFiniteCenter(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		for _, xyz := range [][3]float64{{v, 0, 0}, {0, v, 0}, {0, 0, v}} {
			_, err := New(xyz[0], xyz[1], xyz[2], 1)
			assert.ErrorIs(t, err, ErrInvalidCenter, "center=%v", xyz)
		}
	}

	_, err := MustNew(0, 0, 0, 1).WithCenter(math.NaN(), 0, 0)
	assert.ErrorIs(t, err, ErrInvalidCenter)
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() { MustNew(0, 0, 0, 0) })
	assert.NotPanics(t, func() { MustNew(0, 0, 0, 1) })
}

func TestWireframeIsACopy(t *testing.T) {
	c := MustNew(0, 0, 0, 10)
	wf := c.Wireframe()
	wf[0] = geom.NewBox(geom.Vec3{X: 99}, geom.Vec3{X: 1, Y: 1, Z: 1})
	assert.NotEqual(t, wf[0], c.Wireframe()[0])
}

func TestWithCenterAndLenRebuildWireframe(t *testing.T) {
	c := MustNew(0, 0, 0, 10)

	moved, err := c.WithCenter(5, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, geom.Vec3{X: 0, Y: 10, Z: 5}, moved.Wireframe()[wireframe.TopLeft].Center())
	assert.Equal(t, 0.0, c.X(), "receiver must be unchanged")

	grown, err := c.WithLen(20)
	require.NoError(t, err)
	assert.Equal(t, geom.Vec3{X: -10, Y: 10, Z: 0}, grown.Wireframe()[wireframe.TopLeft].Center())

	_, err = c.WithLen(-2)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestEqual(t *testing.T) {
	assert.True(t, MustNew(1, 2, 3, 4).Equal(MustNew(1, 2, 3, 4)))
	assert.False(t, MustNew(1, 2, 3, 4).Equal(MustNew(1, 2, 3, 5)))
}
