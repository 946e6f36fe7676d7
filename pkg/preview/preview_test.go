package preview

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/chazu/universim/pkg/cube"
	"github.com/chazu/universim/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rgb(t *testing.T, c *Canvas, x, y int) (uint8, uint8, uint8) {
	t.Helper()
	dc, err := c.Render()
	require.NoError(t, err)
	r, g, b, _ := dc.Image().At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func TestRenderSingleCube(t *testing.T) {
	c := New(200, 200)
	require.NoError(t, render.DrawCube(c, cube.MustNew(0, 0, 0, 10)))
	assert.Equal(t, 13, c.Len())

	r, g, b := rgb(t, c, 100, 100)
	assert.Equal(t, [3]uint8{0xF5, 0xF5, 0xF5}, [3]uint8{r, g, b}, "body is whitesmoke")

	r, g, b = rgb(t, c, 2, 2)
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b}, "margin is background")

	// The left vertical edge strip spans x in [-5.5, -4.5].
	r, g, b = rgb(t, c, 24, 100)
	assert.Equal(t, [3]uint8{0xFF, 0, 0}, [3]uint8{r, g, b}, "left edge is red")
}

func TestRenderEmpty(t *testing.T) {
	c := New(10, 10)
	r, g, b := rgb(t, c, 5, 5)
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b})
}

func TestRenderInvalidSize(t *testing.T) {
	_, err := New(0, 10).Render()
	assert.Error(t, err)
}

func TestEncodeAndSave(t *testing.T) {
	c := New(64, 48)
	c.Angle = 0.5
	require.NoError(t, render.DrawCube(c, cube.MustNew(1, 2, 3, 30)))

	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())

	require.NoError(t, c.SavePNG(filepath.Join(t.TempDir(), "preview.png")))
}
