package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/universim/pkg/cube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	root, err := cfg.RootCube()
	require.NoError(t, err)
	assert.True(t, root.Equal(cube.MustNew(0, 0, 0, 500)))
	assert.Equal(t, 10.0, cfg.Subdivider().Bias)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
root:
  x: 10
  len: 90
bias: 0
generations: 2
limits:
  max_cubes: 1000
preview:
  width: 320
`))
	require.NoError(t, err)

	assert.Equal(t, Root{X: 10, Len: 90}, cfg.Root)
	assert.Equal(t, 0.0, cfg.Bias)
	assert.Equal(t, 2, cfg.Generations)
	assert.Equal(t, 1000, cfg.Limits.MaxCubes)
	assert.Equal(t, 5, cfg.Limits.MaxGenerations, "unset keys keep defaults")
	assert.Equal(t, 320, cfg.Preview.Width)
	assert.Equal(t, 800, cfg.Preview.Height)
}

func TestParseWeakTypes(t *testing.T) {
	cfg, err := Parse([]byte("root:\n  len: \"27\"\n"))
	require.NoError(t, err)
	assert.Equal(t, 27.0, cfg.Root.Len)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "root: [unclosed"},
		{"unknown key", "colour: red"},
		{"zero root", "root:\n  len: 0"},
		{"negative generations", "generations: -1"},
		{"generations above limit", "generations: 9\nlimits:\n  max_generations: 3"},
		{"bad preview", "preview:\n  width: 0"},
		{"nan bias", "bias: .nan"},
		{"infinite bias", "bias: -.inf"},
		{"infinite root center", "root:\n  x: .inf"},
		{"nan root center", "root:\n  z: .nan"},
		{"negative mesh budget", "mesh_budget: -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestNonFiniteValuesNameTheField(t *testing.T) {
	_, err := Parse([]byte("bias: .nan\nroot:\n  x: .inf\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, cube.ErrInvalidCenter)
	assert.Contains(t, err.Error(), "bias must be finite")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "universim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generations: 1\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Generations)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load("../../examples/universim.yaml")
	require.NoError(t, err)
	assert.Equal(t, 500.0, cfg.Root.Len)
}
