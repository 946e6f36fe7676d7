// Package config loads the YAML configuration for a universim run.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/chazu/universim/pkg/cube"
	"github.com/chazu/universim/pkg/scene"
	"github.com/chazu/universim/pkg/subdivide"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Root describes the seed cube.
type Root struct {
	X   float64 `mapstructure:"x" yaml:"x"`
	Y   float64 `mapstructure:"y" yaml:"y"`
	Z   float64 `mapstructure:"z" yaml:"z"`
	Len float64 `mapstructure:"len" yaml:"len"`
}

// Preview controls the PNG snapshot.
type Preview struct {
	Width  int     `mapstructure:"width" yaml:"width"`
	Height int     `mapstructure:"height" yaml:"height"`
	Margin float64 `mapstructure:"margin" yaml:"margin"`
}

// Config is the full run configuration. MeshBudget caps the meshes one
// viewer evaluation may tessellate; zero means unbounded.
type Config struct {
	Root        Root         `mapstructure:"root" yaml:"root"`
	Bias        float64      `mapstructure:"bias" yaml:"bias"`
	Generations int          `mapstructure:"generations" yaml:"generations"`
	Limits      scene.Limits `mapstructure:"limits" yaml:"limits"`
	Workers     int          `mapstructure:"workers" yaml:"workers"`
	LogMode     string       `mapstructure:"log_mode" yaml:"log_mode"`
	MeshCells   int          `mapstructure:"mesh_cells" yaml:"mesh_cells"`
	MeshBudget  int          `mapstructure:"mesh_budget" yaml:"mesh_budget"`
	Preview     Preview      `mapstructure:"preview" yaml:"preview"`
}

// Default returns the reference configuration: a 500-unit root cube at the
// origin with the standard bias.
func Default() Config {
	return Config{
		Root:        Root{Len: 500},
		Bias:        subdivide.DefaultBias,
		Generations: 0,
		Limits:      scene.Limits{MaxGenerations: 5, MaxCubes: 200000},
		LogMode:     "dev",
		MeshCells:   64,
		MeshBudget:  120000,
		Preview:     Preview{Width: 800, Height: 800, Margin: 16},
	}
}

// Load reads path and overlays it on Default. A missing file is an error;
// keys absent from the file keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes over Default and validates the result.
func Parse(data []byte) (Config, error) {
	raw := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("config: parse yaml: %w", err)
	}

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.RootCube(); err != nil {
		errs = append(errs, fmt.Errorf("root: %w", err))
	}
	if math.IsNaN(c.Bias) || math.IsInf(c.Bias, 0) {
		errs = append(errs, fmt.Errorf("bias must be finite, got %v", c.Bias))
	}
	if c.Generations < 0 {
		errs = append(errs, fmt.Errorf("generations must be >= 0, got %d", c.Generations))
	}
	if c.Limits.MaxGenerations < 0 || c.Limits.MaxCubes < 0 {
		errs = append(errs, errors.New("limits must be >= 0"))
	}
	if c.Limits.MaxGenerations > 0 && c.Generations > c.Limits.MaxGenerations {
		errs = append(errs, fmt.Errorf("generations %d exceeds limits.max_generations %d",
			c.Generations, c.Limits.MaxGenerations))
	}
	if c.MeshBudget < 0 {
		errs = append(errs, fmt.Errorf("mesh_budget must be >= 0, got %d", c.MeshBudget))
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		errs = append(errs, errors.New("preview size must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}

// RootCube builds the seed cube.
func (c Config) RootCube() (cube.Cube, error) {
	return cube.New(c.Root.X, c.Root.Y, c.Root.Z, c.Root.Len)
}

// Subdivider returns the subdivider configured with Bias.
func (c Config) Subdivider() subdivide.Subdivider {
	return subdivide.Subdivider{Bias: c.Bias}
}
