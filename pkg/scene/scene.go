// Package scene owns the current fractal generation and advances it on an
// external trigger. The geometry itself is computed by the stateless
// subdivide and wireframe packages; the scene only holds the collection and
// bounds its growth.
package scene

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/universim/pkg/cube"
	"github.com/chazu/universim/pkg/logger"
	"github.com/chazu/universim/pkg/metrics"
	"github.com/chazu/universim/pkg/render"
	"github.com/chazu/universim/pkg/subdivide"
)

// RotationStep is the angle (radians) added to the scene rotation per frame.
const RotationStep = 0.005

var (
	// ErrGenerationLimit is returned by Trigger when another step would
	// exceed Limits.MaxGenerations.
	ErrGenerationLimit = errors.New("scene: generation limit reached")
	// ErrCubeLimit is returned by Trigger when the next generation would
	// hold more than Limits.MaxCubes cubes.
	ErrCubeLimit = errors.New("scene: cube limit reached")
)

// Limits bound the fan-out of repeated triggers. Zero means unbounded.
type Limits struct {
	MaxGenerations int `mapstructure:"max_generations" yaml:"max_generations"`
	MaxCubes       int `mapstructure:"max_cubes" yaml:"max_cubes"`
}

// Options configure a Scene. Nil Logger and Metrics are replaced with
// no-op / private instances.
type Options struct {
	Subdivider subdivide.Subdivider
	Limits     Limits
	Workers    int
	Logger     *logger.Logger
	Metrics    *metrics.Metrics
}

// Scene holds the current generation of cubes. It is safe for concurrent use.
type Scene struct {
	mu         sync.Mutex
	seeds      []cube.Cube
	cubes      []cube.Cube
	generation int
	angle      float64

	sub     subdivide.Subdivider
	limits  Limits
	workers int
	log     *logger.Logger
	metrics *metrics.Metrics
}

// New creates a scene whose first generation is seeds.
func New(seeds []cube.Cube, opts Options) *Scene {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	s := &Scene{
		seeds:   append([]cube.Cube(nil), seeds...),
		sub:     opts.Subdivider,
		limits:  opts.Limits,
		workers: opts.Workers,
		log:     opts.Logger.With("component", "scene"),
		metrics: opts.Metrics,
	}
	s.cubes = append([]cube.Cube(nil), seeds...)
	s.metrics.Cubes.Set(float64(len(s.cubes)))
	return s
}

// Trigger replaces the current generation with the next one. On error the
// scene is left unchanged.
func (s *Scene) Trigger(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limits.MaxGenerations > 0 && s.generation >= s.limits.MaxGenerations {
		s.metrics.ObserveRejected("generation_limit")
		s.log.Warn("trigger refused", "reason", "generation_limit", "generation", s.generation)
		return fmt.Errorf("%w: %d", ErrGenerationLimit, s.limits.MaxGenerations)
	}
	next := len(s.cubes) * subdivide.ChildCount
	if s.limits.MaxCubes > 0 && next > s.limits.MaxCubes {
		s.metrics.ObserveRejected("cube_limit")
		s.log.Warn("trigger refused", "reason", "cube_limit", "next_cubes", next, "max_cubes", s.limits.MaxCubes)
		return fmt.Errorf("%w: next generation has %d cubes, max %d", ErrCubeLimit, next, s.limits.MaxCubes)
	}

	start := time.Now()
	cubes, err := s.sub.Next(ctx, s.cubes, s.workers)
	if err != nil {
		return fmt.Errorf("scene: subdivide generation %d: %w", s.generation, err)
	}
	took := time.Since(start)

	s.cubes = cubes
	s.generation++
	s.metrics.ObserveGeneration(len(cubes), took)
	s.log.Info("generation advanced", "generation", s.generation, "cubes", len(cubes), "took", took)
	return nil
}

// Advance calls Trigger n times, stopping at the first error.
func (s *Scene) Advance(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := s.Trigger(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Update advances per-frame animation state.
func (s *Scene) Update() {
	s.mu.Lock()
	s.angle += RotationStep
	s.mu.Unlock()
}

// Draw renders every cube of the current generation in order.
func (s *Scene) Draw(r render.Renderer) error {
	for _, c := range s.Cubes() {
		if err := render.DrawCube(r, c); err != nil {
			return err
		}
	}
	return nil
}

// Reset returns the scene to its seeds.
func (s *Scene) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cubes = append([]cube.Cube(nil), s.seeds...)
	s.generation = 0
	s.metrics.Cubes.Set(float64(len(s.cubes)))
	s.log.Info("scene reset", "cubes", len(s.cubes))
}

// Cubes returns a copy of the current generation.
func (s *Scene) Cubes() []cube.Cube {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]cube.Cube(nil), s.cubes...)
}

// Len returns the number of cubes in the current generation.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cubes)
}

// Generation returns how many triggers have been applied since the seeds.
func (s *Scene) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Angle returns the current rotation angle in radians.
func (s *Scene) Angle() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.angle
}
