package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/chazu/universim/pkg/config"
	"github.com/chazu/universim/pkg/cube"
	"github.com/chazu/universim/pkg/engine"
	"github.com/chazu/universim/pkg/logger"
	"github.com/chazu/universim/pkg/metrics"
	"github.com/chazu/universim/pkg/scene"
	"github.com/chazu/universim/pkg/subdivide"
)

// plan is everything needed to build and advance a scene.
type plan struct {
	Seeds       []cube.Cube
	Subdivider  subdivide.Subdivider
	Limits      scene.Limits
	Generations int
	Workers     int
}

func planFromConfig(cfg config.Config) (plan, error) {
	root, err := cfg.RootCube()
	if err != nil {
		return plan{}, fmt.Errorf("root cube: %w", err)
	}
	return plan{
		Seeds:       []cube.Cube{root},
		Subdivider:  cfg.Subdivider(),
		Limits:      cfg.Limits,
		Generations: cfg.Generations,
		Workers:     cfg.Workers,
	}, nil
}

// withProgram overlays what a script declared. A script without cube
// declarations keeps the configured root; its subdivide count replaces the
// configured generations.
func (p plan) withProgram(prog *engine.Program) plan {
	if len(prog.Seeds) > 0 {
		p.Seeds = prog.Seeds
	}
	if prog.Bias != nil {
		p.Subdivider.Bias = *prog.Bias
	}
	if prog.Limits != nil {
		p.Limits = *prog.Limits
	}
	p.Generations = prog.Generations
	return p
}

// evalScript evaluates source, folding non-fatal eval errors into one error.
func evalScript(eng *engine.Engine, source string) (*engine.Program, error) {
	prog, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = e
		}
		return nil, fmt.Errorf("script: %w", errors.Join(errs...))
	}
	return prog, nil
}

// build creates the scene and applies the planned generations. When a limit
// stops the run early the scene is still returned, holding the last
// generation that fit, together with the limit error.
func (p plan) build(ctx context.Context, log *logger.Logger, m *metrics.Metrics) (*scene.Scene, error) {
	sc := scene.New(p.Seeds, scene.Options{
		Subdivider: p.Subdivider,
		Limits:     p.Limits,
		Workers:    p.Workers,
		Logger:     log,
		Metrics:    m,
	})
	if err := sc.Advance(ctx, p.Generations); err != nil {
		return sc, err
	}
	return sc, nil
}

// isLimit reports whether err is a scene limit refusal.
func isLimit(err error) bool {
	return errors.Is(err, scene.ErrGenerationLimit) || errors.Is(err, scene.ErrCubeLimit)
}
