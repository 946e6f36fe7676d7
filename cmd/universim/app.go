package main

import (
	"context"
	"fmt"

	"github.com/chazu/universim/pkg/config"
	"github.com/chazu/universim/pkg/engine"
	"github.com/chazu/universim/pkg/kernel"
	"github.com/chazu/universim/pkg/kernel/sdfx"
	"github.com/chazu/universim/pkg/logger"
	"github.com/chazu/universim/pkg/metrics"
	"github.com/chazu/universim/pkg/render"
	"github.com/chazu/universim/pkg/tessellate"
	"github.com/chazu/universim/pkg/wireframe"
)

// App evaluates scene scripts into colored meshes for an interactive viewer.
type App struct {
	cfg     config.Config
	engine  *engine.Engine
	kernel  kernel.Kernel
	log     *logger.Logger
	metrics *metrics.Metrics
}

// MeshData is the JSON-serializable mesh format sent to a viewer.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Meshes     []MeshData      `json:"meshes"`
	Errors     []EvalErrorData `json:"errors"`
	Warnings   []EvalErrorData `json:"warnings"`
	Generation int             `json:"generation"`
	Cubes      int             `json:"cubes"`
}

// NewApp creates an App with an engine and the sdfx kernel sized by cfg.
func NewApp(cfg config.Config, log *logger.Logger) *App {
	if log == nil {
		log = logger.NewNop()
	}
	return &App{
		cfg:     cfg,
		engine:  engine.NewEngine(),
		kernel:  sdfx.NewWithCells(cfg.MeshCells),
		log:     log.With("component", "app"),
		metrics: metrics.New(),
	}
}

// meshColor maps a mesh role onto the scene palette.
func meshColor(r kernel.Role) string {
	if r == kernel.RoleWire {
		return render.WireColor
	}
	return render.SolidColor
}

// meshPlan decides how much of a scene with n cubes fits cfg.MeshBudget.
// Edges are dropped first; if even the bodies do not fit, nothing is
// tessellated.
func (a *App) meshPlan(n int) (wires, ok bool, warning string) {
	budget := a.cfg.MeshBudget
	full := n * (1 + wireframe.EdgeCount)
	switch {
	case budget <= 0 || full <= budget:
		return true, true, ""
	case n <= budget:
		return false, true, fmt.Sprintf("mesh budget %d exceeded (%d meshes): edges omitted", budget, full)
	default:
		return false, false, fmt.Sprintf("mesh budget %d exceeded (%d cubes): nothing tessellated", budget, n)
	}
}

// Evaluate takes script source and returns mesh data + errors.
// A scene limit that stops subdivision early is reported as a warning and
// the last generation that fit is still tessellated.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into a program.
	prog, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate failed", "error", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the viewer format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: Build the scene and apply the scripted generations.
	p, err := planFromConfig(a.cfg)
	if err != nil {
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	p = p.withProgram(prog)
	sc, err := p.build(context.Background(), a.log, a.metrics)
	if err != nil {
		if !isLimit(err) {
			result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
			return result
		}
		result.Warnings = append(result.Warnings, EvalErrorData{Message: err.Error()})
	}
	result.Generation = sc.Generation()
	result.Cubes = sc.Len()

	// Step 4: Tessellate bodies and edges within the mesh budget.
	cubes := sc.Cubes()
	wires, ok, warn := a.meshPlan(len(cubes))
	if warn != "" {
		a.log.Warn("mesh budget exceeded", "cubes", len(cubes), "budget", a.cfg.MeshBudget)
		result.Warnings = append(result.Warnings, EvalErrorData{Message: warn})
	}
	if !ok {
		return result
	}
	meshes, err := tessellate.Tessellate(cubes, a.kernel, wires)
	if err != nil {
		a.log.Error("tessellate failed", "error", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	// Step 5: Convert kernel meshes to the viewer format.
	for _, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    meshColor(m.Role),
		})
	}
	return result
}
