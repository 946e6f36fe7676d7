package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chazu/universim/pkg/config"
	"github.com/chazu/universim/pkg/engine"
	"github.com/chazu/universim/pkg/kernel/sdfx"
	"github.com/chazu/universim/pkg/logger"
	"github.com/chazu/universim/pkg/metrics"
	"github.com/chazu/universim/pkg/preview"
	"github.com/chazu/universim/pkg/render"
	"github.com/chazu/universim/pkg/tessellate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// runOptions are the per-invocation outputs and overrides of `run`.
type runOptions struct {
	Script      string
	Generations int // negative keeps the configured or scripted count
	Frames      int
	STL         string
	PNG         string
	JSON        bool
	Metrics     string
}

// summary is the --json report.
type summary struct {
	Seeds      int     `json:"seeds"`
	Generation int     `json:"generation"`
	Cubes      int     `json:"cubes"`
	CubeLen    float64 `json:"cubeLen"`
	Bias       float64 `json:"bias"`
	Angle      float64 `json:"angle"`
	Solids     int     `json:"solids"`
	Wires      int     `json:"wires"`
	Limited    string  `json:"limited,omitempty"`
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Grow a sponge and write the requested outputs",
	Long: `Builds the seed cubes from the config (or --script), applies the requested
number of generations and writes any of --stl, --png, --json and --metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		opts := runOptions{Generations: -1}
		opts.Script, _ = cmd.Flags().GetString("script")
		if cmd.Flags().Changed("generations") {
			opts.Generations, _ = cmd.Flags().GetInt("generations")
		}
		opts.Frames, _ = cmd.Flags().GetInt("frames")
		opts.STL, _ = cmd.Flags().GetString("stl")
		opts.PNG, _ = cmd.Flags().GetString("png")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Metrics, _ = cmd.Flags().GetString("metrics")

		return runScene(cmd.Context(), cfg, opts, log, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("script", "", "Scene script (.zy) declaring seeds and generations")
	runCmd.Flags().IntP("generations", "g", 0, "Generations to apply (overrides config and script)")
	runCmd.Flags().Int("frames", 0, "Animation frames to step before the PNG snapshot")
	runCmd.Flags().String("stl", "", "Write the union of all cube bodies as binary STL")
	runCmd.Flags().String("png", "", "Write a PNG preview")
	runCmd.Flags().Bool("json", false, "Print a JSON summary to stdout")
	runCmd.Flags().String("metrics", "", "Write prometheus metrics in text format")
}

// runScene is the body of `run`, separated from flag parsing for tests.
func runScene(ctx context.Context, cfg config.Config, opts runOptions, log *logger.Logger, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := planFromConfig(cfg)
	if err != nil {
		return err
	}
	if opts.Script != "" {
		src, err := os.ReadFile(opts.Script)
		if err != nil {
			return fmt.Errorf("script: %w", err)
		}
		prog, err := evalScript(engine.NewEngine(), string(src))
		if err != nil {
			return err
		}
		p = p.withProgram(prog)
	}
	if opts.Generations >= 0 {
		p.Generations = opts.Generations
	}

	m := metrics.New()
	sc, err := p.build(ctx, log, m)
	var limited string
	if err != nil {
		if !isLimit(err) {
			return err
		}
		// Outputs still describe the last generation that fit.
		limited = err.Error()
		log.Warn("run stopped early", "error", err)
	}
	for i := 0; i < opts.Frames; i++ {
		sc.Update()
	}
	cubes := sc.Cubes()
	log.Info("scene ready", "generation", sc.Generation(), "cubes", len(cubes))

	if opts.STL != "" {
		k := sdfx.NewWithCells(cfg.MeshCells)
		solid := tessellate.Solid(cubes, k)
		if solid == nil {
			return fmt.Errorf("stl: scene is empty")
		}
		if err := k.ToSTL(solid, opts.STL); err != nil {
			return fmt.Errorf("stl: %w", err)
		}
		log.Info("wrote stl", "path", opts.STL)
	}

	if opts.PNG != "" {
		canvas := preview.New(cfg.Preview.Width, cfg.Preview.Height)
		canvas.Margin = cfg.Preview.Margin
		canvas.Angle = sc.Angle()
		if err := sc.Draw(canvas); err != nil {
			return fmt.Errorf("png: %w", err)
		}
		if err := canvas.SavePNG(opts.PNG); err != nil {
			return fmt.Errorf("png: %w", err)
		}
		log.Info("wrote png", "path", opts.PNG)
	}

	if opts.Metrics != "" {
		if err := prometheus.WriteToTextfile(opts.Metrics, m.Registry); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	if opts.JSON {
		rec := &render.Recorder{}
		if err := sc.Draw(rec); err != nil {
			return fmt.Errorf("json: %w", err)
		}
		s := summary{
			Seeds:      len(p.Seeds),
			Generation: sc.Generation(),
			Cubes:      len(cubes),
			Bias:       p.Subdivider.Bias,
			Angle:      sc.Angle(),
			Solids:     len(rec.Solids),
			Wires:      len(rec.Wires),
			Limited:    limited,
		}
		if len(cubes) > 0 {
			s.CubeLen = cubes[0].Len()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("json: %w", err)
		}
	}
	return nil
}
