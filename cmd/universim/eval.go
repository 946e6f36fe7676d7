package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval [script]",
	Short: "Evaluate a script and print its meshes as JSON",
	Long: `Evaluates a scene script (from the file argument, or stdin when absent) and
prints the tessellated bodies and edges with their colors, as a viewer would
receive them.`,
	Args: cobra.MaximumNArgs(1),
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

		var src []byte
		if len(args) == 1 {
			src, err = os.ReadFile(args[0])
		} else {
			src, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("script: %w", err)
		}

		result := NewApp(cfg, log).Evaluate(string(src))
		if err := json.NewEncoder(cmd.OutOrStdout()).Encode(result); err != nil {
			return fmt.Errorf("json: %w", err)
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("script has %d error(s): %s", len(result.Errors), result.Errors[0].Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
}
