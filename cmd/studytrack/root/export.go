package root

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/studytrack/internal/tracker"
)

func newExportCmd(g *globalFlags) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every category, task and log as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("invalid format %q: must be json or yaml", format)
			}

			ctx := cmd.Context()
			return withEnv(ctx, g, func(e *env) error {
				snap, err := e.svc.Snapshot(ctx)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if output != "" && output != "-" {
					f, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("creating %s: %w", output, err)
					}
					defer f.Close()
					w = f
				}

				if err := writeSnapshot(w, snap, format); err != nil {
					return err
				}
				e.log.Info().Str("format", format).Int("tasks", len(snap.Tasks)).Msg("exported")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func writeSnapshot(w io.Writer, snap *tracker.Snapshot, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
