package root

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/nhle/studytrack/internal/tracker"
)

func newImportCmd(g *globalFlags) *cobra.Command {
	var format, file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Merge a JSON or YAML export into the database",
		Long: `Reads a snapshot written by "studytrack export" from --file or stdin.
Records whose id already exists are overwritten; the rest are added.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, name, err := openInput(cmd, file)
			if err != nil {
				return err
			}
			defer r.Close()

			if format == "" {
				format = formatFromName(name)
			}
			snap, err := readSnapshot(r, format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			return withEnv(ctx, g, func(e *env) error {
				res, err := e.svc.Import(ctx, snap)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d categories, %d tasks, %d logs\n", res.Categories, res.Tasks, res.Logs)
				if res.SkippedLogs > 0 {
					fmt.Fprintf(out, "Skipped %d logs for unknown tasks\n", res.SkippedLogs)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: json or yaml (default from file extension, else json)")
	cmd.Flags().StringVar(&file, "file", "", "snapshot file (reads stdin if not provided)")
	return cmd
}

// openInput opens the named file, or stdin when name is empty. A
// terminal on stdin means nothing was piped in.
func openInput(cmd *cobra.Command, name string) (io.ReadCloser, string, error) {
	if name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, "", fmt.Errorf("opening %s: %w", name, err)
		}
		return f, name, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, "", fmt.Errorf("no input provided (stdin is a terminal); use --file or pipe an export")
	}
	return io.NopCloser(in), "", nil
}

func formatFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func readSnapshot(r io.Reader, format string) (*tracker.Snapshot, error) {
	var snap tracker.Snapshot
	switch format {
	case "json":
		if err := json.NewDecoder(r).Decode(&snap); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	case "yaml":
		if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("invalid format %q: must be json or yaml", format)
	}
	return &snap, nil
}
