package root

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/studytrack/internal/store"
	"github.com/nhle/studytrack/internal/theme"
)

const Version = "0.1.0"

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	dbPath     string
	logLevel   string
	logFile    string
	recoverDB  bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "studytrack",
		Short:         "Track study tasks, checklists and deadlines",
		Long:          "studytrack is a local-first study planner. Run it without arguments for the terminal UI.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), g)
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default ~/.config/studytrack/config.yaml)")
	pf.StringVar(&g.dbPath, "db", "", "database file (overrides database.path)")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error, disabled")
	pf.StringVar(&g.logFile, "log-file", "", `log file, "-" for stderr (default <data-dir>/studytrack.log)`)
	pf.BoolVar(&g.recoverDB, "recover-db", false, "move a corrupt database aside and start fresh")

	cmd.AddCommand(
		newCategoryCmd(g),
		newTaskCmd(g),
		newItemCmd(g),
		newStatsCmd(g),
		newExportCmd(g),
		newImportCmd(g),
		newConfigCmd(g),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on error.
// errorLine is the message printed for a failed command.
func errorLine(err error) string {
	if store.IsBusyError(err) {
		return store.BusyHint
	}
	return err.Error()
}

func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, theme.ErrorStyle.Render("✗ "+errorLine(err)))
		os.Exit(1)
	}
}
