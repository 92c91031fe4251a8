package root

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/nhle/studytrack/internal/app"
)

var errNoTerminal = errors.New("the terminal UI needs a terminal; run a subcommand instead (see --help)")

func runTUI(ctx context.Context, g *globalFlags) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTerminal
	}

	return withEnv(ctx, g, func(e *env) error {
		m := app.New(e.svc, app.Options{
			ShowCompleted: e.cfg.Display.ShowCompleted,
			Logger:        e.log,
		})

		e.log.Info().Msg("starting tui")
		_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	})
}
