package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/studytrack/internal/ui/stats"
)

func newStatsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show progress per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withEnv(ctx, g, func(e *env) error {
				sum, err := e.svc.Stats(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), stats.Render(sum, 80))
				return nil
			})
		},
	}
}
