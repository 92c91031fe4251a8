package root

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nhle/studytrack/internal/model"
)

func newItemCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Edit a task's checklist",
	}
	cmd.AddCommand(
		newItemToggleCmd(g),
		newItemAddCmd(g),
		newItemRenameCmd(g),
		newItemRmCmd(g),
	)
	return cmd
}

func parseItemID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, model.Invalid("item", fmt.Sprintf("%q is not an item number", s))
	}
	return id, nil
}

// itemCommand runs fn against a resolved task and prints the task's new
// progress.
func itemCommand(cmd *cobra.Command, g *globalFlags, taskArg string, fn func(ctx context.Context, e *env, taskID string) (*model.Task, error)) error {
	ctx := cmd.Context()
	return withEnv(ctx, g, func(e *env) error {
		id, err := resolveTaskID(ctx, e.svc, taskArg)
		if err != nil {
			return err
		}
		t, err := fn(ctx, e, id)
		if err != nil {
			return err
		}
		status := ""
		if t.IsCompleted {
			status = " completed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d (%d%%)%s\n",
			t.Title, t.CompletedItems, t.TotalItems, model.ProgressPercent(*t), status)
		return nil
	})
}

func newItemToggleCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task> <item>",
		Short: "Flip an item between done and not done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseItemID(args[1])
			if err != nil {
				return err
			}
			return itemCommand(cmd, g, args[0], func(ctx context.Context, e *env, taskID string) (*model.Task, error) {
				return e.svc.ToggleItem(ctx, taskID, itemID)
			})
		},
	}
}

func newItemAddCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <task> <label>",
		Short: "Append an item to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return itemCommand(cmd, g, args[0], func(ctx context.Context, e *env, taskID string) (*model.Task, error) {
				return e.svc.AddItem(ctx, taskID, args[1])
			})
		},
	}
}

func newItemRenameCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <task> <item> <label>",
		Short: "Change an item's label",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseItemID(args[1])
			if err != nil {
				return err
			}
			return itemCommand(cmd, g, args[0], func(ctx context.Context, e *env, taskID string) (*model.Task, error) {
				return e.svc.RenameItem(ctx, taskID, itemID, args[2])
			})
		},
	}
}

func newItemRmCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task> <item>",
		Aliases: []string{"delete"},
		Short:   "Remove an item from a task",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseItemID(args[1])
			if err != nil {
				return err
			}
			return itemCommand(cmd, g, args[0], func(ctx context.Context, e *env, taskID string) (*model.Task, error) {
				return e.svc.RemoveItem(ctx, taskID, itemID)
			})
		},
	}
}
