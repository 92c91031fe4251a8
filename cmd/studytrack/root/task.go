package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/studytrack/internal/model"
)

func newTaskCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(
		newTaskListCmd(g),
		newTaskShowCmd(g),
		newTaskAddCmd(g),
		newTaskEditCmd(g),
		newTaskRmCmd(g),
	)
	return cmd
}

func newTaskListCmd(g *globalFlags) *cobra.Command {
	var all bool
	var category string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withEnv(ctx, g, func(e *env) error {
				views, err := e.svc.ListTaskViews(ctx, all)
				if err != nil {
					return err
				}
				if category != "" {
					id, err := resolveCategoryID(ctx, e.svc, category)
					if err != nil {
						return err
					}
					filtered := views[:0]
					for _, v := range views {
						if v.CategoryID == id {
							filtered = append(filtered, v)
						}
					}
					views = filtered
				}
				printTasks(cmd.OutOrStdout(), views, e.svc.Now())
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed tasks")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only tasks in this category (name or id)")
	return cmd
}

func newTaskShowCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task>",
		Short: "Show a task and its checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withEnv(ctx, g, func(e *env) error {
				id, err := resolveTaskID(ctx, e.svc, args[0])
				if err != nil {
					return err
				}
				v, err := e.svc.GetTaskView(ctx, id)
				if err != nil {
					return err
				}
				printTask(cmd.OutOrStdout(), v, e.svc.Now())
				return nil
			})
		},
	}
}

// metaFlags binds the task metadata flags shared by add and edit.
type metaFlags struct {
	category string
	title    string
	subtitle string
	deadline string
	priority int
}

func (f *metaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category name or id")
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "title")
	cmd.Flags().StringVarP(&f.subtitle, "subtitle", "s", "", "subtitle")
	cmd.Flags().StringVarP(&f.deadline, "deadline", "d", "", "deadline YYYY-MM-DD")
	cmd.Flags().IntVarP(&f.priority, "priority", "p", model.PriorityMedium, "priority 1 (low) to 5 (high)")
}

func newTaskAddCmd(g *globalFlags) *cobra.Command {
	var meta metaFlags
	var items []string
	r := model.DefaultRangeSpec()

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task with a numbered range or a list of items",
		Example: `  studytrack task add -c 語学 -t TOEIC --prefix "Part " --suffix "" --from 1 --to 7
  studytrack task add -c 専門科目 -t 線形代数 --item 行列 --item 固有値`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withEnv(ctx, g, func(e *env) error {
				categoryID := ""
				if meta.category != "" {
					id, err := resolveCategoryID(ctx, e.svc, meta.category)
					if err != nil {
						return err
					}
					categoryID = id
				}

				nt := model.NewTask{
					TaskMeta: model.TaskMeta{
						CategoryID: categoryID,
						Title:      meta.title,
						Subtitle:   meta.subtitle,
						Deadline:   meta.deadline,
						Priority:   meta.priority,
					},
					Mode:  model.GenerateRangeMode,
					Range: r,
				}
				if cmd.Flags().Changed("item") {
					nt.Mode = model.GenerateManualMode
					nt.ManualLabels = items
				}

				t, err := e.svc.CreateTask(ctx, nt)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created task %s (%s) with %d items\n", t.Title, shortID(t.ID), t.TotalItems)
				return nil
			})
		},
	}

	meta.register(cmd)
	cmd.Flags().StringVar(&r.Prefix, "prefix", r.Prefix, "range item prefix")
	cmd.Flags().StringVar(&r.Suffix, "suffix", r.Suffix, "range item suffix")
	cmd.Flags().IntVar(&r.Start, "from", r.Start, "first number of the range")
	cmd.Flags().IntVar(&r.End, "to", r.End, "last number of the range")
	cmd.Flags().StringArrayVar(&items, "item", nil, "checklist item (repeatable); switches to a manual list")
	cmd.MarkFlagsMutuallyExclusive("item", "from")
	cmd.MarkFlagsMutuallyExclusive("item", "to")
	return cmd
}

func newTaskEditCmd(g *globalFlags) *cobra.Command {
	var meta metaFlags

	cmd := &cobra.Command{
		Use:   "edit <task>",
		Short: "Change a task's category, title, subtitle, deadline or priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withEnv(ctx, g, func(e *env) error {
				id, err := resolveTaskID(ctx, e.svc, args[0])
				if err != nil {
					return err
				}
				t, err := e.svc.GetTask(ctx, id)
				if err != nil {
					return err
				}

				next := model.TaskMeta{
					CategoryID: t.CategoryID,
					Title:      t.Title,
					Subtitle:   t.Subtitle,
					Deadline:   t.Deadline,
					Priority:   t.Priority,
				}
				flags := cmd.Flags()
				if flags.Changed("category") {
					if next.CategoryID, err = resolveCategoryID(ctx, e.svc, meta.category); err != nil {
						return err
					}
				}
				if flags.Changed("title") {
					next.Title = meta.title
				}
				if flags.Changed("subtitle") {
					next.Subtitle = meta.subtitle
				}
				if flags.Changed("deadline") {
					next.Deadline = meta.deadline
				}
				if flags.Changed("priority") {
					next.Priority = meta.priority
				}

				updated, err := e.svc.UpdateTaskMeta(ctx, id, next)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s (%s)\n", updated.Title, shortID(updated.ID))
				return nil
			})
		},
	}

	meta.register(cmd)
	return cmd
}

func newTaskRmCmd(g *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <task>",
		Aliases: []string{"delete"},
		Short:   "Delete a task and its study logs",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete without --yes")
			}
			ctx := cmd.Context()
			return withEnv(ctx, g, func(e *env) error {
				id, err := resolveTaskID(ctx, e.svc, args[0])
				if err != nil {
					return err
				}
				if err := e.svc.DeleteTask(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", shortID(id))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}
