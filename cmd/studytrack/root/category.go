package root

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCategoryCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}
	cmd.AddCommand(
		newCategoryListCmd(g),
		newCategoryAddCmd(g),
		newCategoryEditCmd(g),
		newCategoryRmCmd(g),
	)
	return cmd
}

func newCategoryListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withEnv(ctx, g, func(e *env) error {
				categories, err := e.svc.ListCategories(ctx)
				if err != nil {
					return err
				}
				tasks, err := e.svc.ListTasks(ctx)
				if err != nil {
					return err
				}
				usage := make(map[string]int, len(categories))
				for _, t := range tasks {
					usage[t.CategoryID]++
				}
				printCategories(cmd.OutOrStdout(), categories, usage)
				return nil
			})
		},
	}
}

func newCategoryAddCmd(g *globalFlags) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withEnv(ctx, g, func(e *env) error {
				c, err := e.svc.CreateCategory(ctx, args[0], color)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created category %s (%s)\n", c.Name, shortID(c.ID))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "hex color such as #3b82f6 (default blue)")
	return cmd
}

func newCategoryEditCmd(g *globalFlags) *cobra.Command {
	var name, color string

	cmd := &cobra.Command{
		Use:   "edit <category>",
		Short: "Rename or recolor a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withEnv(ctx, g, func(e *env) error {
				id, err := resolveCategoryID(ctx, e.svc, args[0])
				if err != nil {
					return err
				}
				current, err := e.svc.GetCategory(ctx, id)
				if err != nil {
					return err
				}

				if !cmd.Flags().Changed("name") {
					name = current.Name
				}
				if !cmd.Flags().Changed("color") {
					color = current.Color
				}

				c, err := e.svc.UpdateCategory(ctx, id, name, color)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated category %s (%s)\n", c.Name, shortID(c.ID))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&color, "color", "", "new hex color")
	return cmd
}

func newCategoryRmCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <category>",
		Aliases: []string{"delete"},
		Short:   "Delete a category; its tasks show as Uncategorized",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withEnv(ctx, g, func(e *env) error {
				id, err := resolveCategoryID(ctx, e.svc, args[0])
				if err != nil {
					return err
				}
				if err := e.svc.DeleteCategory(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", shortID(id))
				return nil
			})
		},
	}
}
