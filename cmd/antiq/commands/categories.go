package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/antiq-app/antiq/internal/models"
	"github.com/antiq-app/antiq/internal/store"
)

// NewCategoriesCmd creates the categories command with its subcommands
func NewCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
	}
	cmd.AddCommand(newCategoriesListCmd())
	cmd.AddCommand(newCategoriesAddCmd())
	cmd.AddCommand(newCategoriesRmCmd())
	return cmd
}

func newCategoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := requireSession()
			if err != nil {
				return err
			}
			categories, err := client.ListCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("list categories: %w", err)
			}
			if len(categories) == 0 {
				fmt.Println("No categories.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCOLOR\tACTIVE")
			for _, category := range categories {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n",
					shortID(category.ID), category.Name, category.Color, category.Active)
			}
			return w.Flush()
		},
	}
}

func newCategoriesAddCmd() *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := requireSession()
			if err != nil {
				return err
			}
			draft := models.CategoryDraft{
				Name:   args[0],
				Color:  color,
				Active: true,
			}
			category, err := client.CreateCategory(cmd.Context(), draft)
			if err != nil {
				return fmt.Errorf("create category: %w", err)
			}
			fmt.Printf("Created category %s: %s (%s)\n",
				shortID(category.ID), category.Name, category.Color)
			return nil
		},
	}
	cmd.Flags().StringVar(&color, "color", store.UnknownCategoryColor, "Hex color, e.g. #3f51b5")
	return cmd
}

func newCategoriesRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name|id>",
		Short: "Delete a category",
		Long:  "Delete a category. Tasks referencing it keep the reference and render with the unknown label.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := requireSession()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			category, err := resolveCategory(ctx, client, args[0])
			if err != nil {
				return err
			}
			if err := client.DeleteCategory(ctx, category.ID); err != nil {
				return fmt.Errorf("delete category: %w", err)
			}
			fmt.Printf("Deleted category %s\n", category.Name)
			return nil
		},
	}
}
