package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/models"
	"github.com/spf13/cobra"
)

// categoryCmd groups the category subcommands.
var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new category",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, _ := openStore()

		id, err := st.AddCategory(args[0])
		exitOnError(err, "failed to add category")

		fmt.Printf("Added category %q (ID: %d)\n", args[0], id)
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category",
	Long: `Delete a category by ID. Transactions in the category are kept
and become uncategorized.

Example:
  finance category delete 2`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		exitOnError(err, "invalid category ID")

		st, _ := openStore()

		changed, err := st.DeleteCategory(models.CategoryID(id))
		exitOnError(err, "failed to delete category")

		if !changed {
			fmt.Printf("No category with ID: %d\n", id)
			return
		}
		fmt.Printf("Deleted category with ID: %d\n", id)
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all categories",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		st, _ := openStore()

		categories := st.ListCategories()
		if len(categories) == 0 {
			fmt.Println("No categories")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		for _, c := range categories {
			fmt.Fprintf(w, "%d\t%s\n", c.ID, c.Name)
		}
		exitOnError(w.Flush(), "failed to print categories")
	},
}

func init() {
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
	categoryCmd.AddCommand(categoryListCmd)
}
