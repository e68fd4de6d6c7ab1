package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/models"
	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list [category-id]",
	Short: "List transactions",
	Long: `List transactions in chronological order, optionally only those
in one category.

Example:
  finance list
  finance list 2`,
	Args: cobra.MaximumNArgs(1),
	Run:  runList,
}

func runList(cmd *cobra.Command, args []string) {
	st, _ := openStore()

	var category *models.Category
	if len(args) == 1 {
		category = requireCategory(st, args[0])
	}

	txns := st.ListTransactions(category)
	if len(txns) == 0 {
		fmt.Println("No transactions")
		return
	}

	exitOnError(writeTransactions(os.Stdout, txns), "failed to print transactions")
}

func writeTransactions(out io.Writer, txns []models.Transaction) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, t := range txns {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\n",
			t.ID,
			t.Datetime.UTC().Format(time.DateTime),
			t.Amount,
			t.CategoryName(),
			t.Description,
		)
	}
	return w.Flush()
}
