package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/export"
	"github.com/spf13/cobra"
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export <filename>",
	Short: "Export all transactions to a CSV file",
	Long: `Export all transactions, in chronological order, to a CSV file with
the columns id, description, amount, timestamp and category.

Example:
  finance export transactions.csv`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

func runExport(cmd *cobra.Command, args []string) {
	st, _ := openStore()

	txns := st.ListTransactions(nil)
	exitOnError(export.WriteCSVFile(args[0], txns), "failed to export transactions")

	slog.Info("Exported transactions", "path", args[0], "count", len(txns))
	fmt.Printf("Exported %d transactions to %s\n", len(txns), args[0])
}
