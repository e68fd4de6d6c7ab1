package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/models"
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command.
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transaction",
	Long: `Delete a transaction by ID. Deleting an unknown ID changes nothing.

Example:
  finance delete 3`,
	Args: cobra.ExactArgs(1),
	Run:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) {
	id, err := parseID(args[0])
	exitOnError(err, "invalid transaction ID")

	st, _ := openStore()

	deleted, err := st.DeleteTransaction(models.TransactionID(id))
	exitOnError(err, "failed to delete transaction")

	if !deleted {
		slog.Debug("No transaction to delete", "id", id)
		fmt.Printf("No transaction with ID: %d\n", id)
		return
	}
	fmt.Printf("Deleted transaction with ID: %d\n", id)
}
