package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/models"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/store"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/summary"
	"github.com/spf13/cobra"
)

// addCmd represents the add command.
var addCmd = &cobra.Command{
	Use:   "add <description> <amount> [category-id]",
	Short: "Add a new transaction",
	Long: `Add a new transaction stamped with the current time.

Positive amounts are spending, negative amounts are income or refunds.
When a spending limit is set, the remaining budget for the current
month is shown afterwards.

Example:
  finance add "Groceries" 42.10 1
  finance add "Refund" -15`,
	Args: cobra.RangeArgs(2, 3),
	Run:  runAdd,
}

func runAdd(cmd *cobra.Command, args []string) {
	st, _ := openStore()

	amount, err := parseAmount(args[1])
	exitOnError(err, "invalid amount")

	var category *models.Category
	if len(args) == 3 {
		category = requireCategory(st, args[2])
	}

	id, err := st.AddTransaction(args[0], amount, category)
	exitOnError(err, "failed to add transaction")

	slog.Info("Transaction added", "id", id, "amount", amount)
	fmt.Printf("Added transaction with ID: %d\n", id)

	reportLimit(st, time.Now())
}

// reportLimit prints the remaining budget for the current month, or a warning when it is exceeded.
func reportLimit(st *store.Store, now time.Time) {
	limit, ok := st.Limit()
	if !ok {
		return
	}

	month := summary.CurrentMonth(now)
	remaining := summary.CheckLimitAt(st.ListTransactions(nil), limit, now)
	if remaining < 0 {
		slog.Warn("Spending limit exceeded", "month", month, "limit", limit, "over", -remaining)
		fmt.Fprintf(os.Stderr, "Spending limit exceeded by %.2f\n", -remaining)
		return
	}
	fmt.Printf("Remaining budget for %s: %.2f\n", month, remaining)
}
