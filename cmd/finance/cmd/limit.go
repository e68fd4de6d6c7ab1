package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// limitCmd represents the limit command.
var limitCmd = &cobra.Command{
	Use:   "limit <amount>",
	Short: "Set the monthly spending limit",
	Long: `Set the spending limit for the current calendar month.
An amount of zero or less clears the limit.

Example:
  finance limit 500
  finance limit 0`,
	Args: cobra.ExactArgs(1),
	Run:  runLimit,
}

func runLimit(cmd *cobra.Command, args []string) {
	amount, err := parseAmount(args[0])
	exitOnError(err, "invalid amount")

	st, _ := openStore()
	exitOnError(st.SetLimit(amount), "failed to set limit")

	limit, ok := st.Limit()
	if !ok {
		fmt.Println("Spending limit cleared")
		return
	}
	fmt.Printf("Spending limit set to %.2f\n", limit)
	reportLimit(st, time.Now())
}
