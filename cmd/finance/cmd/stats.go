package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/beancount"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/db"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/summary"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display store and export statistics",
	Long: `Display statistics about the data file and the ledger export.

Shows:
- Number of transactions and categories
- Spending limit and remaining budget for the current month
- Number of exported transactions and ledger months
- Ledger files of the current year
- Last export timestamp

Example:
  finance stats`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	st, cfg := openStore()
	now := time.Now()

	txnCount, categoryCount := st.Counts()

	fmt.Println("\n=== Store Statistics ===")
	fmt.Printf("Data file:          %s\n", st.Path())
	fmt.Printf("Transactions:       %d\n", txnCount)
	fmt.Printf("Categories:         %d\n", categoryCount)

	if limit, ok := st.Limit(); ok {
		remaining := summary.CheckLimitAt(st.ListTransactions(nil), limit, now)
		fmt.Printf("Spending limit:     %.2f\n", limit)
		fmt.Printf("Remaining (%s): %.2f\n", summary.CurrentMonth(now), remaining)
	} else {
		fmt.Printf("Spending limit:     (none)\n")
	}

	pathResolver := newPathResolver(cfg)
	dbPath := pathResolver.GetDatabasePath()

	fmt.Println("\n=== Export Statistics ===")
	if !pathResolver.FileExists(dbPath) {
		fmt.Printf("Last export:        (never)\n\n")
		return
	}

	slog.Debug("Opening database", "path", dbPath)
	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	history := db.NewExportHistory(conn)
	stats, err := history.GetStats()
	exitOnError(err, "failed to get statistics")

	lastExport, err := history.GetMetadata(db.MetadataLastExport)
	exitOnError(err, "failed to get last export")

	year := now.Format("2006")
	months, err := beancount.NewFileSystemRepository(pathResolver).GetMonthFilesInYear(year)
	exitOnError(err, "failed to list ledger files")

	fmt.Printf("Database:           %s\n", conn.GetPath())
	fmt.Printf("Exported:           %d\n", stats.TotalExported)
	fmt.Printf("Ledger months:      %d\n", stats.TotalMonths)
	fmt.Printf("Ledger files (%s): %s\n", year, formatMonths(months))
	if lastExport != "" {
		fmt.Printf("Last export:        %s\n", lastExport)
	} else {
		fmt.Printf("Last export:        (never)\n")
	}
	fmt.Println()
}

func formatMonths(months []string) string {
	if len(months) == 0 {
		return "(none)"
	}
	return strings.Join(months, ", ")
}
