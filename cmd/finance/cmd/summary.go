package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/models"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/summary"
	"github.com/spf13/cobra"
)

var summaryCategory string

// summaryCmd represents the summary command.
var summaryCmd = &cobra.Command{
	Use:   "summary [month]",
	Short: "Show a spending summary",
	Long: `Show the total and per-day totals for a month (YYYY-MM), or for all
transactions when the month is "overall" (the default).

Example:
  finance summary
  finance summary 2024-01
  finance summary 2024-01 --category 2`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryCategory, "category", "", "only include transactions in this category ID")
}

func runSummary(cmd *cobra.Command, args []string) {
	month := summary.Overall
	if len(args) == 1 {
		month = args[0]
	}
	if !summary.ValidMonth(month) {
		slog.Warn("Month filter matches nothing", "month", month, "expected", "YYYY-MM or overall")
	}

	st, _ := openStore()

	var category *models.Category
	if summaryCategory != "" {
		category = requireCategory(st, summaryCategory)
	}

	result := summary.Summarize(st.ListTransactions(nil), month, category)
	exitOnError(writeSummary(os.Stdout, month, category, result), "failed to print summary")
}

func writeSummary(out io.Writer, month string, category *models.Category, result summary.Result) error {
	title := "Summary for " + month
	if category != nil {
		title += fmt.Sprintf(" (category: %s)", category.Name)
	}
	fmt.Fprintln(out, title)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tAMOUNT")
	for _, day := range result.Days() {
		fmt.Fprintf(w, "%s\t%.2f\n", day, result.ByDay[day])
	}
	fmt.Fprintf(w, "TOTAL\t%.2f\n", result.Total)
	return w.Flush()
}
