package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/beancount"
	"github.com/spf13/cobra"
)

// ledgerCmd groups the commands that inspect exported ledger files.
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect exported Beancount ledger files",
}

var ledgerListCmd = &cobra.Command{
	Use:   "list [year]",
	Short: "List the ledger files of a year",
	Long: `List the months of a year that have a ledger file under BEANCOUNT_ROOT.
The year defaults to the current year.

Example:
  finance ledger list
  finance ledger list 2024`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		year := time.Now().Format("2006")
		if len(args) == 1 {
			year = args[0]
		}
		if _, err := strconv.ParseUint(year, 10, 16); err != nil || len(year) != 4 {
			exitOnError(fmt.Errorf("invalid year %q: expected YYYY", year), "invalid argument")
		}

		exitOnError(listLedgerMonths(os.Stdout, openLedger(), year), "failed to list ledger files")
	},
}

var ledgerShowCmd = &cobra.Command{
	Use:   "show <YYYY-MM>",
	Short: "Print the ledger file of a month",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !validLedgerMonth(args[0]) {
			exitOnError(fmt.Errorf("invalid month %q: expected YYYY-MM", args[0]), "invalid argument")
		}

		exitOnError(showLedgerMonth(os.Stdout, openLedger(), args[0]), "failed to read ledger file")
	},
}

func init() {
	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerShowCmd)
}

func openLedger() beancount.Repository {
	cfg := loadConfig([]string{"ledger", "root"})
	return beancount.NewFileSystemRepository(newPathResolver(cfg))
}

func listLedgerMonths(w io.Writer, repo beancount.Repository, year string) error {
	months, err := repo.GetMonthFilesInYear(year)
	if err != nil {
		return err
	}

	if len(months) == 0 {
		fmt.Fprintf(w, "No ledger files for %s\n", year)
		return nil
	}
	for _, m := range months {
		fmt.Fprintln(w, m)
	}
	return nil
}

func showLedgerMonth(w io.Writer, repo beancount.Repository, month string) error {
	if !repo.MonthFileExists(month) {
		fmt.Fprintf(w, "No ledger file for %s\n", month)
		return nil
	}

	content, err := repo.ReadMonthFile(month)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, content)
	return err
}
