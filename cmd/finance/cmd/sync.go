package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/beancount"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/converter"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/db"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/models"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/pathutil"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/summary"
	"github.com/spf13/cobra"
)

var (
	syncMonth string
	dryRun    bool
	reexport  []uint
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Export transactions to Beancount ledger files",
	Long: `Append transactions to monthly Beancount files under BEANCOUNT_ROOT.

This command:
1. Loads all transactions from the data file
2. Filters out transactions already exported from this data file
3. Converts them to Beancount format using the account mapping
4. Appends them to {root}/{YYYY}/{YYYY-MM}.beancount
5. Records the export history in SQLite

Running it again only appends transactions added since the last run.
--reexport forgets the export of the given transaction IDs first, so they
are appended again (for example after editing the ledger file by hand).

Example:
  finance sync
  finance sync --month 2024-01 --dry-run
  finance sync --reexport 4,7`,
	Args: cobra.NoArgs,
	Run:  runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncMonth, "month", "", "only export transactions of this month (YYYY-MM)")
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the entries instead of writing them")
	syncCmd.Flags().UintSliceVar(&reexport, "reexport", nil, "transaction IDs to export again")
}

func runSync(cmd *cobra.Command, args []string) {
	if syncMonth != "" && !validLedgerMonth(syncMonth) {
		exitOnError(fmt.Errorf("invalid month %q: expected YYYY-MM", syncMonth), "invalid flag")
	}

	slog.Info("Starting sync", "month", syncMonth, "dry_run", dryRun)

	st, cfg := openStore()
	if err := cfg.Validate(
		[]string{"ledger", "root"},
		[]string{"ledger", "currency"},
	); err != nil {
		exitOnError(err, "invalid configuration")
	}

	pathResolver := newPathResolver(cfg)

	dbPath := pathResolver.GetDatabasePath()
	slog.Debug("Opening database", "path", dbPath)
	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	mapper, err := converter.NewMapper(cfg.Ledger.MappingFile)
	exitOnError(err, "failed to load account mapping")

	storePath, err := filepath.Abs(st.Path())
	exitOnError(err, "failed to resolve data file path")

	s := &ledgerSync{
		mapper:       mapper,
		converter:    converter.NewConverter(mapper, cfg.Ledger.Currency),
		repo:         beancount.NewFileSystemRepository(pathResolver),
		history:      db.NewExportHistory(conn),
		pathResolver: pathResolver,
		storePath:    storePath,
		dryRun:       dryRun,
		out:          os.Stdout,
		now:          time.Now,
	}

	txns := st.ListTransactions(nil)

	for _, id := range reexport {
		rec, err := s.forget(txns, models.TransactionID(id))
		exitOnError(err, "failed to reset export")
		if rec == nil {
			fmt.Printf("Transaction %d has not been exported yet\n", id)
			continue
		}
		fmt.Printf("Transaction %d was exported to %s; it will be appended again\n", id, rec.LedgerFile)
	}

	result, err := s.run(txns, syncMonth)
	exitOnError(err, "sync failed")

	if result.Exported == 0 && !dryRun {
		fmt.Println("No new transactions to export")
	} else if !dryRun {
		fmt.Printf("Exported %d transactions to %d files\n", result.Exported, len(result.Files))
	}

	slog.Info("Sync completed",
		"exported", result.Exported,
		"skipped", result.Skipped,
		"files_written", len(result.Files),
	)
}

// ledgerSync appends not-yet-exported transactions to the monthly ledger files.
type ledgerSync struct {
	mapper       *converter.Mapper
	converter    *converter.Converter
	repo         beancount.Repository
	history      *db.ExportHistory
	pathResolver *pathutil.PathResolver
	storePath    string
	dryRun       bool
	out          io.Writer
	now          func() time.Time
}

type syncResult struct {
	Exported int
	Skipped  int
	Files    []string
}

// run exports txns, restricted to month when it is not empty.
// History for a month is recorded in one SQL transaction after its entries are appended.
func (s *ledgerSync) run(txns []models.Transaction, month string) (syncResult, error) {
	var result syncResult

	exported, err := s.history.GetExportedKeys(s.storePath)
	if err != nil {
		return result, err
	}

	byMonth := make(map[string][]models.Transaction)
	for _, t := range txns {
		m := converter.Month(t)
		if month != "" && m != month {
			continue
		}
		if _, ok := exported[exportKey(t)]; ok {
			result.Skipped++
			continue
		}
		byMonth[m] = append(byMonth[m], t)
	}

	slog.Info("New transactions to export", "count", countAll(byMonth), "skipped", result.Skipped)

	for _, m := range slices.Sorted(maps.Keys(byMonth)) {
		filePath, err := s.pathResolver.GetMonthFilePath(m)
		if err != nil {
			return result, err
		}

		if s.dryRun {
			fmt.Fprintf(s.out, "[DRY RUN] Would append to %s\n", filePath)
			for _, t := range byMonth[m] {
				fmt.Fprintln(s.out, s.converter.FormatTransaction(s.converter.ConvertTransaction(t)))
			}
			continue
		}

		records := make([]db.ExportRecord, 0, len(byMonth[m]))
		var appendErr error
		for _, t := range byMonth[m] {
			if t.Category != nil && !s.mapper.HasMapping(t.Category.Name) {
				slog.Debug("Category has no explicit account", "category", t.Category.Name, "account", s.mapper.GetAccount(t.Category.Name))
			}

			entry := s.converter.ConvertTransaction(t)
			if !entry.Balanced() {
				appendErr = fmt.Errorf("transaction %d does not balance", t.ID)
				break
			}
			if appendErr = s.repo.AppendTransaction(m, s.converter.FormatTransaction(entry)); appendErr != nil {
				break
			}
			records = append(records, db.ExportRecord{
				StorePath:  s.storePath,
				Key:        exportKey(t),
				Month:      m,
				Amount:     t.Amount,
				LedgerFile: filePath,
			})
		}

		// Appended entries are recorded even when a later append failed.
		if len(records) > 0 {
			if err := s.history.RecordExports(records); err != nil {
				return result, fmt.Errorf("failed to record export history for %s: %w", m, err)
			}
			result.Exported += len(records)
			result.Files = append(result.Files, filePath)
			slog.Info("Updated file", "path", filePath, "transactions", len(records))
		}
		if appendErr != nil {
			return result, fmt.Errorf("failed to append to %s: %w", filePath, appendErr)
		}
	}

	if !s.dryRun && result.Exported > 0 {
		if err := s.history.SetMetadata(db.MetadataLastExport, s.now().UTC().Format(time.RFC3339)); err != nil {
			return result, err
		}
	}

	return result, nil
}

// forget removes the export record of transaction id so the next run appends it again.
// It returns the removed record, or nil when the transaction was never exported.
func (s *ledgerSync) forget(txns []models.Transaction, id models.TransactionID) (*db.ExportRecord, error) {
	idx := slices.IndexFunc(txns, func(t models.Transaction) bool { return t.ID == id })
	if idx < 0 {
		return nil, fmt.Errorf("transaction %d not found", id)
	}

	key := exportKey(txns[idx])
	rec, err := s.history.GetExportRecord(s.storePath, key)
	if err != nil || rec == nil {
		return nil, err
	}
	if _, err := s.history.DeleteExportRecord(s.storePath, key); err != nil {
		return nil, err
	}
	return rec, nil
}

// validLedgerMonth reports whether month names a single YYYY-MM ledger file.
func validLedgerMonth(month string) bool {
	return month != summary.Overall && summary.ValidMonth(month)
}

func exportKey(t models.Transaction) db.ExportKey {
	return db.NewExportKey(uint32(t.ID), t.Datetime)
}

func countAll(groups map[string][]models.Transaction) int {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	return n
}
