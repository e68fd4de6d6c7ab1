// Package cmd provides CLI commands for finance.
package cmd

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/config"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/models"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/pathutil"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/store"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	dataPath string
	debug    bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "finance",
	Short: "Track personal spending from the command line",
	Long: `finance records transactions, groups them into categories, summarizes
spending per month and warns when a monthly spending limit is exceeded.
All state lives in a single JSON file.

It supports:
- Adding, listing and deleting transactions
- Managing categories
- Monthly and overall summaries with per-day totals
- A monthly spending limit
- CSV export, Beancount ledger sync and ledger inspection

Example:
  finance category add Food
  finance add "Lunch" 12.50 1
  finance summary 2024-01
  finance limit 500`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(debug)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "data file (overrides FINANCE_DATA_PATH)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(limitCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(ledgerCmd)
}

func setupLogging(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// loadConfig loads the configuration, applies flag overrides and validates the required fields.
func loadConfig(required ...[]string) *config.Config {
	cfg, err := config.Load(cfgFile)
	exitOnError(err, "failed to load configuration")

	if dataPath != "" {
		cfg.Store.DataPath = dataPath
	}
	if cfg.Debug && !debug {
		setupLogging(true)
	}

	required = append(required, []string{"store", "dataPath"})
	exitOnError(cfg.Validate(required...), "invalid configuration")

	return cfg
}

func newPathResolver(cfg *config.Config) *pathutil.PathResolver {
	return pathutil.New(pathutil.Config{
		DataPath:     cfg.Store.DataPath,
		LedgerRoot:   cfg.Ledger.Root,
		DatabasePath: cfg.Ledger.DBPath,
	})
}

// openStore loads the configuration and opens the data file it points to.
func openStore() (*store.Store, *config.Config) {
	cfg := loadConfig()
	path := newPathResolver(cfg).GetDataPath()

	slog.Debug("Opening store", "path", path)
	st, err := store.New(path)
	exitOnError(err, "failed to open data file")

	return st, cfg
}

func parseAmount(s string) (float64, error) {
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("invalid amount %q: must be a finite number", s)
	}
	return amount, nil
}

func parseID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q: expected a non-negative integer", s)
	}
	return uint32(id), nil
}

// requireCategory resolves a category ID argument against the store.
func requireCategory(st *store.Store, arg string) *models.Category {
	id, err := parseID(arg)
	exitOnError(err, "invalid category")

	category, err := st.RequireCategory(models.CategoryID(id))
	exitOnError(err, "invalid category")

	return &category
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
