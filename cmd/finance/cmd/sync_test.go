package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/beancount"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/converter"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/db"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/models"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/pathutil"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/store"
)

var syncNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestSync(t *testing.T, dryRun bool) (*ledgerSync, *beancount.FileSystemRepository, *bytes.Buffer) {
	t.Helper()

	root := t.TempDir()
	pathResolver := pathutil.New(pathutil.Config{LedgerRoot: root})

	conn, err := db.Open(pathResolver.GetDatabasePath())
	if err != nil {
		t.Fatalf("db.Open() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	repo := beancount.NewFileSystemRepository(pathResolver)
	out := &bytes.Buffer{}
	mapper := converter.NewMapperFromConfig(converter.AccountMappingConfig{})

	return &ledgerSync{
		mapper:       mapper,
		converter:    converter.NewConverter(mapper, "USD"),
		repo:         repo,
		history:      db.NewExportHistory(conn),
		pathResolver: pathResolver,
		storePath:    filepath.Join(root, "data.json"),
		dryRun:       dryRun,
		out:          out,
		now:          func() time.Time { return syncNow },
	}, repo, out
}

func syncFixture() []models.Transaction {
	food := &models.Category{ID: 1, Name: "Food"}
	return []models.Transaction{
		models.NewTransaction(1, 10, "Jan lunch", food, time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)),
		models.NewTransaction(2, 20, "Feb lunch", food, time.Date(2025, 2, 3, 12, 0, 0, 0, time.UTC)),
		models.NewTransaction(3, 5, "Feb bus", nil, time.Date(2025, 2, 4, 8, 0, 0, 0, time.UTC)),
	}
}

func TestLedgerSyncIsIdempotent(t *testing.T) {
	s, repo, _ := newTestSync(t, false)
	txns := syncFixture()

	first, err := s.run(txns, "")
	if err != nil {
		t.Fatalf("first run error = %v", err)
	}
	if first.Exported != 3 || first.Skipped != 0 || len(first.Files) != 2 {
		t.Fatalf("first run = %+v", first)
	}

	feb, err := repo.ReadMonthFile("2025-02")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(feb, "#txn-2") || !strings.Contains(feb, "#txn-3") || strings.Contains(feb, "#txn-1") {
		t.Fatalf("unexpected February ledger:\n%s", feb)
	}

	second, err := s.run(txns, "")
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}
	if second.Exported != 0 || second.Skipped != 3 {
		t.Fatalf("second run = %+v", second)
	}

	again, _ := repo.ReadMonthFile("2025-02")
	if again != feb {
		t.Fatal("second run modified the ledger")
	}

	last, err := s.history.GetMetadata(db.MetadataLastExport)
	if err != nil || last != "2025-03-01T12:00:00Z" {
		t.Fatalf("last export = %q, %v", last, err)
	}
}

func TestLedgerSyncAppendsOnlyNewTransactions(t *testing.T) {
	s, repo, _ := newTestSync(t, false)
	txns := syncFixture()

	if _, err := s.run(txns[:1], ""); err != nil {
		t.Fatal(err)
	}
	result, err := s.run(txns, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Exported != 2 || result.Skipped != 1 {
		t.Fatalf("result = %+v", result)
	}

	jan, _ := repo.ReadMonthFile("2025-01")
	if strings.Count(jan, "#txn-1") != 1 {
		t.Fatalf("transaction 1 exported more than once:\n%s", jan)
	}
}

func TestLedgerSyncMonthFilter(t *testing.T) {
	s, repo, _ := newTestSync(t, false)

	result, err := s.run(syncFixture(), "2025-01")
	if err != nil {
		t.Fatal(err)
	}
	if result.Exported != 1 {
		t.Fatalf("Exported = %d, want 1", result.Exported)
	}
	if repo.MonthFileExists("2025-02") {
		t.Fatal("February ledger written despite month filter")
	}
}

func TestLedgerSyncDryRun(t *testing.T) {
	s, repo, out := newTestSync(t, true)

	result, err := s.run(syncFixture(), "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Exported != 0 || repo.MonthFileExists("2025-01") {
		t.Fatalf("dry run wrote files: %+v", result)
	}
	if !strings.Contains(out.String(), "[DRY RUN] Would append to") || !strings.Contains(out.String(), `"Feb bus" #txn-3`) {
		t.Fatalf("unexpected dry run output:\n%s", out.String())
	}

	keys, err := s.history.GetExportedKeys(s.storePath)
	if err != nil || len(keys) != 0 {
		t.Fatalf("dry run recorded history: %v, %v", keys, err)
	}
}

func TestLedgerSyncExportsTransactionWithReusedID(t *testing.T) {
	s, repo, _ := newTestSync(t, false)

	st, err := store.New(s.storePath)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{"Coffee", "Bus"} {
		if _, err := st.AddTransaction(d, 3, nil); err != nil {
			t.Fatal(err)
		}
	}
	if result, err := s.run(st.ListTransactions(nil), ""); err != nil || result.Exported != 2 {
		t.Fatalf("first run = %+v, %v", result, err)
	}

	if _, err := st.DeleteTransaction(2); err != nil {
		t.Fatal(err)
	}
	reopened, err := store.New(s.storePath)
	if err != nil {
		t.Fatal(err)
	}
	id, err := reopened.AddTransaction("Taxi", 25, nil)
	if err != nil {
		t.Fatal(err)
	}
	if id != 2 {
		t.Fatalf("new transaction ID = %d, want the reused ID 2", id)
	}

	result, err := s.run(reopened.ListTransactions(nil), "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Exported != 1 || result.Skipped != 1 {
		t.Fatalf("second run = %+v, want the reused ID exported", result)
	}

	ledger, err := repo.ReadMonthFile(converter.Month(reopened.ListTransactions(nil)[1]))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(ledger, `"Taxi" #txn-2`) {
		t.Fatalf("ledger does not contain the new transaction with ID 2:\n%s", ledger)
	}
}

func TestLedgerSyncForgetReexports(t *testing.T) {
	s, repo, _ := newTestSync(t, false)
	txns := syncFixture()

	if _, err := s.run(txns, ""); err != nil {
		t.Fatal(err)
	}

	rec, err := s.forget(txns, 2)
	if err != nil {
		t.Fatalf("forget() error = %v", err)
	}
	if rec == nil || rec.Month != "2025-02" || rec.Key != exportKey(txns[1]) {
		t.Fatalf("forget() = %+v", rec)
	}

	result, err := s.run(txns, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.Exported != 1 || result.Skipped != 2 {
		t.Fatalf("run after forget = %+v", result)
	}
	feb, _ := repo.ReadMonthFile("2025-02")
	if strings.Count(feb, "#txn-2") != 2 {
		t.Fatalf("transaction 2 not appended again:\n%s", feb)
	}

	if rec, err := s.forget(txns, 2); err != nil || rec == nil {
		t.Fatalf("forget() after re-export = %+v, %v", rec, err)
	}
	if rec, err := s.forget(txns, 2); err != nil || rec != nil {
		t.Fatalf("forget() of unexported transaction = %+v, %v; want nil", rec, err)
	}
	if _, err := s.forget(txns, 99); err == nil {
		t.Fatal("forget() of unknown transaction should fail")
	}
}

func TestValidLedgerMonth(t *testing.T) {
	tests := []struct {
		month string
		want  bool
	}{
		{"2025-01", true},
		{"2025-12", true},
		{"overall", false},
		{"2025-13", false},
		{"2025-1", false},
		{"202501", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validLedgerMonth(tt.month); got != tt.want {
			t.Errorf("validLedgerMonth(%q) = %v, want %v", tt.month, got, tt.want)
		}
	}
}
