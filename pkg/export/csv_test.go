package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/models"
)

func sampleTransactions() []models.Transaction {
	ts := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	return []models.Transaction{
		models.NewTransaction(1, 12.5, "Lunch, with team", &models.Category{ID: 1, Name: "Food"}, ts),
		models.NewTransaction(2, 800, "Rent", nil, ts.Add(time.Hour)),
		models.NewTransaction(3, -20, "", nil, ts.Add(2*time.Hour)),
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleTransactions()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	want := [][]string{
		{"id", "description", "amount", "timestamp", "category"},
		{"1", "Lunch, with team", "12.5", "2025-02-03T04:05:06Z", "Food"},
		{"2", "Rent", "800", "2025-02-03T05:05:06Z", "None"},
		{"3", "", "-20", "2025-02-03T06:05:06Z", "None"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("CSV mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSVFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "2025", "all.csv")

	if err := WriteCSVFile(path, sampleTransactions()[:1]); err != nil {
		t.Fatalf("WriteCSVFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	want := "id,description,amount,timestamp,category\n1,\"Lunch, with team\",12.5,2025-02-03T04:05:06Z,Food\n"
	if string(data) != want {
		t.Fatalf("file content = %q, want %q", data, want)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if buf.String() != "id,description,amount,timestamp,category\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
