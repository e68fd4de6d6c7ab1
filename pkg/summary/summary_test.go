package summary

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/models"
)

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func TestSummarizeOverall(t *testing.T) {
	txns := []models.Transaction{
		models.NewTransaction(1, 100, "a", nil, at(2025, 4, 30, 10)),
		models.NewTransaction(2, 200, "b", nil, at(2025, 5, 1, 9)),
		models.NewTransaction(3, 50, "c", nil, at(2025, 5, 1, 18)),
	}

	got := Summarize(txns, Overall, nil)
	want := Result{
		Total: 350,
		ByDay: map[string]float64{"2025-04-30": 100, "2025-05-01": 250},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Summarize() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2025-04-30", "2025-05-01"}, got.Days()); diff != "" {
		t.Fatalf("Days() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeTotalMatchesSum(t *testing.T) {
	amounts := []float64{12.5, 0.1, 0.2, -3.25, 800}
	var txns []models.Transaction
	for i, a := range amounts {
		txns = append(txns, models.NewTransaction(models.TransactionID(i+1), a, "t", nil, at(2025, 1, i+1, 12)))
	}

	got := Summarize(txns, Overall, nil).Total
	if got != 809.55 {
		t.Fatalf("Total = %v, want 809.55", got)
	}
}

func TestSummarizeSkipsNonFiniteAmounts(t *testing.T) {
	txns := []models.Transaction{
		models.NewTransaction(1, 10, "a", nil, at(2025, 1, 1, 12)),
		models.NewTransaction(2, math.Inf(1), "b", nil, at(2025, 1, 1, 13)),
		models.NewTransaction(3, math.NaN(), "c", nil, at(2025, 1, 2, 12)),
	}

	got := Summarize(txns, Overall, nil)
	want := Result{Total: 10, ByDay: map[string]float64{"2025-01-01": 10}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Summarize() mismatch (-want +got):\n%s", diff)
	}

	if r := CheckLimitAt(txns, math.Inf(1), at(2025, 1, 15, 0)); !math.IsInf(r, 1) {
		t.Fatalf("CheckLimitAt(+Inf) = %v, want +Inf", r)
	}
}

func TestSummarizeMonthFilter(t *testing.T) {
	txns := []models.Transaction{
		models.NewTransaction(1, 100, "march", nil, at(2025, 3, 31, 23)),
		models.NewTransaction(2, 200, "april", nil, at(2025, 4, 1, 0)),
		models.NewTransaction(3, 300, "april again", nil, at(2025, 4, 15, 12)),
		models.NewTransaction(4, 400, "next year", nil, at(2026, 4, 15, 12)),
	}

	got := Summarize(txns, "2025-04", nil)
	want := Result{
		Total: 500,
		ByDay: map[string]float64{"2025-04-01": 200, "2025-04-15": 300},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeUsesUTCDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 2025-06-01 02:00 in Tokyo is still May 31 in UTC.
	txn := models.Transaction{ID: 1, Amount: 10, Datetime: time.Date(2025, 6, 1, 2, 0, 0, 0, tokyo)}

	got := Summarize([]models.Transaction{txn}, "2025-05", nil)
	if got.Total != 10 || got.ByDay["2025-05-31"] != 10 {
		t.Fatalf("expected UTC bucketing, got %+v", got)
	}
}

func TestSummarizeCategoryFilter(t *testing.T) {
	food := models.Category{ID: 1, Name: "Food"}
	now := at(2025, 7, 10, 12)
	txns := []models.Transaction{
		models.NewTransaction(1, 12.5, "Lunch", &food, now),
		models.NewTransaction(2, 800, "Rent", nil, now),
		models.NewTransaction(3, 7, "Old name", &models.Category{ID: 1, Name: "Meals"}, now),
	}

	got := Summarize(txns, Overall, &food)
	want := Result{Total: 12.5, ByDay: map[string]float64{"2025-07-10": 12.5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeMalformedMonthMatchesNothing(t *testing.T) {
	txns := []models.Transaction{models.NewTransaction(1, 100, "a", nil, at(2025, 4, 3, 10))}

	for _, month := range []string{"", "2025-4", "April", "2025-13", "2025/04", "OVERALL"} {
		got := Summarize(txns, month, nil)
		if got.Total != 0 || len(got.ByDay) != 0 {
			t.Errorf("Summarize(%q) = %+v, want empty", month, got)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil, Overall, nil)
	if got.Total != 0 || got.ByDay == nil || len(got.ByDay) != 0 {
		t.Fatalf("Summarize(nil) = %+v", got)
	}
}

func TestValidMonth(t *testing.T) {
	cases := map[string]bool{
		"overall":  true,
		"2025-01":  true,
		"1999-12":  true,
		"2025-1":   false,
		"2025-13":  false,
		"2025-00":  false,
		"25-01":    false,
		"":         false,
		"2025-01x": false,
	}
	for month, want := range cases {
		if got := ValidMonth(month); got != want {
			t.Errorf("ValidMonth(%q) = %v, want %v", month, got, want)
		}
	}
}

func TestCheckLimitAt(t *testing.T) {
	now := at(2025, 8, 20, 12)
	txns := []models.Transaction{
		models.NewTransaction(1, 100, "a", nil, at(2025, 8, 1, 9)),
		models.NewTransaction(2, 200, "b", nil, at(2025, 8, 19, 9)),
		models.NewTransaction(3, 1000, "last month", nil, at(2025, 7, 31, 23)),
	}

	if got := CheckLimitAt(txns, 500, now); got != 200 {
		t.Fatalf("CheckLimitAt(500) = %v, want 200", got)
	}
	if got := CheckLimitAt(txns, 100, now); got != -200 {
		t.Fatalf("CheckLimitAt(100) = %v, want -200", got)
	}
}

func TestCheckLimitCurrentMonth(t *testing.T) {
	now := time.Now()
	txns := []models.Transaction{
		models.NewTransaction(1, 100, "a", nil, now),
		models.NewTransaction(2, 200, "b", nil, now),
	}

	if got := CheckLimit(txns, 500); got != 200 {
		t.Fatalf("CheckLimit(500) = %v, want 200", got)
	}
	if got := CheckLimit(txns, 100); got != -200 {
		t.Fatalf("CheckLimit(100) = %v, want -200", got)
	}
}

func TestCurrentMonth(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	if got := CurrentMonth(time.Date(2025, 1, 1, 5, 0, 0, 0, tokyo)); got != "2024-12" {
		t.Fatalf("CurrentMonth() = %q, want 2024-12", got)
	}
}
