// Package summary aggregates transactions into totals and per-day breakdowns,
// and derives the remaining monthly budget from a spending limit.
package summary

import (
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/models"
)

// Overall selects every transaction regardless of month.
const Overall = "overall"

const (
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"
)

// Result is the aggregate over a filtered set of transactions.
type Result struct {
	Total float64
	ByDay map[string]float64 // keyed by YYYY-MM-DD (UTC); days without transactions are absent
}

// Days returns the ByDay keys in ascending order.
func (r Result) Days() []string {
	days := make([]string, 0, len(r.ByDay))
	for d := range r.ByDay {
		days = append(days, d)
	}
	slices.Sort(days)
	return days
}

// Summarize totals the transactions of month ("YYYY-MM" or Overall), optionally restricted
// to one category compared by value. A month string that is not a real month matches nothing.
// NaN and infinite amounts are skipped.
func Summarize(txns []models.Transaction, month string, category *models.Category) Result {
	total := decimal.Zero
	byDay := make(map[string]decimal.Decimal)

	for _, t := range txns {
		at := t.Datetime.UTC()
		if month != Overall && at.Format(monthLayout) != month {
			continue
		}
		if category != nil && !models.SameCategory(t.Category, category) {
			continue
		}
		if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
			continue
		}

		amount := decimal.NewFromFloat(t.Amount)
		total = total.Add(amount)
		day := at.Format(dayLayout)
		byDay[day] = byDay[day].Add(amount)
	}

	res := Result{
		Total: total.InexactFloat64(),
		ByDay: make(map[string]float64, len(byDay)),
	}
	for day, amount := range byDay {
		res.ByDay[day] = amount.InexactFloat64()
	}
	return res
}

// ValidMonth reports whether month is Overall or a zero-padded YYYY-MM.
func ValidMonth(month string) bool {
	if month == Overall {
		return true
	}
	if len(month) != len(monthLayout) {
		return false
	}
	_, err := time.Parse(monthLayout, month)
	return err == nil
}

// CurrentMonth formats now as YYYY-MM in UTC.
func CurrentMonth(now time.Time) string {
	return now.UTC().Format(monthLayout)
}

// CheckLimit returns limit minus the current month's total.
// A negative result means the limit is exceeded by its absolute value.
func CheckLimit(txns []models.Transaction, limit float64) float64 {
	return CheckLimitAt(txns, limit, time.Now())
}

// CheckLimitAt is CheckLimit evaluated for the month containing now.
func CheckLimitAt(txns []models.Transaction, limit float64, now time.Time) float64 {
	spent := Summarize(txns, CurrentMonth(now), nil).Total
	if math.IsNaN(limit) || math.IsInf(limit, 0) {
		return limit - spent
	}
	return decimal.NewFromFloat(limit).Sub(decimal.NewFromFloat(spent)).InexactFloat64()
}
