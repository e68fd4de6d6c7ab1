// Package beancount stores exported transactions in monthly Beancount ledger files.
package beancount

import "github.com/shopspring/decimal"

// Transaction is a Beancount transaction directive.
type Transaction struct {
	Date      string // YYYY-MM-DD
	Narration string
	Tags      []string // without the leading '#'
	Postings  []Posting
}

// Posting is one leg of a Transaction.
type Posting struct {
	Account  string          // e.g. "Expenses:Food"
	Amount   decimal.Decimal // positive for debit, negative for credit
	Currency string          // e.g. "USD"
}

// Balanced reports whether the postings of t sum to zero.
func (t Transaction) Balanced() bool {
	sum := decimal.Zero
	for _, p := range t.Postings {
		sum = sum.Add(p.Amount)
	}
	return sum.IsZero()
}
