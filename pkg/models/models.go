// Package models defines the transaction and category records kept by the store.
package models

import "time"

// TransactionID identifies a transaction. Transaction and category IDs are separate namespaces.
type TransactionID uint32

// CategoryID identifies a category.
type CategoryID uint32

// Category is a user-defined label for transactions.
// Two categories are equal when both ID and Name match.
type Category struct {
	ID   CategoryID `json:"id"`
	Name string     `json:"name"`
}

// Transaction represents a single recorded amount.
// Amount and Datetime never change after creation; only the category can be cleared.
type Transaction struct {
	ID          TransactionID `json:"id"`
	Amount      float64       `json:"amount"` // positive = spending, negative = income/refund
	Description string        `json:"description"`
	Datetime    time.Time     `json:"datetime"`
	Category    *Category     `json:"category"` // snapshot taken when the transaction was added
}

// NewTransaction creates a transaction stamped with now in UTC.
// The category is copied, so later changes to the caller's value do not leak in.
func NewTransaction(id TransactionID, amount float64, description string, category *Category, now time.Time) Transaction {
	return Transaction{
		ID:          id,
		Amount:      amount,
		Description: description,
		Datetime:    now.UTC(),
		Category:    copyCategory(category),
	}
}

// Clone returns a deep copy of the transaction.
func (t Transaction) Clone() Transaction {
	t.Category = copyCategory(t.Category)
	return t
}

// WithoutCategory returns a copy of the transaction with no category.
func (t Transaction) WithoutCategory() Transaction {
	t.Category = nil
	return t
}

// HasCategory reports whether the transaction is assigned to the category with the given ID.
func (t Transaction) HasCategory(id CategoryID) bool {
	return t.Category != nil && t.Category.ID == id
}

// CategoryName returns the category name, or "None" when the transaction is uncategorized.
func (t Transaction) CategoryName() string {
	if t.Category == nil {
		return "None"
	}
	return t.Category.Name
}

// SameCategory compares two optional categories by value.
func SameCategory(a, b *Category) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyCategory(c *Category) *Category {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
