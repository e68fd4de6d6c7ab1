// Package store keeps transactions, categories and the spending limit in a single JSON file.
//
// Every mutating call rewrites the whole file before returning, so the file and the in-memory
// state always match. The store does no locking: two processes sharing one file race and the
// last writer wins.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/models"
)

// DefaultPath is used when no path is given to New.
const DefaultPath = "data/data.json"

var (
	// ErrCategoryNotFound is returned when a referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrStat is returned when the existence of the data file cannot be determined.
	ErrStat = errors.New("cannot check existence of data file")

	// ErrInvalidAmount is returned for NaN or infinite amounts, which cannot be persisted.
	ErrInvalidAmount = errors.New("amount must be a finite number")
)

// document is the persisted form. High-water marks are derived on load and never written.
type document struct {
	Transactions []models.Transaction `json:"transactions"`
	Categories   []models.Category    `json:"categories"`
	Limit        *float64             `json:"limit"`
}

// Store owns all records. Construct one with New; there is no package-level instance.
type Store struct {
	path string
	now  func() time.Time

	transactions     []models.Transaction
	categories       []models.Category
	limit            *float64
	maxTransactionID models.TransactionID
	maxCategoryID    models.CategoryID
}

// New opens the store at path, or DefaultPath when path is empty.
// A missing file is created with an empty document (parent directories included).
// An unreadable or undecodable file is an error.
func New(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}

	s := &Store{
		path:         path,
		now:          time.Now,
		transactions: []models.Transaction{},
		categories:   []models.Category{},
	}

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := s.load(); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("Data file not found, creating empty store", "path", path)
		if err := s.persist(s.document()); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w %s: %w", ErrStat, path, err)
	}

	return s, nil
}

// Path returns the data file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse data file %s: %w", s.path, err)
	}

	if doc.Transactions != nil {
		s.transactions = doc.Transactions
	}
	if doc.Categories != nil {
		s.categories = doc.Categories
	}
	s.limit = doc.Limit

	for _, t := range s.transactions {
		s.maxTransactionID = max(s.maxTransactionID, t.ID)
	}
	for _, c := range s.categories {
		s.maxCategoryID = max(s.maxCategoryID, c.ID)
	}

	slog.Debug("Loaded store",
		"path", s.path,
		"transactions", len(s.transactions),
		"categories", len(s.categories),
	)
	return nil
}

// document returns the current state in its persisted form.
func (s *Store) document() document {
	return document{
		Transactions: s.transactions,
		Categories:   s.categories,
		Limit:        s.limit,
	}
}

// persist writes doc to a temp file in the same directory and renames it over the data file.
// Mutations build doc from copies and only adopt it once persist succeeds.
func (s *Store) persist(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".data-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}

	slog.Debug("Persisted store", "path", s.path, "bytes", len(data))
	return nil
}

// AddTransaction records a new transaction stamped with the current time and returns its ID.
func (s *Store) AddTransaction(description string, amount float64, category *models.Category) (models.TransactionID, error) {
	if !finite(amount) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	id := s.maxTransactionID + 1
	doc := s.document()
	doc.Transactions = append(slices.Clip(doc.Transactions), models.NewTransaction(id, amount, description, category, s.now()))

	if err := s.persist(doc); err != nil {
		return 0, err
	}
	s.transactions = doc.Transactions
	s.maxTransactionID = id
	return id, nil
}

// DeleteTransaction removes the transaction with the given ID.
// It reports whether a transaction was removed; the file is only rewritten in that case.
func (s *Store) DeleteTransaction(id models.TransactionID) (bool, error) {
	idx := slices.IndexFunc(s.transactions, func(t models.Transaction) bool {
		return t.ID == id
	})
	if idx < 0 {
		return false, nil
	}

	doc := s.document()
	doc.Transactions = slices.Delete(slices.Clone(doc.Transactions), idx, idx+1)
	if err := s.persist(doc); err != nil {
		return false, err
	}
	s.transactions = doc.Transactions
	return true, nil
}

// ListTransactions returns copies of the stored transactions in ascending time order.
// When category is non-nil only transactions whose category equals it by value are returned.
func (s *Store) ListTransactions(category *models.Category) []models.Transaction {
	out := make([]models.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if category != nil && !models.SameCategory(t.Category, category) {
			continue
		}
		out = append(out, t.Clone())
	}

	slices.SortStableFunc(out, func(a, b models.Transaction) int {
		return a.Datetime.Compare(b.Datetime)
	})
	return out
}

// GetCategory returns a copy of the category with the given ID.
func (s *Store) GetCategory(id models.CategoryID) (models.Category, bool) {
	idx := slices.IndexFunc(s.categories, func(c models.Category) bool {
		return c.ID == id
	})
	if idx < 0 {
		return models.Category{}, false
	}
	return s.categories[idx], true
}

// RequireCategory is GetCategory for callers that treat a missing category as an error.
func (s *Store) RequireCategory(id models.CategoryID) (models.Category, error) {
	c, ok := s.GetCategory(id)
	if !ok {
		return models.Category{}, fmt.Errorf("%w: id %d", ErrCategoryNotFound, id)
	}
	return c, nil
}

// AddCategory creates a category and returns its ID. Names are not required to be unique.
func (s *Store) AddCategory(name string) (models.CategoryID, error) {
	id := s.maxCategoryID + 1
	doc := s.document()
	doc.Categories = append(slices.Clip(doc.Categories), models.Category{ID: id, Name: name})

	if err := s.persist(doc); err != nil {
		return 0, err
	}
	s.categories = doc.Categories
	s.maxCategoryID = id
	return id, nil
}

// DeleteCategory removes the category and clears it from every transaction that references it.
// It reports whether anything changed; the file is only rewritten in that case.
func (s *Store) DeleteCategory(id models.CategoryID) (bool, error) {
	changed := false
	doc := s.document()

	if idx := slices.IndexFunc(doc.Categories, func(c models.Category) bool { return c.ID == id }); idx >= 0 {
		doc.Categories = slices.Delete(slices.Clone(doc.Categories), idx, idx+1)
		changed = true
	}

	doc.Transactions = slices.Clone(doc.Transactions)
	for i, t := range doc.Transactions {
		if t.HasCategory(id) {
			doc.Transactions[i] = t.WithoutCategory()
			changed = true
		}
	}

	if !changed {
		return false, nil
	}
	if err := s.persist(doc); err != nil {
		return false, err
	}
	s.categories = doc.Categories
	s.transactions = doc.Transactions
	return true, nil
}

// ListCategories returns the categories in insertion order.
func (s *Store) ListCategories() []models.Category {
	return slices.Clone(s.categories)
}

// SetLimit sets the monthly spending limit. Zero or a negative amount clears it.
func (s *Store) SetLimit(amount float64) error {
	if !finite(amount) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	doc := s.document()
	doc.Limit = nil
	if amount > 0 {
		doc.Limit = &amount
	}
	if err := s.persist(doc); err != nil {
		return err
	}
	s.limit = doc.Limit
	return nil
}

// Limit returns the monthly spending limit, if one is set.
func (s *Store) Limit() (float64, bool) {
	if s.limit == nil {
		return 0, false
	}
	return *s.limit, true
}

// Counts returns the number of stored transactions and categories.
func (s *Store) Counts() (transactions, categories int) {
	return len(s.transactions), len(s.categories)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
