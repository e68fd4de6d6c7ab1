package converter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shunichi-ikebuchi/finance-cli/pkg/beancount"
	"github.com/shunichi-ikebuchi/finance-cli/pkg/models"
)

// DefaultCurrency is used when the converter is created without one.
const DefaultCurrency = "USD"

// amountColumn is the column the amounts are right-aligned against.
const amountColumn = 60

// Converter converts store transactions to Beancount transactions.
type Converter struct {
	mapper   *Mapper
	currency string
}

// NewConverter creates a new Converter.
func NewConverter(mapper *Mapper, currency string) *Converter {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Converter{
		mapper:   mapper,
		currency: currency,
	}
}

// Month returns the YYYY-MM ledger file a transaction belongs to.
func Month(t models.Transaction) string {
	return t.Datetime.UTC().Format("2006-01")
}

// ConvertTransaction produces a balanced two-posting entry:
// the category account receives the amount and the funding account the opposite.
func (c *Converter) ConvertTransaction(t models.Transaction) beancount.Transaction {
	account := c.mapper.UncategorizedAccount()
	if t.Category != nil {
		account = c.mapper.GetAccount(t.Category.Name)
	}

	amount := decimal.NewFromFloat(t.Amount)

	narration := t.Description
	if narration == "" {
		narration = fmt.Sprintf("Transaction %d", t.ID)
	}

	return beancount.Transaction{
		Date:      t.Datetime.UTC().Format("2006-01-02"),
		Narration: narration,
		Tags:      []string{fmt.Sprintf("txn-%d", t.ID)},
		Postings: []beancount.Posting{
			{Account: account, Amount: amount, Currency: c.currency},
			{Account: c.mapper.FundingAccount(), Amount: amount.Neg(), Currency: c.currency},
		},
	}
}

// FormatTransaction renders a transaction as Beancount text.
func (c *Converter) FormatTransaction(txn beancount.Transaction) string {
	var sb strings.Builder

	sb.WriteString(txn.Date)
	fmt.Fprintf(&sb, " * %s", quote(txn.Narration))
	for _, tag := range txn.Tags {
		sb.WriteString(" #")
		sb.WriteString(tag)
	}
	sb.WriteString("\n")

	for _, posting := range txn.Postings {
		sb.WriteString("  ")
		sb.WriteString(posting.Account)
		sb.WriteString(strings.Repeat(" ", max(1, amountColumn-len(posting.Account))))
		fmt.Fprintf(&sb, "%s %s\n", posting.Amount.StringFixed(2), posting.Currency)
	}

	return sb.String()
}

// quote wraps s in double quotes, escaping backslashes and quotes.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
