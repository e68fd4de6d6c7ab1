// Package converter turns store transactions into Beancount entries.
package converter

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFundingAccount       = "Assets:Cash"
	DefaultUncategorizedAccount = "Expenses:Uncategorized"
)

// CategoryMapping maps one category name to a Beancount account.
type CategoryMapping struct {
	Category string `yaml:"category"`
	Account  string `yaml:"account"`
}

// AccountMappingConfig is the YAML account mapping file.
type AccountMappingConfig struct {
	FundingAccount       string            `yaml:"funding_account"`
	UncategorizedAccount string            `yaml:"uncategorized_account"`
	Categories           []CategoryMapping `yaml:"categories"`
}

// Mapper resolves Beancount accounts for category names.
type Mapper struct {
	config AccountMappingConfig
	byName map[string]string
}

// NewMapper loads the mapping from a YAML file.
// A missing file yields a mapper with only the default accounts.
func NewMapper(configPath string) (*Mapper, error) {
	var config AccountMappingConfig

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("account mapping not found, using defaults", "path", configPath)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	return NewMapperFromConfig(config), nil
}

// NewMapperFromConfig builds a Mapper, filling unset accounts with defaults.
func NewMapperFromConfig(config AccountMappingConfig) *Mapper {
	if config.FundingAccount == "" {
		config.FundingAccount = DefaultFundingAccount
	}
	if config.UncategorizedAccount == "" {
		config.UncategorizedAccount = DefaultUncategorizedAccount
	}

	m := &Mapper{
		config: config,
		byName: make(map[string]string, len(config.Categories)),
	}
	for _, c := range config.Categories {
		if c.Category == "" || c.Account == "" {
			continue
		}
		m.byName[c.Category] = c.Account
	}
	return m
}

// FundingAccount returns the account every transaction is balanced against.
func (m *Mapper) FundingAccount() string {
	return m.config.FundingAccount
}

// UncategorizedAccount returns the account for transactions without a category.
func (m *Mapper) UncategorizedAccount() string {
	return m.config.UncategorizedAccount
}

// HasMapping checks if a category name is mapped explicitly.
func (m *Mapper) HasMapping(category string) bool {
	_, ok := m.byName[category]
	return ok
}

// GetAccount returns the account for a category name.
// Unmapped names become Expenses:<SanitizedName>, and names that sanitize to nothing use the uncategorized account.
func (m *Mapper) GetAccount(category string) string {
	if account, ok := m.byName[category]; ok {
		return account
	}
	if sanitized := sanitizeAccountName(category); sanitized != "" {
		return "Expenses:" + sanitized
	}
	return m.config.UncategorizedAccount
}

// sanitizeAccountName keeps letters and digits and upper-cases the first rune.
func sanitizeAccountName(name string) string {
	var sb strings.Builder
	first := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		if first {
			r = unicode.ToUpper(r)
			first = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
