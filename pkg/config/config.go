// Package config provides configuration management for the finance CLI.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	Store  StoreConfig
	Ledger LedgerConfig
	Debug  bool
}

// StoreConfig represents the transaction store configuration.
type StoreConfig struct {
	DataPath string
}

// LedgerConfig represents Beancount export configuration.
type LedgerConfig struct {
	Root        string
	DBPath      string
	MappingFile string
	Currency    string
}

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	// Load .env file
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	debug, err := parseBoolEnv("DEBUG", false)
	if err != nil {
		return nil, fmt.Errorf("invalid DEBUG: %w", err)
	}

	config := &Config{
		Store: StoreConfig{
			DataPath: getEnvOrDefault("FINANCE_DATA_PATH", "data/data.json"),
		},
		Ledger: LedgerConfig{
			Root:        getEnvOrDefault("BEANCOUNT_ROOT", "./beancount"),
			DBPath:      os.Getenv("BEANCOUNT_DB_PATH"),
			MappingFile: getEnvOrDefault("FINANCE_ACCOUNT_MAPPING", "config/account-mapping.yaml"),
			Currency:    strings.ToUpper(getEnvOrDefault("FINANCE_CURRENCY", "USD")),
		},
		Debug: debug,
	}

	return config, nil
}

// Validate validates the configuration.
// It checks if all required fields are set and that the currency looks like an ISO code.
func (c *Config) Validate(required ...[]string) error {
	var missing []string

	for _, path := range required {
		if len(path) < 2 {
			continue
		}

		var value string
		switch path[0] {
		case "store":
			switch path[1] {
			case "dataPath":
				value = c.Store.DataPath
			}
		case "ledger":
			switch path[1] {
			case "root":
				value = c.Ledger.Root
			case "dbPath":
				value = c.Ledger.DBPath
			case "mappingFile":
				value = c.Ledger.MappingFile
			case "currency":
				value = c.Ledger.Currency
			}
		}

		if value == "" {
			missing = append(missing, strings.Join(path, "."))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	if c.Ledger.Currency != "" && !currencyPattern.MatchString(c.Ledger.Currency) {
		return fmt.Errorf("invalid currency %q: expected a three-letter code such as USD", c.Ledger.Currency)
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseBoolEnv parses a bool from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value for %s: %s", key, value)
	}

	return parsed, nil
}
