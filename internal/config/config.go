package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Shop    ShopConfig
	Summary SummaryConfig
	Sheets  SheetsConfig
	AI      AIConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for the record store.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// ShopConfig carries the business identity and entry-page behavior.
type ShopConfig struct {
	CompanyName     string
	UnlockCode      string // empty disables the save gate
	DefaultLanguage string // language tag used for AI advice output
	CatalogPath     string // optional materials YAML
}

// SummaryConfig holds scheduler-related settings.
type SummaryConfig struct {
	CronSchedule string
	Timezone     string
}

// SheetsConfig configures the optional Google Sheets mirror of saved records.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// AIConfig holds settings for the spending-advice provider.
type AIConfig struct {
	AnthropicKey string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "scrapledger"),
		},
		Shop: ShopConfig{
			CompanyName:     getenvWithDefault("COMPANY_NAME", "AMC Junk Shop"),
			UnlockCode:      os.Getenv("UNLOCK_CODE"),
			DefaultLanguage: getenvWithDefault("DEFAULT_LANGUAGE", "en"),
			CatalogPath:     os.Getenv("MATERIALS_CATALOG_PATH"),
		},
		Summary: SummaryConfig{
			CronSchedule: getenvWithDefault("SUMMARY_CRON_SCHEDULE", "0 21 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Manila"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_MIRROR_ID"),
		},
		AI: AIConfig{
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Shop.CompanyName == "" {
		return errors.New("COMPANY_NAME must be provided")
	}

	if c.Summary.CronSchedule == "" {
		return errors.New("SUMMARY_CRON_SCHEDULE must be provided")
	}

	if c.Summary.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	// The sheets mirror is all-or-nothing: either both settings or neither.
	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_MIRROR_ID must be provided together")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
