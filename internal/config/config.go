package config

import (
	"fmt"
	"os"

	"github.com/str8builders/invoice/internal/logger"
	"github.com/str8builders/invoice/pkg/models"
)

type Config struct {
	// Business details printed on every invoice (the "From" block).
	// Loaded once and treated as immutable for the life of the process.
	BusinessName        string
	BusinessAddress     string
	BusinessPhone       string
	BusinessEmail       string
	BusinessGSTNumber   string
	BusinessBankAccount string

	// Invoice numbering and local draft storage
	InvoicePrefix string
	StorePath     string

	// OpenAI Configuration (polish / notes extraction)
	OpenAIAPIKey string
	OpenAIModel  string

	// Google Cloud Configuration (PDF scanning)
	GoogleCloudProject      string
	GoogleCloudLocation     string
	DocumentAIProcessorID   string
	GoogleServiceAccountKey string

	// Google Sheets Configuration (export)
	GoogleSheetURL       string
	GoogleSheetWorksheet string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads configuration from the environment. Core invoicing works with
// the defaults alone; the AI, scanning and sheets features check their own
// required settings when constructed, so a missing API key only surfaces
// when the feature is actually used.
func Load() (*Config, error) {
	config := &Config{
		BusinessName:            getEnv("BUSINESS_NAME", "STR8 BUILDERS LTD"),
		BusinessAddress:         getEnv("BUSINESS_ADDRESS", ""),
		BusinessPhone:           getEnv("BUSINESS_PHONE", ""),
		BusinessEmail:           getEnv("BUSINESS_EMAIL", ""),
		BusinessGSTNumber:       getEnv("BUSINESS_GST_NUMBER", ""),
		BusinessBankAccount:     getEnv("BUSINESS_BANK_ACCOUNT", ""),
		InvoicePrefix:           getEnv("INVOICE_PREFIX", "STR8"),
		StorePath:               getEnv("STORE_PATH", "invoices.db"),
		OpenAIAPIKey:            getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:             getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GoogleCloudProject:      getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:     getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID:   getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		GoogleServiceAccountKey: getEnv("GOOGLE_SERVICE_ACCOUNT_KEY", ""),
		GoogleSheetURL:          getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet:    getEnv("GOOGLE_SHEET_WORKSHEET", "Invoices"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:           getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:               getEnv("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// Business returns the immutable From block for new invoices.
func (c *Config) Business() models.BusinessDetails {
	return models.BusinessDetails{
		Name:        c.BusinessName,
		Address:     c.BusinessAddress,
		Phone:       c.BusinessPhone,
		Email:       c.BusinessEmail,
		GSTNumber:   c.BusinessGSTNumber,
		BankAccount: c.BusinessBankAccount,
	}
}

// RequireOpenAI validates the settings the AI features need.
func (c *Config) RequireOpenAI() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	return nil
}

// RequireDocumentAI validates the settings PDF scanning needs.
func (c *Config) RequireDocumentAI() error {
	if c.GoogleCloudProject == "" {
		return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required")
	}
	if c.DocumentAIProcessorID == "" {
		return fmt.Errorf("DOCUMENT_AI_PROCESSOR_ID is required")
	}
	return nil
}

// RequireSheets validates the settings the sheets export needs.
func (c *Config) RequireSheets() error {
	if c.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL is required")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
