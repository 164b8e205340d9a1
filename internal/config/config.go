// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting the report pipeline needs for one run.
type Config struct {
	// Aggregation service
	SourceURL   string
	SourceToken string

	// Transactions before this date are ignored.
	SinceDate time.Time

	// Category mapping
	MappingBackend     string // csv or sheets
	MappingPath        string
	SpreadsheetID      string
	SheetsCredentials  string // path to a service account JSON key
	MappingReadRange   string

	// Export
	ExportBackend string // none, csv or sqlite
	ExportPath    string

	// Report shape
	PivotMonths        int
	ReconciliationRows int
	CategoryLinkBase   string

	// Mail
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	MailTo       []string
	Subject      string

	// Observability
	SentryDSN string
	LogLevel  string
}

const defaultSinceDate = "2016-01-01"

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	since, err := time.Parse("2006-01-02", getEnv("MINTY_SINCE_DATE", defaultSinceDate))
	if err != nil {
		return nil, fmt.Errorf("invalid MINTY_SINCE_DATE: %w", err)
	}

	cfg := &Config{
		SourceURL:   getEnv("MINTY_SOURCE_URL", ""),
		SourceToken: getEnv("MINTY_SOURCE_TOKEN", ""),
		SinceDate:   since,

		MappingBackend:    getEnv("MINTY_MAPPING_BACKEND", "csv"),
		MappingPath:       getEnv("MINTY_MAPPING_PATH", "category_mapping.csv"),
		SpreadsheetID:     getEnv("MINTY_SPREADSHEET_ID", ""),
		SheetsCredentials: getEnv("MINTY_SHEETS_CREDENTIALS", ""),
		MappingReadRange:  getEnv("MINTY_MAPPING_RANGE", ""),

		ExportBackend: getEnv("MINTY_EXPORT_BACKEND", "csv"),
		ExportPath:    getEnv("MINTY_EXPORT_PATH", "mint_transactions.csv"),

		PivotMonths:        getEnvInt("MINTY_PIVOT_MONTHS", 6),
		ReconciliationRows: getEnvInt("MINTY_RECONCILIATION_ROWS", 9),
		CategoryLinkBase:   getEnv("MINTY_CATEGORY_LINK_BASE", ""),

		SMTPHost:     getEnv("MINTY_SMTP_HOST", ""),
		SMTPPort:     getEnvInt("MINTY_SMTP_PORT", 587),
		SMTPUsername: getEnv("MINTY_SMTP_USERNAME", ""),
		SMTPPassword: getEnv("MINTY_SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MINTY_MAIL_FROM", ""),
		MailTo:       splitList(getEnv("MINTY_MAIL_TO", "")),
		Subject:      getEnv("MINTY_SUBJECT", ""),

		SentryDSN: getEnv("SENTRY_DSN", ""),
		LogLevel:  getEnv("MINTY_LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.SourceURL == "" {
		errs = append(errs, "MINTY_SOURCE_URL is required")
	} else if u, err := url.Parse(c.SourceURL); err != nil || u.Scheme == "" {
		errs = append(errs, fmt.Sprintf("invalid MINTY_SOURCE_URL '%s'", c.SourceURL))
	}
	if c.SourceToken == "" {
		errs = append(errs, "MINTY_SOURCE_TOKEN is required")
	}

	switch c.MappingBackend {
	case "csv":
		if c.MappingPath == "" {
			errs = append(errs, "MINTY_MAPPING_PATH is required for the csv mapping backend")
		}
	case "sheets":
		if c.SpreadsheetID == "" {
			errs = append(errs, "MINTY_SPREADSHEET_ID is required for the sheets mapping backend")
		}
		if c.SheetsCredentials == "" {
			errs = append(errs, "MINTY_SHEETS_CREDENTIALS is required for the sheets mapping backend")
		} else if _, err := os.Stat(c.SheetsCredentials); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("sheets credentials file does not exist: %s", c.SheetsCredentials))
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid mapping backend '%s': must be one of [csv sheets]", c.MappingBackend))
	}

	switch c.ExportBackend {
	case "none":
	case "csv", "sqlite":
		if c.ExportPath == "" {
			errs = append(errs, fmt.Sprintf("MINTY_EXPORT_PATH is required for the %s export backend", c.ExportBackend))
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid export backend '%s': must be one of [none csv sqlite]", c.ExportBackend))
	}

	if c.SMTPHost == "" {
		errs = append(errs, "MINTY_SMTP_HOST is required")
	}
	if c.SMTPPort < 1 || c.SMTPPort > 65535 {
		errs = append(errs, fmt.Sprintf("invalid SMTP port %d: must be between 1 and 65535", c.SMTPPort))
	}
	if c.MailFrom == "" {
		errs = append(errs, "MINTY_MAIL_FROM is required")
	}
	if len(c.MailTo) == 0 {
		errs = append(errs, "MINTY_MAIL_TO must list at least one recipient")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
