package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port string

	// Page sources. ManualDir wins when both are set.
	ManualDir       string
	PageStoreURL    string
	PageStoreAPIKey string

	// Manual composition
	RootPage string
	Locale   string

	// Auth for mutating endpoints
	ManweaveAPIKey string

	// Build concurrency
	Prefetch int

	// Source file limits
	MaxPageBytes int64

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		ManualDir:       os.Getenv("MANUAL_DIR"),
		PageStoreURL:    os.Getenv("PAGE_STORE_URL"),
		PageStoreAPIKey: os.Getenv("PAGE_STORE_API_KEY"),

		RootPage: envOr("ROOT_PAGE", "index"),
		Locale:   os.Getenv("LOCALE"),

		ManweaveAPIKey: os.Getenv("MANWEAVE_API_KEY"),

		Prefetch: envInt("PREFETCH", 4),

		MaxPageBytes: envInt64("MAX_PAGE_BYTES", 4194304), // 4MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 4
	}
	if cfg.MaxPageBytes <= 0 {
		cfg.MaxPageBytes = 4194304
	}

	return cfg
}

func (c Config) Validate() error {
	if c.ManualDir == "" && c.PageStoreURL == "" {
		return fmt.Errorf("MANUAL_DIR or PAGE_STORE_URL is required")
	}
	if c.ManweaveAPIKey == "" {
		return fmt.Errorf("MANWEAVE_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
