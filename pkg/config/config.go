package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	Env string // development, staging, production

	// Analysis pipeline
	Analysis AnalysisConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// AnalysisConfig holds ratio pipeline configuration
type AnalysisConfig struct {
	InputPath  string
	OutputPath string
	Sheet      string // xlsx sheet name, empty = first sheet

	Delimiter string
	Precision int // decimal places in the output table, -1 = shortest exact form

	DateLayout        string
	Timezone          string
	AllowExtraColumns bool
}

// Location resolves Timezone. validate() guarantees it loads.
func (a AnalysisConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DelimiterRune returns the output/CSV delimiter as a rune.
func (a AnalysisConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(a.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()
	return fromEnv()
}

// LoadFile reads the given .env file first, then the environment.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("load env file %s: %w", path, err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Analysis: AnalysisConfig{
			InputPath:         getEnv("FINRATIO_INPUT", ""),
			OutputPath:        getEnv("FINRATIO_OUTPUT", "calculated.csv"),
			Sheet:             getEnv("FINRATIO_SHEET", ""),
			Delimiter:         getEnv("FINRATIO_DELIMITER", ","),
			Precision:         getEnvAsInt("FINRATIO_PRECISION", -1),
			DateLayout:        getEnv("FINRATIO_DATE_LAYOUT", "02-01-2006"),
			Timezone:          getEnv("FINRATIO_TIMEZONE", "UTC"),
			AllowExtraColumns: getEnvAsBool("FINRATIO_ALLOW_EXTRA_COLUMNS", false),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are usable
func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if utf8.RuneCountInString(c.Analysis.Delimiter) != 1 {
		return fmt.Errorf("FINRATIO_DELIMITER must be a single character, got %q", c.Analysis.Delimiter)
	}

	if _, err := time.LoadLocation(c.Analysis.Timezone); err != nil {
		return fmt.Errorf("FINRATIO_TIMEZONE: %w", err)
	}

	if c.Analysis.DateLayout == "" {
		return fmt.Errorf("FINRATIO_DATE_LAYOUT is required")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
