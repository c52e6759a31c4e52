// Package config loads jointledger settings from a .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/jointledger/report"
)

// Environment variables read by Load.
const (
	EnvFile       = "JOINTLEDGER_FILE"
	EnvCategories = "JOINTLEDGER_CATEGORIES"
	EnvCurrency   = "JOINTLEDGER_CURRENCY"
	EnvHost       = "JOINTLEDGER_HOST"
	EnvPort       = "JOINTLEDGER_PORT"
)

// Config holds the settings shared by the CLI and the web server.
type Config struct {
	// File is the ledger to read.
	File string
	// CategoriesFile optionally points at a YAML asset category table.
	CategoriesFile string
	// Currency is the ISO code used to display amounts without one.
	Currency string
	Host     string
	Port     int
}

// Load reads an optional .env file and then the environment. Without an
// explicit path a missing .env in the working directory is not an error.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	port, err := getEnvInt(EnvPort, 8080)
	if err != nil {
		return nil, err
	}

	return &Config{
		File:           os.Getenv(EnvFile),
		CategoriesFile: os.Getenv(EnvCategories),
		Currency:       strings.ToUpper(getEnv(EnvCurrency, "EUR")),
		Host:           getEnv(EnvHost, "localhost"),
		Port:           port,
	}, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.File == "" {
		errs = append(errs, fmt.Errorf("%s is not set", EnvFile))
	}
	if len(c.Currency) != 3 {
		errs = append(errs, fmt.Errorf("invalid currency %q: must be a 3-letter code", c.Currency))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port))
	}
	if c.CategoriesFile != "" {
		if _, err := os.Stat(c.CategoriesFile); err != nil {
			errs = append(errs, fmt.Errorf("asset categories: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Addr is the listen address for the web server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AssetCategories returns the configured category table, or the default one
// when no file is set.
func (c *Config) AssetCategories() ([]report.AssetCategory, error) {
	if c.CategoriesFile == "" {
		return report.DefaultAssetCategories, nil
	}
	return LoadAssetCategories(c.CategoriesFile)
}

// LoadAssetCategories parses a YAML list of asset categories, each with a
// name and a list of keywords. Order is kept: the first match wins.
func LoadAssetCategories(path string) ([]report.AssetCategory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset categories: %w", err)
	}

	var categories []report.AssetCategory
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse asset categories %s: %w", path, err)
	}

	for i, c := range categories {
		if c.Name == "" {
			return nil, fmt.Errorf("asset category %d has no name", i+1)
		}
		if len(c.Keywords) == 0 {
			return nil, fmt.Errorf("asset category %q has no keywords", c.Name)
		}
	}
	return categories, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	return parsed, nil
}
