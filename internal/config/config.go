// Package config handles configuration management with validation
package config

import (
	"fmt"
	"os"
	"strings"

	"gridbot/internal/core"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration structure
type Config struct {
	Account   AccountConfig   `yaml:"account"`
	Exchange  ExchangeConfig  `yaml:"exchange"`
	Strategy  StrategyConfig  `yaml:"strategy"`
	System    SystemConfig    `yaml:"system"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// AccountConfig identifies the account whose open orders are reconciled
type AccountConfig struct {
	ID string `yaml:"id"`
}

// ExchangeConfig contains venue connection settings
type ExchangeConfig struct {
	Name      string `yaml:"name"`
	APIKey    Secret `yaml:"api_key"`
	SecretKey Secret `yaml:"secret_key"`
	BaseURL   string `yaml:"base_url"`
}

// PairConfig contains per-pair grid parameters.
// GridInterval is kept as a string so the fractional spacing survives YAML
// parsing without a float round trip.
type PairConfig struct {
	Symbol       string `yaml:"symbol"`
	GridInterval string `yaml:"grid_interval"`
	Base         string `yaml:"base"`
}

// StrategyConfig contains the grid strategy parameters
type StrategyConfig struct {
	GridLevels int          `yaml:"grid_levels"`
	BookDepth  int          `yaml:"book_depth"`
	Pairs      []PairConfig `yaml:"pairs"`
}

// SystemConfig contains system settings
type SystemConfig struct {
	LogLevel             string `yaml:"log_level"`
	CycleIntervalSeconds int    `yaml:"cycle_interval_seconds"`
}

// TelemetryConfig contains telemetry settings
type TelemetryConfig struct {
	EnableMetrics bool `yaml:"enable_metrics"`
	MetricsPort   int  `yaml:"metrics_port"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s' (value: %v): %s", e.Field, e.Value, e.Message)
}

// LoadConfig loads configuration from a YAML file with environment variable expansion
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	var errors []string

	if err := c.validateAccount(); err != nil {
		errors = append(errors, err.Error())
	}
	if err := c.validateExchange(); err != nil {
		errors = append(errors, err.Error())
	}
	if err := c.validateStrategy(); err != nil {
		errors = append(errors, err.Error())
	}
	if err := c.validateSystem(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}

func (c *Config) validateAccount() error {
	if c.Account.ID == "" {
		return ValidationError{
			Field:   "account.id",
			Message: "account identifier is required",
		}
	}
	return nil
}

func (c *Config) validateExchange() error {
	validExchanges := []string{"binance", "mock"}
	if !contains(validExchanges, c.Exchange.Name) {
		return ValidationError{
			Field:   "exchange.name",
			Value:   c.Exchange.Name,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validExchanges, ", ")),
		}
	}

	if c.Exchange.Name == "mock" {
		return nil
	}

	if c.Exchange.APIKey == "" {
		return ValidationError{
			Field:   "exchange.api_key",
			Message: "API key is required",
		}
	}
	if c.Exchange.SecretKey == "" {
		return ValidationError{
			Field:   "exchange.secret_key",
			Message: "secret key is required",
		}
	}
	return nil
}

func (c *Config) validateStrategy() error {
	if c.Strategy.GridLevels < 1 {
		return ValidationError{
			Field:   "strategy.grid_levels",
			Value:   c.Strategy.GridLevels,
			Message: "grid levels must be at least 1",
		}
	}

	if len(c.Strategy.Pairs) == 0 {
		return ValidationError{
			Field:   "strategy.pairs",
			Message: "at least one pair must be configured",
		}
	}

	validBases := []string{"", "BID", "ASK", "LAST", "AVERAGE"}
	seen := make(map[string]bool, len(c.Strategy.Pairs))
	for i, pair := range c.Strategy.Pairs {
		if pair.Symbol == "" {
			return ValidationError{
				Field:   fmt.Sprintf("strategy.pairs[%d].symbol", i),
				Message: "symbol is required",
			}
		}
		if seen[pair.Symbol] {
			return ValidationError{
				Field:   fmt.Sprintf("strategy.pairs[%d].symbol", i),
				Value:   pair.Symbol,
				Message: "duplicate pair symbol",
			}
		}
		seen[pair.Symbol] = true

		interval, err := decimal.NewFromString(pair.GridInterval)
		if err != nil {
			return ValidationError{
				Field:   fmt.Sprintf("strategy.pairs[%d].grid_interval", i),
				Value:   pair.GridInterval,
				Message: "grid interval must be a decimal number",
			}
		}
		if !interval.IsPositive() || interval.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return ValidationError{
				Field:   fmt.Sprintf("strategy.pairs[%d].grid_interval", i),
				Value:   pair.GridInterval,
				Message: "grid interval must be in (0, 1)",
			}
		}
		// The outermost buy level sits at ref*(1 - levels*interval); the
		// whole ladder must stay above zero.
		span := interval.Mul(decimal.NewFromInt(int64(c.Strategy.GridLevels)))
		if span.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return ValidationError{
				Field:   fmt.Sprintf("strategy.pairs[%d].grid_interval", i),
				Value:   pair.GridInterval,
				Message: fmt.Sprintf("grid_levels * grid_interval must be below 1, got %s", span),
			}
		}
		if !contains(validBases, strings.ToUpper(pair.Base)) {
			return ValidationError{
				Field:   fmt.Sprintf("strategy.pairs[%d].base", i),
				Value:   pair.Base,
				Message: "must be one of: BID, ASK, LAST, AVERAGE",
			}
		}
	}

	return nil
}

func (c *Config) validateSystem() error {
	validLevels := []string{"", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}
	if !contains(validLevels, strings.ToUpper(c.System.LogLevel)) {
		return ValidationError{
			Field:   "system.log_level",
			Value:   c.System.LogLevel,
			Message: "must be one of: DEBUG, INFO, WARN, ERROR, FATAL",
		}
	}
	if c.System.CycleIntervalSeconds < 1 {
		return ValidationError{
			Field:   "system.cycle_interval_seconds",
			Value:   c.System.CycleIntervalSeconds,
			Message: "cycle interval must be at least 1 second",
		}
	}
	return nil
}

// ToStrategy converts the validated YAML strategy section into the immutable
// core configuration consumed by the runner. Call only after Validate.
func (c *Config) ToStrategy() core.StrategyConfig {
	pairs := make([]core.PairConfig, 0, len(c.Strategy.Pairs))
	for _, p := range c.Strategy.Pairs {
		interval, _ := decimal.NewFromString(p.GridInterval)
		pairs = append(pairs, core.PairConfig{
			Symbol:       p.Symbol,
			GridInterval: interval,
			Base:         core.BaseMode(strings.ToUpper(p.Base)),
		})
	}

	bookDepth := c.Strategy.BookDepth
	if bookDepth <= 0 {
		bookDepth = 5
	}

	return core.NewStrategyConfig(c.Strategy.GridLevels, bookDepth, pairs)
}

// String returns a string representation of the configuration. Secret fields
// redact themselves during marshaling.
func (c *Config) String() string {
	data, _ := yaml.Marshal(c)
	return string(data)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// DefaultConfig returns a default configuration for testing
func DefaultConfig() *Config {
	return &Config{
		Account: AccountConfig{
			ID: "test_account",
		},
		Exchange: ExchangeConfig{
			Name:      "mock",
			APIKey:    "test_api_key",
			SecretKey: "test_secret_key",
		},
		Strategy: StrategyConfig{
			GridLevels: 3,
			BookDepth:  5,
			Pairs: []PairConfig{
				{Symbol: "BTCUSDT", GridInterval: "0.01", Base: "AVERAGE"},
				{Symbol: "ETHUSDT", GridInterval: "0.02", Base: "LAST"},
			},
		},
		System: SystemConfig{
			LogLevel:             "INFO",
			CycleIntervalSeconds: 15,
		},
		Telemetry: TelemetryConfig{
			EnableMetrics: true,
			MetricsPort:   9090,
		},
	}
}
