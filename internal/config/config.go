package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"review-trust-engine/internal/engine"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	App AppConfig `yaml:"app"`

	// Scoring engine configuration
	Engine engine.Config `yaml:"engine"`

	// HTTP server settings
	Server ServerConfig `yaml:"server"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`
}

// AppConfig holds general application settings
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"` // development, production
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	EnableCORS     bool          `yaml:"enable_cors"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Output string `yaml:"output"` // stdout, file, both
	File   string `yaml:"file"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "Review Trust Engine",
			Version:     "1.0.0",
			Environment: "development",
		},
		Engine: engine.DefaultConfig(),
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			RequestTimeout: 30 * time.Second,
			EnableCORS:     true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stdout",
			File:   "review-trust-engine.log",
		},
	}
}

// Load loads configuration from a YAML file. A missing file is created
// with defaults.
func Load(filename string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		if err := config.Save(filename); err != nil {
			return nil, fmt.Errorf("failed to create default config file: %w", err)
		}
		return config, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves the configuration to a YAML file
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	trustSum := c.Engine.TrustWeights.Authenticity +
		c.Engine.TrustWeights.SentimentQuality +
		c.Engine.TrustWeights.ReviewerCredibility +
		c.Engine.TrustWeights.ContentQuality +
		c.Engine.TrustWeights.TemporalConsistency
	if math.Abs(trustSum-1.0) > 0.001 {
		return fmt.Errorf("trust weights must sum to 1.0, got %.3f", trustSum)
	}

	combinerSum := c.Engine.CombinerWeights.Text +
		c.Engine.CombinerWeights.Behavior +
		c.Engine.CombinerWeights.Network
	if math.Abs(combinerSum-1.0) > 0.001 {
		return fmt.Errorf("combiner weights must sum to 1.0, got %.3f", combinerSum)
	}

	authSum := c.Engine.AuthenticityWeights.Linguistic +
		c.Engine.AuthenticityWeights.SentimentConsistency +
		c.Engine.AuthenticityWeights.ReviewerQuality
	if math.Abs(authSum-1.0) > 0.001 {
		return fmt.Errorf("authenticity weights must sum to 1.0, got %.3f", authSum)
	}

	if c.Engine.TrustedThreshold < 0.0 || c.Engine.TrustedThreshold > 1.0 {
		return fmt.Errorf("trusted_threshold must be between 0.0 and 1.0")
	}

	if c.Engine.SuspiciousThreshold < 0.0 || c.Engine.SuspiciousThreshold > 1.0 {
		return fmt.Errorf("suspicious_threshold must be between 0.0 and 1.0")
	}

	if c.Engine.SuspiciousThreshold >= c.Engine.TrustedThreshold {
		return fmt.Errorf("suspicious_threshold must be below trusted_threshold")
	}

	if c.Engine.MaxBulkReviews < 1 {
		return fmt.Errorf("max_bulk_reviews must be at least 1")
	}

	if c.Engine.CacheSize < 1 {
		return fmt.Errorf("cache_size must be at least 1")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("log level must be one of: debug, info, warn, error")
	}

	validOutputs := map[string]bool{"stdout": true, "file": true, "both": true}
	if !validOutputs[c.Logging.Output] {
		return fmt.Errorf("log output must be one of: stdout, file, both")
	}

	return nil
}

// GetEngineConfig returns the scoring engine configuration
func (c *Config) GetEngineConfig() engine.Config {
	return c.Engine
}

// UpdateEngineConfig replaces the engine configuration after validating it.
// A rejected update leaves the current configuration untouched.
func (c *Config) UpdateEngineConfig(newConfig engine.Config) error {
	candidate := *c
	candidate.Engine = newConfig
	if err := candidate.Validate(); err != nil {
		return err
	}
	c.Engine = newConfig
	return nil
}

// Address returns the host:port the server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// String returns a human-readable summary of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("%s v%s (%s) listening on %s, workers=%d, max_bulk=%d",
		c.App.Name, c.App.Version, c.App.Environment, c.Address(),
		c.Engine.Workers, c.Engine.MaxBulkReviews)
}
