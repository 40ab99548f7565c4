package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// Key case names accepted by key_case
const (
	KeyCaseNone       = ""
	KeyCaseSnake      = "snake"
	KeyCaseCamel      = "camel"
	KeyCaseLowerCamel = "lower_camel"
	KeyCaseKebab      = "kebab"
)

// Config represents the complete configuration for jsonenv
type Config struct {
	Pretty  bool          `yaml:"pretty"`
	KeyCase string        `yaml:"key_case" validate:"omitempty,oneof=snake camel lower_camel kebab"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls the logger
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Overrides holds values given on the command line. Nil pointers mean "not set".
type Overrides struct {
	Pretty  *bool
	KeyCase *string
	Debug   bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Pretty:  false,
		KeyCase: KeyCaseNone,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field values against their allowed sets
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonenv.yml", ".jsonenv.yaml", "jsonenv.yml", "jsonenv.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// KeyFunc returns the function that rewrites object keys for the configured
// key case, or nil when keys are left as they are.
func (c *Config) KeyFunc() func(string) string {
	switch c.KeyCase {
	case KeyCaseSnake:
		return strcase.ToSnake
	case KeyCaseCamel:
		return strcase.ToCamel
	case KeyCaseLowerCamel:
		return strcase.ToLowerCamel
	case KeyCaseKebab:
		return strcase.ToKebab
	default:
		return nil
	}
}

// LoadConfigWithCLI loads the config file (if any) and applies CLI overrides on top.
// Only flags the user actually set take precedence over the file.
func LoadConfigWithCLI(configPath string, overrides Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if overrides.Pretty != nil {
		cfg.Pretty = *overrides.Pretty
	}
	if overrides.KeyCase != nil {
		cfg.KeyCase = *overrides.KeyCase
	}
	if overrides.Debug {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
