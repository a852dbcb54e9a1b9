// Package config provides configuration for engine construction
// defaults and dispatch behavior. Options are carried in an explicit
// struct with a process-wide default instance; nothing reads ambient
// state at operation time.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config holds the engine defaults.
type Config struct {
	// SparseKind is the index encoding used when compressing dense
	// data without an explicit kind: "integer" or "block".
	SparseKind string `json:"sparse_kind" yaml:"sparse_kind"`

	// EvaluatorThreshold is the minimum operand length for routing an
	// arithmetic operation through the vectorized expression
	// evaluator. Operands below the threshold use the plain
	// elementwise path. Zero disables the evaluator entirely.
	EvaluatorThreshold int `json:"evaluator_threshold" yaml:"evaluator_threshold"`

	// CopyOnConstruct forces buffer duplication in constructors that
	// otherwise share caller-provided buffers.
	CopyOnConstruct bool `json:"copy_on_construct" yaml:"copy_on_construct"`

	// WarnOnDensify controls whether operations that fall back to a
	// fully dense materialization emit a performance warning.
	WarnOnDensify bool `json:"warn_on_densify" yaml:"warn_on_densify"`
}

// Default configuration values
const (
	DefaultSparseKind         = "integer"
	DefaultEvaluatorThreshold = 10000
)

var (
	globalConfig Config
	configMutex  sync.RWMutex
)

func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a configuration with default values.
func NewConfig() Config {
	return Config{
		SparseKind:         DefaultSparseKind,
		EvaluatorThreshold: DefaultEvaluatorThreshold,
		CopyOnConstruct:    false,
		WarnOnDensify:      true,
	}
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	if c.SparseKind != "integer" && c.SparseKind != "block" {
		return fmt.Errorf("SparseKind must be 'integer' or 'block', got %q", c.SparseKind)
	}
	if c.EvaluatorThreshold < 0 {
		return fmt.Errorf("EvaluatorThreshold must be non-negative, got %d", c.EvaluatorThreshold)
	}
	return nil
}

// WithDefaults fills zero values with defaults. Boolean fields are
// left as-is so an explicit false survives.
func (c Config) WithDefaults() Config {
	defaults := NewConfig()
	if c.SparseKind == "" {
		c.SparseKind = defaults.SparseKind
	}
	if c.EvaluatorThreshold == 0 {
		c.EvaluatorThreshold = defaults.EvaluatorThreshold
	}
	return c
}

// SetGlobalConfig sets the process-wide default configuration.
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the process-wide default configuration.
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data.
func LoadFromJSON(data []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a JSON or YAML file.
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config.WithDefaults(), nil
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() Config {
	config := NewConfig()

	if val := os.Getenv("TUNDRA_SPARSE_KIND"); val != "" {
		config.SparseKind = val
	}

	if val := os.Getenv("TUNDRA_EVALUATOR_THRESHOLD"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.EvaluatorThreshold = parsed
		}
	}

	if val := os.Getenv("TUNDRA_COPY_ON_CONSTRUCT"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.CopyOnConstruct = parsed
		}
	}

	if val := os.Getenv("TUNDRA_WARN_ON_DENSIFY"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.WarnOnDensify = parsed
		}
	}

	return config
}
