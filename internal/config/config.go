// Package config provides configuration management for ethkit.
package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/ethkit/internal/fileutil"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// Transaction types accepted in transaction.type.
const (
	TxTypeLegacy  = "legacy"
	TxTypeDynamic = "dynamic"
)

// Config represents the application configuration.
type Config struct {
	Version     int               `yaml:"version"`
	Home        string            `yaml:"home"`
	Network     NetworkConfig     `yaml:"network"`
	Transaction TransactionConfig `yaml:"transaction"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// NetworkConfig defines the node endpoint and request budget.
type NetworkConfig struct {
	RPC       string  `yaml:"rpc" json:"rpc"`
	ChainID   int64   `yaml:"chain_id" json:"chain_id"`
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit"`
	Burst     int     `yaml:"burst" json:"burst"`
	Retries   int     `yaml:"retries" json:"retries"`
}

// TransactionConfig defines transaction building defaults.
type TransactionConfig struct {
	Type string `yaml:"type" json:"type"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	Color         string `yaml:"color" json:"color"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// Load reads configuration from path over the defaults.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, kiterr.WithDetails(kiterr.ErrConfigNotFound, map[string]string{"path": path})
		}
		return nil, kiterr.Wrap(err, "reading config %s", path)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, kiterr.WithDetails(kiterr.ErrConfigInvalid, map[string]string{
			"path":   path,
			"reason": err.Error(),
		})
	}

	return cfg, nil
}

// Save writes configuration to path, creating its directory.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return fileutil.WriteAtomic(path, data, 0o600)
}

// Path returns the config file path under home.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// Validate checks values the rest of the program relies on.
func (c *Config) Validate() error {
	if c.Network.ChainID <= 0 {
		return invalid("network.chain_id", strconv.FormatInt(c.Network.ChainID, 10), "must be positive")
	}
	if c.Network.RPC != "" {
		u, err := url.Parse(c.Network.RPC)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return invalid("network.rpc", c.Network.RPC, "must be an http or https URL")
		}
	}
	if c.Network.RateLimit < 0 {
		return invalid("network.rate_limit", strconv.FormatFloat(c.Network.RateLimit, 'f', -1, 64), "must not be negative")
	}
	if c.Network.Retries < 0 {
		return invalid("network.retries", strconv.Itoa(c.Network.Retries), "must not be negative")
	}
	switch c.Transaction.Type {
	case TxTypeLegacy, TxTypeDynamic:
	default:
		return invalid("transaction.type", c.Transaction.Type, "must be legacy or dynamic")
	}
	switch c.Output.DefaultFormat {
	case "auto", "text", "json":
	default:
		return invalid("output.default_format", c.Output.DefaultFormat, "must be auto, text or json")
	}
	return nil
}

func invalid(field, value, reason string) error {
	return kiterr.WithDetails(kiterr.ErrConfigInvalid, map[string]string{
		"field":  field,
		"value":  value,
		"reason": reason,
	})
}

// GetHome returns the ethkit home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetRPC returns the node RPC URL.
func (c *Config) GetRPC() string {
	return c.Network.RPC
}

// GetChainID returns the configured chain ID.
func (c *Config) GetChainID() int64 {
	return c.Network.ChainID
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// DefaultLogFile is the log file name used under the home directory when
// logging.file is empty.
const DefaultLogFile = "ethkit.log"

// GetLoggingFile returns the configured log file path, or ethkit.log under
// the home directory.
func (c *Config) GetLoggingFile() string {
	if c.Logging.File == "" {
		return filepath.Join(c.Home, DefaultLogFile)
	}
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// DefaultHome returns the default ethkit home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ethkit"
	}
	return filepath.Join(home, ".ethkit")
}
