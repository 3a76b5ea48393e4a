package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, DefaultRPCURL, cfg.GetRPC())
	assert.Equal(t, int64(DefaultChainID), cfg.GetChainID())
	assert.Equal(t, TxTypeDynamic, cfg.Transaction.Type)
	assert.Equal(t, "auto", cfg.GetOutputFormat())
	assert.Equal(t, "error", cfg.GetLoggingLevel())
	assert.Equal(t, "~/.ethkit/ethkit.log", cfg.GetLoggingFile())
	assert.Equal(t, "~/.ethkit", cfg.GetHome())
	require.NoError(t, cfg.Validate())

	cfg.Home = "/srv/ethkit"
	assert.Equal(t, filepath.Join("/srv/ethkit", DefaultLogFile), cfg.GetLoggingFile())
	cfg.Logging.File = "/var/log/ethkit.log"
	assert.Equal(t, "/var/log/ethkit.log", cfg.GetLoggingFile())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	path := Path(filepath.Join(t.TempDir(), "nested"))

	cfg := Defaults()
	cfg.Network.RPC = "http://localhost:8545"
	cfg.Network.ChainID = 11155111
	cfg.Transaction.Type = TxTypeLegacy
	cfg.Logging.Level = "debug"

	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("network:\n  chain_id: 137\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(137), cfg.Network.ChainID)
	assert.Equal(t, DefaultRPCURL, cfg.Network.RPC)
	assert.Equal(t, TxTypeDynamic, cfg.Transaction.Type)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, kiterr.ErrConfigNotFound)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("network: [unclosed"), 0o600))
	_, err = Load(path)
	require.ErrorIs(t, err, kiterr.ErrConfigInvalid)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"zero chain id", func(c *Config) { c.Network.ChainID = 0 }, "network.chain_id"},
		{"negative chain id", func(c *Config) { c.Network.ChainID = -1 }, "network.chain_id"},
		{"rpc without scheme", func(c *Config) { c.Network.RPC = "localhost:8545" }, "network.rpc"},
		{"rpc websocket", func(c *Config) { c.Network.RPC = "ws://localhost:8546" }, "network.rpc"},
		{"negative rate", func(c *Config) { c.Network.RateLimit = -1 }, "network.rate_limit"},
		{"negative retries", func(c *Config) { c.Network.Retries = -1 }, "network.retries"},
		{"unknown tx type", func(c *Config) { c.Transaction.Type = "blob" }, "transaction.type"},
		{"unknown format", func(c *Config) { c.Output.DefaultFormat = "xml" }, "output.default_format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Defaults()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, kiterr.ErrConfigInvalid)
			assert.Equal(t, tc.field, kiterr.Details(err)["field"])
		})
	}

	cfg := Defaults()
	cfg.Network.RPC = ""
	require.NoError(t, cfg.Validate())
}

func TestDefaultHome(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ".ethkit", filepath.Base(DefaultHome()))
}
