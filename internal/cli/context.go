package cli

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mrz1836/ethkit/internal/config"
	"github.com/mrz1836/ethkit/internal/eth/rpc"
	ethtypes "github.com/mrz1836/ethkit/internal/eth/types"
	"github.com/mrz1836/ethkit/internal/metrics"
	"github.com/mrz1836/ethkit/internal/output"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// CommandContext holds dependencies for CLI commands.
type CommandContext struct {
	Config    *config.Config
	Logger    *config.Logger
	Formatter *output.Formatter
	Metrics   *metrics.Metrics
}

// NewCommandContext creates a context with the given dependencies.
func NewCommandContext(
	cfg *config.Config,
	logger *config.Logger,
	formatter *output.Formatter,
) *CommandContext {
	return &CommandContext{
		Config:    cfg,
		Logger:    logger,
		Formatter: formatter,
		Metrics:   metrics.Global,
	}
}

// Log returns a logger tagged with the running command.
func (c *CommandContext) Log(cmd *cobra.Command) logrus.FieldLogger {
	return c.Logger.WithField("command", cmd.CommandPath())
}

// Client returns a JSON-RPC client for rpcURL, or for the configured
// endpoint when rpcURL is empty. Requests share the configured rate budget
// and transient failures are retried network.retries times.
func (c *CommandContext) Client(rpcURL string) (*rpc.Client, error) {
	url := config.SanitizeURL(rpcURL)
	if url == "" {
		url = c.Config.GetRPC()
	}
	if url == "" {
		return nil, kiterr.WithSuggestion(
			kiterr.WithDetails(kiterr.ErrConfigInvalid, map[string]string{
				"field":  "network.rpc",
				"reason": "no RPC endpoint configured",
			}),
			"pass --rpc, set "+config.EnvRPC+", or set network.rpc in the config file",
		)
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, kiterr.WithDetails(kiterr.ErrInvalidInput, map[string]string{
			"rpc":    url,
			"reason": "RPC URL must use http or https",
		})
	}

	limiter := rpc.NewRateLimiter(c.Config.Network.RateLimit, c.Config.Network.Burst)
	retry := rpc.DefaultRetryPolicy()
	retry.MaxAttempts = c.Config.Network.Retries + 1

	return rpc.NewClient(url,
		rpc.WithRateLimiter(limiter),
		rpc.WithRetry(retry),
		rpc.WithMetrics(c.Metrics),
	), nil
}

// Signer returns the latest signer for chainID, or for the configured chain
// when chainID is zero.
func (c *CommandContext) Signer(chainID int64) (ethtypes.Signer, error) {
	if chainID == 0 {
		chainID = c.Config.GetChainID()
	}
	return ethtypes.LatestSigner(big.NewInt(chainID))
}

// contextWithTimeout returns a timeout context rooted in the command context.
func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	return context.WithTimeout(base, d)
}
