// Package cli implements the ethkit command-line interface.
//
// This package uses global variables to manage CLI state, which is the standard
// pattern for Cobra-based CLI applications. The globals are initialized in
// PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/ethkit/internal/config"
	"github.com/mrz1836/ethkit/internal/metrics"
	"github.com/mrz1836/ethkit/internal/output"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter
	cmdCtx    *CommandContext
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ethkit",
	Short: "Ethereum encoding, signing and contract toolkit",
	Long: `ethkit encodes and decodes Ethereum ABI and RLP data, signs legacy and
EIP-1559 transactions, and calls or transacts against contracts over JSON-RPC.

Example:
  ethkit abi encode "address,uint256" 0xb9084d9c8a70b8ecd2b6878cef735f11b060de32 1000
  ethkit selector "transfer(address,uint256)"
  ethkit call 0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48 "decimals()(uint8)"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initGlobals(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute() error {
	prepareHelp()
	err := rootCmd.Execute()
	if err != nil {
		if logger != nil {
			logger.Error("%v", err)
		}
		format := output.FormatText
		if formatter != nil {
			format = formatter.Format()
		}
		_ = output.FormatError(rootCmd.ErrOrStderr(), err, format)
		cleanup()
		return err
	}
	return nil
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return kiterr.ExitCode(err)
}

// initGlobals initializes global configuration, logger, and formatter.
func initGlobals(cmd *cobra.Command) error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	var err error
	cfg, err = config.Load(config.Path(home))
	switch {
	case err == nil:
	case errors.Is(err, kiterr.ErrConfigNotFound):
		cfg = config.Defaults()
		cfg.Home = home
	default:
		return err
	}

	config.ApplyEnvironment(cfg)

	if homeDir != "" {
		cfg.Home = homeDir
	}
	if verbose {
		cfg.Logging.Level = config.LogLevelDebug.String()
	}
	if outputFormat != "" && outputFormat != string(output.FormatAuto) {
		cfg.Output.DefaultFormat = outputFormat
	}

	if err = cfg.Validate(); err != nil {
		return err
	}

	logger, err = config.NewLogger(config.ParseLogLevel(cfg.GetLoggingLevel()), cfg.GetLoggingFile())
	if err != nil {
		logger = config.NullLogger()
	}

	explicit := output.ParseFormat(cfg.GetOutputFormat())
	formatter = output.NewFormatter(output.DetectFormat(cmd.OutOrStdout(), explicit), cmd.OutOrStdout())

	cmdCtx = NewCommandContext(cfg, logger, formatter)
	return nil
}

// cleanup logs the run's counters and releases resources.
func cleanup() {
	if logger == nil {
		return
	}
	s := metrics.Global.Snapshot()
	logger.Debug("rpc_calls=%d rpc_errors=%d rpc_throttled=%d rpc_retries=%d encodes=%d decodes=%d signatures=%d",
		s.RPCCallsTotal, s.RPCErrorsTotal, s.RPCThrottled, s.RPCRetries, s.EncodesTotal, s.DecodesTotal, s.SignaturesTotal)
	_ = logger.Close()
	logger = nil
}

// Config returns the global configuration.
func Config() *config.Config {
	return cfg
}

// Logger returns the global logger.
func Logger() *config.Logger {
	return logger
}

// Formatter returns the global output formatter.
func Formatter() *output.Formatter {
	return formatter
}

// Context returns the global command context.
func Context() *CommandContext {
	return cmdCtx
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "ethkit data directory (default: ~/.ethkit)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
