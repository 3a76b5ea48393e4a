package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/ethkit/internal/config"
	"github.com/mrz1836/ethkit/internal/output"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and initialize ethkit configuration settings.`,
}

// configInitCmd initializes the configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.ethkit/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.

Example:
  ethkit config init
  ethkit config init --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// configShowCmd shows the effective configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective configuration: the file, then environment
overrides, then flags.

Example:
  ethkit config show
  ethkit config show -o json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	configPath := config.Path(cfg.GetHome())

	if _, err := os.Stat(configPath); err == nil && !configForce {
		return kiterr.WithSuggestion(
			kiterr.WithDetails(kiterr.ErrGeneral, map[string]string{"path": configPath}),
			fmt.Sprintf("configuration already exists at %s. Use --force to overwrite.", configPath),
		)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return kiterr.Wrap(err, "checking %s", configPath)
	}

	defaultCfg := config.Defaults()
	defaultCfg.Home = cfg.GetHome()

	if err := config.Save(defaultCfg, configPath); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	cmdCtx.Log(cmd).Debugf("wrote %s", configPath)

	if formatter.IsJSON() {
		return output.FormatSuccess(formatter.Writer(), "configuration initialized at "+configPath, output.FormatJSON)
	}

	w := formatter.Writer()
	out(w, "Configuration initialized at %s\n", configPath)
	outln(w)
	outln(w, "Edit this file to configure:")
	outln(w, "  - network.rpc: Your Ethereum RPC endpoint")
	outln(w, "  - network.chain_id: Chain ID used for signing")
	outln(w, "  - transaction.type: legacy or dynamic")
	outln(w, "  - output.default_format: Output format (text/json)")
	outln(w, "  - logging.level: Log level (off/error/debug)")

	return nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	if formatter.IsJSON() {
		return formatter.Print(configView(cfg))
	}

	tbl := output.NewTable("KEY", "VALUE")
	for _, row := range configRows(cfg) {
		tbl.AddRow(row[0], row[1])
	}
	return tbl.Render(formatter.Writer())
}

type configJSON struct {
	Version     int                      `json:"version"`
	Home        string                   `json:"home"`
	Network     config.NetworkConfig     `json:"network"`
	Transaction config.TransactionConfig `json:"transaction"`
	Output      config.OutputConfig      `json:"output"`
	Logging     config.LoggingConfig     `json:"logging"`
}

func configView(c *config.Config) configJSON {
	logging := c.Logging
	logging.File = c.GetLoggingFile()
	return configJSON{
		Version:     c.Version,
		Home:        c.GetHome(),
		Network:     c.Network,
		Transaction: c.Transaction,
		Output:      c.Output,
		Logging:     logging,
	}
}

func configRows(c *config.Config) [][2]string {
	rpcURL := c.GetRPC()
	if rpcURL == "" {
		rpcURL = "(not configured)"
	}
	return [][2]string{
		{"home", c.GetHome()},
		{"network.rpc", rpcURL},
		{"network.chain_id", strconv.FormatInt(c.GetChainID(), 10)},
		{"network.rate_limit", strconv.FormatFloat(c.Network.RateLimit, 'f', -1, 64)},
		{"network.burst", strconv.Itoa(c.Network.Burst)},
		{"network.retries", strconv.Itoa(c.Network.Retries)},
		{"transaction.type", c.Transaction.Type},
		{"output.default_format", c.GetOutputFormat()},
		{"output.color", c.Output.Color},
		{"logging.level", c.GetLoggingLevel()},
		{"logging.file", c.GetLoggingFile()},
	}
}
