package config

// DefaultRPCURL is the default Ethereum RPC endpoint. It needs no API key.
const DefaultRPCURL = "https://ethereum-rpc.publicnode.com"

// DefaultChainID is Ethereum mainnet.
const DefaultChainID = 1

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.ethkit",
		Network: NetworkConfig{
			RPC:       DefaultRPCURL,
			ChainID:   DefaultChainID,
			RateLimit: 5,
			Burst:     10,
			Retries:   2,
		},
		Transaction: TransactionConfig{
			Type: TxTypeDynamic,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
		},
		Logging: LoggingConfig{
			Level: "error",
		},
	}
}
