package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	ethcrypto "github.com/mrz1836/ethkit/internal/eth/crypto"
	"github.com/mrz1836/ethkit/internal/output"
	"github.com/mrz1836/ethkit/internal/secure"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// EnvPrivateKey supplies the signing key without a prompt.
const EnvPrivateKey = "ETHKIT_PRIVATE_KEY" //nolint:gosec // G101: variable name, not a credential

// promptKeyFn reads a private key from the terminal. Tests replace it.
//
//nolint:gochecknoglobals // Replaced in tests
var promptKeyFn = promptPrivateKey

// promptPrivateKey prompts for a hex private key with hidden input.
// The caller is responsible for zeroing the returned bytes after use.
func promptPrivateKey() ([]byte, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // G115: Fd() returns uintptr, safe conversion for term.ReadPassword
	if !term.IsTerminal(fd) {
		return nil, kiterr.WithSuggestion(
			kiterr.WithDetails(kiterr.ErrInvalidPrivateKey, map[string]string{"reason": "no key given and stdin is not a terminal"}),
			"pass --key or set "+EnvPrivateKey,
		)
	}

	out(os.Stderr, "Enter private key (hex): ")
	key, err := term.ReadPassword(fd)
	outln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	return key, nil
}

// loadPrivateKey resolves the signing key from the --key flag, the
// environment, or a hidden prompt, in that order.
func loadPrivateKey(cmd *cobra.Command, flagValue string) (*ethcrypto.PrivateKey, error) {
	if flagValue != "" {
		output.Warnf(cmd.ErrOrStderr(), "private key passed on the command line may be kept in shell history")
		return decodePrivateKey([]byte(flagValue))
	}

	if v := os.Getenv(EnvPrivateKey); v != "" {
		return decodePrivateKey([]byte(v))
	}

	raw, err := promptKeyFn()
	if err != nil {
		return nil, err
	}
	defer secure.Wipe(raw)

	return decodePrivateKey(raw)
}

// decodePrivateKey decodes hex key text through locked memory.
func decodePrivateKey(text []byte) (*ethcrypto.PrivateKey, error) {
	buf, err := secure.DecodeHex(text)
	if err != nil {
		return nil, kiterr.ErrInvalidPrivateKey
	}
	defer buf.Destroy()

	return ethcrypto.ToPrivateKey(buf.Bytes())
}
