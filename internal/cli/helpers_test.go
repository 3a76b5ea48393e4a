package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
)

const (
	// eip155Key is the private key of the EIP-155 example transaction.
	eip155Key  = "0x4646464646464646464646464646464646464646464646464646464646464646"
	eip155From = "0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F"
)

// resetFlags restores every flag in the command tree to its default so
// commands can run more than once per process.
func resetFlags(root *cobra.Command) {
	walkCommands(root, func(cmd *cobra.Command) {
		reset := func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
		cmd.Flags().VisitAll(reset)
		cmd.PersistentFlags().VisitAll(reset)
	})
}

// runCLI executes the root command with a fresh home directory and returns
// what it wrote to stdout and stderr. Tests using it must not run in parallel.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLIHome(t, t.TempDir(), args...)
}

func runCLIHome(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--home", home}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err := Execute()
	return stdout.String(), stderr.String(), err
}

// decodeJSON unmarshals command output into v.
func decodeJSON(t *testing.T, s string, v any) {
	t.Helper()
	if !assert.NoError(t, json.Unmarshal([]byte(s), v), s) {
		t.FailNow()
	}
}

type nodeRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
	ID     uint64            `json:"id"`
}

// newFakeNode answers JSON-RPC requests from results keyed by method. A
// method missing from results gets a JSON-RPC error. Handlers run on the
// server goroutine and only report failures.
func newFakeNode(t *testing.T, results map[string]func(params []json.RawMessage) any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req nodeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if handle, ok := results[req.Method]; ok {
			resp["result"] = handle(req.Params)
		} else {
			resp["error"] = map[string]any{"code": -32601, "message": "method not found: " + req.Method}
		}
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(server.Close)
	return server
}

// constant returns a node handler with a fixed result.
func constant(v any) func([]json.RawMessage) any {
	return func([]json.RawMessage) any { return v }
}

func word(h string) string {
	return strings.Repeat("0", 64-len(h)) + h
}
