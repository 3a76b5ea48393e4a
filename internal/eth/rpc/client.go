// Package rpc is a minimal JSON-RPC 2.0 client for Ethereum nodes over HTTP.
package rpc

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"sync/atomic"
	"time"

	ethtypes "github.com/mrz1836/ethkit/internal/eth/types"
	"github.com/mrz1836/ethkit/internal/metrics"
	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// DefaultTimeout bounds a single HTTP round trip.
const DefaultTimeout = 30 * time.Second

// Client is a JSON-RPC client bound to one endpoint. It is safe for concurrent use.
type Client struct {
	url        string
	httpClient *http.Client
	limiter    *RateLimiter
	retry      RetryPolicy
	metrics    *metrics.Metrics
	idCounter  atomic.Uint64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimiter throttles requests through rl.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(c *Client) { c.limiter = rl }
}

// WithMetrics records calls into m instead of metrics.Global.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client for url.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		metrics:    metrics.Global,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint.
func (c *Client) URL() string {
	return c.url
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      uint64 `json:"id"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error,omitempty"`
}

// Call performs a JSON-RPC call and returns the raw result.
//
// A node error object is returned as *Error. A body that is not JSON, or that
// carries neither a non-null result nor an error, is returned as
// *InvalidResponseError. Transport failures are retried under the client's
// RetryPolicy, except for methods that submit transactions.
func (c *Client) Call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	for attempt := 0; ; attempt++ {
		result, err := c.attempt(ctx, method, params)
		if err == nil || attempt+1 >= c.retry.MaxAttempts || !retryable(method, err) {
			return result, err
		}

		c.metrics.RecordRPCRetry()
		if sleepErr := sleep(ctx, c.retry.backoff(attempt, err)); sleepErr != nil {
			return nil, err
		}
	}
}

func (c *Client) attempt(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.url); err != nil {
			c.metrics.RecordRPCThrottled()
			return nil, kiterr.WithDetails(kiterr.ErrNetworkError, map[string]string{
				"method": method,
				"reason": "rate limiter: " + err.Error(),
			})
		}
	}

	start := time.Now()
	result, err := c.call(ctx, method, params)
	c.metrics.RecordRPCCall(time.Since(start), err)
	return result, err
}

func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.idCounter.Add(1),
	})
	if err != nil {
		return nil, kiterr.Wrap(kiterr.ErrInvalidInput, "marshaling %s request: %v", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, networkError(method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, networkError(method, err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, networkError(method, err)
	}

	var resp response
	if err := json.Unmarshal(respBody, &resp); err != nil || httpResp.StatusCode == http.StatusTooManyRequests {
		if httpResp.StatusCode == http.StatusTooManyRequests || httpResp.StatusCode >= http.StatusInternalServerError {
			return nil, networkError(method, &HTTPStatusError{
				StatusCode: httpResp.StatusCode,
				RetryAfter: parseRetryAfter(httpResp.Header.Get("Retry-After")),
			})
		}
		return nil, invalidResponse(respBody)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	if len(resp.Result) == 0 || bytes.Equal(resp.Result, []byte("null")) {
		return nil, invalidResponse(respBody)
	}

	return resp.Result, nil
}

// ChainID returns eth_chainId.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.quantity(ctx, "eth_chainId")
}

// GetBalance returns the balance of addr in wei.
func (c *Client) GetBalance(ctx context.Context, addr ethtypes.Address, block BlockTag) (*big.Int, error) {
	return c.quantity(ctx, "eth_getBalance", addr.Hex(), block.orDefault(Latest))
}

// GetTransactionCount returns the nonce of addr, from the pending state by default.
func (c *Client) GetTransactionCount(ctx context.Context, addr ethtypes.Address, block BlockTag) (uint64, error) {
	return c.uint64Quantity(ctx, "eth_getTransactionCount", addr.Hex(), block.orDefault(Pending))
}

// GasPrice returns eth_gasPrice in wei.
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	return c.quantity(ctx, "eth_gasPrice")
}

// MaxPriorityFeePerGas returns the node's suggested tip in wei.
func (c *Client) MaxPriorityFeePerGas(ctx context.Context) (*big.Int, error) {
	return c.quantity(ctx, "eth_maxPriorityFeePerGas")
}

// CallContract executes msg against block without creating a transaction.
func (c *Client) CallContract(ctx context.Context, msg CallMsg, block BlockTag) ([]byte, error) {
	s, raw, err := c.str(ctx, "eth_call", msg, block.orDefault(Latest))
	if err != nil {
		return nil, err
	}
	b, err := ethtypes.FromHex(s)
	if err != nil {
		return nil, invalidResponse(raw)
	}
	return b, nil
}

// EstimateGas returns the gas msg would consume.
func (c *Client) EstimateGas(ctx context.Context, msg CallMsg) (uint64, error) {
	return c.uint64Quantity(ctx, "eth_estimateGas", msg)
}

// SendRawTransaction submits a serialized signed transaction and returns its hash.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (ethtypes.Hash, error) {
	s, body, err := c.str(ctx, "eth_sendRawTransaction", "0x"+hex.EncodeToString(raw))
	if err != nil {
		return ethtypes.Hash{}, err
	}
	digits := strings.TrimPrefix(s, "0x")
	if len(digits) != ethtypes.HashLength*2 {
		return ethtypes.Hash{}, invalidResponse(body)
	}
	h, err := ethtypes.ParseHash(digits)
	if err != nil {
		return ethtypes.Hash{}, invalidResponse(body)
	}
	return h, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// str calls method and decodes a JSON string result.
func (c *Client) str(ctx context.Context, method string, params ...any) (string, json.RawMessage, error) {
	result, err := c.Call(ctx, method, params...)
	if err != nil {
		return "", nil, err
	}
	var s string
	if err := json.Unmarshal(result, &s); err != nil {
		return "", result, invalidResponse(result)
	}
	return s, result, nil
}

func (c *Client) quantity(ctx context.Context, method string, params ...any) (*big.Int, error) {
	s, raw, err := c.str(ctx, method, params...)
	if err != nil {
		return nil, err
	}
	n, ok := decodeQuantity(s)
	if !ok {
		return nil, invalidResponse(raw)
	}
	return n, nil
}

// uint64Quantity is quantity for nonces and gas, which must fit in 64 bits.
func (c *Client) uint64Quantity(ctx context.Context, method string, params ...any) (uint64, error) {
	s, raw, err := c.str(ctx, method, params...)
	if err != nil {
		return 0, err
	}
	n, ok := decodeQuantity(s)
	if !ok || !n.IsUint64() {
		return 0, invalidResponse(raw)
	}
	return n.Uint64(), nil
}

func networkError(method string, err error) error {
	return &kiterr.Error{
		Code:     kiterr.ErrNetworkError.Code,
		Message:  kiterr.ErrNetworkError.Message,
		Details:  map[string]string{"method": method},
		Cause:    err,
		ExitCode: kiterr.ErrNetworkError.ExitCode,
	}
}
