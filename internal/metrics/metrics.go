// Package metrics provides process-wide counters for transport calls and codec
// operations, kept in atomics so every package can record without locking.
package metrics

import (
	"sync/atomic"
	"time"
)

// Codec identifies which encoder or decoder an operation went through.
type Codec string

// Known codecs.
const (
	CodecABI  Codec = "abi"
	CodecRLP  Codec = "rlp"
	CodecSign Codec = "sign"
)

// Metrics holds application metrics using atomic counters for thread safety.
type Metrics struct {
	// RPC metrics
	rpcCallsTotal   atomic.Int64
	rpcErrorsTotal  atomic.Int64
	rpcLatencyNanos atomic.Int64
	rpcThrottled    atomic.Int64
	rpcRetries      atomic.Int64

	// Codec metrics
	encodesTotal  atomic.Int64
	encodeErrors  atomic.Int64
	decodesTotal  atomic.Int64
	decodeErrors  atomic.Int64
	signaturesOps atomic.Int64
	signErrors    atomic.Int64
}

// Global is the global metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordRPCCall records an RPC call with its duration and success status.
func (m *Metrics) RecordRPCCall(duration time.Duration, err error) {
	m.rpcCallsTotal.Add(1)
	m.rpcLatencyNanos.Add(duration.Nanoseconds())

	if err != nil {
		m.rpcErrorsTotal.Add(1)
	}
}

// RecordRPCThrottled records a call that had to wait on the rate limiter.
func (m *Metrics) RecordRPCThrottled() {
	m.rpcThrottled.Add(1)
}

// RecordRPCRetry records a call repeated after a transient failure.
func (m *Metrics) RecordRPCRetry() {
	m.rpcRetries.Add(1)
}

// RecordEncode records an encode operation.
func (m *Metrics) RecordEncode(codec Codec, err error) {
	if codec == CodecSign {
		m.RecordSign(err)
		return
	}
	m.encodesTotal.Add(1)
	if err != nil {
		m.encodeErrors.Add(1)
	}
}

// RecordDecode records a decode operation.
func (m *Metrics) RecordDecode(_ Codec, err error) {
	m.decodesTotal.Add(1)
	if err != nil {
		m.decodeErrors.Add(1)
	}
}

// RecordSign records a transaction signing operation.
func (m *Metrics) RecordSign(err error) {
	m.signaturesOps.Add(1)
	if err != nil {
		m.signErrors.Add(1)
	}
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	RPCCallsTotal   int64 `json:"rpc_calls_total"`
	RPCErrorsTotal  int64 `json:"rpc_errors_total"`
	RPCLatencyNanos int64 `json:"rpc_latency_nanos"`
	RPCThrottled    int64 `json:"rpc_throttled"`
	RPCRetries      int64 `json:"rpc_retries"`
	EncodesTotal    int64 `json:"encodes_total"`
	EncodeErrors    int64 `json:"encode_errors"`
	DecodesTotal    int64 `json:"decodes_total"`
	DecodeErrors    int64 `json:"decode_errors"`
	SignaturesTotal int64 `json:"signatures_total"`
	SignErrors      int64 `json:"sign_errors"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		RPCCallsTotal:   m.rpcCallsTotal.Load(),
		RPCErrorsTotal:  m.rpcErrorsTotal.Load(),
		RPCLatencyNanos: m.rpcLatencyNanos.Load(),
		RPCThrottled:    m.rpcThrottled.Load(),
		RPCRetries:      m.rpcRetries.Load(),
		EncodesTotal:    m.encodesTotal.Load(),
		EncodeErrors:    m.encodeErrors.Load(),
		DecodesTotal:    m.decodesTotal.Load(),
		DecodeErrors:    m.decodeErrors.Load(),
		SignaturesTotal: m.signaturesOps.Load(),
		SignErrors:      m.signErrors.Load(),
	}
}

// RPCCallsTotal returns the total number of RPC calls made.
func (m *Metrics) RPCCallsTotal() int64 {
	return m.rpcCallsTotal.Load()
}

// RPCErrorsTotal returns the total number of RPC errors.
func (m *Metrics) RPCErrorsTotal() int64 {
	return m.rpcErrorsTotal.Load()
}

// RPCLatencyAvgMs returns the average RPC latency in milliseconds.
// Returns 0 if no calls have been made.
func (m *Metrics) RPCLatencyAvgMs() float64 {
	calls := m.rpcCallsTotal.Load()
	if calls == 0 {
		return 0
	}
	nanos := m.rpcLatencyNanos.Load()
	return float64(nanos) / float64(calls) / 1e6
}

// CodecErrorRate returns the share of failed encode and decode operations as a percentage (0-100).
func (m *Metrics) CodecErrorRate() float64 {
	total := m.encodesTotal.Load() + m.decodesTotal.Load()
	if total == 0 {
		return 0
	}
	failed := m.encodeErrors.Load() + m.decodeErrors.Load()
	return float64(failed) / float64(total) * 100
}

// Reset resets all metrics to zero.
func (m *Metrics) Reset() {
	m.rpcCallsTotal.Store(0)
	m.rpcErrorsTotal.Store(0)
	m.rpcLatencyNanos.Store(0)
	m.rpcThrottled.Store(0)
	m.rpcRetries.Store(0)
	m.encodesTotal.Store(0)
	m.encodeErrors.Store(0)
	m.decodesTotal.Store(0)
	m.decodeErrors.Store(0)
	m.signaturesOps.Store(0)
	m.signErrors.Store(0)
}
