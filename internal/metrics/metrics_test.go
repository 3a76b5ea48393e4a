package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

func TestMetrics_RecordRPCCall(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	m.RecordRPCCall(100*time.Millisecond, nil)
	assert.Equal(t, int64(1), m.RPCCallsTotal())
	assert.Equal(t, int64(0), m.RPCErrorsTotal())

	m.RecordRPCCall(50*time.Millisecond, kiterr.ErrNetworkError)
	assert.Equal(t, int64(2), m.RPCCallsTotal())
	assert.Equal(t, int64(1), m.RPCErrorsTotal())

	m.RecordRPCThrottled()
	assert.Equal(t, int64(1), m.Snapshot().RPCThrottled)
}

func TestMetrics_Codec(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	assert.InDelta(t, 0.0, m.CodecErrorRate(), 0.001)

	m.RecordEncode(CodecABI, nil)
	m.RecordEncode(CodecRLP, nil)
	m.RecordDecode(CodecABI, nil)
	m.RecordDecode(CodecABI, kiterr.ErrDataCorrupted)
	m.RecordEncode(CodecSign, kiterr.ErrInvalidPrivateKey)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.EncodesTotal)
	assert.Equal(t, int64(0), snap.EncodeErrors)
	assert.Equal(t, int64(2), snap.DecodesTotal)
	assert.Equal(t, int64(1), snap.DecodeErrors)
	assert.Equal(t, int64(1), snap.SignaturesTotal)
	assert.Equal(t, int64(1), snap.SignErrors)
	assert.InDelta(t, 25.0, m.CodecErrorRate(), 0.001)
}

func TestMetrics_RPCLatencyAvg(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	assert.InDelta(t, 0.0, m.RPCLatencyAvgMs(), 0.001)

	// Two calls: 100ms and 200ms = 150ms avg
	m.RecordRPCCall(100*time.Millisecond, nil)
	m.RecordRPCCall(200*time.Millisecond, nil)

	assert.InDelta(t, 150.0, m.RPCLatencyAvgMs(), 1.0)
}

func TestMetrics_Reset(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	m.RecordRPCCall(time.Millisecond, nil)
	m.RecordEncode(CodecABI, nil)
	m.RecordSign(nil)
	m.RecordRPCRetry()
	assert.Equal(t, int64(1), m.Snapshot().RPCRetries)

	m.Reset()

	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestMetrics_Concurrent(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordDecode(CodecABI, nil)
			m.RecordRPCCall(time.Microsecond, nil)
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	assert.Equal(t, int64(50), snap.DecodesTotal)
	assert.Equal(t, int64(50), snap.RPCCallsTotal)
}

func TestGlobal(t *testing.T) {
	t.Parallel()
	assert.NotNil(t, Global)
}
