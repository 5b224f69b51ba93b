package models

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/embedcreativity/go-ecserial"
	"github.com/embedcreativity/go-ecserial/internal/tui/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPort answers Read from a fixed list of results
type scriptedPort struct {
	serial.Port

	mu      sync.Mutex
	results []readResult
	onEmpty func()
	closed  bool
}

type readResult struct {
	data []byte
	err  error
}

func (p *scriptedPort) Read(buf []byte, timeout time.Duration) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.results) == 0 {
		if p.onEmpty != nil {
			p.onEmpty()
		}
		return 0, serial.ErrTimeout
	}
	r := p.results[0]
	p.results = p.results[1:]
	return copy(buf, r.data), r.err
}

func (p *scriptedPort) Close() error {
	p.closed = true
	return nil
}

func TestReadLoop_DeliversChunks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port := &scriptedPort{
		results: []readResult{
			{data: []byte("AT"), err: serial.ErrTimeout},
			{data: nil, err: serial.ErrTimeout},
			{data: []byte("OK\r\n"), err: nil},
		},
		onEmpty: cancel,
	}

	var got []components.DataReceivedMsg
	err := ReadLoop(ctx, port, 4, 10*time.Millisecond, func(msg components.DataReceivedMsg) {
		got = append(got, msg)
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "AT", string(got[0].Data))
	assert.Equal(t, "OK\r\n", string(got[1].Data))
	assert.False(t, got[0].IsTX)
}

func TestReadLoop_StopsOnFault(t *testing.T) {
	port := &scriptedPort{
		results: []readResult{
			{data: []byte("x"), err: serial.ErrReadFault},
		},
	}

	var delivered int
	err := ReadLoop(context.Background(), port, 8, time.Millisecond, func(components.DataReceivedMsg) {
		delivered++
	})
	assert.ErrorIs(t, err, serial.ErrReadFault)
	assert.Equal(t, 1, delivered, "bytes read before the fault are still delivered")
}

func TestReadLoop_ClosedAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	port := &scriptedPort{
		results: []readResult{{err: serial.ErrPortClosed}},
	}
	cancel()

	err := ReadLoop(ctx, port, 8, time.Millisecond, func(components.DataReceivedMsg) {})
	assert.NoError(t, err)
}

func TestReadLoop_ClosedWhileRunning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	port := &scriptedPort{
		results: []readResult{{err: serial.ErrPortClosed}},
	}

	err := ReadLoop(ctx, port, 8, time.Millisecond, func(components.DataReceivedMsg) {})
	assert.True(t, errors.Is(err, serial.ErrPortClosed))
}

func TestSerialModel_Cleanup(t *testing.T) {
	m := NewSerialModel("/dev/ttyUSB0")
	port := &scriptedPort{}
	m.SetPort(port)

	m.Cleanup()
	m.Cleanup()

	assert.True(t, port.closed)
	assert.Nil(t, m.GetPort())
	assert.Error(t, m.GetContext().Err())
}

func TestSerialModel_State(t *testing.T) {
	m := NewSerialModel("/dev/ttyUSB0")
	assert.Equal(t, "/dev/ttyUSB0", m.GetPortPath())
	assert.Equal(t, "NORMAL", m.GetInputMode().String())

	m.SetInputMode(InputModeInsert)
	assert.True(t, m.IsInInsertMode())

	m.AddRawData(components.DataReceivedMsg{Data: []byte("a")})
	m.AddRawData(components.DataReceivedMsg{Data: []byte("b")})
	assert.Len(t, m.GetRawData(), 2)
	m.ClearData()
	assert.Empty(t, m.GetRawData())
}
