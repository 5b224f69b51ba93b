package serial

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// openPTY opens the slave side of a fresh pty through Open
func openPTY(t *testing.T, opts ...Option) (Port, *os.File) {
	t.Helper()

	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	port, err := Open(slave.Name(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { port.Close() })

	return port, master
}

func TestOpen_Loopback(t *testing.T) {
	port, master := openPTY(t, WithBaudRate(9600))

	// echo whatever the port sends straight back
	go func() {
		buf := make([]byte, 4)
		if _, err := io.ReadFull(master, buf); err == nil {
			master.Write(buf)
		}
	}()

	require.NoError(t, port.WriteBytes([]byte("AT\r\n")))

	buf := make([]byte, 4)
	n, err := port.Read(buf, time.Second)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "AT\r\n", string(buf))
}

func TestOpen_RawModePassesBytesUnchanged(t *testing.T) {
	port, master := openPTY(t)

	sent := []byte{0x00, 0x03, 0x0d, 0x0a, 0x11, 0x13, 0x1a, 0x7f, 0xff}
	_, err := master.Write(sent)
	require.NoError(t, err)

	buf := make([]byte, len(sent))
	n, err := port.Read(buf, time.Second)
	require.NoError(t, err)
	require.Equal(t, len(sent), n)
	assert.Equal(t, sent, buf)
}

func TestRead_OneShotWithoutData(t *testing.T) {
	port, _ := openPTY(t)

	start := time.Now()
	n, err := port.Read(make([]byte, 10), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRead_TwoBurstsBeforeDeadline(t *testing.T) {
	port, master := openPTY(t)

	go func() {
		master.Write(repeat('a', 50))
		time.Sleep(10 * time.Millisecond)
		master.Write(repeat('b', 50))
	}()

	deadline := 500 * time.Millisecond
	start := time.Now()
	buf := make([]byte, 100)
	n, err := port.Read(buf, deadline)
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Equal(t, 100, n)
	assert.Equal(t, append(repeat('a', 50), repeat('b', 50)...), buf)
	assert.Less(t, elapsed, deadline)
}

func TestRead_TimeoutWithShortData(t *testing.T) {
	port, master := openPTY(t)

	_, err := master.Write(repeat('x', 30))
	require.NoError(t, err)

	deadline := 50 * time.Millisecond
	start := time.Now()
	buf := make([]byte, 100)
	n, err := port.Read(buf, deadline)
	elapsed := time.Since(start)

	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 30, n)
	assert.Equal(t, repeat('x', 30), buf[:n])
	assert.GreaterOrEqual(t, elapsed, deadline)
	// one poll interval plus scheduling slack
	assert.Less(t, elapsed, deadline+50*time.Millisecond)
}

func TestBaudRate_RoundTrip(t *testing.T) {
	for _, rate := range SupportedBaudRates() {
		port, _ := openPTY(t, WithBaudRate(rate))

		got, err := port.BaudRate()
		require.NoError(t, err, "rate %d", rate)
		assert.Equal(t, rate, got)
	}
}

func TestOpen_UnsupportedBaudRate(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	defer master.Close()
	defer slave.Close()

	_, err = Open(slave.Name(), WithBaudRate(12345))
	assert.ErrorIs(t, err, ErrUnsupportedBaudRate)
}

func TestOpen_BaudFallbackHangsUp(t *testing.T) {
	port, _ := openPTY(t, WithBaudRate(12345), WithBaudFallback())

	got, err := port.BaudRate()
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestOpen_NegativeBaudRate(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	defer master.Close()
	defer slave.Close()

	_, err = Open(slave.Name(), WithBaudRate(-1))
	assert.ErrorIs(t, err, ErrUnsupportedBaudRate)

	port, _ := openPTY(t, WithBaudRate(-1), WithBaudFallback())
	got, err := port.BaudRate()
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestOpen_NonExistentDevice(t *testing.T) {
	_, err := Open("/dev/nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeviceNotFound)
	assert.ErrorIs(t, err, ErrOpen)
	assert.ErrorIs(t, err, unix.ENOENT)

	var opErr *OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "open", opErr.Op)
	assert.Equal(t, "/dev/nonexistent", opErr.Path)
}

func TestOpen_NotATerminal(t *testing.T) {
	_, err := Open("/dev/null")
	assert.ErrorIs(t, err, ErrConfig)
	assert.NotErrorIs(t, err, ErrOpen)
}

func TestClose(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	port, err := Open(slave.Name())
	require.NoError(t, err)

	require.NoError(t, port.Close())
	assert.ErrorIs(t, port.Close(), ErrPortClosed)

	_, err = port.Read(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrPortClosed)
	assert.ErrorIs(t, port.WriteByte('x'), ErrPortClosed)
	_, err = port.BaudRate()
	assert.ErrorIs(t, err, ErrPortClosed)
}

func TestClose_FaultIsReported(t *testing.T) {
	p, dev, _ := newFakePort()
	dev.closeErr = unix.EIO

	err := p.Close()
	assert.ErrorIs(t, err, ErrCloseFault)
	assert.ErrorIs(t, err, unix.EIO)
	assert.ErrorIs(t, p.Close(), ErrPortClosed)
	assert.Equal(t, 1, dev.closed)
}

func TestBaudRate_UnknownEncoding(t *testing.T) {
	p, dev, _ := newFakePort()
	dev.speed = unix.B460800

	rate, err := p.BaudRate()
	assert.Equal(t, -1, rate)
	assert.ErrorIs(t, err, ErrUnsupportedBaudRate)

	dev.speedErr = unix.ENOTTY
	_, err = p.BaudRate()
	assert.ErrorIs(t, err, ErrConfig)
}

func TestPortsAreIndependent(t *testing.T) {
	a, masterA := openPTY(t)
	b, masterB := openPTY(t)

	_, err := masterA.Write([]byte("A"))
	require.NoError(t, err)
	_, err = masterB.Write([]byte("B"))
	require.NoError(t, err)

	buf := make([]byte, 1)
	_, err = a.Read(buf, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "A", string(buf))

	_, err = b.Read(buf, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "B", string(buf))
}
