package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestWriteBytes(t *testing.T) {
	p, dev, _ := newFakePort()

	require.NoError(t, p.WriteBytes([]byte("AT\r\n")))
	assert.Equal(t, "AT\r\n", dev.written.String())
}

func TestWriteBytes_ShortWritesContinue(t *testing.T) {
	p, dev, _ := newFakePort()
	dev.writeChunk = 3

	data := []byte("0123456789")
	require.NoError(t, p.WriteBytes(data))
	assert.Equal(t, data, dev.written.Bytes())
	assert.Equal(t, 4, dev.writeCalls)
}

func TestWriteBytes_FaultAborts(t *testing.T) {
	p, dev, _ := newFakePort()
	dev.writeChunk = 1
	dev.failAfter = 3

	err := p.WriteBytes([]byte("abcdef"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWriteFault)
	assert.ErrorIs(t, err, unix.EIO)
	assert.Equal(t, 4, dev.writeCalls, "no retry after the first fault")
}

func TestWrite_ReportsAcceptedBytes(t *testing.T) {
	p, dev, _ := newFakePort()
	dev.failAfter = 5

	n, err := p.Write([]byte("0123456789"))
	assert.ErrorIs(t, err, ErrWriteFault)
	assert.Equal(t, 5, n)
}

func TestWriteByte(t *testing.T) {
	p, dev, _ := newFakePort()

	for _, b := range []byte("OK") {
		require.NoError(t, p.WriteByte(b))
	}
	assert.Equal(t, "OK", dev.written.String())
	assert.Equal(t, 2, dev.writeCalls)

	dev.failAfter = 2
	assert.ErrorIs(t, p.WriteByte('!'), ErrWriteFault)
}

func TestWrite_Empty(t *testing.T) {
	p, dev, _ := newFakePort()

	require.NoError(t, p.WriteBytes(nil))
	assert.Equal(t, 0, dev.writeCalls)
}

func TestWrite_AfterClose(t *testing.T) {
	p, dev, _ := newFakePort()
	require.NoError(t, p.Close())

	assert.ErrorIs(t, p.WriteBytes([]byte("x")), ErrPortClosed)
	assert.ErrorIs(t, p.WriteByte('x'), ErrPortClosed)
	assert.Equal(t, 0, dev.writeCalls)
}
