package serial

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// Port is an open, configured serial device
type Port interface {
	// Read accumulates up to len(buf) bytes. A zero timeout polls once and
	// returns whatever was available, possibly nothing. A positive timeout
	// keeps polling until buf is full or the timeout elapses, in which case
	// the partial count is returned together with an error matching
	// ErrTimeout.
	Read(buf []byte, timeout time.Duration) (int, error)

	// ReadContext is Read with the deadline and cancellation taken from ctx.
	// Without a deadline it polls until buf is full or ctx is cancelled.
	ReadContext(ctx context.Context, buf []byte) (int, error)

	Write(data []byte) (int, error)
	WriteBytes(data []byte) error
	WriteByte(b byte) error

	// FlushInput discards data received but not yet read
	FlushInput() error
	// FlushOutput discards data written but not yet transmitted
	FlushOutput() error
	// Drain blocks until everything written has been transmitted
	Drain() error

	// BaudRate reads the configured rate back from the device
	BaudRate() (int, error)

	Path() string
	Close() error
}

// device is the OS byte stream beneath a port. Read must not block when no
// data is available.
type device interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	Speed() (uint32, error)
	Flush(queue int) error
	Drain() error
}

// clock supplies monotonic timestamps and the inter-poll sleep
type clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// port is the concrete implementation of the Port interface
type port struct {
	mu     sync.RWMutex
	rmu    sync.Mutex // one Read at a time
	wmu    sync.Mutex // one Write at a time
	dev    device
	path   string
	config Config
	clock  clock
	log    *log.Logger
	closed bool
}

// Ensure port implements Port interface at compile time
var _ Port = (*port)(nil)

func newPort(dev device, path string, config Config, c clock) *port {
	return &port{
		dev:    dev,
		path:   path,
		config: config,
		clock:  c,
		log:    config.Logger.With("port", path),
	}
}

func (p *port) Path() string {
	return p.path
}

// Close closes the device. Failures are reported, never retried; the port is
// unusable afterwards either way.
func (p *port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPortClosed
	}
	p.closed = true

	if err := p.dev.Close(); err != nil {
		p.log.Warn("close failed", "err", err)
		return opError("close", p.path, ErrCloseFault, err)
	}
	p.log.Debug("closed")
	return nil
}

func (p *port) BaudRate() (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return -1, ErrPortClosed
	}

	speed, err := p.dev.Speed()
	if err != nil {
		return -1, opError("baud", p.path, ErrConfig, err)
	}
	rate, err := BaudForSpeed(speed)
	if err != nil {
		return -1, opError("baud", p.path, err, nil)
	}
	return rate, nil
}

func (p *port) FlushInput() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}

	p.rmu.Lock()
	defer p.rmu.Unlock()

	if err := p.dev.Flush(unix.TCIFLUSH); err != nil {
		return opError("flush", p.path, ErrFlushFault, err)
	}
	return nil
}

func (p *port) FlushOutput() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}

	p.wmu.Lock()
	defer p.wmu.Unlock()

	if err := p.dev.Flush(unix.TCOFLUSH); err != nil {
		return opError("flush", p.path, ErrFlushFault, err)
	}
	return nil
}

func (p *port) Drain() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}

	p.wmu.Lock()
	defer p.wmu.Unlock()

	if err := p.dev.Drain(); err != nil {
		return opError("drain", p.path, ErrFlushFault, err)
	}
	return nil
}
