package serial

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

func (p *port) Read(buf []byte, timeout time.Duration) (int, error) {
	if timeout < 0 {
		return 0, opError("read", p.path, ErrInvalidConfig, nil)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	p.rmu.Lock()
	defer p.rmu.Unlock()

	if len(buf) == 0 {
		return 0, nil
	}

	start := p.clock.Now()
	n, polls := 0, 0
	for {
		got, err := p.poll(buf[n:])
		polls++
		n += got
		if err != nil {
			return n, err
		}
		if timeout == 0 {
			return n, nil
		}
		if got == 0 {
			p.clock.Sleep(p.config.PollInterval)
		}
		if n == len(buf) {
			return n, nil
		}
		// elapsed is re-sampled every pass rather than accumulated
		if elapsed := p.clock.Now().Sub(start); elapsed >= timeout {
			p.log.Debug("read timed out", "want", len(buf), "got", n, "polls", polls, "elapsed", elapsed)
			return n, opError("read", p.path, ErrTimeout, nil)
		}
	}
}

func (p *port) ReadContext(ctx context.Context, buf []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	// Check if context is already cancelled
	if err := ctx.Err(); err != nil {
		return 0, p.contextError(err)
	}

	p.rmu.Lock()
	defer p.rmu.Unlock()

	if len(buf) == 0 {
		return 0, nil
	}

	deadline, hasDeadline := ctx.Deadline()
	n := 0
	for {
		got, err := p.poll(buf[n:])
		n += got
		if err != nil {
			return n, err
		}
		if n == len(buf) {
			return n, nil
		}
		if got == 0 {
			p.clock.Sleep(p.config.PollInterval)
		}
		if err := ctx.Err(); err != nil {
			return n, p.contextError(err)
		}
		if hasDeadline && !p.clock.Now().Before(deadline) {
			return n, p.contextError(context.DeadlineExceeded)
		}
	}
}

// poll performs one non-blocking read into buf. Would-block and interrupted
// reads count as zero bytes so the caller's deadline decides when to stop.
func (p *port) poll(buf []byte) (int, error) {
	n, err := p.dev.Read(buf)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		p.log.Debug("read failed", "err", err)
		return 0, opError("read", p.path, ErrReadFault, err)
	}
	if n > len(buf) {
		p.log.Error("device reported more bytes than requested", "requested", len(buf), "reported", n)
		return 0, opError("read", p.path, ErrOverflow, nil)
	}
	if n < 0 {
		return 0, opError("read", p.path, ErrReadFault, nil)
	}
	return n, nil
}

func (p *port) contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return opError("read", p.path, ErrTimeout, err)
	}
	return opError("read", p.path, err, nil)
}
