package models

import (
	"context"
	"errors"
	"time"

	"github.com/embedcreativity/go-ecserial"
	"github.com/embedcreativity/go-ecserial/internal/tui/components"
)

// ReadLoop polls port until ctx is done and hands every non-empty chunk to
// deliver. Each Read waits at most window, so nothing sits in the buffer
// longer than that. A timed-out Read is how a quiet line looks and is not
// an error.
func ReadLoop(ctx context.Context, port serial.Port, bufSize int, window time.Duration, deliver func(components.DataReceivedMsg)) error {
	buf := make([]byte, bufSize)
	for ctx.Err() == nil {
		n, err := port.Read(buf, window)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			deliver(components.DataReceivedMsg{Timestamp: time.Now(), Data: data})
		}
		if err == nil || errors.Is(err, serial.ErrTimeout) {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		return err
	}
	return nil
}
