package serial

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Config holds the configuration for a serial port
type Config struct {
	BaudRate int

	// PollInterval is how long Read sleeps after an empty poll while a
	// timeout is pending.
	PollInterval time.Duration

	// BaudFallback maps unsupported rates to 0 baud (hang-up) instead of
	// failing Open.
	BaudFallback bool

	Logger *log.Logger
}

// Option is a functional option for configuring a serial port
type Option func(*Config) error

// DefaultConfig returns 9600 8N1 with a 1ms poll interval and a discarding
// logger.
func DefaultConfig() Config {
	return Config{
		BaudRate:     9600,
		PollInterval: time.Millisecond,
		Logger:       log.New(io.Discard),
	}
}

// WithBaudRate sets the baud rate. The rate is validated against the
// supported table when the port is opened, so WithBaudFallback can still
// take effect regardless of option order.
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		c.BaudRate = rate
		return nil
	}
}

// WithPollInterval sets the sleep between empty polls of a timed read
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return ErrInvalidConfig
		}
		c.PollInterval = d
		return nil
	}
}

// WithBaudFallback silently configures 0 baud for unsupported rates
func WithBaudFallback() Option {
	return func(c *Config) error {
		c.BaudFallback = true
		return nil
	}
}

// WithLogger routes debug events from the port to l
func WithLogger(l *log.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return ErrInvalidConfig
		}
		c.Logger = l
		return nil
	}
}

func (c Config) apply(opts []Option) (Config, error) {
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return c, err
		}
	}
	return c, nil
}
