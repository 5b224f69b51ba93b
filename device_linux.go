package serial

import (
	"errors"

	"golang.org/x/sys/unix"
)

// ttyDevice is a raw file descriptor on a configured terminal
type ttyDevice struct {
	fd int
}

func (d *ttyDevice) Read(p []byte) (int, error)  { return unix.Read(d.fd, p) }
func (d *ttyDevice) Write(p []byte) (int, error) { return unix.Write(d.fd, p) }
func (d *ttyDevice) Close() error                { return unix.Close(d.fd) }
func (d *ttyDevice) Speed() (uint32, error)      { return ttySpeed(d.fd) }

// Flush discards the TCIFLUSH or TCOFLUSH queue
func (d *ttyDevice) Flush(queue int) error {
	return unix.IoctlSetInt(d.fd, unix.TCFLSH, queue)
}

// Drain is tcdrain: TCSBRK with a nonzero argument sends no break
func (d *ttyDevice) Drain() error {
	return unix.IoctlSetInt(d.fd, unix.TCSBRK, 1)
}

// Open opens device read/write without making it the controlling terminal,
// and configures it for raw 8N1 at the configured baud rate with no flow
// control.
func Open(device string, opts ...Option) (Port, error) {
	config, err := DefaultConfig().apply(opts)
	if err != nil {
		return nil, err
	}

	speed, err := SpeedForBaud(config.BaudRate)
	if err != nil {
		if !config.BaudFallback {
			return nil, opError("configure", device, ErrUnsupportedBaudRate, nil)
		}
		config.Logger.Warn("unsupported baud rate, falling back to 0 baud", "port", device, "baud", config.BaudRate)
	}

	// O_NONBLOCK keeps open from waiting on carrier detect
	fd, err := unix.Open(device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, openError(device, err)
	}

	if err := unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, opError("configure", device, ErrConfig, err)
	}

	if err := configureTTY(fd, speed); err != nil {
		unix.Close(fd)
		return nil, opError("configure", device, ErrConfig, err)
	}

	config.Logger.Debug("opened", "port", device, "baud", config.BaudRate, "poll", config.PollInterval)

	return newPort(&ttyDevice{fd: fd}, device, config, systemClock{}), nil
}

// openError classifies errno from open(2)
func openError(device string, err error) error {
	kind := ErrOpen
	var errno unix.Errno
	if errors.As(err, &errno) {
		switch errno {
		case unix.ENOENT, unix.ENXIO, unix.ENODEV:
			kind = ErrDeviceNotFound
		case unix.EACCES, unix.EPERM:
			kind = ErrPermissionDenied
		case unix.EBUSY:
			kind = ErrDeviceInUse
		}
	}
	return opError("open", device, kind, err)
}
