package serial

import (
	"golang.org/x/sys/unix"
)

// makeRaw puts t into 8N1 raw mode at speed with polled reads:
// VMIN=0 and VTIME=0 make read return whatever is buffered, possibly nothing.
func makeRaw(t *unix.Termios, speed uint32) {
	t.Cflag &^= unix.CBAUD | unix.CIBAUD
	t.Cflag |= speed
	t.Ispeed = speed
	t.Ospeed = speed

	t.Cflag |= unix.CLOCAL | unix.CREAD
	t.Cflag &^= unix.PARENB | unix.CSTOPB | unix.CSIZE | unix.CRTSCTS
	t.Cflag |= unix.CS8

	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL |
		unix.IXON | unix.IXOFF | unix.IXANY
	t.Oflag = 0
	t.Lflag = 0

	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 0
}

// configureTTY applies raw mode at speed to fd immediately
func configureTTY(fd int, speed uint32) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}
	makeRaw(t, speed)
	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}

// ttySpeed reads the configured speed encoding back from fd
func ttySpeed(fd int) (uint32, error) {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return 0, err
	}
	return t.Cflag & unix.CBAUD, nil
}
