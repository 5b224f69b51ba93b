// Package serial provides polled, byte-oriented access to serial devices on
// Linux, aimed at talking to embedded boards over RS-232 and USB-serial links.
//
// A port is opened in raw 8N1 mode with no flow control. Reads never block in
// the kernel: the timed reader polls the device, sleeping briefly between
// empty polls, until the buffer is full or the timeout elapses.
//
// # Basic Usage
//
//	port, err := serial.Open("/dev/ttyUSB0", serial.WithBaudRate(9600))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	if err := port.WriteBytes([]byte("AT\r\n")); err != nil {
//	    log.Fatal(err)
//	}
//
//	buf := make([]byte, 4)
//	n, err := port.Read(buf, time.Second)
//
// # Timeouts
//
// A zero timeout polls exactly once and returns whatever was available,
// which may be nothing:
//
//	n, err := port.Read(buf, 0) // n may be 0, err is nil
//
// A positive timeout accumulates across many polls. When it expires the
// bytes received so far are returned together with an error matching
// ErrTimeout:
//
//	n, err := port.Read(buf, 50*time.Millisecond)
//	if errors.Is(err, serial.ErrTimeout) {
//	    partial := buf[:n]
//	}
//
// ReadContext takes its deadline and cancellation from a context instead.
//
// # Configuration Options
//
//	port, err := serial.Open("/dev/ttyACM0",
//	    serial.WithBaudRate(115200),
//	    serial.WithPollInterval(5*time.Millisecond),
//	    serial.WithLogger(logger),
//	)
//
// Supported rates are 0, 50, 110, 134, 150, 200, 300, 600, 1200, 1800, 2400,
// 4800, 9600, 19200, 38400, 57600, 115200 and 230400. Other rates fail with
// ErrUnsupportedBaudRate unless WithBaudFallback is given, in which case the
// line is configured at 0 baud (hang-up).
//
// # Error Handling
//
// Failures are returned as *OpError values naming the operation, the device
// path and the OS error. Use errors.Is with the sentinel errors:
//
//	if errors.Is(err, serial.ErrDeviceNotFound) {
//	    // retry later
//	}
//
// StatusCode converts a Read result into the integer convention used by
// older tooling: the byte count, ResultError (-1) or ResultTimeout (-2).
package serial
