package serial

import "errors"

// Predefined error types for robust error handling
var (
	ErrOpen             = errors.New("unable to open serial device")
	ErrDeviceNotFound   = errors.New("serial device not found")
	ErrPermissionDenied = errors.New("permission denied accessing serial device")
	ErrDeviceInUse      = errors.New("serial device already in use")
	ErrConfig           = errors.New("unable to configure serial device")
	ErrInvalidConfig    = errors.New("invalid serial configuration")
	ErrPortClosed       = errors.New("serial port is closed")

	// ErrUnsupportedBaudRate is returned for rates outside the fixed
	// translation table, both when configuring and when reading back.
	ErrUnsupportedBaudRate = errors.New("unsupported baud rate")

	// I/O errors
	ErrReadFault  = errors.New("serial read failed")
	ErrOverflow   = errors.New("serial read reported more bytes than requested")
	ErrTimeout    = errors.New("serial read timed out")
	ErrWriteFault = errors.New("serial write failed")
	ErrCloseFault = errors.New("serial close failed")
	ErrFlushFault = errors.New("serial flush failed")
)

// OpError describes a failed port operation. Kind is one of the sentinel
// errors above and Err, when set, is the underlying OS error.
type OpError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	s := e.Op
	if e.Path != "" {
		s += " " + e.Path
	}
	s += ": " + e.Kind.Error()
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap lets errors.Is match both the kind and the OS error.
func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Is reports every open failure as ErrOpen, whatever its finer kind.
func (e *OpError) Is(target error) bool {
	return target == ErrOpen && e.Op == "open"
}

func opError(op, path string, kind, err error) error {
	return &OpError{Op: op, Path: path, Kind: kind, Err: err}
}

// Legacy result codes for callers that speak the integer contract.
const (
	ResultError   = -1
	ResultTimeout = -2
)

// StatusCode folds the result of a Read into the integer contract: the byte
// count on success, ResultTimeout when the deadline expired and ResultError
// for every other failure.
func StatusCode(n int, err error) int {
	switch {
	case err == nil:
		return n
	case errors.Is(err, ErrTimeout):
		return ResultTimeout
	default:
		return ResultError
	}
}
