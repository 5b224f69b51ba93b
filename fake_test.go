package serial

import (
	"bytes"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// fakeClock only advances when the port sleeps
type fakeClock struct {
	now    time.Time
	sleeps int
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps++
	c.now = c.now.Add(d)
}

// burst is data that arrives on the line at an offset from the start
type burst struct {
	at   time.Duration
	data []byte
}

// fakeDevice replays bursts against a fakeClock
type fakeDevice struct {
	clock   *fakeClock
	start   time.Time
	bursts  []burst
	pending []byte
	polls   int

	readErrs   []error // consumed one per poll; nil entries mean a normal read
	overReport int

	written    bytes.Buffer
	writeChunk int // max bytes accepted per call, 0 for no limit
	failAfter  int // fail writes once this many bytes are accepted, -1 never
	writeCalls int

	flushes  []int
	drains   int
	flushErr error

	speed    uint32
	speedErr error
	closeErr error
	closed   int
}

func newFakeDevice(c *fakeClock, bursts ...burst) *fakeDevice {
	return &fakeDevice{
		clock:     c,
		start:     c.now,
		bursts:    bursts,
		failAfter: -1,
		speed:     unix.B9600,
	}
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	d.polls++
	if len(d.readErrs) > 0 {
		err := d.readErrs[0]
		d.readErrs = d.readErrs[1:]
		if err != nil {
			return -1, err
		}
	}

	d.arrive()

	n := copy(p, d.pending)
	d.pending = d.pending[n:]
	if d.overReport > 0 {
		return len(p) + d.overReport, nil
	}
	return n, nil
}

// arrive moves bursts that are due by now into pending
func (d *fakeDevice) arrive() {
	elapsed := d.clock.now.Sub(d.start)
	for len(d.bursts) > 0 && d.bursts[0].at <= elapsed {
		d.pending = append(d.pending, d.bursts[0].data...)
		d.bursts = d.bursts[1:]
	}
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	d.writeCalls++
	if d.failAfter >= 0 && d.written.Len() >= d.failAfter {
		return -1, unix.EIO
	}
	n := len(p)
	if d.writeChunk > 0 && n > d.writeChunk {
		n = d.writeChunk
	}
	if d.failAfter >= 0 && d.written.Len()+n > d.failAfter {
		n = d.failAfter - d.written.Len()
	}
	d.written.Write(p[:n])
	return n, nil
}

func (d *fakeDevice) Close() error {
	d.closed++
	return d.closeErr
}

func (d *fakeDevice) Flush(queue int) error {
	if d.flushErr != nil {
		return d.flushErr
	}
	d.flushes = append(d.flushes, queue)
	if queue == unix.TCIFLUSH {
		d.arrive()
		d.pending = nil
	}
	return nil
}

func (d *fakeDevice) Drain() error {
	d.drains++
	return d.flushErr
}

func (d *fakeDevice) Speed() (uint32, error) {
	return d.speed, d.speedErr
}

func newFakePort(bursts ...burst) (*port, *fakeDevice, *fakeClock) {
	c := &fakeClock{now: time.Now()}
	dev := newFakeDevice(c, bursts...)
	config := DefaultConfig()
	config.Logger = log.New(io.Discard)
	return newPort(dev, "/dev/ttyFAKE0", config, c), dev, c
}

func repeat(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}
