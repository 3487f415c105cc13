package evdev

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Event is one kernel input_event record: a timestamp split into native-word
// seconds and microseconds, and a (type, code, value) triple. The in-memory
// layout matches the kernel ABI bit for bit, so records decode with a
// straight cast.
type Event struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// eventSize is the wire size of one input_event on this platform.
const eventSize = int(unsafe.Sizeof(Event{}))

// eventBatch is the most records a single batch read returns.
const eventBatch = 64

// ErrShortRead reports a read that returned fewer bytes than one full event
// record, including zero bytes. Callers polling a non-blocking descriptor
// instead see the OS's EAGAIN passed through unchanged.
var ErrShortRead = errors.New("evdev: short event read")

// bytes exposes the event's wire representation. The slice aliases ev.
func (ev *Event) bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(ev)), eventSize)
}

// Is reports whether the event carries the given type and code.
func (ev *Event) Is(t, code uint16) bool {
	return ev.Type == t && ev.Code == code
}

// Timestamp returns the event time as wall-clock time.
func (ev *Event) Timestamp() time.Time {
	return time.Unix(int64(ev.Time.Sec), int64(ev.Time.Usec)*1000)
}

// ReadEvent reads exactly one event record with a single read. A read that
// returns less than a full record fails with ErrShortRead; an OS-level
// failure passes through with its error code intact.
func (d *Device) ReadEvent() (Event, error) {
	var ev Event
	n, err := d.f.Read(ev.bytes())
	if err != nil {
		return Event{}, fmt.Errorf("read event: %w", err)
	}
	if n < eventSize {
		return Event{}, fmt.Errorf("%w: %v bytes", ErrShortRead, n)
	}
	return ev, nil
}

// ReadEvents reads whatever the device has buffered, up to 64 records, with
// a single read. Only whole records are decoded; trailing partial bytes are
// dropped. The kernel delivers whole records, but the count is still derived
// by integer division. An empty result with a nil error means the read
// returned no data, which is not a fault.
func (d *Device) ReadEvents() ([]Event, error) {
	events := make([]Event, eventBatch)
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&events[0])), eventBatch*eventSize)

	n, err := d.f.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return events[:n/eventSize], nil
}

// writeEvent hands one event record to the device. Force-feedback playback
// and global FF controls go through here; this is a plain write, not an
// ioctl.
func (d *Device) writeEvent(ev Event) error {
	if _, err := d.f.Write(ev.bytes()); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
