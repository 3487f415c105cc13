package evdev

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"syscall"
)

// maxNameSize bounds the name, physical path, and unique identifier strings
// the kernel reports.
const maxNameSize = 256

// ErrBadCategory reports a State call for an event type that has no stateful
// bitmask to enumerate.
var ErrBadCategory = errors.New("evdev: not an enumerable state category")

// File is the slice of a device descriptor that Device needs: plain reads
// and writes for events, and raw descriptor access for ioctls. *os.File
// satisfies it.
type File interface {
	io.ReadWriter
	SyscallConn() (syscall.RawConn, error)
}

// Device performs capability queries, control requests, and event reads on an
// evdev device node. It operates on a descriptor the caller opened and still
// owns. Device holds no state of its own beyond the descriptor; the kernel is
// the source of truth for everything it reports.
type Device struct {
	f File
}

func NewDevice(f File) *Device {
	return &Device{f: f}
}

// ctl runs f with the raw descriptor pinned.
func (d *Device) ctl(f func(fd uintptr) error) error {
	conn, err := d.f.SyscallConn()
	if err != nil {
		return err
	}

	var ferr error
	err = conn.Control(func(fd uintptr) { ferr = f(fd) })
	return errors.Join(err, ferr)
}

// InputID identifies a device by bus type and vendor/product/version codes.
type InputID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// Identity describes a device. Phys and Uniq are empty for devices that do
// not expose a physical topology or a unique identifier.
type Identity struct {
	InputID

	Name string
	Phys string
	Uniq string
}

// Identity fetches the device's identity. The id and name queries are
// required; the physical path and unique identifier are optional and fall
// back to empty strings.
func (d *Device) Identity() (Identity, error) {
	var id Identity
	err := d.ctl(func(fd uintptr) error {
		if err := ioctl(fd, eviocgid, &id.InputID); err != nil {
			return fmt.Errorf("get device id: %w", err)
		}

		var name [maxNameSize]byte
		if err := ioctl(fd, eviocgname(uintptr(len(name))), &name[0]); err != nil {
			return fmt.Errorf("get device name: %w", err)
		}
		id.Name = nulString(name[:])

		var phys [maxNameSize]byte
		if err := ioctl(fd, eviocgphys(uintptr(len(phys))), &phys[0]); err == nil {
			id.Phys = nulString(phys[:])
		}

		var uniq [maxNameSize]byte
		if err := ioctl(fd, eviocguniq(uintptr(len(uniq))), &uniq[0]); err == nil {
			id.Uniq = nulString(uniq[:])
		}

		return nil
	})
	if err != nil {
		return Identity{}, err
	}
	return id, nil
}

// Repeat is the kernel autorepeat timing: the delay before the first repeat
// and the period between repeats, both in milliseconds.
type Repeat struct {
	Delay  uint32
	Period uint32
}

// Repeat returns the device's autorepeat timing. Devices without repeat
// support report zeros.
func (d *Device) Repeat() (Repeat, error) {
	var rep Repeat
	err := d.ctl(func(fd uintptr) error {
		// The ioctl fails on devices without EV_REP; zeros are the
		// answer in that case.
		_ = ioctl(fd, eviocgrep, &rep)
		return nil
	})
	return rep, err
}

// SetRepeat sets the device's autorepeat timing.
func (d *Device) SetRepeat(rep Repeat) error {
	return d.ctl(func(fd uintptr) error {
		if err := ioctl(fd, eviocsrep, &rep); err != nil {
			return fmt.Errorf("set autorepeat: %w", err)
		}
		return nil
	})
}

// Version returns the evdev protocol version.
func (d *Device) Version() (int32, error) {
	var v int32
	err := d.ctl(func(fd uintptr) error {
		if err := ioctl(fd, eviocgversion, &v); err != nil {
			return fmt.Errorf("get protocol version: %w", err)
		}
		return nil
	})
	return v, err
}

// Grab requests exclusive access to the device. While held, no other client
// receives its events. The kernel refuses with EBUSY if someone else already
// holds the grab.
func (d *Device) Grab() error {
	return d.ctl(func(fd uintptr) error {
		if err := ioctlArg(fd, eviocgrab, 1); err != nil {
			return fmt.Errorf("grab: %w", err)
		}
		return nil
	})
}

// Release gives up a grab obtained with Grab.
func (d *Device) Release() error {
	return d.ctl(func(fd uintptr) error {
		if err := ioctlArg(fd, eviocgrab, 0); err != nil {
			return fmt.Errorf("release grab: %w", err)
		}
		return nil
	})
}

// State enumerates the active members of a stateful category: lit LEDs for
// EvLed, closed switches for EvSw, playing sounds for EvSnd. The result is
// the ascending list of active code values. Any other type is a usage error,
// rejected before a syscall is issued.
func (d *Device) State(t uint16) ([]int, error) {
	var req func(uintptr) uintptr
	switch t {
	case EvLed:
		req = eviocgled
	case EvSw:
		req = eviocgsw
	case EvSnd:
		req = eviocgsnd
	default:
		return nil, fmt.Errorf("%w: %#x", ErrBadCategory, t)
	}

	max, _ := typeMax(t)
	buf := make([]byte, bitmaskSize(max))
	err := d.ctl(func(fd uintptr) error {
		if err := ioctl(fd, req(uintptr(len(buf))), &buf[0]); err != nil {
			return fmt.Errorf("get state bits: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return setBits(buf, max), nil
}

func nulString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
