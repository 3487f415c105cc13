package evdev

import (
	"io"
	"slices"
	"syscall"
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"
)

// fakeConn satisfies syscall.RawConn with a fixed descriptor number.
type fakeConn struct{}

func (fakeConn) Control(f func(fd uintptr)) error { f(42); return nil }
func (fakeConn) Read(f func(fd uintptr) bool) error {
	panic("not used")
}
func (fakeConn) Write(f func(fd uintptr) bool) error {
	panic("not used")
}

// fakeFile scripts the read/write half of a device node. Each Read call
// consumes one entry of reads; an exhausted script reports EOF.
type fakeFile struct {
	reads    [][]byte
	readErr  error
	writes   [][]byte
	writeErr error
}

func (f *fakeFile) Read(p []byte) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if len(f.reads) == 0 {
		return 0, io.EOF
	}
	b := f.reads[0]
	f.reads = f.reads[1:]
	return copy(p, b), nil
}

func (f *fakeFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.writes = append(f.writes, slices.Clone(p))
	return len(p), nil
}

func (f *fakeFile) SyscallConn() (syscall.RawConn, error) {
	return fakeConn{}, nil
}

func testDevice(reads ...[]byte) (*Device, *fakeFile) {
	f := &fakeFile{reads: reads}
	return NewDevice(f), f
}

type callLog struct {
	reqs []uintptr
}

// stubIoctl routes the package ioctl hook to per-request handlers for the
// duration of a test. A request without a handler fails the test.
func stubIoctl(t *testing.T, handlers map[uintptr]func(arg uintptr) unix.Errno) *callLog {
	t.Helper()

	log := new(callLog)
	prev := sysIoctl
	sysIoctl = func(fd, req, arg uintptr) unix.Errno {
		log.reqs = append(log.reqs, req)
		h, ok := handlers[req]
		if !ok {
			t.Fatalf("unexpected ioctl request %#x", req)
		}
		return h(arg)
	}
	t.Cleanup(func() { sysIoctl = prev })
	return log
}

// fill copies src into the buffer an ioctl argument points at.
func fill(arg uintptr, src []byte) {
	dst := unsafe.Slice((*byte)(unsafe.Pointer(arg)), len(src))
	copy(dst, src)
}

// structBytes exposes the wire representation of v. The slice aliases v.
func structBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}

// fillStruct writes v into the buffer an ioctl argument points at.
func fillStruct[T any](arg uintptr, v T) {
	fill(arg, structBytes(&v))
}

// readStruct copies out the struct an ioctl argument points at.
func readStruct[T any](arg uintptr) T {
	return *(*T)(unsafe.Pointer(arg))
}

// bitmask builds a bitmask buffer of the given length with the listed bits
// set.
func bitmask(size int, bits ...int) []byte {
	buf := make([]byte, size)
	for _, b := range bits {
		buf[b/8] |= 1 << (b % 8)
	}
	return buf
}
