package evdev

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocWrite = 1
	iocRead  = 2

	iocReadE  = iocRead<<iocDirShift | 'E'<<iocTypeShift
	iocWriteE = iocWrite<<iocDirShift | 'E'<<iocTypeShift
)

const (
	eviocgversion = iocReadE | 0x01<<iocNRShift | unsafe.Sizeof(int32(0))<<iocSizeShift
	eviocgid      = iocReadE | 0x02<<iocNRShift | unsafe.Sizeof(InputID{})<<iocSizeShift
	eviocgrep     = iocReadE | 0x03<<iocNRShift | unsafe.Sizeof(Repeat{})<<iocSizeShift
	eviocsrep     = iocWriteE | 0x03<<iocNRShift | unsafe.Sizeof(Repeat{})<<iocSizeShift
	eviocsff      = iocWriteE | 0x80<<iocNRShift | unsafe.Sizeof(ffEffect{})<<iocSizeShift
	eviocrmff     = iocWriteE | 0x81<<iocNRShift | unsafe.Sizeof(int32(0))<<iocSizeShift
	eviocgeffects = iocReadE | 0x84<<iocNRShift | unsafe.Sizeof(int32(0))<<iocSizeShift
	eviocgrab     = iocWriteE | 0x90<<iocNRShift | unsafe.Sizeof(int32(0))<<iocSizeShift
)

func eviocgname(size uintptr) uintptr { return iocReadE | 0x06<<iocNRShift | size<<iocSizeShift }
func eviocgphys(size uintptr) uintptr { return iocReadE | 0x07<<iocNRShift | size<<iocSizeShift }
func eviocguniq(size uintptr) uintptr { return iocReadE | 0x08<<iocNRShift | size<<iocSizeShift }
func eviocgled(size uintptr) uintptr  { return iocReadE | 0x19<<iocNRShift | size<<iocSizeShift }
func eviocgsnd(size uintptr) uintptr  { return iocReadE | 0x1a<<iocNRShift | size<<iocSizeShift }
func eviocgsw(size uintptr) uintptr   { return iocReadE | 0x1b<<iocNRShift | size<<iocSizeShift }

func eviocgbit(t, size uintptr) uintptr {
	return iocReadE | (0x20+t)<<iocNRShift | size<<iocSizeShift
}

func eviocgabs(code uintptr) uintptr {
	return iocReadE | (0x40+code)<<iocNRShift | unsafe.Sizeof(AbsInfo{})<<iocSizeShift
}

// sysIoctl issues the raw ioctl syscall. Tests swap it out to script kernel
// behavior; see mock_test.go.
var sysIoctl = func(fd, req, arg uintptr) unix.Errno {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, arg)
	return errno
}

// dispatchIoctl forwards a pointer-argument request to the sysIoctl hook.
// The pragma pins the pointed-to data on the heap and keeps it alive for the
// duration of the call, which a test stub installed in sysIoctl relies on
// when it dereferences arg; a plain Go call offers no such guarantee on its
// own.
//
//go:uintptrescapes
func dispatchIoctl(fd, req, arg uintptr) unix.Errno {
	return sysIoctl(fd, req, arg)
}

// ioctl issues a request whose argument is a pointer to data.
func ioctl[T any](fd, req uintptr, data *T) error {
	return fromErrno(dispatchIoctl(fd, req, uintptr(unsafe.Pointer(data))))
}

// ioctlArg issues a request whose argument is a plain value, not a pointer.
func ioctlArg(fd, req, arg uintptr) error {
	return fromErrno(sysIoctl(fd, req, arg))
}

func fromErrno(errno unix.Errno) error {
	if errno == 0 {
		return nil
	}
	return errno
}
