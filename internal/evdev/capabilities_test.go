package evdev

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"
)

var (
	reqTypeBits = eviocgbit(0, uintptr(bitmaskSize(EvMax)))
	reqKeyBits  = eviocgbit(uintptr(EvKey), uintptr(bitmaskSize(KeyMax)))
	reqAbsBits  = eviocgbit(uintptr(EvAbs), uintptr(bitmaskSize(AbsMax)))
)

func TestCapabilities(t *testing.T) {
	xInfo := AbsInfo{Value: 128, Minimum: 0, Maximum: 255, Fuzz: 4, Flat: 8, Resolution: 12}
	yInfo := AbsInfo{Value: -3, Minimum: -127, Maximum: 127}

	stubIoctl(t, map[uintptr]func(uintptr) unix.Errno{
		reqTypeBits: func(arg uintptr) unix.Errno {
			fill(arg, bitmask(bitmaskSize(EvMax), int(EvKey), int(EvAbs)))
			return 0
		},
		reqKeyBits: func(arg uintptr) unix.Errno {
			fill(arg, bitmask(bitmaskSize(KeyMax), 30, 48, 272))
			return 0
		},
		reqAbsBits: func(arg uintptr) unix.Errno {
			fill(arg, bitmask(bitmaskSize(AbsMax), 0, 1))
			return 0
		},
		eviocgabs(0): func(arg uintptr) unix.Errno {
			fillStruct(arg, xInfo)
			return 0
		},
		eviocgabs(1): func(arg uintptr) unix.Errno {
			fillStruct(arg, yInfo)
			return 0
		},
	})

	d, _ := testDevice()
	caps, err := d.Capabilities(AbsZero)
	if err != nil {
		t.Fatalf("Capabilities: %v", err)
	}

	if len(caps) != 2 {
		t.Fatalf("capability map has %v types, want 2: %+v", len(caps), caps)
	}

	keys := caps[EvKey]
	wantKeys := []uint16{30, 48, 272}
	if len(keys) != len(wantKeys) {
		t.Fatalf("EvKey entries = %+v, want codes %v", keys, wantKeys)
	}
	for i, want := range wantKeys {
		if keys[i].Code != want {
			t.Errorf("EvKey entry %v has code %v, want %v", i, keys[i].Code, want)
		}
		if keys[i].Abs != nil {
			t.Errorf("EvKey entry %v carries axis info", i)
		}
	}

	axes := caps[EvAbs]
	if len(axes) != 2 {
		t.Fatalf("EvAbs entries = %+v, want 2", axes)
	}
	if axes[0].Code != 0 || axes[0].Abs == nil || *axes[0].Abs != xInfo {
		t.Errorf("axis 0 = %+v, want info %+v", axes[0], xInfo)
	}
	if axes[1].Code != 1 || axes[1].Abs == nil || *axes[1].Abs != yInfo {
		t.Errorf("axis 1 = %+v, want info %+v", axes[1], yInfo)
	}
}

func TestCapabilitiesTypeQueryFails(t *testing.T) {
	stubIoctl(t, map[uintptr]func(uintptr) unix.Errno{
		reqTypeBits: func(uintptr) unix.Errno { return unix.ENODEV },
	})

	d, _ := testDevice()
	if _, err := d.Capabilities(AbsZero); !errors.Is(err, unix.ENODEV) {
		t.Fatalf("Capabilities error = %v, want ENODEV", err)
	}
}

func TestCapabilitiesAbsError(t *testing.T) {
	handlers := map[uintptr]func(uintptr) unix.Errno{
		reqTypeBits: func(arg uintptr) unix.Errno {
			fill(arg, bitmask(bitmaskSize(EvMax), int(EvAbs)))
			return 0
		},
		reqAbsBits: func(arg uintptr) unix.Errno {
			fill(arg, bitmask(bitmaskSize(AbsMax), 0, 1))
			return 0
		},
		eviocgabs(0): func(arg uintptr) unix.Errno {
			fillStruct(arg, AbsInfo{Maximum: 255})
			return 0
		},
		eviocgabs(1): func(uintptr) unix.Errno { return unix.EIO },
	}

	t.Run("zero", func(t *testing.T) {
		stubIoctl(t, handlers)
		d, _ := testDevice()
		caps, err := d.Capabilities(AbsZero)
		if err != nil {
			t.Fatalf("Capabilities: %v", err)
		}
		axes := caps[EvAbs]
		if len(axes) != 2 {
			t.Fatalf("EvAbs entries = %+v, want 2", axes)
		}
		if axes[1].Code != 1 || axes[1].Abs == nil || *axes[1].Abs != (AbsInfo{}) {
			t.Errorf("failed axis = %+v, want zeroed info", axes[1])
		}
	})

	t.Run("skip", func(t *testing.T) {
		stubIoctl(t, handlers)
		d, _ := testDevice()
		caps, err := d.Capabilities(AbsSkip)
		if err != nil {
			t.Fatalf("Capabilities: %v", err)
		}
		axes := caps[EvAbs]
		if len(axes) != 1 || axes[0].Code != 0 {
			t.Errorf("EvAbs entries = %+v, want only axis 0", axes)
		}
	})

	t.Run("fail", func(t *testing.T) {
		stubIoctl(t, handlers)
		d, _ := testDevice()
		if _, err := d.Capabilities(AbsFail); !errors.Is(err, unix.EIO) {
			t.Fatalf("Capabilities error = %v, want EIO", err)
		}
	})
}

func TestCapabilitiesCodeQueryFails(t *testing.T) {
	stubIoctl(t, map[uintptr]func(uintptr) unix.Errno{
		reqTypeBits: func(arg uintptr) unix.Errno {
			fill(arg, bitmask(bitmaskSize(EvMax), int(EvKey), int(EvSw)))
			return 0
		},
		reqKeyBits: func(uintptr) unix.Errno { return unix.EIO },
		eviocgbit(uintptr(EvSw), uintptr(bitmaskSize(SwMax))): func(arg uintptr) unix.Errno {
			fill(arg, bitmask(bitmaskSize(SwMax), 0))
			return 0
		},
	})

	d, _ := testDevice()
	caps, err := d.Capabilities(AbsZero)
	if err != nil {
		t.Fatalf("Capabilities: %v", err)
	}
	if _, ok := caps[EvKey]; ok {
		t.Error("type with failed code query stayed in the map")
	}
	if got := caps[EvSw]; len(got) != 1 || got[0].Code != 0 {
		t.Errorf("EvSw entries = %+v, want code 0", got)
	}
}
