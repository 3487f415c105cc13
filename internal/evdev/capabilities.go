package evdev

import "fmt"

// AbsInfo describes one absolute axis: its live value and the calibration
// range the kernel reports for it.
type AbsInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// Capability is one event code a device can report. Abs is set only on
// entries under EvAbs.
type Capability struct {
	Code uint16
	Abs  *AbsInfo
}

// CapabilityMap maps an event type to its supported codes, ascending by code
// value.
type CapabilityMap map[uint16][]Capability

// AbsError selects what Capabilities does when an axis info query fails
// mid-walk.
type AbsError int

const (
	// AbsZero keeps the axis and attaches zeroed info.
	AbsZero AbsError = iota
	// AbsSkip drops the axis from the map.
	AbsSkip
	// AbsFail aborts the enumeration.
	AbsFail
)

// Capabilities walks the device's two-level capability bitmasks and returns
// the supported codes per event type, with axis metadata attached to EvAbs
// entries. The map is rebuilt from the kernel on every call; nothing is
// cached.
//
// Only a failed type-level query aborts the walk on its own. A per-type code
// query that fails drops that type from the map, and a failed axis info
// query is handled per onAbsError.
func (d *Device) Capabilities(onAbsError AbsError) (CapabilityMap, error) {
	caps := make(CapabilityMap)
	err := d.ctl(func(fd uintptr) error {
		evBits := make([]byte, bitmaskSize(EvMax))
		if err := ioctl(fd, eviocgbit(0, uintptr(len(evBits))), &evBits[0]); err != nil {
			return fmt.Errorf("get event types: %w", err)
		}

		for _, ti := range setBits(evBits, EvMax) {
			t := uint16(ti)

			max, ok := typeMax(t)
			if !ok {
				max = KeyMax
			}
			if t == EvSyn {
				// EVIOCGBIT with type 0 reports the type
				// bitmask again, so the codes under EvSyn are
				// the supported types themselves.
				max = EvMax
			}

			codeBits := make([]byte, bitmaskSize(max))
			if err := ioctl(fd, eviocgbit(uintptr(t), uintptr(len(codeBits))), &codeBits[0]); err != nil {
				continue
			}

			var entries []Capability
			for _, c := range setBits(codeBits, max) {
				entry := Capability{Code: uint16(c)}
				if t == EvAbs {
					var info AbsInfo
					if err := ioctl(fd, eviocgabs(uintptr(c)), &info); err != nil {
						switch onAbsError {
						case AbsSkip:
							continue
						case AbsFail:
							return fmt.Errorf("get axis %#x info: %w", c, err)
						}
						info = AbsInfo{}
					}
					entry.Abs = &info
				}
				entries = append(entries, entry)
			}
			caps[t] = entries
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return caps, nil
}
