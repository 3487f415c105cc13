package evdev

import (
	"fmt"
	"unsafe"
)

// The ff* structs mirror the kernel's ff_effect and friends field for field.

type ffTrigger struct {
	Button   uint16
	Interval uint16
}

type ffReplay struct {
	Length uint16
	Delay  uint16
}

type ffEnvelope struct {
	AttackLength uint16
	AttackLevel  uint16
	FadeLength   uint16
	FadeLevel    uint16
}

type ffConstant struct {
	Level    int16
	Envelope ffEnvelope
}

// ffPeriodic is the largest member of the effect union; it fixes the union's
// size and alignment, pointer field included.
type ffPeriodic struct {
	Waveform   uint16
	Period     uint16
	Magnitude  int16
	Offset     int16
	Phase      uint16
	Envelope   ffEnvelope
	CustomLen  uint32
	CustomData uintptr
}

type ffEffect struct {
	Type      uint16
	ID        int16
	Direction uint16
	Trigger   ffTrigger
	Replay    ffReplay
	u         ffPeriodic
}

// Effect holds the caller-controlled parameters of a constant-force effect.
// An ID of -1 asks the kernel to allocate a new effect slot on upload.
// Trigger parameters are not exposed; uploaded effects never start on their
// own.
type Effect struct {
	ID           int16
	Type         uint16
	Direction    uint16
	ReplayLength uint16
	ReplayDelay  uint16
	Level        int16
	AttackLength uint16
	AttackLevel  uint16
	FadeLength   uint16
	FadeLevel    uint16
}

// UploadEffect stores the effect on the device and returns the id the kernel
// filed it under. The caller replays or removes it by that id; no record is
// kept on this side.
func (d *Device) UploadEffect(e Effect) (int16, error) {
	ff := ffEffect{
		Type:      e.Type,
		ID:        e.ID,
		Direction: e.Direction,
		Replay:    ffReplay{Length: e.ReplayLength, Delay: e.ReplayDelay},
	}
	*(*ffConstant)(unsafe.Pointer(&ff.u)) = ffConstant{
		Level: e.Level,
		Envelope: ffEnvelope{
			AttackLength: e.AttackLength,
			AttackLevel:  e.AttackLevel,
			FadeLength:   e.FadeLength,
			FadeLevel:    e.FadeLevel,
		},
	}

	err := d.ctl(func(fd uintptr) error {
		if err := ioctl(fd, eviocsff, &ff); err != nil {
			return fmt.Errorf("upload effect: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return ff.ID, nil
}

// RemoveEffect frees a previously uploaded effect slot.
func (d *Device) RemoveEffect(id int16) error {
	return d.ctl(func(fd uintptr) error {
		if err := ioctlArg(fd, eviocrmff, uintptr(id)); err != nil {
			return fmt.Errorf("remove effect %v: %w", id, err)
		}
		return nil
	})
}

// PlayEffect starts count repetitions of an uploaded effect. A count of 0
// stops a running one.
func (d *Device) PlayEffect(id int16, count int32) error {
	return d.writeEvent(Event{Type: EvFf, Code: uint16(id), Value: count})
}

// SetGain scales the strength of all effects on the device. level covers
// [0, 0xFFFF] and is handed to the kernel unchecked.
func (d *Device) SetGain(level int32) error {
	return d.writeEvent(Event{Type: EvFf, Code: FfGain, Value: level})
}

// SetAutocenter sets how strongly the device pulls back to center. level
// covers [0, 0xFFFF] and is handed to the kernel unchecked.
func (d *Device) SetAutocenter(level int32) error {
	return d.writeEvent(Event{Type: EvFf, Code: FfAutocenter, Value: level})
}

// EffectCount reports how many effects the device can hold at once.
func (d *Device) EffectCount() (int32, error) {
	var n int32
	err := d.ctl(func(fd uintptr) error {
		if err := ioctl(fd, eviocgeffects, &n); err != nil {
			return fmt.Errorf("get effect count: %w", err)
		}
		return nil
	})
	return n, err
}
