package evdev

// Event types from linux/input-event-codes.h.
const (
	EvSyn uint16 = iota
	EvKey
	EvRel
	EvAbs
	EvMsc
	EvSw
)

const (
	EvLed uint16 = 0x11 + iota
	EvSnd
)

const (
	EvRep uint16 = 0x14 + iota
	EvFf
	EvPwr
	EvFfStatus
)

// Largest defined code value per category. Bitmask buffers are always sized
// from these, never from observed data.
const (
	EvMax  = 0x1F
	SynMax = 0x0F
	KeyMax = 0x2FF
	RelMax = 0x0F
	AbsMax = 0x3F
	MscMax = 0x07
	SwMax  = 0x10
	LedMax = 0x0F
	RepMax = 0x01
	SndMax = 0x07
	FfMax  = 0x7F
)

// Force-feedback effect types.
const (
	FfRumble uint16 = 0x50 + iota
	FfPeriodic
	FfConstant
	FfSpring
	FfFriction
	FfDamper
	FfInertia
	FfRamp
)

// Force-feedback device control codes.
const (
	FfGain uint16 = 0x60 + iota
	FfAutocenter
)

// typeMax reports the largest defined code for an event type. ok is false
// for types that have no code space of their own.
func typeMax(t uint16) (max int, ok bool) {
	switch t {
	case EvSyn:
		return SynMax, true
	case EvKey:
		return KeyMax, true
	case EvRel:
		return RelMax, true
	case EvAbs:
		return AbsMax, true
	case EvMsc:
		return MscMax, true
	case EvSw:
		return SwMax, true
	case EvLed:
		return LedMax, true
	case EvSnd:
		return SndMax, true
	case EvRep:
		return RepMax, true
	case EvFf:
		return FfMax, true
	}
	return 0, false
}
