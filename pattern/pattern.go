// Package pattern derives the LED pattern from the switch inputs and the
// current transform mode. Everything here is pure; the mode counter is
// owned by the caller.
package pattern

const (
	SwitchMask  = 0x3 // two switch inputs
	PatternMask = 0xF // four LEDs
	Modes       = 4
)

// Switches is the 2-bit switch reading.
type Switches uint8

// Pattern is a 4-bit LED pattern.
type Pattern uint8

// Mode selects the transform applied to the base pattern.
type Mode uint8

const (
	ModeIdentity Mode = iota
	ModeShiftRight2
	ModeRotateLeft3
	ModeInvert
)

// Next returns the mode for the following iteration (0→1→2→3→0).
func (m Mode) Next() Mode { return (m + 1) & (Modes - 1) }

func (m Mode) String() string {
	switch m & (Modes - 1) {
	case ModeIdentity:
		return "identity"
	case ModeShiftRight2:
		return "shift_right_2"
	case ModeRotateLeft3:
		return "rotate_left_3"
	default:
		return "invert"
	}
}

// BaseState returns a run of sw+1 set bits starting at bit 0.
func BaseState(sw Switches) Pattern {
	n := uint(sw&SwitchMask) + 1
	return Pattern((1<<n)-1) & PatternMask
}

// Transform applies mode m to base. Both arguments are masked first.
func Transform(base Pattern, m Mode) Pattern {
	b := base & PatternMask
	switch m & (Modes - 1) {
	case ModeIdentity:
		return b
	case ModeShiftRight2:
		return (b >> 2) & PatternMask
	case ModeRotateLeft3:
		return ((b << 3) | (b >> 1)) & PatternMask
	default:
		return ^b & PatternMask
	}
}

// Compute runs the whole pipeline for one iteration.
func Compute(sw Switches, m Mode) (base, out Pattern) {
	base = BaseState(sw)
	return base, Transform(base, m)
}

// Bits renders the pattern as four binary digits, MSB first.
func (p Pattern) Bits() string {
	var b [4]byte
	for i := 0; i < 4; i++ {
		if p&(1<<(3-i)) != 0 {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b[:])
}
