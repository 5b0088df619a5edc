// Package gpio exposes dual-channel GPIO controllers: one channel drives the
// LEDs, the other samples the switches. Bit i of a channel value maps to
// line i of that channel.
package gpio

import "ledpattern-go/errcode"

type Channel uint8

const (
	ChannelLED    Channel = 1
	ChannelSwitch Channel = 2
)

func (c Channel) String() string {
	switch c {
	case ChannelLED:
		return "leds"
	case ChannelSwitch:
		return "switches"
	default:
		return "unknown"
	}
}

// Controller is the capability the pattern loop needs from the hardware.
// A set bit in inputMask makes that line an input; a clear bit an output.
type Controller interface {
	ConfigureDirection(ch Channel, inputMask uint32) error
	ReadBits(ch Channel) (uint32, error)
	WriteBits(ch Channel, v uint32) error
}

// ---- Pins ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

func ParsePull(s string) Pull {
	switch s {
	case "up":
		return PullUp
	case "down":
		return PullDown
	default:
		return PullNone
	}
}

// Pin is a single GPIO line as provided by a platform.
type Pin interface {
	Number() int
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(bool)
	Get() bool
}

func channelIndex(ch Channel) (int, error) {
	switch ch {
	case ChannelLED:
		return 0, nil
	case ChannelSwitch:
		return 1, nil
	default:
		return 0, errcode.UnknownChannel
	}
}
