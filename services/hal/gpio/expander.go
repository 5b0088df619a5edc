package gpio

import (
	"sync"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/mcp23017"

	"ledpattern-go/errcode"
)

// DefaultExpanderAddress is the MCP23017 address with A2..A0 tied low.
const DefaultExpanderAddress = 0x20

const portWidth = 8

// Expander is a Controller backed by an MCP23017: port A carries the LED
// channel, port B the switch channel.
type Expander struct {
	mu     sync.Mutex
	dev    *mcp23017.Device
	modes  [2 * portWidth]mcp23017.PinMode
	inputs [2]uint32
}

// NewExpander probes the expander at addr. A device that does not answer
// yields an InitFailed error.
func NewExpander(bus drivers.I2C, addr uint8) (*Expander, error) {
	dev, err := mcp23017.NewI2C(bus, addr)
	if err != nil {
		return nil, &errcode.E{C: errcode.InitFailed, Op: "gpio.mcp23017", Err: err}
	}
	if _, err := dev.GetPins(); err != nil {
		return nil, &errcode.E{C: errcode.InitFailed, Op: "gpio.mcp23017", Msg: "probe", Err: err}
	}
	e := &Expander{dev: dev, inputs: [2]uint32{0xFF, 0xFF}}
	for i := range e.modes {
		e.modes[i] = mcp23017.Input
	}
	return e, nil
}

func (e *Expander) ConfigureDirection(ch Channel, inputMask uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	port, err := channelIndex(ch)
	if err != nil {
		return err
	}
	inputMask &= 0xFF
	for i := 0; i < portWidth; i++ {
		m := mcp23017.Output
		if inputMask&(1<<uint(i)) != 0 {
			m = mcp23017.Input | mcp23017.Pullup
		}
		e.modes[port*portWidth+i] = m
	}
	if err := e.dev.SetModes(e.modes[:]); err != nil {
		return &errcode.E{C: errcode.IOError, Op: "gpio.mcp23017", Msg: ch.String(), Err: err}
	}
	e.inputs[port] = inputMask
	// Outputs start low.
	shift := uint(port * portWidth)
	outMask := mcp23017.Pins(^inputMask&0xFF) << shift
	if err := e.dev.SetPins(0, outMask); err != nil {
		return &errcode.E{C: errcode.IOError, Op: "gpio.mcp23017", Msg: ch.String(), Err: err}
	}
	return nil
}

func (e *Expander) ReadBits(ch Channel) (uint32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	port, err := channelIndex(ch)
	if err != nil {
		return 0, err
	}
	pins, err := e.dev.GetPins()
	if err != nil {
		return 0, &errcode.E{C: errcode.IOError, Op: "gpio.mcp23017", Msg: ch.String(), Err: err}
	}
	return uint32(pins>>uint(port*portWidth)) & 0xFF, nil
}

func (e *Expander) WriteBits(ch Channel, v uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	port, err := channelIndex(ch)
	if err != nil {
		return err
	}
	shift := uint(port * portWidth)
	outMask := mcp23017.Pins(^e.inputs[port]&0xFF) << shift
	if outMask == 0 {
		return nil
	}
	if err := e.dev.SetPins(mcp23017.Pins(v&0xFF)<<shift, outMask); err != nil {
		return &errcode.E{C: errcode.IOError, Op: "gpio.mcp23017", Msg: ch.String(), Err: err}
	}
	return nil
}
