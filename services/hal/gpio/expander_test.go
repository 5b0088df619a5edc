package gpio

import (
	"errors"
	"sync"
	"testing"

	"ledpattern-go/errcode"
)

// MCP23017 registers (IOCON.BANK = 0, sequential addressing).
const (
	regIODIRA = 0x00
	regGPIOA  = 0x12
	regGPIOB  = 0x13
	regOLATA  = 0x14
	regOLATB  = 0x15
)

// fakeMCP emulates the register file of an MCP23017 behind drivers.I2C.
type fakeMCP struct {
	mu    sync.Mutex
	addr  uint16
	regs  [0x16]byte
	ext   [2]byte // levels applied to the input lines of port A/B
	fail  error
	txLog int
}

func newFakeMCP(addr uint16) *fakeMCP {
	f := &fakeMCP{addr: addr}
	f.regs[regIODIRA] = 0xFF
	f.regs[regIODIRA+1] = 0xFF
	return f
}

func (f *fakeMCP) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txLog++
	if f.fail != nil {
		return f.fail
	}
	if addr != f.addr {
		return errors.New("i2c: no ack")
	}
	if len(w) == 0 {
		return nil
	}
	reg := int(w[0])
	for i, b := range w[1:] {
		f.write(reg+i, b)
	}
	for i := range r {
		r[i] = f.read(reg + i)
	}
	return nil
}

func (f *fakeMCP) write(reg int, b byte) {
	if reg >= len(f.regs) {
		return
	}
	switch reg {
	case regGPIOA, regGPIOB:
		f.regs[reg+2] = b // writes to GPIO land in OLAT
	default:
		f.regs[reg] = b
	}
}

func (f *fakeMCP) read(reg int) byte {
	switch reg {
	case regGPIOA, regGPIOB:
		port := reg - regGPIOA
		dir := f.regs[regIODIRA+port]
		return f.regs[regOLATA+port]&^dir | f.ext[port]&dir
	}
	if reg >= len(f.regs) {
		return 0
	}
	return f.regs[reg]
}

func (f *fakeMCP) setInputs(port int, v byte) {
	f.mu.Lock()
	f.ext[port] = v
	f.mu.Unlock()
}

func (f *fakeMCP) latch(port int) byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regs[regOLATA+port]
}

func TestExpander_DirectionAndIO(t *testing.T) {
	bus := newFakeMCP(DefaultExpanderAddress)
	e, err := NewExpander(bus, DefaultExpanderAddress)
	if err != nil {
		t.Fatalf("NewExpander: %v", err)
	}
	if err := e.ConfigureDirection(ChannelLED, 0x0); err != nil {
		t.Fatalf("configure leds: %v", err)
	}
	if err := e.ConfigureDirection(ChannelSwitch, 0x3); err != nil {
		t.Fatalf("configure switches: %v", err)
	}

	bus.setInputs(1, 0b01)
	v, err := e.ReadBits(ChannelSwitch)
	if err != nil {
		t.Fatalf("ReadBits: %v", err)
	}
	if v&0x3 != 0b01 {
		t.Fatalf("switches = %02b, want 01", v&0x3)
	}

	if err := e.WriteBits(ChannelLED, 0b1011); err != nil {
		t.Fatalf("WriteBits: %v", err)
	}
	if got := bus.latch(0) & 0x0F; got != 0b1011 {
		t.Fatalf("port A latch = %04b, want 1011", got)
	}
	if v, _ := e.ReadBits(ChannelLED); v&0xF != 0b1011 {
		t.Fatalf("LED readback = %04b", v&0xF)
	}
}

func TestExpander_AbsentDevice(t *testing.T) {
	bus := newFakeMCP(0x21)
	_, err := NewExpander(bus, DefaultExpanderAddress)
	if errcode.Of(err) != errcode.InitFailed {
		t.Fatalf("expected init_failed, got %v", err)
	}
}

func TestExpander_BusErrorsAreIOErrors(t *testing.T) {
	bus := newFakeMCP(DefaultExpanderAddress)
	e, err := NewExpander(bus, DefaultExpanderAddress)
	if err != nil {
		t.Fatalf("NewExpander: %v", err)
	}
	_ = e.ConfigureDirection(ChannelLED, 0)

	bus.mu.Lock()
	bus.fail = errors.New("arbitration lost")
	bus.mu.Unlock()

	if _, err := e.ReadBits(ChannelSwitch); errcode.Of(err) != errcode.IOError {
		t.Fatalf("read: expected io_error, got %v", err)
	}
	if err := e.WriteBits(ChannelLED, 1); errcode.Of(err) != errcode.IOError {
		t.Fatalf("write: expected io_error, got %v", err)
	}
	if _, err := e.ReadBits(Channel(9)); errcode.Of(err) != errcode.UnknownChannel {
		t.Fatalf("expected unknown_channel, got %v", err)
	}
}
