package gpio

import (
	"sync"

	"ledpattern-go/errcode"
)

// Bank describes the discrete pins behind one channel.
type Bank struct {
	Pins      []Pin
	ActiveLow bool
	Pull      Pull // applied to lines configured as inputs
}

type bank struct {
	Bank
	inputs uint32
}

func (b *bank) width() uint32 { return uint32(1)<<uint(len(b.Pins)) - 1 }

// PinBank is a Controller assembled from individual GPIO pins.
// Until ConfigureDirection is called every line is treated as an input.
type PinBank struct {
	mu    sync.Mutex
	banks [2]*bank
}

func NewPinBank(leds, switches Bank) (*PinBank, error) {
	pb := &PinBank{}
	for i, b := range []Bank{leds, switches} {
		if len(b.Pins) == 0 || len(b.Pins) > 32 {
			return nil, &errcode.E{C: errcode.InvalidParams, Op: "gpio.pinbank", Msg: Channel(i + 1).String()}
		}
		for _, p := range b.Pins {
			if p == nil {
				return nil, &errcode.E{C: errcode.UnknownPin, Op: "gpio.pinbank", Msg: Channel(i + 1).String()}
			}
		}
		nb := &bank{Bank: b}
		nb.inputs = nb.width()
		pb.banks[i] = nb
	}
	return pb, nil
}

func (pb *PinBank) bank(ch Channel) (*bank, error) {
	i, err := channelIndex(ch)
	if err != nil {
		return nil, err
	}
	return pb.banks[i], nil
}

// ConfigureDirection sets each line of ch as input or output. Outputs start
// logically low.
func (pb *PinBank) ConfigureDirection(ch Channel, inputMask uint32) error {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	b, err := pb.bank(ch)
	if err != nil {
		return err
	}
	inputMask &= b.width()
	for i, p := range b.Pins {
		var err error
		if inputMask&(1<<uint(i)) != 0 {
			err = p.ConfigureInput(b.Pull)
		} else {
			err = p.ConfigureOutput(b.ActiveLow)
		}
		if err != nil {
			return &errcode.E{C: errcode.IOError, Op: "gpio.configure", Msg: ch.String(), Err: err}
		}
	}
	b.inputs = inputMask
	return nil
}

// ReadBits returns the logical level of every line in ch, outputs included.
func (pb *PinBank) ReadBits(ch Channel) (uint32, error) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	b, err := pb.bank(ch)
	if err != nil {
		return 0, err
	}
	var v uint32
	for i, p := range b.Pins {
		if p.Get() != b.ActiveLow {
			v |= 1 << uint(i)
		}
	}
	return v, nil
}

// WriteBits drives the output lines of ch. Bits for input lines and bits
// beyond the channel width are ignored.
func (pb *PinBank) WriteBits(ch Channel, v uint32) error {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	b, err := pb.bank(ch)
	if err != nil {
		return err
	}
	for i, p := range b.Pins {
		bit := uint32(1) << uint(i)
		if b.inputs&bit != 0 {
			continue
		}
		p.Set((v&bit != 0) != b.ActiveLow)
	}
	return nil
}
