package gpio

import "sync"

// FakePin is an in-memory Pin for host builds and tests. Drive emulates an
// external source (a switch) on an input line.
type FakePin struct {
	mu     sync.RWMutex
	n      int
	level  bool
	output bool
	pull   Pull

	// ConfigureErr, when set, is returned by ConfigureInput/ConfigureOutput.
	ConfigureErr error
}

func NewFakePin(n int) *FakePin { return &FakePin{n: n} }

// NewFakePins returns count fake pins numbered from first.
func NewFakePins(first, count int) []*FakePin {
	out := make([]*FakePin, count)
	for i := range out {
		out[i] = NewFakePin(first + i)
	}
	return out
}

func (p *FakePin) Number() int { return p.n }

func (p *FakePin) ConfigureInput(pull Pull) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ConfigureErr != nil {
		return p.ConfigureErr
	}
	p.output = false
	p.pull = pull
	if pull == PullUp {
		p.level = true
	} else if pull == PullDown {
		p.level = false
	}
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ConfigureErr != nil {
		return p.ConfigureErr
	}
	p.output = true
	p.level = initial
	return nil
}

// Set only affects lines configured as outputs.
func (p *FakePin) Set(b bool) {
	p.mu.Lock()
	if p.output {
		p.level = b
	}
	p.mu.Unlock()
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

// Drive sets the level seen on an input line.
func (p *FakePin) Drive(level bool) {
	p.mu.Lock()
	if !p.output {
		p.level = level
	}
	p.mu.Unlock()
}

func (p *FakePin) IsOutput() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.output
}

// AsPins converts fake pins to the Pin interface.
func AsPins(fs []*FakePin) []Pin {
	out := make([]Pin, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

// DriveBits drives the fake input lines from the low bits of v.
func DriveBits(fs []*FakePin, v uint32) {
	for i, f := range fs {
		f.Drive(v&(1<<uint(i)) != 0)
	}
}

// Sim is a simulated board: a PinBank over fake pins with handles to the
// lines so callers can flip switches and inspect LEDs.
type Sim struct {
	*PinBank
	LEDs     []*FakePin
	Switches []*FakePin
}

// NewSim builds a simulated board with the given channel widths.
func NewSim(leds, switches int) (*Sim, error) {
	s := &Sim{LEDs: NewFakePins(0, leds), Switches: NewFakePins(leds, switches)}
	pb, err := NewPinBank(Bank{Pins: AsPins(s.LEDs)}, Bank{Pins: AsPins(s.Switches), Pull: PullDown})
	if err != nil {
		return nil, err
	}
	s.PinBank = pb
	return s, nil
}

// SetSwitches drives the simulated switch lines.
func (s *Sim) SetSwitches(v uint32) { DriveBits(s.Switches, v) }
