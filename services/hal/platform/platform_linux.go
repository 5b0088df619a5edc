//go:build linux && (arm || arm64) && !(rp2040 || rp2350)

package platform

import (
	"io"
	"os"
	"strconv"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"ledpattern-go/errcode"
	"ledpattern-go/services/hal/gpio"
	"ledpattern-go/types"
)

// Single-board computers: pins are addressed by BCM number through periph.io.
func open(cfg types.BoardConfig) (gpio.Controller, error) {
	if backendOf(cfg) != BackendPins {
		return nil, errUnsupportedBackend(cfg)
	}
	if _, err := host.Init(); err != nil {
		return nil, &errcode.E{C: errcode.InitFailed, Op: "platform.periph", Err: err}
	}
	return pinBank(cfg, func(n int) (gpio.Pin, error) {
		p := gpioreg.ByName("GPIO" + strconv.Itoa(n))
		if p == nil {
			return nil, &errcode.E{C: errcode.InitFailed, Op: "platform.periph", Msg: "GPIO" + strconv.Itoa(n), Err: errcode.UnknownPin}
		}
		return &periphPin{p: p, n: n}, nil
	})
}

func Console(uint32) io.Writer { return os.Stdout }

type periphPin struct {
	p pgpio.PinIO
	n int
}

func (r *periphPin) Number() int { return r.n }

func (r *periphPin) ConfigureInput(pull gpio.Pull) error {
	pp := pgpio.Float
	switch pull {
	case gpio.PullUp:
		pp = pgpio.PullUp
	case gpio.PullDown:
		pp = pgpio.PullDown
	}
	return r.p.In(pp, pgpio.NoEdge)
}

func (r *periphPin) ConfigureOutput(initial bool) error {
	return r.p.Out(pgpio.Level(initial))
}

func (r *periphPin) Set(b bool) { _ = r.p.Out(pgpio.Level(b)) }
func (r *periphPin) Get() bool  { return r.p.Read() == pgpio.High }
