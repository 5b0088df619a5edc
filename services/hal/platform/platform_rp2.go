//go:build rp2040 || rp2350

package platform

import (
	"io"
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"ledpattern-go/errcode"
	"ledpattern-go/services/hal/gpio"
	"ledpattern-go/types"
)

const maxGPIO = 29

func open(cfg types.BoardConfig) (gpio.Controller, error) {
	switch backendOf(cfg) {
	case BackendMCP23017:
		bus := machine.I2C0
		if err := bus.Configure(machine.I2CConfig{
			Frequency: i2cHz(cfg),
			SDA:       machine.I2C0_SDA_PIN,
			SCL:       machine.I2C0_SCL_PIN,
		}); err != nil {
			return nil, &errcode.E{C: errcode.InitFailed, Op: "platform.i2c0", Err: err}
		}
		return gpio.NewExpander(bus, expanderAddr(cfg))
	default:
		return pinBank(cfg, func(n int) (gpio.Pin, error) {
			if n < 0 || n > maxGPIO {
				return nil, errcode.UnknownPin
			}
			return &rp2Pin{p: machine.Pin(n), n: n}, nil
		})
	}
}

// Console configures UART0 on the board-default pins and returns it as the
// log sink.
func Console(baud uint32) io.Writer {
	u := uartx.UART0
	_ = u.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	return u
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) Number() int { return r.n }

func (r *rp2Pin) ConfigureInput(pull gpio.Pull) error {
	mode := machine.PinInput
	switch pull {
	case gpio.PullUp:
		mode = machine.PinInputPullup
	case gpio.PullDown:
		mode = machine.PinInputPulldown
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(b bool) { r.p.Set(b) }
func (r *rp2Pin) Get() bool  { return r.p.Get() }
