// Package platform binds the GPIO controller to the board the firmware is
// built for. The build tag of each file selects the provider.
package platform

import (
	"ledpattern-go/errcode"
	"ledpattern-go/services/hal/gpio"
	"ledpattern-go/types"
)

const (
	BackendPins     = "pins"
	BackendMCP23017 = "mcp23017"

	LEDCount    = 4
	SwitchCount = 2

	defaultI2CHz = 400_000
)

// Open brings up the GPIO backend described by cfg. Every failure is
// reported with code InitFailed.
func Open(cfg types.BoardConfig) (gpio.Controller, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	ctrl, err := open(cfg)
	if err != nil {
		if errcode.Of(err) == errcode.InitFailed {
			return nil, err
		}
		return nil, &errcode.E{C: errcode.InitFailed, Op: "platform.open", Msg: backendOf(cfg), Err: err}
	}
	return ctrl, nil
}

// Validate checks the board description without touching hardware.
func Validate(cfg types.BoardConfig) error {
	switch backendOf(cfg) {
	case BackendPins:
		if len(cfg.LEDs.Pins) != LEDCount || len(cfg.Switches.Pins) != SwitchCount {
			return &errcode.E{C: errcode.InitFailed, Op: "platform.validate", Msg: "need 4 LED pins and 2 switch pins"}
		}
		seen := map[int]bool{}
		for _, p := range append(append([]int{}, cfg.LEDs.Pins...), cfg.Switches.Pins...) {
			if p < 0 || seen[p] {
				return &errcode.E{C: errcode.InitFailed, Op: "platform.validate", Msg: "bad or duplicate pin", Err: errcode.UnknownPin}
			}
			seen[p] = true
		}
	case BackendMCP23017:
		if cfg.I2CAddress != 0 && (cfg.I2CAddress < 0x20 || cfg.I2CAddress > 0x27) {
			return &errcode.E{C: errcode.InitFailed, Op: "platform.validate", Msg: "mcp23017 address out of range", Err: errcode.InvalidParams}
		}
	default:
		return &errcode.E{C: errcode.InitFailed, Op: "platform.validate", Msg: "unknown backend " + cfg.Backend, Err: errcode.Unsupported}
	}
	return nil
}

func backendOf(cfg types.BoardConfig) string {
	if cfg.Backend == "" {
		return BackendPins
	}
	return cfg.Backend
}

func expanderAddr(cfg types.BoardConfig) uint8 {
	if cfg.I2CAddress == 0 {
		return gpio.DefaultExpanderAddress
	}
	return cfg.I2CAddress
}

func i2cHz(cfg types.BoardConfig) uint32 {
	if cfg.I2CHz == 0 {
		return defaultI2CHz
	}
	return cfg.I2CHz
}

// pinBank assembles a PinBank using lookup to resolve GPIO numbers.
func pinBank(cfg types.BoardConfig, lookup func(n int) (gpio.Pin, error)) (*gpio.PinBank, error) {
	resolve := func(cc types.ChannelConfig) (gpio.Bank, error) {
		b := gpio.Bank{ActiveLow: cc.ActiveLow, Pull: gpio.ParsePull(cc.Pull)}
		for _, n := range cc.Pins {
			p, err := lookup(n)
			if err != nil {
				return b, err
			}
			b.Pins = append(b.Pins, p)
		}
		return b, nil
	}
	leds, err := resolve(cfg.LEDs)
	if err != nil {
		return nil, err
	}
	sws, err := resolve(cfg.Switches)
	if err != nil {
		return nil, err
	}
	return gpio.NewPinBank(leds, sws)
}

func errUnsupportedBackend(cfg types.BoardConfig) error {
	return &errcode.E{C: errcode.InitFailed, Op: "platform.open", Msg: "backend " + backendOf(cfg) + " not available on this target", Err: errcode.Unsupported}
}
