package platform

import (
	"testing"

	"ledpattern-go/errcode"
	"ledpattern-go/types"
)

func picoBoard() types.BoardConfig {
	return types.BoardConfig{
		LEDs:     types.ChannelConfig{Pins: []int{2, 3, 4, 5}},
		Switches: types.ChannelConfig{Pins: []int{6, 7}, Pull: "down"},
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(picoBoard()); err != nil {
		t.Fatalf("valid board rejected: %v", err)
	}

	short := picoBoard()
	short.LEDs.Pins = short.LEDs.Pins[:3]
	dup := picoBoard()
	dup.Switches.Pins = []int{5, 7}
	neg := picoBoard()
	neg.Switches.Pins = []int{-1, 7}
	unknown := picoBoard()
	unknown.Backend = "spi"
	badAddr := types.BoardConfig{Backend: BackendMCP23017, I2CAddress: 0x40}

	for name, cfg := range map[string]types.BoardConfig{
		"short": short, "dup": dup, "neg": neg, "unknown": unknown, "addr": badAddr,
	} {
		if err := Validate(cfg); errcode.Of(err) != errcode.InitFailed {
			t.Errorf("%s: expected init_failed, got %v", name, err)
		}
	}
	if err := Validate(types.BoardConfig{Backend: BackendMCP23017}); err != nil {
		t.Fatalf("expander with default address rejected: %v", err)
	}
}

func TestOpen_InvalidConfigFailsInit(t *testing.T) {
	ctrl, err := Open(types.BoardConfig{})
	if ctrl != nil || errcode.Of(err) != errcode.InitFailed {
		t.Fatalf("expected init_failed and no controller, got %v, %v", ctrl, err)
	}
}

func TestDefaults(t *testing.T) {
	if expanderAddr(types.BoardConfig{}) != 0x20 || expanderAddr(types.BoardConfig{I2CAddress: 0x21}) != 0x21 {
		t.Fatal("expanderAddr")
	}
	if i2cHz(types.BoardConfig{}) != 400_000 {
		t.Fatal("i2cHz default")
	}
}
