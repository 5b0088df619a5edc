package types

// Board configuration supplied on topic "config/board".

type BoardConfig struct {
	// Backend selects the GPIO provider: "pins" (discrete GPIOs) or
	// "mcp23017" (I²C port expander). Empty means "pins".
	Backend string `json:"backend" mapstructure:"backend"`

	LEDs     ChannelConfig `json:"leds" mapstructure:"leds"`
	Switches ChannelConfig `json:"switches" mapstructure:"switches"`

	// Expander settings, used when Backend == "mcp23017".
	I2CAddress uint8  `json:"i2c_address,omitempty" mapstructure:"i2c_address"`
	I2CHz      uint32 `json:"i2c_hz,omitempty" mapstructure:"i2c_hz"`
}

// ChannelConfig lists the GPIO numbers backing a channel, bit 0 first.
type ChannelConfig struct {
	Pins      []int  `json:"pins" mapstructure:"pins"`
	ActiveLow bool   `json:"active_low,omitempty" mapstructure:"active_low"`
	Pull      string `json:"pull,omitempty" mapstructure:"pull"` // "up" | "down" | "none"
}

// Pattern loop configuration supplied on topic "config/pattern".

type PatternConfig struct {
	IntervalMs uint32 `json:"interval_ms" mapstructure:"interval_ms"`
}
