package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
// -----------------------------------------------------------------------------

// LEDs on GP2..GP5, slide switches on GP6..GP7 to 3V3 with pull-downs.
const cfgPico = `{
  "board": {
    "backend": "pins",
    "leds": {"pins": [2, 3, 4, 5]},
    "switches": {"pins": [6, 7], "pull": "down"}
  },
  "pattern": {"interval_ms": 1000},
  "monitor": {"interval": 10}
}`

// LEDs on port A, switches on port B of an MCP23017 at 0x20 (I2C0, GP4/GP5).
const cfgPicoExpander = `{
  "board": {
    "backend": "mcp23017",
    "i2c_address": 32,
    "i2c_hz": 400000
  },
  "pattern": {"interval_ms": 1000},
  "monitor": {"interval": 10}
}`

var embeddedConfigs = map[string][]byte{
	"pico":          []byte(cfgPico),
	"pico_expander": []byte(cfgPicoExpander),
}
