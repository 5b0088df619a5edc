package main

// this file contains all the code that directly uses the viper package.
import (
	"github.com/spf13/viper"

	"ledpattern-go/types"
)

type simConfig struct {
	// Backend is "sim" (fake pins driven by Script) or "hardware"
	// (the platform provider for this host, e.g. periph.io on a Pi).
	Backend    string            `mapstructure:"backend"`
	Board      types.BoardConfig `mapstructure:"board"`
	IntervalMs uint32            `mapstructure:"interval_ms"`
	Iterations int               `mapstructure:"iterations"` // 0 runs until interrupted
	Fast       bool              `mapstructure:"fast"`       // skip the real-time delay
	Script     []uint32          `mapstructure:"script"`     // switch values, one per iteration, cycled
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", "sim")
	v.SetDefault("interval_ms", 1000)
	v.SetDefault("iterations", 0)
	v.SetDefault("fast", false)
	v.SetDefault("script", []uint32{0, 1, 2, 3})
	v.SetDefault("board.backend", "pins")
	v.SetDefault("board.leds.pins", []int{17, 27, 22, 23})
	v.SetDefault("board.switches.pins", []int{5, 6})
	v.SetDefault("board.switches.pull", "down")
}

// loadConfig reads patternsim.toml (or .yaml/.json) from /etc/patternsim and
// then the given directories, with PATTERNSIM_* environment overrides.
// A missing file is not an error; the defaults above apply.
func loadConfig(dirs ...string) (simConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("patternsim")
	v.AddConfigPath("/etc/patternsim")
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	v.SetEnvPrefix("patternsim")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return simConfig{}, err
		}
	}
	var cfg simConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return simConfig{}, err
	}
	return cfg, nil
}
