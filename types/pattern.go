package types

// PatternValue is published (retained) after every loop iteration.
type PatternValue struct {
	Iteration uint64 `json:"iteration"`
	Switches  uint8  `json:"switches"`
	Mode      uint8  `json:"mode"`
	ModeName  string `json:"mode_name"`
	Base      uint8  `json:"base"`
	Output    uint8  `json:"output"`
	TS        int64  `json:"ts_ms"`
}
