package types

// ---- Service state (retained) ----

type State string

const (
	StateRunning State = "running"
	StateFailed  State = "failed"
	StateStopped State = "stopped"
)

type ServiceState struct {
	Level  State  `json:"level"`
	Status string `json:"status,omitempty"` // short errcode
	TS     int64  `json:"ts_ms"`
}

// Link is the link/state reported for a GPIO channel.
type Link string

const (
	LinkUp       Link = "up"
	LinkDegraded Link = "degraded"
)

type ChannelStatus struct {
	Link  Link   `json:"link"`
	TS    int64  `json:"ts_ms"`
	Error string `json:"error,omitempty"`
}

// Info envelope published once per channel (retained).
type Info struct {
	SchemaVersion int    `json:"schema_version"`
	Driver        string `json:"driver"`
	Detail        any    `json:"detail,omitempty"`
}

type ChannelInfo struct {
	Channel   uint8  `json:"channel"`
	Width     int    `json:"width"`
	InputMask uint32 `json:"input_mask"`
}
