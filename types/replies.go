package types

import "time"

// ------------------------
// Clock service state (retained)
// ------------------------

// ClockState.Level values.
const (
	ClockWaiting = "waiting"
	ClockReady   = "ready"
	ClockFailed  = "failed"
)

type ClockState struct {
	Level  string `json:"level"`           // ClockWaiting, ClockReady or ClockFailed
	Source string `json:"source"`          // e.g. "pll(hsi16)->48MHz"
	Error  string `json:"error,omitempty"` // errcode on failure
	TS     int64  `json:"ts_ns"`
}

// ------------------------
// Generic replies
// ------------------------

type OKReply struct {
	OK bool `json:"ok"`
}

type ErrorReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// ------------------------
// Service configuration (retained under config/<service>)
// ------------------------

type HeartbeatConfig struct {
	Interval time.Duration `json:"interval"`
}
