package irdash

import (
	"time"
)

// TelemetryRecord is the latest known-good snapshot of simulator state.
// It is replaced wholesale on every successfully decoded datagram and
// never partially updated.
type TelemetryRecord struct {
	Seq uint32

	RPM      float32
	Gear     int
	Throttle float32
	Brake    float32

	SessionRemain float32
	Fuel          float32
	Incidents     int

	Speed float32

	Lap           int
	Position      int
	ClassPosition int

	LapCur  float32
	LapLast float32
	LapBest float32

	receivedAt time.Time
}
