package irdash

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestFuelLapBoundary(t *testing.T) {
	f := newFuelLapStats()

	f.update(40, 1)
	f.update(38, 1)
	assert.Equal(t, 0, f.LapsCounted(), "no lap completed yet")

	f.update(35, 2)
	assert.Equal(t, 5.0, f.LastLapUsed())
	assert.Equal(t, 1, f.LapsCounted())
	assert.Equal(t, 5.0, f.AveragePerLap())
}

func TestFuelRefuelRejected(t *testing.T) {
	f := newFuelLapStats()

	f.update(40, 1)
	// fuel went up across the boundary: pit stop
	f.update(60, 2)
	assert.Equal(t, 0.0, f.LastLapUsed())
	assert.Equal(t, 0, f.LapsCounted())

	// baseline moved to 60, the next lap counts normally
	f.update(55, 3)
	assert.Equal(t, 5.0, f.LastLapUsed())
	assert.Equal(t, 1, f.LapsCounted())
}

func TestFuelImplausibleBurnRejected(t *testing.T) {
	f := newFuelLapStats()

	f.update(40, 1)
	f.update(35, 2)
	f.update(24, 3) // 11 liters, glitch
	assert.Equal(t, 0.0, f.LastLapUsed())
	assert.Equal(t, 1, f.LapsCounted())
	assert.Equal(t, 5.0, f.AveragePerLap(), "rejected lap must not disturb the average")
}

func TestFuelGuards(t *testing.T) {
	f := newFuelLapStats()

	f.update(0.0005, 1)
	f.update(40, 0)
	f.update(40, -3)
	assert.Equal(t, 0, f.LapsCounted())

	// first packet to pass the guard starts the baseline
	f.update(40, 2)
	f.update(37, 3)
	assert.Equal(t, 3.0, f.LastLapUsed())
	assert.Equal(t, 1, f.LapsCounted())
}

func TestFuelAverageAcrossLaps(t *testing.T) {
	f := newFuelLapStats()

	f.update(40, 1)
	f.update(38, 2)
	f.update(35, 3)
	assert.Equal(t, 2, f.LapsCounted())
	assert.Equal(t, 2.5, f.AveragePerLap())
}

func TestFuelAverageUnknown(t *testing.T) {
	f := newFuelLapStats()
	assert.Equal(t, 0.0, f.AveragePerLap())
}

func TestNeededToFinishSentinels(t *testing.T) {
	f := newFuelLapStats()

	// no laps counted
	assert.Equal(t, FuelUnknown, f.NeededToFinish(90, 88, 1800))

	f.update(40, 1)
	f.update(37.5, 2)

	// no usable lap time
	assert.Equal(t, FuelUnknown, f.NeededToFinish(0, 0.05, 1800))
	// session effectively over
	assert.Equal(t, FuelUnknown, f.NeededToFinish(90, 88, 1.0))
}

func TestNeededToFinish(t *testing.T) {
	f := newFuelLapStats()
	f.update(40, 1)
	f.update(37.5, 2)

	// (900/90 + 0.5) * 2.5
	assert.InDelta(t, 26.25, f.NeededToFinish(90, 88, 900), 0.0001)
	assert.True(t, f.NeededToFinish(90, 88, 900) > 0)

	// falls back to best lap when last lap is not usable
	assert.InDelta(t, 26.25, f.NeededToFinish(0.05, 90, 900), 0.0001)
}
