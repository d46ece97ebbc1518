package irdash

const (
	// fuel readings at or below this are treated as sensor noise
	minPlausibleFuel = 0.001
	// a lap burning this much or more means a pit stop or a glitch
	maxLapFuelUse = 10.0

	// FuelUnknown is returned by NeededToFinish when no projection is
	// possible yet.
	FuelUnknown = -1.0
)

// FuelLapStats tracks fuel consumption per completed lap. Deltas
// outside (0, maxLapFuelUse) liters are excluded from the running
// average but leave the accumulated totals alone, so a pit cycle does
// not reset the long-run numbers.
type FuelLapStats struct {
	lastLapSeen    int
	fuelAtLapStart float64
	lastLapUsed    float64
	totalUsed      float64
	lapsCounted    int
}

func newFuelLapStats() FuelLapStats {
	return FuelLapStats{lastLapSeen: -1}
}

func (f *FuelLapStats) update(fuel float64, lap int) {
	if fuel <= minPlausibleFuel || lap <= 0 {
		return
	}
	if f.lastLapSeen < 0 {
		// first valid reading, start the baseline
		f.lastLapSeen = lap
		f.fuelAtLapStart = fuel
		return
	}
	if lap == f.lastLapSeen {
		return
	}
	used := f.fuelAtLapStart - fuel
	if used > 0 && used < maxLapFuelUse {
		f.lastLapUsed = used
		f.totalUsed += used
		f.lapsCounted++
	} else {
		f.lastLapUsed = 0
	}
	f.lastLapSeen = lap
	f.fuelAtLapStart = fuel
}

// LastLapUsed returns the liters burned on the most recently completed
// lap, or 0 if that lap was excluded.
func (f *FuelLapStats) LastLapUsed() float64 {
	return f.lastLapUsed
}

// LapsCounted returns how many laps have contributed to the average.
func (f *FuelLapStats) LapsCounted() int {
	return f.lapsCounted
}

// AveragePerLap returns the mean liters per counted lap, 0 before any
// lap has been counted.
func (f *FuelLapStats) AveragePerLap() float64 {
	if f.lapsCounted == 0 {
		return 0
	}
	return f.totalUsed / float64(f.lapsCounted)
}

// NeededToFinish projects the liters required to reach the end of the
// session, padded by half a lap so the estimate errs high. Returns
// FuelUnknown until an average, a usable lap time and a meaningful
// session remainder all exist.
func (f *FuelLapStats) NeededToFinish(lapLast, lapBest, sessionRemain float64) float64 {
	avg := f.AveragePerLap()
	lapTime := estimatedLapTime(lapLast, lapBest)
	if avg <= 0.0001 || lapTime <= 0.1 || sessionRemain <= 1.0 {
		return FuelUnknown
	}
	lapsRemaining := sessionRemain/lapTime + 0.5
	need := lapsRemaining * avg
	if need < 0 {
		need = 0
	}
	return need
}

// estimatedLapTime prefers the last completed lap over the best lap;
// either must be over 0.1s to count as a real time.
func estimatedLapTime(lapLast, lapBest float64) float64 {
	if lapLast > 0.1 {
		return lapLast
	}
	if lapBest > 0.1 {
		return lapBest
	}
	return 0
}
