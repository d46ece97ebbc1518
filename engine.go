package irdash

import (
	"bytes"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"strconv"
	"time"
)

// staleAfter is how old the newest datagram may be before the display
// falls back to its "no data" pages.
const staleAfter = 1500 * time.Millisecond

// Engine owns all derived telemetry state: the latest record, the
// throttle/brake history and the fuel-lap stats. All mutation happens
// inside Apply; everything else is read-only.
type Engine struct {
	schema Schema
	now    func() time.Time

	telemetry TelemetryRecord
	history   HistoryBuffer
	fuel      FuelLapStats
}

func NewEngine(schema Schema) *Engine {
	return &Engine{
		schema: schema,
		now:    time.Now,
		fuel:   newFuelLapStats(),
	}
}

// Apply decodes one datagram payload and folds it into the engine
// state. On error no state is modified; the previous record stays
// current until the next datagram.
func (e *Engine) Apply(payload []byte) error {
	telem, err := decodeRecord(payload, e.schema)
	if err != nil {
		return err
	}
	telem.receivedAt = e.now()
	e.telemetry = telem
	e.history.Push(float64(telem.Throttle), float64(telem.Brake))
	e.fuel.update(float64(telem.Fuel), telem.Lap)
	log.WithField("seq", telem.Seq).Debug("telemetry updated")
	return nil
}

// decodeRecord parses a comma-separated ASCII payload using the field
// order of schema. Extra trailing tokens are ignored so a sender that
// appends fields does not break older displays. A token that fails to
// parse reads as zero rather than rejecting the whole datagram; the
// sender formats every field itself, so a corrupt token is a transport
// problem the next datagram will fix.
func decodeRecord(payload []byte, schema Schema) (TelemetryRecord, error) {
	telem := TelemetryRecord{}
	if len(payload) == 0 {
		return telem, errors.New("empty payload")
	}
	tokens := bytes.Split(payload, []byte{','})
	if len(tokens) < len(schema.Fields) {
		return telem, errors.Errorf("malformed payload: %d fields, want %d",
			len(tokens), len(schema.Fields))
	}
	for i, f := range schema.Fields {
		v, err := strconv.ParseFloat(string(bytes.TrimSpace(tokens[i])), 64)
		if err != nil {
			v = 0
		}
		switch f {
		case fieldSeq:
			telem.Seq = uint32(v)
		case fieldRPM:
			telem.RPM = float32(v)
		case fieldGear:
			telem.Gear = int(v)
		case fieldThrottle:
			telem.Throttle = float32(v)
		case fieldBrake:
			telem.Brake = float32(v)
		case fieldSessionRemain:
			telem.SessionRemain = float32(v)
		case fieldFuel:
			telem.Fuel = float32(v)
		case fieldIncidents:
			telem.Incidents = int(v)
		case fieldSpeed:
			telem.Speed = float32(v)
		case fieldLap:
			telem.Lap = int(v)
		case fieldPosition:
			telem.Position = int(v)
		case fieldClassPosition:
			telem.ClassPosition = int(v)
		case fieldLapCur:
			telem.LapCur = float32(v)
		case fieldLapLast:
			telem.LapLast = float32(v)
		case fieldLapBest:
			telem.LapBest = float32(v)
		case fieldSteer, fieldFuelPct:
			// r1 debug fields, parsed and dropped
		}
	}
	return telem, nil
}

// Snapshot returns a copy of the latest record.
func (e *Engine) Snapshot() TelemetryRecord {
	return e.telemetry
}

// IsLive reports whether a datagram has ever arrived and the newest one
// is younger than staleAfter.
func (e *Engine) IsLive() bool {
	if e.telemetry.receivedAt.IsZero() {
		return false
	}
	return e.now().Sub(e.telemetry.receivedAt) < staleAfter
}

func (e *Engine) History() *HistoryBuffer {
	return &e.history
}

func (e *Engine) Fuel() *FuelLapStats {
	return &e.fuel
}

// FuelToFinish projects the liters needed to finish the session from
// the current record and the per-lap stats.
func (e *Engine) FuelToFinish() float64 {
	return e.fuel.NeededToFinish(
		float64(e.telemetry.LapLast),
		float64(e.telemetry.LapBest),
		float64(e.telemetry.SessionRemain))
}
