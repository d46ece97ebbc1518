package irdash

import (
	"github.com/pkg/errors"
)

type field int

const (
	fieldSeq field = iota
	fieldRPM
	fieldGear
	fieldThrottle
	fieldBrake
	fieldSessionRemain
	fieldFuel
	fieldIncidents
	fieldSpeed
	fieldLap
	fieldPosition
	fieldClassPosition
	fieldLapCur
	fieldLapLast
	fieldLapBest

	// sent by the r1 sender only, no slot in the record
	fieldSteer
	fieldFuelPct
)

// Schema is the ordered field layout of one sender revision. The sender
// has reordered fields between revisions, so the layout is data the
// decoder walks, not index constants.
type Schema struct {
	Name   string
	Fields []field
}

// SchemaCurrent matches the r2 sender, which replaced the steering and
// fuel-percentage debug fields with session-remaining and incidents.
var SchemaCurrent = Schema{
	Name: "current",
	Fields: []field{
		fieldSeq, fieldRPM, fieldGear, fieldThrottle, fieldBrake,
		fieldSessionRemain, fieldFuel, fieldIncidents, fieldSpeed,
		fieldLap, fieldPosition, fieldClassPosition,
		fieldLapCur, fieldLapLast, fieldLapBest,
	},
}

// SchemaLegacy matches the r1 sender.
var SchemaLegacy = Schema{
	Name: "legacy",
	Fields: []field{
		fieldSeq, fieldRPM, fieldGear, fieldThrottle, fieldBrake,
		fieldSteer, fieldFuel, fieldFuelPct, fieldSpeed,
		fieldLap, fieldPosition, fieldClassPosition,
		fieldLapCur, fieldLapLast, fieldLapBest,
	},
}

func SchemaByName(name string) (Schema, error) {
	switch name {
	case SchemaCurrent.Name:
		return SchemaCurrent, nil
	case SchemaLegacy.Name:
		return SchemaLegacy, nil
	}
	return Schema{}, errors.Errorf("unknown payload schema %q", name)
}
