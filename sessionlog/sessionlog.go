package sessionlog

import (
	"encoding/csv"
	"fmt"
	"github.com/irdash/irdash"
	"github.com/pkg/errors"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

var header = []string{
	"ts_unix", "seq",
	"rpm", "gear", "throttle", "brake",
	"session_remain_s", "fuel_l", "incidents",
	"speed_kmh",
	"lap", "pos", "class_pos",
	"lap_cur", "lap_last", "lap_best",
}

// Logger appends every decoded record to a timestamped CSV file, one
// file per process run.
type Logger struct {
	f *os.File
	w *csv.Writer

	// to allow testing
	now func() time.Time
}

func New(dir string) (*Logger, error) {
	name := fmt.Sprintf("irdash_telemetry_%s.csv",
		time.Now().Format("20060102_150405"))
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create session log")
	}
	l := &Logger{
		f:   f,
		w:   csv.NewWriter(f),
		now: time.Now,
	}
	if err := l.w.Write(header); err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "unable to write session log header")
	}
	return l, nil
}

func (l *Logger) Append(telem irdash.TelemetryRecord) error {
	ts := float64(l.now().UnixMilli()) / 1000.0
	row := []string{
		strconv.FormatFloat(ts, 'f', 3, 64),
		strconv.FormatUint(uint64(telem.Seq), 10),
		formatF32(telem.RPM, 1),
		strconv.Itoa(telem.Gear),
		formatF32(telem.Throttle, 3),
		formatF32(telem.Brake, 3),
		formatF32(telem.SessionRemain, 2),
		formatF32(telem.Fuel, 3),
		strconv.Itoa(telem.Incidents),
		formatF32(telem.Speed, 2),
		strconv.Itoa(telem.Lap),
		strconv.Itoa(telem.Position),
		strconv.Itoa(telem.ClassPosition),
		formatF32(telem.LapCur, 3),
		formatF32(telem.LapLast, 3),
		formatF32(telem.LapBest, 3),
	}
	if err := l.w.Write(row); err != nil {
		return errors.Wrap(err, "unable to append session log row")
	}
	return nil
}

func (l *Logger) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		_ = l.f.Close()
		return errors.Wrap(err, "unable to flush session log")
	}
	return l.f.Close()
}

func formatF32(v float32, prec int) string {
	return strconv.FormatFloat(float64(v), 'f', prec, 32)
}
