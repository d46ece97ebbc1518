package irdash

import (
	"math"
)

// HistoryCap is the number of samples each trace keeps, sized to the
// width of the trend page.
const HistoryCap = 96

type HistorySample struct {
	Throttle uint8
	Brake    uint8
}

// HistoryBuffer records recent throttle/brake samples as 8-bit values
// for the trend pages. Both traces share one cursor so a given index
// always refers to the same datagram.
type HistoryBuffer struct {
	throttle [HistoryCap]uint8
	brake    [HistoryCap]uint8
	cursor   int
	count    int
}

// Push records one sample pair, clamped to [0,1] and quantized to
// 0..255. Once the buffer is full the oldest sample is overwritten.
func (h *HistoryBuffer) Push(throttle, brake float64) {
	h.throttle[h.cursor] = quantize(throttle)
	h.brake[h.cursor] = quantize(brake)
	h.cursor = (h.cursor + 1) % HistoryCap
	if h.count < HistoryCap {
		h.count++
	}
}

// Len returns the current occupancy, at most HistoryCap.
func (h *HistoryBuffer) Len() int {
	return h.count
}

// Window returns up to max of the most recent samples, oldest first.
// Fewer than two samples is not enough to draw a trend and yields nil.
// The buffer is not modified.
func (h *HistoryBuffer) Window(max int) []HistorySample {
	if h.count < 2 || max <= 0 {
		return nil
	}
	n := max
	if n > h.count {
		n = h.count
	}
	start := (h.cursor - n + HistoryCap) % HistoryCap
	out := make([]HistorySample, n)
	for i := 0; i < n; i++ {
		idx := (start + i) % HistoryCap
		out[i] = HistorySample{
			Throttle: h.throttle[idx],
			Brake:    h.brake[idx],
		}
	}
	return out
}

func quantize(v float64) uint8 {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(math.Round(v * 255))
}
