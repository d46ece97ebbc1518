package irdash

import (
	"context"
	"fmt"
	"time"
)

// TestMode feeds synthetic oscillating telemetry payloads into
// payloadChan at the sender's rate so the display pages can be
// exercised without the simulator running. Payloads use the current
// schema and go through the normal decode path.
func TestMode(ctx context.Context, payloadChan chan<- []byte) {
	go func() {
		var (
			seq      uint32
			tick     int
			rpm      = 1000.0
			throttle = 0.0
			fuel     = 45.0
			lap      = 1
			remain   = 3600.0
			down     = false
		)
		for {
			select {
			case <-time.Tick(time.Millisecond * 50):
			case <-ctx.Done():
				return
			}

			if down {
				rpm -= 100
				throttle -= 0.02
			} else {
				rpm += 100
				throttle += 0.02
			}
			if rpm >= 7500 {
				down = true
			} else if rpm <= 1000 {
				down = false
			}
			if throttle > 1 {
				throttle = 1
			} else if throttle < 0 {
				throttle = 0
			}
			brake := 0.0
			if down {
				brake = 1 - throttle
			}

			tick++
			// 90 second demo laps
			if tick%1800 == 0 {
				lap++
				fuel -= 2.5
			}
			remain -= 0.05

			payload := fmt.Sprintf(
				"%d,%.1f,%d,%.3f,%.3f,%.2f,%.3f,%d,%.2f,%d,%d,%d,%.3f,%.3f,%.3f",
				seq, rpm, 4, throttle, brake, remain, fuel, 0,
				rpm/7500*250, lap, 12, 3,
				float64(tick%1800)*0.05, 90.0, 88.5)

			select {
			case payloadChan <- []byte(payload):
			default:
			}
			seq++
		}
	}()
}
