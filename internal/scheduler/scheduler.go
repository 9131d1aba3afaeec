// Package scheduler runs the rescue controller's Update at a fixed
// nominal rate: a task invoked at a steady tick independent of how fast
// telemetry itself arrives.
package scheduler

import (
	"context"
	"log"
	"time"

	"flightpath-rescue/internal/rescue"
)

// Updater is the one method scheduler.Task needs from rescue.Controller;
// narrowed to an interface so tests can drive the scheduler without a real
// Controller.
type Updater interface {
	Update(now time.Time)
}

// OutputSink is whatever consumes the controller's yaw/throttle/angle
// outputs each tick. internal/mavlink.Client.SendRescueSetpoint implements
// this against a vehicle with no native offboard attitude input.
type OutputSink interface {
	SendRescueSetpoint(yawRateDegS, throttle01, pitchAngleDeg100, rollAngleDeg100 float64) error
}

// Task runs Updater.Update on a fixed-rate ticker until its context is
// canceled, forwarding the resulting outputs to an optional OutputSink
// immediately after each Update call.
type Task struct {
	updater   Updater
	outputs   *rescue.Controller
	sink      OutputSink
	onObserve func(*rescue.Controller)
	clock     rescue.Clock
	interval  time.Duration
	logger    *log.Logger
}

// NewTask builds a Task. interval is the nominal tick period; the rescue
// task runs at 100 Hz, i.e. 10ms.
func NewTask(updater Updater, clock rescue.Clock, interval time.Duration, logger *log.Logger) *Task {
	return &Task{updater: updater, clock: clock, interval: interval, logger: logger}
}

// WithOutputSink attaches a sink that receives the controller's outputs
// right after every Update call. outputs must be the same Controller
// passed as updater; Task needs the concrete type to read YawRate/
// Throttle/Angle, which Updater doesn't expose. Returns t for chaining.
func (t *Task) WithOutputSink(outputs *rescue.Controller, sink OutputSink) *Task {
	t.outputs = outputs
	t.sink = sink
	return t
}

// WithObserver attaches a callback invoked with the controller right after
// every Update call, alongside the OutputSink. Used to feed the Prometheus
// gauges in internal/server from the same per-tick state the OutputSink
// sends downstream. Returns t for chaining.
func (t *Task) WithObserver(outputs *rescue.Controller, observe func(*rescue.Controller)) *Task {
	t.outputs = outputs
	t.onObserve = observe
	return t
}

// Run blocks, invoking Update once per tick, until ctx is canceled.
func (t *Task) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	if t.logger != nil {
		t.logger.Printf("scheduler: starting rescue task at %s interval", t.interval)
	}

	for {
		select {
		case <-ctx.Done():
			if t.logger != nil {
				t.logger.Println("scheduler: stopping rescue task")
			}
			return
		case <-ticker.C:
			t.updater.Update(t.clock.Now())
			if t.sink != nil {
				if err := t.sink.SendRescueSetpoint(
					t.outputs.YawRate(), t.outputs.Throttle(),
					t.outputs.Angle(rescue.AnglePitch), t.outputs.Angle(rescue.AngleRoll),
				); err != nil && t.logger != nil {
					t.logger.Printf("scheduler: failed to send rescue setpoint: %v", err)
				}
			}
			if t.onObserve != nil {
				t.onObserve(t.outputs)
			}
		}
	}
}
