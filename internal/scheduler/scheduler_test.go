package scheduler

import (
	"context"
	"testing"
	"time"

	"flightpath-rescue/internal/rescue"
)

type countingUpdater struct{ ticks int }

func (u *countingUpdater) Update(now time.Time) { u.ticks++ }

func TestTaskRunsUntilContextCanceled(t *testing.T) {
	u := &countingUpdater{}
	task := NewTask(u, rescue.RealClock{}, time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		task.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	if u.ticks == 0 {
		t.Fatal("Update was never called")
	}
}

type fakeProvider struct{}

func (fakeProvider) GPS() rescue.GPSFix          { return rescue.GPSFix{} }
func (fakeProvider) AltitudeCm() float64         { return 0 }
func (fakeProvider) YawDeg10() float64           { return 0 }
func (fakeProvider) CosTiltAngle() float64       { return 1 }
func (fakeProvider) Accel() rescue.AccelRaw      { return rescue.AccelRaw{} }
func (fakeProvider) Mode() rescue.ModeState      { return rescue.ModeState{} }
func (fakeProvider) PilotThrottle() uint16       { return 1000 }

type fakeActuator struct{}

func (fakeActuator) SetArmingDisabled(bool)             {}
func (fakeActuator) Disarm(rescue.DisarmReason)          {}

type fakeSink struct{ calls int }

func (s *fakeSink) SendRescueSetpoint(yawRateDegS, throttle01, pitchAngleDeg100, rollAngleDeg100 float64) error {
	s.calls++
	return nil
}

func TestTaskForwardsOutputsToSinkAfterEachUpdate(t *testing.T) {
	c := rescue.NewController(rescue.DefaultConfig(), fakeProvider{}, fakeActuator{}, nil, nil)
	sink := &fakeSink{}
	task := NewTask(c, rescue.RealClock{}, time.Millisecond, nil).WithOutputSink(c, sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		task.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	if sink.calls == 0 {
		t.Fatal("SendRescueSetpoint was never called")
	}
}
