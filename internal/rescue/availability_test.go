package rescue

import (
	"testing"
	"time"
)

func TestAvailabilityFalseWhenUnhealthyOrNoHome(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	c := newTestController(&fakeProvider{}, &fakeActuator{}, clk)

	if c.checkAvailability(clk.now, GPSFix{Healthy: false, HasHomeFix: true}) {
		t.Fatalf("available with an unhealthy GPS driver")
	}
	if c.checkAvailability(clk.now, GPSFix{Healthy: true, HasHomeFix: false}) {
		t.Fatalf("available without a home fix")
	}
}

func TestAvailabilityTrueWithGoodFix(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	c := newTestController(&fakeProvider{}, &fakeActuator{}, clk)
	gps := GPSFix{Healthy: true, HasHomeFix: true, Has3DFix: true, SatelliteCount: 10}

	if !c.checkAvailability(clk.advance(time.Second), gps) {
		t.Fatalf("not available with a healthy 3D fix and full sat count")
	}
}

func TestAvailabilityLatchesOnLostFix(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	c := newTestController(&fakeProvider{}, &fakeActuator{}, clk)

	gps := GPSFix{Healthy: true, HasHomeFix: true, Has3DFix: true, SatelliteCount: 10}
	c.checkAvailability(clk.advance(time.Second), gps)

	gps.Has3DFix = false
	if c.checkAvailability(clk.advance(time.Second), gps) {
		t.Fatalf("still available after the 3D fix dropped")
	}
}

func TestAvailabilityLowSatsNeedsTwoSeconds(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	c := newTestController(&fakeProvider{}, &fakeActuator{}, clk)

	low := GPSFix{Healthy: true, HasHomeFix: true, Has3DFix: true, SatelliteCount: minSatelliteCount - 1}
	if !c.checkAvailability(clk.advance(time.Second), low) {
		t.Fatalf("one second of low sats should not yet clear availability")
	}
	if c.checkAvailability(clk.advance(time.Second), low) {
		t.Fatalf("two seconds of low sats should clear availability")
	}
}

func TestAvailabilityCachedBetweenOneHzUpdates(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	c := newTestController(&fakeProvider{}, &fakeActuator{}, clk)

	good := GPSFix{Healthy: true, HasHomeFix: true, Has3DFix: true, SatelliteCount: 10}
	c.checkAvailability(clk.advance(time.Second), good)

	// 10 ms later the fix drops, but the cached answer holds until the
	// next 1 Hz evaluation.
	bad := good
	bad.Has3DFix = false
	if !c.checkAvailability(clk.advance(10*time.Millisecond), bad) {
		t.Fatalf("cached availability was re-evaluated inside the 1 Hz window")
	}
}
