package rescue

import (
	"testing"
	"time"
)

func TestThrottleIntegratorClampedAt200(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	c := newTestController(&fakeProvider{}, &fakeActuator{}, clk)
	c.state.Sensors.AltitudeDataIntervalSeconds = 0.01
	c.state.Intent.TargetAltitudeCm = 1e6 // huge persistent error

	for i := 0; i < 100000; i++ {
		c.computeAltitudeThrottle(1)
	}

	if c.throttleIAccum > 200 || c.throttleIAccum < -200 {
		t.Fatalf("throttleIAccum = %v, want clamped to [-200, 200]", c.throttleIAccum)
	}
	if c.rescueThrottle < c.cfg.ThrottleMin || c.rescueThrottle > c.cfg.ThrottleMax {
		t.Fatalf("rescueThrottle = %v, want [%v, %v]", c.rescueThrottle, c.cfg.ThrottleMin, c.cfg.ThrottleMax)
	}
}

func TestTiltFeedForwardRaisesThrottle(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	level := newTestController(&fakeProvider{}, &fakeActuator{}, clk)
	banked := newTestController(&fakeProvider{}, &fakeActuator{}, clk)
	for _, c := range []*Controller{level, banked} {
		c.state.Sensors.AltitudeDataIntervalSeconds = 0.01
		c.state.Sensors.CurrentAltitudeCm = 3000
		c.state.Intent.TargetAltitudeCm = 3000 // zero error: output is hover + feed-forward
	}

	level.computeAltitudeThrottle(1)
	banked.computeAltitudeThrottle(0.7) // ~45 degree bank

	if banked.rescueThrottle <= level.rescueThrottle {
		t.Fatalf("banked throttle %v not above level throttle %v", banked.rescueThrottle, level.rescueThrottle)
	}
	if level.rescueThrottle != level.cfg.ThrottleHover {
		t.Fatalf("level hover throttle = %v, want hover %v with zero error", level.rescueThrottle, level.cfg.ThrottleHover)
	}
}

func TestDescentRateModifierBoostsDTerm(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	plain := newTestController(&fakeProvider{}, &fakeActuator{}, clk)
	boosted := newTestController(&fakeProvider{}, &fakeActuator{}, clk)
	for _, c := range []*Controller{plain, boosted} {
		c.state.Sensors.AltitudeDataIntervalSeconds = 0.01
		c.state.Sensors.CurrentAltitudeCm = 3000
		c.state.Intent.TargetAltitudeCm = 3000
		c.computeAltitudeThrottle(1) // settle prevAltitudeError at zero
		c.state.Intent.TargetAltitudeCm = 3100
	}
	boosted.state.Intent.DescentRateModifier = 1

	plain.computeAltitudeThrottle(1)
	boosted.computeAltitudeThrottle(1)

	if boosted.rescueThrottle <= plain.rescueThrottle {
		t.Fatalf("descentRateModifier=1 throttle %v not above unboosted %v", boosted.rescueThrottle, plain.rescueThrottle)
	}
}
