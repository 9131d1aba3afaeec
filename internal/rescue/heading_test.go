package rescue

import (
	"testing"
	"time"
)

func TestYawRateScalesWithAttenuatorAndClamps(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	c := newTestController(&fakeProvider{}, &fakeActuator{}, clk)
	c.state.Sensors.ErrorAngle = 90
	c.state.Intent.YawAttenuator = 0

	c.computeHeadingYawRoll()
	if c.rescueYaw != 0 {
		t.Fatalf("rescueYaw = %v with yawAttenuator=0, want 0", c.rescueYaw)
	}

	c.state.Intent.YawAttenuator = 1
	c.computeHeadingYawRoll()
	// 90 * 40 * 0.1 = 360, clamped to 180.
	if c.rescueYaw != 180 {
		t.Fatalf("rescueYaw = %v, want clamp at 180 deg/s", c.rescueYaw)
	}
}

func TestRollMixFadesToZeroAtHighYawRate(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	c := newTestController(&fakeProvider{}, &fakeActuator{}, clk)
	c.state.Intent.YawAttenuator = 1
	c.state.Intent.RollAngleLimitDeg = 16

	c.state.Sensors.ErrorAngle = 5 // 20 deg/s of yaw, roll active
	c.computeHeadingYawRoll()
	if c.gpsRescueAngle[AngleRoll] == 0 {
		t.Fatalf("roll mix inactive at a modest yaw rate")
	}
	if c.gpsRescueAngle[AngleRoll] > 0 {
		t.Fatalf("roll %v should bank opposite the yaw command", c.gpsRescueAngle[AngleRoll])
	}

	c.state.Sensors.ErrorAngle = 90 // yaw rate saturates past 100 deg/s
	c.computeHeadingYawRoll()
	if c.gpsRescueAngle[AngleRoll] != 0 {
		t.Fatalf("roll = %v at saturated yaw rate, want fully faded to 0", c.gpsRescueAngle[AngleRoll])
	}
}

func TestRollClampedToRollAngleLimit(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	c := newTestController(&fakeProvider{}, &fakeActuator{}, clk)
	c.state.Intent.YawAttenuator = 1
	c.state.Intent.RollAngleLimitDeg = 2
	c.state.Sensors.ErrorAngle = 10

	c.computeHeadingYawRoll()

	limit := 100 * c.state.Intent.RollAngleLimitDeg
	if r := c.gpsRescueAngle[AngleRoll]; r < -limit || r > limit {
		t.Fatalf("roll = %v, want within +-%v", r, limit)
	}
}

func TestYawReversedFlipsYawButNotRoll(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	normal := newTestController(&fakeProvider{}, &fakeActuator{}, clk)
	reversed := newTestController(&fakeProvider{}, &fakeActuator{}, clk)
	reversed.cfg.YawReversed = true
	for _, c := range []*Controller{normal, reversed} {
		c.state.Intent.YawAttenuator = 1
		c.state.Intent.RollAngleLimitDeg = 16
		c.state.Sensors.ErrorAngle = 5
		c.computeHeadingYawRoll()
	}

	if reversed.rescueYaw != -normal.rescueYaw {
		t.Fatalf("yawReversed yaw = %v, want %v", reversed.rescueYaw, -normal.rescueYaw)
	}
	if reversed.gpsRescueAngle[AngleRoll] != normal.gpsRescueAngle[AngleRoll] {
		t.Fatalf("yawReversed changed the roll mix: %v vs %v",
			reversed.gpsRescueAngle[AngleRoll], normal.gpsRescueAngle[AngleRoll])
	}
}
