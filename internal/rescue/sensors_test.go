package rescue

import (
	"testing"
	"time"
)

func TestNormalizeAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{181, -179},
		{-180, 180},
		{-181, 179},
		{360, 0},
		{540, 180},
	}
	for _, c := range cases {
		if got := normalizeAngle(c.in); got != c.want {
			t.Errorf("normalizeAngle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSensorUpdateRefreshesOnlyOnNewPacket(t *testing.T) {
	var s Sensors
	now := time.Unix(0, 0)

	gps := GPSFix{Healthy: true, NewPacket: true, DistanceToHomeCm: 10000, GroundSpeedCmS: 500, DirectionToHomeDeg: 1800, DataIntervalSeconds: 0.2}
	s.sensorUpdate(now, gps, 5000, 0, AccelRaw{}, PhaseFlyHome)
	if s.DistanceToHomeM != 100 {
		t.Fatalf("DistanceToHomeM = %v, want 100", s.DistanceToHomeM)
	}
	if s.DirectionToHome != 1800 {
		t.Fatalf("DirectionToHome = %v, want 1800", s.DirectionToHome)
	}

	staleGPS := gps
	staleGPS.NewPacket = false
	staleGPS.DistanceToHomeCm = 1     // should be ignored
	staleGPS.DirectionToHomeDeg = 900 // likewise
	s.sensorUpdate(now.Add(10*time.Millisecond), staleGPS, 5000, 0, AccelRaw{}, PhaseFlyHome)
	if s.DistanceToHomeM != 100 {
		t.Fatalf("stale tick overwrote DistanceToHomeM: got %v, want 100", s.DistanceToHomeM)
	}
	if s.DirectionToHome != gps.DirectionToHomeDeg {
		t.Fatalf("stale tick overwrote DirectionToHome: got %v, want %v", s.DirectionToHome, gps.DirectionToHomeDeg)
	}
}

func TestSensorUpdateAccMagnitudeOnlyDuringLandingOrDoNothing(t *testing.T) {
	var s Sensors
	now := time.Unix(0, 0)
	accel := AccelRaw{X: 0, Y: 0, Z: 2048, Acc1G: 1024}

	s.sensorUpdate(now, GPSFix{}, 0, 0, accel, PhaseFlyHome)
	if s.AccMagnitude != 0 {
		t.Fatalf("AccMagnitude computed outside Landing/DoNothing: got %v", s.AccMagnitude)
	}

	s.sensorUpdate(now.Add(time.Millisecond), GPSFix{}, 0, 0, accel, PhaseLanding)
	if s.AccMagnitude == 0 {
		t.Fatalf("AccMagnitude not computed during Landing")
	}
}

func TestSensorUpdateErrorAngleNormalized(t *testing.T) {
	var s Sensors
	now := time.Unix(0, 0)

	// Latch a 360 degree direction-to-home, then recompute the heading
	// error from the held value on the following tick.
	s.sensorUpdate(now, GPSFix{NewPacket: true, DirectionToHomeDeg: 3600, DataIntervalSeconds: 0.2}, 0, 0, AccelRaw{}, PhaseIdle)
	s.sensorUpdate(now.Add(10*time.Millisecond), GPSFix{}, 0, 0, AccelRaw{}, PhaseIdle)

	if s.ErrorAngle <= -180 || s.ErrorAngle > 180 {
		t.Fatalf("ErrorAngle out of range: %v", s.ErrorAngle)
	}
	if s.ErrorAngle != 0 {
		t.Fatalf("ErrorAngle = %v for yaw 0 vs direction 360, want 0", s.ErrorAngle)
	}
}
