package rescue

import (
	"math"
	"time"
)

// normalizeAngle folds deg into (-180, 180], the range errorAngle must
// stay in after every sensor update.
func normalizeAngle(deg float64) float64 {
	for deg <= -180 {
		deg += 360
	}
	for deg > 180 {
		deg -= 360
	}
	return deg
}

// sensorUpdate recomputes the interval-normalized sensor view for this
// tick, refreshing GPS-derived quantities only on ticks where a new GPS
// packet arrived.
func (s *Sensors) sensorUpdate(now time.Time, gps GPSFix, altitudeCm, yawDeg10 float64, accel AccelRaw, phase Phase) {
	nowMicros := now.UnixMicro()
	if s.havePrevTick {
		s.AltitudeDataIntervalSeconds = float64(nowMicros-s.prevTickTime) * 1e-6
	} else {
		s.AltitudeDataIntervalSeconds = 0.01
	}
	s.prevTickTime = nowMicros
	s.havePrevTick = true

	s.CurrentAltitudeCm = altitudeCm
	s.Healthy = gps.Healthy

	if phase == PhaseLanding || phase == PhaseDoNothing {
		dz := accel.Z - accel.Acc1G
		if accel.Acc1G != 0 {
			s.AccMagnitude = math.Sqrt(dz*dz+accel.X*accel.X+accel.Y*accel.Y) / accel.Acc1G
		}
	}

	// DirectionToHome is held at its last good value across GPS gaps, so
	// the heading error stays valid between packets.
	s.ErrorAngle = normalizeAngle((yawDeg10 - s.DirectionToHome) / 10)
	s.AbsErrorAngle = math.Abs(s.ErrorAngle)

	if gps.NewPacket {
		s.DistanceToHomeCm = gps.DistanceToHomeCm
		s.DistanceToHomeM = gps.DistanceToHomeCm / 100
		s.GroundSpeedCmS = gps.GroundSpeedCmS
		s.DirectionToHome = gps.DirectionToHomeDeg
		s.GPSDataIntervalSeconds = gps.DataIntervalSeconds
		if s.GPSDataIntervalSeconds > 0 {
			s.VelocityToHomeCmS = (s.prevDistanceToHomeCm - s.DistanceToHomeCm) / s.GPSDataIntervalSeconds
		}
		s.prevDistanceToHomeCm = s.DistanceToHomeCm
	}
}
