package mavlink

import (
	"math"

	"flightpath-rescue/internal/rescue"
)

// homeState tracks the latched home position. MAVLink's
// GLOBAL_POSITION_INT carries no distance/direction-to-home field, so this
// package computes both from a locally latched home fix.
type homeState struct {
	latched    bool
	latDeg     float64
	lonDeg     float64
	setOnce    bool // gpsSetHomePointOnce: latch exactly once, then never move
}

// latchHomeLocked sets the home fix the first time a 3D fix is seen, or
// every subsequent disarmed update if setOnce is false. Caller holds c.mu.
func (c *Client) latchHomeLocked(latDeg, lonDeg float64) {
	if c.home.latched && c.home.setOnce {
		return
	}
	if c.telemetry.gpsFixType < 3 { // GPS_FIX_TYPE_3D_FIX
		return
	}
	if c.home.latched && c.telemetry.armed {
		return // only re-latch while disarmed, unless this is the first ever fix
	}
	c.home.latDeg = latDeg
	c.home.lonDeg = lonDeg
	c.home.latched = true
}

// SetHomePointOnce configures whether the home fix latches permanently on
// first 3D fix (true) or continues tracking the current position while
// disarmed (false), mirroring rescue.Config.GPSSetHomePointOnce.
func (c *Client) SetHomePointOnce(once bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.home.setOnce = once
}

const earthRadiusCm = 6371000.0 * 100

// haversineDistanceBearing returns the great-circle distance (cm) and
// initial bearing (degrees x10, 0-3599) from (lat1,lon1) to (lat2,lon2).
func haversineDistanceBearing(lat1, lon1, lat2, lon2 float64) (distanceCm, bearingDeg10 float64) {
	rad := math.Pi / 180
	phi1, phi2 := lat1*rad, lat2*rad
	dPhi := (lat2 - lat1) * rad
	dLambda := (lon2 - lon1) * rad

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	d := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	distanceCm = earthRadiusCm * d

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	bearing := math.Atan2(y, x) / rad
	if bearing < 0 {
		bearing += 360
	}
	bearingDeg10 = bearing * 10

	return distanceCm, bearingDeg10
}

// AccelRawMps2 converts HIGHRES_IMU's m/s^2 accelerometer readings into the
// rescue.AccelRaw shape, which expects a "counts per g" divisor (Acc1G) so
// the magnitude formula in rescue.Sensors.sensorUpdate stays unitless
// regardless of the flight controller's native accelerometer scale.
func AccelRawMps2(xMps2, yMps2, zMps2 float32, g float64) rescue.AccelRaw {
	return rescue.AccelRaw{
		X:     float64(xMps2),
		Y:     float64(yMps2),
		Z:     float64(zMps2),
		Acc1G: g,
	}
}
