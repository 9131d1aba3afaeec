package mavlink

import (
	"math"
	"time"

	"flightpath-rescue/internal/rescue"
)

// GPS implements rescue.Provider: combines the latched home fix with the
// latest GLOBAL_POSITION_INT/GPS_RAW_INT decode into the shape
// rescue.Sensors.sensorUpdate expects, clearing the new-packet edge flag
// once read so a stale tick doesn't re-trigger GPS-gated updates.
func (c *Client) GPS() rescue.GPSFix {
	c.mu.Lock()
	defer c.mu.Unlock()

	fix := rescue.GPSFix{
		Healthy:             c.telemetry.gpsHealthy,
		Has3DFix:            c.telemetry.gpsFixType >= 3,
		HasHomeFix:          c.home.latched,
		SatelliteCount:      c.telemetry.satelliteCount,
		GroundSpeedCmS:      c.telemetry.groundSpeedCmS,
		NewPacket:           c.telemetry.gpsPacketPending,
		DataIntervalSeconds: c.telemetry.gpsDataIntervalSec,
	}

	if c.home.latched {
		// Bearing is taken from the aircraft toward home, matching the
		// heading controller's errorAngle = yaw - directionToHome.
		distCm, bearingDeg10 := haversineDistanceBearing(
			c.telemetry.latDeg, c.telemetry.lonDeg, c.home.latDeg, c.home.lonDeg)
		fix.DistanceToHomeCm = distCm
		fix.DirectionToHomeDeg = bearingDeg10
	}

	c.telemetry.gpsPacketPending = false
	return fix
}

// AltitudeCm implements rescue.Provider.
func (c *Client) AltitudeCm() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.telemetry.altitudeCm
}

// YawDeg10 implements rescue.Provider.
func (c *Client) YawDeg10() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.telemetry.yawRad * 180 / math.Pi * 10
}

// CosTiltAngle implements rescue.Provider: the tilt angle between the
// airframe's thrust vector and vertical, derived from roll/pitch the way
// Betaflight computes cosTiltAngle from its attitude DCM.
func (c *Client) CosTiltAngle() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return math.Cos(c.telemetry.rollRad) * math.Cos(c.telemetry.pitchRad)
}

// Accel implements rescue.Provider.
func (c *Client) Accel() rescue.AccelRaw {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.telemetry.accel
}

// rcLinkTimeout is the RC_CHANNELS silence after which the receiver link
// counts as down even if the last message reported a usable RSSI.
const rcLinkTimeout = time.Second

// Mode implements rescue.Provider.
func (c *Client) Mode() rescue.ModeState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rxAlive := c.telemetry.rxReceivingSignal &&
		!c.telemetry.lastRCUpdate.IsZero() &&
		time.Since(c.telemetry.lastRCUpdate) < rcLinkTimeout

	return rescue.ModeState{
		RescueModeActive:  c.telemetry.rescueModeActive,
		Armed:             c.telemetry.armed,
		MagPresent:        c.telemetry.magPresent,
		CrashFlipActive:   c.telemetry.crashFlipActive,
		RXReceivingSignal: rxAlive,
	}
}

// PilotThrottle implements rescue.Provider: the raw stick value passed
// through unmodified while the rescue controller is Idle.
func (c *Client) PilotThrottle() uint16 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.telemetry.pilotThrottle
}
