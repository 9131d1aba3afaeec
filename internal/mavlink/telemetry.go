package mavlink

import (
	"time"

	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"
)

// handleGlobalPosition processes GLOBAL_POSITION_INT: position, altitude,
// the GPS packet interval and new-packet edge flag, and home latching (via
// home.go). Distance/direction-to-home are computed from the latched home
// fix when GPS() is read.
func (c *Client) handleGlobalPosition(msg *common.MessageGlobalPositionInt) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if !c.telemetry.lastGPSUpdate.IsZero() {
		c.telemetry.gpsDataIntervalSec = now.Sub(c.telemetry.lastGPSUpdate).Seconds()
	}
	c.telemetry.lastGPSUpdate = now
	c.telemetry.gpsPacketPending = true

	c.telemetry.latDeg = float64(msg.Lat) / 1e7
	c.telemetry.lonDeg = float64(msg.Lon) / 1e7
	c.telemetry.altitudeCm = float64(msg.RelativeAlt) / 10 // mm -> cm

	c.latchHomeLocked(c.telemetry.latDeg, c.telemetry.lonDeg)
}

// handleAttitude processes ATTITUDE: yaw feeds heading error, roll/pitch
// feed the tilt-compensation term in the altitude controller.
func (c *Client) handleAttitude(msg *common.MessageAttitude) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.telemetry.rollRad = float64(msg.Roll)
	c.telemetry.pitchRad = float64(msg.Pitch)
	c.telemetry.yawRad = float64(msg.Yaw)
}

// handleHighresIMU processes HIGHRES_IMU: accelerometer readings used by
// the impact detector (disarmOnImpact) during Landing/DoNothing.
func (c *Client) handleHighresIMU(msg *common.MessageHighresImu) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// HIGHRES_IMU reports acceleration in m/s^2, not raw ADC counts; scale
	// against standard gravity so rescue.AccelRaw's Acc1G convention (a
	// "counts per g" divisor) still yields a magnitude in g's.
	const g = 9.80665
	c.telemetry.accel = AccelRawMps2(msg.Xacc, msg.Yacc, msg.Zacc, g)
}

// handleSysStatus processes SYS_STATUS: sensor health and, indirectly, a
// crash-flip/termination signal surfaced as an unhealthy attitude sensor.
func (c *Client) handleSysStatus(msg *common.MessageSysStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.telemetry.sensorsHealthy = (msg.OnboardControlSensorsHealth &
		msg.OnboardControlSensorsEnabled) == msg.OnboardControlSensorsEnabled

	const sensorMag = common.MAV_SYS_STATUS_SENSOR_3D_MAG
	c.telemetry.magPresent = msg.OnboardControlSensorsPresent&sensorMag != 0

	const sensorAttitude = common.MAV_SYS_STATUS_SENSOR_ANGULAR_RATE_CONTROL
	c.telemetry.crashFlipActive = msg.OnboardControlSensorsHealth&sensorAttitude == 0 &&
		msg.OnboardControlSensorsEnabled&sensorAttitude != 0
}

// handleGpsRaw processes GPS_RAW_INT: fix type, satellite count, ground
// speed, and the GPS-health flag the sanity supervisor and availability
// check both gate on.
func (c *Client) handleGpsRaw(msg *common.MessageGpsRawInt) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.telemetry.gpsFixType = uint8(msg.FixType)
	c.telemetry.satelliteCount = int(msg.SatellitesVisible)
	c.telemetry.groundSpeedCmS = msg.Vel
	c.telemetry.gpsHealthy = msg.FixType >= common.GPS_FIX_TYPE_3D_FIX
}

// handleRCChannels processes RC_CHANNELS: the pilot's raw throttle stick
// (passthrough while Idle) and an RX-link-alive signal the sanity
// supervisor's FsOnly policy checks.
func (c *Client) handleRCChannels(msg *common.MessageRcChannels) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.telemetry.pilotThrottle = msg.Chan3Raw // channel 3 is throttle by RC convention
	c.telemetry.lastRCUpdate = time.Now()
	c.telemetry.rxReceivingSignal = msg.Rssi != 0 && msg.Rssi != 255
}
