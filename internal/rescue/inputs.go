package rescue

// GPSFix is the snapshot the GPS driver hands to sensorUpdate each tick.
type GPSFix struct {
	Healthy             bool
	Has3DFix            bool
	HasHomeFix          bool
	SatelliteCount      int
	GroundSpeedCmS      uint16
	DistanceToHomeCm    float64
	DirectionToHomeDeg  float64 // bearing from the aircraft to home, degrees x10
	NewPacket           bool    // edge flag: a new GPS packet arrived since last tick
	DataIntervalSeconds float64
}

// AccelRaw is the raw accelerometer reading feeding the impact detector.
type AccelRaw struct {
	X, Y, Z float64 // accADC units
	Acc1G   float64 // acc_1G: counts per g
}

// ModeState is the flight-mode/arming/link snapshot read each tick.
type ModeState struct {
	RescueModeActive  bool
	Armed             bool
	MagPresent        bool
	CrashFlipActive   bool
	RXReceivingSignal bool
}

// Provider bundles every inbound telemetry source the controller reads,
// behind one interface handed to NewController and polled on every
// Controller.Update.
// internal/mavlink.Client implements this against a live vehicle; tests
// implement it with literal fixture values.
type Provider interface {
	GPS() GPSFix
	AltitudeCm() float64
	YawDeg10() float64
	CosTiltAngle() float64
	Accel() AccelRaw
	Mode() ModeState
	PilotThrottle() uint16
}

// Actuator is the outbound disarm/arming-lock surface. The phase machine
// and sanity supervisor call it directly; no other package should.
type Actuator interface {
	SetArmingDisabled(disabled bool)
	Disarm(reason DisarmReason)
}
