package rescue

import (
	"log"
	"time"
)

// Controller is the composed GPS Rescue state machine: sensor ingestion,
// availability latch, phase machine, sanity supervisor, and the three
// controllers, bundled behind a single Update entry point. One Controller
// belongs to one aircraft.
type Controller struct {
	cfg          Config
	provider     Provider
	actuator     Actuator
	logger       *log.Logger
	newSessionID func() string

	state State

	lastLoggedPhase   Phase
	lastLoggedFailure Failure

	throttleDLpf        *PT2
	velocityDLpf        *PT1
	velocityUpsampleLpf *PT3

	rescueThrottle  float64
	rescueYaw       float64
	gpsRescueAngle  [2]float64
	pitchAdjustment float64

	throttleIAccum    float64
	prevAltitudeError float64
	prevVelocityError float64

	magForceDisable bool

	sanity sanityState
	avail  availabilityState
}

// velocityUpsampleCutoffHz smooths the stepped 1-10 Hz velocity PID output
// across the 100 Hz inner-loop ticks between GPS fixes. It is an artifact
// of running the velocity loop slower than the task itself, not a
// pilot-facing gain, so it is fixed rather than configurable.
const velocityUpsampleCutoffHz = 1.0

// nominalTaskIntervalSeconds seeds all three filters' initial gains before
// the first real tick interval is known. The throttle and velocity D
// filters are re-tuned from measured intervals as they run; the upsample
// filter keeps this gain.
const nominalTaskIntervalSeconds = 0.01

// NewController builds a Controller ready to receive Update calls. The
// caller's scheduler owns the clock: every Update receives the current
// monotonic time, so the controller itself never reads wall time. newID
// generates the opaque session identifier assigned whenever a rescue
// activates from Idle; callers typically pass google/uuid.NewString. A nil
// logger disables phase-transition logging.
func NewController(cfg Config, provider Provider, actuator Actuator, logger *log.Logger, newID func() string) *Controller {
	if newID == nil {
		newID = func() string { return "" }
	}
	c := &Controller{
		cfg:                 cfg,
		provider:            provider,
		actuator:            actuator,
		logger:              logger,
		newSessionID:        newID,
		throttleDLpf:        NewPT2(PT1Gain(cfg.AltitudeDLpfHz, nominalTaskIntervalSeconds)),
		velocityDLpf:        NewPT1(PT1Gain(cfg.PitchCutoffHz, nominalTaskIntervalSeconds)),
		velocityUpsampleLpf: NewPT3(PT1Gain(velocityUpsampleCutoffHz, nominalTaskIntervalSeconds)),
	}
	c.state.Intent.VelocityPidCutoff = cfg.PitchCutoffHz
	c.state.Intent.VelocityPidCutoffModifier = 1
	return c
}

// Update advances the controller by one tick: sensor ingest, availability,
// phase machine (may mutate intent), sanity (may override the phase
// machine's choice), then the three controllers compute outputs against
// whatever phase sanity settled on. Sanity runs after the phase machine so
// its downgrade decisions observe the phase's current choice.
func (c *Controller) Update(now time.Time) {
	mode := c.provider.Mode()
	gps := c.provider.GPS()
	altitude := c.provider.AltitudeCm()
	yaw := c.provider.YawDeg10()
	tilt := c.provider.CosTiltAngle()
	accel := c.provider.Accel()

	c.state.Sensors.sensorUpdate(now, gps, altitude, yaw, accel, c.state.Phase)
	// The scheduler runs this task at the same fixed rate the altitude
	// sample is taken at, so the two intervals coincide.
	c.state.Sensors.GPSRescueTaskIntervalSeconds = c.state.Sensors.AltitudeDataIntervalSeconds

	c.state.IsAvailable = c.checkAvailability(now, gps)

	c.runPhaseMachine(now, mode, gps)
	c.performSanityChecks(now, mode, gps)
	c.runControllers(tilt, gps.NewPacket)

	if c.logger != nil && (c.state.Phase != c.lastLoggedPhase || c.state.Failure != c.lastLoggedFailure) {
		c.logger.Printf("gps rescue: phase=%s failure=%s", c.state.Phase, c.state.Failure)
		c.lastLoggedPhase = c.state.Phase
		c.lastLoggedFailure = c.state.Failure
	}
}

func (c *Controller) runControllers(tilt float64, gpsNew bool) {
	switch c.state.Phase {
	case PhaseIdle:
		c.rescueThrottle = float64(c.provider.PilotThrottle())
		c.gpsRescueAngle = [2]float64{}
		c.rescueYaw = 0
	case PhaseDoNothing:
		c.gpsRescueAngle = [2]float64{}
		c.rescueYaw = 0
		c.rescueThrottle = c.cfg.ThrottleHover - 100
	default:
		c.computeAltitudeThrottle(tilt)
		c.computeHeadingYawRoll()
		c.computeVelocityPitch(gpsNew)
	}
}

// YawRate returns the commanded yaw rate in deg/s.
func (c *Controller) YawRate() float64 { return c.rescueYaw }

// Throttle rescales rescueThrottle from [max(throttleMin, PWM_MIN),
// PWM_MAX] to [0, 1], clamped.
func (c *Controller) Throttle() float64 {
	lo := c.cfg.ThrottleMin
	if lo < pwmMin {
		lo = pwmMin
	}
	hi := pwmMax
	if hi <= lo {
		return 0
	}
	return (clamp(c.rescueThrottle, lo, hi) - lo) / (hi - lo)
}

// Angle returns gpsRescueAngle[a] (degrees x100).
func (c *Controller) Angle(a Angle) float64 { return c.gpsRescueAngle[a] }

// IsConfigured reports whether the tunables required to run a rescue are
// sane (non-zero climb targets and bank limit).
func (c *Controller) IsConfigured() bool {
	return c.cfg.InitialAltitudeM > 0 && c.cfg.MaxRescueAngle > 0 && c.cfg.ThrottleHover > 0
}

// IsAvailable reports the 1 Hz-gated "would a rescue work right now"
// latch, refreshed every Update call.
func (c *Controller) IsAvailable() bool { return c.state.IsAvailable }

// IsDisabled reports whether the controller is configured in a way that
// makes it unusable regardless of current sensor health.
func (c *Controller) IsDisabled() bool { return !c.IsConfigured() }

// DisableMag permanently stops the flyaway detector from deferring to
// magnetometer disagreement: once tripped, a flyaway failure is no longer
// second-guessed.
func (c *Controller) DisableMag() { c.magForceDisable = true }

// State returns a copy of the current externally observable rescue state.
func (c *Controller) State() State { return c.state }
