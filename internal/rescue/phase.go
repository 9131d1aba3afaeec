package rescue

import "time"

const landingHalfRadiusM = 10 // half of minRescueDth's typical 20 m default

// setPhase transitions to p.
func (c *Controller) setPhase(p Phase) {
	c.state.Phase = p
}

// stop returns the controller to Idle and clears everything a fresh rescue
// must not inherit. Reached from Abort, Complete, a cleared rescue-mode
// flag, a crash-flip disarm, and an impact disarm.
func (c *Controller) stop() {
	c.state.Phase = PhaseIdle
	c.state.Failure = FailureHealthy
	c.state.Intent.PitchAngleLimitDeg = 0
	c.state.Intent.RollAngleLimitDeg = 0
	c.gpsRescueAngle = [2]float64{}
	c.rescueYaw = 0
	c.pitchAdjustment = 0
}

// runPhaseMachine advances the rescue phase for this tick. Idle's
// return-altitude bookkeeping must run on every tick phase is Idle,
// independent of whether rescue mode is currently requested, so activation
// only changes the phase and always falls through into runPhaseBody.
func (c *Controller) runPhaseMachine(now time.Time, mode ModeState, gps GPSFix) {
	if !mode.RescueModeActive {
		if c.state.Phase != PhaseIdle {
			c.stop()
		}
	} else if c.state.Phase == PhaseIdle {
		c.state.SessionID = c.newSessionID()
		c.setPhase(PhaseInitialize)
	}
	c.runPhaseBody(now, mode, gps)
}

func (c *Controller) runPhaseBody(now time.Time, mode ModeState, gps GPSFix) {
	switch c.state.Phase {
	case PhaseIdle:
		c.doIdle(gps, mode)
	case PhaseInitialize:
		c.doInitialize(now, gps)
	case PhaseAttainAlt:
		c.doAttainAlt(now)
	case PhaseRotate:
		c.doRotate(now)
	case PhaseFlyHome:
		c.doFlyHome(now, gps)
	case PhaseDescent:
		c.doDescent(now, gps)
	case PhaseLanding:
		c.doLanding(now, gps)
	case PhaseDoNothing:
		c.doDoNothing(now)
	case PhaseAbort:
		c.doAbort()
	case PhaseComplete:
		c.stop()
	}
}

func (c *Controller) doIdle(gps GPSFix, mode ModeState) {
	if (mode.Armed || c.cfg.GPSSetHomePointOnce) && c.state.Sensors.CurrentAltitudeCm > c.state.Intent.MaxAltitudeCm {
		c.state.Intent.MaxAltitudeCm = c.state.Sensors.CurrentAltitudeCm
	}
	if gps.NewPacket {
		switch c.cfg.AltitudeMode {
		case AltitudeModeFixed:
			c.state.Intent.ReturnAltitudeCm = c.cfg.InitialAltitudeM * 100
		case AltitudeModeCurrent:
			c.state.Intent.ReturnAltitudeCm = c.state.Sensors.CurrentAltitudeCm + c.cfg.RescueAltitudeBufferM*100
		case AltitudeModeMax:
			c.state.Intent.ReturnAltitudeCm = c.state.Intent.MaxAltitudeCm + c.cfg.RescueAltitudeBufferM*100
		}
		c.state.Intent.DescentDistanceM = clamp(c.state.Sensors.DistanceToHomeM, 5, c.cfg.DescentDistanceM)
	}
	c.state.Intent.TargetAltitudeCm = c.state.Sensors.CurrentAltitudeCm
}

func (c *Controller) doInitialize(now time.Time, gps GPSFix) {
	c.state.Intent.VelocityITermAccumulator = 0
	c.throttleIAccum = 0
	c.prevAltitudeError = 0
	c.prevVelocityError = 0
	c.velocityDLpf.Reset()
	c.velocityUpsampleLpf.Reset()
	c.state.Intent.VelocityPidCutoff = c.cfg.PitchCutoffHz
	c.state.Intent.VelocityPidCutoffModifier = 1
	c.state.Intent.YawAttenuator = 0
	c.state.Intent.VelocityItermRelax = 0
	c.state.Intent.ProximityToLandingArea = 0
	c.state.Intent.PitchAngleLimitDeg = 0
	c.state.Intent.RollAngleLimitDeg = 0

	if !gps.HasHomeFix {
		c.state.Failure = FailureNoHomePoint
		return
	}

	dth := c.state.Sensors.DistanceToHomeM
	if dth <= c.cfg.MinRescueDth {
		if dth <= 5 && c.state.Sensors.CurrentAltitudeCm < c.cfg.TargetLandingAltitudeM*100 {
			c.state.Failure = FailureTooClose
			c.setPhase(PhaseAbort)
			return
		}
		c.state.Intent.TargetVelocityCmS = 0
		c.state.Intent.PitchAngleLimitDeg = 0
		c.state.Intent.RollAngleLimitDeg = 0
		c.state.Intent.TargetLandingAltitudeCm = c.cfg.TargetLandingAltitudeM * 100
		c.setPhase(PhaseLanding)
		return
	}

	c.state.Intent.TargetLandingAltitudeCm = c.cfg.TargetLandingAltitudeM * 100
	c.state.Intent.initialAltitudeLow = c.state.Sensors.CurrentAltitudeCm < c.state.Intent.ReturnAltitudeCm
	c.setPhase(PhaseAttainAlt)
}

func (c *Controller) doAttainAlt(now time.Time) {
	rate := c.cfg.AscendRate
	if !c.state.Intent.initialAltitudeLow {
		rate = -c.cfg.DescendRate
	}
	c.state.Intent.TargetAltitudeCm += rate * c.state.Sensors.GPSRescueTaskIntervalSeconds

	currentAltitudeLow := c.state.Sensors.CurrentAltitudeCm < c.state.Intent.ReturnAltitudeCm
	if currentAltitudeLow != c.state.Intent.initialAltitudeLow {
		c.state.Intent.TargetAltitudeCm = c.state.Intent.ReturnAltitudeCm
		c.setPhase(PhaseRotate)
	}
}

func (c *Controller) doRotate(now time.Time) {
	dt := c.state.Sensors.GPSRescueTaskIntervalSeconds
	c.state.Intent.YawAttenuator = clamp(c.state.Intent.YawAttenuator+dt, 0, 1)

	if c.state.Sensors.AbsErrorAngle < 30 {
		c.state.Intent.PitchAngleLimitDeg = c.cfg.MaxRescueAngle
		c.state.Intent.ProximityToLandingArea = 1
		c.state.Intent.initialVelocityLow = c.state.Sensors.VelocityToHomeCmS < c.cfg.RescueGroundspeed
		c.setPhase(PhaseFlyHome)
	}
}

func (c *Controller) doFlyHome(now time.Time, gps GPSFix) {
	dt := c.state.Sensors.GPSRescueTaskIntervalSeconds
	c.state.Intent.YawAttenuator = clamp(c.state.Intent.YawAttenuator+dt, 0, 1)

	c.state.Intent.TargetVelocityCmS += (c.cfg.RescueGroundspeed - c.state.Intent.TargetVelocityCmS) * dt
	c.state.Intent.VelocityItermRelax += (1 - c.state.Intent.VelocityItermRelax) * dt / 2

	c.state.Intent.VelocityPidCutoffModifier = 2 - c.state.Intent.VelocityItermRelax
	c.state.Intent.RollAngleLimitDeg = 0.5 * c.state.Intent.VelocityItermRelax * c.cfg.MaxRescueAngle

	if gps.NewPacket && c.state.Sensors.DistanceToHomeM <= c.state.Intent.DescentDistanceM {
		c.setPhase(PhaseDescent)
	}
}

// descend is the altitude/velocity stepping shared by Descent and Landing.
func (c *Controller) descend(gps GPSFix) {
	if gps.NewPacket {
		c.state.Intent.ProximityToLandingArea = clamp(
			(c.state.Sensors.DistanceToHomeM-landingHalfRadiusM)/c.state.Intent.DescentDistanceM, 0, 1)
		c.state.Intent.VelocityPidCutoffModifier = 2.5 - c.state.Intent.ProximityToLandingArea
		c.state.Intent.TargetVelocityCmS = c.cfg.RescueGroundspeed * c.state.Intent.ProximityToLandingArea
		c.state.Intent.RollAngleLimitDeg = c.cfg.MaxRescueAngle * c.state.Intent.ProximityToLandingArea
	}

	dh := -c.state.Sensors.AltitudeDataIntervalSeconds * c.cfg.DescendRate
	if c.state.Intent.ReturnAltitudeCm < 2000 {
		dh *= c.state.Intent.ReturnAltitudeCm / 2000
	}
	c.state.Intent.DescentRateModifier = clamp(c.state.Intent.TargetAltitudeCm/5000, 0, 1)
	c.state.Intent.AltitudeStep = dh * (1 + 2*c.state.Intent.DescentRateModifier)
	c.state.Intent.TargetAltitudeCm += c.state.Intent.AltitudeStep
}

func (c *Controller) doDescent(now time.Time, gps GPSFix) {
	c.descend(gps)
	if c.state.Sensors.CurrentAltitudeCm < c.state.Intent.TargetLandingAltitudeCm {
		c.setPhase(PhaseLanding)
	}
}

func (c *Controller) doLanding(now time.Time, gps GPSFix) {
	c.descend(gps)
	c.disarmOnImpact()
}

func (c *Controller) doDoNothing(now time.Time) {
	c.state.Intent.PitchAngleLimitDeg = 0
	c.state.Intent.RollAngleLimitDeg = 0
	c.disarmOnImpact()
}

// disarmOnImpact runs during Landing and DoNothing: a hard stop reading on
// the accelerometer means the aircraft already hit the ground.
func (c *Controller) disarmOnImpact() {
	if c.state.Sensors.AccMagnitude > c.cfg.DisarmThreshold {
		c.actuator.Disarm(DisarmReasonGPSRescue)
		c.stop()
	}
}

func (c *Controller) doAbort() {
	c.actuator.SetArmingDisabled(true)
	c.actuator.Disarm(DisarmReasonFailsafe)
	c.state.Intent.SecondsFailing = 0
	c.stop()
}
