package rescue

import "time"

// sanityState is the supervisor's own bookkeeping between 1 Hz evaluations,
// kept separate from Sensors/Intent because none of it is meaningful to a
// controller or to an outside observer of State.
type sanityState struct {
	lastTick     time.Time
	haveLastTick bool

	prevAltitude       float64
	prevTargetAltitude float64
	prevDistanceToHome float64

	secondsLowSats      float64
	secondsStuck        float64
	secondsDoingNothing float64
}

// performSanityChecks runs every tick to react immediately to an
// already-flagged failure or a crash-flip event, and at
// 1 Hz to evaluate the flyaway/low-sat/stuck-altitude detectors that need a
// longer baseline than a single 100 Hz tick provides.
func (c *Controller) performSanityChecks(now time.Time, mode ModeState, gps GPSFix) {
	if c.state.Phase == PhaseIdle {
		c.state.Failure = FailureHealthy
		return
	}

	if c.state.Phase == PhaseInitialize {
		c.sanity.prevAltitude = c.state.Sensors.CurrentAltitudeCm
		c.sanity.prevTargetAltitude = c.state.Intent.TargetAltitudeCm
		c.sanity.prevDistanceToHome = c.state.Sensors.DistanceToHomeCm
		c.sanity.secondsLowSats = 0
		c.sanity.secondsStuck = 0
		c.sanity.secondsDoingNothing = 0
	}

	if mode.CrashFlipActive {
		c.state.Failure = FailureCrashFlipDetected
		c.actuator.Disarm(DisarmReasonCrashProtection)
		c.stop()
		return
	}

	if c.state.Failure != FailureHealthy {
		c.state.Phase = PhaseDoNothing
		switch c.cfg.SanityChecks {
		case SanityChecksOn:
			c.setPhase(PhaseAbort)
		case SanityChecksFsOnly:
			if !mode.RXReceivingSignal {
				c.setPhase(PhaseAbort)
			}
		}
		if mode.Armed && !gps.Has3DFix && !gps.HasHomeFix && !mode.RXReceivingSignal {
			c.setPhase(PhaseAbort)
		}
	}

	if !gps.Healthy {
		c.state.Failure = FailureGPSLost
	}

	if !c.sanity.haveLastTick || now.Sub(c.sanity.lastTick) >= time.Second {
		c.sanity.lastTick = now
		c.sanity.haveLastTick = true
		c.runOneHzSanity(now, mode, gps)
	}
}

func (c *Controller) runOneHzSanity(now time.Time, mode ModeState, gps GPSFix) {
	if c.state.Phase == PhaseFlyHome {
		closingRate := c.sanity.prevDistanceToHome - c.state.Sensors.DistanceToHomeCm
		if closingRate < 0.5*c.state.Intent.TargetVelocityCmS {
			c.state.Intent.SecondsFailing = clamp(c.state.Intent.SecondsFailing+1, 0, 15)
		} else {
			c.state.Intent.SecondsFailing = clamp(c.state.Intent.SecondsFailing-1, 0, 15)
		}
		if c.state.Intent.SecondsFailing >= 15 {
			if mode.MagPresent && c.cfg.UseMag && !c.magForceDisable {
				c.magForceDisable = true
				c.state.Intent.SecondsFailing = 0
			} else {
				c.state.Failure = FailureFlyaway
			}
		}
		c.sanity.prevDistanceToHome = c.state.Sensors.DistanceToHomeCm
	}

	if !gps.Has3DFix || gps.SatelliteCount < minSatelliteCount {
		c.sanity.secondsLowSats = clamp(c.sanity.secondsLowSats+1, 0, 10)
	} else {
		c.sanity.secondsLowSats = clamp(c.sanity.secondsLowSats-1, 0, 10)
	}
	if c.sanity.secondsLowSats >= 10 {
		c.state.Failure = FailureLowSats
	}

	var ratio float64 = 1
	dTarget := c.state.Intent.TargetAltitudeCm - c.sanity.prevTargetAltitude
	if dTarget != 0 {
		ratio = (c.state.Sensors.CurrentAltitudeCm - c.sanity.prevAltitude) / dTarget
	}

	switch c.state.Phase {
	case PhaseLanding:
		if ratio <= 0.5 {
			c.sanity.secondsStuck = clamp(c.sanity.secondsStuck+1, 0, 10)
		} else {
			c.sanity.secondsStuck = clamp(c.sanity.secondsStuck-1, 0, 10)
		}
		if c.sanity.secondsStuck >= 10 {
			c.state.Failure = FailureStalled
			c.setPhase(PhaseAbort)
		}
	case PhaseAttainAlt, PhaseDescent:
		if ratio <= 0.5 {
			c.sanity.secondsStuck = clamp(c.sanity.secondsStuck+1, 0, 10)
		} else {
			c.sanity.secondsStuck = clamp(c.sanity.secondsStuck-1, 0, 10)
		}
		if c.sanity.secondsStuck >= 10 {
			c.state.Intent.SecondsFailing = 0
			c.sanity.secondsStuck = 0
			c.setPhase(PhaseLanding)
		}
	case PhaseDoNothing:
		c.sanity.secondsDoingNothing++
		if c.sanity.secondsDoingNothing >= 20 {
			c.setPhase(PhaseAbort)
		}
	}

	c.sanity.prevAltitude = c.state.Sensors.CurrentAltitudeCm
	c.sanity.prevTargetAltitude = c.state.Intent.TargetAltitudeCm
}
