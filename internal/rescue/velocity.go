package rescue

// computeVelocityPitch turns ground-speed-toward-home error into a
// pitch angle. The PID term only updates on ticks carrying a fresh GPS fix
// (GPS position updates arrive far slower than the task runs); the PT3
// upsample filter spreads that stepped output across the intervening
// 100 Hz ticks so the pitch command doesn't jump.
func (c *Controller) computeVelocityPitch(gpsNew bool) {
	if gpsNew {
		s := c.state.Sensors.GPSDataIntervalSeconds * 10
		errV := c.state.Intent.TargetVelocityCmS - c.state.Sensors.VelocityToHomeCmS

		p := c.cfg.VelP * errV

		c.state.Intent.VelocityITermAccumulator += 0.01 * c.cfg.VelI * errV * s * c.state.Intent.VelocityItermRelax
		c.state.Intent.VelocityITermAccumulator *= clamp(c.state.Intent.ProximityToLandingArea, 0, 1)
		iLimit := 50 * c.state.Intent.PitchAngleLimitDeg
		c.state.Intent.VelocityITermAccumulator = clamp(c.state.Intent.VelocityITermAccumulator, -iLimit, iLimit)
		i := c.state.Intent.VelocityITermAccumulator

		var d float64
		if s > 0 {
			d = (errV - c.prevVelocityError) / s * c.cfg.VelD
		}
		c.prevVelocityError = errV

		cutoff := c.state.Intent.VelocityPidCutoff * c.state.Intent.VelocityPidCutoffModifier
		c.velocityDLpf.UpdateCutoff(PT1Gain(cutoff, c.state.Sensors.GPSRescueTaskIntervalSeconds))
		d = c.velocityDLpf.Apply(d)

		limit := 100 * c.state.Intent.PitchAngleLimitDeg
		c.pitchAdjustment = clamp(p+i+d, -limit, limit)
	}

	c.gpsRescueAngle[AnglePitch] = c.velocityUpsampleLpf.Apply(c.pitchAdjustment)
}
