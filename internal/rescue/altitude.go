package rescue

// computeAltitudeThrottle turns altitude error into throttle, with
// a vertical-speed D term (boosted by descentRateModifier) and a tilt
// feed-forward that compensates for the lift lost to bank angle.
func (c *Controller) computeAltitudeThrottle(cosTilt float64) {
	dt := c.state.Sensors.AltitudeDataIntervalSeconds
	errM := (c.state.Intent.TargetAltitudeCm - c.state.Sensors.CurrentAltitudeCm) / 100

	p := c.cfg.ThrottleP * errM

	c.throttleIAccum += 0.1 * c.cfg.ThrottleI * errM * dt
	c.throttleIAccum = clamp(c.throttleIAccum, -200, 200)
	i := c.throttleIAccum

	var vs float64
	if dt > 0 {
		vs = (errM - c.prevAltitudeError) / dt
	}
	c.prevAltitudeError = errM
	vs *= 1 + c.state.Intent.DescentRateModifier

	c.throttleDLpf.UpdateCutoff(PT1Gain(c.cfg.AltitudeDLpfHz, dt))
	d := c.cfg.ThrottleD * c.throttleDLpf.Apply(vs)

	ff := (1 - cosTilt) * (c.cfg.ThrottleHover - 1000)

	c.rescueThrottle = clamp(c.cfg.ThrottleHover+p+i+d+ff, c.cfg.ThrottleMin, c.cfg.ThrottleMax)
}
