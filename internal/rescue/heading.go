package rescue

import "math"

// computeHeadingYawRoll turns heading error into a yaw rate, with a
// roll-mix term that banks toward home and fades out as the error angle
// grows (turning on yaw alone when badly off-heading, banking once roughly
// pointed at home).
func (c *Controller) computeHeadingYawRoll() {
	yaw := c.state.Sensors.ErrorAngle * c.cfg.YawP * c.state.Intent.YawAttenuator * 0.1
	yaw = clamp(yaw, -180, 180)

	attenuator := clamp(1-math.Abs(yaw)*0.01, 0, 1)

	rollLimit := 100 * c.state.Intent.RollAngleLimitDeg
	rollAdjustment := -yaw * c.cfg.RollMix * attenuator
	c.gpsRescueAngle[AngleRoll] = clamp(rollAdjustment, -rollLimit, rollLimit)

	if c.cfg.YawReversed {
		yaw = -yaw
	}
	c.rescueYaw = yaw
}
