package mavlink

import (
	"fmt"
	"time"

	"github.com/bluenviron/gomavlib/v3/pkg/dialects/common"

	"flightpath-rescue/internal/rescue"
)

// SetArmingDisabled implements rescue.Actuator: an aborting rescue
// disables arming outright rather than merely disarming, so the pilot
// can't immediately re-arm into the same failure.
func (c *Client) SetArmingDisabled(disabled bool) {
	c.mu.RLock()
	systemID := c.systemID
	c.mu.RUnlock()

	param1 := float32(0)
	if disabled {
		param1 = 1
	}
	if err := c.node.WriteMessageAll(&common.MessageCommandLong{
		TargetSystem:    systemID,
		TargetComponent: 1,
		Command:         common.MAV_CMD_DO_FLIGHTTERMINATION,
		Param1:          param1,
	}); err != nil {
		c.logger.Printf("MAVLink: failed to set arming-disabled=%v: %v", disabled, err)
	}
}

// disarmReasonText gives each rescue.DisarmReason a human-readable tag for
// the STATUSTEXT-equivalent log line; MAVLink's COMPONENT_ARM_DISARM
// command carries no reason code of its own.
func disarmReasonText(reason rescue.DisarmReason) string {
	switch reason {
	case rescue.DisarmReasonGPSRescue:
		return "gps_rescue"
	case rescue.DisarmReasonFailsafe:
		return "failsafe"
	case rescue.DisarmReasonCrashProtection:
		return "crash_protection"
	default:
		return "unknown"
	}
}

// Disarm implements rescue.Actuator.
func (c *Client) Disarm(reason rescue.DisarmReason) {
	c.mu.RLock()
	systemID := c.systemID
	c.mu.RUnlock()

	c.logger.Printf("MAVLink: Sending DISARM command (reason=%s)", disarmReasonText(reason))

	if err := c.node.WriteMessageAll(&common.MessageCommandLong{
		TargetSystem:    systemID,
		TargetComponent: 1,
		Command:         common.MAV_CMD_COMPONENT_ARM_DISARM,
		Param1:          0,
		Param2:          21196, // magic "force" value PX4/ArduPilot both accept
	}); err != nil {
		c.logger.Printf("MAVLink: failed to disarm: %v", err)
	}
}

// Arm sends the arm command.
func (c *Client) Arm() error {
	c.mu.RLock()
	systemID := c.systemID
	c.mu.RUnlock()

	if !c.IsConnected() {
		return fmt.Errorf("not connected to autopilot")
	}

	return c.node.WriteMessageAll(&common.MessageCommandLong{
		TargetSystem:    systemID,
		TargetComponent: 1,
		Command:         common.MAV_CMD_COMPONENT_ARM_DISARM,
		Param1:          1,
	})
}

// SetMode sets the flight mode using PX4's custom_mode encoding.
func (c *Client) SetMode(px4MainMode, px4SubMode uint32) error {
	c.mu.RLock()
	systemID := c.systemID
	c.mu.RUnlock()

	if !c.IsConnected() {
		return fmt.Errorf("not connected to autopilot")
	}

	customMode := float32(px4MainMode<<16 | px4SubMode<<24)
	return c.node.WriteMessageAll(&common.MessageCommandLong{
		TargetSystem:    systemID,
		TargetComponent: 1,
		Command:         common.MAV_CMD_DO_SET_MODE,
		Param1:          float32(common.MAV_MODE_FLAG_CUSTOM_MODE_ENABLED),
		Param2:          customMode,
	})
}

// ActivateRescue switches the autopilot into its own AUTO.RTL mode, which
// the rescue controller treats as the rescue-mode flag being set.
func (c *Client) ActivateRescue() error {
	return c.SetMode(px4MainModeAuto, px4AutoModeRTL)
}

// CancelRescue switches back to position-hold, clearing the rescue-mode
// flag; the controller reverts to Idle on its next tick.
func (c *Client) CancelRescue() error {
	return c.SetMode(px4MainModePosctl, 0)
}

// Land sends the land command directly, independent of the rescue state
// machine.
func (c *Client) Land() error {
	c.mu.RLock()
	systemID := c.systemID
	c.mu.RUnlock()

	if !c.IsConnected() {
		return fmt.Errorf("not connected to autopilot")
	}

	return c.node.WriteMessageAll(&common.MessageCommandLong{
		TargetSystem:    systemID,
		TargetComponent: 1,
		Command:         common.MAV_CMD_NAV_LAND,
	})
}

// rcOverrideUsPerDegree converts a pitch/roll trim angle into RC_CHANNELS_OVERRIDE
// microseconds: a typical RC channel spans 1000-2000us over a +-45 degree stick
// deflection, i.e. 500us of half-range per 45 degrees.
const rcOverrideUsPerDegree = 500.0 / 45.0

// SendRescueSetpoint turns the rescue controller's per-tick outputs into a
// SET_ATTITUDE_TARGET command (thrust + body yaw rate) plus an
// RC_CHANNELS_OVERRIDE carrying the pitch/roll trim, for airframes whose
// autopilot firmware has no native offboard attitude input.
func (c *Client) SendRescueSetpoint(yawRateDegS, throttle01 float64, pitchAngleDeg100, rollAngleDeg100 float64) error {
	c.mu.RLock()
	systemID := c.systemID
	c.mu.RUnlock()

	if !c.IsConnected() {
		return fmt.Errorf("not connected to autopilot")
	}

	const typeMaskIgnoreAttitude = 0b00000011 // ignore body roll/pitch rates; the yaw rate below is used
	q := [4]float32{1, 0, 0, 0}               // identity quaternion; roll/pitch trim rides RC override instead

	err := c.node.WriteMessageAll(&common.MessageSetAttitudeTarget{
		TimeBootMs:      uint32(time.Now().UnixMilli()),
		TargetSystem:    systemID,
		TargetComponent: 1,
		TypeMask:        typeMaskIgnoreAttitude,
		Q:               q,
		BodyYawRate:     float32(yawRateDegS * 3.14159265 / 180),
		Thrust:          float32(throttle01),
	})
	if err != nil {
		return fmt.Errorf("failed to send SET_ATTITUDE_TARGET: %w", err)
	}

	pitchPWM := uint16(1500 + pitchAngleDeg100/100*rcOverrideUsPerDegree)
	rollPWM := uint16(1500 + rollAngleDeg100/100*rcOverrideUsPerDegree)
	return c.node.WriteMessageAll(&common.MessageRcChannelsOverride{
		TargetSystem:    systemID,
		TargetComponent: 1,
		Chan1Raw:        rollPWM,
		Chan2Raw:        pitchPWM,
	})
}
