package rescue

import "time"

// availabilityState is the 1 Hz-gated latch backing checkAvailability,
// kept separate from the sanity supervisor's own 1 Hz gate
// since the two run on independent schedules and serve different
// consumers (OSD display vs. abort decisions).
type availabilityState struct {
	lastTick     time.Time
	haveLastTick bool

	noGPSFixLatch bool
	lowSatsTicks  float64
	cached        bool
}

// checkAvailability is a 1 Hz-gated, OSD-facing "would a
// rescue actually work right now" signal, cheap enough to poll every tick
// without re-running the full detector each time.
func (c *Controller) checkAvailability(now time.Time, gps GPSFix) bool {
	if !gps.Healthy || !gps.HasHomeFix {
		c.avail.cached = false
		return false
	}

	if !c.avail.haveLastTick || now.Sub(c.avail.lastTick) >= time.Second {
		c.avail.lastTick = now
		c.avail.haveLastTick = true

		c.avail.noGPSFixLatch = !gps.Has3DFix
		if !gps.Has3DFix || gps.SatelliteCount < minSatelliteCount {
			c.avail.lowSatsTicks = clamp(c.avail.lowSatsTicks+1, 0, 2)
		} else {
			c.avail.lowSatsTicks = clamp(c.avail.lowSatsTicks-1, 0, 2)
		}
		c.avail.cached = !c.avail.noGPSFixLatch && c.avail.lowSatsTicks < 2
	}

	return c.avail.cached
}
