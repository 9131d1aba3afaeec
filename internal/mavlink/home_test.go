package mavlink

import (
	"io"
	"log"
	"math"
	"testing"
)

func newTestClient() *Client {
	return &Client{logger: log.New(io.Discard, "", 0)}
}

func TestHaversineDistanceEastOneMillidegree(t *testing.T) {
	// 0.001 deg of longitude at the equator is ~111.19 m.
	distCm, bearingDeg10 := haversineDistanceBearing(0, 0, 0, 0.001)

	wantCm := 11119.0
	if math.Abs(distCm-wantCm)/wantCm > 0.01 {
		t.Fatalf("distance = %v cm, want ~%v", distCm, wantCm)
	}
	if math.Abs(bearingDeg10-900) > 1 {
		t.Fatalf("bearing = %v deg10, want ~900 (due east)", bearingDeg10)
	}
}

func TestHaversineBearingNorthAndWrap(t *testing.T) {
	_, north := haversineDistanceBearing(0, 0, 0.001, 0)
	if math.Abs(north) > 1 && math.Abs(north-3600) > 1 {
		t.Fatalf("northward bearing = %v deg10, want ~0", north)
	}

	_, west := haversineDistanceBearing(0, 0.001, 0, 0)
	if math.Abs(west-2700) > 1 {
		t.Fatalf("westward bearing = %v deg10, want ~2700", west)
	}
}

func TestHomeLatchRequires3DFix(t *testing.T) {
	c := newTestClient()

	c.telemetry.gpsFixType = 2
	c.latchHomeLocked(47.0, 8.0)
	if c.home.latched {
		t.Fatalf("home latched on a 2D fix")
	}

	c.telemetry.gpsFixType = 3
	c.latchHomeLocked(47.0, 8.0)
	if !c.home.latched || c.home.latDeg != 47.0 {
		t.Fatalf("home not latched on the first 3D fix: %+v", c.home)
	}
}

func TestHomeDoesNotRelatchWhileArmed(t *testing.T) {
	c := newTestClient()
	c.telemetry.gpsFixType = 3
	c.latchHomeLocked(47.0, 8.0)

	c.telemetry.armed = true
	c.latchHomeLocked(48.0, 9.0)
	if c.home.latDeg != 47.0 || c.home.lonDeg != 8.0 {
		t.Fatalf("home moved while armed: %+v", c.home)
	}

	c.telemetry.armed = false
	c.latchHomeLocked(48.0, 9.0)
	if c.home.latDeg != 48.0 {
		t.Fatalf("home did not track the disarmed position: %+v", c.home)
	}
}

func TestHomeSetOncePinsFirstFix(t *testing.T) {
	c := newTestClient()
	c.SetHomePointOnce(true)
	c.telemetry.gpsFixType = 3

	c.latchHomeLocked(47.0, 8.0)
	c.latchHomeLocked(48.0, 9.0) // disarmed, would normally re-latch

	if c.home.latDeg != 47.0 || c.home.lonDeg != 8.0 {
		t.Fatalf("set-home-point-once home moved: %+v", c.home)
	}
}
