package rescue

// Config holds the GPS Rescue tuning surface.
// internal/config owns it: config.Config.Rescue starts from DefaultConfig()
// and is handed to NewController, and RescueProfile.Apply can overlay a
// YAML tuning profile onto a Config. No environment variable sets these
// fields, and the daemon does not apply a loaded profile to the Config it
// runs with. This package never reads configuration sources itself.
type Config struct {
	ThrottleP     float64
	ThrottleI     float64
	ThrottleD     float64
	ThrottleHover float64
	ThrottleMin   float64
	ThrottleMax   float64

	VelP          float64
	VelI          float64
	VelD          float64
	PitchCutoffHz float64
	YawP          float64
	RollMix       float64

	InitialAltitudeM       float64
	RescueAltitudeBufferM  float64
	TargetLandingAltitudeM float64
	DescendRate            float64 // cm/s
	AscendRate             float64 // cm/s
	DescentDistanceM       float64
	RescueGroundspeed      float64 // cm/s
	MaxRescueAngle         float64 // degrees

	AltitudeMode AltitudeMode

	SanityChecks SanityCheckMode

	UseMag                bool
	AllowArmingWithoutFix bool
	GPSSetHomePointOnce   bool
	MinRescueDth          float64 // meters
	DisarmThreshold       float64 // g's

	AltitudeDLpfHz float64

	YawReversed bool
}

// DefaultConfig mirrors Betaflight's shipped GPS Rescue defaults.
func DefaultConfig() Config {
	return Config{
		ThrottleP:     15,
		ThrottleI:     15,
		ThrottleD:     15,
		ThrottleHover: 1150,
		ThrottleMin:   1100,
		ThrottleMax:   1900,

		VelP:          8,
		VelI:          15,
		VelD:          45,
		PitchCutoffHz: 0.75,
		YawP:          40,
		RollMix:       100,

		InitialAltitudeM:       30,
		RescueAltitudeBufferM:  10,
		TargetLandingAltitudeM: 5,
		DescendRate:            150,
		AscendRate:             500,
		DescentDistanceM:       20,
		RescueGroundspeed:      400,
		MaxRescueAngle:         32,

		AltitudeMode: AltitudeModeMax,
		SanityChecks: SanityChecksOn,

		UseMag:                true,
		AllowArmingWithoutFix: false,
		GPSSetHomePointOnce:   false,
		MinRescueDth:          20,
		DisarmThreshold:       2.0,

		AltitudeDLpfHz: 1.0,

		YawReversed: false,
	}
}
