package server

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the Prometheus gauges an ops dashboard would watch during an
// autonomous return flight: phase/failure as enum gauges (one time series
// per possible value, set to 1 for the current value and 0 for the rest,
// the idiomatic Prometheus encoding for an enum), plus the raw controller
// outputs, the availability flag, the flyaway detector's secondsFailing
// counter, and the yaw-attenuator and landing-proximity schedules.
type Metrics struct {
	Phase                  *prometheus.GaugeVec
	Failure                *prometheus.GaugeVec
	SecondsFailing         prometheus.Gauge
	YawAttenuator          prometheus.Gauge
	ProximityToLandingArea prometheus.Gauge
	Throttle               prometheus.Gauge
	YawRate                prometheus.Gauge
	PitchAngle             prometheus.Gauge
	RollAngle              prometheus.Gauge
	Available              prometheus.Gauge
}

// NewMetrics registers the gauges against reg and returns the handle used
// to update them each tick.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Phase: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gps_rescue",
			Name:      "phase",
			Help:      "Current rescue phase (1 = active value, 0 = all others).",
		}, []string{"phase"}),
		Failure: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gps_rescue",
			Name:      "failure",
			Help:      "Current sanity-supervisor failure classification.",
		}, []string{"failure"}),
		SecondsFailing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gps_rescue", Name: "seconds_failing",
			Help: "Flyaway-detector running counter, seconds.",
		}),
		YawAttenuator: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gps_rescue", Name: "yaw_attenuator",
			Help: "Rotate/FlyHome yaw-rate ramp, 0-1.",
		}),
		ProximityToLandingArea: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gps_rescue", Name: "proximity_to_landing_area",
			Help: "Descent proximity fraction, 0-1.",
		}),
		Throttle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gps_rescue", Name: "throttle", Help: "Commanded throttle, 0-1.",
		}),
		YawRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gps_rescue", Name: "yaw_rate_deg_s", Help: "Commanded yaw rate, deg/s.",
		}),
		PitchAngle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gps_rescue", Name: "pitch_angle_deg100", Help: "Commanded pitch angle, deg x100.",
		}),
		RollAngle: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gps_rescue", Name: "roll_angle_deg100", Help: "Commanded roll angle, deg x100.",
		}),
		Available: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gps_rescue", Name: "available", Help: "1 if a rescue would currently be viable.",
		}),
	}

	reg.MustRegister(m.Phase, m.Failure, m.SecondsFailing, m.YawAttenuator,
		m.ProximityToLandingArea, m.Throttle, m.YawRate, m.PitchAngle, m.RollAngle, m.Available)

	return m
}

var allPhases = []string{
	"IDLE", "INITIALIZE", "ATTAIN_ALT", "ROTATE", "FLY_HOME",
	"DESCENT", "LANDING", "ABORT", "COMPLETE", "DO_NOTHING",
}

var allFailures = []string{
	"HEALTHY", "FLYAWAY", "GPS_LOST", "LOW_SATS", "CRASH_FLIP_DETECTED",
	"STALLED", "TOO_CLOSE", "NO_HOME_POINT",
}

// Observe updates every gauge from the controller's current state.
func (m *Metrics) Observe(phase, failure string, secondsFailing, yawAttenuator, proximity,
	throttle, yawRate, pitch, roll float64, available bool) {
	for _, p := range allPhases {
		v := 0.0
		if p == phase {
			v = 1
		}
		m.Phase.WithLabelValues(p).Set(v)
	}
	for _, f := range allFailures {
		v := 0.0
		if f == failure {
			v = 1
		}
		m.Failure.WithLabelValues(f).Set(v)
	}

	m.SecondsFailing.Set(secondsFailing)
	m.YawAttenuator.Set(yawAttenuator)
	m.ProximityToLandingArea.Set(proximity)
	m.Throttle.Set(throttle)
	m.YawRate.Set(yawRate)
	m.PitchAngle.Set(pitch)
	m.RollAngle.Set(roll)
	avail := 0.0
	if available {
		avail = 1
	}
	m.Available.Set(avail)
}
