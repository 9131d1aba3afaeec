package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"flightpath-rescue/internal/rescue"
)

// RescueProfile is one vehicle's tuning profile: an identifier plus the
// subset of rescue.Config fields worth overriding per-airframe (a heavy
// long-range quad and a 3" whoop do not share a hover throttle or max bank
// angle). Fields left at their zero value fall back to rescue.DefaultConfig().
type RescueProfile struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	ThrottleHover  float64 `yaml:"throttle_hover"`
	ThrottleMin    float64 `yaml:"throttle_min"`
	ThrottleMax    float64 `yaml:"throttle_max"`
	MaxRescueAngle float64 `yaml:"max_rescue_angle"`

	InitialAltitudeM       float64 `yaml:"initial_altitude_m"`
	RescueAltitudeBufferM  float64 `yaml:"rescue_altitude_buffer_m"`
	TargetLandingAltitudeM float64 `yaml:"target_landing_altitude_m"`
	DescendRate            float64 `yaml:"descend_rate"`
	AscendRate             float64 `yaml:"ascend_rate"`
	RescueGroundspeed      float64 `yaml:"rescue_groundspeed"`

	AltitudeMode string `yaml:"altitude_mode"` // "fixed" | "current" | "max"
	SanityChecks string `yaml:"sanity_checks"` // "off" | "on" | "fs_only"
}

// RescueProfileRegistry holds every configured vehicle's tuning profile.
type RescueProfileRegistry struct {
	Profiles []RescueProfile `yaml:"profiles"`
}

// LoadRescueProfileRegistry loads vehicle tuning profiles from a YAML file.
func LoadRescueProfileRegistry(path string) (*RescueProfileRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rescue profile registry: %w", err)
	}

	var registry RescueProfileRegistry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse rescue profile registry: %w", err)
	}

	return &registry, nil
}

// FindProfile finds a vehicle's tuning profile by ID.
func (r *RescueProfileRegistry) FindProfile(id string) (*RescueProfile, error) {
	for i := range r.Profiles {
		if r.Profiles[i].ID == id {
			return &r.Profiles[i], nil
		}
	}
	return nil, fmt.Errorf("rescue profile not found: %s", id)
}

// Apply overlays the profile's non-zero fields onto base, returning a new
// rescue.Config. base is typically rescue.DefaultConfig().
func (p *RescueProfile) Apply(base rescue.Config) rescue.Config {
	cfg := base

	if p.ThrottleHover != 0 {
		cfg.ThrottleHover = p.ThrottleHover
	}
	if p.ThrottleMin != 0 {
		cfg.ThrottleMin = p.ThrottleMin
	}
	if p.ThrottleMax != 0 {
		cfg.ThrottleMax = p.ThrottleMax
	}
	if p.MaxRescueAngle != 0 {
		cfg.MaxRescueAngle = p.MaxRescueAngle
	}
	if p.InitialAltitudeM != 0 {
		cfg.InitialAltitudeM = p.InitialAltitudeM
	}
	if p.RescueAltitudeBufferM != 0 {
		cfg.RescueAltitudeBufferM = p.RescueAltitudeBufferM
	}
	if p.TargetLandingAltitudeM != 0 {
		cfg.TargetLandingAltitudeM = p.TargetLandingAltitudeM
	}
	if p.DescendRate != 0 {
		cfg.DescendRate = p.DescendRate
	}
	if p.AscendRate != 0 {
		cfg.AscendRate = p.AscendRate
	}
	if p.RescueGroundspeed != 0 {
		cfg.RescueGroundspeed = p.RescueGroundspeed
	}

	switch p.AltitudeMode {
	case "fixed":
		cfg.AltitudeMode = rescue.AltitudeModeFixed
	case "current":
		cfg.AltitudeMode = rescue.AltitudeModeCurrent
	case "max":
		cfg.AltitudeMode = rescue.AltitudeModeMax
	}

	switch p.SanityChecks {
	case "off":
		cfg.SanityChecks = rescue.SanityChecksOff
	case "on":
		cfg.SanityChecks = rescue.SanityChecksOn
	case "fs_only":
		cfg.SanityChecks = rescue.SanityChecksFsOnly
	}

	return cfg
}
