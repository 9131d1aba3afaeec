package config

import (
	"os"
	"path/filepath"
	"testing"

	"flightpath-rescue/internal/rescue"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 0 }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"throttle min above max", func(c *Config) { c.Rescue.ThrottleMin = 2000; c.Rescue.ThrottleMax = 1100 }},
		{"non-positive rescue angle", func(c *Config) { c.Rescue.MaxRescueAngle = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("Validate accepted %s", tc.name)
			}
		})
	}
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("FLIGHTPATH_PORT", "9099")
	t.Setenv("FLIGHTPATH_MAVLINK_PORT", "/dev/ttyACM1")
	t.Setenv("FLIGHTPATH_LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Server.Port != 9099 {
		t.Fatalf("Server.Port = %d, want 9099", cfg.Server.Port)
	}
	if cfg.MAVLink.DefaultPort != "/dev/ttyACM1" {
		t.Fatalf("MAVLink.DefaultPort = %q, want /dev/ttyACM1", cfg.MAVLink.DefaultPort)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

const profilesYAML = `profiles:
  - id: longrange-7
    name: 7in long range
    throttle_hover: 1350
    max_rescue_angle: 45
    rescue_groundspeed: 750
    altitude_mode: fixed
    sanity_checks: fs_only
  - id: whoop-3
    name: 3in whoop
    descend_rate: 100
`

func writeProfiles(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rescue-profiles.yaml")
	if err := os.WriteFile(path, []byte(profilesYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRescueProfileRegistry(t *testing.T) {
	registry, err := LoadRescueProfileRegistry(writeProfiles(t))
	if err != nil {
		t.Fatalf("LoadRescueProfileRegistry: %v", err)
	}
	if len(registry.Profiles) != 2 {
		t.Fatalf("loaded %d profiles, want 2", len(registry.Profiles))
	}

	p, err := registry.FindProfile("longrange-7")
	if err != nil {
		t.Fatalf("FindProfile: %v", err)
	}
	if p.ThrottleHover != 1350 {
		t.Fatalf("ThrottleHover = %v, want 1350", p.ThrottleHover)
	}

	if _, err := registry.FindProfile("missing"); err == nil {
		t.Fatalf("FindProfile accepted an unknown id")
	}
}

func TestLoadRescueProfileRegistryMissingFile(t *testing.T) {
	if _, err := LoadRescueProfileRegistry(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected an error for a missing registry file")
	}
}

func TestProfileApplyOverlaysOntoDefaults(t *testing.T) {
	registry, err := LoadRescueProfileRegistry(writeProfiles(t))
	if err != nil {
		t.Fatal(err)
	}
	p, err := registry.FindProfile("longrange-7")
	if err != nil {
		t.Fatal(err)
	}

	base := rescue.DefaultConfig()
	cfg := p.Apply(base)

	if cfg.ThrottleHover != 1350 || cfg.MaxRescueAngle != 45 || cfg.RescueGroundspeed != 750 {
		t.Fatalf("profile overrides not applied: %+v", cfg)
	}
	if cfg.AltitudeMode != rescue.AltitudeModeFixed {
		t.Fatalf("AltitudeMode = %v, want Fixed", cfg.AltitudeMode)
	}
	if cfg.SanityChecks != rescue.SanityChecksFsOnly {
		t.Fatalf("SanityChecks = %v, want FsOnly", cfg.SanityChecks)
	}
	// Untouched fields keep the base values.
	if cfg.DescendRate != base.DescendRate || cfg.YawP != base.YawP {
		t.Fatalf("unset profile fields overwrote the base config: %+v", cfg)
	}
}
