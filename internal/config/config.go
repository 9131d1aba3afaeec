package config

import (
	"fmt"

	"flightpath-rescue/internal/rescue"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	MAVLink MAVLinkConfig
	Logging LoggingConfig
	Rescue  rescue.Config
}

type ServerConfig struct {
	Host             string
	Port             int
	CORSOrigins      []string
	ProfileRegistryPath string // path to rescue-profiles.yaml
}

type MAVLinkConfig struct {
	DefaultPort     string
	DefaultBaudRate int
}

type LoggingConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "text"
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			CORSOrigins: []string{
				"http://localhost:5173",
				"http://localhost:3000",
			},
			ProfileRegistryPath: "./data/config/rescue-profiles.yaml",
		},
		MAVLink: MAVLinkConfig{
			DefaultPort:     "/dev/ttyUSB0",
			DefaultBaudRate: 57600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Rescue: rescue.DefaultConfig(),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Rescue.ThrottleMin >= c.Rescue.ThrottleMax {
		return fmt.Errorf("rescue.throttleMin (%v) must be less than rescue.throttleMax (%v)",
			c.Rescue.ThrottleMin, c.Rescue.ThrottleMax)
	}
	if c.Rescue.MaxRescueAngle <= 0 {
		return fmt.Errorf("rescue.maxRescueAngle must be positive")
	}

	return nil
}

// ServerAddr returns the server address as host:port.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
