package server

import (
	"log"
	"sync"

	"flightpath-rescue/internal/config"
	"flightpath-rescue/internal/mavlink"
	"flightpath-rescue/internal/rescue"
)

// Dependencies holds all shared dependencies for services.
type Dependencies struct {
	Config          *config.Config
	ProfileRegistry *config.RescueProfileRegistry
	Logger          *log.Logger
	MAVLinkClient   *mavlink.Client
	Controller      *rescue.Controller

	mu sync.RWMutex
}

// NewDependencies creates a new Dependencies instance.
func NewDependencies(cfg *config.Config) *Dependencies {
	logger := log.New(log.Writer(), "[flightpath-rescue] ", log.LstdFlags|log.Lshortfile)

	registryPath := cfg.Server.ProfileRegistryPath
	if registryPath == "" {
		registryPath = "./data/config/rescue-profiles.yaml"
	}

	registry, err := config.LoadRescueProfileRegistry(registryPath)
	if err != nil {
		logger.Printf("Warning: Could not load rescue profile registry: %v", err)
		registry = &config.RescueProfileRegistry{Profiles: []config.RescueProfile{}}
	} else {
		logger.Printf("Loaded rescue profile registry with %d profiles", len(registry.Profiles))
	}

	return &Dependencies{
		Config:          cfg,
		ProfileRegistry: registry,
		Logger:          logger,
	}
}

func (d *Dependencies) SetLogger(logger *log.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Logger = logger
}

func (d *Dependencies) GetLogger() *log.Logger {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.Logger
}

func (d *Dependencies) SetMAVLinkClient(client *mavlink.Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.MAVLinkClient = client
}

func (d *Dependencies) GetMAVLinkClient() *mavlink.Client {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.MAVLinkClient
}

func (d *Dependencies) HasMAVLinkClient() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.MAVLinkClient != nil
}

func (d *Dependencies) ClearMAVLinkClient() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.MAVLinkClient = nil
}

func (d *Dependencies) SetController(c *rescue.Controller) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Controller = c
}

func (d *Dependencies) GetController() *rescue.Controller {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.Controller
}

func (d *Dependencies) GetProfileRegistry() *config.RescueProfileRegistry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ProfileRegistry
}
