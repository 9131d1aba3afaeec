// Package services wires internal/server's routes to internal/rescue and
// internal/mavlink: a plain JSON HTTP surface over the rescue domain.
package services

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"flightpath-rescue/internal/rescue"
	"flightpath-rescue/internal/server"
)

// RescueService handles the rescue status/activate/cancel/availability
// routes.
type RescueService struct {
	deps *server.Dependencies
}

// NewRescueService builds a RescueService over deps.
func NewRescueService(deps *server.Dependencies) *RescueService {
	return &RescueService{deps: deps}
}

// Register mounts every route this service owns onto r.
func (s *RescueService) Register(r chi.Router) {
	r.Get("/api/v1/rescue/status", s.Status)
	r.Get("/api/v1/rescue/availability", s.Availability)
	r.Post("/api/v1/rescue/activate", s.Activate)
	r.Post("/api/v1/rescue/cancel", s.Cancel)
}

type statusResponse struct {
	SessionID   string  `json:"session_id"`
	Phase       string  `json:"phase"`
	Failure     string  `json:"failure"`
	IsAvailable bool    `json:"is_available"`
	Throttle    float64 `json:"throttle"`
	YawRateDegS float64 `json:"yaw_rate_deg_s"`
	PitchDeg100 float64 `json:"pitch_deg100"`
	RollDeg100  float64 `json:"roll_deg100"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Status reports the controller's current externally observable state,
// read back by operator dashboards and ground-station clients.
func (s *RescueService) Status(w http.ResponseWriter, r *http.Request) {
	c := s.deps.GetController()
	if c == nil {
		writeError(w, http.StatusServiceUnavailable, "rescue controller not initialized")
		return
	}

	st := c.State()
	writeJSON(w, http.StatusOK, statusResponse{
		SessionID:   st.SessionID,
		Phase:       st.Phase.String(),
		Failure:     st.Failure.String(),
		IsAvailable: c.IsAvailable(),
		Throttle:    c.Throttle(),
		YawRateDegS: c.YawRate(),
		PitchDeg100: c.Angle(rescue.AnglePitch),
		RollDeg100:  c.Angle(rescue.AngleRoll),
	})
}

// Availability answers the OSD-style "would a rescue work right now"
// question, polled by whatever display the operator runs.
func (s *RescueService) Availability(w http.ResponseWriter, r *http.Request) {
	c := s.deps.GetController()
	if c == nil {
		writeError(w, http.StatusServiceUnavailable, "rescue controller not initialized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"available": c.IsAvailable(),
		"disabled":  c.IsDisabled(),
		"configured": c.IsConfigured(),
	})
}

// Activate is the HTTP equivalent of the pilot's rescue switch: it asks
// the autopilot to enter AUTO.RTL, which the rescue controller observes
// through Provider.Mode().RescueModeActive and reacts to on the next tick.
func (s *RescueService) Activate(w http.ResponseWriter, r *http.Request) {
	client := s.deps.GetMAVLinkClient()
	if client == nil {
		writeError(w, http.StatusServiceUnavailable, "no MAVLink connection")
		return
	}
	if err := client.ActivateRescue(); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "activating"})
}

// Cancel clears the rescue-mode flag by switching the autopilot back to
// position-hold; the controller reverts to Idle on its next tick.
func (s *RescueService) Cancel(w http.ResponseWriter, r *http.Request) {
	client := s.deps.GetMAVLinkClient()
	if client == nil {
		writeError(w, http.StatusServiceUnavailable, "no MAVLink connection")
		return
	}
	if err := client.CancelRescue(); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "canceling"})
}
