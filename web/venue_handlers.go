package web

import (
	"net/http"

	"tabletop/models"
)

func (s *Server) handleGetVenue(w http.ResponseWriter, r *http.Request) {
	config, err := s.venue.GetConfig(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	occupancy, err := s.venue.Occupancy(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"config":             config,
		"occupancy":          occupancy,
		"available_capacity": config.AvailableCapacity(occupancy),
	})
}

type updateVenueRequest struct {
	MaxCapacity int `json:"max_capacity"`
	MaxTables   int `json:"max_tables"`
	OpenHour    int `json:"open_hour"`
	CloseHour   int `json:"close_hour"`
}

func (s *Server) handleUpdateVenue(w http.ResponseWriter, r *http.Request) {
	var req updateVenueRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	config, err := s.venue.UpdateConfig(r.Context(), &models.VenueConfig{
		MaxCapacity: req.MaxCapacity,
		MaxTables:   req.MaxTables,
		OpenHour:    req.OpenHour,
		CloseHour:   req.CloseHour,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, config)
}
