package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"tabletop/service"

	log "github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// writeError maps engine error kinds to distinct status codes. Anything
// that is not an engine kind is an internal failure and stays opaque.
func writeError(w http.ResponseWriter, err error) {
	var status int
	var kind string

	switch {
	case errors.Is(err, service.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrUnauthorized):
		status, kind = http.StatusForbidden, "unauthorized"
	case errors.Is(err, service.ErrIneligible):
		status, kind = http.StatusForbidden, "ineligible"
	case errors.Is(err, service.ErrInvalidParameters):
		status, kind = http.StatusBadRequest, "invalid_parameters"
	case errors.Is(err, service.ErrInvalidTransition):
		status, kind = http.StatusConflict, "invalid_transition"
	case errors.Is(err, service.ErrSessionFull):
		status, kind = http.StatusConflict, "session_full"
	case errors.Is(err, service.ErrDuplicateParticipant):
		status, kind = http.StatusConflict, "duplicate_participant"
	case errors.Is(err, service.ErrVenueAtCapacity):
		status, kind = http.StatusConflict, "venue_at_capacity"
	case errors.Is(err, service.ErrInsufficientPlayers):
		status, kind = http.StatusConflict, "insufficient_players"
	default:
		log.WithError(err).Error("Internal error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "internal error",
			Kind:  "internal",
		})
		return
	}

	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return service.ErrInvalidParameters
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrInvalidParameters
	}
	return id, nil
}
