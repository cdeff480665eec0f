package web

import (
	"net/http"

	"tabletop/models"
)

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.games.ListGames(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

type createGameRequest struct {
	Title                    string         `json:"title"`
	Price                    string         `json:"price"`
	ImageURL                 string         `json:"image_url"`
	EstimatedPlaytimeMinutes int            `json:"estimated_playtime_minutes"`
	Metadata                 map[string]any `json:"metadata"`
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	game, err := s.games.CreateGame(r.Context(), &models.Game{
		Title:                    req.Title,
		Price:                    req.Price,
		ImageURL:                 req.ImageURL,
		IsAvailable:              true,
		EstimatedPlaytimeMinutes: req.EstimatedPlaytimeMinutes,
		Metadata:                 req.Metadata,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, game)
}

type setAvailabilityRequest struct {
	Available bool `json:"available"`
}

func (s *Server) handleSetGameAvailability(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req setAvailabilityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	game, err := s.games.SetAvailability(r.Context(), gameID, req.Available)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}
