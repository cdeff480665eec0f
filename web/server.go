package web

import (
	"net/http"

	"tabletop/service"
)

// Server is the JSON surface over the engine. It owns no business rules;
// every route maps 1:1 to an engine operation and the caller's identity is
// an explicit user ID resolved by login.
type Server struct {
	sessions service.SessionService
	users    service.UserService
	venue    service.VenueService
	games    service.GameService
	ledger   service.LedgerService
}

// NewServer creates a new HTTP server over the given services
func NewServer(
	sessions service.SessionService,
	users service.UserService,
	venue service.VenueService,
	games service.GameService,
	ledger service.LedgerService,
) *Server {
	return &Server{
		sessions: sessions,
		users:    users,
		venue:    venue,
		games:    games,
		ledger:   ledger,
	}
}

// Handler returns the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("POST /api/sessions/{id}/join", s.handleJoinSession)
	mux.HandleFunc("POST /api/sessions/{id}/leave", s.handleLeaveSession)
	mux.HandleFunc("POST /api/sessions/{id}/start", s.handleStartSession)
	mux.HandleFunc("POST /api/sessions/{id}/complete", s.handleCompleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/cancel", s.handleCancelSession)

	mux.HandleFunc("GET /api/users", s.handleListUsers)
	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)
	mux.HandleFunc("GET /api/users/{id}/sessions", s.handleGetUserSessions)
	mux.HandleFunc("GET /api/users/{id}/ledger", s.handleGetUserLedger)
	mux.HandleFunc("GET /api/users/{id}/reconciliation", s.handleReconcileUser)
	mux.HandleFunc("POST /api/users/{id}/adjust", s.handleAdjustBalance)

	mux.HandleFunc("GET /api/venue", s.handleGetVenue)
	mux.HandleFunc("PUT /api/venue", s.handleUpdateVenue)

	mux.HandleFunc("GET /api/games", s.handleListGames)
	mux.HandleFunc("POST /api/games", s.handleCreateGame)
	mux.HandleFunc("PUT /api/games/{id}/availability", s.handleSetGameAvailability)

	return mux
}
