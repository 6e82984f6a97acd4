// internal/httpserver/routes_history.go
//
// Read-only routes over the match history:
//   - GET /matches         → recent finished matches, newest first (?limit=N)
//   - GET /matches/{id}    → one match, 404 when unknown
//   - GET /leaderboard     → standings per player (?limit=N)

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/desmond0147/Battle-of-Wits/internal/game"
	"github.com/desmond0147/Battle-of-Wits/internal/store"
)

// mountHistory registers the history routes.
func (s *Server) mountHistory(r chi.Router) {
	r.Route("/matches", func(r chi.Router) {
		r.Get("/", s.handleRecent)
		r.Get("/{id}", s.handleMatch)
	})
	r.Get("/leaderboard", s.handleLeaderboard)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.Recent(r.Context(), queryLimit(r))
	if err != nil {
		log.Error().Err(err).Msg("recent matches")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if rows == nil {
		rows = []game.Result{}
	}
	_ = json.NewEncoder(w).Encode(rows)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("match", id).Msg("get match")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.Leaderboard(r.Context(), queryLimit(r))
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if rows == nil {
		rows = []store.Standing{}
	}
	_ = json.NewEncoder(w).Encode(rows)
}

// writeError sends {"error": code} with the given status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
