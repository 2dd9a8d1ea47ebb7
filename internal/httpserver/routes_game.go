// internal/httpserver/routes_game.go
//
// Games against a server-held secret.
//   - POST /game/new   → create a session (random secret unless one is given)
//   - POST /game/guess → score a human guess
//   - POST /game/auto  → let the deduction engine play the whole game
//
// The secret is only revealed once the game is finished. Finished games are
// recorded in the result history, attributed to the session owner.
package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/brain"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/metrics"
	"github.com/robalobadob/mastermind/internal/player"
	"github.com/robalobadob/mastermind/internal/results"
	"github.com/robalobadob/mastermind/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Post("/game/guess", s.handleGuess)
	r.Post("/game/auto", s.handleAuto)
}

type newGameReq struct {
	Length   int    `json:"length"`
	Elements int    `json:"elements"`
	Budget   int    `json:"budget"`
	Secret   string `json:"secret"` // optional fixed secret (testing)
}

type newGameRes struct {
	GameID string         `json:"gameId"`
	Length int            `json:"length"`
	Domain []game.Element `json:"domain"`
	Budget int            `json:"budget"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	length, domain, err := s.sizeOptions(req.Length, req.Elements)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	opts := game.Options{Length: length, Domain: domain, Budget: req.Budget}
	if req.Secret != "" {
		if opts.Secret, err = game.ParseSequence(req.Secret); err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	g, err := game.New(opts)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	owner, guest := s.ownerID(w, r)
	sess := &store.Session{ID: g.ID, Kind: store.KindGame, Game: g, Owner: owner, Guest: guest}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save game")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	metrics.GameStarted(metrics.ModeHuman)
	metrics.SetLiveSessions(s.sessions.Len())
	log.Info().Str("gameId", g.ID).Int("length", g.Length).Int("elements", len(g.Domain)).Msg("game created")

	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Length: g.Length, Domain: g.Domain, Budget: g.Budget})
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type guessRes struct {
	Score     game.Score    `json:"score"`
	State     game.State    `json:"state"`
	Turn      int           `json:"turn"`
	Remaining int           `json:"remaining"`
	Secret    game.Sequence `json:"secret,omitempty"` // once finished
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.gameSession(w, r, req.GameID)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()
	g := sess.Game

	guess, err := game.ParseSequence(req.Guess)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	sc, state, err := g.ApplyGuess(guess)
	if errors.Is(err, game.ErrFinished) {
		writeErr(w, http.StatusConflict, "game_finished")
		return
	}
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Debug().Str("gameId", g.ID).Int("round", g.Turns()).Str("guess", guess.String()).
		Int("black", sc.Position).Int("white", sc.ValueOnly).Msg("guess")

	res := guessRes{Score: sc, State: state, Turn: g.Turns(), Remaining: g.Remaining()}
	if g.Finished {
		res.Secret = g.Secret()
		s.record(r.Context(), sess, results.PlayerHuman)
	}
	writeJSON(w, http.StatusOK, res)
}

type autoReq struct {
	GameID string `json:"gameId"`
}

func (s *Server) handleAuto(w http.ResponseWriter, r *http.Request) {
	var req autoReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.gameSession(w, r, req.GameID)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()
	g := sess.Game

	if g.Finished {
		writeErr(w, http.StatusConflict, "game_finished")
		return
	}
	if g.Turns() > 0 || sess.Brain != nil {
		writeErr(w, http.StatusConflict, "game_in_progress")
		return
	}
	b, err := brain.New(brain.Config{Length: g.Length, Domain: g.Domain})
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	sess.Brain = b
	metrics.GameStarted(metrics.ModeEngine)

	tr, err := player.Play(r.Context(), g, b, player.Options{Delay: s.cfg.AutoplayDelay})
	if err != nil {
		if r.Context().Err() != nil {
			// the game stays as far as it got; later guesses are refused
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "interrupted", "transcript": tr})
			return
		}
		log.Error().Err(err).Str("gameId", g.ID).Msg("autoplay")
		writeErr(w, http.StatusInternalServerError, "engine_error")
		return
	}
	s.record(r.Context(), sess, results.PlayerEngine)
	writeJSON(w, http.StatusOK, tr)
}

// gameSession looks up a game session, writing the error response when it
// is missing.
func (s *Server) gameSession(w http.ResponseWriter, r *http.Request, id string) (*store.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil || sess.Kind != store.KindGame {
		writeErr(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return sess, true
}

// record stores a finished game. Failures are logged, never surfaced.
func (s *Server) record(ctx context.Context, sess *store.Session, p results.Player) {
	g := sess.Game
	mode := metrics.ModeHuman
	if p == results.PlayerEngine {
		mode = metrics.ModeEngine
	}
	metrics.GameFinished(mode, g.Won, g.Turns())
	log.Info().Str("gameId", g.ID).Str("player", string(p)).Str("state", string(g.State())).
		Int("guesses", g.Turns()).Msg("game finished")

	if s.results == nil {
		return
	}
	res := results.Result{
		GameID:   g.ID,
		Player:   p,
		Length:   g.Length,
		Elements: len(g.Domain),
		Guesses:  g.Turns(),
		Won:      g.Won,
	}
	if sess.Guest {
		res.AnonymousID = sess.Owner
	} else {
		res.UserID = sess.Owner
	}
	if err := s.results.Insert(ctx, res); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("record result")
	}
}
