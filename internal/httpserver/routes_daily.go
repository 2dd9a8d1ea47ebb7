// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's game
//   - GET  /daily/leaderboard → best results for today (or a given date)
//
// Everyone gets the same secret on a UTC date, derived from date + salt, at
// the configured default size. Each player has one attempt per day, enforced
// by the database once the attempt is finished.
package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/metrics"
	"github.com/robalobadob/mastermind/internal/store"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv   *Server
	store *daily.Store
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]string // owner|date -> session id
}

func (s *Server) mountDaily(r chi.Router) {
	if s.daily == nil {
		return
	}
	d := &dailyServer{srv: s, store: s.daily, now: time.Now, sessions: map[string]string{}}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", d.handleNew)
		r.Post("/guess", d.handleGuess)
		r.Get("/leaderboard", d.handleLeaderboard)
	})
}

type dailyNewRes struct {
	GameID string         `json:"gameId,omitempty"`
	Date   string         `json:"date"`
	Played bool           `json:"played"`
	Length int            `json:"length"`
	Domain []game.Element `json:"domain"`
	Budget int            `json:"budget"`
}

// handleNew creates or reuses today's session for the caller.
//   - An attempt already recorded for today → Played=true, no game.
//   - Otherwise the live session for today is returned, or a new one.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	owner, _ := d.srv.ownerID(w, r)
	now := d.now()
	date := daily.DateKey(now)
	length, domain := d.srv.cfg.DefaultLength, game.DefaultDomain(d.srv.cfg.DefaultDomain)
	budget := game.DefaultBudget(length, len(domain))
	res := dailyNewRes{Date: date, Length: length, Domain: domain, Budget: budget}

	played, err := d.store.AlreadyPlayed(r.Context(), owner, date)
	if err != nil {
		log.Error().Err(err).Msg("daily already played")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		res.Played = true
		writeJSON(w, http.StatusOK, res)
		return
	}

	key := owner + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.sessions[key]; ok {
		if _, err := d.srv.sessions.Get(r.Context(), id); err == nil {
			res.GameID = id
			writeJSON(w, http.StatusOK, res)
			return
		}
	}

	g, err := game.New(game.Options{
		Length: length,
		Domain: domain,
		Budget: budget,
		Secret: daily.Secret(now, d.srv.cfg.DailySalt, length, domain),
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	sess := &store.Session{ID: g.ID, Kind: store.KindDaily, Game: g, Owner: owner}
	if err := d.srv.sessions.Save(r.Context(), sess); err != nil {
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.sessions[key] = g.ID
	metrics.GameStarted(metrics.ModeHuman)

	res.GameID = g.ID
	writeJSON(w, http.StatusOK, res)
}

// handleGuess scores a guess for today's session and records the attempt
// once it is finished, won or lost.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := d.srv.sessions.Get(r.Context(), req.GameID)
	if err != nil || sess.Kind != store.KindDaily {
		writeErr(w, http.StatusNotFound, "no_session")
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
	if g.Finished {
		writeErr(w, http.StatusConflict, "locked")
		return
	}
	sc, state, err := g.ApplyGuess(guess)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	res := guessRes{Score: sc, State: state, Turn: g.Turns(), Remaining: g.Remaining()}
	if g.Finished {
		res.Secret = g.Secret()
		metrics.GameFinished(metrics.ModeHuman, g.Won, g.Turns())
		if err := d.store.InsertResult(r.Context(), daily.Result{
			OwnerID:   sess.Owner,
			Date:      daily.DateKey(sess.Created),
			Guesses:   g.Turns(),
			Won:       g.Won,
			ElapsedMs: int(d.now().Sub(sess.Created).Milliseconds()),
		}); err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("record daily result")
		}
	}
	writeJSON(w, http.StatusOK, res)
}

type dailyBoardRes struct {
	Date string        `json:"date"`
	Top  []daily.Entry `json:"top"`
}

// handleLeaderboard returns the leaderboard for ?date= (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, dailyBoardRes{Date: date, Top: rows})
}
