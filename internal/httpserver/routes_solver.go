// internal/httpserver/routes_solver.go
//
// The engine guesses a secret only the client knows.
//   - POST   /solver/new      → start an engine, returns its first guess
//   - POST   /solver/feedback → black/white for the last guess, returns the next
//   - POST   /solver/undo     → take back the last accepted score
//   - GET    /solver/{id}     → the engine's knowledge so far
//   - DELETE /solver/{id}     → drop the session
//
// Feedback the engine cannot reconcile with what it already knows is
// answered with 422 and the engine rolls back to before that feedback, so
// the client can correct a mistyped score.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/brain"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/metrics"
	"github.com/robalobadob/mastermind/internal/store"
)

func (s *Server) mountSolver(r chi.Router) {
	r.Route("/solver", func(r chi.Router) {
		r.Post("/new", s.handleSolverNew)
		r.Post("/feedback", s.handleSolverFeedback)
		r.Post("/undo", s.handleSolverUndo)
		r.Get("/{id}", s.handleSolverState)
		r.Delete("/{id}", s.handleSolverDelete)
	})
}

type solverNewReq struct {
	Length   int `json:"length"`
	Elements int `json:"elements"`
}

type solverRes struct {
	SolverID string        `json:"solverId"`
	Guess    game.Sequence `json:"guess,omitempty"`
	Round    int           `json:"round"`
	Solved   bool          `json:"solved"`
}

func (s *Server) handleSolverNew(w http.ResponseWriter, r *http.Request) {
	var req solverNewReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	length, domain, err := s.sizeOptions(req.Length, req.Elements)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := brain.New(brain.Config{Length: length, Domain: domain})
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	guess, err := b.NextGuess()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "engine_error")
		return
	}

	owner, guest := s.ownerID(w, r)
	sess := &store.Session{ID: newID(), Kind: store.KindSolver, Brain: b, Good: b.Snapshot(), Owner: owner, Guest: guest}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	metrics.GameStarted(metrics.ModeSolver)
	log.Info().Str("solverId", sess.ID).Int("length", length).Int("elements", len(domain)).Msg("solver created")

	writeJSON(w, http.StatusOK, solverRes{SolverID: sess.ID, Guess: guess, Round: 1})
}

type feedbackReq struct {
	SolverID string `json:"solverId"`
	Black    int    `json:"black"`
	White    int    `json:"white"`
}

func (s *Server) handleSolverFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.solverSession(w, r, req.SolverID)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()
	b := sess.Brain

	if b.Solved() {
		writeErr(w, http.StatusConflict, "already_solved")
		return
	}
	sc := game.Score{Position: req.Black, ValueOnly: req.White}
	good := b.Snapshot()
	log.Debug().Str("solverId", sess.ID).Int("round", b.Rounds()+1).Int("black", sc.Position).Int("white", sc.ValueOnly).Msg("feedback")

	if err := b.Update(sc); err != nil {
		s.rejectFeedback(w, sess, good, err)
		return
	}
	if b.Solved() {
		sess.Good = good
		metrics.GameFinished(metrics.ModeSolver, true, b.Rounds())
		log.Info().Str("solverId", sess.ID).Int("rounds", b.Rounds()).Msg("solver finished")
		writeJSON(w, http.StatusOK, solverRes{SolverID: sess.ID, Round: b.Rounds(), Solved: true})
		return
	}
	guess, err := b.NextGuess()
	if err != nil {
		// no secret over the domain fits every score so far
		s.rejectFeedback(w, sess, good, err)
		return
	}
	sess.Good = good
	writeJSON(w, http.StatusOK, solverRes{SolverID: sess.ID, Guess: guess, Round: b.Rounds() + 1})
}

// rejectFeedback rolls the engine back to good and answers with the guess
// that is still waiting for a valid score.
func (s *Server) rejectFeedback(w http.ResponseWriter, sess *store.Session, good brain.Snapshot, cause error) {
	b := sess.Brain
	b.Restore(good)
	guess, _ := b.NextGuess()

	status := http.StatusUnprocessableEntity
	code := "contradiction"
	if errors.Is(cause, brain.ErrInvalidScore) {
		status, code = http.StatusBadRequest, "invalid_score"
	} else {
		metrics.Contradiction(metrics.ModeSolver)
	}
	log.Warn().Err(cause).Str("solverId", sess.ID).Msg("feedback rejected")
	writeJSON(w, status, map[string]any{
		"error":  code,
		"detail": cause.Error(),
		"guess":  guess,
		"round":  b.Rounds() + 1,
	})
}

type undoReq struct {
	SolverID string `json:"solverId"`
}

// handleSolverUndo restores the engine to before the last accepted score.
// Only one level is kept; a second undo in a row changes nothing.
func (s *Server) handleSolverUndo(w http.ResponseWriter, r *http.Request) {
	var req undoReq
	if err := decode(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, ok := s.solverSession(w, r, req.SolverID)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()
	b := sess.Brain

	b.Restore(sess.Good)
	guess, err := b.NextGuess()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "engine_error")
		return
	}
	writeJSON(w, http.StatusOK, solverRes{SolverID: sess.ID, Guess: guess, Round: b.Rounds() + 1})
}

type solverStateRes struct {
	SolverID    string            `json:"solverId"`
	Length      int               `json:"length"`
	Domain      []game.Element    `json:"domain"`
	Rounds      int               `json:"rounds"`
	Solved      bool              `json:"solved"`
	Inferences  []brain.Inference `json:"inferences"`
	Considering *game.Element     `json:"considering,omitempty"`
	Fixing      *brain.Inference  `json:"fixing,omitempty"`
}

func (s *Server) handleSolverState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.solverSession(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()
	b := sess.Brain

	res := solverStateRes{
		SolverID:   sess.ID,
		Length:     b.Length(),
		Domain:     b.Domain(),
		Rounds:     b.Rounds(),
		Solved:     b.Solved(),
		Inferences: b.Inferences(),
	}
	if e, ok := b.Considering(); ok {
		res.Considering = &e
	}
	if inf, ok := b.Fixing(); ok {
		res.Fixing = &inf
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSolverDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	metrics.SetLiveSessions(s.sessions.Len())
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) solverSession(w http.ResponseWriter, r *http.Request, id string) (*store.Session, bool) {
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil || sess.Kind != store.KindSolver {
		writeErr(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return sess, true
}
