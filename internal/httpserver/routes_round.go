// internal/httpserver/routes_round.go
//
// JSON routes for the scrambling activity, mounted under /api:
//   - GET  /api/catalog          → tiers, labels and sentences
//   - GET  /api/round            → current session view
//   - POST /api/round/new        → choose a sentence and scramble it
//   - POST /api/round/answer     → check a student's answer (no state change)
//   - POST /api/round/reveal     → show the original sentence
//   - GET  /api/round/worksheet  → print-friendly worksheet
//
// The original sentence is only included in the view once the round is revealed.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/scrambler/internal/catalog"
	"github.com/robalobadob/scrambler/internal/round"
	"github.com/robalobadob/scrambler/internal/worksheet"
)

// mountRound registers all /api routes.
func (s *Server) mountRound(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Get("/round", s.handleGetRound)
		r.Post("/round/new", s.handleNewRound)
		r.Post("/round/answer", s.handleAnswer)
		r.Post("/round/reveal", s.handleReveal)
		r.Get("/round/worksheet", s.handleWorksheet)
	})
}

// -----------------------------------------------------------------------------
// views

type historyItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Short string `json:"short"`
}

type roundView struct {
	Phase       round.Phase   `json:"phase"`
	Tier        catalog.Tier  `json:"tier"`
	TierLabel   string        `json:"tierLabel"`
	RoundID     string        `json:"roundId,omitempty"`
	Words       []string      `json:"words"`
	Punctuation []string      `json:"punctuation"`
	Original    string        `json:"original,omitempty"`
	History     []historyItem `json:"history"`
}

// viewOf renders a session for clients.
func (s *Server) viewOf(sess round.Session) roundView {
	v := roundView{
		Phase:       sess.Phase(),
		Tier:        sess.Tier,
		TierLabel:   s.engine.Catalog.Label(sess.Tier),
		Words:       []string{},
		Punctuation: []string{},
		History:     []historyItem{},
	}
	if r := sess.Round; r != nil {
		v.RoundID = r.ID
		v.Tier = r.Tier
		v.TierLabel = s.engine.Catalog.Label(r.Tier)
		v.Words = append(v.Words, r.Words...)
		v.Punctuation = append(v.Punctuation, r.Punctuation...)
		if r.Revealed {
			v.Original = r.Original
		}
	}
	recent, offset := sess.Recent(s.opts.HistoryDisplay)
	for i, text := range recent {
		v.History = append(v.History, historyItem{Index: offset + i, Text: text, Short: shorten(text, 30)})
	}
	return v
}

// shorten cuts text to n runes and marks the cut with "...".
func shorten(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// -----------------------------------------------------------------------------
// handlers

type catalogRes struct {
	Tiers []catalog.Entry `json:"tiers"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalogRes{Tiers: s.engine.Catalog.Entries()})
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(w, r)
	if err != nil {
		log.Error().Err(err).Msg("load session")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, s.viewOf(sess))
}

// newRoundReq is the payload for POST /api/round/new.
type newRoundReq struct {
	Mode  string `json:"mode"`  // random | catalog | daily | custom | history
	Tier  string `json:"tier"`  // defaults to the session's tier
	Index int    `json:"index"` // catalog or history index
	Text  string `json:"text"`  // custom sentence
}

func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := s.loadSession(w, r)
	if err != nil {
		log.Error().Err(err).Msg("load session")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	tier := sess.Tier
	if strings.TrimSpace(req.Tier) != "" {
		if tier, err = catalog.ParseTier(req.Tier); err != nil {
			writeError(w, http.StatusBadRequest, "bad_tier")
			return
		}
	}
	mode := round.SelectionKind(strings.ToLower(strings.TrimSpace(req.Mode)))
	if mode == "" {
		mode = round.SelectRandom
	}

	s.apply(w, r, sess, round.Action{
		Kind:      round.ActionSelect,
		Selection: round.Selection{Kind: mode, Tier: tier, Index: req.Index, Text: req.Text},
	})
}

// answerReq/Res payloads for POST /api/round/answer.
type answerReq struct {
	Answer string `json:"answer"`
}
type answerRes struct {
	Correct bool `json:"correct"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := s.loadSession(w, r)
	if err != nil {
		log.Error().Err(err).Msg("load session")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	_, out, err := s.engine.Apply(sess, round.Action{Kind: round.ActionSubmit, Answer: req.Answer})
	if err != nil {
		writeActionError(w, err)
		return
	}
	log.Debug().Str("session", sess.ID).Bool("correct", out.Correct).Msg("answer checked")
	writeJSON(w, http.StatusOK, answerRes{Correct: out.Correct})
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(w, r)
	if err != nil {
		log.Error().Err(err).Msg("load session")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	s.apply(w, r, sess, round.Action{Kind: round.ActionReveal})
}

type worksheetRes struct {
	worksheet.Worksheet
	Text string `json:"text"`
}

func (s *Server) handleWorksheet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(w, r)
	if err != nil {
		log.Error().Err(err).Msg("load session")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	ws, ok := s.worksheetOf(sess)
	if !ok {
		writeError(w, http.StatusConflict, "no_round")
		return
	}
	writeJSON(w, http.StatusOK, worksheetRes{Worksheet: ws, Text: ws.Text()})
}

// worksheetOf builds the printout for the session's round, if any.
func (s *Server) worksheetOf(sess round.Session) (worksheet.Worksheet, bool) {
	if sess.Round == nil {
		return worksheet.Worksheet{}, false
	}
	return worksheet.New(*sess.Round, s.engine.Catalog.Label(sess.Round.Tier), s.engine.Now()), true
}

// apply runs a state-changing action, saves the session and writes its view.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, sess round.Session, a round.Action) {
	next, _, err := s.engine.Apply(sess, a)
	if err != nil {
		writeActionError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), next); err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if next.Round != nil {
		log.Info().
			Str("session", next.ID).
			Str("round", next.Round.ID).
			Str("action", string(a.Kind)).
			Str("phase", string(next.Phase())).
			Msg("round updated")
	}
	writeJSON(w, http.StatusOK, s.viewOf(next))
}

// writeActionError maps reducer errors to HTTP responses.
func writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, round.ErrEmptySentence):
		writeError(w, http.StatusBadRequest, "empty_sentence")
	case errors.Is(err, round.ErrEmptyAnswer):
		writeError(w, http.StatusBadRequest, "empty_answer")
	case errors.Is(err, round.ErrNoRound):
		writeError(w, http.StatusConflict, "no_round")
	case errors.Is(err, catalog.ErrUnknownTier):
		writeError(w, http.StatusBadRequest, "bad_tier")
	case errors.Is(err, catalog.ErrIndexOutOfRange):
		writeError(w, http.StatusBadRequest, "out_of_range")
	case errors.Is(err, round.ErrUnknownSelection):
		writeError(w, http.StatusBadRequest, "bad_mode")
	default:
		log.Error().Err(err).Msg("apply action")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}
