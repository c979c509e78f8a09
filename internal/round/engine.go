// internal/round/engine.go
//
// Round engine for the scrambling activity.
// Responsibilities:
//   - Resolve a Selection to a sentence (catalog pick, random, daily, custom text, history).
//   - Start rounds: tokenize + shuffle the chosen sentence.
//   - Check answers and reveal the original.
//   - Apply user actions to a Session and return the next Session (reducer).
//
// State transitions:
//   - Select: any phase → Scrambled (for the new sentence).
//   - Reveal: Scrambled → Revealed (Revealed stays Revealed).
//   - Submit: no state change.
//
// Errors leave the input session untouched.

package round

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/scrambler/internal/catalog"
	"github.com/robalobadob/scrambler/internal/scramble"
)

var (
	ErrEmptySentence    = errors.New("empty sentence")
	ErrEmptyAnswer      = errors.New("empty answer")
	ErrNoRound          = errors.New("no round in progress")
	ErrUnknownSelection = errors.New("unknown selection kind")
	ErrUnknownAction    = errors.New("unknown action")
)

// Engine wires the catalog, randomness and answer rules used by every session.
type Engine struct {
	Catalog   *catalog.Catalog
	Source    scramble.Source
	Matcher   scramble.Matcher
	DailySalt string
	Now       func() time.Time
	NewID     func() string
}

// NewEngine returns an engine with the system clock and UUID round IDs.
// A nil src means scramble.SystemSource.
func NewEngine(cat *catalog.Catalog, src scramble.Source) *Engine {
	if src == nil {
		src = scramble.SystemSource()
	}
	return &Engine{
		Catalog: cat,
		Source:  src,
		Now:     time.Now,
		NewID:   uuid.NewString,
	}
}

// SelectSentence resolves sel against the catalog and the given custom history.
// Custom text is trimmed; blank text is rejected with ErrEmptySentence.
func (e *Engine) SelectSentence(history []string, sel Selection) (string, error) {
	if !sel.Tier.Valid() {
		return "", catalog.ErrUnknownTier
	}
	switch sel.Kind {
	case SelectRandom:
		return e.Catalog.Random(sel.Tier, e.Source)
	case SelectCatalog:
		return e.Catalog.Sentence(sel.Tier, sel.Index)
	case SelectDaily:
		return e.Catalog.Daily(sel.Tier, e.Now(), e.DailySalt)
	case SelectCustom:
		text := strings.TrimSpace(sel.Text)
		if text == "" {
			return "", ErrEmptySentence
		}
		return text, nil
	case SelectHistory:
		if sel.Index < 0 || sel.Index >= len(history) {
			return "", fmt.Errorf("history entry %d: %w", sel.Index, catalog.ErrIndexOutOfRange)
		}
		return history[sel.Index], nil
	default:
		return "", fmt.Errorf("%q: %w", sel.Kind, ErrUnknownSelection)
	}
}

// StartRound scrambles sentence into a fresh, unrevealed round.
func (e *Engine) StartRound(sentence string, tier catalog.Tier) Round {
	res := scramble.Scramble(sentence, e.Source)
	return Round{
		ID:          e.NewID(),
		Original:    sentence,
		Words:       res.Words,
		Punctuation: res.Punctuation,
		Tier:        tier,
		StartedAt:   e.Now(),
	}
}

// Check compares candidate with the original sentence. Surrounding
// whitespace is trimmed first; a blank answer is ErrEmptyAnswer.
// The round is never modified.
func (r Round) Check(candidate string, m scramble.Matcher) (bool, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false, ErrEmptyAnswer
	}
	return m.Match(candidate, r.Original), nil
}

// Reveal returns the round with the answer shown.
func (r Round) Reveal() Round {
	r.Revealed = true
	return r
}

// Apply runs a single action against s and returns the next session.
func (e *Engine) Apply(s Session, a Action) (Session, Outcome, error) {
	switch a.Kind {
	case ActionSelect:
		sentence, err := e.SelectSentence(s.History, a.Selection)
		if err != nil {
			return s, Outcome{}, err
		}
		next := s.Clone()
		next.Tier = a.Selection.Tier
		if a.Selection.Kind == SelectCustom {
			next.History = remember(next.History, sentence)
		}
		r := e.StartRound(sentence, next.Tier)
		next.Round = &r
		return next, Outcome{}, nil

	case ActionSubmit:
		if s.Round == nil {
			return s, Outcome{}, ErrNoRound
		}
		ok, err := s.Round.Check(a.Answer, e.Matcher)
		if err != nil {
			return s, Outcome{}, err
		}
		return s, Outcome{Checked: true, Correct: ok}, nil

	case ActionReveal:
		if s.Round == nil {
			return s, Outcome{}, ErrNoRound
		}
		next := s.Clone()
		r := next.Round.Reveal()
		next.Round = &r
		return next, Outcome{}, nil

	default:
		return s, Outcome{}, fmt.Errorf("%q: %w", a.Kind, ErrUnknownAction)
	}
}

// remember appends sentence unless it is already in history.
func remember(history []string, sentence string) []string {
	for _, h := range history {
		if h == sentence {
			return history
		}
	}
	return append(history, sentence)
}
