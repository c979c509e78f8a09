// internal/round/types.go
//
// Core types for a scrambling activity.
// Defines:
//   - Round: one chosen sentence, its shuffled words, and the reveal flag.
//   - Session: a single user's current round plus their custom sentence history.
//   - Phase: Idle → Scrambled → Revealed, derived from the session.
//   - Selection / Action: inputs to the session reducer.

package round

import (
	"time"

	"github.com/robalobadob/scrambler/internal/catalog"
)

// Phase is the coarse state of a session.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseScrambled Phase = "scrambled"
	PhaseRevealed  Phase = "revealed"
)

// Round holds the state of a single activity round.
type Round struct {
	ID          string       // Unique round identifier.
	Original    string       // The sentence as chosen (trimmed for custom input).
	Words       []string     // Words in shuffled order.
	Punctuation []string     // Punctuation in source order; not shown on word cards.
	Tier        catalog.Tier // Difficulty label shown with the activity.
	Revealed    bool         // True once the answer was shown. Never reset within a round.
	StartedAt   time.Time
}

// Session is one user's private activity state.
type Session struct {
	ID      string
	Tier    catalog.Tier // Tier currently selected by the teacher.
	Round   *Round       // nil while idle.
	History []string     // Custom sentences in the order first used, no duplicates.
}

// Phase derives the session phase from its round.
func (s Session) Phase() Phase {
	switch {
	case s.Round == nil:
		return PhaseIdle
	case s.Round.Revealed:
		return PhaseRevealed
	default:
		return PhaseScrambled
	}
}

// Recent returns up to n of the most recent history entries, oldest first,
// together with the index of the first returned entry in History.
func (s Session) Recent(n int) ([]string, int) {
	if n <= 0 || len(s.History) == 0 {
		return nil, len(s.History)
	}
	start := len(s.History) - n
	if start < 0 {
		start = 0
	}
	return append([]string(nil), s.History[start:]...), start
}

// Clone returns a deep copy so callers never share slices or the round pointer.
func (s Session) Clone() Session {
	out := s
	out.History = append([]string(nil), s.History...)
	if s.Round != nil {
		r := *s.Round
		r.Words = append([]string(nil), s.Round.Words...)
		r.Punctuation = append([]string(nil), s.Round.Punctuation...)
		out.Round = &r
	}
	return out
}

// SelectionKind says where a sentence comes from.
type SelectionKind string

const (
	SelectRandom  SelectionKind = "random"  // uniform pick from the tier
	SelectCatalog SelectionKind = "catalog" // specific catalog index
	SelectDaily   SelectionKind = "daily"   // sentence of the day for the tier
	SelectCustom  SelectionKind = "custom"  // teacher-authored free text
	SelectHistory SelectionKind = "history" // index into Session.History
)

// Selection describes which sentence to use for the next round.
type Selection struct {
	Kind  SelectionKind
	Tier  catalog.Tier
	Index int
	Text  string
}

// ActionKind enumerates reducer inputs.
type ActionKind string

const (
	ActionSelect ActionKind = "select"
	ActionSubmit ActionKind = "submit"
	ActionReveal ActionKind = "reveal"
)

// Action is a single user interaction.
type Action struct {
	Kind      ActionKind
	Selection Selection // ActionSelect
	Answer    string    // ActionSubmit
}

// Outcome reports the result of an action that does not change state.
type Outcome struct {
	Checked bool // an answer was evaluated
	Correct bool
}
