package catalog

import (
	"encoding/json"
	"strings"
)

// Tier is a difficulty bucket.
type Tier int

const (
	Easy Tier = iota
	Medium
	Hard

	tierCount = 3
)

// Tiers lists every tier from easiest to hardest.
func Tiers() []Tier { return []Tier{Easy, Medium, Hard} }

func (t Tier) Valid() bool { return t >= Easy && t <= Hard }

// String returns the lowercase key used in URLs, config and the catalog file.
func (t Tier) String() string {
	switch t {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// Label is the default human-readable name of the tier.
func (t Tier) Label() string {
	switch t {
	case Easy:
		return "Easy (3-5 words)"
	case Medium:
		return "Medium (6-8 words)"
	case Hard:
		return "Hard (9+ words)"
	default:
		return ""
	}
}

// ParseTier accepts an exact tier key or default label, case-insensitively
// ("easy", "Medium", "Hard (9+ words)").
func ParseTier(s string) (Tier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range Tiers() {
		if s == t.String() || s == strings.ToLower(t.Label()) {
			return t, nil
		}
	}
	return Easy, ErrUnknownTier
}

func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Tier) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	p, err := ParseTier(s)
	if err != nil {
		return err
	}
	*t = p
	return nil
}
