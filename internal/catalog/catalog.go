// internal/catalog/catalog.go
//
// Built-in sentence catalog grouped by difficulty tier.
//
// Responsibilities:
//   - Load the catalog from a YAML file (SENTENCES_FILE) or fall back to the embedded default.
//   - Validate that every tier is present with at least one sentence.
//   - Resolve sentences by index, uniformly at random, or as the sentence of the day.
//
// File shape:
//   tiers:
//     - key: easy
//       label: "Easy (3-5 words)"
//       sentences: ["The cat is sleeping.", ...]
//
// The catalog is immutable after Load and safe to share between goroutines.

package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/scrambler/assets"
	"github.com/robalobadob/scrambler/internal/daily"
	"github.com/robalobadob/scrambler/internal/scramble"
)

var (
	ErrUnknownTier      = errors.New("unknown tier")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrEmptyCatalogTier = errors.New("catalog tier has no sentences")
)

// Entry is one tier of the catalog.
type Entry struct {
	Tier      Tier     `json:"tier"`
	Label     string   `json:"label"`
	Sentences []string `json:"sentences"`
}

// Catalog holds the example sentences for every tier.
type Catalog struct {
	entries [tierCount]Entry
}

type fileTier struct {
	Key       string   `yaml:"key"`
	Label     string   `yaml:"label"`
	Sentences []string `yaml:"sentences"`
}

type fileCatalog struct {
	Tiers []fileTier `yaml:"tiers"`
}

// Load reads the catalog from path, or from the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
	} else {
		data, err = assets.Sentences()
		if err != nil {
			return nil, fmt.Errorf("read embedded catalog: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{}
	seen := [tierCount]bool{}
	for _, ft := range fc.Tiers {
		tier, err := ParseTier(ft.Key)
		if err != nil {
			return nil, fmt.Errorf("catalog tier %q: %w", ft.Key, err)
		}
		label := strings.TrimSpace(ft.Label)
		if label == "" {
			label = tier.Label()
		}
		sentences := make([]string, 0, len(ft.Sentences))
		for _, s := range ft.Sentences {
			if s = strings.TrimSpace(s); s != "" {
				sentences = append(sentences, s)
			}
		}
		c.entries[tier] = Entry{Tier: tier, Label: label, Sentences: sentences}
		seen[tier] = true
	}

	for _, t := range Tiers() {
		if !seen[t] || len(c.entries[t].Sentences) == 0 {
			return nil, fmt.Errorf("%s: %w", t, ErrEmptyCatalogTier)
		}
	}
	return c, nil
}

// Entries returns every tier in Easy, Medium, Hard order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, tierCount)
	for _, t := range Tiers() {
		e := c.entries[t]
		e.Sentences = append([]string(nil), e.Sentences...)
		out = append(out, e)
	}
	return out
}

// Label returns the display label of tier as configured in the catalog.
func (c *Catalog) Label(t Tier) string {
	if !t.Valid() {
		return ""
	}
	return c.entries[t].Label
}

// Sentences returns a copy of the sentences for tier.
func (c *Catalog) Sentences(t Tier) ([]string, error) {
	if !t.Valid() {
		return nil, ErrUnknownTier
	}
	return append([]string(nil), c.entries[t].Sentences...), nil
}

// Sentence returns the sentence at index within tier.
func (c *Catalog) Sentence(t Tier, index int) (string, error) {
	if !t.Valid() {
		return "", ErrUnknownTier
	}
	list := c.entries[t].Sentences
	if index < 0 || index >= len(list) {
		return "", fmt.Errorf("%s sentence %d: %w", t, index, ErrIndexOutOfRange)
	}
	return list[index], nil
}

// Random picks a sentence from tier uniformly using src.
func (c *Catalog) Random(t Tier, src scramble.Source) (string, error) {
	if !t.Valid() {
		return "", ErrUnknownTier
	}
	list := c.entries[t].Sentences
	return list[src.IntN(len(list))], nil
}

// Daily returns the sentence of the day for tier.
func (c *Catalog) Daily(t Tier, date time.Time, salt string) (string, error) {
	if !t.Valid() {
		return "", ErrUnknownTier
	}
	list := c.entries[t].Sentences
	return list[daily.Index(date, salt, t.String(), len(list))], nil
}

// Stats returns the number of sentences per tier key.
func (c *Catalog) Stats() map[string]int {
	out := make(map[string]int, tierCount)
	for _, t := range Tiers() {
		out[t.String()] = len(c.entries[t].Sentences)
	}
	return out
}
