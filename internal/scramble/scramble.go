// internal/scramble/scramble.go
//
// Sentence scrambling and answer matching.
// Responsibilities:
//   - Split a sentence into word tokens and a separate punctuation list.
//   - Shuffle words with an unbiased Fisher–Yates pass over an injected Source.
//   - Normalize text (strip punctuation, lowercase) and compare answers.
//
// Notes:
//   - A word character is a Unicode letter, a Unicode number, or '_'.
//   - Punctuation is collected in source order but never reattached to words.
//   - Whitespace runs are significant to Normalize; see Matcher for the opt-in collapse.

package scramble

import (
	"strings"
	"unicode"
)

// Result is a scrambled sentence: words in random order plus the punctuation
// marks of the source, in their original order.
type Result struct {
	Words       []string `json:"words"`
	Punctuation []string `json:"punctuation"`
}

// Tokenize returns the words of sentence left to right and, independently,
// every character that is neither a word character nor whitespace.
func Tokenize(sentence string) (words []string, punctuation []string) {
	words = []string{}
	punctuation = []string{}

	start := -1
	for i, r := range sentence {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, sentence[start:i])
			start = -1
		}
		if !unicode.IsSpace(r) {
			punctuation = append(punctuation, string(r))
		}
	}
	if start >= 0 {
		words = append(words, sentence[start:])
	}
	return words, punctuation
}

// Shuffle returns a uniformly random permutation of words. The input slice
// is left untouched. The identity permutation is a valid outcome.
func Shuffle(words []string, src Source) []string {
	out := make([]string, len(words))
	copy(out, words)
	for i := len(out) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Scramble tokenizes sentence and shuffles its words.
func Scramble(sentence string, src Source) Result {
	words, punct := Tokenize(sentence)
	return Result{Words: Shuffle(words, src), Punctuation: punct}
}

// Normalize drops every character that is not a word character or
// whitespace, then lower-cases what is left.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isWordRune(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}

// IsCorrectAnswer reports whether candidate and original are equal after
// Normalize. Word order and spacing matter; case and punctuation do not.
func IsCorrectAnswer(candidate, original string) bool {
	return Normalize(candidate) == Normalize(original)
}

// Matcher compares answers. The zero value behaves exactly like IsCorrectAnswer.
type Matcher struct {
	// CollapseWhitespace folds whitespace runs into a single space and trims
	// both ends before comparing.
	CollapseWhitespace bool
}

// Match reports whether candidate matches original under m's rules.
func (m Matcher) Match(candidate, original string) bool {
	if !m.CollapseWhitespace {
		return IsCorrectAnswer(candidate, original)
	}
	return collapse(Normalize(candidate)) == collapse(Normalize(original))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
