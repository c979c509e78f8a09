// Package worksheet builds the print-friendly version of a round: the
// difficulty, the scrambled words, the answer and blanks for the student.
package worksheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/robalobadob/scrambler/internal/round"
)

const blank = "________________"

// Worksheet is the printable view of a round.
type Worksheet struct {
	Difficulty  string    `json:"difficulty"`
	Words       []string  `json:"words"`
	Answer      string    `json:"answer"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// New builds a worksheet for r. label is the display name of the round's tier.
func New(r round.Round, label string, generatedAt time.Time) Worksheet {
	return Worksheet{
		Difficulty:  label,
		Words:       append([]string(nil), r.Words...),
		Answer:      r.Original,
		GeneratedAt: generatedAt,
	}
}

// Scrambled joins the words the way they appear on the printout.
func (w Worksheet) Scrambled() string {
	return strings.Join(w.Words, " | ")
}

// Lines returns the printout as label/value pairs, in print order.
func (w Worksheet) Lines() [][2]string {
	return [][2]string{
		{"Difficulty", w.Difficulty},
		{"Scrambled Words", w.Scrambled()},
		{"Answer", w.Answer},
		{"Student Name", blank},
		{"Date", blank},
	}
}

// Text renders the worksheet as plain text.
func (w Worksheet) Text() string {
	var b strings.Builder
	b.WriteString("Print Version\n")
	for _, l := range w.Lines() {
		fmt.Fprintf(&b, "%s: %s\n", l[0], l[1])
	}
	fmt.Fprintf(&b, "Generated on: %s\n", w.GeneratedAt.Format("2006-01-02 15:04:05"))
	return b.String()
}
