package main

import (
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/scrambler/internal/catalog"
	"github.com/robalobadob/scrambler/internal/round"
)

var playTier string

// playCmd runs a round in the terminal
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Unscramble sentences in the terminal",
	Long: `Starts an interactive round in the terminal.

Keys:
  enter   check the answer
  ctrl+r  show the answer
  ctrl+n  new sentence
  esc     quit`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playTier, "tier", "easy", "difficulty tier (easy, medium, hard)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	// Log lines would tear the TUI.
	log.Logger = log.Logger.Output(io.Discard)

	eng, err := newEngine()
	if err != nil {
		return err
	}
	tier, err := catalog.ParseTier(playTier)
	if err != nil {
		return err
	}
	m, err := newPlayModel(eng, tier)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
	return err
}

var (
	playTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1f77b4")).
			Bold(true)

	playCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#dddddd")).
			Padding(0, 1).
			Bold(true)

	playGood   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2e7d32")).Bold(true)
	playBad    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e65100"))
	playAnswer = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#4CAF50")).
			PaddingLeft(1)
	playMuted = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

type playModel struct {
	eng    *round.Engine
	sess   round.Session
	input  textinput.Model
	status string
	good   bool
}

func newPlayModel(eng *round.Engine, tier catalog.Tier) (playModel, error) {
	ti := textinput.New()
	ti.Placeholder = "Write the words in the correct order..."
	ti.CharLimit = 280
	ti.Width = 60
	ti.Focus()

	m := playModel{eng: eng, sess: round.Session{ID: "terminal", Tier: tier}, input: ti}
	if err := m.next(); err != nil {
		return playModel{}, err
	}
	return m, nil
}

// next starts a round with a random sentence from the session tier.
func (m *playModel) next() error {
	sess, _, err := m.eng.Apply(m.sess, round.Action{
		Kind:      round.ActionSelect,
		Selection: round.Selection{Kind: round.SelectRandom, Tier: m.sess.Tier},
	})
	if err != nil {
		return err
	}
	m.sess = sess
	m.input.Reset()
	m.status = ""
	return nil
}

func (m playModel) Init() tea.Cmd { return textinput.Blink }

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "esc", "ctrl+c":
		return m, tea.Quit

	case "ctrl+n":
		if err := m.next(); err != nil {
			m.status, m.good = err.Error(), false
		}
		return m, nil

	case "ctrl+r":
		sess, _, err := m.eng.Apply(m.sess, round.Action{Kind: round.ActionReveal})
		if err == nil {
			m.sess = sess
		}
		return m, nil

	case "enter":
		_, out, err := m.eng.Apply(m.sess, round.Action{Kind: round.ActionSubmit, Answer: m.input.Value()})
		switch {
		case errors.Is(err, round.ErrEmptyAnswer):
			m.status, m.good = "Please enter your answer first!", false
		case err != nil:
			m.status, m.good = err.Error(), false
		case out.Correct:
			m.status, m.good = "Excellent! You got it right!", true
		default:
			m.status, m.good = "Not quite right. Try again!", false
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m playModel) View() string {
	var b strings.Builder
	b.WriteString(playTitle.Render("Sentence Scrambler"))
	b.WriteString("\n")
	if r := m.sess.Round; r != nil {
		b.WriteString("Difficulty: " + m.eng.Catalog.Label(r.Tier) + "\n\n")

		cards := make([]string, 0, len(r.Words))
		for _, w := range r.Words {
			cards = append(cards, playCard.Render(w))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
		b.WriteString("\n\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.status != "" {
		style := playBad
		if m.good {
			style = playGood
		}
		b.WriteString(style.Render(m.status) + "\n")
	}
	if m.sess.Phase() == round.PhaseRevealed {
		b.WriteString(playAnswer.Render("Original Sentence: "+m.sess.Round.Original) + "\n")
	}
	b.WriteString(playMuted.Render("enter check • ctrl+r show answer • ctrl+n new sentence • esc quit"))
	b.WriteString("\n")
	return b.String()
}
