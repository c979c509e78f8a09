package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/robalobadob/scrambler/internal/catalog"
	"github.com/robalobadob/scrambler/internal/round"
	"github.com/robalobadob/scrambler/internal/worksheet"
)

var (
	worksheetTier  string
	worksheetIndex int
	worksheetText  string
	worksheetPlain bool
)

// worksheetCmd prints a worksheet for one sentence
var worksheetCmd = &cobra.Command{
	Use:   "worksheet",
	Short: "Print a print-friendly worksheet",
	Long: `Scrambles one sentence and prints the worksheet: difficulty, scrambled
words, answer, and blanks for the student's name and the date.

The sentence is the catalog entry at --index, the --text given, or a random
catalog sentence when neither is set.`,
	Example: `  scrambler worksheet --tier medium --index 3
  scrambler worksheet --text "We read books." --plain`,
	RunE: runWorksheet,
}

func init() {
	f := worksheetCmd.Flags()
	f.StringVar(&worksheetTier, "tier", "easy", "difficulty tier (easy, medium, hard)")
	f.IntVar(&worksheetIndex, "index", -1, "catalog sentence index within the tier")
	f.StringVar(&worksheetText, "text", "", "custom sentence")
	f.BoolVar(&worksheetPlain, "plain", false, "plain text without styling")
	worksheetCmd.MarkFlagsMutuallyExclusive("index", "text")
}

func runWorksheet(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	tier, err := catalog.ParseTier(worksheetTier)
	if err != nil {
		return err
	}

	sel := round.Selection{Kind: round.SelectRandom, Tier: tier}
	switch {
	case cmd.Flags().Changed("text"):
		sel.Kind, sel.Text = round.SelectCustom, worksheetText
	case worksheetIndex >= 0:
		sel.Kind, sel.Index = round.SelectCatalog, worksheetIndex
	}

	sess, _, err := eng.Apply(round.Session{ID: "cli"}, round.Action{Kind: round.ActionSelect, Selection: sel})
	if err != nil {
		return fmt.Errorf("select sentence: %w", err)
	}
	ws := worksheet.New(*sess.Round, eng.Catalog.Label(tier), eng.Now())

	if worksheetPlain {
		_, err = io.WriteString(cmd.OutOrStdout(), ws.Text())
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), renderWorksheet(ws))
	return err
}

var (
	sheetBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1f77b4")).
			Padding(1, 2)

	sheetTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1f77b4")).
			Bold(true).
			MarginBottom(1)

	sheetLabel = lipgloss.NewStyle().Bold(true)

	sheetFooter = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true).
			MarginTop(1)
)

// renderWorksheet lays the worksheet out in a bordered box.
func renderWorksheet(ws worksheet.Worksheet) string {
	rows := []string{sheetTitle.Render("Print Version")}
	for _, l := range ws.Lines() {
		rows = append(rows, sheetLabel.Render(l[0]+":")+" "+l[1])
	}
	rows = append(rows, sheetFooter.Render("Generated on: "+ws.GeneratedAt.Format("2006-01-02 15:04:05")))
	return sheetBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
