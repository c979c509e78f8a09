// main.go
//
// Entry point for the Sentence Scrambler.
// Responsibilities:
//   - Load .env (if present) and the viper configuration.
//   - Configure zerolog.
//   - Dispatch to cobra subcommands: serve (default), scramble, catalog, worksheet, play.

package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/scrambler/internal/catalog"
	"github.com/robalobadob/scrambler/internal/config"
	"github.com/robalobadob/scrambler/internal/logger"
	"github.com/robalobadob/scrambler/internal/round"
	"github.com/robalobadob/scrambler/internal/scramble"
)

var (
	// Global flags
	seed uint64

	// Loaded in PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scrambler",
	Short: "Sentence Scrambler - unscrambling activities for primary classrooms",
	Long: `Sentence Scrambler shuffles the words of a sentence so students can put
them back in order. Teachers pick a sentence from the built-in catalog
(Easy, Medium, Hard), the sentence of the day, or their own text.

Run without arguments to start the web app.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger.Setup(cfg.Env, cfg.Log.Level)
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "seed for reproducible shuffles (0 = random)")
	rootCmd.AddCommand(serveCmd, scrambleCmd, catalogCmd, worksheetCmd, playCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("scrambler exited")
	}
}

// source returns the shuffle source selected by --seed.
func source() scramble.Source {
	if seed != 0 {
		return scramble.Seeded(seed)
	}
	return scramble.SystemSource()
}

// newEngine loads the catalog and builds a round engine from cfg.
func newEngine() (*round.Engine, error) {
	cat, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		return nil, err
	}
	eng := round.NewEngine(cat, source())
	eng.DailySalt = cfg.Catalog.DailySalt
	eng.Matcher = scramble.Matcher{CollapseWhitespace: cfg.Answer.CollapseWhitespace}
	return eng, nil
}
