package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robalobadob/scrambler/internal/scramble"
)

// scrambleCmd scrambles a sentence given on the command line
var scrambleCmd = &cobra.Command{
	Use:   "scramble <sentence>",
	Short: "Print the scrambled words and punctuation of a sentence",
	Example: `  scrambler scramble "The cat is sleeping."
  scrambler scramble --seed 42 The cat is sleeping.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScramble,
}

func runScramble(cmd *cobra.Command, args []string) error {
	res := scramble.Scramble(strings.Join(args, " "), source())
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Words:       %s\n", strings.Join(res.Words, " | "))
	fmt.Fprintf(out, "Punctuation: %s\n", strings.Join(res.Punctuation, " "))
	return nil
}
