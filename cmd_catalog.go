package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robalobadob/scrambler/internal/catalog"
)

var catalogTier string

// catalogCmd lists the built-in (or configured) sentences
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List catalog sentences by difficulty",
	RunE:  runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogTier, "tier", "", "only list this tier (easy, medium, hard)")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		return err
	}
	entries := cat.Entries()
	if catalogTier != "" {
		t, err := catalog.ParseTier(catalogTier)
		if err != nil {
			return err
		}
		entries = entries[t : t+1]
	}

	out := cmd.OutOrStdout()
	for _, e := range entries {
		fmt.Fprintf(out, "%s\n", e.Label)
		for i, s := range e.Sentences {
			fmt.Fprintf(out, "  %2d. %s\n", i, s)
		}
	}
	return nil
}
