package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/scrambler/internal/httpserver"
	"github.com/robalobadob/scrambler/internal/store"
)

// serveCmd runs the web app
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (activity page + JSON API)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	log.Info().Interface("sentences", eng.Catalog.Stats()).Msg("catalog loaded")

	srv := httpserver.New(httpserver.Options{
		Store:          store.NewMemoryStore(),
		Engine:         eng,
		ClientOrigin:   cfg.Server.ClientOrigin,
		CookieName:     cfg.Server.CookieName,
		SecureCookies:  cfg.Production(),
		HistoryDisplay: cfg.History.Display,
		SessionTTL:     cfg.Server.SessionTTL,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("starting scrambler")
	return srv.Run(ctx, cfg.Addr())
}
