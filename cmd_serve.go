package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/minigames/internal/httpserver"
	"github.com/robalobadob/minigames/internal/stats"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// Servers log JSON lines.
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := stats.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info().Str("path", cfg.DBPath).Msg("stats database ready")

	if cfg.JWTSecret == "dev_secret_change_me" && cfg.Production() {
		log.Warn().Msg("JWT_SECRET is the development default")
	}

	srv := httpserver.New(cfg, db)
	return srv.Run(ctx, ":"+cfg.Port)
}
