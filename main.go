// main.go
//
// Entry point for the minigames binary.
//   - `minigames serve` runs the JSON API.
//   - `minigames play tictactoe|1a2b` plays a game in the terminal.

package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/minigames/internal/config"
)

var (
	cfg config.Config

	rootCmd = &cobra.Command{
		Use:           "minigames",
		Short:         "Tic-tac-toe and 1A2B, as a JSON API or in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			cfg = c
			if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
				zerolog.SetGlobalLevel(lvl)
			}
			return nil
		},
	}
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	rootCmd.AddCommand(serveCmd, playCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("minigames exited")
	}
}
