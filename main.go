// main.go
//
// Entry point of the mastermind binary.
//   - serve → HTTP backend (games, solver, daily challenge, accounts)
//   - solve → the engine guesses a secret you think of, you score it
//   - play  → you guess a random secret in the terminal
//   - bench → the engine plays many random games and reports its guess counts
//
// Configuration comes from the environment and an optional .env file.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/config"
)

var (
	cfg       config.Config
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "mastermind",
		Short: "Mastermind deduction engine, game server and terminal player",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load()
			if logLevel != "" {
				if lvl, err := zerolog.ParseLevel(logLevel); err == nil {
					cfg.LogLevel = lvl
				}
			}
			if logFormat != "" {
				cfg.LogFormat = logFormat
			}
			setupLogging(cfg)
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", `"json" or "console" (overrides LOG_FORMAT)`)
	rootCmd.AddCommand(serveCmd, solveCmd, playCmd, benchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(c config.Config) {
	zerolog.SetGlobalLevel(c.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339
	if c.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
