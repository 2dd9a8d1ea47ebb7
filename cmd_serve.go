package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/auth"
	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/httpserver"
	"github.com/robalobadob/mastermind/internal/results"
	"github.com/robalobadob/mastermind/internal/store"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP backend",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.InsecureSecret() {
		if cfg.Production {
			log.Fatal().Msg("JWT_SECRET must be set in production")
		}
		log.Warn().Msg("using the development JWT secret")
	}

	db, err := openDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := httpserver.New(httpserver.Deps{
		Sessions: store.NewMemoryStore(),
		Results:  results.NewStore(db),
		Daily:    daily.NewStore(db),
		Auth:     auth.NewService(db, cfg.JWTSecret, cfg.TokenTTL()),
		Config:   cfg,
	})

	port := cfg.Port
	if servePort != "" {
		port = servePort
	}
	log.Info().Str("port", port).Str("db", cfg.DBPath).Msg("starting mastermind server")
	if err := srv.Start(ctx, ":"+port); err != nil {
		log.Error().Err(err).Msg("server exited")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
