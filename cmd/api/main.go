package main

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"sharemark/internal/config"
	"sharemark/internal/database"
	"sharemark/internal/server"
	"sharemark/internal/utils"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.Log.Level)

	verifier, err := utils.NewTokenVerifier(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build token verifier")
	}

	ctx := context.Background()
	db, err := database.New(ctx, cfg.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}

	deps := server.MongoDependencies(db, verifier)
	if err := deps.Bookmarks.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create bookmark indexes")
	}

	s := server.NewServer(cfg, deps)

	done := make(chan bool, 1)

	go s.GracefulShutdown(done)

	err = s.Start()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("HTTP server error")
	}

	<-done
	log.Info().Msg("Graceful shutdown complete.")
}
