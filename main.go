package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/skillgames/internal/config"
	"github.com/robalobadob/skillgames/internal/httpserver"
	"github.com/robalobadob/skillgames/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}
	logger := cfg.SetupLogging()
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpserver.New(cfg, store.NewMemoryStore(), logger)
	log.Info().
		Str("port", cfg.Port).
		Str("tick_source", cfg.TickSource).
		Dur("tick_interval", cfg.TickInterval).
		Msg("starting skillgames")
	if err := srv.Start(ctx, ":"+cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("bye")
}
