package main

import (
	"context"
	"os"
	"time"

	"frontdesk/config"
	"frontdesk/infras/postgres"
	"frontdesk/shared/logger"

	"github.com/rs/zerolog/log"
)

// Standalone probe for container orchestrators. Exits zero when the
// database answers, non-zero otherwise.
func main() {
	cfg := config.Get()

	logger.InitLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store := postgres.NewStore(postgres.New(cfg))

	if err := store.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("Database health check failed")
		os.Exit(1)
	}

	log.Info().Msg("Database health check passed")
}
