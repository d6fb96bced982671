package main

import (
	"context"
	"salon/config"
	"salon/di"
	"salon/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	res, err := di.InitializeSeeder().EnsureSeeded(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed collections")
	}

	if !res.Changed() {
		log.Info().Msg("Collections already populated, nothing to seed")

		return
	}

	log.Info().
		Int64("services", res.ServicesInserted).
		Int64("staff", res.StaffInserted).
		Msg("Collections seeded")
}
