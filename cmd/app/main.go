package main

import (
	"context"
	"salon/config"
	"salon/di"
	"salon/helper"
	"salon/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Shear Bliss API
// @version 1.0
// @description Salon booking backend: catalog, stylists and reviews, booking wizard, queue and admin panel.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	if cfg.App.SeedOnStartup {
		res, err := di.InitializeSeeder().EnsureSeeded(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("Failed to seed collections, continuing without fallback data")
		} else {
			log.Info().Int64("services", res.ServicesInserted).Int64("staff", res.StaffInserted).Msg("Collections seeded")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
