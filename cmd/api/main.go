package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/nqanh/vku-student-manager/internal/pkg/logger"
	"github.com/nqanh/vku-student-manager/internal/server"
)

// @title VKU Student Manager API
// @version 1.0
// @description Student account management for the VKU institutional domain

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// Local development keeps secrets in a .env file. Missing file is fine.
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found, relying on environment")
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
