package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yigit/schoolconnector/internal/pkg/auth"
	"github.com/yigit/schoolconnector/internal/pkg/logger"
	"github.com/yigit/schoolconnector/internal/server"
)

// @title School Connector API
// @version 1.0
// @description Onboards students to the school's identity connector and manages their relationships

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-KEY

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-api-key" {
		os.Exit(hashAPIKey(os.Args[2:]))
	}

	srv, err := server.NewServer(context.Background())
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

// hashAPIKey prints the bcrypt hash to put into server.api_key_hash
func hashAPIKey(args []string) int {
	if len(args) != 1 || args[0] == "" {
		fmt.Fprintln(os.Stderr, "usage: api hash-api-key <key>")
		return 2
	}
	hash, err := auth.HashAPIKey(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(hash)
	return 0
}
