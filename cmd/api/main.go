package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/yigit/campusdesk/internal/pkg/logger"
	"github.com/yigit/campusdesk/internal/server"
)

var (
	version = "dev"
	cli     struct {
		Config  string `help:"path to the YAML configuration file" default:"configs/config.yaml" env:"CONFIG_PATH" type:"path"`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	kong.Parse(&cli,
		kong.Name("campusdesk-api"),
		kong.Description("Institution, course and student management API"),
		kong.Vars{"version": version},
	)

	srv, err := server.NewServer(ctx, cli.Config)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize server")
	}

	// Run blocks until SIGINT/SIGTERM
	if err := srv.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server execution failed or shutdown encountered errors")
	}

	logger.Info().Msg("Application finished gracefully.")
}
