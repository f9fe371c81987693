package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/campusdesk/internal/bootstrap"
	"github.com/yigit/campusdesk/internal/config"
	"github.com/yigit/campusdesk/internal/db"
)

// Globals are the flags shared by every command
type Globals struct {
	Config  string
	Version string
}

// open loads configuration and connects to a migrated database
func (g *Globals) open(ctx context.Context) (*config.Config, *db.PostgresDB, zerolog.Logger, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(g.Config)
	if err != nil {
		return nil, nil, zerolog.Logger{}, err
	}

	database, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, nil, zerolog.Logger{}, fmt.Errorf("failed to setup database: %w", err)
	}
	return cfg, database, lgr, nil
}
