package commands

import (
	"context"
)

// MigrateCmd applies the embedded schema migrations and exits
type MigrateCmd struct{}

func (m *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	// SetupDatabase migrates as part of connecting
	_, database, lgr, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	lgr.Info().Msg("Migrations complete")
	return nil
}
