package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/yigit/campusdesk/cmd/campusctl/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Migrate       commands.MigrateCmd       `cmd:"" help:"Apply pending database migrations"`
		RegisterAdmin commands.RegisterAdminCmd `cmd:"" help:"Register the single admin account"`
		Config        string                    `help:"path to the YAML configuration file" default:"configs/config.yaml" env:"CONFIG_PATH" type:"path"`
		Version       kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("campusctl"),
		kong.Description("Operator tasks for the campusdesk database"),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Config: cli.Config, Version: version})
	cmd.FatalIfErrorf(err)
}
