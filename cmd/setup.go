package main

import (
	"context"

	"github.com/desertthunder/walkerbrain/internal/shared"
	"github.com/urfave/cli/v3"
)

// Init writes the template configuration to the --config path.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) error {
	r.applyFlags(cmd)
	configPath := cmd.String("config")

	r.logger.Debug("creating config file from template", "path", configPath)
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.writePlain("✓ Wrote %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Fill in [auth] password and admin_password\n")
	r.writePlain("2. Fill in [database] url and key, or set WB_DATABASE_URL and WB_DATABASE_KEY\n")
	r.writePlain("3. Run 'walkerbrain check' to verify the connection\n")
	return nil
}
