package command

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arturkryukov/hrportal/internal/database"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции БД",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			return database.Migrate(cfg, slog.Default())
		},
	}
}
