// Пакет command — команды утилиты hrctl.
package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arturkryukov/hrportal/internal/config"
)

// RootCommand создаёт корневую команду со всеми подкомандами.
func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "hrctl [command] [flags]",
		Short:        "Утилита администрирования HR-портала",
		Version:      config.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
			}
			logger := config.SetupLogger(cfg)
			slog.SetDefault(logger)
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	cmd.AddCommand(
		migrateCommand(),
		userCommand(),
	)

	return cmd
}
