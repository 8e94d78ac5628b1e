package command

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arturkryukov/hrportal/internal/domain/rbac"
	"github.com/arturkryukov/hrportal/internal/service"
)

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Управление учётными записями",
	}
	cmd.AddCommand(
		userCreateCommand(),
		userDeactivateCommand(),
		userSetPasswordCommand(),
	)
	return cmd
}

func userCreateCommand() *cobra.Command {
	var in service.CreateEmployeeInput
	var role string

	cmd := &cobra.Command{
		Use:   "create LOGIN",
		Short: "Создать учётную запись",
		Long: "Создаёт учётную запись с указанным логином. Пароль вводится\n" +
			"в интерактивном режиме или передаётся через stdin.\n" +
			"Нужна для создания первого администратора.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !rbac.IsValidRole(role) {
				return fmt.Errorf("недопустимая роль %q", role)
			}
			svc, pool, err := openEmployees(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			in.Login = args[0]
			in.Role = rbac.Role(role)
			if in.Password, err = prompt("password: ", true); err != nil {
				return err
			}

			u, creds, err := svc.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			slog.InfoContext(cmd.Context(), "Учётная запись создана",
				slog.Int64("user_id", u.ID),
				slog.String("login", creds.Login),
				slog.String("email", creds.Email),
				slog.String("employee_id", creds.EmployeeID),
				slog.String("role", role),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "email (по умолчанию генерируется из employee_id)")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "имя")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "фамилия")
	cmd.Flags().StringVar(&role, "role", string(rbac.RoleEmployee), "роль: admin, hr, manager, employee")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")

	return cmd
}

func userDeactivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate LOGIN",
		Short: "Деактивировать учётную запись",
		Long:  "Запрещает вход и сразу аннулирует действующие сессии. Запись не удаляется.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			login := args[0]
			if !confirm(fmt.Sprintf("Деактивировать %s?", login)) {
				slog.InfoContext(cmd.Context(), "Деактивация отменена", slog.String("login", login))
				return nil
			}

			svc, pool, err := openEmployees(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := svc.DeactivateByLogin(cmd.Context(), login); err != nil {
				return err
			}
			slog.InfoContext(cmd.Context(), "Учётная запись деактивирована", slog.String("login", login))
			return nil
		},
	}
}

func userSetPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-password LOGIN",
		Short: "Задать новый пароль",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			login := args[0]
			password, err := prompt("new password: ", true)
			if err != nil {
				return err
			}
			if password == "" {
				return errors.New("пустой пароль")
			}

			svc, pool, err := openEmployees(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := svc.SetPassword(cmd.Context(), login, password); err != nil {
				return err
			}
			slog.InfoContext(cmd.Context(), "Пароль изменён", slog.String("login", login))
			return nil
		},
	}
}
