package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/term"

	"github.com/arturkryukov/hrportal/internal/auth"
	"github.com/arturkryukov/hrportal/internal/config"
	"github.com/arturkryukov/hrportal/internal/database"
	"github.com/arturkryukov/hrportal/internal/repository"
	"github.com/arturkryukov/hrportal/internal/service"
)

type configKey struct{}

// configFrom возвращает конфигурацию, загруженную в PersistentPreRunE.
func configFrom(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, errors.New("конфигурация не загружена")
	}
	return cfg, nil
}

// openEmployees подключается к БД и собирает EmployeeService.
// Пул закрывает вызывающий.
func openEmployees(ctx context.Context) (*service.EmployeeService, *pgxpool.Pool, error) {
	cfg, err := configFrom(ctx)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.Default()

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	hasher, err := auth.NewPasswordHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	svc := service.NewEmployeeService(repository.NewUserRepository(pool), hasher, cfg.EmailDomain, logger)
	return svc, pool, nil
}

// prompt выводит приглашение (только в терминале) и читает строку из stdin.
// mask — не отображать ввод (пароли).
func prompt(text string, mask bool) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		if _, err := os.Stderr.WriteString(text); err != nil {
			return "", err
		}
		if mask {
			b, err := term.ReadPassword(fd)
			_, _ = os.Stderr.WriteString("\n")
			return string(b), err
		}
	}
	return readLine(os.Stdin)
}

// readLine читает одну строку без завершающего перевода строки.
func readLine(r io.Reader) (string, error) {
	var (
		buf [1]byte
		sb  strings.Builder
	)
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			if buf[0] == '\n' {
				return strings.TrimSuffix(sb.String(), "\r"), nil
			}
			sb.WriteByte(buf[0])
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return strings.TrimSuffix(sb.String(), "\r"), nil
			}
			return sb.String(), err
		}
	}
}

// confirm запрашивает подтверждение [y|N].
func confirm(text string) bool {
	resp, err := prompt(text+" [y|N] ", false)
	if err != nil {
		return false
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	return resp == "y" || resp == "yes"
}
