// Точка входа HR-портала.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// собирает аутентификацию, сервисный слой и API handlers,
// запускает topologymetrics и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/arturkryukov/hrportal/internal/api/handlers"
	"github.com/arturkryukov/hrportal/internal/api/middleware"
	"github.com/arturkryukov/hrportal/internal/auth"
	"github.com/arturkryukov/hrportal/internal/config"
	"github.com/arturkryukov/hrportal/internal/database"
	"github.com/arturkryukov/hrportal/internal/repository"
	"github.com/arturkryukov/hrportal/internal/server"
	"github.com/arturkryukov/hrportal/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("HR-портал запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	if cfg.SessionSecret == "" {
		logger.Warn("HR_SESSION_SECRET не задан, сессии не переживут рестарт")
	}
	if !cfg.CookieSecure {
		logger.Warn("HR_COOKIE_SECURE=false, cookie сессии передаётся без флага Secure")
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Repositories
	userRepo := repository.NewUserRepository(pool)
	connLogRepo := repository.NewConnectionLogRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	payslipRepo := repository.NewPayslipRepository(pool)
	chartRepo := repository.NewSalaryChartRepository(pool)
	contentRepo := repository.NewContentRepository(pool)
	requestRepo := repository.NewEmployeeRequestRepository(pool)

	// 6. Аутентификация: хешер паролей, кодек сессий, журнал входов
	hasher, err := auth.NewPasswordHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		logger.Error("Ошибка создания хешера паролей", slog.String("error", err.Error()))
		os.Exit(1)
	}
	codec, err := auth.NewSessionCodec(cfg.SessionSecret, cfg.CookieSecure)
	if err != nil {
		logger.Error("Ошибка создания кодека сессий", slog.String("error", err.Error()))
		os.Exit(1)
	}
	connLog := auth.NewConnectionLogger(connLogRepo, logger)
	authn := auth.NewAuthenticator(userRepo, hasher, connLog, logger)
	authz := middleware.NewAuthorizer(codec, userRepo, logger)

	// 7. Services
	employeesSvc := service.NewEmployeeService(userRepo, hasher, cfg.EmailDomain, logger)
	payrollSvc := service.NewPayrollService(payslipRepo, chartRepo, cfg.FileBaseURL, logger)
	contentSvc := service.NewContentService(contentRepo, cfg.FileBaseURL, logger)
	requestsSvc := service.NewRequestService(requestRepo, logger)
	resetsSvc := service.NewPasswordResetService(resetRepo, hasher, logger)

	// 8. API handler
	healthHandler := handlers.NewHealthHandler(database.NewReadinessChecker(pool))
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		authn,
		connLog,
		codec,
		employeesSvc,
		payrollSvc,
		contentSvc,
		requestsSvc,
		resetsSvc,
		logger,
	)

	// 9. topologymetrics — мониторинг зависимости PostgreSQL
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"hrportal",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
		dephealthSvc = nil
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics",
			slog.String("error", startErr.Error()),
		)
	} else {
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 10. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, authz)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}
	logger.Info("HR-портал остановлен")
}
