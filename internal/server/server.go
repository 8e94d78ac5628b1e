// Пакет server — HTTP-сервер HR-портала с graceful shutdown.
// Без TLS: TLS termination выполняется на обратном прокси.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arturkryukov/hrportal/internal/api/handlers"
	"github.com/arturkryukov/hrportal/internal/api/middleware"
	"github.com/arturkryukov/hrportal/internal/config"
)

// Server — HTTP-сервер HR-портала.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, h *handlers.APIHandler, authz *middleware.Authorizer) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(cfg, logger, h, authz),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter строит таблицу маршрутов.
// Публичные: health, metrics, вход/выход, /api/users/me (проверяет cookie сам),
// заявка на сброс пароля. /api/admin/* — только admin, /api/employee/* — любой
// активный пользователь.
func NewRouter(cfg *config.Config, logger *slog.Logger, h *handlers.APIHandler, authz *middleware.Authorizer) http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.Get("/health/live", h.HealthLive)
	r.Get("/health/ready", h.HealthReady)
	r.Get("/metrics", h.GetMetrics)

	r.Post("/api/login", h.Login)
	r.Get("/api/logout", h.Logout)
	r.Get("/api/users/me", h.CurrentUser)
	r.Post("/api/employee/password-reset-request", h.RequestPasswordReset)

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireAdmin())

		r.Get("/api/admin/employees", h.ListEmployees)
		r.Post("/api/admin/employees", h.CreateEmployee)
		r.Get("/api/admin/employees/{id}", h.GetEmployee)
		r.Put("/api/admin/employees/{id}", h.UpdateEmployee)
		r.Delete("/api/admin/employees/{id}", h.DeactivateEmployee)

		r.Post("/api/admin/payslips", middleware.WithAuth(h.CreatePayslip))
		r.Post("/api/admin/salary-charts", middleware.WithAuth(h.PublishSalaryChart))

		r.Get("/api/admin/events", h.ListEventsAdmin)
		r.Post("/api/admin/events", middleware.WithAuth(h.CreateEvent))
		r.Put("/api/admin/events/{id}", h.UpdateEvent)
		r.Delete("/api/admin/events/{id}", h.DeleteEvent)

		r.Get("/api/admin/announcements", h.ListAnnouncementsAdmin)
		r.Post("/api/admin/announcements", middleware.WithAuth(h.CreateAnnouncement))
		r.Put("/api/admin/announcements/{id}", h.UpdateAnnouncement)
		r.Delete("/api/admin/announcements/{id}", h.DeleteAnnouncement)

		r.Get("/api/admin/documents", h.ListDocumentsAdmin)
		r.Post("/api/admin/documents", middleware.WithAuth(h.CreateDocument))
		r.Put("/api/admin/documents/{id}", h.UpdateDocument)
		r.Delete("/api/admin/documents/{id}", h.DeleteDocument)

		r.Get("/api/admin/requests", h.ListRequests)
		r.Put("/api/admin/requests/{id}", middleware.WithAuth(h.HandleRequest))

		r.Get("/api/admin/password-requests", h.ListPasswordRequests)
		r.Put("/api/admin/password-requests/{id}", middleware.WithAuth(h.ResolvePasswordRequest))

		r.Get("/api/admin/logs", h.ListConnectionLogs)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireEmployee())

		r.Get("/api/employee/profile", middleware.WithAuth(h.Profile))
		r.Get("/api/employee/payslips", middleware.WithAuth(h.MyPayslips))
		r.Get("/api/employee/salary-chart", h.CurrentSalaryChart)
		r.Get("/api/employee/events", h.ListEvents)
		r.Get("/api/employee/announcements", h.ListAnnouncements)
		r.Get("/api/employee/documents", h.ListDocuments)
		r.Get("/api/employee/requests", middleware.WithAuth(h.MyRequests))
		r.Post("/api/employee/requests", middleware.WithAuth(h.SubmitRequest))
	})

	return r
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
