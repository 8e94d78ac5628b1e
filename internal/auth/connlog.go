// connlog.go — журнал попыток входа (connection_logs).
// Ошибка записи журнала не влияет на результат аутентификации.
package auth

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/arturkryukov/hrportal/internal/domain/model"
)

// unknownValue — значение для отсутствующих IP и User-Agent.
const unknownValue = "unknown"

// connLogWriteTimeout — таймаут записи в журнал.
const connLogWriteTimeout = 5 * time.Second

// ConnectionLogStore — хранилище журнала входов.
// Реализуется repository.ConnectionLogRepository.
type ConnectionLogStore interface {
	Insert(ctx context.Context, entry *model.ConnectionLog) error
	ListRecent(ctx context.Context, limit int) ([]*model.ConnectionLog, error)
}

// RequestMeta — данные о клиенте, сохраняемые в журнале.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// RequestMetaFrom извлекает IP и User-Agent из запроса.
// IP: CF-Connecting-IP, затем первый непустой адрес X-Forwarded-For, затем RemoteAddr.
func RequestMetaFrom(r *http.Request) RequestMeta {
	meta := RequestMeta{IP: unknownValue, UserAgent: unknownValue}

	xff, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		meta.IP = ip
	} else if first := strings.TrimSpace(xff); first != "" {
		meta.IP = first
	} else if r.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		meta.IP = host
	}

	if ua := r.Header.Get("User-Agent"); ua != "" {
		meta.UserAgent = ua
	}
	return meta
}

// ConnectionLogger — запись и чтение журнала входов.
type ConnectionLogger struct {
	store  ConnectionLogStore
	logger *slog.Logger
}

// NewConnectionLogger создаёт журнал входов.
func NewConnectionLogger(store ConnectionLogStore, logger *slog.Logger) *ConnectionLogger {
	return &ConnectionLogger{
		store:  store,
		logger: logger.With(slog.String("component", "connection_log")),
	}
}

// Record добавляет запись о попытке входа. Ошибки не возвращаются:
// они логируются и учитываются в метрике hr_connection_log_failures_total.
// Запись выполняется и при отмене контекста запроса.
func (l *ConnectionLogger) Record(ctx context.Context, email string, meta RequestMeta, success bool) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), connLogWriteTimeout)
	defer cancel()

	entry := &model.ConnectionLog{
		UserEmail: email,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
		Success:   success,
	}
	if err := l.store.Insert(ctx, entry); err != nil {
		connectionLogFailures.Inc()
		l.logger.Error("Ошибка записи журнала входов",
			slog.String("user_email", email),
			slog.Bool("success", success),
			slog.String("error", err.Error()),
		)
	}
}

// Recent возвращает последние записи журнала, новые первыми.
func (l *ConnectionLogger) Recent(ctx context.Context, limit int) ([]*model.ConnectionLog, error) {
	return l.store.ListRecent(ctx, limit)
}
