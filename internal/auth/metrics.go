package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метки результата попытки входа.
const (
	resultSuccess = "success"
	resultFailure = "failure"
	resultError   = "error"
)

var (
	// loginAttempts — попытки входа по результату.
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hr_login_attempts_total",
			Help: "Количество попыток входа по результату (success, failure, error)",
		},
		[]string{"result"},
	)

	// connectionLogFailures — неудачные записи журнала входов.
	connectionLogFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hr_connection_log_failures_total",
			Help: "Количество ошибок записи в журнал входов",
		},
	)
)
