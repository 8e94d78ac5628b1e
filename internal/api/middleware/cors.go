// cors.go — CORS для браузерного клиента с cookie-сессией.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// corsMaxAge — время кеширования preflight-ответа браузером, секунды.
const corsMaxAge = 600

// CORS разрешает перечисленные origin с credentials.
// Пустой список — заголовки CORS не выставляются.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:       []string{"Content-Type", HeaderRequestID},
		ExposedHeaders:       []string{HeaderRequestID},
		AllowCredentials:     true,
		MaxAge:               corsMaxAge,
		OptionsSuccessStatus: http.StatusNoContent,
	})
	return c.Handler
}
