// Пакет errors — ответы с ошибками в едином формате {"error": "<сообщение>"}.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors

import (
	"encoding/json"
	"net/http"
)

// Сообщения, которые клиент получает дословно.
const (
	MsgUnauthenticated = "Non authentifié"
	MsgForbiddenAdmin  = "Accès refusé - Droits administrateur requis"
	MsgUserNotFound    = "Utilisateur non trouvé"
	MsgInvalidJSON     = "Corps de requête JSON invalide"
	MsgInvalidID       = "Identifiant invalide"
	MsgInternal        = "Erreur interne du serveur"
)

type errorBody struct {
	Error string `json:"error"`
}

// WriteError записывает ответ ошибки со статусом statusCode.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// Unauthorized — 401 требуется аутентификация.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

// Forbidden — 403 недостаточно прав.
func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// Conflict — 409 дубликат или повторная обработка.
func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

// InternalError — 500 внутренняя ошибка. Детали клиенту не передаются.
func InternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, MsgInternal)
}
