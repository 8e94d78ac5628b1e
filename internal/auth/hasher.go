// Пакет auth — аутентификация HR-портала: хеширование паролей,
// кодек сессионного cookie, проверка учётных данных и журнал входов.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Алгоритмы хеширования паролей (HR_PASSWORD_HASHER).
const (
	HasherSHA256 = "sha256"
	HasherBcrypt = "bcrypt"
)

// sha256HexLen — длина hex-дайджеста SHA-256.
const sha256HexLen = sha256.Size * 2

// PasswordHasher — хеширование пароля при создании учётной записи
// и проверка пароля при входе.
type PasswordHasher interface {
	// Hash возвращает дайджест для сохранения в users.password_hash.
	Hash(password string) (string, error)
	// Verify сравнивает пароль с сохранённым дайджестом.
	Verify(password, digest string) bool
}

// NewPasswordHasher создаёт хешер по имени алгоритма.
func NewPasswordHasher(kind string, bcryptCost int) (PasswordHasher, error) {
	switch kind {
	case HasherSHA256:
		return SHA256Hasher{}, nil
	case HasherBcrypt:
		return NewBcryptHasher(bcryptCost)
	default:
		return nil, fmt.Errorf("неизвестный алгоритм хеширования %q, допустимые: sha256, bcrypt", kind)
	}
}

// SHA256Hasher — детерминированный SHA-256 без соли, hex в нижнем регистре.
// Одинаковые пароли дают одинаковые дайджесты. Формат совместим
// с уже сохранёнными учётными записями.
type SHA256Hasher struct{}

// Hash реализует PasswordHasher.
func (SHA256Hasher) Hash(password string) (string, error) {
	return sha256Hex(password), nil
}

// Verify реализует PasswordHasher. Сравнение за постоянное время.
func (SHA256Hasher) Verify(password, digest string) bool {
	got := sha256Hex(password)
	return subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(digest))) == 1
}

func sha256Hex(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// BcryptHasher — bcrypt для новых паролей. Verify принимает и старые
// SHA-256 дайджесты, чтобы существующие учётные записи продолжали работать
// до смены пароля.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher создаёт bcrypt-хешер с указанной стоимостью.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("стоимость bcrypt %d вне диапазона %d-%d", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Hash реализует PasswordHasher. Пароли длиннее 72 байт отклоняются.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	return string(hash), nil
}

// Verify реализует PasswordHasher.
func (h *BcryptHasher) Verify(password, digest string) bool {
	if isLegacyDigest(digest) {
		return SHA256Hasher{}.Verify(password, digest)
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// isLegacyDigest — дайджест в формате SHA-256 hex.
func isLegacyDigest(digest string) bool {
	if len(digest) != sha256HexLen {
		return false
	}
	_, err := hex.DecodeString(digest)
	return err == nil
}
