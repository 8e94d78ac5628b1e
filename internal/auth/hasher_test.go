package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestSHA256Hasher(t *testing.T) {
	h := SHA256Hasher{}

	got, err := h.Hash("abc")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("Hash(abc) = %s, want %s", got, want)
	}

	// Детерминированность: соли нет
	again, _ := h.Hash("abc")
	if again != got {
		t.Error("одинаковые пароли должны давать одинаковый дайджест")
	}

	if !h.Verify("abc", want) {
		t.Error("Verify должен принять правильный пароль")
	}
	if !h.Verify("abc", strings.ToUpper(want)) {
		t.Error("Verify должен принимать дайджест в верхнем регистре")
	}
	if h.Verify("abd", want) {
		t.Error("Verify не должен принимать неверный пароль")
	}
	if h.Verify("abc", "") {
		t.Error("Verify не должен принимать пустой дайджест")
	}
}

func TestBcryptHasher(t *testing.T) {
	h, err := NewBcryptHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcryptHasher: %v", err)
	}

	digest, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Errorf("ожидался bcrypt-хеш, получено %q", digest)
	}
	if !h.Verify("secret1", digest) {
		t.Error("Verify должен принять правильный пароль")
	}
	if h.Verify("secret2", digest) {
		t.Error("Verify не должен принимать неверный пароль")
	}

	// Старые SHA-256 дайджесты продолжают работать
	legacy, _ := SHA256Hasher{}.Hash("secret1")
	if !h.Verify("secret1", legacy) {
		t.Error("Verify должен принять SHA-256 дайджест")
	}
	if h.Verify("secret2", legacy) {
		t.Error("Verify не должен принимать неверный пароль для SHA-256 дайджеста")
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	h, _ := NewBcryptHasher(bcrypt.MinCost)
	if _, err := h.Hash(strings.Repeat("a", 73)); err == nil {
		t.Error("ожидалась ошибка для пароля длиннее 72 байт")
	}
}

func TestNewPasswordHasher(t *testing.T) {
	if _, err := NewPasswordHasher(HasherSHA256, 0); err != nil {
		t.Errorf("sha256: %v", err)
	}
	if _, err := NewPasswordHasher(HasherBcrypt, bcrypt.DefaultCost); err != nil {
		t.Errorf("bcrypt: %v", err)
	}
	if _, err := NewPasswordHasher(HasherBcrypt, 2); err == nil {
		t.Error("ожидалась ошибка для стоимости вне диапазона")
	}
	if _, err := NewPasswordHasher("md5", 0); err == nil {
		t.Error("ожидалась ошибка для неизвестного алгоритма")
	}
}
