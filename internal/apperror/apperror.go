package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the error taxonomy. Services return these (wrapped in
// an *AppError); the handler layer maps them to HTTP status codes with
// errors.Is. Neither side ever compares message strings.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDecryption         = errors.New("decryption failure")
	ErrStoreCorrupt       = errors.New("store corrupt")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id int) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Field:   fmt.Sprintf("%d", id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// InvalidCredentials returns the single login-failure error.
//
// Both "no such user" and "wrong password" funnel into this one value with
// this one message, so a caller (or an attacker probing for accounts) cannot
// tell which check failed.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "Invalid credentials.",
	}
}

// Decryption wraps a cipher failure. This is a server fault, not a caller
// mistake: it means stored ciphertext is corrupt, tampered with, or was
// produced under a different key.
func Decryption(err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrDecryption, err),
		Message: "Stored content could not be decrypted",
	}
}

// StoreCorrupt wraps a parse failure on an existing backing file. The store
// must fail loudly here — treating an unreadable file as empty would
// silently drop every existing record on the next save.
func StoreCorrupt(path string, err error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrStoreCorrupt, err),
		Message: "Stored data is unreadable",
		Field:   path,
	}
}
