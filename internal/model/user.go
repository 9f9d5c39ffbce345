// Package model defines the data structures used throughout the application.
package model

// User represents a registered user account.
//
// WHY PasswordHash AND NOT Password?
// The field holds a bcrypt hash record — never a plaintext password. The
// name makes that impossible to miss at call sites. The `json:"password"`
// tag keeps the persisted field name compatible with the stored document
// layout, while `json:"-"` is deliberately NOT used: the hash must round-trip
// through the store. The handler layer never serialises a User directly, so
// the hash can't leak into an API response by accident.
//
// EMAIL IS THE LOGIN KEY:
// Login looks up the first user whose email matches exactly. Uniqueness is
// not enforced — duplicate registrations are possible and only the first
// match can ever log in. A known limitation, kept as-is.
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
}
