// Package service — user registration and login business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippet-vault/internal/apperror"
	"github.com/sakif/snippet-vault/internal/auth"
	"github.com/sakif/snippet-vault/internal/model"
	"github.com/sakif/snippet-vault/internal/store"
)

const maxEmailLength = 254 // RFC 5321 path limit — longer can't be a deliverable address

// UserService handles registration and login.
//
// WHAT LOGIN DOES AND DOESN'T DO:
// Login is a single yes/no credential check. On success it returns the
// user's email as confirmation — no session, no token, no cookie. Anything
// stateful on top of that is a different feature belonging to a different
// layer.
type UserService struct {
	store     store.DocumentStore
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService with all required dependencies.
func NewUserService(st store.DocumentStore, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{
		store:     st,
		passwords: passwords,
		logger:    logger,
	}
}

// Register hashes the password and persists a new user.
//
// Only the email is returned as confirmation. The plaintext password exists
// in this function's scope and nowhere else — what reaches the store is the
// bcrypt hash record, and what reaches the caller is nothing at all.
//
// EMAIL UNIQUENESS IS NOT ENFORCED:
// Registering the same email twice creates two accounts; login will only
// ever match the first. Known limitation, kept deliberately.
func (s *UserService) Register(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)

	if email == "" {
		return "", apperror.ValidationFailed("email", "email is required")
	}
	if len(email) > maxEmailLength {
		return "", apperror.ValidationFailed("email",
			fmt.Sprintf("email must be %d characters or less", maxEmailLength))
	}
	if !strings.Contains(email, "@") {
		return "", apperror.ValidationFailed("email", "email must contain @")
	}
	if password == "" {
		return "", apperror.ValidationFailed("password", "password is required")
	}

	hashRecord, err := s.passwords.Hash(password)
	if err != nil {
		return "", apperror.ValidationFailed("password", err.Error())
	}

	var id int
	err = s.store.Update(ctx, func(doc *model.Document) error {
		id = doc.NextUserID()
		doc.Users = append(doc.Users, model.User{
			ID:           id,
			Email:        email,
			PasswordHash: hashRecord,
		})
		return nil
	})
	if err != nil {
		s.logger.Error("failed to register user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("service/user: registering user: %w", err)
	}

	s.logger.Info("user registered",
		slog.Int("id", id),
		slog.String("email", email),
	)

	return email, nil
}

// Login verifies a password against the stored hash for the first user
// matching email.
//
// ACCOUNT-ENUMERATION HARDENING:
// "No such user" and "wrong password" both return the identical
// InvalidCredentials error. If the two cases were distinguishable — by
// error, message, or status — an attacker could probe which emails are
// registered before ever guessing a password. The single boolean
// short-circuit below keeps them conflated on purpose.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}

	var user *model.User
	for i := range doc.Users {
		if doc.Users[i].Email == email {
			user = &doc.Users[i]
			break
		}
	}

	if user == nil || !s.passwords.Verify(password, user.PasswordHash) {
		s.logger.Info("login rejected", slog.String("email", email))
		return "", apperror.InvalidCredentials()
	}

	s.logger.Info("login succeeded",
		slog.Int("id", user.ID),
		slog.String("email", user.Email),
	)

	return user.Email, nil
}
