// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, orchestrates store + crypto
//	Store   (Data layer)     → reads/writes the persisted document
//
// The services in this package are also where the two security transforms
// are orchestrated: SnippetService runs every code field through the
// content cipher on its way in and out of the store, and UserService runs
// every password through bcrypt. Neither the handlers nor the store ever
// see the "wrong" form — handlers only see plaintext code and plaintext
// passwords (inbound), the store only sees ciphertext and hash records.
//
// DEPENDENCY INJECTION:
// Each service takes its collaborators (store interface, cipher, password
// service, logger) as constructor parameters. No globals, no hidden state —
// tests inject in-memory fakes and throwaway keys.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippet-vault/internal/apperror"
	"github.com/sakif/snippet-vault/internal/crypto"
	"github.com/sakif/snippet-vault/internal/model"
	"github.com/sakif/snippet-vault/internal/store"
)

// Validation constants.
const (
	MaxLanguageLength = 100
	MaxCodeLength     = 100000 // ~100KB of code
)

// SnippetService handles business logic for code snippets: validation,
// id-stable reads, and the encrypt-on-write / decrypt-on-read discipline.
type SnippetService struct {
	store  store.DocumentStore
	cipher *crypto.Cipher
	logger *slog.Logger
}

// NewSnippetService creates a SnippetService. The caller decides which
// store backend to use (JSON file, SQLite, in-memory fake for tests).
func NewSnippetService(st store.DocumentStore, cipher *crypto.Cipher, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		store:  st,
		cipher: cipher,
		logger: logger,
	}
}

// List returns all snippets, optionally filtered by language, with
// plaintext code.
//
// FILTERING IS CASE-INSENSITIVE, STORAGE IS NOT:
// A snippet stored with language "Python" matches the filter "python" (and
// "PYTHON"), but its stored language keeps its original casing. We compare
// with strings.EqualFold rather than lower-casing both sides into new
// strings.
//
// DECRYPTION IS ALL-OR-NOTHING:
// If any retained snippet fails to decrypt, the whole request fails. A
// partially decrypted listing would quietly hide the snippets that matter
// most — the ones whose stored data is broken.
func (s *SnippetService) List(ctx context.Context, language string) ([]model.Snippet, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.Snippet, 0, len(doc.Snippets))
	for _, snippet := range doc.Snippets {
		if language != "" && !strings.EqualFold(snippet.Language, language) {
			continue
		}

		plaintext, err := s.cipher.Decrypt(snippet.Code)
		if err != nil {
			s.logger.Error("snippet decryption failed",
				slog.Int("id", snippet.ID),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		snippet.Code = plaintext
		result = append(result, snippet)
	}

	return result, nil
}

// Get returns the snippet with the given id, with plaintext code.
// Returns apperror.ErrNotFound if no snippet has that id.
func (s *SnippetService) Get(ctx context.Context, id int) (*model.Snippet, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	for _, snippet := range doc.Snippets {
		if snippet.ID != id {
			continue
		}

		plaintext, err := s.cipher.Decrypt(snippet.Code)
		if err != nil {
			s.logger.Error("snippet decryption failed",
				slog.Int("id", snippet.ID),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		snippet.Code = plaintext
		return &snippet, nil
	}

	return nil, apperror.NotFound("Snippet", id)
}

// Create validates, encrypts, and persists a new snippet.
//
// The returned snippet carries the PLAINTEXT code as confirmation to the
// caller — the persisted record differs from the returned one by design.
// Encryption happens before the append, so plaintext never sits in the
// document, not even transiently between mutate and save.
func (s *SnippetService) Create(ctx context.Context, language, code string) (*model.Snippet, error) {
	language = strings.TrimSpace(language)

	if language == "" {
		return nil, apperror.ValidationFailed("language", "snippet language is required")
	}
	if len(language) > MaxLanguageLength {
		return nil, apperror.ValidationFailed("language",
			fmt.Sprintf("snippet language must be %d characters or less", MaxLanguageLength))
	}
	if code == "" {
		return nil, apperror.ValidationFailed("code", "snippet code is required")
	}
	if len(code) > MaxCodeLength {
		return nil, apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}

	ciphertext, err := s.cipher.Encrypt(code)
	if err != nil {
		return nil, fmt.Errorf("service/snippet: encrypting code: %w", err)
	}

	var created model.Snippet

	// Update is the critical section: id allocation and the append happen
	// against the same freshly loaded document, and no other writer can
	// interleave between them and the save.
	err = s.store.Update(ctx, func(doc *model.Document) error {
		created = model.Snippet{
			ID:       doc.NextSnippetID(),
			Language: language,
			Code:     ciphertext,
		}
		doc.Snippets = append(doc.Snippets, created)
		return nil
	})
	if err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("language", language),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/snippet: creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.Int("id", created.ID),
		slog.String("language", created.Language),
	)

	// Confirmation form: same record, plaintext code.
	created.Code = code
	return &created, nil
}
