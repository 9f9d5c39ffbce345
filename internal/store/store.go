// Package store defines the persistence contract for the vault document.
//
// THE WHOLE-DOCUMENT MODEL:
// Unlike a row-oriented repository (Create/GetByID/Update per record), this
// store reads and writes the ENTIRE document — every snippet and every user
// — as one unit. Every operation starts from a fresh Load and every
// mutation ends with a full Save. That keeps the storage format trivially
// inspectable and makes id allocation a pure function of the loaded
// document, at the cost of rewriting everything on each change. Fine for a
// vault of this size; a real multi-tenant service would want row-level
// storage.
package store

import (
	"context"

	"github.com/sakif/snippet-vault/internal/model"
)

// DocumentStore is implemented by each storage backend (JSON file, SQLite).
//
// Services depend on this interface, not on a concrete backend — the same
// "programming to an interface" pattern as any repository layer. Swapping
// backends is one line in server.go.
type DocumentStore interface {
	// Load reads the full document. A backing resource that does not exist
	// yet yields an empty document and no error. A backing resource that
	// exists but cannot be parsed yields apperror.ErrStoreCorrupt — never a
	// silently empty document, because the next Save would then destroy
	// whatever the unreadable file still holds.
	Load(ctx context.Context) (*model.Document, error)

	// Save replaces the entire persisted document with doc.
	Save(ctx context.Context, doc *model.Document) error

	// Update runs fn as a single load→mutate→save critical section.
	//
	// WHY NOT LET CALLERS Load/Save THEMSELVES FOR WRITES?
	// Two interleaved load-mutate-save sequences race: both load the same
	// document, both compute the same next id, and the second Save silently
	// discards the first one's append. Update serialises writers (mutex for
	// the file backend, transaction for SQLite) so that cannot happen
	// in-process. If fn returns an error, nothing is saved.
	Update(ctx context.Context, fn func(doc *model.Document) error) error

	// Close releases backend resources. Safe to call once at shutdown.
	Close() error
}
