// Package jsonfile implements the document store as a single JSON file.
//
// WHY A JSON FILE?
// The whole vault fits in one human-readable document. You can inspect it
// with cat, diff it between backups, and fix it with a text editor. No
// server, no driver, no schema. The trade-offs (whole-file rewrites, no
// cross-process isolation) are acceptable for a single-process vault — and
// the sqlite backend exists for anyone who outgrows them.
//
// FILE LIFECYCLE:
//   - Missing file       → empty document (first run, nothing stored yet)
//   - Unparsable file    → apperror.ErrStoreCorrupt (fail LOUD — see Load)
//   - Save               → write temp file, rename over the target
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/xid"

	"github.com/sakif/snippet-vault/internal/apperror"
	"github.com/sakif/snippet-vault/internal/model"
	"github.com/sakif/snippet-vault/internal/store"
)

// COMPILE-TIME INTERFACE CHECK:
// Verifies that *Store implements store.DocumentStore. If a method goes
// missing or a signature drifts, the compiler errors here instead of at
// some distant call site.
var _ store.DocumentStore = (*Store)(nil)

// Store persists the document at a fixed file path.
type Store struct {
	path string

	// mu guards the whole load→mutate→save window in Update. Load and Save
	// individually are already safe against each other at the OS level
	// (rename is atomic), but the read-modify-write SEQUENCE is not — two
	// concurrent creates would both read the same max id. Update holds mu
	// across the sequence so in-process writers are serialised.
	mu sync.Mutex
}

// New creates a Store for the given path and ensures the parent directory
// exists. The file itself is created lazily on first Save.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("jsonfile: store path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: creating data directory: %w", err)
	}

	return &Store{path: path}, nil
}

// Load reads the full document from disk.
//
// THE EMPTY-VS-CORRUPT DISTINCTION MATTERS:
// A missing file means "nothing stored yet" — that's a healthy first run,
// so we return an empty document and no error. A file that EXISTS but
// doesn't parse is a completely different situation: it still holds data we
// can't read. Returning an empty document there would be catastrophic,
// because the next Save would overwrite the unreadable-but-real data with
// the empty document. So parse failures surface as ErrStoreCorrupt and the
// operation fails.
func (s *Store) Load(_ context.Context) (*model.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.NewDocument(), nil
		}
		return nil, fmt.Errorf("jsonfile: reading %s: %w", s.path, err)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperror.StoreCorrupt(s.path, err)
	}

	// Tolerate documents that omit a collection (older files, hand edits).
	doc.Normalize()

	return &doc, nil
}

// Save writes the entire document, replacing any previous content.
//
// ATOMIC WRITE-THEN-RENAME:
// Writing directly into the target file means a crash mid-write leaves a
// half-written (= corrupt) document. Instead we write a uniquely named temp
// file in the same directory and rename it over the target. rename(2) is
// atomic on POSIX filesystems, so readers see either the old document or
// the new one — never a torn mix.
//
// The document is indented for human readability and diffability. Not a
// correctness requirement, just a kindness to whoever ends up inspecting
// the file.
func (s *Store) Save(_ context.Context, doc *model.Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("jsonfile: encoding document: %w", err)
	}

	// xid gives us a cheap unique suffix so concurrent saves never fight
	// over the same temp file.
	tmp := fmt.Sprintf("%s.%s.tmp", s.path, xid.New().String())

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("jsonfile: writing temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp) // best effort — don't leave temp litter behind
		return fmt.Errorf("jsonfile: replacing %s: %w", s.path, err)
	}

	return nil
}

// Update runs fn as one mutex-guarded load→mutate→save critical section.
// If fn returns an error, the document is not saved.
func (s *Store) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	return s.Save(ctx, doc)
}

// Close is a no-op — the store holds no open handles between operations.
func (s *Store) Close() error {
	return nil
}
