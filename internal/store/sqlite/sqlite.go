// Package sqlite implements the document store on an embedded SQLite database.
//
// WHY OFFER THIS NEXT TO THE JSON FILE?
// The JSON backend has no isolation between the load and save of a
// read-modify-write sequence (it relies on an in-process mutex). SQLite
// gives the same Update contract real transactional backing, and it keeps
// working if a second process ever opens the vault. The external behaviour
// — whole-document load/save, max+1 id allocation — is identical, so the
// two backends are interchangeable behind store.DocumentStore.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C
// compiler installed and cross-compilation becomes painful. modernc.org/sqlite
// is a pure Go translation of the SQLite C code — works everywhere Go works.
//
// WHOLE-DOCUMENT SEMANTICS OVER TABLES:
// Load SELECTs both tables into one model.Document. Save DELETEs and
// re-INSERTs both tables inside a single transaction — a literal
// translation of "replace the entire document". Wasteful for big data,
// irrelevant at vault scale, and it keeps id allocation identical to the
// file backend (computed from the loaded document, not by AUTOINCREMENT).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	// BLANK IMPORT:
	// Side-effect only — the sqlite package's init() registers itself with
	// database/sql as a driver named "sqlite". After this import,
	// sql.Open("sqlite", ...) knows how to talk to SQLite.
	_ "modernc.org/sqlite"

	"github.com/sakif/snippet-vault/internal/apperror"
	"github.com/sakif/snippet-vault/internal/model"
	"github.com/sakif/snippet-vault/internal/store"
)

// Compile-time check that *Store satisfies the document store contract.
var _ store.DocumentStore = (*Store)(nil)

// Store persists the document in two SQLite tables.
type Store struct {
	conn *sql.DB

	// mu serialises Update sections in-process, same as the file backend.
	// The transaction inside Update protects against other processes; the
	// mutex avoids SQLITE_BUSY churn between our own goroutines.
	mu sync.Mutex
}

// New opens (or creates) the database at dbPath and ensures the schema
// exists. Use ":memory:" in tests for a throwaway database.
func New(dbPath string) (*Store, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Ping forces a real connection now, so a bad path or permissions
	// problem surfaces at startup instead of on the first request.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	s := &Store{conn: conn}

	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return s, nil
}

// migrate creates the two collection tables. CREATE TABLE IF NOT EXISTS is
// idempotent, so this is safe on every startup.
//
// Note there is no AUTOINCREMENT: ids are part of the document contract and
// are allocated by Document.NextSnippetID/NextUserID from the loaded state,
// exactly as the file backend does.
func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id       INTEGER PRIMARY KEY,
			language TEXT NOT NULL,
			code     TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS users (
			id       INTEGER PRIMARY KEY,
			email    TEXT NOT NULL,
			password TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Load reads both tables into a single document.
//
// A database that cannot be read at all is the SQLite equivalent of an
// unparsable JSON file: existing data we can't access. That surfaces as
// ErrStoreCorrupt, never as an empty document.
func (s *Store) Load(ctx context.Context) (*model.Document, error) {
	doc := model.NewDocument()

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, language, code FROM snippets ORDER BY id`)
	if err != nil {
		return nil, apperror.StoreCorrupt("snippets", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sn model.Snippet
		if err := rows.Scan(&sn.ID, &sn.Language, &sn.Code); err != nil {
			return nil, apperror.StoreCorrupt("snippets", err)
		}
		doc.Snippets = append(doc.Snippets, sn)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.StoreCorrupt("snippets", err)
	}

	userRows, err := s.conn.QueryContext(ctx,
		`SELECT id, email, password FROM users ORDER BY id`)
	if err != nil {
		return nil, apperror.StoreCorrupt("users", err)
	}
	defer userRows.Close()

	for userRows.Next() {
		var u model.User
		if err := userRows.Scan(&u.ID, &u.Email, &u.PasswordHash); err != nil {
			return nil, apperror.StoreCorrupt("users", err)
		}
		doc.Users = append(doc.Users, u)
	}
	if err := userRows.Err(); err != nil {
		return nil, apperror.StoreCorrupt("users", err)
	}

	return doc, nil
}

// Save replaces the entire persisted document inside one transaction.
// Either every table reflects doc afterwards, or nothing changed.
func (s *Store) Save(ctx context.Context, doc *model.Document) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning save transaction: %w", err)
	}
	// Rollback after a successful Commit is a harmless no-op, so deferring
	// it unconditionally covers every early-return error path.
	defer tx.Rollback()

	if err := saveDocumentTx(ctx, tx, doc); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing save: %w", err)
	}
	return nil
}

// saveDocumentTx writes doc through an open transaction. Shared by Save and
// Update so both go through the identical replace-all path.
func saveDocumentTx(ctx context.Context, tx *sql.Tx, doc *model.Document) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM snippets`); err != nil {
		return fmt.Errorf("sqlite: clearing snippets: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("sqlite: clearing users: %w", err)
	}

	for _, sn := range doc.Snippets {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snippets (id, language, code) VALUES (?, ?, ?)`,
			sn.ID, sn.Language, sn.Code,
		); err != nil {
			return fmt.Errorf("sqlite: inserting snippet %d: %w", sn.ID, err)
		}
	}

	for _, u := range doc.Users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, email, password) VALUES (?, ?, ?)`,
			u.ID, u.Email, u.PasswordHash,
		); err != nil {
			return fmt.Errorf("sqlite: inserting user %d: %w", u.ID, err)
		}
	}

	return nil
}

// Update runs fn as one serialised load→mutate→save critical section, with
// the save inside a transaction. If fn returns an error, nothing is written.
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

// Close closes the underlying connection pool. Always call this at
// shutdown — it flushes the WAL and releases the file lock.
func (s *Store) Close() error {
	return s.conn.Close()
}
