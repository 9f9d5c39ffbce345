package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sakif/snippet-vault/internal/apperror"
	"github.com/sakif/snippet-vault/internal/model"
)

// newTestStore creates a Store backed by a file inside t.TempDir().
// The directory (and everything in it) is removed when the test finishes.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vault.json")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, path
}

// =========================================================================
// Load TESTS
// =========================================================================

func TestLoad_MissingFileReturnsEmptyDocument(t *testing.T) {
	s, _ := newTestStore(t)

	// First run: no file yet. That's healthy — empty document, no error.
	doc, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Snippets == nil || doc.Users == nil {
		t.Fatal("Load() returned nil collections — both must be initialised")
	}
	if len(doc.Snippets) != 0 || len(doc.Users) != 0 {
		t.Errorf("Load() of missing file = %d snippets, %d users; want 0, 0",
			len(doc.Snippets), len(doc.Users))
	}
}

func TestLoad_CorruptFileFailsLoud(t *testing.T) {
	s, path := newTestStore(t)

	// An EXISTING but unparsable file must never be treated as empty —
	// the next Save would destroy whatever it still holds.
	if err := os.WriteFile(path, []byte("{this is not json"), 0o644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	_, err := s.Load(context.Background())
	if !errors.Is(err, apperror.ErrStoreCorrupt) {
		t.Fatalf("Load() of corrupt file error = %v, want ErrStoreCorrupt", err)
	}
}

func TestLoad_DocumentMissingCollectionsIsNormalized(t *testing.T) {
	s, path := newTestStore(t)

	// A hand-written or pre-users file may omit a collection entirely.
	if err := os.WriteFile(path, []byte(`{"snippets": [{"id":1,"language":"Go","code":"ct"}]}`), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	doc, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Users == nil {
		t.Error("Load() left Users nil for a document without a users key")
	}
	if len(doc.Snippets) != 1 {
		t.Errorf("Load() = %d snippets, want 1", len(doc.Snippets))
	}
}

// =========================================================================
// Save TESTS
// =========================================================================

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	doc := model.NewDocument()
	doc.Snippets = append(doc.Snippets,
		model.Snippet{ID: 1, Language: "Go", Code: "ciphertext-1"},
		model.Snippet{ID: 2, Language: "Python", Code: "ciphertext-2"},
	)
	doc.Users = append(doc.Users,
		model.User{ID: 1, Email: "a@x.com", PasswordHash: "$2a$12$fakehash"},
	)

	if err := s.Save(ctx, doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Snippets) != 2 || len(got.Users) != 1 {
		t.Fatalf("round trip = %d snippets, %d users; want 2, 1", len(got.Snippets), len(got.Users))
	}
	if got.Snippets[1] != doc.Snippets[1] {
		t.Errorf("snippet round trip mismatch: got %+v, want %+v", got.Snippets[1], doc.Snippets[1])
	}
	if got.Users[0] != doc.Users[0] {
		t.Errorf("user round trip mismatch: got %+v, want %+v", got.Users[0], doc.Users[0])
	}
}

func TestSave_OverwritesWholeDocument(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first := model.NewDocument()
	first.Snippets = append(first.Snippets, model.Snippet{ID: 1, Language: "Go", Code: "ct"})
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Save is a full-file replace — the second document wins completely.
	second := model.NewDocument()
	second.Users = append(second.Users, model.User{ID: 1, Email: "a@x.com", PasswordHash: "h"})
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Snippets) != 0 || len(got.Users) != 1 {
		t.Errorf("after overwrite = %d snippets, %d users; want 0, 1", len(got.Snippets), len(got.Users))
	}
}

func TestSave_FileIsIndentedAndParseable(t *testing.T) {
	s, path := newTestStore(t)

	doc := model.NewDocument()
	doc.Snippets = append(doc.Snippets, model.Snippet{ID: 1, Language: "Go", Code: "ct"})
	if err := s.Save(context.Background(), doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}

	// Indentation is a diffability nicety, but it's part of the file's
	// stated format — check it holds.
	if !strings.Contains(string(data), "\n    ") {
		t.Error("saved document is not indented")
	}
	if !json.Valid(data) {
		t.Error("saved document is not valid JSON")
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	s, path := newTestStore(t)

	doc := model.NewDocument()
	for i := 0; i < 5; i++ {
		if err := s.Save(context.Background(), doc); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("reading data dir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("data dir contains %v, want only the vault file", names)
	}
}

// =========================================================================
// Update TESTS
// =========================================================================

func TestUpdate_LoadMutateSave(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	err := s.Update(ctx, func(doc *model.Document) error {
		doc.Snippets = append(doc.Snippets, model.Snippet{
			ID:       doc.NextSnippetID(),
			Language: "Go",
			Code:     "ct",
		})
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Snippets) != 1 || got.Snippets[0].ID != 1 {
		t.Errorf("after Update: %+v, want one snippet with id 1", got.Snippets)
	}
}

func TestUpdate_ErrorFromFnAbortsSave(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	wantErr := errors.New("mutation rejected")
	err := s.Update(ctx, func(doc *model.Document) error {
		doc.Snippets = append(doc.Snippets, model.Snippet{ID: 1, Language: "Go", Code: "ct"})
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Update() error = %v, want %v", err, wantErr)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Snippets) != 0 {
		t.Error("Update() saved the document even though fn returned an error")
	}
}

func TestUpdate_SequentialIDsAreMonotonic(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	// Creating N snippets in sequence yields ids 1..N, no gaps, no repeats.
	for i := 1; i <= 5; i++ {
		err := s.Update(ctx, func(doc *model.Document) error {
			id := doc.NextSnippetID()
			if id != i {
				t.Errorf("NextSnippetID() = %d on iteration %d", id, i)
			}
			doc.Snippets = append(doc.Snippets, model.Snippet{ID: id, Language: "Go", Code: "ct"})
			return nil
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}
}
