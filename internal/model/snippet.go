// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

// Snippet represents a saved code snippet.
// The `json:"..."` tags tell Go's encoding/json package how to serialize/deserialize
// this struct to/from JSON. This is called a "struct tag" — metadata attached to fields.
//
// WHY AN INTEGER ID?
// Snippet ids are small sequential integers assigned by the store
// (1, 2, 3, ...). They are never reused and always increase, so callers can
// rely on GET /snippets/{id} staying stable for the lifetime of the vault.
//
// THE Code FIELD IS CONTEXT-DEPENDENT:
// In API requests and responses, Code is always plaintext. At rest (inside
// the persisted document), Code is ciphertext produced by the content
// cipher. The same struct is used for both because the JSON shape is
// identical — the service layer is responsible for never letting a
// ciphertext Snippet escape to a caller, and never letting a plaintext
// Snippet reach the store.
type Snippet struct {
	ID       int    `json:"id"`
	Language string `json:"language"`
	Code     string `json:"code"`
}
