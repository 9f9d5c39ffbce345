package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/snippet-vault/internal/service"
)

// SnippetHandler exposes the snippet CRUD surface over HTTP.
//
// BOUNDARY VALIDATION:
// Each operation has its own request struct, decoded and shape-checked
// here before anything reaches the service. The service layer only ever
// sees already-parsed, strongly-typed inputs — no raw JSON, no
// stringly-typed ids.
type SnippetHandler struct {
	snippets *service.SnippetService
	logger   *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler.
func NewSnippetHandler(snippets *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{snippets: snippets, logger: logger}
}

// createSnippetRequest is the schema for POST /snippets.
type createSnippetRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

// HandleList returns all snippets, optionally filtered by language.
//
// HTTP: GET /snippets?language=<text>
//
// RESPONSE: 200, array of {id, language, code} with PLAINTEXT code.
// The filter compares case-insensitively: ?language=python matches
// snippets stored as "Python".
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")

	snippets, err := h.snippets.List(r.Context(), language)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippets)
}

// HandleGet returns a single snippet by id.
//
// HTTP: GET /snippets/{id}
//
// A non-numeric id can't possibly name a stored snippet, so it gets the
// same 404 as a numeric id that isn't present.
func (h *SnippetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Snippet not found",
		})
		return
	}

	snippet, err := h.snippets.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleCreate saves a new snippet.
//
// HTTP: POST /snippets
// REQUEST BODY: {"language": "Go", "code": "package main"}
// RESPONSE: 201 {id, language, code} — the code in the response is the
// plaintext the caller sent, as confirmation. What hit the disk is
// ciphertext; the two are never equal.
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSnippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	snippet, err := h.snippets.Create(r.Context(), req.Language, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snippet)
}
