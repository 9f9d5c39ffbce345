package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-vault/internal/service"
)

// UserHandler exposes registration and login over HTTP.
//
// WHAT NEVER APPEARS IN A RESPONSE:
// Passwords. Not the plaintext, not the hash record. Both success bodies
// carry only a message and the email — handlers build responses from
// dedicated structs rather than serialising model.User, so there is no
// field to forget to strip.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// credentialsRequest is the schema for both POST /user and POST /user/login.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the confirmation body for both operations.
type userResponse struct {
	Message string `json:"message"`
	User    string `json:"user"` // the email — never anything credential-shaped
}

// HandleRegister creates a new user account.
//
// HTTP: POST /user
// REQUEST BODY: {"email": "a@x.com", "password": "secret"}
// RESPONSE: 201 {"message": "...", "user": "a@x.com"}
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	email, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{
		Message: "User registered successfully",
		User:    email,
	})
}

// HandleLogin checks a user's credentials.
//
// HTTP: POST /user/login
// RESPONSE: 200 {"message": "...", "user": email} on success,
// 401 {"error": "invalid_credentials", "message": "Invalid credentials."}
// on ANY failure — unknown email and wrong password are byte-for-byte
// identical so the response can't be used to enumerate accounts.
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	email, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		Message: "Login successful",
		User:    email,
	})
}
