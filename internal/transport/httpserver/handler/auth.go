package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	apikeydomain "nalewka/internal/domain/apikey"
	userdomain "nalewka/internal/domain/user"
	"nalewka/internal/transport/httpserver/middleware"
	"nalewka/pkg/pagination"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *userdomain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	var missing []string
	if strings.TrimSpace(req.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(req.Email) == "" {
		missing = append(missing, "email")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		writeMissingFields(w, missing)
		return
	}

	user, err := h.users.Register(r.Context(), userdomain.RegisterInput{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, userdomain.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "conflict", "Username already exists")
		case errors.Is(err, userdomain.ErrEmailTaken):
			writeError(w, http.StatusConflict, "conflict", "Email already exists")
		case errors.Is(err, userdomain.ErrPasswordTooShort):
			writeValidationError(w, "Password must be at least 6 characters")
		default:
			h.log.InternalError("register failed", err)
			writeInternalError(w)
		}
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeValidationError(w, "Username and password are required")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, userdomain.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid username or password")
			return
		}
		h.log.InternalError("login failed", err, "username", req.Username)
		writeInternalError(w)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.log.InternalError("token issue failed", err, "user_id", user.ID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"auth_token": token,
		"user_id":    user.ID,
		"message":    "Successfully logged in.",
	})
}

type createAPIKeyRequest struct {
	Name string `json:"name"`
}

type apiKeyResponse struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Key       string     `json:"key,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	LastUsed  *time.Time `json:"last_used"`
	IsActive  bool       `json:"is_active"`
}

func (h *Handlers) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req createAPIKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeMissingFields(w, []string{"name"})
		return
	}

	key, err := h.apiKeys.Create(r.Context(), userID, strings.TrimSpace(req.Name))
	if err != nil {
		h.log.InternalError("api key create failed", err, "user_id", userID)
		writeInternalError(w)
		return
	}

	// The raw key is shown once, on creation.
	writeJSON(w, http.StatusCreated, apiKeyResponse{
		ID:        key.ID,
		Name:      key.Name,
		Key:       key.Key,
		CreatedAt: key.CreatedAt,
		LastUsed:  key.LastUsed,
		IsActive:  key.IsActive,
	})
}

func (h *Handlers) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	page, perPage := parsePagination(r)

	keys, total, err := h.apiKeys.ListForUser(r.Context(), userID, perPage, offsetFor(page, perPage))
	if err != nil {
		h.log.InternalError("api key list failed", err, "user_id", userID)
		writeInternalError(w)
		return
	}

	items := make([]apiKeyResponse, 0, len(keys))
	for _, key := range keys {
		items = append(items, apiKeyResponse{
			ID:        key.ID,
			Name:      key.Name,
			CreatedAt: key.CreatedAt,
			LastUsed:  key.LastUsed,
			IsActive:  key.IsActive,
		})
	}

	writeJSON(w, http.StatusOK, pagination.NewEnvelope(items, page, perPage, total))
}

func (h *Handlers) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	keyID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := h.apiKeys.Delete(r.Context(), keyID, userID); err != nil {
		if errors.Is(err, apikeydomain.ErrKeyNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "API key not found")
			return
		}
		h.log.InternalError("api key delete failed", err, "user_id", userID, "key_id", keyID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
