package handler

import (
	"errors"
	"net/http"
	"strings"

	userdomain "nalewka/internal/domain/user"
	"nalewka/internal/transport/httpserver/middleware"
)

type updateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		h.log.InternalError("profile fetch failed", err, "user_id", userID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	update := userdomain.ProfileUpdate{}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			writeValidationError(w, "Username must not be empty")
			return
		}
		update.Username = &username
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			writeValidationError(w, "Email must not be empty")
			return
		}
		update.Email = &email
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, update)
	if err != nil {
		switch {
		case errors.Is(err, userdomain.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "conflict", "Username already exists")
		case errors.Is(err, userdomain.ErrEmailTaken):
			writeError(w, http.StatusConflict, "conflict", "Email already exists")
		case errors.Is(err, userdomain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "not_found", "User not found")
		default:
			h.log.InternalError("profile update failed", err, "user_id", userID)
			writeInternalError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
