package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	liquordomain "nalewka/internal/domain/liquor"
	"nalewka/internal/transport/httpserver/middleware"
	"nalewka/pkg/pagination"
)

type liquorRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type liquorResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toLiquorResponse(l *liquordomain.Liquor) liquorResponse {
	return liquorResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		CreatedAt:   l.Created,
	}
}

func (h *Handlers) ListLiquors(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	page, perPage := parsePagination(r)

	liquors, total, err := h.liquors.ListForUser(r.Context(), userID, perPage, offsetFor(page, perPage))
	if err != nil {
		h.log.InternalError("liquor list failed", err, "user_id", userID)
		writeInternalError(w)
		return
	}

	items := make([]liquorResponse, 0, len(liquors))
	for i := range liquors {
		items = append(items, toLiquorResponse(&liquors[i]))
	}

	writeJSON(w, http.StatusOK, pagination.NewEnvelope(items, page, perPage, total))
}

func (h *Handlers) CreateLiquor(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req liquorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		writeMissingFields(w, []string{"name"})
		return
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	liquor, err := h.liquors.Create(r.Context(), userID, strings.TrimSpace(*req.Name), description)
	if err != nil {
		if errors.Is(err, liquordomain.ErrNameTaken) {
			writeError(w, http.StatusConflict, "conflict", "Liquor with this name already exists")
			return
		}
		h.log.InternalError("liquor create failed", err, "user_id", userID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusCreated, toLiquorResponse(liquor))
}

func (h *Handlers) GetLiquor(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	liquorID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	liquor, err := h.liquors.GetForUser(r.Context(), liquorID, userID)
	if err != nil {
		if errors.Is(err, liquordomain.ErrLiquorNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Liquor not found")
			return
		}
		h.log.InternalError("liquor fetch failed", err, "user_id", userID, "liquor_id", liquorID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, toLiquorResponse(liquor))
}

func (h *Handlers) UpdateLiquor(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	liquorID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	var req liquorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	update := liquordomain.Update{Description: req.Description}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeValidationError(w, "Name must not be empty")
			return
		}
		update.Name = &name
	}

	liquor, err := h.liquors.Update(r.Context(), liquorID, userID, update)
	if err != nil {
		switch {
		case errors.Is(err, liquordomain.ErrLiquorNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Liquor not found")
		case errors.Is(err, liquordomain.ErrNameTaken):
			writeError(w, http.StatusConflict, "conflict", "Liquor with this name already exists")
		default:
			h.log.InternalError("liquor update failed", err, "user_id", userID, "liquor_id", liquorID)
			writeInternalError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, toLiquorResponse(liquor))
}

func (h *Handlers) DeleteLiquor(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	liquorID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := h.liquors.Delete(r.Context(), liquorID, userID); err != nil {
		if errors.Is(err, liquordomain.ErrLiquorNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Liquor not found")
			return
		}
		h.log.InternalError("liquor delete failed", err, "user_id", userID, "liquor_id", liquorID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
