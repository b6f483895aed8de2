package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	ingredientdomain "nalewka/internal/domain/ingredient"
)

type ingredientRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ingredientResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toIngredientResponse(i *ingredientdomain.Ingredient) ingredientResponse {
	return ingredientResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		CreatedAt:   i.CreatedAt,
	}
}

// ListIngredients returns the full shared catalog; ingredients are global,
// not per user, so there is no pagination here.
func (h *Handlers) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.ingredients.ListAll(r.Context())
	if err != nil {
		h.log.InternalError("ingredient list failed", err)
		writeInternalError(w)
		return
	}

	items := make([]ingredientResponse, 0, len(ingredients))
	for i := range ingredients {
		items = append(items, toIngredientResponse(&ingredients[i]))
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) GetIngredient(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	ingredient, err := h.ingredients.Get(r.Context(), ingredientID)
	if err != nil {
		if errors.Is(err, ingredientdomain.ErrIngredientNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Ingredient not found")
			return
		}
		h.log.InternalError("ingredient fetch failed", err, "ingredient_id", ingredientID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, toIngredientResponse(ingredient))
}

func (h *Handlers) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
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

	ingredient, err := h.ingredients.Create(r.Context(), strings.TrimSpace(*req.Name), description)
	if err != nil {
		if errors.Is(err, ingredientdomain.ErrNameTaken) {
			writeError(w, http.StatusConflict, "conflict", "Ingredient with this name already exists")
			return
		}
		h.log.InternalError("ingredient create failed", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusCreated, toIngredientResponse(ingredient))
}

func (h *Handlers) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	var req ingredientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	update := ingredientdomain.Update{Description: req.Description}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeValidationError(w, "Name must not be empty")
			return
		}
		update.Name = &name
	}

	ingredient, err := h.ingredients.Update(r.Context(), ingredientID, update)
	if err != nil {
		switch {
		case errors.Is(err, ingredientdomain.ErrIngredientNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Ingredient not found")
		case errors.Is(err, ingredientdomain.ErrNameTaken):
			writeError(w, http.StatusConflict, "conflict", "Ingredient with this name already exists")
		default:
			h.log.InternalError("ingredient update failed", err, "ingredient_id", ingredientID)
			writeInternalError(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, toIngredientResponse(ingredient))
}

func (h *Handlers) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	ingredientID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := h.ingredients.Delete(r.Context(), ingredientID); err != nil {
		switch {
		case errors.Is(err, ingredientdomain.ErrIngredientNotFound):
			writeError(w, http.StatusNotFound, "not_found", "Ingredient not found")
		case errors.Is(err, ingredientdomain.ErrIngredientInUse):
			writeError(w, http.StatusConflict, "conflict", "Ingredient is used by existing batch formulas")
		default:
			h.log.InternalError("ingredient delete failed", err, "ingredient_id", ingredientID)
			writeInternalError(w)
		}
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
