package handler

import (
	"net/http"
	"strconv"
	"strings"

	batchdomain "nalewka/internal/domain/batch"
	"nalewka/internal/transport/httpserver/middleware"
	"nalewka/pkg/pagination"
)

type createFormulaRequest struct {
	IngredientID uint       `json:"ingredient_id"`
	Quantity     flexString `json:"quantity"`
	Unit         string     `json:"unit"`
}

type updateFormulaRequest struct {
	IngredientID *uint       `json:"ingredient_id"`
	Quantity     *flexString `json:"quantity"`
	Unit         *string     `json:"unit"`
}

func (h *Handlers) ListBatchFormulas(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	batchID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}
	page, perPage := parsePagination(r)

	formulas, total, err := h.batches.ListFormulasForBatch(r.Context(), batchID, userID, perPage, offsetFor(page, perPage))
	if err != nil {
		h.writeBatchError(w, err)
		return
	}

	items := make([]formulaResponse, 0, len(formulas))
	for i := range formulas {
		items = append(items, toFormulaResponse(&formulas[i]))
	}

	writeJSON(w, http.StatusOK, pagination.NewEnvelope(items, page, perPage, total))
}

func (h *Handlers) CreateBatchFormula(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	batchID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	var req createFormulaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	var missing []string
	if req.IngredientID == 0 {
		missing = append(missing, "ingredient_id")
	}
	if req.Quantity.String() == "" {
		missing = append(missing, "quantity")
	}
	if strings.TrimSpace(req.Unit) == "" {
		missing = append(missing, "unit")
	}
	if len(missing) > 0 {
		writeMissingFields(w, missing)
		return
	}

	quantity, err := strconv.ParseFloat(req.Quantity.String(), 64)
	if err != nil {
		writeValidationError(w, "Ingredient quantity must be a positive number")
		return
	}

	formula, err := h.batches.AddFormula(r.Context(), batchID, userID, req.IngredientID, quantity, req.Unit)
	if err != nil {
		h.writeBatchError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFormulaResponse(formula))
}

func (h *Handlers) UpdateFormula(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	formulaID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	var req updateFormulaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	update := batchdomain.FormulaUpdate{
		IngredientID: req.IngredientID,
		Unit:         req.Unit,
	}
	if req.Quantity != nil {
		quantity, err := strconv.ParseFloat(req.Quantity.String(), 64)
		if err != nil {
			writeValidationError(w, "Ingredient quantity must be a positive number")
			return
		}
		update.Quantity = &quantity
	}

	formula, err := h.batches.UpdateFormula(r.Context(), formulaID, userID, update)
	if err != nil {
		h.writeBatchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFormulaResponse(formula))
}

func (h *Handlers) DeleteFormula(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	formulaID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := h.batches.DeleteFormula(r.Context(), formulaID, userID); err != nil {
		h.writeBatchError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
