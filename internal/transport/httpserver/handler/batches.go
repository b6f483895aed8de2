package handler

import (
	"errors"
	"net/http"
	"time"

	batchdomain "nalewka/internal/domain/batch"
	"nalewka/internal/transport/httpserver/middleware"
	"nalewka/pkg/pagination"
)

type ingredientEntryRequest struct {
	IngredientID uint       `json:"ingredient_id"`
	Quantity     flexString `json:"quantity"`
	Unit         string     `json:"unit"`
}

// createBatchRequest accepts both "description" and the legacy
// "batch_description" key; the latter wins when both are present.
type createBatchRequest struct {
	Description      *string                   `json:"description"`
	BatchDescription *string                   `json:"batch_description"`
	Date             *string                   `json:"date"`
	BottleCount      *int                      `json:"bottle_count"`
	BottleVolume     *float64                  `json:"bottle_volume"`
	BottleVolumeUnit *string                   `json:"bottle_volume_unit"`
	Ingredients      *[]ingredientEntryRequest `json:"ingredients"`
}

type updateBatchRequest struct {
	Description      *string  `json:"description"`
	Date             *string  `json:"date"`
	BottleCount      *int     `json:"bottle_count"`
	BottleVolume     *float64 `json:"bottle_volume"`
	BottleVolumeUnit *string  `json:"bottle_volume_unit"`
}

type updateBottlesRequest struct {
	BottleCount      *int     `json:"bottle_count"`
	BottleVolume     *float64 `json:"bottle_volume"`
	BottleVolumeUnit *string  `json:"bottle_volume_unit"`
}

type formulaResponse struct {
	ID             uint    `json:"id"`
	IngredientID   uint    `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
}

type batchResponse struct {
	ID               uint              `json:"id"`
	Date             time.Time         `json:"date"`
	Description      string            `json:"description"`
	LiquorID         uint              `json:"liquor_id"`
	BottleCount      int               `json:"bottle_count"`
	BottleVolume     float64           `json:"bottle_volume"`
	BottleVolumeUnit string            `json:"bottle_volume_unit"`
	TotalVolume      float64           `json:"total_volume"`
	IngredientCount  int64             `json:"ingredient_count"`
	Formulas         []formulaResponse `json:"formulas,omitempty"`
}

func toFormulaResponse(f *batchdomain.FormulaDetail) formulaResponse {
	return formulaResponse{
		ID:             f.ID,
		IngredientID:   f.IngredientID,
		IngredientName: f.IngredientName,
		Quantity:       f.Quantity,
		Unit:           f.Unit,
	}
}

func toBatchDetailResponse(b *batchdomain.BatchDetail) batchResponse {
	formulas := make([]formulaResponse, 0, len(b.Formulas))
	for i := range b.Formulas {
		formulas = append(formulas, toFormulaResponse(&b.Formulas[i]))
	}
	return batchResponse{
		ID:               b.ID,
		Date:             b.Date,
		Description:      b.Description,
		LiquorID:         b.LiquorID,
		BottleCount:      b.BottleCount,
		BottleVolume:     b.BottleVolume,
		BottleVolumeUnit: b.BottleVolumeUnit,
		TotalVolume:      b.TotalVolume(),
		IngredientCount:  int64(b.IngredientCount()),
		Formulas:         formulas,
	}
}

func toBatchSummaryResponse(b *batchdomain.BatchSummary) batchResponse {
	return batchResponse{
		ID:               b.ID,
		Date:             b.Date,
		Description:      b.Description,
		LiquorID:         b.LiquorID,
		BottleCount:      b.BottleCount,
		BottleVolume:     b.BottleVolume,
		BottleVolumeUnit: b.BottleVolumeUnit,
		TotalVolume:      b.TotalVolume(),
		IngredientCount:  b.IngredientCount,
	}
}

func (h *Handlers) writeBatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, batchdomain.ErrLiquorNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Liquor not found")
	case errors.Is(err, batchdomain.ErrBatchNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Batch not found")
	case errors.Is(err, batchdomain.ErrFormulaNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Formula not found")
	case errors.Is(err, batchdomain.ErrIngredientNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Ingredient not found")
	case errors.Is(err, batchdomain.ErrNoValidIngredients):
		writeValidationError(w, "At least one valid ingredient must be added")
	case errors.Is(err, batchdomain.ErrInvalidQuantity):
		writeValidationError(w, "Ingredient quantity must be a positive number")
	case errors.Is(err, batchdomain.ErrUnitRequired):
		writeValidationError(w, "Unit is required")
	case errors.Is(err, batchdomain.ErrDescriptionRequired):
		writeValidationError(w, "Description must not be empty")
	case errors.Is(err, batchdomain.ErrNegativeBottleCount):
		writeValidationError(w, "Bottle count must not be negative")
	case errors.Is(err, batchdomain.ErrNegativeBottleVolume):
		writeValidationError(w, "Bottle volume must not be negative")
	default:
		h.log.InternalError("batch operation failed", err)
		writeInternalError(w)
	}
}

func (h *Handlers) ListBatches(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	liquorID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}
	page, perPage := parsePagination(r)

	batches, total, err := h.batches.ListBatchesForLiquor(r.Context(), liquorID, userID, perPage, offsetFor(page, perPage))
	if err != nil {
		h.writeBatchError(w, err)
		return
	}

	items := make([]batchResponse, 0, len(batches))
	for i := range batches {
		items = append(items, toBatchSummaryResponse(&batches[i]))
	}

	writeJSON(w, http.StatusOK, pagination.NewEnvelope(items, page, perPage, total))
}

// CreateBatch creates a batch under a liquor. A payload that carries an
// "ingredients" array takes the transactional path; either everything is
// persisted or nothing is.
func (h *Handlers) CreateBatch(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	liquorID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	var req createBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	description := ""
	switch {
	case req.BatchDescription != nil:
		description = *req.BatchDescription
	case req.Description != nil:
		description = *req.Description
	}
	if description == "" {
		writeMissingFields(w, []string{"description"})
		return
	}

	input := batchdomain.CreateBatchInput{
		LiquorID:    liquorID,
		UserID:      userID,
		Description: description,
	}
	if req.Date != nil && *req.Date != "" {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeValidationError(w, "Date must be YYYY-MM-DD or RFC 3339")
			return
		}
		input.Date = &date
	}
	if req.BottleCount != nil {
		input.BottleCount = *req.BottleCount
	}
	if req.BottleVolume != nil {
		input.BottleVolume = *req.BottleVolume
	}
	if req.BottleVolumeUnit != nil {
		input.BottleVolumeUnit = *req.BottleVolumeUnit
	}

	var created *batchdomain.BatchDetail
	if req.Ingredients != nil {
		for _, entry := range *req.Ingredients {
			input.Ingredients = append(input.Ingredients, batchdomain.IngredientEntry{
				IngredientID: entry.IngredientID,
				Quantity:     entry.Quantity.String(),
				Unit:         entry.Unit,
			})
		}
		created, err = h.batches.CreateBatchWithIngredients(r.Context(), input)
	} else {
		created, err = h.batches.CreateBatch(r.Context(), input)
	}
	if err != nil {
		h.writeBatchError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBatchDetailResponse(created))
}

func (h *Handlers) GetBatch(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	batchID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	batch, err := h.batches.GetBatch(r.Context(), batchID, userID)
	if err != nil {
		h.writeBatchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBatchDetailResponse(batch))
}

func (h *Handlers) UpdateBatch(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	batchID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	var req updateBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	update := batchdomain.Update{
		Description:      req.Description,
		BottleCount:      req.BottleCount,
		BottleVolume:     req.BottleVolume,
		BottleVolumeUnit: req.BottleVolumeUnit,
	}
	if req.Date != nil && *req.Date != "" {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeValidationError(w, "Date must be YYYY-MM-DD or RFC 3339")
			return
		}
		update.Date = &date
	}

	batch, err := h.batches.UpdateBatch(r.Context(), batchID, userID, update)
	if err != nil {
		h.writeBatchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBatchDetailResponse(batch))
}

// UpdateBatchBottles touches only the bottle fields; absent fields keep
// their stored values.
func (h *Handlers) UpdateBatchBottles(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	batchID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	var req updateBottlesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	input := batchdomain.UpdateBottlesInput{
		BottleCount:  req.BottleCount,
		BottleVolume: req.BottleVolume,
	}
	if req.BottleVolumeUnit != nil {
		input.BottleVolumeUnit = *req.BottleVolumeUnit
	}

	batch, err := h.batches.UpdateBatchBottles(r.Context(), batchID, userID, input)
	if err != nil {
		h.writeBatchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBatchDetailResponse(batch))
}

func (h *Handlers) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	batchID, err := parseID(r, "id")
	if err != nil {
		writeValidationError(w, err.Error())
		return
	}

	if err := h.batches.DeleteBatch(r.Context(), batchID, userID); err != nil {
		h.writeBatchError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
