package handler

import (
	"net/http"

	"nalewka/internal/auth"
	apikeydomain "nalewka/internal/domain/apikey"
	batchdomain "nalewka/internal/domain/batch"
	ingredientdomain "nalewka/internal/domain/ingredient"
	liquordomain "nalewka/internal/domain/liquor"
	userdomain "nalewka/internal/domain/user"
	"nalewka/pkg/logger"
)

// Handlers bundles the HTTP endpoints with the services they delegate to.
type Handlers struct {
	users       *userdomain.Service
	apiKeys     *apikeydomain.Service
	liquors     *liquordomain.Service
	ingredients *ingredientdomain.Service
	batches     *batchdomain.Service
	tokens      *auth.TokenManager
	log         logger.Logger
}

func New(
	users *userdomain.Service,
	apiKeys *apikeydomain.Service,
	liquors *liquordomain.Service,
	ingredients *ingredientdomain.Service,
	batches *batchdomain.Service,
	tokens *auth.TokenManager,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		users:       users,
		apiKeys:     apiKeys,
		liquors:     liquors,
		ingredients: ingredients,
		batches:     batches,
		tokens:      tokens,
		log:         log,
	}
}

func (h *Handlers) APIRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "nalewka API",
		"version": "v1",
	})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
