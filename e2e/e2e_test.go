//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"nalewka/internal/auth"
	"nalewka/internal/config"
	"nalewka/internal/db"
	apikeydomain "nalewka/internal/domain/apikey"
	batchdomain "nalewka/internal/domain/batch"
	ingredientdomain "nalewka/internal/domain/ingredient"
	liquordomain "nalewka/internal/domain/liquor"
	userdomain "nalewka/internal/domain/user"
	apikeyrepo "nalewka/internal/repository/postgres/apikey"
	batchrepo "nalewka/internal/repository/postgres/batch"
	ingredientrepo "nalewka/internal/repository/postgres/ingredient"
	liquorrepo "nalewka/internal/repository/postgres/liquor"
	userrepo "nalewka/internal/repository/postgres/user"
	"nalewka/internal/transport/httpserver"
	"nalewka/internal/transport/httpserver/handler"
	"nalewka/internal/transport/httpserver/middleware"
	"nalewka/pkg/logger"

	"gorm.io/gorm"
)

func setupE2E(t *testing.T) *httptest.Server {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.New(io.Discard, slog.LevelError, "text")

	dbConn, err := db.NewPostgres(config.DBConfig{DSN: dsn}, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	apiKeys := apikeydomain.NewService(apikeyrepo.NewPostgres(dbConn))
	liquors := liquordomain.NewService(liquorrepo.NewPostgres(dbConn))
	ingredients := ingredientdomain.NewService(ingredientrepo.NewPostgres(dbConn))
	batches := batchdomain.NewService(batchrepo.NewPostgres(dbConn))

	tokens := auth.NewTokenManager("e2e-secret", time.Hour)
	handlers := handler.New(users, apiKeys, liquors, ingredients, batches, tokens, log)
	authMiddleware := middleware.NewAuth(tokens, apiKeys, users, log)

	router := httpserver.NewRouter(config.Config{HTTPPort: "0"}, handlers, authMiddleware)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.Exec(
		"TRUNCATE batch_formulas, batches, liquors, ingredients, api_keys, users RESTART IDENTITY CASCADE",
	).Error
}

func doJSON(t *testing.T, method, url, token string, body interface{}, want int) map[string]interface{} {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		t.Fatalf("%s %s: status = %d, want %d (body: %s)", method, url, resp.StatusCode, want, raw)
	}

	var decoded map[string]interface{}
	if len(bytes.TrimSpace(raw)) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return decoded
}

func TestE2EBatchFlow(t *testing.T) {
	server := setupE2E(t)
	base := server.URL + "/api/v1"

	doJSON(t, http.MethodPost, base+"/auth/register", "", map[string]string{
		"username": "anna", "email": "anna@example.com", "password": "tajnehaslo",
	}, http.StatusCreated)

	login := doJSON(t, http.MethodPost, base+"/auth/login", "", map[string]string{
		"username": "anna", "password": "tajnehaslo",
	}, http.StatusOK)
	token := login["auth_token"].(string)

	liquor := doJSON(t, http.MethodPost, base+"/liquors", token, map[string]string{
		"name": "Wiśniówka",
	}, http.StatusCreated)
	liquorID := int(liquor["id"].(float64))

	ingredient := doJSON(t, http.MethodPost, base+"/ingredients", token, map[string]string{
		"name": "cherries",
	}, http.StatusCreated)

	batch := doJSON(t, http.MethodPost, fmt.Sprintf("%s/liquors/%d/batches", base, liquorID), token, map[string]interface{}{
		"description":        "e2e batch",
		"bottle_count":       4,
		"bottle_volume":      0.5,
		"bottle_volume_unit": "l",
		"ingredients": []map[string]interface{}{
			{"ingredient_id": ingredient["id"], "quantity": "2", "unit": "kg"},
		},
	}, http.StatusCreated)

	if got := batch["bottle_volume"].(float64); got != 500 {
		t.Errorf("bottle_volume = %v, want 500", got)
	}
	if got := batch["total_volume"].(float64); got != 2000 {
		t.Errorf("total_volume = %v, want 2000", got)
	}
}
