package httpserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nalewka/internal/auth"
	"nalewka/internal/config"
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

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	token  string
	apiKey string
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&userdomain.User{},
		&apikeydomain.APIKey{},
		&liquordomain.Liquor{},
		&ingredientdomain.Ingredient{},
		&batchdomain.Batch{},
		&batchdomain.Formula{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logger.New(io.Discard, slog.LevelError, "text")

	users := userdomain.NewService(userrepo.NewPostgres(db))
	apiKeys := apikeydomain.NewService(apikeyrepo.NewPostgres(db))
	liquors := liquordomain.NewService(liquorrepo.NewPostgres(db))
	ingredients := ingredientdomain.NewService(ingredientrepo.NewPostgres(db))
	batches := batchdomain.NewService(batchrepo.NewPostgres(db))

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	handlers := handler.New(users, apiKeys, liquors, ingredients, batches, tokens, log)
	authMiddleware := middleware.NewAuth(tokens, apiKeys, users, log)

	cfg := config.Config{HTTPPort: "0"}
	router := httpserver.NewRouter(cfg, handlers, authMiddleware)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func (c *apiClient) request(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.server.URL+path, reader)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("read body: %v", err)
	}

	var decoded map[string]interface{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			// List endpoints return bare arrays.
			decoded = map[string]interface{}{"_raw": string(raw)}
		}
	}
	return resp, decoded
}

func (c *apiClient) mustStatus(method, path string, body interface{}, want int) map[string]interface{} {
	c.t.Helper()
	resp, decoded := c.request(method, path, body)
	if resp.StatusCode != want {
		c.t.Fatalf("%s %s: status = %d, want %d (body: %v)", method, path, resp.StatusCode, want, decoded)
	}
	return decoded
}

func signup(t *testing.T, server *httptest.Server, username string) *apiClient {
	t.Helper()
	client := &apiClient{t: t, server: server}

	client.mustStatus(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "tajnehaslo",
	}, http.StatusCreated)

	login := client.mustStatus(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": "tajnehaslo",
	}, http.StatusOK)

	token, _ := login["auth_token"].(string)
	if token == "" {
		t.Fatal("login returned no auth_token")
	}
	client.token = token
	return client
}

func TestBatchLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t)
	anna := signup(t, server, "anna")

	liquor := anna.mustStatus(http.MethodPost, "/api/v1/liquors", map[string]string{
		"name":        "Wiśniówka",
		"description": "cherry liqueur",
	}, http.StatusCreated)
	liquorID := int(liquor["id"].(float64))

	cherries := anna.mustStatus(http.MethodPost, "/api/v1/ingredients", map[string]string{
		"name": "cherries",
	}, http.StatusCreated)
	sugar := anna.mustStatus(http.MethodPost, "/api/v1/ingredients", map[string]string{
		"name": "sugar",
	}, http.StatusCreated)

	batch := anna.mustStatus(http.MethodPost, fmt.Sprintf("/api/v1/liquors/%d/batches", liquorID), map[string]interface{}{
		"description":        "summer 2024",
		"bottle_count":       6,
		"bottle_volume":      2,
		"bottle_volume_unit": "l",
		"ingredients": []map[string]interface{}{
			{"ingredient_id": cherries["id"], "quantity": "1.5", "unit": "kg"},
			{"ingredient_id": sugar["id"], "quantity": 500, "unit": "g"},
		},
	}, http.StatusCreated)

	if got := batch["bottle_volume"].(float64); got != 2000 {
		t.Errorf("bottle_volume = %v, want 2000", got)
	}
	if got := batch["bottle_volume_unit"].(string); got != "ml" {
		t.Errorf("bottle_volume_unit = %q, want ml", got)
	}
	if got := batch["total_volume"].(float64); got != 12000 {
		t.Errorf("total_volume = %v, want 12000", got)
	}
	if got := batch["ingredient_count"].(float64); got != 2 {
		t.Errorf("ingredient_count = %v, want 2", got)
	}
	batchID := int(batch["id"].(float64))

	// A payload whose ingredient entries are all incomplete persists nothing.
	anna.mustStatus(http.MethodPost, fmt.Sprintf("/api/v1/liquors/%d/batches", liquorID), map[string]interface{}{
		"description": "empty",
		"ingredients": []map[string]interface{}{
			{"ingredient_id": 0, "quantity": "1", "unit": "kg"},
			{"ingredient_id": cherries["id"], "quantity": 0, "unit": "kg"},
		},
	}, http.StatusBadRequest)

	listing := anna.mustStatus(http.MethodGet, fmt.Sprintf("/api/v1/liquors/%d/batches", liquorID), nil, http.StatusOK)
	pageInfo := listing["pagination"].(map[string]interface{})
	if got := pageInfo["total"].(float64); got != 1 {
		t.Errorf("batch total = %v, want 1", got)
	}

	// Partial bottle update leaves the volume alone.
	updated := anna.mustStatus(http.MethodPut, fmt.Sprintf("/api/v1/batches/%d/bottles", batchID), map[string]interface{}{
		"bottle_count": 8,
	}, http.StatusOK)
	if got := updated["bottle_count"].(float64); got != 8 {
		t.Errorf("bottle_count = %v, want 8", got)
	}
	if got := updated["bottle_volume"].(float64); got != 2000 {
		t.Errorf("bottle_volume = %v, want 2000 (untouched)", got)
	}

	// Another user cannot see the batch at all.
	beata := signup(t, server, "beata")
	beata.mustStatus(http.MethodGet, fmt.Sprintf("/api/v1/batches/%d", batchID), nil, http.StatusNotFound)
	beata.mustStatus(http.MethodPut, fmt.Sprintf("/api/v1/batches/%d/bottles", batchID), map[string]interface{}{
		"bottle_count": 1,
	}, http.StatusNotFound)
}

func TestInvalidQuantityFailsWholeBatch(t *testing.T) {
	server := newTestServer(t)
	anna := signup(t, server, "anna")

	liquor := anna.mustStatus(http.MethodPost, "/api/v1/liquors", map[string]string{"name": "Pigwówka"}, http.StatusCreated)
	liquorID := int(liquor["id"].(float64))
	ingredient := anna.mustStatus(http.MethodPost, "/api/v1/ingredients", map[string]string{"name": "quince"}, http.StatusCreated)

	anna.mustStatus(http.MethodPost, fmt.Sprintf("/api/v1/liquors/%d/batches", liquorID), map[string]interface{}{
		"description": "bad",
		"ingredients": []map[string]interface{}{
			{"ingredient_id": ingredient["id"], "quantity": "not-a-number", "unit": "kg"},
		},
	}, http.StatusBadRequest)

	listing := anna.mustStatus(http.MethodGet, fmt.Sprintf("/api/v1/liquors/%d/batches", liquorID), nil, http.StatusOK)
	pageInfo := listing["pagination"].(map[string]interface{})
	if got := pageInfo["total"].(float64); got != 0 {
		t.Errorf("batch total = %v, want 0 (nothing persisted)", got)
	}
}

func TestAPIKeyAuthentication(t *testing.T) {
	server := newTestServer(t)
	anna := signup(t, server, "anna")

	created := anna.mustStatus(http.MethodPost, "/api/v1/auth/api-keys", map[string]string{"name": "cli"}, http.StatusCreated)
	rawKey, _ := created["key"].(string)
	if rawKey == "" {
		t.Fatal("create returned no key")
	}

	keyClient := &apiClient{t: t, server: server, apiKey: rawKey}
	me := keyClient.mustStatus(http.MethodGet, "/api/v1/users/me", nil, http.StatusOK)
	if got, _ := me["username"].(string); got != "anna" {
		t.Errorf("username = %q, want anna", got)
	}

	// The key value never shows up again in listings.
	listing := anna.mustStatus(http.MethodGet, "/api/v1/auth/api-keys", nil, http.StatusOK)
	data := listing["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("keys = %d, want 1", len(data))
	}
	if _, ok := data[0].(map[string]interface{})["key"]; ok {
		t.Error("key value leaked in listing")
	}

	bogus := &apiClient{t: t, server: server, apiKey: "bogus"}
	bogus.mustStatus(http.MethodGet, "/api/v1/users/me", nil, http.StatusUnauthorized)
}

func TestUnauthenticatedAccess(t *testing.T) {
	server := newTestServer(t)
	client := &apiClient{t: t, server: server}

	client.mustStatus(http.MethodGet, "/api/v1/liquors", nil, http.StatusUnauthorized)
	client.mustStatus(http.MethodGet, "/api/v1/health", nil, http.StatusOK)
	// The shared ingredient catalog is readable without credentials.
	resp, _ := client.request(http.MethodGet, "/api/v1/ingredients", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("ingredient catalog status = %d, want 200", resp.StatusCode)
	}
}
