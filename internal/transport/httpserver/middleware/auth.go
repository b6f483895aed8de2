package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apikeydomain "nalewka/internal/domain/apikey"
	userdomain "nalewka/internal/domain/user"
	"nalewka/pkg/logger"
)

type contextKey int

const userIDKey contextKey = iota

// TokenVerifier validates a bearer token and yields the user id it names.
type TokenVerifier interface {
	Verify(token string) (uint, error)
}

// KeyAuthenticator resolves an opaque API key to a user id.
type KeyAuthenticator interface {
	Authenticate(ctx context.Context, key string) (uint, error)
}

// UserGetter confirms that an authenticated user id still exists.
type UserGetter interface {
	GetByID(ctx context.Context, userID uint) (*userdomain.User, error)
}

// Auth authenticates requests with either a JWT bearer token or an API key
// and stores the resolved user id in the request context. It never
// authorizes anything; ownership checks stay in the services.
type Auth struct {
	tokens TokenVerifier
	keys   KeyAuthenticator
	users  UserGetter
	log    logger.Logger
}

func NewAuth(tokens TokenVerifier, keys KeyAuthenticator, users UserGetter, log logger.Logger) *Auth {
	return &Auth{tokens: tokens, keys: keys, users: users, log: log}
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := a.resolve(w, r)
		if !ok {
			return
		}

		if _, err := a.users.GetByID(r.Context(), userID); err != nil {
			if errors.Is(err, userdomain.ErrUserNotFound) {
				unauthorized(w, "User not found")
				return
			}
			a.log.InternalError("auth: user lookup failed", err, "user_id", userID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func (a *Auth) resolve(w http.ResponseWriter, r *http.Request) (uint, bool) {
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		userID, err := a.keys.Authenticate(r.Context(), key)
		if err != nil {
			if errors.Is(err, apikeydomain.ErrKeyInvalid) {
				unauthorized(w, "API key is invalid or inactive")
				return 0, false
			}
			a.log.InternalError("auth: api key lookup failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return 0, false
		}
		return userID, true
	}

	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		unauthorized(w, "Token is missing")
		return 0, false
	}

	userID, err := a.tokens.Verify(token)
	if err != nil {
		unauthorized(w, "Token is invalid or expired")
		return 0, false
	}
	return userID, true
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (uint, bool) {
	userID, ok := ctx.Value(userIDKey).(uint)
	if !ok || userID == 0 {
		return 0, false
	}
	return userID, true
}

func unauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, "invalid_token", message)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
