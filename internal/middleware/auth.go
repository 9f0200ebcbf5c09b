package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
)

type contextKey string

const (
	UserContextKey  contextKey = "user"
	ScopeContextKey contextKey = "scope"
)

// APITokenAuth authenticates the bearer token and resolves the owner
// scope every collection read and write is filtered by.
func APITokenAuth(tokenRepo repository.APITokenRepository, userRepo repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			tokenHash := repository.HashToken(tokenString)

			token, err := tokenRepo.FindByTokenHash(r.Context(), tokenHash)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if token.ExpiresAt != nil && token.ExpiresAt.Before(time.Now()) {
				http.Error(w, "Token expired", http.StatusUnauthorized)
				return
			}

			user, err := userRepo.FindByID(r.Context(), token.UserID)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			ctx = context.WithValue(ctx, ScopeContextKey, models.ScopeFor(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) models.User {
	user, _ := ctx.Value(UserContextKey).(models.User)
	return user
}

func GetScope(ctx context.Context) models.Scope {
	scope, _ := ctx.Value(ScopeContextKey).(models.Scope)
	return scope
}
