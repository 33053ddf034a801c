package middleware

import (
	"context"
	"lottery_backend/internal/config"
	"lottery_backend/pkg/token"
	"net/http"
	"strconv"
	"strings"
)

type ctxKey int

const userIDKey ctxKey = iota

// Auth - проверяет access токен из заголовка Authorization
// и кладет ID пользователя в контекст запроса
func Auth(jwtCfg config.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				http.Error(w, "missing access token", http.StatusUnauthorized)
				return
			}

			claims, err := token.VerifyToken(tokenStr, jwtCfg.AccessTokenSecretKey())
			if err != nil {
				http.Error(w, "invalid access token", http.StatusUnauthorized)
				return
			}

			// ID пользователя хранится в claims.ID
			userID, err := strconv.Atoi(claims.ID)
			if err != nil {
				http.Error(w, "invalid access token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext - достает ID аутентифицированного пользователя из контекста
func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}

// WithUserID - контекст с проставленным ID пользователя.
// Используется в тестах и внутренних вызовах
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
