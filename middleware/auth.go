package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const userContextKey contextKey = "user"

const jwtClaimUserID = "user_id"

// Authenticate verifies the bearer token and stores its claims in the
// request context. Requests without a valid token get a 401.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				unauthorized(w)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"missing or invalid authentication token"}`))
}

// GetUserIDFromContext extracts the authenticated user's id from the JWT
// claims placed in the context by Authenticate.
func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return 0, errors.New("user claims not found in context")
	}

	idClaim, ok := claims[jwtClaimUserID]
	if !ok {
		return 0, fmt.Errorf("missing %q claim in token", jwtClaimUserID)
	}

	// JSON numbers decode as float64.
	idFloat, ok := idClaim.(float64)
	if !ok || idFloat != float64(int(idFloat)) {
		return 0, fmt.Errorf("invalid %q claim in token", jwtClaimUserID)
	}

	id := int(idFloat)
	if id <= 0 {
		return 0, fmt.Errorf("invalid user id %d in token", id)
	}
	return id, nil
}
