package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rookgm/pointsclub/internal/models"
	"github.com/rookgm/pointsclub/internal/service"
)

type contextKey string

const (
	authPayloadKey contextKey = "auth_payload"
)

// authCookieName is the cookie carrying the admin token
const authCookieName = "auth_token"

// AuthMiddleware passes on requests whose auth cookie holds a valid token issued to admin.
// An empty admin rejects every request.
func AuthMiddleware(ts service.TokenService, admin string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(authCookieName)
			if err != nil {
				http.Error(w, "can not get cookie", http.StatusUnauthorized)
				return
			}

			payload, err := ts.VerifyToken(cookie.Value)
			if err != nil || admin == "" || payload.Login != admin {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), authPayloadKey, payload)))
		})
	}
}

// getAuthPayload extracts authorization token payload from context
func getAuthPayload(ctx context.Context, key contextKey) (*models.TokenPayload, bool) {
	payload, ok := ctx.Value(key).(*models.TokenPayload)
	return payload, ok && payload != nil
}

// requireAdmin writes 401 and returns false if the request carries no admin payload
func requireAdmin(w http.ResponseWriter, r *http.Request) (*models.TokenPayload, bool) {
	payload, ok := getAuthPayload(r.Context(), authPayloadKey)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return payload, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return
	}
}
