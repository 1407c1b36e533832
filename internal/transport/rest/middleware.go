package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tvmanh/goshop/internal/user"
	"github.com/tvmanh/goshop/pkg/web"
)

type claimsKey struct{}

// ClaimsFromContext returns the verified token claims stored by JWTAuth.
func ClaimsFromContext(ctx context.Context) (*user.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*user.Claims)
	return claims, ok
}

// JWTAuth verifies the Bearer token on the request and stores its claims
// in the context. Requests without a valid token get a 401 envelope.
func JWTAuth(tokens *user.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				writeEnvelope(w, http.StatusUnauthorized,
					web.Envelope{EC: web.CodeDomain, EM: "Missing or malformed authorization header"})
				return
			}
			claims, err := tokens.Parse(tokenString)
			if err != nil {
				writeEnvelope(w, http.StatusUnauthorized,
					web.Envelope{EC: web.CodeDomain, EM: "Invalid or expired token"})
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose token does not carry the Admin role.
// It must run after JWTAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || claims.Role != "Admin" {
			writeEnvelope(w, http.StatusForbidden,
				web.Envelope{EC: web.CodeDomain, EM: "Admin role required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeEnvelope(w http.ResponseWriter, status int, e web.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(e)
}
