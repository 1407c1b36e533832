package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvmanh/goshop/internal/user"
	"github.com/tvmanh/goshop/internal/user/store"
	"github.com/tvmanh/goshop/pkg/config"
)

func newTestIssuer(t *testing.T) *user.TokenIssuer {
	t.Helper()
	return user.NewTokenIssuer(config.JWTConfig{Secret: "test-secret", TTL: time.Hour})
}

func issueToken(t *testing.T, issuer *user.TokenIssuer, role string) string {
	t.Helper()
	token, err := issuer.Issue(&store.User{
		ID:    uuid.New(),
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  role,
	})
	require.NoError(t, err)
	return token
}

func Test_JWTAuth(t *testing.T) {
	issuer := newTestIssuer(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "alice@example.com", claims.Email)
		w.WriteHeader(http.StatusOK)
	})
	protected := JWTAuth(issuer)(next)

	testCases := []struct {
		name         string
		header       string
		expectedCode int
	}{
		{"Success - valid token", "Bearer " + issueToken(t, issuer, "User"), http.StatusOK},
		{"Error - missing header", "", http.StatusUnauthorized},
		{"Error - malformed header", "Token abc", http.StatusUnauthorized},
		{"Error - garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/api/user", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			protected.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}

func Test_JWTAuth_RejectsExpiredToken(t *testing.T) {
	expired := user.NewTokenIssuer(config.JWTConfig{Secret: "test-secret", TTL: -time.Minute})
	issuer := newTestIssuer(t)

	protected := JWTAuth(issuer)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/api/user", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, expired, "User"))
	rr := httptest.NewRecorder()

	protected.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func Test_RequireAdmin(t *testing.T) {
	issuer := newTestIssuer(t)
	chain := JWTAuth(issuer)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	testCases := []struct {
		name         string
		role         string
		expectedCode int
	}{
		{"Admin role passes", "Admin", http.StatusOK},
		{"User role rejected", "User", http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/api/admin/products", nil)
			req.Header.Set("Authorization", "Bearer "+issueToken(t, issuer, tc.role))
			rr := httptest.NewRecorder()

			chain.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code)
		})
	}
}
