package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveWithToken(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/seed", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestProperty_RequestsWithoutTokenAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing or malformed authorization yields 401", prop.ForAll(
		func(header string) bool {
			handler := AuthMiddleware(testSecret, zap.NewNop())(okHandler())

			req := httptest.NewRequest(http.MethodPost, "/api/regions/us-east-2/seed", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.OneGenOf(
			gen.Const(""),
			gen.AlphaString().Map(func(s string) string { return "Basic " + s }),
			gen.AlphaString().Map(func(s string) string { return "Bearer x" + s }),
		),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_IssuedTokensRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("subject and role reach the handler", prop.ForAll(
		func(subject, role string) bool {
			token, err := IssueToken(testSecret, subject, role, time.Hour)
			if err != nil {
				return false
			}

			var gotSubject, gotRole string
			handler := AuthMiddleware(testSecret, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSubject, _ = GetSubject(r.Context())
				gotRole, _ = GetRole(r.Context())
			}))

			w := serveWithToken(handler, token)
			return w.Code == http.StatusOK && gotSubject == subject && gotRole == role
		},
		gen.Identifier(),
		gen.OneConstOf("admin", "viewer"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestExpiredTokenIsRejected(t *testing.T) {
	token, err := IssueToken(testSecret, "ops", RoleAdmin, -time.Minute)
	require.NoError(t, err)

	w := serveWithToken(AuthMiddleware(testSecret, zap.NewNop())(okHandler()), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
}

func TestTokenSignedWithOtherSecretIsRejected(t *testing.T) {
	token, err := IssueToken("other-secret", "ops", RoleAdmin, time.Hour)
	require.NoError(t, err)

	w := serveWithToken(AuthMiddleware(testSecret, zap.NewNop())(okHandler()), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestNonHMACTokenIsRejected(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role:             RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "ops"},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	w := serveWithToken(AuthMiddleware(testSecret, zap.NewNop())(okHandler()), signed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenWithoutRoleIsRejected(t *testing.T) {
	token, err := IssueToken(testSecret, "ops", "", time.Hour)
	require.NoError(t, err)

	w := serveWithToken(AuthMiddleware(testSecret, zap.NewNop())(okHandler()), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token claims")
}

func TestIssueTokenRequiresSecret(t *testing.T) {
	_, err := IssueToken("", "ops", RoleAdmin, time.Hour)
	assert.Error(t, err)
}

func TestRequireAdmin(t *testing.T) {
	chain := func(h http.Handler) http.Handler {
		return AuthMiddleware(testSecret, zap.NewNop())(RequireAdmin(zap.NewNop())(h))
	}

	admin, err := IssueToken(testSecret, "ops", RoleAdmin, time.Hour)
	require.NoError(t, err)
	viewer, err := IssueToken(testSecret, "guest", "viewer", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, serveWithToken(chain(okHandler()), admin).Code)
	assert.Equal(t, http.StatusForbidden, serveWithToken(chain(okHandler()), viewer).Code)

	// Without AuthMiddleware there is no role in the context
	w := httptest.NewRecorder()
	RequireAdmin(zap.NewNop())(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/seed", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
