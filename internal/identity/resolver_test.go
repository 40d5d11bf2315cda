package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkurganov/lavka/internal/cookie"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestResolver() *Resolver {
	return NewResolver(testSecret, cookie.NewConfig(false))
}

func signToken(t *testing.T, secret string, userID uuid.UUID, admin bool, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestResolve_NoCredentials(t *testing.T) {
	r := newTestResolver()
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)

	id := r.Resolve(req)

	assert.False(t, id.Authenticated())
	assert.Empty(t, id.Token)
}

func TestResolve_BearerToken(t *testing.T) {
	r := newTestResolver()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userID, false, time.Now().Add(time.Hour)))

	id := r.Resolve(req)

	assert.True(t, id.Authenticated())
	assert.Equal(t, userID, id.UserID)
	assert.False(t, id.Admin)
}

func TestResolve_SessionCookie(t *testing.T) {
	r := newTestResolver()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{
		Name:  cookie.SessionCookieName,
		Value: signToken(t, testSecret, userID, true, time.Now().Add(time.Hour)),
	})

	id := r.Resolve(req)

	assert.True(t, id.Authenticated())
	assert.True(t, id.Admin)
}

func TestResolve_ExpiredTokenDegradesToAnonymous(t *testing.T) {
	r := newTestResolver()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, uuid.New(), false, time.Now().Add(-time.Hour)))

	assert.False(t, r.Resolve(req).Authenticated())
}

func TestResolve_WrongSecretDegradesToAnonymous(t *testing.T) {
	r := newTestResolver()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", uuid.New(), false, time.Now().Add(time.Hour)))

	assert.False(t, r.Resolve(req).Authenticated())
}

func TestResolve_KeepsCartTokenAfterLogin(t *testing.T) {
	r := newTestResolver()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userID, false, time.Now().Add(time.Hour)))
	req.AddCookie(&http.Cookie{Name: cookie.CartCookieName, Value: "anon-token"})

	id := r.Resolve(req)

	assert.True(t, id.Authenticated())
	assert.Equal(t, "anon-token", id.Token, "the anonymous token survives login so the merge can find it")
}

func TestEnsureToken_MintsOnce(t *testing.T) {
	r := newTestResolver()

	// First visit: no token, one gets minted and set.
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	id := r.EnsureToken(rec, req)

	require.NotEmpty(t, id.Token)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookie.CartCookieName, cookies[0].Name)
	assert.Equal(t, id.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	// Second visit with the cookie: no new mint.
	req2 := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req2.AddCookie(cookies[0])
	rec2 := httptest.NewRecorder()
	id2 := r.EnsureToken(rec2, req2)

	assert.Equal(t, id.Token, id2.Token)
	assert.Empty(t, rec2.Result().Cookies())
}

func TestClearToken(t *testing.T) {
	r := newTestResolver()
	rec := httptest.NewRecorder()

	r.ClearToken(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookie.CartCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
