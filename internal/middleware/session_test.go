package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSessionConfig() SessionConfig {
	return SessionConfig{
		CookieName:   "feteer_session",
		TTL:          2 * time.Hour,
		SkipPrefixes: []string{"/health", "/metrics"},
	}
}

func serveWithSession(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()

	var seen string
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionID(r.Context())
	})

	w := httptest.NewRecorder()
	Session(testSessionConfig(), zerolog.Nop())(testHandler).ServeHTTP(w, req)
	return seen, w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "feteer_session" {
			return c
		}
	}
	return nil
}

func TestSession_NewVisitor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products", nil)

	id, w := serveWithSession(t, req)

	_, err := uuid.Parse(id)
	require.NoError(t, err)

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.Equal(t, id, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 7200, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestSession_ReturningVisitor(t *testing.T) {
	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
	req.AddCookie(&http.Cookie{Name: "feteer_session", Value: existing})

	id, w := serveWithSession(t, req)

	assert.Equal(t, existing, id)
	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.Equal(t, existing, cookie.Value)
}

func TestSession_MalformedCookieReplaced(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "feteer_session", Value: "../../etc/passwd"})

	id, _ := serveWithSession(t, req)

	assert.NotEqual(t, "../../etc/passwd", id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestSession_SkippedPaths(t *testing.T) {
	for _, path := range []string{"/health", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)

			id, w := serveWithSession(t, req)

			assert.Empty(t, id)
			assert.Nil(t, sessionCookie(t, w))
		})
	}
}

func TestWithSessionID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := WithSessionID(req.Context(), "abc")
	assert.Equal(t, "abc", GetSessionID(ctx))
	assert.Empty(t, GetSessionID(req.Context()))
}
