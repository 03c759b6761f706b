package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func authedHandler(token string) http.Handler {
	return BearerAuth(token)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestBearerAuthDisabledWhenTokenEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	authedHandler("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/timeline", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerAuthRejectsMissingHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	authedHandler("secret").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/timeline", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuthAcceptsValidToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/timeline", nil)
	req.Header.Set("Authorization", "Bearer secret")

	rec := httptest.NewRecorder()
	authedHandler("secret").ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBearerAuthRejectsWrongToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/timeline", nil)
	req.Header.Set("Authorization", "Bearer nope")

	rec := httptest.NewRecorder()
	authedHandler("secret").ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuthSkipsHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	authedHandler("secret").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
