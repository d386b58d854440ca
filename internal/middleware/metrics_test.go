package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPath(t *testing.T) {
	assert.Equal(t, "/", canonicalPath(""))
	assert.Equal(t, "/", canonicalPath("/"))
	assert.Equal(t, "/api/signup", canonicalPath("/api/signup"))
	assert.Equal(t, "/api/me", canonicalPath("/api/me/extra"))
	assert.Equal(t, "/build", canonicalPath("/build/main.js"))
}

func TestWithMetrics_ExposesCounters(t *testing.T) {
	h := WithMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/signup", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)

	mr := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(mr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, mr.Code)
	body := mr.Body.String()
	assert.True(t, strings.Contains(body, `ionauth_http_requests_total{method="POST",path="/api/signup",status="201"}`), body)
}
