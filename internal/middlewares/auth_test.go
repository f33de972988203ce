package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runAuth(t *testing.T, token, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	handler := BearerAuth(&BearerAuthConfig{Token: token})(next)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chemicals", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w, called
}

func TestBearerAuthAccepts(t *testing.T) {
	w, called := runAuth(t, "secret", "Bearer secret")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestBearerAuthRejects(t *testing.T) {
	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic secret",
		"wrong token":    "Bearer nope",
		"empty token":    "Bearer ",
		"bare token":     "secret",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w, called := runAuth(t, "secret", header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, called)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}
}
