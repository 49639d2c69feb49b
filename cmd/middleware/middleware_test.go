package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMethodOverride(t *testing.T) {
	var method string
	h := MethodOverride(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { method = r.Method }))

	for _, tc := range []struct{ method, target, want string }{
		{http.MethodPost, "/product?_method=PUT", http.MethodPut},
		{http.MethodPost, "/product?_method=delete", http.MethodDelete},
		{http.MethodPost, "/product?_method=GET", http.MethodPost},
		{http.MethodGet, "/product?_method=DELETE", http.MethodGet},
		{http.MethodPost, "/product", http.MethodPost},
	} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tc.method, tc.target, nil))
		assert.Equal(t, tc.want, method, tc.target)
	}
}

func TestMethodOverrideKeepsDeleteBody(t *testing.T) {
	var productID string
	h := MethodOverride(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		productID = r.PostForm.Get("productId")
	}))

	req := httptest.NewRequest(http.MethodPost, "/product?_method=DELETE", strings.NewReader("productId=p1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "p1", productID)
}

func TestRecoverPanic(t *testing.T) {
	h := RecoverPanic(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "UnknownError", body["type"])
}
