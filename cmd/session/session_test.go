package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureActor(m *Manager) (http.Handler, *Actor) {
	var got Actor
	h := m.Load(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	return h, &got
}

func TestIssueAndLoad(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, Actor{Admin: &Identity{ID: "a1", Name: "Toko Roti"}, Root: true}))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "jwt", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	h, got := captureActor(m)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, got.IsAdmin())
	assert.Equal(t, "a1", got.Admin.ID)
	assert.Equal(t, "Toko Roti", got.Admin.Name)
	assert.True(t, got.Root)
}

func TestLoadRejectsForeignToken(t *testing.T) {
	other := NewManager("other-secret", time.Hour)
	rec := httptest.NewRecorder()
	require.NoError(t, other.Issue(rec, Actor{Admin: &Identity{ID: "a1"}}))

	h, got := captureActor(NewManager("test-secret", time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, got.IsAdmin())
	assert.False(t, got.Root)
}

func TestLoadWithoutCookie(t *testing.T) {
	h, got := captureActor(NewManager("test-secret", time.Hour))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, Actor{}, *got)
}

func TestRequireAdmin(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	called := false
	h := m.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/product", nil))
	assert.False(t, called)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodPost, "/product", nil)
	req = req.WithContext(WithActor(req.Context(), Actor{Admin: &Identity{ID: "a1"}}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, called)
}

func TestRequireRoot(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	h := m.RequireRoot(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPut, "/root/admin", nil)
	req = req.WithContext(WithActor(req.Context(), Actor{Admin: &Identity{ID: "a1"}}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "/root/signin", rec.Header().Get("Location"))
}

func TestFlashIsOneShot(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	rec := httptest.NewRecorder()
	require.NoError(t, m.SetFlash(rec, KeyProduct, "Product baru berhasil ditambahkan."))
	require.NoError(t, m.SetFlash(rec, KeyProduct, "Product berhasil dihapus."))
	cookies := rec.Result().Cookies()
	last := cookies[len(cookies)-1]

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(last)
	rec = httptest.NewRecorder()
	msgs := m.ConsumeFlash(rec, req)
	assert.Equal(t, Messages{KeyProduct: {"Product berhasil dihapus."}}, msgs)

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "flash", cleared[0].Name)
	assert.Less(t, cleared[0].MaxAge, 0)

	assert.Empty(t, m.ConsumeFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestFlashRejectsForgedCookie(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, NewManager("other-secret", time.Hour).SetFlash(rec, KeyAuth, "forged"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	assert.Empty(t, m.ConsumeFlash(httptest.NewRecorder(), req))

	// Unsigned base64 JSON, the shape an attacker would hand-craft.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "flash", Value: "eyJhdXRoIjpbImZvcmdlZCJdfQ"})
	assert.Empty(t, m.ConsumeFlash(httptest.NewRecorder(), req))
}
