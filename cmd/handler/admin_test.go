package handler

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valenoirs/backoffice/cmd/repository"
	"github.com/valenoirs/backoffice/cmd/session"
)

func signUpFields() map[string]string {
	return map[string]string{
		"name":     "Toko Roti",
		"email":    "Roti@Toko.id",
		"phone":    "0811",
		"password": "secret",
	}
}

func TestAdminSignUpRequiresBothCertificates(t *testing.T) {
	app := newTestApp(t)

	rec := app.multipart(http.MethodPost, "/admin/signup", signUpFields(), map[string]string{"pirt": "pirt.pdf"})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/signup", rec.Header().Get("Location"))
	assert.Equal(t, []string{msgCertificateFormat}, app.page().Flash[session.KeyAdmin])

	admins, err := app.admins.GetFiltered(context.Background(), repository.All())
	require.NoError(t, err)
	assert.Empty(t, admins)
}

func TestAdminSignUpRejectsWrongCertificateType(t *testing.T) {
	app := newTestApp(t)

	rec := app.multipart(http.MethodPost, "/admin/signup", signUpFields(), map[string]string{"pirt": "pirt.pdf", "halal": "halal.png"})
	assert.Equal(t, "/signup", rec.Header().Get("Location"))
	assert.Equal(t, []string{msgCertificateFormat}, app.page().Flash[session.KeyAdmin])
}

func TestAdminSignUpThenInactiveSignIn(t *testing.T) {
	app := newTestApp(t)

	rec := app.multipart(http.MethodPost, "/admin/signup", signUpFields(), map[string]string{"pirt": "pirt.pdf", "halal": "halal.PDF"})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("Location"))
	assert.Equal(t, []string{msgSignUpSuccess}, app.page().Flash[session.KeyAdmin])

	admins, err := app.admins.GetFiltered(context.Background(), repository.All())
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "roti@toko.id", admins[0].Email)
	assert.False(t, admins[0].IsActive)
	assert.Regexp(t, `^/upload/certificate/.+\.pdf$`, admins[0].CertificateHalal)

	rec = app.form(http.MethodPost, "/admin/signin", url.Values{"email": {"roti@toko.id"}, "password": {"secret"}})
	assert.Equal(t, "/signin", rec.Header().Get("Location"))
	assert.NotContains(t, app.jar, "jwt")
	assert.Equal(t, []string{msgSignInInactive}, app.page().Flash[session.KeyAdmin])

	rec = app.multipart(http.MethodPost, "/admin/signup", signUpFields(), map[string]string{"pirt": "a.pdf", "halal": "b.pdf"})
	assert.Equal(t, "/signup", rec.Header().Get("Location"))
	assert.Equal(t, []string{msgSignUpDuplicate}, app.page().Flash[session.KeyAdmin])
}

func TestAdminSignInAndOut(t *testing.T) {
	app := newTestApp(t)
	admin := app.signInAdmin("Sari")

	p := app.page()
	require.NotNil(t, p.Admin)
	assert.Equal(t, admin.ID, p.Admin.ID)
	assert.Equal(t, "Sari", p.Admin.Name)
	assert.Equal(t, []string{msgSignInSuccess}, p.Flash[session.KeyAdmin])

	rec := app.form(http.MethodGet, "/admin/signout", nil)
	assert.Equal(t, "/signin", rec.Header().Get("Location"))
	assert.NotContains(t, app.jar, "jwt")
	assert.Nil(t, app.page().Admin)
}

func TestAdminProfileUpdateRenewsSession(t *testing.T) {
	app := newTestApp(t)
	admin := app.signInAdmin("Sari")

	rec := app.form(http.MethodPost, "/admin?_method=PUT", url.Values{"name": {"Sari Bakery"}, "unknown": {"x"}})
	assert.Equal(t, "/", rec.Header().Get("Location"))

	p := app.page()
	assert.Equal(t, []string{msgAdminUpdated}, p.Flash[session.KeyAdmin])
	assert.Equal(t, "Sari Bakery", p.Admin.Name)

	stored, err := app.admins.GetByID(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sari Bakery", stored.Name)
}

func TestAdminToggleOpen(t *testing.T) {
	app := newTestApp(t)
	admin := app.signInAdmin("Sari")

	app.form(http.MethodPut, "/admin?updateStatus=1", url.Values{"isOpen": {"false"}})
	assert.Equal(t, []string{msgStatusUpdated}, app.page().Flash[session.KeyAdmin])
	stored, err := app.admins.GetByID(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsOpen)

	app.form(http.MethodPut, "/admin?updateStatus=1", url.Values{"isOpen": {"true"}})
	stored, err = app.admins.GetByID(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsOpen)
}

func TestAdminChangePassword(t *testing.T) {
	app := newTestApp(t)
	admin := app.signInAdmin("Sari")

	app.form(http.MethodPut, "/admin/password", url.Values{"oldPassword": {"nope"}, "newPassword": {"fresh"}})
	assert.Equal(t, []string{msgPasswordWrong}, app.page().Flash[session.KeyAdmin])

	app.form(http.MethodPut, "/admin/password", url.Values{"oldPassword": {"secret"}, "newPassword": {"fresh"}})
	assert.Equal(t, []string{msgPasswordChanged}, app.page().Flash[session.KeyAdmin])

	_, err := app.admins.Authenticate(context.Background(), admin.Email, "fresh")
	assert.NoError(t, err)
}

func TestAdminReadAndRate(t *testing.T) {
	app := newTestApp(t)
	admin := app.signInAdmin("Sari")

	rec := app.json(http.MethodPost, "/admin/rating", map[string]interface{}{"adminId": admin.ID, "rating": 5})
	assert.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]interface{})["admin"].(map[string]interface{})
	assert.Equal(t, "4.0", data["rated"])
	assert.NotContains(t, data, "password")

	rec = app.json(http.MethodPost, "/admin/rating", map[string]interface{}{"adminId": admin.ID, "rating": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ValidationError", decode(t, rec)["type"])

	rec = app.json(http.MethodPost, "/admin/rating", map[string]interface{}{"adminId": "missing", "rating": 3})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(newGet("/admin?adminId=" + admin.ID))
	assert.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)["data"].(map[string]interface{})["admin"].([]interface{})
	require.Len(t, list, 1)
	assert.NotContains(t, list[0], "password")

	rec = app.do(newGet("/admin?adminId=missing"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["data"].(map[string]interface{})["admin"])
}

func TestAdminSignUpUploadStorageFailure(t *testing.T) {
	blocked := filepath.Join(t.TempDir(), "upload")
	require.NoError(t, os.WriteFile(blocked, []byte("not a directory"), 0o644))
	app := newTestApp(t, withUploadDir(blocked))

	rec := app.multipart(http.MethodPost, "/admin/signup", signUpFields(), map[string]string{"pirt": "pirt.pdf", "halal": "halal.pdf"})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/signup", rec.Header().Get("Location"))
	assert.Equal(t, []string{msgSignUpErr}, app.page().Flash[session.KeyAdmin])
}
