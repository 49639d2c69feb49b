package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valenoirs/backoffice/cmd/model"
	"github.com/valenoirs/backoffice/cmd/session"
)

func TestOrderFlow(t *testing.T) {
	app := newTestApp(t)
	user := &model.User{Name: "Budi", Email: "budi@mail.id", Password: "pw"}
	require.NoError(t, app.users.Create(context.Background(), user))

	rec := app.json(http.MethodPost, "/api/order", map[string]interface{}{"userId": user.ID, "adminId": "a1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.json(http.MethodPost, "/api/order", map[string]interface{}{
		"userId":  user.ID,
		"adminId": "a1",
		"products": []map[string]interface{}{
			{"productId": "p1", "name": "Roti", "price": 5000, "quantity": 2},
			{"productId": "p2", "name": "Kue", "price": 2500, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	order := decode(t, rec)["data"].(map[string]interface{})["order"].(map[string]interface{})
	assert.Equal(t, 12500.0, order["total"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "Budi", order["user"])
	id := order["id"].(string)

	rec = app.do(newGet("/api/order?userId=" + user.ID))
	assert.Len(t, decode(t, rec)["data"].(map[string]interface{})["order"], 1)
	rec = app.do(newGet("/api/order?userId=" + user.ID + "&adminId=other"))
	assert.Empty(t, decode(t, rec)["data"].(map[string]interface{})["order"])

	app.signInAdmin("Sari")
	app.page()
	app.form(http.MethodPut, "/order", url.Values{"orderId": {id}, "status": {"shipped"}})
	assert.Equal(t, []string{msgOrderInvalid}, app.page().Flash[session.KeyOrder])
	app.form(http.MethodPut, "/order", url.Values{"orderId": {id}, "status": {"process"}})
	assert.Equal(t, []string{msgOrderUpdated}, app.page().Flash[session.KeyOrder])

	rec = app.json(http.MethodDelete, "/api/order", map[string]string{"orderId": id})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.json(http.MethodDelete, "/api/order", map[string]string{"orderId": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCancelPendingOrder(t *testing.T) {
	app := newTestApp(t)
	o := &model.Order{UserID: "u1", AdminID: "a1", Status: model.OrderPending}
	require.NoError(t, app.orders.Create(context.Background(), o))

	rec := app.json(http.MethodDelete, "/api/order", map[string]string{"orderId": o.ID})
	assert.Equal(t, http.StatusOK, rec.Code)

	stored, err := app.orders.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancel, stored.Status)
}
