package httpserver

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vlasovm/shop_backend/internal/models"
	"github.com/vlasovm/shop_backend/internal/transport"
)

func (env *testEnv) userID(email string) uint {
	env.T.Helper()
	var user models.User
	require.NoError(env.T, env.DB.Where("email = ?", email).First(&user).Error)
	return user.ID
}

func TestOrderCreateForcesCallerAsOwner(t *testing.T) {
	env := newTestEnv(t)
	access, _ := env.registerAndLogin("a@example.com", "user_a")
	catID := env.createCategory(access, "stuff")
	prodID := env.createProduct(access, "widget", catID)

	// the body claims another user; the server must ignore it
	rec := env.do(http.MethodPost, "/orders/", map[string]interface{}{
		"products": []uint{prodID},
		"quantity": 2,
		"user":     9999,
	}, access)
	require.Equal(t, http.StatusCreated, rec.Code)

	var order transport.OrderResponse
	decode(t, rec, &order)
	require.Equal(t, env.userID("a@example.com"), order.User)
	require.EqualValues(t, 2, order.Quantity)
	require.Equal(t, []uint{prodID}, order.Products)
}

func TestOrderQuantityDefaultsToOne(t *testing.T) {
	env := newTestEnv(t)
	access, _ := env.registerAndLogin("a@example.com", "user_a")
	catID := env.createCategory(access, "stuff")
	prodID := env.createProduct(access, "widget", catID)

	rec := env.do(http.MethodPost, "/orders/", map[string]interface{}{
		"products": []uint{prodID},
	}, access)
	require.Equal(t, http.StatusCreated, rec.Code)

	var order transport.OrderResponse
	decode(t, rec, &order)
	require.EqualValues(t, 1, order.Quantity)
}

func TestOrderCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	access, _ := env.registerAndLogin("a@example.com", "user_a")
	catID := env.createCategory(access, "stuff")
	prodID := env.createProduct(access, "widget", catID)

	zeroQty := env.do(http.MethodPost, "/orders/", map[string]interface{}{
		"products": []uint{prodID},
		"quantity": 0,
	}, access)
	require.Equal(t, http.StatusBadRequest, zeroQty.Code)

	missingProduct := env.do(http.MethodPost, "/orders/", map[string]interface{}{
		"products": []uint{prodID, 4242},
	}, access)
	require.Equal(t, http.StatusBadRequest, missingProduct.Code)
	require.Contains(t, detailOf(t, missingProduct), "4242")
}

func TestOrderHistoryIsPerUser(t *testing.T) {
	env := newTestEnv(t)
	accessA, _ := env.registerAndLogin("a@example.com", "user_a")
	catID := env.createCategory(accessA, "stuff")
	prodID := env.createProduct(accessA, "widget", catID)

	rec := env.do(http.MethodPost, "/orders/", map[string]interface{}{
		"products": []uint{prodID},
	}, accessA)
	require.Equal(t, http.StatusCreated, rec.Code)

	accessB, _ := env.registerAndLogin("b@example.com", "user_b")

	recA := env.do(http.MethodGet, "/order-history/", nil, accessA)
	require.Equal(t, http.StatusOK, recA.Code)
	var ordersA []transport.OrderResponse
	decode(t, recA, &ordersA)
	require.Len(t, ordersA, 1)
	require.Equal(t, env.userID("a@example.com"), ordersA[0].User)

	recB := env.do(http.MethodGet, "/order-history/", nil, accessB)
	require.Equal(t, http.StatusOK, recB.Code)
	var ordersB []transport.OrderResponse
	decode(t, recB, &ordersB)
	require.Empty(t, ordersB)
}

func TestOrderListIsGlobal(t *testing.T) {
	env := newTestEnv(t)
	accessA, _ := env.registerAndLogin("a@example.com", "user_a")
	accessB, _ := env.registerAndLogin("b@example.com", "user_b")
	catID := env.createCategory(accessA, "stuff")
	prodID := env.createProduct(accessA, "widget", catID)

	for _, token := range []string{accessA, accessB} {
		rec := env.do(http.MethodPost, "/orders/", map[string]interface{}{
			"products": []uint{prodID},
		}, token)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(http.MethodGet, "/orders/", nil, accessB)
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []transport.OrderResponse
	decode(t, rec, &orders)
	require.Len(t, orders, 2)
	// date ascending
	require.False(t, orders[1].Date.Before(orders[0].Date))
}

func TestOrderUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	access, _ := env.registerAndLogin("a@example.com", "user_a")
	catID := env.createCategory(access, "stuff")
	prodA := env.createProduct(access, "widget", catID)
	prodB := env.createProduct(access, "gadget", catID)

	recCreate := env.do(http.MethodPost, "/orders/", map[string]interface{}{
		"products": []uint{prodA},
	}, access)
	require.Equal(t, http.StatusCreated, recCreate.Code)
	var order transport.OrderResponse
	decode(t, recCreate, &order)

	recPut := env.do(http.MethodPut, fmt.Sprintf("/orders/%d/", order.ID), map[string]interface{}{
		"products": []uint{prodB},
		"quantity": 3,
	}, access)
	require.Equal(t, http.StatusOK, recPut.Code)
	decode(t, recPut, &order)
	require.EqualValues(t, 3, order.Quantity)
	require.Equal(t, []uint{prodB}, order.Products)

	recDel := env.do(http.MethodDelete, fmt.Sprintf("/orders/%d/", order.ID), nil, access)
	require.Equal(t, http.StatusNoContent, recDel.Code)

	recGone := env.do(http.MethodGet, fmt.Sprintf("/orders/%d/", order.ID), nil, access)
	require.Equal(t, http.StatusNotFound, recGone.Code)
}

func TestOrderUpdateKeepsOwner(t *testing.T) {
	env := newTestEnv(t)
	accessA, _ := env.registerAndLogin("a@example.com", "user_a")
	catID := env.createCategory(accessA, "stuff")
	prodID := env.createProduct(accessA, "widget", catID)

	recCreate := env.do(http.MethodPost, "/orders/", map[string]interface{}{
		"products": []uint{prodID},
	}, accessA)
	require.Equal(t, http.StatusCreated, recCreate.Code)
	var order transport.OrderResponse
	decode(t, recCreate, &order)

	rec := env.do(http.MethodPut, fmt.Sprintf("/orders/%d/", order.ID), map[string]interface{}{
		"products": []uint{prodID},
		"quantity": 1,
		"user":     7777,
	}, accessA)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &order)
	require.Equal(t, env.userID("a@example.com"), order.User)
}

func TestProductDeleteRemovesItFromOrders(t *testing.T) {
	env := newTestEnv(t)
	access, _ := env.registerAndLogin("a@example.com", "user_a")
	catID := env.createCategory(access, "stuff")
	prodA := env.createProduct(access, "widget", catID)
	prodB := env.createProduct(access, "gadget", catID)

	recCreate := env.do(http.MethodPost, "/orders/", map[string]interface{}{
		"products": []uint{prodA, prodB},
	}, access)
	require.Equal(t, http.StatusCreated, recCreate.Code)
	var order transport.OrderResponse
	decode(t, recCreate, &order)

	recDel := env.do(http.MethodDelete, fmt.Sprintf("/products/%d/", prodA), nil, access)
	require.Equal(t, http.StatusNoContent, recDel.Code)

	recGet := env.do(http.MethodGet, fmt.Sprintf("/orders/%d/", order.ID), nil, access)
	require.Equal(t, http.StatusOK, recGet.Code)
	decode(t, recGet, &order)
	require.Equal(t, []uint{prodB}, order.Products)
}

func TestEndToEndFlow(t *testing.T) {
	env := newTestEnv(t)

	accessA, _ := env.registerAndLogin("a@example.com", "user_a")
	catID := env.createCategory(accessA, "electronics")
	prodID := env.createProduct(accessA, "headphones", catID)

	recOrder := env.do(http.MethodPost, "/orders/", map[string]interface{}{
		"products": []uint{prodID},
		"quantity": 1,
	}, accessA)
	require.Equal(t, http.StatusCreated, recOrder.Code)

	recHistory := env.do(http.MethodGet, "/order-history/", nil, accessA)
	require.Equal(t, http.StatusOK, recHistory.Code)
	var history []transport.OrderResponse
	decode(t, recHistory, &history)
	require.Len(t, history, 1)
	require.Equal(t, []uint{prodID}, history[0].Products)

	accessB, _ := env.registerAndLogin("b@example.com", "user_b")
	recEmpty := env.do(http.MethodGet, "/order-history/", nil, accessB)
	require.Equal(t, http.StatusOK, recEmpty.Code)
	var empty []transport.OrderResponse
	decode(t, recEmpty, &empty)
	require.Empty(t, empty)
}
