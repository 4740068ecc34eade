package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/chocoblitz/storefront/internal/catalog"
	"github.com/chocoblitz/storefront/internal/common/validate"
	"github.com/chocoblitz/storefront/internal/middleware"
	"github.com/chocoblitz/storefront/internal/service"
	"github.com/chocoblitz/storefront/internal/store"
)

type stubSession struct {
	authenticated bool
}

func (s stubSession) IsAuthenticated(c context.Context) bool {
	return s.authenticated
}

func setupRouter(t *testing.T, authenticated bool) (*mux.Router, *service.CartService) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	cart := service.NewCartService(catalog.New([]catalog.Product{
		{ID: 1, Name: "Dark Elegance", Category: catalog.CategoryDark, Price: decimal.NewFromInt(10), Image: "images/dark-elegance.jpg", Description: "dark"},
		{ID: 2, Name: "Milk Dream", Category: catalog.CategoryMilk, Price: decimal.NewFromInt(5), Image: "images/milk-dream.jpg", Description: "milk"},
	}), store.NewRedisStore(client))

	router := mux.NewRouter()
	protected := router.NewRoute().Subrouter()
	protected.Use(middleware.RequireSession(stubSession{authenticated: authenticated}))
	AttachCartController(protected, cart, validate.New())
	return router, cart
}

func doRequest(router *mux.Router, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))

	decoded := map[string]interface{}{}
	json.Unmarshal(recorder.Body.Bytes(), &decoded)
	return recorder, decoded
}

func TestCartRoutesRequireSession(t *testing.T) {
	router, _ := setupRouter(t, false)

	recorder, body := doRequest(router, http.MethodPost, "/cart/items/1", "")

	assert.EqualValues(t, http.StatusUnauthorized, recorder.Code)
	assert.EqualValues(t, "failed", body["status"])
}

func TestAddItemThenFindCart(t *testing.T) {
	router, _ := setupRouter(t, true)

	recorder, _ := doRequest(router, http.MethodPost, "/cart/items/1", "")
	assert.EqualValues(t, http.StatusOK, recorder.Code)

	recorder, body := doRequest(router, http.MethodGet, "/cart", "")
	assert.EqualValues(t, http.StatusOK, recorder.Code)

	cart := body["data"].(map[string]interface{})["cart"].(map[string]interface{})
	assert.EqualValues(t, 1, cart["count"])
	assert.EqualValues(t, "10.00", cart["subtotal"])
	assert.EqualValues(t, "1.00", cart["tax"])
	assert.EqualValues(t, "11.00", cart["total"])
}

func TestUpdateQuantityAppliesDelta(t *testing.T) {
	router, cart := setupRouter(t, true)

	doRequest(router, http.MethodPost, "/cart/items/1", "")
	recorder, _ := doRequest(router, http.MethodPatch, "/cart/items/1", `{"delta": 2}`)

	assert.EqualValues(t, http.StatusOK, recorder.Code)
	assert.EqualValues(t, 3, cart.ItemCount())
}

func TestUpdateQuantityRejectsMissingDelta(t *testing.T) {
	router, _ := setupRouter(t, true)

	doRequest(router, http.MethodPost, "/cart/items/1", "")
	recorder, _ := doRequest(router, http.MethodPatch, "/cart/items/1", `{}`)

	assert.EqualValues(t, http.StatusBadRequest, recorder.Code)
}

func TestClearCartWithoutConfirmIsRejected(t *testing.T) {
	router, cart := setupRouter(t, true)

	doRequest(router, http.MethodPost, "/cart/items/1", "")
	recorder, _ := doRequest(router, http.MethodDelete, "/cart", "")

	assert.EqualValues(t, http.StatusConflict, recorder.Code)
	assert.EqualValues(t, 1, cart.ItemCount())
}

func TestClearCartWithConfirm(t *testing.T) {
	router, cart := setupRouter(t, true)

	doRequest(router, http.MethodPost, "/cart/items/1", "")
	recorder, _ := doRequest(router, http.MethodDelete, "/cart?confirm=true", "")

	assert.EqualValues(t, http.StatusOK, recorder.Code)
	assert.EqualValues(t, 0, cart.ItemCount())
}

func TestCheckoutEmptyCartIsRejected(t *testing.T) {
	router, _ := setupRouter(t, true)

	recorder, _ := doRequest(router, http.MethodPost, "/cart/checkout", "")

	assert.EqualValues(t, http.StatusBadRequest, recorder.Code)
}

func TestCheckoutReportsReceiptAndClears(t *testing.T) {
	router, cart := setupRouter(t, true)

	doRequest(router, http.MethodPost, "/cart/items/1", "")
	doRequest(router, http.MethodPost, "/cart/items/2", "")
	recorder, body := doRequest(router, http.MethodPost, "/cart/checkout", "")

	assert.EqualValues(t, http.StatusOK, recorder.Code)
	receipt := body["data"].(map[string]interface{})["receipt"].(map[string]interface{})
	assert.EqualValues(t, "15.00", receipt["subtotal"])
	assert.EqualValues(t, "1.50", receipt["tax"])
	assert.EqualValues(t, "16.50", receipt["total"])
	assert.EqualValues(t, 0, cart.ItemCount())
}
