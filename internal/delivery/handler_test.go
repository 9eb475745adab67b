package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"catalog_service/internal/repository/memory"
	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiResponse struct {
	Status  string
	Message string
	Data    json.RawMessage
}

func newTestRouter(t *testing.T, db Pinger) *gin.Engine {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := memory.NewStore()

	return NewRouter(logger, db,
		NewCategoryHandler(usecase.NewCategoryUseCase(store.Categories(), logger), logger),
		NewProductHandler(usecase.NewProductUseCase(store.Products(), store.Categories(), logger), logger),
		NewOrderHandler(usecase.NewOrderUseCase(store.Orders(), logger), logger),
		NewOrderItemHandler(usecase.NewOrderItemUseCase(store.OrderItems(), store.Orders(), store.Products(), logger), logger),
	)
}

func do(t *testing.T, router http.Handler, method, path string, form url.Values) (int, apiResponse) {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func dataField(t *testing.T, resp apiResponse, key string) float64 {
	t.Helper()
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	v, ok := data[key].(float64)
	require.True(t, ok, "missing %s in %s", key, string(resp.Data))
	return v
}

type product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       string  `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    *string `json:"image_url"`
}

func getProduct(t *testing.T, router http.Handler, path string) product {
	t.Helper()
	code, resp := do(t, router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, code)
	var p product
	require.NoError(t, json.Unmarshal(resp.Data, &p))
	return p
}

// seed creates Apparel, Tee (price 1000, stock 10) and an order for Alice.
func seed(t *testing.T, router http.Handler) {
	t.Helper()
	code, resp := do(t, router, http.MethodPost, "/categories", url.Values{"name": {"Apparel"}})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Success", resp.Status)
	assert.Equal(t, float64(1), dataField(t, resp, "category_id"))

	code, resp = do(t, router, http.MethodPost, "/products", url.Values{
		"name": {"Tee"}, "price": {"1000"}, "stock": {"10"}, "category_id": {"1"}, "description": {"Heavy cotton"},
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, float64(1), dataField(t, resp, "product_id"))

	code, resp = do(t, router, http.MethodPost, "/orders", url.Values{"customer_name": {"Alice"}})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, float64(1), dataField(t, resp, "order_id"))
}

func TestOrderItemFlow(t *testing.T) {
	router := newTestRouter(t, nil)
	seed(t, router)

	code, resp := do(t, router, http.MethodPost, "/order_items", url.Values{
		"order_id": {"1"}, "product_id": {"1"}, "quantity": {"3"},
	})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	assert.Equal(t, float64(1), dataField(t, resp, "order_item_id"))
	assert.Equal(t, 7, getProduct(t, router, "/products/1").Stock)

	code, resp = do(t, router, http.MethodPost, "/order_items", url.Values{
		"order_id": {"1"}, "product_id": {"1"}, "quantity": {"10"},
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Fail", resp.Status)
	assert.Equal(t, 7, getProduct(t, router, "/products/1").Stock)

	code, _ = do(t, router, http.MethodPost, "/order_items", url.Values{
		"order_id": {"1"}, "product_id": {"9999"}, "quantity": {"1"},
	})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, router, http.MethodPost, "/order_items", url.Values{
		"order_id": {"1"}, "product_id": {"1"}, "quantity": {"0"},
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, router, http.MethodPost, "/order_items", url.Values{
		"order_id": {"1"}, "product_id": {"1"}, "quantity": {"three"},
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = do(t, router, http.MethodGet, "/orders/1", nil)
	require.Equal(t, http.StatusOK, code)
	var order struct {
		CustomerName string `json:"customer_name"`
		Status       string `json:"status"`
		Items        []struct {
			Quantity        int    `json:"quantity"`
			PriceAtPurchase string `json:"price_at_purchase"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &order))
	assert.Equal(t, "Alice", order.CustomerName)
	assert.Equal(t, "pending", order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, "1000", order.Items[0].PriceAtPurchase)
}

func TestUpdateProduct_SparsePatch(t *testing.T) {
	router := newTestRouter(t, nil)
	seed(t, router)

	code, resp := do(t, router, http.MethodPatch, "/products/1", url.Values{"stock": {"42"}})
	require.Equal(t, http.StatusOK, code, resp.Message)
	assert.Equal(t, float64(1), dataField(t, resp, "product_id"))

	p := getProduct(t, router, "/products/1")
	assert.Equal(t, 42, p.Stock)
	assert.Equal(t, "Tee", p.Name)
	assert.Equal(t, "1000", p.Price)
	require.NotNil(t, p.Description)
	assert.Equal(t, "Heavy cotton", *p.Description)

	code, _ = do(t, router, http.MethodPatch, "/products/1", url.Values{"description": {""}})
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, getProduct(t, router, "/products/1").Description)

	code, _ = do(t, router, http.MethodPatch, "/products/1", url.Values{"price": {"abc"}})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, router, http.MethodPatch, "/products/77", url.Values{"stock": {"1"}})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCreateProduct_Errors(t *testing.T) {
	router := newTestRouter(t, nil)
	seed(t, router)

	tests := []struct {
		name string
		form url.Values
		want int
	}{
		{"missing price", url.Values{"name": {"Cap"}, "category_id": {"1"}}, http.StatusBadRequest},
		{"missing name", url.Values{"price": {"5"}, "category_id": {"1"}}, http.StatusBadRequest},
		{"negative stock", url.Values{"name": {"Cap"}, "price": {"5"}, "stock": {"-1"}, "category_id": {"1"}}, http.StatusBadRequest},
		{"unknown category", url.Values{"name": {"Cap"}, "price": {"5"}, "category_id": {"99"}}, http.StatusNotFound},
		{"duplicate name", url.Values{"name": {"Tee"}, "price": {"5"}, "category_id": {"1"}}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := do(t, router, http.MethodPost, "/products", tt.form)
			assert.Equal(t, tt.want, code, resp.Message)
			assert.Equal(t, "Fail", resp.Status)
		})
	}
}

func TestCategoryRoutes(t *testing.T) {
	router := newTestRouter(t, nil)
	seed(t, router)

	code, resp := do(t, router, http.MethodGet, "/categories/1/products", nil)
	require.Equal(t, http.StatusOK, code)
	var products []product
	require.NoError(t, json.Unmarshal(resp.Data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Tee", products[0].Name)

	code, resp = do(t, router, http.MethodGet, "/categories/42/products", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(resp.Data))

	code, _ = do(t, router, http.MethodDelete, "/categories/1", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = do(t, router, http.MethodGet, "/categories/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, router, http.MethodPatch, "/categories/1", url.Values{"name": {""}})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDeleteThenGet(t *testing.T) {
	router := newTestRouter(t, nil)
	seed(t, router)

	for _, path := range []string{"/orders/1", "/products/1", "/categories/1"} {
		code, resp := do(t, router, http.MethodDelete, path, nil)
		require.Equal(t, http.StatusOK, code, "%s: %s", path, resp.Message)

		code, _ = do(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, code, path)

		code, _ = do(t, router, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNotFound, code, path)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	router := newTestRouter(t, nil)
	seed(t, router)

	code, _ := do(t, router, http.MethodPatch, "/orders/1", url.Values{"status": {"shipped"}})
	require.Equal(t, http.StatusOK, code)

	_, resp := do(t, router, http.MethodGet, "/orders/1", nil)
	assert.Contains(t, string(resp.Data), `"status":"shipped"`)

	code, _ = do(t, router, http.MethodPatch, "/orders/1", url.Values{"status": {""}})
	assert.Equal(t, http.StatusBadRequest, code)
}

type stubPinger struct{ err error }

func (s stubPinger) PingContext(context.Context) error { return s.err }

func TestHealthAndIndex(t *testing.T) {
	code, resp := do(t, newTestRouter(t, stubPinger{}), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Success", resp.Status)

	code, _ = do(t, newTestRouter(t, stubPinger{err: errors.New("connection refused")}), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	newTestRouter(t, nil).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/order_items")
}

func TestMiddleware_RequestIDAndCORS(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/categories", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodOptions, "/products", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUpdateProduct_OutOfRangeIsBadRequest(t *testing.T) {
	router := newTestRouter(t, nil)
	seed(t, router)

	for _, form := range []url.Values{
		{"stock": {"3000000000"}},
		{"price": {"1e11"}},
	} {
		code, resp := do(t, router, http.MethodPatch, "/products/1", form)
		assert.Equal(t, http.StatusBadRequest, code, resp.Message)
	}
	p := getProduct(t, router, "/products/1")
	assert.Equal(t, 10, p.Stock)
	assert.Equal(t, "1000", p.Price)
}
