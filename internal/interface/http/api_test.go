package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domorder "example.com/loja/internal/domain/order"
	domproduct "example.com/loja/internal/domain/product"
	"example.com/loja/internal/infra/persistence/memory"
	checkoutuc "example.com/loja/internal/usecase/checkout"
	orderuc "example.com/loja/internal/usecase/order"
	productuc "example.com/loja/internal/usecase/product"
)

type recordingNotifier struct {
	orders []string
}

func (n *recordingNotifier) OrderPlaced(ctx context.Context, o *domorder.Order) error {
	n.orders = append(n.orders, o.ID)
	return nil
}

type failingProductRepository struct{}

func (failingProductRepository) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error) {
	return nil, errors.New("db down")
}

func (failingProductRepository) GetByIDs(ctx context.Context, ids []string) ([]*domproduct.Product, error) {
	return nil, errors.New("db down")
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedProducts() []*domproduct.Product {
	compare := dec("59.9")
	return []*domproduct.Product{
		{ID: "1", Title: "Caneca Esmaltada", Price: dec("39.9"), CompareAtPrice: &compare, Stock: 3, ImageURL: "/img/1.jpg", Category: "cozinha"},
		{ID: "2", Title: "Avental de Linho", Price: dec("89.9"), Stock: 1, ImageURL: "/img/2.jpg", Category: "cozinha"},
		{ID: "3", Title: "Vela Aromática", Price: dec("49.9"), Stock: 0, ImageURL: "/img/3.jpg", Category: "casa"},
	}
}

type testEnv struct {
	api      *API
	products *memory.ProductRepository
	notifier *recordingNotifier
}

func setupAPI() *testEnv {
	return setupAPIWith(func(*Dependencies) {})
}

func setupAPIWith(configure func(*Dependencies)) *testEnv {
	products := memory.NewProductRepository(seedProducts())
	orders := memory.NewOrderRepository(products)
	notifier := &recordingNotifier{}

	deps := Dependencies{
		ProductService:  productuc.NewService(products),
		CheckoutService: checkoutuc.NewService(orders, notifier, nil),
		OrderService:    orderuc.NewService(orders),
	}
	configure(&deps)
	api := NewAPI(deps)
	return &testEnv{api: api, products: products, notifier: notifier}
}

func doRequest(t *testing.T, api *API, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		var payload []byte
		switch b := body.(type) {
		case string:
			payload = []byte(b)
		default:
			var err error
			payload, err = json.Marshal(body)
			require.NoError(t, err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	api.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func validOrderBody() map[string]any {
	return map[string]any{
		"customer": map[string]any{
			"name":    "Ana",
			"email":   "ana@example.com",
			"address": "Rua A, 1",
			"city":    "Recife",
			"state":   "PE",
			"zip":     "50000-000",
		},
		"items": []map[string]any{
			{"id": "1", "qty": 2},
			{"id": "2", "qty": 1},
		},
	}
}

func TestHealth(t *testing.T) {
	env := setupAPI()
	rec := doRequest(t, env.api, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestHealth_FailingCheck(t *testing.T) {
	api := NewAPI(Dependencies{HealthChecks: map[string]HealthCheck{
		"mysql": func(ctx context.Context) error { return errors.New("connection refused") },
		"cache": func(ctx context.Context) error { return nil },
	}})

	rec := doRequest(t, api, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "degraded", body["status"])
	require.Equal(t, map[string]any{"mysql": "connection refused", "cache": "ok"}, body["checks"])
}

func TestListProducts(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantIDs []string
	}{
		{name: "all", path: "/api/products", wantIDs: []string{"1", "2", "3"}},
		{name: "by category", path: "/api/products?category=casa", wantIDs: []string{"3"}},
		{name: "by text", path: "/api/products?q=linho", wantIDs: []string{"2"}},
		{name: "text and category", path: "/api/products?q=caneca&category=casa", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupAPI()
			rec := doRequest(t, env.api, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Products []map[string]any `json:"products"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			ids := []string{}
			for _, p := range body.Products {
				ids = append(ids, p["id"].(string))
			}
			require.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestListProducts_Shape(t *testing.T) {
	env := setupAPI()
	rec := doRequest(t, env.api, http.MethodGet, "/api/products?q=caneca", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []map[string]any `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Products, 1)
	require.Equal(t, map[string]any{
		"id":               "1",
		"title":            "Caneca Esmaltada",
		"price":            39.9,
		"compare_at_price": 59.9,
		"stock":            float64(3),
		"image_url":        "/img/1.jpg",
		"category":         "cozinha",
	}, body.Products[0])
}

func TestListProducts_RepositoryError(t *testing.T) {
	api := NewAPI(Dependencies{ProductService: productuc.NewService(failingProductRepository{})})

	rec := doRequest(t, api, http.MethodGet, "/api/products", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, false, body["ok"])
	require.Equal(t, "db down", body["message"])
}

func TestListCategories(t *testing.T) {
	env := setupAPI()
	rec := doRequest(t, env.api, http.MethodGet, "/api/categories", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []any{"casa", "cozinha"}, decodeBody(t, rec)["categories"])
}

func TestCreateOrder_Success(t *testing.T) {
	env := setupAPI()

	rec := doRequest(t, env.api, http.MethodPost, "/api/orders", validOrderBody())

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, true, body["ok"])
	orderID, _ := body["order_id"].(string)
	require.Len(t, orderID, 36)
	require.Equal(t, map[string]any{"subtotal": 169.7, "shipping": 19.9, "total": 189.6}, body["totals"])
	require.Equal(t, []string{orderID}, env.notifier.orders)

	left, err := env.products.GetByIDs(context.Background(), []string{"1", "2"})
	require.NoError(t, err)
	require.Equal(t, int64(1), left[0].Stock)
	require.Equal(t, int64(0), left[1].Stock)

	rec = doRequest(t, env.api, http.MethodGet, "/api/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	order := decodeBody(t, rec)
	require.Equal(t, "processing", order["status"])
	require.Len(t, order["items"], 2)
}

func TestListOrders_HiddenByDefault(t *testing.T) {
	env := setupAPI()
	rec := doRequest(t, env.api, http.MethodPost, "/api/orders", validOrderBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, env.api, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.NotContains(t, rec.Body.String(), "@")
}

func TestListOrders_WhenExposed(t *testing.T) {
	env := setupAPIWith(func(d *Dependencies) { d.ExposeOrderList = true })
	rec := doRequest(t, env.api, http.MethodPost, "/api/orders", validOrderBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, env.api, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody(t, rec)["orders"], 1)
}

func TestCreateOrder_Failures(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(body map[string]any)
		raw        string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "malformed json",
			raw:        "{",
			wantStatus: http.StatusBadRequest,
			wantMsg:    "invalid JSON body",
		},
		{
			name: "missing customer field",
			mutate: func(body map[string]any) {
				body["customer"].(map[string]any)["zip"] = ""
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "customer.zip (required)",
		},
		{
			name: "bad email",
			mutate: func(body map[string]any) {
				body["customer"].(map[string]any)["email"] = "not-an-email"
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "customer.email (email)",
		},
		{
			name: "blank after trimming",
			mutate: func(body map[string]any) {
				body["customer"].(map[string]any)["city"] = "   "
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "city",
		},
		{
			name: "no items",
			mutate: func(body map[string]any) {
				body["items"] = []map[string]any{}
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "items (min)",
		},
		{
			name: "zero quantity",
			mutate: func(body map[string]any) {
				body["items"] = []map[string]any{{"id": "1", "qty": 0}}
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "items[0].qty (gt)",
		},
		{
			name: "unknown product",
			mutate: func(body map[string]any) {
				body["items"] = []map[string]any{{"id": "999", "qty": 1}}
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "product 999: product not found",
		},
		{
			name: "insufficient stock",
			mutate: func(body map[string]any) {
				body["items"] = []map[string]any{{"id": "2", "qty": 2}}
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "product 2: product out of stock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupAPI()
			var body any
			if tt.raw != "" {
				body = tt.raw
			} else {
				b := validOrderBody()
				tt.mutate(b)
				body = b
			}

			rec := doRequest(t, env.api, http.MethodPost, "/api/orders", body)

			require.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeBody(t, rec)
			require.Equal(t, false, resp["ok"])
			require.Contains(t, resp["message"], tt.wantMsg)
			require.Empty(t, env.notifier.orders)
		})
	}
}

func TestCreateOrder_RejectsUnsupportedContentType(t *testing.T) {
	env := setupAPI()
	payload, _ := json.Marshal(validOrderBody())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/xml")
	rec := httptest.NewRecorder()

	env.api.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	env := setupAPI()
	rec := doRequest(t, env.api, http.MethodGet, "/api/orders/does-not-exist", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, domorder.ErrOrderNotFound.Error(), decodeBody(t, rec)["message"])
}
