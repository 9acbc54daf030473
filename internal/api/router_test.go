package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api/middleware"
	"github.com/jafarshop/storefront/internal/backend"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/metrics"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router   *gin.Engine
	sessions *session.Manager
	backend  *httptest.Server
}

func newTestEnv(t *testing.T, backendHandler http.HandlerFunc) *testEnv {
	t.Helper()

	srv := httptest.NewServer(backendHandler)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	cfg := &config.Config{
		Environment: "test",
		Backend:     config.BackendConfig{BaseURL: srv.URL, Timeout: 2 * time.Second},
	}
	reg := prometheus.NewRegistry()
	client := backend.NewClient(cfg.Backend, logger)
	checkoutMetrics := metrics.NewCheckoutMetrics(reg)
	sessions := session.NewManager(session.NewMemoryStore(), logger)

	router := NewRouter(cfg, &Services{
		Sessions:   sessions,
		CartLoader: service.NewCartLoader(client, checkoutMetrics, logger),
		Composers:  service.NewComposerRegistry(client, checkoutMetrics, logger),
		Catalog:    service.NewCatalogService(client, logger),
		Admin:      service.NewAdminService(client, logger),
		Metrics:    metrics.NewServerMetrics(reg),
		Gatherer:   reg,
	}, logger)

	return &testEnv{router: router, sessions: sessions, backend: srv}
}

func (e *testEnv) do(t *testing.T, method, path, sessionID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// login hands a token over without a session id and returns the id the server issued
func (e *testEnv) login(t *testing.T, token string) string {
	t.Helper()
	w := e.do(t, http.MethodPut, "/v1/session", "", map[string]string{"access_token": token})
	require.Equal(t, http.StatusOK, w.Code)
	id, ok := decode(t, w)["session_id"].(string)
	require.True(t, ok)
	return id
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

const cartJSON = `[
	{"id":1,"product":{"id":10,"name":"Mug","price":10},"quantity":2},
	{"id":2,"product":{"id":11,"name":"Spoon","price":5},"quantity":1}
]`

func TestHealth(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCheckoutWithoutSessionRedirectsWithoutBackendCall(t *testing.T) {
	var calls int32
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	w := env.do(t, http.MethodGet, "/v1/checkout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", decode(t, w)["redirect"])
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestCheckoutBackend401RedirectsAndForgetsToken(t *testing.T) {
	var calls int32
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	sid := env.login(t, "stale")

	w := env.do(t, http.MethodGet, "/v1/checkout", sid, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, "/login", body["redirect"])
	assert.NotContains(t, body, "form")

	w = env.do(t, http.MethodGet, "/v1/checkout", sid, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCheckoutSummary(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(cartJSON))
	})
	sid := env.login(t, "tok")

	w := env.do(t, http.MethodGet, "/v1/checkout", sid, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items   []map[string]interface{} `json:"items"`
		Summary map[string]string        `json:"summary"`
		Form    map[string]interface{}   `json:"form"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, "20.00", resp.Items[0]["line_total"])
	assert.Equal(t, map[string]string{"subtotal": "25.00", "shipping": "5.99", "tax": "2.00", "total": "32.99"}, resp.Summary)
	assert.Equal(t, "credit_card", resp.Form["payment_method"])
	assert.Equal(t, true, resp.Form["use_same_address"])
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	sid := env.login(t, "tok")

	w := env.do(t, http.MethodGet, "/v1/checkout", sid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["empty"])
	assert.Equal(t, "/products", body["redirect"])
}

func TestValidateEndpoint(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})

	w := env.do(t, http.MethodPost, "/v1/checkout/validate", "", map[string]interface{}{
		"shipping_address": "1 Main St",
		"payment_method":   "paypal",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":true,"errors":{}}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/v1/checkout/validate", "", map[string]interface{}{
		"payment_method": "paypal",
	})
	body := decode(t, w)
	assert.Equal(t, false, body["valid"])
	assert.Contains(t, body["errors"], "shipping_address")
}

func TestSubmitPlacesOrder(t *testing.T) {
	var got map[string]interface{}
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})
	sid := env.login(t, "tok")

	w := env.do(t, http.MethodPost, "/v1/checkout/submit", sid, map[string]interface{}{
		"shipping_address": "1 Main St",
		"payment_method":   "bank_transfer",
		"card_number":      "ignored",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "done", body["state"])
	assert.Equal(t, "/", body["redirect"])
	assert.Equal(t, "Order placed successfully!", body["notification"])

	assert.Equal(t, "1 Main St", got["billing_address"])
	assert.Equal(t, map[string]interface{}{"method": "bank_transfer"}, got["payment_info"])
}

func TestSubmitValidationFailure(t *testing.T) {
	var calls int32
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	sid := env.login(t, "tok")

	w := env.do(t, http.MethodPost, "/v1/checkout/submit", sid, map[string]interface{}{
		"shipping_address": "1 Main St",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := decode(t, w)["errors"].(map[string]interface{})
	assert.Equal(t, "Card number is required", errs["card_number"])
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestSubmitBackendFailure(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	sid := env.login(t, "tok")

	w := env.do(t, http.MethodPost, "/v1/checkout/submit", sid, map[string]interface{}{
		"shipping_address": "1 Main St",
		"payment_method":   "paypal",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decode(t, w)
	assert.Equal(t, "failed", body["state"])
	assert.Equal(t, "Error placing order. Please try again.", body["notification"])
}

func TestDuplicateSubmitIsRejected(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var orders int32
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&orders, 1) == 1 {
			close(entered)
		}
		<-release
		w.WriteHeader(http.StatusCreated)
	})
	sid := env.login(t, "tok")

	form := map[string]interface{}{"shipping_address": "1 Main St", "payment_method": "paypal"}
	first := make(chan int, 1)
	go func() {
		first <- env.do(t, http.MethodPost, "/v1/checkout/submit", sid, form).Code
	}()

	<-entered
	w := env.do(t, http.MethodPost, "/v1/checkout/submit", sid, form)
	assert.Equal(t, http.StatusConflict, w.Code)

	close(release)
	assert.Equal(t, http.StatusCreated, <-first)
	assert.Equal(t, int32(1), atomic.LoadInt32(&orders))
}

func TestProductDetail(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/2":
			w.Write([]byte(`{"id":2,"name":"Mug","price":9.99,"category_id":5}`))
		case "/products":
			w.Write([]byte(`[{"id":1,"name":"a","price":1},{"id":2,"name":"Mug","price":9.99},{"id":3,"name":"c","price":1},{"id":4,"name":"d","price":1}]`))
		default:
			http.NotFound(w, r)
		}
	})

	w := env.do(t, http.MethodGet, "/v1/products/2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Product struct {
			ID int64 `json:"id"`
		} `json:"product"`
		Related []struct {
			ID int64 `json:"id"`
		} `json:"related"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Product.ID)
	require.Len(t, resp.Related, 3)
	assert.Equal(t, int64(4), resp.Related[2].ID)

	w = env.do(t, http.MethodGet, "/v1/products/99", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "/products", decode(t, w)["redirect"])
}

func TestAddToCartRequiresSession(t *testing.T) {
	var got map[string]interface{}
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})

	w := env.do(t, http.MethodPost, "/v1/cart", "", map[string]interface{}{"product_id": 3, "quantity": 2})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	sid := env.login(t, "tok")
	w = env.do(t, http.MethodPost, "/v1/cart", sid, map[string]interface{}{"product_id": 3, "quantity": 2})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), got["product_id"])
	assert.Equal(t, float64(2), got["quantity"])
}

func TestPutSessionIssuesCookie(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})

	w := env.do(t, http.MethodPut, "/v1/session", "", map[string]string{"access_token": "tok"})
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, cookies[0].Value, decode(t, w)["session_id"])

	w = env.do(t, http.MethodDelete, "/v1/session", cookies[0].Value, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestPutSessionIgnoresUnknownPresentedID(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})

	w := env.do(t, http.MethodPut, "/v1/session", "chosen-by-caller", map[string]string{"access_token": "tok"})
	require.Equal(t, http.StatusOK, w.Code)

	issued := decode(t, w)["session_id"].(string)
	assert.NotEqual(t, "chosen-by-caller", issued)
	_, err := uuid.Parse(issued)
	assert.NoError(t, err)
	require.Len(t, w.Result().Cookies(), 1)
	assert.Equal(t, issued, w.Result().Cookies()[0].Value)

	sess, err := env.sessions.Load(context.Background(), "chosen-by-caller")
	require.NoError(t, err)
	assert.Equal(t, session.Anonymous, sess.State())
}

func TestPutSessionKeepsLoggedInID(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})
	sid := env.login(t, "tok")

	w := env.do(t, http.MethodPut, "/v1/session", sid, map[string]string{"access_token": "fresh"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sid, decode(t, w)["session_id"])
	assert.Empty(t, w.Result().Cookies())
}

func TestAdminDashboardForbidden(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	sid := env.login(t, "tok")

	w := env.do(t, http.MethodGet, "/v1/admin/dashboard", sid, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "/admin/login", decode(t, w)["redirect"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})
	env.do(t, http.MethodGet, "/health", "", nil)

	w := env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storefront_bff_http_requests_total")
}
