package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/NicolasArtemio/frontend-basv1/internal/authflow"
	"github.com/NicolasArtemio/frontend-basv1/internal/cart"
	"github.com/NicolasArtemio/frontend-basv1/internal/catalog"
	"github.com/NicolasArtemio/frontend-basv1/internal/handler"
	"github.com/NicolasArtemio/frontend-basv1/internal/model"
	"github.com/NicolasArtemio/frontend-basv1/internal/session"
	"github.com/NicolasArtemio/frontend-basv1/internal/storage"
	"github.com/NicolasArtemio/frontend-basv1/internal/transport"
)

type shell struct {
	handler  *handler.Handler
	sessions *session.Store
	carts    *cart.Store
	store    *storage.Memory
}

func newShell(t *testing.T, upstreamURL string) *shell {
	t.Helper()

	log := zap.NewNop()
	mem := storage.NewMemory()

	sessions := session.New(mem, log)
	carts := cart.New(mem, "BAS Pet Shop", log)

	pipeline := transport.NewPipeline(nil).
		Pre(transport.AcceptJSON()).
		Pre(transport.BearerAuth(sessions)).
		Post(transport.ForceLogoutOnUnauthorized(sessions))

	client := catalog.NewClient(catalog.Config{BaseURL: upstreamURL}, pipeline)
	service := catalog.NewService(client, log)

	auth := authflow.NewHandler(sessions, authflow.Config{
		OAuthURL:   "http://localhost:3000/api/auth/google",
		AdminEmail: "admin@baspetshop.com",
	}, log)

	h := handler.NewHandler(auth,
		handler.NewCartHandler(carts, "5491122334455"),
		handler.NewCatalogHandler(service, client))

	return &shell{handler: h, sessions: sessions, carts: carts, store: mem}
}

func floatPtr(v float64) *float64 {
	return &v
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCartFlow(t *testing.T) {
	s := newShell(t, "http://unused.invalid")

	product := model.Product{ID: 1, Name: "Alimento", PricePerBag: floatPtr(1000)}

	// Add the same line twice, a second mode once.
	for i := 0; i < 2; i++ {
		rec := doJSON(t, s.handler, http.MethodPost, "/cart/items", handler.AddItemRequest{Product: product, PriceMode: model.PerBag})
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	doJSON(t, s.handler, http.MethodPost, "/cart/items", handler.AddItemRequest{Product: product, PriceMode: model.PerKilo})

	rec := doJSON(t, s.handler, http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp handler.CartResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, 2000.0, resp.Total)

	// Drive the bag line below the floor.
	doJSON(t, s.handler, http.MethodPatch, "/cart/items", handler.UpdateItemRequest{ProductID: 1, PriceMode: model.PerBag, Delta: -10})
	assert.Equal(t, 1, s.carts.Items()[0].Quantity)

	// Remove the kilo line entirely.
	doJSON(t, s.handler, http.MethodDelete, "/cart/items", handler.UpdateItemRequest{ProductID: 1, PriceMode: model.PerKilo})
	assert.Len(t, s.carts.Items(), 1)

	// Handoff link for the remaining line.
	rec = doJSON(t, s.handler, http.MethodGet, "/cart/handoff-link", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var link map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &link))
	assert.Contains(t, link["link"], "https://wa.me/5491122334455?text=")

	// Clear.
	doJSON(t, s.handler, http.MethodDelete, "/cart", nil)
	assert.Empty(t, s.carts.Items())

	rec = doJSON(t, s.handler, http.MethodGet, "/cart/handoff-link", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCartAdd_RejectsUnknownPriceMode(t *testing.T) {
	s := newShell(t, "http://unused.invalid")

	rec := doJSON(t, s.handler, http.MethodPost, "/cart/items", map[string]any{
		"product":    map[string]any{"id": 1, "name": "Alimento"},
		"price_type": "docena",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProducts_ProxiedFromUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]model.Product{{ID: 1, Name: "Alimento"}})
	}))
	defer upstream.Close()

	s := newShell(t, upstream.URL)

	rec := doJSON(t, s.handler, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var products []model.Product
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 1)
}

func TestProducts_UpstreamDownRendersEmptyCatalog(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	s := newShell(t, upstream.URL)

	rec := doJSON(t, s.handler, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestAdminRoutes_Gated(t *testing.T) {
	s := newShell(t, "http://unused.invalid")

	rec := doJSON(t, s.handler, http.MethodPost, "/admin/products", model.Product{Name: "Correa"})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestAdminCreateProduct(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		var product model.Product
		json.NewDecoder(r.Body).Decode(&product)
		product.ID = 7
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(product)
	}))
	defer upstream.Close()

	s := newShell(t, upstream.URL)
	s.sessions.Login(context.Background(), model.Identity{Email: "admin@baspetshop.com"}, "tok-123")

	rec := doJSON(t, s.handler, http.MethodPost, "/admin/products", model.Product{Name: "Correa", Price: floatPtr(900)})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created model.Product
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 7, created.ID)
}

// An expired token upstream must knock the whole session out: the admin
// call fails, the session goes anonymous and the gate closes again.
func TestAdminCreateProduct_ExpiredTokenEndsSession(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"statusCode":401,"message":"token expired"}`))
	}))
	defer upstream.Close()

	s := newShell(t, upstream.URL)
	s.sessions.Login(context.Background(), model.Identity{Email: "admin@baspetshop.com"}, "tok-123")

	rec := doJSON(t, s.handler, http.MethodPost, "/admin/products", model.Product{Name: "Correa"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.False(t, s.sessions.Authenticated())

	rec = doJSON(t, s.handler, http.MethodPost, "/admin/products", model.Product{Name: "Correa"})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestHealthCheck(t *testing.T) {
	s := newShell(t, "http://unused.invalid")

	rec := doJSON(t, s.handler, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
