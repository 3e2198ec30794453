package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/NicolasArtemio/frontend-basv1/internal/authflow"
)

type Handler struct {
	router *chi.Mux

	auth           *authflow.Handler
	cartHandler    *CartHandler
	catalogHandler *CatalogHandler
}

func NewHandler(auth *authflow.Handler, cartHandler *CartHandler, catalogHandler *CatalogHandler) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	h := &Handler{
		router:         router,
		auth:           auth,
		cartHandler:    cartHandler,
		catalogHandler: catalogHandler,
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Get("/health", h.HealthCheck)

	// Auth shell
	h.router.Get("/login", h.auth.LoginPage)
	h.router.Get("/auth/callback", h.auth.Callback)
	h.router.Get("/logout", h.auth.Logout)

	// Storefront
	h.router.Route("/cart", func(r chi.Router) {
		r.Get("/", h.cartHandler.GetCart)
		r.Delete("/", h.cartHandler.ClearCart)
		r.Post("/items", h.cartHandler.AddItem)
		r.Delete("/items", h.cartHandler.RemoveItem)
		r.Patch("/items", h.cartHandler.UpdateQuantity)
		r.Get("/handoff-link", h.cartHandler.HandoffLink)
	})
	h.router.Get("/products/categories", h.catalogHandler.GetCategories)
	h.router.Get("/products", h.catalogHandler.GetProducts)

	// Admin panel
	h.router.Group(func(r chi.Router) {
		r.Use(h.auth.RequireAdmin)
		r.Get("/admin", h.auth.AdminHome)
		r.Post("/admin/products", h.catalogHandler.CreateProduct)
		r.Post("/admin/products/bulk-upload", h.catalogHandler.BulkUpload)
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
