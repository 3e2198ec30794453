package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/NicolasArtemio/frontend-basv1/internal/catalog"
	"github.com/NicolasArtemio/frontend-basv1/internal/model"
)

// CatalogHandler exposes the remote catalog to the pages. Reads go
// through the fallback service (fetch failures render as an empty
// catalog); admin writes go through the client so the caller sees the
// API's verdict.
type CatalogHandler struct {
	service *catalog.Service
	client  *catalog.Client
}

func NewCatalogHandler(service *catalog.Service, client *catalog.Client) *CatalogHandler {
	return &CatalogHandler{service: service, client: client}
}

func (h *CatalogHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.service.Categories(r.Context()))
}

func (h *CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.service.Products(r.Context()))
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.client.CreateProduct(r.Context(), product)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *CatalogHandler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing upload file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	summary, err := h.client.BulkUpload(r.Context(), header.Filename, file)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	writeJSON(w, summary)
}

// writeAPIError relays the remote API's own error shape when there is
// one, hiding everything else behind a 502.
func writeAPIError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	var apiErr *catalog.APIError
	if errors.As(err, &apiErr) {
		w.WriteHeader(apiErr.StatusCode)
		json.NewEncoder(w).Encode(apiErr)
		return
	}

	w.WriteHeader(http.StatusBadGateway)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
