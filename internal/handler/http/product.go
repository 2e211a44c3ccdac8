package handler

import (
	"net/http"

	"github.com/rookgm/pointsclub/internal/models"
)

//go:generate mockgen -source=product.go -destination=mocks/product.go -package=mocks
type ProductCatalog interface {
	List() []models.Product
}

// ProductHandler represents HTTP handler for catalog requests
type ProductHandler struct {
	catalog ProductCatalog
}

// NewProductHandler creates new ProductHandler instance
func NewProductHandler(catalog ProductCatalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type productResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
}

// ListProducts returns active products
func (ph *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products := ph.catalog.List()

		resp := make([]productResponse, 0, len(products))
		for _, p := range products {
			resp = append(resp, productResponse{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price,
				Category:    p.Category,
				ImageURL:    p.ImageURL,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
