package server

import (
	"net/http"
	"strconv"

	"diceroyale/models"
	"diceroyale/service"

	"github.com/go-chi/chi/v5"
)

const sessionHeader = "X-Session-ID"

type catalogHandler struct {
	catalog service.CatalogService
	bag     service.BagService
}

type createProductRequest struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Price              int64   `json:"price"`
	Thumbnail          string  `json:"thumbnail"`
	Brand              string  `json:"brand"`
	Category           string  `json:"category"`
	Stock              int     `json:"stock"`
	Rating             float64 `json:"rating"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

func (h *catalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeError(w, errCatalogDisabled)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, errBadRequest)
			return
		}
		limit = parsed
	}

	products, err := h.catalog.ListProducts(r.Context(), r.URL.Query().Get("category"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *catalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeError(w, errCatalogDisabled)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *catalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeError(w, errCatalogDisabled)
		return
	}

	var req createProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), &models.Product{
		Title:              req.Title,
		Description:        req.Description,
		Price:              req.Price,
		Thumbnail:          req.Thumbnail,
		Brand:              req.Brand,
		Category:           req.Category,
		Stock:              req.Stock,
		Rating:             req.Rating,
		DiscountPercentage: req.DiscountPercentage,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *catalogHandler) getBag(w http.ResponseWriter, r *http.Request) {
	if h.bag == nil {
		writeError(w, errCatalogDisabled)
		return
	}

	bag, err := h.bag.Get(r.Context(), r.Header.Get(sessionHeader))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bag)
}

func (h *catalogHandler) addToBag(w http.ResponseWriter, r *http.Request) {
	if h.bag == nil {
		writeError(w, errCatalogDisabled)
		return
	}

	bag, err := h.bag.Add(r.Context(), r.Header.Get(sessionHeader), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bag)
}

func (h *catalogHandler) removeFromBag(w http.ResponseWriter, r *http.Request) {
	if h.bag == nil {
		writeError(w, errCatalogDisabled)
		return
	}

	bag, err := h.bag.Remove(r.Context(), r.Header.Get(sessionHeader), chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bag)
}
