package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/vitrin-shop/vitrin/core"
	"github.com/vitrin-shop/vitrin/service"
)

// ProductHandlers contains the HTTP handlers for the storefront listings.
type ProductHandlers struct {
	products *service.ProductService
}

// NewProductHandlers creates new product handlers.
func NewProductHandlers(products *service.ProductService) *ProductHandlers {
	return &ProductHandlers{products: products}
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
}

func (r productRequest) toInput() (service.ProductInput, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return service.ProductInput{}, err
	}
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		ImageURL:    r.ImageURL,
	}, nil
}

// List returns every listing. Public.
func (h *ProductHandlers) List(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

// Get returns one listing. Public.
func (h *ProductHandlers) Get(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondProductError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// Create adds a listing owned by the authenticated address.
func (h *ProductHandlers) Create(c *gin.Context) {
	user, ok := AuthUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid price", nil)
		return
	}

	product, err := h.products.Create(c.Request.Context(), user.Address, in)
	if err != nil {
		h.respondProductError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "product": product})
}

// Update rewrites a listing; owner or admin only.
func (h *ProductHandlers) Update(c *gin.Context) {
	user, ok := AuthUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid price", nil)
		return
	}

	product, err := h.products.Update(c.Request.Context(), user.Address, c.Param("id"), in)
	if err != nil {
		h.respondProductError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// Delete removes a listing; owner or admin only.
func (h *ProductHandlers) Delete(c *gin.Context) {
	user, ok := AuthUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	if err := h.products.Delete(c.Request.Context(), user.Address, c.Param("id")); err != nil {
		h.respondProductError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}

func (h *ProductHandlers) respondProductError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrProductNotFound):
		respondError(c, http.StatusNotFound, "Product not found", nil)
	case errors.Is(err, core.ErrInvalidProduct):
		respondError(c, http.StatusBadRequest, "Invalid product", err)
	case errors.Is(err, core.ErrNotOwner):
		respondError(c, http.StatusForbidden, "Not the owner", nil)
	default:
		respondError(c, http.StatusInternalServerError, "Product operation failed", err)
	}
}
