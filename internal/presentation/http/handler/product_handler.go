package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/fnb-pos/internal/application/service"
	"github.com/sangkips/fnb-pos/internal/presentation/http/dto/response"
)

// ProductHandler serves the catalog
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List returns the active catalog with classification groups and options
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.ListCatalog(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Products retrieved successfully", products)
}
