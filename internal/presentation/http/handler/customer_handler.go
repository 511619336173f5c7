package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/fnb-pos/internal/application/service"
	"github.com/sangkips/fnb-pos/internal/presentation/http/dto/response"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Lookup finds a loyalty customer by phone so the cashier can see the balance
func (h *CustomerHandler) Lookup(c *gin.Context) {
	customer, err := h.customerService.LookupByPhone(c.Request.Context(), c.Query("phone"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}
