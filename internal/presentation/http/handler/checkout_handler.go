package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/fnb-pos/internal/application/service"
	"github.com/sangkips/fnb-pos/internal/domain/enum"
	"github.com/sangkips/fnb-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/fnb-pos/internal/presentation/http/dto/response"
)

// CheckoutHandler handles cart pricing and order creation
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Quote prices the cart for display before payment
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req request.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.checkoutService.Quote(c.Request.Context(), toQuoteInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart priced successfully", result)
}

// Checkout writes the order. Cash orders complete immediately; transfer
// orders wait for the bank notification.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CheckoutInput{
		QuoteInput:      *toQuoteInput(&req.QuoteRequest),
		StaffID:         *userID,
		PaymentMethod:   enum.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
		AmountReceived:  req.AmountReceived.Int64(),
		CustomerName:    req.CustomerName,
		Note:            req.Note,
		TransferContent: req.TransferContent,
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", result)
}

func toQuoteInput(req *request.QuoteRequest) *service.QuoteInput {
	lines := make([]service.CartLineInput, len(req.Items))
	for i, item := range req.Items {
		lines[i] = service.CartLineInput{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			OptionIDs: item.OptionIDs,
			Note:      item.Note,
		}
	}
	return &service.QuoteInput{
		Lines:         lines,
		DiscountCode:  req.DiscountCode,
		PointsToUse:   req.PointsToUse,
		UseLoyalty:    req.UseLoyalty,
		CustomerPhone: req.CustomerPhone,
	}
}
