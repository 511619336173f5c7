package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/fnb-pos/internal/application/service"
	"github.com/sangkips/fnb-pos/internal/domain/enum"
	"github.com/sangkips/fnb-pos/internal/domain/repository"
	"github.com/sangkips/fnb-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/fnb-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/fnb-pos/pkg/apperror"
	"github.com/sangkips/fnb-pos/pkg/pagination"
)

// receiptWidth is the column count of a 58mm thermal roll
const receiptWidth = 32

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	loc          *time.Location
}

// NewOrderHandler creates a new order handler. Date filters are read in loc.
func NewOrderHandler(orderService *service.OrderService, loc *time.Location) *OrderHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderHandler{orderService: orderService, loc: loc}
}

// List handles listing orders with filters
func (h *OrderHandler) List(c *gin.Context) {
	params := &repository.OrderFilterParams{
		Pagination: pagination.Parse(c.DefaultQuery("page", "1"), c.DefaultQuery("per_page", "20")),
		Search:     strings.TrimSpace(c.Query("search")),
	}

	var fieldErrors []apperror.FieldError

	if statusStr := c.Query("status"); statusStr != "" {
		status, err := enum.ParseOrderStatus(statusStr)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "status", Message: err.Error()})
		} else {
			params.Status = &status
		}
	}

	if methodStr := c.Query("payment_method"); methodStr != "" {
		method, err := enum.ParsePaymentMethod(methodStr)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "payment_method", Message: err.Error()})
		} else {
			params.PaymentMethod = &method
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		start, _, err := h.parseDate(startDateStr)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "start_date", Message: "expected YYYY-MM-DD or RFC3339"})
		} else {
			params.StartDate = &start
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		end, dateOnly, err := h.parseDate(endDateStr)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "end_date", Message: "expected YYYY-MM-DD or RFC3339"})
		} else {
			// a bare date covers the whole business day
			if dateOnly {
				end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
			}
			params.EndDate = &end
		}
	}

	if len(fieldErrors) > 0 {
		response.ValidationError(c, fieldErrors)
		return
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Orders retrieved successfully", result)
}

func (h *OrderHandler) parseDate(v string) (time.Time, bool, error) {
	if t, err := time.ParseInLocation("2006-01-02", v, h.loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	return t, false, err
}

// Get handles getting a single order with its items
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// Receipt renders the income receipt of a completed order. With
// ?format=escpos the raw print job is returned instead of JSON.
func (h *OrderHandler) Receipt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	receipt, err := h.orderService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	switch strings.ToLower(c.DefaultQuery("format", "json")) {
	case "escpos":
		response.Binary(c, "application/octet-stream", receipt.ReceiptCode+".bin", service.FormatReceipt(receipt, receiptWidth))
	case "json":
		response.OK(c, "Receipt retrieved successfully", receipt)
	default:
		response.BadRequest(c, "Unsupported receipt format")
	}
}

// Cancel handles cancelling a pending order
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled successfully", order)
}

// Repay settles a pending order at the counter
func (h *OrderHandler) Repay(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.RepayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.orderService.RepayOrder(c.Request.Context(), id, &service.RepayInput{
		PaymentMethod:  enum.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
		AmountReceived: req.AmountReceived.Int64(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order paid successfully", result)
}
