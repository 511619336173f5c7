package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/fnb-pos/internal/application/service"
	"github.com/sangkips/fnb-pos/pkg/apperror"
)

// DefaultWebhookBodyLimit caps notification bodies when no limit is configured
const DefaultWebhookBodyLimit int64 = 1 << 20

// WebhookHandler receives bank transfer notifications. Responses use the
// flat shape aggregators expect rather than the API envelope.
type WebhookHandler struct {
	reconcileService *service.ReconcileService
	maxBodyBytes     int64
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(reconcileService *service.ReconcileService, maxBodyBytes int64) *WebhookHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultWebhookBodyLimit
	}
	return &WebhookHandler{reconcileService: reconcileService, maxBodyBytes: maxBodyBytes}
}

// BankTransfer reconciles one notification against pending transfer orders
func (h *WebhookHandler) BankTransfer(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeWebhookError(c, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		writeWebhookError(c, http.StatusBadRequest, "unable to read body")
		return
	}

	result, err := h.reconcileService.Reconcile(c.Request.Context(), body, c.Request.Header)
	if err != nil {
		appErr := apperror.GetAppError(err)
		writeWebhookError(c, appErr.Code, appErr.Message)
		return
	}

	c.JSON(result.StatusCode(), result)
}

func writeWebhookError(c *gin.Context, status int, reason string) {
	c.JSON(status, gin.H{
		"ok":      false,
		"matched": false,
		"updated": false,
		"reason":  reason,
	})
}
