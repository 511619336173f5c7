package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/sangkips/fnb-pos/internal/domain/enum"
	"github.com/sangkips/fnb-pos/internal/domain/repository"
	"github.com/sangkips/fnb-pos/pkg/apperror"
	"github.com/sangkips/fnb-pos/pkg/bankhook"
	"github.com/sangkips/fnb-pos/pkg/logger"
	"github.com/sangkips/fnb-pos/pkg/textnorm"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// DefaultLookbackLimit bounds how many recent transfer orders are scanned
const DefaultLookbackLimit = 50

// ReconcileResult is the machine-readable outcome of one bank notification
type ReconcileResult struct {
	OK          bool       `json:"ok"`
	Matched     bool       `json:"matched"`
	Updated     bool       `json:"updated"`
	OrderID     *uuid.UUID `json:"order_id,omitempty"`
	OrderNumber string     `json:"order_number,omitempty"`
	Reason      string     `json:"reason"`
	Outcome     string     `json:"-"`
}

// StatusCode is the HTTP status reported back to the bank aggregator
func (r *ReconcileResult) StatusCode() int {
	if r.Outcome == entity.NotificationOutcomeNoMatch {
		return http.StatusAccepted
	}
	return http.StatusOK
}

// ReconcileService matches bank transfer notifications to pending orders
type ReconcileService struct {
	tx            repository.Transactor
	orderRepo     repository.OrderRepository
	notifications repository.PaymentNotificationRepository
	receipts      *ReceiptIssuer
	secret        string
	lookback      int
	now           func() time.Time
}

// NewReconcileService creates a reconciler. An empty secret accepts unsigned calls.
func NewReconcileService(
	tx repository.Transactor,
	orderRepo repository.OrderRepository,
	notifications repository.PaymentNotificationRepository,
	receipts *ReceiptIssuer,
	secret string,
	lookback int,
) *ReconcileService {
	if lookback <= 0 {
		lookback = DefaultLookbackLimit
	}
	return &ReconcileService{
		tx:            tx,
		orderRepo:     orderRepo,
		notifications: notifications,
		receipts:      receipts,
		secret:        secret,
		lookback:      lookback,
		now:           time.Now,
	}
}

// Reconcile authenticates and parses body, finds the order it pays and
// completes it at most once. Unknown payments are not errors.
func (s *ReconcileService) Reconcile(ctx context.Context, body []byte, header http.Header) (*ReconcileResult, error) {
	if err := bankhook.VerifyRequest(s.secret, body, header); err != nil {
		logger.Log.WithError(err).Warn("Rejected bank notification")
		return nil, apperror.NewAppError(http.StatusUnauthorized, err.Error())
	}

	n, err := bankhook.Parse(body)
	if err != nil {
		logger.Log.WithError(err).Warn("Malformed bank notification")
		return nil, apperror.NewBadRequestError(err.Error())
	}

	result, err := s.match(ctx, n, body)
	s.audit(ctx, n, body, result, err)
	if err != nil {
		logger.Log.WithError(err).WithField("transaction_id", n.TransactionID).Error("Bank notification failed")
		return nil, apperror.NewInternalError(err)
	}

	logger.Log.WithFields(logrus.Fields{
		"matched":        result.Matched,
		"updated":        result.Updated,
		"reason":         result.Reason,
		"order_id":       result.OrderID,
		"transaction_id": n.TransactionID,
	}).Info("Bank notification processed")
	return result, nil
}

func (s *ReconcileService) match(ctx context.Context, n *bankhook.Notification, body []byte) (*ReconcileResult, error) {
	if n.TransactionID != "" {
		processed, err := s.orderRepo.GetByTransactionID(ctx, n.TransactionID)
		if err != nil {
			return nil, err
		}
		if processed != nil {
			return matchedResult(processed, entity.NotificationOutcomeDuplicate, "transaction already processed"), nil
		}
	}

	candidates, err := s.orderRepo.ListTransferCandidates(ctx, s.lookback)
	if err != nil {
		return nil, err
	}
	order := findCandidate(candidates, n)
	if order == nil {
		return &ReconcileResult{
			OK:      true,
			Reason:  "no matching order",
			Outcome: entity.NotificationOutcomeNoMatch,
		}, nil
	}
	if order.Status == enum.OrderStatusCompleted {
		return matchedResult(order, entity.NotificationOutcomeAlreadyCompleted, "order already completed, no update"), nil
	}

	completion := &repository.OrderCompletion{
		PaidAt:         s.now(),
		PaymentMethod:  enum.PaymentMethodTransfer,
		AmountReceived: n.Amount,
		BankPayload:    body,
	}
	if n.TransactionID != "" {
		txID := n.TransactionID
		completion.BankTransactionID = &txID
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		code, err := s.receipts.Issue(ctx, completion.PaidAt)
		if err != nil {
			return err
		}
		completion.ReceiptCode = code
		ok, err := s.orderRepo.CompleteIfPending(ctx, order.ID, completion)
		if err != nil {
			return err
		}
		if !ok {
			return errLostRace
		}
		return nil
	})
	switch {
	case err == nil:
		result := matchedResult(order, entity.NotificationOutcomeUpdated, "order completed")
		result.Updated = true
		return result, nil
	case errors.Is(err, repository.ErrDuplicateKey):
		return matchedResult(order, entity.NotificationOutcomeDuplicate, "transaction already processed"), nil
	case errors.Is(err, errLostRace):
		return matchedResult(order, entity.NotificationOutcomeLostRace, "order is no longer pending, no update"), nil
	}
	return nil, err
}

// findCandidate returns the newest order with the same amount whose transfer
// content or order number appears in the normalized notification content.
func findCandidate(candidates []entity.Order, n *bankhook.Notification) *entity.Order {
	for i := range candidates {
		order := &candidates[i]
		if order.TotalAmount != n.Amount {
			continue
		}
		if order.TransferContent != nil && textnorm.ContainsNormalized(n.Content, *order.TransferContent) {
			return order
		}
		if textnorm.ContainsNormalized(n.Content, order.OrderNumber) {
			return order
		}
	}
	return nil
}

func matchedResult(order *entity.Order, outcome, reason string) *ReconcileResult {
	id := order.ID
	return &ReconcileResult{
		OK:          true,
		Matched:     true,
		OrderID:     &id,
		OrderNumber: order.OrderNumber,
		Reason:      reason,
		Outcome:     outcome,
	}
}

// audit records the notification. A failed write is logged and otherwise ignored.
func (s *ReconcileService) audit(ctx context.Context, n *bankhook.Notification, body []byte, result *ReconcileResult, procErr error) {
	record := &entity.PaymentNotification{
		Amount:     n.Amount,
		Content:    n.Content,
		RawPayload: datatypes.JSON(body),
		Outcome:    entity.NotificationOutcomeError,
	}
	if n.TransactionID != "" {
		txID := n.TransactionID
		record.TransactionID = &txID
	}
	if procErr == nil && result != nil {
		record.Outcome = result.Outcome
		record.OrderID = result.OrderID
	}
	if err := s.notifications.Create(ctx, record); err != nil {
		logger.Log.WithError(err).WithField("transaction_id", n.TransactionID).Warn("Failed to record bank notification")
	}
}
