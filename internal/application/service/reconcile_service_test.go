package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/sangkips/fnb-pos/internal/domain/enum"
	"github.com/sangkips/fnb-pos/pkg/apperror"
	"github.com/sangkips/fnb-pos/pkg/bankhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notification(amount int64, content, txID string) []byte {
	return []byte(fmt.Sprintf(`{"data":{"transferAmount":%d,"description":%q,"reference":%q}}`, amount, content, txID))
}

func TestReconcileCompletesOnce(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	order := f.pendingTransfer(t)

	body := notification(45000, "MBVCB.123 "+*order.TransferContent+" chuyen tien", "FT24065")
	result, err := f.reconcile.Reconcile(ctx, body, http.Header{})
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.True(t, result.Matched)
	assert.True(t, result.Updated)
	assert.Equal(t, order.OrderNumber, result.OrderNumber)
	assert.Equal(t, http.StatusOK, result.StatusCode())

	stored, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCompleted, stored.Status)
	require.NotNil(t, stored.IncomeReceiptCode)
	assert.Equal(t, "PT202403050001", *stored.IncomeReceiptCode)
	require.NotNil(t, stored.BankTransactionID)
	assert.Equal(t, "FT24065", *stored.BankTransactionID)

	again, err := f.reconcile.Reconcile(ctx, body, http.Header{})
	require.NoError(t, err)
	assert.True(t, again.Matched)
	assert.False(t, again.Updated)
	assert.Equal(t, entity.NotificationOutcomeDuplicate, again.Outcome)

	stored, err = f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "PT202403050001", *stored.IncomeReceiptCode)

	var audits []entity.PaymentNotification
	require.NoError(t, f.db.Find(&audits).Error)
	outcomes := make([]string, 0, len(audits))
	for _, a := range audits {
		outcomes = append(outcomes, a.Outcome)
	}
	assert.ElementsMatch(t, []string{entity.NotificationOutcomeUpdated, entity.NotificationOutcomeDuplicate}, outcomes)
}

func TestReconcileAlreadyCompletedWithoutTransactionID(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	order := f.pendingTransfer(t)

	body := []byte(fmt.Sprintf(`{"amount":"45,000","content":"thanh toan %s"}`, order.OrderNumber))
	first, err := f.reconcile.Reconcile(ctx, body, http.Header{})
	require.NoError(t, err)
	assert.True(t, first.Updated)

	second, err := f.reconcile.Reconcile(ctx, body, http.Header{})
	require.NoError(t, err)
	assert.True(t, second.Matched)
	assert.False(t, second.Updated)
	assert.Equal(t, entity.NotificationOutcomeAlreadyCompleted, second.Outcome)
	assert.Equal(t, http.StatusOK, second.StatusCode())
}

func TestReconcileNoMatch(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	order := f.pendingTransfer(t)

	cases := map[string][]byte{
		"wrong amount":  notification(44000, *order.TransferContent, ""),
		"wrong content": notification(45000, "DH00000000", ""),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			result, err := f.reconcile.Reconcile(ctx, body, http.Header{})
			require.NoError(t, err)
			assert.True(t, result.OK)
			assert.False(t, result.Matched)
			assert.False(t, result.Updated)
			assert.Equal(t, http.StatusAccepted, result.StatusCode())
		})
	}

	stored, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusPending, stored.Status)
}

func TestReconcileIgnoresCancelledOrders(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	order := f.pendingTransfer(t)
	_, err := f.orders.CancelOrder(ctx, order.ID)
	require.NoError(t, err)

	result, err := f.reconcile.Reconcile(ctx, notification(45000, order.OrderNumber, "FT1"), http.Header{})
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestReconcileMatchesDiacriticsAndCase(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	content := "Trả tiền bàn 5"
	result, err := f.checkout.Checkout(ctx, &CheckoutInput{
		QuoteInput:      QuoteInput{Lines: []CartLineInput{f.teaLine(1)}},
		PaymentMethod:   enum.PaymentMethodTransfer,
		TransferContent: &content,
	})
	require.NoError(t, err)

	rec, err := f.reconcile.Reconcile(ctx, notification(45000, "NGUYEN VAN A   tra TIEN ban 5", ""), http.Header{})
	require.NoError(t, err)
	assert.True(t, rec.Updated)
	assert.Equal(t, result.Order.ID, *rec.OrderID)
}

func TestReconcileSignature(t *testing.T) {
	f := newFixture(t, "webhook-secret")
	ctx := context.Background()
	body := notification(45000, "DH00000000", "")

	_, err := f.reconcile.Reconcile(ctx, body, http.Header{})
	assert.Equal(t, http.StatusUnauthorized, apperror.GetAppError(err).Code)

	bad := http.Header{}
	bad.Set("X-Signature", bankhook.Sign("other-secret", body))
	_, err = f.reconcile.Reconcile(ctx, body, bad)
	assert.Equal(t, http.StatusUnauthorized, apperror.GetAppError(err).Code)

	good := http.Header{}
	good.Set("X-Webhook-Signature", "sha256="+bankhook.Sign("webhook-secret", body))
	result, err := f.reconcile.Reconcile(ctx, body, good)
	require.NoError(t, err)
	assert.False(t, result.Matched)

	var audits int64
	require.NoError(t, f.db.Model(&entity.PaymentNotification{}).Count(&audits).Error)
	assert.Equal(t, int64(1), audits)
}

func TestReconcileMalformed(t *testing.T) {
	f := newFixture(t, "")

	for _, body := range []string{`not json`, `{"content":"DH1"}`, `{"amount":1000,"content":"  "}`} {
		_, err := f.reconcile.Reconcile(context.Background(), []byte(body), http.Header{})
		assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code, body)
	}
}
