package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/sangkips/fnb-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/fnb-pos/internal/domain/repository"
	"github.com/sangkips/fnb-pos/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/DATA-DOG/go-sqlmock.v1"
)

const guardedUpdateSQL = `UPDATE "orders" SET .+ WHERE .*id = .+ AND status = .+`

func TestCompleteIfPendingLostRace(t *testing.T) {
	sqlDB, gormDB, mock := testutil.DbMock(t)
	defer sqlDB.Close()
	repo := NewOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(guardedUpdateSQL).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := repo.CompleteIfPending(context.Background(), uuid.New(), &domainRepo.OrderCompletion{
		ReceiptCode:   "PT202401010001",
		PaidAt:        time.Now(),
		PaymentMethod: enum.PaymentMethodTransfer,
	})

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCancelIfPendingWins(t *testing.T) {
	sqlDB, gormDB, mock := testutil.DbMock(t)
	defer sqlDB.Close()
	repo := NewOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(guardedUpdateSQL).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := repo.CancelIfPending(context.Background(), uuid.New(), time.Now())

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func newTransferOrder(number string, total int64) *entity.Order {
	content := number
	return &entity.Order{
		OrderNumber:     number,
		PaymentMethod:   enum.PaymentMethodTransfer,
		Status:          enum.OrderStatusPending,
		TotalAmount:     total,
		Subtotal:        total,
		TransferContent: &content,
		Items: []entity.OrderItem{
			{ProductName: "Trà đào", Qty: 1, UnitPrice: total, Subtotal: total, ClassificationLabels: entity.Labels{"Đường: 70%"}},
		},
	}
}

func TestOrderLifecycleOnSQLite(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := newTransferOrder("DH0000AAAA", 45000)
	require.NoError(t, repo.Create(ctx, order))

	loaded, err := repo.GetWithItems(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, entity.Labels{"Đường: 70%"}, loaded.Items[0].ClassificationLabels)

	txID := "FT123"
	completion := &domainRepo.OrderCompletion{
		ReceiptCode:       "PT202401010001",
		PaidAt:            time.Now(),
		PaymentMethod:     enum.PaymentMethodTransfer,
		AmountReceived:    45000,
		BankTransactionID: &txID,
		BankPayload:       []byte(`{"amount":45000}`),
	}
	ok, err := repo.CompleteIfPending(ctx, order.ID, completion)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.CompleteIfPending(ctx, order.ID, completion)
	require.NoError(t, err)
	assert.False(t, ok, "second completion must be a no-op")

	ok, err = repo.CancelIfPending(ctx, order.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "completed order cannot be cancelled")

	byTx, err := repo.GetByTransactionID(ctx, txID)
	require.NoError(t, err)
	require.NotNil(t, byTx)
	assert.Equal(t, enum.OrderStatusCompleted, byTx.Status)
	assert.Equal(t, "PT202401010001", *byTx.IncomeReceiptCode)
}

func TestBankTransactionIDIsUnique(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	first := newTransferOrder("DH0000BBBB", 10000)
	second := newTransferOrder("DH0000CCCC", 10000)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	txID := "FT999"
	ok, err := repo.CompleteIfPending(ctx, first.ID, &domainRepo.OrderCompletion{
		ReceiptCode: "PT202401010001", PaidAt: time.Now(), PaymentMethod: enum.PaymentMethodTransfer, BankTransactionID: &txID,
	})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = repo.CompleteIfPending(ctx, second.ID, &domainRepo.OrderCompletion{
		ReceiptCode: "PT202401010002", PaidAt: time.Now(), PaymentMethod: enum.PaymentMethodTransfer, BankTransactionID: &txID,
	})
	assert.ErrorIs(t, err, domainRepo.ErrDuplicateKey)
}

func TestListTransferCandidates(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, number := range []string{"DH00000001", "DH00000002", "DH00000003"} {
		order := newTransferOrder(number, 20000)
		order.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, order))
	}
	cancelled := newTransferOrder("DH00000004", 20000)
	require.NoError(t, repo.Create(ctx, cancelled))
	_, err := repo.CancelIfPending(ctx, cancelled.ID, time.Now())
	require.NoError(t, err)

	cash := &entity.Order{OrderNumber: "DH00000005", PaymentMethod: enum.PaymentMethodCash, Status: enum.OrderStatusPending, TotalAmount: 20000}
	require.NoError(t, repo.Create(ctx, cash))

	orders, err := repo.ListTransferCandidates(ctx, 2)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "DH00000003", orders[0].OrderNumber)
	assert.Equal(t, "DH00000002", orders[1].OrderNumber)
}

func TestListFilters(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := newTransferOrder("DH0000DDDD", 30000)
	order.CustomerName = "Nguyen Van A"
	require.NoError(t, repo.Create(ctx, order))
	require.NoError(t, repo.Create(ctx, newTransferOrder("DH0000EEEE", 30000)))

	status := enum.OrderStatusPending
	orders, total, err := repo.List(ctx, &domainRepo.OrderFilterParams{
		Pagination: &paginationDefaults,
		Search:     "nguyen",
		Status:     &status,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, "DH0000DDDD", orders[0].OrderNumber)
}
