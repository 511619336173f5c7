package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/sangkips/fnb-pos/internal/domain/pricing"
	infraRepo "github.com/sangkips/fnb-pos/internal/infrastructure/repository"
	"github.com/sangkips/fnb-pos/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	ict       = time.FixedZone("ICT", 7*60*60)
	fixedTime = time.Date(2024, 3, 5, 10, 0, 0, 0, ict)
)

type fixture struct {
	db        *gorm.DB
	checkout  *CheckoutService
	orders    *OrderService
	reconcile *ReconcileService
	customers *CustomerService

	peachTea entity.Product // 45000, no classifications
	coffee   entity.Product // 29000, Size required, Topping multi-select
	sizeS    uuid.UUID
	sizeL    uuid.UUID
	pearl    uuid.UUID
	jelly    uuid.UUID
}

func newFixture(t *testing.T, webhookSecret string) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)

	tx := infraRepo.NewTransactor(db)
	orderRepo := infraRepo.NewOrderRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	productRepo := infraRepo.NewProductRepository(db)
	notificationRepo := infraRepo.NewPaymentNotificationRepository(db)
	receipts := NewReceiptIssuer(infraRepo.NewReceiptSequenceRepository(db), "PT", ict)
	resolver := pricing.NewResolver(nil, pricing.DefaultLoyaltyConfig())

	f := &fixture{
		db:        db,
		checkout:  NewCheckoutService(tx, orderRepo, productRepo, customerRepo, resolver, receipts),
		orders:    NewOrderService(tx, orderRepo, customerRepo, receipts, entity.ReceiptHeader{StoreName: "Quán Nhỏ"}),
		reconcile: NewReconcileService(tx, orderRepo, notificationRepo, receipts, webhookSecret, 0),
		customers: NewCustomerService(customerRepo),
	}
	clock := func() time.Time { return fixedTime }
	f.checkout.now = clock
	f.orders.now = clock
	f.reconcile.now = clock

	f.peachTea = entity.Product{Name: "Trà đào", SellingPrice: 45000, Active: true}
	require.NoError(t, db.Create(&f.peachTea).Error)

	f.coffee = entity.Product{
		Name: "Cà phê sữa", SellingPrice: 29000, Active: true,
		Groups: []entity.ClassificationGroup{
			{Name: "Size", Required: true, SortOrder: 1, Options: []entity.ClassificationOption{
				{Name: "S", SortOrder: 1},
				{Name: "L", Surcharge: 10000, SortOrder: 2},
			}},
			{Name: "Topping", MultiSelect: true, SortOrder: 2, Options: []entity.ClassificationOption{
				{Name: "Trân châu", Surcharge: 5000, SortOrder: 1},
				{Name: "Thạch", Surcharge: 5000, SortOrder: 2},
			}},
		},
	}
	require.NoError(t, db.Create(&f.coffee).Error)
	f.sizeS = f.coffee.Groups[0].Options[0].ID
	f.sizeL = f.coffee.Groups[0].Options[1].ID
	f.pearl = f.coffee.Groups[1].Options[0].ID
	f.jelly = f.coffee.Groups[1].Options[1].ID

	return f
}

func (f *fixture) teaLine(qty int) CartLineInput {
	return CartLineInput{ProductID: f.peachTea.ID, Qty: qty}
}

func int64Ptr(v int64) *int64 {
	return &v
}
