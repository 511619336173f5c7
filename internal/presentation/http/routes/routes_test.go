package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/application/service"
	"github.com/sangkips/fnb-pos/internal/config"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/sangkips/fnb-pos/internal/domain/enum"
	"github.com/sangkips/fnb-pos/internal/domain/pricing"
	infraRepo "github.com/sangkips/fnb-pos/internal/infrastructure/repository"
	"github.com/sangkips/fnb-pos/internal/presentation/http/handler"
	"github.com/sangkips/fnb-pos/internal/presentation/http/middleware"
	"github.com/sangkips/fnb-pos/internal/presentation/http/routes"
	"github.com/sangkips/fnb-pos/internal/testutil"
	"github.com/sangkips/fnb-pos/pkg/apperror"
	"github.com/sangkips/fnb-pos/pkg/bankhook"
	"github.com/sangkips/fnb-pos/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const webhookSecret = "s3cret"

var ict = time.FixedZone("ICT", 7*60*60)

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Errors  []apperror.FieldError `json:"errors"`
}

type server struct {
	db      *gorm.DB
	router  *gin.Engine
	jwt     *utils.JWTManager
	tea     entity.Product
	owner   string
	cashier string
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewSQLiteDB(t)

	tx := infraRepo.NewTransactor(db)
	orderRepo := infraRepo.NewOrderRepository(db)
	productRepo := infraRepo.NewProductRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	receipts := service.NewReceiptIssuer(infraRepo.NewReceiptSequenceRepository(db), "PT", ict)
	resolver := pricing.NewResolver(nil, pricing.DefaultLoyaltyConfig())

	handlers := &routes.Handlers{
		Checkout: handler.NewCheckoutHandler(service.NewCheckoutService(tx, orderRepo, productRepo, customerRepo, resolver, receipts)),
		Order: handler.NewOrderHandler(
			service.NewOrderService(tx, orderRepo, customerRepo, receipts, entity.ReceiptHeader{StoreName: "Quán Nhỏ"}),
			ict,
		),
		Customer: handler.NewCustomerHandler(service.NewCustomerService(customerRepo)),
		Product:  handler.NewProductHandler(service.NewProductService(productRepo)),
		Webhook: handler.NewWebhookHandler(
			service.NewReconcileService(tx, orderRepo, infraRepo.NewPaymentNotificationRepository(db), receipts, webhookSecret, 0),
			1024,
		),
	}

	s := &server{db: db, jwt: utils.NewJWTManager("jwt-secret", time.Hour)}
	s.router = routes.Setup(handlers, &routes.Deps{
		JWTManager:      s.jwt,
		Cfg:             &config.Config{App: config.AppConfig{Name: "fnb-pos"}},
		IdempotencyRepo: infraRepo.NewIdempotencyRepository(db),
	})

	s.tea = entity.Product{Name: "Trà đào", SellingPrice: 45000, Active: true}
	require.NoError(t, db.Create(&s.tea).Error)

	var err error
	s.owner, err = s.jwt.GenerateAccessToken(uuid.New(), "owner@quan.vn", string(enum.RoleOwner))
	require.NoError(t, err)
	s.cashier, err = s.jwt.GenerateAccessToken(uuid.New(), "cashier@quan.vn", string(enum.RoleCashier))
	require.NoError(t, err)
	return s
}

func (s *server) do(method, path, token string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *server) webhook(body []byte) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, "/api/v1/webhooks/bank", "", body, map[string]string{
		"X-Signature": "sha256=" + bankhook.Sign(webhookSecret, body),
	})
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if into != nil {
		require.NoError(t, json.Unmarshal(env.Data, into))
	}
	return env
}

func (s *server) transferCheckout(t *testing.T) entity.Order {
	t.Helper()
	body := []byte(fmt.Sprintf(`{"items":[{"product_id":%q,"qty":1}],"payment_method":"transfer"}`, s.tea.ID))
	w := s.do(http.MethodPost, "/api/v1/checkout", s.cashier, body, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var result struct {
		Order entity.Order `json:"order"`
	}
	decode(t, w, &result)
	require.Equal(t, enum.OrderStatusPending, result.Order.Status)
	return result.Order
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/health", "", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAuthRequired(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/api/v1/orders", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/orders", "not-a-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/orders", s.cashier, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCashierCannotCancel(t *testing.T) {
	s := newServer(t)
	order := s.transferCheckout(t)

	w := s.do(http.MethodPost, "/api/v1/orders/"+order.ID.String()+"/cancel", s.cashier, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/v1/orders/"+order.ID.String()+"/cancel", s.owner, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cancelled entity.Order
	decode(t, w, &cancelled)
	assert.Equal(t, enum.OrderStatusCancelled, cancelled.Status)

	w = s.do(http.MethodPost, "/api/v1/orders/"+order.ID.String()+"/cancel", s.owner, nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCheckoutIdempotentReplay(t *testing.T) {
	s := newServer(t)
	body := []byte(fmt.Sprintf(`{"items":[{"product_id":%q,"qty":2}],"payment_method":"cash","amount_received":"100.000"}`, s.tea.ID))
	headers := map[string]string{middleware.IdempotencyKeyHeader: "till-1-0001"}

	first := s.do(http.MethodPost, "/api/v1/checkout", s.cashier, body, headers)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := s.do(http.MethodPost, "/api/v1/checkout", s.cashier, body, headers)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(middleware.IdempotencyReplayedHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	var count int64
	require.NoError(t, s.db.Model(&entity.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	other := []byte(fmt.Sprintf(`{"items":[{"product_id":%q,"qty":3}],"payment_method":"cash","amount_received":200000}`, s.tea.ID))
	w := s.do(http.MethodPost, "/api/v1/checkout", s.cashier, other, headers)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCheckoutValidation(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/v1/checkout", s.cashier, []byte(`{"items":[],"payment_method":"cash"}`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := []byte(fmt.Sprintf(`{"items":[{"product_id":%q,"qty":1}],"payment_method":"card"}`, s.tea.ID))
	w = s.do(http.MethodPost, "/api/v1/checkout", s.cashier, body, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w, nil)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, "payment_method", env.Errors[0].Field)
}

func TestQuote(t *testing.T) {
	s := newServer(t)
	body := []byte(fmt.Sprintf(`{"items":[{"product_id":%q,"qty":2}],"discount_code":"giam10"}`, s.tea.ID))
	w := s.do(http.MethodPost, "/api/v1/checkout/quote", s.cashier, body, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Quote pricing.Quote `json:"quote"`
	}
	decode(t, w, &result)
	assert.Equal(t, int64(90000), result.Quote.CartTotal)
	assert.Equal(t, int64(81000), result.Quote.FinalAmount)
}

func TestWebhookCompletesTransferOrder(t *testing.T) {
	s := newServer(t)
	order := s.transferCheckout(t)

	body := []byte(fmt.Sprintf(`{"data":{"amount":45000,"addInfo":"CT %s","transactionId":"FT001"}}`, order.OrderNumber))
	w := s.webhook(body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result service.ReconcileResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Matched)
	assert.True(t, result.Updated)

	w = s.webhook(body)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Matched)
	assert.False(t, result.Updated)

	w = s.do(http.MethodGet, "/api/v1/orders/"+order.ID.String()+"/receipt", s.cashier, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var receipt entity.Receipt
	decode(t, w, &receipt)
	assert.Regexp(t, `^PT\d{8}0001$`, receipt.ReceiptCode)
	assert.Equal(t, int64(45000), receipt.Total)

	w = s.do(http.MethodGet, "/api/v1/orders/"+order.ID.String()+"/receipt?format=escpos", s.cashier, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), receipt.ReceiptCode)
}

func TestWebhookResponses(t *testing.T) {
	s := newServer(t)

	unsigned := []byte(`{"amount":45000,"content":"x"}`)
	w := s.do(http.MethodPost, "/api/v1/webhooks/bank", "", unsigned, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"ok":false,"matched":false,"updated":false,"reason":"missing webhook signature"}`, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/webhooks/bank", "", unsigned, map[string]string{"Signature": "deadbeef"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.webhook([]byte(`{"content":"no amount"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.webhook([]byte(`{"amount":12345,"content":"somebody else"}`))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"matched":false`)

	w = s.webhook(bytes.Repeat([]byte("a"), 2048))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = s.do(http.MethodGet, "/api/v1/webhooks/bank", "", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestWebhookPreflight(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodOptions, "/api/v1/webhooks/bank", "", nil, map[string]string{
		"Origin":                         "https://dashboard.aggregator.example",
		"Access-Control-Request-Method":  "POST",
		"Access-Control-Request-Headers": "X-Signature",
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestOrderListFilters(t *testing.T) {
	s := newServer(t)
	s.transferCheckout(t)

	w := s.do(http.MethodGet, "/api/v1/orders?status=pending&payment_method=transfer", s.cashier, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var page struct {
		Items []entity.Order `json:"items"`
	}
	decode(t, w, &page)
	assert.Len(t, page.Items, 1)

	now := time.Now().In(ict)
	from := now.AddDate(0, 0, -1).Format("2006-01-02")
	to := now.AddDate(0, 0, 1).Format("2006-01-02")
	w = s.do(http.MethodGet, "/api/v1/orders?start_date="+from+"&end_date="+to, s.cashier, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	assert.Len(t, page.Items, 1)

	w = s.do(http.MethodGet, "/api/v1/orders?end_date="+now.AddDate(0, 0, -2).Format("2006-01-02"), s.cashier, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	assert.Empty(t, page.Items)

	w = s.do(http.MethodGet, "/api/v1/orders?status=paid", s.cashier, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w, nil)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "status", env.Errors[0].Field)
}

func TestProductsAndCustomerLookup(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/api/v1/products", s.cashier, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []entity.Product
	decode(t, w, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "Trà đào", products[0].Name)

	w = s.do(http.MethodGet, "/api/v1/customers/lookup?phone=0901234567", s.cashier, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/customers/lookup", s.cashier, nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
