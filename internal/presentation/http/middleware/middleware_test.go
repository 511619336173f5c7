package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/fnb-pos/internal/domain/enum"
	infraRepo "github.com/sangkips/fnb-pos/internal/infrastructure/repository"
	"github.com/sangkips/fnb-pos/internal/testutil"
	"github.com/sangkips/fnb-pos/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareDerivesPermissions(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", time.Hour)
	r := gin.New()
	r.GET("/cancel", AuthMiddleware(jwtManager), RequirePermission(enum.PermissionCancelOrders), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_role"))
	})

	for role, want := range map[enum.Role]int{
		enum.RoleOwner:   http.StatusOK,
		enum.RoleManager: http.StatusOK,
		enum.RoleCashier: http.StatusForbidden,
		"barista":        http.StatusForbidden,
	} {
		token, err := jwtManager.GenerateAccessToken(uuid.New(), "", string(role))
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/cancel", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		assert.Equal(t, want, serve(r, req).Code, role)
	}

	req := httptest.NewRequest(http.MethodGet, "/cancel", nil)
	req.Header.Set("Authorization", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestRateLimiterPerKey(t *testing.T) {
	rl := newRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2, EntryTTL: time.Minute, Key: IPKey})
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(r, req).Code
	}
	assert.Equal(t, http.StatusOK, get("10.0.0.1"))
	assert.Equal(t, http.StatusOK, get("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, get("10.0.0.1"))
	assert.Equal(t, http.StatusOK, get("10.0.0.2"))

	rl.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	rl.cleanup()
	assert.Equal(t, 0, rl.Stats()["active_keys"])
}

func TestRateLimiterFromWindow(t *testing.T) {
	cfg := RateLimiterFromWindow(120, 60, nil)
	assert.Equal(t, 2.0, cfg.RequestsPerSecond)
	assert.Equal(t, 120, cfg.BurstSize)
	assert.NotNil(t, cfg.Key)

	cfg = RateLimiterFromWindow(0, 0, IPKey)
	assert.Equal(t, DefaultRateLimiterConfig().BurstSize, cfg.BurstSize)
}

func TestIdempotencyOnlyStoresSuccess(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := infraRepo.NewIdempotencyRepository(db)
	userID := uuid.New()
	calls := 0

	r := gin.New()
	r.POST("/pay",
		func(c *gin.Context) { c.Set("user_id", userID) },
		Idempotency(IdempotencyConfig{Repo: repo, Required: true}),
		func(c *gin.Context) {
			calls++
			if calls == 1 {
				c.JSON(http.StatusConflict, gin.H{"success": false})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"success": true, "call": calls})
		},
	)

	post := func(key, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/pay", strings.NewReader(body))
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		return serve(r, req)
	}

	assert.Equal(t, http.StatusBadRequest, post("", `{}`).Code)
	assert.Equal(t, 0, calls)

	assert.Equal(t, http.StatusConflict, post("k1", `{"a":1}`).Code)
	created := post("k1", `{"a":1}`)
	assert.Equal(t, http.StatusCreated, created.Code)
	assert.Empty(t, created.Header().Get(IdempotencyReplayedHeader))

	replayed := post("k1", `{"a":1}`)
	assert.Equal(t, http.StatusCreated, replayed.Code)
	assert.Equal(t, "true", replayed.Header().Get(IdempotencyReplayedHeader))
	assert.JSONEq(t, created.Body.String(), replayed.Body.String())
	assert.Equal(t, 2, calls)

	assert.Equal(t, http.StatusUnprocessableEntity, post("k1", `{"a":2}`).Code)
}
