package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/cache"
)

func newIdempotencyRouter(t *testing.T) (*gin.Engine, *cache.InMemoryIdempotencyStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	router := gin.New()
	router.Use(Idempotency(store, shared.DefaultIdempotencyConfig(), nil))
	router.POST("/receipts", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"created": true})
	})
	router.GET("/receipts", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, store
}

func postWithKey(router *gin.Engine, key string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/receipts", nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency_FirstRequestPasses(t *testing.T) {
	router, _ := newIdempotencyRouter(t)

	w := postWithKey(router, "key-1")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestIdempotency_ReplayRejected(t *testing.T) {
	router, _ := newIdempotencyRouter(t)

	first := postWithKey(router, "key-2")
	assert.Equal(t, http.StatusCreated, first.Code)

	replay := postWithKey(router, "key-2")
	assert.Equal(t, http.StatusConflict, replay.Code)
	assert.Contains(t, replay.Body.String(), "DUPLICATE_REQUEST")
}

func TestIdempotency_FailedRequestStaysRetryable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	calls := 0
	router := gin.New()
	router.Use(Idempotency(store, shared.DefaultIdempotencyConfig(), nil))
	router.POST("/receipts", func(c *gin.Context) {
		calls++
		if calls == 1 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ledger unavailable"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"created": true})
	})

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/receipts", nil)
		req.Header.Set(IdempotencyKeyHeader, "key-retry")
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusInternalServerError, send().Code)

	// The failure must not consume the key
	retry := send()
	assert.Equal(t, http.StatusCreated, retry.Code)
	assert.Equal(t, 2, calls)

	// The successful attempt does
	replay := send()
	assert.Equal(t, http.StatusConflict, replay.Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotency_DistinctKeysIndependent(t *testing.T) {
	router, _ := newIdempotencyRouter(t)

	assert.Equal(t, http.StatusCreated, postWithKey(router, "key-a").Code)
	assert.Equal(t, http.StatusCreated, postWithKey(router, "key-b").Code)
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	router, _ := newIdempotencyRouter(t)

	assert.Equal(t, http.StatusCreated, postWithKey(router, "").Code)
	assert.Equal(t, http.StatusCreated, postWithKey(router, "").Code)
}

func TestIdempotency_ReadsNeverChecked(t *testing.T) {
	router, _ := newIdempotencyRouter(t)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/receipts", nil)
		req.Header.Set(IdempotencyKeyHeader, "key-3")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
