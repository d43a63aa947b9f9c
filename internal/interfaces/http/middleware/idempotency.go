package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader is the client-supplied key for retry-safe requests
const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency rejects replays of mutating requests that carry an
// Idempotency-Key header. Requests without the header pass through
// untouched, as do reads. Store failures fail open: a broken cache
// must not take down receiving.
func Idempotency(store shared.IdempotencyStore, cfg shared.IdempotencyConfig, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || store == nil {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		storeKey := c.Request.Method + ":" + c.FullPath() + ":" + key
		processed, err := store.IsProcessed(c.Request.Context(), storeKey)
		if err != nil {
			if log != nil {
				log.Warn("idempotency store unavailable, allowing request",
					zap.String("key", key),
					zap.Error(err),
				)
			}
			c.Next()
			return
		}

		if processed {
			requestID := c.GetString("request_id")
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponse(
				string(shared.KindConflict), "DUPLICATE_REQUEST",
				"Request with this idempotency key was already processed", "", requestID))
			return
		}

		c.Next()

		// Only a completed request consumes the key. A failed attempt must
		// stay retryable with the same key.
		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			if _, err := store.MarkProcessed(c.Request.Context(), storeKey, cfg.TTL); err != nil && log != nil {
				log.Warn("failed to record idempotency key",
					zap.String("key", key),
					zap.Error(err),
				)
			}
		}
	}
}
