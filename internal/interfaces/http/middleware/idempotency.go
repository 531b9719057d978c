package middleware

import (
	"net/http"
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyHeaderKey is the request header carrying the client idempotency key
const IdempotencyHeaderKey = "Idempotency-Key"

// MaxIdempotencyKeyLength bounds the accepted key size
const MaxIdempotencyKeyLength = 128

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	// Store records processed keys. Required.
	Store shared.IdempotencyStore
	// TTL is how long a processed key blocks replays
	TTL time.Duration
	// Logger for middleware logging
	Logger *zap.Logger
}

// Idempotency returns a middleware that rejects replayed mutations.
//
// Clients send an Idempotency-Key header on POST requests that must not be
// applied twice (allocations, credit note applications). The first request
// claims the key; a retry with the same key within the TTL gets 409 so the
// caller knows the original mutation already went through. Requests without
// the header pass straight through.
//
// Keys are scoped per company and route so the same client key on different
// endpoints does not collide.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeaderKey)
		if key == "" {
			c.Next()
			return
		}

		if len(key) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeBadRequest,
				"Idempotency-Key header exceeds maximum length",
			))
			return
		}

		scopedKey := c.GetString(CompanyIDKey) + ":" + c.Request.Method + ":" + c.FullPath() + ":" + key

		fresh, err := cfg.Store.MarkProcessed(c.Request.Context(), scopedKey, ttl)
		if err != nil {
			// The store being down must not block mutations; log and continue.
			if cfg.Logger != nil {
				cfg.Logger.Warn("Idempotency store unavailable, processing without replay protection",
					zap.Error(err),
				)
			}
			c.Next()
			return
		}

		if !fresh {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponse(
				dto.ErrCodeConflict,
				"Request with this idempotency key was already processed",
			))
			return
		}

		c.Next()
	}
}
