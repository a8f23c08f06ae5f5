package middleware

import (
	"github.com/gin-gonic/gin"
)

const idempotencyKeyContextKey = "idempotency_key"

// IdempotencyMiddleware lifts the Idempotency-Key header into the request
// context so handlers can pass it down to the service layer.
func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		idempotencyKey := c.GetHeader("Idempotency-Key")
		c.Set(idempotencyKeyContextKey, idempotencyKey)
		c.Next()
	}
}

// IdempotencyKeyFromContext returns the key set by IdempotencyMiddleware,
// or the empty string when the client sent none.
func IdempotencyKeyFromContext(c *gin.Context) string {
	return c.GetString(idempotencyKeyContextKey)
}
