package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestIDMiddleware は各リクエストに ID を付け、レスポンスヘッダにも返します。
// 受け取った X-Request-ID が UUID として正しければそれを使います。
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestID は RequestIDMiddleware が付けた ID を返します。無ければ空文字列です。
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
