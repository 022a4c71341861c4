package middleware

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID carries the id between the dashboard, this API and its logs.
const HeaderRequestID = "X-Request-Id"

const maxRequestIDLength = 128

type ctxKey struct{}

// RequestID tags every request with an id. An incoming X-Request-Id is reused when it is
// short and made of token characters only, so it can be logged verbatim.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}

		c.Set("request_id", rid)
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), rid))
		c.Header(HeaderRequestID, rid)

		start := time.Now()
		c.Next()

		log.Printf("[req] id=%s %s %s -> %d (%dB, %s) viewer=%s",
			rid, c.Request.Method, c.FullPath(), c.Writer.Status(), c.Writer.Size(),
			time.Since(start).Round(time.Microsecond), c.GetString("firebase_uid"))
	}
}

// WithRequestID returns ctx carrying rid.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, rid)
}

// RequestIDFrom returns the id stored by RequestID, or "" outside a request.
func RequestIDFrom(ctx context.Context) string {
	rid, _ := ctx.Value(ctxKey{}).(string)
	return rid
}

func validRequestID(s string) bool {
	if s == "" || len(s) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.', ch == ':':
		default:
			return false
		}
	}
	return true
}
