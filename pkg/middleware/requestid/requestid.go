package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header is the request/response header carrying the request ID.
const Header = "X-Request-ID"

const ctxKey = "request_id"

// Middleware tags every request with an ID. A caller-supplied X-Request-ID is
// kept so IDs survive proxy hops; otherwise a fresh UUID is issued. The ID is
// echoed on the response and stored in the Gin context for log correlation.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxKey, id)
		c.Writer.Header().Set(Header, id)
		c.Next()
	}
}

// Value returns the request ID for the current request, or "" when the
// middleware did not run.
func Value(c *gin.Context) string {
	id, _ := c.Value(ctxKey).(string)
	return id
}
