package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxSessionID = "sessionId"

// SessionMiddleware reads X-Session-ID or mints one; chat uses it to continue
// anonymous conversations
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("X-Session-ID")
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.NewString()
		}
		c.Set(ctxSessionID, sessionID)
		c.Writer.Header().Set("X-Session-ID", sessionID)
		c.Next()
	}
}

func SessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}
