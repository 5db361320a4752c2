package middleware

import (
	"time"

	"munaybol/services/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		format := "%s %s %d %s user=%d session=%s"
		args := []interface{}{c.Request.Method, c.Request.URL.Path, status, time.Since(start), c.GetUint(ctxUserID), SessionID(c)}
		if status >= 500 {
			if len(c.Errors) > 0 {
				log.Error(format+" err=%v", append(args, c.Errors.Last().Err)...)
				return
			}
			log.Error(format, args...)
			return
		}
		log.Info(format, args...)
	}
}
