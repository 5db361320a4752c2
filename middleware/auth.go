package middleware

import (
	"strings"

	"munaybol/permissions"
	"munaybol/response"
	"munaybol/services"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
)

func bearer(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// AuthMiddleware requires a valid access token and, when roles are given, one of them
func AuthMiddleware(tokens *services.TokenService, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearer(c)
		if tokenString == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		userID, userRole, err := tokens.GetUserIDFromToken(tokenString)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		if len(roles) > 0 {
			hasRole := false
			for _, role := range roles {
				if role == userRole {
					hasRole = true
					break
				}
			}
			if !hasRole {
				response.Forbidden(c)
				c.Abort()
				return
			}
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxUserRole, userRole)
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a token is sent. A bad token is
// still rejected; no token means anonymous.
func OptionalAuthMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearer(c)
		if tokenString == "" {
			c.Next()
			return
		}
		userID, userRole, err := tokens.GetUserIDFromToken(tokenString)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxUserRole, userRole)
		c.Next()
	}
}

// Actor returns the caller set by the auth middlewares, anonymous otherwise
func Actor(c *gin.Context) permissions.Actor {
	return permissions.Actor{
		UserID: c.GetUint(ctxUserID),
		Role:   c.GetString(ctxUserRole),
	}
}

// ErrorHandler writes the last error pushed with c.Error when the handler did not answer
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		response.FromError(c, c.Errors.Last().Err)
	}
}
