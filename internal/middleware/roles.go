package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/response"
)

// RequireMentor allows only users holding the mentor role.
func RequireMentor() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !claims.IsMentor {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "mentor role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireMentee allows only users holding the mentee role.
func RequireMentee() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !claims.IsMentee {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "mentee role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
