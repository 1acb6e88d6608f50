package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/diarsplit/auth"
	apperrors "github.com/kbukum/diarsplit/errors"
)

// TokenParser verifies a bearer token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Auth returns a Gin middleware that requires a valid Bearer token. Verified
// claims are stored in the request context and under the "subject" key.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, apperrors.Unauthorized("Authorization header required."))
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortWithError(c, apperrors.Unauthorized("Invalid authorization header format."))
			return
		}

		claims, err := parser.Parse(strings.TrimSpace(token))
		if err != nil {
			abortWithError(c, apperrors.Wrap(err))
			return
		}
		c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), claims))
		c.Set("subject", claims.Subject)
		c.Next()
	}
}
