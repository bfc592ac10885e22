package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-tk-api/internal/models"
	appErrors "github.com/noah-isme/absensi-tk-api/pkg/errors"
	"github.com/noah-isme/absensi-tk-api/pkg/response"
)

// ContextOperatorKey is the gin context key storing the operator's JWT claims.
const ContextOperatorKey = "operator"

type tokenValidator interface {
	Enabled() bool
	ValidateToken(token string) (*models.JWTClaims, error)
}

// Operator requires a valid bearer token on the route. It lets every request through when auth is disabled.
func Operator(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth == nil || !auth.Enabled() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			return
		}

		claims, err := auth.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Set(ContextOperatorKey, claims)
		c.Next()
	}
}

// OperatorFromContext returns the claims set by Operator, if any.
func OperatorFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(ContextOperatorKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}
