package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NixoNetwork/main/internal/session"
)

const claimsContextKey = "sessionClaims"

// ClaimsFrom extracts the verified session claims attached by
// RequireAuth.
func ClaimsFrom(c *gin.Context) (*session.Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*session.Claims)
	return claims, ok
}

type AuthMiddleware struct {
	Issuer *session.Issuer
}

func NewAuthMiddleware(issuer *session.Issuer) *AuthMiddleware {
	return &AuthMiddleware{Issuer: issuer}
}

// RequireAuth verifies the Authorization bearer token. The signature
// is trusted exclusively; no store lookup happens here.
func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "No token provided",
				"success": false,
			})
			return
		}

		claims, err := a.Issuer.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid token",
				"success": false,
			})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}
