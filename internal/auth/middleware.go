package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var unauthorized = gin.H{"message": "Authentication required"}

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, jwtManager)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized)
			return
		}

		SetIdentity(c, claims.Subject, claims.Username)
		c.Next()
	}
}

// OptionalAuth records the caller when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, jwtManager); ok {
			SetIdentity(c, claims.Subject, claims.Username)
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context, jwtManager *JWTManager) (*Claims, bool) {
	scheme, token, found := strings.Cut(c.GetHeader("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return nil, false
	}

	claims, err := jwtManager.ParseAndValidate(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}
