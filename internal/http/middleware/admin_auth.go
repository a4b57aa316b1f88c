package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/storefront-backend/internal/pkg/logger"
)

// AdminAuthMiddleware guards the admin stock routes. Token issuance lives in
// the auth collaborator; this only verifies the bearer token and requires an
// admin role claim.
type AdminAuthMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewAdminAuthMiddleware(log *logger.Logger, jwtSecretKey string) *AdminAuthMiddleware {
	middlewareLog := log.With("Middleware", "AdminAuthMiddleware")
	return &AdminAuthMiddleware{log: middlewareLog, secret: []byte(jwtSecretKey)}
}

func (am *AdminAuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return am.secret, nil
		})
		if err != nil || !token.Valid {
			am.log.Debug("Admin token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}

		role, _ := claims["role"].(string)
		if role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "forbidden", "code": "forbidden"},
			})
			return
		}

		if subject, ok := claims["sub"].(string); ok {
			c.Set("admin_subject", subject)
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
