package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/storefront-backend/internal/pkg/logger"
)

const testSecret = "test-secret"

func newGuardedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	am := NewAdminAuthMiddleware(log, testSecret)

	router := gin.New()
	router.GET("/admin", am.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString("admin_subject")})
	})
	return router
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRequireAdmin(t *testing.T) {
	router := newGuardedRouter(t)

	do := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := do(""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d, want 401", w.Code)
	}
	if w := do("Bearer not-a-token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status %d, want 401", w.Code)
	}

	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "admin-1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})
	if w := do("Bearer " + wrongKey); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: status %d, want 401", w.Code)
	}

	expired := signToken(t, testSecret, jwt.MapClaims{
		"sub": "admin-1", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix(),
	})
	if w := do("Bearer " + expired); w.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: status %d, want 401", w.Code)
	}

	shopper := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-1", "role": "customer", "exp": time.Now().Add(time.Hour).Unix(),
	})
	if w := do("Bearer " + shopper); w.Code != http.StatusForbidden {
		t.Fatalf("non-admin role: status %d, want 403", w.Code)
	}

	admin := signToken(t, testSecret, jwt.MapClaims{
		"sub": "admin-1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})
	w := do("Bearer " + admin)
	if w.Code != http.StatusOK {
		t.Fatalf("admin token: status %d, want 200", w.Code)
	}
	if body := w.Body.String(); body != `{"subject":"admin-1"}` {
		t.Fatalf("body = %s", body)
	}
}
