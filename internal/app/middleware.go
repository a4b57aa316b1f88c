package app

import (
	"github.com/yungbote/storefront-backend/internal/http/middleware"
	"github.com/yungbote/storefront-backend/internal/pkg/logger"
)

type Middleware struct {
	AdminAuth *middleware.AdminAuthMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	return Middleware{
		AdminAuth: middleware.NewAdminAuthMiddleware(log, cfg.JWTSecretKey),
	}
}
