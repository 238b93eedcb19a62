package app

import (
	"github.com/gin-gonic/gin"

	server "github.com/yungbote/minicms-backend/internal/http"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
)

const serviceName = "minicms-backend"

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		AllowedOrigins:  cfg.AllowedOrigins,
		AuthMiddleware:  middleware.Auth,
		HealthHandler:   handlers.Health,
		AccountHandler:  handlers.Account,
		ContentHandler:  handlers.Content,
		RealtimeHandler: handlers.Realtime,
	})
}
