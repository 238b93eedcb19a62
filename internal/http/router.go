package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/minicms-backend/internal/http/handlers"
	httpMW "github.com/yungbote/minicms-backend/internal/http/middleware"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	AccountHandler  *httpH.AccountHandler
	ContentHandler  *httpH.ContentHandler
	RealtimeHandler *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	if cfg.AuthMiddleware != nil {
		r.Use(cfg.AuthMiddleware.AttachAuth())
	}
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api/v1")
	{
		// Account
		if cfg.AccountHandler != nil {
			api.GET("/me", cfg.AccountHandler.GetMe)
			api.GET("/repo-access", cfg.AccountHandler.GetRepoAccess)
		}

		// Collections
		if cfg.ContentHandler != nil {
			api.GET("/collections/:collection_id", cfg.ContentHandler.GetCollection)
			api.GET("/collections/:collection_id/:item_id", cfg.ContentHandler.GetRecord)
			api.GET("/collections/:collection_id/:item_id/history", cfg.ContentHandler.ListHistory)
			api.GET("/collections/:collection_id/:item_id/groups/*path", cfg.ContentHandler.GetGroupItem)

			api.PUT("/collections/:collection_id/:item_id", cfg.ContentHandler.UpdateFields)
			api.PUT("/collections/:collection_id/:item_id/groups/*path", cfg.ContentHandler.UpdateGroupItem)
			api.POST("/collections/:collection_id/:item_id/groups/:field_id", cfg.ContentHandler.AppendGroupItem)
		}

		// Record change stream (SSE)
		if cfg.RealtimeHandler != nil {
			api.GET("/events/:collection_id", cfg.RealtimeHandler.StreamCollection)
		}
	}

	return r
}
