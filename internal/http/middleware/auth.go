package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/minicms-backend/internal/platform/ctxutil"
	"github.com/yungbote/minicms-backend/internal/platform/github"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
)

// ActorResolver names the caller behind the request's access token.
type ActorResolver func(ctx context.Context) (string, error)

type AuthMiddleware struct {
	log          *logger.Logger
	resolveActor ActorResolver
}

// NewAuthMiddleware accepts a nil resolver; writes are then recorded without an actor.
func NewAuthMiddleware(log *logger.Logger, resolveActor ActorResolver) *AuthMiddleware {
	middlewareLogger := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, resolveActor: resolveActor}
}

// AttachAuth forwards a bearer token to the content store. On writes it also
// resolves the actor for edit history; a token GitHub rejects aborts with 401.
func (am *AuthMiddleware) AttachAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			c.Next()
			return
		}
		rd := &ctxutil.RequestData{AccessToken: token}
		ctx := ctxutil.WithRequestData(c.Request.Context(), rd)
		c.Request = c.Request.WithContext(ctx)

		if am.resolveActor != nil && isWrite(c.Request.Method) {
			actor, err := am.resolveActor(ctx)
			switch {
			case err == nil:
				rd.Actor = actor
			case github.StatusCode(err) == http.StatusUnauthorized:
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": gin.H{"message": "invalid access token", "code": "unauthorized"},
				})
				return
			default:
				am.log.Warn("actor lookup failed, continuing without actor", "error", err)
			}
		}
		c.Next()
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
