package app

import (
	"context"

	httpMW "github.com/yungbote/minicms-backend/internal/http/middleware"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, clients Clients) Middleware {
	var resolve httpMW.ActorResolver
	if gh := clients.GitHub; gh != nil {
		resolve = func(ctx context.Context) (string, error) {
			u, err := gh.CurrentUser(ctx)
			if err != nil {
				return "", err
			}
			return u.Login, nil
		}
	}
	return Middleware{Auth: httpMW.NewAuthMiddleware(log, resolve)}
}
