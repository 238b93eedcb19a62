package app

import (
	httpH "github.com/yungbote/minicms-backend/internal/http/handlers"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
	"github.com/yungbote/minicms-backend/internal/realtime"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Account  *httpH.AccountHandler
	Content  *httpH.ContentHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, hub *realtime.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(),
		Account:  httpH.NewAccountHandler(log, serviceset.Account),
		Content:  httpH.NewContentHandler(log, serviceset.Content),
		Realtime: httpH.NewRealtimeHandler(log, hub),
	}
}
