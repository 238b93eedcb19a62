package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/minicms-backend/internal/http/response"
	"github.com/yungbote/minicms-backend/internal/platform/ctxutil"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
	"github.com/yungbote/minicms-backend/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.Hub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{
		log: log.With("handler", "RealtimeHandler"),
		hub: hub,
	}
}

// GET /api/v1/events/:collection_id
func (h *RealtimeHandler) StreamCollection(c *gin.Context) {
	collectionID := strings.TrimSpace(c.Param("collection_id"))
	if collectionID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("collection id required"))
		return
	}

	client := h.hub.NewClient(ctxutil.Actor(c.Request.Context()))
	h.hub.Subscribe(client, collectionID)
	defer h.hub.CloseClient(client)

	h.log.Info("Record stream open", "client_id", client.ID, "collection_id", collectionID)
	h.hub.ServeHTTP(c.Writer, c.Request, client)
	h.log.Info("Record stream closed", "client_id", client.ID, "collection_id", collectionID)
}
