package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/minicms-backend/internal/http/response"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
	"github.com/yungbote/minicms-backend/internal/services"
)

type AccountHandler struct {
	log            *logger.Logger
	accountService services.AccountService
}

func NewAccountHandler(log *logger.Logger, accountService services.AccountService) *AccountHandler {
	return &AccountHandler{
		log:            log.With("handler", "AccountHandler"),
		accountService: accountService,
	}
}

func (h *AccountHandler) GetMe(c *gin.Context) {
	u, err := h.accountService.Me(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

func (h *AccountHandler) GetRepoAccess(c *gin.Context) {
	access, err := h.accountService.RepoAccess(c.Request.Context())
	if err != nil {
		h.log.Warn("GetRepoAccess failed", "error", err)
		response.RespondAPIError(c, toAPIError(err))
		return
	}
	response.RespondOK(c, access)
}
