package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/minicms-backend/internal/content/document"
	"github.com/yungbote/minicms-backend/internal/http/response"
	"github.com/yungbote/minicms-backend/internal/platform/apierr"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
	"github.com/yungbote/minicms-backend/internal/services"
)

type ContentHandler struct {
	log            *logger.Logger
	contentService services.ContentService
}

func NewContentHandler(log *logger.Logger, contentService services.ContentService) *ContentHandler {
	return &ContentHandler{
		log:            log.With("handler", "ContentHandler"),
		contentService: contentService,
	}
}

type writeRequest struct {
	Values map[string]document.Value `json:"values"`
}

func (h *ContentHandler) fail(c *gin.Context, op string, err error) {
	ae := toAPIError(err)
	if ae.Status >= 500 {
		h.log.Error(op+" failed", "error", err, "status", ae.Status)
	} else {
		h.log.Debug(op+" rejected", "error", err, "code", ae.Code)
	}
	response.RespondAPIError(c, ae)
}

func bindValues(c *gin.Context) (services.Values, error) {
	var req writeRequest
	if c.Request.ContentLength == 0 {
		return services.Values{}, nil
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_request", err)
	}
	if req.Values == nil {
		return services.Values{}, nil
	}
	return services.Values(req.Values), nil
}

// GET /api/v1/collections/:collection_id
func (h *ContentHandler) GetCollection(c *gin.Context) {
	view, err := h.contentService.GetCollection(c.Request.Context(), c.Param("collection_id"))
	if err != nil {
		h.fail(c, "GetCollection", err)
		return
	}
	response.RespondOK(c, gin.H{"collection": view.Collection, "items": view.Items})
}

// GET /api/v1/collections/:collection_id/:item_id
func (h *ContentHandler) GetRecord(c *gin.Context) {
	rec, err := h.contentService.GetRecord(c.Request.Context(), c.Param("collection_id"), c.Param("item_id"))
	if err != nil {
		h.fail(c, "GetRecord", err)
		return
	}
	response.RespondOK(c, gin.H{"record": rec})
}

// GET /api/v1/collections/:collection_id/:item_id/groups/*path
func (h *ContentHandler) GetGroupItem(c *gin.Context) {
	item, err := h.contentService.GetGroupItem(c.Request.Context(), c.Param("collection_id"), c.Param("item_id"), groupPath(c))
	if err != nil {
		h.fail(c, "GetGroupItem", err)
		return
	}
	response.RespondOK(c, gin.H{"item": item})
}

// GET /api/v1/collections/:collection_id/:item_id/history?limit=N
func (h *ContentHandler) ListHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	rows, err := h.contentService.ListHistory(c.Request.Context(), c.Param("collection_id"), c.Param("item_id"), limit)
	if err != nil {
		h.fail(c, "ListHistory", err)
		return
	}
	response.RespondOK(c, gin.H{"history": rows})
}

// PUT /api/v1/collections/:collection_id/:item_id
func (h *ContentHandler) UpdateFields(c *gin.Context) {
	values, err := bindValues(c)
	if err != nil {
		h.fail(c, "UpdateFields", err)
		return
	}
	rec, err := h.contentService.UpdateFields(c.Request.Context(), services.UpdateFieldsInput{
		CollectionID: c.Param("collection_id"),
		RecordID:     c.Param("item_id"),
		Values:       values,
	})
	if err != nil {
		h.fail(c, "UpdateFields", err)
		return
	}
	response.RespondOK(c, gin.H{"record": rec})
}

// PUT /api/v1/collections/:collection_id/:item_id/groups/*path
func (h *ContentHandler) UpdateGroupItem(c *gin.Context) {
	values, err := bindValues(c)
	if err != nil {
		h.fail(c, "UpdateGroupItem", err)
		return
	}
	rec, err := h.contentService.UpdateGroupItem(c.Request.Context(), services.UpdateGroupItemInput{
		CollectionID: c.Param("collection_id"),
		RecordID:     c.Param("item_id"),
		Path:         groupPath(c),
		Values:       values,
	})
	if err != nil {
		h.fail(c, "UpdateGroupItem", err)
		return
	}
	response.RespondOK(c, gin.H{"record": rec})
}

// POST /api/v1/collections/:collection_id/:item_id/groups/:field_id
func (h *ContentHandler) AppendGroupItem(c *gin.Context) {
	values, err := bindValues(c)
	if err != nil {
		h.fail(c, "AppendGroupItem", err)
		return
	}
	rec, err := h.contentService.AppendGroupItem(c.Request.Context(), services.AppendGroupItemInput{
		CollectionID: c.Param("collection_id"),
		RecordID:     c.Param("item_id"),
		FieldID:      c.Param("field_id"),
		Values:       values,
	})
	if err != nil {
		h.fail(c, "AppendGroupItem", err)
		return
	}
	response.RespondCreated(c, gin.H{"record": rec})
}

// groupPath strips the leading slash gin leaves on a catch-all parameter.
func groupPath(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("path"), "/")
}
