package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/carbonmatch-backend/internal/http/response"
	"github.com/yungbote/carbonmatch-backend/internal/services"
)

type ChangeLogHandler struct {
	changes services.ChangeLogService
}

func NewChangeLogHandler(changes services.ChangeLogService) *ChangeLogHandler {
	return &ChangeLogHandler{changes: changes}
}

// GET /api/delivery-notes/:ref/changes
func (h *ChangeLogHandler) ListByDeliveryNote(c *gin.Context) {
	entries, err := h.changes.ListByDeliveryNote(c.Request.Context(), c.Param("ref"))
	if err != nil {
		response.RespondServiceError(c, "list_change_log_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"changes": entries})
}
