package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/carbonmatch-backend/internal/http/response"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/ctxutil"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
	"github.com/yungbote/carbonmatch-backend/internal/services"
)

const ProcessedMessage = "All unprocessed records have been processed."

type BestMatchHandler struct {
	log       *logger.Logger
	matcher   services.MatchEnrichmentService
	lineItems services.LineItemService
}

func NewBestMatchHandler(log *logger.Logger, matcher services.MatchEnrichmentService, lineItems services.LineItemService) *BestMatchHandler {
	return &BestMatchHandler{
		log:       log.With("handler", "BestMatchHandler"),
		matcher:   matcher,
		lineItems: lineItems,
	}
}

// POST /api/best-match/process
func (h *BestMatchHandler) Process(c *gin.Context) {
	summary, err := h.matcher.ProcessPending(c.Request.Context())
	if err != nil {
		h.log.Error("Processing pending records failed", append(ctxutil.LogFields(c.Request.Context()), "error", err)...)
		response.RespondError(c, http.StatusInternalServerError, "process_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"message": ProcessedMessage, "summary": summary})
}

// GET /api/best-match
// Pending records are processed before listing.
func (h *BestMatchHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := h.matcher.ProcessPending(ctx); err != nil {
		h.log.Error("Processing pending records failed", append(ctxutil.LogFields(ctx), "error", err)...)
		response.RespondError(c, http.StatusInternalServerError, "process_failed", err)
		return
	}
	items, err := h.lineItems.List(ctx, c.Query("delivery_note_ref_no"))
	if err != nil {
		response.RespondServiceError(c, "list_line_items_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"line_items": items})
}

// GET /api/best-match/:id
func (h *BestMatchHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_line_item_id", err)
		return
	}
	ctx := c.Request.Context()
	if _, err := h.matcher.ProcessPending(ctx); err != nil {
		h.log.Error("Processing pending records failed", append(ctxutil.LogFields(ctx), "error", err)...)
		response.RespondError(c, http.StatusInternalServerError, "process_failed", err)
		return
	}
	item, err := h.lineItems.Get(ctx, uint(id))
	if err != nil {
		response.RespondServiceError(c, "line_item_not_found", err)
		return
	}
	response.RespondOK(c, gin.H{"line_item": item})
}
