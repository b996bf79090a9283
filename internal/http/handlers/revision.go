package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/carbonmatch-backend/internal/http/response"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
	"github.com/yungbote/carbonmatch-backend/internal/services"
)

type RevisionHandler struct {
	log       *logger.Logger
	revisions services.RevisionService
}

func NewRevisionHandler(log *logger.Logger, revisions services.RevisionService) *RevisionHandler {
	return &RevisionHandler{log: log.With("handler", "RevisionHandler"), revisions: revisions}
}

// quantityText accepts a JSON number or string and keeps its text, so
// non-numeric input reaches the revision service and is flagged there.
type quantityText struct {
	Value *string
}

func (q *quantityText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		q.Value = nil
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		q.Value = &s
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		return errors.New("revised_quantity must be a number or string")
	}
	s := string(b)
	q.Value = &s
	return nil
}

type reviseRequest struct {
	DeliveryNoteRefNo         string       `json:"delivery_note_ref_no"`
	ItemNo                    int64        `json:"item_no"`
	RevisedPhaseID            *uint        `json:"revised_phase_id"`
	RevisedProductDescription *string      `json:"revised_product_description"`
	RevisedUnitOfMeasure      *string      `json:"revised_unit_of_measure"`
	RevisedQuantity           quantityText `json:"revised_quantity"`
	RevisedUserID             string       `json:"revised_user_id"`
}

// POST /api/delivery-notes/revise
func (h *RevisionHandler) Revise(c *gin.Context) {
	var req reviseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.revisions.ApplyRevision(c.Request.Context(), services.RevisionInput{
		DeliveryNoteRefNo:         req.DeliveryNoteRefNo,
		ItemNo:                    req.ItemNo,
		RevisedPhaseID:            req.RevisedPhaseID,
		RevisedProductDescription: req.RevisedProductDescription,
		RevisedUnitOfMeasure:      req.RevisedUnitOfMeasure,
		RevisedQuantity:           req.RevisedQuantity.Value,
		RevisedUserID:             req.RevisedUserID,
	})
	if err != nil {
		response.RespondServiceError(c, "revision_failed", err)
		return
	}
	response.RespondOK(c, res)
}
