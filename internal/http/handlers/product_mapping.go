package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/carbonmatch-backend/internal/http/response"
	"github.com/yungbote/carbonmatch-backend/internal/services"
)

type ProductMappingHandler struct {
	mappings services.ProductMappingService
}

func NewProductMappingHandler(mappings services.ProductMappingService) *ProductMappingHandler {
	return &ProductMappingHandler{mappings: mappings}
}

// GET /api/product-mappings?product_description=
func (h *ProductMappingHandler) List(c *gin.Context) {
	mappings, err := h.mappings.List(c.Request.Context(), c.Query("product_description"))
	if err != nil {
		response.RespondServiceError(c, "list_product_mappings_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"product_mappings": mappings})
}
