package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/storefront-backend/internal/http/response"
	"github.com/yungbote/storefront-backend/internal/services"
)

type StockStatusHandler struct {
	statusService services.StockStatusService
}

func NewStockStatusHandler(statusService services.StockStatusService) *StockStatusHandler {
	return &StockStatusHandler{statusService: statusService}
}

// POST /api/stock/status
// body: { "product_ids": ["..."] }
func (sh *StockStatusHandler) GetStockStatus(c *gin.Context) {
	var req struct {
		ProductIDs []uuid.UUID `json:"product_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	statuses, err := sh.statusService.GetStockStatus(c.Request.Context(), req.ProductIDs)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "stock_status_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"statuses": statuses})
}
