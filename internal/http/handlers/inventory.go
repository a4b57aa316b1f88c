package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront-backend/internal/http/response"
	apperrors "github.com/yungbote/storefront-backend/internal/pkg/errors"
	"github.com/yungbote/storefront-backend/internal/services"
)

type InventoryHandler struct {
	inventoryService services.InventoryService
}

func NewInventoryHandler(inventoryService services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// POST /api/inventory/reserve
// body: { "items": [{"product_id", "variant_id"?, "quantity"}], "holder_id", "session_id" }
func (ih *InventoryHandler) Reserve(c *gin.Context) {
	var req struct {
		Items     []services.ReserveItem `json:"items" binding:"required"`
		HolderID  string                 `json:"holder_id" binding:"required"`
		SessionID string                 `json:"session_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := ih.inventoryService.Reserve(c.Request.Context(), req.Items, req.HolderID, req.SessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidArgument) {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		response.RespondStockError(c, err)
		return
	}
	response.RespondOK(c, result)
}

// POST /api/inventory/confirm
// body: { "order_id", "items": [...], "holder_id" }
func (ih *InventoryHandler) Confirm(c *gin.Context) {
	var req struct {
		OrderID  string                 `json:"order_id" binding:"required"`
		Items    []services.ReserveItem `json:"items" binding:"required"`
		HolderID string                 `json:"holder_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := ih.inventoryService.ConfirmStockReservation(c.Request.Context(), req.OrderID, req.Items, req.HolderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidArgument) {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		if se := apperrors.AsStockError(err); se != nil && result != nil {
			// Partial result travels with the error so the checkout flow
			// can decide re-reserve vs abort per item.
			c.JSON(http.StatusConflict, gin.H{
				"error":  gin.H{"message": se.Error(), "code": string(se.Code)},
				"result": result,
			})
			return
		}
		response.RespondStockError(c, err)
		return
	}
	response.RespondOK(c, result)
}

// POST /api/inventory/release
// body: { "items": [{"product_id", "variant_id"?, "quantity", "holder_id"?}], "reason"? }
func (ih *InventoryHandler) Release(c *gin.Context) {
	var req struct {
		Items  []services.ReleaseItem `json:"items" binding:"required"`
		Reason string                 `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := ih.inventoryService.ReleaseReservations(c.Request.Context(), req.Items, req.Reason)
	if err != nil {
		response.RespondStockError(c, err)
		return
	}
	response.RespondOK(c, result)
}
