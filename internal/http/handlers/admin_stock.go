package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/storefront-backend/internal/http/response"
	apperrors "github.com/yungbote/storefront-backend/internal/pkg/errors"
	"github.com/yungbote/storefront-backend/internal/services"
)

type AdminStockHandler struct {
	adminService     services.StockAdminService
	analyticsService services.StockAnalyticsService
}

func NewAdminStockHandler(adminService services.StockAdminService, analyticsService services.StockAnalyticsService) *AdminStockHandler {
	return &AdminStockHandler{
		adminService:     adminService,
		analyticsService: analyticsService,
	}
}

// PATCH /api/admin/products/:productId/variants/:variantId/stock
// body: { "quantity_change": -3, "reason": "damaged in warehouse" }
// quantity_change is a signed delta; the bulk endpoint is the absolute one.
func (ah *AdminStockHandler) UpdateVariantStock(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
		return
	}
	variantID, err := uuid.Parse(c.Param("variantId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_variant_id", err)
		return
	}

	var req struct {
		QuantityChange int    `json:"quantity_change" binding:"required"`
		Reason         string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := ah.adminService.UpdateVariantStock(c.Request.Context(), productID, variantID, req.QuantityChange, req.Reason)
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

// POST /api/admin/stock/bulk
// body: { "updates": [{"product_id", "quantity", "reason"?}] }
// quantity is an absolute on_hand target. Entries are independent; failures
// come back per entry and never roll back the others.
func (ah *AdminStockHandler) BulkStockUpdate(c *gin.Context) {
	var req struct {
		Updates []services.BulkStockEntry `json:"updates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	performedBy := c.GetString("admin_subject")
	result, err := ah.adminService.BulkStockUpdate(c.Request.Context(), req.Updates, performedBy)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidArgument) {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "bulk_update_failed", err)
		return
	}
	response.RespondOK(c, result)
}

// GET /api/admin/stock/analytics
func (ah *AdminStockHandler) StockAnalytics(c *gin.Context) {
	dist, err := ah.analyticsService.Distribution(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "analytics_failed", err)
		return
	}
	totals, err := ah.analyticsService.ReservationTotals(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "analytics_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"distribution": dist,
		"reservations": totals,
	})
}

// GET /api/admin/stock/low?limit=50
func (ah *AdminStockHandler) LowStock(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = parsed
	}

	items, err := ah.analyticsService.LowStock(c.Request.Context(), limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "low_stock_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"items": items})
}
