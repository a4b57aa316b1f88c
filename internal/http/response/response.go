package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yungbote/storefront-backend/internal/pkg/errors"
)

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	ProductID string `json:"product_id,omitempty"`
	VariantID string `json:"variant_id,omitempty"`
	Requested int    `json:"requested,omitempty"`
	Available int    `json:"available,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondStockError maps a domain error to its HTTP shape, attaching the
// quantities the UI needs (e.g. actual availability on INSUFFICIENT_STOCK).
func RespondStockError(c *gin.Context, err error) {
	se := apperrors.AsStockError(err)
	if se == nil {
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
		return
	}

	status := http.StatusConflict
	switch se.Code {
	case apperrors.CodeProductNotFound, apperrors.CodeVariantNotFound:
		status = http.StatusNotFound
	}

	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message:   se.Error(),
			Code:      string(se.Code),
			ProductID: se.ProductID,
			VariantID: se.VariantID,
			Requested: se.Requested,
			Available: se.Available,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
