package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shupe-carboni/pricebook-service/internal/database"
	"github.com/shupe-carboni/pricebook-service/internal/extract"
	"github.com/shupe-carboni/pricebook-service/internal/refdata"
	"github.com/shupe-carboni/pricebook-service/internal/series"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

// DecodeRequest is the body of POST /internal/models/decode.
type DecodeRequest struct {
	Model      string `json:"model" binding:"required"`
	Mode       string `json:"mode"`
	CustomerID *int64 `json:"customerId"`
}

// DecodeResponse holds the priced records for one decode request. Models
// carries more than one element only for wildcard inputs.
type DecodeResponse struct {
	Models []types.PricedModel `json:"models"`
}

// DecodeModel decodes and prices one raw model string.
// POST /internal/models/decode
func DecodeModel(reg *series.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DecodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		mode := types.ModeCurrent
		if req.Mode != "" {
			mode = types.PricingMode(req.Mode)
			if !mode.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be 'current' or 'future'"})
				return
			}
		}

		store := refdata.NewPGStore(database.Pool())
		models, ok := reg.Decode(c.Request.Context(), store, req.Model, mode)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "not a recognized model"})
			return
		}

		if req.CustomerID != nil {
			extract.AttachCustomerPricing(c.Request.Context(), store, *req.CustomerID, models)
		}

		c.JSON(http.StatusOK, DecodeResponse{Models: models})
	}
}
