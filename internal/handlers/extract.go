package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/shupe-carboni/pricebook-service/internal/database"
	"github.com/shupe-carboni/pricebook-service/internal/extract"
	"github.com/shupe-carboni/pricebook-service/internal/refdata"
	"github.com/shupe-carboni/pricebook-service/internal/series"
	"github.com/shupe-carboni/pricebook-service/internal/storage"
	"github.com/shupe-carboni/pricebook-service/internal/types"
)

// ExtractResponse is the result of one workbook extraction.
type ExtractResponse struct {
	*extract.Result
	ArchiveID string `json:"archiveId,omitempty"`
}

// ExtractPricebook scans an uploaded workbook for models and prices them.
// POST /internal/pricebooks/extract  (multipart: file, mode?, customerId?)
func ExtractPricebook(reg *series.Registry, archives storage.Storage, maxUploadBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
			return
		}
		if maxUploadBytes > 0 && fileHeader.Size > maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "workbook exceeds upload limit"})
			return
		}

		mode := types.ModeCurrent
		if m := c.PostForm("mode"); m != "" {
			mode = types.PricingMode(m)
			if !mode.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be 'current' or 'future'"})
				return
			}
		}

		var customerID *int64
		if raw := c.PostForm("customerId"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "customerId must be an integer"})
				return
			}
			customerID = &id
		}

		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open upload"})
			return
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
			return
		}

		ctx := c.Request.Context()

		// Archive before extraction so a failed parse still leaves the
		// uploaded workbook on record.
		var archiveID string
		if archives != nil {
			archive, err := database.ArchiveWorkbook(ctx, archives, "", "pricebook", fileHeader.Filename, content)
			if err != nil {
				log.Error().Str("filename", fileHeader.Filename).Err(err).
					Msg("Failed to archive pricebook workbook")
			} else {
				archiveID = archive.ID
			}
		}

		store := refdata.NewPGStore(database.Pool())
		result, err := extract.Parse(ctx, store, reg, content, mode)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		if customerID != nil {
			extract.AttachCustomerPricing(ctx, store, *customerID, result.Models)
		}

		c.JSON(http.StatusOK, ExtractResponse{Result: result, ArchiveID: archiveID})
	}
}
