package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/shupe-carboni/pricebook-service/internal/database"
	"github.com/shupe-carboni/pricebook-service/internal/series"
	"github.com/shupe-carboni/pricebook-service/internal/storage"
	"github.com/shupe-carboni/pricebook-service/internal/types"
	"github.com/shupe-carboni/pricebook-service/internal/update"
)

// ApplyPriceUpdate ingests a vendor price sheet for one series and runs the
// staged update against it.
// POST /internal/pricing/updates/:series  (multipart: file, effective_date?)
func ApplyPriceUpdate(reg *series.Registry, engine *update.Engine, archives storage.Storage, maxUploadBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		seriesID := c.Param("series")
		info, known := findSeries(reg, seriesID)
		if !known {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown series: " + seriesID})
			return
		}
		if info.PricesAs != "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": fmt.Sprintf("series %s prices from the %s base rows; apply the sheet to %s",
					seriesID, info.PricesAs, info.PricesAs),
			})
			return
		}

		effectiveDate := time.Now()
		if raw := c.PostForm("effective_date"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "effective_date must be YYYY-MM-DD"})
				return
			}
			effectiveDate = parsed
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
			return
		}
		if maxUploadBytes > 0 && fileHeader.Size > maxUploadBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "workbook exceeds upload limit"})
			return
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

		filename := fileHeader.Filename
		runID, err := database.CreateRun(ctx, seriesID, "api", effectiveDate, &filename)
		if err != nil {
			log.Error().Str("series", seriesID).Err(err).Msg("Failed to create price update run")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record update run"})
			return
		}

		if archives != nil {
			archive, err := database.ArchiveWorkbook(ctx, archives, seriesID, "price_update", filename, content)
			if err != nil {
				log.Error().Str("run_id", runID).Err(err).Msg("Failed to archive price update workbook")
			} else if err := database.SetRunArchivePath(ctx, runID, archive.ArchivePath); err != nil {
				log.Error().Str("run_id", runID).Err(err).Msg("Failed to link archive to run")
			}
		}

		sheet, err := update.ParseSheet(content, seriesID, reg, update.DefaultLayout)
		if err != nil {
			msg := err.Error()
			if ferr := database.FinishRun(ctx, runID, string(types.UpdateRolledBack), 0, 0, 0, 0, &msg); ferr != nil {
				log.Error().Str("run_id", runID).Err(ferr).Msg("Failed to finalize unparseable run")
			}
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg, "runId": runID})
			return
		}

		result, err := engine.Apply(ctx, runID, sheet, effectiveDate)
		if err != nil {
			status := http.StatusUnprocessableEntity
			if result == nil {
				status = http.StatusInternalServerError
				result = &types.UpdateResult{RunID: runID, Series: seriesID, Status: types.UpdateRolledBack}
			}
			c.JSON(status, gin.H{"error": err.Error(), "result": result})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// ListUpdateRuns returns recent price update runs, newest first.
// GET /internal/pricing/updates?series=HE&limit=50
func ListUpdateRuns() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
				return
			}
			limit = parsed
		}
		runs, err := database.ListRuns(c.Request.Context(), c.Query("series"), limit)
		if err != nil {
			log.Error().Err(err).Msg("Failed to list price update runs")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list update runs"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
	}
}

// GetUpdateRun returns one run by ID.
// GET /internal/pricing/updates/:id
func GetUpdateRun() gin.HandlerFunc {
	return func(c *gin.Context) {
		runID := c.Param("id")
		run, err := database.GetRun(c.Request.Context(), runID)
		if err != nil {
			log.Error().Str("run_id", runID).Err(err).Msg("Failed to fetch price update run")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch update run"})
			return
		}
		if run == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such run: " + runID})
			return
		}
		c.JSON(http.StatusOK, run)
	}
}

// DownloadRunArchive streams the archived workbook recorded for a run.
// GET /internal/pricing/updates/:id/archive
func DownloadRunArchive(archives storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		runID := c.Param("id")
		run, err := database.GetRun(c.Request.Context(), runID)
		if err != nil {
			log.Error().Str("run_id", runID).Err(err).Msg("Failed to fetch price update run")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch update run"})
			return
		}
		if run == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such run: " + runID})
			return
		}
		if run.ArchivePath == nil || *run.ArchivePath == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "run has no archived workbook"})
			return
		}

		content, err := archives.Get(c.Request.Context(), *run.ArchivePath)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "archived workbook is gone"})
			return
		}
		if err != nil {
			log.Error().Str("run_id", runID).Str("key", *run.ArchivePath).Err(err).
				Msg("Failed to read archived workbook")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read archived workbook"})
			return
		}

		filename := "workbook.xlsx"
		if run.Filename != nil && *run.Filename != "" {
			filename = *run.Filename
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
	}
}

func findSeries(reg *series.Registry, seriesID string) (series.SeriesInfo, bool) {
	for _, info := range reg.Describe() {
		if info.Series == seriesID {
			return info, true
		}
	}
	return series.SeriesInfo{}, false
}
