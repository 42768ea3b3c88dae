package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shupe-carboni/pricebook-service/internal/series"
)

// ListSeriesResponse lists the registered grammars in decode priority order.
type ListSeriesResponse struct {
	Series []series.SeriesInfo `json:"series"`
}

// ListSeries returns the registered product series.
// GET /internal/series
func ListSeries(reg *series.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, ListSeriesResponse{Series: reg.Describe()})
	}
}
