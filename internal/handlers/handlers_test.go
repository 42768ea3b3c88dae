package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shupe-carboni/pricebook-service/internal/series"
)

// TestListSeries tests the series catalog endpoint.
func TestListSeries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/internal/series", ListSeries(series.NewDefaultRegistry()))

	req, err := http.NewRequest("GET", "/internal/series", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response ListSeriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Series, 14)
	assert.Equal(t, "AMH", response.Series[0].Series)
}

// TestDecodeValidationErrors tests decode request validation before any
// reference data is touched.
func TestDecodeValidationErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/internal/models/decode", DecodeModel(series.NewDefaultRegistry()))

	tests := []struct {
		name       string
		reqBody    DecodeRequest
		wantStatus int
	}{
		{
			name:       "missing model",
			reqBody:    DecodeRequest{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad mode",
			reqBody:    DecodeRequest{Model: "HE362121", Mode: "yesterday"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jsonBody, err := json.Marshal(tt.reqBody)
			require.NoError(t, err)

			req, err := http.NewRequest("POST", "/internal/models/decode", bytes.NewBuffer(jsonBody))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// TestApplyPriceUpdateRejectsUnknownSeries tests the series guard on the
// update endpoint.
func TestApplyPriceUpdateRejectsUnknownSeries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/internal/pricing/updates/:series",
		ApplyPriceUpdate(series.NewDefaultRegistry(), nil, nil, 0))

	req, err := http.NewRequest("POST", "/internal/pricing/updates/ZZ", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestApplyPriceUpdateRejectsAliasSeries tests that a sheet for a
// private-label series is turned away toward the real series it prices from.
func TestApplyPriceUpdateRejectsAliasSeries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/internal/pricing/updates/:series",
		ApplyPriceUpdate(series.NewDefaultRegistry(), nil, nil, 0))

	req, err := http.NewRequest("POST", "/internal/pricing/updates/MX", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "HE")
}

// TestApplyPriceUpdateRejectsBadEffectiveDate tests effective_date parsing.
func TestApplyPriceUpdateRejectsBadEffectiveDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/internal/pricing/updates/:series",
		ApplyPriceUpdate(series.NewDefaultRegistry(), nil, nil, 0))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("effective_date", "not-a-date"))
	require.NoError(t, mw.Close())

	req, err := http.NewRequest("POST", "/internal/pricing/updates/HE", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestExtractRequiresFile tests the multipart guard on the extract endpoint.
func TestExtractRequiresFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/internal/pricebooks/extract",
		ExtractPricebook(series.NewDefaultRegistry(), nil, 0))

	req, err := http.NewRequest("POST", "/internal/pricebooks/extract", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
