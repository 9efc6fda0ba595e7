package handler

import (
	"context"
	"net/http"

	"shopsaver-api/internal/models"

	"github.com/gin-gonic/gin"
)

// ComparisonHandler handles price comparison and store lookup requests
type ComparisonHandler struct {
	service ComparisonService
}

// ComparisonService interface for dependency injection
type ComparisonService interface {
	Compare(context.Context, models.ComparisonRequest) (*models.ComparisonResult, error)
	NearbyStores(context.Context, models.LocationQuery) ([]models.StoreInfo, error)
}

// NewComparisonHandler creates a new comparison handler
func NewComparisonHandler(svc ComparisonService) *ComparisonHandler {
	useJSONFieldNames()
	return &ComparisonHandler{service: svc}
}

// ComparePrices handles POST /api/compare-prices requests
//
//	@Summary		Compare grocery prices
//	@Description	Prices the grocery list at every store within the radius and ranks the stores.
//	@Tags			comparison
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.ComparisonRequest	true	"Location and grocery list"
//	@Success		200		{object}	models.ComparisonResult
//	@Failure		400		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Failure		504		{object}	ErrorResponse
//	@Router			/api/compare-prices [post]
func (h *ComparisonHandler) ComparePrices(c *gin.Context) {
	var req models.ComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	result, err := h.service.Compare(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// NearbyStores handles GET /api/stores/nearby requests
//
//	@Summary		List nearby stores
//	@Tags			stores
//	@Produce		json
//	@Param			latitude	query		number	true	"Latitude"
//	@Param			longitude	query		number	true	"Longitude"
//	@Param			radius_km	query		number	false	"Search radius in kilometres"
//	@Success		200			{array}		models.StoreInfo
//	@Failure		400			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/api/stores/nearby [get]
func (h *ComparisonHandler) NearbyStores(c *gin.Context) {
	if c.Query("latitude") == "" || c.Query("longitude") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'latitude' and 'longitude'"})
		return
	}

	var loc models.LocationQuery
	if err := c.ShouldBindQuery(&loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude, longitude and radius_km must be numbers"})
		return
	}

	stores, err := h.service.NearbyStores(c.Request.Context(), loc)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stores)
}
