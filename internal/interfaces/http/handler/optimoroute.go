package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fieldops/backend/internal/application/routing"
	domainrouting "github.com/fieldops/backend/internal/domain/routing"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Headers the dashboard sends with order lookups
const searchAllowHeaders = "authorization, x-client-info, apikey, content-type"

// SearchErrorBody is the flat error body of the order lookup
type SearchErrorBody struct {
	Error   string `json:"error" example:"Order not found"`
	Success bool   `json:"success" example:"false"`
}

// SearchSuccessBody is the flat success body of the order lookup
type SearchSuccessBody struct {
	Success        bool            `json:"success" example:"true"`
	Orders         json.RawMessage `json:"orders" swaggertype:"array,object"`
	CompletionData json.RawMessage `json:"completion_data" swaggertype:"object"`
}

// OptimoRouteHandler fronts the OptimoRoute API
type OptimoRouteHandler struct {
	BaseHandler
	search *routing.SearchService
	bulk   *routing.BulkFetchService
	imp    *routing.ImportService
}

// NewOptimoRouteHandler creates a new OptimoRouteHandler
func NewOptimoRouteHandler(search *routing.SearchService, bulk *routing.BulkFetchService, imp *routing.ImportService) *OptimoRouteHandler {
	return &OptimoRouteHandler{search: search, bulk: bulk, imp: imp}
}

func setSearchCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", searchAllowHeaders)
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
}

// SearchPreflight answers the browser preflight of an order lookup
// @Summary      Order lookup preflight
// @Tags         optimoroute
// @Produce      plain
// @Success      200 {string} string "ok"
// @Router       /optimoroute/search [options]
func (h *OptimoRouteHandler) SearchPreflight(c *gin.Context) {
	setSearchCORS(c)
	c.String(http.StatusOK, "ok")
}

// Search godoc
// @Summary      Look up one order
// @Description  Runs search_orders then get_completion_details and returns both payloads unchanged.
// @Description  Unlike the rest of the API the body is flat: {success, orders, completion_data} or {error, success}.
// @Tags         optimoroute
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body routing.SearchRequest true "Order number"
// @Success      200 {object} SearchSuccessBody
// @Failure      404 {object} SearchErrorBody
// @Failure      500 {object} SearchErrorBody
// @Router       /optimoroute/search [post]
func (h *OptimoRouteHandler) Search(c *gin.Context) {
	setSearchCORS(c)

	// An empty body reads as {}
	var req routing.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusInternalServerError, SearchErrorBody{Error: err.Error()})
		return
	}

	result, err := h.search.Search(c.Request.Context(), req.SearchQuery)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, SearchSuccessBody{
			Success:        true,
			Orders:         result.Orders,
			CompletionData: result.CompletionData,
		})
	case errors.Is(err, domainrouting.ErrAPIKeyNotConfigured):
		c.JSON(http.StatusInternalServerError, SearchErrorBody{Error: "API key not configured"})
	case errors.Is(err, routing.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, SearchErrorBody{Error: "Order not found"})
	case errors.Is(err, routing.ErrSearchQueryRequired):
		c.JSON(http.StatusInternalServerError, SearchErrorBody{Error: err.Error()})
	default:
		logger.FromContext(c.Request.Context()).Error("Order lookup failed",
			zap.String("search_query", req.SearchQuery),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, SearchErrorBody{Error: err.Error()})
	}
}

// BulkOrders godoc
// @Summary      Fetch orders for a date range
// @Description  Pages through search_orders. with-completion keeps only orders whose completion status is success; plain keeps all. Orders are deduplicated by id.
// @Tags         optimoroute
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body routing.BulkOrdersRequest true "Range"
// @Success      200 {object} dto.Response{data=routing.BulkOrdersResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /optimoroute/bulk-orders [post]
func (h *OptimoRouteHandler) BulkOrders(c *gin.Context) {
	var req routing.BulkOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.bulk.FetchOrders(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Import godoc
// @Summary      Import completed orders as work orders
// @Description  Same run as the daily import, for an explicit date range
// @Tags         optimoroute
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body routing.ImportRequest true "Range"
// @Success      200 {object} dto.Response{data=routing.ImportResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /optimoroute/import [post]
func (h *OptimoRouteHandler) Import(c *gin.Context) {
	var req routing.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.imp.Import(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
