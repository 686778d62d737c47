package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imranmdl/tile-granite-management-sub002/internal/application/service"
	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/dto/request"
	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/dto/response"
)

// CostingHandler handles cost lookups and previews
type CostingHandler struct {
	costingService *service.CostingService
}

// NewCostingHandler creates a new costing handler
func NewCostingHandler(costingService *service.CostingService) *CostingHandler {
	return &CostingHandler{costingService: costingService}
}

// HistoricalCost handles the landed cost of an item as of a date.
// Query: as_of=YYYY-MM-DD (default today), mode=simple|detailed.
func (h *CostingHandler) HistoricalCost(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	asOf := time.Now()
	if v := c.Query("as_of"); v != "" {
		parsed, ok := optionalDate(c, "as_of", v)
		if !ok {
			return
		}
		asOf = *parsed
	}

	mode, ok := costModeQuery(c)
	if !ok {
		return
	}

	result, err := h.costingService.SelectHistoricalCost(c.Request.Context(), itemID, asOf, mode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Historical cost retrieved successfully", result)
}

// PreviewLandedCost handles a landed-cost breakdown for unsaved values
func (h *CostingHandler) PreviewLandedCost(c *gin.Context) {
	var req request.LandedCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	fields, err := req.ToFields()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result := h.costingService.PreviewLandedCost(fields, req.Kind, req.AreaPerPackage)
	response.OK(c, "Landed cost computed successfully", result)
}
