package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/imranmdl/tile-granite-management-sub002/internal/application/service"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/dto/request"
	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/dto/response"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/pagination"
)

// InventoryHandler handles item stock and receipt requests
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// ListItems handles listing items
func (h *InventoryHandler) ListItems(c *gin.Context) {
	var req request.ItemFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := repository.ItemFilter{Search: req.Search}
	if req.Kind != "" {
		kind, err := enum.ParseItemKind(req.Kind)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		filter.Kind = kind
	}

	result, err := h.inventoryService.ListItems(c.Request.Context(), filter, &pagination.PaginationParams{
		Page:    req.Page,
		PerPage: req.PerPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Items retrieved successfully", result)
}

// Availability handles the available quantity of one item
func (h *InventoryHandler) Availability(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	available, err := h.inventoryService.ComputeAvailability(c.Request.Context(), itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Availability retrieved successfully", gin.H{
		"item_id":   itemID,
		"available": available,
	})
}

// Summary handles stock totals and valuation of one item
func (h *InventoryHandler) Summary(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	summary, err := h.inventoryService.Summary(c.Request.Context(), itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Inventory summary retrieved successfully", summary)
}

// CreateReceipt handles recording a purchase line
func (h *InventoryHandler) CreateReceipt(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request.ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	fields, err := req.ToFields()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.inventoryService.CreateReceipt(c.Request.Context(), itemID, fields)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Receipt created successfully", result)
}

// UpdateReceipt handles an inventory edit of a receipt
func (h *InventoryHandler) UpdateReceipt(c *gin.Context) {
	receiptID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request.ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	fields, err := req.ToFields()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.inventoryService.ValidateAndApplyReceiptEdit(c.Request.Context(), receiptID, fields)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt updated successfully", result)
}

// DeleteReceipt handles deleting a receipt
func (h *InventoryHandler) DeleteReceipt(c *gin.Context) {
	receiptID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteReceipt(c.Request.Context(), receiptID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
