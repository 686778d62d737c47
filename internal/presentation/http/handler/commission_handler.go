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

// CommissionHandler handles commission sync, ledger and rate requests
type CommissionHandler struct {
	commissionService *service.CommissionService
	resolver          *service.SalesUserResolver
}

// NewCommissionHandler creates a new commission handler
func NewCommissionHandler(commissionService *service.CommissionService, resolver *service.SalesUserResolver) *CommissionHandler {
	return &CommissionHandler{commissionService: commissionService, resolver: resolver}
}

// Sync handles recomputing the commission of one invoice
func (h *CommissionHandler) Sync(c *gin.Context) {
	invoiceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.commissionService.SyncCommission(c.Request.Context(), invoiceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Commission synced successfully", result)
}

// Recompute handles a batch sync over an invoice date range
func (h *CommissionHandler) Recompute(c *gin.Context) {
	var req request.RecomputeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	from, ok := optionalDate(c, "date_from", req.DateFrom)
	if !ok {
		return
	}
	to, ok := optionalDate(c, "date_to", req.DateTo)
	if !ok {
		return
	}

	result, err := h.commissionService.RecomputeCommissions(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Commissions recomputed", result)
}

// ListLedger handles listing ledger entries. Non-admin callers only see
// their own entries.
func (h *CommissionHandler) ListLedger(c *gin.Context) {
	filter, params, ok := ledgerFilter(c)
	if !ok {
		return
	}

	result, err := h.commissionService.ListLedger(c.Request.Context(), filter, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Commission ledger retrieved successfully", result)
}

// SetStatus handles an administrative ledger status change
func (h *CommissionHandler) SetStatus(c *gin.Context) {
	invoiceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request.SetLedgerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	status, err := enum.ParseCommissionStatus(req.Status)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.commissionService.SetLedgerStatus(c.Request.Context(), invoiceID, service.SetLedgerStatusInput{
		Status:    status,
		Reference: req.Reference,
		Notes:     req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Commission status updated successfully", entry)
}

// ListRates handles listing commission rates. ?all=true includes inactive rates.
func (h *CommissionHandler) ListRates(c *gin.Context) {
	rates, err := h.commissionService.ListRates(c.Request.Context(), c.Query("all") != "true")
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Commission rates retrieved successfully", rates)
}

// CreateRate handles adding a commission rate
func (h *CommissionHandler) CreateRate(c *gin.Context) {
	var req request.CreateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	rate, err := h.commissionService.CreateRate(c.Request.Context(), service.CreateRateInput{
		Scope:   req.Scope,
		ScopeID: req.ScopeID,
		Pct:     req.Pct,
		Notes:   req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Commission rate created successfully", rate)
}

// DeactivateRate handles switching a rate off
func (h *CommissionHandler) DeactivateRate(c *gin.Context) {
	rateID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.commissionService.DeactivateRate(c.Request.Context(), rateID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// BackfillSalesUsers handles resolving legacy salesperson text onto users
func (h *CommissionHandler) BackfillSalesUsers(c *gin.Context) {
	result, err := h.resolver.BackfillSalesUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales users backfilled", result)
}

// ledgerFilter reads ledger filter query parameters
func ledgerFilter(c *gin.Context) (repository.LedgerFilter, *pagination.PaginationParams, bool) {
	var req request.LedgerFilterRequest
	var filter repository.LedgerFilter
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return filter, nil, false
	}

	if req.Status != "" {
		status, err := enum.ParseCommissionStatus(req.Status)
		if err != nil {
			response.BadRequest(c, err.Error())
			return filter, nil, false
		}
		filter.Status = &status
	}
	if req.UserID > 0 {
		filter.UserID = &req.UserID
	}
	if !IsAdmin(c) {
		filter.UserID = GetUserID(c)
	}

	var ok bool
	if filter.From, ok = optionalDate(c, "date_from", req.DateFrom); !ok {
		return filter, nil, false
	}
	if filter.To, ok = optionalDate(c, "date_to", req.DateTo); !ok {
		return filter, nil, false
	}

	return filter, &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage}, true
}
