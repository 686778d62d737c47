package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imranmdl/tile-granite-management-sub002/internal/application/service"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/enum"
	"github.com/imranmdl/tile-granite-management-sub002/internal/domain/repository"
	"github.com/imranmdl/tile-granite-management-sub002/internal/presentation/http/dto/response"
)

// ReportHandler serves spreadsheet exports and profit reports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// CommissionsXLSX handles exporting the commission ledger. It accepts the
// same filters as the ledger listing.
func (h *ReportHandler) CommissionsXLSX(c *gin.Context) {
	filter, _, ok := ledgerFilter(c)
	if !ok {
		return
	}

	buf, err := h.reportService.ExportCommissionLedger(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	attachment(c, "commissions", buf.Bytes())
}

// InventoryXLSX handles exporting stock and valuation per item
func (h *ReportHandler) InventoryXLSX(c *gin.Context) {
	var filter repository.ItemFilter
	if v := c.Query("kind"); v != "" {
		kind, err := enum.ParseItemKind(v)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		filter.Kind = kind
	}

	buf, err := h.reportService.ExportInventory(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	attachment(c, "inventory", buf.Bytes())
}

// InvoiceProfit handles the margin of one invoice against historical cost.
// Query: mode=simple|detailed.
func (h *ReportHandler) InvoiceProfit(c *gin.Context) {
	invoiceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	mode, ok := costModeQuery(c)
	if !ok {
		return
	}

	result, err := h.reportService.InvoiceProfit(c.Request.Context(), invoiceID, mode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice profit retrieved successfully", result)
}

// ProfitReport handles margins over invoices dated within a range.
// Query: from, to (YYYY-MM-DD, default the current month), mode.
func (h *ReportHandler) ProfitReport(c *gin.Context) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	from, ok := optionalDate(c, "from", c.Query("from"))
	if !ok {
		return
	}
	to, ok := optionalDate(c, "to", c.Query("to"))
	if !ok {
		return
	}
	if from == nil {
		from = &monthStart
	}
	if to == nil {
		to = &today
	}
	mode, ok := costModeQuery(c)
	if !ok {
		return
	}

	result, err := h.reportService.ProfitReport(c.Request.Context(), from, to, mode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profit report retrieved successfully", result)
}

func attachment(c *gin.Context, name string, data []byte) {
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().Format("20060102_150405"))
	response.Attachment(c, filename, service.XLSXContentType, data)
}
